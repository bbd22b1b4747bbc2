package main

import "github.com/LegacyCodeHQ/p4migrate/cmd"

func main() {
	cmd.Execute()
}

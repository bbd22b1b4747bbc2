package p4

import (
	"fmt"
	"strings"
)

func validateArg(kind, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", kind)
	}
	if strings.HasPrefix(value, "-") {
		return fmt.Errorf("%s cannot start with '-': %q", kind, value)
	}
	if strings.ContainsAny(value, "\x00\n\r") {
		return fmt.Errorf("%s contains a line break or NUL: %q", kind, value)
	}
	return nil
}

func validateDepotPath(kind, path string) error {
	if err := validateArg(kind, path); err != nil {
		return err
	}
	if !strings.HasPrefix(path, "//") {
		return fmt.Errorf("%s must be a depot path starting with '//': %q", kind, path)
	}
	return nil
}

package cmdutil

import (
	"github.com/LegacyCodeHQ/p4migrate/settings"
	"github.com/LegacyCodeHQ/p4migrate/vcs/p4"
)

// NewP4Client creates a Perforce client for conn. A nil runner uses the p4
// binary on PATH.
func NewP4Client(conn settings.Connection, runner p4.Runner) *p4.Client {
	client := p4.New(conn.Port, conn.User, conn.Client)
	if runner != nil {
		client.Runner = runner
	}
	return client
}

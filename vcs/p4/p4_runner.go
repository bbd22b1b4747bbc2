package p4

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const defaultCommandTimeout = 30 * time.Second

// Runner executes the p4 command-line client.
type Runner interface {
	Run(ctx context.Context, stdin []byte, args ...string) (stdout []byte, stderr string, err error)
}

// ExecRunner runs the p4 binary found on PATH (or Binary when set).
type ExecRunner struct {
	Binary string
	Dir    string
}

// Run executes one p4 command and captures its output.
func (r ExecRunner) Run(ctx context.Context, stdin []byte, args ...string) ([]byte, string, error) {
	binary := r.Binary
	if binary == "" {
		binary = "p4"
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = r.Dir
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrText := strings.TrimSpace(stderr.String())
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return stdout.Bytes(), stderrText, fmt.Errorf("p4 command timed out: %w", ctx.Err())
		}
		return stdout.Bytes(), stderrText, err
	}

	return stdout.Bytes(), strings.TrimSpace(stderr.String()), nil
}

// CommandError describes a failed p4 invocation.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	command := "p4 " + strings.Join(e.Args, " ")
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %s", command, e.Stderr)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %v", command, e.Err)
	}
	return command + " failed"
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

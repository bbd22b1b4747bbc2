// Package p4test provides a scripted stand-in for the p4 binary.
package p4test

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// FakeRunner returns canned output keyed by the command after the global
// -ztag, -Mj, -p, -u and -c flags. Unknown commands fail.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]response
	calls     [][]string
	stdins    map[string]string
}

type response struct {
	stdout string
	stderr string
	err    error
}

// NewFakeRunner creates a runner with no scripted commands.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		responses: make(map[string]response),
		stdins:    make(map[string]string),
	}
}

// On scripts command to print stdout, one JSON record per line.
func (f *FakeRunner) On(command, stdout string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[command] = response{stdout: stdout}
	return f
}

// Fail scripts command to exit non-zero with stderr.
func (f *FakeRunner) Fail(command, stderr string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[command] = response{stderr: stderr, err: errors.New("exit status 1")}
	return f
}

// Run implements p4.Runner.
func (f *FakeRunner) Run(_ context.Context, stdin []byte, args ...string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, args)
	command := strings.Join(StripGlobals(args), " ")
	if stdin != nil {
		f.stdins[command] = string(stdin)
	}

	resp, ok := f.responses[command]
	if !ok {
		return nil, "unexpected command: " + command, errors.New("exit status 1")
	}
	return []byte(resp.stdout), resp.stderr, resp.err
}

// Calls returns every argument list Run received, global flags included.
func (f *FakeRunner) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}

// Stdin returns what was written to the standard input of command.
func (f *FakeRunner) Stdin(command string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stdins[command]
}

// Ran reports whether command was run at least once.
func (f *FakeRunner) Ran(command string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, call := range f.calls {
		if strings.Join(StripGlobals(call), " ") == command {
			return true
		}
	}
	return false
}

// StripGlobals drops the leading global flags from a p4 argument list.
func StripGlobals(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-ztag", "-Mj":
			continue
		case "-p", "-u", "-c":
			i++
			continue
		}
		out = append(out, args[i:]...)
		break
	}
	return out
}

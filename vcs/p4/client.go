// Package p4 drives the Perforce command-line client for the queries and
// branch specs a stream migration needs.
package p4

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Client runs p4 commands against one server, user and workspace.
type Client struct {
	Port       string
	User       string
	ClientName string

	Runner  Runner
	Timeout time.Duration
	Log     logrus.FieldLogger
}

// New creates a client that uses the p4 binary on PATH.
func New(port, user, clientName string) *Client {
	return &Client{
		Port:       port,
		User:       user,
		ClientName: clientName,
		Runner:     ExecRunner{},
		Timeout:    defaultCommandTimeout,
		Log:        logrus.StandardLogger(),
	}
}

func (c *Client) globalArgs() []string {
	args := []string{"-ztag", "-Mj"}
	if c.Port != "" {
		args = append(args, "-p", c.Port)
	}
	if c.User != "" {
		args = append(args, "-u", c.User)
	}
	if c.ClientName != "" {
		args = append(args, "-c", c.ClientName)
	}
	return args
}

func (c *Client) run(ctx context.Context, stdin []byte, args ...string) ([]Record, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	runner := c.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	if c.Log != nil {
		c.Log.Debugf("p4 %s", strings.Join(args, " "))
	}

	fullArgs := append(c.globalArgs(), args...)
	stdout, stderr, err := runner.Run(ctx, stdin, fullArgs...)
	records, parseErr := parseRecords(stdout)
	if err != nil {
		if stderr == "" && parseErr != nil {
			stderr = parseErr.Error()
		}
		return nil, &CommandError{Args: args, Stderr: stderr, Err: err}
	}
	if parseErr != nil {
		return nil, &CommandError{Args: args, Stderr: parseErr.Error(), Err: parseErr}
	}
	return records, nil
}

func (c *Client) runSingle(ctx context.Context, stdin []byte, args ...string) (Record, error) {
	records, err := c.run(ctx, stdin, args...)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &CommandError{Args: args, Stderr: "no output"}
	}
	return records[0], nil
}

// Login authenticates with password. An empty password only checks that an
// existing ticket is still valid.
func (c *Client) Login(ctx context.Context, password string) error {
	if password == "" {
		_, err := c.run(ctx, nil, "login", "-s")
		return errors.Wrap(err, "failed to connect to Perforce")
	}
	_, err := c.run(ctx, []byte(password+"\n"), "login")
	return errors.Wrap(err, "failed to connect to Perforce")
}

// Connected reports whether the server is reachable with a valid ticket.
func (c *Client) Connected(ctx context.Context) bool {
	_, err := c.run(ctx, nil, "login", "-s")
	return err == nil
}

// FetchClient returns the workspace spec of the current client.
func (c *Client) FetchClient(ctx context.Context) (Record, error) {
	if err := validateArg("client", c.ClientName); err != nil {
		return nil, err
	}
	rec, err := c.runSingle(ctx, nil, "client", "-o", c.ClientName)
	return rec, errors.Wrapf(err, "failed to fetch client %s", c.ClientName)
}

// CurrentStream returns the stream the current workspace is bound to.
func (c *Client) CurrentStream(ctx context.Context) (string, error) {
	spec, err := c.FetchClient(ctx)
	if err != nil {
		return "", err
	}
	return spec.Get("Stream"), nil
}

// WorkspaceRoot returns the client root with forward slashes and no doubled
// separators.
func (c *Client) WorkspaceRoot(ctx context.Context) (string, error) {
	spec, err := c.FetchClient(ctx)
	if err != nil {
		return "", err
	}
	return normalizeRoot(spec.Get("Root")), nil
}

func normalizeRoot(root string) string {
	root = strings.ReplaceAll(root, "\\", "/")
	for strings.Contains(root, "//") {
		root = strings.ReplaceAll(root, "//", "/")
	}
	return root
}

// Depots returns the names of every depot on the server.
func (c *Client) Depots(ctx context.Context) ([]string, error) {
	records, err := c.run(ctx, nil, "depots")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list depots")
	}
	names := make([]string, 0, len(records))
	for _, rec := range records {
		name := rec.Get("name")
		if name == "" {
			name = rec.Get("Depot")
		}
		names = append(names, name)
	}
	return names, nil
}

// DepotForStream returns the name of the depot containing stream, or "" if
// no depot matches.
func (c *Client) DepotForStream(ctx context.Context, stream string) (string, error) {
	depots, err := c.Depots(ctx)
	if err != nil {
		return "", err
	}
	for _, depot := range depots {
		if strings.HasPrefix(stream, "//"+depot+"/") {
			return depot, nil
		}
	}
	return "", nil
}

// StreamInfo is one row of `p4 streams`.
type StreamInfo struct {
	Stream string
	Parent string
	Name   string
	Type   string
}

// Streams returns every stream under depot, e.g. "//SomeDepot".
func (c *Client) Streams(ctx context.Context, depot string) ([]StreamInfo, error) {
	if err := validateDepotPath("depot", depot); err != nil {
		return nil, err
	}
	records, err := c.run(ctx, nil, "streams", strings.TrimSuffix(depot, "/")+"/...")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list streams of %s", depot)
	}

	streams := make([]StreamInfo, 0, len(records))
	for _, rec := range records {
		streams = append(streams, StreamInfo{
			Stream: rec.Get("Stream"),
			Parent: rec.Get("Parent"),
			Name:   rec.Get("Name"),
			Type:   rec.Get("Type"),
		})
	}
	return streams, nil
}

// ChildStreams returns the direct children of stream in depot. The parent
// comparison ignores case.
func (c *Client) ChildStreams(ctx context.Context, depot, stream string) ([]string, error) {
	streams, err := c.Streams(ctx, depot)
	if err != nil {
		return nil, err
	}

	var children []string
	for _, s := range streams {
		if strings.EqualFold(s.Parent, stream) {
			children = append(children, s.Stream)
		}
	}
	return children, nil
}

// ParentStream returns the parent of stream, or "" for a mainline.
func (c *Client) ParentStream(ctx context.Context, stream string) (string, error) {
	if err := validateDepotPath("stream", stream); err != nil {
		return "", err
	}
	rec, err := c.runSingle(ctx, nil, "stream", "-o", stream)
	if err != nil {
		return "", errors.Wrapf(err, "failed to fetch stream %s", stream)
	}
	parent := rec.Get("Parent")
	if parent == "none" {
		parent = ""
	}
	return parent, nil
}

// Where converts a local workspace path to its depot path. Mappings marked
// "unmap" (files only visible through import rules) are skipped. The second
// return value is false when no mapping exists.
func (c *Client) Where(ctx context.Context, localPath string) (string, bool, error) {
	if err := validateArg("path", localPath); err != nil {
		return "", false, err
	}
	records, err := c.run(ctx, nil, "where", localPath)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && strings.Contains(cmdErr.Stderr, "not in client view") {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "could not convert %s to a depot path", localPath)
	}

	for _, rec := range records {
		if rec.Has("unmap") {
			continue
		}
		if depotFile := rec.Get("depotFile"); depotFile != "" {
			return depotFile, true, nil
		}
	}
	return "", false, nil
}

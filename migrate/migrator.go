// Package migrate ties the dependency search to Perforce: it gathers the
// game assets a selection depends on and turns them into a branch mapping
// from the current stream to a target stream.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/LegacyCodeHQ/p4migrate/assetindex"
	"github.com/LegacyCodeHQ/p4migrate/depsearch"
	"github.com/LegacyCodeHQ/p4migrate/project"
	"github.com/LegacyCodeHQ/p4migrate/settings"
	"github.com/LegacyCodeHQ/p4migrate/vcs/p4"
)

var (
	// ErrNotConnected is returned by operations that need a Perforce connection.
	ErrNotConnected = errors.New("not connected to Perforce")
	// ErrNotGathered is returned when a mapping is requested before a gather.
	ErrNotGathered = errors.New("dependencies not yet gathered")
)

const defaultConcurrency = 8

// VersionControl is the subset of Perforce operations the migrator uses.
type VersionControl interface {
	Login(ctx context.Context, password string) error
	Connected(ctx context.Context) bool
	CurrentStream(ctx context.Context) (string, error)
	WorkspaceRoot(ctx context.Context) (string, error)
	DepotForStream(ctx context.Context, stream string) (string, error)
	Where(ctx context.Context, localPath string) (string, bool, error)
	FetchBranch(ctx context.Context, name string) (p4.BranchSpec, error)
	SaveBranch(ctx context.Context, spec p4.BranchSpec) error
}

// Dialer creates a VersionControl for a connection.
type Dialer func(conn settings.Connection) VersionControl

// DialP4 returns a p4 command-line client.
func DialP4(conn settings.Connection) VersionControl {
	return p4.New(conn.Port, conn.User, conn.Client)
}

// Remap rewrites the first occurrence of Key in each target path with Value.
type Remap struct {
	Key   string
	Value string
}

func (r Remap) apply(target string) string {
	if r.Key == "" {
		return target
	}
	return strings.Replace(target, r.Key, r.Value, 1)
}

// Options configure a Migrator.
type Options struct {
	Index   assetindex.Index
	Project project.Project
	Dial    Dialer
	Log     logrus.FieldLogger
	Remap   Remap
	// Concurrency bounds parallel depot lookups while mapping.
	Concurrency int
	// Progress receives a progress bar while mapping; nil disables it.
	Progress io.Writer
}

// Migrator owns one Perforce connection and the most recent dependency
// search. It is not safe for concurrent use.
type Migrator struct {
	index       assetindex.Index
	project     project.Project
	dial        Dialer
	log         logrus.FieldLogger
	remap       Remap
	concurrency int
	progress    io.Writer

	vc     VersionControl
	search *depsearch.Search
}

// New creates a disconnected migrator.
func New(opts Options) *Migrator {
	m := &Migrator{
		index:       opts.Index,
		project:     opts.Project,
		dial:        opts.Dial,
		log:         opts.Log,
		remap:       opts.Remap,
		concurrency: opts.Concurrency,
		progress:    opts.Progress,
	}
	if m.dial == nil {
		m.dial = DialP4
	}
	if m.log == nil {
		m.log = logrus.StandardLogger()
	}
	if m.concurrency <= 0 {
		m.concurrency = defaultConcurrency
	}
	return m
}

// ConnectOptions identify a Perforce server, user and workspace.
type ConnectOptions struct {
	Port     string
	User     string
	Password string
	Client   string
}

// Connect logs in to Perforce. On failure the migrator stays disconnected.
func (m *Migrator) Connect(ctx context.Context, opts ConnectOptions) error {
	conn := settings.Connection{Port: opts.Port, User: opts.User, Client: opts.Client}
	if err := conn.Validate(); err != nil {
		return err
	}

	vc := m.dial(conn)
	if err := vc.Login(ctx, opts.Password); err != nil {
		m.log.Errorf("Failed to connect to Perforce: %v", err)
		m.vc = nil
		return err
	}
	m.vc = vc
	m.log.Debugf("connected to %s as %s (%s)", opts.Port, opts.User, opts.Client)
	return nil
}

// IsConnected reports whether a live Perforce connection is held.
func (m *Migrator) IsConnected(ctx context.Context) bool {
	return m.vc != nil && m.vc.Connected(ctx)
}

// Reset drops the current search. The Perforce connection is dropped too
// when forceDisconnect is set or the connection is no longer valid.
func (m *Migrator) Reset(ctx context.Context, forceDisconnect bool) {
	if forceDisconnect || !m.IsConnected(ctx) {
		m.vc = nil
	}
	m.search = nil
}

func (m *Migrator) connected(ctx context.Context) (VersionControl, error) {
	if !m.IsConnected(ctx) {
		return nil, ErrNotConnected
	}
	return m.vc, nil
}

// Stream returns the stream of the connected workspace.
func (m *Migrator) Stream(ctx context.Context) (string, error) {
	vc, err := m.connected(ctx)
	if err != nil {
		return "", err
	}
	return vc.CurrentStream(ctx)
}

// Depot returns the depot of the connected workspace's stream as "//Name".
func (m *Migrator) Depot(ctx context.Context) (string, error) {
	stream, err := m.Stream(ctx)
	if err != nil {
		return "", err
	}
	name, err := m.vc.DepotForStream(ctx, stream)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("no depot contains stream %s", stream)
	}
	return "//" + name, nil
}

// WorkspaceRoot returns the normalised root of the connected workspace.
func (m *Migrator) WorkspaceRoot(ctx context.Context) (string, error) {
	vc, err := m.connected(ctx)
	if err != nil {
		return "", err
	}
	return vc.WorkspaceRoot(ctx)
}

// GatherDependencies runs a fresh dependency search from assetPaths and keeps
// it as the current search, even when it fails.
func (m *Migrator) GatherDependencies(ctx context.Context, assetPaths []string) (*depsearch.Search, error) {
	search := depsearch.New(m.index, assetPaths, depsearch.WithLogger(m.log))
	m.search = search
	if err := search.GatherAllDependencies(ctx); err != nil {
		return search, err
	}
	return search, nil
}

// Search returns the current search, or nil before a gather.
func (m *Migrator) Search() *depsearch.Search {
	return m.search
}

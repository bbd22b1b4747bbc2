package migrate_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/p4migrate/assetindex"
	"github.com/LegacyCodeHQ/p4migrate/depsearch"
	"github.com/LegacyCodeHQ/p4migrate/migrate"
	"github.com/LegacyCodeHQ/p4migrate/project"
	"github.com/LegacyCodeHQ/p4migrate/settings"
	"github.com/LegacyCodeHQ/p4migrate/vcs/p4"
)

type fakeP4 struct {
	mu        sync.Mutex
	loginErr  error
	password  string
	connected bool
	stream    string
	depot     string
	root      string
	depotOf   map[string]string
	whereErr  map[string]error
	saved     []p4.BranchSpec
}

func (f *fakeP4) Login(_ context.Context, password string) error {
	f.password = password
	if f.loginErr != nil {
		return f.loginErr
	}
	f.connected = true
	return nil
}

func (f *fakeP4) Connected(context.Context) bool { return f.connected }

func (f *fakeP4) CurrentStream(context.Context) (string, error) { return f.stream, nil }

func (f *fakeP4) WorkspaceRoot(context.Context) (string, error) { return f.root, nil }

func (f *fakeP4) DepotForStream(context.Context, string) (string, error) { return f.depot, nil }

func (f *fakeP4) Where(_ context.Context, localPath string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.whereErr[localPath]; ok {
		return "", false, err
	}
	depotPath, ok := f.depotOf[localPath]
	return depotPath, ok, nil
}

func (f *fakeP4) FetchBranch(_ context.Context, name string) (p4.BranchSpec, error) {
	return p4.BranchSpec{Name: name, Owner: "jdoe", Options: "unlocked"}, nil
}

func (f *fakeP4) SaveBranch(_ context.Context, spec p4.BranchSpec) error {
	f.saved = append(f.saved, spec)
	return nil
}

type fixture struct {
	migrator *migrate.Migrator
	p4       *fakeP4
	root     string
	hook     *test.Hook
}

func writePackage(t *testing.T, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("pkg"), 0o644))
	return filepath.ToSlash(path)
}

func newFixture(t *testing.T, opts migrate.Options) *fixture {
	t.Helper()

	root := t.TempDir()
	hero := writePackage(t, root, "Content/Characters/Hero.uasset")
	level := writePackage(t, root, "Content/Maps/Level.umap")
	writePackage(t, root, "Content/Local/Scratch.uasset")

	fake := &fakeP4{
		stream: "//Game/main",
		depot:  "Game",
		root:   filepath.ToSlash(root),
		depotOf: map[string]string{
			hero:  "//Game/main/Content/Characters/Hero.uasset",
			level: "//Game/main/Content/Maps/Level.umap",
		},
	}

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	if opts.Index == nil {
		opts.Index = assetindex.MapIndex{
			"/Game/Maps/Level": {"/Game/Characters/Hero", "/Engine/Basic", "/Game/Local/Scratch", "/Game/Missing"},
		}
	}
	opts.Project = project.Project{Root: root}
	opts.Dial = func(settings.Connection) migrate.VersionControl { return fake }
	opts.Log = logger

	return &fixture{migrator: migrate.New(opts), p4: fake, root: filepath.ToSlash(root), hook: hook}
}

func (f *fixture) connect(t *testing.T) {
	t.Helper()
	require.NoError(t, f.migrator.Connect(context.Background(), migrate.ConnectOptions{
		Port: "ssl:perforce:1666", User: "jdoe", Client: "jdoe_ws", Password: "secret",
	}))
}

func TestConnect_Success(t *testing.T) {
	f := newFixture(t, migrate.Options{})
	ctx := context.Background()

	assert.False(t, f.migrator.IsConnected(ctx))
	f.connect(t)

	assert.True(t, f.migrator.IsConnected(ctx))
	assert.Equal(t, "secret", f.p4.password)
}

func TestConnect_LoginFailureStaysDisconnected(t *testing.T) {
	f := newFixture(t, migrate.Options{})
	f.p4.loginErr = errors.New("password invalid")

	err := f.migrator.Connect(context.Background(), migrate.ConnectOptions{Port: "p", User: "u", Client: "c"})

	require.Error(t, err)
	assert.False(t, f.migrator.IsConnected(context.Background()))
	require.NotNil(t, f.hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, f.hook.LastEntry().Level)
}

func TestConnect_RequiresAllFields(t *testing.T) {
	f := newFixture(t, migrate.Options{})

	err := f.migrator.Connect(context.Background(), migrate.ConnectOptions{Port: "p", User: "u"})

	require.Error(t, err)
	assert.False(t, f.migrator.IsConnected(context.Background()))
}

func TestStreamDepotAndRoot(t *testing.T) {
	f := newFixture(t, migrate.Options{})
	ctx := context.Background()

	_, err := f.migrator.Stream(ctx)
	assert.ErrorIs(t, err, migrate.ErrNotConnected)

	f.connect(t)

	stream, err := f.migrator.Stream(ctx)
	require.NoError(t, err)
	assert.Equal(t, "//Game/main", stream)

	depot, err := f.migrator.Depot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "//Game", depot)

	root, err := f.migrator.WorkspaceRoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.root, root)
}

func TestReset(t *testing.T) {
	f := newFixture(t, migrate.Options{})
	ctx := context.Background()
	f.connect(t)

	_, err := f.migrator.GatherDependencies(ctx, []string{"/Game/Maps/Level"})
	require.NoError(t, err)

	f.migrator.Reset(ctx, false)
	assert.Nil(t, f.migrator.Search())
	assert.True(t, f.migrator.IsConnected(ctx))

	f.migrator.Reset(ctx, true)
	assert.False(t, f.migrator.IsConnected(ctx))
}

func TestReset_DropsStaleConnection(t *testing.T) {
	f := newFixture(t, migrate.Options{})
	ctx := context.Background()
	f.connect(t)

	f.p4.connected = false
	f.migrator.Reset(ctx, false)

	f.p4.connected = true
	assert.False(t, f.migrator.IsConnected(ctx))
}

func TestGatherDependencies_KeepsSearchOnFailure(t *testing.T) {
	f := newFixture(t, migrate.Options{})

	search, err := f.migrator.GatherDependencies(context.Background(), []string{"/Engine/Basic"})

	assert.ErrorIs(t, err, depsearch.ErrNotGameAsset)
	assert.Same(t, search, f.migrator.Search())
}

func TestMakeMapping_RequiresGather(t *testing.T) {
	f := newFixture(t, migrate.Options{})
	f.connect(t)

	_, err := f.migrator.MakeMapping(context.Background(), "//Game/release")

	assert.ErrorIs(t, err, migrate.ErrNotGathered)
}

func TestMakeMapping_RejectsNonDepotTarget(t *testing.T) {
	f := newFixture(t, migrate.Options{})
	f.connect(t)
	_, err := f.migrator.GatherDependencies(context.Background(), []string{"/Game/Maps/Level"})
	require.NoError(t, err)

	_, err = f.migrator.MakeMapping(context.Background(), "Game/release")

	assert.Error(t, err)
}

func TestMakeMapping(t *testing.T) {
	var progress bytes.Buffer
	f := newFixture(t, migrate.Options{Concurrency: 2, Progress: &progress})
	ctx := context.Background()
	f.connect(t)
	_, err := f.migrator.GatherDependencies(ctx, []string{"/Game/Maps/Level"})
	require.NoError(t, err)

	mapping, err := f.migrator.MakeMapping(ctx, "//Game/release/")

	require.NoError(t, err)
	assert.Equal(t, []p4.ViewMapping{
		{Source: "//Game/main/Content/Characters/Hero.uasset", Target: "//Game/release/Content/Characters/Hero.uasset"},
		{Source: "//Game/main/Content/Maps/Level.umap", Target: "//Game/release/Content/Maps/Level.umap"},
	}, mapping.View)

	require.Len(t, mapping.Skipped, 2)
	assert.Equal(t, "/Game/Local/Scratch", mapping.Skipped[0].Asset)
	assert.Contains(t, mapping.Skipped[0].Reason, "does not exist on the depot")
	assert.Equal(t, "/Game/Missing", mapping.Skipped[1].Asset)
	assert.Equal(t, "not found on disk", mapping.Skipped[1].Reason)

	warnings := 0
	for _, entry := range f.hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)
}

func TestMakeMapping_WhereErrorSkipsAsset(t *testing.T) {
	f := newFixture(t, migrate.Options{})
	ctx := context.Background()
	f.connect(t)
	f.p4.whereErr = map[string]error{
		f.root + "/Content/Characters/Hero.uasset": errors.New("protected namespace"),
	}
	_, err := f.migrator.GatherDependencies(ctx, []string{"/Game/Maps/Level"})
	require.NoError(t, err)

	mapping, err := f.migrator.MakeMapping(ctx, "//Game/release")

	require.NoError(t, err)
	require.Len(t, mapping.View, 1)
	assert.Equal(t, "//Game/main/Content/Maps/Level.umap", mapping.View[0].Source)
	require.Len(t, mapping.Skipped, 3)
	assert.Equal(t, "/Game/Characters/Hero", mapping.Skipped[0].Asset)
	assert.Equal(t, "protected namespace", mapping.Skipped[0].Reason)
}

func TestMakeMapping_RootWithTrailingSlash(t *testing.T) {
	f := newFixture(t, migrate.Options{})
	ctx := context.Background()
	f.connect(t)
	f.p4.root = f.root + "/"
	_, err := f.migrator.GatherDependencies(ctx, []string{"/Game/Maps/Level"})
	require.NoError(t, err)

	mapping, err := f.migrator.MakeMapping(ctx, "//Game/release")

	require.NoError(t, err)
	require.Len(t, mapping.View, 2)
	assert.Equal(t, "//Game/release/Content/Characters/Hero.uasset", mapping.View[0].Target)
	assert.Equal(t, "//Game/release/Content/Maps/Level.umap", mapping.View[1].Target)
}

func TestMakeMapping_SkipsAssetsOutsideWorkspaceRoot(t *testing.T) {
	f := newFixture(t, migrate.Options{})
	ctx := context.Background()
	f.connect(t)
	f.p4.root = "/elsewhere/workspace"
	_, err := f.migrator.GatherDependencies(ctx, []string{"/Game/Maps/Level"})
	require.NoError(t, err)

	mapping, err := f.migrator.MakeMapping(ctx, "//Game/release")

	require.NoError(t, err)
	assert.Empty(t, mapping.View)
	require.Len(t, mapping.Skipped, 4)
	assert.Equal(t, "/Game/Characters/Hero", mapping.Skipped[0].Asset)
	assert.Contains(t, mapping.Skipped[0].Reason, "outside the workspace root /elsewhere/workspace")
}

func TestMakeMapping_Remap(t *testing.T) {
	f := newFixture(t, migrate.Options{Remap: migrate.Remap{Key: "/Content/", Value: "/Content/Imported/"}})
	ctx := context.Background()
	f.connect(t)
	_, err := f.migrator.GatherDependencies(ctx, []string{"/Game/Maps/Level"})
	require.NoError(t, err)

	mapping, err := f.migrator.MakeMapping(ctx, "//Game/release")

	require.NoError(t, err)
	require.Len(t, mapping.View, 2)
	assert.Equal(t, "//Game/release/Content/Imported/Characters/Hero.uasset", mapping.View[0].Target)
}

func TestCreateBranchMapping(t *testing.T) {
	f := newFixture(t, migrate.Options{})
	ctx := context.Background()
	f.connect(t)
	_, err := f.migrator.GatherDependencies(ctx, []string{"/Game/Maps/Level"})
	require.NoError(t, err)

	spec, mapping, err := f.migrator.CreateBranchMapping(ctx, "hero-migration", "//Game/release", false)

	require.NoError(t, err)
	assert.Equal(t, "hero-migration", spec.Name)
	assert.Equal(t, mapping.View, spec.View)
	require.Len(t, f.p4.saved, 1)
	assert.Equal(t, spec, f.p4.saved[0])
	assert.Equal(t, "Branch mapping successfully created.", f.hook.LastEntry().Message)
}

func TestCreateBranchMapping_DryRunDoesNotSave(t *testing.T) {
	f := newFixture(t, migrate.Options{})
	ctx := context.Background()
	f.connect(t)
	_, err := f.migrator.GatherDependencies(ctx, []string{"/Game/Maps/Level"})
	require.NoError(t, err)

	spec, _, err := f.migrator.CreateBranchMapping(ctx, "hero-migration", "//Game/release", true)

	require.NoError(t, err)
	assert.Len(t, spec.View, 2)
	assert.Empty(t, f.p4.saved)
}

func TestCreateBranchMapping_RequiresGather(t *testing.T) {
	f := newFixture(t, migrate.Options{})
	f.connect(t)

	_, _, err := f.migrator.CreateBranchMapping(context.Background(), "b", "//Game/release", false)

	assert.ErrorIs(t, err, migrate.ErrNotGathered)
	assert.Empty(t, f.p4.saved)
}

package p4

import (
	"context"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/p4migrate/vcs/p4/p4test"
)

func newTestClient(runner *p4test.FakeRunner) *Client {
	logger, _ := logtest.NewNullLogger()
	c := New("perforce:1666", "builder", "builder_ws")
	c.Runner = runner
	c.Log = logger
	return c
}

func TestClient_GlobalArgs(t *testing.T) {
	runner := p4test.NewFakeRunner().On("login -s", `{"User":"builder"}`)
	c := newTestClient(runner)

	assert.True(t, c.Connected(context.Background()))
	require.Len(t, runner.Calls(), 1)
	assert.Equal(t, []string{"-ztag", "-Mj", "-p", "perforce:1666", "-u", "builder", "-c", "builder_ws", "login", "-s"}, runner.Calls()[0])
}

func TestClient_LoginSendsPassword(t *testing.T) {
	runner := p4test.NewFakeRunner().On("login", `{"User":"builder","TicketExpiration":"43200"}`)
	c := newTestClient(runner)

	require.NoError(t, c.Login(context.Background(), "secret"))
	assert.Equal(t, "secret\n", runner.Stdin("login"))
}

func TestClient_LoginFailure(t *testing.T) {
	runner := p4test.NewFakeRunner().Fail("login", "Password invalid.")
	c := newTestClient(runner)

	err := c.Login(context.Background(), "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Password invalid.")
	assert.Contains(t, err.Error(), "failed to connect to Perforce")
}

func TestClient_NotConnected(t *testing.T) {
	runner := p4test.NewFakeRunner().Fail("login -s", "Perforce password (P4PASSWD) invalid or unset.")
	assert.False(t, newTestClient(runner).Connected(context.Background()))
}

func TestClient_WorkspaceRootNormalised(t *testing.T) {
	runner := p4test.NewFakeRunner().On("client -o builder_ws",
		`{"Client":"builder_ws","Root":"C:\\Work\\\\Game","Stream":"//Game/main"}`)
	c := newTestClient(runner)

	root, err := c.WorkspaceRoot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "C:/Work/Game", root)

	stream, err := c.CurrentStream(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "//Game/main", stream)
}

func TestClient_DepotForStream(t *testing.T) {
	runner := p4test.NewFakeRunner().On("depots", `{"name":"Game","type":"stream"}
{"name":"GameArt","type":"stream"}
{"name":"depot","type":"local"}`)
	c := newTestClient(runner)

	depot, err := c.DepotForStream(context.Background(), "//GameArt/main")
	require.NoError(t, err)
	assert.Equal(t, "GameArt", depot)

	depot, err = c.DepotForStream(context.Background(), "//Other/main")
	require.NoError(t, err)
	assert.Equal(t, "", depot)
}

func TestClient_ChildStreams(t *testing.T) {
	runner := p4test.NewFakeRunner().On("streams //Game/...", `{"Stream":"//Game/main","Parent":"none","Type":"mainline"}
{"Stream":"//Game/dev","Parent":"//Game/main","Type":"development"}
{"Stream":"//Game/rel","Parent":"//game/MAIN","Type":"release"}
{"Stream":"//Game/dev-sub","Parent":"//Game/dev","Type":"development"}`)
	c := newTestClient(runner)

	children, err := c.ChildStreams(context.Background(), "//Game", "//Game/main")
	require.NoError(t, err)
	assert.Equal(t, []string{"//Game/dev", "//Game/rel"}, children)

	all, err := c.Streams(context.Background(), "//Game")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestClient_StreamsRejectsNonDepotPath(t *testing.T) {
	_, err := newTestClient(p4test.NewFakeRunner()).Streams(context.Background(), "Game")
	assert.Error(t, err)
}

func TestClient_ParentStream(t *testing.T) {
	runner := p4test.NewFakeRunner().
		On("stream -o //Game/main", `{"Stream":"//Game/main","Parent":"none"}`).
		On("stream -o //Game/dev", `{"Stream":"//Game/dev","Parent":"//Game/main"}`)
	c := newTestClient(runner)

	parent, err := c.ParentStream(context.Background(), "//Game/main")
	require.NoError(t, err)
	assert.Equal(t, "", parent)

	parent, err = c.ParentStream(context.Background(), "//Game/dev")
	require.NoError(t, err)
	assert.Equal(t, "//Game/main", parent)
}

func TestClient_WhereSkipsUnmap(t *testing.T) {
	runner := p4test.NewFakeRunner().On("where C:/Work/Game/Content/Hero.uasset",
		`{"depotFile":"//Shared/main/Content/Hero.uasset","clientFile":"//builder_ws/Content/Hero.uasset","path":"C:/Work/Game/Content/Hero.uasset","unmap":""}
{"depotFile":"//Game/main/Content/Hero.uasset","clientFile":"//builder_ws/Content/Hero.uasset","path":"C:/Work/Game/Content/Hero.uasset"}`)
	c := newTestClient(runner)

	depotFile, ok, err := c.Where(context.Background(), "C:/Work/Game/Content/Hero.uasset")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "//Game/main/Content/Hero.uasset", depotFile)
}

func TestClient_WhereNotInView(t *testing.T) {
	runner := p4test.NewFakeRunner().On("where /tmp/outside.uasset",
		`{"code":"error","data":"/tmp/outside.uasset - file(s) not in client view.\n","severity":2}`)
	c := newTestClient(runner)

	_, ok, err := c.Where(context.Background(), "/tmp/outside.uasset")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_WhereRejectsFlags(t *testing.T) {
	_, _, err := newTestClient(p4test.NewFakeRunner()).Where(context.Background(), "-a")
	assert.Error(t, err)
}

func TestClient_ErrorRecordBecomesCommandError(t *testing.T) {
	runner := p4test.NewFakeRunner().On("depots", `{"code":"error","data":"Connect to server failed.","severity":4}`)

	_, err := newTestClient(runner).Depots(context.Background())
	require.Error(t, err)
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Contains(t, cmdErr.Stderr, "Connect to server failed.")
}

func TestRecord_Indexed(t *testing.T) {
	rec := Record{"View10": "k", "View0": "a", "View1": "b", "Viewer": "x", "View2": "c"}
	assert.Equal(t, []string{"a", "b", "c", "k"}, rec.Indexed("View"))
}

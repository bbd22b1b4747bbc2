package gather

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/p4migrate/depsearch"
	"github.com/LegacyCodeHQ/p4migrate/internal/testhelpers"
)

func executeGather(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand()
	cmd.SetArgs(args)

	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	return stdout.String(), err
}

func TestGatherCommand_JSON(t *testing.T) {
	index := testhelpers.WriteSampleDump(t, t.TempDir())

	output, err := executeGather(t, "--index", index, "-f", "json", "/Game/Maps/Level")
	require.NoError(t, err)

	var result depsearch.Result
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, []string{"/Game/Characters/Hero", "/Game/Maps/Level", "/Game/Weapons/Sword"}, result.GameDependencies)
	assert.Equal(t, []string{"/Engine/BasicShapes/Cube"}, result.EngineDependencies)
	assert.Equal(t, []string{"/Script/CoreUObject"}, result.ScriptDependencies)
	assert.Equal(t, []string{"/Niagara/FX/Spark"}, result.PluginDependencies)
	assert.Equal(t, []string{"Niagara"}, result.RequiredPlugins)
}

func TestGatherCommand_DOTMatchesFormatter(t *testing.T) {
	index := testhelpers.WriteSampleDump(t, t.TempDir())

	output, err := executeGather(t, "--index", index, "-f", "dot", "/Game/Maps/Level")
	require.NoError(t, err)

	g := testhelpers.DotGoldie(t)
	g.Assert(t, t.Name(), []byte(strings.TrimSuffix(output, "\n")))
}

func TestGatherCommand_Text(t *testing.T) {
	index := testhelpers.WriteSampleDump(t, t.TempDir())

	output, err := executeGather(t, "--index", index, "/Game/Maps/Level")
	require.NoError(t, err)

	assert.Contains(t, output, "Roots: /Game/Maps/Level")
	assert.Contains(t, output, "Required plugins: Niagara")
}

func TestGatherCommand_NonGameRoot(t *testing.T) {
	index := testhelpers.WriteSampleDump(t, t.TempDir())

	_, err := executeGather(t, "--index", index, "/Engine/BasicShapes/Cube")

	require.Error(t, err)
	assert.ErrorIs(t, err, depsearch.ErrNotGameAsset)
	assert.Contains(t, err.Error(), "/Engine/BasicShapes/Cube")
}

func TestGatherCommand_UnknownFormat(t *testing.T) {
	index := testhelpers.WriteSampleDump(t, t.TempDir())

	_, err := executeGather(t, "--index", index, "-f", "svg", "/Game/Maps/Level")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format: svg")
}

func TestGatherCommand_RequiresIndex(t *testing.T) {
	_, err := executeGather(t, "/Game/Maps/Level")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--index")
}

func TestGatherCommand_URLNotSupportedForText(t *testing.T) {
	index := testhelpers.WriteSampleDump(t, t.TempDir())

	_, err := executeGather(t, "--index", index, "--url", "/Game/Maps/Level")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--url is not supported")
}

func TestGatherCommand_MermaidURL(t *testing.T) {
	index := testhelpers.WriteSampleDump(t, t.TempDir())

	output, err := executeGather(t, "--index", index, "-f", "mermaid", "--url", "/Game/Maps/Level")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(output, "https://mermaid.live/edit#base64:"))
}

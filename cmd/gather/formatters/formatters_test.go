package formatters_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/LegacyCodeHQ/p4migrate/assetpath"
	"github.com/LegacyCodeHQ/p4migrate/cmd/gather/formatters"
	"github.com/LegacyCodeHQ/p4migrate/depsearch"
	"github.com/LegacyCodeHQ/p4migrate/internal/testhelpers"
)

func TestJSONFormatter(t *testing.T) {
	output, err := (&formatters.JSONFormatter{}).Format(testhelpers.SampleResult(t), formatters.FormatOptions{})
	require.NoError(t, err)

	g := testhelpers.TextGoldie(t)
	g.Assert(t, t.Name(), []byte(output))
}

func TestYAMLFormatter_RoundTrips(t *testing.T) {
	result := testhelpers.SampleResult(t)

	output, err := (&formatters.YAMLFormatter{}).Format(result, formatters.FormatOptions{})
	require.NoError(t, err)

	var decoded depsearch.Result
	require.NoError(t, yaml.Unmarshal([]byte(output), &decoded))
	assert.Equal(t, result.GameDependencies, decoded.GameDependencies)
	assert.Equal(t, result.RequiredPlugins, decoded.RequiredPlugins)
	assert.Nil(t, decoded.Graph)
}

func TestTextFormatter(t *testing.T) {
	output, err := (&formatters.TextFormatter{}).Format(testhelpers.SampleResult(t), formatters.FormatOptions{Label: "Level"})
	require.NoError(t, err)

	lines := strings.Split(output, "\n")
	assert.Equal(t, "Level", lines[0])
	assert.Contains(t, output, "Roots: /Game/Maps/Level")
	assert.Contains(t, output, "Game: 3  Engine: 1  Script: 1  Plugin: 1")
	assert.Contains(t, output, "Required plugins: Niagara")
	assert.Contains(t, output, "NAMESPACE")
	assert.Contains(t, output, "/Engine/BasicShapes/Cube")
	assert.Less(t, strings.Index(output, "/Game/Weapons/Sword"), strings.Index(output, "/Engine/BasicShapes/Cube"))
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name string
		want formatters.OutputFormat
		ok   bool
	}{
		{name: "text", want: formatters.OutputFormatText, ok: true},
		{name: "DOT", want: formatters.OutputFormatDOT, ok: true},
		{name: "Mermaid", want: formatters.OutputFormatMermaid, ok: true},
		{name: "yaml", want: formatters.OutputFormatYAML, ok: true},
		{name: "svg", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := formatters.ParseOutputFormat(tc.name)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
	assert.Equal(t, "text, json, yaml, dot, mermaid", formatters.SupportedFormats())
}

func TestBuildNodeNames(t *testing.T) {
	names := formatters.BuildNodeNames([]string{
		"/Game/Characters/Hero",
		"/Game/Legacy/Characters/Hero",
		"/Game/Weapons/Sword.Sword",
		"/Engine/Basic/Cube",
	})

	assert.Equal(t, map[string]string{
		"/Game/Characters/Hero":        "Game/Characters/Hero",
		"/Game/Legacy/Characters/Hero": "Legacy/Characters/Hero",
		"/Game/Weapons/Sword.Sword":    "Sword",
		"/Engine/Basic/Cube":           "Cube",
	}, names)
}

func TestNodeKinds(t *testing.T) {
	kinds := formatters.NewNodeKinds(testhelpers.SampleResult(t))

	assert.True(t, kinds.IsRoot("/Game/Maps/Level"))
	assert.False(t, kinds.IsRoot("/Game/Characters/Hero"))
	assert.Equal(t, assetpath.NamespacePlugin, kinds.Namespace("/Niagara/FX/Spark"))
	assert.Equal(t, assetpath.NamespaceEngine, kinds.Namespace("/Engine/Unseen"))
}

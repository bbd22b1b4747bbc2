package mermaid_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/p4migrate/cmd/gather/formatters"
	"github.com/LegacyCodeHQ/p4migrate/cmd/gather/formatters/mermaid"
	"github.com/LegacyCodeHQ/p4migrate/depgraph"
	"github.com/LegacyCodeHQ/p4migrate/depsearch"
	"github.com/LegacyCodeHQ/p4migrate/internal/testhelpers"
)

func TestSearchResult_ToMermaid(t *testing.T) {
	formatter := &mermaid.Formatter{}
	output, err := formatter.Format(testhelpers.SampleResult(t), formatters.FormatOptions{})
	require.NoError(t, err)

	g := testhelpers.MermaidGoldie(t)
	g.Assert(t, t.Name(), []byte(output))
}

func TestSearchResult_ToMermaid_WithLabel(t *testing.T) {
	output, err := (&mermaid.Formatter{}).Format(testhelpers.SampleResult(t), formatters.FormatOptions{Label: "Level"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(output, "---\ntitle: Level\n---\nflowchart LR\n"))
}

func TestSearchResult_ToMermaid_NoCyclesNoEdges(t *testing.T) {
	result := depsearch.Result{
		Roots:            []string{"/Game/Empty"},
		GameDependencies: []string{"/Game/Empty"},
		Graph:            depgraph.DependencyGraph{"/Game/Empty": {}},
	}

	output, err := (&mermaid.Formatter{}).Format(result, formatters.FormatOptions{})
	require.NoError(t, err)

	assert.Equal(t, "flowchart LR\n    n0[\"Empty\"]\n\n    classDef root fill:#90EE90,stroke:#228B22,color:#000000\n    class n0 root", output)
}

func TestMermaidFormatter_GenerateURL(t *testing.T) {
	url, ok := (&mermaid.Formatter{}).GenerateURL("flowchart LR")

	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(url, "https://mermaid.live/edit#base64:"))
}

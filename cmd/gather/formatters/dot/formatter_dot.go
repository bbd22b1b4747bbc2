package dot

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/LegacyCodeHQ/p4migrate/assetpath"
	"github.com/LegacyCodeHQ/p4migrate/cmd/gather/formatters"
	"github.com/LegacyCodeHQ/p4migrate/depgraph"
	"github.com/LegacyCodeHQ/p4migrate/depsearch"
)

var namespaceColors = map[assetpath.Namespace]string{
	assetpath.NamespaceGame:   "white",
	assetpath.NamespaceEngine: "lightblue",
	assetpath.NamespaceScript: "lightyellow",
	assetpath.NamespacePlugin: "plum",
}

// Formatter formats the walked dependency graph as Graphviz DOT.
type Formatter struct{}

// Format converts the result's graph to Graphviz DOT format.
func (f *Formatter) Format(r depsearch.Result, opts formatters.FormatOptions) (string, error) {
	var sb strings.Builder
	sb.WriteString("digraph dependencies {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n")

	if opts.Label != "" {
		sb.WriteString(fmt.Sprintf("  label=%q;\n", opts.Label))
		sb.WriteString("  labelloc=t;\n")
		sb.WriteString("  labeljust=l;\n")
		sb.WriteString("  fontsize=10;\n")
		sb.WriteString("  fontname=Courier;\n")
	}
	sb.WriteString("\n")

	nodes := depgraph.Nodes(r.Graph)
	names := formatters.BuildNodeNames(nodes)
	kinds := formatters.NewNodeKinds(r)

	for _, node := range nodes {
		// Roots are always light green
		color := "lightgreen"
		if !kinds.IsRoot(node) {
			color = namespaceColors[kinds.Namespace(node)]
		}
		sb.WriteString(fmt.Sprintf("  %q [label=%q, style=filled, fillcolor=%s];\n", node, names[node], color))
	}
	if len(nodes) > 0 {
		sb.WriteString("\n")
	}

	sources := make([]string, 0, len(r.Graph))
	for source := range r.Graph {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	for _, source := range sources {
		deps := append([]string(nil), r.Graph[source]...)
		sort.Strings(deps)
		for _, dep := range deps {
			sb.WriteString(fmt.Sprintf("  %q -> %q;\n", source, dep))
		}
	}

	sb.WriteString("}")
	return sb.String(), nil
}

// GenerateURL creates a GraphvizOnline URL with the DOT graph embedded.
func (f *Formatter) GenerateURL(output string) (string, bool) {
	encoded := url.PathEscape(output)
	return fmt.Sprintf("https://dreampuf.github.io/GraphvizOnline/?engine=dot#%s", encoded), true
}

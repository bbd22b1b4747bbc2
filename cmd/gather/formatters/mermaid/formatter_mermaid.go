package mermaid

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/LegacyCodeHQ/p4migrate/assetpath"
	"github.com/LegacyCodeHQ/p4migrate/cmd/gather/formatters"
	"github.com/LegacyCodeHQ/p4migrate/depgraph"
	"github.com/LegacyCodeHQ/p4migrate/depsearch"
)

type nodeClass struct {
	name  string
	style string
}

var (
	rootClass      = nodeClass{"root", "fill:#90EE90,stroke:#228B22,color:#000000"}
	namespaceClass = map[assetpath.Namespace]nodeClass{
		assetpath.NamespaceEngine: {"engine", "fill:#ADD8E6,stroke:#4682B4,color:#000000"},
		assetpath.NamespaceScript: {"script", "fill:#FFFFE0,stroke:#B8860B,color:#000000"},
		assetpath.NamespacePlugin: {"plugin", "fill:#DDA0DD,stroke:#8B008B,color:#000000"},
	}
	classOrder = []nodeClass{
		rootClass,
		namespaceClass[assetpath.NamespaceEngine],
		namespaceClass[assetpath.NamespaceScript],
		namespaceClass[assetpath.NamespacePlugin],
	}
)

// Formatter formats the walked dependency graph as a Mermaid.js flowchart.
type Formatter struct{}

// Format converts the result's graph to Mermaid.js flowchart format.
func (f *Formatter) Format(r depsearch.Result, opts formatters.FormatOptions) (string, error) {
	var sb strings.Builder

	if opts.Label != "" {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", opts.Label))
		sb.WriteString("---\n")
	}

	sb.WriteString("flowchart LR\n")

	cycles, err := depgraph.Cycles(r.Graph)
	if err != nil {
		return "", err
	}
	cycleNodes := make(map[string]bool)
	for i, cycle := range cycles {
		for _, node := range cycle {
			cycleNodes[node] = true
		}
		sb.WriteString(fmt.Sprintf("%%%% C%d: %s\n", i+1, strings.Join(cycle, ", ")))
	}

	nodes := depgraph.Nodes(r.Graph)
	names := formatters.BuildNodeNames(nodes)
	kinds := formatters.NewNodeKinds(r)

	// Mermaid node IDs can't have slashes or dots.
	nodeIDs := make(map[string]string, len(nodes))
	for i, node := range nodes {
		nodeIDs[node] = fmt.Sprintf("n%d", i)
	}

	classMembers := make(map[string][]string)
	for _, node := range nodes {
		label := strings.ReplaceAll(names[node], "\"", "#quot;")
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", nodeIDs[node], label))

		if kinds.IsRoot(node) {
			classMembers[rootClass.name] = append(classMembers[rootClass.name], nodeIDs[node])
		} else if class, ok := namespaceClass[kinds.Namespace(node)]; ok {
			classMembers[class.name] = append(classMembers[class.name], nodeIDs[node])
		}
	}

	sources := make([]string, 0, len(r.Graph))
	for source := range r.Graph {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	var edgesSB strings.Builder
	edgeIndex := 0
	var cycleEdgeIndices []int
	for _, source := range sources {
		deps := append([]string(nil), r.Graph[source]...)
		sort.Strings(deps)
		for _, dep := range deps {
			edgesSB.WriteString(fmt.Sprintf("    %s --> %s\n", nodeIDs[source], nodeIDs[dep]))
			if cycleNodes[source] && cycleNodes[dep] && sameCycle(cycles, source, dep) {
				cycleEdgeIndices = append(cycleEdgeIndices, edgeIndex)
			}
			edgeIndex++
		}
	}

	var stylesSB strings.Builder
	for _, class := range classOrder {
		if len(classMembers[class.name]) > 0 {
			stylesSB.WriteString(fmt.Sprintf("    classDef %s %s\n", class.name, class.style))
		}
	}
	for _, class := range classOrder {
		if members := classMembers[class.name]; len(members) > 0 {
			stylesSB.WriteString(fmt.Sprintf("    class %s %s\n", strings.Join(members, ","), class.name))
		}
	}
	for _, node := range nodes {
		if cycleNodes[node] {
			stylesSB.WriteString(fmt.Sprintf("    style %s stroke:#d62728,stroke-width:3px\n", nodeIDs[node]))
		}
	}
	for _, idx := range cycleEdgeIndices {
		stylesSB.WriteString(fmt.Sprintf("    linkStyle %d stroke:#d62728,stroke-width:3px,stroke-dasharray: 5 5\n", idx))
	}

	if edgeIndex > 0 {
		sb.WriteString("\n")
		sb.WriteString(edgesSB.String())
	}
	if stylesSB.Len() > 0 {
		sb.WriteString("\n")
		sb.WriteString(stylesSB.String())
	}

	return strings.TrimSuffix(sb.String(), "\n"), nil
}

func sameCycle(cycles [][]string, a, b string) bool {
	for _, cycle := range cycles {
		i := sort.SearchStrings(cycle, a)
		j := sort.SearchStrings(cycle, b)
		if i < len(cycle) && cycle[i] == a && j < len(cycle) && cycle[j] == b {
			return true
		}
	}
	return false
}

// GenerateURL creates a mermaid.live URL with the diagram embedded.
func (f *Formatter) GenerateURL(output string) (string, bool) {
	payload := map[string]interface{}{
		"code": output,
		"mermaid": map[string]interface{}{
			"theme": "default",
		},
		"autoSync":      true,
		"updateDiagram": true,
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("https://mermaid.live/edit#%s", url.PathEscape(output)), true
	}

	encoded := base64.URLEncoding.EncodeToString(jsonBytes)
	return fmt.Sprintf("https://mermaid.live/edit#base64:%s", encoded), true
}

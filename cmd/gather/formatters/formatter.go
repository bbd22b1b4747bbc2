package formatters

import (
	"github.com/LegacyCodeHQ/p4migrate/assetpath"
	"github.com/LegacyCodeHQ/p4migrate/depsearch"
)

// FormatOptions contains optional parameters for formatting a search report.
type FormatOptions struct {
	// Label is an optional title or label for the graph
	Label string
}

// Formatter is the interface that all report formatters must implement.
type Formatter interface {
	// Format converts a search result to a formatted string representation.
	Format(r depsearch.Result, opts FormatOptions) (string, error)
}

// NodeKinds tells graph formatters how to style an asset.
type NodeKinds struct {
	namespaces map[string]assetpath.Namespace
	roots      map[string]bool
}

// NewNodeKinds indexes the partitions and roots of a result.
func NewNodeKinds(r depsearch.Result) NodeKinds {
	k := NodeKinds{
		namespaces: make(map[string]assetpath.Namespace),
		roots:      make(map[string]bool, len(r.Roots)),
	}
	for _, root := range r.Roots {
		k.roots[root] = true
	}
	add := func(assets []string, ns assetpath.Namespace) {
		for _, asset := range assets {
			k.namespaces[asset] = ns
		}
	}
	add(r.GameDependencies, assetpath.NamespaceGame)
	add(r.EngineDependencies, assetpath.NamespaceEngine)
	add(r.ScriptDependencies, assetpath.NamespaceScript)
	add(r.PluginDependencies, assetpath.NamespacePlugin)
	return k
}

// IsRoot reports whether the asset was a search root.
func (k NodeKinds) IsRoot(asset string) bool {
	return k.roots[asset]
}

// Namespace returns the partition of the asset, falling back to its path.
func (k NodeKinds) Namespace(asset string) assetpath.Namespace {
	if ns, ok := k.namespaces[asset]; ok {
		return ns
	}
	return assetpath.Classify(asset)
}

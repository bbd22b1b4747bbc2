// Package depgraph holds the asset dependency graph observed during a
// dependency search and answers reference-chain queries over it.
package depgraph

import "sort"

// DependencyGraph maps an asset to the direct dependencies observed for it.
// Leaf assets (never expanded) may appear only as dependencies.
type DependencyGraph map[string][]string

// AddEdge records that from depends on to. Callers filter duplicates.
func (g DependencyGraph) AddEdge(from, to string) {
	g[from] = append(g[from], to)
}

// AddNode makes sure the asset is present as a key.
func (g DependencyGraph) AddNode(asset string) {
	if _, ok := g[asset]; !ok {
		g[asset] = []string{}
	}
}

// ContainsNode reports whether the asset appears as a key or a dependency.
func ContainsNode(g DependencyGraph, asset string) bool {
	if _, ok := g[asset]; ok {
		return true
	}
	for _, deps := range g {
		for _, dep := range deps {
			if dep == asset {
				return true
			}
		}
	}
	return false
}

// Nodes returns every asset in the graph, sorted.
func Nodes(g DependencyGraph) []string {
	seen := make(map[string]bool)
	for node, deps := range g {
		seen[node] = true
		for _, dep := range deps {
			seen[dep] = true
		}
	}

	nodes := make([]string, 0, len(seen))
	for node := range seen {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

// EdgeCount returns the number of edges in the graph.
func EdgeCount(g DependencyGraph) int {
	count := 0
	for _, deps := range g {
		count += len(deps)
	}
	return count
}

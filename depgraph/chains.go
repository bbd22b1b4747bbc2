package depgraph

import (
	"errors"
	"fmt"
	"sort"

	graphlib "github.com/dominikbraun/graph"
)

// ErrNoChain is returned when no reference chain connects two assets.
var ErrNoChain = errors.New("no reference chain")

// ToGraph converts the dependency graph into a directed graph.
func ToGraph(g DependencyGraph) (graphlib.Graph[string, string], error) {
	out := graphlib.New(graphlib.StringHash, graphlib.Directed())

	for _, node := range Nodes(g) {
		if err := out.AddVertex(node); err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
			return nil, fmt.Errorf("failed to add asset %s: %w", node, err)
		}
	}

	for from, deps := range g {
		for _, to := range deps {
			if err := out.AddEdge(from, to); err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("failed to add reference %s -> %s: %w", from, to, err)
			}
		}
	}

	return out, nil
}

// ShortestChain returns the shortest reference chain from one asset to
// another, both ends included.
func ShortestChain(g DependencyGraph, from, to string) ([]string, error) {
	if !ContainsNode(g, from) {
		return nil, fmt.Errorf("%w: %s is not in the graph", ErrNoChain, from)
	}
	if !ContainsNode(g, to) {
		return nil, fmt.Errorf("%w: %s is not in the graph", ErrNoChain, to)
	}

	directed, err := ToGraph(g)
	if err != nil {
		return nil, err
	}

	chain, err := graphlib.ShortestPath(directed, from, to)
	if errors.Is(err, graphlib.ErrTargetNotReachable) {
		return nil, fmt.Errorf("%w: %s does not reach %s", ErrNoChain, from, to)
	}
	if err != nil {
		return nil, err
	}
	return chain, nil
}

// Cycles returns every group of assets that reference each other in a cycle.
// Each group and the list of groups are sorted.
func Cycles(g DependencyGraph) ([][]string, error) {
	directed, err := ToGraph(g)
	if err != nil {
		return nil, err
	}

	components, err := graphlib.StronglyConnectedComponents(directed)
	if err != nil {
		return nil, fmt.Errorf("failed to compute cycles: %w", err)
	}

	var cycles [][]string
	for _, component := range components {
		if len(component) < 2 {
			continue
		}
		sorted := append([]string(nil), component...)
		sort.Strings(sorted)
		cycles = append(cycles, sorted)
	}

	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i][0] < cycles[j][0]
	})
	return cycles, nil
}

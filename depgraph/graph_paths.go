package depgraph

// FindPathNodes returns the part of graph that explains why source depends
// on target: every asset reachable from source that can itself reach target,
// with the edges between them. The result is empty when target is not a
// dependency of source.
func FindPathNodes(graph DependencyGraph, source, target string) DependencyGraph {
	if !ContainsNode(graph, source) || !ContainsNode(graph, target) {
		return DependencyGraph{}
	}

	fromSource := reach(graph, source)
	if !fromSource[target] {
		return DependencyGraph{}
	}
	toTarget := reach(invert(graph), target)

	onChain := make(map[string]bool)
	for asset := range fromSource {
		if toTarget[asset] {
			onChain[asset] = true
		}
	}
	return restrict(graph, onChain)
}

// invert returns graph with every edge reversed, so referencers become
// dependencies.
func invert(graph DependencyGraph) DependencyGraph {
	referencers := make(DependencyGraph, len(graph))
	for asset, deps := range graph {
		for _, dep := range deps {
			referencers[dep] = append(referencers[dep], asset)
		}
	}
	return referencers
}

// reach returns start and every asset reachable from it.
func reach(graph DependencyGraph, start string) map[string]bool {
	seen := map[string]bool{start: true}
	pending := []string{start}
	for len(pending) > 0 {
		asset := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		for _, dep := range graph[asset] {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			pending = append(pending, dep)
		}
	}
	return seen
}

// restrict keeps only the assets in keep and the edges between them.
func restrict(graph DependencyGraph, keep map[string]bool) DependencyGraph {
	sub := make(DependencyGraph, len(keep))
	for asset := range keep {
		deps := []string{}
		for _, dep := range graph[asset] {
			if keep[dep] {
				deps = append(deps, dep)
			}
		}
		sub[asset] = deps
	}
	return sub
}

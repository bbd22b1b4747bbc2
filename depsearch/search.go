// Package depsearch walks the asset dependency graph from a set of Game
// assets and sorts everything it reaches into engine, script, plugin and game
// dependencies.
//
// Only game assets are expanded. Engine, script and plugin assets are leaves:
// the walk records them and never asks for their own dependencies.
package depsearch

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/LegacyCodeHQ/p4migrate/assetindex"
	"github.com/LegacyCodeHQ/p4migrate/assetpath"
	"github.com/LegacyCodeHQ/p4migrate/depgraph"
)

// Search is a single dependency search session. Create one with New per root
// set; it is not safe for concurrent use.
type Search struct {
	index   assetindex.Index
	options assetindex.DependencyOptions
	log     logrus.FieldLogger

	roots    []string
	rootSet  map[string]bool
	visited  map[string]bool
	gathered bool

	engine map[string]bool
	script map[string]bool
	plugin map[string]bool
	game   map[string]bool

	graph depgraph.DependencyGraph
}

// Option configures a Search.
type Option func(*Search)

// WithLogger sets the logger used for per-asset debug output.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Search) {
		s.log = log
	}
}

// New creates a search over index rooted at roots. Duplicate roots collapse;
// the first occurrence fixes the processing order.
func New(index assetindex.Index, roots []string, opts ...Option) *Search {
	s := &Search{
		index:   index,
		options: assetindex.DefaultDependencyOptions,
		log:     logrus.StandardLogger(),
		rootSet: make(map[string]bool, len(roots)),
		visited: make(map[string]bool),
		engine:  make(map[string]bool),
		script:  make(map[string]bool),
		plugin:  make(map[string]bool),
		game:    make(map[string]bool),
		graph:   make(depgraph.DependencyGraph),
	}
	for _, root := range roots {
		if s.rootSet[root] {
			continue
		}
		s.rootSet[root] = true
		s.roots = append(s.roots, root)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// frame is one pending expansion: the asset, its direct dependencies, the
// index of the next dependency to look at and the dependencies already
// recorded as edges.
type frame struct {
	asset    string
	deps     []string
	next     int
	recorded map[string]bool
}

// GatherAllDependencies walks the dependency graph from every root.
//
// Every root must be a game asset. The first root that is not aborts the
// walk with a *NotGameAssetError; roots processed before it keep their
// results. An error from the index aborts the walk as well.
func (s *Search) GatherAllDependencies(ctx context.Context) error {
	if s.gathered {
		return ErrSessionUsed
	}
	s.gathered = true

	for _, root := range s.roots {
		if !assetpath.IsGameAsset(root) {
			s.log.Errorf("%s is not in Game content. Can only find dependencies for Game content.", root)
			return &NotGameAssetError{Asset: root}
		}

		s.game[root] = true
		s.graph.AddNode(root)

		if s.visited[root] {
			continue
		}
		if err := s.expand(ctx, root); err != nil {
			return err
		}
	}

	s.log.Debugf("gathered %d game, %d engine, %d script, %d plugin dependencies",
		len(s.game), len(s.engine), len(s.script), len(s.plugin))
	return nil
}

// expand performs a depth-first walk from start using an explicit stack.
// Each asset is marked visited before its dependencies are fetched.
func (s *Search) expand(ctx context.Context, start string) error {
	first, err := s.visit(ctx, start)
	if err != nil {
		return err
	}

	stack := []*frame{first}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next >= len(top.deps) {
			stack = stack[:len(stack)-1]
			continue
		}

		dep := top.deps[top.next]
		top.next++
		if top.recorded[dep] {
			continue
		}
		top.recorded[dep] = true
		s.graph.AddEdge(top.asset, dep)

		if s.visited[dep] {
			continue
		}

		switch assetpath.Classify(dep) {
		case assetpath.NamespaceEngine:
			s.engine[dep] = true
			continue
		case assetpath.NamespaceScript:
			s.script[dep] = true
			continue
		case assetpath.NamespacePlugin:
			s.plugin[dep] = true
			continue
		}

		s.game[dep] = true
		next, err := s.visit(ctx, dep)
		if err != nil {
			return err
		}
		stack = append(stack, next)
	}

	return nil
}

func (s *Search) visit(ctx context.Context, asset string) (*frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.visited[asset] = true
	deps, err := s.index.Dependencies(ctx, asset, s.options)
	if err != nil {
		return nil, fmt.Errorf("failed to get dependencies of %s: %w", asset, err)
	}
	s.graph.AddNode(asset)

	s.log.WithField("asset", asset).Debugf("expanding %d dependencies", len(deps))
	return &frame{asset: asset, deps: deps, recorded: make(map[string]bool, len(deps))}, nil
}

// Roots returns the deduplicated roots in processing order.
func (s *Search) Roots() []string {
	return append([]string(nil), s.roots...)
}

// GameDependencies returns the game assets found, roots included, sorted.
func (s *Search) GameDependencies() []string {
	return sortedKeys(s.game)
}

// EngineDependencies returns the engine assets found, sorted.
func (s *Search) EngineDependencies() []string {
	return sortedKeys(s.engine)
}

// ScriptDependencies returns the /Script references found, sorted.
func (s *Search) ScriptDependencies() []string {
	return sortedKeys(s.script)
}

// PluginDependencies returns the plugin assets found, sorted.
func (s *Search) PluginDependencies() []string {
	return sortedKeys(s.plugin)
}

// Visited returns the assets whose dependencies were fetched, sorted.
func (s *Search) Visited() []string {
	return sortedKeys(s.visited)
}

// Partition reports which result set holds the asset.
func (s *Search) Partition(asset string) (assetpath.Namespace, bool) {
	switch {
	case s.game[asset]:
		return assetpath.NamespaceGame, true
	case s.engine[asset]:
		return assetpath.NamespaceEngine, true
	case s.script[asset]:
		return assetpath.NamespaceScript, true
	case s.plugin[asset]:
		return assetpath.NamespacePlugin, true
	default:
		return "", false
	}
}

// RequiredPlugins returns the names of the plugins that plugin dependencies
// belong to, deduplicated and sorted.
func (s *Search) RequiredPlugins() []string {
	plugins := make(map[string]bool)
	for asset := range s.plugin {
		if name, ok := assetpath.PluginName(asset); ok {
			plugins[name] = true
		}
	}
	return sortedKeys(plugins)
}

// Graph returns a copy of every reference observed from an expanded asset.
func (s *Search) Graph() depgraph.DependencyGraph {
	out := make(depgraph.DependencyGraph, len(s.graph))
	for asset, deps := range s.graph {
		out[asset] = append([]string{}, deps...)
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

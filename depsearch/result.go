package depsearch

import "github.com/LegacyCodeHQ/p4migrate/depgraph"

// Result is a snapshot of a finished search.
type Result struct {
	Roots              []string                 `json:"roots" yaml:"roots"`
	GameDependencies   []string                 `json:"game_dependencies" yaml:"game_dependencies"`
	EngineDependencies []string                 `json:"engine_dependencies" yaml:"engine_dependencies"`
	ScriptDependencies []string                 `json:"script_dependencies" yaml:"script_dependencies"`
	PluginDependencies []string                 `json:"plugin_dependencies" yaml:"plugin_dependencies"`
	RequiredPlugins    []string                 `json:"required_plugins" yaml:"required_plugins"`
	Graph              depgraph.DependencyGraph `json:"-" yaml:"-"`
}

// Result captures the current state of the search.
func (s *Search) Result() Result {
	return Result{
		Roots:              s.Roots(),
		GameDependencies:   s.GameDependencies(),
		EngineDependencies: s.EngineDependencies(),
		ScriptDependencies: s.ScriptDependencies(),
		PluginDependencies: s.PluginDependencies(),
		RequiredPlugins:    s.RequiredPlugins(),
		Graph:              s.Graph(),
	}
}

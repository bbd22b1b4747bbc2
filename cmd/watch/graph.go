package watch

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/LegacyCodeHQ/p4migrate/assetindex"
	"github.com/LegacyCodeHQ/p4migrate/cmd/gather/formatters"
	"github.com/LegacyCodeHQ/p4migrate/cmd/gather/formatters/dot"
	"github.com/LegacyCodeHQ/p4migrate/depsearch"
)

// buildDOTGraph reloads the index and gathers the roots from scratch.
func buildDOTGraph(ctx context.Context, opts *watchOptions) (string, error) {
	index, err := assetindex.LoadFile(opts.indexPath)
	if err != nil {
		return "", fmt.Errorf("failed to load dependency index: %w", err)
	}

	search := depsearch.New(index, opts.roots, depsearch.WithLogger(logrus.StandardLogger()))
	if err := search.GatherAllDependencies(ctx); err != nil {
		return "", fmt.Errorf("failed to gather dependencies: %w", err)
	}

	result := search.Result()
	label := fmt.Sprintf("%d game, %d engine, %d script, %d plugin dependencies",
		len(result.GameDependencies), len(result.EngineDependencies),
		len(result.ScriptDependencies), len(result.PluginDependencies))

	return (&dot.Formatter{}).Format(result, formatters.FormatOptions{Label: label})
}

// Package assetindex provides the asset dependency lookup used by the
// dependency search, backed by a dump of the editor's asset registry.
package assetindex

import "context"

// Index answers direct-dependency queries for asset identifiers.
//
// Dependencies returns an empty slice, not an error, for assets that have no
// dependencies or are unknown to the index.
type Index interface {
	Dependencies(ctx context.Context, assetPath string, opts DependencyOptions) ([]string, error)
}

// MapIndex is an Index over a fixed adjacency map. Options are ignored.
type MapIndex map[string][]string

// Dependencies returns a copy of the dependencies recorded for assetPath.
func (m MapIndex) Dependencies(_ context.Context, assetPath string, _ DependencyOptions) ([]string, error) {
	deps := m[assetPath]
	out := make([]string, len(deps))
	copy(out, deps)
	return out, nil
}

package testhelpers

import (
	"context"
	"sort"
	"sync"

	"github.com/LegacyCodeHQ/p4migrate/assetindex"
)

// CountingIndex wraps an assetindex.Index and records how often each asset
// was queried.
type CountingIndex struct {
	Index assetindex.Index

	mu      sync.Mutex
	queries map[string]int
}

func NewCountingIndex(idx assetindex.Index) *CountingIndex {
	return &CountingIndex{Index: idx, queries: make(map[string]int)}
}

func (c *CountingIndex) Dependencies(ctx context.Context, assetPath string, opts assetindex.DependencyOptions) ([]string, error) {
	c.mu.Lock()
	c.queries[assetPath]++
	c.mu.Unlock()
	return c.Index.Dependencies(ctx, assetPath, opts)
}

// Count returns how many times assetPath was queried.
func (c *CountingIndex) Count(assetPath string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queries[assetPath]
}

// Queried returns every queried asset, sorted.
func (c *CountingIndex) Queried() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	assets := make([]string, 0, len(c.queries))
	for asset := range c.queries {
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	return assets
}

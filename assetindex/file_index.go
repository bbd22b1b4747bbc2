package assetindex

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// AssetReferences lists the direct references of one asset, grouped by kind
// as the asset registry reports them.
type AssetReferences struct {
	Hard            []string `yaml:"hard,omitempty" json:"hard,omitempty"`
	Soft            []string `yaml:"soft,omitempty" json:"soft,omitempty"`
	SearchableNames []string `yaml:"searchable_names,omitempty" json:"searchable_names,omitempty"`
	SoftManagement  []string `yaml:"soft_management,omitempty" json:"soft_management,omitempty"`
	HardManagement  []string `yaml:"hard_management,omitempty" json:"hard_management,omitempty"`
}

// Dump is the on-disk layout of an exported asset registry.
type Dump struct {
	Assets map[string]AssetReferences `yaml:"assets" json:"assets"`
}

// FileIndex is an Index loaded from a registry dump.
type FileIndex struct {
	path   string
	assets map[string]AssetReferences
}

// LoadFile reads a YAML or JSON registry dump. A leading "~" is expanded to
// the user's home directory.
func LoadFile(path string) (*FileIndex, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand index path %s: %w", path, err)
	}

	f, err := os.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to open index %s: %w", expanded, err)
	}
	defer f.Close()

	idx, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse index %s: %w", expanded, err)
	}
	idx.path = expanded
	return idx, nil
}

// Parse decodes a registry dump. JSON input is accepted since it is valid YAML.
func Parse(r io.Reader) (*FileIndex, error) {
	var dump Dump
	if err := yaml.NewDecoder(r).Decode(&dump); err != nil {
		if err == io.EOF {
			return &FileIndex{assets: map[string]AssetReferences{}}, nil
		}
		return nil, err
	}
	if dump.Assets == nil {
		dump.Assets = map[string]AssetReferences{}
	}
	return &FileIndex{assets: dump.Assets}, nil
}

// Path returns the file the index was loaded from, or "" for parsed input.
func (f *FileIndex) Path() string {
	return f.path
}

// Len returns the number of assets with recorded references.
func (f *FileIndex) Len() int {
	return len(f.assets)
}

// Assets returns every asset with recorded references, sorted.
func (f *FileIndex) Assets() []string {
	assets := make([]string, 0, len(f.assets))
	for asset := range f.assets {
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	return assets
}

// Dependencies returns the references of assetPath enabled by opts, in the
// order hard, soft, searchable names, soft management, hard management.
// Each dependency appears once.
func (f *FileIndex) Dependencies(ctx context.Context, assetPath string, opts DependencyOptions) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	refs, ok := f.assets[assetPath]
	if !ok {
		return []string{}, nil
	}

	groups := []struct {
		enabled bool
		paths   []string
	}{
		{opts.HardPackageReferences, refs.Hard},
		{opts.SoftPackageReferences, refs.Soft},
		{opts.SearchableNames, refs.SearchableNames},
		{opts.SoftManagementReferences, refs.SoftManagement},
		{opts.HardManagementReferences, refs.HardManagement},
	}

	seen := make(map[string]bool)
	deps := make([]string, 0, len(refs.Hard)+len(refs.Soft))
	for _, group := range groups {
		if !group.enabled {
			continue
		}
		for _, p := range group.paths {
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			deps = append(deps, p)
		}
	}
	return deps, nil
}

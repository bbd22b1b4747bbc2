// Package project resolves paths inside an Unreal project directory.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/LegacyCodeHQ/p4migrate/assetpath"
)

// ErrNotOnDisk is returned when an asset has no package file under Content.
var ErrNotOnDisk = errors.New("asset not found on disk")

// PackageExtensions are tried in order when resolving an asset on disk.
var PackageExtensions = []string{".uasset", ".umap"}

// Project is an Unreal project rooted at a directory containing Content/ and
// Saved/.
type Project struct {
	Root string
}

// Open resolves root to an absolute path. "~" is expanded.
func Open(root string) (Project, error) {
	expanded, err := homedir.Expand(root)
	if err != nil {
		return Project{}, fmt.Errorf("failed to expand project path %s: %w", root, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return Project{}, fmt.Errorf("failed to resolve project path %s: %w", root, err)
	}
	return Project{Root: abs}, nil
}

// ContentDir returns the project's Content directory.
func (p Project) ContentDir() string {
	return filepath.Join(p.Root, "Content")
}

// SavedDir returns the project's Saved directory.
func (p Project) SavedDir() string {
	return filepath.Join(p.Root, "Saved")
}

// OnDiskPath returns the package file backing a /Game asset. The asset path
// must start with the exact "/Game/" mount point.
func (p Project) OnDiskPath(assetPath string) (string, error) {
	if !assetpath.IsGameContentPath(assetPath) {
		return "", fmt.Errorf("%w: %s is not a valid game asset path, must start with '/Game/'", ErrNotOnDisk, assetPath)
	}

	pkgDir := filepath.FromSlash(assetpath.PackageDir(assetPath))
	pkgName := assetpath.BaseName(assetPath)

	for _, ext := range PackageExtensions {
		diskPath := filepath.Join(p.ContentDir(), pkgDir, pkgName+ext)
		info, err := os.Stat(diskPath)
		if err == nil && !info.IsDir() {
			return filepath.ToSlash(diskPath), nil
		}
	}

	return "", fmt.Errorf("%w: no file exists on disk for asset path %s", ErrNotOnDisk, assetPath)
}

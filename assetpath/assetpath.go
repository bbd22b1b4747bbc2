// Package assetpath classifies asset identifiers by the namespace encoded in
// their first path segment.
//
// Asset identifiers are slash-delimited virtual paths such as
// "/Game/Characters/Hero" or "/MyPlugin/Widgets/Button". The first segment
// selects the namespace: "Engine", "Script" and "Game" are reserved, any other
// token names a plugin.
package assetpath

import (
	"path"
	"strings"
)

// Namespace identifies where an asset comes from.
type Namespace string

const (
	NamespaceEngine Namespace = "engine"
	NamespaceScript Namespace = "script"
	NamespacePlugin Namespace = "plugin"
	NamespaceGame   Namespace = "game"
)

// String returns the string representation of the namespace.
func (n Namespace) String() string {
	return string(n)
}

const (
	enginePrefix = "/engine/"
	scriptPrefix = "/script/"
	gamePrefix   = "/game/"

	// GameContentRoot is the exact mount point of project content on disk.
	GameContentRoot = "/Game"
)

// IsEngineAsset reports whether the asset lives in the engine namespace.
func IsEngineAsset(assetPath string) bool {
	return strings.HasPrefix(strings.ToLower(assetPath), enginePrefix)
}

// IsScriptAsset reports whether the asset is a code-backed /Script reference.
func IsScriptAsset(assetPath string) bool {
	return strings.HasPrefix(strings.ToLower(assetPath), scriptPrefix)
}

// IsGameAsset reports whether the asset is project content.
func IsGameAsset(assetPath string) bool {
	return strings.HasPrefix(strings.ToLower(assetPath), gamePrefix)
}

// IsPluginAsset reports whether the asset belongs to none of the reserved
// namespaces.
func IsPluginAsset(assetPath string) bool {
	return !IsGameAsset(assetPath) && !IsScriptAsset(assetPath) && !IsEngineAsset(assetPath)
}

// Classify returns the namespace of the asset. Checks run in the order
// engine, script, plugin, game.
func Classify(assetPath string) Namespace {
	switch {
	case IsEngineAsset(assetPath):
		return NamespaceEngine
	case IsScriptAsset(assetPath):
		return NamespaceScript
	case IsPluginAsset(assetPath):
		return NamespacePlugin
	default:
		return NamespaceGame
	}
}

// IsGameContentPath reports whether the asset path starts with the exact,
// case-sensitive "/Game/" mount point. Unlike IsGameAsset it does not fold
// case, matching how content is laid out on disk.
func IsGameContentPath(assetPath string) bool {
	return strings.HasPrefix(assetPath, GameContentRoot+"/")
}

// PluginName returns the namespace token of a plugin asset, e.g. "MyPlugin"
// for "/MyPlugin/Folder/Asset". The second return value is false when the
// identifier has no segment after the root separator.
func PluginName(assetPath string) (string, bool) {
	segments := strings.Split(assetPath, "/")
	if len(segments) < 2 || segments[1] == "" {
		return "", false
	}
	return segments[1], true
}

// PackageDir returns the directory of a /Game asset relative to the content
// root, without leading slash. "/Game/Maps/Level" yields "Maps".
func PackageDir(assetPath string) string {
	dir := path.Dir(assetPath)
	dir = strings.Replace(dir, GameContentRoot, "", 1)
	return strings.TrimLeft(dir, "/")
}

// BaseName returns the package file name of an asset without any object
// suffix. "/Game/Maps/Level.Level" yields "Level".
func BaseName(assetPath string) string {
	base := path.Base(assetPath)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}

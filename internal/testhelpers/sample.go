package testhelpers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/p4migrate/assetindex"
	"github.com/LegacyCodeHQ/p4migrate/depsearch"
)

// SampleIndex is a small project: a level referencing a character, engine
// and script assets, and a character/weapon pair referencing each other.
func SampleIndex() assetindex.MapIndex {
	return assetindex.MapIndex{
		"/Game/Maps/Level":      {"/Game/Characters/Hero", "/Engine/BasicShapes/Cube", "/Script/CoreUObject"},
		"/Game/Characters/Hero": {"/Game/Weapons/Sword", "/Niagara/FX/Spark"},
		"/Game/Weapons/Sword":   {"/Game/Characters/Hero"},
	}
}

// SampleResult gathers SampleIndex from "/Game/Maps/Level".
func SampleResult(t *testing.T) depsearch.Result {
	t.Helper()
	search := depsearch.New(SampleIndex(), []string{"/Game/Maps/Level"})
	require.NoError(t, search.GatherAllDependencies(context.Background()))
	return search.Result()
}

// SampleDump is SampleIndex as a registry dump file.
const SampleDump = `assets:
  /Game/Maps/Level:
    hard:
      - /Game/Characters/Hero
      - /Engine/BasicShapes/Cube
    soft:
      - /Script/CoreUObject
  /Game/Characters/Hero:
    hard:
      - /Game/Weapons/Sword
    soft:
      - /Niagara/FX/Spark
  /Game/Weapons/Sword:
    soft:
      - /Game/Characters/Hero
`

// WriteSampleDump writes SampleDump into dir and returns its path.
func WriteSampleDump(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "deps.yaml")
	require.NoError(t, os.WriteFile(path, []byte(SampleDump), 0o644))
	return path
}

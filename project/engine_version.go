package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
)

const (
	legacyEditorPlatform = "Windows"
	editorPlatform       = "WindowsEditor"
)

var editorPlatformSplit = semver.MustParse("5.0.0")

// ParseEngineVersion parses an engine version string such as
// "5.1.1-23901901+++UE5+Release-5.1". Only the numeric prefix matters.
func ParseEngineVersion(version string) (*semver.Version, error) {
	v, err := semver.NewVersion(trimBuildSuffix(version))
	if err != nil {
		return nil, fmt.Errorf("invalid engine version %q: %w", version, err)
	}
	return v, nil
}

// EditorPlatformToken returns the Saved/Config sub-directory the editor
// writes its per-user settings to. Engines before 5.0 use "Windows".
func EditorPlatformToken(v *semver.Version) string {
	if v.LessThan(editorPlatformSplit) {
		return legacyEditorPlatform
	}
	return editorPlatform
}

func trimBuildSuffix(version string) string {
	for i, r := range version {
		if r == '-' || r == '+' || r == ' ' {
			return version[:i]
		}
	}
	return version
}

// EngineAssociation returns the EngineAssociation of the first .uproject
// file in the project root, or "" if there is none.
func (p Project) EngineAssociation() (string, error) {
	matches, err := filepath.Glob(filepath.Join(p.Root, "*.uproject"))
	if err != nil || len(matches) == 0 {
		return "", err
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", matches[0], err)
	}
	var descriptor struct {
		EngineAssociation string `json:"EngineAssociation"`
	}
	if err := json.Unmarshal(data, &descriptor); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", matches[0], err)
	}
	return descriptor.EngineAssociation, nil
}

// EditorPlatforms lists the Saved/Config sub-directories to search for editor
// settings, most likely first. Source builds associate with a GUID rather
// than a version, so both tokens are returned in that case.
func (p Project) EditorPlatforms() []string {
	association, err := p.EngineAssociation()
	if err == nil && association != "" {
		if v, err := ParseEngineVersion(association); err == nil {
			if EditorPlatformToken(v) == legacyEditorPlatform {
				return []string{legacyEditorPlatform, editorPlatform}
			}
		}
	}
	return []string{editorPlatform, legacyEditorPlatform}
}

// Package cmdutil holds the plumbing shared by subcommands: project
// discovery, index loading and Perforce connection resolution.
package cmdutil

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/p4migrate/assetindex"
	"github.com/LegacyCodeHQ/p4migrate/project"
	"github.com/LegacyCodeHQ/p4migrate/settings"
)

// ProjectFlag is the persistent root flag naming the project directory.
const ProjectFlag = "project"

// ProjectPath returns the --project value visible to cmd, or ".".
func ProjectPath(cmd *cobra.Command) string {
	if f := cmd.Flag(ProjectFlag); f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	return "."
}

// OpenProject opens the project named by --project.
func OpenProject(cmd *cobra.Command) (project.Project, error) {
	return project.Open(ProjectPath(cmd))
}

// LoadIndex reads a dependency dump.
func LoadIndex(path string) (*assetindex.FileIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("a dependency index is required (--index)")
	}
	index, err := assetindex.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load dependency index: %w", err)
	}
	logrus.Debugf("loaded %d assets from %s", index.Len(), index.Path())
	return index, nil
}

// ResolveSettings layers overrides (usually command flags) over the saved
// settings, the P4PORT/P4USER/P4CLIENT environment and finally the
// Perforce connection the editor last used.
func ResolveSettings(proj project.Project, overrides settings.Settings) (settings.Settings, error) {
	saved, err := settings.Load(settings.Path(proj.SavedDir()))
	if err != nil && !errors.Is(err, settings.ErrNotFound) {
		return settings.Settings{}, fmt.Errorf("failed to read saved settings: %w", err)
	}
	if err != nil {
		saved.ApplyEnvironment()
	}

	resolved := overrides.Merge(saved)
	resolved.DryRun = overrides.DryRun || saved.DryRun
	if resolved.Connection().Validate() == nil {
		return resolved, nil
	}

	for _, platform := range proj.EditorPlatforms() {
		cached, err := settings.CachedPerforce(proj.SavedDir(), platform)
		if errors.Is(err, settings.ErrNotFound) {
			continue
		}
		if err != nil {
			logrus.Warnf("ignoring editor Perforce settings: %v", err)
			break
		}
		resolved = resolved.Merge(settings.Settings{Port: cached.Port, User: cached.User, Client: cached.Client})
		break
	}
	return resolved, nil
}

// AddConnectionFlags registers --port, --user and --client on cmd.
func AddConnectionFlags(cmd *cobra.Command, s *settings.Settings) {
	cmd.Flags().StringVar(&s.Port, "port", "", "Perforce server (default: saved settings, P4PORT, editor settings)")
	cmd.Flags().StringVar(&s.User, "user", "", "Perforce user (default: saved settings, P4USER, editor settings)")
	cmd.Flags().StringVar(&s.Client, "client", "", "Perforce workspace (default: saved settings, P4CLIENT, editor settings)")
}

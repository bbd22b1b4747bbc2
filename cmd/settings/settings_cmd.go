package settings

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/p4migrate/cmd/cmdutil"
	"github.com/LegacyCodeHQ/p4migrate/settings"
)

// NewCommand returns a new settings command instance.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or save the Perforce settings remembered for a project",
		Long: `Settings live in Saved/UnrealP4Migrate/unrealp4migrate_settings.json inside the
project. Perforce connection values that are not saved fall back to P4PORT,
P4USER and P4CLIENT, then to the connection the editor last used.`,
	}

	cmd.AddCommand(newShowCommand(), newSaveCommand())
	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := cmdutil.OpenProject(cmd)
			if err != nil {
				return err
			}

			resolved, err := cmdutil.ResolveSettings(proj, settings.Settings{})
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(resolved, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

type saveOptions struct {
	values settings.Settings
}

func newSaveCommand() *cobra.Command {
	opts := &saveOptions{}

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Update the saved settings with the given flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(cmd, opts)
		},
	}

	cmdutil.AddConnectionFlags(cmd, &opts.values)
	cmd.Flags().StringVar(&opts.values.StreamOption, "stream-option", "", "Streams to list by default (children, all)")
	cmd.Flags().StringVar(&opts.values.Stream, "stream", "", "Default target stream, e.g. //Game/release")
	cmd.Flags().BoolVar(&opts.values.DryRun, "dry-run", false, "Do not save branch mappings by default")
	cmd.Flags().StringVar(&opts.values.RemapKey, "remap-key", "", "Text to replace in target paths")
	cmd.Flags().StringVar(&opts.values.RemapValue, "remap-value", "", "Replacement for --remap-key")

	return cmd
}

func runSave(cmd *cobra.Command, opts *saveOptions) error {
	proj, err := cmdutil.OpenProject(cmd)
	if err != nil {
		return err
	}
	path := settings.Path(proj.SavedDir())

	saved, err := settings.Load(path)
	if err != nil && !errors.Is(err, settings.ErrNotFound) {
		return err
	}

	updated := opts.values.Merge(saved)
	if cmd.Flags().Changed("dry-run") {
		updated.DryRun = opts.values.DryRun
	} else {
		updated.DryRun = saved.DryRun
	}

	if err := settings.Save(path, updated); err != nil {
		return err
	}
	logrus.Debugf("settings written to %s", path)
	fmt.Fprintf(cmd.OutOrStdout(), "Settings saved to %s\n", path)
	return nil
}

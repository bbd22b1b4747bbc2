package branch

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/p4migrate/cmd/cmdutil"
	"github.com/LegacyCodeHQ/p4migrate/migrate"
	"github.com/LegacyCodeHQ/p4migrate/settings"
	"github.com/LegacyCodeHQ/p4migrate/vcs/p4"
)

type branchOptions struct {
	indexPath   string
	name        string
	target      string
	dryRun      bool
	password    string
	remapKey    string
	remapValue  string
	concurrency int
	connection  settings.Settings
	runner      p4.Runner
}

// NewCommand returns a new branch command instance.
func NewCommand() *cobra.Command {
	return newCommand(&branchOptions{})
}

func newCommand(opts *branchOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch --name <branch> --target <stream> <asset>...",
		Short: "Create a Perforce branch mapping for the dependencies of some assets",
		Long: `Gathers the game dependencies of the given /Game assets and writes a branch
mapping from their depot paths in the current stream to the same paths in the
target stream. Assets missing on disk or in the depot are skipped with a warning.

Connection values come from the flags, then the saved settings, then P4PORT,
P4USER and P4CLIENT, then the connection the editor last used.

Example usage:
  p4migrate branch --index deps.yaml --name hero-migration --target //Game/release /Game/Characters/Hero
  p4migrate branch --index deps.yaml --name hero-migration --dry-run /Game/Maps/Level`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBranch(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.indexPath, "index", "i", "", "Dependency index file (YAML or JSON)")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Branch mapping name")
	cmd.Flags().StringVarP(&opts.target, "target", "t", "", "Target stream, e.g. //Game/release (default: saved stream)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the branch spec instead of saving it (default: saved dry_run)")
	cmd.Flags().StringVar(&opts.password, "password", "", "Perforce password (default: use an existing ticket)")
	cmd.Flags().StringVar(&opts.remapKey, "remap-key", "", "Text to replace in target paths (default: saved remap_key)")
	cmd.Flags().StringVar(&opts.remapValue, "remap-value", "", "Replacement for --remap-key (default: saved remap_value)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 8, "Parallel depot lookups")
	cmdutil.AddConnectionFlags(cmd, &opts.connection)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runBranch(cmd *cobra.Command, opts *branchOptions, roots []string) error {
	proj, err := cmdutil.OpenProject(cmd)
	if err != nil {
		return err
	}

	overrides := opts.connection
	overrides.Stream = opts.target
	overrides.RemapKey = opts.remapKey
	overrides.RemapValue = opts.remapValue
	resolved, err := cmdutil.ResolveSettings(proj, overrides)
	if err != nil {
		return err
	}
	if resolved.Stream == "" {
		return fmt.Errorf("a target stream is required (--target or saved stream setting)")
	}
	if err := settings.Validate(resolved); err != nil {
		return err
	}

	dryRun := resolved.DryRun
	if cmd.Flags().Changed("dry-run") {
		dryRun = opts.dryRun
	}

	index, err := cmdutil.LoadIndex(opts.indexPath)
	if err != nil {
		return err
	}

	m := migrate.New(migrate.Options{
		Index:   index,
		Project: proj,
		Dial: func(conn settings.Connection) migrate.VersionControl {
			return cmdutil.NewP4Client(conn, opts.runner)
		},
		Log:         logrus.StandardLogger(),
		Remap:       migrate.Remap{Key: resolved.RemapKey, Value: resolved.RemapValue},
		Concurrency: opts.concurrency,
		Progress:    cmd.ErrOrStderr(),
	})

	ctx := cmd.Context()
	conn := resolved.Connection()
	if err := m.Connect(ctx, migrate.ConnectOptions{
		Port:     conn.Port,
		User:     conn.User,
		Client:   conn.Client,
		Password: opts.password,
	}); err != nil {
		return err
	}

	if _, err := m.GatherDependencies(ctx, roots); err != nil {
		return fmt.Errorf("failed to gather dependencies: %w", err)
	}

	spec, mapping, err := m.CreateBranchMapping(ctx, opts.name, resolved.Stream, dryRun)
	if err != nil {
		return fmt.Errorf("failed to create branch mapping: %w", err)
	}

	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprint(out, spec.Form())
	} else {
		fmt.Fprintf(out, "Branch mapping %s saved with %d view lines\n", spec.Name, len(spec.View))
	}
	if n := len(mapping.Skipped); n > 0 {
		fmt.Fprintf(out, "Skipped %d assets:\n", n)
		for _, s := range mapping.Skipped {
			fmt.Fprintf(out, "  %s\n", s.Error())
		}
	}
	return nil
}

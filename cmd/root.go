package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/p4migrate/cmd/branch"
	"github.com/LegacyCodeHQ/p4migrate/cmd/cmdutil"
	"github.com/LegacyCodeHQ/p4migrate/cmd/gather"
	settingscmd "github.com/LegacyCodeHQ/p4migrate/cmd/settings"
	"github.com/LegacyCodeHQ/p4migrate/cmd/streams"
	"github.com/LegacyCodeHQ/p4migrate/cmd/watch"
	"github.com/LegacyCodeHQ/p4migrate/cmd/why"
	"github.com/LegacyCodeHQ/p4migrate/internal/logger"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

type rootOptions struct {
	projectPath string
	debug       bool
	hideTime    bool
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = NewRootCommand()

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{projectPath: "."}

	cmd := &cobra.Command{
		Use:   "p4migrate",
		Short: "Move Unreal assets and everything they depend on to another Perforce stream",
		Long: `p4migrate gathers the dependencies of Unreal /Game assets from an exported
asset registry and turns them into a Perforce branch mapping between streams.

Use 'p4migrate --help' to see all available commands, or 'p4migrate <command> --help'
for detailed information about a specific command.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.Init(logger.Options{
				Verbose:    opts.debug,
				HideTime:   opts.hideTime,
				ShowCaller: opts.debug,
				Out:        cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	cmd.AddCommand(
		gather.NewCommand(),
		why.NewCommand(),
		branch.NewCommand(),
		streams.NewCommand(),
		settingscmd.NewCommand(),
		watch.NewCommand(),
	)

	if cmd.Annotations == nil {
		cmd.Annotations = make(map[string]string)
	}
	cmd.Annotations["buildDate"] = buildDate
	cmd.Annotations["commit"] = commit

	cmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	cmd.PersistentFlags().StringVarP(&opts.projectPath, cmdutil.ProjectFlag, "p", opts.projectPath, "Unreal project directory (contains Content/ and Saved/)")
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&opts.hideTime, "hide-time", false, "Omit timestamps from log output")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

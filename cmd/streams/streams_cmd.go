package streams

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/p4migrate/cmd/cmdutil"
	"github.com/LegacyCodeHQ/p4migrate/settings"
	"github.com/LegacyCodeHQ/p4migrate/vcs/p4"
)

type streamsOptions struct {
	connection settings.Settings
	password   string
	all        bool
	parent     bool
	runner     p4.Runner
}

// NewCommand returns a new streams command instance.
func NewCommand() *cobra.Command {
	return newCommand(&streamsOptions{})
}

func newCommand(opts *streamsOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streams",
		Short: "List candidate target streams",
		Long: `Lists the child streams of the workspace's current stream, or every stream of
its depot with --all. Without --all the saved stream_option setting decides.
--parent prints the current stream's parent instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStreams(cmd, opts)
		},
	}

	cmdutil.AddConnectionFlags(cmd, &opts.connection)
	cmd.Flags().StringVar(&opts.password, "password", "", "Perforce password (default: use an existing ticket)")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "List every stream of the depot")
	cmd.Flags().BoolVar(&opts.parent, "parent", false, "Print the parent of the current stream")
	cmd.MarkFlagsMutuallyExclusive("all", "parent")

	return cmd
}

func runStreams(cmd *cobra.Command, opts *streamsOptions) error {
	proj, err := cmdutil.OpenProject(cmd)
	if err != nil {
		return err
	}
	resolved, err := cmdutil.ResolveSettings(proj, opts.connection)
	if err != nil {
		return err
	}
	conn := resolved.Connection()
	if err := conn.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	client := cmdutil.NewP4Client(conn, opts.runner)
	if err := client.Login(ctx, opts.password); err != nil {
		return err
	}

	stream, err := client.CurrentStream(ctx)
	if err != nil {
		return err
	}
	if stream == "" {
		return fmt.Errorf("workspace %s is not a stream workspace", conn.Client)
	}

	if opts.parent {
		parent, err := client.ParentStream(ctx, stream)
		if err != nil {
			return err
		}
		if parent == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is a mainline stream\n", stream)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), parent)
		return nil
	}

	depotName, err := client.DepotForStream(ctx, stream)
	if err != nil {
		return err
	}
	if depotName == "" {
		return fmt.Errorf("no depot contains stream %s", stream)
	}
	depot := "//" + depotName

	all := opts.all
	if !cmd.Flags().Changed("all") {
		all = resolved.StreamOption == settings.StreamOptionAll
	}

	var names []string
	if all {
		infos, err := client.Streams(ctx, depot)
		if err != nil {
			return err
		}
		for _, info := range infos {
			names = append(names, info.Stream)
		}
	} else {
		names, err = client.ChildStreams(ctx, depot, stream)
		if err != nil {
			return err
		}
	}

	if len(names) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No streams found for %s\n", stream)
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

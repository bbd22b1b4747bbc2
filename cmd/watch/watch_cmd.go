package watch

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
)

type watchOptions struct {
	indexPath string
	port      int
	roots     []string
}

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &watchOptions{
		port: 4900,
	}

	cmd := &cobra.Command{
		Use:   "watch --index <file> <asset>...",
		Short: "Watch the dependency index and serve a live dependency graph",
		Long: `Gathers the dependencies of the given /Game assets, serves the graph at
localhost, and gathers again whenever the dependency index file changes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.roots = args
			return runWatch(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.indexPath, "index", "i", "", "Dependency index file (YAML or JSON)")
	cmd.Flags().IntVarP(&opts.port, "port", "P", opts.port, "HTTP server port")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *watchOptions) error {
	if opts.indexPath == "" {
		return fmt.Errorf("a dependency index is required (--index)")
	}
	indexPath, err := filepath.Abs(opts.indexPath)
	if err != nil {
		return fmt.Errorf("failed to resolve index path: %w", err)
	}
	opts.indexPath = indexPath

	feed := newGraphFeed()
	srv := newServer(feed, opts.port)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dot, err := buildDOTGraph(ctx, opts)
	if err != nil {
		return fmt.Errorf("initial graph build failed: %w", err)
	}
	feed.publish(dot)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", opts.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", opts.port, err)
	}

	go srv.Serve(ln)

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", opts.indexPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving at http://localhost:%d\n", opts.port)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	err = watchAndRebuild(ctx, opts, feed)

	srv.Close()
	return err
}

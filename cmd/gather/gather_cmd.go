package gather

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/p4migrate/cmd/cmdutil"
	"github.com/LegacyCodeHQ/p4migrate/cmd/gather/formatters"
	"github.com/LegacyCodeHQ/p4migrate/depsearch"
)

type gatherOptions struct {
	indexPath    string
	outputFormat string
	label        string
	generateURL  bool
}

// NewCommand returns a new gather command instance.
func NewCommand() *cobra.Command {
	opts := &gatherOptions{
		outputFormat: formatters.OutputFormatText.String(),
	}

	cmd := &cobra.Command{
		Use:   "gather <asset>...",
		Short: "Gather every dependency of one or more /Game assets",
		Long: `Walks the dependency index from each root asset and reports every asset the
selection needs, split into game, engine, script and plugin dependencies.

Only /Game assets are followed; engine, script and plugin assets are recorded
but not expanded.

Example usage:
  p4migrate gather --index deps.yaml /Game/Maps/Level
  p4migrate gather --index deps.yaml -f dot /Game/Maps/Level /Game/UI/Menu
  p4migrate gather --index deps.yaml -f mermaid --url /Game/Maps/Level`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGather(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.indexPath, "index", "i", "", "Dependency index file (YAML or JSON)")
	cmd.Flags().StringVarP(
		&opts.outputFormat,
		"format",
		"f",
		opts.outputFormat,
		fmt.Sprintf("Output format (%s)", formatters.SupportedFormats()))
	cmd.Flags().StringVarP(&opts.label, "label", "l", "", "Title for the report")
	cmd.Flags().BoolVarP(&opts.generateURL, "url", "u", false, "Print a link to an online viewer instead of the graph (dot, mermaid)")

	return cmd
}

func runGather(cmd *cobra.Command, opts *gatherOptions, roots []string) error {
	formatter, err := NewFormatter(opts.outputFormat)
	if err != nil {
		return err
	}

	index, err := cmdutil.LoadIndex(opts.indexPath)
	if err != nil {
		return err
	}

	search := depsearch.New(index, roots, depsearch.WithLogger(logrus.StandardLogger()))
	if err := search.GatherAllDependencies(cmd.Context()); err != nil {
		return fmt.Errorf("failed to gather dependencies: %w", err)
	}

	output, err := formatter.Format(search.Result(), formatters.FormatOptions{Label: opts.label})
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	if opts.generateURL {
		generator, ok := formatter.(URLGenerator)
		if !ok {
			return fmt.Errorf("--url is not supported for format %s", opts.outputFormat)
		}
		if url, ok := generator.GenerateURL(output); ok {
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}

package why

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/p4migrate/cmd/cmdutil"
	"github.com/LegacyCodeHQ/p4migrate/cmd/gather/formatters"
	"github.com/LegacyCodeHQ/p4migrate/cmd/gather/formatters/dot"
	"github.com/LegacyCodeHQ/p4migrate/cmd/gather/formatters/mermaid"
	"github.com/LegacyCodeHQ/p4migrate/depgraph"
	"github.com/LegacyCodeHQ/p4migrate/depsearch"
)

const (
	formatText    = "text"
	formatDOT     = "dot"
	formatMermaid = "mermaid"
)

type whyOptions struct {
	indexPath    string
	outputFormat string
	all          bool
}

// NewCommand returns a new why command instance.
func NewCommand() *cobra.Command {
	opts := &whyOptions{
		outputFormat: formatText,
	}

	cmd := &cobra.Command{
		Use:   "why <root> <asset>",
		Short: "Show why a root asset pulls in another asset",
		Long: `Gathers the dependencies of <root> and prints the shortest reference chain that
leads to <asset>. With --all, every asset on any chain between the two is shown.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhy(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&opts.indexPath, "index", "i", "", "Dependency index file (YAML or JSON)")
	cmd.Flags().StringVarP(
		&opts.outputFormat,
		"format",
		"f",
		opts.outputFormat,
		fmt.Sprintf("Output format (%s)", supportedFormats()))
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "Show every asset on any reference chain")

	return cmd
}

func runWhy(cmd *cobra.Command, opts *whyOptions, root, target string) error {
	if !isSupportedFormat(opts.outputFormat) {
		return fmt.Errorf("unknown format: %s (valid options: %s)", opts.outputFormat, supportedFormats())
	}

	index, err := cmdutil.LoadIndex(opts.indexPath)
	if err != nil {
		return err
	}

	search := depsearch.New(index, []string{root}, depsearch.WithLogger(logrus.StandardLogger()))
	if err := search.GatherAllDependencies(cmd.Context()); err != nil {
		return fmt.Errorf("failed to gather dependencies: %w", err)
	}
	graph := search.Graph()

	if !depgraph.ContainsNode(graph, target) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s does not depend on %s\n", root, target)
		return nil
	}

	var sub depgraph.DependencyGraph
	if opts.all {
		sub = depgraph.FindPathNodes(graph, root, target)
		if len(depgraph.Nodes(sub)) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s does not depend on %s\n", root, target)
			return nil
		}
	} else {
		chain, err := depgraph.ShortestChain(graph, root, target)
		if errors.Is(err, depgraph.ErrNoChain) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s does not depend on %s\n", root, target)
			return nil
		}
		if err != nil {
			return err
		}
		sub = chainGraph(chain)
		if opts.outputFormat == formatText {
			fmt.Fprintln(cmd.OutOrStdout(), formatChain(chain))
			return nil
		}
	}

	output, err := formatGraph(opts.outputFormat, search.Result(), sub, root, target)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}

func chainGraph(chain []string) depgraph.DependencyGraph {
	g := make(depgraph.DependencyGraph)
	for i := 0; i+1 < len(chain); i++ {
		g.AddEdge(chain[i], chain[i+1])
	}
	if len(chain) == 1 {
		g.AddNode(chain[0])
	}
	return g
}

func formatChain(chain []string) string {
	var sb strings.Builder
	sb.WriteString(chain[0])
	for _, asset := range chain[1:] {
		sb.WriteString("\n  -> ")
		sb.WriteString(asset)
	}
	return sb.String()
}

func formatGraph(format string, full depsearch.Result, sub depgraph.DependencyGraph, root, target string) (string, error) {
	label := fmt.Sprintf("%s -> %s", root, target)
	result := full
	result.Graph = sub

	switch format {
	case formatDOT:
		return (&dot.Formatter{}).Format(result, formatters.FormatOptions{Label: label})
	case formatMermaid:
		return (&mermaid.Formatter{}).Format(result, formatters.FormatOptions{Label: label})
	default:
		nodes := depgraph.Nodes(sub)
		return strings.Join(nodes, "\n"), nil
	}
}

func supportedFormats() string {
	return strings.Join([]string{formatText, formatDOT, formatMermaid}, ", ")
}

func isSupportedFormat(format string) bool {
	switch format {
	case formatText, formatDOT, formatMermaid:
		return true
	default:
		return false
	}
}

package formatters

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/LegacyCodeHQ/p4migrate/assetpath"
	"github.com/LegacyCodeHQ/p4migrate/depsearch"
)

// TextFormatter prints a summary line and a namespace/asset table.
type TextFormatter struct{}

// Format renders the result for a terminal.
func (f *TextFormatter) Format(r depsearch.Result, opts FormatOptions) (string, error) {
	var sb strings.Builder
	if opts.Label != "" {
		fmt.Fprintf(&sb, "%s\n\n", opts.Label)
	}

	fmt.Fprintf(&sb, "Roots: %s\n", strings.Join(r.Roots, ", "))
	fmt.Fprintf(&sb, "Game: %d  Engine: %d  Script: %d  Plugin: %d\n",
		len(r.GameDependencies), len(r.EngineDependencies), len(r.ScriptDependencies), len(r.PluginDependencies))
	if len(r.RequiredPlugins) > 0 {
		fmt.Fprintf(&sb, "Required plugins: %s\n", strings.Join(r.RequiredPlugins, ", "))
	}
	sb.WriteString("\n")

	table := tablewriter.NewWriter(&sb)
	table.SetHeader([]string{"Namespace", "Asset"})
	table.SetAutoWrapText(false)
	appendRows := func(ns assetpath.Namespace, assets []string) {
		for _, asset := range assets {
			table.Append([]string{ns.String(), asset})
		}
	}
	appendRows(assetpath.NamespaceGame, r.GameDependencies)
	appendRows(assetpath.NamespaceEngine, r.EngineDependencies)
	appendRows(assetpath.NamespaceScript, r.ScriptDependencies)
	appendRows(assetpath.NamespacePlugin, r.PluginDependencies)
	table.Render()

	return strings.TrimSuffix(sb.String(), "\n"), nil
}

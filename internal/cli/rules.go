package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/standardize/pkg/engine"
	"github.com/matzehuels/standardize/pkg/errors"
	"github.com/matzehuels/standardize/pkg/render/nodelink"
	"github.com/matzehuels/standardize/pkg/rule"
	"github.com/matzehuels/standardize/pkg/rule/rules"
)

// Graph output formats.
const (
	graphFormatDOT = "dot"
	graphFormatSVG = "svg"
	graphFormatPNG = "png"
)

// rulesCommand creates the rules command.
func (c *CLI) rulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the rule set",
	}

	cmd.AddCommand(c.rulesListCommand())
	cmd.AddCommand(c.rulesTreeCommand())
	cmd.AddCommand(c.rulesGraphCommand())

	return cmd
}

// configuredRules returns the rules for the loaded config.
func (c *CLI) configuredRules() ([]*rule.Rule, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return rules.New(rules.Options{AllowedEntries: cfg.AllowedEntries}), nil
}

// rulesListCommand creates the "rules list" subcommand.
func (c *CLI) rulesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every rule with its dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := c.configuredRules()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, r := range rs {
				fmt.Fprintln(w, StyleTitle.Render(string(r.Name)))
				printDetail(w, "%s", r.Description)
				if len(r.Dependencies) > 0 {
					deps := make([]string, len(r.Dependencies))
					for i, d := range r.Dependencies {
						deps[i] = string(d)
					}
					printDetail(w, "depends on: %s", strings.Join(deps, ", "))
				}
			}
			return nil
		},
	}
}

// rulesTreeCommand creates the "rules tree" subcommand.
func (c *CLI) rulesTreeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the rule tree executed for each repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := c.configuredRules()
			if err != nil {
				return err
			}
			tree, err := engine.Prepare(rs)
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), tree, 0)
			return nil
		},
	}
}

func printTree(w io.Writer, nodes []*engine.RuleNode, depth int) {
	for _, n := range nodes {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), n.Rule.Name)
		printTree(w, n.Children, depth+1)
	}
}

// rulesGraphCommand creates the "rules graph" subcommand.
func (c *CLI) rulesGraphCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Draw the rule dependency graph",
		Example: `  standardize rules graph
  standardize rules graph --format svg -o rules.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := c.configuredRules()
			if err != nil {
				return err
			}
			g, err := engine.BuildGraph(rs)
			if err != nil {
				return err
			}

			dot := nodelink.ToDOT(g, nodelink.Options{
				Detailed: detailed,
				Describe: func(id string) string {
					if r, ok := g.Data(id); ok {
						return r.Description
					}
					return ""
				},
				Highlight: g.EntryNodes(),
			})

			data, err := renderGraph(cmd, format, dot)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", graphFormatDOT, "output format: dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include rule descriptions in node labels")

	return cmd
}

func renderGraph(cmd *cobra.Command, format, dot string) ([]byte, error) {
	switch format {
	case graphFormatDOT:
		return []byte(dot), nil
	case graphFormatSVG:
		return nodelink.RenderSVG(cmd.Context(), dot)
	case graphFormatPNG:
		return nodelink.RenderPNG(cmd.Context(), dot)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported graph format %q (want dot, svg or png)", format)
	}
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "could not write %s", path)
	}
	printSuccess(cmd.ErrOrStderr(), "Wrote rule graph")
	printFile(cmd.ErrOrStderr(), path)
	return nil
}

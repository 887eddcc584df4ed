package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/bomscope/internal/cli/output"
	"github.com/leapstack-labs/bomscope/pkg/core"
)

// TreeOptions holds options for the tree command.
type TreeOptions struct {
	Depth int
}

// NewTreeCommand creates the tree command.
func NewTreeCommand() *cobra.Command {
	opts := &TreeOptions{}

	cmd := &cobra.Command{
		Use:   "tree [bom-type]",
		Short: "Print a BOM tree",
		Long: `Print the nodes of one BOM tree with their linked requirements.

BOM types: requirement, solution, design, simulation, test, physical.`,
		Example: `  # Print the solution tree
  bomscope tree

  # Requirement tree, two levels deep, as markdown
  bomscope tree requirement --depth 2 -o markdown`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: bomTypeNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			bt := core.BomSolution
			if len(args) == 1 {
				var err error
				if bt, err = core.ParseBomType(args[0]); err != nil {
					return err
				}
			}
			return runTree(cmd, bt, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Depth, "depth", 0, "Maximum depth to print (0 = all)")
	return cmd
}

func runTree(cmd *cobra.Command, bt core.BomType, opts *TreeOptions) error {
	cc, err := NewCommandContextWithoutStore(cmd)
	if err != nil {
		return err
	}
	roots := trimDepth(cc.Dataset.Forest.Index(bt).Roots(), opts.Depth)
	r := cc.Renderer

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(map[string]any{"bomType": bt, "roots": roots})
	case output.ModeMarkdown:
		r.Header(output.Label(string(bt)) + " BOM")
		var sb strings.Builder
		writeMarkdownTree(&sb, roots, 0)
		r.Println(sb.String())
	default:
		r.Header(output.Label(string(bt)) + " BOM")
		if len(roots) == 0 {
			r.Println("(empty)")
			return nil
		}
		t := tree.New()
		for _, n := range roots {
			t.Child(textTree(n, r.Styles()))
		}
		r.Println(t.String())
	}
	return nil
}

// trimDepth copies nodes down to depth levels. Zero keeps everything.
func trimDepth(nodes []core.TreeNode, depth int) []core.TreeNode {
	if len(nodes) == 0 {
		return []core.TreeNode{}
	}
	out := make([]core.TreeNode, len(nodes))
	for i, n := range nodes {
		switch {
		case depth == 1:
			n.Children = nil
		case depth > 1:
			n.Children = trimDepth(n.Children, depth-1)
		}
		out[i] = n
	}
	return out
}

func nodeLabel(n core.TreeNode) string {
	label := n.ID + "  " + n.Name
	if n.Kind != "" {
		label += " (" + n.Kind + ")"
	}
	return label
}

func textTree(n core.TreeNode, styles output.Styles) any {
	label := nodeLabel(n)
	if len(n.Requirements) > 0 {
		label += "  " + styles.Muted.Render("→ "+strings.Join(n.Requirements, ", "))
	}
	if len(n.Children) == 0 {
		return label
	}
	t := tree.Root(label)
	for _, c := range n.Children {
		t.Child(textTree(c, styles))
	}
	return t
}

func writeMarkdownTree(sb *strings.Builder, nodes []core.TreeNode, level int) {
	for _, n := range nodes {
		fmt.Fprintf(sb, "%s- **%s** %s", strings.Repeat("  ", level), n.ID, n.Name)
		if len(n.Requirements) > 0 {
			fmt.Fprintf(sb, " (requirements: %s)", strings.Join(n.Requirements, ", "))
		}
		sb.WriteString("\n")
		writeMarkdownTree(sb, n.Children, level+1)
	}
}

func bomTypeNames() []string {
	types := core.AllBomTypes()
	names := make([]string, len(types))
	for i, bt := range types {
		names[i] = string(bt)
	}
	return names
}

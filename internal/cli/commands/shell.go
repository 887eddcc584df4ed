package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/bomscope/pkg/core"
)

const shellPrompt = "bomscope> "

// NewShellCommand creates the shell command.
func NewShellCommand() *cobra.Command {
	var bomType string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Explore the BOM from an interactive prompt",
		Long: `Start an interactive shell over one workspace: switch BOM views, select
and expand nodes, jump to linked requirements and back, and stage
simulation files for comparison.

Tab choices are remembered per BOM type in the state database.`,
		Example: `  bomscope shell
  bomscope shell --type requirement`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bt := core.BomSolution
			if bomType != "" {
				var err error
				if bt, err = core.ParseBomType(bomType); err != nil {
					return err
				}
			}
			return runShell(cmd, bt)
		},
	}

	cmd.Flags().StringVarP(&bomType, "type", "t", "", "BOM type to open on (default: solution)")
	return cmd
}

func runShell(cmd *cobra.Command, bt core.BomType) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ws := cc.Workspace("shell", bt, nil)
	defer ws.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		HistoryFile:     filepath.Join(filepath.Dir(cc.Cfg.StatePath), "shell_history"),
		AutoComplete:    newShellCompleter(cc.Dataset.Forest.Index(core.BomRequirement)),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "bomscope shell (data: %s)\n", cc.Dataset.Source)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type help for commands, quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	session := newShellSession(ws, cc.Renderer)
	session.printLocation()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		if err := session.exec(strings.TrimSpace(line)); err != nil {
			if errors.Is(err, errQuit) {
				break
			}
			cc.Renderer.Error(err.Error())
		}
	}
	return nil
}

// newShellCompleter completes commands, BOM types and tabs.
func newShellCompleter(requirements core.TreeIndex) *readline.PrefixCompleter {
	types := make([]readline.PrefixCompleterInterface, 0, len(core.AllBomTypes()))
	for _, bt := range core.AllBomTypes() {
		types = append(types, readline.PcItem(string(bt)))
	}
	tabs := []readline.PrefixCompleterInterface{
		readline.PcItem(string(core.TabOverview)),
		readline.PcItem(string(core.TabRequirement)),
		readline.PcItem(string(core.TabDesign)),
		readline.PcItem(string(core.TabSimulation)),
		readline.PcItem(string(core.TabTest)),
		readline.PcItem(string(core.TabPhysical)),
	}
	var reqs []readline.PrefixCompleterInterface
	for _, root := range requirements.Roots() {
		walkRequirements(root, func(id string) { reqs = append(reqs, readline.PcItem(id)) })
	}
	kinds := []readline.PrefixCompleterInterface{
		readline.PcItem("category"),
		readline.PcItem("instance"),
		readline.PcItem("folder"),
		readline.PcItem("file"),
		readline.PcItem("none"),
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("types"),
		readline.PcItem("type", types...),
		readline.PcItem("tab", tabs...),
		readline.PcItem("select"),
		readline.PcItem("expand"),
		readline.PcItem("tree"),
		readline.PcItem("jump", reqs...),
		readline.PcItem("back"),
		readline.PcItem("forget"),
		readline.PcItem("focus"),
		readline.PcItem("open"),
		readline.PcItem("state"),
		readline.PcItem("history"),
		readline.PcItem("sim",
			readline.PcItem("select", kinds...),
			readline.PcItem("toggle"),
			readline.PcItem("search"),
			readline.PcItem("filter",
				readline.PcItem("format="),
				readline.PcItem("status="),
				readline.PcItem("keyword="),
			),
			readline.PcItem("page"),
			readline.PcItem("size",
				readline.PcItem("10"), readline.PcItem("20"), readline.PcItem("50"), readline.PcItem("100"),
			),
			readline.PcItem("results"),
			readline.PcItem("add"),
			readline.PcItem("add-instance"),
			readline.PcItem("remove"),
			readline.PcItem("clear"),
			readline.PcItem("queue"),
		),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

func walkRequirements(n core.TreeNode, fn func(id string)) {
	for _, id := range n.Requirements {
		fn(id)
	}
	for _, c := range n.Children {
		walkRequirements(c, fn)
	}
}

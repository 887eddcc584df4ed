package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leapstack-labs/bomscope/internal/tui"
	"github.com/leapstack-labs/bomscope/pkg/core"
)

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	var bomType, link string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the BOM in a full screen terminal UI",
		Long: `Open the BOM browser in the terminal.

Move through the tree with the arrow keys or j/k, switch BOM views with
1-6, jump from a node to its requirements with r and come back with b.
In the simulation view, stage result files for comparison with a and A.
Press ? for all keys.`,
		Example: `  bomscope browse
  bomscope browse --type simulation
  bomscope browse --link bom:requirement:REQ-COMPRESSOR-BLADE`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("browse needs a terminal; use 'bomscope shell' or 'bomscope tree' instead")
			}

			bt := core.BomSolution
			if bomType != "" {
				var err error
				if bt, err = core.ParseBomType(bomType); err != nil {
					return err
				}
			}

			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			events := tui.NewEvents()
			ws := cc.Workspace("browse", bt, events.ToastDismissed)
			defer ws.Close()

			if link != "" {
				dl, err := core.ParseDeepLink(link)
				if err != nil {
					return err
				}
				if !ws.OpenLink(dl) {
					cc.Logger.Warn("deep link left pending", "module", dl.Module)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return tui.Run(ctx, ws, events)
		},
	}

	cmd.Flags().StringVarP(&bomType, "type", "t", "", "BOM type to open on (default: solution)")
	cmd.Flags().StringVar(&link, "link", "", "Open on a deep link (module:bom-type:node-id)")
	return cmd
}

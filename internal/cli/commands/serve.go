package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/bomscope/internal/state"
	"github.com/leapstack-labs/bomscope/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
	Dev       bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the bomscope web UI",
		Long: `Start a local web server with the BOM browser.

Every browser session gets its own workspace: BOM view, tree selection,
requirement jump history and simulation compare queue. Changes to the
dataset files are picked up live when --watch is on.`,
		Example: `  # Start on the configured port
  bomscope serve

  # Serve a dataset directory on a custom port
  bomscope serve --data-dir ./program-x --port 3000

  # Start without opening a browser
  bomscope serve --no-browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload the dataset when its files change")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Enable hot reload endpoints")
	_ = cmd.Flags().MarkHidden("dev")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	uiCfg := cc.Cfg.UI

	// Flags were folded into the config by the loader; these only apply
	// when the command runs without it.
	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	autoOpen := uiCfg.AutoOpen && !opts.NoBrowser
	watch := uiCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	server := ui.NewServer(ui.Config{
		DataDir:       cc.Cfg.DataDir,
		Dataset:       cc.Dataset,
		Preferences:   state.NewPreferences(cc.Store, cc.Logger),
		Port:          port,
		Watch:         watch,
		Dev:           opts.Dev,
		PageSize:      cc.Cfg.Explorer.PageSize,
		ToastDelay:    uiCfg.ToastDelay(),
		SessionSecret: uiCfg.SessionSecret,
		Logger:        cc.Logger,
	})

	if autoOpen {
		go openBrowser(server.URL())
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Serving %s on %s\n", cc.Dataset.Source, server.URL())
	_, _ = fmt.Fprintln(out, "Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	ctx := context.Background()
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "linux":
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return
	}

	_ = cmd.Start()
}

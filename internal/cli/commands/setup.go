package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/bomscope/internal/cli/config"
	"github.com/leapstack-labs/bomscope/internal/cli/output"
	"github.com/leapstack-labs/bomscope/internal/dataset"
	"github.com/leapstack-labs/bomscope/internal/simexplorer"
	"github.com/leapstack-labs/bomscope/internal/state"
	"github.com/leapstack-labs/bomscope/internal/workspace"
	"github.com/leapstack-labs/bomscope/pkg/core"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Dataset  *dataset.Dataset
	// Store is nil for commands created without one.
	Store *state.SQLiteStore
}

// NewCommandContext loads the dataset and opens the preference store.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc, err := NewCommandContextWithoutStore(cmd)
	if err != nil {
		return nil, nil, err
	}

	store, err := openStore(cc.Cfg.StatePath)
	if err != nil {
		return nil, nil, err
	}
	cc.Store = store

	cleanup := func() {
		if err := store.Close(); err != nil {
			cc.Logger.Warn("failed to close state store", "error", err)
		}
	}
	return cc, cleanup, nil
}

// NewCommandContextWithoutStore loads the dataset only.
// Useful for commands that don't touch persisted preferences.
func NewCommandContextWithoutStore(cmd *cobra.Command) (*CommandContext, error) {
	cc := newBareContext(cmd)

	ds, err := dataset.Load(cc.Cfg.DataDir)
	if err != nil {
		return nil, err
	}
	cc.Logger.Debug("dataset loaded", "source", ds.Source, "warnings", len(ds.Warnings))
	cc.Dataset = ds
	return cc, nil
}

func newBareContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// Workspace builds a single-user workspace over the loaded dataset.
// onDismiss may be nil.
func (cc *CommandContext) Workspace(id string, initial core.BomType, onDismiss func(simexplorer.CompareEvent)) *workspace.Workspace {
	var prefs core.TabPreferences
	if cc.Store != nil {
		prefs = state.NewPreferences(cc.Store, cc.Logger)
	}
	return workspace.New(workspace.Config{
		ID:             id,
		Dataset:        cc.Dataset,
		Preferences:    prefs,
		InitialBomType: initial,
		PageSize:       cc.Cfg.Explorer.PageSize,
		ToastDelay:     cc.Cfg.UI.ToastDelay(),
		OnToastDismiss: onDismiss,
		Logger:         cc.Logger,
	})
}

// getConfig returns the loaded configuration, or the defaults when a
// command runs without the root command (as in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Defaults()
}

func openStore(path string) (*state.SQLiteStore, error) {
	store := state.NewSQLiteStore()
	if err := store.Open(path); err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/bomscope/internal/cli/output"
	"github.com/leapstack-labs/bomscope/pkg/core"
)

// NewPrefsCommand creates the prefs command with its subcommands.
func NewPrefsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage remembered tab preferences",
		Long: `The last tab picked by hand in each BOM view is stored in the state
database and reused the next time that view opens.`,
		Args: cobra.NoArgs,
		RunE: runPrefsList,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List remembered tabs",
		Args:  cobra.NoArgs,
		RunE:  runPrefsList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:       "set <bom-type> <tab>",
		Short:     "Remember a tab for a BOM type",
		Example:   `  bomscope prefs set solution requirement`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: bomTypeNames(),
		RunE:      runPrefsSet,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget all remembered tabs",
		Args:  cobra.NoArgs,
		RunE:  runPrefsReset,
	})
	return cmd
}

func runPrefsList(cmd *cobra.Command, _ []string) error {
	cc := newBareContext(cmd)
	store, err := openStore(cc.Cfg.StatePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	prefs, err := store.ListTabPreferences()
	if err != nil {
		return err
	}

	if cc.Renderer.EffectiveMode() == output.ModeJSON {
		return cc.Renderer.JSON(prefs)
	}
	rows := make([][]string, len(prefs))
	for i, p := range prefs {
		rows[i] = []string{string(p.BomType), string(p.Tab), p.UpdatedAt.Format("2006-01-02 15:04:05")}
	}
	cc.Renderer.Table([]string{"BOM type", "Tab", "Updated"}, rows)
	return nil
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	bt, err := core.ParseBomType(args[0])
	if err != nil {
		return err
	}
	tab := core.Tab(args[1])
	if !bt.AllowsTab(tab) {
		return fmt.Errorf("%s view has no %q tab (choose from %v)", bt, tab, bt.Tabs())
	}

	cc := newBareContext(cmd)
	store, err := openStore(cc.Cfg.StatePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SetTabPreference(bt, tab); err != nil {
		return err
	}
	cc.Renderer.Success(fmt.Sprintf("%s opens on the %s tab", bt, tab))
	return nil
}

func runPrefsReset(cmd *cobra.Command, _ []string) error {
	cc := newBareContext(cmd)
	store, err := openStore(cc.Cfg.StatePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.DeleteTabPreferences(); err != nil {
		return err
	}
	cc.Renderer.Success("tab preferences cleared")
	return nil
}

package commands

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bomscope/internal/cli/output"
	"github.com/leapstack-labs/bomscope/internal/cli/testutil"
	"github.com/leapstack-labs/bomscope/internal/dataset"
	"github.com/leapstack-labs/bomscope/internal/workspace"
	"github.com/leapstack-labs/bomscope/pkg/core"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func newTestSession(t *testing.T) (*shellSession, *testutil.TestRenderer) {
	t.Helper()
	ds, err := dataset.LoadSample()
	require.NoError(t, err)
	ws := workspace.New(workspace.Config{ID: "shell", Dataset: ds, ToastDelay: time.Hour})
	t.Cleanup(ws.Close)

	tr := testutil.NewTestRenderer(output.ModeText, false)
	return newShellSession(ws, tr.Renderer), tr
}

// run executes lines in order and fails on the first error.
func run(t *testing.T, s *shellSession, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, s.exec(line), "line %q", line)
	}
}

// =============================================================================
// Command Metadata Tests
// =============================================================================

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		name  string
		ctor  func() *cobra.Command
		use   string
		flags []string
	}{
		{name: "serve", ctor: NewServeCommand, use: "serve", flags: []string{"port", "no-browser", "watch"}},
		{name: "browse", ctor: NewBrowseCommand, use: "browse", flags: []string{"type", "link"}},
		{name: "shell", ctor: NewShellCommand, use: "shell", flags: []string{"type"}},
		{name: "tree", ctor: NewTreeCommand, use: "tree [bom-type]", flags: []string{"depth"}},
		{name: "validate", ctor: NewValidateCommand, use: "validate"},
		{name: "prefs", ctor: NewPrefsCommand, use: "prefs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.ctor()

			assert.Equal(t, tt.use, cmd.Use)
			assert.NotEmpty(t, cmd.Short, "Short should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestPrefsSubcommands(t *testing.T) {
	cmd := NewPrefsCommand()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"list", "set", "reset"}, names)
}

// =============================================================================
// Shell Navigation Tests
// =============================================================================

func TestShell_SwitchTypeAndTab(t *testing.T) {
	s, tr := newTestSession(t)

	run(t, s, "type requirement")
	assert.Contains(t, tr.Output(), "requirement / requirement / REQ-ROOT TF-40 system requirements")

	err := s.exec("tab design")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `requirement view has no "design" tab`)

	run(t, s, "type solution", "tab requirement")
	assert.Contains(t, tr.Output(), "solution / requirement / 001")
}

func TestShell_JumpAndBack(t *testing.T) {
	s, tr := newTestSession(t)

	run(t, s, "select 001-01-01", "jump")
	assert.Contains(t, tr.Output(), "requirement / requirement / REQ-COMPRESSOR-BLADE")
	assert.Contains(t, tr.Output(), "[jumps: 1]")

	run(t, s, "history")
	assert.Contains(t, tr.Output(), "REQ-BLADE-001-GEOM")

	run(t, s, "back")
	assert.Contains(t, tr.Output(), "solution / overview / 001-01-01 Fan blade")

	run(t, s, "back")
	assert.Contains(t, tr.ErrorOutput(), "jump stack is empty")
}

func TestShell_JumpNeedsRequirements(t *testing.T) {
	s, _ := newTestSession(t)

	run(t, s, "select 001-01")
	err := s.exec("jump")
	require.Error(t, err)
	assert.Equal(t, "no requirements to jump to", err.Error())

	// Explicit ids work from any node.
	run(t, s, "jump REQ-DISK-LIFE")
	assert.Equal(t, "REQ-COMPRESSOR-DISK", s.ws.Snapshot().Nav.SelectedNodeID)
}

func TestShell_SelectUnknownNodeWarns(t *testing.T) {
	s, tr := newTestSession(t)

	run(t, s, "select NOPE")
	assert.Contains(t, tr.ErrorOutput(), `node "NOPE" is not in this tree`)
}

func TestShell_DeepLinks(t *testing.T) {
	s, tr := newTestSession(t)

	run(t, s, "open bom:design:D-001-01")
	v := s.ws.Snapshot()
	assert.Equal(t, core.BomDesign, v.Nav.BomType)
	assert.Equal(t, "D-001-01", v.Nav.SelectedNodeID)

	run(t, s, "open reports:design:D-001")
	assert.Contains(t, tr.ErrorOutput(), `link for module "reports" left pending`)
	_, pending := s.ws.PendingLink()
	assert.True(t, pending)

	require.Error(t, s.exec("open not-a-link"))
}

func TestShell_ErrorsAndQuit(t *testing.T) {
	s, _ := newTestSession(t)

	tests := []struct {
		line    string
		wantErr string
	}{
		{line: "bogus", wantErr: `unknown command "bogus"`},
		{line: "type", wantErr: "usage: type <bom-type>"},
		{line: "type widgets", wantErr: `unknown BOM type "widgets"`},
		{line: "sim", wantErr: "usage: sim <command>"},
		{line: "sim frobnicate", wantErr: `unknown sim command "frobnicate"`},
		{line: "sim page x", wantErr: "usage: sim page <n>"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			err := s.exec(tt.line)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.NoError(t, s.exec("   "))
	assert.ErrorIs(t, s.exec("quit"), errQuit)
	assert.ErrorIs(t, s.exec("EXIT"), errQuit)
}

// =============================================================================
// Shell Simulation Explorer Tests
// =============================================================================

func TestShell_CompareQueue(t *testing.T) {
	s, tr := newTestSession(t)

	run(t, s, "type simulation", "sim add st-fb-stress cruise")
	assert.Contains(t, tr.ErrorOutput(), "added to compare: von_mises.vtk (Cruise)")

	run(t, s, "sim add st-fb-stress cruise")
	assert.Contains(t, tr.ErrorOutput(), "nothing added")

	run(t, s, "sim add-instance st-fan-static")
	assert.Contains(t, tr.ErrorOutput(), "added to compare: Fan blade static (4 files)")

	run(t, s, "sim queue")
	assert.Contains(t, tr.Output(), "5 of 6 slots used")

	run(t, s, "sim remove st-fb-stress")
	assert.Len(t, s.ws.Snapshot().Sim.Compare, 3)

	run(t, s, "sim clear")
	assert.Empty(t, s.ws.Snapshot().Sim.Compare)

	err := s.exec("sim add no-such-file")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not in the catalog")
}

func TestShell_SearchFilterAndPaging(t *testing.T) {
	s, tr := newTestSession(t)

	run(t, s, "type simulation", "sim filter format=vtk")
	v := s.ws.Snapshot()
	assert.Equal(t, "vtk", v.Sim.Filters.Facets["format"])
	assert.Equal(t, 2, v.Results.Total)
	assert.Contains(t, tr.Output(), "von_mises.vtk")

	run(t, s, "sim filter format= keyword=mesh")
	v = s.ws.Snapshot()
	assert.Empty(t, v.Sim.Filters.Facets)
	assert.Equal(t, 1, v.Results.Total)

	run(t, s, "sim search", "sim size 10", "sim page 3")
	v = s.ws.Snapshot()
	assert.Equal(t, 10, v.Sim.Filters.PageSize)
	assert.Equal(t, 1, v.Results.Page, "page is clamped to the last page")

	err := s.exec("sim size 7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page size must be one of")

	require.Error(t, s.exec("sim filter format"))
}

func TestShell_SimSelect(t *testing.T) {
	s, _ := newTestSession(t)

	run(t, s, "type simulation", "sim select instance cfd-inlet")
	v := s.ws.Snapshot()
	require.NotNil(t, v.Sim.Selection)
	assert.Equal(t, "cfd", v.Sim.Selection.CategoryID)
	assert.Equal(t, 3, v.Results.Total)

	run(t, s, "sim select none")
	assert.Nil(t, s.ws.Snapshot().Sim.Selection)

	require.Error(t, s.exec("sim select instance nope"))
	require.Error(t, s.exec("sim select planet x"))
}

func TestShell_LeavingSimulationResetsExplorer(t *testing.T) {
	s, _ := newTestSession(t)

	run(t, s, "type simulation", "sim add st-fb-mesh", "type solution")
	assert.Empty(t, s.ws.Snapshot().Sim.Compare)
}

func TestShell_HelpAndTables(t *testing.T) {
	s, tr := newTestSession(t)

	run(t, s, "help", "types", "state", "tree")
	out := tr.Output()
	assert.Contains(t, out, "Simulation explorer:")
	assert.Contains(t, out, "physical")
	assert.Contains(t, out, "Jump depth")
	assert.True(t, strings.Contains(out, "001  Turbofan engine TF-40"))
}

func TestNewShellCompleter(t *testing.T) {
	ds, err := dataset.LoadSample()
	require.NoError(t, err)

	c := newShellCompleter(ds.Forest.Index(core.BomRequirement))
	line := []rune("jump REQ-BLADE-00")
	candidates, _ := c.Do(line, len(line))

	var got []string
	for _, cand := range candidates {
		got = append(got, strings.TrimSpace(string(cand)))
	}
	assert.ElementsMatch(t, []string{"1-GEOM", "2-MAT"}, got)
}

// Package tui is the terminal front end: a bubbletea program over a single
// workspace with the BOM tree, the detail panel and, in the simulation view,
// the file explorer and compare tray.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leapstack-labs/bomscope/internal/navigation"
	"github.com/leapstack-labs/bomscope/internal/simexplorer"
	"github.com/leapstack-labs/bomscope/internal/workspace"
	"github.com/leapstack-labs/bomscope/pkg/core"
)

// Pane identifies the list keyboard movement applies to.
type Pane int

// Panes. Catalog and results only exist in the simulation view.
const (
	PaneTree Pane = iota
	PaneCatalog
	PaneResults
)

const (
	defaultWidth  = 100
	defaultHeight = 30
)

// Model is the bubbletea model of the browser.
type Model struct {
	ws     *workspace.Workspace
	events Events
	keys   KeyMap
	help   help.Model
	detail viewport.Model
	search textinput.Model

	view      workspace.View
	cursors   [3]int
	pane      Pane
	searching bool
	// focusReq is the requirement a jump landed on, highlighted in the
	// detail panel until the selection moves.
	focusReq     string
	lastSelected string
	status       string
	width        int
	height       int
}

// New builds a model over ws. events may be nil when nothing posts to it.
func New(ws *workspace.Workspace, events Events) Model {
	search := textinput.New()
	search.Prompt = "search: "
	search.Placeholder = "file name"

	m := Model{
		ws:     ws,
		events: events,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		detail: viewport.New(detailWidth(defaultWidth), defaultHeight/2),
		search: search,
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.refresh()
	return m
}

// Run starts the program in the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, ws *workspace.Workspace, events Events) error {
	p := tea.NewProgram(New(ws, events), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.events.wait()
}

// Snapshot returns the workspace view the model last rendered.
func (m Model) Snapshot() workspace.View {
	return m.view
}

// Cursor returns the cursor row of pane p.
func (m Model) Cursor(p Pane) int {
	return m.cursors[p]
}

// ActivePane returns the pane movement applies to.
func (m Model) ActivePane() Pane {
	return m.pane
}

// Status returns the last status line message.
func (m Model) Status() string {
	return m.status
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.detail.Width = detailWidth(msg.Width)
		m.detail.Height = max(msg.Height/2, 5)
		m.refresh()
		return m, nil

	case ToastExpiredMsg:
		m.refresh()
		return m, m.events.wait()

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.dispatch(simexplorer.SetSearch{Keyword: m.search.Value()})
		m.endSearch()
		m.refresh()
		return m, nil
	case "esc":
		m.endSearch()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) endSearch() {
	m.searching = false
	m.search.Blur()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.move(1)
		return m, nil
	case key.Matches(msg, m.keys.Pane):
		m.cyclePane()
		return m, nil

	case key.Matches(msg, m.keys.Types):
		types := core.AllBomTypes()
		m.selectBomType(types[msg.String()[0]-'1'])
	case key.Matches(msg, m.keys.Next):
		m.shiftBomType(1)
	case key.Matches(msg, m.keys.Prev):
		m.shiftBomType(-1)
	case key.Matches(msg, m.keys.Tab):
		m.nextTab()
	case key.Matches(msg, m.keys.Select):
		m.activate()
	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
	case key.Matches(msg, m.keys.Expand):
		m.setExpanded(true)
	case key.Matches(msg, m.keys.Collapse):
		m.setExpanded(false)
	case key.Matches(msg, m.keys.Jump):
		m.jump()
	case key.Matches(msg, m.keys.Back):
		if len(m.view.Jumps) == 0 {
			m.status = "jump stack is empty"
			return m, nil
		}
		m.nav(func(nav *navigation.Controller) { nav.JumpBack() })
	case key.Matches(msg, m.keys.Forget):
		m.nav(func(nav *navigation.Controller) { nav.ClearJumpHistory() })

	default:
		if m.view.Nav.BomType != core.BomSimulation {
			return m, nil
		}
		return m.handleExplorerKey(msg)
	}

	m.refresh()
	return m, nil
}

func (m Model) handleExplorerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.view.Sim.Filters.Keyword)
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Add):
		m.addFile()
	case key.Matches(msg, m.keys.AddInstance):
		m.addInstance()
	case key.Matches(msg, m.keys.Remove):
		if loc, ok := m.cursorFile(); ok {
			m.dispatch(simexplorer.RemoveCompare{FileID: loc.File.ID})
		}
	case key.Matches(msg, m.keys.Clear):
		m.dispatch(simexplorer.ClearCompare{})
	case key.Matches(msg, m.keys.NextPage):
		if m.view.Results.Page < m.view.Results.PageCount {
			m.dispatch(simexplorer.SetPage{Page: m.view.Results.Page + 1})
		}
	case key.Matches(msg, m.keys.PrevPage):
		if m.view.Results.Page > 1 {
			m.dispatch(simexplorer.SetPage{Page: m.view.Results.Page - 1})
		}
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

// refresh re-reads the workspace, settles a pending focus and keeps the
// cursors inside their lists.
func (m *Model) refresh() {
	m.view = m.ws.Snapshot()

	if req := m.view.Nav.PendingFocus; req != "" {
		m.focusReq = req
		m.nav(func(nav *navigation.Controller) { nav.ClearPendingFocus() })
		m.view = m.ws.Snapshot()
		m.lastSelected = ""
	}

	if sel := m.view.Nav.SelectedNodeID; sel != m.lastSelected {
		if i := slices.IndexFunc(m.view.Tree, func(r workspace.Row) bool { return r.ID == sel }); i >= 0 {
			m.cursors[PaneTree] = i
		}
		if m.lastSelected != "" {
			m.focusReq = ""
		}
		m.lastSelected = sel
	}

	if m.view.Nav.BomType != core.BomSimulation {
		m.pane = PaneTree
	}
	m.cursors[PaneTree] = clamp(m.cursors[PaneTree], len(m.view.Tree))
	m.cursors[PaneCatalog] = clamp(m.cursors[PaneCatalog], len(m.view.Catalog))
	m.cursors[PaneResults] = clamp(m.cursors[PaneResults], len(m.view.Results.Items))

	m.detail.SetContent(m.detailContent())
}

func (m *Model) move(delta int) {
	n := m.paneLen(m.pane)
	if n == 0 {
		return
	}
	m.cursors[m.pane] = clamp(m.cursors[m.pane]+delta, n)
}

func (m *Model) cyclePane() {
	if m.view.Nav.BomType != core.BomSimulation {
		return
	}
	m.pane = (m.pane + 1) % 3
}

func (m Model) paneLen(p Pane) int {
	switch p {
	case PaneCatalog:
		return len(m.view.Catalog)
	case PaneResults:
		return len(m.view.Results.Items)
	default:
		return len(m.view.Tree)
	}
}

func (m *Model) selectBomType(bt core.BomType) {
	m.nav(func(nav *navigation.Controller) { nav.SelectBomType(bt) })
	m.cursors = [3]int{}
	m.pane = PaneTree
}

func (m *Model) shiftBomType(delta int) {
	types := core.AllBomTypes()
	i := slices.Index(types, m.view.Nav.BomType)
	m.selectBomType(types[(i+delta+len(types))%len(types)])
}

func (m *Model) nextTab() {
	tabs := m.view.Tabs
	i := slices.Index(tabs, m.view.Nav.Tab)
	tab := tabs[(i+1)%len(tabs)]
	m.nav(func(nav *navigation.Controller) { nav.SelectTab(tab) })
}

// activate selects the row under the cursor of the active pane.
func (m *Model) activate() {
	switch m.pane {
	case PaneCatalog:
		row, ok := m.cursorRow(PaneCatalog)
		if !ok {
			return
		}
		kind := simexplorer.SelectionKind(row.Kind)
		m.sim(func(sim *simexplorer.Store) { sim.SelectRef(kind, row.ID) })
	case PaneResults:
		if loc, ok := m.cursorFile(); ok {
			m.sim(func(sim *simexplorer.Store) { sim.SelectRef(simexplorer.SelectFile, loc.File.ID) })
		}
	default:
		if row, ok := m.cursorRow(PaneTree); ok {
			m.nav(func(nav *navigation.Controller) { nav.SelectNode(row.ID) })
		}
	}
}

func (m *Model) toggle() {
	switch m.pane {
	case PaneCatalog:
		if row, ok := m.cursorRow(PaneCatalog); ok && row.HasChildren {
			m.dispatch(simexplorer.ToggleExpand{ID: row.ID})
		}
	case PaneTree:
		if row, ok := m.cursorRow(PaneTree); ok && row.HasChildren {
			m.nav(func(nav *navigation.Controller) { nav.ToggleExpand(row.ID) })
		}
	}
}

func (m *Model) setExpanded(open bool) {
	if m.pane == PaneResults {
		return
	}
	if row, ok := m.cursorRow(m.pane); ok && row.HasChildren && row.Expanded != open {
		m.toggle()
	}
}

// jump opens the requirement view on the selected node's requirements.
func (m *Model) jump() {
	sel := m.view.Selected
	if sel == nil || len(sel.Requirements) == 0 {
		m.status = "no requirements to jump to"
		return
	}
	req := navigation.JumpRequest{
		RequirementIDs: sel.Requirements,
		SourceNodeID:   sel.ID,
		SourceNodeName: sel.Name,
	}
	m.nav(func(nav *navigation.Controller) { nav.NavigateToRequirement(req) })
}

func (m *Model) addFile() {
	id, ok := m.cursorFileID()
	if !ok {
		m.status = "move to a file to compare it"
		return
	}
	var added bool
	m.sim(func(sim *simexplorer.Store) { added = sim.AddFileToCompare(id, "") })
	if !added {
		m.status = fmt.Sprintf("nothing added (already staged or queue full at %d)", simexplorer.MaxCompare)
	}
}

func (m *Model) addInstance() {
	var id string
	switch m.pane {
	case PaneResults:
		if loc, ok := m.cursorFile(); ok {
			id = loc.InstanceID
		}
	case PaneCatalog:
		if row, ok := m.cursorRow(PaneCatalog); ok && row.Kind == string(simexplorer.SelectInstance) {
			id = row.ID
		}
	}
	if id == "" {
		m.status = "move to an instance or one of its files"
		return
	}
	var added int
	m.sim(func(sim *simexplorer.Store) { added = sim.AddInstanceToCompare(id, "") })
	if added == 0 {
		m.status = fmt.Sprintf("nothing added (already staged or queue full at %d)", simexplorer.MaxCompare)
	}
}

func (m Model) cursorRow(p Pane) (workspace.Row, bool) {
	rows := m.view.Tree
	if p == PaneCatalog {
		rows = m.view.Catalog
	}
	i := m.cursors[p]
	if i < 0 || i >= len(rows) {
		return workspace.Row{}, false
	}
	return rows[i], true
}

func (m Model) cursorFile() (core.FileLocation, bool) {
	if m.pane != PaneResults {
		return core.FileLocation{}, false
	}
	items := m.view.Results.Items
	i := m.cursors[PaneResults]
	if i < 0 || i >= len(items) {
		return core.FileLocation{}, false
	}
	return items[i], true
}

// cursorFileID returns the file under the cursor of the results or the
// catalog pane.
func (m Model) cursorFileID() (string, bool) {
	if loc, ok := m.cursorFile(); ok {
		return loc.File.ID, true
	}
	if m.pane == PaneCatalog {
		if row, ok := m.cursorRow(PaneCatalog); ok && row.Kind == string(simexplorer.SelectFile) {
			return row.ID, true
		}
	}
	return "", false
}

func (m *Model) nav(fn func(nav *navigation.Controller)) {
	m.ws.Do(func(nav *navigation.Controller, _ *simexplorer.Store) { fn(nav) })
}

func (m *Model) sim(fn func(sim *simexplorer.Store)) {
	m.ws.Do(func(_ *navigation.Controller, sim *simexplorer.Store) { fn(sim) })
}

func (m *Model) dispatch(a simexplorer.Action) {
	m.sim(func(sim *simexplorer.Store) { sim.Dispatch(a) })
}

func clamp(i, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(i, 0), n-1)
}

func detailWidth(total int) int {
	return max(total-treeWidth(total)-4, 20)
}

func treeWidth(total int) int {
	return max(total*2/5, 24)
}

package workspace

import (
	"github.com/leapstack-labs/bomscope/internal/navigation"
	"github.com/leapstack-labs/bomscope/internal/simexplorer"
	"github.com/leapstack-labs/bomscope/internal/treeindex"
	"github.com/leapstack-labs/bomscope/pkg/core"
)

// View is a consistent snapshot of everything a host renders.
type View struct {
	Nav      navigation.State       `json:"nav"`
	Tabs     []core.Tab             `json:"tabs"`
	Selected *core.TreeNode         `json:"selected,omitempty"`
	Tree     []Row                  `json:"tree"`
	Jumps    []navigation.JumpEntry `json:"jumps"`
	Sim      simexplorer.State      `json:"sim"`
	Results  simexplorer.ResultPage `json:"results"`
	// Catalog is only filled in the simulation view.
	Catalog []Row                     `json:"catalog,omitempty"`
	Toast   *simexplorer.CompareEvent `json:"toast,omitempty"`
}

// Row is one visible line of the tree view.
type Row struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind,omitempty"`
	Level       int    `json:"level"`
	HasChildren bool   `json:"hasChildren"`
	Expanded    bool   `json:"expanded"`
	Selected    bool   `json:"selected"`
}

// Rows flattens idx into rows for a tree view.
func Rows(idx core.TreeIndex, st navigation.State) []Row {
	visible := treeindex.Flatten(idx, st.Expanded, st.SelectedNodeID)
	rows := make([]Row, len(visible))
	for i, v := range visible {
		rows[i] = Row{
			ID:          v.Node.ID,
			Name:        v.Node.Name,
			Kind:        v.Node.Kind,
			Level:       v.Node.Level,
			HasChildren: v.Node.HasChildren(),
			Expanded:    v.Expanded,
			Selected:    v.Selected,
		}
	}
	return rows
}

// CatalogRows flattens the simulation catalog down to folders, honouring
// the explorer's expanded set. Kind holds the selection kind of each row.
func CatalogRows(cat *core.Catalog, st simexplorer.State) []Row {
	if cat == nil {
		return nil
	}
	selected := ""
	if st.Selection != nil {
		selected = st.Selection.ID()
	}
	var rows []Row
	add := func(id, name string, kind simexplorer.SelectionKind, level int, children bool) bool {
		open := st.IsExpanded(id)
		rows = append(rows, Row{
			ID:          id,
			Name:        name,
			Kind:        string(kind),
			Level:       level,
			HasChildren: children,
			Expanded:    open,
			Selected:    id == selected,
		})
		return open
	}
	for _, c := range cat.Categories {
		if !add(c.ID, c.Name, simexplorer.SelectCategory, 0, len(c.Instances) > 0) {
			continue
		}
		for _, inst := range c.Instances {
			if !add(inst.ID, inst.Name, simexplorer.SelectInstance, 1, len(inst.Folders) > 0) {
				continue
			}
			for _, f := range inst.Folders {
				add(f.ID, f.Name, simexplorer.SelectFolder, 2, false)
			}
		}
	}
	return rows
}

// CanJumpBack reports whether the back affordance should be enabled.
func (v View) CanJumpBack() bool {
	return len(v.Jumps) > 0
}

// Snapshot captures the current view under the workspace lock.
func (w *Workspace) Snapshot() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := w.nav.State()
	v := View{
		Nav:     st,
		Tabs:    st.BomType.Tabs(),
		Tree:    Rows(w.nav.Index(), st),
		Jumps:   w.nav.JumpStack(),
		Sim:     w.sim.State(),
		Results: w.sim.Results(),
	}
	if st.BomType == core.BomSimulation {
		v.Catalog = CatalogRows(w.sim.Catalog(), v.Sim)
	}
	if n, ok := w.nav.SelectedNode(); ok {
		node := *n
		v.Selected = &node
	}
	if ev, ok := w.sim.Toast(); ok {
		v.Toast = &ev
	}
	return v
}

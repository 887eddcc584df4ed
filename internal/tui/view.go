package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/bomscope/internal/simexplorer"
	"github.com/leapstack-labs/bomscope/internal/workspace"
	"github.com/leapstack-labs/bomscope/pkg/core"
)

// View implements tea.Model.
func (m Model) View() string {
	sections := []string{m.renderHeader()}

	tree := m.renderPane("Tree", m.renderRows(m.view.Tree, PaneTree), PaneTree, treeWidth(m.width))
	detail := paneStyle.Width(detailWidth(m.width)).Render(m.detail.View())
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, tree, detail))

	if m.view.Nav.BomType == core.BomSimulation {
		sections = append(sections, m.renderExplorer())
	}
	if m.searching {
		sections = append(sections, m.search.View())
	}
	if t := m.view.Toast; t != nil {
		sections = append(sections, toastStyle.Render("Added to compare: "+t.Label))
	}
	if m.status != "" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	types := make([]string, 0, len(core.AllBomTypes()))
	for i, bt := range core.AllBomTypes() {
		label := fmt.Sprintf("%d %s", i+1, bt)
		if bt == m.view.Nav.BomType {
			types = append(types, activeTypeStyle.Render(label))
		} else {
			types = append(types, typeStyle.Render(label))
		}
	}

	tabs := make([]string, len(m.view.Tabs))
	for i, t := range m.view.Tabs {
		if t == m.view.Nav.Tab {
			tabs[i] = selectedStyle.Render("[" + string(t) + "]")
		} else {
			tabs[i] = mutedStyle.Render(string(t))
		}
	}

	line := headerStyle.Render("bomscope") + strings.Join(types, "  ")
	info := "tab: " + strings.Join(tabs, " ")
	if n := len(m.view.Jumps); n > 0 {
		info += mutedStyle.Render(fmt.Sprintf("   jumps: %d", n))
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, info)
}

func (m Model) renderPane(title, body string, p Pane, width int) string {
	style := paneStyle
	if m.pane == p {
		style = activePaneStyle
	}
	return style.Width(width).Render(paneTitleStyle.Render(title) + "\n" + body)
}

func (m Model) renderRows(rows []workspace.Row, p Pane) string {
	if len(rows) == 0 {
		return mutedStyle.Render("(empty)")
	}
	lines := make([]string, len(rows))
	for i, row := range rows {
		marker := "  "
		if row.HasChildren {
			marker = "▸ "
			if row.Expanded {
				marker = "▾ "
			}
		}
		line := strings.Repeat("  ", row.Level) + marker + row.Name
		switch {
		case i == m.cursors[p] && m.pane == p:
			line = cursorStyle.Render(line)
		case row.Selected:
			line = selectedStyle.Render(line)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// detailContent renders the selected node for the detail viewport.
func (m Model) detailContent() string {
	n := m.view.Selected
	if n == nil {
		return mutedStyle.Render("Nothing selected")
	}

	var sb strings.Builder
	sb.WriteString(selectedStyle.Render(n.Name))
	if n.Kind != "" {
		sb.WriteString(mutedStyle.Render(" (" + n.Kind + ")"))
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "id: %s\n", n.ID)
	if len(n.Tags) > 0 {
		fmt.Fprintf(&sb, "tags: %s\n", strings.Join(n.Tags, ", "))
	}

	if len(n.Requirements) > 0 {
		title := "Requirements"
		if m.view.Nav.BomType == core.BomRequirement {
			title = "Owns"
		}
		sb.WriteString("\n" + paneTitleStyle.Render(title) + "\n")
		for _, req := range n.Requirements {
			if req == m.focusReq {
				sb.WriteString(focusStyle.Render("→ "+req) + "\n")
			} else {
				sb.WriteString("  " + req + "\n")
			}
		}
	}

	if len(m.view.Jumps) > 0 {
		sb.WriteString("\n" + paneTitleStyle.Render("Jump history") + "\n")
		for i, e := range slices.Backward(m.view.Jumps) {
			from := e.SourceNodeName
			if from == "" {
				from = e.FromNodeID
			}
			fmt.Fprintf(&sb, "  %d. %s/%s %s → %s\n", i+1, e.FromBomType, e.FromTab, from, strings.Join(e.RequirementIDs, ", "))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) renderExplorer() string {
	width := m.width/2 - 2
	catalog := m.renderPane("Catalog", m.renderRows(m.view.Catalog, PaneCatalog), PaneCatalog, width)
	results := m.renderPane(m.resultsTitle(), m.renderResults(), PaneResults, width)
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, catalog, results),
		m.renderCompare(),
	)
}

func (m Model) resultsTitle() string {
	r := m.view.Results
	title := fmt.Sprintf("Files %d (page %d/%d)", r.Total, r.Page, r.PageCount)
	if kw := m.view.Sim.Filters.Keyword; kw != "" {
		title += fmt.Sprintf(" %q", kw)
	}
	return title
}

func (m Model) renderResults() string {
	items := m.view.Results.Items
	if len(items) == 0 {
		return mutedStyle.Render("No files match")
	}
	lines := make([]string, len(items))
	for i, loc := range items {
		mark := " "
		if slices.ContainsFunc(m.view.Sim.Compare, func(c simexplorer.CompareItem) bool { return c.File.ID == loc.File.ID }) {
			mark = "•"
		}
		line := fmt.Sprintf("%s %-24s %-4s %s", mark, loc.File.Name, loc.File.Format, loc.File.Status)
		if i == m.cursors[PaneResults] && m.pane == PaneResults {
			line = cursorStyle.Render(line)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderCompare() string {
	q := m.view.Sim.Compare
	title := paneTitleStyle.Render(fmt.Sprintf("Compare %d/%d", len(q), simexplorer.MaxCompare))
	if len(q) == 0 {
		return title + " " + mutedStyle.Render("empty")
	}
	labels := make([]string, len(q))
	for i, item := range q {
		labels[i] = item.File.Name
		if item.ConditionName != "" {
			labels[i] += " (" + item.ConditionName + ")"
		}
	}
	return title + " " + strings.Join(labels, " | ")
}

// Package navigation coordinates where the user is across the BOM views:
// active BOM type, tab, selected node, expanded nodes, and the jump stack
// that lets a user drill into a linked requirement and come back.
package navigation

import (
	"slices"
	"time"

	"github.com/leapstack-labs/bomscope/pkg/core"
)

// FallbackRequirementRoot is selected when a requirement cannot be resolved
// to a node of the requirement tree.
const FallbackRequirementRoot = "REQ-ROOT"

// TransitionKind tags every state change with who caused it.
type TransitionKind string

// Transition kinds.
const (
	// Manual transitions come straight from a user action.
	Manual TransitionKind = "manual"
	// Automatic transitions are driven by jump/back and reloads. Hosts must
	// not apply per-type defaults on top of them.
	Automatic TransitionKind = "automatic"
)

// Op names the controller operation that produced a change.
type Op string

// Controller operations.
const (
	OpSelectBomType         Op = "select_bom_type"
	OpSelectTab             Op = "select_tab"
	OpSelectNode            Op = "select_node"
	OpToggleExpand          Op = "toggle_expand"
	OpNavigateToRequirement Op = "navigate_to_requirement"
	OpJumpBack              Op = "jump_back"
	OpClearJumpHistory      Op = "clear_jump_history"
	OpClearPendingFocus     Op = "clear_pending_focus"
	OpDeepLink              Op = "deep_link"
	OpRepoint               Op = "repoint"
)

// State is the navigation context shown to the user.
type State struct {
	BomType        core.BomType `json:"bomType"`
	Tab            core.Tab     `json:"tab"`
	SelectedNodeID string       `json:"selectedNodeId"`
	// Expanded holds expanded node ids in the order they were opened.
	Expanded []string `json:"expanded"`
	// PendingFocus is a requirement id the detail panel should scroll to.
	PendingFocus string `json:"pendingFocus,omitempty"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.Expanded = slices.Clone(s.Expanded)
	if s.Expanded == nil {
		s.Expanded = []string{}
	}
	return s
}

// IsExpanded reports whether id is in the expanded set.
func (s State) IsExpanded(id string) bool {
	return slices.Contains(s.Expanded, id)
}

// SameContext reports whether two states show the same view: BOM type, tab,
// selection and expanded set (order-insensitive).
func (s State) SameContext(o State) bool {
	if s.BomType != o.BomType || s.Tab != o.Tab || s.SelectedNodeID != o.SelectedNodeID {
		return false
	}
	a, b := slices.Clone(s.Expanded), slices.Clone(o.Expanded)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

// JumpEntry is an immutable snapshot of the context a jump left behind.
type JumpEntry struct {
	FromBomType       core.BomType `json:"fromBomType"`
	FromTab           core.Tab     `json:"fromTab"`
	FromNodeID        string       `json:"fromNodeId,omitempty"`
	FromExpandedNodes []string     `json:"fromExpandedNodes"`
	RequirementIDs    []string     `json:"requirementIds"`
	SourceNodeID      string       `json:"sourceNodeId,omitempty"`
	SourceNodeName    string       `json:"sourceNodeName,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
}

func (e JumpEntry) clone() JumpEntry {
	e.FromExpandedNodes = slices.Clone(e.FromExpandedNodes)
	e.RequirementIDs = slices.Clone(e.RequirementIDs)
	return e
}

// JumpRequest asks the controller to open the requirement view.
type JumpRequest struct {
	RequirementIDs []string `json:"requirementIds"`
	SourceNodeID   string   `json:"sourceNodeId,omitempty"`
	SourceNodeName string   `json:"sourceNodeName,omitempty"`
}

// Change describes one applied transition.
type Change struct {
	Kind TransitionKind
	Op   Op
	Prev State
	Next State
}

// LeftBomType reports whether the change moved away from bt.
func (c Change) LeftBomType(bt core.BomType) bool {
	return c.Prev.BomType == bt && c.Next.BomType != bt
}

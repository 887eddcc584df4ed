package navigation

import (
	"fmt"
	"net/http"

	"github.com/leapstack-labs/bomscope/internal/navigation"
	"github.com/leapstack-labs/bomscope/internal/simexplorer"
	"github.com/leapstack-labs/bomscope/internal/ui/features/common"
	"github.com/leapstack-labs/bomscope/internal/workspace"
	"github.com/leapstack-labs/bomscope/pkg/core"
)

// BomTypeSignals selects a BOM view.
type BomTypeSignals struct {
	BomType string `json:"bomType"`
}

// TabSignals selects a detail tab.
type TabSignals struct {
	Tab string `json:"tab"`
}

// NodeSignals references a node of the active tree.
type NodeSignals struct {
	NodeID string `json:"nodeId"`
}

// JumpSignals opens linked requirements. With neither field set the
// selected node's requirements are used.
type JumpSignals struct {
	RequirementID  string   `json:"requirementId"`
	RequirementIDs []string `json:"requirementIds"`
}

// DeepLinkSignals carries a link either compact ("bom:solution:001") or
// split into its parts.
type DeepLinkSignals struct {
	Link    string `json:"link"`
	Module  string `json:"module"`
	BomType string `json:"bomType"`
	NodeID  string `json:"nodeId"`
}

type empty struct{}

func do(ws *workspace.Workspace, fn func(nav *navigation.Controller)) {
	ws.Do(func(nav *navigation.Controller, _ *simexplorer.Store) { fn(nav) })
}

// SelectBomType switches the BOM view.
func SelectBomType(resolver common.WorkspaceResolver) http.HandlerFunc {
	return common.Action(resolver, func(ws *workspace.Workspace, s BomTypeSignals) string {
		bt, err := core.ParseBomType(s.BomType)
		if err != nil {
			return err.Error()
		}
		do(ws, func(nav *navigation.Controller) { nav.SelectBomType(bt) })
		return ""
	})
}

// SelectTab switches the detail tab of the current view.
func SelectTab(resolver common.WorkspaceResolver) http.HandlerFunc {
	return common.Action(resolver, func(ws *workspace.Workspace, s TabSignals) string {
		var msg string
		do(ws, func(nav *navigation.Controller) {
			tab, bt := core.Tab(s.Tab), nav.State().BomType
			if !bt.AllowsTab(tab) {
				msg = fmt.Sprintf("%s view has no %q tab", bt, s.Tab)
				return
			}
			nav.SelectTab(tab)
		})
		return msg
	})
}

// SelectNode selects a node of the active tree.
func SelectNode(resolver common.WorkspaceResolver) http.HandlerFunc {
	return common.Action(resolver, func(ws *workspace.Workspace, s NodeSignals) string {
		if s.NodeID == "" {
			return "nodeId is required"
		}
		do(ws, func(nav *navigation.Controller) { nav.SelectNode(s.NodeID) })
		return ""
	})
}

// ToggleExpand opens or closes a node of the active tree.
func ToggleExpand(resolver common.WorkspaceResolver) http.HandlerFunc {
	return common.Action(resolver, func(ws *workspace.Workspace, s NodeSignals) string {
		if s.NodeID == "" {
			return "nodeId is required"
		}
		do(ws, func(nav *navigation.Controller) { nav.ToggleExpand(s.NodeID) })
		return ""
	})
}

// Jump opens the requirement view on linked requirements.
func Jump(resolver common.WorkspaceResolver) http.HandlerFunc {
	return common.Action(resolver, func(ws *workspace.Workspace, s JumpSignals) string {
		ids := s.RequirementIDs
		if s.RequirementID != "" {
			ids = append([]string{s.RequirementID}, ids...)
		}
		var msg string
		do(ws, func(nav *navigation.Controller) {
			req := navigation.JumpRequest{RequirementIDs: ids}
			if n, ok := nav.SelectedNode(); ok {
				req.SourceNodeID, req.SourceNodeName = n.ID, n.Name
				if len(req.RequirementIDs) == 0 {
					req.RequirementIDs = n.Requirements
				}
			}
			if len(req.RequirementIDs) == 0 {
				msg = "no requirements to jump to"
				return
			}
			nav.NavigateToRequirement(req)
		})
		return msg
	})
}

// JumpBack restores the context saved by the last jump.
func JumpBack(resolver common.WorkspaceResolver) http.HandlerFunc {
	return common.Action(resolver, func(ws *workspace.Workspace, _ empty) string {
		do(ws, func(nav *navigation.Controller) { nav.JumpBack() })
		return ""
	})
}

// ClearHistory drops the jump stack.
func ClearHistory(resolver common.WorkspaceResolver) http.HandlerFunc {
	return common.Action(resolver, func(ws *workspace.Workspace, _ empty) string {
		do(ws, func(nav *navigation.Controller) { nav.ClearJumpHistory() })
		return ""
	})
}

// AckFocus acknowledges the pending requirement focus.
func AckFocus(resolver common.WorkspaceResolver) http.HandlerFunc {
	return common.Action(resolver, func(ws *workspace.Workspace, _ empty) string {
		do(ws, func(nav *navigation.Controller) { nav.ClearPendingFocus() })
		return ""
	})
}

// DeepLink posts a link to the session's inbox. Links for other modules
// stay pending in the inbox.
func DeepLink(resolver common.WorkspaceResolver) http.HandlerFunc {
	return common.Action(resolver, func(ws *workspace.Workspace, s DeepLinkSignals) string {
		link, err := s.parse()
		if err != nil {
			return err.Error()
		}
		ws.OpenLink(link)
		return ""
	})
}

func (s DeepLinkSignals) parse() (core.DeepLink, error) {
	if s.Link != "" {
		return core.ParseDeepLink(s.Link)
	}
	if s.Module == "" {
		s.Module = core.ModuleBOM
	}
	if s.Module != core.ModuleBOM {
		return core.DeepLink{Module: s.Module, BomType: core.BomType(s.BomType), NodeID: s.NodeID}, nil
	}
	bt, err := core.ParseBomType(s.BomType)
	if err != nil {
		return core.DeepLink{}, err
	}
	return core.DeepLink{Module: s.Module, BomType: bt, NodeID: s.NodeID}, nil
}

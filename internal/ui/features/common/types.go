// Package common provides shared types and utilities for UI features.
package common

import (
	"net/http"

	"github.com/leapstack-labs/bomscope/internal/workspace"
)

// WorkspaceResolver finds the workspace of a browser session.
type WorkspaceResolver interface {
	Workspace(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, error)
}

// Signals is the datastar signal set the server keeps in sync with the
// browser. Requests carry them back along with the per-action signals each
// handler reads.
type Signals struct {
	BomType        string `json:"bomType"`
	Tab            string `json:"tab"`
	SelectedNodeID string `json:"selectedNodeId"`
	PendingFocus   string `json:"pendingFocus"`
	JumpDepth      int    `json:"jumpDepth"`
	Toast          string `json:"toast"`
	CompareCount   int    `json:"compareCount"`
	Keyword        string `json:"keyword"`
	Format         string `json:"format"`
	Status         string `json:"status"`
	Page           int    `json:"page"`
	PageSize       int    `json:"pageSize"`
}

// SignalsFrom derives the signal set from a snapshot.
func SignalsFrom(v workspace.View) Signals {
	s := Signals{
		BomType:        string(v.Nav.BomType),
		Tab:            string(v.Nav.Tab),
		SelectedNodeID: v.Nav.SelectedNodeID,
		PendingFocus:   v.Nav.PendingFocus,
		JumpDepth:      len(v.Jumps),
		CompareCount:   len(v.Sim.Compare),
		Keyword:        v.Sim.Filters.Keyword,
		Format:         v.Sim.Filters.Facets["format"],
		Status:         v.Sim.Filters.Facets["status"],
		Page:           v.Results.Page,
		PageSize:       v.Sim.Filters.PageSize,
	}
	if v.Toast != nil {
		s.Toast = v.Toast.Label
	}
	return s
}

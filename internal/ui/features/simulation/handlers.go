package simulation

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/bomscope/internal/navigation"
	"github.com/leapstack-labs/bomscope/internal/simexplorer"
	"github.com/leapstack-labs/bomscope/internal/ui/features/common"
	"github.com/leapstack-labs/bomscope/internal/workspace"
)

// SelectSignals references a catalog node. An empty kind clears the
// selection.
type SelectSignals struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// ToggleSignals names a catalog node to open or close.
type ToggleSignals struct {
	ID string `json:"id"`
}

// SearchSignals carries the search keyword.
type SearchSignals struct {
	Keyword string `json:"keyword"`
}

// PageSignals requests a results page.
type PageSignals struct {
	Page int `json:"page"`
}

// PageSizeSignals picks a page size.
type PageSizeSignals struct {
	PageSize int `json:"pageSize"`
}

// CompareSignals stages a file or an instance under a condition.
type CompareSignals struct {
	FileID      string `json:"fileId"`
	InstanceID  string `json:"instanceId"`
	ConditionID string `json:"conditionId"`
}

type empty struct{}

func do(ws *workspace.Workspace, fn func(sim *simexplorer.Store)) {
	ws.Do(func(_ *navigation.Controller, sim *simexplorer.Store) { fn(sim) })
}

func dispatch(ws *workspace.Workspace, a simexplorer.Action) {
	do(ws, func(sim *simexplorer.Store) { sim.Dispatch(a) })
}

// Select changes the catalog selection.
func Select(resolver common.WorkspaceResolver) http.HandlerFunc {
	return common.Action(resolver, func(ws *workspace.Workspace, s SelectSignals) string {
		if s.Kind == "" || s.Kind == "none" {
			dispatch(ws, simexplorer.SelectNode{})
			return ""
		}
		kind, err := simexplorer.ParseSelectionKind(s.Kind)
		if err != nil {
			return err.Error()
		}
		var ok bool
		do(ws, func(sim *simexplorer.Store) { ok = sim.SelectRef(kind, s.ID) })
		if !ok {
			return fmt.Sprintf("no %s %q in the catalog", kind, s.ID)
		}
		return ""
	})
}

// Toggle opens or closes a catalog node.
func Toggle(resolver common.WorkspaceResolver) http.HandlerFunc {
	return common.Action(resolver, func(ws *workspace.Workspace, s ToggleSignals) string {
		if s.ID == "" {
			return "id is required"
		}
		dispatch(ws, simexplorer.ToggleExpand{ID: s.ID})
		return ""
	})
}

// Search replaces the keyword.
func Search(resolver common.WorkspaceResolver) http.HandlerFunc {
	return common.Action(resolver, func(ws *workspace.Workspace, s SearchSignals) string {
		dispatch(ws, simexplorer.SetSearch{Keyword: s.Keyword})
		return ""
	})
}

// Filters merges a filter patch. The patch is either a "filters" object
// ({"keyword": ..., "facets": {...}}) or the page's top-level format and
// status signals.
func Filters(resolver common.WorkspaceResolver) http.HandlerFunc {
	return common.Action(resolver, func(ws *workspace.Workspace, s map[string]any) string {
		raw, ok := s["filters"].(map[string]any)
		if !ok {
			facets := map[string]any{}
			for _, k := range []string{simexplorer.FacetFormat, simexplorer.FacetStatus} {
				if v, ok := s[k]; ok {
					facets[k] = v
				}
			}
			raw = map[string]any{"facets": facets}
		}
		patch, err := simexplorer.DecodeFilterPatch(raw)
		if err != nil {
			return err.Error()
		}
		dispatch(ws, simexplorer.SetFilters{Patch: patch})
		return ""
	})
}

// Page moves to a results page. Out-of-range pages are clamped on display.
func Page(resolver common.WorkspaceResolver) http.HandlerFunc {
	return common.Action(resolver, func(ws *workspace.Workspace, s PageSignals) string {
		dispatch(ws, simexplorer.SetPage{Page: s.Page})
		return ""
	})
}

// PageSize picks one of the allowed page sizes.
func PageSize(resolver common.WorkspaceResolver) http.HandlerFunc {
	return common.Action(resolver, func(ws *workspace.Workspace, s PageSizeSignals) string {
		if !simexplorer.ValidPageSize(s.PageSize) {
			return fmt.Sprintf("page size must be one of %v", simexplorer.PageSizes)
		}
		dispatch(ws, simexplorer.SetPageSize{Size: s.PageSize})
		return ""
	})
}

// AddFile stages one file. Duplicates and a full queue are silently
// ignored; the response shows the unchanged queue.
func AddFile(resolver common.WorkspaceResolver) http.HandlerFunc {
	return common.Action(resolver, func(ws *workspace.Workspace, s CompareSignals) string {
		var known bool
		do(ws, func(sim *simexplorer.Store) {
			if _, known = sim.Catalog().File(s.FileID); known {
				sim.AddFileToCompare(s.FileID, s.ConditionID)
			}
		})
		if !known {
			return fmt.Sprintf("no file %q in the catalog", s.FileID)
		}
		return ""
	})
}

// AddInstance stages every file of an instance.
func AddInstance(resolver common.WorkspaceResolver) http.HandlerFunc {
	return common.Action(resolver, func(ws *workspace.Workspace, s CompareSignals) string {
		var known bool
		do(ws, func(sim *simexplorer.Store) {
			if _, _, known = sim.Catalog().Instance(s.InstanceID); known {
				sim.AddInstanceToCompare(s.InstanceID, s.ConditionID)
			}
		})
		if !known {
			return fmt.Sprintf("no instance %q in the catalog", s.InstanceID)
		}
		return ""
	})
}

// RemoveFile unstages a file.
func RemoveFile(resolver common.WorkspaceResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileID := chi.URLParam(r, "fileID")
		common.Action(resolver, func(ws *workspace.Workspace, _ empty) string {
			dispatch(ws, simexplorer.RemoveCompare{FileID: fileID})
			return ""
		})(w, r)
	}
}

// Clear empties the compare queue.
func Clear(resolver common.WorkspaceResolver) http.HandlerFunc {
	return common.Action(resolver, func(ws *workspace.Workspace, _ empty) string {
		dispatch(ws, simexplorer.ClearCompare{})
		return ""
	})
}

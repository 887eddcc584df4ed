package simexplorer

import (
	"strings"

	"github.com/leapstack-labs/bomscope/pkg/core"
)

// PageCount returns the number of pages needed for resultCount items, never
// less than one.
func PageCount(resultCount, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if resultCount <= 0 {
		return 1
	}
	return (resultCount + pageSize - 1) / pageSize
}

// VisiblePage clamps the requested page to the pages that exist for
// resultCount results.
func VisiblePage(s State, resultCount int) int {
	return min(max(s.Filters.Page, 1), PageCount(resultCount, s.Filters.PageSize))
}

// ResultPage is one page of filtered catalog files.
type ResultPage struct {
	Items     []core.FileLocation `json:"items"`
	Total     int                 `json:"total"`
	Page      int                 `json:"page"`
	PageSize  int                 `json:"pageSize"`
	PageCount int                 `json:"pageCount"`
}

// Results lists the files in scope of the current selection that match the
// keyword and facets, paged with the clamped page.
func Results(cat *core.Catalog, s State) ResultPage {
	var matched []core.FileLocation
	if cat != nil {
		keyword := strings.ToLower(strings.TrimSpace(s.Filters.Keyword))
		for _, loc := range cat.Files() {
			if inScope(s.Selection, loc) && matchesKeyword(loc.File, keyword) && matchesFacets(loc.File, s.Filters.Facets) {
				matched = append(matched, loc)
			}
		}
	}

	pageSize := s.Filters.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page := VisiblePage(s, len(matched))
	start := min((page-1)*pageSize, len(matched))
	end := min(start+pageSize, len(matched))

	items := matched[start:end]
	if items == nil {
		items = []core.FileLocation{}
	}
	return ResultPage{
		Items:     items,
		Total:     len(matched),
		Page:      page,
		PageSize:  pageSize,
		PageCount: PageCount(len(matched), pageSize),
	}
}

func inScope(sel *Selection, loc core.FileLocation) bool {
	if sel == nil {
		return true
	}
	switch sel.Kind {
	case SelectCategory:
		return loc.CategoryID == sel.CategoryID
	case SelectInstance:
		return loc.InstanceID == sel.InstanceID
	case SelectFolder, SelectFile:
		return loc.FolderID == sel.FolderID
	default:
		return true
	}
}

func matchesKeyword(f *core.SimFile, keyword string) bool {
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(f.Name), keyword) ||
		strings.Contains(strings.ToLower(f.ID), keyword)
}

func matchesFacets(f *core.SimFile, facets map[string]string) bool {
	for k, v := range facets {
		switch k {
		case FacetFormat:
			if !strings.EqualFold(f.Format, v) {
				return false
			}
		case FacetStatus:
			if !strings.EqualFold(f.Status, v) {
				return false
			}
		}
	}
	return true
}

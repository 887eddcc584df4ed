// Package simexplorer implements the simulation-file explorer: a reducer over
// the category → instance → folder → file catalog with search, facet
// filters, paging, and a bounded compare queue that raises toast events.
package simexplorer

import (
	"maps"
	"slices"
)

// Default and allowed page sizes.
const (
	DefaultPageSize = 20
	// MaxCompare is the capacity of the compare queue.
	MaxCompare = 6
)

// PageSizes lists the page sizes a user can pick.
var PageSizes = []int{10, 20, 50, 100}

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	return slices.Contains(PageSizes, n)
}

// Facet keys understood by the results selector.
const (
	FacetFormat = "format"
	FacetStatus = "status"
)

// SelectionKind discriminates a Selection.
type SelectionKind string

// Selection kinds, from the top of the hierarchy down.
const (
	SelectCategory SelectionKind = "category"
	SelectInstance SelectionKind = "instance"
	SelectFolder   SelectionKind = "folder"
	SelectFile     SelectionKind = "file"
)

// Selection references one catalog node and carries the ids of its
// ancestors. Ids below Kind are empty.
type Selection struct {
	Kind       SelectionKind `json:"kind"`
	CategoryID string        `json:"categoryId"`
	InstanceID string        `json:"instanceId,omitempty"`
	FolderID   string        `json:"folderId,omitempty"`
	FileID     string        `json:"fileId,omitempty"`
}

// ID returns the id of the referenced node itself.
func (s Selection) ID() string {
	switch s.Kind {
	case SelectFile:
		return s.FileID
	case SelectFolder:
		return s.FolderID
	case SelectInstance:
		return s.InstanceID
	default:
		return s.CategoryID
	}
}

// Filters is the search, facet and paging state of the results list.
type Filters struct {
	Keyword  string            `json:"keyword"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
	Facets   map[string]string `json:"facets"`
}

// CompareEvent records the last thing added to the compare tray. Seq grows
// by one for every event and identifies it for the toast timer.
type CompareEvent struct {
	Seq   uint64 `json:"seq"`
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	Label string `json:"label"`
}

// Compare event types.
const (
	EventFile     = "file"
	EventInstance = "instance"
)

// State is the full explorer state. Reduce never mutates a State it is given.
type State struct {
	Selection *Selection    `json:"selection"`
	Expanded  []string      `json:"expanded"`
	Filters   Filters       `json:"filters"`
	Compare   []CompareItem `json:"compare"`
	LastEvent *CompareEvent `json:"lastEvent"`
	// Events counts every compare event ever raised; Reset keeps it so event
	// sequence numbers stay unique for the store's lifetime.
	Events uint64 `json:"-"`
}

// Initial returns the starting state for a page size. Unknown page sizes
// fall back to DefaultPageSize.
func Initial(pageSize int) State {
	if !ValidPageSize(pageSize) {
		pageSize = DefaultPageSize
	}
	return State{
		Expanded: []string{},
		Filters: Filters{
			Page:     1,
			PageSize: pageSize,
			Facets:   map[string]string{},
		},
		Compare: []CompareItem{},
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	if s.Selection != nil {
		sel := *s.Selection
		s.Selection = &sel
	}
	if s.LastEvent != nil {
		ev := *s.LastEvent
		s.LastEvent = &ev
	}
	s.Expanded = slices.Clone(s.Expanded)
	s.Compare = slices.Clone(s.Compare)
	s.Filters.Facets = maps.Clone(s.Filters.Facets)
	if s.Filters.Facets == nil {
		s.Filters.Facets = map[string]string{}
	}
	return s
}

// IsExpanded reports whether id is expanded in the catalog tree.
func (s State) IsExpanded(id string) bool {
	return slices.Contains(s.Expanded, id)
}

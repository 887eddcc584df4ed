package simexplorer

import "github.com/leapstack-labs/bomscope/pkg/core"

// Action is an event fed to Reduce.
type Action interface {
	// Name identifies the action in logs and metrics.
	Name() string
}

// SelectNode makes Ref the current selection. A nil Ref clears it.
type SelectNode struct {
	Ref *Selection
}

// ToggleExpand opens or closes a catalog node.
type ToggleExpand struct {
	ID string
}

// SetSearch replaces the search keyword.
type SetSearch struct {
	Keyword string
}

// FilterPatch is a partial update of Filters. Nil fields are left alone;
// a facet set to "" is removed.
type FilterPatch struct {
	Keyword *string           `mapstructure:"keyword"`
	Facets  map[string]string `mapstructure:"facets"`
}

// SetFilters shallow-merges Patch into the current filters.
type SetFilters struct {
	Patch FilterPatch
}

// SetPage requests a results page. Consumers clamp it with VisiblePage.
type SetPage struct {
	Page int
}

// SetPageSize picks one of PageSizes.
type SetPageSize struct {
	Size int
}

// AddCompare stages a file under a condition.
type AddCompare struct {
	File          core.SimFile
	ConditionID   string
	ConditionName string
}

// AddInstanceCompare stages every file of an instance under one condition
// and raises an instance event.
type AddInstanceCompare struct {
	InstanceID    string
	Label         string
	Files         []core.SimFile
	ConditionID   string
	ConditionName string
}

// RemoveCompare drops every staged item of a file.
type RemoveCompare struct {
	FileID string
}

// ClearCompare empties the compare queue.
type ClearCompare struct{}

// RegisterCompareEvent records a compare notification without touching the
// queue.
type RegisterCompareEvent struct {
	Type  string
	ID    string
	Label string
}

// Reset restores the initial state for PageSize (DefaultPageSize when zero).
type Reset struct {
	PageSize int
}

func (SelectNode) Name() string           { return "select_node" }
func (ToggleExpand) Name() string         { return "toggle_expand" }
func (SetSearch) Name() string            { return "set_search" }
func (SetFilters) Name() string           { return "set_filters" }
func (SetPage) Name() string              { return "set_page" }
func (SetPageSize) Name() string          { return "set_page_size" }
func (AddCompare) Name() string           { return "add_compare" }
func (AddInstanceCompare) Name() string   { return "add_instance_compare" }
func (RemoveCompare) Name() string        { return "remove_compare" }
func (ClearCompare) Name() string         { return "clear_compare" }
func (RegisterCompareEvent) Name() string { return "register_compare_event" }
func (Reset) Name() string                { return "reset" }

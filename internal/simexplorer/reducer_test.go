package simexplorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce_SelectNode(t *testing.T) {
	s := Initial(DefaultPageSize)
	ref := &Selection{Kind: SelectFolder, CategoryID: "cfd", InstanceID: "cfd-1", FolderID: "cfd-1-out"}

	next := Reduce(s, SelectNode{Ref: ref})
	require.NotNil(t, next.Selection)
	assert.Equal(t, "cfd-1-out", next.Selection.ID())
	assert.Empty(t, next.Expanded, "selection must not change expansion")
	assert.Nil(t, s.Selection, "input state must not change")

	ref.FolderID = "mutated"
	assert.Equal(t, "cfd-1-out", next.Selection.FolderID)

	cleared := Reduce(next, SelectNode{})
	assert.Nil(t, cleared.Selection)
}

func TestReduce_ToggleExpandSymmetry(t *testing.T) {
	s := Reduce(Initial(DefaultPageSize), ToggleExpand{ID: "cfd"})
	s = Reduce(s, ToggleExpand{ID: "st-1"})

	for _, id := range []string{"cfd", "st-1", "structural"} {
		once := Reduce(s, ToggleExpand{ID: id})
		assert.NotEqual(t, s.IsExpanded(id), once.IsExpanded(id))
		twice := Reduce(once, ToggleExpand{ID: id})
		assert.ElementsMatch(t, s.Expanded, twice.Expanded)
	}
}

func TestReduce_FilterChangesResetPage(t *testing.T) {
	keyword := "blade"
	actions := map[string]Action{
		"search":        SetSearch{Keyword: "pressure"},
		"empty search":  SetSearch{},
		"facet":         SetFilters{Patch: FilterPatch{Facets: map[string]string{FacetFormat: "csv"}}},
		"keyword patch": SetFilters{Patch: FilterPatch{Keyword: &keyword}},
		"empty patch":   SetFilters{},
		"page size":     SetPageSize{Size: 50},
	}

	for _, page := range []int{2, 3, 17} {
		start := Reduce(Initial(DefaultPageSize), SetPage{Page: page})
		require.Equal(t, page, start.Filters.Page)

		for name, a := range actions {
			t.Run(name, func(t *testing.T) {
				next := Reduce(start, a)
				assert.Equal(t, 1, next.Filters.Page)
			})
		}
	}
}

func TestReduce_SetFiltersMerges(t *testing.T) {
	s := Reduce(Initial(DefaultPageSize), SetFilters{Patch: FilterPatch{Facets: map[string]string{FacetFormat: "csv", FacetStatus: "done"}}})
	s = Reduce(s, SetSearch{Keyword: "pressure"})

	next := Reduce(s, SetFilters{Patch: FilterPatch{Facets: map[string]string{FacetStatus: ""}}})

	assert.Equal(t, map[string]string{FacetFormat: "csv"}, next.Filters.Facets)
	assert.Equal(t, "pressure", next.Filters.Keyword, "keyword untouched when not in the patch")
	assert.Equal(t, map[string]string{FacetFormat: "csv", FacetStatus: "done"}, s.Filters.Facets, "input state must not change")
}

func TestReduce_SetPage(t *testing.T) {
	s := Initial(DefaultPageSize)

	assert.Equal(t, 40, Reduce(s, SetPage{Page: 40}).Filters.Page, "raw value stored")
	assert.Equal(t, 1, Reduce(s, SetPage{Page: 0}).Filters.Page)
	assert.Equal(t, 1, Reduce(s, SetPage{Page: -3}).Filters.Page)
}

func TestReduce_SetPageSize(t *testing.T) {
	s := Reduce(Initial(DefaultPageSize), SetPage{Page: 3})

	next := Reduce(s, SetPageSize{Size: 100})
	assert.Equal(t, 100, next.Filters.PageSize)
	assert.Equal(t, 1, next.Filters.Page)

	rejected := Reduce(s, SetPageSize{Size: 7})
	assert.Equal(t, s, rejected)
}

func TestReduce_AddCompare(t *testing.T) {
	s := Initial(DefaultPageSize)

	s = Reduce(s, AddCompare{File: simFile("f01"), ConditionID: "cruise"})
	require.Len(t, s.Compare, 1)
	assert.Equal(t, "f01::cruise", s.Compare[0].Key)
	assert.Equal(t, "Cruise", s.Compare[0].ConditionName)
	require.NotNil(t, s.LastEvent)
	assert.Equal(t, EventFile, s.LastEvent.Type)
	assert.Equal(t, "f01", s.LastEvent.ID)
	assert.Equal(t, "f01.vtk (Cruise)", s.LastEvent.Label)
	assert.Equal(t, uint64(1), s.LastEvent.Seq)

	// Same file under another condition is a different item.
	s = Reduce(s, AddCompare{File: simFile("f01"), ConditionID: "takeoff"})
	assert.Len(t, s.Compare, 2)
	assert.Equal(t, uint64(2), s.LastEvent.Seq)
}

func TestReduce_AddCompareDedup(t *testing.T) {
	s := Reduce(Initial(DefaultPageSize), AddCompare{File: simFile("f01"), ConditionID: "cruise"})

	again := Reduce(s, AddCompare{File: simFile("f01"), ConditionID: "cruise"})

	assert.Len(t, again.Compare, 1)
	assert.Equal(t, s, again, "duplicate add is a no-op, no new event")
}

func TestReduce_AddCompareCapacity(t *testing.T) {
	s := Initial(DefaultPageSize)
	for _, f := range simFiles(MaxCompare) {
		s = Reduce(s, AddCompare{File: f})
	}
	require.Len(t, s.Compare, MaxCompare)
	before := CompareKeys(s)

	full := Reduce(s, AddCompare{File: simFile("f99")})

	assert.Len(t, full.Compare, MaxCompare)
	assert.Equal(t, before, CompareKeys(full))
	assert.Equal(t, s.LastEvent, full.LastEvent)
}

func TestReduce_AddInstanceCompare(t *testing.T) {
	s := Reduce(Initial(DefaultPageSize), AddCompare{File: simFile("f02")})

	next := Reduce(s, AddInstanceCompare{InstanceID: "st-1", Label: "Blade static", Files: simFiles(10)})

	assert.Len(t, next.Compare, MaxCompare, "instance add obeys capacity")
	assert.Equal(t, []string{"f02::takeoff", "f01::takeoff", "f03::takeoff", "f04::takeoff", "f05::takeoff", "f06::takeoff"}, CompareKeys(next))
	require.NotNil(t, next.LastEvent)
	assert.Equal(t, EventInstance, next.LastEvent.Type)
	assert.Equal(t, "Blade static (5 files)", next.LastEvent.Label)

	same := Reduce(next, AddInstanceCompare{InstanceID: "st-1", Files: simFiles(3)})
	assert.Equal(t, next, same, "nothing added, no event")
}

func TestReduce_RemoveCompare(t *testing.T) {
	s := Initial(DefaultPageSize)
	s = Reduce(s, AddCompare{File: simFile("f01"), ConditionID: "takeoff"})
	s = Reduce(s, AddCompare{File: simFile("f02")})
	s = Reduce(s, AddCompare{File: simFile("f01"), ConditionID: "cruise"})
	s = Reduce(s, AddCompare{File: simFile("f03")})

	next := Reduce(s, RemoveCompare{FileID: "f01"})
	assert.Equal(t, []string{"f02::takeoff", "f03::takeoff"}, CompareKeys(next), "all items of the file go, order kept")
	assert.Equal(t, s.LastEvent, next.LastEvent)

	assert.Equal(t, next, Reduce(next, RemoveCompare{FileID: "missing"}))
}

func TestReduce_ClearCompareKeepsEvent(t *testing.T) {
	s := Reduce(Initial(DefaultPageSize), AddCompare{File: simFile("f01")})

	next := Reduce(s, ClearCompare{})

	assert.Empty(t, next.Compare)
	assert.NotNil(t, next.Compare)
	assert.Equal(t, s.LastEvent, next.LastEvent)
}

func TestReduce_RegisterCompareEvent(t *testing.T) {
	s := Reduce(Initial(DefaultPageSize), AddCompare{File: simFile("f01")})

	next := Reduce(s, RegisterCompareEvent{Type: EventInstance, ID: "cfd-1", Label: "Inlet flow"})

	assert.Equal(t, s.Compare, next.Compare)
	require.NotNil(t, next.LastEvent)
	assert.Equal(t, CompareEvent{Seq: 2, Type: EventInstance, ID: "cfd-1", Label: "Inlet flow"}, *next.LastEvent)
}

func TestReduce_Reset(t *testing.T) {
	s := Initial(50)
	s = Reduce(s, SelectNode{Ref: &Selection{Kind: SelectCategory, CategoryID: "cfd"}})
	s = Reduce(s, ToggleExpand{ID: "cfd"})
	s = Reduce(s, SetSearch{Keyword: "x"})
	s = Reduce(s, SetPage{Page: 4})
	s = Reduce(s, AddCompare{File: simFile("f01")})

	next := Reduce(s, Reset{PageSize: 50})

	want := Initial(50)
	want.Events = 1
	assert.Equal(t, want, next)

	again := Reduce(next, AddCompare{File: simFile("f01")})
	assert.Equal(t, uint64(2), again.LastEvent.Seq, "event sequence survives reset")
}

type unknownAction struct{}

func (unknownAction) Name() string { return "unknown" }

func TestReduce_UnknownActionIsNoop(t *testing.T) {
	s := Reduce(Initial(DefaultPageSize), SetSearch{Keyword: "x"})
	assert.Equal(t, s, Reduce(s, unknownAction{}))
}

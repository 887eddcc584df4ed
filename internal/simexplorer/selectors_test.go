package simexplorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisiblePage(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		results  int
		want     int
	}{
		{"first page", 1, 20, 100, 1},
		{"in range", 3, 20, 100, 3},
		{"last page partial", 6, 20, 101, 6},
		{"past the end", 9, 20, 45, 3},
		{"no results", 4, 20, 0, 1},
		{"exact multiple", 5, 10, 50, 5},
		{"zero page", 0, 10, 50, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Initial(tt.pageSize)
			s.Filters.Page = tt.page
			assert.Equal(t, tt.want, VisiblePage(s, tt.results))
		})
	}
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, PageCount(0, 20))
	assert.Equal(t, 1, PageCount(20, 20))
	assert.Equal(t, 2, PageCount(21, 20))
	assert.Equal(t, 3, PageCount(50, 0), "zero page size uses the default")
}

func TestResults_Scope(t *testing.T) {
	cat := testCatalog()

	tests := []struct {
		name string
		sel  *Selection
		want int
	}{
		{"everything", nil, 28},
		{"category", &Selection{Kind: SelectCategory, CategoryID: "cfd"}, 3},
		{"instance", &Selection{Kind: SelectInstance, CategoryID: "structural", InstanceID: "st-1"}, 25},
		{"folder", &Selection{Kind: SelectFolder, CategoryID: "structural", InstanceID: "st-1", FolderID: "st-1-mesh"}, 5},
		{"file shows its folder", &Selection{Kind: SelectFile, CategoryID: "cfd", InstanceID: "cfd-1", FolderID: "cfd-1-out", FileID: "p2"}, 3},
		{"empty instance", &Selection{Kind: SelectInstance, CategoryID: "cfd", InstanceID: "cfd-2"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Reduce(Initial(DefaultPageSize), SelectNode{Ref: tt.sel})
			assert.Equal(t, tt.want, Results(cat, s).Total)
		})
	}
}

func TestResults_KeywordAndFacets(t *testing.T) {
	cat := testCatalog()
	s := Reduce(Initial(DefaultPageSize), SetSearch{Keyword: "PRESSURE"})

	res := Results(cat, s)
	assert.Equal(t, 2, res.Total, "keyword is case-insensitive")

	s = Reduce(s, SetFilters{Patch: FilterPatch{Facets: map[string]string{FacetStatus: "failed"}}})
	res = Results(cat, s)
	if assert.Len(t, res.Items, 1) {
		assert.Equal(t, "p3", res.Items[0].File.ID)
	}

	s = Reduce(Initial(DefaultPageSize), SetFilters{Patch: FilterPatch{Facets: map[string]string{FacetStatus: "running"}}})
	assert.Equal(t, 5, Results(cat, s).Total)

	s = Reduce(s, SetFilters{Patch: FilterPatch{Facets: map[string]string{FacetFormat: "csv"}}})
	assert.Equal(t, 0, Results(cat, s).Total)
}

func TestResults_PagingClamps(t *testing.T) {
	cat := testCatalog()
	s := Reduce(Initial(10), SelectNode{Ref: &Selection{Kind: SelectInstance, CategoryID: "structural", InstanceID: "st-1"}})
	s = Reduce(s, SetPage{Page: 99})

	res := Results(cat, s)
	assert.Equal(t, 25, res.Total)
	assert.Equal(t, 3, res.PageCount)
	assert.Equal(t, 3, res.Page)
	assert.Len(t, res.Items, 5)
	assert.Equal(t, "f21", res.Items[0].File.ID)
	assert.Equal(t, 99, s.Filters.Page, "selector never writes back")
}

func TestResults_NilCatalog(t *testing.T) {
	res := Results(nil, Initial(DefaultPageSize))
	assert.Equal(t, 0, res.Total)
	assert.NotNil(t, res.Items)
	assert.Equal(t, 1, res.Page)
}

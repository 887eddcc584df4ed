package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBomType(t *testing.T) {
	tests := []struct {
		in      string
		want    BomType
		wantErr bool
	}{
		{"solution", BomSolution, false},
		{" Requirement ", BomRequirement, false},
		{"PHYSICAL", BomPhysical, false},
		{"", "", true},
		{"mechanical", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBomType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBomType_Tabs(t *testing.T) {
	for _, bt := range AllBomTypes() {
		tabs := bt.Tabs()
		require.NotEmpty(t, tabs)
		assert.Equal(t, bt.DefaultTab(), tabs[0], "default tab first for %s", bt)
		assert.True(t, bt.AllowsTab(TabRequirement), "%s should allow the requirement tab", bt)
		assert.True(t, bt.AllowsTab(TabOverview), "%s should allow the overview tab", bt)
	}

	assert.Equal(t, TabRequirement, BomRequirement.DefaultTab())
	assert.Equal(t, TabOverview, BomSolution.DefaultTab())
	assert.False(t, BomSolution.AllowsTab(TabSimulation))
	assert.True(t, BomSimulation.AllowsTab(TabSimulation))
}

func TestParseDeepLink(t *testing.T) {
	link, err := ParseDeepLink("bom:solution:001")
	require.NoError(t, err)
	assert.Equal(t, DeepLink{Module: ModuleBOM, BomType: BomSolution, NodeID: "001"}, link)

	_, err = ParseDeepLink("bom:solution")
	assert.Error(t, err)

	_, err = ParseDeepLink("bom:nope:001")
	assert.Error(t, err)
}

func TestCatalog_Lookups(t *testing.T) {
	cat := Catalog{Categories: []Category{{
		ID: "cfd", Name: "CFD",
		Instances: []Instance{{
			ID: "cfd-1", Name: "Run 1",
			Folders: []Folder{{
				ID: "cfd-1-out", Name: "Output",
				Files: []SimFile{{ID: "f1", Name: "pressure.vtk"}, {ID: "f2", Name: "velocity.vtk"}},
			}},
		}},
	}}}

	inst, catID, ok := cat.Instance("cfd-1")
	require.True(t, ok)
	assert.Equal(t, "cfd", catID)
	assert.Equal(t, "Run 1", inst.Name)

	loc, ok := cat.File("f2")
	require.True(t, ok)
	assert.Equal(t, "cfd-1-out", loc.FolderID)
	assert.Equal(t, "velocity.vtk", loc.File.Name)

	_, ok = cat.Folder("missing")
	assert.False(t, ok)
	assert.Len(t, cat.Files(), 2)
}

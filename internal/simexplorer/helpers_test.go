package simexplorer

import (
	"fmt"

	"github.com/leapstack-labs/bomscope/pkg/core"
)

func simFile(id string) core.SimFile {
	return core.SimFile{
		ID:                 id,
		Name:               id + ".vtk",
		Format:             "vtk",
		Status:             "done",
		DefaultConditionID: "takeoff",
		Conditions: []core.Condition{
			{ID: "takeoff", Name: "Takeoff"},
			{ID: "cruise", Name: "Cruise"},
		},
	}
}

func simFiles(n int) []core.SimFile {
	files := make([]core.SimFile, n)
	for i := range files {
		files[i] = simFile(fmt.Sprintf("f%02d", i+1))
	}
	return files
}

// testCatalog has two categories; structural holds 25 files over two
// folders, cfd holds three csv files.
func testCatalog() *core.Catalog {
	big := simFiles(25)
	for i := range big {
		if i%5 == 0 {
			big[i].Status = "running"
		}
	}
	return &core.Catalog{Categories: []core.Category{
		{
			ID: "structural", Name: "Structural",
			Instances: []core.Instance{{
				ID: "st-1", Name: "Blade static",
				Folders: []core.Folder{
					{ID: "st-1-mesh", Name: "Mesh", Files: big[:5]},
					{ID: "st-1-out", Name: "Results", Files: big[5:]},
				},
			}},
		},
		{
			ID: "cfd", Name: "CFD",
			Instances: []core.Instance{{
				ID: "cfd-1", Name: "Inlet flow",
				Folders: []core.Folder{{
					ID: "cfd-1-out", Name: "Results",
					Files: []core.SimFile{
						{ID: "p1", Name: "pressure.csv", Format: "csv", Status: "done"},
						{ID: "p2", Name: "velocity.csv", Format: "csv", Status: "done"},
						{ID: "p3", Name: "Pressure-coarse.csv", Format: "csv", Status: "failed"},
					},
				}},
			}, {
				ID: "cfd-2", Name: "Empty run",
				Folders: []core.Folder{{ID: "cfd-2-out", Name: "Results"}},
			}},
		},
	}}
}

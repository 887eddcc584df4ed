package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/bomscope/pkg/core"
)

// =============================================================================
// Sample dataset
// =============================================================================

func TestLoadSample(t *testing.T) {
	ds, err := LoadSample()
	require.NoError(t, err)
	assert.Equal(t, SampleSource, ds.Source)

	st := ds.Stats()
	assert.Equal(t, 8, st.Nodes[core.BomSolution])
	assert.Equal(t, 5, st.Nodes[core.BomRequirement])
	assert.Equal(t, 8, st.Files)

	reqs := ds.Forest.Index(core.BomRequirement)
	owner, ok := reqs.OwnerOf("REQ-BLADE-001-GEOM")
	require.True(t, ok)
	assert.Equal(t, "REQ-COMPRESSOR-BLADE", owner)

	path, ok := reqs.PathTo(owner)
	require.True(t, ok)
	assert.Equal(t, []string{"REQ-ROOT", "REQ-COMPRESSOR", "REQ-COMPRESSOR-BLADE"}, path)

	roots := ds.Forest.Index(core.BomSolution).Roots()
	require.NotEmpty(t, roots)
	assert.Equal(t, "001", roots[0].ID)
}

func TestLoadSample_WarnsAboutUnownedLinks(t *testing.T) {
	ds, err := LoadSample()
	require.NoError(t, err)

	require.Len(t, ds.Warnings, 1)
	assert.Equal(t, "trees.test.T-001-01", ds.Warnings[0].Path)
	assert.Contains(t, ds.Warnings[0].Message, "REQ-UNKNOWN-42")
}

func TestLoad_EmptyDirMeansSample(t *testing.T) {
	ds, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SampleSource, ds.Source)
}

// =============================================================================
// Loading from disk
// =============================================================================

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, BomFile), []byte(`
trees:
  solution:
    - id: S1
      name: Root
      children:
        - {id: S1-1, name: Child}
`), 0o600))

	ds, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, ds.Source)
	assert.Empty(t, ds.Catalog.Categories, "simulation file is optional")

	node, ok := ds.Forest.Index(core.BomSolution).Node("S1-1")
	require.True(t, ok)
	assert.Equal(t, 1, node.Level)
	assert.Empty(t, ds.Forest.Index(core.BomDesign).Roots())
}

func TestLoad_MissingBomFile(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, []string{
		filepath.Join("data", BomFile),
		filepath.Join("data", SimulationFile),
	}, Paths("data"))
}

// =============================================================================
// Validation
// =============================================================================

func TestParse_Problems(t *testing.T) {
	tests := []struct {
		name     string
		bom      string
		sim      string
		wantPath string
		wantMsg  string
	}{
		{
			name:     "unknown bom type",
			bom:      "trees:\n  widgets:\n    - {id: W1, name: W}\n",
			wantPath: "trees.widgets",
			wantMsg:  "unknown BOM type",
		},
		{
			name:     "missing node name",
			bom:      "trees:\n  solution:\n    - {id: S1, children: [{id: S2}]}\n",
			wantPath: "trees.solution[0].Name",
			wantMsg:  `failed "required" check`,
		},
		{
			name:     "duplicate node id",
			bom:      "trees:\n  design:\n    - {id: D1, name: A, children: [{id: D1, name: B}]}\n",
			wantPath: "trees.design",
			wantMsg:  `duplicate node id "D1"`,
		},
		{
			name:     "requirement owned twice",
			bom:      "trees:\n  requirement:\n    - {id: R1, name: A, requirements: [X], children: [{id: R2, name: B, requirements: [X]}]}\n",
			wantPath: "trees.requirement",
			wantMsg:  `requirement "X" owned by both "R1" and "R2"`,
		},
		{
			name:     "duplicate catalog id",
			bom:      "trees: {}\n",
			sim:      "categories:\n  - {id: c1, name: C, instances: [{id: c1, name: I}]}\n",
			wantPath: "categories[0].instances[0]",
			wantMsg:  `instance id "c1" already used by a category`,
		},
		{
			name: "bad default condition",
			bom:  "trees: {}\n",
			sim: `categories:
  - id: c1
    name: C
    instances:
      - id: i1
        name: I
        folders:
          - id: f1
            name: F
            files:
              - {id: x, name: x.csv, default_condition: hot, conditions: [{id: cold}]}
`,
			wantPath: "categories[0].instances[0].folders[0].files[0]",
			wantMsg:  `default condition "hot"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sim []byte
			if tt.sim != "" {
				sim = []byte(tt.sim)
			}
			_, err := Parse("test", []byte(tt.bom), sim)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
			require.NotEmpty(t, verr.Problems)
			assert.Equal(t, tt.wantPath, verr.Problems[0].Path)
			assert.Contains(t, verr.Problems[0].Message, tt.wantMsg)
		})
	}
}

func TestParse_UnknownFieldRejected(t *testing.T) {
	_, err := Parse("test", []byte("trees: {}\nowner: me\n"), nil)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, BomFile, perr.File)
}

func TestParse_EmptyDocuments(t *testing.T) {
	ds, err := Parse("test", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, ds.Warnings)
	assert.Zero(t, ds.Stats().Files)
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		BomFile:        {Data: []byte("trees:\n  requirement:\n    - {id: REQ-ROOT, name: Root}\n  test:\n    - {id: T1, name: T, requirements: [NOPE]}\n")},
		SimulationFile: {Data: []byte("categories: []\n")},
	}

	ds, err := LoadFS(fsys, "mapfs")
	require.NoError(t, err)
	require.Len(t, ds.Warnings, 1)
	assert.Contains(t, ds.Warnings[0].String(), `requirement "NOPE" has no owner`)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Source: "data", Problems: []Problem{{Path: "a", Message: "b"}, {Path: "c", Message: "d"}}}
	assert.Equal(t, "data: 2 problem(s)\n  a: b\n  c: d", err.Error())
}

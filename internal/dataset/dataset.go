// Package dataset loads the BOM trees and the simulation catalog that the
// browser reads. Data comes from two YAML files in a data directory, or from
// the embedded sample when no directory is configured.
package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/bomscope/internal/treeindex"
	"github.com/leapstack-labs/bomscope/pkg/core"
)

// File names inside a data directory.
const (
	BomFile        = "bom.yaml"
	SimulationFile = "simulation.yaml"
)

// ErrNotFound is returned when the BOM file of a data directory is missing.
var ErrNotFound = errors.New("dataset not found")

// Dataset is a parsed and validated data directory.
type Dataset struct {
	Source  string
	Trees   map[core.BomType][]core.TreeNode
	Forest  *treeindex.Forest
	Catalog *core.Catalog

	// Warnings are problems that do not stop the browser, such as links to
	// requirements no node owns.
	Warnings []Problem
}

// Stats summarises a dataset for the validate command.
type Stats struct {
	Nodes map[core.BomType]int
	Files int
}

type bomDocument struct {
	Trees map[string][]core.TreeNode `yaml:"trees"`
}

// Load reads the dataset in dir. An empty dir loads the embedded sample.
func Load(dir string) (*Dataset, error) {
	if dir == "" {
		return LoadSample()
	}
	return LoadFS(os.DirFS(dir), dir)
}

// LoadSample loads the embedded sample dataset.
func LoadSample() (*Dataset, error) {
	sub, err := fs.Sub(sampleFS, "sample")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub, SampleSource)
}

// LoadFS reads BomFile and the optional SimulationFile from fsys.
func LoadFS(fsys fs.FS, source string) (*Dataset, error) {
	bom, err := fs.ReadFile(fsys, BomFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: no %s in %s", ErrNotFound, BomFile, source)
		}
		return nil, fmt.Errorf("read %s: %w", BomFile, err)
	}

	sim, err := fs.ReadFile(fsys, SimulationFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", SimulationFile, err)
	}

	return Parse(source, bom, sim)
}

// Parse decodes and validates the two documents. Unknown YAML fields are
// rejected. A nil simulation document yields an empty catalog.
func Parse(source string, bom, simulation []byte) (*Dataset, error) {
	var doc bomDocument
	if err := decodeStrict(bom, &doc); err != nil {
		return nil, &ParseError{File: BomFile, Err: err}
	}

	catalog := &core.Catalog{}
	if err := decodeStrict(simulation, catalog); err != nil {
		return nil, &ParseError{File: SimulationFile, Err: err}
	}

	trees, problems := checkTrees(doc.Trees)
	problems = append(problems, checkCatalog(catalog)...)
	if len(problems) > 0 {
		return nil, &ValidationError{Source: source, Problems: problems}
	}

	return &Dataset{
		Source:   source,
		Trees:    trees,
		Forest:   treeindex.NewForest(trees),
		Catalog:  catalog,
		Warnings: checkLinks(trees),
	}, nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Stats counts nodes per BOM type and catalog files.
func (d *Dataset) Stats() Stats {
	st := Stats{Nodes: make(map[core.BomType]int, len(core.AllBomTypes()))}
	for _, bt := range core.AllBomTypes() {
		st.Nodes[bt] = d.Forest.Tree(bt).Len()
	}
	st.Files = len(d.Catalog.Files())
	return st
}

// Paths returns the files a watcher should observe for dir.
func Paths(dir string) []string {
	return []string{
		filepath.Join(dir, BomFile),
		filepath.Join(dir, SimulationFile),
	}
}

// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/leapstack-labs/bomscope/internal/cli/output"
)

// BomYAML is a small BOM file with a solution part linked to a requirement
// two levels down the requirement tree.
const BomYAML = `trees:
  solution:
    - id: S-1
      name: Demonstrator
      requirements: [R-TOP]
      children:
        - id: S-1-1
          name: Blade
          requirements: [R-BLADE-GEOM]
  requirement:
    - id: REQ-ROOT
      name: Requirements
      requirements: [R-TOP]
      children:
        - id: REQ-AERO
          name: Aero
          children:
            - id: REQ-AERO-BLADE
              name: Blade requirements
              requirements: [R-BLADE-GEOM]
  simulation:
    - id: SIM-1
      name: Analyses
`

// SimulationYAML is a catalog with one instance of three files.
const SimulationYAML = `categories:
  - id: cfd
    name: CFD
    instances:
      - id: run-1
        name: Run one
        folders:
          - id: run-1-out
            name: Results
            files:
              - {id: a, name: alpha.csv, format: csv, status: done, default_condition: hot, conditions: [{id: hot, name: Hot}, {id: cold, name: Cold}]}
              - {id: b, name: beta.csv, format: csv, status: failed}
              - {id: c, name: gamma.vtk, format: vtk, status: done}
`

// SetupTestDataDir writes BomYAML and SimulationYAML to a temporary data
// directory and returns its path.
func SetupTestDataDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"bom.yaml":        BomYAML,
		"simulation.yaml": SimulationYAML,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

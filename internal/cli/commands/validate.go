package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/bomscope/internal/cli/output"
	"github.com/leapstack-labs/bomscope/internal/dataset"
	"github.com/leapstack-labs/bomscope/pkg/core"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the dataset for errors",
		Long: `Load bom.yaml and simulation.yaml from the data directory and report
structural problems (missing fields, duplicate ids, bad default conditions)
and warnings (requirement links that no requirement node owns).`,
		Example: `  bomscope validate --data-dir ./programme-data`,
		Args:    cobra.NoArgs,
		RunE:    runValidate,
	}
}

// validateReport is the JSON shape of the validate command.
type validateReport struct {
	Source   string               `json:"source"`
	Valid    bool                 `json:"valid"`
	Nodes    map[core.BomType]int `json:"nodes,omitempty"`
	Files    int                  `json:"files"`
	Problems []dataset.Problem    `json:"problems,omitempty"`
	Warnings []dataset.Problem    `json:"warnings,omitempty"`
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cc := newBareContext(cmd)
	r := cc.Renderer

	source := cc.Cfg.DataDir
	if source == "" {
		source = dataset.SampleSource
	}
	report := validateReport{Source: source}

	ds, err := dataset.Load(cc.Cfg.DataDir)
	var verr *dataset.ValidationError
	switch {
	case err == nil:
		st := ds.Stats()
		report.Valid = true
		report.Nodes = st.Nodes
		report.Files = st.Files
		report.Warnings = ds.Warnings
	case errors.As(err, &verr):
		report.Problems = verr.Problems
	default:
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(report); err != nil {
			return err
		}
	} else {
		renderValidateReport(r, report)
	}

	if !report.Valid {
		return fmt.Errorf("dataset has %d problem(s)", len(report.Problems))
	}
	return nil
}

func renderValidateReport(r *output.Renderer, report validateReport) {
	r.Header("Dataset " + report.Source)

	if report.Valid {
		rows := make([][]string, 0, len(report.Nodes)+1)
		for _, bt := range core.AllBomTypes() {
			rows = append(rows, []string{output.Label(string(bt)), strconv.Itoa(report.Nodes[bt])})
		}
		rows = append(rows, []string{"Simulation files", strconv.Itoa(report.Files)})
		r.Table([]string{"Tree", "Count"}, rows)
	}

	if len(report.Problems) > 0 {
		r.Table([]string{"Problem", "Where"}, problemRows(report.Problems))
	}
	for _, w := range report.Warnings {
		r.Warning(w.String())
	}
	if report.Valid {
		r.Success("dataset is valid")
	}
}

func problemRows(problems []dataset.Problem) [][]string {
	rows := make([][]string, len(problems))
	for i, p := range problems {
		rows[i] = []string{p.Message, p.Path}
	}
	return rows
}

// Package output renders command results for terminals, markdown consumers
// and scripts.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// OutputMode selects how results are rendered.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Mode converts a config value to an OutputMode. Unknown values mean auto.
func Mode(s string) OutputMode {
	switch m := OutputMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeText, ModeMarkdown, ModeJSON:
		return m
	case "md":
		return ModeMarkdown
	default:
		return ModeAuto
	}
}

// Styles are the lipgloss styles used in text mode.
type Styles struct {
	Header   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
}

// Renderer writes command output in the configured mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	isTTY  bool
	mode   OutputMode
	styles Styles
}

var titleCase = cases.Title(language.English)

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal flag.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	lg := lipgloss.NewRenderer(out, termenv.WithTTY(isTTY))
	if !isTTY {
		lg.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		isTTY:  isTTY,
		mode:   mode,
		styles: newStyles(lg),
	}
}

func newStyles(lg *lipgloss.Renderer) Styles {
	return Styles{
		Header:   lg.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Muted:    lg.NewStyle().Faint(true),
		Selected: lg.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		Success:  lg.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:  lg.NewStyle().Foreground(lipgloss.Color("11")),
		Error:    lg.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Out returns the standard output writer.
func (r *Renderer) Out() io.Writer { return r.out }

// ErrOut returns the error output writer.
func (r *Renderer) ErrOut() io.Writer { return r.errOut }

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the text mode styles.
func (r *Renderer) Styles() Styles { return r.styles }

// EffectiveMode resolves auto: text on a terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode == ModeAuto || r.mode == "" {
		if r.isTTY {
			return ModeText
		}
		return ModeMarkdown
	}
	return r.mode
}

// Label turns an identifier like bom_type into "Bom Type".
func Label(s string) string {
	return titleCase.String(strings.ReplaceAll(s, "_", " "))
}

// Header prints a section title.
func (r *Renderer) Header(title string) {
	switch r.EffectiveMode() {
	case ModeMarkdown:
		_, _ = fmt.Fprintf(r.out, "## %s\n\n", title)
	case ModeJSON:
	default:
		_, _ = fmt.Fprintln(r.out, r.styles.Header.Render(title))
	}
}

// Println prints a plain line in text and markdown modes.
func (r *Renderer) Println(line string) {
	if r.EffectiveMode() == ModeJSON {
		return
	}
	_, _ = fmt.Fprintln(r.out, line)
}

// Table renders rows under headers.
func (r *Renderer) Table(headers []string, rows [][]string) {
	if r.EffectiveMode() == ModeJSON {
		return
	}
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(r.out, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
		_, _ = fmt.Fprintln(r.out)
		return
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Success prints a confirmation to stderr.
func (r *Renderer) Success(msg string) {
	r.status(r.styles.Success, "✓", msg)
}

// Warning prints a warning to stderr.
func (r *Renderer) Warning(msg string) {
	r.status(r.styles.Warning, "!", msg)
}

// Error prints an error to stderr.
func (r *Renderer) Error(msg string) {
	r.status(r.styles.Error, "✗", msg)
}

func (r *Renderer) status(style lipgloss.Style, mark, msg string) {
	if r.EffectiveMode() == ModeText {
		_, _ = fmt.Fprintln(r.errOut, style.Render(mark+" "+msg))
		return
	}
	_, _ = fmt.Fprintf(r.errOut, "%s %s\n", mark, msg)
}

package common

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/leapstack-labs/bomscope/internal/simexplorer"
	"github.com/leapstack-labs/bomscope/internal/workspace"
	"github.com/leapstack-labs/bomscope/pkg/core"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var funcs = template.FuncMap{
	"add":        func(a, b int) int { return a + b },
	"types":      core.AllBomTypes,
	"sizes":      func() []int { return simexplorer.PageSizes },
	"maxCompare": func() int { return simexplorer.MaxCompare },
}

var appTemplate = template.Must(template.New("app.gohtml").Funcs(funcs).ParseFS(templateFS, "templates/*.gohtml"))

// RenderApp renders the #app fragment for a snapshot.
func RenderApp(v workspace.View) (string, error) {
	var buf bytes.Buffer
	if err := appTemplate.ExecuteTemplate(&buf, "app.gohtml", v); err != nil {
		return "", fmt.Errorf("failed to render app: %w", err)
	}
	return buf.String(), nil
}

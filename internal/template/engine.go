// Package template renders the argv and unit-file templates used to expand
// a service Definition's command lines and platform unit files against a
// per-instance variable context (port, dataDir, dbUsername, ...).
package template

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Engine renders {{ .var }} / sprig expressions against a variable context.
type Engine struct{}

// New creates a template engine.
func New() *Engine {
	return &Engine{}
}

// Render executes templateStr as a Go template with Sprig's function map
// against vars, erroring on any variable the context doesn't supply.
func (e *Engine) Render(templateStr string, vars map[string]interface{}) (string, error) {
	tmpl, err := template.New("launchpad").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("invalid template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return buf.String(), nil
}

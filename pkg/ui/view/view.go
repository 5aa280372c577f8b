// Package view holds the templates and view models shared by the terminal
// and text renderers.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/arthur-debert/envup/pkg/manifest"
	"github.com/arthur-debert/envup/pkg/types"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = template.Must(template.New("view").Funcs(template.FuncMap{
	"capitalize": capitalize,
	"join":       strings.Join,
	"seconds":    func(s float64) string { return fmt.Sprintf("%.1fs", s) },
}).ParseFS(templatesFS, "templates/*.tmpl"))

// Execute renders data with the template for its type. The output still
// carries style tags; callers expand or strip them.
func Execute(data interface{}) (string, error) {
	name, value := templateFor(data)

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, value); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Message renders a plain message
func Message(msg string) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "message.tmpl", msg); err != nil {
		return "", fmt.Errorf("failed to execute template message.tmpl: %w", err)
	}
	return buf.String(), nil
}

func templateFor(data interface{}) (string, interface{}) {
	switch v := data.(type) {
	case *types.ProvisionResult:
		return "result.tmpl", v
	case types.ProvisionResult:
		return "result.tmpl", &v
	case *manifest.Summary:
		return "summary.tmpl", v
	case types.ExecutableReference:
		return "executable.tmpl", v
	case *types.ExecutableReference:
		return "executable.tmpl", *v
	case *types.EnvironmentStatus:
		return "status.tmpl", v
	case types.EnvironmentStatus:
		return "status.tmpl", &v
	case *ErrorView:
		return "error.tmpl", v
	default:
		return "message.tmpl", fmt.Sprintf("%+v", data)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Package terminal renders styled output for color terminals
package terminal

import (
	"fmt"
	"io"

	"github.com/arthur-debert/envup/pkg/logging"
	"github.com/arthur-debert/envup/pkg/ui/lipbalm"
	"github.com/arthur-debert/envup/pkg/ui/styles"
	"github.com/arthur-debert/envup/pkg/ui/view"
	"github.com/charmbracelet/lipgloss"
)

// Renderer expands view templates with lipgloss styles
type Renderer struct {
	output io.Writer
}

// New creates a terminal renderer. The color profile is detected from w.
func New(w io.Writer) (*Renderer, error) {
	renderer := lipgloss.NewRenderer(w)
	lipbalm.SetDefaultRenderer(renderer)

	logger := logging.GetLogger("ui.terminal")
	logger.Debug().
		Str("colorProfile", fmt.Sprintf("%v", renderer.ColorProfile())).
		Msg("Terminal renderer created")

	return &Renderer{output: w}, nil
}

// RenderResult renders a result with its view template
func (r *Renderer) RenderResult(result interface{}) error {
	out, err := view.Execute(result)
	if err != nil {
		return err
	}
	return r.write(out)
}

// RenderError renders an error with its code and details
func (r *Renderer) RenderError(err error) error {
	out, execErr := view.Execute(view.NewErrorView(err))
	if execErr != nil {
		return execErr
	}
	return r.write(out)
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	out, err := view.Message(msg)
	if err != nil {
		return err
	}
	return r.write(out)
}

func (r *Renderer) write(tagged string) error {
	out, err := lipbalm.ExpandTags(tagged, styles.Registry)
	if err != nil {
		return fmt.Errorf("failed to expand tags: %w", err)
	}
	_, err = io.WriteString(r.output, out)
	return err
}

// Package text renders plain output without styling
package text

import (
	"io"

	"github.com/arthur-debert/envup/pkg/ui/lipbalm"
	"github.com/arthur-debert/envup/pkg/ui/view"
)

// Renderer strips style tags from the view templates
type Renderer struct {
	output io.Writer
}

// New creates a text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders a result as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	out, err := view.Execute(result)
	if err != nil {
		return err
	}
	return r.write(out)
}

// RenderError renders an error as plain text
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
	_, err := io.WriteString(r.output, lipbalm.StripTags(tagged))
	return err
}

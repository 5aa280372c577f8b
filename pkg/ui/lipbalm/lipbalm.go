package lipbalm

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/beevik/etree"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// StyleMap maps tag names to styles
type StyleMap map[string]lipgloss.Style

// noFormatTag content is only shown without color support
const noFormatTag = "no-format"

var defaultRenderer = lipgloss.DefaultRenderer()

// SetDefaultRenderer sets the renderer whose color profile decides whether
// styles are applied.
func SetDefaultRenderer(r *lipgloss.Renderer) {
	defaultRenderer = r
}

// Render executes tmpl with data and expands the style tags in the result
func Render(tmpl string, data interface{}, styles StyleMap) (string, error) {
	t, err := template.New("lipbalm").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return ExpandTags(buf.String(), styles)
}

// ExpandTags replaces style tags with styled text
func ExpandTags(input string, styles StyleMap) (string, error) {
	if input == "" {
		return "", nil
	}

	root, ok := parse(input)
	if !ok {
		return input, nil
	}

	colored := defaultRenderer.ColorProfile() != termenv.Ascii

	var sb strings.Builder
	expand(&sb, root, styles, colored)
	return sb.String(), nil
}

// StripTags removes all tags, keeping their text
func StripTags(input string) string {
	if input == "" {
		return ""
	}

	root, ok := parse(input)
	if !ok {
		return input
	}

	var sb strings.Builder
	strip(&sb, root)
	return sb.String()
}

// parse wraps input in a root element so mixed text and tags form a document
func parse(input string) (*etree.Element, bool) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString("<lipbalm>" + input + "</lipbalm>"); err != nil {
		return nil, false
	}
	root := doc.Root()
	return root, root != nil
}

func expand(sb *strings.Builder, el *etree.Element, styles StyleMap, colored bool) {
	for _, child := range el.Child {
		switch node := child.(type) {
		case *etree.CharData:
			sb.WriteString(node.Data)
		case *etree.Element:
			if node.Tag == noFormatTag {
				if !colored {
					expand(sb, node, styles, colored)
				}
				continue
			}

			var inner strings.Builder
			expand(&inner, node, styles, colored)

			style, known := styles[node.Tag]
			if known && colored {
				sb.WriteString(style.Render(inner.String()))
			} else {
				sb.WriteString(inner.String())
			}
		}
	}
}

func strip(sb *strings.Builder, el *etree.Element) {
	for _, child := range el.Child {
		switch node := child.(type) {
		case *etree.CharData:
			sb.WriteString(node.Data)
		case *etree.Element:
			strip(sb, node)
		}
	}
}

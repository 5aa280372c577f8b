package styles_test

import (
	"testing"

	"github.com/arthur-debert/envup/pkg/ui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryHasTemplateStyles(t *testing.T) {
	for _, name := range []string{
		"Header", "Env", "Label", "Path", "Code", "Muted", "MutedItalic",
		"Success", "Error", "Warning", "DryRun", "Item",
	} {
		t.Run(name, func(t *testing.T) {
			_, ok := styles.Registry[name]
			assert.True(t, ok, "style %s missing", name)
		})
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
colors:
  accent:
    light: "#000000"
    dark: "#FFFFFF"
styles:
  Title:
    bold: true
    foreground: accent
  Wide:
    width: 10
  Unknown:
    foreground: nope
`)

	registry, err := styles.Parse(data)
	require.NoError(t, err)
	require.Len(t, registry, 3)

	assert.True(t, registry["Title"].GetBold())
	assert.Equal(t, lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}, registry["Title"].GetForeground())
	assert.Equal(t, 10, registry["Wide"].GetWidth())
	assert.Equal(t, lipgloss.NoColor{}, registry["Unknown"].GetForeground())
}

func TestParseInvalid(t *testing.T) {
	_, err := styles.Parse([]byte("styles: [unclosed"))
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	assert.True(t, styles.Get("Header").GetBold())
	assert.False(t, styles.Get("DoesNotExist").GetBold())
}

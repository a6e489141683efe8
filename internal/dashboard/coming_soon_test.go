package dashboard

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComingSoon_Defaults(t *testing.T) {
	c := ComingSoon{Title: "Reports"}.WithDefaults()

	assert.Equal(t, DefaultComingSoonDescription, c.Description)
	assert.Equal(t, IconConstruction, c.Icon)
}

func TestComingSoon_RenderDefaultIcon(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ComingSoon{Title: "Reports"}.Render(&buf, newRenderer(t)))

	assert.True(t, findAttr(t, buf.String(), "data-icon", IconConstruction))
	text := textContent(t, buf.String())
	assert.Contains(t, text, "Reports")
	assert.Contains(t, text, DefaultComingSoonDescription)
}

func TestComingSoon_MarkdownDescription(t *testing.T) {
	var buf bytes.Buffer
	c := ComingSoon{
		Title:       "Docs",
		Description: "Read the **guide**. <script>alert(1)</script>",
	}
	require.NoError(t, c.Render(&buf, newRenderer(t)))

	assert.Contains(t, buf.String(), "<strong>guide</strong>")
	assert.NotContains(t, buf.String(), "<script>")
}

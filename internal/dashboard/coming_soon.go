package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
)

const (
	// DefaultComingSoonDescription is shown when a placeholder page sets none.
	DefaultComingSoonDescription = "This feature is currently under development. Stay tuned!"

	IconConstruction = "construction"
	IconHelpCircle   = "help-circle"
)

// markdown renders placeholder descriptions. Raw HTML in the source is
// dropped by goldmark's default renderer.
var markdown = goldmark.New()

// ComingSoon is a placeholder card for sections that are not built yet.
// It needs no holdings provider.
type ComingSoon struct {
	Title       string
	Description string
	Icon        string
}

type comingSoonData struct {
	Title       string
	Description template.HTML
	Icon        string
}

// WithDefaults fills in the default description and icon.
func (c ComingSoon) WithDefaults() ComingSoon {
	if c.Description == "" {
		c.Description = DefaultComingSoonDescription
	}
	if c.Icon == "" {
		c.Icon = IconConstruction
	}
	return c
}

// Render writes the placeholder card.
func (c ComingSoon) Render(w io.Writer, r *Renderer) error {
	c = c.WithDefaults()

	var desc bytes.Buffer
	if err := markdown.Convert([]byte(c.Description), &desc); err != nil {
		return fmt.Errorf("failed to render description: %w", err)
	}
	return r.Fragment(w, "coming_soon", comingSoonData{
		Title:       c.Title,
		Description: template.HTML(desc.String()),
		Icon:        c.Icon,
	})
}

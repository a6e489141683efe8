package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/aetherwealth/aether/internal/auth"
)

// Renderer executes the embedded HTML templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses every templates/*.html file in files.
func NewRenderer(files fs.FS) (*Renderer, error) {
	tmpl, err := template.New("").ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	for _, name := range []string{"shell", "asset_page", "coming_soon", "landing", "overview", "icon"} {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("template %q is missing", name)
		}
	}
	return &Renderer{templates: tmpl}, nil
}

// Fragment renders a named page body.
func (r *Renderer) Fragment(w io.Writer, name string, data any) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

type navItem struct {
	Key   string
	Label string
	Href  string
}

var navigation = []navItem{
	{Key: "overview", Label: "Overview", Href: "/dashboard"},
	{Key: "shares", Label: "Shares", Href: "/dashboard/shares"},
	{Key: "bonds", Label: "Bonds", Href: "/dashboard/bonds"},
	{Key: "crypto", Label: "Crypto", Href: "/dashboard/crypto"},
	{Key: "help", Label: "Help", Href: "/dashboard/help"},
}

// Shell is the page chrome around a rendered fragment.
type Shell struct {
	Title   string
	Active  string
	User    *auth.User
	DevMode bool
	Bare    bool
	Nav     []navItem
	Content template.HTML
}

// Page renders fragment name into the shell and writes it with status.
// Nothing is written when rendering fails.
func (r *Renderer) Page(w http.ResponseWriter, status int, shell Shell, name string, data any) error {
	var body bytes.Buffer
	if err := r.Fragment(&body, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return r.write(w, status, shell, template.HTML(body.String()))
}

func (r *Renderer) write(w http.ResponseWriter, status int, shell Shell, content template.HTML) error {
	shell.Content = content
	if !shell.Bare {
		shell.Nav = navigation
	}

	var page bytes.Buffer
	if err := r.templates.ExecuteTemplate(&page, "shell", shell); err != nil {
		return fmt.Errorf("failed to render page shell: %w", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := page.WriteTo(w)
	return err
}

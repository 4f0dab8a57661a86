// Package render draws the server-side pages. Handlers treat it as an
// opaque boundary: they hand over a page name and data and never touch
// markup.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"campgrounds/internal/domain"
	"campgrounds/internal/observability"
)

//go:embed templates
var templateFS embed.FS

// Page carries everything a rendered page can use. Success and Error are
// the one-shot flash messages popped for this render; CSRFToken goes
// into every form as a hidden field.
type Page struct {
	Title       string
	CurrentUser *domain.User
	Success     string
	Error       string
	CSRFToken   string
	Content     any
}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the embedded templates. Every page is parsed together with
// the shared layout.
func New() (*Renderer, error) {
	layout, err := templateFS.ReadFile("templates/layout.gohtml")
	if err != nil {
		return nil, fmt.Errorf("failed to read layout template: %w", err)
	}

	pages := make(map[string]*template.Template)
	err = fs.WalkDir(templateFS, "templates/pages", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		name := strings.TrimSuffix(strings.TrimPrefix(p, "templates/pages/"), path.Ext(p))
		tmpl, err := template.New("layout").Parse(string(layout))
		if err != nil {
			return fmt.Errorf("failed to parse layout: %w", err)
		}
		content, err := templateFS.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", p, err)
		}
		if _, err := tmpl.Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", p, err)
		}
		pages[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Renderer{pages: pages}, nil
}

// Render writes a page. The template executes into a buffer first so a
// broken template never leaks half a page to the client.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	tmpl, ok := rn.pages[name]
	if !ok {
		observability.FromContext(r.Context()).Error("unknown template", "name", name)
		http.Error(w, "Something Went Wrong", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		observability.FromContext(r.Context()).Error("template execution failed",
			"name", name, "error", err.Error())
		http.Error(w, "Something Went Wrong", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultTemplate is the fallback used whenever a resume names a template
// outside the allow-list. It is itself a member of the allow-list, so the
// fallback is always renderable.
const DefaultTemplate = "classic"

// allowedTemplates is the curated set of viewable template names. Every
// rendering entry point checks it; there is no file-existence-only path.
var allowedTemplates = []string{"creative", "modern", "classic", "elegant", "sleek", "mini"}

// ErrUnknownTemplate is returned by RenderPreview for names outside the
// allow-list.
var ErrUnknownTemplate = errors.New("unknown template")

// Data carries the resume fields substituted into a template. Rendering is
// pure substitution; no business logic lives here.
type Data struct {
	Name       string
	Email      string
	Phone      string
	Address    string
	Education  string
	Experience string
	Skills     string
	About      string
}

// Renderer holds the parsed template set.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses the embedded template set once at startup.
func NewRenderer() (*Renderer, error) {
	templates := make(map[string]*template.Template, len(allowedTemplates))
	for _, name := range allowedTemplates {
		tmpl, err := template.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %q: %w", name, err)
		}
		templates[name] = tmpl
	}
	return &Renderer{templates: templates}, nil
}

// IsAllowed reports whether name is in the template allow-list.
func (r *Renderer) IsAllowed(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Render substitutes data into the named template. Names outside the
// allow-list fall back to DefaultTemplate deterministically.
func (r *Renderer) Render(name string, data Data) ([]byte, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		tmpl = r.templates[DefaultTemplate]
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render template %q: %w", name, err)
	}
	return buf.Bytes(), nil
}

// RenderPreview renders the named template with placeholder data for the
// template gallery. Unknown names yield ErrUnknownTemplate, never content.
func (r *Renderer) RenderPreview(name string) ([]byte, error) {
	if !r.IsAllowed(name) {
		return nil, ErrUnknownTemplate
	}
	return r.Render(name, previewData)
}

// AllowedTemplates returns a copy of the allow-list for display purposes.
func AllowedTemplates() []string {
	out := make([]string, len(allowedTemplates))
	copy(out, allowedTemplates)
	return out
}

var previewData = Data{
	Name:       "Jordan Example",
	Email:      "jordan@example.com",
	Phone:      "555-0123",
	Address:    "42 Sample Street, Springfield",
	Education:  "B.Sc. Computer Science, Springfield University, 2020",
	Experience: "Software Engineer, Example Corp, 2020 - present",
	Skills:     "Go, SQL, HTML, CSS",
	About:      "This is a preview of the template with placeholder content.",
}

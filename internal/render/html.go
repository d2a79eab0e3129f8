// Package render turns a resume into a standalone HTML page.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Theme is the per-template styling. Layout is shared.
type Theme struct {
	Font     template.CSS
	Accent   template.CSS
	Centered bool
	Pills    bool
}

var themes = map[string]Theme{
	"modern":       {Font: "'Helvetica Neue', Arial, sans-serif", Accent: "#2563eb", Pills: true},
	"ats":          {Font: "Arial, sans-serif", Accent: "#000000"},
	"creative":     {Font: "'Trebuchet MS', sans-serif", Accent: "#9333ea", Centered: true, Pills: true},
	"executive":    {Font: "Georgia, 'Times New Roman', serif", Accent: "#1f2937", Centered: true},
	"professional": {Font: "'Times New Roman', serif", Accent: "#1e3a8a"},
}

// ThemeFor returns the theme of a template id, falling back to modern.
func ThemeFor(template string) Theme {
	if t, ok := themes[strings.ToLower(strings.TrimSpace(template))]; ok {
		return t
	}
	return themes[models.DefaultGenerationTemplate]
}

var page = template.Must(template.New("resume.html.tmpl").Funcs(template.FuncMap{
	"join":  strings.Join,
	"lines": splitLines,
}).ParseFS(templateFS, "templates/resume.html.tmpl"))

// splitLines turns a responsibility block into bullet items, dropping list markers.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-•*"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// HTML renders r with the theme of template.
func HTML(r models.Resume, template string) ([]byte, error) {
	r.EnsureDefaults()
	var buf bytes.Buffer
	if err := page.Execute(&buf, struct {
		Resume models.Resume
		Theme  Theme
	}{Resume: r, Theme: ThemeFor(template)}); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

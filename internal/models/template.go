package models

import "strings"

// Templates accepted by the generation call. The backend tunes tone per template.
var GenerationTemplates = []string{"modern", "ats", "creative", "executive"}

// Templates accepted by the LaTeX generation call.
var LatexTemplates = []string{"professional", "modern", "ats", "creative"}

const (
	DefaultGenerationTemplate = "modern"
	DefaultLatexTemplate      = "professional"
)

// NormalizeTemplate lower-cases t and reports whether it is one of allowed.
// An empty t is replaced by def.
func NormalizeTemplate(t, def string, allowed []string) (string, bool) {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		t = def
	}
	for _, a := range allowed {
		if a == t {
			return t, true
		}
	}
	return t, false
}

package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ExportFileName builds a download name from the candidate's full name: whitespace
// runs become "_", diacritics are folded and path separators dropped. An empty name
// yields "resume".
func ExportFileName(fullName, ext string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, fullName)
	if err != nil {
		folded = fullName
	}

	base := strings.Join(strings.Fields(folded), "_")
	base = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, base)
	if base == "" {
		base = "resume"
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return base + ext
}

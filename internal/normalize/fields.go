package normalize

import (
	"strings"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
)

// pick returns the first non-nil value among keys.
func pick(m map[string]any, keys ...string) any {
	if m == nil {
		return nil
	}
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func str(m map[string]any, keys ...string) string {
	v := pick(m, keys...)
	switch t := v.(type) {
	case nil:
		return ""
	case []any:
		// responsibilities often arrive as bullet arrays
		return strings.Join(models.ToStringList(t), "\n")
	default:
		return strings.TrimSpace(models.Stringify(t))
	}
}

func obj(m map[string]any, keys ...string) map[string]any {
	return asObject(pick(m, keys...))
}

// items returns the list under keys. A comma-separated string becomes a list of
// strings and a single object becomes a one-element list.
func items(m map[string]any, keys ...string) []any {
	switch t := pick(m, keys...).(type) {
	case []any:
		return t
	case string:
		out := []any{}
		for _, s := range models.SplitCommaList(t) {
			out = append(out, s)
		}
		return out
	case map[string]any:
		return []any{t}
	default:
		return nil
	}
}

// text renders a list element as a single line. Objects use their most
// descriptive field.
func text(v any, keys ...string) string {
	if m, ok := v.(map[string]any); ok {
		if s := str(m, keys...); s != "" {
			return s
		}
	}
	return strings.TrimSpace(models.Stringify(v))
}

// textList converts v into display strings without splitting sentences on commas.
func textList(v any, keys ...string) []string {
	out := []string{}
	switch t := v.(type) {
	case nil:
	case []any:
		for _, item := range t {
			if s := text(item, keys...); s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := text(t, keys...); s != "" {
			out = append(out, s)
		}
	}
	return out
}

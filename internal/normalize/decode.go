// Package normalize turns the loosely shaped JSON produced by the generation and
// scoring endpoints into canonical models.
//
// Decoding runs in stages: string layers are peeled (the backend and older clients
// double-encode), the value must then be an object, envelopes are unwrapped, and
// finally fields are mapped with their naming variants. A failed stage returns a
// *DecodeError together with an empty, fully initialized value.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Stage string

const (
	StageString   Stage = "string"
	StageShape    Stage = "shape"
	StageEnvelope Stage = "envelope"
)

const (
	maxStringLayers  = 3
	maxEnvelopeDepth = 4
)

type DecodeError struct {
	Stage Stage
	Err   error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode %s: %v", e.Stage, e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }

// Value parses raw JSON and peels up to three string layers, so `"{\"a\":1}"`
// yields the object. Markdown code fences around the JSON are tolerated.
func Value(raw []byte) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		// text/plain bodies: fenced or prefixed JSON
		cleaned := cleanFence(string(raw))
		if err2 := json.Unmarshal([]byte(cleaned), &v); err2 != nil {
			return nil, &DecodeError{Stage: StageString, Err: err}
		}
	}
	return peel(v)
}

func peel(v any) (any, error) {
	for i := 0; i < maxStringLayers; i++ {
		s, ok := v.(string)
		if !ok {
			return v, nil
		}
		var next any
		if err := json.Unmarshal([]byte(cleanFence(s)), &next); err != nil {
			return nil, &DecodeError{Stage: StageString, Err: err}
		}
		v = next
	}
	if _, ok := v.(string); ok {
		return nil, &DecodeError{Stage: StageString, Err: errors.New("too many string layers")}
	}
	return v, nil
}

// cleanFence strips ```json fences and any prose around a JSON object.
func cleanFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))

	if s == "" || strings.ContainsRune(`{["`, rune(s[0])) {
		return s
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start != -1 && end > start {
		return s[start : end+1]
	}
	return s
}

// asObject returns v as an object, decoding it first when it is an encoded string.
func asObject(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case string:
		inner, err := peel(t)
		if err != nil {
			return nil
		}
		m, _ := inner.(map[string]any)
		return m
	default:
		return nil
	}
}

// preferredEnvelopeKeys are tried first when searching an envelope; the rest are
// visited in sorted order so the result does not depend on map iteration.
var preferredEnvelopeKeys = []string{"data", "resume", "result", "response", "payload", "content"}

func envelopeKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	seen := map[string]bool{}
	for _, k := range preferredEnvelopeKeys {
		if _, ok := obj[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	rest := make([]string, 0, len(obj))
	for k := range obj {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// unwrap descends through envelopes until looks(obj) holds. An object that is not
// recognizable and has no recognizable child is returned as is.
func unwrap(obj map[string]any, looks func(map[string]any) bool) (map[string]any, error) {
	for depth := 0; depth < maxEnvelopeDepth; depth++ {
		if looks(obj) {
			return obj, nil
		}
		if msg, failed := errorEnvelope(obj); failed {
			return nil, &DecodeError{Stage: StageEnvelope, Err: errors.New(msg)}
		}

		var next map[string]any
		if len(obj) == 1 {
			for _, v := range obj {
				next = asObject(v)
			}
		}
		if next == nil {
			for _, k := range envelopeKeys(obj) {
				if m := asObject(obj[k]); m != nil && looks(m) {
					next = m
					break
				}
			}
		}
		if next == nil {
			return obj, nil
		}
		obj = next
	}
	return obj, nil
}

// errorEnvelope recognizes the backend's failure shapes: {error, message} and
// {think, data: null}.
func errorEnvelope(obj map[string]any) (string, bool) {
	data, hasData := obj["data"]
	_, hasError := obj["error"]
	if !hasError && !(hasData && data == nil) {
		return "", false
	}
	for _, k := range []string{"message", "error"} {
		if s := strings.TrimSpace(str(obj, k)); s != "" {
			return s, true
		}
	}
	return "response carried no data", true
}

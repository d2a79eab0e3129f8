// Package ats interprets the scores returned by the ATS endpoint.
package ats

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	fractionRe = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*/\s*(\d+(?:\.\d+)?)`)
	numberRe   = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

// Percent converts a backend score into an integer between 0 and 100.
// Numbers are taken as percentages, "72%" as 72 and "7/10" as 70. Anything that
// holds no number yields nil, which callers show as "no data" rather than zero.
func Percent(v any) *int {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		return clamp(t)
	case float32:
		return clamp(float64(t))
	case int:
		return clamp(float64(t))
	case int64:
		return clamp(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil
		}
		return clamp(f)
	case string:
		return parseString(t)
	default:
		return nil
	}
}

func parseString(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if m := fractionRe.FindStringSubmatch(s); m != nil {
		num, err1 := strconv.ParseFloat(m[1], 64)
		den, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil || den == 0 {
			return nil
		}
		return clamp(num / den * 100)
	}

	m := numberRe.FindString(s)
	if m == "" {
		return nil
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return clamp(f)
}

func clamp(f float64) *int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(math.Round(f))
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	return &n
}

package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString decodes from a JSON string, number or bool. Backends disagree on
// whether years and ids are numbers.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = FlexString(Stringify(v))
	return nil
}

func (f FlexString) String() string { return string(f) }

// StringList is a list of strings that also decodes from a comma-separated string.
// It always encodes as a JSON array.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = StringList{}
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*l = ToStringList(v)
	return nil
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Join renders the list the way the edit form shows it.
func (l StringList) Join() string { return strings.Join(l, ", ") }

// SplitCommaList splits "Go, Docker ,, SQL" into trimmed non-empty items.
func SplitCommaList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ToStringList converts a decoded JSON value into a list of strings.
func ToStringList(v any) StringList {
	switch t := v.(type) {
	case nil:
		return StringList{}
	case string:
		return StringList(SplitCommaList(t))
	case []any:
		out := make(StringList, 0, len(t))
		for _, item := range t {
			if s := strings.TrimSpace(Stringify(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := strings.TrimSpace(Stringify(t)); s != "" {
			return StringList{s}
		}
		return StringList{}
	}
}

// Stringify renders a decoded JSON scalar as text. Integral floats lose their
// fraction ("2021", not "2021.000000").
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

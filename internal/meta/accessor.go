// Package meta normalizes documentation frontmatter written in the legacy flat
// schema or the v2 nested schema into one canonical record.
//
// Records are plain decoded mappings. Nothing is assumed about the presence or
// type of any key: every read goes through Get and the coercion helpers below.
package meta

import (
	"fmt"
	"strings"
	"time"
)

// Record is a decoded frontmatter mapping, raw or canonical.
type Record = map[string]any

// AsRecord reports whether v is a mapping and returns it with string keys.
// Mappings decoded with non-string keys are copied with their keys formatted.
func AsRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(Record, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

// Get walks rec one path segment at a time and returns def the moment a
// segment is missing or the current value is not a record.
func Get(rec Record, def any, path ...string) any {
	var cur any = rec
	for _, key := range path {
		m, ok := AsRecord(cur)
		if !ok {
			return def
		}
		v, ok := m[key]
		if !ok {
			return def
		}
		cur = v
	}
	return cur
}

// GetRecord returns the record at path, or nil.
func GetRecord(rec Record, path ...string) Record {
	m, _ := AsRecord(Get(rec, nil, path...))
	return m
}

// GetString returns the value at path rendered as text, or "".
func GetString(rec Record, path ...string) string {
	return Text(Get(rec, nil, path...))
}

// AsList coerces v to a list: lists are returned as-is, any other non-nil
// value becomes a singleton list.
func AsList(v any) []any {
	switch l := v.(type) {
	case nil:
		return nil
	case []any:
		return l
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out
	}
	return []any{v}
}

// IsList reports whether v is a decoded sequence.
func IsList(v any) bool {
	switch v.(type) {
	case []any, []string:
		return true
	}
	return false
}

// Text renders a scalar as text. Lists are joined with ", ".
// Records render as "".
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any, []string:
		items := AsList(t)
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, Text(item))
		}
		return strings.Join(parts, ", ")
	}
	if _, ok := AsRecord(v); ok {
		return ""
	}
	return fmt.Sprint(v)
}

// Truthy reports whether v counts as present. nil, false, zero numbers,
// empty strings, empty lists and empty records are all treated as absent.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int8:
		return t != 0
	case int16:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case uint:
		return t != 0
	case uint8:
		return t != 0
	case uint16:
		return t != 0
	case uint32:
		return t != 0
	case uint64:
		return t != 0
	case float32:
		return t != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case map[any]any:
		return len(t) > 0
	}
	return true
}

// Plain returns a deep copy of v in which every mapping has string keys and
// every sequence is []any. Times become text: a bare date for midnight UTC,
// RFC 3339 otherwise.
func Plain(v any) any {
	if t, ok := v.(time.Time); ok {
		return timeText(t)
	}
	if m, ok := AsRecord(v); ok {
		out := make(Record, len(m))
		for k, val := range m {
			out[k] = Plain(val)
		}
		return out
	}
	if IsList(v) {
		items := AsList(v)
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = Plain(item)
		}
		return out
	}
	return v
}

func timeText(t time.Time) string {
	_, offset := t.Zone()
	if offset == 0 && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339Nano)
}

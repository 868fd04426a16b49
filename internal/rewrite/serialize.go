package rewrite

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sarahyurick/Curator/internal/meta"
)

// FieldOrder is the order of top-level canonical keys. Unknown keys follow
// in source order, or sorted when the source order is not known.
var FieldOrder = []string{
	"title", "description", "social", "topics", "tags",
	"content", "facets", "status", "dates", "only",
}

// Sub-key order inside known records, keyed by the parent key.
var subKeyOrder = map[string][]string{
	"title":   {"page", "nav", "social"},
	"content": {"type", "difficulty", "audience"},
	"social":  {"description", "image"},
	"dates":   {"last_updated", "last_reviewed"},
	"facets":  {"modality"},
	"cascade": {"product"},
	"product": {"name", "version"},
}

const (
	maxPlainLen  = 80
	specialChars = ":#[]{},&*!|>'\"%@`"
	leadChars    = "-?: "
)

// Serialize renders a canonical record as a YAML fragment, without
// delimiters. Output is deterministic: keys follow FieldOrder and the
// known sub-key orders, lists render inline, and strings are quoted
// whenever a plain scalar would not read back as the same string.
func Serialize(rec meta.Record) string {
	return SerializeOrdered(rec, nil)
}

// SerializeOrdered is Serialize with unknown keys kept in the source order
// recorded by Extract.
func SerializeOrdered(rec meta.Record, order KeyOrder) string {
	var b strings.Builder
	for i, key := range orderedKeys(rec, FieldOrder, order[""]) {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeEntry(&b, key, key, rec[key], 0, order)
	}
	return b.String()
}

// orderedKeys lists the keys of rec: preferred first, then those in source,
// then the rest sorted.
func orderedKeys(rec meta.Record, preferred, source []string) []string {
	keys := make([]string, 0, len(rec))
	seen := make(map[string]bool, len(rec))
	for _, list := range [][]string{preferred, source} {
		for _, k := range list {
			if _, ok := rec[k]; ok && !seen[k] {
				keys = append(keys, k)
				seen[k] = true
			}
		}
	}
	var rest []string
	for k := range rec {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func writeEntry(b *strings.Builder, path, key string, v any, depth int, order KeyOrder) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(formatString(key))
	b.WriteByte(':')

	if m, ok := meta.AsRecord(v); ok {
		if len(m) == 0 {
			b.WriteString(" {}")
			return
		}
		for _, sub := range orderedKeys(m, subKeyOrder[key], order[path]) {
			b.WriteByte('\n')
			writeEntry(b, path+"."+sub, sub, m[sub], depth+1, order)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(formatValue(v))
}

func formatValue(v any) string {
	if meta.IsList(v) {
		items := meta.AsList(v)
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = formatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	if m, ok := meta.AsRecord(v); ok {
		keys := orderedKeys(m, nil, nil)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = formatString(k) + ": " + formatValue(m[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return formatScalar(v)
}

func formatScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return formatString(t)
	case bool:
		return strconv.FormatBool(t)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(t)
	case float32:
		return formatFloat(float64(t))
	case float64:
		return formatFloat(t)
	}
	return formatString(fmt.Sprint(v))
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

func formatString(s string) string {
	if needsQuotes(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuotes(s string) bool {
	switch {
	case s == "":
		return true
	case strings.Contains(s, "\n"), utf8.RuneCountInString(s) > maxPlainLen:
		return true
	case strings.ContainsAny(s, specialChars):
		return true
	case strings.IndexByte(leadChars, s[0]) >= 0:
		return true
	}
	return !readsBackAsString(s)
}

// readsBackAsString reports whether s, written as a plain scalar, decodes to
// the identical string. Dates do, since Extract keeps timestamps as text.
func readsBackAsString(s string) bool {
	doc, _, err := decodeYAML([]byte("v: " + s))
	if err != nil {
		return false
	}
	rec, ok := meta.AsRecord(doc)
	if !ok {
		return false
	}
	got, ok := rec["v"].(string)
	return ok && got == s
}

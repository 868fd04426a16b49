// Package rewrite extracts YAML frontmatter from markdown documents and
// rewrites it in the canonical v2 schema with a deterministic layout.
package rewrite

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sarahyurick/Curator/internal/meta"
)

// ErrNotMapping is reported when the frontmatter block parses as YAML but is
// not a mapping.
var ErrNotMapping = errors.New("frontmatter is not a mapping")

// Closing delimiters, in the order they are tried. The two corrupted forms
// come first: a well-formed "\n---\n" can also be a horizontal rule further
// down the body.
var (
	closeBeforeParen = regexp.MustCompile(`\n---\(`)
	closeBeforeWord  = regexp.MustCompile(`\n---[#\p{L}\p{N}_]`)
	closeOnOwnLine   = regexp.MustCompile(`\n---\n`)
)

// Frontmatter is the result of Extract.
type Frontmatter struct {
	// Meta is nil when no block was found, the block was empty, or it
	// failed to parse.
	Meta meta.Record
	// Raw is the YAML text between the delimiters.
	Raw string
	// Body is everything after the closing delimiter.
	Body string
	// Order is the source order of the keys of every mapping in Meta.
	Order KeyOrder
	// Found reports whether both delimiters were located.
	Found bool
	// Err is set when the block could not be parsed.
	Err error
}

// Extract splits text into frontmatter and body. The document must start with
// a "---" line; a leading UTF-8 BOM is ignored. Extract never fails: parse
// errors are reported through Frontmatter.Err with Meta left nil.
func Extract(text string) Frontmatter {
	s := strings.TrimPrefix(text, "\ufeff")
	if !strings.HasPrefix(s, "---\n") {
		return Frontmatter{Body: text}
	}

	rest := s[3:]
	end, skip := -1, 0
	if loc := closeBeforeParen.FindStringIndex(rest); loc != nil {
		end, skip = loc[0]+3, 4
	} else if loc := closeBeforeWord.FindStringIndex(rest); loc != nil {
		end, skip = loc[0]+3, 4
	} else if loc := closeOnOwnLine.FindStringIndex(rest); loc != nil {
		end, skip = loc[0]+3, 5
	} else {
		return Frontmatter{Body: text}
	}

	fm := Frontmatter{Found: true, Body: s[end+skip:]}
	if end > 4 {
		fm.Raw = s[4:end]
	}

	doc, order, err := decodeYAML([]byte(fm.Raw))
	if err != nil {
		fm.Err = fmt.Errorf("cannot parse frontmatter YAML: %w", err)
		return fm
	}
	if doc == nil {
		return fm
	}
	rec, ok := meta.AsRecord(doc)
	if !ok {
		fm.Err = ErrNotMapping
		return fm
	}
	fm.Meta = meta.Plain(rec).(meta.Record)
	fm.Order = order
	return fm
}

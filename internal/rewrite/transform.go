package rewrite

import (
	"errors"

	"github.com/sarahyurick/Curator/internal/meta"
)

// ErrNoFrontmatter is reported when a document has no usable frontmatter block.
var ErrNoFrontmatter = errors.New("no frontmatter found")

// Status is the outcome of Transform for one document.
type Status int

const (
	Rewritten Status = iota
	SkippedNoFrontmatter
	SkippedMalformed
	SkippedAlreadyV2
	SkippedEmpty
)

func (s Status) String() string {
	switch s {
	case Rewritten:
		return "rewritten"
	case SkippedNoFrontmatter:
		return "no frontmatter"
	case SkippedMalformed:
		return "malformed frontmatter"
	case SkippedAlreadyV2:
		return "already v2"
	case SkippedEmpty:
		return "empty after transform"
	}
	return "unknown"
}

// Options controls Transform.
type Options struct {
	// Force rewrites documents already in the v2 schema, which reformats them.
	Force bool
	// CanonicalLabels maps legacy labels through CanonicalizeLabels first.
	CanonicalLabels bool
}

// Result is the outcome of Transform. Text and YAML are only set when
// Status is Rewritten.
type Result struct {
	Status Status
	Text   string
	YAML   string
	// Changed reports whether Text differs from the input.
	Changed bool
	Err     error
}

// Rewrite maps a raw frontmatter record to the canonical record.
func Rewrite(raw meta.Record) meta.Record {
	return meta.Normalize(raw)
}

// IsV2 reports whether raw already uses the nested schema: a content record
// carrying type or difficulty, and none of the legacy keys.
func IsV2(raw meta.Record) bool {
	content, ok := meta.AsRecord(raw["content"])
	if !ok {
		return false
	}
	_, hasType := content["type"]
	_, hasDifficulty := content["difficulty"]
	if !hasType && !hasDifficulty {
		return false
	}
	return !meta.HasLegacyKeys(raw)
}

// Transform rewrites the frontmatter of one markdown document in the
// canonical schema. The body is kept byte for byte.
func Transform(text string, opts Options) Result {
	fm := Extract(text)
	switch {
	case fm.Err != nil:
		return Result{Status: SkippedMalformed, Err: fm.Err}
	case !fm.Found || fm.Meta == nil:
		return Result{Status: SkippedNoFrontmatter, Err: ErrNoFrontmatter}
	case IsV2(fm.Meta) && !opts.Force:
		return Result{Status: SkippedAlreadyV2}
	}

	raw := fm.Meta
	if opts.CanonicalLabels {
		raw = CanonicalizeLabels(raw)
	}
	canonical := Rewrite(raw)
	if len(canonical) == 0 {
		return Result{Status: SkippedEmpty}
	}

	yml := SerializeOrdered(canonical, fm.Order)
	out := "---\n" + yml + "\n---\n" + fm.Body
	return Result{
		Status:  Rewritten,
		Text:    out,
		YAML:    yml,
		Changed: out != text,
	}
}

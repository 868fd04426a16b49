package rewrite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarahyurick/Curator/internal/meta"
)

func TestSerialize_Layout(t *testing.T) {
	rec := meta.Record{
		"facets":      meta.Record{"modality": "text-only"},
		"tags":        []any{"gpu"},
		"description": "How to install",
		"content": meta.Record{
			"audience":   []any{"Machine Learning Engineer"},
			"type":       "tutorial",
			"difficulty": "beginner",
		},
		"title":  meta.Record{"social": "Share me", "page": "Install Guide"},
		"topics": []any{"setup", "gpu"},
		"cascade": meta.Record{"product": meta.Record{
			"version": "25.09",
			"name":    "NeMo Curator",
		}},
	}

	want := strings.Join([]string{
		"title:",
		"  page: Install Guide",
		"  social: Share me",
		"description: How to install",
		"topics: [setup, gpu]",
		"tags: [gpu]",
		"content:",
		"  type: tutorial",
		"  difficulty: beginner",
		"  audience: [Machine Learning Engineer]",
		"facets:",
		"  modality: text-only",
		"cascade:",
		"  product:",
		"    name: NeMo Curator",
		`    version: "25.09"`,
	}, "\n")
	assert.Equal(t, want, Serialize(rec))
}

func TestSerialize_UnknownKeysSorted(t *testing.T) {
	rec := meta.Record{"zeta": "z", "alpha": "a", "only": "html", "status": "draft"}
	assert.Equal(t, "status: draft\nonly: html\nalpha: a\nzeta: z", Serialize(rec))
}

func TestSerialize_Quoting(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"plain words", "plain words"},
		{"2024-05-01", "2024-05-01"},
		{"a: b", `"a: b"`},
		{"C# tips", `"C# tips"`},
		{`say "hi"`, `"say \"hi\""`},
		{"-leading dash", `"-leading dash"`},
		{" leading space", `" leading space"`},
		{"two\nlines", `"two\nlines"`},
		{"true", `"true"`},
		{"null", `"null"`},
		{"123", `"123"`},
		{"", `""`},
		{strings.Repeat("x", 81), `"` + strings.Repeat("x", 81) + `"`},
		{strings.Repeat("x", 80), strings.Repeat("x", 80)},
		{true, "true"},
		{3, "3"},
		{2.0, "2.0"},
		{1.5, "1.5"},
		{[]any{"a,b", "plain", "x]"}, `["a,b", plain, "x]"]`},
		{[]any{}, "[]"},
	}
	for _, c := range cases {
		got := Serialize(meta.Record{"description": c.in})
		assert.Equal(t, "description: "+c.want, got, "value %#v", c.in)
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	inputs := []string{
		"title: Install Guide\ncategories: [setup]\npersonas: [mle-focused]\ndifficulty: beginner\ncontent_type: tutorial\nmodality: text-only\n",
		"description: \"Colons: here, #hash and 'quotes'\"\ntags: [\"a,b\", \"x: y\", yes, \"123\"]\n",
		"title:\n  page: \"true\"\n  nav: Short\nstatus: draft\nonly: not html\n",
		"dates:\n  last_updated: 2024-05-01\n  last_reviewed: \"2024-06-01\"\ncascade:\n  product:\n    name: NeMo Curator\n    version: \"25.09\"\n",
		"description: \"multi\\nline \\\"text\\\" with a tab\\tinside\"\nsocial:\n  image: /img/a.png\n  description: Größe über 80 Zeichen\n",
		"topics: [1, 2.5, true]\ncontent:\n  audience: [{name: x, level: 2}]\n",
	}
	for _, src := range inputs {
		fm := Extract("---\n" + src + "---\n")
		require.NoError(t, fm.Err, src)
		canonical := Rewrite(fm.Meta)
		require.NotEmpty(t, canonical, src)

		back := Extract("---\n" + Serialize(canonical) + "\n---\n")
		require.NoError(t, back.Err, src)
		assert.Equal(t, canonical, Rewrite(back.Meta), "input: %q", src)
	}
}

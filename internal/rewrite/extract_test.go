package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarahyurick/Curator/internal/meta"
)

func TestExtract_WellFormed(t *testing.T) {
	fm := Extract("---\ntitle: Hello\ntags: [a, b]\n---\n# Body\n\ntext\n")
	require.True(t, fm.Found)
	require.NoError(t, fm.Err)
	assert.Equal(t, "Hello", fm.Meta["title"])
	assert.Equal(t, []any{"a", "b"}, fm.Meta["tags"])
	assert.Equal(t, "title: Hello\ntags: [a, b]", fm.Raw)
	assert.Equal(t, "# Body\n\ntext\n", fm.Body)
}

func TestExtract_CorruptedBeforeParen(t *testing.T) {
	fm := Extract("---\nfoo: bar\n---(content here")
	require.True(t, fm.Found)
	assert.Equal(t, "bar", fm.Meta["foo"])
	assert.Equal(t, "(content here", fm.Body)
}

func TestExtract_CorruptedBeforeWord(t *testing.T) {
	for _, tc := range []struct{ in, body string }{
		{"---\nfoo: bar\n---# Heading\n", "# Heading\n"},
		{"---\nfoo: bar\n---Intro text", "Intro text"},
		{"---\nfoo: bar\n---Éclair", "Éclair"},
		{"---\nfoo: bar\n---_x", "_x"},
	} {
		fm := Extract(tc.in)
		require.True(t, fm.Found, tc.in)
		assert.Equal(t, "bar", fm.Meta["foo"], tc.in)
		assert.Equal(t, tc.body, fm.Body, tc.in)
	}
}

func TestExtract_CorruptedFormWinsOverRule(t *testing.T) {
	// The closing delimiter is glued to the body; the later "---" line is a
	// horizontal rule and must stay in the body.
	fm := Extract("---\nfoo: bar\n---(intro)\n\n---\n\nmore\n")
	require.True(t, fm.Found)
	assert.Equal(t, "bar", fm.Meta["foo"])
	assert.Equal(t, "(intro)\n\n---\n\nmore\n", fm.Body)
}

func TestExtract_NoFrontmatter(t *testing.T) {
	for _, in := range []string{
		"# Just a body\n",
		"",
		"---\nnever closed\n",
		"--- not a delimiter\n---\n",
	} {
		fm := Extract(in)
		assert.False(t, fm.Found, in)
		assert.Nil(t, fm.Meta, in)
		assert.Equal(t, in, fm.Body, in)
	}
}

func TestExtract_EmptyBlock(t *testing.T) {
	fm := Extract("---\n---\nbody")
	assert.True(t, fm.Found)
	assert.NoError(t, fm.Err)
	assert.Nil(t, fm.Meta)
	assert.Equal(t, "body", fm.Body)
}

func TestExtract_MalformedYAML(t *testing.T) {
	fm := Extract("---\ntitle: [unclosed\n---\nbody")
	assert.True(t, fm.Found)
	assert.Error(t, fm.Err)
	assert.Nil(t, fm.Meta)
}

func TestExtract_NotAMapping(t *testing.T) {
	fm := Extract("---\n- a\n- b\n---\nbody")
	assert.ErrorIs(t, fm.Err, ErrNotMapping)
	assert.Nil(t, fm.Meta)
}

func TestExtract_BOM(t *testing.T) {
	fm := Extract("\ufeff---\ntitle: X\n---\nbody")
	require.True(t, fm.Found)
	assert.Equal(t, "X", fm.Meta["title"])
	assert.Equal(t, "body", fm.Body)
}

func TestExtract_KeyOrderAndMerge(t *testing.T) {
	fm := Extract("---\nbase: &b {k2: 2, k1: 1}\nsocial:\n  <<: *b\n  image: i.png\nzeta: z\nalpha: a\n---\n")
	require.NoError(t, fm.Err)
	assert.Equal(t, []string{"base", "social", "zeta", "alpha"}, fm.Order[""])
	assert.Equal(t, []string{"k2", "k1", "image"}, fm.Order["social"])
	assert.Equal(t, meta.Record{"k2": 2, "k1": 1, "image": "i.png"}, fm.Meta["social"])
}

package headmeta

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarahyurick/Curator/internal/meta"
)

func canonicalOf(t *testing.T, raw meta.Record) meta.Record {
	t.Helper()
	return meta.Normalize(raw)
}

func keys(tags []Tag) []string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = tag.Key + "=" + tag.Content
	}
	return out
}

func TestTag_StringEscapes(t *testing.T) {
	got := named("description", `Q&A "fast" <path>`).String()
	assert.Equal(t, `<meta name="description" content="Q&amp;A &#34;fast&#34; &lt;path&gt;">`, got)
	assert.Equal(t, `<meta property="og:type" content="article">`, property("og:type", "article").String())
}

func TestBuildMetaTags(t *testing.T) {
	rec := canonicalOf(t, meta.Record{
		"title":        meta.Record{"page": "Dedup", "social": "Dedup at scale"},
		"description":  "Remove duplicates",
		"social":       meta.Record{"image": "https://img/x.png"},
		"tags":         []any{"dedup", "fuzzy"},
		"categories":   []any{"curation", "text"},
		"personas":     []any{"mle-focused", "admin-focused"},
		"content_type": "Tutorial",
		"difficulty":   "Beginner",
		"modality":     "text-only",
		"cascade":      meta.Record{"product": meta.Record{"name": "Curator", "version": "25.09"}},
	})
	tags := BuildMetaTags(rec, PageContext{Title: "ctx", URL: "https://docs/x.html"})

	assert.Equal(t, []string{"description=Remove duplicates", "keywords=dedup, fuzzy"}, keys(tags.Basic))
	assert.Equal(t, []string{
		"og:description=Remove duplicates",
		"og:type=article",
		"og:title=Dedup at scale",
		"og:url=https://docs/x.html",
		"og:image=https://img/x.png",
	}, keys(tags.OpenGraph))
	assert.Equal(t, []string{
		"twitter:description=Remove duplicates",
		"twitter:title=Dedup at scale",
		"twitter:card=summary",
		"twitter:image=https://img/x.png",
	}, keys(tags.Twitter))
	assert.Equal(t, []string{
		"audience=Machine Learning Engineer, Cluster Administrator",
		"content-type-category=Tutorial",
		"difficulty=Beginner",
		"modality=text-only",
		"topics=curation, text",
		"product-name=Curator",
		"product-version=25.09",
	}, keys(tags.Custom))
	assert.Equal(t, 18, tags.Len())
}

func TestBuildMetaTags_Fallbacks(t *testing.T) {
	rec := canonicalOf(t, meta.Record{
		"description": "Plain",
		"social":      meta.Record{"description": "Social"},
	})
	tags := BuildMetaTags(rec, PageContext{Title: "Ctx", PageTitle: "Ctx | NVIDIA"})
	assert.Equal(t, []string{"og:description=Social", "og:type=article", "og:title=Ctx | NVIDIA"}, keys(tags.OpenGraph))
	assert.Equal(t, []string{"twitter:description=Social", "twitter:title=Ctx | NVIDIA", "twitter:card=summary"}, keys(tags.Twitter))
	assert.Empty(t, tags.Custom)

	empty := BuildMetaTags(meta.Record{}, PageContext{})
	assert.Empty(t, empty.Basic)
	assert.Equal(t, []string{"og:type=article"}, keys(empty.OpenGraph))
	assert.Equal(t, []string{"twitter:card=summary"}, keys(empty.Twitter))
}

func TestBuildPageTitle(t *testing.T) {
	cases := []struct {
		name string
		rec  meta.Record
		page PageContext
		want string
		ok   bool
	}{
		{"page only", meta.Record{}, PageContext{Title: "X"}, "X | NVIDIA", true},
		{"page and site", meta.Record{}, PageContext{Title: "X", SiteName: "Y"}, "X - Y | NVIDIA", true},
		{"page parent site", meta.Record{}, PageContext{Title: "X", ParentTitle: "P", SiteName: "Y"}, "X: P - Y | NVIDIA", true},
		{"frontmatter title wins", meta.Record{"title": meta.Record{"page": "Z"}}, PageContext{Title: "X", SiteName: "Y"}, "Z - Y | NVIDIA", true},
		{"duplicates dropped", meta.Record{}, PageContext{Title: "X", ParentTitle: "X", SiteName: "X"}, "X | NVIDIA", true},
		{"parent only", meta.Record{}, PageContext{Title: "X", ParentTitle: "P"}, "X - P | NVIDIA", true},
		{"no title", meta.Record{}, PageContext{SiteName: "Y"}, "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := BuildPageTitle(c.rec, c.page)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.want, got)
		})
	}
}

func decodeJSONLD(t *testing.T, script string) map[string]any {
	t.Helper()
	const open = "<script type=\"application/ld+json\">\n"
	const end = "\n</script>"
	require.True(t, strings.HasPrefix(script, open), script)
	require.True(t, strings.HasSuffix(script, end), script)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSuffix(strings.TrimPrefix(script, open), end)), &got))
	return got
}

func TestBuildJSONLD(t *testing.T) {
	rec := canonicalOf(t, meta.Record{
		"title":       meta.Record{"page": "Dedup"},
		"description": "Remove duplicates",
		"tags":        []any{"dedup"},
		"content":     meta.Record{"type": "Get Started", "difficulty": "ADVANCED", "audience": []any{"Data Scientist"}},
		"facets":      meta.Record{"modality": "text-only"},
		"cascade":     meta.Record{"product": meta.Record{"name": "Curator", "version": "25.09"}},
	})
	script, ok := BuildJSONLD(rec, PageContext{Title: "ignored", URL: "https://docs/x.html"})
	require.True(t, ok)
	got := decodeJSONLD(t, script)

	assert.Equal(t, "https://schema.org", got["@context"])
	assert.Equal(t, "HowTo", got["@type"])
	assert.Equal(t, "Dedup", got["headline"])
	assert.Equal(t, "Dedup", got["name"])
	assert.Equal(t, "Remove duplicates", got["description"])
	assert.Equal(t, []any{"dedup"}, got["keywords"])
	assert.Equal(t, "Expert", got["proficiencyLevel"])
	assert.Equal(t, map[string]any{"@type": "Audience", "audienceType": []any{"Data Scientist"}}, got["audience"])
	assert.Equal(t, "https://docs/x.html", got["url"])
	assert.Equal(t, map[string]any{"@type": "Organization", "name": "NVIDIA Corporation", "url": "https://www.nvidia.com"}, got["publisher"])
	assert.Equal(t, map[string]any{
		"@type":               "SoftwareApplication",
		"name":                "Curator",
		"applicationCategory": "Data Curation Software",
		"operatingSystem":     "Linux",
		"softwareVersion":     "25.09",
	}, got["about"])
	assert.Equal(t, map[string]any{"@type": "PropertyValue", "name": "modality", "value": "text-only"}, got["additionalProperty"])
}

func TestBuildJSONLD_UnmappedLabels(t *testing.T) {
	rec := canonicalOf(t, meta.Record{"content_type": "How-To Guide", "difficulty": "expert-ish"})
	script, ok := BuildJSONLD(rec, PageContext{Title: "Page"})
	require.True(t, ok)
	got := decodeJSONLD(t, script)
	assert.Equal(t, "TechArticle", got["@type"])
	assert.NotContains(t, got, "proficiencyLevel")
	assert.NotContains(t, got, "about")
	assert.NotContains(t, got, "url")
	assert.Equal(t, "Page", got["headline"])
}

func TestBuildJSONLD_ScriptSafe(t *testing.T) {
	rec := meta.Record{"description": "</script><b>"}
	script, ok := BuildJSONLD(rec, PageContext{})
	require.True(t, ok)
	assert.Equal(t, 1, strings.Count(script, "</script>"))
	assert.Equal(t, "</script><b>", decodeJSONLD(t, script)["description"])
}

func TestFragment(t *testing.T) {
	tags := TagSet{
		Basic:     []Tag{named("description", "d")},
		OpenGraph: []Tag{property("og:type", "article")},
		Custom:    []Tag{named("topics", "t")},
	}
	want := strings.Join([]string{
		`<!-- SEO Meta Tags -->`,
		`<meta name="description" content="d">`,
		"\n    <!-- Open Graph / Facebook -->",
		`<meta property="og:type" content="article">`,
		"\n    <!-- Content Metadata -->",
		`<meta name="topics" content="t">`,
		"\n    <!-- Structured Data (JSON-LD) -->",
		`<script>`,
	}, "\n    ")
	assert.Equal(t, want, Fragment(tags, "<script>"))

	assert.Equal(t, "\n    <!-- Twitter -->\n    <meta name=\"twitter:card\" content=\"summary\">",
		Fragment(TagSet{Twitter: []Tag{named("twitter:card", "summary")}}, ""))
}

func TestApply(t *testing.T) {
	page := &PageContext{Title: "Dedup", ParentTitle: "Curate", SiteName: "NeMo Curator", MetaTags: "<existing>"}
	rec := canonicalOf(t, meta.Record{"description": "Remove duplicates"})

	require.True(t, Apply(rec, page))
	assert.Equal(t, "Dedup: Curate - NeMo Curator | NVIDIA", page.PageTitle)
	assert.True(t, strings.HasPrefix(page.MetaTags, "<existing>\n    <!-- SEO Meta Tags -->"))
	assert.Contains(t, page.MetaTags, `<meta property="og:title" content="Dedup: Curate - NeMo Curator | NVIDIA">`)
	assert.Contains(t, page.MetaTags, `"headline": "Dedup"`)

	untouched := &PageContext{Title: "X"}
	assert.False(t, Apply(meta.Record{}, untouched))
	assert.Equal(t, PageContext{Title: "X"}, *untouched)
}

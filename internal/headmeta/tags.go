// Package headmeta turns a canonical metadata record into the HTML head
// content of a page: meta tags grouped for search engines and social cards,
// an enhanced page title, and a JSON-LD structured data block.
package headmeta

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/sarahyurick/Curator/internal/meta"
)

// Brand is appended to every enhanced page title.
const Brand = "NVIDIA"

// Tag is one <meta> element. Attr is "name" or "property".
type Tag struct {
	Attr    string
	Key     string
	Content string
}

// Node returns the tag as an HTML node.
func (t Tag) Node() *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Meta,
		Data:     "meta",
		Attr: []html.Attribute{
			{Key: t.Attr, Val: t.Key},
			{Key: "content", Val: t.Content},
		},
	}
}

// String renders the tag as an HTML5 void element, <meta ...>, with
// attribute values escaped.
func (t Tag) String() string {
	return strings.TrimSuffix(render(t.Node()), "/>") + ">"
}

// TagSet holds the meta tags of one page, grouped by purpose.
type TagSet struct {
	Basic     []Tag
	OpenGraph []Tag
	Twitter   []Tag
	Custom    []Tag
}

// Len is the total number of tags.
func (s TagSet) Len() int {
	return len(s.Basic) + len(s.OpenGraph) + len(s.Twitter) + len(s.Custom)
}

// PageContext carries what the page itself knows about a document, outside
// its frontmatter. Apply fills PageTitle and MetaTags.
type PageContext struct {
	Title       string
	ParentTitle string
	SiteName    string
	URL         string

	PageTitle string
	MetaTags  string
}

func named(key, content string) Tag    { return Tag{Attr: "name", Key: key, Content: content} }
func property(key, content string) Tag { return Tag{Attr: "property", Key: key, Content: content} }

// BuildMetaTags builds the meta tags for a canonical record.
func BuildMetaTags(canonical meta.Record, page PageContext) TagSet {
	return TagSet{
		Basic:     basicTags(canonical),
		OpenGraph: openGraphTags(canonical, page),
		Twitter:   twitterTags(canonical, page),
		Custom:    customTags(canonical),
	}
}

func basicTags(rec meta.Record) []Tag {
	var tags []Tag
	if d := meta.Text(rec["description"]); d != "" {
		tags = append(tags, named("description", d))
	}
	if kw := rec["tags"]; meta.IsList(kw) && meta.Truthy(kw) {
		tags = append(tags, named("keywords", meta.Text(kw)))
	}
	return tags
}

func socialDescription(rec meta.Record) string {
	if d := meta.Text(meta.Get(rec, nil, "social", "description")); d != "" {
		return d
	}
	return meta.Text(rec["description"])
}

func socialTitle(rec meta.Record, page PageContext) string {
	if t := meta.Text(meta.Get(rec, nil, "title", "social")); t != "" {
		return t
	}
	if page.PageTitle != "" {
		return page.PageTitle
	}
	return page.Title
}

func openGraphTags(rec meta.Record, page PageContext) []Tag {
	var tags []Tag
	if d := socialDescription(rec); d != "" {
		tags = append(tags, property("og:description", d))
	}
	tags = append(tags, property("og:type", "article"))
	if t := socialTitle(rec, page); t != "" {
		tags = append(tags, property("og:title", t))
	}
	if page.URL != "" {
		tags = append(tags, property("og:url", page.URL))
	}
	if img := meta.GetString(rec, "social", "image"); img != "" {
		tags = append(tags, property("og:image", img))
	}
	return tags
}

func twitterTags(rec meta.Record, page PageContext) []Tag {
	var tags []Tag
	if d := socialDescription(rec); d != "" {
		tags = append(tags, named("twitter:description", d))
	}
	if t := socialTitle(rec, page); t != "" {
		tags = append(tags, named("twitter:title", t))
	}
	tags = append(tags, named("twitter:card", "summary"))
	if img := meta.GetString(rec, "social", "image"); img != "" {
		tags = append(tags, named("twitter:image", img))
	}
	return tags
}

func customTags(rec meta.Record) []Tag {
	var tags []Tag
	if a := meta.Get(rec, nil, "content", "audience"); meta.Truthy(a) {
		tags = append(tags, named("audience", meta.Text(meta.AsList(a))))
	}
	if v := meta.ContentType.ResolveString(rec); v != "" {
		tags = append(tags, named("content-type-category", v))
	}
	if v := meta.Difficulty.ResolveString(rec); v != "" {
		tags = append(tags, named("difficulty", v))
	}
	if v := meta.Modality.ResolveString(rec); v != "" {
		tags = append(tags, named("modality", v))
	}
	if v := meta.Topics.ResolveString(rec); v != "" {
		tags = append(tags, named("topics", v))
	}
	product := meta.GetRecord(rec, "cascade", "product")
	if name := meta.Text(product["name"]); meta.Truthy(product["name"]) {
		tags = append(tags, named("product-name", name))
	}
	if version := meta.Text(product["version"]); meta.Truthy(product["version"]) {
		tags = append(tags, named("product-version", version))
	}
	return tags
}

// BuildPageTitle returns the enhanced page title: the page title, then the
// immediate parent title and the site name when they differ from it, with
// the brand suffix. ok is false when there is no base title.
func BuildPageTitle(canonical meta.Record, page PageContext) (string, bool) {
	base := meta.Text(meta.Get(canonical, nil, "title", "page"))
	if base == "" {
		base = page.Title
	}
	if base == "" {
		return "", false
	}

	parts := []string{base}
	if page.ParentTitle != "" && page.ParentTitle != base {
		parts = append(parts, page.ParentTitle)
	}
	if page.SiteName != "" && page.SiteName != base {
		parts = append(parts, page.SiteName)
	}

	switch len(parts) {
	case 1:
		return parts[0] + " | " + Brand, true
	case 2:
		return parts[0] + " - " + parts[1] + " | " + Brand, true
	default:
		return parts[0] + ": " + parts[1] + " - " + parts[2] + " | " + Brand, true
	}
}

func render(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}

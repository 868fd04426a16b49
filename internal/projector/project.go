package projector

import (
	"strings"
	"unicode/utf8"

	"github.com/sarahyurick/Curator/internal/meta"
)

// RootID is the id of the top-level index document.
const RootID = "index"

const truncationMarker = "..."

// Projector turns sources into index records. It holds no mutable state and
// is safe for concurrent use.
type Projector struct {
	tree     Tree
	settings Settings
	site     SiteMeta
}

// New returns a projector over tree.
func New(tree Tree, settings Settings, site SiteMeta) *Projector {
	return &Projector{tree: tree, settings: settings, site: site}
}

// Settings returns the options the projector was built with.
func (p *Projector) Settings() Settings { return p.settings }

// Project builds the record of one document. Content-derived fields are only
// filled when includeContent is set.
func (p *Projector) Project(src Source, includeContent bool) Document {
	doc := Document{
		ID:           src.ID,
		Title:        p.tree.Title(src.ID),
		URL:          p.tree.URL(src.ID),
		LastModified: src.LastModified,
		Parent:       Ancestors(src.ID, p.tree.Known),
	}
	addMetadata(&doc, src.Canonical)
	if meta.Truthy(src.Author) {
		doc.Author = src.Author
	}
	doc.Book, doc.Product, doc.Site = p.site.Book, p.site.Product, p.site.Site

	if includeContent {
		p.addContent(&doc, src)
	}
	return doc
}

// ProjectRoot builds the records of the root index: one per known document
// except the root itself, with content per include_child_content.
func (p *Projector) ProjectRoot(children []Source) []Document {
	out := make([]Document, 0, len(children))
	for _, c := range children {
		if c.ID == RootID {
			continue
		}
		c.LastModified = ""
		out = append(out, p.Project(c, p.settings.IncludeChildContent))
	}
	return out
}

// Ancestors lists the index documents above id, root first. For each
// directory level the "<dir>/index" document counts when known; the root
// index is prepended for every document but itself.
func Ancestors(id string, known func(string) bool) []string {
	var out []string
	if id != RootID && known(RootID) {
		out = append(out, RootID)
	}
	parts := strings.Split(id, "/")
	for i := 1; i < len(parts); i++ {
		parent := strings.Join(parts[:i], "/") + "/" + RootID
		if parent == id {
			break
		}
		if known(parent) {
			out = append(out, parent)
		}
	}
	return out
}

func addMetadata(doc *Document, c meta.Record) {
	if v := c["description"]; meta.Truthy(v) {
		doc.Description = v
	}
	if v := c["tags"]; meta.Truthy(v) {
		doc.Tags = meta.AsList(v)
	}
	if v := c["topics"]; meta.Truthy(v) {
		doc.Topics = meta.AsList(v)
	}
	if r := meta.GetRecord(c, "content"); len(r) > 0 {
		doc.Content = r
	}
	doc.Facets = nonEmpty(meta.GetRecord(c, "facets"))
	doc.Social = nonEmpty(meta.GetRecord(c, "social"))
	doc.Dates = nonEmpty(meta.GetRecord(c, "dates"))
	for key, dst := range map[string]*any{
		"status":  &doc.Status,
		"only":    &doc.Only,
		"cascade": &doc.Cascade,
	} {
		if v := c[key]; meta.Truthy(v) {
			*dst = v
		}
	}
}

func nonEmpty(r meta.Record) meta.Record {
	if len(r) == 0 {
		return nil
	}
	return r
}

func (p *Projector) addContent(doc *Document, src Source) {
	s := p.settings
	c := src.Content

	if c.Content != "" {
		text := truncate(c.Content, s.ContentMaxLength)
		if doc.Content != nil {
			doc.ContentText = text
		} else {
			doc.Content = text
		}
		doc.Format = c.Format
		if doc.Format == "" {
			doc.Format = "text"
		}
		doc.ContentLength = utf8.RuneCountInString(c.Content)
		doc.WordCount = len(strings.Fields(c.Content))
	}

	if c.Summary != "" {
		doc.Summary = truncate(c.Summary, s.SummaryMaxLength)
	}

	if len(c.Headings) > 0 {
		doc.Headings = c.Headings
		texts := make([]string, len(c.Headings))
		for i, h := range c.Headings {
			texts[i] = h.Text
		}
		doc.HeadingsText = strings.Join(texts, " ")
	}

	if s.ExtractKeywords && len(c.Keywords) > 0 {
		kw := c.Keywords
		if s.KeywordsMaxCount > 0 && len(kw) > s.KeywordsMaxCount {
			kw = kw[:s.KeywordsMaxCount]
		}
		doc.Keywords = kw
	}
	if s.ExtractCodeBlocks {
		doc.CodeBlocks = c.CodeBlocks
	}
	if s.ExtractLinks {
		doc.Links = c.Links
	}
	if s.ExtractImages {
		doc.Images = c.Images
	}
	if s.IncludeDocType {
		doc.DocType = p.tree.DocType(src.ID)
	}
	if s.IncludeSectionPath {
		doc.SectionPath = p.tree.SectionPath(src.ID)
	}
}

// truncate cuts s to max runes and appends the marker. max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + truncationMarker
}

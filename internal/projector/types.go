// Package projector builds the per-document JSON records of the search and
// LLM index from canonical metadata and extracted content, and writes them
// to the output tree.
package projector

import (
	"github.com/sarahyurick/Curator/internal/extract"
	"github.com/sarahyurick/Curator/internal/meta"
)

// Settings are the json_output options.
type Settings struct {
	IncludeChildContent bool `yaml:"include_child_content" toml:"include_child_content" json:"include_child_content"`
	ContentMaxLength    int  `yaml:"content_max_length" toml:"content_max_length" json:"content_max_length"`
	SummaryMaxLength    int  `yaml:"summary_max_length" toml:"summary_max_length" json:"summary_max_length"`
	KeywordsMaxCount    int  `yaml:"keywords_max_count" toml:"keywords_max_count" json:"keywords_max_count"`
	ExtractKeywords     bool `yaml:"extract_keywords" toml:"extract_keywords" json:"extract_keywords"`
	ExtractCodeBlocks   bool `yaml:"extract_code_blocks" toml:"extract_code_blocks" json:"extract_code_blocks"`
	ExtractLinks        bool `yaml:"extract_links" toml:"extract_links" json:"extract_links"`
	ExtractImages       bool `yaml:"extract_images" toml:"extract_images" json:"extract_images"`
	IncludeDocType      bool `yaml:"include_doc_type" toml:"include_doc_type" json:"include_doc_type"`
	IncludeSectionPath  bool `yaml:"include_section_path" toml:"include_section_path" json:"include_section_path"`
	SeparateContent     bool `yaml:"separate_content" toml:"separate_content" json:"separate_content"`
	MinifyJSON          bool `yaml:"minify_json" toml:"minify_json" json:"minify_json"`
}

// DefaultSettings returns the default json_output options.
func DefaultSettings() Settings {
	return Settings{
		IncludeChildContent: true,
		ContentMaxLength:    50000,
		SummaryMaxLength:    500,
		KeywordsMaxCount:    50,
		ExtractKeywords:     true,
		ExtractCodeBlocks:   true,
		ExtractLinks:        true,
		ExtractImages:       true,
		IncludeDocType:      true,
		IncludeSectionPath:  true,
	}
}

// Book identifies the documentation set.
type Book struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

// Product identifies the documented product.
type Product struct {
	Name   string   `json:"name"`
	Family []string `json:"family,omitempty"`
}

// SiteInfo names the publishing site.
type SiteInfo struct {
	Name string `json:"name"`
}

// SiteMeta is the site-wide metadata merged into every record. It is
// computed once per build and never mutated.
type SiteMeta struct {
	Book    *Book
	Product *Product
	Site    *SiteInfo
}

// Tree is the document tree a projector resolves ids against.
type Tree interface {
	Title(id string) string
	URL(id string) string
	Known(id string) bool
	DocType(id string) string
	SectionPath(id string) []string
}

// Source is everything known about one document before projection.
type Source struct {
	ID        string
	Canonical meta.Record
	// Author is passed through from the raw frontmatter.
	Author  any
	Content extract.Content
	// LastModified is RFC 3339; empty leaves last_modified out.
	LastModified string
}

// Document is one record of the JSON index. Field order is the output order.
type Document struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	URL          string   `json:"url"`
	LastModified string   `json:"last_modified,omitempty"`
	Parent       []string `json:"parent,omitempty"`

	Description any         `json:"description,omitempty"`
	Tags        []any       `json:"tags,omitempty"`
	Topics      []any       `json:"topics,omitempty"`
	Content     any         `json:"content,omitempty"`
	Facets      meta.Record `json:"facets,omitempty"`
	Social      meta.Record `json:"social,omitempty"`
	Dates       meta.Record `json:"dates,omitempty"`
	Status      any         `json:"status,omitempty"`
	Only        any         `json:"only,omitempty"`
	Cascade     any         `json:"cascade,omitempty"`
	Author      any         `json:"author,omitempty"`

	Book    *Book     `json:"book,omitempty"`
	Product *Product  `json:"product,omitempty"`
	Site    *SiteInfo `json:"site,omitempty"`

	ContentText   string              `json:"content_text,omitempty"`
	ContentFile   string              `json:"content_file,omitempty"`
	Format        string              `json:"format,omitempty"`
	ContentLength int                 `json:"content_length,omitempty"`
	WordCount     int                 `json:"word_count,omitempty"`
	Summary       string              `json:"summary,omitempty"`
	Headings      []extract.Heading   `json:"headings,omitempty"`
	HeadingsText  string              `json:"headings_text,omitempty"`
	Keywords      []string            `json:"keywords,omitempty"`
	CodeBlocks    []extract.CodeBlock `json:"code_blocks,omitempty"`
	Links         []extract.Link      `json:"links,omitempty"`
	Images        []extract.Image     `json:"images,omitempty"`
	DocType       string              `json:"doc_type,omitempty"`
	SectionPath   []string            `json:"section_path,omitempty"`
}

// Text returns the inline primary text, whichever field carries it.
func (d *Document) Text() string {
	if d.ContentText != "" {
		return d.ContentText
	}
	s, _ := d.Content.(string)
	return s
}

// Package extract pulls plain text and structure out of markdown document
// bodies for the JSON index.
package extract

// Heading is one ATX heading.
type Heading struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
	ID    string `json:"id,omitempty"`
}

// CodeBlock is one fenced code block.
type CodeBlock struct {
	Language string `json:"language,omitempty"`
	Content  string `json:"content"`
}

// Link is one inline markdown link. Type is "external" for absolute
// http(s) URLs and "internal" otherwise.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Image is one inline markdown image.
type Image struct {
	Alt string `json:"alt,omitempty"`
	Src string `json:"src"`
}

// Content is everything extracted from one document body. Empty fields mean
// the document has none of that feature.
type Content struct {
	Content    string
	Format     string
	Summary    string
	Headings   []Heading
	Keywords   []string
	CodeBlocks []CodeBlock
	Links      []Link
	Images     []Image
}

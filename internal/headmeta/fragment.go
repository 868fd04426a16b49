package headmeta

import (
	"strings"

	"github.com/sarahyurick/Curator/internal/meta"
)

const indent = "\n    "

// Fragment renders the tag groups, each under its comment header, followed by
// the JSON-LD block. Empty groups are left out.
func Fragment(tags TagSet, jsonLD string) string {
	var lines []string
	section := func(header string, group []Tag) {
		if len(group) == 0 {
			return
		}
		lines = append(lines, header)
		for _, t := range group {
			lines = append(lines, t.String())
		}
	}
	section("<!-- SEO Meta Tags -->", tags.Basic)
	section(indent+"<!-- Open Graph / Facebook -->", tags.OpenGraph)
	section(indent+"<!-- Twitter -->", tags.Twitter)
	section(indent+"<!-- Content Metadata -->", tags.Custom)
	if jsonLD != "" {
		lines = append(lines, indent+"<!-- Structured Data (JSON-LD) -->", jsonLD)
	}
	return strings.Join(lines, indent)
}

// Head builds the enhanced title and the full head fragment of a page.
// title is "" when no enhanced title can be built.
func Head(canonical meta.Record, page PageContext) (title, fragment string) {
	if t, ok := BuildPageTitle(canonical, page); ok {
		title = t
		page.PageTitle = t
	}
	jsonLD, _ := BuildJSONLD(canonical, page)
	return title, Fragment(BuildMetaTags(canonical, page), jsonLD)
}

// Apply sets the enhanced page title on page and appends the head fragment to
// page.MetaTags. Pages whose record carries no metadata are left untouched.
func Apply(canonical meta.Record, page *PageContext) bool {
	if len(canonical) == 0 {
		return false
	}
	title, fragment := Head(canonical, *page)
	if title != "" {
		page.PageTitle = title
	}
	page.MetaTags += indent + fragment
	return true
}

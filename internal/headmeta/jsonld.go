package headmeta

import (
	"encoding/json"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"

	"github.com/sarahyurick/Curator/internal/meta"
)

// schema.org type per content type, keyed by case-folded label.
var schemaTypes = map[string]string{
	"tutorial":        "HowTo",
	"troubleshooting": "HowTo",
	"concept":         "Article",
	"reference":       "TechArticle",
	"example":         "HowTo",
	"get started":     "HowTo",
	"code sample":     "HowTo",
}

var proficiencyLevels = map[string]string{
	"beginner":     "Beginner",
	"intermediate": "Intermediate",
	"advanced":     "Expert",
	"reference":    "Expert",
}

// StructuredData is the JSON-LD record of one page.
type StructuredData struct {
	Context            string       `json:"@context"`
	Type               string       `json:"@type"`
	Headline           string       `json:"headline,omitempty"`
	Name               string       `json:"name,omitempty"`
	Description        any          `json:"description,omitempty"`
	Keywords           []any        `json:"keywords,omitempty"`
	ProficiencyLevel   string       `json:"proficiencyLevel,omitempty"`
	Audience           *Audience    `json:"audience,omitempty"`
	URL                string       `json:"url,omitempty"`
	Publisher          Organization `json:"publisher"`
	About              *Software    `json:"about,omitempty"`
	AdditionalProperty *Property    `json:"additionalProperty,omitempty"`
}

type Audience struct {
	Type         string `json:"@type"`
	AudienceType []any  `json:"audienceType"`
}

type Organization struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Software struct {
	Type                string `json:"@type"`
	Name                any    `json:"name"`
	ApplicationCategory string `json:"applicationCategory"`
	OperatingSystem     string `json:"operatingSystem"`
	SoftwareVersion     any    `json:"softwareVersion,omitempty"`
}

type Property struct {
	Type  string `json:"@type"`
	Name  string `json:"name"`
	Value any    `json:"value"`
}

var publisher = Organization{Type: "Organization", Name: "NVIDIA Corporation", URL: "https://www.nvidia.com"}

// StructuredDataOf builds the JSON-LD record of a page.
func StructuredDataOf(canonical meta.Record, page PageContext) StructuredData {
	sd := StructuredData{
		Context:   "https://schema.org",
		Type:      "TechArticle",
		URL:       page.URL,
		Publisher: publisher,
	}

	title := meta.Text(meta.Get(canonical, nil, "title", "page"))
	if title == "" {
		title = page.Title
	}
	sd.Headline, sd.Name = title, title

	if d := canonical["description"]; meta.Truthy(d) {
		sd.Description = d
	}
	if tags := canonical["tags"]; meta.IsList(tags) {
		sd.Keywords = meta.AsList(tags)
	}

	if ct := meta.ContentType.ResolveString(canonical); ct != "" {
		if t, ok := schemaTypes[fold(ct)]; ok {
			sd.Type = t
		}
	}
	if d := meta.Difficulty.ResolveString(canonical); d != "" {
		sd.ProficiencyLevel = proficiencyLevels[fold(d)]
	}

	if a := meta.Get(canonical, nil, "content", "audience"); meta.IsList(a) && meta.Truthy(a) {
		sd.Audience = &Audience{Type: "Audience", AudienceType: meta.AsList(a)}
	}

	product := meta.GetRecord(canonical, "cascade", "product")
	if meta.Truthy(product["name"]) {
		sd.About = &Software{
			Type:                "SoftwareApplication",
			Name:                product["name"],
			ApplicationCategory: "Data Curation Software",
			OperatingSystem:     "Linux",
		}
		if v := product["version"]; meta.Truthy(v) {
			sd.About.SoftwareVersion = v
		}
	}

	if m, ok := meta.Modality.Resolve(canonical); ok {
		sd.AdditionalProperty = &Property{Type: "PropertyValue", Name: "modality", Value: m}
	}
	return sd
}

// BuildJSONLD renders the JSON-LD record as a script element. ok is false
// only when the record cannot be encoded.
func BuildJSONLD(canonical meta.Record, page PageContext) (string, bool) {
	b, err := json.MarshalIndent(StructuredDataOf(canonical, page), "", "  ")
	if err != nil {
		return "", false
	}
	script := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Script,
		Data:     "script",
		Attr:     []html.Attribute{{Key: "type", Val: "application/ld+json"}},
	}
	script.AppendChild(&html.Node{Type: html.TextNode, Data: "\n" + string(b) + "\n"})
	return render(script), true
}

// fold returns the case-folded label; a Caser is not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(s)
}

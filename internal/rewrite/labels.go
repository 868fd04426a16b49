package rewrite

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sarahyurick/Curator/internal/meta"
)

var contentTypeLabels = map[string]string{
	"tutorial":        "Tutorial",
	"concept":         "Concept",
	"reference":       "Reference",
	"workflow":        "Workflow",
	"index":           "Index",
	"example":         "Example",
	"troubleshooting": "Troubleshooting",
	"get-started":     "Get Started",
	"getting-started": "Get Started",
}

// "reference" is not a difficulty level; it reads as intermediate.
var difficultyLabels = map[string]string{
	"beginner":     "Beginner",
	"intermediate": "Intermediate",
	"advanced":     "Advanced",
	"reference":    "Intermediate",
}

var pluralPersonas = map[string]string{
	"Data Scientists":            "Data Scientist",
	"Machine Learning Engineers": "Machine Learning Engineer",
	"Cluster Administrators":     "Cluster Administrator",
	"DevOps Professionals":       "DevOps Professional",
}

// CanonicalizeLabels returns a copy of raw whose legacy content_type and
// difficulty values are mapped to display labels, title-casing anything
// unknown, and whose plural persona labels are made singular. v2 keys are
// left alone.
func CanonicalizeLabels(raw meta.Record) meta.Record {
	out := make(meta.Record, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	if s, ok := raw["content_type"].(string); ok && s != "" {
		out["content_type"] = label(contentTypeLabels, s)
	}
	if s, ok := raw["difficulty"].(string); ok && s != "" {
		out["difficulty"] = label(difficultyLabels, s)
	}
	if v, ok := raw["personas"]; ok && meta.Truthy(v) {
		personas := meta.AsList(v)
		mapped := make([]any, len(personas))
		for i, p := range personas {
			mapped[i] = p
			if s, ok := p.(string); ok {
				if single, ok := pluralPersonas[s]; ok {
					mapped[i] = single
				}
			}
		}
		out["personas"] = mapped
	}
	return out
}

func label(table map[string]string, s string) string {
	if l, ok := table[strings.ToLower(s)]; ok {
		return l
	}
	return cases.Title(language.Und).String(s)
}

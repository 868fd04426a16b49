package meta

// Field is a logical metadata field that may be written at a v2 nested path
// or under a legacy flat key.
type Field struct {
	Name   string
	Path   []string
	Legacy string
}

var (
	Topics      = Field{Name: "topics", Path: []string{"topics"}, Legacy: "categories"}
	ContentType = Field{Name: "content.type", Path: []string{"content", "type"}, Legacy: "content_type"}
	Difficulty  = Field{Name: "content.difficulty", Path: []string{"content", "difficulty"}, Legacy: "difficulty"}
	Audience    = Field{Name: "content.audience", Path: []string{"content", "audience"}, Legacy: "personas"}
	Modality    = Field{Name: "facets.modality", Path: []string{"facets", "modality"}, Legacy: "modality"}
)

// LegacyKeys lists the flat keys of the legacy schema.
var LegacyKeys = []string{"categories", "personas", "difficulty", "content_type", "modality"}

// PersonaMap maps legacy persona tokens to audience labels.
var PersonaMap = map[string]string{
	"data-scientist-focused": "Data Scientist",
	"mle-focused":            "Machine Learning Engineer",
	"admin-focused":          "Cluster Administrator",
	"devops-focused":         "DevOps Professional",
}

// Resolve returns the v2 value when it is truthy, otherwise the legacy value
// when that is truthy.
func (f Field) Resolve(rec Record) (any, bool) {
	if v := Get(rec, nil, f.Path...); Truthy(v) {
		return v, true
	}
	if f.Legacy == "" {
		return nil, false
	}
	if v := rec[f.Legacy]; Truthy(v) {
		return v, true
	}
	return nil, false
}

// ResolveString is Resolve rendered as text.
func (f Field) ResolveString(rec Record) string {
	v, ok := f.Resolve(rec)
	if !ok {
		return ""
	}
	return Text(v)
}

// ResolveAudience resolves content.audience as a list. Legacy personas are
// mapped through PersonaMap; unmapped tokens pass through unchanged.
func ResolveAudience(rec Record) ([]any, bool) {
	if v := Get(rec, nil, Audience.Path...); Truthy(v) {
		return AsList(v), true
	}
	v := rec[Audience.Legacy]
	if !Truthy(v) {
		return nil, false
	}
	personas := AsList(v)
	out := make([]any, 0, len(personas))
	for _, p := range personas {
		out = append(out, MapPersona(p))
	}
	return out, true
}

// MapPersona maps one persona token. Non-string and unknown tokens are
// returned as given.
func MapPersona(p any) any {
	s, ok := p.(string)
	if !ok {
		return p
	}
	if label, ok := PersonaMap[s]; ok {
		return label
	}
	return s
}

// HasLegacyKeys reports whether raw carries any legacy-schema key.
func HasLegacyKeys(raw Record) bool {
	for _, k := range LegacyKeys {
		if _, ok := raw[k]; ok {
			return true
		}
	}
	return false
}

package meta

// Normalize maps a raw frontmatter record, legacy or v2, to the canonical
// record. It never fails: values of an unexpected shape are coerced or
// dropped. Falsy values are treated as absent and never emitted.
//
// Normalize is idempotent and does not share mutable state with raw.
func Normalize(raw Record) Record {
	out := Record{}
	if raw == nil {
		return out
	}

	if title, ok := AsRecord(raw["title"]); ok {
		if len(title) > 0 {
			out["title"] = Plain(title)
		}
	} else if v := raw["title"]; Truthy(v) && !IsList(v) {
		out["title"] = Record{"page": v}
	}

	if v := raw["description"]; Truthy(v) {
		out["description"] = Plain(v)
	}

	if social, ok := AsRecord(raw["social"]); ok && len(social) > 0 {
		out["social"] = Plain(social)
	}

	if v := raw["tags"]; Truthy(v) {
		out["tags"] = Plain(AsList(v))
	}

	if v, ok := Topics.Resolve(raw); ok {
		out["topics"] = Plain(AsList(v))
	}

	content := Record{}
	if v, ok := ContentType.Resolve(raw); ok {
		content["type"] = Plain(v)
	}
	if v, ok := Difficulty.Resolve(raw); ok {
		content["difficulty"] = Plain(v)
	}
	if v, ok := ResolveAudience(raw); ok {
		content["audience"] = Plain(v)
	}
	if len(content) > 0 {
		out["content"] = content
	}

	if v, ok := Modality.Resolve(raw); ok {
		out["facets"] = Record{"modality": Plain(v)}
	}

	if dates, ok := AsRecord(raw["dates"]); ok && len(dates) > 0 {
		out["dates"] = Plain(dates)
	}

	for _, key := range []string{"status", "only", "cascade"} {
		if v := raw[key]; Truthy(v) {
			out[key] = Plain(v)
		}
	}
	return out
}

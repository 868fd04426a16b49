package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decode(t *testing.T, src string) Record {
	t.Helper()
	var rec Record
	require.NoError(t, yaml.Unmarshal([]byte(src), &rec))
	return rec
}

func TestNormalize_LegacyRecord(t *testing.T) {
	raw := decode(t, `
title: Install Guide
description: How to install
categories: [setup]
tags: gpu
personas: [mle-focused, unknown-x]
difficulty: beginner
content_type: tutorial
modality: text-only
author: someone
`)
	got := Normalize(raw)

	assert.Equal(t, Record{"page": "Install Guide"}, got["title"])
	assert.Equal(t, "How to install", got["description"])
	assert.Equal(t, []any{"setup"}, got["topics"])
	assert.Equal(t, []any{"gpu"}, got["tags"])
	assert.Equal(t, Record{
		"type":       "tutorial",
		"difficulty": "beginner",
		"audience":   []any{"Machine Learning Engineer", "unknown-x"},
	}, got["content"])
	assert.Equal(t, Record{"modality": "text-only"}, got["facets"])
	assert.NotContains(t, got, "author")
	assert.NotContains(t, got, "categories")
	assert.NotContains(t, got, "personas")
}

func TestNormalize_TopicsPreferV2(t *testing.T) {
	got := Normalize(Record{"categories": []any{"A"}, "topics": []any{"B"}})
	assert.Equal(t, []any{"B"}, got["topics"])
}

func TestNormalize_CategoriesScalarCoerced(t *testing.T) {
	got := Normalize(Record{"categories": "A"})
	assert.Equal(t, []any{"A"}, got["topics"])
}

func TestNormalize_PersonaScalar(t *testing.T) {
	got := Normalize(Record{"personas": "admin-focused"})
	assert.Equal(t, []any{"Cluster Administrator"}, GetRecord(got, "content")["audience"])
}

func TestNormalize_V2FieldsWin(t *testing.T) {
	raw := decode(t, `
content:
  type: Concept
  difficulty: Advanced
  audience: Data Scientist
content_type: tutorial
difficulty: beginner
personas: [mle-focused]
facets:
  modality: multimodal
modality: text-only
`)
	got := Normalize(raw)
	assert.Equal(t, Record{
		"type":       "Concept",
		"difficulty": "Advanced",
		"audience":   []any{"Data Scientist"},
	}, got["content"])
	assert.Equal(t, Record{"modality": "multimodal"}, got["facets"])
}

func TestNormalize_FalsyValuesOmitted(t *testing.T) {
	raw := Record{
		"status":      false,
		"description": "",
		"tags":        []any{},
		"only":        0,
		"title":       "",
		"social":      Record{},
		"cascade":     nil,
		"content":     Record{"type": ""},
	}
	got := Normalize(raw)
	assert.Empty(t, got)
}

func TestNormalize_UnexpectedShapesDropped(t *testing.T) {
	raw := Record{
		"title":  []any{"not", "a", "title"},
		"social": "not a record",
		"dates":  []any{"2024-01-01"},
	}
	got := Normalize(raw)
	assert.Empty(t, got)
}

func TestNormalize_PassthroughRecords(t *testing.T) {
	raw := decode(t, `
title:
  page: Page Title
  social: Social Title
social:
  description: Social description
  image: /img.png
dates:
  last_updated: 2024-05-01
status: draft
only: not html
cascade:
  product:
    name: NeMo Curator
    version: "25.09"
`)
	got := Normalize(raw)
	assert.Equal(t, Record{"page": "Page Title", "social": "Social Title"}, got["title"])
	assert.Equal(t, "/img.png", GetString(got, "social", "image"))
	assert.Equal(t, "2024-05-01", GetString(got, "dates", "last_updated"))
	assert.Equal(t, "draft", got["status"])
	assert.Equal(t, "not html", got["only"])
	assert.Equal(t, "25.09", GetString(got, "cascade", "product", "version"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"categories: [a, b]\npersonas: [mle-focused]\ndifficulty: beginner\ncontent_type: tutorial\nmodality: text-only\n",
		"title: Plain\ntags: single\n",
		"topics: x\ncontent:\n  audience: Data Scientist\n",
		"content: not-a-record\ncontent_type: reference\n",
		"title:\n  page: P\n  nav: N\ncascade:\n  product:\n    name: X\n",
		"status: false\nonly: 0\n",
	}
	for _, src := range inputs {
		once := Normalize(decode(t, src))
		twice := Normalize(once)
		assert.Equal(t, once, twice, "input: %q", src)
	}
}

func TestNormalize_DoesNotAliasInput(t *testing.T) {
	raw := Record{"tags": []any{"a"}, "cascade": Record{"product": Record{"name": "X"}}}
	got := Normalize(raw)
	got["tags"].([]any)[0] = "changed"
	GetRecord(got, "cascade", "product")["name"] = "changed"

	assert.Equal(t, "a", raw["tags"].([]any)[0])
	assert.Equal(t, "X", GetString(raw, "cascade", "product", "name"))
}

func TestNormalize_NilInput(t *testing.T) {
	assert.Equal(t, Record{}, Normalize(nil))
}

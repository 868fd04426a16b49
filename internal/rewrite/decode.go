package rewrite

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sarahyurick/Curator/internal/meta"
)

// KeyOrder records the source order of mapping keys, keyed by the dotted
// path of the mapping ("" is the top level).
type KeyOrder map[string][]string

// decodeYAML decodes a YAML document into plain values. Timestamps keep
// their source text so dates survive a rewrite unchanged.
func decodeYAML(src []byte) (any, KeyOrder, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, nil, err
	}
	order := KeyOrder{}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, order, nil
	}
	v, err := nodeValue(doc.Content[0], "", order)
	return v, order, err
}

func nodeValue(n *yaml.Node, path string, order KeyOrder) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return nodeValue(n.Alias, path, order)

	case yaml.MappingNode:
		out := meta.Record{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.ShortTag() == "!!merge" {
				if err := mergeInto(out, v, path, order); err != nil {
					return nil, err
				}
				continue
			}
			val, err := nodeValue(v, join(path, k.Value), order)
			if err != nil {
				return nil, err
			}
			if _, dup := out[k.Value]; !dup {
				order[path] = append(order[path], k.Value)
			}
			out[k.Value] = val
		}
		return out, nil

	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			val, err := nodeValue(item, path, order)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil

	case yaml.ScalarNode:
		if n.ShortTag() == "!!timestamp" {
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("unexpected YAML node kind %d", n.Kind)
}

// mergeInto applies a "<<" merge key: keys already set win.
func mergeInto(out meta.Record, v *yaml.Node, path string, order KeyOrder) error {
	sources := []*yaml.Node{v}
	if v.Kind == yaml.SequenceNode {
		sources = v.Content
	}
	for _, src := range sources {
		merged := KeyOrder{}
		val, err := nodeValue(src, path, merged)
		if err != nil {
			return err
		}
		m, ok := meta.AsRecord(val)
		if !ok {
			return fmt.Errorf("merge value is not a mapping")
		}
		for _, k := range merged[path] {
			if _, set := out[k]; !set {
				out[k] = m[k]
				order[path] = append(order[path], k)
			}
		}
		for p, keys := range merged {
			if _, known := order[p]; !known && p != path {
				order[p] = keys
			}
		}
	}
	return nil
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

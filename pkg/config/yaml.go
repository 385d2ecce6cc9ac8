package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/keygrid/pkg/errors"
)

// orderedSections are decoded key by key so their order survives.
var orderedSections = map[string]bool{
	SectionUnits:      true,
	SectionVariables:  true,
	SectionPoints:     true,
	SectionPlacements: true,
}

// decodeYAML decodes YAML and JSON (a YAML subset) through yaml.Node,
// which keeps mapping order.
func decodeYAML(data []byte) (*document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}

	doc := &document{}
	node := &root
	if node.Kind == 0 {
		return doc, nil
	}
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return doc, nil
		}
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "layout must be a map (line %d)", node.Line)
	}

	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if seen[k.Value] {
			return nil, errors.At(errors.ErrCodeInvalidFormat, k.Value, "duplicate section (line %d)", k.Line)
		}
		seen[k.Value] = true

		value, err := yamlValue(k.Value, v, orderedSections[k.Value])
		if err != nil {
			return nil, err
		}
		doc.sections = append(doc.sections, entry{key: k.Value, value: value})
	}
	return doc, nil
}

func yamlValue(at string, node *yaml.Node, keepOrder bool) (any, error) {
	if keepOrder && node.Kind == yaml.MappingNode {
		entries := make([]entry, 0, len(node.Content)/2)
		seen := make(map[string]bool)
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if seen[k.Value] {
				return nil, errors.At(errors.ErrCodeInvalidFormat, at+"."+k.Value, "duplicate key (line %d)", k.Line)
			}
			seen[k.Value] = true
			value, err := yamlValue(at+"."+k.Value, v, false)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry{key: k.Value, value: value})
		}
		return entries, nil
	}

	var v any
	if err := node.Decode(&v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s: decode (line %d)", at, node.Line)
	}
	return normalize(v), nil
}

// normalize converts decoder-specific container types into the
// map[string]any and []any shapes the anchor decoder expects.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	}
	return v
}

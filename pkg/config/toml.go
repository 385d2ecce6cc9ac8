package config

import (
	"github.com/BurntSushi/toml"

	"github.com/matzehuels/keygrid/pkg/errors"
)

// decodeTOML decodes TOML into a generic map and recovers key order from
// the decoder metadata.
func decodeTOML(data []byte) (*document, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}

	top := firstSeen(md.Keys(), nil)
	doc := &document{sections: make([]entry, 0, len(top))}
	for _, key := range top {
		value := raw[key]
		if m, ok := value.(map[string]any); ok && orderedSections[key] {
			children := firstSeen(md.Keys(), []string{key})
			entries := make([]entry, 0, len(m))
			for _, child := range children {
				if v, ok := m[child]; ok {
					entries = append(entries, entry{key: child, value: normalize(v)})
				}
			}
			doc.sections = append(doc.sections, entry{key: key, value: entries})
			continue
		}
		doc.sections = append(doc.sections, entry{key: key, value: normalize(value)})
	}
	return doc, nil
}

// firstSeen returns the distinct key segments directly below prefix, in the
// order they first appear in the file.
func firstSeen(keys []toml.Key, prefix []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, k := range keys {
		if len(k) <= len(prefix) || !hasPrefix(k, prefix) {
			continue
		}
		name := k[len(prefix)]
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func hasPrefix(k toml.Key, prefix []string) bool {
	for i, p := range prefix {
		if k[i] != p {
			return false
		}
	}
	return true
}

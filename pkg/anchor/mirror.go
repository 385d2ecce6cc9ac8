package anchor

import "strings"

// DefaultMirrorPrefix marks the mirrored counterpart of a point.
const DefaultMirrorPrefix = "mirror_"

// Namer maps a point name to the name used for lookup. When mirror is true
// it returns the name of the point's mirrored counterpart; otherwise it
// returns name unchanged.
type Namer interface {
	MirrorName(name string, mirror bool) string
}

// PrefixNamer implements Namer by toggling a name prefix: "a" becomes
// "mirror_a" and "mirror_a" becomes "a". An empty Prefix means
// DefaultMirrorPrefix.
type PrefixNamer struct {
	Prefix string
}

// MirrorName implements Namer.
func (n PrefixNamer) MirrorName(name string, mirror bool) string {
	if !mirror {
		return name
	}
	prefix := n.prefix()
	if rest, ok := strings.CutPrefix(name, prefix); ok {
		return rest
	}
	return prefix + name
}

// Mirrored returns the name of the mirrored copy of name.
func (n PrefixNamer) Mirrored(name string) string {
	return n.prefix() + name
}

func (n PrefixNamer) prefix() string {
	if n.Prefix == "" {
		return DefaultMirrorPrefix
	}
	return n.Prefix
}

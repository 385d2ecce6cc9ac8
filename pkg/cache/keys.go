package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Digest returns the hex SHA-256 of data. Layout files and seed documents
// are identified by their digest.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// keyFields accumulates "name=value" lines in a fixed order so that equal
// options always digest to the same key.
type keyFields struct {
	b strings.Builder
}

func (f *keyFields) add(name, value string) {
	f.b.WriteString(name)
	f.b.WriteByte('=')
	f.b.WriteString(strconv.Quote(value))
	f.b.WriteByte('\n')
}

func (f *keyFields) key(kind string) string {
	return kind + ":" + Digest([]byte(f.b.String()))
}

// key returns "result:<digest>" over the layout digest and every option
// that changes the resolved points.
func (o ResultKeyOpts) key(layoutHash string) string {
	var f keyFields
	f.add("layout", layoutHash)
	f.add("format", o.Format)
	f.add("no_mirror", strconv.FormatBool(o.NoMirror))
	f.add("max_depth", strconv.Itoa(o.MaxDepth))
	f.add("variables", o.Variables)
	f.add("seed", o.SeedPoints)
	return f.key("result")
}

// key returns "graph:<digest>". The graph is a function of the resolved
// layout, so the result key is one of its fields.
func (o GraphKeyOpts) key(layoutHash string) string {
	var f keyFields
	f.add("result", o.Resolve.key(layoutHash))
	f.add("format", o.Format)
	f.add("detailed", strconv.FormatBool(o.Detailed))
	f.add("scale", strconv.FormatFloat(o.Scale, 'g', -1, 64))
	return f.key("graph")
}

// DefaultKeyer produces unscoped "result:" and "graph:" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey implements Keyer.
func (DefaultKeyer) ResultKey(layoutHash string, opts ResultKeyOpts) string {
	return opts.key(layoutHash)
}

// GraphKey implements Keyer.
func (DefaultKeyer) GraphKey(layoutHash string, opts GraphKeyOpts) string {
	return opts.key(layoutHash)
}

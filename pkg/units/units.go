// Package units builds the table of named scalars that layout expressions
// can reference.
//
// A table starts from the builtin defaults (see [Defaults]), then merges the
// user's "units" and then "variables" sections. Merging overwrites existing
// keys in place and removes keys set to "$unset". The merged table is then
// resolved strictly in insertion order: each entry is evaluated against the
// entries before it, so a reference to a later key is an UNKNOWN_VARIABLE
// error rather than a forward reference.
package units

import (
	"slices"

	"github.com/matzehuels/keygrid/pkg/errors"
	"github.com/matzehuels/keygrid/pkg/expr"
)

// Defaults returns the builtin unit definitions, in their fixed order.
// A fresh table is returned on every call.
func Defaults() *Raw {
	return NewRaw(
		"U", 19.05,
		"u", 19.0,
		"cx", 18.0,
		"cy", 17.0,
		"$default_stagger", 0.0,
		"$default_spread", "u",
		"$default_splay", 0.0,
		"$default_height", "u-1",
		"$default_width", "u-1",
		"$default_padding", "u",
		"$default_autobind", 10.0,
	)
}

// Entry is one resolved unit.
type Entry struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// Table is an insertion-ordered map of resolved units. It implements
// expr.Lookup. A Table is not modified after Parse returns and can be shared
// by readers.
type Table struct {
	names  []string
	values map[string]float64
}

func newTable() *Table {
	return &Table{values: make(map[string]float64)}
}

func (t *Table) set(name string, v float64) {
	if _, ok := t.values[name]; !ok {
		t.names = append(t.names, name)
	}
	t.values[name] = v
}

// Get returns the value of name.
func (t *Table) Get(name string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	v, ok := t.values[name]
	return v, ok
}

// Len returns the number of units.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Names returns unit names in insertion order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.names)
}

// Snapshot returns every unit in insertion order.
func (t *Table) Snapshot() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.names))
	for i, n := range t.names {
		out[i] = Entry{Name: n, Value: t.values[n]}
	}
	return out
}

// Eval evaluates s against the table.
func (t *Table) Eval(key string, s expr.Scalar) (float64, error) {
	return expr.Evaluate(key, s, t)
}

// With returns a copy of the table with extra resolved entries appended in
// order. Extra entries may reference the table and each other.
func (t *Table) With(extra *Raw) (*Table, error) {
	out := newTable()
	for _, n := range t.Names() {
		out.set(n, t.values[n])
	}
	if err := out.resolve("", extra); err != nil {
		return nil, err
	}
	return out, nil
}

// Parse builds the resolved table from the defaults, the user's units and
// the user's variables. Either argument may be nil.
func Parse(units, variables *Raw) (*Table, error) {
	raw := Defaults()
	raw.Merge(units)
	raw.Merge(variables)

	t := newTable()
	if err := t.resolve("units", raw); err != nil {
		return nil, err
	}
	return t, nil
}

// resolve evaluates raw in order, inserting each result before moving on.
func (t *Table) resolve(prefix string, raw *Raw) error {
	for _, name := range raw.Keys() {
		v, _ := raw.Get(name)
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		s, ok := expr.FromValue(v)
		if !ok {
			return errors.UnitsValueType(key)
		}
		f, err := expr.Evaluate(key, s, t)
		if err != nil {
			return err
		}
		t.set(name, f)
	}
	return nil
}

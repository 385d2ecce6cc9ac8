package units

import "slices"

// Unset is the sentinel value that removes a key during a merge.
const Unset = "$unset"

// Raw is an insertion-ordered table of unresolved unit values. Values are
// whatever the config decoder produced: numbers, expression strings, or
// (invalid) anything else.
//
// The zero value is an empty table ready to use.
type Raw struct {
	keys []string
	vals map[string]any
}

// NewRaw builds a table from alternating key/value pairs, in order.
// It panics if the number of arguments is odd; it is meant for literals.
func NewRaw(pairs ...any) *Raw {
	if len(pairs)%2 != 0 {
		panic("units.NewRaw: odd number of arguments")
	}
	r := &Raw{}
	for i := 0; i < len(pairs); i += 2 {
		r.Set(pairs[i].(string), pairs[i+1])
	}
	return r
}

// Set stores v under key. An existing key keeps its position.
func (r *Raw) Set(key string, v any) {
	if r.vals == nil {
		r.vals = make(map[string]any)
	}
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = v
}

// Get returns the raw value stored under key.
func (r *Raw) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.vals[key]
	return v, ok
}

// Delete removes key.
func (r *Raw) Delete(key string) {
	if _, ok := r.vals[key]; !ok {
		return
	}
	delete(r.vals, key)
	r.keys = slices.DeleteFunc(r.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order.
func (r *Raw) Keys() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.keys)
}

// Len returns the number of entries.
func (r *Raw) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Clone returns an independent copy.
func (r *Raw) Clone() *Raw {
	out := &Raw{}
	for _, k := range r.Keys() {
		out.Set(k, r.vals[k])
	}
	return out
}

// Merge applies other on top of r: existing keys are overwritten in place,
// new keys are appended, and keys whose value is [Unset] are removed.
func (r *Raw) Merge(other *Raw) {
	for _, k := range other.Keys() {
		v := other.vals[k]
		if s, ok := v.(string); ok && s == Unset {
			r.Delete(k)
			continue
		}
		r.Set(k, v)
	}
}

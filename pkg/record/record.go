package record

import "strings"

// Record is an ordered mapping from column name to Value. Field order follows
// insertion (the result set's column order); name lookup is case-insensitive.
// Names that differ only by case identify the same field: a result set with
// columns "ID" and "id" collapses to one field holding the later value at the
// earlier position.
type Record struct {
	names  []string
	index  map[string]int
	values []Value
}

// New returns an empty record.
func New() *Record {
	return &Record{index: make(map[string]int)}
}

// Set appends a field, or overwrites the value of an existing field with the
// same (case-insensitive) name without changing its position.
func (r *Record) Set(name string, v Value) {
	key := strings.ToLower(name)
	if i, ok := r.index[key]; ok {
		r.values[i] = v
		return
	}
	r.index[key] = len(r.names)
	r.names = append(r.names, name)
	r.values = append(r.values, v)
}

// Get looks up a field by name, case-insensitively.
func (r *Record) Get(name string) (Value, bool) {
	i, ok := r.index[strings.ToLower(name)]
	if !ok {
		return Value{}, false
	}
	return r.values[i], true
}

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.names) }

// At returns the field at position i in insertion order.
func (r *Record) At(i int) (string, Value) {
	return r.names[i], r.values[i]
}

// Names returns the field names in insertion order.
func (r *Record) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Package record models dynamic result rows as a tagged value union plus an
// ordered, string-keyed record type.
package record

import "fmt"

// Kind discriminates the shapes a Value can take.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindRecord
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindRecord:
		return "record"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is one field of a dynamic record: a database scalar, a nested record
// or list produced by type-hint parsing, or null.
type Value struct {
	kind   Kind
	scalar any
	record *Record
	list   []Value
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Scalar wraps a plain database value. A nil argument collapses to Null.
func Scalar(v any) Value {
	if v == nil {
		return Value{kind: KindNull}
	}
	return Value{kind: KindScalar, scalar: v}
}

// Of wraps a record. A nil record collapses to Null.
func Of(r *Record) Value {
	if r == nil {
		return Value{kind: KindNull}
	}
	return Value{kind: KindRecord, record: r}
}

// List wraps a sequence of values.
func List(items []Value) Value {
	return Value{kind: KindList, list: items}
}

// Kind reports the shape of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Scalar returns the wrapped scalar, or nil for non-scalar values.
func (v Value) Scalar() any {
	if v.kind != KindScalar {
		return nil
	}
	return v.scalar
}

// Record returns the wrapped record, or nil for non-record values.
func (v Value) Record() *Record {
	if v.kind != KindRecord {
		return nil
	}
	return v.record
}

// List returns the wrapped sequence, or nil for non-list values.
func (v Value) List() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Interface converts the value to a plain Go representation: nil, the scalar
// itself, map[string]any for records (field order lost) or []any for lists.
// Intended for logging and JSON round-trips, not for typed access.
func (v Value) Interface() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindRecord:
		out := make(map[string]any, v.record.Len())
		for i := 0; i < v.record.Len(); i++ {
			name, field := v.record.At(i)
			out[name] = field.Interface()
		}
		return out
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// Package mapper converts dynamic records into caller-supplied struct types
// with best-effort per-field coercion. Fields that cannot be converted are
// skipped silently; mapping never fails on a value mismatch.
package mapper

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/driftsql/driftsql/pkg/record"
)

// Map fills a new T from a record. Struct fields match record fields by
// name, case-insensitively; a `db:"name"` tag overrides the field name and
// `db:"-"` skips the field.
func Map[T any](rec *record.Record) (*T, error) {
	out := new(T)
	rv := reflect.ValueOf(out).Elem()
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("mapper: target must be a struct, got %s", rv.Kind())
	}
	if rec == nil {
		return out, nil
	}
	fillStruct(rv, rec)
	return out, nil
}

// MapValue is Map for a row value; non-record values yield an error.
func MapValue[T any](v record.Value) (*T, error) {
	if v.Kind() != record.KindRecord {
		return nil, fmt.Errorf("mapper: cannot map %s value into a struct", v.Kind())
	}
	return Map[T](v.Record())
}

func fillStruct(rv reflect.Value, rec *record.Record) {
	for _, f := range targetFields(rv.Type()) {
		v, ok := rec.Get(f.name)
		if !ok {
			continue
		}
		fv, err := rv.FieldByIndexErr(f.index)
		if err != nil {
			continue
		}
		assign(fv, v)
	}
}

// assign coerces one record value into a struct field. Returns false when
// the value cannot be represented; the field keeps its zero value.
func assign(fv reflect.Value, v record.Value) bool {
	if !fv.CanSet() {
		return false
	}

	if fv.Kind() == reflect.Pointer {
		if v.IsNull() {
			return true // nil pointer for NULL
		}
		p := reflect.New(fv.Type().Elem())
		if !assign(p.Elem(), v) {
			return false
		}
		fv.Set(p)
		return true
	}

	switch v.Kind() {
	case record.KindNull:
		return true // zero value
	case record.KindScalar:
		return assignScalar(fv, v.Scalar())
	case record.KindRecord:
		if fv.Kind() == reflect.Struct {
			fillStruct(fv, v.Record())
			return true
		}
		return false
	case record.KindList:
		if fv.Kind() != reflect.Slice {
			return false
		}
		items := v.List()
		out := reflect.MakeSlice(fv.Type(), len(items), len(items))
		for i, item := range items {
			assign(out.Index(i), item)
		}
		fv.Set(out)
		return true
	}
	return false
}

func assignScalar(fv reflect.Value, raw any) bool {
	rv := reflect.ValueOf(raw)

	if rv.Type().AssignableTo(fv.Type()) {
		fv.Set(rv)
		return true
	}
	if rv.Type().ConvertibleTo(fv.Type()) && differentKindConvertOK(rv, fv) {
		fv.Set(rv.Convert(fv.Type()))
		return true
	}

	// String-ish coercions for drivers that surface text.
	if s, ok := raw.(string); ok {
		switch fv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if n, err := strconv.ParseInt(s, 10, 64); err == nil && !fv.OverflowInt(n) {
				fv.SetInt(n)
				return true
			}
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if n, err := strconv.ParseUint(s, 10, 64); err == nil && !fv.OverflowUint(n) {
				fv.SetUint(n)
				return true
			}
		case reflect.Float32, reflect.Float64:
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				fv.SetFloat(f)
				return true
			}
		case reflect.Bool:
			if b, err := strconv.ParseBool(s); err == nil {
				fv.SetBool(b)
				return true
			}
		}
		if fv.Type() == reflect.TypeOf(time.Time{}) {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				fv.Set(reflect.ValueOf(t))
				return true
			}
		}
	}

	return false
}

// differentKindConvertOK restricts Convert to numeric widening/narrowing so
// int64 never silently converts to string via rune semantics.
func differentKindConvertOK(from, to reflect.Value) bool {
	return isNumericKind(from.Kind()) && isNumericKind(to.Kind())
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

type targetField struct {
	name  string
	index []int
}

// targetFieldCache maps reflect.Type → []targetField; entries are pure
// functions of the type.
var targetFieldCache sync.Map

func targetFields(t reflect.Type) []targetField {
	if cached, ok := targetFieldCache.Load(t); ok {
		return cached.([]targetField)
	}

	var fields []targetField
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() {
			continue
		}
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("db"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		fields = append(fields, targetField{name: name, index: f.Index})
	}

	cached, _ := targetFieldCache.LoadOrStore(t, fields)
	return cached.([]targetField)
}

package template

import (
	"reflect"
	"sync"
)

// reflectModel reads exported struct fields. Field names can be overridden
// with a `db:"name"` tag; `db:"-"` skips the field. Embedded structs are
// flattened. Non-struct values contribute nothing.
type reflectModel struct {
	value any
}

func (r *reflectModel) contribute(dest *NormalizedMap, descending bool) {
	v := reflect.ValueOf(r.value)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}

	for _, f := range structFields(v.Type()) {
		fv, err := v.FieldByIndexErr(f.index)
		if err != nil {
			// Nil embedded pointer along the path.
			continue
		}
		dest.put(f.name, fv.Interface(), descending)
	}
}

type fieldInfo struct {
	name  string
	index []int
}

// structFieldCache maps reflect.Type → []fieldInfo. Entries are pure
// functions of the type, so the cache has no eviction.
var structFieldCache sync.Map

func structFields(t reflect.Type) []fieldInfo {
	if cached, ok := structFieldCache.Load(t); ok {
		return cached.([]fieldInfo)
	}

	var fields []fieldInfo
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() {
			continue
		}
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			// Promoted fields of embedded structs are visible on their own.
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
		fields = append(fields, fieldInfo{name: name, index: f.Index})
	}

	cached, _ := structFieldCache.LoadOrStore(t, fields)
	return cached.([]fieldInfo)
}

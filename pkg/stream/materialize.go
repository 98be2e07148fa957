package stream

import (
	"fmt"
	"strings"

	"github.com/driftsql/driftsql/pkg/adapters/datasource"
	"github.com/driftsql/driftsql/pkg/record"
	"github.com/driftsql/driftsql/pkg/template"
)

// materialize builds one dynamic value from the cursor's current row.
//
// A result with exactly one column whose alias is empty (a bare scalar
// projection) materializes as the scalar itself — exclusively, no record is
// built around it. Every other shape becomes a record value: database NULL →
// null field, hinted columns with non-empty string values → parsed JSON/XML
// trees, everything else → the raw value unchanged.
func materialize(cursor datasource.Cursor, hints []template.ColumnHint) (record.Value, error) {
	n := cursor.FieldCount()

	if n == 1 && cursor.Name(0) == "" {
		raw, err := cursor.Value(0)
		if err != nil {
			return record.Value{}, fmt.Errorf("read column 0: %w", err)
		}
		return record.Scalar(raw), nil
	}

	rec := record.New()
	for i := 0; i < n; i++ {
		name := cursor.Name(i)
		raw, err := cursor.Value(i)
		if err != nil {
			return record.Value{}, fmt.Errorf("read column %q: %w", name, err)
		}

		v, err := fieldValue(name, raw, hints)
		if err != nil {
			return record.Value{}, err
		}
		rec.Set(name, v)
	}
	return record.Of(rec), nil
}

func fieldValue(name string, raw any, hints []template.ColumnHint) (record.Value, error) {
	if raw == nil {
		return record.Null(), nil
	}

	hint, ok := template.HintFor(hints, name)
	if !ok {
		return record.Scalar(raw), nil
	}

	text, ok := rawText(raw)
	if !ok || text == "" {
		return record.Scalar(raw), nil
	}

	var parsed record.Value
	var err error
	switch strings.ToLower(hint.Tag) {
	case "json":
		parsed, err = record.ParseJSON(text)
	case "xml":
		parsed, err = record.ParseXML(text)
	default:
		// Unrecognized tag: surface the raw value unchanged.
		return record.Scalar(raw), nil
	}
	if err != nil {
		return record.Value{}, fmt.Errorf("parse hinted column %q as %s: %w", name, hint.Tag, err)
	}
	return parsed, nil
}

func rawText(raw any) (string, bool) {
	switch t := raw.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	default:
		return "", false
	}
}

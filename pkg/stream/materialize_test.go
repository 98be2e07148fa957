package stream

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftsql/driftsql/pkg/record"
	"github.com/driftsql/driftsql/pkg/template"
)

func firstRow(t *testing.T, rows *Rows) record.Value {
	t.Helper()
	v, ok, err := rows.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	return v
}

func TestMaterializeRecordRow(t *testing.T) {
	cursor := &fakeCursor{
		columns: []string{"id", "name", "deleted_at"},
		rows:    [][]any{{int64(1), "ada", nil}},
	}
	rows := New(cursor, &fakeConn{}, false, nil)

	v := firstRow(t, rows)
	require.Equal(t, record.KindRecord, v.Kind())

	rec := v.Record()
	assert.Equal(t, []string{"id", "name", "deleted_at"}, rec.Names(), "column order preserved")

	deleted, ok := rec.Get("deleted_at")
	require.True(t, ok)
	assert.True(t, deleted.IsNull(), "database NULL becomes a null field")
}

func TestMaterializeBareScalarProjection(t *testing.T) {
	// A single column with an empty alias is the scalar itself, not a record.
	cursor := &fakeCursor{
		columns: []string{""},
		rows:    [][]any{{int64(42)}},
	}
	rows := New(cursor, &fakeConn{}, false, nil)

	v := firstRow(t, rows)
	assert.Equal(t, record.KindScalar, v.Kind())
	assert.Equal(t, int64(42), v.Scalar())
	assert.Nil(t, v.Record())
}

func TestMaterializeSingleNamedColumnIsRecord(t *testing.T) {
	cursor := &fakeCursor{
		columns: []string{"count"},
		rows:    [][]any{{int64(7)}},
	}
	rows := New(cursor, &fakeConn{}, false, nil)

	v := firstRow(t, rows)
	require.Equal(t, record.KindRecord, v.Kind())
	c, ok := v.Record().Get("count")
	require.True(t, ok)
	assert.Equal(t, int64(7), c.Scalar())
}

func TestMaterializeJSONHint(t *testing.T) {
	cursor := &fakeCursor{
		columns: []string{"id", "phones"},
		rows:    [][]any{{int64(1), `{"home": "111", "work": "222"}`}},
	}
	hints := []template.ColumnHint{{Column: "phones", Tag: "json"}}
	rows := New(cursor, &fakeConn{}, false, hints)

	v := firstRow(t, rows)
	phones, ok := v.Record().Get("phones")
	require.True(t, ok)
	require.Equal(t, record.KindRecord, phones.Kind(), "hinted column parsed into a nested record")

	home, ok := phones.Record().Get("home")
	require.True(t, ok)
	assert.Equal(t, "111", home.Scalar())
}

func TestMaterializeXMLHint(t *testing.T) {
	cursor := &fakeCursor{
		columns: []string{"address"},
		rows:    [][]any{{[]byte(`<address><city>London</city></address>`)}},
	}
	hints := []template.ColumnHint{{Column: "address", Tag: "xml"}}
	rows := New(cursor, &fakeConn{}, false, hints)

	v := firstRow(t, rows)
	addr, ok := v.Record().Get("address")
	require.True(t, ok)
	city, ok := addr.Record().Get("city")
	require.True(t, ok)
	assert.Equal(t, "London", city.Scalar())
}

func TestMaterializeHintEdgeCases(t *testing.T) {
	hints := []template.ColumnHint{{Column: "doc", Tag: "json"}}

	t.Run("null hinted column stays null", func(t *testing.T) {
		cursor := &fakeCursor{columns: []string{"doc"}, rows: [][]any{{nil}}}
		v := firstRow(t, New(cursor, &fakeConn{}, false, hints))
		doc, _ := v.Record().Get("doc")
		assert.True(t, doc.IsNull())
	})

	t.Run("empty string not parsed", func(t *testing.T) {
		cursor := &fakeCursor{columns: []string{"doc"}, rows: [][]any{{""}}}
		v := firstRow(t, New(cursor, &fakeConn{}, false, hints))
		doc, _ := v.Record().Get("doc")
		assert.Equal(t, record.KindScalar, doc.Kind())
		assert.Equal(t, "", doc.Scalar())
	})

	t.Run("non-text value passes through", func(t *testing.T) {
		cursor := &fakeCursor{columns: []string{"doc"}, rows: [][]any{{int64(5)}}}
		v := firstRow(t, New(cursor, &fakeConn{}, false, hints))
		doc, _ := v.Record().Get("doc")
		assert.Equal(t, int64(5), doc.Scalar())
	})

	t.Run("malformed document fails the row", func(t *testing.T) {
		cursor := &fakeCursor{columns: []string{"doc"}, rows: [][]any{{`{"broken":`}}}
		_, _, err := New(cursor, &fakeConn{}, false, hints).Next(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"doc"`)
	})

	t.Run("unrecognized tag passes raw value through", func(t *testing.T) {
		cursor := &fakeCursor{columns: []string{"doc"}, rows: [][]any{{"plain"}}}
		other := []template.ColumnHint{{Column: "doc", Tag: "yaml"}}
		v := firstRow(t, New(cursor, &fakeConn{}, false, other))
		doc, _ := v.Record().Get("doc")
		assert.Equal(t, "plain", doc.Scalar())
	})
}

func TestMaterializeJSONHintListOfRecords(t *testing.T) {
	cursor := &fakeCursor{
		columns: []string{"phones"},
		rows:    [][]any{{`[{"type":"Mobile","number":"555"}]`}},
	}
	hints := []template.ColumnHint{{Column: "phones", Tag: "json"}}

	v := firstRow(t, New(cursor, &fakeConn{}, false, hints))
	phones, ok := v.Record().Get("phones")
	require.True(t, ok)
	require.Equal(t, record.KindList, phones.Kind())

	items := phones.List()
	require.Len(t, items, 1)
	number, ok := items[0].Record().Get("number")
	require.True(t, ok)
	assert.Equal(t, "555", number.Scalar())
}

func TestMaterializeHintCaseInsensitiveColumnMatch(t *testing.T) {
	cursor := &fakeCursor{
		columns: []string{"Doc"},
		rows:    [][]any{{`[1, 2]`}},
	}
	hints := []template.ColumnHint{{Column: "doc", Tag: "json"}}

	v := firstRow(t, New(cursor, &fakeConn{}, false, hints))
	doc, _ := v.Record().Get("doc")
	require.Equal(t, record.KindList, doc.Kind())
	assert.Len(t, doc.List(), 2)
}

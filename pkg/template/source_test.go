package template

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMapSource(t *testing.T) {
	m := Normalize(map[string]any{"beta": 2, "alpha": 1}, false, false)

	assert.Equal(t, 2, m.Len())
	// Map keys are sorted for determinism.
	assert.Equal(t, []string{"alpha", "beta"}, m.Names())

	v, ok := m.Lookup("ALPHA")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestNormalizeStringMapSource(t *testing.T) {
	m := Normalize(map[string]string{"name": "Ada"}, false, false)

	v, ok := m.Lookup("name")
	require.True(t, ok)
	assert.Equal(t, "Ada", v)
}

func TestNormalizePairsSource(t *testing.T) {
	pairs := []Pair{
		{Name: "id", Value: 1},
		{Name: "id", Value: 2},
		{Name: "status", Value: "active"},
	}

	t.Run("ascending keeps first duplicate", func(t *testing.T) {
		m := Normalize(pairs, false, false)
		v, ok := m.Lookup("id")
		require.True(t, ok)
		assert.Equal(t, 1, v)
		assert.Equal(t, []string{"id", "status"}, m.Names())
	})

	t.Run("descending keeps last duplicate", func(t *testing.T) {
		m := Normalize(pairs, true, false)
		v, ok := m.Lookup("id")
		require.True(t, ok)
		assert.Equal(t, 2, v)
	})
}

func TestNormalizeJSONSource(t *testing.T) {
	doc := `{"name": "Ada", "age": 36, "ratio": 0.5, "active": true, "note": null,
		"address": {"city": "London", "zip": "N1"}, "tags": ["a", "b"]}`

	m := Normalize(json.RawMessage(doc), false, false)

	tests := []struct {
		key  string
		want any
	}{
		{"name", "Ada"},
		{"age", int64(36)},
		{"ratio", 0.5},
		{"active", true},
		{"note", nil},
		{"address", `{"city": "London", "zip": "N1"}`},
		{"tags", `["a", "b"]`},
	}
	for _, tt := range tests {
		v, ok := m.Lookup(tt.key)
		require.True(t, ok, "key %s", tt.key)
		assert.Equal(t, tt.want, v, "key %s", tt.key)
	}

	// Document order is preserved, not sorted.
	assert.Equal(t, []string{"name", "age", "ratio", "active", "note", "address", "tags"}, m.Names())
}

func TestNormalizeJSONStringSource(t *testing.T) {
	m := Normalize(`{"limit": 10}`, false, false)
	v, ok := m.Lookup("limit")
	require.True(t, ok)
	assert.Equal(t, int64(10), v)
}

func TestNormalizeMalformedJSONContributesNothing(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"truncated object", `{"a": 1`},
		{"not an object", `[1, 2, 3]`},
		{"plain text", `hello world`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Normalize(tt.text, false, false)
			assert.Equal(t, 0, m.Len())
		})
	}
}

func TestNormalizeStructSource(t *testing.T) {
	type filter struct {
		MinAge   int    `db:"min_age"`
		Status   string
		internal string
		Skipped  bool `db:"-"`
	}

	m := Normalize(filter{MinAge: 18, Status: "active", internal: "x", Skipped: true}, false, false)

	assert.Equal(t, 2, m.Len())

	v, ok := m.Lookup("min_age")
	require.True(t, ok)
	assert.Equal(t, 18, v)

	v, ok = m.Lookup("status")
	require.True(t, ok)
	assert.Equal(t, "active", v)

	_, ok = m.Lookup("Skipped")
	assert.False(t, ok)
}

func TestNormalizeStructPointerSource(t *testing.T) {
	type filter struct{ Limit int }

	m := Normalize(&filter{Limit: 5}, false, false)
	v, ok := m.Lookup("limit")
	require.True(t, ok)
	assert.Equal(t, 5, v)

	var nilFilter *filter
	assert.Equal(t, 0, Normalize(nilFilter, false, false).Len())
}

func TestNormalizeEmbeddedStructSource(t *testing.T) {
	type base struct{ TenantID string }
	type query struct {
		base
		Limit int
	}

	m := Normalize(query{base: base{TenantID: "t1"}, Limit: 3}, false, false)

	v, ok := m.Lookup("tenantid")
	require.True(t, ok)
	assert.Equal(t, "t1", v)

	v, ok = m.Lookup("limit")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestNormalizeUnsupportedSource(t *testing.T) {
	assert.Equal(t, 0, Normalize(42, false, false).Len())
	assert.Equal(t, 0, Normalize(nil, false, false).Len())
}

func TestNormalizedMapCaseSensitive(t *testing.T) {
	m := Normalize(map[string]any{"Name": "Ada"}, false, true)

	_, ok := m.Lookup("name")
	assert.False(t, ok)

	v, ok := m.Lookup("Name")
	require.True(t, ok)
	assert.Equal(t, "Ada", v)
}

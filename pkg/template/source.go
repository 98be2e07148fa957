package template

import (
	"encoding/json"
	"sort"
	"strings"
)

// Pair is a single named parameter value. A slice of pairs is the only source
// shape that can carry duplicate names, which makes it the one place the
// descending flag is observable within a single source.
type Pair struct {
	Name  string
	Value any
}

// Source couples a parameter model with the marker pattern it answers to.
// The model's shape is inspected once, at construction.
type Source struct {
	Pattern *Pattern
	model   sourceModel
}

// NewSource wraps a model for the given pattern. A nil pattern means the
// default {{name}} pattern, resolved at reduce time so a configured default
// can take effect. Recognized model shapes, in priority order:
// map[string]any, map[string]string, []Pair, json.RawMessage (object tree),
// string (attempted as JSON text; parse failure contributes nothing), and any
// other value read by struct reflection.
func NewSource(model any, pattern *Pattern) Source {
	return Source{Pattern: pattern, model: selectModel(model)}
}

func (s Source) normalize(descending, caseSensitive bool) *NormalizedMap {
	dest := newNormalizedMap(caseSensitive)
	if s.model != nil {
		s.model.contribute(dest, descending)
	}
	return dest
}

// Normalize converts one heterogeneous model into an ordered name→value map.
// Pure function of its input; unrecognized models yield an empty map.
func Normalize(model any, descending, caseSensitive bool) *NormalizedMap {
	return Source{model: selectModel(model)}.normalize(descending, caseSensitive)
}

// NormalizedMap is an ordered name→value mapping built from one source.
// Lookup is case-insensitive unless built with caseSensitive.
type NormalizedMap struct {
	keys          []string
	vals          map[string]any
	caseSensitive bool
}

func newNormalizedMap(caseSensitive bool) *NormalizedMap {
	return &NormalizedMap{vals: make(map[string]any), caseSensitive: caseSensitive}
}

func (m *NormalizedMap) fold(name string) string {
	if m.caseSensitive {
		return name
	}
	return strings.ToLower(name)
}

// put records a value. For a duplicate name the descending flag decides the
// winner: false keeps the first occurrence, true lets the later one overwrite.
func (m *NormalizedMap) put(name string, value any, descending bool) {
	key := m.fold(name)
	if _, exists := m.vals[key]; exists {
		if descending {
			m.vals[key] = value
		}
		return
	}
	m.keys = append(m.keys, name)
	m.vals[key] = value
}

// mergeSkipExisting copies entries from other, skipping names already present.
func (m *NormalizedMap) mergeSkipExisting(other *NormalizedMap) {
	for _, name := range other.keys {
		key := m.fold(name)
		if _, exists := m.vals[key]; exists {
			continue
		}
		m.keys = append(m.keys, name)
		m.vals[key] = other.vals[other.fold(name)]
	}
}

// Lookup finds a value by name under the map's case policy.
func (m *NormalizedMap) Lookup(name string) (any, bool) {
	v, ok := m.vals[m.fold(name)]
	return v, ok
}

// Len returns the number of distinct names.
func (m *NormalizedMap) Len() int { return len(m.keys) }

// Names returns the names in insertion order.
func (m *NormalizedMap) Names() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// sourceModel contributes name→value entries to a normalized map.
// One implementation per recognized source shape, selected at ingestion.
type sourceModel interface {
	contribute(dest *NormalizedMap, descending bool)
}

func selectModel(model any) sourceModel {
	switch m := model.(type) {
	case nil:
		return nil
	case map[string]any:
		return mapModel(m)
	case map[string]string:
		conv := make(map[string]any, len(m))
		for k, v := range m {
			conv[k] = v
		}
		return mapModel(conv)
	case []Pair:
		return pairsModel(m)
	case json.RawMessage:
		return jsonModel(string(m))
	case string:
		return jsonModel(m)
	default:
		return &reflectModel{value: model}
	}
}

// mapModel reads a Go map. Map keys are unique by construction, so the
// descending flag has no effect here; keys are sorted for determinism.
type mapModel map[string]any

func (m mapModel) contribute(dest *NormalizedMap, descending bool) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dest.put(name, m[name], descending)
	}
}

// pairsModel reads an ordered pair list, preserving duplicates for the
// descending flag to arbitrate.
type pairsModel []Pair

func (p pairsModel) contribute(dest *NormalizedMap, descending bool) {
	for _, pair := range p {
		dest.put(pair.Name, pair.Value, descending)
	}
}

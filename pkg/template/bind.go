package template

import (
	"strconv"
	"strings"
)

// DefaultNamingTemplate builds generated parameter names like "@p0_minAge".
// Recognized substitution points: {prefix}, {counter}, {name}.
const DefaultNamingTemplate = "{prefix}p{counter}_{name}"

// BoundParameter is a provider-native parameter generated for one placeholder.
// Name includes the provider prefix as it appears in the rewritten SQL; Value
// is nil for placeholders with no resolvable value (bound as SQL NULL).
type BoundParameter struct {
	Name  string
	Value any
}

// BindOptions configures generated parameter naming.
type BindOptions struct {
	// Prefix is the provider's parameter-name prefix, e.g. "@".
	Prefix string
	// NamingTemplate combines {prefix}, {counter} and {name}. Empty means
	// DefaultNamingTemplate.
	NamingTemplate string
	// CaseSensitive controls value lookup; the textual replacement of
	// placeholder occurrences is always case-insensitive.
	CaseSensitive bool
}

// Bind rewrites placeholders in queryText to generated provider parameters
// and returns the bound name/value pairs.
//
// Groups are scanned in order. Each distinct placeholder yields exactly one
// bound parameter, reused at every occurrence of that placeholder text. A
// placeholder with no value in its group is still rewritten and bound to SQL
// NULL: an unexpanded template fragment must never survive into executable
// SQL. One counter spans all groups, so generated names are unique even when
// two groups use identically named placeholders. Generated names go into
// locked segments, so a later group's pattern can never re-match substituted
// text.
func Bind(queryText string, groups []Group, opts BindOptions) (string, []BoundParameter) {
	if opts.NamingTemplate == "" {
		opts.NamingTemplate = DefaultNamingTemplate
	}

	segs := []segment{{text: queryText}}
	counter := 0
	var bound []BoundParameter

	for _, g := range groups {
		seen := make(map[string]bool)
		for _, m := range findInSegments(segs, g.Pattern) {
			key := m.name
			if !opts.CaseSensitive {
				key = strings.ToLower(key)
			}
			if seen[key] {
				continue
			}
			seen[key] = true

			value, ok := g.Values.Lookup(m.name)
			if !ok {
				value = nil
			}

			generated := expandName(opts.NamingTemplate, opts.Prefix, counter, sanitizeName(m.name))
			counter++

			bound = append(bound, BoundParameter{Name: generated, Value: value})
			segs = replaceInSegments(segs, m.full, generated)
		}
	}

	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.text)
	}
	return b.String(), bound
}

// expandName applies the naming template's substitution points.
func expandName(tmpl, prefix string, counter int, name string) string {
	r := strings.NewReplacer(
		"{prefix}", prefix,
		"{counter}", strconv.Itoa(counter),
		"{name}", name,
	)
	return r.Replace(tmpl)
}

// sanitizeName strips characters that are not letters, digits or underscores
// so the generated name stays a valid identifier for every provider.
func sanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			b.WriteRune(c)
		}
	}
	return b.String()
}

package template

import (
	"fmt"
	"strings"
)

// FillOptions configures generic-text substitution.
type FillOptions struct {
	// NullReplacement replaces placeholders that stay unresolved across all
	// groups. Default is the empty string.
	NullReplacement string
	// Converter renders a resolved value; nil means fmt.Sprintf("%v", value).
	Converter func(name string, value any) string
}

// Fill substitutes placeholders in a text template.
//
// Resolution runs in two phases. Per group, a resolved placeholder is
// replaced at every occurrence immediately; a missing or null lookup only
// queues the placeholder, so a later group can still rescue it. After all
// groups ran, every occurrence that is still queued and unresolved is
// replaced with NullReplacement — no placeholder ever survives as raw marker
// text. Substituted text is never re-scanned, so the operation terminates and
// is idempotent on fully-resolved output.
func Fill(text string, groups []Group, opts FillOptions) string {
	convert := opts.Converter
	if convert == nil {
		convert = func(_ string, value any) string { return fmt.Sprintf("%v", value) }
	}

	segs := []segment{{text: text}}

	type queued struct {
		full string
	}
	var pending []queued
	resolved := make(map[string]bool) // folded full match → replaced

	for _, g := range groups {
		for _, m := range findInSegments(segs, g.Pattern) {
			value, ok := g.Values.Lookup(m.name)
			if !ok || value == nil {
				pending = append(pending, queued{full: m.full})
				continue
			}
			segs = replaceInSegments(segs, m.full, convert(m.name, value))
			resolved[strings.ToLower(m.full)] = true
		}
	}

	for _, q := range pending {
		if resolved[strings.ToLower(q.full)] {
			continue
		}
		segs = replaceInSegments(segs, q.full, opts.NullReplacement)
	}

	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.text)
	}
	return b.String()
}

// segment is a run of template text. Locked segments hold substituted output
// and are opaque to further pattern matching.
type segment struct {
	text   string
	locked bool
}

// findInSegments scans unlocked segments with the pattern, returning one
// match per distinct placeholder text in order of first appearance.
func findInSegments(segs []segment, p *Pattern) []match {
	seen := make(map[string]bool)
	var out []match
	for _, s := range segs {
		if s.locked {
			continue
		}
		for _, m := range p.find(s.text) {
			if seen[m.full] {
				continue
			}
			seen[m.full] = true
			out = append(out, m)
		}
	}
	return out
}

// replaceInSegments replaces every case-insensitive occurrence of full in the
// unlocked segments, inserting the replacement as a locked segment.
func replaceInSegments(segs []segment, full, replacement string) []segment {
	var out []segment
	for _, s := range segs {
		if s.locked {
			out = append(out, s)
			continue
		}
		out = append(out, splitSegment(s.text, full, replacement)...)
	}
	return out
}

func splitSegment(text, full, replacement string) []segment {
	folded := strings.ToLower(text)
	fullFolded := strings.ToLower(full)
	if len(folded) != len(text) || len(fullFolded) != len(full) {
		folded, fullFolded = text, full
	}

	var out []segment
	i := 0
	for {
		j := strings.Index(folded[i:], fullFolded)
		if j < 0 {
			break
		}
		j += i
		if j > i {
			out = append(out, segment{text: text[i:j]})
		}
		out = append(out, segment{text: replacement, locked: true})
		i = j + len(full)
	}
	if i < len(text) || len(out) == 0 {
		out = append(out, segment{text: text[i:]})
	}
	return out
}

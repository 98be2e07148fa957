package template

// Group is the merged view of every source sharing one marker pattern.
type Group struct {
	Pattern *Pattern
	Values  *NormalizedMap
}

// Reduce merges a source list into one group per distinct marker pattern,
// ordered by first appearance in the (possibly reversed) input.
//
// With reverse=true the list is processed back to front and each source is
// normalized with descending semantics, while the merge itself skips names
// already present. The net effect is that when two sources share a pattern
// and a name, the source registered later in the original list wins — the
// LIFO priority rule both Bind and Fill rely on.
func Reduce(sources []Source, reverse, caseSensitive bool) []Group {
	ordered := sources
	if reverse {
		ordered = make([]Source, len(sources))
		for i, s := range sources {
			ordered[len(sources)-1-i] = s
		}
	}

	var groups []Group
	byExpr := make(map[string]int)

	for _, s := range ordered {
		pattern := s.Pattern
		if pattern == nil {
			pattern = DefaultPattern()
		}

		i, ok := byExpr[pattern.Expr()]
		if !ok {
			i = len(groups)
			byExpr[pattern.Expr()] = i
			groups = append(groups, Group{Pattern: pattern, Values: newNormalizedMap(caseSensitive)})
		}

		groups[i].Values.mergeSkipExisting(s.normalize(reverse, caseSensitive))
	}

	return groups
}

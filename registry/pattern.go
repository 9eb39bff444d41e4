package registry

import "strings"

// MatchPattern reports whether tag matches pattern. A pattern ending in
// "*" matches any tag sharing the prefix before the star; any other
// pattern matches only itself. The same matcher serves node types and
// leaf converters.
func MatchPattern(pattern, tag string) bool {
	if before, found := strings.CutSuffix(pattern, "*"); found {
		return strings.HasPrefix(tag, before)
	}
	return pattern == tag
}

// patternSpecificity orders candidate patterns: an exact pattern beats a
// wildcard, and a longer wildcard prefix beats a shorter one.
func patternSpecificity(pattern string) int {
	if strings.HasSuffix(pattern, "*") {
		return len(pattern) - 1
	}
	return len(pattern) + 1<<20
}

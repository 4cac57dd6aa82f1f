package interpolation

import (
	"regexp"
	"sort"
)

// Match is an interpolation expression found in a literal value.
type Match struct {
	Start int
	End   int
	Expr  string
}

// patterns to detect Dart string interpolation.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{[^}]*\}`),              // ${expr}
	regexp.MustCompile(`\$[a-zA-Z_][a-zA-Z0-9_]*`), // $name
}

// FindAll returns the interpolation expressions in value, ordered by position.
// Escaped dollars (\$) are not interpolation and are ignored.
func FindAll(value string) []Match {
	var all []Match
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(value, -1) {
			if escaped(value, loc[0]) {
				continue
			}
			all = append(all, Match{Start: loc[0], End: loc[1], Expr: value[loc[0]:loc[1]]})
		}
	}
	if len(all) == 0 {
		return nil
	}

	// Sort by position, longest first on ties, then drop overlaps.
	sort.Slice(all, func(i, j int) bool {
		if all[i].Start != all[j].Start {
			return all[i].Start < all[j].Start
		}
		return all[i].End > all[j].End
	})

	var filtered []Match
	lastEnd := -1
	for _, m := range all {
		if m.Start >= lastEnd {
			filtered = append(filtered, m)
			lastEnd = m.End
		}
	}
	return filtered
}

// Find returns only the expression texts of FindAll.
func Find(value string) []string {
	matches := FindAll(value)
	if len(matches) == 0 {
		return nil
	}
	exprs := make([]string, len(matches))
	for i, m := range matches {
		exprs[i] = m.Expr
	}
	return exprs
}

// Contains reports whether value interpolates anything.
func Contains(value string) bool {
	return len(FindAll(value)) > 0
}

// escaped reports whether the byte at pos is preceded by an odd run of backslashes.
func escaped(s string, pos int) bool {
	n := 0
	for i := pos - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

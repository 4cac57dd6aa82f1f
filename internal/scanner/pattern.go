package scanner

import "regexp"

// PatternScanner matches literals with a single non-greedy pattern. It has no
// notion of escapes or comments: a backslash-escaped quote closes the literal.
// A literal never spans a newline; an opening quote with no match before the end
// of its line is skipped and matching resumes at the next byte.
type PatternScanner struct{}

func NewPatternScanner() *PatternScanner { return &PatternScanner{} }

// literalPattern is the RE2 form of (['"])(.*?)\1, where dot stops at newlines.
var literalPattern = regexp.MustCompile(`'([^'\n]*)'|"([^"\n]*)"`)

func (s *PatternScanner) Scan(src []byte) []Span {
	matches := literalPattern.FindAllSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return nil
	}

	spans := make([]Span, 0, len(matches))
	for _, loc := range matches {
		var value string
		if loc[2] >= 0 {
			value = string(src[loc[2]:loc[3]]) // single quoted
		} else {
			value = string(src[loc[4]:loc[5]]) // double quoted
		}
		spans = append(spans, Span{
			Start: loc[0],
			End:   loc[1],
			Quote: src[loc[0]],
			Value: value,
		})
	}
	return spans
}

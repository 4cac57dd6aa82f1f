package scanner

import "tr-localizer/internal/textutil"

type lexState int

const (
	stateNormal lexState = iota
	stateSingleQuote
	stateDoubleQuote
	stateLineComment
	stateBlockComment
)

// LexerScanner walks the buffer byte by byte, tracking comments and quoted
// states. Unlike PatternScanner it honors backslash escapes, ignores quotes
// inside comments, and never reports multi-line (triple-quoted) literals.
// A newline inside a single-line literal abandons it without a span.
type LexerScanner struct{}

func NewLexerScanner() *LexerScanner { return &LexerScanner{} }

func (s *LexerScanner) Scan(src []byte) []Span {
	var spans []Span

	n := len(src)
	state := stateNormal
	depth := 0 // block comment nesting
	start := 0 // offset of the open quote
	raw := false

	for i := 0; i < n; i++ {
		c := src[i]

		switch state {
		case stateNormal:
			switch {
			case c == '/' && i+1 < n && src[i+1] == '/':
				state = stateLineComment
				i++
			case c == '/' && i+1 < n && src[i+1] == '*':
				state = stateBlockComment
				depth = 1
				i++
			case c == '\'' || c == '"':
				raw = hasRawPrefix(src, i)
				if i+2 < n && src[i+1] == c && src[i+2] == c {
					i = skipTriple(src, i, raw) - 1
					continue
				}
				start = i
				if c == '\'' {
					state = stateSingleQuote
				} else {
					state = stateDoubleQuote
				}
			}

		case stateLineComment:
			if c == '\n' {
				state = stateNormal
			}

		case stateBlockComment:
			switch {
			case c == '/' && i+1 < n && src[i+1] == '*':
				depth++
				i++
			case c == '*' && i+1 < n && src[i+1] == '/':
				depth--
				i++
				if depth == 0 {
					state = stateNormal
				}
			}

		case stateSingleQuote, stateDoubleQuote:
			quote := src[start]
			switch {
			case c == '\\' && !raw:
				// An escaped newline still ends the line; let the next pass see it.
				if i+1 < n && src[i+1] != '\n' {
					i++
				}
			case c == '\n':
				state = stateNormal
			case c == quote:
				spans = append(spans, Span{
					Start: start,
					End:   i + 1,
					Quote: quote,
					Value: string(src[start+1 : i]),
				})
				state = stateNormal
			}
		}
	}

	return spans
}

// hasRawPrefix reports whether the quote at i opens a raw string (r'...').
func hasRawPrefix(src []byte, i int) bool {
	if i < 1 || src[i-1] != 'r' {
		return false
	}
	return i < 2 || !textutil.IsIdentByte(src[i-2])
}

// skipTriple returns the offset just past the triple-quoted literal opening
// at i, or len(src) when it is never closed.
func skipTriple(src []byte, i int, raw bool) int {
	quote := src[i]
	n := len(src)
	for j := i + 3; j < n; j++ {
		if src[j] == '\\' && !raw {
			j++
			continue
		}
		if src[j] == quote && j+2 < n && src[j+1] == quote && src[j+2] == quote {
			return j + 3
		}
	}
	return n
}

package scanner

import "fmt"

// Span is a quoted string literal located in a source buffer.
type Span struct {
	// Start is the byte offset of the opening quote.
	Start int
	// End is the byte offset just past the closing quote.
	End int
	// Quote is the delimiter, either '\'' or '"'.
	Quote byte
	// Value is the raw text between the quotes, escape sequences left as written.
	Value string
}

// Scanner finds quoted literals in a source buffer.
type Scanner interface {
	// Scan returns every literal span ordered by Start, without overlaps.
	Scan(src []byte) []Span
}

// Scanner kinds accepted by New.
const (
	KindLexer   = "lexer"
	KindPattern = "pattern"
)

// New returns the scanner registered under kind.
func New(kind string) (Scanner, error) {
	switch kind {
	case KindLexer, "":
		return NewLexerScanner(), nil
	case KindPattern:
		return NewPatternScanner(), nil
	default:
		return nil, fmt.Errorf("unknown scanner %q (want %s or %s)", kind, KindLexer, KindPattern)
	}
}

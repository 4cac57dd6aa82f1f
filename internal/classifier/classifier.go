package classifier

import (
	"bytes"
	"strings"

	"tr-localizer/internal/scanner"
	"tr-localizer/internal/textutil"
)

// SkipReason explains why a literal is not rewritten.
type SkipReason int

const (
	None SkipReason = iota
	ImportLine
	EmptyValue
	ContainsSlash
	AlreadySuffixed
	InsidePrintOrLog
)

var reasonNames = [...]string{
	None:             "none",
	ImportLine:       "import_line",
	EmptyValue:       "empty_value",
	ContainsSlash:    "contains_slash",
	AlreadySuffixed:  "already_suffixed",
	InsidePrintOrLog: "inside_print_or_log",
}

func (r SkipReason) String() string {
	if r < 0 || int(r) >= len(reasonNames) {
		return "unknown"
	}
	return reasonNames[r]
}

// Result is the classification of one literal span.
type Result struct {
	Span     scanner.Span
	Eligible bool
	Reason   SkipReason
}

// Rules configures the skip heuristics.
type Rules struct {
	// ImportPrefix marks import directives; literals on such lines are never rewritten.
	ImportPrefix string
	// Suffix is the localization call that marks a literal as already rewritten.
	Suffix string
	// SkipCallers lists call identifiers whose literal arguments are left alone.
	// An empty list disables the check.
	SkipCallers []string
}

// DefaultRules returns the rule set used when nothing is configured.
func DefaultRules() Rules {
	return Rules{
		ImportPrefix: "import ",
		Suffix:       ".tr()",
		SkipCallers:  []string{"print", "log"},
	}
}

// Classify tags every span. Each result depends only on its span and src.
func Classify(src []byte, spans []scanner.Span, rules Rules) []Result {
	results := make([]Result, 0, len(spans))
	for _, span := range spans {
		results = append(results, ClassifySpan(src, span, rules))
	}
	return results
}

// ClassifySpan applies the skip rules in order; the first match wins.
func ClassifySpan(src []byte, span scanner.Span, rules Rules) Result {
	reason := None
	switch {
	case onImportLine(src, span.Start, rules.ImportPrefix):
		reason = ImportLine
	case span.Value == "":
		reason = EmptyValue
	case strings.Contains(span.Value, "/"):
		reason = ContainsSlash
	case followedBy(src, span.End, rules.Suffix):
		reason = AlreadySuffixed
	case insideCall(src, span.Start, rules.SkipCallers):
		reason = InsidePrintOrLog
	}
	return Result{Span: span, Eligible: reason == None, Reason: reason}
}

func onImportLine(src []byte, pos int, prefix string) bool {
	if prefix == "" {
		return false
	}
	line := src[textutil.LineStart(src, pos):]
	line = bytes.TrimLeft(line, " \t")
	return bytes.HasPrefix(line, []byte(prefix))
}

func followedBy(src []byte, pos int, suffix string) bool {
	if suffix == "" {
		return false
	}
	for pos < len(src) && textutil.IsSpace(src[pos]) {
		pos++
	}
	return bytes.HasPrefix(src[pos:], []byte(suffix))
}

// insideCall reports whether the literal at pos directly follows "<name>(" for
// one of names. The identifier is read whole, so "myprint(" never matches "print".
func insideCall(src []byte, pos int, names []string) bool {
	if len(names) == 0 {
		return false
	}

	i := skipSpaceBack(src, pos)
	if i == 0 || src[i-1] != '(' {
		return false
	}
	end := skipSpaceBack(src, i-1)

	start := end
	for start > 0 && textutil.IsIdentByte(src[start-1]) {
		start--
	}
	if start == end {
		return false
	}

	ident := string(src[start:end])
	for _, name := range names {
		if ident == name {
			return true
		}
	}
	return false
}

// skipSpaceBack returns the smallest i <= pos such that src[i:pos] is all whitespace.
func skipSpaceBack(src []byte, pos int) int {
	for pos > 0 && textutil.IsSpace(src[pos-1]) {
		pos--
	}
	return pos
}

package rewriter

import (
	"bytes"
	"fmt"
	"strings"

	"tr-localizer/internal/classifier"
	"tr-localizer/internal/interpolation"
	"tr-localizer/internal/scanner"
)

// Options controls the replacement text and import insertion.
type Options struct {
	// Suffix is appended to the quoted value, ".tr()" by default.
	Suffix string
	// Terminator optionally follows the suffix, either "" or ";".
	Terminator string
	// RequiredImport is prepended to modified files that lack it. Empty disables insertion.
	RequiredImport string
	// EscapeQuotes keeps the generated literal valid when the value holds a
	// single quote: such a value stays double quoted, or when it also holds a
	// double quote its bare single quotes are escaped. Off by default, matching
	// the original output.
	EscapeQuotes bool
}

// Replacement returns the call expression substituted for value.
func (o Options) Replacement(value string) string {
	quote := "'"
	if o.EscapeQuotes && strings.Contains(value, "'") {
		if strings.Contains(value, `"`) {
			value = escapeSingleQuotes(value)
		} else {
			quote = `"`
		}
	}
	return quote + value + quote + o.Suffix + o.Terminator
}

// Collector receives every eligible literal value.
type Collector interface {
	Add(value string)
}

// Result is the outcome of rewriting one buffer.
type Result struct {
	Path          string
	Content       []byte
	Modified      bool
	ImportAdded   bool
	Substitutions int
	// Skipped counts non-eligible spans per reason.
	Skipped map[classifier.SkipReason]int
	// Values are the eligible literal values in source order, duplicates kept.
	Values []string
	// Interpolated lists eligible values that contain string interpolation.
	Interpolated []string
}

// Rewriter runs scan, classify, and substitute over one buffer at a time.
type Rewriter struct {
	scanner scanner.Scanner
	rules   classifier.Rules
	opts    Options
}

// NewRewriter creates a Rewriter.
func NewRewriter(sc scanner.Scanner, rules classifier.Rules, opts Options) *Rewriter {
	return &Rewriter{scanner: sc, rules: rules, opts: opts}
}

// Classify scans src and classifies every span without rewriting anything.
func (rw *Rewriter) Classify(src []byte) []classifier.Result {
	return classifier.Classify(src, rw.scanner.Scan(src), rw.rules)
}

// Rewrite rewrites src. Every eligible value is passed to c once per
// occurrence. With zero substitutions the returned content is src unchanged.
func (rw *Rewriter) Rewrite(path string, src []byte, c Collector) (*Result, error) {
	results := rw.Classify(src)

	plan, err := BuildPlan(src, results, rw.opts)
	if err != nil {
		return nil, fmt.Errorf("build rewrite plan for %s: %w", path, err)
	}
	if err := plan.Validate(len(src)); err != nil {
		return nil, fmt.Errorf("invalid rewrite plan for %s: %w", path, err)
	}

	res := &Result{
		Path:    path,
		Content: src,
		Skipped: make(map[classifier.SkipReason]int),
	}

	for _, r := range results {
		if !r.Eligible {
			res.Skipped[r.Reason]++
			continue
		}
		res.Values = append(res.Values, r.Span.Value)
		if interpolation.Contains(r.Span.Value) {
			res.Interpolated = append(res.Interpolated, r.Span.Value)
		}
		if c != nil {
			c.Add(r.Span.Value)
		}
	}

	res.Substitutions = plan.Substitutions()
	if res.Substitutions == 0 {
		return res, nil
	}

	out := plan.Apply(src)
	if rw.opts.RequiredImport != "" && !HasImport(src, rw.opts.RequiredImport) {
		out = append([]byte(rw.opts.RequiredImport+"\n\n"), out...)
		res.ImportAdded = true
	}

	res.Content = out
	res.Modified = true
	return res, nil
}

// HasImport reports whether any line of src equals stmt, ignoring leading,
// trailing, and repeated whitespace.
func HasImport(src []byte, stmt string) bool {
	want := normalizeSpace(stmt)
	if want == "" {
		return false
	}

	for line := range bytes.Lines(src) {
		if normalizeSpace(string(line)) == want {
			return true
		}
	}
	return false
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// escapeSingleQuotes backslash-escapes single quotes that are not already escaped.
func escapeSingleQuotes(s string) string {
	if !strings.Contains(s, "'") {
		return s
	}
	var sb strings.Builder
	backslashes := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\'' && backslashes%2 == 0 {
			sb.WriteByte('\\')
		}
		if c == '\\' {
			backslashes++
		} else {
			backslashes = 0
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

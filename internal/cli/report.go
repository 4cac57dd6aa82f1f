package cli

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/fatih/color"

	"tr-localizer/internal/classifier"
	"tr-localizer/internal/pipeline"
	"tr-localizer/internal/textutil"
)

type reporter struct {
	out  io.Writer
	ok   *color.Color
	warn *color.Color
	fail *color.Color
	dim  *color.Color
	bold *color.Color
}

func newReporter(out io.Writer) *reporter {
	return &reporter{
		out:  out,
		ok:   color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
		fail: color.New(color.FgRed, color.Bold),
		dim:  color.New(color.Faint),
		bold: color.New(color.Bold),
	}
}

// summary prints per-file changes and run totals.
func (r *reporter) summary(s *pipeline.Summary, unique int, docPath string, written, dryRun bool) {
	verb := "rewrote"
	if dryRun {
		verb = "would rewrite"
	}

	for _, res := range s.Results {
		if !res.Modified {
			continue
		}
		line := fmt.Sprintf("%s %s (%d)", verb, res.Path, res.Substitutions)
		if res.ImportAdded {
			line += " +import"
		}
		r.ok.Fprintln(r.out, line)
		for _, v := range res.Interpolated {
			r.warn.Fprintf(r.out, "  interpolated literal %s will not match its key at runtime\n", strconv.Quote(textutil.Truncate(v, 60)))
		}
	}

	for _, f := range s.Failures {
		r.fail.Fprintf(r.out, "failed %s: %v\n", f.Path, f.Err)
	}

	r.bold.Fprintf(r.out, "%d files, %d modified, %d substitutions, %d imports added, %d unique strings\n",
		s.Files, s.Modified, s.Substitutions, s.ImportsAdded, unique)

	if written {
		r.ok.Fprintf(r.out, "translations written to %s\n", docPath)
	} else if unique == 0 {
		r.dim.Fprintln(r.out, "no strings collected, translation file not written")
	}
}

// scan prints every literal of one file with its classification.
func (r *reporter) scan(path string, src []byte, results []classifier.Result) {
	r.bold.Fprintln(r.out, path)
	if len(results) == 0 {
		r.dim.Fprintln(r.out, "  no literals")
		return
	}

	skipped := make(map[classifier.SkipReason]int)
	eligible := 0
	for _, res := range results {
		line, col := position(src, res.Span.Start)
		loc := fmt.Sprintf("  %d:%d", line, col)
		value := strconv.Quote(textutil.Truncate(res.Span.Value, 60))
		if res.Eligible {
			eligible++
			r.ok.Fprintf(r.out, "%-10s rewrite  %s\n", loc, value)
			continue
		}
		skipped[res.Reason]++
		r.dim.Fprintf(r.out, "%-10s skip     %s (%s)\n", loc, value, res.Reason)
	}

	reasons := make([]classifier.SkipReason, 0, len(skipped))
	for reason := range skipped {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })

	fmt.Fprintf(r.out, "  %d eligible", eligible)
	for _, reason := range reasons {
		fmt.Fprintf(r.out, ", %d %s", skipped[reason], reason)
	}
	fmt.Fprintln(r.out)
}

// position converts a byte offset into a 1-based line and column.
func position(src []byte, offset int) (int, int) {
	line := 1 + bytes.Count(src[:offset], []byte("\n"))
	return line, offset - textutil.LineStart(src, offset) + 1
}

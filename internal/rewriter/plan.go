package rewriter

import (
	"bytes"
	"fmt"

	"tr-localizer/internal/classifier"
	"tr-localizer/internal/scanner"
)

// SegmentKind distinguishes copied ranges from substitutions.
type SegmentKind int

const (
	Copy SegmentKind = iota
	Substitute
)

// Segment is one piece of a rewrite plan. Start and End index the original buffer.
type Segment struct {
	Kind  SegmentKind
	Start int
	End   int
	// Span and Replacement are set for Substitute segments.
	Span        scanner.Span
	Replacement string
}

// Plan is an ordered list of segments covering the original buffer.
type Plan struct {
	Segments []Segment
}

// Substitutions returns the number of Substitute segments.
func (p *Plan) Substitutions() int {
	n := 0
	for _, s := range p.Segments {
		if s.Kind == Substitute {
			n++
		}
	}
	return n
}

// Validate checks that the segments cover [0, size) in order with no gaps or overlaps.
func (p *Plan) Validate(size int) error {
	pos := 0
	for i, s := range p.Segments {
		if s.Start != pos {
			return fmt.Errorf("segment %d starts at %d, want %d", i, s.Start, pos)
		}
		if s.End < s.Start {
			return fmt.Errorf("segment %d ends before it starts (%d < %d)", i, s.End, s.Start)
		}
		pos = s.End
	}
	if pos != size {
		return fmt.Errorf("plan covers %d bytes, buffer has %d", pos, size)
	}
	return nil
}

// Apply concatenates the plan against src.
func (p *Plan) Apply(src []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(src) + 16*p.Substitutions())
	for _, s := range p.Segments {
		if s.Kind == Substitute {
			buf.WriteString(s.Replacement)
			continue
		}
		buf.Write(src[s.Start:s.End])
	}
	return buf.Bytes()
}

// BuildPlan turns classification results into a plan. Results must be ordered
// by span start and must not overlap, which every scanner guarantees.
func BuildPlan(src []byte, results []classifier.Result, opts Options) (*Plan, error) {
	plan := &Plan{}
	pos := 0

	for _, r := range results {
		if !r.Eligible {
			continue
		}
		span := r.Span
		if span.Start < pos || span.End > len(src) || span.End < span.Start {
			return nil, fmt.Errorf("span [%d,%d) out of order or out of range", span.Start, span.End)
		}
		if span.Start > pos {
			plan.Segments = append(plan.Segments, Segment{Kind: Copy, Start: pos, End: span.Start})
		}
		plan.Segments = append(plan.Segments, Segment{
			Kind:        Substitute,
			Start:       span.Start,
			End:         span.End,
			Span:        span,
			Replacement: opts.Replacement(span.Value),
		})
		pos = span.End
	}

	if pos < len(src) {
		plan.Segments = append(plan.Segments, Segment{Kind: Copy, Start: pos, End: len(src)})
	}

	return plan, nil
}

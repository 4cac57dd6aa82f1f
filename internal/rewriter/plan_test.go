package rewriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tr-localizer/internal/classifier"
	"tr-localizer/internal/scanner"
)

func TestBuildPlan_CoversBuffer(t *testing.T) {
	src := []byte(`a('x') b("y") c`)
	results := classifier.Classify(src, scanner.NewPatternScanner().Scan(src), classifier.DefaultRules())

	plan, err := BuildPlan(src, results, Options{Suffix: ".tr()"})
	require.NoError(t, err)
	require.NoError(t, plan.Validate(len(src)))

	kinds := make([]SegmentKind, 0, len(plan.Segments))
	for _, s := range plan.Segments {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []SegmentKind{Copy, Substitute, Copy, Substitute, Copy}, kinds)
	assert.Equal(t, 2, plan.Substitutions())
	assert.Equal(t, `a('x'.tr()) b('y'.tr()) c`, string(plan.Apply(src)))
}

func TestBuildPlan_AdjacentAndEdgeSpans(t *testing.T) {
	src := []byte(`'a''b'`)
	results := classifier.Classify(src, scanner.NewPatternScanner().Scan(src), classifier.DefaultRules())

	plan, err := BuildPlan(src, results, Options{Suffix: ".tr()"})
	require.NoError(t, err)
	require.NoError(t, plan.Validate(len(src)))
	assert.Len(t, plan.Segments, 2)
}

func TestBuildPlan_RejectsOverlaps(t *testing.T) {
	src := []byte(`'abc'`)
	results := []classifier.Result{
		{Span: scanner.Span{Start: 0, End: 5, Quote: '\'', Value: "abc"}, Eligible: true},
		{Span: scanner.Span{Start: 2, End: 5, Quote: '\'', Value: "c"}, Eligible: true},
	}

	_, err := BuildPlan(src, results, Options{})
	assert.Error(t, err)
}

func TestPlan_Validate(t *testing.T) {
	plan := &Plan{Segments: []Segment{
		{Kind: Copy, Start: 0, End: 2},
		{Kind: Copy, Start: 3, End: 4},
	}}
	assert.Error(t, plan.Validate(4))

	plan = &Plan{Segments: []Segment{{Kind: Copy, Start: 0, End: 2}}}
	assert.Error(t, plan.Validate(4))

	assert.NoError(t, (&Plan{}).Validate(0))
}

func TestOptions_Replacement(t *testing.T) {
	assert.Equal(t, "'Hi'.tr()", Options{Suffix: ".tr()"}.Replacement("Hi"))
	assert.Equal(t, "'Hi'.tr();", Options{Suffix: ".tr()", Terminator: ";"}.Replacement("Hi"))

	escaped := Options{Suffix: ".tr()", EscapeQuotes: true}
	assert.Equal(t, "'Hi'.tr()", escaped.Replacement("Hi"))
	assert.Equal(t, `"it's".tr()`, escaped.Replacement("it's"))
	assert.Equal(t, `"it\'s".tr()`, escaped.Replacement(`it\'s`))
	assert.Equal(t, `'say "it\'s"'.tr()`, escaped.Replacement(`say "it's"`))
	assert.Equal(t, `'a\\\'b "c"'.tr()`, escaped.Replacement(`a\\'b "c"`))
	assert.Equal(t, `'say \"it\'s\"'.tr()`, escaped.Replacement(`say \"it\'s\"`))
}

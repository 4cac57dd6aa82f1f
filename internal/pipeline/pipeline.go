package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"tr-localizer/internal/filewalker"
	"tr-localizer/internal/registry"
	"tr-localizer/internal/rewriter"
	"tr-localizer/internal/translations"
	"tr-localizer/internal/worker"
)

// Pipeline rewrites files one at a time and accumulates eligible literals
// into its Registry.
type Pipeline struct {
	rewriter *rewriter.Rewriter
	registry *registry.Registry
	// DryRun computes results without writing sources back.
	DryRun bool
}

// Failure records a file that could not be processed.
type Failure struct {
	Path string
	Err  error
}

// Summary aggregates one run.
type Summary struct {
	Files         int
	Modified      int
	Substitutions int
	ImportsAdded  int
	Failures      []Failure
	Results       []*rewriter.Result
}

// New creates a pipeline. The registry is owned by the caller and outlives
// the run so the translation document can be written from it.
func New(rw *rewriter.Rewriter, reg *registry.Registry) *Pipeline {
	return &Pipeline{rewriter: rw, registry: reg}
}

// Registry returns the accumulator shared across files.
func (p *Pipeline) Registry() *registry.Registry {
	return p.registry
}

// Run processes entries sequentially. A failing file is logged and recorded;
// the run continues with the remaining files.
func (p *Pipeline) Run(ctx context.Context, entries []filewalker.FileEntry) *Summary {
	summary := &Summary{}

	runner := worker.NewRunner(func(ctx context.Context, entry filewalker.FileEntry) (*rewriter.Result, error) {
		return p.processFile(entry)
	}).OnDone(func(task worker.Task[filewalker.FileEntry, *rewriter.Result]) {
		summary.Files++
		if task.Err != nil {
			log.Error().Err(task.Err).Str("file", task.Input.Path).Msg("File failed")
			summary.Failures = append(summary.Failures, Failure{Path: task.Input.Path, Err: task.Err})
			return
		}
		res := task.Result
		summary.Results = append(summary.Results, res)
		summary.Substitutions += res.Substitutions
		if res.Modified {
			summary.Modified++
		}
		if res.ImportAdded {
			summary.ImportsAdded++
		}
	})

	runner.Execute(ctx, entries)

	log.Info().
		Int("files", summary.Files).
		Int("modified", summary.Modified).
		Int("substitutions", summary.Substitutions).
		Int("imports_added", summary.ImportsAdded).
		Int("failed", len(summary.Failures)).
		Int("unique_strings", p.registry.Len()).
		Msg("Rewrite complete")

	return summary
}

func (p *Pipeline) processFile(entry filewalker.FileEntry) (*rewriter.Result, error) {
	info, err := os.Stat(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", entry.Path, err)
	}

	src, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", entry.Path, err)
	}

	// Values stay in the registry even if the write below fails.
	res, err := p.rewriter.Rewrite(entry.Path, src, p.registry)
	if err != nil {
		return nil, err
	}

	if res.Modified && !p.DryRun {
		if err := os.WriteFile(entry.Path, res.Content, info.Mode().Perm()); err != nil {
			return nil, fmt.Errorf("write %s: %w", entry.Path, err)
		}
	}

	event := log.Info()
	if !res.Modified {
		event = log.Debug()
	}
	event.
		Str("file", entry.Path).
		Int("substitutions", res.Substitutions).
		Bool("import_added", res.ImportAdded).
		Bool("modified", res.Modified).
		Bool("dry_run", p.DryRun).
		Msg("File processed")

	for _, v := range res.Interpolated {
		log.Warn().Str("file", entry.Path).Str("value", v).Msg("Literal uses string interpolation; its runtime text will not match the translation key")
	}

	return res, nil
}

// WriteDocument serializes the registry. Nothing is written when it is empty.
// A failure here does not undo source files already rewritten.
func (p *Pipeline) WriteDocument(path, format string) (bool, error) {
	doc := translations.NewDocument(p.registry.Values())
	written, err := doc.Write(path, format)
	if err != nil {
		return false, fmt.Errorf("write translation document %s: %w", path, err)
	}
	return written, nil
}

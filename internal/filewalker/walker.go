package filewalker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"
)

// DefaultExtensions lists file types handled when none are configured.
var DefaultExtensions = []string{".dart"}

// DefaultExcludes skips generated Dart sources.
var DefaultExcludes = []string{"*.g.dart", "*.freezed.dart"}

// Walker traverses directories and collects source files to rewrite.
type Walker struct {
	extensions map[string]bool
	excludes   []glob.Glob
}

// FileEntry represents a discovered file ready for processing.
type FileEntry struct {
	Path string
	// Rel is Path relative to the root it was found under, slash separated.
	Rel string
	Ext string
}

// NewWalker creates a Walker. Exclude patterns use '/' as separator, so '*'
// stays within one path element and '**' spans several. A pattern excludes a
// path when it matches either the root-relative path or the base name.
func NewWalker(extensions, excludes []string) (*Walker, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	w := &Walker{extensions: make(map[string]bool, len(extensions))}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		w.extensions[ext] = true
	}

	for _, pattern := range excludes {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile exclude pattern %q: %w", pattern, err)
		}
		w.excludes = append(w.excludes, g)
	}

	return w, nil
}

// Walk discovers all supported files under the given roots, depth-first in
// lexical order. A root that cannot be read is logged and skipped; Walk only
// fails when no root could be walked.
func (w *Walker) Walk(roots ...string) ([]FileEntry, error) {
	var entries []FileEntry
	var errs []error
	walked := 0

	for _, root := range roots {
		found, err := w.walkRoot(root)
		if err != nil {
			log.Error().Err(err).Str("root", root).Msg("Skipping root")
			errs = append(errs, err)
			continue
		}
		walked++
		entries = append(entries, found...)
	}

	if walked == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	log.Info().Int("count", len(entries)).Strs("roots", roots).Msg("Discovered files")
	return entries, nil
}

func (w *Walker) walkRoot(root string) ([]FileEntry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}

	if !info.IsDir() {
		if !w.accept(root, filepath.Base(root)) {
			return nil, nil
		}
		return []FileEntry{w.entry(root, filepath.Base(root))}, nil
	}

	var entries []FileEntry
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && w.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if w.accept(path, rel) {
			entries = append(entries, w.entry(path, rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	return entries, nil
}

func (w *Walker) accept(path, rel string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if !w.extensions[ext] {
		return false
	}
	if w.excluded(rel) {
		log.Debug().Str("path", path).Msg("Excluded")
		return false
	}
	return true
}

func (w *Walker) excluded(rel string) bool {
	base := rel
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		base = rel[i+1:]
	}
	for _, g := range w.excludes {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

func (w *Walker) entry(path, rel string) FileEntry {
	return FileEntry{
		Path: path,
		Rel:  rel,
		Ext:  strings.ToLower(filepath.Ext(path)),
	}
}

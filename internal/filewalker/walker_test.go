package filewalker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("// "+f), 0644))
	}
}

func rels(entries []FileEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Rel)
	}
	return out
}

func TestWalk_DepthFirstLexical(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"main.dart",
		"b/screen.dart",
		"a/widgets/button.dart",
		"a/home.dart",
		"README.md",
	)

	w, err := NewWalker(nil, nil)
	require.NoError(t, err)

	entries, err := w.Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/home.dart", "a/widgets/button.dart", "b/screen.dart", "main.dart"}, rels(entries))
	assert.Equal(t, ".dart", entries[0].Ext)
}

func TestWalk_Excludes(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"model.dart",
		"model.g.dart",
		"state.freezed.dart",
		"generated/l10n.dart",
		"src/generated/other.dart",
		"src/keep.dart",
	)

	w, err := NewWalker([]string{"dart"}, append(DefaultExcludes, "generated", "**/generated/**"))
	require.NoError(t, err)

	entries, err := w.Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"model.dart", "src/keep.dart"}, rels(entries))
}

func TestWalk_MultipleRootsAndMissingRoot(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	writeFiles(t, a, "one.dart")
	writeFiles(t, b, "two.dart")

	w, err := NewWalker(nil, nil)
	require.NoError(t, err)

	entries, err := w.Walk(a, filepath.Join(a, "missing"), b)
	require.NoError(t, err)
	assert.Equal(t, []string{"one.dart", "two.dart"}, rels(entries))
}

func TestWalk_AllRootsMissing(t *testing.T) {
	w, err := NewWalker(nil, nil)
	require.NoError(t, err)

	_, err = w.Walk(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestWalk_FileRoot(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "single.dart", "notes.txt")

	w, err := NewWalker(nil, nil)
	require.NoError(t, err)

	entries, err := w.Walk(filepath.Join(root, "single.dart"), filepath.Join(root, "notes.txt"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Join(root, "single.dart"), entries[0].Path)
}

func TestNewWalker_BadPattern(t *testing.T) {
	_, err := NewWalker(nil, []string{"[unclosed"})
	assert.Error(t, err)
}

package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tr-localizer/internal/classifier"
	"tr-localizer/internal/filewalker"
	"tr-localizer/internal/registry"
	"tr-localizer/internal/rewriter"
	"tr-localizer/internal/scanner"
	"tr-localizer/internal/translations"
)

const testImport = "import 'package:localize_and_translate/localize_and_translate.dart';"

func newPipeline() *Pipeline {
	rw := rewriter.NewRewriter(scanner.NewLexerScanner(), classifier.DefaultRules(), rewriter.Options{
		Suffix:         ".tr()",
		RequiredImport: testImport,
	})
	return New(rw, registry.New())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func walk(t *testing.T, root string) []filewalker.FileEntry {
	t.Helper()
	w, err := filewalker.NewWalker(nil, nil)
	require.NoError(t, err)
	entries, err := w.Walk(root)
	require.NoError(t, err)
	return entries
}

func TestRun_EndToEnd(t *testing.T) {
	root := t.TempDir()
	lib := filepath.Join(root, "lib")
	mainPath := filepath.Join(lib, "main.dart")
	otherPath := filepath.Join(lib, "src", "other.dart")
	plainPath := filepath.Join(lib, "plain.dart")

	writeFile(t, mainPath, "import 'package:x/x.dart';\n"+
		"void f() { print('debug'); var s = \"Hello World\"; var p = \"a/b\"; var t = 'Hi'.tr(); }")
	writeFile(t, otherPath, "final a = 'Hello World';\nfinal b = 'Goodbye';\n")
	writeFile(t, plainPath, "void main() {}\n")

	p := newPipeline()
	summary := p.Run(context.Background(), walk(t, lib))

	assert.Equal(t, 3, summary.Files)
	assert.Equal(t, 2, summary.Modified)
	assert.Equal(t, 3, summary.Substitutions)
	assert.Equal(t, 2, summary.ImportsAdded)
	assert.Empty(t, summary.Failures)

	data, err := os.ReadFile(mainPath)
	require.NoError(t, err)
	assert.Equal(t, testImport+"\n\n"+
		"import 'package:x/x.dart';\n"+
		"void f() { print('debug'); var s = 'Hello World'.tr(); var p = \"a/b\"; var t = 'Hi'.tr(); }", string(data))

	data, err = os.ReadFile(plainPath)
	require.NoError(t, err)
	assert.Equal(t, "void main() {}\n", string(data))

	out := filepath.Join(root, "assets", "lang", "en.json")
	written, err := p.WriteDocument(out, translations.FormatJSON)
	require.NoError(t, err)
	assert.True(t, written)

	data, err = os.ReadFile(out)
	require.NoError(t, err)
	var doc map[string]string
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, map[string]string{"Goodbye": "Goodbye", "Hello World": "Hello World"}, doc)

	// A second run finds nothing new and leaves every file as it is.
	again := newPipeline()
	second := again.Run(context.Background(), walk(t, lib))
	assert.Zero(t, second.Substitutions)
	assert.Zero(t, second.Modified)
	assert.Zero(t, again.Registry().Len())

	written, err = again.WriteDocument(filepath.Join(root, "second.json"), translations.FormatJSON)
	require.NoError(t, err)
	assert.False(t, written)
}

func TestRun_DocumentIndependentOfOrder(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.dart")
	b := filepath.Join(root, "b.dart")
	writeFile(t, a, "f('b'); f('A');")
	writeFile(t, b, "f('a'); f('A');")

	entries := walk(t, root)

	p1 := newPipeline()
	p1.DryRun = true
	p1.Run(context.Background(), entries)

	p2 := newPipeline()
	p2.DryRun = true
	p2.Run(context.Background(), []filewalker.FileEntry{entries[1], entries[0]})

	assert.Equal(t, []string{"A", "a", "b"}, p1.Registry().Values())
	assert.Equal(t, p1.Registry().Values(), p2.Registry().Values())
}

func TestRun_FailureIsIsolated(t *testing.T) {
	root := t.TempDir()
	good := filepath.Join(root, "good.dart")
	writeFile(t, good, "f('Kept going');")

	entries := []filewalker.FileEntry{
		{Path: filepath.Join(root, "missing.dart"), Rel: "missing.dart", Ext: ".dart"},
		{Path: good, Rel: "good.dart", Ext: ".dart"},
	}

	p := newPipeline()
	summary := p.Run(context.Background(), entries)

	assert.Equal(t, 2, summary.Files)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, entries[0].Path, summary.Failures[0].Path)
	assert.Equal(t, 1, summary.Modified)
	assert.True(t, p.Registry().Contains("Kept going"))
}

func TestRun_DryRunDoesNotWrite(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.dart")
	writeFile(t, path, "f('Hello');")

	p := newPipeline()
	p.DryRun = true
	summary := p.Run(context.Background(), walk(t, root))

	assert.Equal(t, 1, summary.Modified)
	require.Len(t, summary.Results, 1)
	assert.Contains(t, string(summary.Results[0].Content), "'Hello'.tr()")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "f('Hello');", string(data))
	assert.True(t, p.Registry().Contains("Hello"))
}

func TestRun_PreservesFileMode(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.dart")
	writeFile(t, path, "f('Hello');")
	require.NoError(t, os.Chmod(path, 0600))

	newPipeline().Run(context.Background(), walk(t, root))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWriteDocument_Failure(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "assets")
	writeFile(t, blocker, "not a directory")

	p := newPipeline()
	p.Registry().Add("Hello")

	_, err := p.WriteDocument(filepath.Join(blocker, "lang", "en.json"), translations.FormatJSON)
	assert.Error(t, err)
}

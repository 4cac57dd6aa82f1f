package translations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Output formats for the translation document.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Document maps every collected literal to itself, keys in code-point order.
type Document struct {
	keys []string
}

// NewDocument builds a document from values, dropping duplicates.
func NewDocument(values []string) *Document {
	seen := make(map[string]struct{}, len(values))
	keys := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		keys = append(keys, v)
	}
	sort.Strings(keys)
	return &Document{keys: keys}
}

// Keys returns the document keys in output order.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of entries.
func (d *Document) Len() int { return len(d.keys) }

// Map returns the document as a plain map.
func (d *Document) Map() map[string]string {
	m := make(map[string]string, len(d.keys))
	for _, k := range d.keys {
		m[k] = k
	}
	return m
}

// FormatFromPath picks the output format from the file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Marshal renders the document with two-space indentation.
func (d *Document) Marshal(format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return d.marshalJSON()
	case FormatYAML:
		return d.marshalYAML()
	default:
		return nil, fmt.Errorf("unknown document format %q", format)
	}
}

// marshalJSON relies on encoding/json sorting map keys by byte order, which
// matches the order of d.keys.
func (d *Document) marshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(d.Map()); err != nil {
		return nil, fmt.Errorf("encode JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// marshalYAML builds the mapping node by hand: yaml.v3 sorts plain maps with
// a natural-number aware order, not by code point.
func (d *Document) marshalYAML() ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range d.keys {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
		)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(root); err != nil {
		return nil, fmt.Errorf("encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close YAML encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// Write persists the document at path, creating missing parent directories.
// An empty document is not written at all; the returned bool reports whether
// a file was written.
func (d *Document) Write(path, format string) (bool, error) {
	if len(d.keys) == 0 {
		log.Info().Str("path", path).Msg("No strings collected, translation document not written")
		return false, nil
	}

	data, err := d.Marshal(format)
	if err != nil {
		return false, err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, fmt.Errorf("write translation document: %w", err)
	}

	log.Info().Str("path", path).Int("entries", len(d.keys)).Str("format", format).Msg("Wrote translation document")
	return true, nil
}

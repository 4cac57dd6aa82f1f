package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"tr-localizer/internal/filewalker"
	"tr-localizer/internal/scanner"
	"tr-localizer/internal/translations"
)

// FileName is the project configuration file searched for upward from the working directory.
const FileName = "tr-localizer.toml"

// envPrefix namespaces every environment override.
const envPrefix = "TR_LOCALIZER_"

// Localization packages and the import each one requires.
const (
	PackageLocalizeAndTranslate = "localize_and_translate"
	PackageEasyLocalization     = "easy_localization"
)

var packageImports = map[string]string{
	PackageLocalizeAndTranslate: "import 'package:localize_and_translate/localize_and_translate.dart';",
	PackageEasyLocalization:     "import 'package:easy_localization/easy_localization.dart';",
}

// Packages returns the supported package names in a stable order.
func Packages() []string {
	names := make([]string, 0, len(packageImports))
	for name := range packageImports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ImportFor returns the import statement required by pkg.
func ImportFor(pkg string) (string, error) {
	stmt, ok := packageImports[pkg]
	if !ok {
		return "", fmt.Errorf("unknown package %q (want one of %s)", pkg, strings.Join(Packages(), ", "))
	}
	return stmt, nil
}

type Config struct {
	// Package selects the required import. Empty means not chosen yet.
	Package string
	// Import overrides the statement derived from Package.
	Import      string
	Output      string
	Format      string
	Targets     []string
	Extensions  []string
	Excludes    []string
	Scanner     string
	Suffix      string
	Terminator  string
	SkipCallers []string
	// EscapeQuotes escapes bare single quotes in generated literals.
	EscapeQuotes bool

	// Source is the configuration file that was loaded, if any.
	Source string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output:      filepath.Join("assets", "lang", "en.json"),
		Targets:     []string{"lib"},
		Extensions:  append([]string(nil), filewalker.DefaultExtensions...),
		Excludes:    append([]string(nil), filewalker.DefaultExcludes...),
		Scanner:     scanner.KindLexer,
		Suffix:      ".tr()",
		SkipCallers: []string{"print", "log"},
	}
}

// fileConfig mirrors tr-localizer.toml.
type fileConfig struct {
	Package    string   `toml:"package"`
	Import     string   `toml:"import"`
	Output     string   `toml:"output"`
	Format     string   `toml:"format"`
	Targets    []string `toml:"targets"`
	Extensions []string `toml:"extensions"`
	Exclude    []string `toml:"exclude"`
	Scanner    string   `toml:"scanner"`
	Rewrite    struct {
		Suffix       string   `toml:"suffix"`
		Terminator   string   `toml:"terminator"`
		SkipCallers  []string `toml:"skip_callers"`
		EscapeQuotes bool     `toml:"escape_quotes"`
	} `toml:"rewrite"`
}

// Load builds the configuration: defaults, then the project file (path, or
// the nearest tr-localizer.toml when path is empty), then .env and
// TR_LOCALIZER_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		found, ok, err := FindFile(".")
		if err != nil {
			return nil, err
		}
		if ok {
			path = found
		}
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}
	cfg.applyEnv()

	return cfg, nil
}

// FindFile looks for tr-localizer.toml in startDir and its parents.
func FindFile(startDir string) (string, bool, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

func (c *Config) applyFile(path string) error {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fmt.Errorf("%s: parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		log.Warn().Str("file", path).Str("key", undecoded[0].String()).Msg("Unknown configuration key")
	}

	if meta.IsDefined("package") {
		c.Package = strings.TrimSpace(fc.Package)
	}
	if meta.IsDefined("import") {
		c.Import = strings.TrimSpace(fc.Import)
	}
	if meta.IsDefined("output") {
		c.Output = fc.Output
	}
	if meta.IsDefined("format") {
		c.Format = fc.Format
	}
	if meta.IsDefined("targets") {
		c.Targets = fc.Targets
	}
	if meta.IsDefined("extensions") {
		c.Extensions = fc.Extensions
	}
	if meta.IsDefined("exclude") {
		c.Excludes = fc.Exclude
	}
	if meta.IsDefined("scanner") {
		c.Scanner = fc.Scanner
	}
	if meta.IsDefined("rewrite", "suffix") {
		c.Suffix = fc.Rewrite.Suffix
	}
	if meta.IsDefined("rewrite", "terminator") {
		c.Terminator = fc.Rewrite.Terminator
	}
	if meta.IsDefined("rewrite", "skip_callers") {
		c.SkipCallers = fc.Rewrite.SkipCallers
	}
	if meta.IsDefined("rewrite", "escape_quotes") {
		c.EscapeQuotes = fc.Rewrite.EscapeQuotes
	}

	// Relative paths in the file are relative to the file itself.
	base := filepath.Dir(path)
	if meta.IsDefined("output") && c.Output != "" && !filepath.IsAbs(c.Output) {
		c.Output = filepath.Join(base, c.Output)
	}
	if meta.IsDefined("targets") {
		for i, t := range c.Targets {
			if !filepath.IsAbs(t) {
				c.Targets[i] = filepath.Join(base, t)
			}
		}
	}

	c.Source = path
	log.Debug().Str("file", path).Msg("Loaded configuration file")
	return nil
}

func (c *Config) applyEnv() {
	c.Package = getEnv("PACKAGE", c.Package)
	c.Import = getEnv("IMPORT", c.Import)
	c.Output = getEnv("OUTPUT", c.Output)
	c.Format = getEnv("FORMAT", c.Format)
	c.Targets = getEnvList("TARGETS", c.Targets)
	c.Excludes = getEnvList("EXCLUDE", c.Excludes)
	c.Scanner = getEnv("SCANNER", c.Scanner)
	c.Terminator = getEnv("TERMINATOR", c.Terminator)
	c.SkipCallers = getEnvList("SKIP_CALLERS", c.SkipCallers)
	c.EscapeQuotes = getEnvBool("ESCAPE_QUOTES", c.EscapeQuotes)
}

// RequiredImport returns the import statement for the selected package.
func (c *Config) RequiredImport() (string, error) {
	if c.Import != "" {
		return c.Import, nil
	}
	if c.Package == "" {
		return "", errors.New("no localization package selected")
	}
	return ImportFor(c.Package)
}

// DocumentFormat returns the configured format, or the one implied by Output.
func (c *Config) DocumentFormat() string {
	if c.Format != "" {
		return c.Format
	}
	return translations.FormatFromPath(c.Output)
}

// Validate checks the configuration before any file is touched.
func (c *Config) Validate() error {
	if c.Import == "" && c.Package != "" {
		if _, err := ImportFor(c.Package); err != nil {
			return err
		}
	}
	if _, err := scanner.New(c.Scanner); err != nil {
		return err
	}
	switch c.DocumentFormat() {
	case translations.FormatJSON, translations.FormatYAML:
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", c.Format, translations.FormatJSON, translations.FormatYAML)
	}
	if c.Suffix == "" {
		return errors.New("rewrite suffix must not be empty")
	}
	if c.Terminator != "" && c.Terminator != ";" {
		return fmt.Errorf("terminator must be empty or \";\", got %q", c.Terminator)
	}
	if c.Output == "" {
		return errors.New("output path must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

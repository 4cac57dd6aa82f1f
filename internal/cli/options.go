package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tr-localizer/internal/classifier"
	"tr-localizer/internal/config"
	"tr-localizer/internal/rewriter"
	"tr-localizer/internal/scanner"
	"tr-localizer/internal/ui"
)

// runFlags holds the flags shared by rewrite, extract, and scan. Flags only
// override the configuration when set explicitly.
type runFlags struct {
	pkg           string
	importStmt    string
	output        string
	format        string
	scanner       string
	terminator    bool
	escapeQuotes  bool
	noSkipCallers bool
	skipCallers   []string
	excludes      []string
	dryRun        bool
}

func (f *runFlags) register(cmd *cobra.Command, withOutput, withRewrite bool) {
	fs := cmd.Flags()
	fs.StringVar(&f.scanner, "scanner", scanner.KindLexer, "literal scanner: lexer (comment and escape aware; output can differ from the original tool) or pattern (byte-compatible original heuristic)")
	fs.BoolVar(&f.noSkipCallers, "no-skip-callers", false, "also rewrite literals passed directly to print/log")
	fs.StringSliceVar(&f.skipCallers, "skip-callers", nil, "call names whose literal arguments are left alone (default print,log)")
	fs.StringSliceVar(&f.excludes, "exclude", nil, "glob patterns of files or directories to skip")

	if !withOutput {
		return
	}

	fs.StringVarP(&f.output, "output", "o", "", "translation file to write (default assets/lang/en.json)")
	fs.StringVar(&f.format, "format", "", "translation file format: json or yaml (default from --output extension)")

	if !withRewrite {
		return
	}

	fs.StringVarP(&f.pkg, "package", "p", "", "localization package: "+strings.Join(config.Packages(), " or "))
	fs.StringVar(&f.importStmt, "import", "", "custom import statement to add instead of the package import")
	fs.BoolVar(&f.terminator, "terminator", false, "append ';' after each generated .tr() call")
	fs.BoolVar(&f.escapeQuotes, "escape-quotes", false, "keep rewritten literals that contain single quotes valid Dart")
	fs.BoolVar(&f.dryRun, "dry-run", false, "report changes without writing source files")
}

// load builds the configuration for cmd: file and environment first, then
// explicitly set flags, then positional targets.
func (f *runFlags) load(cmd *cobra.Command, args []string) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("package") {
		cfg.Package = f.pkg
	}
	if changed("import") {
		cfg.Import = f.importStmt
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("format") {
		cfg.Format = f.format
	}
	if changed("scanner") {
		cfg.Scanner = f.scanner
	}
	if changed("terminator") {
		cfg.Terminator = ""
		if f.terminator {
			cfg.Terminator = ";"
		}
	}
	if changed("escape-quotes") {
		cfg.EscapeQuotes = f.escapeQuotes
	}
	if changed("skip-callers") {
		cfg.SkipCallers = f.skipCallers
	}
	if f.noSkipCallers {
		cfg.SkipCallers = nil
	}
	if changed("exclude") {
		cfg.Excludes = append(cfg.Excludes, f.excludes...)
	}
	if len(args) > 0 {
		cfg.Targets = args
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolvePackage makes sure a required import is known, asking on an
// interactive terminal and falling back to localize_and_translate otherwise.
func resolvePackage(cfg *config.Config) error {
	if cfg.Import != "" || cfg.Package != "" {
		return nil
	}

	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		cfg.Package = config.PackageLocalizeAndTranslate
		log.Info().Str("package", cfg.Package).Msg("No package selected, using default")
		return nil
	}

	options := make([]ui.Option, 0, len(config.Packages()))
	for _, name := range config.Packages() {
		stmt, _ := config.ImportFor(name)
		options = append(options, ui.Option{Value: name, Detail: stmt})
	}

	choice, err := ui.Pick("Which localization package does this project use?", options, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	cfg.Package = choice
	return nil
}

func newRewriter(cfg *config.Config) (*rewriter.Rewriter, error) {
	sc, err := scanner.New(cfg.Scanner)
	if err != nil {
		return nil, err
	}

	stmt := ""
	if cfg.Import != "" || cfg.Package != "" {
		stmt, err = cfg.RequiredImport()
		if err != nil {
			return nil, err
		}
	}

	rules := classifier.Rules{
		ImportPrefix: classifier.DefaultRules().ImportPrefix,
		Suffix:       cfg.Suffix,
		SkipCallers:  cfg.SkipCallers,
	}
	opts := rewriter.Options{
		Suffix:         cfg.Suffix,
		Terminator:     cfg.Terminator,
		RequiredImport: stmt,
		EscapeQuotes:   cfg.EscapeQuotes,
	}
	return rewriter.NewRewriter(sc, rules, opts), nil
}

func setColorMode(mode string) error {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto", "":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (want auto, on, or off)", mode)
	}
	return nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tr-localizer/internal/config"
	"tr-localizer/internal/filewalker"
	"tr-localizer/internal/pipeline"
	"tr-localizer/internal/registry"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version is the CLI version, overridable at build time via -ldflags.
var Version = "0.1.0-dev"

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "tr-localizer",
		Short:        "Wrap string literals in Dart sources with .tr() calls",
		Long:         "Finds user-facing string literals in Dart/Flutter sources, rewrites them into localization lookups, and writes the collected strings to a translation file.",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			mode, _ := cmd.Flags().GetString("color")
			return setColorMode(mode)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "path to "+config.FileName+" (default: nearest one above the working directory)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	rootCmd.AddCommand(rewriteCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func rewriteCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "rewrite [dir...]",
		Short: "Rewrite eligible literals in place and write the translation file",
		Long: `Walks the given directories (or the configured targets), replaces every
eligible string literal with '<value>'.tr(), adds the localization import to
each modified file, and writes every collected string to the output file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd, args)
			if err != nil {
				return err
			}
			if err := resolvePackage(cfg); err != nil {
				return err
			}
			return runRewrite(cmd, cfg, flags.dryRun)
		},
	}
	flags.register(cmd, true, true)
	return cmd
}

func extractCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "extract [dir...]",
		Short: "Collect eligible literals into the translation file without touching sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd, args)
			if err != nil {
				return err
			}
			// Sources are never written, so the import is irrelevant here.
			cfg.Import = ""
			cfg.Package = ""
			return runRewrite(cmd, cfg, true)
		},
	}
	flags.register(cmd, true, false)
	return cmd
}

func scanCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "scan <path>...",
		Short: "Show every literal and why it would or would not be rewritten",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd, args)
			if err != nil {
				return err
			}
			return runScan(cmd, cfg)
		},
	}
	flags.register(cmd, false, false)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "tr-localizer", Version)
		},
	}
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, stopping after the current file...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// runRewrite handles the `rewrite` and `extract` commands.
func runRewrite(cmd *cobra.Command, cfg *config.Config, dryRun bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	rw, err := newRewriter(cfg)
	if err != nil {
		return err
	}

	w, err := filewalker.NewWalker(cfg.Extensions, cfg.Excludes)
	if err != nil {
		return err
	}
	entries, err := w.Walk(cfg.Targets...)
	if err != nil {
		return fmt.Errorf("walk targets: %w", err)
	}

	log.Info().
		Int("files", len(entries)).
		Str("scanner", cfg.Scanner).
		Str("package", cfg.Package).
		Bool("dry_run", dryRun).
		Msg("Starting rewrite")

	p := pipeline.New(rw, registry.New())
	p.DryRun = dryRun
	summary := p.Run(ctx, entries)

	// The document reflects whatever was collected, even after per-file failures.
	written, docErr := p.WriteDocument(cfg.Output, cfg.DocumentFormat())
	if docErr != nil {
		log.Error().Err(docErr).Str("path", cfg.Output).Msg("Translation document not written")
	}

	newReporter(cmd.OutOrStdout()).summary(summary, p.Registry().Len(), cfg.Output, written, dryRun)

	var errs []error
	if len(summary.Failures) > 0 {
		errs = append(errs, fmt.Errorf("%d of %d files failed", len(summary.Failures), summary.Files))
	}
	if docErr != nil {
		errs = append(errs, docErr)
	}
	if err := ctx.Err(); err != nil {
		errs = append(errs, fmt.Errorf("run interrupted: %w", err))
	}
	return errors.Join(errs...)
}

// runScan handles the `scan` command.
func runScan(cmd *cobra.Command, cfg *config.Config) error {
	rw, err := newRewriter(cfg)
	if err != nil {
		return err
	}

	w, err := filewalker.NewWalker(cfg.Extensions, cfg.Excludes)
	if err != nil {
		return err
	}
	entries, err := w.Walk(cfg.Targets...)
	if err != nil {
		return fmt.Errorf("walk targets: %w", err)
	}

	rep := newReporter(cmd.OutOrStdout())
	failed := 0
	for _, entry := range entries {
		src, err := os.ReadFile(entry.Path)
		if err != nil {
			log.Error().Err(err).Str("file", entry.Path).Msg("Read failed")
			failed++
			continue
		}
		rep.scan(entry.Path, src, rw.Classify(src))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be read", failed, len(entries))
	}
	return nil
}

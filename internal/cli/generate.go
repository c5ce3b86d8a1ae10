package cli

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/roach88/valobs/internal/config"
	"github.com/roach88/valobs/internal/gosrc"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 150 * time.Millisecond

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	DryRun  bool
	Cache   string
	Workers int
	Watch   bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate [patterns...]",
		Short: "Expand templates into generated files",
		Long: `Load the packages matching patterns (default ./...) with the valobs
build tag, expand every template and write the generated files.

Exit codes:
  0 - Generated without diagnostics
  1 - One or more diagnostics were produced
  2 - Command error (bad config, load failure, etc.)

Examples:
  valobs generate
  valobs generate ./internal/... --dry-run
  valobs generate --cache .valobs/cache.db --workers 8
  valobs generate --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "compute outputs without writing them")
	cmd.Flags().StringVar(&opts.Cache, "cache", "", "expansion cache database (overrides config)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "files processed concurrently (overrides config)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "regenerate when templates change")

	return cmd
}

func runGenerate(ctx context.Context, opts *GenerateOptions, patterns []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return commandError(formatter, err)
	}
	if cmd.Flags().Changed("workers") {
		if opts.Workers < 1 {
			return commandError(formatter, &LoadError{Code: ErrCodeBadFlag, Message: "--workers must be at least 1"})
		}
		cfg.Workers = opts.Workers
	}
	if opts.Cache != "" {
		cfg.Cache = opts.Cache
	}

	gen := &gosrc.Generator{Config: cfg, Logger: opts.Logger, DryRun: opts.DryRun}
	if cfg.Cache != "" {
		st, err := openCache(opts.Dir, cfg.Cache)
		if err != nil {
			return commandError(formatter, err)
		}
		defer st.Close()
		gen.Cache = st
	}

	if opts.Watch {
		return watchTemplates(ctx, opts, gen, patterns, formatter)
	}

	report, err := generateOnce(ctx, opts.Dir, gen, patterns)
	if err != nil {
		return commandError(formatter, err)
	}
	if err := outputGenerate(formatter, report, opts.DryRun); err != nil {
		return err
	}
	return diagnosticsFailure(report)
}

func generateOnce(ctx context.Context, dir string, gen *gosrc.Generator, patterns []string) (GenerateReport, error) {
	results, err := gen.Generate(ctx, dir, patterns)
	if err != nil {
		return GenerateReport{}, &LoadError{Code: ErrCodeLoadFailed, Message: err.Error()}
	}
	return newGenerateReport(results), nil
}

func outputGenerate(f *OutputFormatter, report GenerateReport, dryRun bool) error {
	if f.JSON() {
		var failure *CLIError
		if report.Diagnostics > 0 {
			failure = &CLIError{Code: ErrCodeDiagnostics, Message: fmt.Sprintf("%d diagnostic(s)", report.Diagnostics)}
		}
		return f.Respond(report, failure)
	}

	w := f.Writer
	printer := newDiagnosticPrinter(w)
	for _, file := range report.Files {
		mark := "✓"
		if len(file.Diagnostics) > 0 {
			mark = "✗"
		}
		status := ""
		switch {
		case dryRun:
			status = " (dry run)"
		case file.Cached && !file.Written:
			status = " (cached, unchanged)"
		case file.Cached:
			status = " (cached)"
		case !file.Written:
			status = " (unchanged)"
		}
		fmt.Fprintf(w, "%s %s → %s%s\n", mark, file.Path, file.Output, status)
		for _, d := range file.Diagnostics {
			fmt.Fprint(w, "  ")
			printer.print(d)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Generate Summary: %d template(s), %d written, %d cached, %d diagnostic(s)\n",
		len(report.Files), report.Written, report.Cached, report.Diagnostics)
	return nil
}

// watchTemplates regenerates whenever a Go file under opts.Dir changes,
// until ctx is done. Generated files are ignored.
func watchTemplates(ctx context.Context, opts *GenerateOptions, gen *gosrc.Generator, patterns []string, f *OutputFormatter) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return commandError(f, fmt.Errorf("create watcher: %w", err))
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, opts.Dir); err != nil {
		return commandError(f, err)
	}

	run := func() {
		report, err := generateOnce(ctx, opts.Dir, gen, patterns)
		if err != nil {
			opts.Logger.Error().Err(err).Msg("generate failed")
			return
		}
		if err := outputGenerate(f, report, opts.DryRun); err != nil {
			opts.Logger.Error().Err(err).Msg("write report")
		}
	}
	run()
	opts.Logger.Info().Str("dir", opts.Dir).Msg("watching for template changes")

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantChange(event, gen.Config) {
				continue
			}
			opts.Logger.Debug().Str("event", event.Op.String()).Str("file", event.Name).Msg("template changed")
			debounce = time.After(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Error().Err(err).Msg("file watcher error")

		case <-debounce:
			debounce = nil
			run()
		}
	}
}

// addWatchDirs watches dir and every directory below it except hidden,
// vendor and testdata directories.
func addWatchDirs(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != dir && (strings.HasPrefix(name, ".") || name == "vendor" || name == "testdata") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// relevantChange reports whether event touches a Go file the generator did
// not write itself.
func relevantChange(event fsnotify.Event, cfg config.Config) bool {
	if filepath.Ext(event.Name) != ".go" || strings.HasSuffix(event.Name, cfg.OutputSuffix) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

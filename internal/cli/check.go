package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/valobs/internal/gosrc"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [patterns...]",
		Short: "Report diagnostics without writing files",
		Long: `Expand every template in memory and report diagnostics only.

Nothing is written and the cache is not consulted. Diagnostics are colored
when stdout is a terminal.

Exit codes:
  0 - No diagnostics
  1 - One or more diagnostics were produced
  2 - Command error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args, cmd)
		},
	}
}

func runCheck(opts *RootOptions, patterns []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts)
	if err != nil {
		return commandError(formatter, err)
	}

	gen := &gosrc.Generator{Config: cfg, Logger: opts.Logger, DryRun: true}
	report, err := generateOnce(cmd.Context(), opts.Dir, gen, patterns)
	if err != nil {
		return commandError(formatter, err)
	}

	if formatter.JSON() {
		var failure *CLIError
		if report.Diagnostics > 0 {
			failure = &CLIError{Code: ErrCodeDiagnostics, Message: fmt.Sprintf("%d diagnostic(s)", report.Diagnostics)}
		}
		if err := formatter.Respond(report, failure); err != nil {
			return err
		}
		return diagnosticsFailure(report)
	}

	w := formatter.Writer
	printer := newDiagnosticPrinter(w)
	for _, file := range report.Files {
		for _, d := range file.Diagnostics {
			printer.print(d)
		}
	}
	if report.Diagnostics == 0 {
		fmt.Fprintf(w, "✓ %d template(s), no diagnostics\n", len(report.Files))
		return nil
	}
	fmt.Fprintf(w, "\n%d diagnostic(s), %d error(s) in %d template(s)\n", report.Diagnostics, report.Errors, len(report.Files))
	return diagnosticsFailure(report)
}

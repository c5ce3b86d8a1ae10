package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/roach88/valobs/internal/gosrc"
	"github.com/roach88/valobs/internal/ir"
)

// diagnosticPrinter writes diagnostics in the compiler's file:line:col
// format, colored when the writer is a terminal.
type diagnosticPrinter struct {
	w        io.Writer
	location *color.Color
	severity map[ir.Severity]*color.Color
}

func newDiagnosticPrinter(w io.Writer) *diagnosticPrinter {
	p := &diagnosticPrinter{
		w:        w,
		location: color.New(color.Bold),
		severity: map[ir.Severity]*color.Color{
			ir.SeverityError:   color.New(color.FgRed, color.Bold),
			ir.SeverityWarning: color.New(color.FgYellow, color.Bold),
			ir.SeverityNote:    color.New(color.FgCyan),
		},
	}
	colors := []*color.Color{p.location}
	for _, c := range p.severity {
		colors = append(colors, c)
	}
	for _, c := range colors {
		if isTerminal(w) {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *diagnosticPrinter) print(d ir.Diagnostic) {
	sev := p.severity[d.Severity]
	if sev == nil {
		sev = p.location
	}
	fmt.Fprintf(p.w, "%s: %s: %s [%s]\n", p.location.Sprint(d.Pos), sev.Sprint(d.Severity), d.Message, d.Code)
}

// FileReport is the outcome for one template.
type FileReport struct {
	Path        string          `json:"path"`
	Output      string          `json:"output"`
	Cached      bool            `json:"cached"`
	Written     bool            `json:"written"`
	Diagnostics []ir.Diagnostic `json:"diagnostics"`
}

// GenerateReport summarizes a generator run.
type GenerateReport struct {
	Files       []FileReport `json:"files"`
	Written     int          `json:"written"`
	Cached      int          `json:"cached"`
	Diagnostics int          `json:"diagnostics"`
	Errors      int          `json:"errors"`
}

func newGenerateReport(results []*gosrc.Result) GenerateReport {
	report := GenerateReport{Files: make([]FileReport, 0, len(results))}
	for _, res := range results {
		diags := res.Diagnostics
		if diags == nil {
			diags = []ir.Diagnostic{}
		}
		report.Files = append(report.Files, FileReport{
			Path:        res.Path,
			Output:      res.OutputPath,
			Cached:      res.Cached,
			Written:     res.Written,
			Diagnostics: diags,
		})
		if res.Written {
			report.Written++
		}
		if res.Cached {
			report.Cached++
		}
		report.Diagnostics += len(diags)
		for _, d := range diags {
			if d.Severity == ir.SeverityError {
				report.Errors++
			}
		}
	}
	return report
}

// diagnosticsFailure is the exit error for a run that produced diagnostics.
func diagnosticsFailure(report GenerateReport) error {
	if report.Diagnostics == 0 {
		return nil
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d diagnostic(s), %d error(s)", report.Diagnostics, report.Errors))
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/valobs/internal/gosrc"
	"github.com/roach88/valobs/internal/ir"
)

// Explanation is the expansion IR of one template.
type Explanation struct {
	Path        string               `json:"path"`
	Output      string               `json:"output"`
	Expansions  []*ir.Expansion      `json:"expansions"`
	Standalone  []ir.MemberExpansion `json:"standalone,omitempty"`
	Diagnostics []ir.Diagnostic      `json:"diagnostics"`
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <file>",
		Short: "Print the expansion IR of a template as JSON",
		Long: `Run the engine over one template and print what it decided for every
declaration: member classifications, accessor paths, comparison variants,
support members and diagnostics. Nothing is written.

The file is type-checked on its own, so capabilities of types declared in
sibling files fall back to syntax.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(rootOpts, args[0], cmd)
		},
	}
}

func runExplain(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts)
	if err != nil {
		return commandError(formatter, err)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return commandError(formatter, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("read %s: %v", path, err)})
	}
	res, err := gosrc.ProcessSource(path, src, cfg)
	if err != nil {
		return commandError(formatter, &LoadError{Code: ErrCodeLoadFailed, Message: err.Error()})
	}

	explanation := Explanation{
		Path:        res.Path,
		Output:      res.OutputPath,
		Expansions:  res.Expansions,
		Standalone:  res.Standalone,
		Diagnostics: res.Diagnostics,
	}
	if formatter.JSON() {
		return formatter.Respond(explanation, nil)
	}

	data, err := json.MarshalIndent(explanation, "", "  ")
	if err != nil {
		return fmt.Errorf("encode explanation: %w", err)
	}
	fmt.Fprintln(formatter.Writer, string(data))
	return nil
}

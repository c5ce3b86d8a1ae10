package gosrc

import (
	"fmt"
	"strings"

	"github.com/roach88/valobs/internal/compiler"
	"github.com/roach88/valobs/internal/config"
	"github.com/roach88/valobs/internal/ir"
)

// Result is the outcome of processing one template.
type Result struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
	// Output is the generated file.
	Output []byte `json:"-"`

	Expansions []*ir.Expansion `json:"expansions"`
	// Standalone holds rewrites of observe-marked fields in types without
	// the record directive.
	Standalone  []ir.MemberExpansion `json:"standalone,omitempty"`
	Diagnostics []ir.Diagnostic      `json:"diagnostics"`

	Cached  bool `json:"cached,omitempty"`
	Written bool `json:"written,omitempty"`
}

// Failed reports whether any diagnostic is an error.
func (r *Result) Failed() bool {
	return ir.HasErrors(r.Diagnostics)
}

// EngineOptions derives the engine options for cfg.
func EngineOptions(cfg config.Config) compiler.Options {
	opts := compiler.DefaultOptions()
	opts.DirectiveName = cfg.Directive(DirObservable)
	return opts
}

// Process runs the engine over every directive in f and renders the output
// file. A declaration that fails validation is left as written; its
// siblings are still expanded.
func Process(f *File, cfg config.Config) (*Result, error) {
	opts := EngineOptions(cfg)
	ex := extract(f, cfg.DirectivePrefix)

	res := &Result{
		Path:        f.Path,
		OutputPath:  cfg.OutputPath(f.Path),
		Expansions:  []*ir.Expansion{},
		Diagnostics: append([]ir.Diagnostic{}, ex.diagnostics...),
	}

	edits, err := constraintEdits(f, cfg.BuildTag)
	if err != nil {
		return nil, err
	}

	needUUID, needObservation := false, false
	for _, t := range ex.targets {
		if t.standalone {
			var members []ir.MemberExpansion
			storage := map[string]string{}
			for _, m := range t.decl.Members {
				if m.Directive != ir.DirectiveObserving {
					continue
				}
				me := compiler.TransformMember(&t.decl, m, opts)
				members = append(members, me)
				if me.Accessor != nil {
					storage[m.Name] = me.Accessor.Storage
				}
			}
			res.Standalone = append(res.Standalone, members...)
			if len(storage) == 0 {
				continue
			}
			methods, err := renderStandalone(f, t, members, opts.Names)
			if err != nil {
				return nil, err
			}
			edits = append(edits, recordEdits(f, t, storage, "", methods, false)...)
			needObservation = true
			continue
		}

		exp := compiler.Augment(t.decl, opts)
		res.Expansions = append(res.Expansions, exp)
		res.Diagnostics = append(res.Diagnostics, exp.Diagnostics...)
		if exp.Failed() {
			continue
		}

		storage := map[string]string{}
		for _, acc := range exp.Accessors() {
			storage[acc.Member] = acc.Storage
		}
		methods, err := renderRecord(f, t, exp, opts.Names)
		if err != nil {
			return nil, err
		}
		fields := supportFields(opts.Names)
		edits = append(edits, recordEdits(f, t, storage, fields, methods, true)...)
		needUUID, needObservation = true, true
	}

	// Observe directives outside any type are erased and nothing else.
	for _, c := range ex.strays {
		edits = append(edits, removeLine(f.Src, f.offset(c.Slash), f.offset(c.End())))
	}

	spliced, err := applyEdits(f.Src, edits)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	out, err := finish(res.OutputPath, spliced, needUUID, needObservation)
	if err != nil {
		return nil, err
	}
	res.Output = out
	return res, nil
}

func supportFields(names compiler.Names) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "\t%s uuid.UUID\n", names.Identity)
	fmt.Fprintf(&b, "\t%s *observation.Registrar\n", names.Registrar)
	return b.String()
}

// ProcessSource parses, type-checks and processes a single template.
func ProcessSource(path string, src []byte, cfg config.Config) (*Result, error) {
	f, err := ParseFile(path, src)
	if err != nil {
		return nil, err
	}
	f.TypeCheck()
	return Process(f, cfg)
}

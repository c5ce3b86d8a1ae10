package gosrc

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/valobs/internal/config"
	"github.com/roach88/valobs/internal/ir"
	"github.com/roach88/valobs/internal/store"
)

// Cache is the part of the expansion store the generator uses.
type Cache interface {
	Lookup(ctx context.Context, sourceHash string) (*store.Entry, bool, error)
	Put(ctx context.Context, e store.Entry) error
}

// Generator expands templates into generated files.
type Generator struct {
	Config config.Config
	// Cache is optional.
	Cache  Cache
	Logger zerolog.Logger
	// DryRun computes outputs without writing them.
	DryRun bool
}

// Generate loads the packages matching patterns under dir and expands their
// templates.
func (g *Generator) Generate(ctx context.Context, dir string, patterns []string) ([]*Result, error) {
	files, err := Load(ctx, dir, g.Config.BuildTag, g.Config.DirectivePrefix, patterns)
	if err != nil {
		return nil, err
	}
	g.Logger.Debug().Int("templates", len(files)).Strs("patterns", patterns).Msg("loaded packages")
	return g.GenerateFiles(ctx, files)
}

// GenerateFiles expands files concurrently, at most Config.Workers at a time.
// Results are in the order of files. Diagnostics never stop other files; an
// I/O or rendering error cancels the run.
func (g *Generator) GenerateFiles(ctx context.Context, files []*File) ([]*Result, error) {
	results := make([]*Result, len(files))
	if len(files) == 0 {
		return results, nil
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(min(max(g.Config.Workers, 1), len(files)))

	for i, f := range files {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := g.generateFile(gctx, f)
			if err != nil {
				return err
			}
			// Indices are unique per goroutine.
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (g *Generator) generateFile(ctx context.Context, f *File) (*Result, error) {
	hash, err := ir.SourceHash(f.Path, f.Src, g.Config.Fingerprint(), declarationsOf(f, g.Config.DirectivePrefix))
	if err != nil {
		return nil, err
	}

	var res *Result
	if g.Cache != nil {
		entry, ok, err := g.Cache.Lookup(ctx, hash)
		if err != nil {
			g.Logger.Warn().Err(err).Str("file", f.Path).Msg("cache lookup failed")
		} else if ok {
			res = &Result{
				Path:        f.Path,
				OutputPath:  g.Config.OutputPath(f.Path),
				Output:      entry.Output,
				Expansions:  []*ir.Expansion{},
				Diagnostics: []ir.Diagnostic{},
				Cached:      true,
			}
		}
	}

	declarations := 0
	if res == nil {
		res, err = Process(f, g.Config)
		if err != nil {
			return nil, err
		}
		declarations = len(res.Expansions)
		if g.Cache != nil && len(res.Diagnostics) == 0 {
			err := g.Cache.Put(ctx, store.Entry{
				SourceHash:   hash,
				Path:         f.Path,
				Output:       res.Output,
				Declarations: declarations,
			})
			if err != nil {
				g.Logger.Warn().Err(err).Str("file", f.Path).Msg("cache put failed")
			}
		}
	}

	if !g.DryRun {
		written, err := writeIfChanged(res.OutputPath, res.Output)
		if err != nil {
			return nil, err
		}
		res.Written = written
	}

	g.Logger.Info().
		Str("file", f.Path).
		Int("declarations", declarations).
		Bool("cached", res.Cached).
		Int("diagnostics", len(res.Diagnostics)).
		Bool("written", res.Written).
		Msg("processed template")
	return res, nil
}

// declarationsOf returns the declarations f's directives target, with
// capabilities resolved against the loaded package.
func declarationsOf(f *File, prefix string) []ir.Declaration {
	ex := extract(f, prefix)
	decls := make([]ir.Declaration, 0, len(ex.targets))
	for _, t := range ex.targets {
		decls = append(decls, t.decl)
	}
	return decls
}

// writeIfChanged leaves an identical file alone so watchers and build
// caches see no change.
func writeIfChanged(path string, content []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

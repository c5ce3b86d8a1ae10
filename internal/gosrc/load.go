package gosrc

import (
	"context"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"os"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedImports |
	packages.NeedDeps |
	packages.NeedTypes |
	packages.NeedTypesInfo

// Load type-checks the packages matching patterns with tag enabled and
// returns their template files, sorted by path. Packages are checked from
// source so type errors arrive as TypeErrors and are tolerated: templates
// call accessors that do not exist until generated.
func Load(ctx context.Context, dir, tag, prefix string, patterns []string) ([]*File, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	cfg := &packages.Config{
		Context:    ctx,
		Mode:       loadMode,
		Dir:        dir,
		BuildFlags: []string{"-tags=" + tag},
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	var files []*File
	var loadErrs []string
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if e.Kind == packages.ListError {
				loadErrs = append(loadErrs, e.Error())
			}
		}

		var templates []*ast.File
		var paths []string
		for i, syntax := range pkg.Syntax {
			if i >= len(pkg.CompiledGoFiles) || !IsTemplate(syntax, tag) {
				continue
			}
			templates = append(templates, syntax)
			paths = append(paths, pkg.CompiledGoFiles[i])
		}
		if len(templates) == 0 {
			continue
		}

		observable := map[string]bool{}
		for _, syntax := range templates {
			for name := range observableTypes(syntax, prefix) {
				observable[name] = true
			}
		}
		for i, syntax := range templates {
			src, err := os.ReadFile(paths[i])
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", paths[i], err)
			}
			files = append(files, &File{
				Path:       paths[i],
				Src:        src,
				Fset:       pkg.Fset,
				AST:        syntax,
				Info:       pkg.TypesInfo,
				Pkg:        pkg.Types,
				Observable: observable,
			})
		}
	}
	if len(loadErrs) > 0 {
		return nil, fmt.Errorf("load packages: %s", strings.Join(loadErrs, "; "))
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// IsTemplate reports whether f's build constraint requires tag. Generated
// files, constrained by !tag, are not templates.
func IsTemplate(f *ast.File, tag string) bool {
	for _, g := range f.Comments {
		if g.Pos() >= f.Package {
			break
		}
		for _, c := range g.List {
			if !constraint.IsGoBuild(c.Text) {
				continue
			}
			expr, err := constraint.Parse(c.Text)
			if err == nil && requiresTag(expr, tag) {
				return true
			}
		}
	}
	return false
}

// requiresTag reports whether expr holds with tag set and fails without it,
// every other tag being satisfied.
func requiresTag(expr constraint.Expr, tag string) bool {
	with := expr.Eval(func(string) bool { return true })
	without := expr.Eval(func(t string) bool { return t != tag })
	return with && !without
}

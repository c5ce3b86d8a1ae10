package gosrc

import (
	"go/ast"
	"go/token"
	"strings"
)

// Directive names after the prefix.
const (
	DirObservable = "observable"
	DirObserve    = "observe"
	DirIgnore     = "ignore"
	DirReadonly   = "readonly"
	DirDefault    = "default"
)

var knownDirectives = map[string]bool{
	DirObservable: true,
	DirObserve:    true,
	DirIgnore:     true,
	DirReadonly:   true,
	DirDefault:    true,
}

// directive is one parsed //<prefix>:<name> [arg] comment.
type directive struct {
	Name    string
	Arg     string
	Comment *ast.Comment
}

func (d directive) Pos() token.Pos { return d.Comment.Slash }

// parseDirectives returns the directives found in the given comment groups,
// in source order. Like //go: directives they must start at "//" with no
// space.
func parseDirectives(prefix string, groups ...*ast.CommentGroup) []directive {
	marker := "//" + prefix + ":"
	var out []directive
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			rest, ok := strings.CutPrefix(c.Text, marker)
			if !ok {
				continue
			}
			name, arg, _ := strings.Cut(rest, " ")
			out = append(out, directive{
				Name:    strings.TrimSpace(name),
				Arg:     strings.TrimSpace(arg),
				Comment: c,
			})
		}
	}
	return out
}

func findDirective(dirs []directive, name string) (directive, bool) {
	for _, d := range dirs {
		if d.Name == name {
			return d, true
		}
	}
	return directive{}, false
}

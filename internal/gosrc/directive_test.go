package gosrc

import (
	"go/ast"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentGroup(lines ...string) *ast.CommentGroup {
	g := &ast.CommentGroup{}
	for _, l := range lines {
		g.List = append(g.List, &ast.Comment{Text: l})
	}
	return g
}

func TestParseDirectives(t *testing.T) {
	doc := commentGroup(
		"// Count is the number of items.",
		"//valobs:observe",
		"//valobs:default 42",
		"// valobs:ignore",
		"//other:observe",
	)
	trailing := commentGroup("//valobs:readonly")

	dirs := parseDirectives("valobs", doc, nil, trailing)
	require.Len(t, dirs, 3)
	assert.Equal(t, DirObserve, dirs[0].Name)
	assert.Equal(t, DirDefault, dirs[1].Name)
	assert.Equal(t, "42", dirs[1].Arg)
	assert.Equal(t, DirReadonly, dirs[2].Name)
}

func TestParseDirectivesDefaultExpression(t *testing.T) {
	dirs := parseDirectives("valobs", commentGroup(`//valobs:default []string{"a", "b"}`))
	require.Len(t, dirs, 1)
	assert.Equal(t, `[]string{"a", "b"}`, dirs[0].Arg)
}

func TestParseDirectivesCustomPrefix(t *testing.T) {
	dirs := parseDirectives("obs", commentGroup("//valobs:observe", "//obs:ignore"))
	require.Len(t, dirs, 1)
	assert.Equal(t, DirIgnore, dirs[0].Name)

	_, ok := findDirective(dirs, DirIgnore)
	assert.True(t, ok)
	_, ok = findDirective(dirs, DirObserve)
	assert.False(t, ok)
}

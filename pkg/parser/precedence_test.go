package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smogvm/smog/pkg/ast"
)

// Unary sends bind tightest, then binary sends, then keyword sends —
// the classic Smalltalk precedence ladder.

func TestPrecedenceUnaryBeforeBinary(t *testing.T) {
	// "1 foo + 2" should parse as "(1 foo) + 2", not "1 (foo + 2)".
	p := New(`Foo = Object ( bar = ( ^1 foo + 2 ) )`)
	cls, err := p.Parse()
	require.NoError(t, err)
	ret := cls.Methods[0].Body.Exprs[0].(*ast.Return)
	bin, ok := ret.Expr.(*ast.BinaryMsg)
	require.True(t, ok)
	require.Equal(t, "+", bin.Op)
	unary, ok := bin.LHS.(*ast.UnaryMsg)
	require.True(t, ok)
	require.Equal(t, []string{"foo"}, unary.Selectors)
}

func TestPrecedenceBinaryBeforeKeyword(t *testing.T) {
	// "coll at: 1 + 2 put: 3" should parse the binary arg before the
	// keyword send assembles.
	p := New(`Foo = Object ( bar = ( ^coll at: 1 + 2 put: 3 ) )`)
	cls, err := p.Parse()
	require.NoError(t, err)
	ret := cls.Methods[0].Body.Exprs[0].(*ast.Return)
	kw, ok := ret.Expr.(*ast.KeywordMsg)
	require.True(t, ok)
	require.Equal(t, []string{"at:", "put:"}, kw.Keywords)
	firstArg, ok := kw.Args[0].(*ast.BinaryMsg)
	require.True(t, ok)
	require.Equal(t, "+", firstArg.Op)
}

func TestPrecedenceBinaryIsLeftAssociative(t *testing.T) {
	// "1 + 2 + 3" parses as "(1 + 2) + 3".
	p := New(`Foo = Object ( bar = ( ^1 + 2 + 3 ) )`)
	cls, err := p.Parse()
	require.NoError(t, err)
	ret := cls.Methods[0].Body.Exprs[0].(*ast.Return)
	outer, ok := ret.Expr.(*ast.BinaryMsg)
	require.True(t, ok)
	inner, ok := outer.LHS.(*ast.BinaryMsg)
	require.True(t, ok)
	require.Equal(t, "+", inner.Op)
	litRHS, ok := outer.RHS.(*ast.Int)
	require.True(t, ok)
	require.Equal(t, "3", litRHS.Text)
}

func TestPrecedenceUnaryChainAppliesLeftToRight(t *testing.T) {
	// "1 foo bar" applies "foo" then "bar" to the result, not nested.
	p := New(`Foo = Object ( baz = ( ^1 foo bar ) )`)
	cls, err := p.Parse()
	require.NoError(t, err)
	ret := cls.Methods[0].Body.Exprs[0].(*ast.Return)
	unary, ok := ret.Expr.(*ast.UnaryMsg)
	require.True(t, ok)
	require.Equal(t, []string{"foo", "bar"}, unary.Selectors)
	_, ok = unary.Receiver.(*ast.Int)
	require.True(t, ok)
}

func TestPrecedenceParenthesesOverridePrecedence(t *testing.T) {
	p := New(`Foo = Object ( bar = ( ^1 + (2 + 3) ) )`)
	cls, err := p.Parse()
	require.NoError(t, err)
	ret := cls.Methods[0].Body.Exprs[0].(*ast.Return)
	outer := ret.Expr.(*ast.BinaryMsg)
	_, ok := outer.RHS.(*ast.BinaryMsg)
	require.True(t, ok)
	_, ok = outer.LHS.(*ast.Int)
	require.True(t, ok)
}

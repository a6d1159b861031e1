package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smogvm/smog/pkg/ast"
)

func TestParseMinimalClass(t *testing.T) {
	src := `Counter = Object (
    |count|
    init = ( count := 0 )
    increment = ( count := count + 1 )
    count = ( ^count )
)`
	p := New(src)
	cls, err := p.Parse()
	require.NoError(t, err)
	require.Equal(t, "Counter", cls.Name)
	require.Equal(t, "Object", cls.SuperName)
	require.Equal(t, []string{"count"}, cls.InstVars)
	require.Len(t, cls.Methods, 3)

	require.Equal(t, "init", cls.Methods[0].Name.Selector)
	require.Equal(t, ast.Unary, cls.Methods[0].Name.Kind)

	countMethod := cls.Methods[2]
	require.Len(t, countMethod.Body.Exprs, 1)
	ret, ok := countMethod.Body.Exprs[0].(*ast.Return)
	require.True(t, ok)
	vl, ok := ret.Expr.(*ast.VarLookup)
	require.True(t, ok)
	require.Equal(t, "count", vl.Name)
}

func TestParseClassWithNoExplicitSuperclass(t *testing.T) {
	p := New(`Root = ( foo = ( ^1 ) )`)
	cls, err := p.Parse()
	require.NoError(t, err)
	require.Equal(t, "", cls.SuperName)
}

func TestParseBinaryMethod(t *testing.T) {
	p := New(`Vec = Object ( |x| + other = ( ^x + other ) )`)
	cls, err := p.Parse()
	require.NoError(t, err)
	m := cls.Methods[0]
	require.Equal(t, ast.Binary, m.Name.Kind)
	require.Equal(t, "+", m.Name.Selector)
	require.Equal(t, []string{"other"}, m.Name.Params)
}

func TestParseKeywordMethod(t *testing.T) {
	p := New(`Dict = Object ( at: k put: v = ( ^nil ) )`)
	cls, err := p.Parse()
	require.NoError(t, err)
	m := cls.Methods[0]
	require.Equal(t, ast.Keyword, m.Name.Kind)
	require.Equal(t, "at:put:", m.Name.Selector)
	require.Equal(t, []string{"k", "v"}, m.Name.Params)
}

func TestParsePrimitiveMethod(t *testing.T) {
	p := New(`Integer = Object ( + other = primitive )`)
	cls, err := p.Parse()
	require.NoError(t, err)
	require.True(t, cls.Methods[0].Body.IsPrimitive)
}

func TestParseBlockLiteralWithParamsAndLocals(t *testing.T) {
	p := New(`Foo = Object (
        bar = ( [:a :b | |t| t := a + b. t] value: 1 value: 2 )
    )`)
	cls, err := p.Parse()
	require.NoError(t, err)
	kw, ok := cls.Methods[0].Body.Exprs[0].(*ast.KeywordMsg)
	require.True(t, ok)
	block, ok := kw.Receiver.(*ast.Block)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, block.Params)
	require.Equal(t, []string{"t"}, block.Vars)
	require.Len(t, block.Exprs, 2)
}

func TestParseNegativeNumberLiterals(t *testing.T) {
	p := New(`Foo = Object ( bar = ( ^-5 ) )`)
	cls, err := p.Parse()
	require.NoError(t, err)
	ret := cls.Methods[0].Body.Exprs[0].(*ast.Return)
	i, ok := ret.Expr.(*ast.Int)
	require.True(t, ok)
	require.True(t, i.IsNegative)
	require.Equal(t, "5", i.Text)
}

func TestParseAssignment(t *testing.T) {
	p := New(`Foo = Object ( |x| bar = ( x := 1 + 2. ^x ) )`)
	cls, err := p.Parse()
	require.NoError(t, err)
	assign, ok := cls.Methods[0].Body.Exprs[0].(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "x", assign.ID)
}

func TestParseErrorOnMissingEquals(t *testing.T) {
	p := New(`Foo Object ( )`)
	_, err := p.Parse()
	require.Error(t, err)
}

func TestParseSymbolAndStringLiterals(t *testing.T) {
	p := New(`Foo = Object ( bar = ( ^#sym ) baz = ( ^'a string' ) )`)
	cls, err := p.Parse()
	require.NoError(t, err)
	sym := cls.Methods[0].Body.Exprs[0].(*ast.Return).Expr.(*ast.Symbol)
	require.Equal(t, "sym", sym.Text)
	str := cls.Methods[1].Body.Exprs[0].(*ast.Return).Expr.(*ast.String)
	require.Equal(t, "a string", str.Text)
}

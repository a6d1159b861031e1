package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smogvm/smog/pkg/ast"
	"github.com/smogvm/smog/pkg/bytecode"
	"github.com/smogvm/smog/pkg/parser"
)

func compileSource(t *testing.T, src string) (*ast.Class, *bytecode.Class) {
	t.Helper()
	p := parser.New(src)
	cls, err := p.Parse()
	require.NoError(t, err)
	c := New(cls.Name, cls.InstVars)
	bc, err := c.Compile(cls)
	require.NoError(t, err)
	return cls, bc
}

func TestCompilePrimitiveMethod(t *testing.T) {
	_, bc := compileSource(t, `Integer = Object ( + other = primitive )`)
	require.Len(t, bc.Methods, 1)
	require.True(t, bc.Methods[0].IsPrimitive)
	require.Equal(t, "+", bc.Methods[0].PrimitiveName)
}

func TestCompileInstVarAccess(t *testing.T) {
	_, bc := compileSource(t, `Counter = Object (
        |count|
        increment = ( count := count + 1 )
    )`)
	m := bc.Methods[0]
	var sawGet, sawSet bool
	for _, instr := range m.Instrs {
		if instr.Op == bytecode.InstVarLookup {
			sawGet = true
			require.Equal(t, 0, instr.Slot)
		}
		if instr.Op == bytecode.InstVarSet {
			sawSet = true
			require.Equal(t, 0, instr.Slot)
		}
	}
	require.True(t, sawGet)
	require.True(t, sawSet)
}

func TestCompileUnknownVariableIsError(t *testing.T) {
	p := parser.New(`Foo = Object ( bar = ( ^qux ) )`)
	cls, err := p.Parse()
	require.NoError(t, err)
	c := New(cls.Name, cls.InstVars)
	_, err = c.Compile(cls)
	require.Error(t, err)
}

func TestCompileStringInterningDedupes(t *testing.T) {
	_, bc := compileSource(t, `Foo = Object (
        bar = ( ^'hi' )
        baz = ( ^'hi' )
    )`)
	require.Len(t, bc.Strings, 1)
}

func TestCompileSymbolInterningDedupes(t *testing.T) {
	_, bc := compileSource(t, `Foo = Object (
        bar = ( ^#sym )
        baz = ( ^#sym )
    )`)
	require.Len(t, bc.Symbols, 1)
}

func TestCompileBlockProducesBlockInstrAndInfo(t *testing.T) {
	_, bc := compileSource(t, `Foo = Object (
        bar = ( ^[:x | x + 1] value: 1 )
    )`)
	m := bc.Methods[0]
	require.Len(t, m.Blocks, 1)
	require.Equal(t, 1, m.Blocks[0].NumParams)

	var found bool
	for _, instr := range m.Instrs {
		if instr.Op == bytecode.Block {
			found = true
			require.Greater(t, instr.BlockLen, 0)
		}
	}
	require.True(t, found)
}

func TestCompileNonLocalReturnDepth(t *testing.T) {
	_, bc := compileSource(t, `Foo = Object (
        bar = ( [:x | ^x] value: 1. ^0 )
    )`)
	m := bc.Methods[0]
	var sawClosureReturn bool
	for _, instr := range m.Instrs {
		if instr.Op == bytecode.ClosureReturn {
			sawClosureReturn = true
			require.Equal(t, 1, instr.Depth)
		}
	}
	require.True(t, sawClosureReturn)
}

func TestCompileImplicitSelfReturn(t *testing.T) {
	_, bc := compileSource(t, `Foo = Object ( bar = ( 1 + 1 ) )`)
	m := bc.Methods[0]
	last := m.Instrs[len(m.Instrs)-1]
	require.Equal(t, bytecode.Return, last.Op)
}

func TestCompileKeywordSendArity(t *testing.T) {
	_, bc := compileSource(t, `Foo = Object ( bar = ( ^self at: 1 put: 2 ) )`)
	m := bc.Methods[0]
	var send *bytecode.Instr
	for i := range m.Instrs {
		if m.Instrs[i].Op == bytecode.Send && m.Instrs[i].Selector == "at:put:" {
			send = &m.Instrs[i]
		}
	}
	require.NotNil(t, send)
	require.Equal(t, 2, send.Arity)
}

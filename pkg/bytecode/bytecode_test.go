package bytecode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpStringIsStable(t *testing.T) {
	require.Equal(t, "SEND", Send.String())
	require.Equal(t, "CLOSURE_RETURN", ClosureReturn.String())
	require.Equal(t, "INST_VAR_LOOKUP", InstVarLookup.String())
}

func TestInstrStringFormatsOperands(t *testing.T) {
	require.Contains(t, Instr{Op: Int, IntVal: 42}.String(), "42")
	require.Contains(t, Instr{Op: Send, Selector: "at:put:", Arity: 2}.String(), "at:put:")
	require.Contains(t, Instr{Op: VarLookup, Depth: 1, Slot: 2}.String(), "depth=1")
}

func TestDisassembleShowsPrimitiveMarker(t *testing.T) {
	m := &Method{Holder: "Integer", Selector: "+", NumArgs: 1, IsPrimitive: true, PrimitiveName: "+"}
	out := Disassemble(m)
	require.Contains(t, out, "Integer>>+")
	require.Contains(t, out, "<primitive: +>")
}

func TestDisassembleListsInstructions(t *testing.T) {
	m := &Method{
		Holder:   "Counter",
		Selector: "increment",
		Instrs: []Instr{
			{Op: VarLookup, Depth: 0, Slot: 0},
			{Op: Int, IntVal: 1},
			{Op: Send, Selector: "+", Arity: 1},
			{Op: Return},
		},
	}
	out := Disassemble(m)
	require.Contains(t, out, "VAR_LOOKUP")
	require.Contains(t, out, "RETURN")
}

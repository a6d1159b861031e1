// Package bytecode defines the instruction set the compiler emits and
// the interpreter executes.
//
// Every method and block body compiles down to a flat []Instr. Unlike
// a byte-oriented instruction stream, each Instr here is a small tagged
// struct — operands are typed fields rather than packed bytes, which
// keeps the interpreter's dispatch switch free of manual decoding.
package bytecode

import "fmt"

// Op identifies an instruction's operation.
type Op int

const (
	// Const pushes the interned symbol literal identified by Index (an
	// index into the owning Class's Symbols pool).
	Const Op = iota
	// Int pushes a small integer literal whose value is carried
	// directly in Instr.IntVal (no literal-pool indirection needed).
	Int
	// Double pushes a float literal whose value is carried directly in
	// Instr.DoubleVal.
	Double
	// String pushes an interned string literal identified by Index.
	String
	// BuiltinNil pushes the nil singleton.
	BuiltinNil
	// BuiltinFalse pushes the false singleton.
	BuiltinFalse
	// BuiltinTrue pushes the true singleton.
	BuiltinTrue
	// BuiltinSystem pushes the system singleton.
	BuiltinSystem
	// Block creates a closure value capturing the current frame's
	// closure chain, using the BlockInfo identified by Index, then
	// jumps past the block's own body (which is inlined in the
	// enclosing instruction stream starting at the next instruction
	// and running for BlockLen instructions).
	Block
	// Pop discards the top of the operand stack.
	Pop
	// Return performs a local return: pop the top of stack and return
	// it from the current method/block activation.
	Return
	// ClosureReturn performs a non-local return: pop the top of stack
	// and unwind frames until the one whose closure matches the
	// activation Depth levels up the *lexical* closure chain from the
	// block currently executing.
	ClosureReturn
	// VarLookup pushes the value of the variable at (Depth, Slot) in
	// the closure chain (0 = current frame's own locals/params).
	VarLookup
	// VarSet stores (without popping) the top of stack into the
	// variable at (Depth, Slot).
	VarSet
	// InstVarLookup pushes self's instance variable at Slot.
	InstVarLookup
	// InstVarSet stores (without popping) the top of stack into self's
	// instance variable at Slot.
	InstVarSet
	// Send performs a message send: Arity arguments plus the receiver
	// are popped, Selector is looked up on the receiver's class (via
	// the instruction's inline Cache first), and the result is pushed.
	Send
)

func (o Op) String() string {
	switch o {
	case Const:
		return "CONST"
	case Int:
		return "INT"
	case Double:
		return "DOUBLE"
	case String:
		return "STRING"
	case BuiltinNil:
		return "NIL"
	case BuiltinFalse:
		return "FALSE"
	case BuiltinTrue:
		return "TRUE"
	case BuiltinSystem:
		return "SYSTEM"
	case Block:
		return "BLOCK"
	case Pop:
		return "POP"
	case Return:
		return "RETURN"
	case ClosureReturn:
		return "CLOSURE_RETURN"
	case VarLookup:
		return "VAR_LOOKUP"
	case VarSet:
		return "VAR_SET"
	case InstVarLookup:
		return "INST_VAR_LOOKUP"
	case InstVarSet:
		return "INST_VAR_SET"
	case Send:
		return "SEND"
	default:
		return "UNKNOWN"
	}
}

// InlineCache is the per-Send-site cache: the class last seen at this
// call site and the method resolved for it.
// A cache miss falls back to full lookup and repopulates the cache.
type InlineCache struct {
	Class  interface{} // *vm.Class; typed as interface{} to avoid an import cycle
	Method interface{} // *vm.Method
}

// Instr is a single bytecode instruction.
type Instr struct {
	Op Op

	// Index indexes into the owning Class's Symbols pool (Const), its
	// Strings pool (String), or the owning Method's Blocks pool (Block).
	// Send does not use it.
	Index int

	// IntVal/DoubleVal carry immediate literal values for Int/Double.
	IntVal    int64
	DoubleVal float64

	// Depth/Slot address a lexical variable for VarLookup/VarSet, or
	// just Slot for InstVarLookup/InstVarSet.
	Depth int
	Slot  int

	// Selector and Arity describe a Send's message.
	Selector string
	Arity    int

	// BlockLen is the number of instructions composing a Block's body,
	// immediately following the Block instruction itself.
	BlockLen int

	// Cache is populated lazily by the interpreter on the first Send
	// through this instruction.
	Cache *InlineCache
}

// BlockInfo describes one block literal compiled within a Method: how
// many parameters and locals it declares, so the interpreter knows how
// large to allocate the closure's Vars slice when a Block instruction
// executes. The block's own instructions are inlined directly into the
// owning Method's Instrs immediately after the Block instruction (for
// BlockLen instructions); the class loader derives the body's extent
// from the Block instruction's position and BlockLen rather than
// storing offsets here.
type BlockInfo struct {
	NumParams int
	NumLocals int
	// HomeMethod is true if non-local return from this block should
	// target the method activation rather than an enclosing block's
	// captured frame — always true in this implementation, since every
	// block's ClosureReturn walks frames by closure pointer identity
	// regardless of nesting depth.
	HomeMethod bool
}

// Method is the compiled form of a single method body: a flat
// instruction stream (with its block bodies inlined) plus the Blocks
// pool referenced by Block instructions. The pools Const and String
// instructions reference live on the owning Class.
type Method struct {
	Holder   string // class name this method was compiled for
	Selector string
	NumArgs  int
	NumLocals int

	Instrs []Instr

	// Blocks is the pool Block instructions index into.
	Blocks []*BlockInfo

	IsPrimitive   bool
	PrimitiveName string
}

// Class is the compiled form of a whole class definition: its name,
// superclass name (resolved against the runtime class registry at
// bootstrap/load time, not here), declared instance variables, and
// compiled methods.
type Class struct {
	Name      string
	SuperName string
	InstVars  []string
	Methods   []*Method

	// Symbols and Strings are this class's shared literal-interning
	// pools: the same symbol text, or the same string text, is stored
	// at most once. Send selectors are carried on each Send instruction
	// and are not interned here. Const and String instructions in any of
	// this class's Methods index into these pools.
	Symbols []string
	Strings []string
}

// String renders an instruction the way a disassembly listing would.
func (i Instr) String() string {
	switch i.Op {
	case Const, String:
		return fmt.Sprintf("%-16s #%d", i.Op, i.Index)
	case Int:
		return fmt.Sprintf("%-16s %d", i.Op, i.IntVal)
	case Double:
		return fmt.Sprintf("%-16s %g", i.Op, i.DoubleVal)
	case Block:
		return fmt.Sprintf("%-16s #%d (len %d)", i.Op, i.Index, i.BlockLen)
	case ClosureReturn:
		return fmt.Sprintf("%-16s depth=%d", i.Op, i.Depth)
	case VarLookup, VarSet:
		return fmt.Sprintf("%-16s depth=%d slot=%d", i.Op, i.Depth, i.Slot)
	case InstVarLookup, InstVarSet:
		return fmt.Sprintf("%-16s slot=%d", i.Op, i.Slot)
	case Send:
		return fmt.Sprintf("%-16s %q arity=%d", i.Op, i.Selector, i.Arity)
	default:
		return i.Op.String()
	}
}

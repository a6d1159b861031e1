// Package compiler lowers an *ast.Class into a *bytecode.Class.
//
// A scope stack addresses lexical variables by (depth, slot), where
// depth counts outward from the innermost block being compiled (0 = the
// current block/method's own params+locals); any identifier that isn't
// found in the scope stack is checked against the class's full
// instance-variable list (own plus inherited) and compiled as
// InstVarLookup/InstVarSet instead of VarLookup/VarSet — instance
// variables are not a "scope" at all, just a compile-time fallback.
package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dolthub/swiss"
	"github.com/pkg/errors"

	"github.com/smogvm/smog/pkg/ast"
	"github.com/smogvm/smog/pkg/bytecode"
)

// CompileError is one compile-time diagnostic, carrying the offending
// node's source position so it can be printed with the surrounding
// source line.
type CompileError struct {
	Message string
	Pos     ast.Position
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d:\n  %s", e.Message, e.Pos.Line, e.Pos.Column, e.Pos.Source)
}

// scope is one lexical level's parameter/local names, addressed by
// slot index in declaration order.
type scope struct {
	names []string
}

func (s *scope) indexOf(name string) (int, bool) {
	for i, n := range s.names {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

// Compiler compiles every method of one class, tracking the class's
// full (inherited + own) instance-variable list and the interning
// pools shared by all of that class's methods.
type Compiler struct {
	className     string
	instVars      []string // full list, superclass fields first
	symbolIndex   *swiss.Map[string, int]
	stringIndex   *swiss.Map[string, int]
	symbols       []string
	strings       []string
	errs          []error
}

// New creates a Compiler for a class named name whose full
// (superclass-first) instance-variable list is instVars. Callers
// resolve the superclass's fields before compiling a subclass, so
// InstVarLookup/InstVarSet slots address the right offsets even for
// inherited fields.
func New(name string, instVars []string) *Compiler {
	return &Compiler{
		className:   name,
		instVars:    instVars,
		symbolIndex: swiss.NewMap[string, int](8),
		stringIndex: swiss.NewMap[string, int](8),
	}
}

// Compile compiles every method in cls (the ast.Class for this
// compiler's className) into a *bytecode.Class.
func (c *Compiler) Compile(cls *ast.Class) (*bytecode.Class, error) {
	out := &bytecode.Class{Name: cls.Name, SuperName: cls.SuperName, InstVars: cls.InstVars}

	for _, m := range cls.Methods {
		cm := c.compileMethod(m)
		if cm != nil {
			out.Methods = append(out.Methods, cm)
		}
	}

	out.Symbols = c.symbols
	out.Strings = c.strings

	if len(c.errs) > 0 {
		var msgs []string
		for _, e := range c.errs {
			msgs = append(msgs, e.Error())
		}
		return nil, errors.Errorf("%d compile error(s) in %s:\n%s", len(c.errs), cls.Name, strings.Join(msgs, "\n"))
	}
	return out, nil
}

func (c *Compiler) errorf(pos ast.Position, format string, args ...interface{}) {
	c.errs = append(c.errs, &CompileError{Message: fmt.Sprintf(format, args...), Pos: pos})
}

func (c *Compiler) internSymbol(s string) int {
	if idx, ok := c.symbolIndex.Get(s); ok {
		return idx
	}
	idx := len(c.symbols)
	c.symbols = append(c.symbols, s)
	c.symbolIndex.Put(s, idx)
	return idx
}

func (c *Compiler) internString(s string) int {
	if idx, ok := c.stringIndex.Get(s); ok {
		return idx
	}
	idx := len(c.strings)
	c.strings = append(c.strings, s)
	c.stringIndex.Put(s, idx)
	return idx
}

// methodCompiler holds the mutable state for compiling a single
// method/block body: the instruction buffer, the scope stack, and the
// block-info pool.
type methodCompiler struct {
	c       *Compiler
	scopes  []*scope // scopes[0] is the innermost (current) scope
	blocks  []*bytecode.BlockInfo
	instrs  []bytecode.Instr
}

func (c *Compiler) compileMethod(m *ast.Method) *bytecode.Method {
	out := &bytecode.Method{Holder: c.className, Selector: m.Name.Selector, NumArgs: len(m.Name.Params)}

	if m.Body.IsPrimitive {
		out.IsPrimitive = true
		out.PrimitiveName = m.Name.Selector
		return out
	}

	mc := &methodCompiler{c: c}
	names := append([]string{"__self__"}, append(append([]string{}, m.Name.Params...), m.Body.Vars...)...)
	top := &scope{names: names}
	mc.scopes = []*scope{top}

	mc.compileBody(m.Body.Exprs)

	out.NumLocals = len(m.Body.Vars)
	out.Instrs = mc.instrs
	out.Blocks = mc.blocks
	return out
}

// compileBody compiles a statement list, popping the result of every
// statement but the last. A block body that doesn't end in ^ returns
// its last statement's value; a method body that doesn't end in ^ pops
// that value and returns self (SOM semantics: a method with no explicit
// return returns self).
func (mc *methodCompiler) compileBody(exprs []ast.Expr) {
	if len(exprs) == 0 {
		mc.emit(bytecode.Instr{Op: bytecode.VarLookup, Depth: mc.selfDepth(), Slot: 0})
		mc.emit(bytecode.Instr{Op: bytecode.Return})
		return
	}
	for i, e := range exprs {
		mc.compileExpr(e)
		if i < len(exprs)-1 {
			mc.emit(bytecode.Instr{Op: bytecode.Pop})
		}
	}
	if _, ok := exprs[len(exprs)-1].(*ast.Return); !ok {
		if len(mc.scopes) == 1 { // method body: only the method's own scope is open
			mc.emit(bytecode.Instr{Op: bytecode.Pop})
			mc.emit(bytecode.Instr{Op: bytecode.VarLookup, Depth: 0, Slot: selfSlot})
		}
		mc.emit(bytecode.Instr{Op: bytecode.Return})
	}
}

// selfDepth is the depth used only by the empty-body case above: self
// is slot 0 (selfSlot) of the current scope, so an empty body returns
// self (a block's slot 0 holds the self it was created under).
func (mc *methodCompiler) selfDepth() int { return 0 }

func (mc *methodCompiler) emit(i bytecode.Instr) int {
	mc.instrs = append(mc.instrs, i)
	return len(mc.instrs) - 1
}

func (mc *methodCompiler) pushScope(names []string) {
	mc.scopes = append([]*scope{{names: names}}, mc.scopes...)
}

func (mc *methodCompiler) popScope() {
	mc.scopes = mc.scopes[1:]
}

// findVar resolves name to (depth, slot) in the scope stack, depth 0
// being the innermost (current) scope.
func (mc *methodCompiler) findVar(name string) (depth, slot int, ok bool) {
	for d, s := range mc.scopes {
		if idx, found := s.indexOf(name); found {
			return d, idx, true
		}
	}
	return 0, 0, false
}

// findInstVar resolves name against the compiler's full
// instance-variable list.
func (mc *methodCompiler) findInstVar(name string) (slot int, ok bool) {
	for i, n := range mc.c.instVars {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

func (mc *methodCompiler) compileExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Assign:
		mc.compileExpr(n.Expr)
		if depth, slot, ok := mc.findVar(n.ID); ok {
			mc.emit(bytecode.Instr{Op: bytecode.VarSet, Depth: depth, Slot: slot})
			return
		}
		if slot, ok := mc.findInstVar(n.ID); ok {
			mc.emit(bytecode.Instr{Op: bytecode.InstVarSet, Slot: slot})
			return
		}
		mc.c.errorf(n.Pos, "unknown variable %q", n.ID)

	case *ast.VarLookup:
		mc.compileVarLookup(n.Name, n.Pos)

	case *ast.Int:
		v, err := strconv.ParseInt(n.Text, 10, 64)
		if err != nil {
			mc.c.errorf(n.Pos, "invalid integer literal %q", n.Text)
			return
		}
		if n.IsNegative {
			v = -v
		}
		mc.emit(bytecode.Instr{Op: bytecode.Int, IntVal: v})

	case *ast.Double:
		v, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			mc.c.errorf(n.Pos, "invalid double literal %q", n.Text)
			return
		}
		if n.IsNegative {
			v = -v
		}
		mc.emit(bytecode.Instr{Op: bytecode.Double, DoubleVal: v})

	case *ast.String:
		idx := mc.c.internString(n.Text)
		mc.emit(bytecode.Instr{Op: bytecode.String, Index: idx})

	case *ast.Symbol:
		idx := mc.c.internSymbol(n.Text)
		mc.emit(bytecode.Instr{Op: bytecode.Const, Index: idx})

	case *ast.Return:
		mc.compileExpr(n.Expr)
		if len(mc.scopes) <= 1 {
			mc.emit(bytecode.Instr{Op: bytecode.Return})
		} else {
			mc.emit(bytecode.Instr{Op: bytecode.ClosureReturn, Depth: len(mc.scopes) - 1})
		}

	case *ast.UnaryMsg:
		mc.compileExpr(n.Receiver)
		for _, sel := range n.Selectors {
			mc.emit(bytecode.Instr{Op: bytecode.Send, Selector: sel, Arity: 0})
		}

	case *ast.BinaryMsg:
		mc.compileExpr(n.LHS)
		mc.compileExpr(n.RHS)
		mc.emit(bytecode.Instr{Op: bytecode.Send, Selector: n.Op, Arity: 1})

	case *ast.KeywordMsg:
		mc.compileExpr(n.Receiver)
		for _, a := range n.Args {
			mc.compileExpr(a)
		}
		mc.emit(bytecode.Instr{Op: bytecode.Send, Selector: strings.Join(n.Keywords, ""), Arity: len(n.Args)})

	case *ast.Block:
		mc.compileBlock(n)

	default:
		mc.c.errorf(ast.Pos(e), "unsupported expression node %T", e)
	}
}

func (mc *methodCompiler) compileVarLookup(name string, pos ast.Position) {
	switch name {
	case "self", "super":
		mc.emit(bytecode.Instr{Op: bytecode.VarLookup, Depth: 0, Slot: selfSlot})
		return
	case "nil":
		mc.emit(bytecode.Instr{Op: bytecode.BuiltinNil})
		return
	case "true":
		mc.emit(bytecode.Instr{Op: bytecode.BuiltinTrue})
		return
	case "false":
		mc.emit(bytecode.Instr{Op: bytecode.BuiltinFalse})
		return
	case "system":
		mc.emit(bytecode.Instr{Op: bytecode.BuiltinSystem})
		return
	}
	if depth, slot, ok := mc.findVar(name); ok {
		mc.emit(bytecode.Instr{Op: bytecode.VarLookup, Depth: depth, Slot: slot})
		return
	}
	if slot, ok := mc.findInstVar(name); ok {
		mc.emit(bytecode.Instr{Op: bytecode.InstVarLookup, Slot: slot})
		return
	}
	mc.c.errorf(pos, "unknown variable %q", name)
}

// selfSlot is the reserved slot index for "self" within every
// method/block's own scope: slot 0 of the outermost (method) scope is
// always self, with declared parameters starting at slot 1. This
// mirrors ast_to_instrs.rs reserving the receiver as an implicit first
// local.
const selfSlot = 0

func (mc *methodCompiler) compileBlock(b *ast.Block) {
	names := append([]string{"__self__"}, append(append([]string{}, b.Params...), b.Vars...)...)
	mc.pushScope(names)

	blockIdx := len(mc.blocks)
	bi := &bytecode.BlockInfo{NumParams: len(b.Params), NumLocals: len(b.Vars), HomeMethod: true}
	mc.blocks = append(mc.blocks, bi)

	blockInstrPos := mc.emit(bytecode.Instr{Op: bytecode.Block, Index: blockIdx})

	bodyStart := len(mc.instrs)
	mc.compileBody(b.Exprs)
	bodyLen := len(mc.instrs) - bodyStart

	mc.instrs[blockInstrPos].BlockLen = bodyLen
	mc.popScope()
}

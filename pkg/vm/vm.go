// Package vm implements the smog interpreter: the tagged Value
// representation (value.go), the heap object kinds (objects.go), the
// frame/closure model (frame.go), the bytecode dispatch loop (this
// file), the fixed primitive table (primitives.go), the two-phase
// bootstrap (bootstrap.go), and a minimal breakpoint/step debugger
// (debugger.go).
package vm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/smogvm/smog/pkg/bytecode"
)

// Interp is the interpreter: one shared operand stack and one shared
// frame stack for the whole run, rather than a fresh VM struct per
// call. Message sends recurse
// through Go's own call stack (exec calls itself for the callee's
// frame); i.frames mirrors that recursion purely for backtraces and
// the debugger, and is not itself consulted for control flow.
type Interp struct {
	stack  []Value
	frames []*Frame

	classes map[string]*Class

	ObjectClass, ClassClassObj, NilClass                         *Class
	BlockClass, Block2Class, Block3Class                         *Class
	BooleanClass, TrueClass, FalseClass                          *Class
	IntegerClass, DoubleClass, StringClass, SymbolClass, ArrayClass *Class
	SystemClass                                                  *Class

	nilValue, trueValue, falseValue, systemValue Value

	log *zap.Logger

	Debugger *Debugger
}

// New creates an interpreter with an empty class registry. Call
// Bootstrap before running any user bytecode.
func New() *Interp {
	return &Interp{
		classes: make(map[string]*Class),
		log:     zap.NewNop(),
	}
}

// SetLogger installs a structured logger for bootstrap/classpath
// tracing (the "-v" flag). A nil logger is replaced with a no-op
// logger so normal runs stay silent.
func (i *Interp) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	i.log = l
}

func (i *Interp) push(v Value) { i.stack = append(i.stack, v) }

func (i *Interp) pop() Value {
	v := i.stack[len(i.stack)-1]
	i.stack = i.stack[:len(i.stack)-1]
	return v
}

func (i *Interp) top() Value { return i.stack[len(i.stack)-1] }

func (i *Interp) truncate(sp int) { i.stack = i.stack[:sp] }

// classOf returns the runtime Class of a Value.
func (i *Interp) classOf(v Value) *Class {
	if v.IsInt() {
		return i.IntegerClass
	}
	switch o := v.Obj().(type) {
	case *Class:
		return i.ClassClassObj
	case *Method:
		return i.ClassClassObj
	case *Inst:
		return o.Class
	case *Block:
		switch o.Info.Compiled.NumParams {
		case 0:
			return i.BlockClass
		case 1:
			return i.BlockClass
		case 2:
			return i.Block2Class
		default:
			return i.Block3Class
		}
	case *String_:
		if o.IsSymbol {
			return i.SymbolClass
		}
		return i.StringClass
	case *Int:
		return i.IntegerClass
	case *Double:
		return i.DoubleClass
	case *Array:
		return i.ArrayClass
	case *System:
		return i.SystemClass
	default:
		return i.NilClass
	}
}

// nonLocalReturn is propagated as a Go error from exec to unwind Go's
// call stack until the activation whose Closure matches target is
// found (pointer-identity comparison).
type nonLocalReturn struct {
	target *Closure
	value  Value
}

func (e *nonLocalReturn) Error() string { return "non-local return escaped" }

// Send performs a message send from outside the bytecode loop: look up
// selector on recv's class (a full lookup; no inline cache is involved
// — exec's Send instructions go through execSend instead), and either
// invoke a primitive directly or push a new frame and execute its
// bytecode.
func (i *Interp) Send(recv Value, selector string, args []Value) (Value, error) {
	class := i.classOf(recv)
	method, holder := class.LookupMethod(selector)
	if method == nil {
		return Value{}, newError(UnknownMethod, "%s does not understand %q", class.Name, selector)
	}
	v, err := i.invoke(method, holder, recv, args)
	if _, ok := err.(*nonLocalReturn); ok {
		// A non-local return that reaches a top-level Send unresolved
		// means its target activation already returned — the block
		// escaped its home method.
		return Value{}, newError(PrimitiveError, "return from a non-local block whose home method has already returned (escaped block)")
	}
	return v, err
}

func (i *Interp) invoke(method *Method, holder *Class, recv Value, args []Value) (Value, error) {
	if method.Primitive != nil {
		v, err := method.Primitive(i, recv, args)
		if err != nil {
			if ve, ok := err.(*VMError); ok && ve.Kind == PrimitiveError && ve.Message == restartSentinel {
				return i.invoke(method, holder, recv, args)
			}
		}
		return v, err
	}

	closure := NewClosure(nil, 1+method.NumArgs()+method.Compiled.NumLocals)
	closure.Vars[0] = recv
	for idx, a := range args {
		closure.Vars[1+idx] = a
	}

	frame := &Frame{
		EntrySP:    len(i.stack),
		Closure:    closure,
		Class:      holder.Name,
		Selector:   method.Selector(),
		Method:     method,
		Instrs:     method.Compiled.Instrs,
		blockInfos: method.Blocks,
		symbolPool: holder.Symbols,
		stringPool: holder.Strings,
	}
	return i.exec(frame)
}

// restartSentinel marks a PrimitiveError raised specifically to request
// a restart retry: invoke calls the same primitive again with the same
// receiver and arguments. The retry does not rewind the calling
// method's program counter or truncate the operand stack. No primitive
// in primitiveTable raises it.
const restartSentinel = "__restart__"

// invokeBlock invokes a Block closure with the given arguments.
func (i *Interp) invokeBlock(b *Block, args []Value) (Value, error) {
	info := b.Info
	if len(args) != info.Compiled.NumParams {
		return Value{}, newError(TypeError, "block expects %d argument(s), got %d", info.Compiled.NumParams, len(args))
	}

	closure := NewClosure(b.Captured, 1+info.Compiled.NumParams+info.Compiled.NumLocals)
	closure.Vars[0] = b.Captured.Vars[0]
	for idx, a := range args {
		closure.Vars[1+idx] = a
	}

	frame := &Frame{
		EntrySP:    len(i.stack),
		Closure:    closure,
		Class:      info.Holder.Name,
		Selector:   info.MethodSel,
		Block:      b,
		Instrs:     info.Instrs,
		blockInfos: info.ownerBlocks,
		symbolPool: info.Holder.Symbols,
		stringPool: info.Holder.Strings,
	}
	return i.exec(frame)
}

// exec runs frame's instruction stream to completion, returning its
// local-return value. Sends recurse into exec again for the callee's
// frame; a ClosureReturn that doesn't target this frame is propagated
// upward as a nonLocalReturn error.
func (i *Interp) exec(frame *Frame) (Value, error) {
	i.frames = append(i.frames, frame)
	defer func() { i.frames = i.frames[:len(i.frames)-1] }()

	for frame.PC < len(frame.Instrs) {
		if i.Debugger != nil && i.Debugger.enabled {
			i.Debugger.beforeInstr(i, frame)
		}

		instr := &frame.Instrs[frame.PC]
		switch instr.Op {
		case bytecode.Const:
			sym := i.internedSymbol(frame, instr.Index)
			i.push(FromObj(&String_{Val: sym, IsSymbol: true}))

		case bytecode.Int:
			i.push(FromInt64(instr.IntVal))

		case bytecode.Double:
			i.push(FromObj(&Double{Val: instr.DoubleVal}))

		case bytecode.String:
			str := i.internedString(frame, instr.Index)
			i.push(FromObj(&String_{Val: str}))

		case bytecode.BuiltinNil:
			i.push(i.nilValue)

		case bytecode.BuiltinFalse:
			i.push(i.falseValue)

		case bytecode.BuiltinTrue:
			i.push(i.trueValue)

		case bytecode.BuiltinSystem:
			i.push(i.systemValue)

		case bytecode.Block:
			bi := frame.blockInfo(instr.Index)
			blk := &Block{Info: bi, Captured: frame.Closure, HomeClosure: frame.Closure}
			i.push(FromObj(blk))
			frame.PC += instr.BlockLen

		case bytecode.Pop:
			i.pop()

		case bytecode.Return:
			v := i.pop()
			i.truncate(frame.EntrySP)
			return v, nil

		case bytecode.ClosureReturn:
			v := i.pop()
			target := frame.Closure
			for d := 0; d < instr.Depth; d++ {
				target = target.Parent
			}
			if target == frame.Closure {
				i.truncate(frame.EntrySP)
				return v, nil
			}
			return Value{}, &nonLocalReturn{target: target, value: v}

		case bytecode.VarLookup:
			v := frame.Closure.At(instr.Depth, instr.Slot)
			if v.IsIllegal() {
				return Value{}, newError(UnassignedVar, "variable at depth %d, slot %d is unassigned", instr.Depth, instr.Slot)
			}
			i.push(v)

		case bytecode.VarSet:
			frame.Closure.Set(instr.Depth, instr.Slot, i.top())

		case bytecode.InstVarLookup:
			self := frame.Closure.Vars[0]
			inst, ok := self.Obj().(*Inst)
			if !ok {
				return Value{}, newError(TypeError, "instance variable access on non-instance receiver")
			}
			i.push(inst.Fields[instr.Slot])

		case bytecode.InstVarSet:
			self := frame.Closure.Vars[0]
			inst, ok := self.Obj().(*Inst)
			if !ok {
				return Value{}, newError(TypeError, "instance variable access on non-instance receiver")
			}
			inst.Fields[instr.Slot] = i.top()

		case bytecode.Send:
			v, err := i.execSend(frame, instr)
			if err != nil {
				if nlr, ok := err.(*nonLocalReturn); ok && nlr.target == frame.Closure {
					i.truncate(frame.EntrySP)
					return nlr.value, nil
				}
				return Value{}, err
			}
			i.push(v)

		default:
			return Value{}, newError(TypeError, "unimplemented opcode %v", instr.Op)
		}

		frame.PC++
	}

	// Falling off the end of the instruction stream without an
	// explicit Return (should not happen: the compiler always appends
	// one) returns self.
	return frame.Closure.Vars[0], nil
}

// execSend pops the receiver and Arity arguments, consults the
// instruction's inline cache, and performs the send — either a
// primitive call or a recursive exec.
func (i *Interp) execSend(frame *Frame, instr *bytecode.Instr) (Value, error) {
	args := make([]Value, instr.Arity)
	for a := instr.Arity - 1; a >= 0; a-- {
		args[a] = i.pop()
	}
	recv := i.pop()

	class := i.classOf(recv)

	if instr.Cache != nil {
		if cachedClass, _ := instr.Cache.Class.(*Class); cachedClass == class {
			method, _ := instr.Cache.Method.(*Method)
			if method != nil {
				return i.dispatch(method, method.Holder, recv, args)
			}
		}
	}

	method, holder := class.LookupMethod(instr.Selector)
	if method == nil {
		return Value{}, newError(UnknownMethod, "%s does not understand %q", class.Name, instr.Selector)
	}
	instr.Cache = &bytecode.InlineCache{Class: class, Method: method}
	return i.dispatch(method, holder, recv, args)
}

func (i *Interp) dispatch(method *Method, holder *Class, recv Value, args []Value) (Value, error) {
	return i.invoke(method, holder, recv, args)
}

func (f *Frame) blockInfo(idx int) *BlockInfo {
	return f.blockInfos[idx]
}

func (i *Interp) internedSymbol(frame *Frame, idx int) string {
	return frame.symbolPool[idx]
}

func (i *Interp) internedString(frame *Frame, idx int) string {
	return frame.stringPool[idx]
}

// Backtrace snapshots the live call stack as StackFrame entries, most
// recent call first.
func (i *Interp) Backtrace() []StackFrame {
	trace := make([]StackFrame, 0, len(i.frames))
	for j := len(i.frames) - 1; j >= 0; j-- {
		f := i.frames[j]
		trace = append(trace, StackFrame{Class: f.Class, Selector: f.Selector})
	}
	return trace
}

// StackTop returns the current top of the operand stack, or the
// illegal sentinel if the stack is empty (used by cmd/smog and tests
// to read a top-level expression's result).
func (i *Interp) StackTop() Value {
	if len(i.stack) == 0 {
		return Illegal
	}
	return i.top()
}

func (i *Interp) String() string {
	return fmt.Sprintf("Interp{stack depth=%d frames=%d}", len(i.stack), len(i.frames))
}

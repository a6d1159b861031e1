package vm

import "github.com/smogvm/smog/pkg/bytecode"

// Obj is implemented by every heap-allocated smog object kind. The
// type switch in classOf (vm.go) is the single place that maps a Go
// concrete type to its runtime Class.
type Obj interface {
	objMarker()
}

// Class is a smog class: a name, a superclass link, the declared
// instance-variable names (own, not inherited — NumFields walks the
// chain), and the method dictionary. The dictionary is backed by
// dolthub/swiss for O(1) average lookup, matching the inline cache's
// performance contract.
type Class struct {
	Name     string
	Super    *Class
	InstVars []string
	Methods  *MethodTable
	IsMeta   bool // true for a class's own metaclass object, if modeled

	// Symbols and Strings are this class's interned literal pools,
	// carried over from bytecode.Class at load time. Every Method
	// declared on this class shares them (Const/String instructions
	// index into whichever class compiled them).
	Symbols []string
	Strings []string
}

func (*Class) objMarker() {}

// NumOwnFields returns the number of instance variables Class declares
// itself, not counting inherited ones.
func (c *Class) NumOwnFields() int { return len(c.InstVars) }

// NumFields returns the total instance-variable count across the whole
// superclass chain, used to size a new Inst's Fields slice.
func (c *Class) NumFields() int {
	n := 0
	for cls := c; cls != nil; cls = cls.Super {
		n += len(cls.InstVars)
	}
	return n
}

// FieldOffset returns the slot index of an instance variable declared
// in exactly this class (not a superclass), given how many fields the
// superclass chain above it already occupies.
func (c *Class) FieldOffset() int {
	if c.Super == nil {
		return 0
	}
	return c.Super.NumFields()
}

// IsSubclassOf reports whether c is other or a transitive subclass of
// other.
func (c *Class) IsSubclassOf(other *Class) bool {
	for cls := c; cls != nil; cls = cls.Super {
		if cls == other {
			return true
		}
	}
	return false
}

// LookupMethod walks c's superclass chain looking for selector,
// returning the method and the class that defines it (needed so
// InstVarLookup/InstVarSet slots, which are relative to the defining
// class's field layout, resolve correctly for inherited methods).
func (c *Class) LookupMethod(selector string) (*Method, *Class) {
	for cls := c; cls != nil; cls = cls.Super {
		if m, ok := cls.Methods.Get(selector); ok {
			return m, cls
		}
	}
	return nil, nil
}

// Method is a compiled method bound to the class that declares it.
type Method struct {
	Holder   *Class
	Compiled *bytecode.Method
	// Blocks are the runtime BlockInfo templates for each Block
	// instruction in Compiled.Instrs, built once at class-load time
	// (one-to-one with Compiled.Blocks).
	Blocks []*BlockInfo
	// Primitive is non-nil for primitive methods; it implements the
	// behavior directly rather than through Compiled.Instrs.
	Primitive PrimitiveFunc
}

func (*Method) objMarker() {}

func (m *Method) Selector() string { return m.Compiled.Selector }
func (m *Method) NumArgs() int     { return m.Compiled.NumArgs }

// PrimitiveFunc implements a primitive method body: receiver plus
// arguments in, a result Value (or error) out.
type PrimitiveFunc func(i *Interp, recv Value, args []Value) (Value, error)

// Inst is a plain instance of a user-defined (or builtin) class.
type Inst struct {
	Class  *Class
	Fields []Value
}

func (*Inst) objMarker() {}

// BlockInfo is the compiled template for a block literal — shared by
// every closure created from the same Block bytecode instruction. The
// per-activation state (captured closure chain) lives in Block itself.
type BlockInfo struct {
	Compiled  *bytecode.BlockInfo
	Instrs    []bytecode.Instr // the slice of the owning Method's Instrs for this block's body
	Holder    *Class           // class the enclosing method was compiled for (for InstVar addressing)
	MethodSel string           // enclosing method's selector, for backtraces

	// ownerBlocks is the full Blocks pool of the Method this block was
	// declared in, so nested block literals (Block instructions inside
	// this block's own body) resolve against the same pool a sibling
	// top-level Block instruction would.
	ownerBlocks []*BlockInfo
}

func (*BlockInfo) objMarker() {}

// Block is a closure: a BlockInfo template plus the captured lexical
// Closure chain it was created in. Non-local return finds its target by
// following ClosureReturn's Depth parent links from the executing
// closure, then comparing that closure against each active frame's
// Closure using Go pointer identity.
type Block struct {
	Info        *BlockInfo
	Captured    *Closure
	HomeClosure *Closure // the closure of the activation that created the block (same as Captured); not read by non-local return
}

func (*Block) objMarker() {}

// String_ is smog's boxed string/symbol object. Symbols share the same
// representation as strings but report a distinct class via IsSymbol.
type String_ struct {
	Val      string
	IsSymbol bool
}

func (*String_) objMarker() {}

// Int is a boxed integer — used only when a value falls outside the
// unboxed range (see value.go's fitsUnboxed).
type Int struct {
	Val int64
}

func (*Int) objMarker() {}

// Double is a boxed floating-point number.
type Double struct {
	Val float64
}

func (*Double) objMarker() {}

// Array is a first-class indexable heap object. Indices are 1-based
// Smalltalk-style; the bounds predicate is `i < 1 || i > length`.
type Array struct {
	Elements []Value
}

func (*Array) objMarker() {}

// System is the lone instance of the System class (the "system"
// builtin), the receiver of System's exit:/printString: messages.
type System struct{}

func (*System) objMarker() {}

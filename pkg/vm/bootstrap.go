package vm

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/smogvm/smog/pkg/bytecode"
	"github.com/smogvm/smog/pkg/compiler"
	"github.com/smogvm/smog/pkg/parser"
)

// ClassSource loads the raw ".som" source text for a class name —
// implemented by *classpath.Path, kept as an interface here so pkg/vm
// doesn't have to import pkg/classpath. Bootstrap loads class files
// strictly by name, never by a hardcoded path.
type ClassSource interface {
	Load(className string) (string, error)
}

// veryDelicateOrder and slightlyDelicateOrder are the two bootstrap
// phases: Object/Class/Nil must exist (and nil itself must exist)
// before anything else can be compiled,
// since every compiled method's implicit self-return and every
// uninitialized local depends on them; the second phase's classes are
// "slightly delicate" only in that their relative load order still
// matters for superclass resolution (Block2 before Block3 needs
// Block, True/False need Boolean), not because the interpreter itself
// depends on them existing yet.
var veryDelicateOrder = []string{"Object", "Class", "Nil"}
var slightlyDelicateOrder = []string{
	"Block", "Block2", "Block3",
	"Boolean", "Double", "False", "Integer", "String", "Symbol", "Array", "System", "True",
}

// Bootstrap loads every builtin class from src and wires up the
// interpreter's class registry and singleton Values. It must be called
// exactly once before Send/exec are used.
func (i *Interp) Bootstrap(src ClassSource) error {
	for _, name := range veryDelicateOrder {
		if _, err := i.loadClass(src, name); err != nil {
			return errors.Wrapf(err, "bootstrapping %s", name)
		}
	}
	i.ObjectClass = i.classes["Object"]
	i.ClassClassObj = i.classes["Class"]
	i.NilClass = i.classes["Nil"]
	i.nilValue = FromObj(&Inst{Class: i.NilClass})
	i.log.Debug("very delicate bootstrap phase complete")

	for _, name := range slightlyDelicateOrder {
		if _, err := i.loadClass(src, name); err != nil {
			return errors.Wrapf(err, "bootstrapping %s", name)
		}
	}
	i.BlockClass = i.classes["Block"]
	i.Block2Class = i.classes["Block2"]
	i.Block3Class = i.classes["Block3"]
	i.BooleanClass = i.classes["Boolean"]
	i.DoubleClass = i.classes["Double"]
	i.FalseClass = i.classes["False"]
	i.IntegerClass = i.classes["Integer"]
	i.StringClass = i.classes["String"]
	i.SymbolClass = i.classes["Symbol"]
	i.ArrayClass = i.classes["Array"]
	i.SystemClass = i.classes["System"]
	i.TrueClass = i.classes["True"]

	i.trueValue = FromObj(&Inst{Class: i.TrueClass})
	i.falseValue = FromObj(&Inst{Class: i.FalseClass})
	i.systemValue = FromObj(&System{})
	i.log.Debug("slightly delicate bootstrap phase complete")

	return nil
}

// LoadUserClass loads a user program's class (and, transitively,
// whatever superclass it names that isn't already registered) from
// src. Call after Bootstrap.
func (i *Interp) LoadUserClass(src ClassSource, name string) (*Class, error) {
	return i.loadClass(src, name)
}

// loadClass parses, compiles, and links className, loading its
// superclass first (recursively) if it isn't already registered.
// Idempotent: a class already in the registry is returned as-is.
func (i *Interp) loadClass(src ClassSource, className string) (*Class, error) {
	if c, ok := i.classes[className]; ok {
		return c, nil
	}

	text, err := src.Load(className)
	if err != nil {
		return nil, err
	}
	astCls, err := parser.New(text).Parse()
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", className)
	}
	if astCls.Name != className {
		return nil, errors.Errorf("class file for %q declares class %q", className, astCls.Name)
	}

	superName := astCls.SuperName
	if superName == "" && astCls.Name != "Object" {
		// A class file with no explicit superclass header still
		// subclasses Object implicitly, the same as every SOM dialect:
		// otherwise a user class couldn't respond to isNil/class/
		// printString/perform: etc.
		superName = "Object"
	}

	var super *Class
	instVars := astCls.InstVars
	if superName != "" {
		super, err = i.loadClass(src, superName)
		if err != nil {
			return nil, err
		}
		instVars = append(append([]string{}, fieldNames(super)...), astCls.InstVars...)
	}

	comp := compiler.New(astCls.Name, instVars)
	bcCls, err := comp.Compile(astCls)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling %s", className)
	}

	class := &Class{
		Name:     astCls.Name,
		Super:    super,
		InstVars: astCls.InstVars,
		Methods:  NewMethodTable(),
		Symbols:  bcCls.Symbols,
		Strings:  bcCls.Strings,
	}
	i.classes[className] = class // register before linking methods: recursive/mutual sends resolve fine via LookupMethod at call time

	for _, m := range bcCls.Methods {
		method := &Method{Holder: class, Compiled: m}
		if m.IsPrimitive {
			method.Primitive = i.lookupPrimitive(className, m.PrimitiveName)
			if method.Primitive == nil {
				i.log.Warn("no primitive implementation", zap.String("class", className), zap.String("selector", m.PrimitiveName))
			}
		} else {
			method.Blocks = buildBlockInfos(class, m)
		}
		class.Methods.Put(m.Selector, method)
	}

	i.log.Debug("loaded class", zap.String("class", className))
	return class, nil
}

// lookupPrimitive finds className's PrimitiveFunc for selector,
// falling back to Object's table when className's own table has no
// entry for selector (e.g. Nil's table reuses Object's isNil/notNil,
// and a builtin .som file may declare as primitive a selector that
// only Object's table implements).
func (i *Interp) lookupPrimitive(className, selector string) PrimitiveFunc {
	if table, ok := primitiveTable[className]; ok {
		if fn, ok := table[selector]; ok {
			return fn
		}
	}
	if table, ok := primitiveTable["Object"]; ok && className != "Object" {
		if fn, ok := table[selector]; ok {
			return fn
		}
	}
	return nil
}

// buildBlockInfos builds the runtime BlockInfo templates for every
// Block instruction in m, slicing out each block's inlined body from
// m.Instrs and wiring ownerBlocks so nested block literals resolve
// against the same method-wide pool a top-level one would.
func buildBlockInfos(holder *Class, m *bytecode.Method) []*BlockInfo {
	infos := make([]*BlockInfo, len(m.Blocks))
	for idx, bi := range m.Blocks {
		infos[idx] = &BlockInfo{Compiled: bi, Holder: holder, MethodSel: m.Selector}
	}
	for pc := 0; pc < len(m.Instrs); pc++ {
		instr := m.Instrs[pc]
		if instr.Op == bytecode.Block {
			info := infos[instr.Index]
			info.Instrs = m.Instrs[pc+1 : pc+1+instr.BlockLen]
			info.ownerBlocks = infos
		}
	}
	return infos
}

package vm

import (
	"fmt"
	"math"
	"os"
)

// primitiveTable maps a class name to its selector->PrimitiveFunc
// table, consulted by bootstrap.go when a ".som" method body is the
// literal "primitive" marker. Covers arithmetic/comparison/collection
// primitives plus the debug/inspection/perform:/Array set.
var primitiveTable = map[string]map[string]PrimitiveFunc{
	"Object":  objectPrimitives,
	"Integer": integerPrimitives,
	"Double":  doublePrimitives,
	"String":  stringPrimitives,
	"Symbol":  stringPrimitives, // Symbol shares String's representation
	"Boolean": booleanPrimitives,
	"True":    booleanPrimitives,
	"False":   booleanPrimitives,
	"Block":   blockPrimitives,
	"Block2":  blockPrimitives,
	"Block3":  blockPrimitives,
	"Array":   arrayPrimitives,
	"System":  systemPrimitives,
	"Class":   classPrimitives,
	"Nil":     nilPrimitives,
}

func requireInt(v Value) (int64, error) {
	n, ok := v.AsInt64()
	if !ok {
		return 0, newError(NotANumber, "expected an Integer")
	}
	return n, nil
}

func requireDouble(v Value) (float64, error) {
	return v.AsDouble()
}

func requireString(v Value) (string, error) {
	s, ok := v.Obj().(*String_)
	if !ok {
		return "", newError(TypeError, "expected a String")
	}
	return s.Val, nil
}

func requireBlock(v Value) (*Block, error) {
	b, ok := v.Obj().(*Block)
	if !ok {
		return nil, newError(TypeError, "expected a Block")
	}
	return b, nil
}

func requireArray(v Value) (*Array, error) {
	a, ok := v.Obj().(*Array)
	if !ok {
		return nil, newError(TypeError, "expected an Array")
	}
	return a, nil
}

// --- Object ---------------------------------------------------------

var objectPrimitives = map[string]PrimitiveFunc{
	"==": func(i *Interp, recv Value, args []Value) (Value, error) {
		return i.boolValue(recv.Equal(args[0])), nil
	},
	"class": func(i *Interp, recv Value, args []Value) (Value, error) {
		return FromObj(i.classOf(recv)), nil
	},
	"hash": func(i *Interp, recv Value, args []Value) (Value, error) {
		return FromInt64(int64(fmt.Sprintf("%p", recv.Obj())[2])), nil
	},
	"isNil": func(i *Interp, recv Value, args []Value) (Value, error) {
		return i.boolValue(recv.Equal(i.nilValue)), nil
	},
	"notNil": func(i *Interp, recv Value, args []Value) (Value, error) {
		return i.boolValue(!recv.Equal(i.nilValue)), nil
	},
	"println": func(i *Interp, recv Value, args []Value) (Value, error) {
		fmt.Println(i.displayString(recv))
		return recv, nil
	},
	"printString": func(i *Interp, recv Value, args []Value) (Value, error) {
		return FromObj(&String_{Val: i.displayString(recv)}), nil
	},
	"error:": func(i *Interp, recv Value, args []Value) (Value, error) {
		msg, _ := requireString(args[0])
		return Value{}, newError(PrimitiveError, "%s", msg)
	},
	"halt": func(i *Interp, recv Value, args []Value) (Value, error) {
		if i.Debugger != nil {
			i.Debugger.Enable()
			i.Debugger.SetStepMode(true)
		}
		return recv, nil
	},
	"objectSize": func(i *Interp, recv Value, args []Value) (Value, error) {
		inst, ok := recv.Obj().(*Inst)
		if !ok {
			return FromInt64(0), nil
		}
		return FromInt64(int64(len(inst.Fields))), nil
	},
	"instVarAt:": func(i *Interp, recv Value, args []Value) (Value, error) {
		inst, ok := recv.Obj().(*Inst)
		if !ok {
			return Value{}, newError(TypeError, "instVarAt: sent to a non-instance")
		}
		idx, err := requireInt(args[0])
		if err != nil {
			return Value{}, err
		}
		if idx < 1 || int(idx) > len(inst.Fields) {
			return Value{}, newError(IndexOutOfBounds, "instVarAt: %d out of bounds", idx)
		}
		return inst.Fields[idx-1], nil
	},
	"instVarAt:put:": func(i *Interp, recv Value, args []Value) (Value, error) {
		inst, ok := recv.Obj().(*Inst)
		if !ok {
			return Value{}, newError(TypeError, "instVarAt:put: sent to a non-instance")
		}
		idx, err := requireInt(args[0])
		if err != nil {
			return Value{}, err
		}
		if idx < 1 || int(idx) > len(inst.Fields) {
			return Value{}, newError(IndexOutOfBounds, "instVarAt:put: %d out of bounds", idx)
		}
		inst.Fields[idx-1] = args[1]
		return args[1], nil
	},
	"instVarNamed:": func(i *Interp, recv Value, args []Value) (Value, error) {
		inst, ok := recv.Obj().(*Inst)
		if !ok {
			return Value{}, newError(TypeError, "instVarNamed: sent to a non-instance")
		}
		name, err := requireString(args[0])
		if err != nil {
			return Value{}, err
		}
		for idx, fieldName := range fieldNames(inst.Class) {
			if fieldName == name {
				return inst.Fields[idx], nil
			}
		}
		return Value{}, newError(PrimitiveError, "no instance variable named %q", name)
	},
	"perform:": func(i *Interp, recv Value, args []Value) (Value, error) {
		sel, err := requireString(args[0])
		if err != nil {
			return Value{}, err
		}
		return i.Send(recv, sel, nil)
	},
	"perform:with:": func(i *Interp, recv Value, args []Value) (Value, error) {
		sel, err := requireString(args[0])
		if err != nil {
			return Value{}, err
		}
		return i.Send(recv, sel, []Value{args[1]})
	},
	"perform:inSuperclass:": func(i *Interp, recv Value, args []Value) (Value, error) {
		sel, err := requireString(args[0])
		if err != nil {
			return Value{}, err
		}
		class, ok := args[1].Obj().(*Class)
		if !ok {
			return Value{}, newError(TypeError, "perform:inSuperclass: expects a Class")
		}
		method, holder := class.LookupMethod(sel)
		if method == nil {
			return Value{}, newError(UnknownMethod, "%s does not understand %q", class.Name, sel)
		}
		return i.invoke(method, holder, recv, nil)
	},
	"perform:with:inSuperclass:": func(i *Interp, recv Value, args []Value) (Value, error) {
		sel, err := requireString(args[0])
		if err != nil {
			return Value{}, err
		}
		class, ok := args[2].Obj().(*Class)
		if !ok {
			return Value{}, newError(TypeError, "perform:with:inSuperclass: expects a Class")
		}
		method, holder := class.LookupMethod(sel)
		if method == nil {
			return Value{}, newError(UnknownMethod, "%s does not understand %q", class.Name, sel)
		}
		return i.invoke(method, holder, recv, []Value{args[1]})
	},
}

func fieldNames(c *Class) []string {
	if c.Super == nil {
		return append([]string{}, c.InstVars...)
	}
	return append(fieldNames(c.Super), c.InstVars...)
}

func (i *Interp) boolValue(b bool) Value {
	if b {
		return i.trueValue
	}
	return i.falseValue
}

func (i *Interp) displayString(v Value) string {
	if n, ok := v.AsInt64(); ok {
		return fmt.Sprintf("%d", n)
	}
	switch o := v.Obj().(type) {
	case *Double:
		return fmt.Sprintf("%g", o.Val)
	case *String_:
		return o.Val
	case *Class:
		return o.Name
	case *Inst:
		return o.Class.Name
	case nil:
		return "nil"
	default:
		if v.Equal(i.trueValue) {
			return "true"
		}
		if v.Equal(i.falseValue) {
			return "false"
		}
		return fmt.Sprintf("a %s", i.classOf(v).Name)
	}
}

// --- Integer / Double -------------------------------------------------

var integerPrimitives = map[string]PrimitiveFunc{
	"+":  arith(func(a, b int64) int64 { return a + b }),
	"-":  arith(func(a, b int64) int64 { return a - b }),
	"*":  arith(func(a, b int64) int64 { return a * b }),
	"//": intDiv,
	"%":  intMod,
	"=":  numEq,
	"~=": numNeq,
	"<":  numCmp(func(a, b int64) bool { return a < b }),
	">":  numCmp(func(a, b int64) bool { return a > b }),
	"<=": numCmp(func(a, b int64) bool { return a <= b }),
	">=": numCmp(func(a, b int64) bool { return a >= b }),
	"abs": func(i *Interp, recv Value, args []Value) (Value, error) {
		n, err := requireInt(recv)
		if err != nil {
			return Value{}, err
		}
		if n < 0 {
			n = -n
		}
		return FromInt64(n), nil
	},
	"asDouble": func(i *Interp, recv Value, args []Value) (Value, error) {
		n, err := requireInt(recv)
		if err != nil {
			return Value{}, err
		}
		return FromObj(&Double{Val: float64(n)}), nil
	},
	"asString": func(i *Interp, recv Value, args []Value) (Value, error) {
		n, err := requireInt(recv)
		if err != nil {
			return Value{}, err
		}
		return FromObj(&String_{Val: fmt.Sprintf("%d", n)}), nil
	},
	"sqrt": func(i *Interp, recv Value, args []Value) (Value, error) {
		n, err := requireInt(recv)
		if err != nil {
			return Value{}, err
		}
		return FromObj(&Double{Val: math.Sqrt(float64(n))}), nil
	},
	"min:": func(i *Interp, recv Value, args []Value) (Value, error) {
		a, err := requireInt(recv)
		if err != nil {
			return Value{}, err
		}
		b, err := requireInt(args[0])
		if err != nil {
			return Value{}, err
		}
		if a < b {
			return FromInt64(a), nil
		}
		return FromInt64(b), nil
	},
	"max:": func(i *Interp, recv Value, args []Value) (Value, error) {
		a, err := requireInt(recv)
		if err != nil {
			return Value{}, err
		}
		b, err := requireInt(args[0])
		if err != nil {
			return Value{}, err
		}
		if a > b {
			return FromInt64(a), nil
		}
		return FromInt64(b), nil
	},
	"bitAnd:": bitwise(func(a, b int64) int64 { return a & b }),
	"bitOr:":  bitwise(func(a, b int64) int64 { return a | b }),
	"bitXor:": bitwise(func(a, b int64) int64 { return a ^ b }),
	"<<": func(i *Interp, recv Value, args []Value) (Value, error) {
		a, err := requireInt(recv)
		if err != nil {
			return Value{}, err
		}
		n, err := requireInt(args[0])
		if err != nil {
			return Value{}, err
		}
		if n < 0 {
			return Value{}, newError(NegativeShift, "negative shift %d", n)
		}
		if n > 62 {
			return Value{}, newError(ShiftTooBig, "shift %d too large", n)
		}
		return FromInt64(a << uint(n)), nil
	},
	">>": func(i *Interp, recv Value, args []Value) (Value, error) {
		a, err := requireInt(recv)
		if err != nil {
			return Value{}, err
		}
		n, err := requireInt(args[0])
		if err != nil {
			return Value{}, err
		}
		if n < 0 {
			return Value{}, newError(NegativeShift, "negative shift %d", n)
		}
		return FromInt64(a >> uint(n)), nil
	},
	"to:do:": func(i *Interp, recv Value, args []Value) (Value, error) {
		from, err := requireInt(recv)
		if err != nil {
			return Value{}, err
		}
		to, err := requireInt(args[0])
		if err != nil {
			return Value{}, err
		}
		blk, err := requireBlock(args[1])
		if err != nil {
			return Value{}, err
		}
		for n := from; n <= to; n++ {
			if _, err := i.invokeBlock(blk, []Value{FromInt64(n)}); err != nil {
				return Value{}, err
			}
		}
		return recv, nil
	},
	"timesRepeat:": func(i *Interp, recv Value, args []Value) (Value, error) {
		n, err := requireInt(recv)
		if err != nil {
			return Value{}, err
		}
		blk, err := requireBlock(args[0])
		if err != nil {
			return Value{}, err
		}
		for k := int64(0); k < n; k++ {
			if _, err := i.invokeBlock(blk, nil); err != nil {
				return Value{}, err
			}
		}
		return recv, nil
	},
}

func arith(op func(a, b int64) int64) PrimitiveFunc {
	return func(i *Interp, recv Value, args []Value) (Value, error) {
		a, err := requireInt(recv)
		if err != nil {
			return Value{}, err
		}
		b, err := requireInt(args[0])
		if err != nil {
			return Value{}, err
		}
		return FromInt64(op(a, b)), nil
	}
}

func bitwise(op func(a, b int64) int64) PrimitiveFunc {
	return arith(op)
}

func intDiv(i *Interp, recv Value, args []Value) (Value, error) {
	a, err := requireInt(recv)
	if err != nil {
		return Value{}, err
	}
	b, err := requireInt(args[0])
	if err != nil {
		return Value{}, err
	}
	if b == 0 {
		return Value{}, newError(DivisionByZero, "division by zero")
	}
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return FromInt64(q), nil
}

func intMod(i *Interp, recv Value, args []Value) (Value, error) {
	a, err := requireInt(recv)
	if err != nil {
		return Value{}, err
	}
	b, err := requireInt(args[0])
	if err != nil {
		return Value{}, err
	}
	if b == 0 {
		return Value{}, newError(DivisionByZero, "division by zero")
	}
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return FromInt64(m), nil
}

func numEq(i *Interp, recv Value, args []Value) (Value, error) {
	a, errA := requireDouble(recv)
	b, errB := requireDouble(args[0])
	if errA != nil || errB != nil {
		return i.boolValue(false), nil
	}
	return i.boolValue(a == b), nil
}

func numNeq(i *Interp, recv Value, args []Value) (Value, error) {
	v, err := numEq(i, recv, args)
	if err != nil {
		return Value{}, err
	}
	return i.boolValue(!v.Equal(i.trueValue)), nil
}

func numCmp(op func(a, b int64) bool) PrimitiveFunc {
	return func(i *Interp, recv Value, args []Value) (Value, error) {
		a, err := requireInt(recv)
		if err != nil {
			return Value{}, err
		}
		b, err := requireInt(args[0])
		if err != nil {
			return Value{}, err
		}
		return i.boolValue(op(a, b)), nil
	}
}

var doublePrimitives = map[string]PrimitiveFunc{
	"+": dArith(func(a, b float64) float64 { return a + b }),
	"-": dArith(func(a, b float64) float64 { return a - b }),
	"*": dArith(func(a, b float64) float64 { return a * b }),
	"/": func(i *Interp, recv Value, args []Value) (Value, error) {
		a, err := requireDouble(recv)
		if err != nil {
			return Value{}, err
		}
		b, err := requireDouble(args[0])
		if err != nil {
			return Value{}, err
		}
		if b == 0 {
			return Value{}, newError(DivisionByZero, "division by zero")
		}
		return FromObj(&Double{Val: a / b}), nil
	},
	"=":  numEq,
	"~=": numNeq,
	"<": dCmp(func(a, b float64) bool { return a < b }),
	">": dCmp(func(a, b float64) bool { return a > b }),
	"<=": dCmp(func(a, b float64) bool { return a <= b }),
	">=": dCmp(func(a, b float64) bool { return a >= b }),
	"sqrt": func(i *Interp, recv Value, args []Value) (Value, error) {
		a, err := requireDouble(recv)
		if err != nil {
			return Value{}, err
		}
		return FromObj(&Double{Val: math.Sqrt(a)}), nil
	},
	"asInteger": func(i *Interp, recv Value, args []Value) (Value, error) {
		a, err := requireDouble(recv)
		if err != nil {
			return Value{}, err
		}
		return FromInt64(int64(a)), nil
	},
	"asString": func(i *Interp, recv Value, args []Value) (Value, error) {
		a, err := requireDouble(recv)
		if err != nil {
			return Value{}, err
		}
		return FromObj(&String_{Val: fmt.Sprintf("%g", a)}), nil
	},
}

func dArith(op func(a, b float64) float64) PrimitiveFunc {
	return func(i *Interp, recv Value, args []Value) (Value, error) {
		a, err := requireDouble(recv)
		if err != nil {
			return Value{}, err
		}
		b, err := requireDouble(args[0])
		if err != nil {
			return Value{}, err
		}
		return FromObj(&Double{Val: op(a, b)}), nil
	}
}

func dCmp(op func(a, b float64) bool) PrimitiveFunc {
	return func(i *Interp, recv Value, args []Value) (Value, error) {
		a, err := requireDouble(recv)
		if err != nil {
			return Value{}, err
		}
		b, err := requireDouble(args[0])
		if err != nil {
			return Value{}, err
		}
		return i.boolValue(op(a, b)), nil
	}
}

// --- String / Symbol --------------------------------------------------

var stringPrimitives = map[string]PrimitiveFunc{
	"length": func(i *Interp, recv Value, args []Value) (Value, error) {
		s, err := requireString(recv)
		if err != nil {
			return Value{}, err
		}
		return FromInt64(int64(len(s))), nil
	},
	"at:": func(i *Interp, recv Value, args []Value) (Value, error) {
		s, err := requireString(recv)
		if err != nil {
			return Value{}, err
		}
		idx, err := requireInt(args[0])
		if err != nil {
			return Value{}, err
		}
		if idx < 1 || int(idx) > len(s) {
			return Value{}, newError(IndexOutOfBounds, "at: %d out of bounds", idx)
		}
		return FromObj(&String_{Val: string(s[idx-1])}), nil
	},
	",": func(i *Interp, recv Value, args []Value) (Value, error) {
		a, err := requireString(recv)
		if err != nil {
			return Value{}, err
		}
		b, err := requireString(args[0])
		if err != nil {
			return Value{}, err
		}
		return FromObj(&String_{Val: a + b}), nil
	},
	"=": func(i *Interp, recv Value, args []Value) (Value, error) {
		a, errA := requireString(recv)
		b, errB := requireString(args[0])
		if errA != nil || errB != nil {
			return i.boolValue(false), nil
		}
		return i.boolValue(a == b), nil
	},
	"asSymbol": func(i *Interp, recv Value, args []Value) (Value, error) {
		s, err := requireString(recv)
		if err != nil {
			return Value{}, err
		}
		return FromObj(&String_{Val: s, IsSymbol: true}), nil
	},
	"asString": func(i *Interp, recv Value, args []Value) (Value, error) {
		s, err := requireString(recv)
		if err != nil {
			return Value{}, err
		}
		return FromObj(&String_{Val: s}), nil
	},
}

// --- Boolean ------------------------------------------------------------

var booleanPrimitives = map[string]PrimitiveFunc{
	"ifTrue:": func(i *Interp, recv Value, args []Value) (Value, error) {
		blk, err := requireBlock(args[0])
		if err != nil {
			return Value{}, err
		}
		if recv.Equal(i.trueValue) {
			return i.invokeBlock(blk, nil)
		}
		return i.nilValue, nil
	},
	"ifFalse:": func(i *Interp, recv Value, args []Value) (Value, error) {
		blk, err := requireBlock(args[0])
		if err != nil {
			return Value{}, err
		}
		if recv.Equal(i.falseValue) {
			return i.invokeBlock(blk, nil)
		}
		return i.nilValue, nil
	},
	"ifTrue:ifFalse:": func(i *Interp, recv Value, args []Value) (Value, error) {
		thenBlk, err := requireBlock(args[0])
		if err != nil {
			return Value{}, err
		}
		elseBlk, err := requireBlock(args[1])
		if err != nil {
			return Value{}, err
		}
		if recv.Equal(i.trueValue) {
			return i.invokeBlock(thenBlk, nil)
		}
		return i.invokeBlock(elseBlk, nil)
	},
	"and:": func(i *Interp, recv Value, args []Value) (Value, error) {
		if !recv.Equal(i.trueValue) {
			return i.falseValue, nil
		}
		blk, err := requireBlock(args[0])
		if err != nil {
			return Value{}, err
		}
		return i.invokeBlock(blk, nil)
	},
	"or:": func(i *Interp, recv Value, args []Value) (Value, error) {
		if recv.Equal(i.trueValue) {
			return i.trueValue, nil
		}
		blk, err := requireBlock(args[0])
		if err != nil {
			return Value{}, err
		}
		return i.invokeBlock(blk, nil)
	},
	"not": func(i *Interp, recv Value, args []Value) (Value, error) {
		return i.boolValue(!recv.Equal(i.trueValue)), nil
	},
	"&": func(i *Interp, recv Value, args []Value) (Value, error) {
		return i.boolValue(recv.Equal(i.trueValue) && args[0].Equal(i.trueValue)), nil
	},
	"|": func(i *Interp, recv Value, args []Value) (Value, error) {
		return i.boolValue(recv.Equal(i.trueValue) || args[0].Equal(i.trueValue)), nil
	},
}

// --- Block ----------------------------------------------------------

var blockPrimitives = map[string]PrimitiveFunc{
	"value": func(i *Interp, recv Value, args []Value) (Value, error) {
		blk, err := requireBlock(recv)
		if err != nil {
			return Value{}, err
		}
		return i.invokeBlock(blk, nil)
	},
	"value:": func(i *Interp, recv Value, args []Value) (Value, error) {
		blk, err := requireBlock(recv)
		if err != nil {
			return Value{}, err
		}
		return i.invokeBlock(blk, args)
	},
	"value:value:": func(i *Interp, recv Value, args []Value) (Value, error) {
		blk, err := requireBlock(recv)
		if err != nil {
			return Value{}, err
		}
		return i.invokeBlock(blk, args)
	},
	"value:value:value:": func(i *Interp, recv Value, args []Value) (Value, error) {
		blk, err := requireBlock(recv)
		if err != nil {
			return Value{}, err
		}
		return i.invokeBlock(blk, args)
	},
	"whileTrue:": func(i *Interp, recv Value, args []Value) (Value, error) {
		cond, err := requireBlock(recv)
		if err != nil {
			return Value{}, err
		}
		body, err := requireBlock(args[0])
		if err != nil {
			return Value{}, err
		}
		for {
			c, err := i.invokeBlock(cond, nil)
			if err != nil {
				return Value{}, err
			}
			if !c.Equal(i.trueValue) {
				return i.nilValue, nil
			}
			if _, err := i.invokeBlock(body, nil); err != nil {
				return Value{}, err
			}
		}
	},
	"whileFalse:": func(i *Interp, recv Value, args []Value) (Value, error) {
		cond, err := requireBlock(recv)
		if err != nil {
			return Value{}, err
		}
		body, err := requireBlock(args[0])
		if err != nil {
			return Value{}, err
		}
		for {
			c, err := i.invokeBlock(cond, nil)
			if err != nil {
				return Value{}, err
			}
			if c.Equal(i.trueValue) {
				return i.nilValue, nil
			}
			if _, err := i.invokeBlock(body, nil); err != nil {
				return Value{}, err
			}
		}
	},
}

// --- Array ---------------------------------------------------------

var arrayPrimitives = map[string]PrimitiveFunc{
	"at:": func(i *Interp, recv Value, args []Value) (Value, error) {
		a, err := requireArray(recv)
		if err != nil {
			return Value{}, err
		}
		idx, err := requireInt(args[0])
		if err != nil {
			return Value{}, err
		}
		if idx < 1 || int(idx) > len(a.Elements) {
			return Value{}, newError(IndexOutOfBounds, "at: %d out of bounds (length %d)", idx, len(a.Elements))
		}
		return a.Elements[idx-1], nil
	},
	"at:put:": func(i *Interp, recv Value, args []Value) (Value, error) {
		a, err := requireArray(recv)
		if err != nil {
			return Value{}, err
		}
		idx, err := requireInt(args[0])
		if err != nil {
			return Value{}, err
		}
		if idx < 1 || int(idx) > len(a.Elements) {
			return Value{}, newError(IndexOutOfBounds, "at:put: %d out of bounds (length %d)", idx, len(a.Elements))
		}
		a.Elements[idx-1] = args[1]
		return args[1], nil
	},
	"length": func(i *Interp, recv Value, args []Value) (Value, error) {
		a, err := requireArray(recv)
		if err != nil {
			return Value{}, err
		}
		return FromInt64(int64(len(a.Elements))), nil
	},
	"do:": func(i *Interp, recv Value, args []Value) (Value, error) {
		a, err := requireArray(recv)
		if err != nil {
			return Value{}, err
		}
		blk, err := requireBlock(args[0])
		if err != nil {
			return Value{}, err
		}
		for _, e := range a.Elements {
			if _, err := i.invokeBlock(blk, []Value{e}); err != nil {
				return Value{}, err
			}
		}
		return recv, nil
	},
}

// --- System -----------------------------------------------------------

var systemPrimitives = map[string]PrimitiveFunc{
	"exit:": func(i *Interp, recv Value, args []Value) (Value, error) {
		code, _ := requireInt(args[0])
		os.Exit(int(code))
		return Value{}, nil
	},
	"printString:": func(i *Interp, recv Value, args []Value) (Value, error) {
		s, err := requireString(args[0])
		if err != nil {
			return Value{}, err
		}
		fmt.Print(s)
		return recv, nil
	},
}

// --- Class / Nil --------------------------------------------------------

var classPrimitives = map[string]PrimitiveFunc{
	"new": func(i *Interp, recv Value, args []Value) (Value, error) {
		class, ok := recv.Obj().(*Class)
		if !ok {
			return Value{}, newError(TypeError, "new sent to a non-Class")
		}
		fields := make([]Value, class.NumFields())
		for idx := range fields {
			fields[idx] = i.nilValue
		}
		return FromObj(&Inst{Class: class, Fields: fields}), nil
	},
	// new: is a class-side allocator; only Array gives it a distinct
	// meaning (a sized, nil-filled element vector) in this VM, since
	// there's no per-class metaclass to hang an Array-only class method
	// off of — every class value shares ClassClassObj.
	"new:": func(i *Interp, recv Value, args []Value) (Value, error) {
		class, ok := recv.Obj().(*Class)
		if !ok {
			return Value{}, newError(TypeError, "new: sent to a non-Class")
		}
		if class.Name != "Array" {
			return Value{}, newError(UnknownMethod, "%s does not understand \"new:\"", class.Name)
		}
		n, err := requireInt(args[0])
		if err != nil {
			return Value{}, err
		}
		elems := make([]Value, n)
		for idx := range elems {
			elems[idx] = i.nilValue
		}
		return FromObj(&Array{Elements: elems}), nil
	},
	"name": func(i *Interp, recv Value, args []Value) (Value, error) {
		class, ok := recv.Obj().(*Class)
		if !ok {
			return Value{}, newError(TypeError, "name sent to a non-Class")
		}
		return FromObj(&String_{Val: class.Name, IsSymbol: true}), nil
	},
	"superclass": func(i *Interp, recv Value, args []Value) (Value, error) {
		class, ok := recv.Obj().(*Class)
		if !ok || class.Super == nil {
			return i.nilValue, nil
		}
		return FromObj(class.Super), nil
	},
}

var nilPrimitives = map[string]PrimitiveFunc{
	"isNil":  objectPrimitives["isNil"],
	"notNil": objectPrimitives["notNil"],
}

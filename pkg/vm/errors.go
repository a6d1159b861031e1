package vm

import "fmt"

// ErrorKind enumerates the VMError channel: runtime faults the
// interpreter can raise while executing a bytecode stream, as distinct
// from the compiler's ParseError/compile-error channel.
type ErrorKind int

const (
	CantRepresentAsBigInt ErrorKind = iota
	CantRepresentAsDouble
	CantRepresentAsIsize
	CantRepresentAsUsize
	DivisionByZero
	Exit
	GcBoxTypeError
	NegativeShift
	NotANumber
	PrimitiveError
	ShiftTooBig
	TypeError
	UnassignedVar
	UnknownMethod
	IndexOutOfBounds
)

func (k ErrorKind) String() string {
	switch k {
	case CantRepresentAsBigInt:
		return "CantRepresentAsBigInt"
	case CantRepresentAsDouble:
		return "CantRepresentAsDouble"
	case CantRepresentAsIsize:
		return "CantRepresentAsIsize"
	case CantRepresentAsUsize:
		return "CantRepresentAsUsize"
	case DivisionByZero:
		return "DivisionByZero"
	case Exit:
		return "Exit"
	case GcBoxTypeError:
		return "GcBoxTypeError"
	case NegativeShift:
		return "NegativeShift"
	case NotANumber:
		return "NotANumber"
	case PrimitiveError:
		return "PrimitiveError"
	case ShiftTooBig:
		return "ShiftTooBig"
	case TypeError:
		return "TypeError"
	case UnassignedVar:
		return "UnassignedVar"
	case UnknownMethod:
		return "UnknownMethod"
	case IndexOutOfBounds:
		return "IndexOutOfBounds"
	default:
		return "UnknownVMError"
	}
}

// VMError is a runtime fault raised while executing bytecode. Exit is
// not a failure: main.go treats it the same as a clean return.
type VMError struct {
	Kind    ErrorKind
	Message string
	// Trace is an optional call-stack snapshot (class/selector/line/
	// column per frame); newError leaves it empty.
	Trace []StackFrame
}

func (e *VMError) Error() string {
	if len(e.Trace) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	s := fmt.Sprintf("%s: %s\n", e.Kind, e.Message)
	for _, f := range e.Trace {
		s += fmt.Sprintf("  at %s>>%s (line %d, column %d)\n", f.Class, f.Selector, f.Line, f.Column)
	}
	return s
}

// StackFrame is one entry in a captured backtrace.
type StackFrame struct {
	Class    string
	Selector string
	Line     int
	Column   int
}

func newError(kind ErrorKind, format string, args ...interface{}) *VMError {
	return &VMError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

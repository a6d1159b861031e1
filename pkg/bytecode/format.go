package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders a Method's instruction stream as human-readable
// text, one instruction per line prefixed with its offset.
func Disassemble(m *Method) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s>>%s (args=%d locals=%d)\n", m.Holder, m.Selector, m.NumArgs, m.NumLocals)
	if m.IsPrimitive {
		fmt.Fprintf(&b, "  <primitive: %s>\n", m.PrimitiveName)
		return b.String()
	}
	for pc, instr := range m.Instrs {
		fmt.Fprintf(&b, "  %4d  %s\n", pc, instr.String())
	}
	return b.String()
}

package vm

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"
)

// Debugger is a minimal breakpoint/single-step facility, enabled with
// "smog -d". It walks the real Frame/Closure chain the rest of this
// package builds, since that's the only thing that makes (depth, slot)
// addressing and closure identity printable.
type Debugger struct {
	enabled     bool
	stepMode    bool
	breakpoints map[int]bool // instruction offset -> set

	// onBreak, if set, is called whenever execution stops (breakpoint
	// hit or single-step); it receives the interpreter and the
	// currently executing frame so a REPL loop can inspect both.
	onBreak func(i *Interp, frame *Frame)
}

// NewDebugger creates a disabled Debugger.
func NewDebugger() *Debugger {
	return &Debugger{breakpoints: make(map[int]bool)}
}

// Enable turns the debugger on.
func (d *Debugger) Enable() { d.enabled = true }

// Disable turns the debugger off.
func (d *Debugger) Disable() { d.enabled = false }

// SetStepMode toggles single-step mode, which invokes onBreak before
// every instruction rather than only at breakpoints.
func (d *Debugger) SetStepMode(on bool) { d.stepMode = on }

// AddBreakpoint marks instruction offset pc within whatever method is
// currently executing as a breakpoint.
func (d *Debugger) AddBreakpoint(pc int) { d.breakpoints[pc] = true }

// RemoveBreakpoint clears a previously set breakpoint.
func (d *Debugger) RemoveBreakpoint(pc int) { delete(d.breakpoints, pc) }

// ClearBreakpoints removes every breakpoint.
func (d *Debugger) ClearBreakpoints() { d.breakpoints = make(map[int]bool) }

// OnBreak installs the callback invoked when execution stops.
func (d *Debugger) OnBreak(fn func(i *Interp, frame *Frame)) { d.onBreak = fn }

func (d *Debugger) beforeInstr(i *Interp, frame *Frame) {
	if d.stepMode || d.breakpoints[frame.PC] {
		if d.onBreak != nil {
			d.onBreak(i, frame)
		}
	}
}

// DumpFrame renders one activation's state for a REPL inspection
// command: its class/selector, program counter, the next instruction,
// and the variable slots visible in its own closure.
func DumpFrame(f *Frame) string {
	var next string
	if f.PC < len(f.Instrs) {
		next = f.Instrs[f.PC].String()
	} else {
		next = "<end>"
	}
	return fmt.Sprintf("%s>>%s pc=%d next=%s vars=%v", f.Class, f.Selector, f.PC, next, f.Closure.Vars)
}

// DumpClassRegistry renders a deterministic, sorted listing of every
// class name registered in the interpreter — golang.org/x/exp/maps
// backs the sort-stable dump.
func DumpClassRegistry(i *Interp) []string {
	names := maps.Keys(i.classes)
	sort.Strings(names)
	return names
}

// DumpBacktrace renders the interpreter's live call stack, most recent
// frame first.
func DumpBacktrace(i *Interp) []string {
	var lines []string
	for j := len(i.frames) - 1; j >= 0; j-- {
		lines = append(lines, DumpFrame(i.frames[j]))
	}
	return lines
}

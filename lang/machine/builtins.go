package machine

import (
	"fmt"
	"math"
	"strings"

	"github.com/bluebat-lang/bluebat/lang/heap"
	"github.com/bluebat-lang/bluebat/lang/scope"
	"github.com/bluebat-lang/bluebat/lang/token"
)

// builtinNames are registered as Builtin values in the root scope at
// Machine construction time (spec.md §6's "host-exposed builtins").
var builtinNames = []string{
	"sin", "cos", "tan", "print", "println", "input", "len", "collect", "memtest",
}

func (m *Machine) registerBuiltins() {
	for _, name := range builtinNames {
		m.Scopes.AssignLocal(name, scope.Root, m.Heap, heap.Builtin(name))
	}
}

// callBuiltin dispatches a call to a host-provided function by name
// (spec.md §4.5's Call rule for a Builtin base, and §6's builtin list).
func (m *Machine) callBuiltin(pos token.Pos, name string, args []heap.Value, sc scope.Handle) (heap.Value, error) {
	switch name {
	case "sin", "cos", "tan":
		return m.trig(pos, name, args)
	case "print":
		m.printArgs(args, false)
		return heap.Null(), nil
	case "println":
		m.printArgs(args, true)
		return heap.Null(), nil
	case "input":
		return m.input(pos, args)
	case "len":
		return m.lenOf(pos, args)
	case "collect":
		if len(args) != 0 {
			return heap.Value{}, m.errf(pos, "collect takes no arguments, got %d", len(args))
		}
		m.Collect(sc)
		return heap.Null(), nil
	case "memtest":
		return m.memtest(pos, args)
	default:
		return heap.Value{}, m.errf(pos, "unknown builtin %q", name)
	}
}

func (m *Machine) trig(pos token.Pos, name string, args []heap.Value) (heap.Value, error) {
	if len(args) != 1 {
		return heap.Value{}, m.errf(pos, "%s takes exactly 1 argument, got %d", name, len(args))
	}
	if args[0].Kind != heap.KNumber {
		return heap.Value{}, m.errf(pos, "%s requires a number argument, got %s", name, args[0].Kind)
	}
	var f func(float64) float64
	switch name {
	case "sin":
		f = math.Sin
	case "cos":
		f = math.Cos
	case "tan":
		f = math.Tan
	}
	return heap.Number(f(args[0].Num)), nil
}

// printArgs implements print/println (spec.md §4.1/§6): concatenate
// to_str of each arg with no separator, matching spec.md's literal
// wording over original_source's trailing-space behavior (Open Question
// 1, see DESIGN.md).
func (m *Machine) printArgs(args []heap.Value, newline bool) {
	var sb strings.Builder
	for _, v := range args {
		sb.WriteString(heap.ToStr(m.Heap, v, nil))
	}
	if newline {
		sb.WriteByte('\n')
	}
	fmt.Fprint(m.Stdout, sb.String())
}

// input prints its prompt argument, reads one line from stdin, strips a
// trailing CR/LF, and returns it as a String (SPEC_FULL.md's supplemented
// feature: absent from original_source, specified only by spec.md §6).
func (m *Machine) input(pos token.Pos, args []heap.Value) (heap.Value, error) {
	if len(args) != 1 || args[0].Kind != heap.KString {
		return heap.Value{}, m.errf(pos, "input takes exactly 1 string argument")
	}
	fmt.Fprint(m.Stdout, args[0].Str)
	if !m.stdin.Scan() {
		return heap.String(""), nil
	}
	line := strings.TrimRight(m.stdin.Text(), "\r\n")
	return heap.String(line), nil
}

func (m *Machine) lenOf(pos token.Pos, args []heap.Value) (heap.Value, error) {
	if len(args) != 1 {
		return heap.Value{}, m.errf(pos, "len takes exactly 1 argument, got %d", len(args))
	}
	switch args[0].Kind {
	case heap.KArray:
		return heap.Number(float64(len(args[0].Arr))), nil
	case heap.KString:
		return heap.Number(float64(args[0].RuneLen())), nil
	default:
		return heap.Value{}, m.errf(pos, "len requires an Array or String, got %s", args[0].Kind)
	}
}

// memtest is a debugging aid (SPEC_FULL.md's supplemented feature, in
// place of original_source's `{:#?}` Memory/ScopeList dump): it writes a
// structured snapshot of arena population to stdout and mutates nothing.
func (m *Machine) memtest(pos token.Pos, args []heap.Value) (heap.Value, error) {
	if len(args) != 0 {
		return heap.Value{}, m.errf(pos, "memtest takes no arguments, got %d", len(args))
	}
	fmt.Fprintf(m.Stdout, "heap population: %d\n", m.Heap.Len())
	fmt.Fprintf(m.Stdout, "scope population: %d\n", m.Scopes.Len())
	fmt.Fprintf(m.Stdout, "last sweep count: %d\n", m.lastSweepCount)
	fmt.Fprintf(m.Stdout, "protected handle count: %d\n", len(m.Heap.ProtectedHandles()))
	return heap.Null(), nil
}

package machine

import (
	"bufio"
	"io"

	"github.com/bluebat-lang/bluebat/lang/heap"
	"github.com/bluebat-lang/bluebat/lang/scope"
)

// Machine owns one program's heap, scope arena and IO streams, and drives
// the recursive evaluator over them. It plays the role the teacher's
// Thread type plays for its bytecode VM (owns IO, owns limits, one method
// per "run a thing") — see DESIGN.md for why the body had to change
// (tree-walking instead of opcode dispatch) while this shape did not.
type Machine struct {
	Heap   *heap.Heap
	Scopes *scope.Arena

	Stdout io.Writer
	Stderr io.Writer
	stdin  *bufio.Scanner

	// GCThreshold and MaxCallDepth are populated from internal/config
	// (spec.md §4.4's THRESHOLD and §5's recursion guard, both made
	// environment-configurable rather than hardcoded).
	GCThreshold  int
	MaxCallDepth int

	lastSweepCount int
	callDepth      int
}

// New constructs a Machine with an empty heap and a scope arena containing
// only the root scope, with builtins registered in it.
func New(stdout, stderr io.Writer, stdin io.Reader, gcThreshold, maxCallDepth int) *Machine {
	m := &Machine{
		Heap:         heap.New(),
		Scopes:       scope.New(),
		Stdout:       stdout,
		Stderr:       stderr,
		stdin:        bufio.NewScanner(stdin),
		GCThreshold:  gcThreshold,
		MaxCallDepth: maxCallDepth,
	}
	m.registerBuiltins()
	return m
}

// RootScope is the handle programs begin executing in.
func (m *Machine) RootScope() scope.Handle { return scope.Root }

// ReadLine reads one line from the Machine's stdin scanner, the same
// scanner the `input` builtin reads from (builtins.go). A REPL driving a
// Machine must read its input lines through ReadLine rather than wrapping
// stdin in a second bufio.Scanner of its own: two buffered scanners over
// one underlying reader would each buffer ahead independently, so a REPL
// line that calls input() could read stale or missing data depending on
// which scanner had already pulled bytes out of the reader.
func (m *Machine) ReadLine() (string, bool) {
	if !m.stdin.Scan() {
		return "", false
	}
	return m.stdin.Text(), true
}

// StdinErr reports the error, if any, the shared stdin scanner encountered
// (io.EOF is not reported as an error by bufio.Scanner.Err).
func (m *Machine) StdinErr() error { return m.stdin.Err() }

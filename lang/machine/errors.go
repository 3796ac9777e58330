package machine

import (
	"fmt"

	"github.com/bluebat-lang/bluebat/lang/token"
)

// InterpreterError is every runtime failure the evaluator raises: type
// mismatch, arity mismatch, unknown name, out-of-bounds index, failed
// cast, unassignable L-value (spec.md §7). It carries an optional position
// so the shell can print `line:col: message`, without the evaluator itself
// threading position through every return value.
type InterpreterError struct {
	Pos    token.Pos
	HasPos bool
	Msg    string
}

func (e *InterpreterError) Error() string {
	if !e.HasPos {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", token.FormatPos(token.PosShort, nil, e.Pos, true), e.Msg)
}

func (m *Machine) errf(pos token.Pos, format string, args ...interface{}) error {
	return &InterpreterError{Pos: pos, HasPos: true, Msg: fmt.Sprintf(format, args...)}
}

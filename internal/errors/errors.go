// Package errors defines the engine's three error families: SyntaxError
// (lex/parse failures), EvalError (runtime faults, carrying the script call
// stack), and LimitsError (a subtype of EvalError for uncatchable
// resource-limit failures). See spec §4.8 and §6 for the exact wire format
// each Error() string must produce.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/es6sandbox/internal/ast"
)

// SyntaxError is raised by the lexer or parser. It never enters a script's
// own try/catch since it occurs before execution begins.
type SyntaxError struct {
	Pos     ast.Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("[line: %d, column: %d] %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Frame is one entry of a script-level call stack, used for EvalError
// diagnostics. CallSite is the source text of the call expression itself
// (e.g. "foo.x = 1"), rendered per spec §6 as "<call-site> (<file>:<line>)".
type Frame struct {
	FunctionName string
	CallSite     string
	Filename     string
	Line         int
	Column       int
}

func (f Frame) String() string {
	return fmt.Sprintf("%s (%s:%d)", f.CallSite, f.Filename, f.Line)
}

// CallStack is a sequence of Frames, innermost call last (the order frames
// are naturally pushed during execution).
type CallStack []Frame

// Lines renders the stack bottom-up-first per spec §7 ("innermost call
// first"), i.e. reversed relative to push order.
func (cs CallStack) Lines() []string {
	lines := make([]string, len(cs))
	for i := range cs {
		lines[i] = cs[len(cs)-1-i].String()
	}
	return lines
}

// EvalError is a runtime fault: a type error, an unsupported-feature use,
// or an uncaught script `throw`. It carries the script call stack captured
// at the point of the throw.
type EvalError struct {
	Pos     ast.Position
	Message string
	Stack   CallStack
	Thrown  any // the script Value that was thrown, for uncaught `throw`
}

func (e *EvalError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	for _, line := range e.Stack.Lines() {
		sb.WriteString("\n\t")
		sb.WriteString(line)
	}
	return sb.String()
}

// LimitsErrorKind identifies which budget was exceeded.
type LimitsErrorKind int

const (
	LimitOps LimitsErrorKind = iota
	LimitMemory
	LimitCallDepth
	LimitTimeout
)

const (
	MsgOpsLimit       = "Reached the execution limit!"
	MsgMemoryLimit    = "Reached the memory limit!"
	MsgCallDepthLimit = "Reached the call stack limit!"
	MsgTimeoutLimit   = "Reached the timeout!"
)

// LimitsError is a subtype of EvalError. It is never catchable by a
// script-level try/catch/finally: it unwinds past all of them and
// terminates the EvalCtx (spec §4.8, §7).
type LimitsError struct {
	Kind LimitsErrorKind
}

func (e *LimitsError) Error() string {
	switch e.Kind {
	case LimitMemory:
		return MsgMemoryLimit
	case LimitCallDepth:
		return MsgCallDepthLimit
	case LimitTimeout:
		return MsgTimeoutLimit
	default:
		return MsgOpsLimit
	}
}

// NewLimitsError constructs a LimitsError for the given kind.
func NewLimitsError(kind LimitsErrorKind) *LimitsError {
	return &LimitsError{Kind: kind}
}

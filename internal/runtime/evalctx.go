package runtime

import (
	"github.com/cwbudde/es6sandbox/internal/ast"
	"github.com/cwbudde/es6sandbox/internal/errors"
	"github.com/cwbudde/es6sandbox/internal/limits"
)

// EvalCtx is the single object threaded through an entire execution: the
// heap, the global scope, the resource meter, and the live script call
// stack. Exactly one EvalCtx exists per Eval call; nothing it owns is
// shared with any other execution of the same parsed script (spec §3, §5).
type EvalCtx struct {
	Heap     *Heap
	Meter    *limits.Meter
	Global   *Environment
	Filename string

	// CallFunc invokes a callable Value. It is wired by the interp package
	// after construction so that builtins implemented outside interp (the
	// Array/Map/Set higher-order methods) can call back into script
	// functions without an import cycle.
	CallFunc func(callee Value, this Value, args []Value) (Value, error)

	callStack errors.CallStack
}

// NewEvalCtx wires a fresh Heap and global Environment to meter. The call
// stack starts seeded with one root frame representing top-level program
// execution, so an uncaught error thrown outside any function call still
// produces a frame naming the offending top-level statement; this frame is
// never popped and never charged against max_call_depth (it isn't a call).
func NewEvalCtx(filename string, meter *limits.Meter) *EvalCtx {
	return &EvalCtx{
		Heap:      NewHeap(meter),
		Meter:     meter,
		Global:    NewEnvironment(nil),
		Filename:  filename,
		callStack: errors.CallStack{{Filename: filename}},
	}
}

// Step charges one evaluation step against the meter. Every AST-node
// evaluation and every loop iteration calls this before doing any work
// (spec §4.5).
func (c *EvalCtx) Step() error { return c.Meter.Step() }

// PushFrame enters a call, enforcing the call-depth budget, and records a
// diagnostic frame for any EvalError constructed while it is active.
func (c *EvalCtx) PushFrame(f errors.Frame) error {
	if err := c.Meter.PushCall(); err != nil {
		return err
	}
	c.callStack = append(c.callStack, f)
	return nil
}

// SetSite records the source text and position of the statement or call
// expression currently executing within the innermost active frame. The
// interpreter calls this before evaluating each statement and again, more
// precisely, before invoking a call expression's callee, so that a frame's
// CallSite always reflects the last thing that frame was doing when an
// error propagated through it (spec §6, §8 scenario 6).
func (c *EvalCtx) SetSite(site string, pos ast.Position) {
	if len(c.callStack) == 0 {
		return
	}
	top := &c.callStack[len(c.callStack)-1]
	top.CallSite = site
	top.Line = pos.Line
	top.Column = pos.Column
}

// PopFrame leaves the most recently pushed call. It is safe to call during
// both normal return and error unwind.
func (c *EvalCtx) PopFrame() {
	c.Meter.PopCall()
	if len(c.callStack) > 0 {
		c.callStack = c.callStack[:len(c.callStack)-1]
	}
}

// CallStack returns a snapshot of the currently active call frames,
// innermost last.
func (c *EvalCtx) CallStack() errors.CallStack {
	return append(errors.CallStack(nil), c.callStack...)
}

// NewEvalError builds an EvalError at pos carrying the live call stack.
func (c *EvalCtx) NewEvalError(pos ast.Position, message string) *errors.EvalError {
	return &errors.EvalError{Pos: pos, Message: message, Stack: c.CallStack()}
}

// Stats reports the execution's resource consumption so far.
func (c *EvalCtx) Stats() limits.Stats { return c.Meter.Stats() }

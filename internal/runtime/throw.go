package runtime

import "github.com/cwbudde/es6sandbox/internal/errors"

// Thrown is a catchable script-level throw, carried through the ordinary
// Go `error` channel so builtins and the interpreter's own throw
// statement share one representation (spec §4.8). try/catch unwraps it;
// a *errors.LimitsError is never wrapped this way and so is never caught.
// Stack is a snapshot of the call stack at the moment the throw occurred
// (spec §6: "call stack ... captured at the throw site"), taken up front
// because PopFrame unwinds the live stack as the error propagates.
type Thrown struct {
	Value Value
	Stack errors.CallStack
}

func (t *Thrown) Error() string { return "uncaught exception: " + ToStringValue(t.Value) }

// NewThrown wraps v as a catchable throw, snapshotting ctx's current call
// stack. Used by the interpreter's `throw` statement.
func NewThrown(ctx *EvalCtx, v Value) *Thrown {
	return &Thrown{Value: v, Stack: ctx.CallStack()}
}

// NewTypeError raises a catchable TypeError-class exception, allocating
// the Error object against ctx's heap.
func NewTypeError(ctx *EvalCtx, message string) error {
	return newErrorValue(ctx, "TypeError", message)
}

// NewRangeError raises a catchable RangeError-class exception.
func NewRangeError(ctx *EvalCtx, message string) error {
	return newErrorValue(ctx, "RangeError", message)
}

func newErrorValue(ctx *EvalCtx, name, message string) error {
	obj, err := ctx.Heap.NewObject()
	if err != nil {
		return err
	}
	obj.Class = ClassError
	if err := ctx.Heap.SetProperty(obj, "name", String(name)); err != nil {
		return err
	}
	if err := ctx.Heap.SetProperty(obj, "message", String(message)); err != nil {
		return err
	}
	return &Thrown{Value: Obj(obj), Stack: ctx.CallStack()}
}

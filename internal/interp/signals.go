// Package interp is the tree-walking evaluator: it walks the AST produced
// by internal/parser against the value/object/environment model in
// internal/runtime, charging internal/limits at every step (spec §4,
// §9 design notes).
//
// Control flow (break/continue/return) and script-level throw are all
// carried home through the ordinary Go `error` return channel as small
// sentinel types, the same channel LimitsError already uses to abort an
// execution. A loop only unwraps *signalBreak/*signalContinue bearing its
// own label (or no label); a function call only unwraps *signalReturn;
// try/catch unwraps *runtime.Thrown but never a *errors.LimitsError,
// which is left to propagate untouched.
package interp

import (
	"github.com/cwbudde/es6sandbox/internal/runtime"
)

type signalBreak struct{ Label string }

func (s *signalBreak) Error() string { return "break" }

type signalContinue struct{ Label string }

func (s *signalContinue) Error() string { return "continue" }

type signalReturn struct{ Value runtime.Value }

func (s *signalReturn) Error() string { return "return" }

// newError builds a thrown Error-class object with the given name and
// message, the shape every internal runtime fault raises (spec §4.8).
func newError(ctx *runtime.EvalCtx, name, message string) (*runtime.Thrown, error) {
	obj, err := ctx.Heap.NewObject()
	if err != nil {
		return nil, err
	}
	obj.Class = runtime.ClassError
	if err := ctx.Heap.SetProperty(obj, "name", runtime.String(name)); err != nil {
		return nil, err
	}
	if err := ctx.Heap.SetProperty(obj, "message", runtime.String(message)); err != nil {
		return nil, err
	}
	return runtime.NewThrown(ctx, runtime.Obj(obj)), nil
}

package interp

import (
	"github.com/cwbudde/es6sandbox/internal/ast"
	"github.com/cwbudde/es6sandbox/internal/errors"
	"github.com/cwbudde/es6sandbox/internal/runtime"
)

// makeFunctionValue allocates a callable Object for a script-defined
// function/arrow, closing over closureEnv. Capturing the Environment
// itself (rather than a value snapshot) is what gives script closures
// their mutable-shared-variable semantics (spec §4.2, §9 design notes).
//
// The allocation's captured-slot cost is approximated as zero: charging
// the exact free-variable set would need a closure-conversion pass this
// tree-walking evaluator doesn't perform, so only the closure header is
// billed.
func (it *Interpreter) makeFunctionValue(name string, params []ast.Pattern, body *ast.BlockStatement, exprBody ast.Expression, closureEnv *runtime.Environment, isArrow bool, boundThis runtime.Value) (runtime.Value, error) {
	obj, err := it.ctx.Heap.NewClosure(0)
	if err != nil {
		return runtime.Value{}, err
	}
	obj.Script = &runtime.ScriptFunctionData{
		Name:      name,
		Params:    params,
		Body:      body,
		ExprBody:  exprBody,
		Closure:   closureEnv,
		IsArrow:   isArrow,
		BoundThis: boundThis,
	}
	obj.Callable = func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return it.invokeScript(obj.Script, this, args)
	}
	if name != "" {
		if err := it.ctx.Heap.SetProperty(obj, "name", runtime.String(name)); err != nil {
			return runtime.Value{}, err
		}
	}
	if err := it.ctx.Heap.SetProperty(obj, "length", runtime.Number(float64(len(params)))); err != nil {
		return runtime.Value{}, err
	}
	return runtime.Obj(obj), nil
}

// invokeScript runs a script function/arrow body against freshly bound
// parameters, enforcing the call-depth budget for the duration of the
// call (spec §4.5).
func (it *Interpreter) invokeScript(fn *runtime.ScriptFunctionData, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	callEnv := runtime.NewEnvironment(fn.Closure)

	effectiveThis := this
	if fn.IsArrow {
		effectiveThis = fn.BoundThis
	}
	callEnv.Declare("this", runtime.BindParam, true, effectiveThis)

	if err := it.bindParams(fn.Params, args, callEnv); err != nil {
		return runtime.Undefined(), err
	}

	if !fn.IsArrow {
		argsObj, err := it.ctx.Heap.NewArrayWithCapacity(len(args))
		if err != nil {
			return runtime.Undefined(), err
		}
		argsObj.Elements = append([]runtime.Value(nil), args...)
		callEnv.Declare("arguments", runtime.BindParam, true, runtime.Obj(argsObj))
	}

	// CallSite/Line start zero: this frame's site is filled in once the
	// callee's own body starts executing statements (Interpreter.markSite),
	// or stays zero if the call fails before reaching one.
	frame := errors.Frame{FunctionName: fn.Name, Filename: it.ctx.Filename}
	if err := it.ctx.PushFrame(frame); err != nil {
		return runtime.Undefined(), err
	}
	defer it.ctx.PopFrame()

	if fn.ExprBody != nil {
		v, err := it.evalExpression(fn.ExprBody, callEnv)
		if err != nil {
			return runtime.Undefined(), err
		}
		return v, nil
	}

	if err := it.hoistBlockLocals(fn.Body.Body, callEnv); err != nil {
		return runtime.Undefined(), err
	}
	it.hoistVarsDeep(fn.Body.Body, callEnv)
	if err := it.execBlockBody(fn.Body.Body, callEnv); err != nil {
		if ret, ok := err.(*signalReturn); ok {
			return ret.Value, nil
		}
		return runtime.Undefined(), err
	}
	return runtime.Undefined(), nil
}

func (it *Interpreter) bindParams(params []ast.Pattern, args []runtime.Value, env *runtime.Environment) error {
	for i, p := range params {
		if spread, ok := p.(*ast.SpreadElement); ok {
			restPat, ok := spread.Argument.(ast.Pattern)
			if !ok {
				return it.typeErrorf("invalid rest parameter")
			}
			var rest []runtime.Value
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			arr, err := it.ctx.Heap.NewArrayWithCapacity(len(rest))
			if err != nil {
				return err
			}
			arr.Elements = rest
			if err := it.bindPattern(restPat, runtime.Obj(arr), env, "param"); err != nil {
				return err
			}
			continue
		}
		var v runtime.Value = runtime.Undefined()
		if i < len(args) {
			v = args[i]
		}
		if err := it.bindPattern(p, v, env, "param"); err != nil {
			return err
		}
	}
	return nil
}

// callValue invokes callee (which must be callable) with this and args,
// charging one call-depth unit for the duration held by the callee
// itself (native callables manage their own framing).
func (it *Interpreter) callValue(callee runtime.Value, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	if !callee.IsCallable() {
		return runtime.Undefined(), it.typeErrorf("value is not a function")
	}
	return callee.Object().Callable(it.ctx, this, args)
}

// typeErrorf raises a catchable TypeError-class script exception.
func (it *Interpreter) typeErrorf(message string) error {
	t, err := newError(it.ctx, "TypeError", message)
	if err != nil {
		return err
	}
	return t
}

// referenceErrorf raises a catchable ReferenceError-class script
// exception.
func (it *Interpreter) referenceErrorf(message string) error {
	t, err := newError(it.ctx, "ReferenceError", message)
	if err != nil {
		return err
	}
	return t
}

package interp

import (
	"github.com/cwbudde/es6sandbox/internal/ast"
	"github.com/cwbudde/es6sandbox/internal/errors"
	"github.com/cwbudde/es6sandbox/internal/runtime"
)

// loopSignal inspects an error returned from a loop body: it reports
// (stop, err) where stop tells the loop to exit and err is what the loop
// itself should return (nil if the signal was consumed).
func loopSignal(err error, label string) (stop bool, out error) {
	if err == nil {
		return false, nil
	}
	if b, ok := err.(*signalBreak); ok {
		if b.Label == "" || b.Label == label {
			return true, nil
		}
		return true, err
	}
	if c, ok := err.(*signalContinue); ok {
		if c.Label == "" || c.Label == label {
			return false, nil
		}
		return true, err
	}
	return true, err
}

func (it *Interpreter) execWhile(s *ast.WhileStatement, env *runtime.Environment, label string) error {
	for {
		if err := it.ctx.Step(); err != nil {
			return err
		}
		test, err := it.evalExpression(s.Test, env)
		if err != nil {
			return err
		}
		if !runtime.ToBoolean(test) {
			return nil
		}
		bodyErr := it.execStatement(s.Body, env)
		stop, out := loopSignal(bodyErr, label)
		if stop {
			return out
		}
	}
}

func (it *Interpreter) execDoWhile(s *ast.DoWhileStatement, env *runtime.Environment, label string) error {
	for {
		if err := it.ctx.Step(); err != nil {
			return err
		}
		bodyErr := it.execStatement(s.Body, env)
		stop, out := loopSignal(bodyErr, label)
		if stop {
			return out
		}
		test, err := it.evalExpression(s.Test, env)
		if err != nil {
			return err
		}
		if !runtime.ToBoolean(test) {
			return nil
		}
	}
}

func (it *Interpreter) execFor(s *ast.ForStatement, env *runtime.Environment, label string) error {
	loopEnv := runtime.NewEnvironment(env)
	switch init := s.Init.(type) {
	case *ast.VariableDeclaration:
		if err := it.execVariableDeclaration(init, loopEnv); err != nil {
			return err
		}
	case ast.Expression:
		if _, err := it.evalExpression(init, loopEnv); err != nil {
			return err
		}
	}
	for {
		if err := it.ctx.Step(); err != nil {
			return err
		}
		if s.Test != nil {
			test, err := it.evalExpression(s.Test, loopEnv)
			if err != nil {
				return err
			}
			if !runtime.ToBoolean(test) {
				return nil
			}
		}
		bodyErr := it.execStatement(s.Body, loopEnv)
		stop, out := loopSignal(bodyErr, label)
		if stop {
			return out
		}
		if s.Update != nil {
			if _, err := it.evalExpression(s.Update, loopEnv); err != nil {
				return err
			}
		}
	}
}

func (it *Interpreter) execForIn(s *ast.ForInStatement, env *runtime.Environment, label string) error {
	rightVal, err := it.evalExpression(s.Right, env)
	if err != nil {
		return err
	}
	if !rightVal.IsObject() || rightVal.Object() == nil {
		return nil
	}
	keys, err := rightVal.Object().EnumerableKeys(it.ctx)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := it.ctx.Step(); err != nil {
			return err
		}
		iterEnv := runtime.NewEnvironment(env)
		if err := it.bindPattern(s.Left, runtime.String(k), iterEnv, forKind(s.Kind)); err != nil {
			return err
		}
		bodyErr := it.execStatement(s.Body, iterEnv)
		stop, out := loopSignal(bodyErr, label)
		if stop {
			return out
		}
	}
	return nil
}

func (it *Interpreter) execForOf(s *ast.ForOfStatement, env *runtime.Environment, label string) error {
	rightVal, err := it.evalExpression(s.Right, env)
	if err != nil {
		return err
	}
	items, err := it.iterableValues(rightVal)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := it.ctx.Step(); err != nil {
			return err
		}
		iterEnv := runtime.NewEnvironment(env)
		if err := it.bindPattern(s.Left, item, iterEnv, forKind(s.Kind)); err != nil {
			return err
		}
		bodyErr := it.execStatement(s.Body, iterEnv)
		stop, out := loopSignal(bodyErr, label)
		if stop {
			return out
		}
	}
	return nil
}

func forKind(kind string) string {
	if kind == "" {
		return "let"
	}
	return kind
}

// iterableValues materializes the elements a for-of loop walks: arrays,
// strings (by code point), Map entries (as [key, value] pairs), and Set
// values (spec §12 supplemented iteration surface).
func (it *Interpreter) iterableValues(v runtime.Value) ([]runtime.Value, error) {
	switch v.Kind() {
	case runtime.KindString:
		runes := []rune(v.StringRaw())
		out := make([]runtime.Value, len(runes))
		for i, r := range runes {
			out[i] = runtime.String(string(r))
		}
		return out, nil
	case runtime.KindObject:
		o := v.Object()
		if o == nil {
			return nil, it.typeErrorf("value is not iterable")
		}
		switch o.Class {
		case runtime.ClassArray:
			return append([]runtime.Value(nil), o.Elements...), nil
		case runtime.ClassSet:
			return o.SetData.Keys(), nil
		case runtime.ClassMap:
			keys := o.MapData.Keys()
			values := o.MapData.Values()
			out := make([]runtime.Value, len(keys))
			for i := range keys {
				arr, err := it.ctx.Heap.NewArrayWithCapacity(2)
				if err != nil {
					return nil, err
				}
				arr.Elements = []runtime.Value{keys[i], values[i]}
				out[i] = runtime.Obj(arr)
			}
			return out, nil
		}
	}
	return nil, it.typeErrorf("value is not iterable")
}

func (it *Interpreter) execTry(s *ast.TryStatement, env *runtime.Environment) error {
	err := it.execStatement(s.Block, env)

	if s.Handler != nil {
		if thrown, ok := asCatchable(err); ok {
			catchEnv := runtime.NewEnvironment(env)
			if s.Handler.Param != nil {
				if bindErr := it.bindPattern(s.Handler.Param, thrown, catchEnv, "let"); bindErr != nil {
					err = bindErr
				} else {
					err = it.execStatement(s.Handler.Body, catchEnv)
				}
			} else {
				err = it.execStatement(s.Handler.Body, catchEnv)
			}
		}
	}

	if s.Finalizer != nil && !isLimitsErr(err) {
		finErr := it.execStatement(s.Finalizer, env)
		if finErr != nil {
			return finErr
		}
	}
	return err
}

// asCatchable reports whether err is a script-catchable signal and, if
// so, the Value a `catch (e)` binding should see.
func asCatchable(err error) (runtime.Value, bool) {
	if err == nil {
		return runtime.Value{}, false
	}
	if t, ok := err.(*runtime.Thrown); ok {
		return t.Value, true
	}
	return runtime.Value{}, false
}

func (it *Interpreter) execSwitch(s *ast.SwitchStatement, env *runtime.Environment) error {
	disc, err := it.evalExpression(s.Discriminant, env)
	if err != nil {
		return err
	}
	switchEnv := runtime.NewEnvironment(env)

	matchIdx := -1
	defaultIdx := -1
	for i, c := range s.Cases {
		if c.Test == nil {
			defaultIdx = i
			continue
		}
		testVal, err := it.evalExpression(c.Test, switchEnv)
		if err != nil {
			return err
		}
		if runtime.StrictEquals(disc, testVal) {
			matchIdx = i
			break
		}
	}
	if matchIdx == -1 {
		matchIdx = defaultIdx
	}
	if matchIdx == -1 {
		return nil
	}
	for i := matchIdx; i < len(s.Cases); i++ {
		for _, stmt := range s.Cases[i].Consequent {
			if err := it.execStatement(stmt, switchEnv); err != nil {
				if b, ok := err.(*signalBreak); ok && b.Label == "" {
					return nil
				}
				return err
			}
		}
	}
	return nil
}

// isLimitsErr reports whether err is an uncatchable resource-limit fault,
// which must unwind past every catch and finally untouched (spec §4.8).
func isLimitsErr(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*errors.LimitsError)
	return ok
}

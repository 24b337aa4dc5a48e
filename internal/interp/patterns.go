package interp

import (
	"github.com/cwbudde/es6sandbox/internal/ast"
	"github.com/cwbudde/es6sandbox/internal/runtime"
)

func bindingKindFor(kind string) runtime.BindingKind {
	switch kind {
	case "const":
		return runtime.BindConst
	case "param":
		return runtime.BindParam
	default:
		return runtime.BindLet
	}
}

// bindPattern destructures value against pat, declaring or initializing
// bindings in env. kind is "var"/"let"/"const"/"param" and governs the
// BindingKind new bindings receive; for "var" the binding was already
// hoisted, so this only initializes it.
func (it *Interpreter) bindPattern(pat ast.Pattern, value runtime.Value, env *runtime.Environment, kind string) error {
	switch p := pat.(type) {
	case *ast.Identifier:
		if kind == "var" {
			return env.Set(p.Name, value)
		}
		env.Declare(p.Name, bindingKindFor(kind), true, value)
		return nil

	case *ast.AssignmentPattern:
		v := value
		if v.IsUndefined() && p.Default != nil {
			dv, err := it.evalExpression(p.Default, env)
			if err != nil {
				return err
			}
			v = dv
		}
		return it.bindPattern(p.Target, v, env, kind)

	case *ast.ArrayPattern:
		items, err := it.iterableValues(value)
		if err != nil {
			return err
		}
		for i, el := range p.Elements {
			if el == nil {
				continue
			}
			var v runtime.Value = runtime.Undefined()
			if i < len(items) {
				v = items[i]
			}
			if err := it.bindPattern(el, v, env, kind); err != nil {
				return err
			}
		}
		if p.Rest != nil {
			restStart := len(p.Elements)
			var rest []runtime.Value
			if restStart < len(items) {
				rest = append(rest, items[restStart:]...)
			}
			arr, err := it.ctx.Heap.NewArrayWithCapacity(len(rest))
			if err != nil {
				return err
			}
			arr.Elements = rest
			if err := it.bindPattern(p.Rest, runtime.Obj(arr), env, kind); err != nil {
				return err
			}
		}
		return nil

	case *ast.ObjectPattern:
		if !value.IsObject() || value.Object() == nil {
			return it.typeErrorf("cannot destructure non-object value")
		}
		used := map[string]bool{}
		for _, prop := range p.Properties {
			key, err := it.propertyKey(prop.Key, prop.Computed, env)
			if err != nil {
				return err
			}
			used[key] = true
			v, _ := value.Object().Get(key)
			if err := it.bindPattern(prop.Value, v, env, kind); err != nil {
				return err
			}
		}
		if p.Rest != nil {
			restObj, err := it.ctx.Heap.NewObject()
			if err != nil {
				return err
			}
			for _, k := range value.Object().OwnKeys() {
				if used[k] {
					continue
				}
				v, _ := value.Object().Get(k)
				if err := it.ctx.Heap.SetProperty(restObj, k, v); err != nil {
					return err
				}
			}
			if err := it.bindPattern(p.Rest, runtime.Obj(restObj), env, kind); err != nil {
				return err
			}
		}
		return nil
	}
	return it.typeErrorf("unsupported binding pattern")
}

// propertyKey evaluates a property key, which may be a plain Identifier
// (object literal shorthand key), a StringLiteral/NumberLiteral, or a
// computed expression.
func (it *Interpreter) propertyKey(key ast.Expression, computed bool, env *runtime.Environment) (string, error) {
	if computed {
		v, err := it.evalExpression(key, env)
		if err != nil {
			return "", err
		}
		return runtime.ToStringValue(v), nil
	}
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Name, nil
	case *ast.StringLiteral:
		return k.Value, nil
	case *ast.NumberLiteral:
		return runtime.ToStringValue(runtime.Number(k.Value)), nil
	}
	v, err := it.evalExpression(key, env)
	if err != nil {
		return "", err
	}
	return runtime.ToStringValue(v), nil
}

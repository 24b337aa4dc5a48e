package interp

import (
	"math"

	"github.com/cwbudde/es6sandbox/internal/ast"
	"github.com/cwbudde/es6sandbox/internal/builtins"
	"github.com/cwbudde/es6sandbox/internal/runtime"
)

func (it *Interpreter) evalExpression(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	if err := it.ctx.Step(); err != nil {
		return runtime.Undefined(), err
	}
	switch e := expr.(type) {
	case *ast.Identifier:
		v, err := env.Get(e.Name)
		if err != nil {
			return runtime.Undefined(), it.referenceErrorf(err.Error())
		}
		return v, nil

	case *ast.NumberLiteral:
		return runtime.Number(e.Value), nil

	case *ast.StringLiteral:
		return it.ctx.Heap.NewString(e.Value)

	case *ast.BooleanLiteral:
		return runtime.Bool(e.Value), nil

	case *ast.NullLiteral:
		return runtime.Null(), nil

	case *ast.UndefinedLiteral:
		return runtime.Undefined(), nil

	case *ast.TemplateLiteral:
		return it.evalTemplateLiteral(e, env)

	case *ast.ArrayLiteral:
		return it.evalArrayLiteral(e, env)

	case *ast.ObjectLiteral:
		return it.evalObjectLiteral(e, env)

	case *ast.FunctionLiteral:
		return it.makeFunctionValue(e.Name, e.Params, e.Body, nil, env, false, runtime.Undefined())

	case *ast.ArrowFunction:
		this, _ := env.Get("this")
		return it.makeFunctionValue("", e.Params, e.Body, e.ExprBody, env, true, this)

	case *ast.UnaryExpression:
		return it.evalUnary(e, env)

	case *ast.UpdateExpression:
		return it.evalUpdate(e, env)

	case *ast.BinaryExpression:
		return it.evalBinary(e, env)

	case *ast.LogicalExpression:
		return it.evalLogical(e, env)

	case *ast.ConditionalExpression:
		test, err := it.evalExpression(e.Test, env)
		if err != nil {
			return runtime.Undefined(), err
		}
		if runtime.ToBoolean(test) {
			return it.evalExpression(e.Consequent, env)
		}
		return it.evalExpression(e.Alternate, env)

	case *ast.AssignmentExpression:
		return it.evalAssignment(e, env)

	case *ast.MemberExpression:
		_, v, err := it.evalMember(e, env)
		return v, err

	case *ast.CallExpression:
		return it.evalCall(e, env)

	case *ast.NewExpression:
		return it.evalNew(e, env)

	case *ast.SequenceExpression:
		var v runtime.Value = runtime.Undefined()
		for _, sub := range e.Expressions {
			var err error
			v, err = it.evalExpression(sub, env)
			if err != nil {
				return runtime.Undefined(), err
			}
		}
		return v, nil

	case *ast.SpreadElement:
		return it.evalExpression(e.Argument, env)
	}
	return runtime.Undefined(), it.typeErrorf("unsupported expression")
}

func (it *Interpreter) evalTemplateLiteral(e *ast.TemplateLiteral, env *runtime.Environment) (runtime.Value, error) {
	out := e.Quasis[0]
	for i, expr := range e.Expressions {
		v, err := it.evalExpression(expr, env)
		if err != nil {
			return runtime.Undefined(), err
		}
		out += runtime.ToStringValue(v)
		out += e.Quasis[i+1]
	}
	return it.ctx.Heap.NewString(out)
}

func (it *Interpreter) evalArrayLiteral(e *ast.ArrayLiteral, env *runtime.Environment) (runtime.Value, error) {
	arr, err := it.ctx.Heap.NewArrayWithCapacity(len(e.Elements))
	if err != nil {
		return runtime.Undefined(), err
	}
	for _, el := range e.Elements {
		if el == nil {
			arr.Elements = append(arr.Elements, runtime.Undefined())
			continue
		}
		if spread, ok := el.(*ast.SpreadElement); ok {
			v, err := it.evalExpression(spread.Argument, env)
			if err != nil {
				return runtime.Undefined(), err
			}
			items, err := it.iterableValues(v)
			if err != nil {
				return runtime.Undefined(), err
			}
			arr.Elements = append(arr.Elements, items...)
			continue
		}
		v, err := it.evalExpression(el, env)
		if err != nil {
			return runtime.Undefined(), err
		}
		arr.Elements = append(arr.Elements, v)
	}
	return runtime.Obj(arr), nil
}

func (it *Interpreter) evalObjectLiteral(e *ast.ObjectLiteral, env *runtime.Environment) (runtime.Value, error) {
	obj, err := it.ctx.Heap.NewObject()
	if err != nil {
		return runtime.Undefined(), err
	}
	for _, prop := range e.Properties {
		if spreadKey, ok := prop.Key.(*ast.SpreadElement); ok {
			v, err := it.evalExpression(spreadKey.Argument, env)
			if err != nil {
				return runtime.Undefined(), err
			}
			if v.IsObject() && v.Object() != nil {
				for _, k := range v.Object().OwnKeys() {
					pv, _ := v.Object().Get(k)
					if err := it.ctx.Heap.SetProperty(obj, k, pv); err != nil {
						return runtime.Undefined(), err
					}
				}
			}
			continue
		}
		key, err := it.propertyKey(prop.Key, prop.Computed, env)
		if err != nil {
			return runtime.Undefined(), err
		}
		var v runtime.Value
		if prop.Shorthand {
			v, err = env.Get(key)
			if err != nil {
				return runtime.Undefined(), it.referenceErrorf(err.Error())
			}
		} else {
			v, err = it.evalExpression(prop.Value, env)
			if err != nil {
				return runtime.Undefined(), err
			}
		}
		if err := it.ctx.Heap.SetProperty(obj, key, v); err != nil {
			return runtime.Undefined(), err
		}
	}
	return runtime.Obj(obj), nil
}

func (it *Interpreter) evalUnary(e *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	if e.Operator == "typeof" {
		if id, ok := e.Argument.(*ast.Identifier); ok {
			if v, err := env.Get(id.Name); err == nil {
				return runtime.String(runtime.TypeName(v)), nil
			}
			return runtime.String("undefined"), nil
		}
	}
	v, err := it.evalExpression(e.Argument, env)
	if err != nil {
		return runtime.Undefined(), err
	}
	switch e.Operator {
	case "!":
		return runtime.Bool(!runtime.ToBoolean(v)), nil
	case "-":
		return runtime.Number(-runtime.ToNumber(v)), nil
	case "+":
		return runtime.Number(runtime.ToNumber(v)), nil
	case "~":
		return runtime.Number(float64(^runtime.ToInt32(v))), nil
	case "typeof":
		return runtime.String(runtime.TypeName(v)), nil
	case "void":
		return runtime.Undefined(), nil
	}
	return runtime.Undefined(), it.typeErrorf("unsupported unary operator " + e.Operator)
}

func (it *Interpreter) evalUpdate(e *ast.UpdateExpression, env *runtime.Environment) (runtime.Value, error) {
	old, err := it.evalExpression(e.Argument, env)
	if err != nil {
		return runtime.Undefined(), err
	}
	oldNum := runtime.ToNumber(old)
	newNum := oldNum + 1
	if e.Operator == "--" {
		newNum = oldNum - 1
	}
	if err := it.assignTo(e.Argument, runtime.Number(newNum), env); err != nil {
		return runtime.Undefined(), err
	}
	if e.Prefix {
		return runtime.Number(newNum), nil
	}
	return runtime.Number(oldNum), nil
}

func (it *Interpreter) evalBinary(e *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := it.evalExpression(e.Left, env)
	if err != nil {
		return runtime.Undefined(), err
	}
	right, err := it.evalExpression(e.Right, env)
	if err != nil {
		return runtime.Undefined(), err
	}
	return it.applyBinary(e.Operator, left, right)
}

func (it *Interpreter) applyBinary(op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "+":
		return runtime.Add(left, right), nil
	case "-":
		return runtime.Number(runtime.ToNumber(left) - runtime.ToNumber(right)), nil
	case "*":
		return runtime.Number(runtime.ToNumber(left) * runtime.ToNumber(right)), nil
	case "/":
		return runtime.Number(runtime.ToNumber(left) / runtime.ToNumber(right)), nil
	case "%":
		return runtime.Number(math.Mod(runtime.ToNumber(left), runtime.ToNumber(right))), nil
	case "**":
		return runtime.Number(math.Pow(runtime.ToNumber(left), runtime.ToNumber(right))), nil
	case "==":
		return runtime.Bool(runtime.LooseEquals(left, right)), nil
	case "!=":
		return runtime.Bool(!runtime.LooseEquals(left, right)), nil
	case "===":
		return runtime.Bool(runtime.StrictEquals(left, right)), nil
	case "!==":
		return runtime.Bool(!runtime.StrictEquals(left, right)), nil
	case "<":
		return compareValues(left, right, func(a, b float64) bool { return a < b }, func(a, b string) bool { return a < b }), nil
	case "<=":
		return compareValues(left, right, func(a, b float64) bool { return a <= b }, func(a, b string) bool { return a <= b }), nil
	case ">":
		return compareValues(left, right, func(a, b float64) bool { return a > b }, func(a, b string) bool { return a > b }), nil
	case ">=":
		return compareValues(left, right, func(a, b float64) bool { return a >= b }, func(a, b string) bool { return a >= b }), nil
	case "&":
		return runtime.Number(float64(runtime.ToInt32(left) & runtime.ToInt32(right))), nil
	case "|":
		return runtime.Number(float64(runtime.ToInt32(left) | runtime.ToInt32(right))), nil
	case "^":
		return runtime.Number(float64(runtime.ToInt32(left) ^ runtime.ToInt32(right))), nil
	case "<<":
		return runtime.Number(float64(runtime.ToInt32(left) << (runtime.ToUint32(right) & 31))), nil
	case ">>":
		return runtime.Number(float64(runtime.ToInt32(left) >> (runtime.ToUint32(right) & 31))), nil
	case ">>>":
		return runtime.Number(float64(runtime.ToUint32(left) >> (runtime.ToUint32(right) & 31))), nil
	}
	return runtime.Undefined(), it.typeErrorf("unsupported binary operator " + op)
}

func compareValues(a, b runtime.Value, numCmp func(a, b float64) bool, strCmp func(a, b string) bool) runtime.Value {
	if a.Kind() == runtime.KindString && b.Kind() == runtime.KindString {
		return runtime.Bool(strCmp(a.StringRaw(), b.StringRaw()))
	}
	return runtime.Bool(numCmp(runtime.ToNumber(a), runtime.ToNumber(b)))
}

func (it *Interpreter) evalLogical(e *ast.LogicalExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := it.evalExpression(e.Left, env)
	if err != nil {
		return runtime.Undefined(), err
	}
	switch e.Operator {
	case "&&":
		if !runtime.ToBoolean(left) {
			return left, nil
		}
		return it.evalExpression(e.Right, env)
	case "||":
		if runtime.ToBoolean(left) {
			return left, nil
		}
		return it.evalExpression(e.Right, env)
	case "??":
		if !left.IsNullish() {
			return left, nil
		}
		return it.evalExpression(e.Right, env)
	}
	return runtime.Undefined(), it.typeErrorf("unsupported logical operator " + e.Operator)
}

func (it *Interpreter) evalAssignment(e *ast.AssignmentExpression, env *runtime.Environment) (runtime.Value, error) {
	if e.Operator == "=" {
		v, err := it.evalExpression(e.Value, env)
		if err != nil {
			return runtime.Undefined(), err
		}
		if err := it.assignTo(e.Target, v, env); err != nil {
			return runtime.Undefined(), err
		}
		return v, nil
	}

	op := e.Operator[:len(e.Operator)-1] // "+=" -> "+"
	if op == "&&" || op == "||" || op == "??" {
		left, err := it.evalExpression(e.Target, env)
		if err != nil {
			return runtime.Undefined(), err
		}
		shouldAssign := (op == "&&" && runtime.ToBoolean(left)) ||
			(op == "||" && !runtime.ToBoolean(left)) ||
			(op == "??" && left.IsNullish())
		if !shouldAssign {
			return left, nil
		}
		v, err := it.evalExpression(e.Value, env)
		if err != nil {
			return runtime.Undefined(), err
		}
		if err := it.assignTo(e.Target, v, env); err != nil {
			return runtime.Undefined(), err
		}
		return v, nil
	}

	left, err := it.evalExpression(e.Target, env)
	if err != nil {
		return runtime.Undefined(), err
	}
	right, err := it.evalExpression(e.Value, env)
	if err != nil {
		return runtime.Undefined(), err
	}
	result, err := it.applyBinary(op, left, right)
	if err != nil {
		return runtime.Undefined(), err
	}
	if err := it.assignTo(e.Target, result, env); err != nil {
		return runtime.Undefined(), err
	}
	return result, nil
}

// assignTo writes v into the location target refers to: an identifier
// binding or an (possibly computed) member property.
func (it *Interpreter) assignTo(target ast.Expression, v runtime.Value, env *runtime.Environment) error {
	switch t := target.(type) {
	case *ast.Identifier:
		if err := env.Set(t.Name, v); err != nil {
			return it.referenceErrorf(err.Error())
		}
		return nil
	case *ast.MemberExpression:
		obj, err := it.evalExpression(t.Object, env)
		if err != nil {
			return err
		}
		key, err := it.memberKey(t, env)
		if err != nil {
			return err
		}
		return it.setMember(obj, key, v)
	}
	return it.typeErrorf("invalid assignment target")
}

func (it *Interpreter) memberKey(e *ast.MemberExpression, env *runtime.Environment) (string, error) {
	if e.Computed {
		v, err := it.evalExpression(e.Property, env)
		if err != nil {
			return "", err
		}
		return runtime.ToStringValue(v), nil
	}
	id, ok := e.Property.(*ast.Identifier)
	if !ok {
		return "", it.typeErrorf("invalid property access")
	}
	return id.Name, nil
}

func (it *Interpreter) setMember(obj runtime.Value, key string, v runtime.Value) error {
	if obj.IsNullish() {
		return it.typeErrorf(noPropertiesMessage(obj))
	}
	if !obj.IsObject() || obj.Object() == nil {
		return it.typeErrorf("cannot set property '" + key + "' on non-object")
	}
	o := obj.Object()
	if o.Frozen {
		return nil
	}
	if o.Class == runtime.ClassDynamicHost && o.Resolver != nil {
		_, err := o.Resolver.Set(it.ctx, key, v)
		return err
	}
	return it.ctx.Heap.SetProperty(o, key, v)
}

// evalMember evaluates a member access, returning the object it read
// from (useful so a call expression can bind `this`) and the value.
func (it *Interpreter) evalMember(e *ast.MemberExpression, env *runtime.Environment) (runtime.Value, runtime.Value, error) {
	obj, err := it.evalExpression(e.Object, env)
	if err != nil {
		return runtime.Undefined(), runtime.Undefined(), err
	}
	key, err := it.memberKey(e, env)
	if err != nil {
		return runtime.Undefined(), runtime.Undefined(), err
	}
	v, err := it.getMember(obj, key)
	return obj, v, err
}

func (it *Interpreter) getMember(obj runtime.Value, key string) (runtime.Value, error) {
	switch obj.Kind() {
	case runtime.KindString:
		return it.stringMember(obj.StringRaw(), key)
	case runtime.KindObject:
		o := obj.Object()
		if o == nil {
			return runtime.Undefined(), it.typeErrorf(noPropertiesMessage(obj))
		}
		if o.Class == runtime.ClassDynamicHost && o.Resolver != nil {
			v, ok, err := o.Resolver.Get(it.ctx, key)
			if err != nil {
				return runtime.Undefined(), err
			}
			if ok {
				return v, nil
			}
			return runtime.Undefined(), nil
		}
		if key == "size" {
			if v, ok := builtins.Size(o); ok {
				return v, nil
			}
		}
		if v, ok := o.Get(key); ok {
			return v, nil
		}
		if fn := it.lookupBuiltinMethod(o, key); fn != nil {
			return runtime.Obj(fn), nil
		}
		return runtime.Undefined(), nil
	case runtime.KindUndefined, runtime.KindNull:
		return runtime.Undefined(), it.typeErrorf(noPropertiesMessage(obj))
	}
	return runtime.Undefined(), nil
}

// noPropertiesMessage renders the bit-exact wording spec §6 expects for a
// property access on a nullish value: "Type NULL has no properties".
func noPropertiesMessage(v runtime.Value) string {
	kind := "UNDEFINED"
	if v.IsNull() {
		kind = "NULL"
	}
	return "Type " + kind + " has no properties"
}

func (it *Interpreter) evalCall(e *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	var thisVal runtime.Value = runtime.Undefined()
	var calleeVal runtime.Value
	var err error

	if member, ok := e.Callee.(*ast.MemberExpression); ok {
		thisVal, calleeVal, err = it.evalMember(member, env)
		if err != nil {
			return runtime.Undefined(), err
		}
	} else {
		calleeVal, err = it.evalExpression(e.Callee, env)
		if err != nil {
			return runtime.Undefined(), err
		}
	}

	args, err := it.evalArguments(e.Arguments, env)
	if err != nil {
		return runtime.Undefined(), err
	}
	if !calleeVal.IsCallable() {
		return runtime.Undefined(), it.typeErrorf("value is not a function")
	}
	it.ctx.SetSite(e.String(), e.Pos())
	return it.callValue(calleeVal, thisVal, args)
}

func (it *Interpreter) evalArguments(argExprs []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	var args []runtime.Value
	for _, a := range argExprs {
		if spread, ok := a.(*ast.SpreadElement); ok {
			v, err := it.evalExpression(spread.Argument, env)
			if err != nil {
				return nil, err
			}
			items, err := it.iterableValues(v)
			if err != nil {
				return nil, err
			}
			args = append(args, items...)
			continue
		}
		v, err := it.evalExpression(a, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func (it *Interpreter) evalNew(e *ast.NewExpression, env *runtime.Environment) (runtime.Value, error) {
	calleeVal, err := it.evalExpression(e.Callee, env)
	if err != nil {
		return runtime.Undefined(), err
	}
	args, err := it.evalArguments(e.Arguments, env)
	if err != nil {
		return runtime.Undefined(), err
	}
	if !calleeVal.IsCallable() {
		return runtime.Undefined(), it.typeErrorf("value is not a constructor")
	}
	instance, err := it.ctx.Heap.NewObject()
	if err != nil {
		return runtime.Undefined(), err
	}
	result, err := it.callValue(calleeVal, runtime.Obj(instance), args)
	if err != nil {
		return runtime.Undefined(), err
	}
	if result.IsObject() {
		return result, nil
	}
	return runtime.Obj(instance), nil
}

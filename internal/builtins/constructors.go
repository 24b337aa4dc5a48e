package builtins

import "github.com/cwbudde/es6sandbox/internal/runtime"

func newObjectCtor() *runtime.Object {
	ctor := &runtime.Object{Class: runtime.ClassFunction}
	ctor.Callable = func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) > 0 && args[0].IsObject() {
			return args[0], nil
		}
		o, err := ctx.Heap.NewObject()
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.Obj(o), nil
	}
	ctor.Set("keys", nativeFn(objKeys))
	ctor.Set("values", nativeFn(objValues))
	ctor.Set("entries", nativeFn(objEntries))
	ctor.Set("assign", nativeFn(objAssign))
	ctor.Set("freeze", nativeFn(objFreeze))
	ctor.Set("isFrozen", nativeFn(objIsFrozen))
	ctor.Set("fromEntries", nativeFn(objFromEntries))
	return ctor
}

func objKeys(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := objOf(arg(args, 0))
	if o == nil {
		return wrapValues(ctx, nil)
	}
	keys, err := o.EnumerableKeys(ctx)
	if err != nil {
		return runtime.Value{}, err
	}
	out := make([]runtime.Value, len(keys))
	for i, k := range keys {
		sv, err := ctx.Heap.NewString(k)
		if err != nil {
			return runtime.Value{}, err
		}
		out[i] = sv
	}
	return wrapValues(ctx, out)
}

func objValues(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := objOf(arg(args, 0))
	if o == nil {
		return wrapValues(ctx, nil)
	}
	var out []runtime.Value
	for _, k := range o.OwnKeys() {
		v, _ := o.Get(k)
		out = append(out, v)
	}
	return wrapValues(ctx, out)
}

func objEntries(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := objOf(arg(args, 0))
	if o == nil {
		return wrapValues(ctx, nil)
	}
	var out []runtime.Value
	for _, k := range o.OwnKeys() {
		v, _ := o.Get(k)
		key, err := ctx.Heap.NewString(k)
		if err != nil {
			return runtime.Value{}, err
		}
		pair, err := ctx.Heap.NewArrayWithCapacity(2)
		if err != nil {
			return runtime.Value{}, err
		}
		pair.Elements = []runtime.Value{key, v}
		out = append(out, runtime.Obj(pair))
	}
	return wrapValues(ctx, out)
}

func objAssign(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return runtime.Undefined(), nil
	}
	target := objOf(args[0])
	if target == nil {
		return runtime.Value{}, typeErr(ctx, "Object.assign target must be an object")
	}
	for _, src := range args[1:] {
		o := objOf(src)
		if o == nil {
			continue
		}
		for _, k := range o.OwnKeys() {
			v, _ := o.Get(k)
			if err := ctx.Heap.SetProperty(target, k, v); err != nil {
				return runtime.Value{}, err
			}
		}
	}
	return args[0], nil
}

func objFreeze(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := objOf(arg(args, 0))
	if o != nil {
		o.Frozen = true
	}
	return arg(args, 0), nil
}

func objIsFrozen(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := objOf(arg(args, 0))
	return runtime.Bool(o == nil || o.Frozen), nil
}

func objFromEntries(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	items, err := iterableOf(ctx, arg(args, 0))
	if err != nil {
		return runtime.Value{}, err
	}
	obj, err := ctx.Heap.NewObject()
	if err != nil {
		return runtime.Value{}, err
	}
	for _, item := range items {
		o := objOf(item)
		if o == nil || len(o.Elements) < 2 {
			continue
		}
		key := runtime.ToStringValue(o.Elements[0])
		if err := ctx.Heap.SetProperty(obj, key, o.Elements[1]); err != nil {
			return runtime.Value{}, err
		}
	}
	return runtime.Obj(obj), nil
}

func objOf(v runtime.Value) *runtime.Object {
	if v.IsObject() {
		return v.Object()
	}
	return nil
}

// iterableOf materializes array-likes passed to Array.from/Object.fromEntries.
func iterableOf(ctx *runtime.EvalCtx, v runtime.Value) ([]runtime.Value, error) {
	o := objOf(v)
	if o == nil {
		return nil, nil
	}
	switch o.Class {
	case runtime.ClassArray:
		return append([]runtime.Value(nil), o.Elements...), nil
	case runtime.ClassSet:
		return o.SetData.Keys(), nil
	case runtime.ClassMap:
		keys, values := o.MapData.Keys(), o.MapData.Values()
		out := make([]runtime.Value, len(keys))
		for i := range keys {
			pair, err := ctx.Heap.NewArrayWithCapacity(2)
			if err != nil {
				return nil, err
			}
			pair.Elements = []runtime.Value{keys[i], values[i]}
			out[i] = runtime.Obj(pair)
		}
		return out, nil
	}
	return nil, nil
}

func newArrayCtor() *runtime.Object {
	ctor := &runtime.Object{Class: runtime.ClassFunction}
	ctor.Callable = func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 1 && args[0].Kind() == runtime.KindNumber {
			n := int(args[0].NumberRaw())
			arr, err := ctx.Heap.NewArrayWithCapacity(n)
			if err != nil {
				return runtime.Value{}, err
			}
			return runtime.Obj(arr), nil
		}
		return wrapValues(ctx, args)
	}
	ctor.Set("isArray", nativeFn(func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		o := objOf(arg(args, 0))
		return runtime.Bool(o != nil && o.Class == runtime.ClassArray), nil
	}))
	ctor.Set("from", nativeFn(func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		items, err := iterableOf(ctx, arg(args, 0))
		if err != nil {
			return runtime.Value{}, err
		}
		if arg(args, 0).Kind() == runtime.KindString {
			for _, r := range arg(args, 0).StringRaw() {
				sv, err := ctx.Heap.NewString(string(r))
				if err != nil {
					return runtime.Value{}, err
				}
				items = append(items, sv)
			}
		}
		fn := arg(args, 1)
		if fn.IsCallable() {
			for i, item := range items {
				r, err := ctx.CallFunc(fn, runtime.Undefined(), []runtime.Value{item, runtime.Number(float64(i))})
				if err != nil {
					return runtime.Value{}, err
				}
				items[i] = r
			}
		}
		return wrapValues(ctx, items)
	}))
	ctor.Set("of", nativeFn(func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return wrapValues(ctx, args)
	}))
	return ctor
}

func newMapCtor() *runtime.Object {
	ctor := &runtime.Object{Class: runtime.ClassFunction}
	ctor.Callable = func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		o, err := ctx.Heap.NewMap()
		if err != nil {
			return runtime.Value{}, err
		}
		if len(args) > 0 {
			items, err := iterableOf(ctx, args[0])
			if err != nil {
				return runtime.Value{}, err
			}
			for _, item := range items {
				pair := objOf(item)
				if pair == nil || len(pair.Elements) < 2 {
					continue
				}
				o.MapData.Set(pair.Elements[0], pair.Elements[1])
			}
		}
		return runtime.Obj(o), nil
	}
	return ctor
}

func newSetCtor() *runtime.Object {
	ctor := &runtime.Object{Class: runtime.ClassFunction}
	ctor.Callable = func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		o, err := ctx.Heap.NewSet()
		if err != nil {
			return runtime.Value{}, err
		}
		if len(args) > 0 {
			items, err := iterableOf(ctx, args[0])
			if err != nil {
				return runtime.Value{}, err
			}
			for _, item := range items {
				o.SetData.Set(item, item)
			}
		}
		return runtime.Obj(o), nil
	}
	return ctor
}

func newNumberCtor() *runtime.Object {
	ctor := &runtime.Object{Class: runtime.ClassFunction}
	ctor.Callable = func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(runtime.ToNumber(arg(args, 0))), nil
	}
	ctor.Set("isInteger", nativeFn(func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		v := arg(args, 0)
		if v.Kind() != runtime.KindNumber {
			return runtime.Bool(false), nil
		}
		n := v.NumberRaw()
		return runtime.Bool(n == float64(int64(n))), nil
	}))
	ctor.Set("isFinite", nativeFn(func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		v := arg(args, 0)
		if v.Kind() != runtime.KindNumber {
			return runtime.Bool(false), nil
		}
		n := v.NumberRaw()
		return runtime.Bool(n-n == 0), nil // n-n is NaN for NaN and ±Infinity
	}))
	ctor.Set("parseFloat", nativeFn(func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(runtime.ToNumber(arg(args, 0))), nil
	}))
	return ctor
}

func newStringCtor() *runtime.Object {
	ctor := &runtime.Object{Class: runtime.ClassFunction}
	ctor.Callable = func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return ctx.Heap.NewString("")
		}
		return ctx.Heap.NewString(runtime.ToStringValue(args[0]))
	}
	return ctor
}

func newBooleanCtor() *runtime.Object {
	ctor := &runtime.Object{Class: runtime.ClassFunction}
	ctor.Callable = func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Bool(runtime.ToBoolean(arg(args, 0))), nil
	}
	return ctor
}

// newErrorCtor builds a script-visible constructor for one of the Error
// classes the engine itself raises (name is "Error", "TypeError", or
// "RangeError"), so a script can both catch the engine's own faults and
// `throw new TypeError(...)` its own. The object shape matches
// runtime.newErrorValue exactly: a plain object tagged ClassError with
// name/message properties.
func newErrorCtor(name string) *runtime.Object {
	ctor := &runtime.Object{Class: runtime.ClassFunction}
	ctor.Callable = func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		o, err := ctx.Heap.NewObject()
		if err != nil {
			return runtime.Value{}, err
		}
		o.Class = runtime.ClassError
		if err := ctx.Heap.SetProperty(o, "name", runtime.String(name)); err != nil {
			return runtime.Value{}, err
		}
		message := ""
		if len(args) > 0 {
			message = runtime.ToStringValue(args[0])
		}
		if err := ctx.Heap.SetProperty(o, "message", runtime.String(message)); err != nil {
			return runtime.Value{}, err
		}
		return runtime.Obj(o), nil
	}
	return ctor
}

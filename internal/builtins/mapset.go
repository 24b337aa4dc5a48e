package builtins

import "github.com/cwbudde/es6sandbox/internal/runtime"

func thisMap(this runtime.Value) *runtime.Object { return this.Object() }

func mapGet(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	v, ok := thisMap(this).MapData.Get(arg(args, 0))
	if !ok {
		return runtime.Undefined(), nil
	}
	return v, nil
}

func mapSet(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisMap(this)
	if !o.MapData.Has(arg(args, 0)) {
		if err := ctx.Heap.ChargeMapEntry(); err != nil {
			return runtime.Value{}, err
		}
	}
	o.MapData.Set(arg(args, 0), arg(args, 1))
	return this, nil
}

func mapHas(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return runtime.Bool(thisMap(this).MapData.Has(arg(args, 0))), nil
}

func mapDelete(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return runtime.Bool(thisMap(this).MapData.Delete(arg(args, 0))), nil
}

func mapClear(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	*thisMap(this).MapData = *runtime.NewOrderedMap()
	return runtime.Undefined(), nil
}

func mapForEach(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisMap(this)
	fn := arg(args, 0)
	keys, values := o.MapData.Keys(), o.MapData.Values()
	for i := range keys {
		if _, err := ctx.CallFunc(fn, runtime.Undefined(), []runtime.Value{values[i], keys[i], this}); err != nil {
			return runtime.Value{}, err
		}
	}
	return runtime.Undefined(), nil
}

func mapKeys(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return wrapValues(ctx, thisMap(this).MapData.Keys())
}

func mapValues(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return wrapValues(ctx, thisMap(this).MapData.Values())
}

func mapEntries(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisMap(this)
	keys, values := o.MapData.Keys(), o.MapData.Values()
	out := make([]runtime.Value, len(keys))
	for i := range keys {
		pair, err := ctx.Heap.NewArrayWithCapacity(2)
		if err != nil {
			return runtime.Value{}, err
		}
		pair.Elements = []runtime.Value{keys[i], values[i]}
		out[i] = runtime.Obj(pair)
	}
	return wrapValues(ctx, out)
}

func wrapValues(ctx *runtime.EvalCtx, vals []runtime.Value) (runtime.Value, error) {
	arr, err := ctx.Heap.NewArrayWithCapacity(len(vals))
	if err != nil {
		return runtime.Value{}, err
	}
	arr.Elements = vals
	return runtime.Obj(arr), nil
}

func setAdd(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisMap(this)
	v := arg(args, 0)
	if !o.SetData.Has(v) {
		if err := ctx.Heap.ChargeMapEntry(); err != nil {
			return runtime.Value{}, err
		}
	}
	o.SetData.Set(v, v)
	return this, nil
}

func setHas(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return runtime.Bool(thisMap(this).SetData.Has(arg(args, 0))), nil
}

func setDelete(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return runtime.Bool(thisMap(this).SetData.Delete(arg(args, 0))), nil
}

func setClear(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	*thisMap(this).SetData = *runtime.NewOrderedMap()
	return runtime.Undefined(), nil
}

func setForEach(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisMap(this)
	fn := arg(args, 0)
	for _, v := range o.SetData.Keys() {
		if _, err := ctx.CallFunc(fn, runtime.Undefined(), []runtime.Value{v, v, this}); err != nil {
			return runtime.Value{}, err
		}
	}
	return runtime.Undefined(), nil
}

func setValues(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return wrapValues(ctx, thisMap(this).SetData.Keys())
}

// Size synthesizes Map/Set's reified `size` getter, consulted by member
// access before falling back to ObjectMethod (spec §12 supplemented Map/
// Set surface).
func Size(o *runtime.Object) (runtime.Value, bool) {
	switch o.Class {
	case runtime.ClassMap:
		return runtime.Number(float64(o.MapData.Size())), true
	case runtime.ClassSet:
		return runtime.Number(float64(o.SetData.Size())), true
	}
	return runtime.Value{}, false
}

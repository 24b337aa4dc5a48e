package builtins

import (
	"sort"

	"github.com/cwbudde/es6sandbox/internal/runtime"
)

var arrayMethods map[string]runtime.NativeFunc
var mapMethods map[string]runtime.NativeFunc
var setMethods map[string]runtime.NativeFunc

func init() {
	arrayMethods = map[string]runtime.NativeFunc{
		"push":        arrPush,
		"pop":         arrPop,
		"shift":       arrShift,
		"unshift":     arrUnshift,
		"slice":       arrSlice,
		"splice":      arrSplice,
		"concat":      arrConcat,
		"join":        arrJoin,
		"indexOf":     arrIndexOf,
		"lastIndexOf": arrLastIndexOf,
		"includes":    arrIncludes,
		"reverse":     arrReverse,
		"sort":        arrSort,
		"map":         arrMap,
		"filter":      arrFilter,
		"forEach":     arrForEach,
		"reduce":      arrReduce,
		"reduceRight": arrReduceRight,
		"find":        arrFind,
		"findIndex":   arrFindIndex,
		"some":        arrSome,
		"every":       arrEvery,
		"flat":        arrFlat,
		"fill":        arrFill,
		"keys":        arrKeys,
		"toString":    arrToString,
	}
	mapMethods = map[string]runtime.NativeFunc{
		"get":     mapGet,
		"set":     mapSet,
		"has":     mapHas,
		"delete":  mapDelete,
		"clear":   mapClear,
		"forEach": mapForEach,
		"keys":    mapKeys,
		"values":  mapValues,
		"entries": mapEntries,
	}
	setMethods = map[string]runtime.NativeFunc{
		"add":     setAdd,
		"has":     setHas,
		"delete":  setDelete,
		"clear":   setClear,
		"forEach": setForEach,
		"values":  setValues,
	}
}

// ObjectMethod resolves a prototype method by class for o, returning a new
// function Object wrapping the class's shared NativeFunc, or nil if key
// names no method on o's class.
func ObjectMethod(ctx *runtime.EvalCtx, o *runtime.Object, key string) *runtime.Object {
	var table map[string]runtime.NativeFunc
	switch o.Class {
	case runtime.ClassArray:
		table = arrayMethods
	case runtime.ClassMap:
		table = mapMethods
		if key == "size" {
			return nil
		}
	case runtime.ClassSet:
		table = setMethods
	default:
		return nil
	}
	if fn, ok := table[key]; ok {
		return &runtime.Object{Class: runtime.ClassFunction, Callable: fn}
	}
	return nil
}

func thisArray(this runtime.Value) *runtime.Object {
	if this.IsObject() {
		return this.Object()
	}
	return nil
}

func arg(args []runtime.Value, i int) runtime.Value {
	if i >= len(args) {
		return runtime.Undefined()
	}
	return args[i]
}

func arrPush(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	for _, a := range args {
		if err := ctx.Heap.PushArray(o, a); err != nil {
			return runtime.Value{}, err
		}
	}
	return runtime.Number(float64(len(o.Elements))), nil
}

func arrPop(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	if len(o.Elements) == 0 {
		return runtime.Undefined(), nil
	}
	last := o.Elements[len(o.Elements)-1]
	o.Elements = o.Elements[:len(o.Elements)-1]
	return last, nil
}

func arrShift(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	if len(o.Elements) == 0 {
		return runtime.Undefined(), nil
	}
	first := o.Elements[0]
	o.Elements = o.Elements[1:]
	return first, nil
}

func arrUnshift(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	if err := ctx.Meter.ChargeAlloc(int64(len(args)) * 16); err != nil {
		return runtime.Value{}, err
	}
	o.Elements = append(append([]runtime.Value(nil), args...), o.Elements...)
	return runtime.Number(float64(len(o.Elements))), nil
}

func arrSlice(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	n := len(o.Elements)
	start, end := 0, n
	if len(args) > 0 {
		start = clampIndex(int(runtime.ToNumber(args[0])), n)
	}
	if len(args) > 1 && !args[1].IsUndefined() {
		end = clampIndex(int(runtime.ToNumber(args[1])), n)
	}
	var out []runtime.Value
	if start < end {
		out = append(out, o.Elements[start:end]...)
	}
	arr, err := ctx.Heap.NewArrayWithCapacity(len(out))
	if err != nil {
		return runtime.Value{}, err
	}
	arr.Elements = out
	return runtime.Obj(arr), nil
}

func arrSplice(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	n := len(o.Elements)
	start := 0
	if len(args) > 0 {
		start = clampIndex(int(runtime.ToNumber(args[0])), n)
	}
	deleteCount := n - start
	if len(args) > 1 {
		deleteCount = int(runtime.ToNumber(args[1]))
		if deleteCount < 0 {
			deleteCount = 0
		}
		if start+deleteCount > n {
			deleteCount = n - start
		}
	}
	removed := append([]runtime.Value(nil), o.Elements[start:start+deleteCount]...)
	var inserted []runtime.Value
	if len(args) > 2 {
		inserted = args[2:]
	}
	if err := ctx.Meter.ChargeAlloc(int64(len(inserted)) * 16); err != nil {
		return runtime.Value{}, err
	}
	tail := append([]runtime.Value(nil), o.Elements[start+deleteCount:]...)
	o.Elements = append(append(append([]runtime.Value(nil), o.Elements[:start]...), inserted...), tail...)

	arr, err := ctx.Heap.NewArrayWithCapacity(len(removed))
	if err != nil {
		return runtime.Value{}, err
	}
	arr.Elements = removed
	return runtime.Obj(arr), nil
}

func arrConcat(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	out := append([]runtime.Value(nil), o.Elements...)
	for _, a := range args {
		if a.IsObject() && a.Object() != nil && a.Object().Class == runtime.ClassArray {
			out = append(out, a.Object().Elements...)
		} else {
			out = append(out, a)
		}
	}
	arr, err := ctx.Heap.NewArrayWithCapacity(len(out))
	if err != nil {
		return runtime.Value{}, err
	}
	arr.Elements = out
	return runtime.Obj(arr), nil
}

func arrJoin(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	sep := ","
	if len(args) > 0 && !args[0].IsUndefined() {
		sep = runtime.ToStringValue(args[0])
	}
	parts := make([]string, len(o.Elements))
	for i, el := range o.Elements {
		if el.IsNullish() {
			parts[i] = ""
		} else {
			parts[i] = runtime.ToStringValue(el)
		}
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return ctx.Heap.NewString(out)
}

func arrToString(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return arrJoin(ctx, this, nil)
}

func arrIndexOf(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	target := arg(args, 0)
	for i, el := range o.Elements {
		if runtime.StrictEquals(el, target) {
			return runtime.Number(float64(i)), nil
		}
	}
	return runtime.Number(-1), nil
}

func arrLastIndexOf(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	target := arg(args, 0)
	for i := len(o.Elements) - 1; i >= 0; i-- {
		if runtime.StrictEquals(o.Elements[i], target) {
			return runtime.Number(float64(i)), nil
		}
	}
	return runtime.Number(-1), nil
}

func arrIncludes(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	target := arg(args, 0)
	for _, el := range o.Elements {
		if runtime.SameValueZero(el, target) {
			return runtime.Bool(true), nil
		}
	}
	return runtime.Bool(false), nil
}

func arrReverse(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	for i, j := 0, len(o.Elements)-1; i < j; i, j = i+1, j-1 {
		o.Elements[i], o.Elements[j] = o.Elements[j], o.Elements[i]
	}
	return this, nil
}

func arrSort(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	var cmpErr error
	cmp := arg(args, 0)
	sort.SliceStable(o.Elements, func(i, j int) bool {
		if cmpErr != nil {
			return false
		}
		if cmp.IsCallable() {
			r, err := ctx.CallFunc(cmp, runtime.Undefined(), []runtime.Value{o.Elements[i], o.Elements[j]})
			if err != nil {
				cmpErr = err
				return false
			}
			return runtime.ToNumber(r) < 0
		}
		return runtime.ToStringValue(o.Elements[i]) < runtime.ToStringValue(o.Elements[j])
	})
	if cmpErr != nil {
		return runtime.Value{}, cmpErr
	}
	return this, nil
}

func arrMap(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	fn := arg(args, 0)
	if !fn.IsCallable() {
		return runtime.Value{}, typeErr(ctx, "Array.prototype.map callback must be a function")
	}
	arr, err := ctx.Heap.NewArrayWithCapacity(len(o.Elements))
	if err != nil {
		return runtime.Value{}, err
	}
	for i, el := range o.Elements {
		r, err := ctx.CallFunc(fn, runtime.Undefined(), []runtime.Value{el, runtime.Number(float64(i)), this})
		if err != nil {
			return runtime.Value{}, err
		}
		arr.Elements = append(arr.Elements, r)
	}
	return runtime.Obj(arr), nil
}

func arrFilter(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	fn := arg(args, 0)
	if !fn.IsCallable() {
		return runtime.Value{}, typeErr(ctx, "Array.prototype.filter callback must be a function")
	}
	arr, err := ctx.Heap.NewArray()
	if err != nil {
		return runtime.Value{}, err
	}
	for i, el := range o.Elements {
		r, err := ctx.CallFunc(fn, runtime.Undefined(), []runtime.Value{el, runtime.Number(float64(i)), this})
		if err != nil {
			return runtime.Value{}, err
		}
		if runtime.ToBoolean(r) {
			if err := ctx.Heap.PushArray(arr, el); err != nil {
				return runtime.Value{}, err
			}
		}
	}
	return runtime.Obj(arr), nil
}

func arrForEach(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	fn := arg(args, 0)
	if !fn.IsCallable() {
		return runtime.Value{}, typeErr(ctx, "Array.prototype.forEach callback must be a function")
	}
	for i, el := range o.Elements {
		if _, err := ctx.CallFunc(fn, runtime.Undefined(), []runtime.Value{el, runtime.Number(float64(i)), this}); err != nil {
			return runtime.Value{}, err
		}
	}
	return runtime.Undefined(), nil
}

func arrReduce(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return reduceArray(ctx, this, args, false)
}

func arrReduceRight(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return reduceArray(ctx, this, args, true)
}

func reduceArray(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value, right bool) (runtime.Value, error) {
	o := thisArray(this)
	fn := arg(args, 0)
	if !fn.IsCallable() {
		return runtime.Value{}, typeErr(ctx, "Array.prototype.reduce callback must be a function")
	}
	n := len(o.Elements)
	idxs := make([]int, n)
	for i := 0; i < n; i++ {
		if right {
			idxs[i] = n - 1 - i
		} else {
			idxs[i] = i
		}
	}
	start := 0
	var acc runtime.Value
	if len(args) > 1 {
		acc = args[1]
	} else {
		if n == 0 {
			return runtime.Value{}, typeErr(ctx, "Reduce of empty array with no initial value")
		}
		acc = o.Elements[idxs[0]]
		start = 1
	}
	for _, i := range idxs[start:] {
		r, err := ctx.CallFunc(fn, runtime.Undefined(), []runtime.Value{acc, o.Elements[i], runtime.Number(float64(i)), this})
		if err != nil {
			return runtime.Value{}, err
		}
		acc = r
	}
	return acc, nil
}

func arrFind(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	fn := arg(args, 0)
	for i, el := range o.Elements {
		r, err := ctx.CallFunc(fn, runtime.Undefined(), []runtime.Value{el, runtime.Number(float64(i)), this})
		if err != nil {
			return runtime.Value{}, err
		}
		if runtime.ToBoolean(r) {
			return el, nil
		}
	}
	return runtime.Undefined(), nil
}

func arrFindIndex(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	fn := arg(args, 0)
	for i, el := range o.Elements {
		r, err := ctx.CallFunc(fn, runtime.Undefined(), []runtime.Value{el, runtime.Number(float64(i)), this})
		if err != nil {
			return runtime.Value{}, err
		}
		if runtime.ToBoolean(r) {
			return runtime.Number(float64(i)), nil
		}
	}
	return runtime.Number(-1), nil
}

func arrSome(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	fn := arg(args, 0)
	for i, el := range o.Elements {
		r, err := ctx.CallFunc(fn, runtime.Undefined(), []runtime.Value{el, runtime.Number(float64(i)), this})
		if err != nil {
			return runtime.Value{}, err
		}
		if runtime.ToBoolean(r) {
			return runtime.Bool(true), nil
		}
	}
	return runtime.Bool(false), nil
}

func arrEvery(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	fn := arg(args, 0)
	for i, el := range o.Elements {
		r, err := ctx.CallFunc(fn, runtime.Undefined(), []runtime.Value{el, runtime.Number(float64(i)), this})
		if err != nil {
			return runtime.Value{}, err
		}
		if !runtime.ToBoolean(r) {
			return runtime.Bool(false), nil
		}
	}
	return runtime.Bool(true), nil
}

func arrFlat(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	depth := 1
	if len(args) > 0 {
		depth = int(runtime.ToNumber(args[0]))
	}
	out, err := flatten(ctx, o.Elements, depth)
	if err != nil {
		return runtime.Value{}, err
	}
	arr, err := ctx.Heap.NewArrayWithCapacity(len(out))
	if err != nil {
		return runtime.Value{}, err
	}
	arr.Elements = out
	return runtime.Obj(arr), nil
}

func flatten(ctx *runtime.EvalCtx, elems []runtime.Value, depth int) ([]runtime.Value, error) {
	var out []runtime.Value
	for _, el := range elems {
		if depth > 0 && el.IsObject() && el.Object() != nil && el.Object().Class == runtime.ClassArray {
			inner, err := flatten(ctx, el.Object().Elements, depth-1)
			if err != nil {
				return nil, err
			}
			out = append(out, inner...)
			continue
		}
		out = append(out, el)
	}
	return out, nil
}

func arrFill(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	v := arg(args, 0)
	n := len(o.Elements)
	start, end := 0, n
	if len(args) > 1 {
		start = clampIndex(int(runtime.ToNumber(args[1])), n)
	}
	if len(args) > 2 {
		end = clampIndex(int(runtime.ToNumber(args[2])), n)
	}
	for i := start; i < end; i++ {
		o.Elements[i] = v
	}
	return this, nil
}

func arrKeys(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	o := thisArray(this)
	arr, err := ctx.Heap.NewArrayWithCapacity(len(o.Elements))
	if err != nil {
		return runtime.Value{}, err
	}
	for i := range o.Elements {
		arr.Elements = append(arr.Elements, runtime.Number(float64(i)))
	}
	return runtime.Obj(arr), nil
}

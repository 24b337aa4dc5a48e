package builtins

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/cwbudde/es6sandbox/internal/runtime"
)

// Install populates ctx's global scope with the sandbox's standard
// library: console, Math, JSON, Object, Array, Map, Set, Number, String,
// Boolean, and Date (spec §4.4, §12 supplemented features). out receives
// console.log/console.error output; a nil out discards it.
func Install(ctx *runtime.EvalCtx, out io.Writer) {
	g := ctx.Global
	g.Declare("globalThis", runtime.BindConst, true, runtime.Undefined())
	g.Declare("NaN", runtime.BindConst, true, runtime.Number(math.NaN()))
	g.Declare("Infinity", runtime.BindConst, true, runtime.Number(math.Inf(1)))
	g.Declare("undefined", runtime.BindConst, true, runtime.Undefined())

	g.Declare("console", runtime.BindConst, true, runtime.Obj(newConsole(out)))
	g.Declare("Math", runtime.BindConst, true, runtime.Obj(newMathObject()))
	g.Declare("JSON", runtime.BindConst, true, runtime.Obj(newJSONObject()))
	g.Declare("Object", runtime.BindConst, true, runtime.Obj(newObjectCtor()))
	g.Declare("Array", runtime.BindConst, true, runtime.Obj(newArrayCtor()))
	g.Declare("Map", runtime.BindConst, true, runtime.Obj(newMapCtor()))
	g.Declare("Set", runtime.BindConst, true, runtime.Obj(newSetCtor()))
	g.Declare("Number", runtime.BindConst, true, runtime.Obj(newNumberCtor()))
	g.Declare("String", runtime.BindConst, true, runtime.Obj(newStringCtor()))
	g.Declare("Boolean", runtime.BindConst, true, runtime.Obj(newBooleanCtor()))
	g.Declare("Date", runtime.BindConst, true, runtime.Obj(newDateCtor()))
	g.Declare("Error", runtime.BindConst, true, runtime.Obj(newErrorCtor("Error")))
	g.Declare("TypeError", runtime.BindConst, true, runtime.Obj(newErrorCtor("TypeError")))
	g.Declare("RangeError", runtime.BindConst, true, runtime.Obj(newErrorCtor("RangeError")))
}

func nativeFn(fn runtime.NativeFunc) runtime.Value {
	return runtime.Obj(&runtime.Object{Class: runtime.ClassFunction, Callable: fn})
}

func newConsole(out io.Writer) *runtime.Object {
	o := runtime.NewPlainObject()
	log := func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if out == nil {
			return runtime.Undefined(), nil
		}
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = runtime.ToStringValue(a)
		}
		line := ""
		for i, p := range parts {
			if i > 0 {
				line += " "
			}
			line += p
		}
		fmt.Fprintln(out, line)
		return runtime.Undefined(), nil
	}
	o.Set("log", nativeFn(log))
	o.Set("error", nativeFn(log))
	o.Set("warn", nativeFn(log))
	o.Set("info", nativeFn(log))
	return o
}

func newMathObject() *runtime.Object {
	o := runtime.NewPlainObject()
	o.Set("PI", runtime.Number(math.Pi))
	o.Set("E", runtime.Number(math.E))
	o.Set("LN2", runtime.Number(math.Ln2))
	o.Set("LN10", runtime.Number(math.Log(10)))
	o.Set("SQRT2", runtime.Number(math.Sqrt2))

	unary := func(f func(float64) float64) runtime.NativeFunc {
		return func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
			return runtime.Number(f(runtime.ToNumber(arg(args, 0)))), nil
		}
	}
	o.Set("abs", nativeFn(unary(math.Abs)))
	o.Set("floor", nativeFn(unary(math.Floor)))
	o.Set("ceil", nativeFn(unary(math.Ceil)))
	o.Set("trunc", nativeFn(unary(math.Trunc)))
	o.Set("sqrt", nativeFn(unary(math.Sqrt)))
	o.Set("cbrt", nativeFn(unary(math.Cbrt)))
	o.Set("sin", nativeFn(unary(math.Sin)))
	o.Set("cos", nativeFn(unary(math.Cos)))
	o.Set("tan", nativeFn(unary(math.Tan)))
	o.Set("log", nativeFn(unary(math.Log)))
	o.Set("log2", nativeFn(unary(math.Log2)))
	o.Set("log10", nativeFn(unary(math.Log10)))
	o.Set("exp", nativeFn(unary(math.Exp)))
	o.Set("sign", nativeFn(func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		n := runtime.ToNumber(arg(args, 0))
		switch {
		case n > 0:
			return runtime.Number(1), nil
		case n < 0:
			return runtime.Number(-1), nil
		default:
			return runtime.Number(n), nil
		}
	}))
	o.Set("round", nativeFn(func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(math.Floor(runtime.ToNumber(arg(args, 0)) + 0.5)), nil
	}))
	o.Set("pow", nativeFn(func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(math.Pow(runtime.ToNumber(arg(args, 0)), runtime.ToNumber(arg(args, 1)))), nil
	}))
	o.Set("max", nativeFn(func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(foldNumbers(args, math.Inf(-1), math.Max)), nil
	}))
	o.Set("min", nativeFn(func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(foldNumbers(args, math.Inf(1), math.Min)), nil
	}))
	o.Set("random", nativeFn(func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(rand.Float64()), nil
	}))
	return o
}

func foldNumbers(args []runtime.Value, seed float64, f func(a, b float64) float64) float64 {
	acc := seed
	for _, a := range args {
		acc = f(acc, runtime.ToNumber(a))
	}
	return acc
}

// newJSONObject wires JSON.parse through tidwall/gjson (a fast,
// allocation-light parse path) and JSON.stringify's indentation through
// tidwall/pretty (spec §12 supplemented feature, §11 domain-stack wiring).
func newJSONObject() *runtime.Object {
	o := runtime.NewPlainObject()
	o.Set("parse", nativeFn(jsonParse))
	o.Set("stringify", nativeFn(jsonStringify))
	return o
}

func jsonParse(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	text := runtime.ToStringValue(arg(args, 0))
	if !gjson.Valid(text) {
		return runtime.Value{}, runtime.NewTypeError(ctx, "invalid JSON")
	}
	return gjsonToValue(ctx, gjson.Parse(text))
}

func gjsonToValue(ctx *runtime.EvalCtx, r gjson.Result) (runtime.Value, error) {
	switch r.Type {
	case gjson.Null:
		return runtime.Null(), nil
	case gjson.False:
		return runtime.Bool(false), nil
	case gjson.True:
		return runtime.Bool(true), nil
	case gjson.Number:
		return runtime.Number(r.Num), nil
	case gjson.String:
		return ctx.Heap.NewString(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			arr, err := ctx.Heap.NewArray()
			if err != nil {
				return runtime.Value{}, err
			}
			var innerErr error
			r.ForEach(func(_, value gjson.Result) bool {
				v, err := gjsonToValue(ctx, value)
				if err != nil {
					innerErr = err
					return false
				}
				arr.Elements = append(arr.Elements, v)
				return true
			})
			if innerErr != nil {
				return runtime.Value{}, innerErr
			}
			return runtime.Obj(arr), nil
		}
		obj, err := ctx.Heap.NewObject()
		if err != nil {
			return runtime.Value{}, err
		}
		var innerErr error
		r.ForEach(func(key, value gjson.Result) bool {
			v, err := gjsonToValue(ctx, value)
			if err != nil {
				innerErr = err
				return false
			}
			if err := ctx.Heap.SetProperty(obj, key.Str, v); err != nil {
				innerErr = err
				return false
			}
			return true
		})
		if innerErr != nil {
			return runtime.Value{}, innerErr
		}
		return runtime.Obj(obj), nil
	}
	return runtime.Undefined(), nil
}

// jsonStringify serializes via tidwall/sjson, composing each object/array
// level by setting already-serialized child fragments as raw values onto
// an accumulator (spec §11 domain-stack wiring, §12 supplemented JSON
// surface) rather than hand-building the string with concatenation.
func jsonStringify(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	v := arg(args, 0)
	raw, err := stringifyValue(v)
	if err != nil {
		return runtime.Value{}, runtime.NewTypeError(ctx, "JSON.stringify: "+err.Error())
	}
	indent := 0
	if len(args) > 2 {
		indent = int(runtime.ToNumber(args[2]))
	}
	if indent > 0 {
		opts := &pretty.Options{Width: 80, Prefix: "", Indent: spaces(indent), SortKeys: false}
		raw = string(pretty.PrettyOptions([]byte(raw), opts))
	}
	return ctx.Heap.NewString(raw)
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func stringifyValue(v runtime.Value) (string, error) {
	switch v.Kind() {
	case runtime.KindUndefined, runtime.KindNull:
		return "null", nil
	case runtime.KindBoolean:
		if v.Bool() {
			return "true", nil
		}
		return "false", nil
	case runtime.KindNumber:
		return runtime.ToStringValue(v), nil
	case runtime.KindString:
		return quoteJSON(v.StringRaw()), nil
	case runtime.KindObject:
		o := v.Object()
		if o == nil {
			return "null", nil
		}
		if o.Class == runtime.ClassArray {
			out := "[]"
			for i, el := range o.Elements {
				child, err := stringifyValue(el)
				if err != nil {
					return "", err
				}
				out, err = sjson.SetRaw(out, strconv.Itoa(i), child)
				if err != nil {
					return "", err
				}
			}
			return out, nil
		}
		out := "{}"
		for _, k := range o.OwnKeys() {
			val, _ := o.Get(k)
			if val.Kind() == runtime.KindObject && val.IsCallable() {
				continue
			}
			child, err := stringifyValue(val)
			if err != nil {
				return "", err
			}
			out, err = sjson.SetRawOptions(out, k, child, &sjson.Options{Optimistic: true, ReplaceInPlace: false})
			if err != nil {
				return "", err
			}
		}
		return out, nil
	}
	return "null", nil
}

func quoteJSON(s string) string {
	out := "\""
	for _, r := range s {
		switch r {
		case '"':
			out += "\\\""
		case '\\':
			out += "\\\\"
		case '\n':
			out += "\\n"
		case '\t':
			out += "\\t"
		case '\r':
			out += "\\r"
		default:
			out += string(r)
		}
	}
	return out + "\""
}

func newDateCtor() *runtime.Object {
	ctor := &runtime.Object{Class: runtime.ClassFunction}
	ctor.Callable = func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		var millis float64
		if len(args) == 0 {
			millis = float64(time.Now().UnixMilli())
		} else {
			millis = runtime.ToNumber(args[0])
		}
		o := this.Object()
		if o == nil {
			var err error
			o, err = ctx.Heap.NewObject()
			if err != nil {
				return runtime.Value{}, err
			}
		}
		o.Class = runtime.ClassDate
		o.TimeMillis = millis
		return runtime.Obj(o), nil
	}
	ctor.Set("now", nativeFn(func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(float64(time.Now().UnixMilli())), nil
	}))
	return ctor
}

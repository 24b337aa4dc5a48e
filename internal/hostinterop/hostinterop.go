// Package hostinterop implements the three host-embedding mechanisms
// spec §4.7 describes: marshalling plain Go values into script globals,
// a builder for static host objects exposing fixed-arity and varargs
// methods, and dynamic-property objects backed by host callbacks. The
// method-registration shape mirrors robertkrimen/otto's
// vm.Set(name, func(call otto.FunctionCall) otto.Value) pattern: a host
// hands the sandbox a plain Go function, and this package wraps it into
// the runtime.NativeFunc shape the evaluator calls uniformly.
package hostinterop

import (
	"github.com/google/uuid"

	"github.com/cwbudde/es6sandbox/internal/runtime"
)

// MarshalGo converts a restricted set of plain Go values (nil, bool,
// string, the numeric kinds, []any, map[string]any) into a script Value,
// charging heap allocations against ctx as it goes. This is the
// mechanism 1 surface of spec §4.7: host-supplied globals.
func MarshalGo(ctx *runtime.EvalCtx, v any) (runtime.Value, error) {
	switch val := v.(type) {
	case nil:
		return runtime.Null(), nil
	case bool:
		return runtime.Bool(val), nil
	case string:
		return ctx.Heap.NewString(val)
	case int:
		return runtime.Number(float64(val)), nil
	case int32:
		return runtime.Number(float64(val)), nil
	case int64:
		return runtime.Number(float64(val)), nil
	case float32:
		return runtime.Number(float64(val)), nil
	case float64:
		return runtime.Number(val), nil
	case []any:
		arr, err := ctx.Heap.NewArrayWithCapacity(len(val))
		if err != nil {
			return runtime.Value{}, err
		}
		for _, el := range val {
			ev, err := MarshalGo(ctx, el)
			if err != nil {
				return runtime.Value{}, err
			}
			arr.Elements = append(arr.Elements, ev)
		}
		return runtime.Obj(arr), nil
	case map[string]any:
		obj, err := ctx.Heap.NewObject()
		if err != nil {
			return runtime.Value{}, err
		}
		for k, el := range val {
			ev, err := MarshalGo(ctx, el)
			if err != nil {
				return runtime.Value{}, err
			}
			if err := ctx.Heap.SetProperty(obj, k, ev); err != nil {
				return runtime.Value{}, err
			}
		}
		return runtime.Obj(obj), nil
	}
	return runtime.Value{}, runtime.NewTypeError(ctx, "host value of unsupported type cannot be marshalled into the sandbox")
}

// TypedMethod is a fixed-arity host method: args has already been padded/
// truncated to exactly the declared arity before the host function runs.
type TypedMethod func(ctx *runtime.EvalCtx, args []runtime.Value) (runtime.Value, error)

// VarargsMethod is a host method taking the raw, unpadded argument list.
type VarargsMethod func(ctx *runtime.EvalCtx, args []runtime.Value) (runtime.Value, error)

// StaticObjectBuilder assembles a host object whose shape (named
// constants plus typed/varargs methods) is fixed at construction time —
// mechanism 2 of spec §4.7.
type StaticObjectBuilder struct {
	obj *runtime.Object
}

// NewStaticObjectBuilder starts building a host object.
func NewStaticObjectBuilder() *StaticObjectBuilder {
	return &StaticObjectBuilder{obj: runtime.NewPlainObject()}
}

// Const attaches a named constant value.
func (b *StaticObjectBuilder) Const(name string, v runtime.Value) *StaticObjectBuilder {
	b.obj.Set(name, v)
	return b
}

// Method attaches a fixed-arity method: calls are padded with `undefined`
// or truncated to exactly arity arguments before fn runs.
func (b *StaticObjectBuilder) Method(name string, arity int, fn TypedMethod) *StaticObjectBuilder {
	b.obj.Set(name, runtime.Obj(&runtime.Object{
		Class: runtime.ClassFunction,
		Callable: func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
			padded := make([]runtime.Value, arity)
			for i := range padded {
				if i < len(args) {
					padded[i] = args[i]
				} else {
					padded[i] = runtime.Undefined()
				}
			}
			return fn(ctx, padded)
		},
	}))
	return b
}

// VarargsMethod attaches a method receiving the full, unpadded argument
// list.
func (b *StaticObjectBuilder) VarargsMethod(name string, fn VarargsMethod) *StaticObjectBuilder {
	b.obj.Set(name, runtime.Obj(&runtime.Object{
		Class: runtime.ClassFunction,
		Callable: func(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
			return fn(ctx, args)
		},
	}))
	return b
}

// Build finalizes and returns the host object's Value.
func (b *StaticObjectBuilder) Build() runtime.Value { return runtime.Obj(b.obj) }

// DynamicObject wraps a host-supplied DynamicResolver into a script
// object whose property get/set/delete/enumerate all forward to the
// host — mechanism 3 of spec §4.7. Each dynamic object is tagged with a
// stable uuid identity so a host can recognize the same logical object
// across multiple script-visible Values.
func DynamicObject(ctx *runtime.EvalCtx, resolver runtime.DynamicResolver) (runtime.Value, error) {
	obj, err := ctx.Heap.NewDynamicObject(resolver)
	if err != nil {
		return runtime.Value{}, err
	}
	obj.HostID = uuid.NewString()
	return runtime.Obj(obj), nil
}

// HostObject wraps an opaque host handle (mechanism 1's object-identity
// case): the script can pass it around and compare it for identity but
// never introspect it (spec §4.7, non-goal: no host reflection).
func HostObject(ctx *runtime.EvalCtx, handle any) (runtime.Value, error) {
	obj, err := ctx.Heap.NewHostObject(handle, uuid.NewString())
	if err != nil {
		return runtime.Value{}, err
	}
	return runtime.Obj(obj), nil
}

package hostinterop

import (
	"testing"
	"time"

	"github.com/cwbudde/es6sandbox/internal/limits"
	"github.com/cwbudde/es6sandbox/internal/runtime"
)

func newTestCtx() *runtime.EvalCtx {
	meter := limits.New(limits.DefaultConfig(), time.Now(), nil)
	return runtime.NewEvalCtx("<test>", meter)
}

func TestMarshalGoPrimitives(t *testing.T) {
	ctx := newTestCtx()

	v, err := MarshalGo(ctx, nil)
	if err != nil || !v.IsNull() {
		t.Fatalf("MarshalGo(nil) = %v, %v", v.GoString(), err)
	}

	v, err = MarshalGo(ctx, 42)
	if err != nil || v.NumberRaw() != 42 {
		t.Fatalf("MarshalGo(42) = %v, %v", v.GoString(), err)
	}

	v, err = MarshalGo(ctx, "hi")
	if err != nil || v.StringRaw() != "hi" {
		t.Fatalf("MarshalGo(\"hi\") = %v, %v", v.GoString(), err)
	}
}

func TestMarshalGoNestedCollections(t *testing.T) {
	ctx := newTestCtx()
	v, err := MarshalGo(ctx, map[string]any{"items": []any{1, 2, "x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o := v.Object()
	items, ok := o.Get("items")
	if !ok {
		t.Fatal("expected an \"items\" property")
	}
	if len(items.Object().Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(items.Object().Elements))
	}
}

func TestMarshalGoRejectsUnsupportedTypes(t *testing.T) {
	ctx := newTestCtx()
	_, err := MarshalGo(ctx, struct{ X int }{X: 1})
	if err == nil {
		t.Fatal("expected an error for an unsupported Go type")
	}
}

func TestStaticObjectBuilderMethodPadsArguments(t *testing.T) {
	ctx := newTestCtx()
	var gotArgCount int
	obj := NewStaticObjectBuilder().
		Method("f", 3, func(ctx *runtime.EvalCtx, args []runtime.Value) (runtime.Value, error) {
			gotArgCount = len(args)
			return runtime.Undefined(), nil
		}).
		Build()
	fn, _ := obj.Object().Get("f")
	if _, err := fn.Object().Callable(ctx, runtime.Undefined(), []runtime.Value{runtime.Number(1)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotArgCount != 3 {
		t.Fatalf("expected args padded to arity 3, got %d", gotArgCount)
	}
}

func TestStaticObjectBuilderConst(t *testing.T) {
	obj := NewStaticObjectBuilder().Const("VERSION", runtime.Number(2)).Build()
	v, ok := obj.Object().Get("VERSION")
	if !ok || v.NumberRaw() != 2 {
		t.Fatalf("expected VERSION=2, got %v ok=%v", v.GoString(), ok)
	}
}

type fakeResolver struct{ value string }

func (r *fakeResolver) Get(ctx *runtime.EvalCtx, name string) (runtime.Value, bool, error) {
	if name == "greeting" {
		v, err := ctx.Heap.NewString(r.value)
		return v, true, err
	}
	return runtime.Undefined(), false, nil
}
func (r *fakeResolver) Set(ctx *runtime.EvalCtx, name string, v runtime.Value) (bool, error) {
	return false, nil
}
func (r *fakeResolver) Delete(ctx *runtime.EvalCtx, name string) (bool, error) { return false, nil }
func (r *fakeResolver) Enumerate(ctx *runtime.EvalCtx) (map[string]runtime.Value, error) {
	return nil, nil
}

func TestDynamicObjectHasStableHostID(t *testing.T) {
	ctx := newTestCtx()
	v, err := DynamicObject(ctx, &fakeResolver{value: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Object().HostID == "" {
		t.Fatal("expected a non-empty HostID")
	}
	got, ok, err := v.Object().Resolver.Get(ctx, "greeting")
	if err != nil || !ok || got.StringRaw() != "hi" {
		t.Fatalf("expected resolver to return \"hi\", got %v ok=%v err=%v", got.GoString(), ok, err)
	}
}

func TestHostObjectWrapsOpaqueHandle(t *testing.T) {
	ctx := newTestCtx()
	type handle struct{ id int }
	v, err := HostObject(ctx, &handle{id: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h, ok := v.Object().HostHandle.(*handle)
	if !ok || h.id != 7 {
		t.Fatalf("expected the wrapped handle to round-trip, got %v", v.Object().HostHandle)
	}
	if v.Object().HostID == "" {
		t.Fatal("expected a non-empty HostID")
	}
}

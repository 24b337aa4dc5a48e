package escript

import (
	"testing"
	"time"

	"github.com/cwbudde/es6sandbox/internal/errors"
	"github.com/cwbudde/es6sandbox/internal/hostinterop"
	"github.com/cwbudde/es6sandbox/internal/runtime"
)

func TestEvalArithmetic(t *testing.T) {
	v, err := Eval("20 + 30", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "50" {
		t.Fatalf("got %q, want \"50\"", v.String())
	}
}

func TestParseReuseIsIsolatedAcrossEvalCalls(t *testing.T) {
	script, err := Parse("let x = 1; ++x")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	r1, err := script.EvalAndGetDetails()
	if err != nil {
		t.Fatalf("first eval error: %v", err)
	}
	r2, err := script.EvalAndGetDetails()
	if err != nil {
		t.Fatalf("second eval error: %v", err)
	}

	if r1.Result.String() != "2" || r2.Result.String() != "2" {
		t.Fatalf("expected both evaluations to yield 2, got %q and %q", r1.Result.String(), r2.Result.String())
	}
	if r1.Stats.Ops != r2.Stats.Ops {
		t.Fatalf("expected identical op counts across reused-parse evaluations, got %d and %d", r1.Stats.Ops, r2.Stats.Ops)
	}
}

func TestEvalWithCustomGlobals(t *testing.T) {
	v, err := Eval("X + Y", nil, []EvalOption{
		WithCustomGlobals(map[string]any{"X": float64(100), "Y": float64(200)}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "300" {
		t.Fatalf("got %q, want \"300\"", v.String())
	}
}

func TestEvalInfiniteLoopHitsOpsLimit(t *testing.T) {
	_, err := Eval("while (true) { }", nil, []EvalOption{WithMaxOps(1000)})
	if err == nil {
		t.Fatal("expected a LimitsError, got nil")
	}
	le, ok := err.(*errors.LimitsError)
	if !ok {
		t.Fatalf("expected *errors.LimitsError, got %T: %v", err, err)
	}
	if le.Kind != errors.LimitOps {
		t.Fatalf("expected LimitOps, got %v", le.Kind)
	}
}

func TestEvalLargeStringRepeatHitsMemoryLimit(t *testing.T) {
	_, err := Eval("'x'.repeat(1000000)", nil, []EvalOption{WithMaxMemBytes(1024)})
	if err == nil {
		t.Fatal("expected a LimitsError, got nil")
	}
	le, ok := err.(*errors.LimitsError)
	if !ok || le.Kind != errors.LimitMemory {
		t.Fatalf("expected memory LimitsError, got %v", err)
	}
}

func TestEvalDeepRecursionHitsCallDepthLimit(t *testing.T) {
	src := "function f(n) { return f(n + 1); } f(0)"
	_, err := Eval(src, nil, []EvalOption{WithMaxCallDepth(10)})
	if err == nil {
		t.Fatal("expected a LimitsError, got nil")
	}
	le, ok := err.(*errors.LimitsError)
	if !ok || le.Kind != errors.LimitCallDepth {
		t.Fatalf("expected call-depth LimitsError, got %v", err)
	}
}

func TestEvalTimeoutViaSubstitutedClock(t *testing.T) {
	script, err := Parse("while (true) { }")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	start := time.Now()
	calls := 0
	fakeNow := func() time.Time {
		calls++
		if calls > 2 {
			return start.Add(time.Hour)
		}
		return start
	}
	_, err = script.Eval(WithTimeout(time.Second), withClock(fakeNow))
	le, ok := err.(*errors.LimitsError)
	if !ok || le.Kind != errors.LimitTimeout {
		t.Fatalf("expected timeout LimitsError, got %v", err)
	}
}

func TestEvalJSONRoundTrip(t *testing.T) {
	v, err := Eval(`JSON.stringify(JSON.parse('{"x":[1,2,3]}'))`, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != `{"x":[1,2,3]}` {
		t.Fatalf("got %q", v.String())
	}
}

func TestEvalUncaughtNullPropertyAccessProducesCallStack(t *testing.T) {
	src := `function a(foo){foo.x=1}
function b(x){a(x)}
b(null)`
	script, err := Parse(src, WithFilename("my-script.js"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	_, err = script.Eval()
	evalErr, ok := err.(*errors.EvalError)
	if !ok {
		t.Fatalf("expected *errors.EvalError, got %T: %v", err, err)
	}
	if evalErr.Message != "Type NULL has no properties" {
		t.Fatalf("got message %q", evalErr.Message)
	}
	lines := evalErr.Stack.Lines()
	want := []string{
		"foo.x = 1 (my-script.js:1)",
		"a(x) (my-script.js:2)",
		"b(null) (my-script.js:3)",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d stack lines %v, want %v", len(lines), lines, want)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Fatalf("stack line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestEvalCustomDefinitionsExposesStaticObject(t *testing.T) {
	source := "env.get('name')"
	v, err := Eval(source, nil, []EvalOption{
		WithCustomDefinitions(func(ctx *runtime.EvalCtx) (map[string]runtime.Value, error) {
			obj := hostinterop.NewStaticObjectBuilder().
				Method("get", 1, func(ctx *runtime.EvalCtx, args []runtime.Value) (runtime.Value, error) {
					return ctx.Heap.NewString("test-value")
				}).
				Build()
			return map[string]runtime.Value{"env": obj}, nil
		}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "test-value" {
		t.Fatalf("got %q, want \"test-value\"", v.String())
	}
}

// personResolver backs a dynamic-property object (spec §4.7 mechanism 3)
// with a plain Go map, exercising Get/Set/Enumerate end to end.
type personResolver struct {
	fields map[string]string
}

func (r *personResolver) Get(ctx *runtime.EvalCtx, name string) (runtime.Value, bool, error) {
	v, ok := r.fields[name]
	if !ok {
		return runtime.Undefined(), false, nil
	}
	sv, err := ctx.Heap.NewString(v)
	return sv, true, err
}

func (r *personResolver) Set(ctx *runtime.EvalCtx, name string, v runtime.Value) (bool, error) {
	r.fields[name] = runtime.ToStringValue(v)
	return true, nil
}

func (r *personResolver) Delete(ctx *runtime.EvalCtx, name string) (bool, error) {
	_, ok := r.fields[name]
	delete(r.fields, name)
	return ok, nil
}

func (r *personResolver) Enumerate(ctx *runtime.EvalCtx) (map[string]runtime.Value, error) {
	out := make(map[string]runtime.Value, len(r.fields))
	for k, v := range r.fields {
		sv, err := ctx.Heap.NewString(v)
		if err != nil {
			return nil, err
		}
		out[k] = sv
	}
	return out, nil
}

func TestEvalDynamicObjectPropertyAccessAndEnumerate(t *testing.T) {
	resolver := &personResolver{fields: map[string]string{"firstName": "John", "lastName": "Doe"}}
	source := `
		const f = env.firstName.toUpperCase();
		const l = env.lastName.toUpperCase();
		env.fullName = f + ' ' + l;
		Object.keys(env).sort().join(',')
	`
	v, err := Eval(source, nil, []EvalOption{
		WithCustomDefinitions(func(ctx *runtime.EvalCtx) (map[string]runtime.Value, error) {
			obj, err := hostinterop.DynamicObject(ctx, resolver)
			return map[string]runtime.Value{"env": obj}, err
		}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "firstName,fullName,lastName"; v.String() != want {
		t.Fatalf("got %q, want %q", v.String(), want)
	}
	if resolver.fields["fullName"] != "JOHN DOE" {
		t.Fatalf("expected the set() call to reach the resolver, got %q", resolver.fields["fullName"])
	}
}

func TestEvalUnsupportedRegexLiteralIsRejectedBeforeExecution(t *testing.T) {
	_, err := Eval("/a/.test('a')", nil, nil)
	if err == nil {
		t.Fatal("expected a syntax error rejecting the regex-shaped expression")
	}
}

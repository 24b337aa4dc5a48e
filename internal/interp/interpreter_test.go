package interp

import (
	"testing"
	"time"

	"github.com/cwbudde/es6sandbox/internal/builtins"
	"github.com/cwbudde/es6sandbox/internal/errors"
	"github.com/cwbudde/es6sandbox/internal/lexer"
	"github.com/cwbudde/es6sandbox/internal/limits"
	"github.com/cwbudde/es6sandbox/internal/parser"
	"github.com/cwbudde/es6sandbox/internal/runtime"
)

func run(t *testing.T, src string, cfg limits.Config) (runtime.Value, error) {
	t.Helper()
	l := lexer.New("<test>", src)
	p := parser.New(l, "<test>")
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	meter := limits.New(cfg, time.Now(), nil)
	ctx := runtime.NewEvalCtx("<test>", meter)
	builtins.Install(ctx, nil)
	it := New(ctx)
	return it.Run(program)
}

func TestRunClosureCapturesMutableBinding(t *testing.T) {
	v, err := run(t, `
		function counter() {
			let n = 0;
			return () => ++n;
		}
		const c = counter();
		c(); c(); c();
	`, limits.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := runtime.ToStringValue(v); got != "3" {
		t.Fatalf("got %q, want \"3\"", got)
	}
}

func TestRunTemplateLiteralInterpolation(t *testing.T) {
	v, err := run(t, "const name = 'world'; `hello ${name}`", limits.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := runtime.ToStringValue(v); got != "hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestRunDestructuringAssignment(t *testing.T) {
	v, err := run(t, "const {a, b} = {a: 1, b: 2}; a + b", limits.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := runtime.ToStringValue(v); got != "3" {
		t.Fatalf("got %q", got)
	}
}

func TestRunTryCatchCatchesThrownValue(t *testing.T) {
	v, err := run(t, `
		let result;
		try {
			throw new TypeError("boom");
		} catch (e) {
			result = e.message;
		}
		result;
	`, limits.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := runtime.ToStringValue(v); got != "boom" {
		t.Fatalf("got %q, want \"boom\"", got)
	}
}

func TestRunLimitsErrorUnwindsThroughTryCatch(t *testing.T) {
	// A LimitsError must not be catchable, even from inside a try/catch
	// that would otherwise swallow every thrown value.
	_, err := run(t, `
		try {
			while (true) { }
		} catch (e) {
		}
	`, limits.Config{MaxOps: 100, MaxCallDepth: 300})
	le, ok := err.(*errors.LimitsError)
	if !ok {
		t.Fatalf("expected *errors.LimitsError to unwind past try/catch, got %T: %v", err, err)
	}
	if le.Kind != errors.LimitOps {
		t.Fatalf("expected LimitOps, got %v", le.Kind)
	}
}

func TestRunUncaughtThrowReturnsThrownWithCallStack(t *testing.T) {
	_, err := run(t, `
		function a(foo){foo.x=1}
		function b(x){a(x)}
		b(null)
	`, limits.DefaultConfig())
	thrown, ok := err.(*runtime.Thrown)
	if !ok {
		t.Fatalf("expected *runtime.Thrown, got %T: %v", err, err)
	}
	if len(thrown.Stack) == 0 {
		t.Fatal("expected a non-empty call stack snapshot at the throw site")
	}
}

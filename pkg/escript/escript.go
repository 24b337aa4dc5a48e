// Package escript is the embedding façade for the sandbox: Parse once,
// Eval many times. It wires the lexer/parser/interp/limits/builtins
// layers together behind the parse-reuse contract spec §6 describes,
// the way the teacher's pkg/dwscript exposes its engine as a small set
// of functional-options constructors over an internal pipeline.
package escript

import (
	"io"
	"time"

	"github.com/cwbudde/es6sandbox/internal/ast"
	"github.com/cwbudde/es6sandbox/internal/builtins"
	"github.com/cwbudde/es6sandbox/internal/errors"
	"github.com/cwbudde/es6sandbox/internal/hostinterop"
	"github.com/cwbudde/es6sandbox/internal/interp"
	"github.com/cwbudde/es6sandbox/internal/lexer"
	"github.com/cwbudde/es6sandbox/internal/limits"
	"github.com/cwbudde/es6sandbox/internal/parser"
	"github.com/cwbudde/es6sandbox/internal/runtime"
)

// Value is the host-visible result of an evaluation: a snapshot that
// outlives the EvalCtx it was produced in (spec §5, EvalCtx is single-use
// and never shared across executions).
type Value struct {
	raw runtime.Value
}

// String renders v the way a script's own ToString would.
func (v Value) String() string { return runtime.ToStringValue(v.raw) }

// IsUndefined reports whether v is the ES `undefined` value.
func (v Value) IsUndefined() bool { return v.raw.IsUndefined() }

// ExecutionStats is a snapshot of one execution's resource consumption
// (spec §3).
type ExecutionStats struct {
	Ops            int64
	AllocatedBytes int64
}

// EvalResult is ParsedScript.EvalAndGetDetails's return shape.
type EvalResult struct {
	Result Value
	Stats  ExecutionStats
}

// scriptConfig accumulates ScriptOptions at Parse time.
type scriptConfig struct {
	filename string
}

// ScriptOption configures Parse.
type ScriptOption func(*scriptConfig)

// WithFilename sets the filename attributed to positions and stack
// frames produced while evaluating the parsed script.
func WithFilename(name string) ScriptOption {
	return func(c *scriptConfig) { c.filename = name }
}

// ParsedScript is an immutable, thread-safe, reusable parse result. The
// same ParsedScript can be Eval'd concurrently from many goroutines; each
// call gets its own EvalCtx and shares nothing but the read-only AST
// (spec §5 Isolation, §8 Parse-reuse).
type ParsedScript struct {
	program  *ast.Program
	filename string
}

// Parse lexes and parses source, returning a reusable ParsedScript or the
// first SyntaxError encountered.
func Parse(source string, opts ...ScriptOption) (*ParsedScript, error) {
	cfg := scriptConfig{filename: "<script>"}
	for _, opt := range opts {
		opt(&cfg)
	}
	l := lexer.New(cfg.filename, source)
	p := parser.New(l, cfg.filename)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return &ParsedScript{program: program, filename: cfg.filename}, nil
}

// evalConfig accumulates EvalOptions at Eval time (spec §6 EvalOpts).
type evalConfig struct {
	limits            limits.Config
	customGlobals     map[string]any
	customDefinitions func(ctx *runtime.EvalCtx) (map[string]runtime.Value, error)
	stdout            io.Writer
	now               func() time.Time
}

// EvalOption configures one Eval/EvalAndGetDetails call.
type EvalOption func(*evalConfig)

// WithMaxOps overrides the per-execution operation budget.
func WithMaxOps(n int64) EvalOption { return func(c *evalConfig) { c.limits.MaxOps = n } }

// WithMaxMemBytes overrides the cumulative allocation budget.
func WithMaxMemBytes(n int64) EvalOption { return func(c *evalConfig) { c.limits.MaxMemBytes = n } }

// WithTimeout overrides the wall-clock budget.
func WithTimeout(d time.Duration) EvalOption { return func(c *evalConfig) { c.limits.Timeout = d } }

// WithMaxCallDepth overrides the script call-stack cap.
func WithMaxCallDepth(n int) EvalOption { return func(c *evalConfig) { c.limits.MaxCallDepth = n } }

// WithStdout directs console.log/error/warn/info output to w. Without
// this option, console output is silently discarded.
func WithStdout(w io.Writer) EvalOption { return func(c *evalConfig) { c.stdout = w } }

// WithCustomGlobals installs host-supplied plain Go values as named
// globals, marshalled via hostinterop.MarshalGo (spec §6 custom_globals).
func WithCustomGlobals(globals map[string]any) EvalOption {
	return func(c *evalConfig) {
		if c.customGlobals == nil {
			c.customGlobals = map[string]any{}
		}
		for k, v := range globals {
			c.customGlobals[k] = v
		}
	}
}

// WithCustomDefinitions installs a callback that builds structural host
// objects (static or dynamic, via the hostinterop builders) once per
// EvalCtx (spec §6 custom_definitions).
func WithCustomDefinitions(fn func(ctx *runtime.EvalCtx) (map[string]runtime.Value, error)) EvalOption {
	return func(c *evalConfig) { c.customDefinitions = fn }
}

// withClock substitutes the meter's clock; it is unexported, for this
// package's tests (deadline/timeout determinism).
func withClock(now func() time.Time) EvalOption {
	return func(c *evalConfig) { c.now = now }
}

// Eval runs the parsed script once in a fresh, isolated EvalCtx and
// returns its completion value.
func (s *ParsedScript) Eval(opts ...EvalOption) (Value, error) {
	res, err := s.EvalAndGetDetails(opts...)
	return res.Result, err
}

// EvalAndGetDetails runs the parsed script once and additionally reports
// resource-usage stats (spec §6 evalAndGetDetails).
func (s *ParsedScript) EvalAndGetDetails(opts ...EvalOption) (EvalResult, error) {
	cfg := evalConfig{limits: limits.DefaultConfig()}
	for _, opt := range opts {
		opt(&cfg)
	}

	meter := limits.New(cfg.limits, time.Now(), cfg.now)
	ctx := runtime.NewEvalCtx(s.filename, meter)
	builtins.Install(ctx, cfg.stdout)

	for name, v := range cfg.customGlobals {
		mv, err := hostinterop.MarshalGo(ctx, v)
		if err != nil {
			return EvalResult{}, err
		}
		ctx.Global.Declare(name, runtime.BindConst, true, mv)
	}
	if cfg.customDefinitions != nil {
		defs, err := cfg.customDefinitions(ctx)
		if err != nil {
			return EvalResult{}, err
		}
		for name, v := range defs {
			ctx.Global.Declare(name, runtime.BindConst, true, v)
		}
	}

	it := interp.New(ctx)
	result, err := it.Run(s.program)
	stats := ctx.Stats()
	out := EvalResult{
		Result: Value{raw: result},
		Stats:  ExecutionStats{Ops: stats.Ops, AllocatedBytes: stats.AllocatedBytes},
	}
	if err != nil {
		return out, translateRunError(err)
	}
	return out, nil
}

// translateRunError converts an uncaught interpreter-level error into the
// host-facing error families spec §4.8/§6 specify: an uncaught
// *runtime.Thrown becomes an EvalError whose message is the thrown
// Error object's own `message` property when it has one (matching the
// bit-exact wording internal runtime faults raise, e.g. "Type NULL has
// no properties"), or the thrown value's plain string form otherwise;
// everything else (EvalError, LimitsError) already has the right shape
// and passes through.
func translateRunError(err error) error {
	switch e := err.(type) {
	case *runtime.Thrown:
		return &errors.EvalError{Message: thrownMessage(e.Value), Stack: e.Stack, Thrown: e.Value}
	case *errors.EvalError:
		return e
	case *errors.LimitsError:
		return e
	default:
		return err
	}
}

func thrownMessage(v runtime.Value) string {
	if o := v.Object(); o != nil && o.Class == runtime.ClassError {
		if msg, ok := o.Get("message"); ok {
			return runtime.ToStringValue(msg)
		}
	}
	return runtime.ToStringValue(v)
}

// Eval parses and evaluates source in one call, equivalent to
// Parse(source, scriptOpts...).Eval(evalOpts...) (spec §6).
func Eval(source string, scriptOpts []ScriptOption, evalOpts []EvalOption) (Value, error) {
	script, err := Parse(source, scriptOpts...)
	if err != nil {
		return Value{}, err
	}
	return script.Eval(evalOpts...)
}

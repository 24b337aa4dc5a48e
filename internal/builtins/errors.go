package builtins

import "github.com/cwbudde/es6sandbox/internal/runtime"

func typeErr(ctx *runtime.EvalCtx, message string) error { return runtime.NewTypeError(ctx, message) }

func rangeErr(ctx *runtime.EvalCtx, message string) error { return runtime.NewRangeError(ctx, message) }

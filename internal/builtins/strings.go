// Package builtins implements the sandbox's standard library surface:
// String/Array/Object/Math/JSON/Map/Set methods and the global objects
// installed into every EvalCtx (spec §4.4, §12 supplemented features).
//
// Every exported entry point here is a runtime.NativeFunc, the same
// uniform shape a host's own static-object methods use (internal
// builtins are just the sandbox's own host-interop consumer).
package builtins

import (
	"math"
	"strings"
	"unicode"

	"github.com/tidwall/match"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cwbudde/es6sandbox/internal/runtime"
)

// StringProperty resolves `length` or a String.prototype method for
// receiver s. Each method access wraps the shared NativeFunc in a new
// function Object; that wrapper is not charged against the memory budget.
func StringProperty(ctx *runtime.EvalCtx, s string, key string) (runtime.Value, bool) {
	if key == "length" {
		return runtime.Number(float64(len([]rune(s)))), true
	}
	if fn, ok := stringMethods[key]; ok {
		return runtime.Obj(&runtime.Object{Class: runtime.ClassFunction, Callable: fn}), true
	}
	return runtime.Value{}, false
}

var stringMethods map[string]runtime.NativeFunc

func init() {
	stringMethods = map[string]runtime.NativeFunc{
		"charAt":        strCharAt,
		"charCodeAt":    strCharCodeAt,
		"slice":         strSlice,
		"substring":     strSubstring,
		"toUpperCase":   strToUpperCase,
		"toLowerCase":   strToLowerCase,
		"trim":          strTrim,
		"trimStart":     strTrimStart,
		"trimEnd":       strTrimEnd,
		"repeat":        strRepeat,
		"includes":      strIncludes,
		"startsWith":    strStartsWith,
		"endsWith":      strEndsWith,
		"indexOf":       strIndexOf,
		"lastIndexOf":   strLastIndexOf,
		"split":         strSplit,
		"replace":       strReplace,
		"replaceAll":    strReplaceAll,
		"concat":        strConcat,
		"padStart":      strPadStart,
		"padEnd":        strPadEnd,
		"toString":      strToString,
		"codePointAt":   strCharCodeAt,
		"localeCompare": strLocaleCompare,
	}
}

func receiverRunes(this runtime.Value) []rune { return []rune(runtime.ToStringValue(this)) }

func clampIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

func strCharAt(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	r := receiverRunes(this)
	idx := 0
	if len(args) > 0 {
		idx = int(runtime.ToNumber(args[0]))
	}
	if idx < 0 || idx >= len(r) {
		return ctx.Heap.NewString("")
	}
	return ctx.Heap.NewString(string(r[idx]))
}

func strCharCodeAt(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	r := receiverRunes(this)
	idx := 0
	if len(args) > 0 {
		idx = int(runtime.ToNumber(args[0]))
	}
	if idx < 0 || idx >= len(r) {
		return runtime.Number(math.NaN()), nil
	}
	return runtime.Number(float64(r[idx])), nil
}

func strSlice(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	r := receiverRunes(this)
	start, end := 0, len(r)
	if len(args) > 0 {
		start = clampIndex(int(runtime.ToNumber(args[0])), len(r))
	}
	if len(args) > 1 && !args[1].IsUndefined() {
		end = clampIndex(int(runtime.ToNumber(args[1])), len(r))
	}
	if start >= end {
		return ctx.Heap.NewString("")
	}
	return ctx.Heap.NewString(string(r[start:end]))
}

func strSubstring(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	r := receiverRunes(this)
	start, end := 0, len(r)
	if len(args) > 0 {
		start = clampNonNeg(int(runtime.ToNumber(args[0])), len(r))
	}
	if len(args) > 1 && !args[1].IsUndefined() {
		end = clampNonNeg(int(runtime.ToNumber(args[1])), len(r))
	}
	if start > end {
		start, end = end, start
	}
	return ctx.Heap.NewString(string(r[start:end]))
}

func clampNonNeg(i, length int) int {
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

func strToUpperCase(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return ctx.Heap.NewString(cases.Upper(language.Und).String(runtime.ToStringValue(this)))
}

func strToLowerCase(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return ctx.Heap.NewString(cases.Lower(language.Und).String(runtime.ToStringValue(this)))
}

func strTrim(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return ctx.Heap.NewString(strings.TrimSpace(runtime.ToStringValue(this)))
}

func strTrimStart(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return ctx.Heap.NewString(strings.TrimLeftFunc(runtime.ToStringValue(this), unicode.IsSpace))
}

func strTrimEnd(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return ctx.Heap.NewString(strings.TrimRightFunc(runtime.ToStringValue(this), unicode.IsSpace))
}

func strRepeat(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	n := 0
	if len(args) > 0 {
		n = int(runtime.ToNumber(args[0]))
	}
	if n < 0 {
		return runtime.Value{}, typeErr(ctx, "repeat count must be non-negative")
	}
	s := runtime.ToStringValue(this)
	if err := ctx.Meter.ChargeAlloc(int64(len(s) * n)); err != nil {
		return runtime.Value{}, err
	}
	return ctx.Heap.NewString(strings.Repeat(s, n))
}

// globToLiteral escapes tidwall/match's glob metacharacters so a plain
// substring search behaves like a literal match (spec §12's includes/
// startsWith/endsWith are literal, not glob, searches).
func globToLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func strIncludes(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	needle := argString(args, 0)
	return runtime.Bool(match.Match(runtime.ToStringValue(this), "*"+globToLiteral(needle)+"*")), nil
}

func strStartsWith(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	needle := argString(args, 0)
	return runtime.Bool(match.Match(runtime.ToStringValue(this), globToLiteral(needle)+"*")), nil
}

func strEndsWith(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	needle := argString(args, 0)
	return runtime.Bool(match.Match(runtime.ToStringValue(this), "*"+globToLiteral(needle))), nil
}

func strIndexOf(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	idx := strings.Index(runtime.ToStringValue(this), argString(args, 0))
	return runtime.Number(float64(idx)), nil
}

func strLastIndexOf(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	idx := strings.LastIndex(runtime.ToStringValue(this), argString(args, 0))
	return runtime.Number(float64(idx)), nil
}

func strSplit(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s := runtime.ToStringValue(this)
	var parts []string
	if len(args) == 0 || args[0].IsUndefined() {
		parts = []string{s}
	} else {
		parts = strings.Split(s, runtime.ToStringValue(args[0]))
	}
	arr, err := ctx.Heap.NewArrayWithCapacity(len(parts))
	if err != nil {
		return runtime.Value{}, err
	}
	for _, p := range parts {
		sv, err := ctx.Heap.NewString(p)
		if err != nil {
			return runtime.Value{}, err
		}
		arr.Elements = append(arr.Elements, sv)
	}
	return runtime.Obj(arr), nil
}

func strReplace(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s := runtime.ToStringValue(this)
	return ctx.Heap.NewString(strings.Replace(s, argString(args, 0), argString(args, 1), 1))
}

func strReplaceAll(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s := runtime.ToStringValue(this)
	return ctx.Heap.NewString(strings.ReplaceAll(s, argString(args, 0), argString(args, 1)))
}

func strConcat(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	var b strings.Builder
	b.WriteString(runtime.ToStringValue(this))
	for _, a := range args {
		b.WriteString(runtime.ToStringValue(a))
	}
	return ctx.Heap.NewString(b.String())
}

func strPadStart(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return padString(ctx, this, args, true)
}

func strPadEnd(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return padString(ctx, this, args, false)
}

func padString(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value, start bool) (runtime.Value, error) {
	s := runtime.ToStringValue(this)
	target := 0
	if len(args) > 0 {
		target = int(runtime.ToNumber(args[0]))
	}
	pad := " "
	if len(args) > 1 && !args[1].IsUndefined() {
		pad = runtime.ToStringValue(args[1])
	}
	runes := []rune(s)
	if len(runes) >= target || pad == "" {
		return ctx.Heap.NewString(s)
	}
	need := target - len(runes)
	padRunes := []rune(strings.Repeat(pad, need/len([]rune(pad))+1))[:need]
	if start {
		return ctx.Heap.NewString(string(padRunes) + s)
	}
	return ctx.Heap.NewString(s + string(padRunes))
}

func strToString(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return ctx.Heap.NewString(runtime.ToStringValue(this))
}

func strLocaleCompare(ctx *runtime.EvalCtx, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	a, b := runtime.ToStringValue(this), argString(args, 0)
	switch {
	case a < b:
		return runtime.Number(-1), nil
	case a > b:
		return runtime.Number(1), nil
	default:
		return runtime.Number(0), nil
	}
}

func argString(args []runtime.Value, i int) string {
	if i >= len(args) {
		return "undefined"
	}
	return runtime.ToStringValue(args[i])
}

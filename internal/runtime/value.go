// Package runtime implements the engine's value model, object heap, and
// lexical environment (spec §3). Every Value is a small, copyable tagged
// union; objects and functions live by reference in a per-EvalCtx Heap so
// that two executions of the same AST never share mutable state.
package runtime

import "fmt"

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindObject // also covers Array/String-object/Date/Function/Host/DynamicHost via Object.Class
)

// Value is the tagged-variant runtime value described in spec §3. It is
// always copied by value; object identity is carried by the ref field,
// a pointer to the shared *Object.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	ref  *Object
}

func Undefined() Value       { return Value{kind: KindUndefined} }
func Null() Value            { return Value{kind: KindNull} }
func Bool(b bool) Value      { return Value{kind: KindBoolean, b: b} }
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }
func String(s string) Value  { return Value{kind: KindString, s: s} }
func Obj(o *Object) Value    { return Value{kind: KindObject, ref: o} }

func (v Value) Kind() Kind         { return v.kind }
func (v Value) IsUndefined() bool  { return v.kind == KindUndefined }
func (v Value) IsNull() bool       { return v.kind == KindNull }
func (v Value) IsNullish() bool    { return v.kind == KindUndefined || v.kind == KindNull }
func (v Value) IsObject() bool     { return v.kind == KindObject }
func (v Value) Bool() bool         { return v.b }
func (v Value) NumberRaw() float64 { return v.n }
func (v Value) StringRaw() string  { return v.s }
func (v Value) Object() *Object    { return v.ref }

// IsCallable reports whether v can appear as the callee of a CallExpression.
func (v Value) IsCallable() bool {
	return v.kind == KindObject && v.ref != nil && v.ref.Callable != nil
}

// SameValueZero implements the identity comparator used by Map/Set/Array
// includes: like ===, except NaN equals NaN and +0 equals -0 (as in ===).
func SameValueZero(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUndefined, KindNull:
		return true
	case KindBoolean:
		return a.b == b.b
	case KindNumber:
		if isNaN(a.n) && isNaN(b.n) {
			return true
		}
		return a.n == b.n
	case KindString:
		return a.s == b.s
	case KindObject:
		return a.ref == b.ref
	}
	return false
}

func isNaN(f float64) bool { return f != f }

func (v Value) GoString() string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return fmt.Sprintf("%v", v.b)
	case KindNumber:
		return fmt.Sprintf("%v", v.n)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindObject:
		if v.ref == nil {
			return "null-object"
		}
		return fmt.Sprintf("<%s>", v.ref.Class)
	}
	return "?"
}

// TypeName implements `typeof`: the ES6 subset collapses every object
// subtype except callables to "object".
func TypeName(v Value) string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "object"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		if v.IsCallable() {
			return "function"
		}
		return "object"
	}
	return "undefined"
}

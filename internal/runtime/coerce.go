package runtime

import (
	"math"
	"strconv"
	"strings"
)

// ToBoolean implements the ToBoolean abstract operation (spec §4.3).
func ToBoolean(v Value) bool {
	switch v.kind {
	case KindUndefined, KindNull:
		return false
	case KindBoolean:
		return v.b
	case KindNumber:
		return v.n != 0 && !isNaN(v.n)
	case KindString:
		return v.s != ""
	case KindObject:
		return true
	}
	return false
}

// ToNumber implements the ToNumber abstract operation.
func ToNumber(v Value) float64 {
	switch v.kind {
	case KindUndefined:
		return math.NaN()
	case KindNull:
		return 0
	case KindBoolean:
		if v.b {
			return 1
		}
		return 0
	case KindNumber:
		return v.n
	case KindString:
		return stringToNumber(v.s)
	case KindObject:
		return ToNumber(ToPrimitive(v, "number"))
	}
	return math.NaN()
}

func stringToNumber(s string) float64 {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}
	if strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X") {
		n, err := strconv.ParseInt(t[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ToStringValue implements the ToString abstract operation.
func ToStringValue(v Value) string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.n)
	case KindString:
		return v.s
	case KindObject:
		return ToStringValue(ToPrimitive(v, "string"))
	}
	return ""
}

func formatNumber(n float64) string {
	if isNaN(n) {
		return "NaN"
	}
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
	if n == 0 {
		return "0"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// ToPrimitive implements a minimal ToPrimitive: objects have no
// user-defined valueOf/toString in this subset, so arrays join with ",",
// plain objects render as "[object Object]", and everything else falls
// back to its Go default (spec §4.3, non-goal: no user Symbol.toPrimitive).
func ToPrimitive(v Value, hint string) Value {
	if v.kind != KindObject || v.ref == nil {
		return v
	}
	switch v.ref.Class {
	case ClassArray:
		parts := make([]string, len(v.ref.Elements))
		for i, el := range v.ref.Elements {
			if el.IsNullish() {
				parts[i] = ""
			} else {
				parts[i] = ToStringValue(el)
			}
		}
		return String(strings.Join(parts, ","))
	case ClassString:
		return v.ref.Primitive
	case ClassDate:
		return Number(v.ref.TimeMillis)
	default:
		if hint == "number" {
			return Number(math.NaN())
		}
		return String("[object Object]")
	}
}

// ToInt32 / ToUint32 implement the numeric-conversion abstract operations
// used by bitwise operators.
func ToInt32(v Value) int32 {
	n := ToNumber(v)
	if isNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	u := uint32(int64(math.Trunc(n)))
	return int32(u)
}

func ToUint32(v Value) uint32 {
	n := ToNumber(v)
	if isNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return uint32(int64(math.Trunc(n)))
}

// StrictEquals implements the === abstract operation.
func StrictEquals(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUndefined, KindNull:
		return true
	case KindBoolean:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n // NaN !== NaN falls out naturally
	case KindString:
		return a.s == b.s
	case KindObject:
		return a.ref == b.ref
	}
	return false
}

// LooseEquals implements the == abstract operation for the value kinds
// this subset supports (no Symbol, no BigInt).
func LooseEquals(a, b Value) bool {
	if a.kind == b.kind {
		return StrictEquals(a, b)
	}
	if a.IsNullish() && b.IsNullish() {
		return true
	}
	if a.IsNullish() || b.IsNullish() {
		return false
	}
	if a.kind == KindNumber && b.kind == KindString {
		return a.n == stringToNumber(b.s)
	}
	if a.kind == KindString && b.kind == KindNumber {
		return stringToNumber(a.s) == b.n
	}
	if a.kind == KindBoolean {
		return LooseEquals(Number(ToNumber(a)), b)
	}
	if b.kind == KindBoolean {
		return LooseEquals(a, Number(ToNumber(b)))
	}
	if a.kind == KindObject && (b.kind == KindNumber || b.kind == KindString) {
		return LooseEquals(ToPrimitive(a, "default"), b)
	}
	if b.kind == KindObject && (a.kind == KindNumber || a.kind == KindString) {
		return LooseEquals(a, ToPrimitive(b, "default"))
	}
	return false
}

// Add implements the `+` operator's dispatch: string concatenation if
// either operand's primitive is a string, numeric addition otherwise.
func Add(a, b Value) Value {
	pa := ToPrimitive(a, "default")
	pb := ToPrimitive(b, "default")
	if pa.kind == KindString || pb.kind == KindString {
		return String(ToStringValue(pa) + ToStringValue(pb))
	}
	return Number(ToNumber(pa) + ToNumber(pb))
}

package runtime

import (
	"math"
	"testing"
)

func TestToBoolean(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Undefined(), false},
		{Null(), false},
		{Bool(true), true},
		{Number(0), false},
		{Number(math.NaN()), false},
		{Number(1), true},
		{String(""), false},
		{String("x"), true},
	}
	for _, c := range cases {
		if got := ToBoolean(c.v); got != c.want {
			t.Errorf("ToBoolean(%s) = %v, want %v", c.v.GoString(), got, c.want)
		}
	}
}

func TestToNumber(t *testing.T) {
	if got := ToNumber(String("  42  ")); got != 42 {
		t.Errorf("ToNumber(\"  42  \") = %v, want 42", got)
	}
	if got := ToNumber(String("0x1F")); got != 31 {
		t.Errorf("ToNumber(\"0x1F\") = %v, want 31", got)
	}
	if got := ToNumber(Bool(true)); got != 1 {
		t.Errorf("ToNumber(true) = %v, want 1", got)
	}
	if got := ToNumber(Null()); got != 0 {
		t.Errorf("ToNumber(null) = %v, want 0", got)
	}
	if !isNaN(ToNumber(String("abc"))) {
		t.Error("ToNumber(\"abc\") should be NaN")
	}
}

func TestToStringValueFormatsIntegersWithoutDecimalPoint(t *testing.T) {
	if got := ToStringValue(Number(50)); got != "50" {
		t.Errorf("ToStringValue(50) = %q, want %q", got, "50")
	}
	if got := ToStringValue(Number(0)); got != "0" {
		t.Errorf("ToStringValue(0) = %q, want %q", got, "0")
	}
	if got := ToStringValue(Number(math.NaN())); got != "NaN" {
		t.Errorf("ToStringValue(NaN) = %q, want %q", got, "NaN")
	}
}

func TestStrictEqualsDistinguishesTypesAndNaN(t *testing.T) {
	if StrictEquals(Number(1), String("1")) {
		t.Error("1 === \"1\" should be false")
	}
	if StrictEquals(Number(math.NaN()), Number(math.NaN())) {
		t.Error("NaN === NaN should be false")
	}
	if !StrictEquals(String("a"), String("a")) {
		t.Error("\"a\" === \"a\" should be true")
	}
}

func TestSameValueZeroTreatsNaNAsEqual(t *testing.T) {
	if !SameValueZero(Number(math.NaN()), Number(math.NaN())) {
		t.Error("SameValueZero(NaN, NaN) should be true")
	}
}

func TestLooseEqualsCoercesAcrossTypes(t *testing.T) {
	if !LooseEquals(Number(1), String("1")) {
		t.Error("1 == \"1\" should be true")
	}
	if !LooseEquals(Null(), Undefined()) {
		t.Error("null == undefined should be true")
	}
	if LooseEquals(Null(), Number(0)) {
		t.Error("null == 0 should be false")
	}
}

func TestAddConcatenatesWhenEitherOperandIsString(t *testing.T) {
	got := Add(Number(20), Number(30))
	if got.Kind() != KindNumber || got.NumberRaw() != 50 {
		t.Fatalf("Add(20, 30) = %v, want 50", got.GoString())
	}
	got = Add(String("a"), Number(1))
	if got.Kind() != KindString || got.StringRaw() != "a1" {
		t.Fatalf("Add(\"a\", 1) = %v, want \"a1\"", got.GoString())
	}
}

func TestTypeName(t *testing.T) {
	if TypeName(Undefined()) != "undefined" {
		t.Error("typeof undefined should be \"undefined\"")
	}
	if TypeName(Null()) != "object" {
		t.Error("typeof null should be \"object\"")
	}
	if TypeName(Number(1)) != "number" {
		t.Error("typeof 1 should be \"number\"")
	}
}

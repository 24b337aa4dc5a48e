package builtins_test

import (
	"testing"

	"github.com/cwbudde/es6sandbox/pkg/escript"
)

func evalString(t *testing.T, src string) string {
	t.Helper()
	v, err := escript.Eval(src, nil, nil)
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	return v.String()
}

func TestArrayHigherOrderMethods(t *testing.T) {
	cases := map[string]string{
		"[1,2,3].map(x => x * 2).join(',')":            "2,4,6",
		"[1,2,3,4].filter(x => x % 2 === 0).join(',')": "2,4",
		"[1,2,3].reduce((a, b) => a + b, 0)":           "6",
		"[1,2,3].find(x => x > 1)":                     "2",
		"[1,2,3].includes(2)":                          "true",
	}
	for src, want := range cases {
		if got := evalString(t, src); got != want {
			t.Errorf("%s = %q, want %q", src, got, want)
		}
	}
}

func TestStringMethods(t *testing.T) {
	cases := map[string]string{
		`"hello".toUpperCase()`:        "HELLO",
		`"a,b,c".split(',').join('-')`: "a-b-c",
		`"5".padStart(3, '0')`:         "005",
		`"  hi  ".trim()`:              "hi",
	}
	for src, want := range cases {
		if got := evalString(t, src); got != want {
			t.Errorf("%s = %q, want %q", src, got, want)
		}
	}
}

func TestMapAndSetOperations(t *testing.T) {
	if got := evalString(t, "const m = new Map(); m.set('a', 1); m.get('a')"); got != "1" {
		t.Errorf("Map.set/get = %q, want \"1\"", got)
	}
	if got := evalString(t, "const s = new Set([1,2,2,3]); s.size"); got != "3" {
		t.Errorf("Set dedup size = %q, want \"3\"", got)
	}
	if got := evalString(t, "new Set([1,2]).has(2)"); got != "true" {
		t.Errorf("Set.has = %q, want \"true\"", got)
	}
}

func TestObjectStaticMethods(t *testing.T) {
	if got := evalString(t, "Object.keys({a:1, b:2}).join(',')"); got != "a,b" {
		t.Errorf("Object.keys = %q, want \"a,b\"", got)
	}
	if got := evalString(t, "Object.values({a:1, b:2}).join(',')"); got != "1,2" {
		t.Errorf("Object.values = %q, want \"1,2\"", got)
	}
}

func TestMathAndNumberBuiltins(t *testing.T) {
	if got := evalString(t, "Math.max(1, 5, 3)"); got != "5" {
		t.Errorf("Math.max = %q, want \"5\"", got)
	}
	if got := evalString(t, "Number.isInteger(4)"); got != "true" {
		t.Errorf("Number.isInteger = %q, want \"true\"", got)
	}
}

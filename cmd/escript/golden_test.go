package main

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/es6sandbox/pkg/escript"
)

// TestGoldenScripts snapshots the completion value of a handful of small
// scripts end to end through the pkg/escript façade, the way the
// teacher's interp fixture suite snapshots interpreter output with
// go-snaps rather than hand-maintained expected-string constants.
func TestGoldenScripts(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{"arithmetic", "20 + 30"},
		{"template_literal", "const name = 'world'; `hello ${name}`"},
		{"array_methods", "[1,2,3].map(x => x * 2).filter(x => x > 2).join(',')"},
		{"object_destructure", "const {a, b} = {a: 1, b: 2}; a + b"},
		{"closures", "function counter(){ let n = 0; return () => ++n; } const c = counter(); c(); c(); c();"},
		{"json_roundtrip", "JSON.stringify(JSON.parse('{\"x\":[1,2,3]}'))"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := escript.Eval(tc.source, nil, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			snaps.MatchSnapshot(t, fmt.Sprintf("%s_result", tc.name), result.String())
		})
	}
}

// Command escript is the CLI front end for the sandbox: lex, parse, and
// run ES6-subset scripts against the engine's configurable resource
// limits. Mirrors the teacher's cmd/dwscript layout (a thin main.go
// delegating to a cobra command tree in cmd/).
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/es6sandbox/cmd/escript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

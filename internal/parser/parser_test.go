package parser

import (
	"testing"

	"github.com/cwbudde/es6sandbox/internal/ast"
	"github.com/cwbudde/es6sandbox/internal/lexer"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New("<test>", src)
	p := New(l, "<test>")
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	return prog
}

func TestParseVariableDeclaration(t *testing.T) {
	prog := parseProgram(t, "let x = 1 + 2;")
	if len(prog.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Body))
	}
	decl, ok := prog.Body[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected *ast.VariableDeclaration, got %T", prog.Body[0])
	}
	if decl.Kind != "let" {
		t.Errorf("expected kind \"let\", got %q", decl.Kind)
	}
	if len(decl.Declarations) != 1 {
		t.Fatalf("expected 1 declarator, got %d", len(decl.Declarations))
	}
	bin, ok := decl.Declarations[0].Init.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected *ast.BinaryExpression init, got %T", decl.Declarations[0].Init)
	}
	if bin.Operator != "+" {
		t.Errorf("expected operator \"+\", got %q", bin.Operator)
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	prog := parseProgram(t, "function add(a, b) { return a + b; }")
	fn, ok := prog.Body[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected *ast.FunctionDeclaration, got %T", prog.Body[0])
	}
	if fn.Name != "add" {
		t.Errorf("expected name \"add\", got %q", fn.Name)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if len(fn.Body.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body.Body))
	}
}

func TestParseIfElseStatement(t *testing.T) {
	prog := parseProgram(t, "if (x) { y; } else { z; }")
	ifStmt, ok := prog.Body[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", prog.Body[0])
	}
	if ifStmt.Alternate == nil {
		t.Fatal("expected a non-nil Alternate branch")
	}
}

func TestParseArrowFunctionExpression(t *testing.T) {
	prog := parseProgram(t, "const f = x => x * 2;")
	decl := prog.Body[0].(*ast.VariableDeclaration)
	if _, ok := decl.Declarations[0].Init.(*ast.ArrowFunction); !ok {
		t.Fatalf("expected *ast.ArrowFunction, got %T", decl.Declarations[0].Init)
	}
}

func TestParseMemberAndCallExpression(t *testing.T) {
	prog := parseProgram(t, "foo.bar(1, 2);")
	stmt := prog.Body[0].(*ast.ExpressionStatement)
	call, ok := stmt.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected *ast.CallExpression, got %T", stmt.Expression)
	}
	if _, ok := call.Callee.(*ast.MemberExpression); !ok {
		t.Fatalf("expected *ast.MemberExpression callee, got %T", call.Callee)
	}
	if len(call.Arguments) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(call.Arguments))
	}
}

func TestParseReportsSyntaxErrorWithPosition(t *testing.T) {
	l := lexer.New("script.js", "let = ;")
	p := New(l, "script.js")
	p.ParseProgram()
	errs := p.Errors()
	if len(errs) == 0 {
		t.Fatal("expected at least one syntax error")
	}
	if errs[0].Pos.Filename != "script.js" {
		t.Errorf("expected error position to reference script.js, got %q", errs[0].Pos.Filename)
	}
}

func TestParseRejectsRegexLiteralAsDivision(t *testing.T) {
	// The lexer never produces a regex-literal token, so `/a/.test('a')`
	// parses as a division expression whose left operand is missing.
	l := lexer.New("<test>", "/a/.test('a')")
	p := New(l, "<test>")
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected a syntax error for a regex-shaped expression")
	}
}

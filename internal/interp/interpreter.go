package interp

import (
	"github.com/cwbudde/es6sandbox/internal/ast"
	"github.com/cwbudde/es6sandbox/internal/runtime"
)

// Interpreter walks a single parsed Program against one EvalCtx. A new
// Interpreter (or at least a new EvalCtx) is created per execution so
// that two Eval calls over the same *ast.Program never share heap state
// (spec §5 Isolation).
type Interpreter struct {
	ctx *runtime.EvalCtx
}

// New returns an Interpreter driving ctx, wiring ctx.CallFunc so builtins
// outside this package can invoke script callables.
func New(ctx *runtime.EvalCtx) *Interpreter {
	it := &Interpreter{ctx: ctx}
	ctx.CallFunc = it.callValue
	return it
}

// Run evaluates program's top-level statements in the global scope and
// returns the completion value of the last ExpressionStatement executed,
// mirroring the host-facing Eval's "last expression's value" result (spec
// §3 ExecutionResult).
func (it *Interpreter) Run(program *ast.Program) (runtime.Value, error) {
	it.hoistVarsDeep(program.Body, it.ctx.Global)
	if err := it.hoistBlockLocals(program.Body, it.ctx.Global); err != nil {
		return runtime.Undefined(), err
	}

	last := runtime.Undefined()
	for _, stmt := range program.Body {
		v, err := it.execStatementValue(stmt, it.ctx.Global)
		if err != nil {
			return runtime.Undefined(), err
		}
		if !v.IsUndefined() || isExpressionStatement(stmt) {
			last = v
		}
	}
	return last, nil
}

func isExpressionStatement(s ast.Statement) bool {
	_, ok := s.(*ast.ExpressionStatement)
	return ok
}

// execStatementValue executes stmt and, for an ExpressionStatement,
// returns the value the expression produced (Undefined for every other
// statement kind).
func (it *Interpreter) execStatementValue(stmt ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	if es, ok := stmt.(*ast.ExpressionStatement); ok {
		if err := it.ctx.Step(); err != nil {
			return runtime.Undefined(), err
		}
		it.markSite(stmt)
		return it.evalExpression(es.Expression, env)
	}
	return runtime.Undefined(), it.execStatement(stmt, env)
}

// markSite records stmt as the thing the innermost active frame is
// currently doing, so an error raised while evaluating it reports the
// right call-site text (spec §6, §8 scenario 6). An ExpressionStatement
// records its bare expression (e.g. "foo.x = 1"), not the statement's own
// String() (which would append a trailing ";").
func (it *Interpreter) markSite(stmt ast.Statement) {
	if es, ok := stmt.(*ast.ExpressionStatement); ok {
		it.ctx.SetSite(es.Expression.String(), es.Expression.Pos())
		return
	}
	it.ctx.SetSite(stmt.String(), stmt.Pos())
}

// execStatement executes a single statement, returning a signal* error to
// unwind break/continue/return/throw, a *errors.LimitsError to abort the
// whole execution, or nil on normal completion.
func (it *Interpreter) execStatement(stmt ast.Statement, env *runtime.Environment) error {
	if err := it.ctx.Step(); err != nil {
		return err
	}
	it.markSite(stmt)
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		_, err := it.evalExpression(s.Expression, env)
		return err

	case *ast.BlockStatement:
		blockEnv := runtime.NewEnvironment(env)
		if err := it.hoistBlockLocals(s.Body, blockEnv); err != nil {
			return err
		}
		return it.execBlockBody(s.Body, blockEnv)

	case *ast.VariableDeclaration:
		return it.execVariableDeclaration(s, env)

	case *ast.FunctionDeclaration:
		return nil // materialized during hoisting

	case *ast.EmptyStatement:
		return nil

	case *ast.IfStatement:
		test, err := it.evalExpression(s.Test, env)
		if err != nil {
			return err
		}
		if runtime.ToBoolean(test) {
			return it.execStatement(s.Consequent, env)
		}
		if s.Alternate != nil {
			return it.execStatement(s.Alternate, env)
		}
		return nil

	case *ast.WhileStatement:
		return it.execWhile(s, env, "")

	case *ast.DoWhileStatement:
		return it.execDoWhile(s, env, "")

	case *ast.ForStatement:
		return it.execFor(s, env, "")

	case *ast.ForInStatement:
		return it.execForIn(s, env, "")

	case *ast.ForOfStatement:
		return it.execForOf(s, env, "")

	case *ast.BreakStatement:
		return &signalBreak{Label: s.Label}

	case *ast.ContinueStatement:
		return &signalContinue{Label: s.Label}

	case *ast.ReturnStatement:
		var v runtime.Value = runtime.Undefined()
		if s.Argument != nil {
			var err error
			v, err = it.evalExpression(s.Argument, env)
			if err != nil {
				return err
			}
		}
		return &signalReturn{Value: v}

	case *ast.ThrowStatement:
		v, err := it.evalExpression(s.Argument, env)
		if err != nil {
			return err
		}
		return runtime.NewThrown(it.ctx, v)

	case *ast.TryStatement:
		return it.execTry(s, env)

	case *ast.SwitchStatement:
		return it.execSwitch(s, env)

	case *ast.LabeledStatement:
		return it.execLabeled(s, env)

	default:
		eerr, merr := newError(it.ctx, "SyntaxError", "unsupported statement")
		if merr != nil {
			return merr
		}
		return eerr
	}
}

func (it *Interpreter) execBlockBody(body []ast.Statement, env *runtime.Environment) error {
	for _, stmt := range body {
		if err := it.execStatement(stmt, env); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) execVariableDeclaration(decl *ast.VariableDeclaration, env *runtime.Environment) error {
	for _, d := range decl.Declarations {
		var v runtime.Value = runtime.Undefined()
		if d.Init != nil {
			var err error
			v, err = it.evalExpression(d.Init, env)
			if err != nil {
				return err
			}
		}
		if err := it.bindPattern(d.Target, v, env, decl.Kind); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) execLabeled(s *ast.LabeledStatement, env *runtime.Environment) error {
	switch body := s.Body.(type) {
	case *ast.WhileStatement:
		return it.execWhile(body, env, s.Label)
	case *ast.DoWhileStatement:
		return it.execDoWhile(body, env, s.Label)
	case *ast.ForStatement:
		return it.execFor(body, env, s.Label)
	case *ast.ForInStatement:
		return it.execForIn(body, env, s.Label)
	case *ast.ForOfStatement:
		return it.execForOf(body, env, s.Label)
	default:
		err := it.execStatement(s.Body, env)
		if b, ok := err.(*signalBreak); ok && b.Label == s.Label {
			return nil
		}
		return err
	}
}

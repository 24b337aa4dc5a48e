package interp

import "github.com/cwbudde/es6sandbox/internal/ast"
import "github.com/cwbudde/es6sandbox/internal/runtime"

// hoistVarsDeep implements `var`/function-declaration hoisting to the
// nearest function (or program) scope: it walks every nested statement
// except into a function body's own scope, declaring each `var` name as
// undefined ahead of execution (spec §4.2).
func (it *Interpreter) hoistVarsDeep(stmts []ast.Statement, funcEnv *runtime.Environment) {
	for _, stmt := range stmts {
		hoistVarsInStatement(stmt, funcEnv)
	}
}

func hoistVarsInStatement(stmt ast.Statement, funcEnv *runtime.Environment) {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		if s.Kind != "var" {
			return
		}
		for _, d := range s.Declarations {
			for _, name := range patternNames(d.Target) {
				if !funcEnv.HasOwn(name) {
					funcEnv.Declare(name, runtime.BindVar, true, runtime.Undefined())
				}
			}
		}
	case *ast.FunctionDeclaration:
		if !funcEnv.HasOwn(s.Name) {
			funcEnv.Declare(s.Name, runtime.BindVar, true, runtime.Undefined())
		}
	case *ast.BlockStatement:
		for _, inner := range s.Body {
			hoistVarsInStatement(inner, funcEnv)
		}
	case *ast.IfStatement:
		hoistVarsInStatement(s.Consequent, funcEnv)
		if s.Alternate != nil {
			hoistVarsInStatement(s.Alternate, funcEnv)
		}
	case *ast.WhileStatement:
		hoistVarsInStatement(s.Body, funcEnv)
	case *ast.DoWhileStatement:
		hoistVarsInStatement(s.Body, funcEnv)
	case *ast.ForStatement:
		if decl, ok := s.Init.(*ast.VariableDeclaration); ok {
			hoistVarsInStatement(decl, funcEnv)
		}
		hoistVarsInStatement(s.Body, funcEnv)
	case *ast.ForInStatement:
		if s.Kind == "var" {
			for _, name := range patternNames(s.Left) {
				if !funcEnv.HasOwn(name) {
					funcEnv.Declare(name, runtime.BindVar, true, runtime.Undefined())
				}
			}
		}
		hoistVarsInStatement(s.Body, funcEnv)
	case *ast.ForOfStatement:
		if s.Kind == "var" {
			for _, name := range patternNames(s.Left) {
				if !funcEnv.HasOwn(name) {
					funcEnv.Declare(name, runtime.BindVar, true, runtime.Undefined())
				}
			}
		}
		hoistVarsInStatement(s.Body, funcEnv)
	case *ast.TryStatement:
		hoistVarsInStatement(s.Block, funcEnv)
		if s.Handler != nil {
			hoistVarsInStatement(s.Handler.Body, funcEnv)
		}
		if s.Finalizer != nil {
			hoistVarsInStatement(s.Finalizer, funcEnv)
		}
	case *ast.SwitchStatement:
		for _, c := range s.Cases {
			for _, inner := range c.Consequent {
				hoistVarsInStatement(inner, funcEnv)
			}
		}
	case *ast.LabeledStatement:
		hoistVarsInStatement(s.Body, funcEnv)
	}
}

// hoistBlockLocals handles the shallow, per-block part of hoisting: `let`
// and `const` declarations become temporal-dead-zone bindings in this
// block's own environment, and function declarations are bound to their
// actual callable value immediately (spec §4.2).
func (it *Interpreter) hoistBlockLocals(stmts []ast.Statement, env *runtime.Environment) error {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.VariableDeclaration:
			if s.Kind == "let" || s.Kind == "const" {
				kind := runtime.BindLet
				if s.Kind == "const" {
					kind = runtime.BindConst
				}
				for _, d := range s.Declarations {
					for _, name := range patternNames(d.Target) {
						env.Declare(name, kind, false, runtime.Undefined())
					}
				}
			}
		case *ast.FunctionDeclaration:
			fn, err := it.makeFunctionValue(s.Name, s.Params, s.Body, nil, env, false, runtime.Undefined())
			if err != nil {
				return err
			}
			env.Declare(s.Name, runtime.BindVar, true, fn)
		}
	}
	return nil
}

// patternNames collects every identifier a binding pattern introduces,
// recursing through array/object destructuring and defaults.
func patternNames(p ast.Pattern) []string {
	switch pat := p.(type) {
	case *ast.Identifier:
		return []string{pat.Name}
	case *ast.AssignmentPattern:
		return patternNames(pat.Target)
	case *ast.ArrayPattern:
		var names []string
		for _, el := range pat.Elements {
			if el == nil {
				continue
			}
			names = append(names, patternNames(el)...)
		}
		if pat.Rest != nil {
			names = append(names, patternNames(pat.Rest)...)
		}
		return names
	case *ast.ObjectPattern:
		var names []string
		for _, prop := range pat.Properties {
			names = append(names, patternNames(prop.Value)...)
		}
		if pat.Rest != nil {
			names = append(names, patternNames(pat.Rest)...)
		}
		return names
	}
	return nil
}

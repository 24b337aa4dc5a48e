// Package parser implements a recursive-descent/Pratt parser over the
// lexer's token stream, producing the immutable AST defined in
// internal/ast. On any malformed input it raises errors.SyntaxError
// carrying the offending position (spec §4.2).
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/es6sandbox/internal/ast"
	"github.com/cwbudde/es6sandbox/internal/errors"
	"github.com/cwbudde/es6sandbox/internal/lexer"
)

// precedence levels, lowest to highest binding.
const (
	_ int = iota
	LOWEST
	SEQUENCE
	ASSIGNMENT
	CONDITIONAL
	NULLISH
	LOGICAL_OR
	LOGICAL_AND
	BIT_OR
	BIT_XOR
	BIT_AND
	EQUALITY
	RELATIONAL
	SHIFT
	ADDITIVE
	MULTIPLICATIVE
	EXPONENT
	UNARY
	POSTFIX
	CALL
	MEMBER
)

var precedences = map[lexer.Type]int{
	lexer.COMMA:          SEQUENCE,
	lexer.ASSIGN:         ASSIGNMENT,
	lexer.PLUS_ASSIGN:    ASSIGNMENT,
	lexer.MINUS_ASSIGN:   ASSIGNMENT,
	lexer.STAR_ASSIGN:    ASSIGNMENT,
	lexer.SLASH_ASSIGN:   ASSIGNMENT,
	lexer.PERCENT_ASSIGN: ASSIGNMENT,
	lexer.AND_ASSIGN:     ASSIGNMENT,
	lexer.OR_ASSIGN:      ASSIGNMENT,
	lexer.QUESTION:       CONDITIONAL,
	lexer.OR_OR:          LOGICAL_OR,
	lexer.AND_AND:        LOGICAL_AND,
	lexer.PIPE:           BIT_OR,
	lexer.CARET:          BIT_XOR,
	lexer.AMP:            BIT_AND,
	lexer.EQ:             EQUALITY,
	lexer.NOT_EQ:         EQUALITY,
	lexer.STRICT_EQ:      EQUALITY,
	lexer.STRICT_NOT_EQ:  EQUALITY,
	lexer.LT:             RELATIONAL,
	lexer.GT:             RELATIONAL,
	lexer.LTE:            RELATIONAL,
	lexer.GTE:            RELATIONAL,
	lexer.IN:             RELATIONAL,
	lexer.SHL:            SHIFT,
	lexer.SHR:            SHIFT,
	lexer.USHR:           SHIFT,
	lexer.PLUS:           ADDITIVE,
	lexer.MINUS:          ADDITIVE,
	lexer.STAR:           MULTIPLICATIVE,
	lexer.SLASH:          MULTIPLICATIVE,
	lexer.PERCENT:        MULTIPLICATIVE,
	lexer.STAR_STAR:      EXPONENT,
	lexer.INCR:           POSTFIX,
	lexer.DECR:           POSTFIX,
	lexer.LPAREN:         CALL,
	lexer.DOT:            MEMBER,
	lexer.LBRACKET:       MEMBER,
}

// Parser builds an AST from a token stream produced by lexer.Lexer.
type Parser struct {
	l        *lexer.Lexer
	filename string

	cur  lexer.Token
	peek lexer.Token

	errs []*errors.SyntaxError
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer, filename string) *Parser {
	p := &Parser{l: l, filename: filename}
	p.next()
	p.next()
	return p
}

// Errors returns every SyntaxError raised while parsing, in source order.
func (p *Parser) Errors() []*errors.SyntaxError { return p.errs }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) addError(pos ast.Position, format string, args ...any) {
	p.errs = append(p.errs, &errors.SyntaxError{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) peekIs(t lexer.Type) bool { return p.peek.Type == t }
func (p *Parser) curIs(t lexer.Type) bool  { return p.cur.Type == t }

func (p *Parser) expect(t lexer.Type, what string) bool {
	if p.peekIs(t) {
		p.next()
		return true
	}
	p.addError(p.peek.Pos, "expected %s, got %q", what, p.peek.Literal)
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses the entire token stream into a *ast.Program. Check
// Errors() afterward; a non-empty result does not imply success.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Filename: p.filename}
	for !p.curIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Body = append(prog.Body, stmt)
		}
		p.next()
	}
	return prog
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.SEMICOLON:
		return &ast.EmptyStatement{Position: p.cur.Pos}
	case lexer.LET, lexer.CONST, lexer.VAR:
		return p.parseVariableDeclaration(true)
	case lexer.FUNCTION:
		return p.parseFunctionDeclaration()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.DO:
		return p.parseDoWhileStatement()
	case lexer.BREAK:
		return p.parseBreakStatement()
	case lexer.CONTINUE:
		return p.parseContinueStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.THROW:
		return p.parseThrowStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.IDENT:
		if p.peekIs(lexer.COLON) {
			return p.parseLabeledStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Position: p.cur.Pos}
	p.next()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Body = append(block.Body, stmt)
		}
		p.next()
	}
	return block
}

func (p *Parser) consumeSemicolon() {
	if p.peekIs(lexer.SEMICOLON) {
		p.next()
	}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	pos := p.cur.Pos
	expr := p.parseExpression(LOWEST)
	stmt := &ast.ExpressionStatement{Position: pos, Expression: expr}
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseVariableDeclaration(consumeSemi bool) *ast.VariableDeclaration {
	decl := &ast.VariableDeclaration{Position: p.cur.Pos, Kind: p.cur.Literal}
	for {
		p.next()
		target := p.parseBindingTarget()
		var init ast.Expression
		if p.peekIs(lexer.ASSIGN) {
			p.next()
			p.next()
			init = p.parseExpression(ASSIGNMENT)
		}
		decl.Declarations = append(decl.Declarations, ast.VariableDeclarator{Target: target, Init: init})
		if !p.peekIs(lexer.COMMA) {
			break
		}
		p.next()
	}
	if consumeSemi {
		p.consumeSemicolon()
	}
	return decl
}

func (p *Parser) parseBindingTarget() ast.Pattern {
	switch p.cur.Type {
	case lexer.LBRACKET:
		return p.parseArrayPattern()
	case lexer.LBRACE:
		return p.parseObjectPattern()
	default:
		if !p.curIs(lexer.IDENT) {
			p.addError(p.cur.Pos, "unexpected token %q in binding position", p.cur.Literal)
		}
		return &ast.Identifier{Position: p.cur.Pos, Name: p.cur.Literal}
	}
}

func (p *Parser) parseArrayPattern() *ast.ArrayPattern {
	pat := &ast.ArrayPattern{Position: p.cur.Pos}
	p.next()
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.COMMA) {
			pat.Elements = append(pat.Elements, nil)
			p.next()
			continue
		}
		if p.curIs(lexer.ELLIPSIS) {
			p.next()
			pat.Rest = p.parseBindingTarget()
			p.next()
			break
		}
		target := p.parseBindingTarget()
		if p.peekIs(lexer.ASSIGN) {
			p.next()
			p.next()
			def := p.parseExpression(ASSIGNMENT)
			target = &ast.AssignmentPattern{Position: target.Pos(), Target: target, Default: def}
		}
		pat.Elements = append(pat.Elements, target)
		p.next()
		if p.curIs(lexer.COMMA) {
			p.next()
		}
	}
	return pat
}

func (p *Parser) parseObjectPattern() *ast.ObjectPattern {
	pat := &ast.ObjectPattern{Position: p.cur.Pos}
	p.next()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.ELLIPSIS) {
			p.next()
			pat.Rest = p.parseBindingTarget()
			p.next()
			break
		}
		keyTok := p.cur
		key := ast.Expression(&ast.Identifier{Position: keyTok.Pos, Name: keyTok.Literal})
		prop := ast.ObjectPatternProperty{Key: key, Shorthand: true}
		if p.peekIs(lexer.COLON) {
			p.next()
			p.next()
			prop.Value = p.parseBindingTarget()
			prop.Shorthand = false
		} else {
			prop.Value = &ast.Identifier{Position: keyTok.Pos, Name: keyTok.Literal}
		}
		if p.peekIs(lexer.ASSIGN) {
			p.next()
			p.next()
			def := p.parseExpression(ASSIGNMENT)
			prop.Value = &ast.AssignmentPattern{Position: prop.Value.Pos(), Target: prop.Value, Default: def}
		}
		pat.Properties = append(pat.Properties, prop)
		p.next()
		if p.curIs(lexer.COMMA) {
			p.next()
		}
	}
	return pat
}

func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	pos := p.cur.Pos
	p.next()
	name := p.cur.Literal
	fd := &ast.FunctionDeclaration{Position: pos, Name: name}
	if !p.expect(lexer.LPAREN, "(") {
		return fd
	}
	fd.Params = p.parseParamList()
	if !p.expect(lexer.LBRACE, "{") {
		return fd
	}
	fd.Body = p.parseBlockStatement()
	return fd
}

func (p *Parser) parseParamList() []ast.Pattern {
	var params []ast.Pattern
	p.next() // consume '(' cur becomes first param token or ')'
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.ELLIPSIS) {
			p.next()
			rest := p.parseBindingTarget()
			params = append(params, &ast.SpreadElement{Position: rest.Pos(), Argument: rest})
			p.next()
			break
		}
		target := p.parseBindingTarget()
		if p.peekIs(lexer.ASSIGN) {
			p.next()
			p.next()
			def := p.parseExpression(ASSIGNMENT)
			target = &ast.AssignmentPattern{Position: target.Pos(), Target: target, Default: def}
		}
		params = append(params, target)
		p.next()
		if p.curIs(lexer.COMMA) {
			p.next()
		}
	}
	return params
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Position: p.cur.Pos}
	if !p.expect(lexer.LPAREN, "(") {
		return stmt
	}
	p.next()
	stmt.Test = p.parseExpression(LOWEST)
	if !p.expect(lexer.RPAREN, ")") {
		return stmt
	}
	p.next()
	stmt.Consequent = p.parseStatement()
	if p.peekIs(lexer.ELSE) {
		p.next()
		p.next()
		stmt.Alternate = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	stmt := &ast.WhileStatement{Position: p.cur.Pos}
	if !p.expect(lexer.LPAREN, "(") {
		return stmt
	}
	p.next()
	stmt.Test = p.parseExpression(LOWEST)
	if !p.expect(lexer.RPAREN, ")") {
		return stmt
	}
	p.next()
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseDoWhileStatement() *ast.DoWhileStatement {
	stmt := &ast.DoWhileStatement{Position: p.cur.Pos}
	p.next()
	stmt.Body = p.parseStatement()
	if !p.expect(lexer.WHILE, "while") {
		return stmt
	}
	if !p.expect(lexer.LPAREN, "(") {
		return stmt
	}
	p.next()
	stmt.Test = p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN, ")")
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseForStatement() ast.Statement {
	pos := p.cur.Pos
	if !p.expect(lexer.LPAREN, "(") {
		return &ast.ForStatement{Position: pos}
	}
	p.next()

	// for (;;) form with no init
	if p.curIs(lexer.SEMICOLON) {
		return p.finishCStyleFor(pos, nil)
	}

	if p.curIs(lexer.LET) || p.curIs(lexer.CONST) || p.curIs(lexer.VAR) {
		kind := p.cur.Literal
		declPos := p.cur.Pos
		p.next()
		target := p.parseBindingTarget()
		if p.peekIs(lexer.IN) {
			p.next()
			p.next()
			right := p.parseExpression(LOWEST)
			return p.finishForInOf(pos, kind, target, right, true)
		}
		if p.peekIs(lexer.OF) {
			p.next()
			p.next()
			right := p.parseExpression(LOWEST)
			return p.finishForInOf(pos, kind, target, right, false)
		}
		var init ast.Expression
		if p.peekIs(lexer.ASSIGN) {
			p.next()
			p.next()
			init = p.parseExpression(ASSIGNMENT)
		}
		decl := &ast.VariableDeclaration{Position: declPos, Kind: kind,
			Declarations: []ast.VariableDeclarator{{Target: target, Init: init}}}
		for p.peekIs(lexer.COMMA) {
			p.next()
			p.next()
			t2 := p.parseBindingTarget()
			var i2 ast.Expression
			if p.peekIs(lexer.ASSIGN) {
				p.next()
				p.next()
				i2 = p.parseExpression(ASSIGNMENT)
			}
			decl.Declarations = append(decl.Declarations, ast.VariableDeclarator{Target: t2, Init: i2})
		}
		return p.finishCStyleFor(pos, decl)
	}

	expr := p.parseExpression(LOWEST)
	if p.peekIs(lexer.IN) {
		p.next()
		p.next()
		right := p.parseExpression(LOWEST)
		if pat, ok := expr.(ast.Pattern); ok {
			return p.finishForInOf(pos, "", pat, right, true)
		}
	}
	if p.peekIs(lexer.OF) {
		p.next()
		p.next()
		right := p.parseExpression(LOWEST)
		if pat, ok := expr.(ast.Pattern); ok {
			return p.finishForInOf(pos, "", pat, right, false)
		}
	}
	return p.finishCStyleFor(pos, expr)
}

func (p *Parser) finishForInOf(pos ast.Position, kind string, left ast.Pattern, right ast.Expression, isIn bool) ast.Statement {
	if !p.expect(lexer.RPAREN, ")") {
		return &ast.EmptyStatement{Position: pos}
	}
	p.next()
	body := p.parseStatement()
	if isIn {
		return &ast.ForInStatement{Position: pos, Kind: kind, Left: left, Right: right, Body: body}
	}
	return &ast.ForOfStatement{Position: pos, Kind: kind, Left: left, Right: right, Body: body}
}

func (p *Parser) finishCStyleFor(pos ast.Position, init ast.Node) *ast.ForStatement {
	stmt := &ast.ForStatement{Position: pos, Init: init}
	if !p.curIs(lexer.SEMICOLON) {
		if !p.expect(lexer.SEMICOLON, ";") {
			return stmt
		}
	}
	if !p.peekIs(lexer.SEMICOLON) {
		p.next()
		stmt.Test = p.parseExpression(LOWEST)
	}
	if !p.expect(lexer.SEMICOLON, ";") {
		return stmt
	}
	if !p.peekIs(lexer.RPAREN) {
		p.next()
		stmt.Update = p.parseExpression(LOWEST)
	}
	if !p.expect(lexer.RPAREN, ")") {
		return stmt
	}
	p.next()
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	stmt := &ast.BreakStatement{Position: p.cur.Pos}
	if p.peekIs(lexer.IDENT) {
		p.next()
		stmt.Label = p.cur.Literal
	}
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseContinueStatement() *ast.ContinueStatement {
	stmt := &ast.ContinueStatement{Position: p.cur.Pos}
	if p.peekIs(lexer.IDENT) {
		p.next()
		stmt.Label = p.cur.Literal
	}
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Position: p.cur.Pos}
	if !p.peekIs(lexer.SEMICOLON) && !p.peekIs(lexer.RBRACE) && !p.peekIs(lexer.EOF) {
		p.next()
		stmt.Argument = p.parseExpression(LOWEST)
	}
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseThrowStatement() *ast.ThrowStatement {
	stmt := &ast.ThrowStatement{Position: p.cur.Pos}
	p.next()
	stmt.Argument = p.parseExpression(LOWEST)
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseTryStatement() *ast.TryStatement {
	stmt := &ast.TryStatement{Position: p.cur.Pos}
	if !p.expect(lexer.LBRACE, "{") {
		return stmt
	}
	stmt.Block = p.parseBlockStatement()
	if p.peekIs(lexer.CATCH) {
		p.next()
		clause := &ast.CatchClause{}
		if p.peekIs(lexer.LPAREN) {
			p.next()
			p.next()
			clause.Param = p.parseBindingTarget()
			p.expect(lexer.RPAREN, ")")
		}
		p.expect(lexer.LBRACE, "{")
		clause.Body = p.parseBlockStatement()
		stmt.Handler = clause
	}
	if p.peekIs(lexer.FINALLY) {
		p.next()
		p.expect(lexer.LBRACE, "{")
		stmt.Finalizer = p.parseBlockStatement()
	}
	return stmt
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	stmt := &ast.SwitchStatement{Position: p.cur.Pos}
	if !p.expect(lexer.LPAREN, "(") {
		return stmt
	}
	p.next()
	stmt.Discriminant = p.parseExpression(LOWEST)
	if !p.expect(lexer.RPAREN, ")") {
		return stmt
	}
	if !p.expect(lexer.LBRACE, "{") {
		return stmt
	}
	p.next()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		var c ast.SwitchCase
		if p.curIs(lexer.CASE) {
			p.next()
			c.Test = p.parseExpression(LOWEST)
			p.expect(lexer.COLON, ":")
		} else if p.curIs(lexer.DEFAULT) {
			p.expect(lexer.COLON, ":")
		}
		p.next()
		for !p.curIs(lexer.CASE) && !p.curIs(lexer.DEFAULT) && !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
			if st := p.parseStatement(); st != nil {
				c.Consequent = append(c.Consequent, st)
			}
			p.next()
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	return stmt
}

func (p *Parser) parseLabeledStatement() ast.Statement {
	pos := p.cur.Pos
	label := p.cur.Literal
	p.next() // now at ':'
	p.next()
	body := p.parseStatement()
	return &ast.LabeledStatement{Position: pos, Label: label, Body: body}
}

// parseExpression is the Pratt-parser entry point.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return left
	}
	for !p.peekIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		p.next()
		left = p.parseInfix(left)
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	switch p.cur.Type {
	case lexer.IDENT:
		return p.parseIdentifierOrArrow()
	case lexer.NUMBER:
		return p.parseNumberLiteral()
	case lexer.STRING:
		return &ast.StringLiteral{Position: p.cur.Pos, Value: p.cur.Literal}
	case lexer.BACKTICK:
		return p.parseTemplateLiteral()
	case lexer.TRUE:
		return &ast.BooleanLiteral{Position: p.cur.Pos, Value: true}
	case lexer.FALSE:
		return &ast.BooleanLiteral{Position: p.cur.Pos, Value: false}
	case lexer.NULL:
		return &ast.NullLiteral{Position: p.cur.Pos}
	case lexer.UNDEFINED:
		return &ast.UndefinedLiteral{Position: p.cur.Pos}
	case lexer.LPAREN:
		return p.parseParenOrArrow()
	case lexer.LBRACKET:
		return p.parseArrayLiteral()
	case lexer.LBRACE:
		return p.parseObjectLiteral()
	case lexer.FUNCTION:
		return p.parseFunctionExpression()
	case lexer.BANG, lexer.MINUS, lexer.PLUS, lexer.TILDE:
		return p.parseUnaryExpression()
	case lexer.TYPEOF, lexer.VOID:
		return p.parseKeywordUnary()
	case lexer.INCR, lexer.DECR:
		return p.parsePrefixUpdate()
	case lexer.NEW:
		return p.parseNewExpression()
	case lexer.SLASH, lexer.SLASH_ASSIGN:
		p.addError(p.cur.Pos, "regex literals are not supported")
		return nil
	case lexer.ELLIPSIS:
		pos := p.cur.Pos
		p.next()
		return &ast.SpreadElement{Position: pos, Argument: p.parseExpression(ASSIGNMENT)}
	default:
		p.addError(p.cur.Pos, "unexpected token %q", p.cur.Literal)
		return nil
	}
}

func (p *Parser) parseIdentifierOrArrow() ast.Expression {
	ident := &ast.Identifier{Position: p.cur.Pos, Name: p.cur.Literal}
	if p.peekIs(lexer.ARROW) {
		pos := ident.Pos()
		p.next() // now at =>
		return p.finishArrow(pos, []ast.Pattern{ident})
	}
	return ident
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	raw := p.cur.Literal
	val := parseNumericLiteral(raw)
	return &ast.NumberLiteral{Position: p.cur.Pos, Value: val, Raw: raw}
}

func parseNumericLiteral(raw string) float64 {
	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "0x"):
		n, _ := strconv.ParseInt(raw[2:], 16, 64)
		return float64(n)
	case strings.HasPrefix(lower, "0b"):
		n, _ := strconv.ParseInt(raw[2:], 2, 64)
		return float64(n)
	case strings.HasPrefix(lower, "0o"):
		n, _ := strconv.ParseInt(raw[2:], 8, 64)
		return float64(n)
	default:
		n, _ := strconv.ParseFloat(raw, 64)
		return n
	}
}

func (p *Parser) parseTemplateLiteral() ast.Expression {
	tpl := &ast.TemplateLiteral{Position: p.cur.Pos}
	for {
		chunk, exprStart, _ := p.l.ReadTemplateChunk()
		tpl.Quasis = append(tpl.Quasis, chunk)
		if !exprStart {
			break
		}
		p.next() // prime cur/peek to read the embedded expression
		p.next()
		expr := p.parseExpression(LOWEST)
		tpl.Expressions = append(tpl.Expressions, expr)
		if !p.peekIs(lexer.RBRACE) {
			p.addError(p.peek.Pos, "expected } to close template substitution")
			break
		}
		p.next() // cur = RBRACE; lexer cursor sits right after it, ready for next chunk
	}
	return tpl
}

func (p *Parser) parseParenOrArrow() ast.Expression {
	startPos := p.cur.Pos
	if isArrowAhead(p) {
		params := p.parseParamList()
		// cur == RPAREN; peek should be ARROW.
		if !p.expect(lexer.ARROW, "=>") {
			return nil
		}
		return p.finishArrow(startPos, params)
	}
	p.next()
	expr := p.parseExpression(LOWEST)
	if !p.expect(lexer.RPAREN, ")") {
		return expr
	}
	return expr
}

// isArrowAhead performs lightweight lookahead by scanning balanced
// parens to see whether `=>` follows the matching `)`. The parser has no
// general backtracking, so arrow-vs-parenthesized-expression is resolved
// this way instead.
func isArrowAhead(p *Parser) bool {
	save := *p.l
	saveCur, savePeek := p.cur, p.peek
	depth := 0
	cur := p.cur
	peek := p.peek
	result := false
	for {
		if cur.Type == lexer.LPAREN {
			depth++
		} else if cur.Type == lexer.RPAREN {
			depth--
			if depth == 0 {
				result = peek.Type == lexer.ARROW
				break
			}
		} else if cur.Type == lexer.EOF {
			break
		}
		cur = peek
		peek = p.l.NextToken()
	}
	*p.l = save
	p.cur, p.peek = saveCur, savePeek
	return result
}

func (p *Parser) finishArrow(pos ast.Position, params []ast.Pattern) ast.Expression {
	arrow := &ast.ArrowFunction{Position: pos, Params: params}
	p.next()
	if p.curIs(lexer.LBRACE) {
		arrow.Body = p.parseBlockStatement()
	} else {
		arrow.ExprBody = p.parseExpression(ASSIGNMENT)
	}
	return arrow
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	lit := &ast.ArrayLiteral{Position: p.cur.Pos}
	p.next()
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.COMMA) {
			lit.Elements = append(lit.Elements, nil)
			p.next()
			continue
		}
		lit.Elements = append(lit.Elements, p.parseExpression(ASSIGNMENT))
		p.next()
		if p.curIs(lexer.COMMA) {
			p.next()
		}
	}
	return lit
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	lit := &ast.ObjectLiteral{Position: p.cur.Pos}
	p.next()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		prop := p.parseObjectProperty()
		lit.Properties = append(lit.Properties, prop)
		p.next()
		if p.curIs(lexer.COMMA) {
			p.next()
		}
	}
	return lit
}

func (p *Parser) parseObjectProperty() ast.ObjectProperty {
	var prop ast.ObjectProperty
	if p.curIs(lexer.ELLIPSIS) {
		pos := p.cur.Pos
		p.next()
		arg := p.parseExpression(ASSIGNMENT)
		return ast.ObjectProperty{Value: &ast.SpreadElement{Position: pos, Argument: arg}}
	}
	if p.curIs(lexer.LBRACKET) {
		p.next()
		prop.Key = p.parseExpression(LOWEST)
		p.expect(lexer.RBRACKET, "]")
		prop.Computed = true
	} else if p.curIs(lexer.STRING) {
		prop.Key = &ast.StringLiteral{Position: p.cur.Pos, Value: p.cur.Literal}
	} else if p.curIs(lexer.NUMBER) {
		prop.Key = &ast.StringLiteral{Position: p.cur.Pos, Value: p.cur.Literal}
	} else {
		prop.Key = &ast.Identifier{Position: p.cur.Pos, Name: p.cur.Literal}
	}

	if p.peekIs(lexer.LPAREN) {
		// method shorthand: key(params) { body }
		fn := &ast.FunctionLiteral{Position: prop.Key.Pos()}
		p.next()
		fn.Params = p.parseParamList()
		p.expect(lexer.LBRACE, "{")
		fn.Body = p.parseBlockStatement()
		prop.Value = fn
		prop.Method = true
		return prop
	}
	if p.peekIs(lexer.COLON) {
		p.next()
		p.next()
		prop.Value = p.parseExpression(ASSIGNMENT)
		return prop
	}
	// shorthand {x}
	if ident, ok := prop.Key.(*ast.Identifier); ok {
		prop.Value = &ast.Identifier{Position: ident.Position, Name: ident.Name}
		prop.Shorthand = true
	}
	return prop
}

func (p *Parser) parseFunctionExpression() ast.Expression {
	pos := p.cur.Pos
	p.next()
	name := ""
	if p.curIs(lexer.IDENT) {
		name = p.cur.Literal
		p.next()
	}
	fn := &ast.FunctionLiteral{Position: pos, Name: name}
	if !p.curIs(lexer.LPAREN) {
		p.addError(p.cur.Pos, "expected ( after function name")
		return fn
	}
	fn.Params = p.parseParamList()
	if !p.expect(lexer.LBRACE, "{") {
		return fn
	}
	fn.Body = p.parseBlockStatement()
	return fn
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	pos := p.cur.Pos
	op := p.cur.Literal
	p.next()
	arg := p.parseExpression(UNARY)
	return &ast.UnaryExpression{Position: pos, Operator: op, Argument: arg}
}

func (p *Parser) parseKeywordUnary() ast.Expression {
	pos := p.cur.Pos
	op := p.cur.Literal
	p.next()
	arg := p.parseExpression(UNARY)
	return &ast.UnaryExpression{Position: pos, Operator: op, Argument: arg}
}

func (p *Parser) parsePrefixUpdate() ast.Expression {
	pos := p.cur.Pos
	op := p.cur.Literal
	p.next()
	arg := p.parseExpression(UNARY)
	return &ast.UpdateExpression{Position: pos, Operator: op, Argument: arg, Prefix: true}
}

func (p *Parser) parseNewExpression() ast.Expression {
	pos := p.cur.Pos
	p.next()
	callee := p.parseExpression(MEMBER)
	n := &ast.NewExpression{Position: pos, Callee: callee}
	if p.peekIs(lexer.LPAREN) {
		p.next()
		n.Arguments = p.parseArguments()
	}
	return n
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	switch p.cur.Type {
	case lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH, lexer.PERCENT, lexer.STAR_STAR,
		lexer.EQ, lexer.NOT_EQ, lexer.STRICT_EQ, lexer.STRICT_NOT_EQ,
		lexer.LT, lexer.GT, lexer.LTE, lexer.GTE,
		lexer.AMP, lexer.PIPE, lexer.CARET, lexer.SHL, lexer.SHR, lexer.USHR, lexer.IN:
		return p.parseBinaryExpression(left)
	case lexer.AND_AND, lexer.OR_OR:
		return p.parseLogicalExpression(left)
	case lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.STAR_ASSIGN,
		lexer.SLASH_ASSIGN, lexer.PERCENT_ASSIGN, lexer.AND_ASSIGN, lexer.OR_ASSIGN:
		return p.parseAssignmentExpression(left)
	case lexer.QUESTION:
		return p.parseConditionalExpression(left)
	case lexer.LPAREN:
		return p.parseCallExpression(left)
	case lexer.DOT:
		return p.parseMemberExpression(left)
	case lexer.LBRACKET:
		return p.parseComputedMemberExpression(left)
	case lexer.INCR, lexer.DECR:
		pos := p.cur.Pos
		op := p.cur.Literal
		return &ast.UpdateExpression{Position: pos, Operator: op, Argument: left, Prefix: false}
	case lexer.COMMA:
		return p.parseSequenceExpression(left)
	default:
		return left
	}
}

func (p *Parser) parseSequenceExpression(left ast.Expression) ast.Expression {
	seq := &ast.SequenceExpression{Position: left.Pos(), Expressions: []ast.Expression{left}}
	for p.curIs(lexer.COMMA) {
		p.next()
		seq.Expressions = append(seq.Expressions, p.parseExpression(ASSIGNMENT))
		if !p.peekIs(lexer.COMMA) {
			break
		}
		p.next()
	}
	return seq
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	pos := p.cur.Pos
	op := p.cur.Literal
	precedence := p.curPrecedence()
	p.next()
	right := p.parseExpression(precedence)
	return &ast.BinaryExpression{Position: pos, Operator: op, Left: left, Right: right}
}

func (p *Parser) parseLogicalExpression(left ast.Expression) ast.Expression {
	pos := p.cur.Pos
	op := p.cur.Literal
	precedence := p.curPrecedence()
	p.next()
	right := p.parseExpression(precedence)
	return &ast.LogicalExpression{Position: pos, Operator: op, Left: left, Right: right}
}

func (p *Parser) parseAssignmentExpression(left ast.Expression) ast.Expression {
	pos := p.cur.Pos
	op := p.cur.Literal
	p.next()
	right := p.parseExpression(ASSIGNMENT - 1)
	return &ast.AssignmentExpression{Position: pos, Operator: op, Target: left, Value: right}
}

func (p *Parser) parseConditionalExpression(left ast.Expression) ast.Expression {
	pos := p.cur.Pos
	p.next()
	cons := p.parseExpression(ASSIGNMENT)
	if !p.expect(lexer.COLON, ":") {
		return cons
	}
	p.next()
	alt := p.parseExpression(ASSIGNMENT)
	return &ast.ConditionalExpression{Position: pos, Test: left, Consequent: cons, Alternate: alt}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	pos := p.cur.Pos
	args := p.parseArguments()
	return &ast.CallExpression{Position: pos, Callee: callee, Arguments: args}
}

func (p *Parser) parseArguments() []ast.Expression {
	var args []ast.Expression
	p.next()
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		args = append(args, p.parseExpression(ASSIGNMENT))
		p.next()
		if p.curIs(lexer.COMMA) {
			p.next()
		}
	}
	return args
}

func (p *Parser) parseMemberExpression(obj ast.Expression) ast.Expression {
	pos := p.cur.Pos
	p.next()
	prop := &ast.Identifier{Position: p.cur.Pos, Name: p.cur.Literal}
	return &ast.MemberExpression{Position: pos, Object: obj, Property: prop}
}

func (p *Parser) parseComputedMemberExpression(obj ast.Expression) ast.Expression {
	pos := p.cur.Pos
	p.next()
	prop := p.parseExpression(LOWEST)
	if !p.expect(lexer.RBRACKET, "]") {
		return obj
	}
	return &ast.MemberExpression{Position: pos, Object: obj, Property: prop, Computed: true}
}

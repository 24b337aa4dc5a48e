package ast

func (*BlockStatement) statementNode()      {}
func (*ExpressionStatement) statementNode() {}
func (*VariableDeclaration) statementNode() {}
func (*FunctionDeclaration) statementNode() {}
func (*IfStatement) statementNode()         {}
func (*ForStatement) statementNode()        {}
func (*ForInStatement) statementNode()      {}
func (*ForOfStatement) statementNode()      {}
func (*WhileStatement) statementNode()      {}
func (*DoWhileStatement) statementNode()    {}
func (*BreakStatement) statementNode()      {}
func (*ContinueStatement) statementNode()   {}
func (*ReturnStatement) statementNode()     {}
func (*ThrowStatement) statementNode()      {}
func (*TryStatement) statementNode()        {}
func (*SwitchStatement) statementNode()     {}
func (*LabeledStatement) statementNode()    {}
func (*EmptyStatement) statementNode()      {}

// BlockStatement is `{ stmt; stmt; ... }`.
type BlockStatement struct {
	Position Position
	Body     []Statement
}

func (b *BlockStatement) Pos() Position  { return b.Position }
func (b *BlockStatement) String() string { return "{ ... }" }

// ExpressionStatement is an expression evaluated for its side effects.
type ExpressionStatement struct {
	Position   Position
	Expression Expression
}

func (e *ExpressionStatement) Pos() Position  { return e.Position }
func (e *ExpressionStatement) String() string { return e.Expression.String() + ";" }

// VariableDeclarator is one `name = init` (or destructuring `pattern =
// init`) clause of a declaration list.
type VariableDeclarator struct {
	Target Pattern
	Init   Expression // nil when not initialized
}

// VariableDeclaration is `var|let|const decl, decl, ...;`.
type VariableDeclaration struct {
	Position     Position
	Kind         string // "var", "let", or "const"
	Declarations []VariableDeclarator
}

func (v *VariableDeclaration) Pos() Position  { return v.Position }
func (v *VariableDeclaration) String() string { return v.Kind + " ..." }

// FunctionDeclaration is a named `function name(params) { body }` at
// statement position; it hoists both its binding and value to the
// enclosing function/global scope.
type FunctionDeclaration struct {
	Position Position
	Name     string
	Params   []Pattern
	Body     *BlockStatement
}

func (f *FunctionDeclaration) Pos() Position  { return f.Position }
func (f *FunctionDeclaration) String() string { return "function " + f.Name + "(...) { ... }" }

// IfStatement is `if (test) cons else alt`; Alternate is nil when absent.
type IfStatement struct {
	Position   Position
	Test       Expression
	Consequent Statement
	Alternate  Statement
}

func (i *IfStatement) Pos() Position  { return i.Position }
func (i *IfStatement) String() string { return "if (...) ..." }

// ForStatement is the classic C-style `for (init; test; update) body`. Any
// of Init/Test/Update may be nil.
type ForStatement struct {
	Position Position
	Init     Node // Expression, *VariableDeclaration, or nil
	Test     Expression
	Update   Expression
	Body     Statement
}

func (f *ForStatement) Pos() Position  { return f.Position }
func (f *ForStatement) String() string { return "for (...) ..." }

// ForInStatement is `for (decl in obj) body`, enumerating string keys.
type ForInStatement struct {
	Position Position
	Kind     string // "var", "let", "const", or "" when Left is a bare expression
	Left     Pattern
	Right    Expression
	Body     Statement
}

func (f *ForInStatement) Pos() Position  { return f.Position }
func (f *ForInStatement) String() string { return "for (... in ...) ..." }

// ForOfStatement is `for (decl of iterable) body`.
type ForOfStatement struct {
	Position Position
	Kind     string
	Left     Pattern
	Right    Expression
	Body     Statement
}

func (f *ForOfStatement) Pos() Position  { return f.Position }
func (f *ForOfStatement) String() string { return "for (... of ...) ..." }

// WhileStatement is `while (test) body`.
type WhileStatement struct {
	Position Position
	Test     Expression
	Body     Statement
}

func (w *WhileStatement) Pos() Position  { return w.Position }
func (w *WhileStatement) String() string { return "while (...) ..." }

// DoWhileStatement is `do body while (test);`.
type DoWhileStatement struct {
	Position Position
	Body     Statement
	Test     Expression
}

func (d *DoWhileStatement) Pos() Position  { return d.Position }
func (d *DoWhileStatement) String() string { return "do ... while (...)" }

// BreakStatement is `break;` or `break label;`.
type BreakStatement struct {
	Position Position
	Label    string
}

func (b *BreakStatement) Pos() Position  { return b.Position }
func (b *BreakStatement) String() string { return "break;" }

// ContinueStatement is `continue;` or `continue label;`.
type ContinueStatement struct {
	Position Position
	Label    string
}

func (c *ContinueStatement) Pos() Position  { return c.Position }
func (c *ContinueStatement) String() string { return "continue;" }

// ReturnStatement is `return;` or `return expr;`.
type ReturnStatement struct {
	Position Position
	Argument Expression // nil for bare `return;`
}

func (r *ReturnStatement) Pos() Position  { return r.Position }
func (r *ReturnStatement) String() string { return "return ...;" }

// ThrowStatement is `throw expr;`.
type ThrowStatement struct {
	Position Position
	Argument Expression
}

func (t *ThrowStatement) Pos() Position  { return t.Position }
func (t *ThrowStatement) String() string { return "throw ...;" }

// CatchClause is the `catch (param) { body }` part of a try statement;
// Param is nil for a parameter-less `catch { }`.
type CatchClause struct {
	Param Pattern
	Body  *BlockStatement
}

// TryStatement is `try { } catch (e) { } finally { }`. Handler and
// Finalizer may independently be nil (though not both, per the grammar).
type TryStatement struct {
	Position  Position
	Block     *BlockStatement
	Handler   *CatchClause
	Finalizer *BlockStatement
}

func (t *TryStatement) Pos() Position  { return t.Position }
func (t *TryStatement) String() string { return "try { ... }" }

// SwitchCase is one `case expr:` or `default:` arm; Test is nil for the
// default arm.
type SwitchCase struct {
	Test       Expression
	Consequent []Statement
}

// SwitchStatement is `switch (disc) { case ...: ... default: ... }`.
type SwitchStatement struct {
	Position     Position
	Discriminant Expression
	Cases        []SwitchCase
}

func (s *SwitchStatement) Pos() Position  { return s.Position }
func (s *SwitchStatement) String() string { return "switch (...) { ... }" }

// LabeledStatement is `label: stmt`. Per spec.md §4.1, labels are only
// meaningful on loop and switch statements.
type LabeledStatement struct {
	Position Position
	Label    string
	Body     Statement
}

func (l *LabeledStatement) Pos() Position  { return l.Position }
func (l *LabeledStatement) String() string { return l.Label + ": ..." }

// EmptyStatement is a bare `;`.
type EmptyStatement struct{ Position Position }

func (e *EmptyStatement) Pos() Position  { return e.Position }
func (e *EmptyStatement) String() string { return ";" }

package ast

import (
	"github.com/hassan/cpl/internal/lexer"
)

// ExprStmt is an expression evaluated for its effect: f(); x = 5;
type ExprStmt struct {
	Expression Expr
}

func (e *ExprStmt) Pos() lexer.Position { return e.Expression.Pos() }
func (e *ExprStmt) End() lexer.Position { return e.Expression.End() }
func (e *ExprStmt) stmtNode()           {}
func (e *ExprStmt) Accept(v Visitor) error {
	return v.VisitExprStmt(e)
}

// PrintStmt is `print expr;`.
type PrintStmt struct {
	Keyword    lexer.Token
	Expression Expr
}

func (p *PrintStmt) Pos() lexer.Position { return p.Keyword.Position }
func (p *PrintStmt) End() lexer.Position { return p.Expression.End() }
func (p *PrintStmt) stmtNode()           {}
func (p *PrintStmt) Accept(v Visitor) error {
	return v.VisitPrintStmt(p)
}

// LetStmt declares a variable. Initializer is nil for `let x;`, which leaves
// the variable uninitialized.
type LetStmt struct {
	Keyword     lexer.Token
	Name        lexer.Token
	Initializer Expr
}

func (l *LetStmt) Pos() lexer.Position { return l.Keyword.Position }
func (l *LetStmt) End() lexer.Position {
	if l.Initializer != nil {
		return l.Initializer.End()
	}
	return tokenEnd(l.Name)
}
func (l *LetStmt) stmtNode() {}
func (l *LetStmt) Accept(v Visitor) error {
	return v.VisitLetStmt(l)
}

// BlockStmt is a braced statement list and opens a new scope.
//
// Blocks built by desugaring a for loop have no braces in the source; their
// brace tokens point at the `for` keyword.
type BlockStmt struct {
	LeftBrace  lexer.Token
	Statements []Stmt
	RightBrace lexer.Token
}

func (b *BlockStmt) Pos() lexer.Position { return b.LeftBrace.Position }
func (b *BlockStmt) End() lexer.Position { return tokenEnd(b.RightBrace) }
func (b *BlockStmt) stmtNode()           {}
func (b *BlockStmt) Accept(v Visitor) error {
	return v.VisitBlockStmt(b)
}

// IfStmt is `if (cond) then` with an optional else branch.
type IfStmt struct {
	Keyword    lexer.Token
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt
}

func (i *IfStmt) Pos() lexer.Position { return i.Keyword.Position }
func (i *IfStmt) End() lexer.Position {
	if i.ElseBranch != nil {
		return i.ElseBranch.End()
	}
	return i.ThenBranch.End()
}
func (i *IfStmt) stmtNode() {}
func (i *IfStmt) Accept(v Visitor) error {
	return v.VisitIfStmt(i)
}

// WhileStmt is `while (cond) body`. For loops are rewritten into WhileStmt
// by the parser.
type WhileStmt struct {
	Keyword   lexer.Token
	Condition Expr
	Body      Stmt
}

func (w *WhileStmt) Pos() lexer.Position { return w.Keyword.Position }
func (w *WhileStmt) End() lexer.Position { return w.Body.End() }
func (w *WhileStmt) stmtNode()           {}
func (w *WhileStmt) Accept(v Visitor) error {
	return v.VisitWhileStmt(w)
}

// Param is a function parameter with an optional type annotation. The
// annotation is recorded but never checked.
type Param struct {
	Name lexer.Token
	Type *lexer.Token
}

// FunctionStmt is `fn name(params) { body }`.
type FunctionStmt struct {
	Keyword lexer.Token
	Name    lexer.Token
	Params  []Param
	Body    *BlockStmt
}

func (f *FunctionStmt) Pos() lexer.Position { return f.Keyword.Position }
func (f *FunctionStmt) End() lexer.Position { return f.Body.End() }
func (f *FunctionStmt) stmtNode()           {}
func (f *FunctionStmt) Accept(v Visitor) error {
	return v.VisitFunctionStmt(f)
}

// ReturnStmt is `return;` or `return value;`.
type ReturnStmt struct {
	Keyword lexer.Token
	Value   Expr
}

func (r *ReturnStmt) Pos() lexer.Position { return r.Keyword.Position }
func (r *ReturnStmt) End() lexer.Position {
	if r.Value != nil {
		return r.Value.End()
	}
	return tokenEnd(r.Keyword)
}
func (r *ReturnStmt) stmtNode() {}
func (r *ReturnStmt) Accept(v Visitor) error {
	return v.VisitReturnStmt(r)
}

// BreakStmt is `break;`.
type BreakStmt struct {
	Keyword lexer.Token
}

func (b *BreakStmt) Pos() lexer.Position { return b.Keyword.Position }
func (b *BreakStmt) End() lexer.Position { return tokenEnd(b.Keyword) }
func (b *BreakStmt) stmtNode()           {}
func (b *BreakStmt) Accept(v Visitor) error {
	return v.VisitBreakStmt(b)
}

// ContinueStmt is `continue;`.
type ContinueStmt struct {
	Keyword lexer.Token
}

func (c *ContinueStmt) Pos() lexer.Position { return c.Keyword.Position }
func (c *ContinueStmt) End() lexer.Position { return tokenEnd(c.Keyword) }
func (c *ContinueStmt) stmtNode()           {}
func (c *ContinueStmt) Accept(v Visitor) error {
	return v.VisitContinueStmt(c)
}

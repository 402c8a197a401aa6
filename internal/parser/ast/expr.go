package ast

import (
	"github.com/hassan/cpl/internal/lexer"
)

// BinaryExpr is an arithmetic or comparison operation: a + b, x <= y.
type BinaryExpr struct {
	Left     Expr
	Operator lexer.Token
	Right    Expr
}

func (b *BinaryExpr) Pos() lexer.Position { return b.Left.Pos() }
func (b *BinaryExpr) End() lexer.Position { return b.Right.End() }
func (b *BinaryExpr) exprNode()           {}
func (b *BinaryExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitBinaryExpr(b)
}

// LogicalExpr is an `and` or `or` expression. It is kept apart from
// BinaryExpr because its right operand is only evaluated conditionally.
type LogicalExpr struct {
	Left     Expr
	Operator lexer.Token
	Right    Expr
}

func (l *LogicalExpr) Pos() lexer.Position { return l.Left.Pos() }
func (l *LogicalExpr) End() lexer.Position { return l.Right.End() }
func (l *LogicalExpr) exprNode()           {}
func (l *LogicalExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitLogicalExpr(l)
}

// GroupingExpr is a parenthesized expression. It is the only node that
// renders with parentheses.
type GroupingExpr struct {
	LeftParen  lexer.Token
	Expression Expr
	RightParen lexer.Token
}

func (g *GroupingExpr) Pos() lexer.Position { return g.LeftParen.Position }
func (g *GroupingExpr) End() lexer.Position { return tokenEnd(g.RightParen) }
func (g *GroupingExpr) exprNode()           {}
func (g *GroupingExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitGroupingExpr(g)
}

// LiteralExpr is a string, number, boolean or nil literal.
type LiteralExpr struct {
	Token lexer.Token
	Value Literal
}

func (l *LiteralExpr) Pos() lexer.Position { return l.Token.Position }
func (l *LiteralExpr) End() lexer.Position { return tokenEnd(l.Token) }
func (l *LiteralExpr) exprNode()           {}
func (l *LiteralExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitLiteralExpr(l)
}

// UnaryExpr is a prefix `!` or `-`.
type UnaryExpr struct {
	Operator lexer.Token
	Operand  Expr
}

func (u *UnaryExpr) Pos() lexer.Position { return u.Operator.Position }
func (u *UnaryExpr) End() lexer.Position { return u.Operand.End() }
func (u *UnaryExpr) exprNode()           {}
func (u *UnaryExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitUnaryExpr(u)
}

// VariableExpr is a reference to a named variable.
type VariableExpr struct {
	Name lexer.Token
}

func (e *VariableExpr) Pos() lexer.Position { return e.Name.Position }
func (e *VariableExpr) End() lexer.Position { return tokenEnd(e.Name) }
func (e *VariableExpr) exprNode()           {}
func (e *VariableExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitVariableExpr(e)
}

// AssignExpr stores Value into the variable Name. Only plain variables are
// assignable.
type AssignExpr struct {
	Name  lexer.Token
	Value Expr
}

func (a *AssignExpr) Pos() lexer.Position { return a.Name.Position }
func (a *AssignExpr) End() lexer.Position { return a.Value.End() }
func (a *AssignExpr) exprNode()           {}
func (a *AssignExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitAssignExpr(a)
}

// CallExpr is a call such as f(a, b). Paren is the closing parenthesis,
// which is where arity problems would be reported.
type CallExpr struct {
	Callee Expr
	Paren  lexer.Token
	Args   []Expr
}

func (c *CallExpr) Pos() lexer.Position { return c.Callee.Pos() }
func (c *CallExpr) End() lexer.Position { return tokenEnd(c.Paren) }
func (c *CallExpr) exprNode()           {}
func (c *CallExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitCallExpr(c)
}

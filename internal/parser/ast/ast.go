// Package ast defines the syntax tree produced by the parser.
//
// Expressions and statements are closed sets: each is an interface with an
// unexported marker method, so only the node types in this package satisfy
// it. Consumers dispatch through Visitor, which names every node type; a new
// node kind is a compile error in every visitor until it is handled.
//
// The tree is strictly owned: a node's children belong to it alone, and no
// node is shared between two parents.
package ast

import (
	"github.com/hassan/cpl/internal/lexer"
)

// Node is implemented by every expression and statement.
type Node interface {
	// Pos returns the position of the node's first token.
	Pos() lexer.Position

	// End returns the position just past the node's last token.
	End() lexer.Position
}

// Expr is an expression node. Accept returns whatever the visitor computes
// for the node.
type Expr interface {
	Node
	Accept(v Visitor) (interface{}, error)
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	Accept(v Visitor) error
	stmtNode()
}

// Visitor walks the tree. Expression methods return a value; statement
// methods only report an error.
type Visitor interface {
	VisitBinaryExpr(expr *BinaryExpr) (interface{}, error)
	VisitLogicalExpr(expr *LogicalExpr) (interface{}, error)
	VisitGroupingExpr(expr *GroupingExpr) (interface{}, error)
	VisitLiteralExpr(expr *LiteralExpr) (interface{}, error)
	VisitUnaryExpr(expr *UnaryExpr) (interface{}, error)
	VisitVariableExpr(expr *VariableExpr) (interface{}, error)
	VisitAssignExpr(expr *AssignExpr) (interface{}, error)
	VisitCallExpr(expr *CallExpr) (interface{}, error)

	VisitExprStmt(stmt *ExprStmt) error
	VisitPrintStmt(stmt *PrintStmt) error
	VisitLetStmt(stmt *LetStmt) error
	VisitBlockStmt(stmt *BlockStmt) error
	VisitIfStmt(stmt *IfStmt) error
	VisitWhileStmt(stmt *WhileStmt) error
	VisitFunctionStmt(stmt *FunctionStmt) error
	VisitReturnStmt(stmt *ReturnStmt) error
	VisitBreakStmt(stmt *BreakStmt) error
	VisitContinueStmt(stmt *ContinueStmt) error
}

// Program is the parsed form of one source text.
type Program struct {
	Filename   string
	Statements []Stmt
}

// tokenEnd returns the position just past tok.
func tokenEnd(tok lexer.Token) lexer.Position {
	return tok.Span().End
}

package semantic

import (
	"fmt"

	"github.com/hassan/cpl/internal/diag"
	"github.com/hassan/cpl/internal/parser/ast"
)

// Expression visitors return no value; only the error matters.

func (a *Analyzer) VisitBinaryExpr(expr *ast.BinaryExpr) (interface{}, error) {
	return a.both(expr.Left, expr.Right)
}

func (a *Analyzer) VisitLogicalExpr(expr *ast.LogicalExpr) (interface{}, error) {
	return a.both(expr.Left, expr.Right)
}

func (a *Analyzer) VisitGroupingExpr(expr *ast.GroupingExpr) (interface{}, error) {
	return expr.Expression.Accept(a)
}

func (a *Analyzer) VisitLiteralExpr(*ast.LiteralExpr) (interface{}, error) {
	return nil, nil
}

func (a *Analyzer) VisitUnaryExpr(expr *ast.UnaryExpr) (interface{}, error) {
	return expr.Operand.Accept(a)
}

// VisitVariableExpr resolves a read from the innermost scope outward.
func (a *Analyzer) VisitVariableExpr(expr *ast.VariableExpr) (interface{}, error) {
	name := expr.Name.Lexeme
	symbol := a.currentScope.Lookup(name)
	switch {
	case symbol == nil:
		return nil, a.error(expr.Name, diag.UndefinedVariable,
			fmt.Sprintf("Variable '%s' is not defined.", name))
	case !symbol.Initialized:
		return nil, a.error(expr.Name, diag.UninitializedVariable,
			fmt.Sprintf("Variable '%s' is used before being initialized.", name))
	}
	return nil, nil
}

// VisitAssignExpr checks the value, then the target. Assignment never
// declares: the target must already be bound. A successful assignment
// initializes the variable.
func (a *Analyzer) VisitAssignExpr(expr *ast.AssignExpr) (interface{}, error) {
	if _, err := expr.Value.Accept(a); err != nil {
		return nil, err
	}

	name := expr.Name.Lexeme
	symbol := a.currentScope.Resolve(name)
	if symbol == nil {
		return nil, a.error(expr.Name, diag.UndefinedVariable,
			fmt.Sprintf("Variable '%s' is not defined.", name))
	}
	symbol.MarkInitialized()
	return nil, nil
}

func (a *Analyzer) VisitCallExpr(expr *ast.CallExpr) (interface{}, error) {
	if _, err := expr.Callee.Accept(a); err != nil {
		return nil, err
	}
	for _, arg := range expr.Args {
		if _, err := arg.Accept(a); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (a *Analyzer) both(left, right ast.Expr) (interface{}, error) {
	if _, err := left.Accept(a); err != nil {
		return nil, err
	}
	return right.Accept(a)
}

package ast

import (
	"strings"
)

const indentUnit = "    "

// Format renders statements as canonical CPL source, one top-level
// statement per line. Parsing the output again yields a tree equal to the
// input: parentheses are printed only for GroupingExpr, and every other node
// prints in the shape the parser builds it from.
func Format(stmts []Stmt) string {
	p := &printer{}
	for _, s := range stmts {
		p.stmt(s)
		p.b.WriteByte('\n')
	}
	return p.b.String()
}

// FormatExpr renders a single expression.
func FormatExpr(e Expr) string {
	p := &printer{}
	return p.expr(e)
}

// printer renders statements into b. Statement methods write the node
// without leading indentation or trailing newline; blocks indent their
// children by one level.
type printer struct {
	b     strings.Builder
	depth int
}

func (p *printer) stmt(s Stmt) {
	_ = s.Accept(p)
}

func (p *printer) expr(e Expr) string {
	v, _ := e.Accept(p)
	s, _ := v.(string)
	return s
}

func (p *printer) newline() {
	p.b.WriteByte('\n')
	p.b.WriteString(strings.Repeat(indentUnit, p.depth))
}

func (p *printer) VisitBinaryExpr(e *BinaryExpr) (interface{}, error) {
	return p.expr(e.Left) + " " + e.Operator.Lexeme + " " + p.expr(e.Right), nil
}

func (p *printer) VisitLogicalExpr(e *LogicalExpr) (interface{}, error) {
	return p.expr(e.Left) + " " + e.Operator.Lexeme + " " + p.expr(e.Right), nil
}

func (p *printer) VisitGroupingExpr(e *GroupingExpr) (interface{}, error) {
	return "(" + p.expr(e.Expression) + ")", nil
}

func (p *printer) VisitLiteralExpr(e *LiteralExpr) (interface{}, error) {
	return e.Value.Source(), nil
}

func (p *printer) VisitUnaryExpr(e *UnaryExpr) (interface{}, error) {
	return e.Operator.Lexeme + p.expr(e.Operand), nil
}

func (p *printer) VisitVariableExpr(e *VariableExpr) (interface{}, error) {
	return e.Name.Lexeme, nil
}

func (p *printer) VisitAssignExpr(e *AssignExpr) (interface{}, error) {
	return e.Name.Lexeme + " = " + p.expr(e.Value), nil
}

func (p *printer) VisitCallExpr(e *CallExpr) (interface{}, error) {
	args := make([]string, len(e.Args))
	for i, arg := range e.Args {
		args[i] = p.expr(arg)
	}
	return p.expr(e.Callee) + "(" + strings.Join(args, ", ") + ")", nil
}

func (p *printer) VisitExprStmt(s *ExprStmt) error {
	p.b.WriteString(p.expr(s.Expression))
	p.b.WriteByte(';')
	return nil
}

func (p *printer) VisitPrintStmt(s *PrintStmt) error {
	p.b.WriteString("print ")
	p.b.WriteString(p.expr(s.Expression))
	p.b.WriteByte(';')
	return nil
}

func (p *printer) VisitLetStmt(s *LetStmt) error {
	p.b.WriteString("let ")
	p.b.WriteString(s.Name.Lexeme)
	if s.Initializer != nil {
		p.b.WriteString(" = ")
		p.b.WriteString(p.expr(s.Initializer))
	}
	p.b.WriteByte(';')
	return nil
}

func (p *printer) VisitBlockStmt(s *BlockStmt) error {
	if len(s.Statements) == 0 {
		p.b.WriteString("{}")
		return nil
	}
	p.b.WriteByte('{')
	p.depth++
	for _, inner := range s.Statements {
		p.newline()
		p.stmt(inner)
	}
	p.depth--
	p.newline()
	p.b.WriteByte('}')
	return nil
}

func (p *printer) VisitIfStmt(s *IfStmt) error {
	p.b.WriteString("if (")
	p.b.WriteString(p.expr(s.Condition))
	p.b.WriteString(") ")
	p.stmt(s.ThenBranch)
	if s.ElseBranch != nil {
		p.b.WriteString(" else ")
		p.stmt(s.ElseBranch)
	}
	return nil
}

func (p *printer) VisitWhileStmt(s *WhileStmt) error {
	p.b.WriteString("while (")
	p.b.WriteString(p.expr(s.Condition))
	p.b.WriteString(") ")
	p.stmt(s.Body)
	return nil
}

func (p *printer) VisitFunctionStmt(s *FunctionStmt) error {
	p.b.WriteString("fn ")
	p.b.WriteString(s.Name.Lexeme)
	p.b.WriteByte('(')
	for i, param := range s.Params {
		if i > 0 {
			p.b.WriteString(", ")
		}
		p.b.WriteString(param.Name.Lexeme)
		if param.Type != nil {
			p.b.WriteString(": ")
			p.b.WriteString(param.Type.Lexeme)
		}
	}
	p.b.WriteString(") ")
	p.stmt(s.Body)
	return nil
}

func (p *printer) VisitReturnStmt(s *ReturnStmt) error {
	p.b.WriteString("return")
	if s.Value != nil {
		p.b.WriteByte(' ')
		p.b.WriteString(p.expr(s.Value))
	}
	p.b.WriteByte(';')
	return nil
}

func (p *printer) VisitBreakStmt(*BreakStmt) error {
	p.b.WriteString("break;")
	return nil
}

func (p *printer) VisitContinueStmt(*ContinueStmt) error {
	p.b.WriteString("continue;")
	return nil
}

package ast

// Tree converts statements into a position-free structure of maps and
// slices. Two trees are equal exactly when the programs have the same
// shape, operators, names and literal values, which makes Tree the basis
// for structural comparison and for YAML output.
func Tree(stmts []Stmt) []interface{} {
	out := make([]interface{}, len(stmts))
	for i, s := range stmts {
		out[i] = StmtTree(s)
	}
	return out
}

// StmtTree converts one statement. A nil statement becomes nil.
func StmtTree(s Stmt) interface{} {
	switch s := s.(type) {
	case nil:
		return nil
	case *ExprStmt:
		return node("expression", "expr", ExprTree(s.Expression))
	case *PrintStmt:
		return node("print", "expr", ExprTree(s.Expression))
	case *LetStmt:
		n := node("let", "name", s.Name.Lexeme)
		if s.Initializer != nil {
			n["initializer"] = ExprTree(s.Initializer)
		}
		return n
	case *BlockStmt:
		return node("block", "statements", Tree(s.Statements))
	case *IfStmt:
		n := node("if", "condition", ExprTree(s.Condition), "then", StmtTree(s.ThenBranch))
		if s.ElseBranch != nil {
			n["else"] = StmtTree(s.ElseBranch)
		}
		return n
	case *WhileStmt:
		return node("while", "condition", ExprTree(s.Condition), "body", StmtTree(s.Body))
	case *FunctionStmt:
		params := make([]interface{}, len(s.Params))
		for i, p := range s.Params {
			param := map[string]interface{}{"name": p.Name.Lexeme}
			if p.Type != nil {
				param["type"] = p.Type.Lexeme
			}
			params[i] = param
		}
		return node("function", "name", s.Name.Lexeme, "params", params, "body", StmtTree(s.Body))
	case *ReturnStmt:
		n := node("return")
		if s.Value != nil {
			n["value"] = ExprTree(s.Value)
		}
		return n
	case *BreakStmt:
		return node("break")
	case *ContinueStmt:
		return node("continue")
	}
	panic("ast: unknown statement type")
}

// ExprTree converts one expression. A nil expression becomes nil.
func ExprTree(e Expr) interface{} {
	switch e := e.(type) {
	case nil:
		return nil
	case *BinaryExpr:
		return node("binary", "operator", e.Operator.Lexeme, "left", ExprTree(e.Left), "right", ExprTree(e.Right))
	case *LogicalExpr:
		return node("logical", "operator", e.Operator.Lexeme, "left", ExprTree(e.Left), "right", ExprTree(e.Right))
	case *GroupingExpr:
		return node("grouping", "expr", ExprTree(e.Expression))
	case *LiteralExpr:
		return node("literal", "value", Interface(e.Value))
	case *UnaryExpr:
		return node("unary", "operator", e.Operator.Lexeme, "operand", ExprTree(e.Operand))
	case *VariableExpr:
		return node("variable", "name", e.Name.Lexeme)
	case *AssignExpr:
		return node("assign", "name", e.Name.Lexeme, "value", ExprTree(e.Value))
	case *CallExpr:
		args := make([]interface{}, len(e.Args))
		for i, a := range e.Args {
			args[i] = ExprTree(a)
		}
		return node("call", "callee", ExprTree(e.Callee), "args", args)
	}
	panic("ast: unknown expression type")
}

func node(kind string, kv ...interface{}) map[string]interface{} {
	n := map[string]interface{}{"kind": kind}
	for i := 0; i+1 < len(kv); i += 2 {
		n[kv[i].(string)] = kv[i+1]
	}
	return n
}

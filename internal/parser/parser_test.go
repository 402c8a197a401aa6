package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-test/deep"

	"github.com/hassan/cpl/internal/diag"
	"github.com/hassan/cpl/internal/lexer"
	"github.com/hassan/cpl/internal/parser/ast"
)

// Tree builders for expected results.

type tree = map[string]interface{}

func num(v float64) tree { return tree{"kind": "literal", "value": v} }
func str(v string) tree { return tree{"kind": "literal", "value": v} }
func boolean(v bool) tree { return tree{"kind": "literal", "value": v} }
func variable(n string) tree { return tree{"kind": "variable", "name": n} }
func grouping(e tree) tree { return tree{"kind": "grouping", "expr": e} }
func exprStmt(e tree) tree { return tree{"kind": "expression", "expr": e} }
func printStmt(e tree) tree { return tree{"kind": "print", "expr": e} }
func block(s ...tree) tree { return tree{"kind": "block", "statements": list(s)} }
func assign(n string, v tree) tree {
	return tree{"kind": "assign", "name": n, "value": v}
}

func binary(op string, l, r tree) tree {
	return tree{"kind": "binary", "operator": op, "left": l, "right": r}
}

func logical(op string, l, r tree) tree {
	return tree{"kind": "logical", "operator": op, "left": l, "right": r}
}

func unary(op string, e tree) tree {
	return tree{"kind": "unary", "operator": op, "operand": e}
}

func call(callee tree, args ...tree) tree {
	return tree{"kind": "call", "callee": callee, "args": list(args)}
}

func let(name string, init tree) tree {
	t := tree{"kind": "let", "name": name}
	if init != nil {
		t["initializer"] = init
	}
	return t
}

func while(cond, body tree) tree {
	return tree{"kind": "while", "condition": cond, "body": body}
}

func list(items []tree) []interface{} {
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

func mustParse(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	stmts, diags := ParseSource(source)
	if len(diags) != 0 {
		t.Fatalf("ParseSource(%q) diagnostics: %v", source, diags)
	}
	return stmts
}

func TestParse_LetWithPrecedence(t *testing.T) {
	stmts := mustParse(t, "let x = 1 + 2 * 3;")

	want := []interface{}{
		let("x", binary("+", num(1), binary("*", num(2), num(3)))),
	}
	if diff := deep.Equal(ast.Tree(stmts), want); diff != nil {
		t.Error(diff)
	}
}

func TestParse_Expressions(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   tree
	}{
		{"left associative", "1 - 2 - 3;", binary("-", binary("-", num(1), num(2)), num(3))},
		{"factor before term", "a * b + c / d;", binary("+", binary("*", variable("a"), variable("b")), binary("/", variable("c"), variable("d")))},
		{"grouping", "(1 + 2) * 3;", binary("*", grouping(binary("+", num(1), num(2))), num(3))},
		{"comparison before equality", "a < b == c >= d;", binary("==", binary("<", variable("a"), variable("b")), binary(">=", variable("c"), variable("d")))},
		{"not equal", "a != nil;", binary("!=", variable("a"), tree{"kind": "literal", "value": nil})},
		{"unary nests to the right", "!!true;", unary("!", unary("!", boolean(true)))},
		{"unary binds tighter than factor", "-a * b;", binary("*", unary("-", variable("a")), variable("b"))},
		{"and before or", "a or b and c;", logical("or", variable("a"), logical("and", variable("b"), variable("c")))},
		{"or is left associative", "a or b or c;", logical("or", logical("or", variable("a"), variable("b")), variable("c"))},
		{"equality inside and", "a == 1 and b;", logical("and", binary("==", variable("a"), num(1)), variable("b"))},
		{"assignment is right associative", "a = b = 1;", assign("a", assign("b", num(1)))},
		{"assignment takes a full expression", "a = b or c;", assign("a", logical("or", variable("b"), variable("c")))},
		{"string literal", `"hi there";`, str("hi there")},
		{"call without arguments", "f();", call(variable("f"))},
		{"chained calls", "f(1)(2, x);", call(call(variable("f"), num(1)), num(2), variable("x"))},
		{"call in arithmetic", "1 + f(a = 2);", binary("+", num(1), call(variable("f"), assign("a", num(2))))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts := mustParse(t, tt.source)
			if len(stmts) != 1 {
				t.Fatalf("got %d statements, want 1", len(stmts))
			}
			if diff := deep.Equal(ast.StmtTree(stmts[0]), exprStmt(tt.want)); diff != nil {
				t.Error(diff)
			}
		})
	}
}

func TestParse_Statements(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   tree
	}{
		{"print", "print 1;", printStmt(num(1))},
		{"let without initializer", "let x;", let("x", nil)},
		{"empty block", "{}", block()},
		{"nested block", "{ let a = 1; { print a; } }", block(let("a", num(1)), block(printStmt(variable("a"))))},
		{
			"if else",
			"if (a) print 1; else print 2;",
			tree{"kind": "if", "condition": variable("a"), "then": printStmt(num(1)), "else": printStmt(num(2))},
		},
		{
			"dangling else binds to nearest if",
			"if (a) if (b) print 1; else print 2;",
			tree{"kind": "if", "condition": variable("a"), "then": tree{
				"kind": "if", "condition": variable("b"), "then": printStmt(num(1)), "else": printStmt(num(2)),
			}},
		},
		{"while", "while (x < 3) x = x + 1;", while(binary("<", variable("x"), num(3)), exprStmt(assign("x", binary("+", variable("x"), num(1)))))},
		{"break", "while (true) break;", while(boolean(true), tree{"kind": "break"})},
		{"continue", "while (true) { continue; }", while(boolean(true), block(tree{"kind": "continue"}))},
		{"bare return", "return;", tree{"kind": "return"}},
		{"return value", "return a + 1;", tree{"kind": "return", "value": binary("+", variable("a"), num(1))}},
		{
			"function",
			"fn add(a, b: num) { return a + b; }",
			tree{
				"kind": "function",
				"name": "add",
				"params": []interface{}{
					map[string]interface{}{"name": "a"},
					map[string]interface{}{"name": "b", "type": "num"},
				},
				"body": block(tree{"kind": "return", "value": binary("+", variable("a"), variable("b"))}),
			},
		},
		{
			"function without parameters",
			"fn noop() {}",
			tree{"kind": "function", "name": "noop", "params": []interface{}{}, "body": block()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts := mustParse(t, tt.source)
			if len(stmts) != 1 {
				t.Fatalf("got %d statements, want 1", len(stmts))
			}
			if diff := deep.Equal(ast.StmtTree(stmts[0]), tt.want); diff != nil {
				t.Error(diff)
			}
		})
	}
}

func TestParse_ForDesugaring(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   tree
	}{
		{
			"all clauses",
			"for (let i = 0; i < 3; i = i + 1) print i;",
			block(
				let("i", num(0)),
				while(
					binary("<", variable("i"), num(3)),
					block(printStmt(variable("i")), exprStmt(assign("i", binary("+", variable("i"), num(1))))),
				),
			),
		},
		{
			"no clauses",
			"for (;;) print 1;",
			while(boolean(true), printStmt(num(1))),
		},
		{
			"condition only",
			"for (; x;) print x;",
			while(variable("x"), printStmt(variable("x"))),
		},
		{
			"expression initializer",
			"for (i = 0; i < 1;) {}",
			block(exprStmt(assign("i", num(0))), while(binary("<", variable("i"), num(1)), block())),
		},
		{
			"increment without initializer",
			"for (; i < 1; i = i + 1) {}",
			while(binary("<", variable("i"), num(1)), block(block(), exprStmt(assign("i", binary("+", variable("i"), num(1)))))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts := mustParse(t, tt.source)
			if len(stmts) != 1 {
				t.Fatalf("got %d statements, want 1", len(stmts))
			}
			if diff := deep.Equal(ast.StmtTree(stmts[0]), tt.want); diff != nil {
				t.Error(diff)
			}
		})
	}
}

func TestParse_InvalidAssignmentTarget(t *testing.T) {
	tests := []struct {
		name   string
		source string
		column int
	}{
		{"literal target", "1 = 2;", 3},
		{"binary target", "a + b = c;", 7},
		{"grouped variable", "(a) = 1;", 5},
		{"call target", "f() = 1;", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, diags := ParseSource(tt.source)
			if len(diags) != 1 {
				t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
			}
			d := diags[0]
			if d.Code != diag.InvalidAssignmentTarget {
				t.Errorf("Code = %v, want %v", d.Code, diag.InvalidAssignmentTarget)
			}
			if d.Line != 1 || d.Column != tt.column {
				t.Errorf("at %d:%d, want 1:%d", d.Line, d.Column, tt.column)
			}
			if !strings.Contains(d.Message, "Invalid assignment target.") {
				t.Errorf("Message = %q", d.Message)
			}
			// The statement is still complete; the error does not unwind.
			if len(stmts) != 1 {
				t.Errorf("got %d statements, want 1", len(stmts))
			}
		})
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		code     diag.Code
		line     int
		column   int
		message  string
		expected []string
	}{
		{
			name:     "missing semicolon at end",
			source:   "print 1",
			code:     diag.UnexpectedEOF,
			line:     1,
			column:   8,
			message:  "Error at end: Expect ';' after value.",
			expected: []string{"';'"},
		},
		{
			name:     "missing semicolon before statement",
			source:   "print 1\nprint 2;",
			code:     diag.UnexpectedToken,
			line:     2,
			column:   1,
			message:  "Error at 'print': Expect ';' after value.",
			expected: []string{"';'"},
		},
		{
			name:     "missing expression",
			source:   "let x = ;",
			code:     diag.UnexpectedToken,
			line:     1,
			column:   9,
			message:  "Error at ';': Expect expression.",
			expected: []string{"'false'", "'true'", "'nil'", "number", "string", "identifier", "'('"},
		},
		{
			name:     "missing variable name",
			source:   "let 5 = 1;",
			code:     diag.UnexpectedToken,
			line:     1,
			column:   5,
			message:  "Error at '5': Expect variable name.",
			expected: []string{"identifier"},
		},
		{
			name:     "unclosed grouping",
			source:   "print (1 + 2;",
			code:     diag.UnexpectedToken,
			line:     1,
			column:   13,
			message:  "Error at ';': Expect ')' after expression.",
			expected: []string{"')'"},
		},
		{
			name:     "unclosed block",
			source:   "{ print 1;",
			code:     diag.UnexpectedEOF,
			line:     1,
			column:   11,
			message:  "Error at end: Expect '}' after block.",
			expected: []string{"'}'"},
		},
		{
			name:     "if without paren",
			source:   "if x print 1;",
			code:     diag.UnexpectedToken,
			line:     1,
			column:   4,
			message:  "Error at 'x': Expect '(' after 'if'.",
			expected: []string{"'('"},
		},
		{
			name:     "function body without brace",
			source:   "fn f() print 1;",
			code:     diag.UnexpectedToken,
			line:     1,
			column:   8,
			message:  "Error at 'print': Expect '{' before function body.",
			expected: []string{"'{'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := ParseSource(tt.source, WithRecovery(false))
			if len(diags) != 1 {
				t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
			}
			d := diags[0]
			if d.Code != tt.code {
				t.Errorf("Code = %v, want %v", d.Code, tt.code)
			}
			if d.Line != tt.line || d.Column != tt.column {
				t.Errorf("at %d:%d, want %d:%d", d.Line, d.Column, tt.line, tt.column)
			}
			if d.Message != tt.message {
				t.Errorf("Message = %q, want %q", d.Message, tt.message)
			}
			if diff := deep.Equal(d.Expected, tt.expected); diff != nil {
				t.Errorf("Expected: %v", diff)
			}
			if d.Stage != diag.StageParse {
				t.Errorf("Stage = %v, want parse", d.Stage)
			}
		})
	}
}

func TestParse_RecoveryPolicy(t *testing.T) {
	source := "let = 1;\nprint ;\nprint 3;\n{ let 4; print 5; }\nprint 6;"

	t.Run("stop at first error", func(t *testing.T) {
		stmts, diags := ParseSource(source, WithRecovery(false))
		if len(diags) != 1 {
			t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
		}
		if diags[0].Line != 1 {
			t.Errorf("first diagnostic on line %d, want 1", diags[0].Line)
		}
		if len(stmts) != 0 {
			t.Errorf("got %d statements, want 0", len(stmts))
		}
	})

	t.Run("synchronize and continue", func(t *testing.T) {
		stmts, diags := ParseSource(source)
		if len(diags) != 3 {
			t.Fatalf("got %d diagnostics, want 3: %v", len(diags), diags)
		}
		for i, line := range []int{1, 2, 4} {
			if diags[i].Line != line {
				t.Errorf("diagnostic %d on line %d, want %d", i, diags[i].Line, line)
			}
		}
		want := []interface{}{
			printStmt(num(3)),
			block(printStmt(num(5))),
			printStmt(num(6)),
		}
		if diff := deep.Equal(ast.Tree(stmts), want); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("error limit", func(t *testing.T) {
		_, diags := ParseSource(source, WithMaxErrors(2))
		if len(diags) != 2 {
			t.Errorf("got %d diagnostics, want 2: %v", len(diags), diags)
		}
	})

	t.Run("stop inside nested block", func(t *testing.T) {
		stmts, diags := ParseSource("{ { print ; } print 1; }\nprint 2;", WithRecovery(false))
		if len(diags) != 1 || len(stmts) != 0 {
			t.Errorf("got %d statements and %d diagnostics, want 0 and 1", len(stmts), len(diags))
		}
	})
}

func TestParse_RecoveryStopsAtClosingBrace(t *testing.T) {
	stmts, diags := ParseSource("{ print 1 + }\nprint 2;")
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	want := []interface{}{block(), printStmt(num(2))}
	if diff := deep.Equal(ast.Tree(stmts), want); diff != nil {
		t.Error(diff)
	}
}

func TestParse_RecoveryAtTopLevelSkipsBraces(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []interface{}
	}{
		{"bad parameter list", "fn f(a,) {}", []interface{}{}},
		{"bad parameter list then statement", "fn f(a,) { a }\nprint 2;", []interface{}{printStmt(num(2))}},
		{"stray brace after error", "let x = ) }\nprint 2;", []interface{}{printStmt(num(2))}},
		{"error inside block keeps the block", "{ print 1 + }\nprint 2;", []interface{}{block(), printStmt(num(2))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, diags := ParseSource(tt.source)
			if len(diags) != 1 {
				t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
			}
			if diff := deep.Equal(ast.Tree(stmts), tt.want); diff != nil {
				t.Error(diff)
			}
		})
	}
}

func TestParse_TooManyArguments(t *testing.T) {
	tests := []struct {
		name  string
		count int
		diags int
	}{
		{"at the limit", MaxArgs, 0},
		{"one over", MaxArgs + 1, 1},
		{"two over", MaxArgs + 2, 1},
		{"far over", 300, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := make([]string, tt.count)
			for i := range args {
				args[i] = "1"
			}
			stmts, diags := ParseSource("f(" + strings.Join(args, ", ") + ");\nprint 2;")
			if len(diags) != tt.diags {
				t.Fatalf("got %d diagnostics, want %d: %v", len(diags), tt.diags, diags)
			}
			if tt.diags > 0 {
				if diags[0].Code != diag.TooManyArguments {
					t.Errorf("Code = %v, want %v", diags[0].Code, diag.TooManyArguments)
				}
				// Reported at the first argument past the limit.
				if want := 3 + 3*MaxArgs; diags[0].Column != want {
					t.Errorf("Column = %d, want %d", diags[0].Column, want)
				}
			}
			if len(stmts) != 2 {
				t.Fatalf("got %d statements, want 2", len(stmts))
			}
			callExpr := stmts[0].(*ast.ExprStmt).Expression.(*ast.CallExpr)
			if len(callExpr.Args) != tt.count {
				t.Errorf("got %d arguments, want %d", len(callExpr.Args), tt.count)
			}
		})
	}
}

func TestParse_TooManyParameters(t *testing.T) {
	tests := []struct {
		name  string
		count int
		diags int
	}{
		{"at the limit", MaxArgs, 0},
		{"one over", MaxArgs + 1, 1},
		{"far over", 300, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := make([]string, tt.count)
			for i := range params {
				params[i] = fmt.Sprintf("p%d", i)
			}
			stmts, diags := ParseSource("fn f(" + strings.Join(params, ", ") + ") {}")
			if len(diags) != tt.diags {
				t.Fatalf("got %d diagnostics, want %d: %v", len(diags), tt.diags, diags)
			}
			if tt.diags > 0 && diags[0].Code != diag.TooManyParameters {
				t.Errorf("Code = %v, want %v", diags[0].Code, diag.TooManyParameters)
			}
			if fn := stmts[0].(*ast.FunctionStmt); len(fn.Params) != tt.count {
				t.Errorf("got %d parameters, want %d", len(fn.Params), tt.count)
			}
		})
	}
}

func TestParse_Positions(t *testing.T) {
	stmts := mustParse(t, "let total =\n  count * 2;")

	letStmt := stmts[0].(*ast.LetStmt)
	if letStmt.Name.Position.Line != 1 || letStmt.Name.Position.Column != 5 {
		t.Errorf("name at %v, want 1:5", letStmt.Name.Position)
	}
	bin := letStmt.Initializer.(*ast.BinaryExpr)
	if got := bin.Pos(); got.Line != 2 || got.Column != 3 {
		t.Errorf("Pos() = %v, want 2:3", got)
	}
	if got := bin.End(); got.Line != 2 || got.Column != 12 {
		t.Errorf("End() = %v, want 2:12", got)
	}
	if got := bin.Operator.Position; got.Column != 9 {
		t.Errorf("operator column = %d, want 9", got.Column)
	}
}

func TestNew_AddsMissingEOF(t *testing.T) {
	tokens := lexer.Tokenize("print 1;")
	withoutEOF := tokens[:len(tokens)-1]

	stmts, diags := New(withoutEOF).Parse()
	if len(diags) != 0 || len(stmts) != 1 {
		t.Errorf("got %d statements and %v", len(stmts), diags)
	}

	stmts, diags = New(nil).Parse()
	if len(diags) != 0 || len(stmts) != 0 {
		t.Errorf("empty input: got %d statements and %v", len(stmts), diags)
	}
}

func TestParseSource_IncludesLexDiagnostics(t *testing.T) {
	stmts, diags := ParseSource("print 1 @;")
	if len(diags) != 1 || diags[0].Code != diag.UnexpectedCharacter {
		t.Fatalf("diagnostics = %v, want one unexpected-character", diags)
	}
	if len(stmts) != 1 {
		t.Errorf("got %d statements, want 1", len(stmts))
	}
}

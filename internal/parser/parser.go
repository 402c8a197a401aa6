// Package parser builds a syntax tree from CPL tokens.
//
// Statements are parsed by recursive descent. Binary operators from `or`
// down to factor are parsed by precedence climbing over the table in
// precedence.go; assignment, unary and call sit above and below that loop as
// ordinary recursive functions.
package parser

import (
	"fmt"

	"github.com/hassan/cpl/internal/diag"
	"github.com/hassan/cpl/internal/lexer"
	"github.com/hassan/cpl/internal/parser/ast"
)

// MaxArgs caps the number of arguments in a call and parameters in a
// function declaration.
const MaxArgs = 255

// bailout unwinds the parser to the nearest declaration boundary after a
// syntax error. It never escapes the package.
type bailout struct{}

// Option configures a Parser.
type Option func(*Parser)

// WithRecovery controls what happens after a syntax error. With recovery
// the parser skips to the next statement boundary and keeps collecting
// diagnostics; without it, parsing stops after the statement that produced
// the first diagnostic. Recovery is on by default.
func WithRecovery(enabled bool) Option {
	return func(p *Parser) { p.recovery = enabled }
}

// WithMaxErrors stops parsing once n diagnostics have been recorded. Zero
// means no limit.
func WithMaxErrors(n int) Option {
	return func(p *Parser) { p.maxErrors = n }
}

// Parser consumes a token slice and produces statements.
//
// DESIGN CHOICE: The parser works on a token slice rather than pulling from
// the lexer because:
// - lexical and syntax diagnostics are collected in separate passes
// - recovery can look back at the previous token
//
// DESIGN CHOICE: A syntax error panics with bailout and declaration recovers
// it because:
// - the error can be raised at any depth of the descent
// - declarations are the unit that recovery skips to
type Parser struct {
	tokens  []lexer.Token
	current int

	diagnostics diag.List
	recovery    bool
	maxErrors   int

	// nesting counts active declaration frames so that a stop request can
	// unwind all of them, and halted records that request.
	nesting int
	halted  bool
}

// New creates a parser over tokens. A trailing TokenEOF is added if the
// slice does not end with one.
func New(tokens []lexer.Token, opts ...Option) *Parser {
	if n := len(tokens); n == 0 || tokens[n-1].Type != lexer.TokenEOF {
		eof := lexer.Token{Type: lexer.TokenEOF, Position: lexer.Position{Line: 1, Column: 1}}
		if n > 0 {
			eof.Position = tokens[n-1].Span().End
		}
		tokens = append(tokens[:n:n], eof)
	}

	p := &Parser{
		tokens:   tokens,
		recovery: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseSource scans and parses source with default options. Lexical and
// syntax diagnostics are returned together, in that order.
func ParseSource(source string, opts ...Option) ([]ast.Stmt, diag.List) {
	tokens, lexDiags := lexer.New(source, "").ScanTokens()
	stmts, parseDiags := New(tokens, opts...).Parse()
	return stmts, append(lexDiags, parseDiags...)
}

// Parse parses every statement in the token stream. It returns the
// statements it managed to build along with all diagnostics; the parse
// succeeded when the diagnostic list is empty.
func (p *Parser) Parse() ([]ast.Stmt, diag.List) {
	var stmts []ast.Stmt
	for !p.isAtEnd() && !p.halted {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		if !p.recovery && len(p.diagnostics) > 0 {
			break
		}
	}
	return stmts, p.diagnostics
}

// Declarations

func (p *Parser) declaration() (stmt ast.Stmt) {
	p.nesting++
	defer func() {
		p.nesting--
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(bailout); !ok {
			panic(r)
		}
		if !p.recovery || p.errorLimitReached() {
			p.halted = true
		}
		if p.halted {
			if p.nesting > 0 {
				panic(r)
			}
		} else {
			p.synchronize()
		}
		stmt = nil
	}()

	switch {
	case p.match(lexer.TokenFn):
		return p.function()
	case p.match(lexer.TokenLet):
		return p.letDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) function() *ast.FunctionStmt {
	keyword := p.previous()
	name := p.consume(lexer.TokenIdentifier, "Expect function name.")
	p.consume(lexer.TokenLeftParen, "Expect '(' after function name.")

	var params []ast.Param
	if !p.check(lexer.TokenRightParen) {
		for {
			if len(params) == MaxArgs {
				p.report(p.peek(), diag.TooManyParameters,
					fmt.Sprintf("Cannot have more than %d parameters.", MaxArgs))
			}
			param := ast.Param{Name: p.consume(lexer.TokenIdentifier, "Expect parameter name.")}
			if p.match(lexer.TokenColon) {
				typ := p.consume(lexer.TokenIdentifier, "Expect parameter type after ':'.")
				param.Type = &typ
			}
			params = append(params, param)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.consume(lexer.TokenRightParen, "Expect ')' after parameters.")

	lbrace := p.consume(lexer.TokenLeftBrace, "Expect '{' before function body.")
	return &ast.FunctionStmt{
		Keyword: keyword,
		Name:    name,
		Params:  params,
		Body:    p.block(lbrace),
	}
}

func (p *Parser) letDeclaration() *ast.LetStmt {
	keyword := p.previous()
	name := p.consume(lexer.TokenIdentifier, "Expect variable name.")

	var initializer ast.Expr
	if p.match(lexer.TokenAssign) {
		initializer = p.expression()
	}
	p.consume(lexer.TokenSemicolon, "Expect ';' after variable declaration.")

	return &ast.LetStmt{Keyword: keyword, Name: name, Initializer: initializer}
}

// Statements

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(lexer.TokenFor):
		return p.forStatement()
	case p.match(lexer.TokenIf):
		return p.ifStatement()
	case p.match(lexer.TokenPrint):
		return p.printStatement()
	case p.match(lexer.TokenReturn):
		return p.returnStatement()
	case p.match(lexer.TokenWhile):
		return p.whileStatement()
	case p.match(lexer.TokenBreak):
		keyword := p.previous()
		p.consume(lexer.TokenSemicolon, "Expect ';' after 'break'.")
		return &ast.BreakStmt{Keyword: keyword}
	case p.match(lexer.TokenContinue):
		keyword := p.previous()
		p.consume(lexer.TokenSemicolon, "Expect ';' after 'continue'.")
		return &ast.ContinueStmt{Keyword: keyword}
	case p.match(lexer.TokenLeftBrace):
		return p.block(p.previous())
	default:
		return p.expressionStatement()
	}
}

// block parses statements up to the closing brace. The opening brace has
// already been consumed.
func (p *Parser) block(lbrace lexer.Token) *ast.BlockStmt {
	var stmts []ast.Stmt
	for !p.check(lexer.TokenRightBrace) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	rbrace := p.consume(lexer.TokenRightBrace, "Expect '}' after block.")
	return &ast.BlockStmt{LeftBrace: lbrace, Statements: stmts, RightBrace: rbrace}
}

// forStatement parses a for loop and rewrites it as
//
//	{ init; while (cond) { body; incr; } }
//
// The outer block is only built when there is an initializer and the inner
// one only when there is an increment. A missing condition becomes `true`.
func (p *Parser) forStatement() ast.Stmt {
	keyword := p.previous()
	p.consume(lexer.TokenLeftParen, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(lexer.TokenSemicolon):
	case p.match(lexer.TokenLet):
		initializer = p.letDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expr
	if !p.check(lexer.TokenSemicolon) {
		condition = p.expression()
	}
	p.consume(lexer.TokenSemicolon, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(lexer.TokenRightParen) {
		increment = p.expression()
	}
	p.consume(lexer.TokenRightParen, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = synthBlock(keyword, body, &ast.ExprStmt{Expression: increment})
	}
	if condition == nil {
		condition = &ast.LiteralExpr{
			Token: lexer.Token{Type: lexer.TokenTrue, Lexeme: "true", Position: keyword.Position},
			Value: ast.BoolValue(true),
		}
	}
	body = &ast.WhileStmt{Keyword: keyword, Condition: condition, Body: body}
	if initializer != nil {
		body = synthBlock(keyword, initializer, body)
	}
	return body
}

func synthBlock(at lexer.Token, stmts ...ast.Stmt) *ast.BlockStmt {
	return &ast.BlockStmt{LeftBrace: at, Statements: stmts, RightBrace: at}
}

func (p *Parser) ifStatement() *ast.IfStmt {
	keyword := p.previous()
	p.consume(lexer.TokenLeftParen, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(lexer.TokenRightParen, "Expect ')' after if condition.")

	stmt := &ast.IfStmt{Keyword: keyword, Condition: condition, ThenBranch: p.statement()}
	if p.match(lexer.TokenElse) {
		stmt.ElseBranch = p.statement()
	}
	return stmt
}

func (p *Parser) printStatement() *ast.PrintStmt {
	keyword := p.previous()
	value := p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after value.")
	return &ast.PrintStmt{Keyword: keyword, Expression: value}
}

func (p *Parser) returnStatement() *ast.ReturnStmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(lexer.TokenSemicolon) {
		value = p.expression()
	}
	p.consume(lexer.TokenSemicolon, "Expect ';' after return value.")
	return &ast.ReturnStmt{Keyword: keyword, Value: value}
}

func (p *Parser) whileStatement() *ast.WhileStmt {
	keyword := p.previous()
	p.consume(lexer.TokenLeftParen, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(lexer.TokenRightParen, "Expect ')' after condition.")
	return &ast.WhileStmt{Keyword: keyword, Condition: condition, Body: p.statement()}
}

func (p *Parser) expressionStatement() *ast.ExprStmt {
	expr := p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after expression.")
	return &ast.ExprStmt{Expression: expr}
}

// Expressions

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

// assignment is right-associative: a = b = c assigns c to b, then to a.
func (p *Parser) assignment() ast.Expr {
	expr := p.binary(PrecOr)

	if p.match(lexer.TokenAssign) {
		equals := p.previous()
		value := p.assignment()

		if v, ok := expr.(*ast.VariableExpr); ok {
			return &ast.AssignExpr{Name: v.Name, Value: value}
		}
		p.report(equals, diag.InvalidAssignmentTarget, "Invalid assignment target.")
	}
	return expr
}

// binary parses a left-associative chain of operators whose precedence is
// at least min. The right operand of each operator is parsed one level
// tighter, so equal-precedence operators group to the left.
func (p *Parser) binary(min Precedence) ast.Expr {
	left := p.unary()

	for {
		op := p.peek()
		prec := getPrecedence(op.Type)
		if !isBinaryOperator(op.Type) || prec < min {
			return left
		}
		p.advance()
		right := p.binary(prec + 1)

		if isLogical(op.Type) {
			left = &ast.LogicalExpr{Left: left, Operator: op, Right: right}
		} else {
			left = &ast.BinaryExpr{Left: left, Operator: op, Right: right}
		}
	}
}

func (p *Parser) unary() ast.Expr {
	if p.match(lexer.TokenNot, lexer.TokenMinus) {
		op := p.previous()
		return &ast.UnaryExpr{Operator: op, Operand: p.unary()}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for p.match(lexer.TokenLeftParen) {
		expr = p.finishCall(expr)
	}
	return expr
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(lexer.TokenRightParen) {
		for {
			if len(args) == MaxArgs {
				p.report(p.peek(), diag.TooManyArguments,
					fmt.Sprintf("Cannot have more than %d arguments.", MaxArgs))
			}
			args = append(args, p.expression())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	paren := p.consume(lexer.TokenRightParen, "Expect ')' after arguments.")
	return &ast.CallExpr{Callee: callee, Paren: paren, Args: args}
}

// primaryStarts lists what may begin a primary expression, for diagnostics.
var primaryStarts = []lexer.TokenType{
	lexer.TokenFalse,
	lexer.TokenTrue,
	lexer.TokenNil,
	lexer.TokenNumber,
	lexer.TokenString,
	lexer.TokenIdentifier,
	lexer.TokenLeftParen,
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(lexer.TokenFalse):
		return &ast.LiteralExpr{Token: p.previous(), Value: ast.BoolValue(false)}
	case p.match(lexer.TokenTrue):
		return &ast.LiteralExpr{Token: p.previous(), Value: ast.BoolValue(true)}
	case p.match(lexer.TokenNil):
		return &ast.LiteralExpr{Token: p.previous(), Value: ast.NilValue{}}
	case p.match(lexer.TokenNumber):
		tok := p.previous()
		value, _ := tok.Literal.(float64)
		return &ast.LiteralExpr{Token: tok, Value: ast.NumberValue(value)}
	case p.match(lexer.TokenString):
		tok := p.previous()
		value, _ := tok.Literal.(string)
		return &ast.LiteralExpr{Token: tok, Value: ast.StringValue(value)}
	case p.match(lexer.TokenIdentifier):
		return &ast.VariableExpr{Name: p.previous()}
	case p.match(lexer.TokenLeftParen):
		lparen := p.previous()
		expr := p.expression()
		rparen := p.consume(lexer.TokenRightParen, "Expect ')' after expression.")
		return &ast.GroupingExpr{LeftParen: lparen, Expression: expr, RightParen: rparen}
	}

	p.fail(p.peek(), "Expect expression.", primaryStarts...)
	return nil
}

// Token helpers

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() lexer.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) check(tokenType lexer.TokenType) bool {
	return p.peek().Type == tokenType
}

func (p *Parser) match(tokenTypes ...lexer.TokenType) bool {
	for _, tt := range tokenTypes {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

// consume returns the current token if it has the given type and fails the
// current declaration otherwise.
func (p *Parser) consume(tokenType lexer.TokenType, message string) lexer.Token {
	if p.check(tokenType) {
		return p.advance()
	}
	p.fail(p.peek(), message, tokenType)
	return lexer.Token{}
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.TokenEOF
}

// Errors

// report records a diagnostic at tok without interrupting the parse.
func (p *Parser) report(tok lexer.Token, code diag.Code, message string, expected ...lexer.TokenType) {
	where := "at end"
	if tok.Type != lexer.TokenEOF {
		where = fmt.Sprintf("at '%s'", tok.Lexeme)
	}
	d := diag.New(code, tok.Position.Line, tok.Position.Column, fmt.Sprintf("Error %s: %s", where, message))
	d.Filename = tok.Position.Filename
	for _, tt := range expected {
		d.Expected = append(d.Expected, tt.Describe())
	}
	p.diagnostics = append(p.diagnostics, d)
}

// fail records an unexpected-token diagnostic and abandons the current
// declaration.
func (p *Parser) fail(tok lexer.Token, message string, expected ...lexer.TokenType) {
	code := diag.UnexpectedToken
	if tok.Type == lexer.TokenEOF {
		code = diag.UnexpectedEOF
	}
	p.report(tok, code, message, expected...)
	panic(bailout{})
}

func (p *Parser) errorLimitReached() bool {
	return p.maxErrors > 0 && len(p.diagnostics) >= p.maxErrors
}

// synchronize skips tokens until the start of the next statement: just past
// a semicolon, before a statement keyword, or, inside a block, before a
// closing brace. A closing brace that caused the error is left for the
// enclosing block.
func (p *Parser) synchronize() {
	if p.check(lexer.TokenRightBrace) && p.nesting > 0 {
		return
	}
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == lexer.TokenSemicolon {
			return
		}
		switch p.peek().Type {
		case lexer.TokenClass, lexer.TokenFn, lexer.TokenLet, lexer.TokenFor,
			lexer.TokenIf, lexer.TokenWhile, lexer.TokenPrint, lexer.TokenReturn,
			lexer.TokenBreak, lexer.TokenContinue:
			return
		case lexer.TokenRightBrace:
			// At top level the brace belongs to the statement being skipped.
			if p.nesting > 0 {
				return
			}
		}
		p.advance()
	}
}

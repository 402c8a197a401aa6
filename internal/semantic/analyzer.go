// Package semantic checks variable usage in a parsed CPL program.
//
// The Analyzer walks the tree depth first with a stack of lexical scopes. It
// reports references to undefined variables, reads of variables that have
// been declared but not yet given a value, and a second declaration of a
// name in the same scope. Shadowing a name from an enclosing scope is
// allowed. It also rejects break and continue outside a loop and return
// outside a function.
//
// The analyzer does not check that a called value is a function or that
// argument counts match parameter counts.
package semantic

import (
	"errors"
	"fmt"

	"github.com/hassan/cpl/internal/diag"
	"github.com/hassan/cpl/internal/lexer"
	"github.com/hassan/cpl/internal/parser/ast"
	"github.com/hassan/cpl/internal/symtab"
)

// errStop ends the walk once the first diagnostic is recorded under the
// stop-at-first policy.
var errStop = errors.New("semantic: stop at first diagnostic")

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithStopAtFirst makes Analyze return after the first error instead of
// collecting every diagnostic. Warnings never stop the walk.
func WithStopAtFirst(stop bool) Option {
	return func(a *Analyzer) { a.stopAtFirst = stop }
}

// WithUnusedWarnings reports local variables that are never read.
func WithUnusedWarnings(warn bool) Option {
	return func(a *Analyzer) { a.warnUnused = warn }
}

// Analyzer performs semantic analysis. The global scope lives as long as the
// Analyzer, so declarations from one Analyze call are visible in the next;
// this is how a REPL session remembers earlier lines.
//
// DESIGN CHOICE: Analyzer implements the ast visitors instead of switching
// on node types because:
// - adding a node kind breaks the build until every pass handles it
// - each Visit method holds the rule for exactly one construct
//
// DESIGN CHOICE: A let binds its name before its initializer is checked
// because:
// - `let x = x;` must not read an outer x by accident
// - function names use the same order, which makes recursion legal
type Analyzer struct {
	globalScope  *symtab.Scope
	currentScope *symtab.Scope

	diagnostics diag.List
	stopped     bool

	stopAtFirst bool
	warnUnused  bool
}

// New creates an Analyzer with an empty global scope.
func New(opts ...Option) *Analyzer {
	global := symtab.NewScope(symtab.ScopeGlobal, nil)
	a := &Analyzer{
		globalScope:  global,
		currentScope: global,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Check analyzes stmts with a fresh Analyzer.
func Check(stmts []ast.Stmt, opts ...Option) diag.List {
	return New(opts...).Analyze(stmts)
}

// Analyze checks stmts and returns the diagnostics found. An empty result
// means the program is valid.
//
// A call that reports an error leaves the global scope as it found it: the
// globals it declared are dropped and globals it assigned go back to being
// uninitialized. A rejected REPL line therefore cannot block a corrected
// retry.
func (a *Analyzer) Analyze(stmts []ast.Stmt) diag.List {
	a.diagnostics = nil
	a.stopped = false
	a.currentScope = a.globalScope

	mark := a.globalScope.Len()
	var uninitialized []*symtab.Symbol
	for _, symbol := range a.globalScope.LocalSymbols() {
		if !symbol.Initialized {
			uninitialized = append(uninitialized, symbol)
		}
	}

	for _, stmt := range stmts {
		if err := stmt.Accept(a); err != nil {
			break
		}
	}

	a.currentScope = a.globalScope
	if a.diagnostics.HasErrors() {
		a.globalScope.Truncate(mark)
		for _, symbol := range uninitialized {
			symbol.Initialized = false
		}
	}
	return a.diagnostics
}

// Global returns the session's global scope.
func (a *Analyzer) Global() *symtab.Scope {
	return a.globalScope
}

// Reset forgets every global declaration.
func (a *Analyzer) Reset() {
	a.globalScope = symtab.NewScope(symtab.ScopeGlobal, nil)
	a.currentScope = a.globalScope
}

// Statements

func (a *Analyzer) VisitExprStmt(stmt *ast.ExprStmt) error {
	_, err := stmt.Expression.Accept(a)
	return err
}

func (a *Analyzer) VisitPrintStmt(stmt *ast.PrintStmt) error {
	_, err := stmt.Expression.Accept(a)
	return err
}

// VisitLetStmt binds the name before looking at the initializer, so the
// initializer cannot read the variable it is initializing.
func (a *Analyzer) VisitLetStmt(stmt *ast.LetStmt) error {
	symbol := &symtab.Symbol{
		Name: stmt.Name.Lexeme,
		Kind: symtab.SymbolVariable,
		Pos:  stmt.Name.Position,
	}
	if err := a.declare(symbol, stmt.Name); err != nil {
		return err
	}

	if stmt.Initializer != nil {
		if _, err := stmt.Initializer.Accept(a); err != nil {
			return err
		}
		symbol.MarkInitialized()
	}
	return nil
}

func (a *Analyzer) VisitBlockStmt(stmt *ast.BlockStmt) error {
	a.enterScope(symtab.ScopeBlock)
	defer a.exitScope()
	return a.statements(stmt.Statements)
}

func (a *Analyzer) VisitIfStmt(stmt *ast.IfStmt) error {
	if _, err := stmt.Condition.Accept(a); err != nil {
		return err
	}
	if err := stmt.ThenBranch.Accept(a); err != nil {
		return err
	}
	if stmt.ElseBranch != nil {
		return stmt.ElseBranch.Accept(a)
	}
	return nil
}

func (a *Analyzer) VisitWhileStmt(stmt *ast.WhileStmt) error {
	if _, err := stmt.Condition.Accept(a); err != nil {
		return err
	}
	a.enterScope(symtab.ScopeLoop)
	defer a.exitScope()
	return stmt.Body.Accept(a)
}

// VisitFunctionStmt binds the function name, initialized, in the enclosing
// scope first so the body may call itself. Parameters and the body's
// top-level statements share one function scope.
func (a *Analyzer) VisitFunctionStmt(stmt *ast.FunctionStmt) error {
	fn := &symtab.Symbol{
		Name:        stmt.Name.Lexeme,
		Kind:        symtab.SymbolFunction,
		Pos:         stmt.Name.Position,
		Initialized: true,
	}
	if err := a.declare(fn, stmt.Name); err != nil {
		return err
	}

	a.enterScope(symtab.ScopeFunction)
	defer a.exitScope()

	for _, param := range stmt.Params {
		symbol := &symtab.Symbol{
			Name:        param.Name.Lexeme,
			Kind:        symtab.SymbolParameter,
			Pos:         param.Name.Position,
			Initialized: true,
		}
		if err := a.declare(symbol, param.Name); err != nil {
			return err
		}
	}
	return a.statements(stmt.Body.Statements)
}

func (a *Analyzer) VisitReturnStmt(stmt *ast.ReturnStmt) error {
	if a.currentScope.FindEnclosingFunction() == nil {
		if err := a.error(stmt.Keyword, diag.ReturnOutsideFunction, "Can't return from top-level code."); err != nil {
			return err
		}
	}
	if stmt.Value != nil {
		_, err := stmt.Value.Accept(a)
		return err
	}
	return nil
}

func (a *Analyzer) VisitBreakStmt(stmt *ast.BreakStmt) error {
	if a.currentScope.FindEnclosingLoop() == nil {
		return a.error(stmt.Keyword, diag.BreakOutsideLoop, "Can't use 'break' outside of a loop.")
	}
	return nil
}

func (a *Analyzer) VisitContinueStmt(stmt *ast.ContinueStmt) error {
	if a.currentScope.FindEnclosingLoop() == nil {
		return a.error(stmt.Keyword, diag.ContinueOutsideLoop, "Can't use 'continue' outside of a loop.")
	}
	return nil
}

// Helpers

func (a *Analyzer) statements(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := stmt.Accept(a); err != nil {
			return err
		}
	}
	return nil
}

// declare defines symbol in the current scope, reporting a redeclaration
// at name if the scope already binds it.
func (a *Analyzer) declare(symbol *symtab.Symbol, name lexer.Token) error {
	var redeclared *symtab.RedeclaredError
	if err := a.currentScope.Define(symbol); errors.As(err, &redeclared) {
		return a.error(name, diag.Redeclaration,
			fmt.Sprintf("Variable '%s' is already declared in this scope.", symbol.Name))
	}
	return nil
}

func (a *Analyzer) enterScope(kind symtab.ScopeKind) {
	a.currentScope = symtab.NewScope(kind, a.currentScope)
}

// exitScope pops the current scope, first reporting its unused variables
// when asked to.
func (a *Analyzer) exitScope() {
	scope := a.currentScope
	if a.warnUnused && !a.stopped {
		for _, symbol := range scope.UnusedSymbols() {
			if symbol.Kind != symtab.SymbolVariable {
				continue
			}
			d := diag.Newf(diag.UnusedVariable, symbol.Pos.Line, symbol.Pos.Column,
				"Variable '%s' is declared but never used.", symbol.Name)
			d.Severity = diag.SeverityWarning
			d.Filename = symbol.Pos.Filename
			a.diagnostics = append(a.diagnostics, d)
		}
	}
	if scope.Parent != nil {
		a.currentScope = scope.Parent
	}
}

// error records an error at tok. Under the stop-at-first policy it returns
// errStop, which every visitor passes straight up.
func (a *Analyzer) error(tok lexer.Token, code diag.Code, message string) error {
	d := diag.New(code, tok.Position.Line, tok.Position.Column, message)
	d.Filename = tok.Position.Filename
	a.diagnostics = append(a.diagnostics, d)

	if a.stopAtFirst {
		a.stopped = true
		return errStop
	}
	return nil
}

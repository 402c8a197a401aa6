// Package symtab holds the lexical scopes used during semantic analysis.
//
// Scopes form a chain through Parent, innermost first. A scope is created
// when the analyzer enters a block, function or loop body and dropped when
// it leaves; nothing keeps a reference to a scope after that.
package symtab

import (
	"fmt"
	"strings"
)

// ScopeKind says what construct opened a scope.
type ScopeKind int

const (
	// ScopeGlobal is the outermost scope of a program or REPL session.
	ScopeGlobal ScopeKind = iota

	// ScopeFunction holds a function's parameters and its top-level body
	// statements.
	ScopeFunction

	// ScopeBlock is an explicit { ... } block.
	ScopeBlock

	// ScopeLoop is the body of a while loop.
	ScopeLoop
)

func (sk ScopeKind) String() string {
	switch sk {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeLoop:
		return "loop"
	default:
		return "unknown"
	}
}

// Scope is one frame of the scope stack. Names are unique within a scope;
// an inner scope may shadow a name from an outer one.
//
// DESIGN CHOICE: Each scope keeps a map and a declaration-ordered slice
// because:
// - lookups by name happen on every variable reference
// - unused warnings and debug output list symbols in source order
// - Truncate can drop the newest symbols without rebuilding the map
type Scope struct {
	Kind   ScopeKind
	Parent *Scope
	Depth  int

	symbols map[string]*Symbol
	order   []*Symbol
}

// NewScope creates a scope nested in parent, which may be nil for the
// global scope.
func NewScope(kind ScopeKind, parent *Scope) *Scope {
	depth := 0
	if parent != nil {
		depth = parent.Depth + 1
	}
	return &Scope{
		Kind:    kind,
		Parent:  parent,
		Depth:   depth,
		symbols: make(map[string]*Symbol),
	}
}

// RedeclaredError is returned by Define when the name already exists in the
// same scope.
type RedeclaredError struct {
	Name     string
	Previous *Symbol
}

func (e *RedeclaredError) Error() string {
	return fmt.Sprintf("symbol %s already declared at %s", e.Name, e.Previous.Pos)
}

// Define adds symbol to this scope. It fails with *RedeclaredError if the
// name is already bound here; bindings in outer scopes do not count.
func (s *Scope) Define(symbol *Symbol) error {
	if existing, ok := s.symbols[symbol.Name]; ok {
		return &RedeclaredError{Name: symbol.Name, Previous: existing}
	}

	symbol.Scope = s
	symbol.Index = len(s.order)
	s.symbols[symbol.Name] = symbol
	s.order = append(s.order, symbol)
	return nil
}

// Lookup resolves name from this scope outward and marks the symbol used.
// It returns nil if no scope binds the name.
func (s *Scope) Lookup(name string) *Symbol {
	symbol := s.Resolve(name)
	if symbol != nil {
		symbol.MarkUsed()
	}
	return symbol
}

// Resolve is Lookup without marking the symbol used. Assignment targets
// resolve this way: writing a variable is not a use.
func (s *Scope) Resolve(name string) *Symbol {
	for scope := s; scope != nil; scope = scope.Parent {
		if symbol, ok := scope.symbols[name]; ok {
			return symbol
		}
	}
	return nil
}

// LookupLocal finds name in this scope only.
func (s *Scope) LookupLocal(name string) *Symbol {
	return s.symbols[name]
}

func (s *Scope) IsGlobal() bool   { return s.Kind == ScopeGlobal }
func (s *Scope) IsFunction() bool { return s.Kind == ScopeFunction }
func (s *Scope) IsLoop() bool     { return s.Kind == ScopeLoop }

// FindEnclosingFunction returns the nearest function scope, or nil.
func (s *Scope) FindEnclosingFunction() *Scope {
	for scope := s; scope != nil; scope = scope.Parent {
		if scope.IsFunction() {
			return scope
		}
	}
	return nil
}

// FindEnclosingLoop returns the nearest loop scope that is not cut off by
// a function boundary, or nil. A loop outside a function does not enclose
// the function's body.
func (s *Scope) FindEnclosingLoop() *Scope {
	for scope := s; scope != nil; scope = scope.Parent {
		if scope.IsLoop() {
			return scope
		}
		if scope.IsFunction() {
			return nil
		}
	}
	return nil
}

// Len is the number of symbols defined in this scope.
func (s *Scope) Len() int {
	return len(s.order)
}

// Truncate drops every symbol defined after the first n, so the scope looks
// as it did when Len returned n.
func (s *Scope) Truncate(n int) {
	if n < 0 || n >= len(s.order) {
		return
	}
	for _, symbol := range s.order[n:] {
		delete(s.symbols, symbol.Name)
	}
	s.order = s.order[:n]
}

// LocalSymbols returns this scope's symbols in declaration order.
func (s *Scope) LocalSymbols() []*Symbol {
	out := make([]*Symbol, len(s.order))
	copy(out, s.order)
	return out
}

// UnusedSymbols returns this scope's symbols that were never looked up, in
// declaration order.
func (s *Scope) UnusedSymbols() []*Symbol {
	var unused []*Symbol
	for _, symbol := range s.order {
		if !symbol.Used {
			unused = append(unused, symbol)
		}
	}
	return unused
}

func (s *Scope) String() string {
	return fmt.Sprintf("%s scope (depth %d, %d symbols)", s.Kind, s.Depth, len(s.order))
}

// DebugString lists this scope and every scope it is nested in, innermost
// first, with their symbols.
func (s *Scope) DebugString() string {
	var b strings.Builder
	for scope := s; scope != nil; scope = scope.Parent {
		b.WriteString(scope.String())
		b.WriteByte('\n')
		for _, symbol := range scope.order {
			b.WriteString("  ")
			b.WriteString(symbol.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

package symtab

import (
	"github.com/hassan/cpl/internal/lexer"
)

// SymbolKind is what a name was declared as.
type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolFunction
	SymbolParameter
)

func (sk SymbolKind) String() string {
	switch sk {
	case SymbolVariable:
		return "variable"
	case SymbolFunction:
		return "function"
	case SymbolParameter:
		return "parameter"
	default:
		return "unknown"
	}
}

// Symbol is the binding record for one declared name.
type Symbol struct {
	Name string
	Kind SymbolKind

	// Pos is where the name was declared.
	Pos lexer.Position

	// Scope is the scope the symbol was defined in; set by Define.
	Scope *Scope

	// Initialized is false for `let x;` until something assigns x.
	Initialized bool

	// Used is set by Scope.Lookup.
	Used bool

	// Index is the declaration order within Scope.
	Index int
}

func (s *Symbol) String() string {
	state := "initialized"
	if !s.Initialized {
		state = "uninitialized"
	}
	return s.Kind.String() + " " + s.Name + " (" + state + ") at " + s.Pos.String()
}

func (s *Symbol) IsGlobal() bool {
	return s.Scope != nil && s.Scope.IsGlobal()
}

func (s *Symbol) MarkUsed() {
	s.Used = true
}

func (s *Symbol) MarkInitialized() {
	s.Initialized = true
}

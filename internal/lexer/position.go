// Package lexer turns CPL source text into a stream of tokens that carry
// their exact lexeme and 1-based line and column.
package lexer

import "strconv"

// Position is a location in the source.
//
// Line and Column are 1-based. Column counts runes, not bytes, so "é" is one
// column wide. Offset is the 0-based byte offset into the source. The zero
// value is an invalid position.
type Position struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

// String formats the position as file:line:column, or line:column when the
// position has no file name.
func (p Position) String() string {
	lc := strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
	if p.Filename == "" {
		return lc
	}
	return p.Filename + ":" + lc
}

// IsValid reports whether the position has a line number.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Before reports whether p comes before other in the same source.
func (p Position) Before(other Position) bool {
	return p.Offset < other.Offset
}

// After reports whether p comes after other in the same source.
func (p Position) After(other Position) bool {
	return p.Offset > other.Offset
}

// Span is a half-open range of source, from Start up to End.
type Span struct {
	Start Position
	End   Position
}

// String formats the span as file:line:col-col when it sits on one line and
// file:line:col-line:col otherwise.
func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return s.Start.String() + "-" + strconv.Itoa(s.End.Column)
	}
	return s.Start.String() + "-" + strconv.Itoa(s.End.Line) + ":" + strconv.Itoa(s.End.Column)
}

// IsValid reports whether both ends are valid and correctly ordered.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() && !s.End.Before(s.Start)
}

// Contains reports whether pos falls inside the span.
func (s Span) Contains(pos Position) bool {
	return !pos.Before(s.Start) && pos.Before(s.End)
}

// Length returns the number of bytes covered by the span.
func (s Span) Length() int {
	if !s.IsValid() {
		return 0
	}
	return s.End.Offset - s.Start.Offset
}

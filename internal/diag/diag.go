// Package diag defines the diagnostic records produced by every stage of the
// front end. A diagnostic is a value: stages collect and return them, and no
// stage uses them to unwind control flow across package boundaries.
package diag

import (
	"fmt"
	"strings"
)

// Severity distinguishes hard errors from advisory warnings.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText lets YAML and TOML encoders print the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Stage names the pipeline stage that produced a diagnostic.
type Stage int

const (
	StageLex Stage = iota
	StageParse
	StageSemantic
)

func (s Stage) String() string {
	switch s {
	case StageLex:
		return "lex"
	case StageParse:
		return "parse"
	case StageSemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Code classifies a diagnostic so callers can match on it without parsing
// the message text.
type Code int

const (
	// Lexical
	UnexpectedCharacter Code = iota + 1
	UnterminatedString
	MalformedNumber

	// Syntactic
	UnexpectedToken
	UnexpectedEOF
	TooManyArguments
	TooManyParameters
	InvalidAssignmentTarget

	// Semantic
	UndefinedVariable
	UninitializedVariable
	Redeclaration
	BreakOutsideLoop
	ContinueOutsideLoop
	ReturnOutsideFunction
	UnusedVariable
)

var codeNames = map[Code]string{
	UnexpectedCharacter:     "unexpected-character",
	UnterminatedString:      "unterminated-string",
	MalformedNumber:         "malformed-number",
	UnexpectedToken:         "unexpected-token",
	UnexpectedEOF:           "unexpected-eof",
	TooManyArguments:        "too-many-arguments",
	TooManyParameters:       "too-many-parameters",
	InvalidAssignmentTarget: "invalid-assignment-target",
	UndefinedVariable:       "undefined-variable",
	UninitializedVariable:   "uninitialized-variable",
	Redeclaration:           "redeclaration",
	BreakOutsideLoop:        "break-outside-loop",
	ContinueOutsideLoop:     "continue-outside-loop",
	ReturnOutsideFunction:   "return-outside-function",
	UnusedVariable:          "unused-variable",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", int(c))
}

func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Stage reports which stage emits diagnostics of this code.
func (c Code) Stage() Stage {
	switch {
	case c >= UnexpectedCharacter && c <= MalformedNumber:
		return StageLex
	case c >= UnexpectedToken && c <= InvalidAssignmentTarget:
		return StageParse
	default:
		return StageSemantic
	}
}

// Diagnostic is a single problem found in the source.
type Diagnostic struct {
	Filename string   `yaml:"filename,omitempty"`
	Line     int      `yaml:"line"`
	Column   int      `yaml:"column"`
	Message  string   `yaml:"message"`
	Code     Code     `yaml:"code"`
	Severity Severity `yaml:"severity"`
	Stage    Stage    `yaml:"stage"`

	// Expected lists the token kinds that would have been accepted, for
	// unexpected-token diagnostics.
	Expected []string `yaml:"expected,omitempty"`
}

// New builds an error-severity diagnostic whose stage is derived from code.
func New(code Code, line, column int, message string) Diagnostic {
	return Diagnostic{
		Line:     line,
		Column:   column,
		Message:  message,
		Code:     code,
		Severity: SeverityError,
		Stage:    code.Stage(),
	}
}

// Newf is New with a format string.
func Newf(code Code, line, column int, format string, args ...interface{}) Diagnostic {
	return New(code, line, column, fmt.Sprintf(format, args...))
}

// Error renders the diagnostic as "[line L:column C]: message".
func (d Diagnostic) Error() string {
	return fmt.Sprintf("[line %d:column %d]: %s", d.Line, d.Column, d.Message)
}

// IsWarning reports whether the diagnostic is advisory.
func (d Diagnostic) IsWarning() bool {
	return d.Severity == SeverityWarning
}

// List is an ordered collection of diagnostics. A non-empty List is usable
// as an error.
type List []Diagnostic

// HasErrors reports whether any diagnostic has error severity.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity diagnostics.
func (l List) Errors() List {
	var out List
	for _, d := range l {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns only the warning-severity diagnostics.
func (l List) Warnings() List {
	var out List
	for _, d := range l {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// ByStage filters the list down to one stage.
func (l List) ByStage(stage Stage) List {
	var out List
	for _, d := range l {
		if d.Stage == stage {
			out = append(out, d)
		}
	}
	return out
}

// WithFilename returns a copy of the list with Filename set on every entry.
func (l List) WithFilename(name string) List {
	out := make(List, len(l))
	for i, d := range l {
		d.Filename = name
		out[i] = d
	}
	return out
}

// Err returns the list as an error when it contains errors, nil otherwise.
func (l List) Err() error {
	if !l.HasErrors() {
		return nil
	}
	return l
}

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no diagnostics"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	for i, d := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(d.Error())
	}
	return b.String()
}

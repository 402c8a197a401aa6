package parser

import (
	"github.com/hassan/cpl/internal/lexer"
)

// Precedence orders the binding strength of operators, lowest first.
type Precedence int

const (
	PrecNone       Precedence = iota
	PrecAssignment            // =
	PrecOr                    // or
	PrecAnd                   // and
	PrecEquality              // == !=
	PrecComparison            // < <= > >=
	PrecTerm                  // + -
	PrecFactor                // * /
	PrecUnary                 // ! -
	PrecCall                  // ()
	PrecPrimary
)

var precedenceNames = [...]string{
	PrecNone:       "none",
	PrecAssignment: "assignment",
	PrecOr:         "or",
	PrecAnd:        "and",
	PrecEquality:   "equality",
	PrecComparison: "comparison",
	PrecTerm:       "term",
	PrecFactor:     "factor",
	PrecUnary:      "unary",
	PrecCall:       "call",
	PrecPrimary:    "primary",
}

func (p Precedence) String() string {
	if p >= 0 && int(p) < len(precedenceNames) {
		return precedenceNames[p]
	}
	return "unknown"
}

// getPrecedence returns the precedence of tokenType when it appears after
// an operand, or PrecNone if it cannot continue an expression.
func getPrecedence(tokenType lexer.TokenType) Precedence {
	switch tokenType {
	case lexer.TokenAssign:
		return PrecAssignment
	case lexer.TokenOr:
		return PrecOr
	case lexer.TokenAnd:
		return PrecAnd
	case lexer.TokenEqual, lexer.TokenNotEqual:
		return PrecEquality
	case lexer.TokenLess, lexer.TokenLessEqual, lexer.TokenGreater, lexer.TokenGreaterEqual:
		return PrecComparison
	case lexer.TokenPlus, lexer.TokenMinus:
		return PrecTerm
	case lexer.TokenStar, lexer.TokenSlash:
		return PrecFactor
	case lexer.TokenLeftParen:
		return PrecCall
	default:
		return PrecNone
	}
}

// isBinaryOperator reports whether tokenType is handled by the
// left-associative binary loop, which covers the levels from `or` through
// factor.
func isBinaryOperator(tokenType lexer.TokenType) bool {
	prec := getPrecedence(tokenType)
	return prec >= PrecOr && prec <= PrecFactor
}

// isLogical reports whether tokenType builds a LogicalExpr rather than a
// BinaryExpr.
func isLogical(tokenType lexer.TokenType) bool {
	return tokenType == lexer.TokenAnd || tokenType == lexer.TokenOr
}

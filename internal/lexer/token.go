package lexer

// TokenType identifies the lexical category of a token.
//
// The set is closed: the parser switches over it and the String method below
// must name every member.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenInvalid

	// Single-character punctuation
	TokenLeftParen  // (
	TokenRightParen // )
	TokenLeftBrace  // {
	TokenRightBrace // }
	TokenComma      // ,
	TokenDot        // .
	TokenMinus      // -
	TokenPlus       // +
	TokenSemicolon  // ;
	TokenSlash      // /
	TokenStar       // *
	TokenColon      // : (parameter type annotations)

	// One or two character operators
	TokenNot          // !
	TokenNotEqual     // !=
	TokenAssign       // =
	TokenEqual        // ==
	TokenGreater      // >
	TokenGreaterEqual // >=
	TokenLess         // <
	TokenLessEqual    // <=

	// Literals
	TokenIdentifier
	TokenString
	TokenNumber

	// Keywords
	TokenAnd
	TokenClass
	TokenElse
	TokenFalse
	TokenFn
	TokenFor
	TokenIf
	TokenNil
	TokenOr
	TokenPrint
	TokenReturn
	TokenSuper
	TokenThis
	TokenTrue
	TokenLet
	TokenWhile
	TokenBreak
	TokenContinue
)

// Token is a single lexical unit. Tokens are produced once by the Lexer and
// never modified afterward.
type Token struct {
	// Type is the category of the token.
	Type TokenType

	// Lexeme is the exact source text the token was scanned from. For
	// strings this includes the quotes and any embedded newlines.
	Lexeme string

	// Literal holds the decoded value: string for TokenString, float64 for
	// TokenNumber, nil for everything else.
	Literal interface{}

	// Position is where the first character of the token sits.
	Position Position

	// Length is the token's width in bytes.
	Length int
}

// String returns a debug representation like IDENTIFIER(foo) at main.cpl:1:5.
func (t Token) String() string {
	return t.Type.String() + "(" + t.Lexeme + ") at " + t.Position.String()
}

// Line and Column are shorthands used heavily by diagnostics.
func (t Token) Line() int   { return t.Position.Line }
func (t Token) Column() int { return t.Position.Column }

// Span returns the source range covered by the token. For a token that
// spans lines (a string with embedded newlines) the end column is computed
// from the text after the last newline.
func (t Token) Span() Span {
	end := Position{
		Filename: t.Position.Filename,
		Line:     t.Position.Line,
		Column:   t.Position.Column,
		Offset:   t.Position.Offset + t.Length,
	}
	for _, r := range t.Lexeme {
		if r == '\n' {
			end.Line++
			end.Column = 1
			continue
		}
		end.Column++
	}
	return Span{Start: t.Position, End: end}
}

var tokenNames = [...]string{
	TokenEOF:          "EOF",
	TokenInvalid:      "INVALID",
	TokenLeftParen:    "LEFT_PAREN",
	TokenRightParen:   "RIGHT_PAREN",
	TokenLeftBrace:    "LEFT_BRACE",
	TokenRightBrace:   "RIGHT_BRACE",
	TokenComma:        "COMMA",
	TokenDot:          "DOT",
	TokenMinus:        "MINUS",
	TokenPlus:         "PLUS",
	TokenSemicolon:    "SEMICOLON",
	TokenSlash:        "SLASH",
	TokenStar:         "STAR",
	TokenColon:        "COLON",
	TokenNot:          "NOT",
	TokenNotEqual:     "NOT_EQUAL",
	TokenAssign:       "ASSIGN",
	TokenEqual:        "EQUAL",
	TokenGreater:      "GREATER",
	TokenGreaterEqual: "GREATER_EQUAL",
	TokenLess:         "LESS",
	TokenLessEqual:    "LESS_EQUAL",
	TokenIdentifier:   "IDENTIFIER",
	TokenString:       "STRING",
	TokenNumber:       "NUMBER",
	TokenAnd:          "AND",
	TokenClass:        "CLASS",
	TokenElse:         "ELSE",
	TokenFalse:        "FALSE",
	TokenFn:           "FN",
	TokenFor:          "FOR",
	TokenIf:           "IF",
	TokenNil:          "NIL",
	TokenOr:           "OR",
	TokenPrint:        "PRINT",
	TokenReturn:       "RETURN",
	TokenSuper:        "SUPER",
	TokenThis:         "THIS",
	TokenTrue:         "TRUE",
	TokenLet:          "LET",
	TokenWhile:        "WHILE",
	TokenBreak:        "BREAK",
	TokenContinue:     "CONTINUE",
}

// String returns the upper-case name of the token type.
func (tt TokenType) String() string {
	if tt >= 0 && int(tt) < len(tokenNames) && tokenNames[tt] != "" {
		return tokenNames[tt]
	}
	return "UNKNOWN"
}

// MarshalText lets encoders print token types by name.
func (tt TokenType) MarshalText() ([]byte, error) {
	return []byte(tt.String()), nil
}

// Symbol returns the fixed source spelling of punctuation, operator and
// keyword types, and "" for types whose lexeme varies.
func (tt TokenType) Symbol() string {
	if s, ok := symbols[tt]; ok {
		return s
	}
	for word, kw := range keywords {
		if kw == tt {
			return word
		}
	}
	return ""
}

// Describe returns a human-readable name for use in diagnostics, such as
// "';'" or "identifier".
func (tt TokenType) Describe() string {
	if s := tt.Symbol(); s != "" {
		return "'" + s + "'"
	}
	switch tt {
	case TokenIdentifier:
		return "identifier"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenEOF:
		return "end of input"
	}
	return tt.String()
}

var symbols = map[TokenType]string{
	TokenLeftParen:    "(",
	TokenRightParen:   ")",
	TokenLeftBrace:    "{",
	TokenRightBrace:   "}",
	TokenComma:        ",",
	TokenDot:          ".",
	TokenMinus:        "-",
	TokenPlus:         "+",
	TokenSemicolon:    ";",
	TokenSlash:        "/",
	TokenStar:         "*",
	TokenColon:        ":",
	TokenNot:          "!",
	TokenNotEqual:     "!=",
	TokenAssign:       "=",
	TokenEqual:        "==",
	TokenGreater:      ">",
	TokenGreaterEqual: ">=",
	TokenLess:         "<",
	TokenLessEqual:    "<=",
}

// keywords maps reserved words to their token types.
var keywords = map[string]TokenType{
	"and":      TokenAnd,
	"class":    TokenClass,
	"else":     TokenElse,
	"false":    TokenFalse,
	"fn":       TokenFn,
	"for":      TokenFor,
	"if":       TokenIf,
	"nil":      TokenNil,
	"or":       TokenOr,
	"print":    TokenPrint,
	"return":   TokenReturn,
	"super":    TokenSuper,
	"this":     TokenThis,
	"true":     TokenTrue,
	"let":      TokenLet,
	"while":    TokenWhile,
	"break":    TokenBreak,
	"continue": TokenContinue,
}

// LookupKeyword returns the keyword type for ident, or TokenIdentifier.
func LookupKeyword(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return TokenIdentifier
}

// IsKeyword reports whether tt is a reserved word.
func (tt TokenType) IsKeyword() bool {
	return tt >= TokenAnd && tt <= TokenContinue
}

// IsLiteral reports whether tt starts a literal expression.
func (tt TokenType) IsLiteral() bool {
	switch tt {
	case TokenString, TokenNumber, TokenTrue, TokenFalse, TokenNil:
		return true
	}
	return false
}

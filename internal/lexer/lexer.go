package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/hassan/cpl/internal/diag"
)

// Lexer converts CPL source into tokens.
//
// The lexer makes a single left-to-right pass with one rune of lookahead
// (two for comments). It never fails outright: lexical problems are reported
// as diagnostics and scanning carries on with the next character.
//
// Position invariant: every consumed rune advances the column by one, except
// a newline, which advances the line and resets the column to 1. All token
// kinds go through advance, so multi-character tokens and literals always
// move the column by their full width.
//
// DESIGN CHOICE: Columns count runes, not bytes, because:
// - a column is what an editor shows for the position
// - string literals and comments may hold any UTF-8 text
//
// DESIGN CHOICE: Errors become diagnostics plus an INVALID token because:
// - one pass reports every bad character in the file
// - the parser always receives a stream that ends in EOF
type Lexer struct {
	source   string
	filename string

	// start and current are byte offsets of the token being scanned and of
	// the next unread rune.
	start   int
	current int

	// line and column describe current; startLine and startColumn describe
	// start.
	line        int
	column      int
	startLine   int
	startColumn int
}

// New creates a Lexer for source. filename is only used for positions and
// may be empty.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
		column:   1,
	}
}

// Tokenize scans source to completion and returns its tokens, ending with
// TokenEOF. Lexical diagnostics are dropped; use ScanTokens to keep them.
func Tokenize(source string) []Token {
	tokens, _ := New(source, "").ScanTokens()
	return tokens
}

// ScanTokens scans the whole source. The returned slice always ends with a
// TokenEOF carrying the final line and column. Characters that produced a
// diagnostic are skipped and never appear as tokens.
func (l *Lexer) ScanTokens() ([]Token, diag.List) {
	var (
		tokens []Token
		diags  diag.List
	)
	for {
		tok, d := l.scan()
		if d != nil {
			diags = append(diags, *d)
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, diags
		}
	}
}

// NextToken returns the next token. On a lexical error it returns a
// TokenInvalid token and a diag.Diagnostic as the error; the caller may keep
// calling NextToken to continue past it.
func (l *Lexer) NextToken() (Token, error) {
	tok, d := l.scan()
	if d != nil {
		return tok, *d
	}
	return tok, nil
}

func (l *Lexer) scan() (Token, *diag.Diagnostic) {
	l.skipWhitespace()

	l.start = l.current
	l.startLine = l.line
	l.startColumn = l.column

	if l.isAtEnd() {
		return l.makeToken(TokenEOF), nil
	}

	ch := l.advance()

	if isLetter(ch) {
		return l.scanIdentifier(), nil
	}
	if isDigit(ch) {
		return l.scanNumber()
	}

	switch ch {
	case '(':
		return l.makeToken(TokenLeftParen), nil
	case ')':
		return l.makeToken(TokenRightParen), nil
	case '{':
		return l.makeToken(TokenLeftBrace), nil
	case '}':
		return l.makeToken(TokenRightBrace), nil
	case ',':
		return l.makeToken(TokenComma), nil
	case '.':
		return l.makeToken(TokenDot), nil
	case '-':
		return l.makeToken(TokenMinus), nil
	case '+':
		return l.makeToken(TokenPlus), nil
	case ';':
		return l.makeToken(TokenSemicolon), nil
	case '/':
		return l.makeToken(TokenSlash), nil
	case '*':
		return l.makeToken(TokenStar), nil
	case ':':
		return l.makeToken(TokenColon), nil

	case '!':
		return l.makeToken(l.either('=', TokenNotEqual, TokenNot)), nil
	case '=':
		return l.makeToken(l.either('=', TokenEqual, TokenAssign)), nil
	case '<':
		return l.makeToken(l.either('=', TokenLessEqual, TokenLess)), nil
	case '>':
		return l.makeToken(l.either('=', TokenGreaterEqual, TokenGreater)), nil

	case '"':
		return l.scanString()
	}

	return l.makeToken(TokenInvalid),
		l.error(diag.UnexpectedCharacter, fmt.Sprintf("Unexpected character %q.", ch))
}

// either consumes next and returns two when it follows, one otherwise.
func (l *Lexer) either(next rune, two, one TokenType) TokenType {
	if l.match(next) {
		return two
	}
	return one
}

// advance consumes one rune and updates the line and column.
func (l *Lexer) advance() rune {
	if l.isAtEnd() {
		return 0
	}
	ch, size := utf8.DecodeRuneInString(l.source[l.current:])
	l.current += size
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.source[l.current:])
	return ch
}

func (l *Lexer) peekNext() rune {
	if l.isAtEnd() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.source[l.current:])
	if l.current+size >= len(l.source) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.source[l.current+size:])
	return ch
}

func (l *Lexer) match(expected rune) bool {
	if l.peek() != expected || l.isAtEnd() {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// skipWhitespace skips spaces, tabs, carriage returns, newlines and //
// line comments.
func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\r', '\t', '\n':
			l.advance()
		case '/':
			if l.peekNext() != '/' {
				return
			}
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

// scanIdentifier scans an identifier or keyword. The first rune has already
// been consumed.
func (l *Lexer) scanIdentifier() Token {
	for isLetter(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}
	return l.makeToken(LookupKeyword(l.source[l.start:l.current]))
}

// scanNumber scans digits with at most one decimal point. A second point
// ends the number, so 1.2.3 scans as 1.2, '.', 3. A trailing point is part
// of the number: "3." is the number 3.
func (l *Lexer) scanNumber() (Token, *diag.Diagnostic) {
	seenDot := false
	for !l.isAtEnd() {
		ch := l.peek()
		if ch == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else if !isDigit(ch) {
			break
		}
		l.advance()
	}

	// A literal past the float64 range is a valid token whose value is
	// +Inf, the nearest double.
	tok := l.makeToken(TokenNumber)
	value, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		tok.Type = TokenInvalid
		return tok, l.error(diag.MalformedNumber, fmt.Sprintf("Malformed number '%s'.", tok.Lexeme))
	}
	tok.Literal = value
	return tok, nil
}

// scanString scans a string literal. The opening quote has already been
// consumed. The literal runs verbatim to the next quote; there are no
// escape sequences, and newlines are allowed.
func (l *Lexer) scanString() (Token, *diag.Diagnostic) {
	for !l.isAtEnd() && l.peek() != '"' {
		l.advance()
	}
	if l.isAtEnd() {
		return l.makeToken(TokenInvalid), l.error(diag.UnterminatedString, "Unterminated string.")
	}
	l.advance()

	tok := l.makeToken(TokenString)
	tok.Literal = l.source[l.start+1 : l.current-1]
	return tok, nil
}

func (l *Lexer) makeToken(tokenType TokenType) Token {
	return Token{
		Type:     tokenType,
		Lexeme:   l.source[l.start:l.current],
		Position: l.startPosition(),
		Length:   l.current - l.start,
	}
}

func (l *Lexer) startPosition() Position {
	return Position{
		Filename: l.filename,
		Line:     l.startLine,
		Column:   l.startColumn,
		Offset:   l.start,
	}
}

// error builds a diagnostic located at the start of the current token.
func (l *Lexer) error(code diag.Code, message string) *diag.Diagnostic {
	d := diag.New(code, l.startLine, l.startColumn, message)
	d.Filename = l.filename
	return &d
}

// isLetter reports whether ch may start an identifier.
func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

// isDigit accepts ASCII digits only.
func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

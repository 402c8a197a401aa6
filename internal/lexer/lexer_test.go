package lexer

import (
	"math"
	"strings"
	"testing"

	"github.com/hassan/cpl/internal/diag"
)

func TestLexer_Keywords(t *testing.T) {
	source := "and class else false fn for if nil or print return super this true let while break continue"
	l := New(source, "test.cpl")

	expectedTypes := []TokenType{
		TokenAnd, TokenClass, TokenElse, TokenFalse, TokenFn, TokenFor,
		TokenIf, TokenNil, TokenOr, TokenPrint, TokenReturn, TokenSuper,
		TokenThis, TokenTrue, TokenLet, TokenWhile, TokenBreak, TokenContinue,
		TokenEOF,
	}

	for i, expected := range expectedTypes {
		token, err := l.NextToken()
		if err != nil {
			t.Fatalf("token %d: unexpected error: %v", i, err)
		}
		if token.Type != expected {
			t.Errorf("token %d: expected %v, got %v", i, expected, token.Type)
		}
	}
}

func TestLexer_Identifiers(t *testing.T) {
	source := "foo bar _temp myVar123 lettuce número"
	l := New(source, "test.cpl")

	expected := []string{"foo", "bar", "_temp", "myVar123", "lettuce", "número"}

	for i, expectedName := range expected {
		token, err := l.NextToken()
		if err != nil {
			t.Fatalf("token %d: unexpected error: %v", i, err)
		}
		if token.Type != TokenIdentifier {
			t.Errorf("token %d: expected IDENTIFIER, got %v", i, token.Type)
		}
		if token.Lexeme != expectedName {
			t.Errorf("token %d: expected %q, got %q", i, expectedName, token.Lexeme)
		}
	}
}

func TestLexer_Numbers(t *testing.T) {
	tests := []struct {
		source string
		want   string
		value  float64
	}{
		{"42", "42", 42},
		{"3.14", "3.14", 3.14},
		{"0", "0", 0},
		{"3.", "3.", 3},
		{"007", "007", 7},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			l := New(tt.source, "test.cpl")
			token, err := l.NextToken()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token.Type != TokenNumber {
				t.Errorf("expected NUMBER, got %v", token.Type)
			}
			if token.Lexeme != tt.want {
				t.Errorf("expected %q, got %q", tt.want, token.Lexeme)
			}
			if token.Literal != tt.value {
				t.Errorf("Literal = %v, want %v", token.Literal, tt.value)
			}
		})
	}
}

func TestLexer_SecondDecimalPointEndsNumber(t *testing.T) {
	tokens := Tokenize("1.2.3")

	want := []struct {
		typ    TokenType
		lexeme string
	}{
		{TokenNumber, "1.2"},
		{TokenDot, "."},
		{TokenNumber, "3"},
		{TokenEOF, ""},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want), tokens)
	}
	for i, w := range want {
		if tokens[i].Type != w.typ || tokens[i].Lexeme != w.lexeme {
			t.Errorf("token %d = %v, want %v(%s)", i, tokens[i], w.typ, w.lexeme)
		}
	}
}

func TestLexer_Operators(t *testing.T) {
	tests := []struct {
		source   string
		expected TokenType
	}{
		{"(", TokenLeftParen},
		{")", TokenRightParen},
		{"{", TokenLeftBrace},
		{"}", TokenRightBrace},
		{",", TokenComma},
		{".", TokenDot},
		{"-", TokenMinus},
		{"+", TokenPlus},
		{";", TokenSemicolon},
		{"/", TokenSlash},
		{"*", TokenStar},
		{":", TokenColon},
		{"!", TokenNot},
		{"!=", TokenNotEqual},
		{"=", TokenAssign},
		{"==", TokenEqual},
		{">", TokenGreater},
		{">=", TokenGreaterEqual},
		{"<", TokenLess},
		{"<=", TokenLessEqual},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			l := New(tt.source, "test.cpl")
			token, err := l.NextToken()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token.Type != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, token.Type)
			}
			if token.Lexeme != tt.source {
				t.Errorf("Lexeme = %q, want %q", token.Lexeme, tt.source)
			}
		})
	}
}

func TestLexer_Strings(t *testing.T) {
	tokens, diags := New(`"hello world" ""`, "test.cpl").ScanTokens()
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if tokens[0].Type != TokenString || tokens[0].Lexeme != `"hello world"` {
		t.Errorf("token 0 = %v, want STRING(\"hello world\")", tokens[0])
	}
	if tokens[0].Literal != "hello world" {
		t.Errorf("Literal = %v, want %q", tokens[0].Literal, "hello world")
	}
	if tokens[1].Literal != "" {
		t.Errorf("empty string Literal = %v, want \"\"", tokens[1].Literal)
	}
}

func TestLexer_StringWithNewline(t *testing.T) {
	tokens := Tokenize("let s = \"one\ntwo\";\nprint s;")

	str := tokens[3]
	if str.Type != TokenString || str.Lexeme != "\"one\ntwo\"" {
		t.Fatalf("token 3 = %v, want the multi-line string", str)
	}
	if str.Position.Line != 1 {
		t.Errorf("string starts on line %d, want 1", str.Position.Line)
	}

	semi := tokens[4]
	if semi.Position.Line != 2 || semi.Position.Column != 5 {
		t.Errorf("';' at %d:%d, want 2:5", semi.Position.Line, semi.Position.Column)
	}

	for _, tok := range tokens[5:] {
		if tok.Position.Line != 3 {
			t.Errorf("%v: line = %d, want 3", tok, tok.Position.Line)
		}
	}
}

func TestLexer_Comments(t *testing.T) {
	tokens := Tokenize("let a = 1; // trailing comment\n// whole line\na / 2;")

	var types []TokenType
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	want := []TokenType{
		TokenLet, TokenIdentifier, TokenAssign, TokenNumber, TokenSemicolon,
		TokenIdentifier, TokenSlash, TokenNumber, TokenSemicolon, TokenEOF,
	}
	if len(types) != len(want) {
		t.Fatalf("got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, types[i], want[i])
		}
	}
	if tokens[5].Position.Line != 3 {
		t.Errorf("line after comments = %d, want 3", tokens[5].Position.Line)
	}
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		code     diag.Code
		line     int
		column   int
		wantToks int
	}{
		{"unexpected character", "a @ b", diag.UnexpectedCharacter, 1, 3, 3},
		{"unterminated string", "let s = \"abc", diag.UnterminatedString, 1, 9, 4},
		{"unterminated across lines", "x\n  \"abc\ndef", diag.UnterminatedString, 2, 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, diags := New(tt.source, "test.cpl").ScanTokens()
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
			if d.Stage != diag.StageLex {
				t.Errorf("Stage = %v, want lex", d.Stage)
			}
			if len(tokens) != tt.wantToks {
				t.Errorf("got %d tokens, want %d: %v", len(tokens), tt.wantToks, tokens)
			}
			if tokens[len(tokens)-1].Type != TokenEOF {
				t.Errorf("last token = %v, want EOF", tokens[len(tokens)-1])
			}
		})
	}
}

func TestLexer_NumberOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   float64
	}{
		{"overflow", "1" + strings.Repeat("0", 400), math.Inf(1)},
		{"overflow with fraction", strings.Repeat("9", 400) + ".5", math.Inf(1)},
		{"largest finite", "1" + strings.Repeat("0", 308), 1e308},
		{"underflow", "0." + strings.Repeat("0", 400) + "1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, diags := New(tt.source, "test.cpl").ScanTokens()
			if len(diags) != 0 {
				t.Fatalf("unexpected diagnostics: %v", diags)
			}
			if len(tokens) != 2 || tokens[0].Type != TokenNumber {
				t.Fatalf("tokens = %v, want one NUMBER then EOF", tokens)
			}
			if got := tokens[0].Literal.(float64); got != tt.want {
				t.Errorf("Literal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLexer_NextTokenError(t *testing.T) {
	l := New("@x", "test.cpl")

	tok, err := l.NextToken()
	if err == nil {
		t.Fatal("expected an error for '@'")
	}
	if tok.Type != TokenInvalid {
		t.Errorf("Type = %v, want INVALID", tok.Type)
	}
	d, ok := err.(diag.Diagnostic)
	if !ok || d.Code != diag.UnexpectedCharacter {
		t.Errorf("error = %#v, want an unexpected-character diagnostic", err)
	}

	tok, err = l.NextToken()
	if err != nil || tok.Lexeme != "x" || tok.Position.Column != 2 {
		t.Errorf("after error got %v, %v; want x at column 2", tok, err)
	}
}

func TestLexer_Columns(t *testing.T) {
	source := "let  abc = 12.5;\n\tprint \"é\" >= x;"
	tokens := Tokenize(source)

	want := []struct {
		lexeme string
		line   int
		column int
	}{
		{"let", 1, 1},
		{"abc", 1, 6},
		{"=", 1, 10},
		{"12.5", 1, 12},
		{";", 1, 16},
		{"print", 2, 2},
		{`"é"`, 2, 8},
		{">=", 2, 12},
		{"x", 2, 15},
		{";", 2, 16},
		{"", 2, 17},
	}

	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		tok := tokens[i]
		if tok.Lexeme != w.lexeme || tok.Position.Line != w.line || tok.Position.Column != w.column {
			t.Errorf("token %d = %q at %d:%d, want %q at %d:%d",
				i, tok.Lexeme, tok.Position.Line, tok.Position.Column, w.lexeme, w.line, w.column)
		}
	}
}

// Every token's column must equal one plus the rune count of the text
// between the start of its line and the token.
func TestLexer_ColumnsMatchSource(t *testing.T) {
	source := "fn add(a: num, b) {\n  return a+b;  // sum\n}\nlet s = \"multi\nline\"; print add(1.5,2)!=3;"
	lines := strings.Split(source, "\n")

	for _, tok := range Tokenize(source) {
		if tok.Type == TokenEOF {
			continue
		}
		line := lines[tok.Position.Line-1]
		prefix := []rune(line)[:tok.Position.Column-1]
		if !strings.HasPrefix(line[len(string(prefix)):], firstLine(tok.Lexeme)) {
			t.Errorf("%v: source at %d:%d does not start with the lexeme",
				tok, tok.Position.Line, tok.Position.Column)
		}
		if source[tok.Position.Offset:tok.Position.Offset+tok.Length] != tok.Lexeme {
			t.Errorf("%v: offset and length do not match the lexeme", tok)
		}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Scanning lexemes separated by single spaces gives back the same lexemes.
func TestLexer_LexemesReconstructSource(t *testing.T) {
	var lexemes []string
	for tt := TokenLeftParen; tt <= TokenContinue; tt++ {
		if s := tt.Symbol(); s != "" {
			lexemes = append(lexemes, s)
		}
	}
	lexemes = append(lexemes, "name", "_x1", `"a string"`, "12", "0.25", `"line
break"`)

	tokens := Tokenize(strings.Join(lexemes, " "))

	var got strings.Builder
	for _, tok := range tokens {
		got.WriteString(tok.Lexeme)
	}
	if want := strings.Join(lexemes, ""); got.String() != want {
		t.Errorf("concatenated lexemes = %q, want %q", got.String(), want)
	}
	if len(tokens) != len(lexemes)+1 {
		t.Errorf("got %d tokens, want %d", len(tokens), len(lexemes)+1)
	}
}

func TestLexer_EOFPosition(t *testing.T) {
	tokens := Tokenize("a\nbc ")
	eof := tokens[len(tokens)-1]
	if eof.Type != TokenEOF {
		t.Fatalf("last token = %v, want EOF", eof)
	}
	if eof.Position.Line != 2 || eof.Position.Column != 4 {
		t.Errorf("EOF at %d:%d, want 2:4", eof.Position.Line, eof.Position.Column)
	}

	empty := Tokenize("")
	if len(empty) != 1 || empty[0].Position.Line != 1 || empty[0].Position.Column != 1 {
		t.Errorf("Tokenize(\"\") = %v, want a single EOF at 1:1", empty)
	}
}

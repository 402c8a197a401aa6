// Package render prints compiler output for people and for tools.
//
// Three formats are supported. Text is the human form: an aligned token
// listing, the program in canonical source form and colored diagnostics.
// YAML emits the same data as documents built from ast.Tree, which carry no
// positions and are stable across runs. Debug dumps the Go values with
// kr/pretty.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kr/pretty"
	"gopkg.in/yaml.v3"

	"github.com/hassan/cpl/internal/diag"
	"github.com/hassan/cpl/internal/driver"
	"github.com/hassan/cpl/internal/lexer"
	"github.com/hassan/cpl/internal/parser/ast"
)

// Format selects the output representation.
type Format string

const (
	FormatText  Format = "text"
	FormatYAML  Format = "yaml"
	FormatDebug Format = "debug"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatYAML, FormatDebug:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, yaml or debug)", s)
	}
}

// Renderer writes results to an io.Writer.
type Renderer struct {
	w      io.Writer
	format Format
	styles Styles
}

// New creates a Renderer.
func New(w io.Writer, format Format, noColor bool) *Renderer {
	return &Renderer{
		w:      w,
		format: format,
		styles: NewStyles(w, noColor),
	}
}

// Styles returns the renderer's styles.
func (r *Renderer) Styles() Styles {
	return r.styles
}

type tokenView struct {
	Type    string      `yaml:"type"`
	Lexeme  string      `yaml:"lexeme"`
	Literal interface{} `yaml:"literal,omitempty"`
	Line    int         `yaml:"line"`
	Column  int         `yaml:"column"`
}

// Tokens prints a token listing.
func (r *Renderer) Tokens(tokens []lexer.Token) error {
	switch r.format {
	case FormatYAML:
		views := make([]tokenView, len(tokens))
		for i, tok := range tokens {
			views[i] = tokenView{
				Type:    tok.Type.String(),
				Lexeme:  tok.Lexeme,
				Literal: tok.Literal,
				Line:    tok.Line(),
				Column:  tok.Column(),
			}
		}
		return r.yaml(map[string]interface{}{"tokens": views})
	case FormatDebug:
		return r.debug(tokens)
	}

	for _, tok := range tokens {
		pos := fmt.Sprintf("%4d:%-4d", tok.Line(), tok.Column())
		line := r.styles.Position.Render(pos) + " " + r.styles.Kind.Render(fmt.Sprintf("%-14s", tok.Type))
		if tok.Lexeme != "" {
			line += " " + r.styles.Lexeme.Render(tok.Lexeme)
		}
		if _, err := fmt.Fprintln(r.w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// Program prints the parsed statements.
func (r *Renderer) Program(stmts []ast.Stmt) error {
	switch r.format {
	case FormatYAML:
		return r.yaml(map[string]interface{}{"program": ast.Tree(stmts)})
	case FormatDebug:
		return r.debug(stmts)
	}
	_, err := io.WriteString(r.w, ast.Format(stmts))
	return err
}

// Diagnostics prints every diagnostic, errors and warnings alike.
func (r *Renderer) Diagnostics(list diag.List) error {
	switch r.format {
	case FormatYAML:
		if list == nil {
			list = diag.List{}
		}
		return r.yaml(map[string]interface{}{"diagnostics": list})
	case FormatDebug:
		return r.debug(list)
	}

	for _, d := range list {
		if _, err := fmt.Fprintln(r.w, r.diagnostic(d)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) diagnostic(d diag.Diagnostic) string {
	label := r.styles.Error.Render("error")
	if d.IsWarning() {
		label = r.styles.Warning.Render("warning")
	}

	var b strings.Builder
	if d.Filename != "" {
		b.WriteString(r.styles.Position.Render(d.Filename))
		b.WriteString(": ")
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(d.Error())
	return b.String()
}

// Timings prints per-stage durations.
func (r *Renderer) Timings(t driver.Timings) error {
	switch r.format {
	case FormatYAML:
		return r.yaml(map[string]interface{}{"timings": t})
	case FormatDebug:
		return r.debug(t)
	}

	rows := []struct {
		stage string
		d     time.Duration
	}{
		{"lex", t.Lex},
		{"parse", t.Parse},
		{"analyze", t.Analyze},
		{"total", t.Total()},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(r.w, "%s %s\n", r.styles.Muted.Render(fmt.Sprintf("%-8s", row.stage)), row.d); err != nil {
			return err
		}
	}
	return nil
}

type section struct {
	title string
	print func() error
}

// Result prints the outcome of one compilation: the tokens, the program
// and the diagnostics, plus timings when asked.
func (r *Renderer) Result(res *driver.Result, timings bool) error {
	if r.format == FormatYAML {
		diags := res.Diagnostics
		if diags == nil {
			diags = diag.List{}
		}
		doc := map[string]interface{}{
			"source":      res.Source.Name,
			"ok":          res.OK(),
			"program":     ast.Tree(res.Statements),
			"diagnostics": diags,
		}
		if timings {
			doc["timings"] = res.Timings
		}
		return r.yaml(doc)
	}

	sections := []section{
		{"Source", func() error {
			_, err := fmt.Fprintln(r.w, strings.TrimRight(res.Source.Text, "\n"))
			return err
		}},
		{"Tokens", func() error { return r.Tokens(res.Tokens) }},
		{"Program", func() error { return r.Program(res.Statements) }},
	}
	if len(res.Diagnostics) > 0 {
		sections = append(sections, section{"Diagnostics", func() error { return r.Diagnostics(res.Diagnostics) }})
	}
	if timings {
		sections = append(sections, section{"Timings", func() error { return r.Timings(res.Timings) }})
	}

	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(r.w)
		}
		if _, err := fmt.Fprintln(r.w, r.styles.Header.Render("=== "+s.title+" ===")); err != nil {
			return err
		}
		if err := s.print(); err != nil {
			return err
		}
	}
	return r.Summary(res)
}

// Summary prints a one-line verdict for a compilation.
func (r *Renderer) Summary(res *driver.Result) error {
	if r.format != FormatText {
		return nil
	}
	errs := len(res.Diagnostics.Errors())
	warns := len(res.Diagnostics.Warnings())

	var line string
	switch {
	case errs > 0:
		line = r.styles.Error.Render("✗ "+res.Source.Name) + fmt.Sprintf(": %s, %s", plural(errs, "error"), plural(warns, "warning"))
	case warns > 0:
		line = r.styles.Warning.Render("✓ "+res.Source.Name) + ": " + plural(warns, "warning")
	default:
		line = r.styles.Success.Render("✓ " + res.Source.Name)
	}
	_, err := fmt.Fprintln(r.w, line)
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func (r *Renderer) yaml(v interface{}) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func (r *Renderer) debug(v interface{}) error {
	_, err := fmt.Fprintf(r.w, "%# v\n", pretty.Formatter(v))
	return err
}

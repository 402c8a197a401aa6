// Package repl runs an interactive CPL session. Each line is compiled on its
// own, but global declarations carry over from line to line.
package repl

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/hassan/cpl/internal/config"
	"github.com/hassan/cpl/internal/driver"
	"github.com/hassan/cpl/internal/render"
	"github.com/hassan/cpl/internal/source"
)

// Prompt is printed before every line.
const Prompt = "> "

// sourceName labels REPL input in logs.
const sourceName = "<repl>"

// Session compiles REPL lines against a persistent global scope.
type Session struct {
	drv     *driver.Driver
	format  render.Format
	noColor bool
	lines   int
}

// NewSession creates a session. A nil cfg uses the defaults.
func NewSession(cfg *config.Config, logger *slog.Logger) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	format, err := render.ParseFormat(cfg.Output.Format)
	if err != nil {
		format = render.FormatText
	}

	opts := []driver.Option{driver.WithConfig(cfg), driver.WithSession()}
	if logger != nil {
		opts = append(opts, driver.WithLogger(logger))
	}
	return &Session{
		drv:     driver.New(opts...),
		format:  format,
		noColor: cfg.Output.NoColor,
	}
}

// IsExit reports whether line asks to leave the session.
func IsExit(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), "exit")
}

// Eval compiles one line and returns what should be shown for it: the
// program in canonical form when it is valid, the diagnostics otherwise.
// Blank lines produce no output.
func (s *Session) Eval(ctx context.Context, line string) (string, error) {
	if strings.TrimSpace(line) == "" {
		return "", nil
	}
	s.lines++

	res, err := s.drv.Compile(ctx, source.FromString(sourceName, line))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	r := render.New(&buf, s.format, s.noColor)
	if res.OK() {
		if err := r.Program(res.Statements); err != nil {
			return "", err
		}
	}
	if len(res.Diagnostics) > 0 {
		if err := r.Diagnostics(res.Diagnostics.WithFilename("")); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Lines returns how many non-blank lines have been evaluated.
func (s *Session) Lines() int {
	return s.lines
}

// Reset forgets every declaration made so far.
func (s *Session) Reset() {
	s.drv.Reset()
}

// Package driver runs the CPL front end over a source: scanning, parsing
// and semantic analysis, in that order.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hassan/cpl/internal/config"
	"github.com/hassan/cpl/internal/diag"
	"github.com/hassan/cpl/internal/lexer"
	"github.com/hassan/cpl/internal/logging"
	"github.com/hassan/cpl/internal/parser"
	"github.com/hassan/cpl/internal/parser/ast"
	"github.com/hassan/cpl/internal/semantic"
	"github.com/hassan/cpl/internal/source"
)

// Timings records how long each stage took. A stage that did not run has a
// zero duration.
type Timings struct {
	Lex     time.Duration `yaml:"lex"`
	Parse   time.Duration `yaml:"parse"`
	Analyze time.Duration `yaml:"analyze"`
}

// Total is the sum of all stages.
func (t Timings) Total() time.Duration {
	return t.Lex + t.Parse + t.Analyze
}

// Result is everything one compilation produced.
type Result struct {
	ID          string
	Source      source.Source
	Tokens      []lexer.Token
	Statements  []ast.Stmt
	Diagnostics diag.List
	Timings     Timings

	// Analyzed is false when analysis was skipped because the program did
	// not parse.
	Analyzed bool
}

// OK reports whether the compilation finished without errors.
func (r *Result) OK() bool {
	return !r.Diagnostics.HasErrors()
}

// Option configures a Driver.
type Option func(*Driver)

// WithConfig sets the parser, analyzer and scheduling settings.
func WithConfig(cfg *config.Config) Option {
	return func(d *Driver) { d.cfg = cfg }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) { d.logger = logger }
}

// WithSession keeps one analyzer for every compilation, so globals declared
// by one source are visible to the next. A session driver compiles one
// source at a time.
func WithSession() Option {
	return func(d *Driver) { d.session = true }
}

// Driver compiles sources.
type Driver struct {
	cfg    *config.Config
	logger *slog.Logger

	session  bool
	mu       sync.Mutex
	analyzer *semantic.Analyzer
}

// New creates a Driver.
func New(opts ...Option) *Driver {
	d := &Driver{}
	for _, opt := range opts {
		opt(d)
	}
	if d.cfg == nil {
		d.cfg = config.Default()
	}
	if d.logger == nil {
		d.logger = logging.Discard()
	}
	if d.session {
		d.analyzer = d.newAnalyzer()
	}
	return d
}

// Reset clears the session's global declarations.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.analyzer != nil {
		d.analyzer.Reset()
	}
}

// Compile runs every stage over src. Analysis is skipped when scanning or
// parsing reported an error. The context is checked before each stage;
// cancellation returns the partial result together with the context error.
func (d *Driver) Compile(ctx context.Context, src source.Source) (*Result, error) {
	return d.run(ctx, src, true)
}

// Parse scans and parses src without analyzing it.
func (d *Driver) Parse(ctx context.Context, src source.Source) (*Result, error) {
	return d.run(ctx, src, false)
}

func (d *Driver) run(ctx context.Context, src source.Source, analyze bool) (*Result, error) {
	if timeout := d.cfg.Driver.Timeout.Duration; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res := &Result{
		ID:     uuid.New().String(),
		Source: src,
	}
	logger := d.logger.With("session", res.ID, "source", src.Name)
	logger.Debug("compile started", "bytes", len(src.Text))

	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("compile %s: %w", src.Name, err)
	}
	start := time.Now()
	tokens, lexDiags := lexer.New(src.Text, src.Name).ScanTokens()
	res.Timings.Lex = time.Since(start)
	res.Tokens = tokens
	res.Diagnostics = append(res.Diagnostics, lexDiags...)
	logger.Debug("scanned", "tokens", len(tokens), "diagnostics", len(lexDiags), "elapsed", res.Timings.Lex)

	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("compile %s: %w", src.Name, err)
	}
	start = time.Now()
	stmts, parseDiags := parser.New(tokens, d.parserOptions()...).Parse()
	res.Timings.Parse = time.Since(start)
	res.Statements = stmts
	res.Diagnostics = append(res.Diagnostics, parseDiags...)
	logger.Debug("parsed", "statements", len(stmts), "diagnostics", len(parseDiags), "elapsed", res.Timings.Parse)

	if res.Diagnostics.HasErrors() {
		res.Diagnostics = res.Diagnostics.WithFilename(src.Name)
		logger.Info("compile failed", "stage", res.Diagnostics[0].Stage, "errors", len(res.Diagnostics.Errors()))
		return res, nil
	}
	if !analyze {
		res.Diagnostics = res.Diagnostics.WithFilename(src.Name)
		logger.Debug("parse only, analysis skipped")
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("compile %s: %w", src.Name, err)
	}
	start = time.Now()
	res.Diagnostics = append(res.Diagnostics, d.analyze(stmts)...)
	res.Timings.Analyze = time.Since(start)
	res.Analyzed = true
	res.Diagnostics = res.Diagnostics.WithFilename(src.Name)

	if res.OK() {
		logger.Info("compile succeeded", "warnings", len(res.Diagnostics.Warnings()), "elapsed", res.Timings.Total())
	} else {
		logger.Info("compile failed", "stage", diag.StageSemantic, "errors", len(res.Diagnostics.Errors()))
	}
	return res, nil
}

// CompileAll compiles independent sources concurrently, at most
// Driver.Parallelism at a time. Results are returned in input order. The
// first context error is returned once every worker has finished.
func (d *Driver) CompileAll(ctx context.Context, sources []source.Source) ([]*Result, error) {
	results := make([]*Result, len(sources))
	errs := make([]error, len(sources))

	limit := d.cfg.Driver.Parallelism
	if limit <= 0 {
		limit = 1
	}
	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src source.Source) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = &Result{Source: src}
				errs[i] = fmt.Errorf("compile %s: %w", src.Name, ctx.Err())
				return
			}
			results[i], errs[i] = d.Compile(ctx, src)
		}(i, src)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (d *Driver) parserOptions() []parser.Option {
	return []parser.Option{
		parser.WithRecovery(!d.cfg.Parser.StopAtFirstError),
		parser.WithMaxErrors(d.cfg.Parser.MaxErrors),
	}
}

func (d *Driver) newAnalyzer() *semantic.Analyzer {
	return semantic.New(
		semantic.WithStopAtFirst(d.cfg.Analyzer.StopAtFirstError),
		semantic.WithUnusedWarnings(d.cfg.Analyzer.WarnUnused),
	)
}

func (d *Driver) analyze(stmts []ast.Stmt) diag.List {
	if !d.session {
		return d.newAnalyzer().Analyze(stmts)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.analyzer.Analyze(stmts)
}

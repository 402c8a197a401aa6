// Package cmd implements the cpl command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hassan/cpl/internal/config"
	"github.com/hassan/cpl/internal/driver"
	"github.com/hassan/cpl/internal/logging"
	"github.com/hassan/cpl/internal/render"
	"github.com/hassan/cpl/internal/source"
)

// errFailed is returned when a program has errors. The diagnostics have
// already been printed, so Execute does not print it again.
var errFailed = errors.New("compilation failed")

// app carries flag values and what PersistentPreRunE builds from them.
type app struct {
	cfgFile string
	verbose bool
	format  string
	noColor bool

	cfg    *config.Config
	logger *slog.Logger
}

// Execute runs the root command with os.Args.
func Execute() error {
	root := newRootCmd()
	err := root.ExecuteContext(context.Background())
	if err != nil && !errors.Is(err, errFailed) {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "cpl",
		Short: "CPL front end: scanner, parser and semantic checker",
		Long: `cpl scans, parses and checks programs written in CPL, a small
dynamically typed language with let bindings, functions, blocks,
if/while/for, and print.

Configuration is read from --config, $CPL_CONFIG, ./cpl.toml or
~/.config/cpl/config.toml, in that order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $CPL_CONFIG or ./cpl.toml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")
	flags.StringVarP(&a.format, "format", "f", "", "output format: text, yaml or debug")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newTokensCmd(a),
		newParseCmd(a),
		newFmtCmd(a),
		newCheckCmd(a),
		newRunCmd(a),
		newReplCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and applies flag overrides.
func (a *app) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if a.cfgFile != "" {
		cfg, err = config.Load(a.cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = a.format
	}
	if flags.Changed("no-color") {
		cfg.Output.NoColor = a.noColor
	}
	if _, err := render.ParseFormat(cfg.Output.Format); err != nil {
		return err
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}

	a.cfg = cfg
	a.logger = logging.NewLogger(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if cfg.Path != "" {
		a.logger.Debug("config loaded", "path", cfg.Path)
	}
	return nil
}

func (a *app) driver(opts ...driver.Option) *driver.Driver {
	return driver.New(append([]driver.Option{driver.WithConfig(a.cfg), driver.WithLogger(a.logger)}, opts...)...)
}

func (a *app) renderer(w io.Writer) *render.Renderer {
	format, _ := render.ParseFormat(a.cfg.Output.Format)
	return render.New(w, format, a.cfg.Output.NoColor)
}

// load reads one source file, or standard input when path is "-".
func (a *app) load(cmd *cobra.Command, path string) (source.Source, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return source.Source{}, fmt.Errorf("read stdin: %w", err)
		}
		return source.FromString("<stdin>", string(data)), nil
	}
	return source.Load(path)
}

// report prints diagnostics on stderr and turns errors into errFailed.
func (a *app) report(cmd *cobra.Command, res *driver.Result) error {
	if len(res.Diagnostics) > 0 {
		if err := a.renderer(cmd.ErrOrStderr()).Diagnostics(res.Diagnostics); err != nil {
			return err
		}
	}
	if !res.OK() {
		return errFailed
	}
	return nil
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hassan/cpl/internal/repl"
)

func newReplCmd(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Long: `Reads CPL one line at a time and prints the parsed program or its
diagnostics. Declarations persist between lines. Type exit to quit.

The terminal UI is used when attached to a terminal; --plain forces a
simple line-oriented prompt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := repl.NewSession(a.cfg, a.logger)
			in, out := cmd.InOrStdin(), cmd.OutOrStdout()

			if plain || !repl.IsTerminal(in) || !repl.IsTerminal(out) {
				return repl.Start(cmd.Context(), in, out, sess)
			}
			return repl.Run(cmd.Context(), in, out, sess)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "use a plain line prompt instead of the terminal UI")
	return cmd
}

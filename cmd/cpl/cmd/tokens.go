package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hassan/cpl/internal/driver"
	"github.com/hassan/cpl/internal/lexer"
)

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the tokens of a program",
		Long: `Scans FILE and prints one token per line with its line and column.
Use - to read from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}

			tokens, diags := lexer.New(src.Text, src.Name).ScanTokens()
			if err := a.renderer(cmd.OutOrStdout()).Tokens(tokens); err != nil {
				return err
			}
			return a.report(cmd, &driver.Result{Source: src, Tokens: tokens, Diagnostics: diags.WithFilename(src.Name)})
		},
	}
}

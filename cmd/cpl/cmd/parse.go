package cmd

import (
	"github.com/spf13/cobra"
)

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse a program and print its syntax tree",
		Long: `Parses FILE without semantic checks. The text format prints the
program in canonical form; yaml prints the tree structure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}

			res, err := a.driver().Parse(cmd.Context(), src)
			if err != nil {
				return err
			}
			if err := a.renderer(cmd.OutOrStdout()).Program(res.Statements); err != nil {
				return err
			}
			return a.report(cmd, res)
		},
	}
}

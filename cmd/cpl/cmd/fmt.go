package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hassan/cpl/internal/parser/ast"
)

func newFmtCmd(a *app) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Print a program in canonical form",
		Long: `Reformats FILE. Programs with syntax errors are left alone and the
errors are reported instead.`,
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
			if err := a.report(cmd, res); err != nil {
				return err
			}

			formatted := ast.Format(res.Statements)
			if !write || args[0] == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), formatted)
				return err
			}
			if formatted == src.Text {
				return nil
			}
			info, err := os.Stat(src.Name)
			if err != nil {
				return err
			}
			if err := os.WriteFile(src.Name, []byte(formatted), info.Mode().Perm()); err != nil {
				return fmt.Errorf("write %s: %w", src.Name, err)
			}
			a.logger.Info("formatted", "path", src.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to FILE")
	return cmd
}

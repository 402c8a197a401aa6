package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hassan/cpl/internal/source"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Check programs for syntax and semantic errors",
		Long: `Compiles every FILE in parallel and reports all diagnostics.
The exit status is 1 when any file has an error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := source.LoadAll(args)
			if err != nil {
				return err
			}

			results, err := a.driver().CompileAll(cmd.Context(), sources)
			if err != nil {
				return err
			}

			out := a.renderer(cmd.OutOrStdout())
			failed := false
			for _, res := range results {
				if err := out.Diagnostics(res.Diagnostics); err != nil {
					return err
				}
				if err := out.Summary(res); err != nil {
					return err
				}
				if !res.OK() {
					failed = true
				}
			}
			if failed {
				return errFailed
			}
			return nil
		},
	}
}

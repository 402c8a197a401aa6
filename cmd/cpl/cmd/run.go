package cmd

import (
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var timings bool

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run every stage and show the source, tokens, tree and diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}

			res, err := a.driver().Compile(cmd.Context(), src)
			if err != nil {
				return err
			}

			show := timings || a.cfg.Output.Timings
			if err := a.renderer(cmd.OutOrStdout()).Result(res, show); err != nil {
				return err
			}
			if !res.OK() {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&timings, "timings", "t", false, "show per-stage durations")
	return cmd
}

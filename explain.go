package main

import (
	"os"

	nextver "github.com/bcomnes/nextver/pkg"
	"github.com/spf13/cobra"
)

func newExplainCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "explain",
		Short: "Show how each commit since the last version tag is classified",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.load(ctx, cmd)
			if err != nil {
				return err
			}
			current, summary, err := nextver.NewCalculator(s.cfg, s.repo, c.logger).Explain(ctx)
			if err != nil {
				return err
			}
			styled := c.stdout == os.Stdout && nextver.IsTerminal(os.Stdout)
			return nextver.WriteExplain(c.stdout, current, summary, styled)
		},
	}
}

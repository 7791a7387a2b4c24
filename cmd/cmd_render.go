package main

import (
	"fmt"

	"github.com/spf13/cobra"

	service "github.com/idrees11/gnn-topology-ablation/internal/app"
	"github.com/idrees11/gnn-topology-ablation/pkg/logger"
)

func newRenderCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Re-render the leaderboard from the existing history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, lg, err := setup(ctx, cmd, flags)
			if err != nil {
				return err
			}

			res, err := service.FromConfig(cfg, lg).Render(ctx)
			if err != nil {
				lg.Error(ctx, "render failed", logger.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rendered %d participant(s) from %d history record(s) to %s\n",
				len(res.Standings), res.History, cfg.ReportPath)
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	service "github.com/idrees11/gnn-topology-ablation/internal/app"
	"github.com/idrees11/gnn-topology-ablation/pkg/logger"
)

func newScoreCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Run one scoring cycle and re-render the leaderboard",
		Long: "score loads the truth payload from the configured environment variable,\n" +
			"scores every submission, appends the results to the history and renders the report.\n" +
			"A missing payload or an unscoreable submission is not an error.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, lg, err := setup(ctx, cmd, flags)
			if err != nil {
				return err
			}

			res, err := service.FromConfig(cfg, lg).Run(ctx)
			if err != nil {
				lg.Error(ctx, "scoring cycle failed", logger.Error(err))
				return err
			}

			out := cmd.OutOrStdout()
			if !res.TruthAvailable {
				fmt.Fprintln(out, "truth not available: scores reported as N/A")
			}
			fmt.Fprintf(out, "scored %d submission record(s); history has %d; %d participant(s) ranked\n",
				len(res.Records), res.History, len(res.Standings))
			fmt.Fprintf(out, "leaderboard written to %s\n", cfg.ReportPath)
			return nil
		},
	}
}

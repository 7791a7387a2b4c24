package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idrees11/gnn-topology-ablation/internal/config"
	"github.com/idrees11/gnn-topology-ablation/pkg/logger"
)

// globalFlags override values loaded from the config file and environment.
type globalFlags struct {
	configPath  string
	submissions string
	history     string
	report      string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "gnnboard",
		Short: "Score GNN challenge submissions and maintain the leaderboard",
		Long: "gnnboard scores ideal and perturbed submissions against a secret label set,\n" +
			"appends every scoring event to a durable history, and renders the leaderboard.",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: version,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "YAML config file (default $GNNBOARD_CONFIG)")
	pf.StringVar(&flags.submissions, "submissions", "", "submissions directory")
	pf.StringVar(&flags.history, "history", "", "history CSV file")
	pf.StringVar(&flags.report, "report", "", "markdown report file")

	root.AddCommand(newScoreCmd(flags))
	root.AddCommand(newRenderCmd(flags))
	root.AddCommand(newServeCmd(flags))
	return root
}

// setup loads configuration, applies flag overrides and initializes logging.
func setup(ctx context.Context, cmd *cobra.Command, flags *globalFlags) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(ctx, flags.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if flags.submissions != "" {
		cfg.SubmissionsDir = flags.submissions
	}
	if flags.history != "" {
		cfg.HistoryPath = flags.history
	}
	if flags.report != "" {
		cfg.ReportPath = flags.report
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if err := logger.Init(
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
	); err != nil {
		return nil, nil, fmt.Errorf("init logging: %w", err)
	}
	lg := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		lg.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, lg, nil
}

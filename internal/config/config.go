// Package config defines gnnboard configuration and its loading hooks.
//
// Conventions:
//   - Paths are explicit configuration; nothing is created on import.
//   - The truth payload itself is never part of Config. Config only names the
//     environment variable that carries it.
package config

import (
	"fmt"
	"strings"
)

// Truth payload encodings.
const (
	TruthEncodingAuto   = "auto"
	TruthEncodingBase64 = "base64"
	TruthEncodingPlain  = "plain"
)

// Precision bounds for reported scores.
const (
	MinPrecision = 4
	MaxPrecision = 6
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// SubmissionsDir holds participant submission files.
	SubmissionsDir string `koanf:"submissions_dir"`

	// SubmissionExts lists the file extensions treated as submissions.
	SubmissionExts []string `koanf:"submission_exts"`

	// HistoryPath is the durable, append-only history table.
	HistoryPath string `koanf:"history_path"`

	// ReportPath is the rendered markdown leaderboard.
	ReportPath string `koanf:"report_path"`

	// ReportJSONPath is the JSON mirror of the best-score view.
	ReportJSONPath string `koanf:"report_json_path"`

	// SnapshotPath receives the JSON snapshot of the records scored in one run.
	SnapshotPath string `koanf:"snapshot_path"`

	// TruthEnv names the environment variable holding the truth payload.
	TruthEnv string `koanf:"truth_env"`

	// TruthEncoding is auto, base64 or plain.
	TruthEncoding string `koanf:"truth_encoding"`

	// Precision is the number of decimals used for reported scores.
	Precision int `koanf:"precision"`

	// IncludeHistory appends the full chronological history to the report.
	IncludeHistory bool `koanf:"include_history"`

	// Workers bounds parallel evaluation of independent participants.
	Workers int `koanf:"workers"`

	// LockTimeoutMS bounds how long an append waits for the history lock.
	LockTimeoutMS int `koanf:"lock_timeout_ms"`

	// MetricsTextfile, when set, receives a Prometheus textfile export at the end of a run.
	MetricsTextfile string `koanf:"metrics_textfile"`

	// Addr configures the listen address of the read-only HTTP view.
	Addr string `koanf:"addr"`

	// Title is the report heading.
	Title string `koanf:"title"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		SubmissionsDir: "submissions",
		SubmissionExts: []string{".csv", ".tsv"},
		HistoryPath:    "leaderboard/history.csv",
		ReportPath:     "leaderboard/leaderboard.md",
		ReportJSONPath: "leaderboard/leaderboard.json",
		SnapshotPath:   "leaderboard/latest_scores.json",
		TruthEnv:       "TEST_LABELS_B64",
		TruthEncoding:  TruthEncodingAuto,
		Precision:      MinPrecision,
		IncludeHistory: true,
		Workers:        1,
		LockTimeoutMS:  30_000,
		Addr:           ":9080",
		Title:          "GNN Challenge Leaderboard",
	}
}

// Validate checks the configuration for values no component can work with.
func (c *Config) Validate() error {
	switch {
	case c.SubmissionsDir == "":
		return fmt.Errorf("%w: submissions_dir must not be empty", ErrInvalidConfig)
	case c.HistoryPath == "":
		return fmt.Errorf("%w: history_path must not be empty", ErrInvalidConfig)
	case c.ReportPath == "":
		return fmt.Errorf("%w: report_path must not be empty", ErrInvalidConfig)
	case c.TruthEnv == "":
		return fmt.Errorf("%w: truth_env must not be empty", ErrInvalidConfig)
	case c.Precision < MinPrecision || c.Precision > MaxPrecision:
		return fmt.Errorf("%w: precision must be between %d and %d, got %d", ErrInvalidConfig, MinPrecision, MaxPrecision, c.Precision)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	case c.LockTimeoutMS < 0:
		return fmt.Errorf("%w: lock_timeout_ms must not be negative", ErrInvalidConfig)
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case len(c.SubmissionExts) == 0:
		return fmt.Errorf("%w: submission_exts must not be empty", ErrInvalidConfig)
	}

	switch strings.ToLower(c.TruthEncoding) {
	case TruthEncodingAuto, TruthEncodingBase64, TruthEncodingPlain:
	default:
		return fmt.Errorf("%w: unknown truth_encoding %q", ErrInvalidConfig, c.TruthEncoding)
	}
	return nil
}

package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/idrees11/gnn-topology-ablation/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.SubmissionsDir, convey.ShouldEqual, "submissions")
			convey.So(cfg.HistoryPath, convey.ShouldEqual, "leaderboard/history.csv")
			convey.So(cfg.ReportPath, convey.ShouldEqual, "leaderboard/leaderboard.md")
			convey.So(cfg.TruthEnv, convey.ShouldEqual, "TEST_LABELS_B64")
			convey.So(cfg.TruthEncoding, convey.ShouldEqual, config.TruthEncodingAuto)
			convey.So(cfg.Precision, convey.ShouldEqual, 4)
			convey.So(cfg.Workers, convey.ShouldEqual, 1)
			convey.So(cfg.IncludeHistory, convey.ShouldBeTrue)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("GNNBOARD_HISTORY_PATH", "/data/history.csv")
			_ = os.Setenv("GNNBOARD_PRECISION", "6")
			_ = os.Setenv("GNNBOARD_WORKERS", "4")
			_ = os.Setenv("GNNBOARD_INCLUDE_HISTORY", "false")
			_ = os.Setenv("GNNBOARD_TRUTH_ENV", "PRIVATE_LABELS")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.HistoryPath, convey.ShouldEqual, "/data/history.csv")
				convey.So(cfg.Precision, convey.ShouldEqual, 6)
				convey.So(cfg.Workers, convey.ShouldEqual, 4)
				convey.So(cfg.IncludeHistory, convey.ShouldBeFalse)
				convey.So(cfg.TruthEnv, convey.ShouldEqual, "PRIVATE_LABELS")
			})
		})

		convey.Convey("When submission extensions come from the environment", func() {
			_ = os.Setenv("GNNBOARD_SUBMISSION_EXTS", ".csv, .txt,,.tsv")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then the list is split on commas", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.SubmissionExts, convey.ShouldResemble, []string{".csv", ".txt", ".tsv"})
			})
		})

		convey.Convey("When loading config with a YAML file and env overrides", func() {
			path := createTempConfigFile(t, `
submissions_dir: "incoming"
history_path: "state/history.csv"
precision: 5
`)
			_ = os.Setenv("GNNBOARD_PRECISION", "4")

			cfg, err := config.Load(ctx, path)

			convey.Convey("Then env should win over the file and the file over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.SubmissionsDir, convey.ShouldEqual, "incoming")
				convey.So(cfg.HistoryPath, convey.ShouldEqual, "state/history.csv")
				convey.So(cfg.Precision, convey.ShouldEqual, 4)
				convey.So(cfg.ReportPath, convey.ShouldEqual, "leaderboard/leaderboard.md")
			})
		})

		convey.Convey("When the file path comes from GNNBOARD_CONFIG", func() {
			path := createTempConfigFile(t, `title: "Robustness Cup"`)
			_ = os.Setenv("GNNBOARD_CONFIG", path)

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then the file is used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Title, convey.ShouldEqual, "Robustness Cup")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			path := createTempConfigFile(t, `invalid: yaml: content: [`)

			cfg, err := config.Load(ctx, path)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.Load(ctx, "/non/existent/file.yaml")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When precision is out of range", func() {
			_ = os.Setenv("GNNBOARD_PRECISION", "2")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "precision")
			})
		})

		convey.Convey("When the truth encoding is unknown", func() {
			_ = os.Setenv("GNNBOARD_TRUTH_ENCODING", "rot13")

			_, err := config.Load(ctx, "")

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a numeric env var is not a number", func() {
			_ = os.Setenv("GNNBOARD_WORKERS", "not_a_number")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"GNNBOARD_CONFIG",
		"GNNBOARD_HISTORY_PATH",
		"GNNBOARD_PRECISION",
		"GNNBOARD_WORKERS",
		"GNNBOARD_INCLUDE_HISTORY",
		"GNNBOARD_TRUTH_ENV",
		"GNNBOARD_TRUTH_ENCODING",
		"GNNBOARD_SUBMISSION_EXTS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gnnboard.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

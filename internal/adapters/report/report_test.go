package report_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/idrees11/gnn-topology-ablation/internal/adapters/report"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/model"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

var t0 = time.Date(2026, 4, 5, 6, 7, 8, 0, time.UTC)

func history() []model.Record {
	return []model.Record{
		{EventID: "e1", Participant: "alice", Mode: model.ModePaired,
			IdealSubmission: "alice_ideal.csv", PerturbedSubmission: "alice_perturbed.csv",
			F1Ideal: model.Scored(0.9), F1Perturbed: model.Scored(0.7), RobustnessGap: model.Gap(0.2), Timestamp: t0},
		{EventID: "e2", Participant: "bob", Mode: model.ModePaired,
			IdealSubmission: "bob_ideal.csv", PerturbedSubmission: "bob_perturbed.csv",
			F1Ideal: model.Unavailable(), F1Perturbed: model.Unavailable(), Timestamp: t0.Add(time.Minute)},
		{EventID: "e3", Participant: "carol", Mode: model.ModeSingle,
			IdealSubmission: "carol.csv", F1Ideal: model.Unscored("no matching IDs"), Timestamp: t0.Add(2 * time.Minute)},
		{EventID: "e4", Participant: "dave", Mode: model.ModeSingle,
			IdealSubmission: "dave.csv", F1Ideal: model.Scored(0.75), Timestamp: t0.Add(3 * time.Minute)},
	}
}

func TestMarkdown(t *testing.T) {
	Convey("Given a renderer and a history", t, func() {
		r := report.NewRenderer(report.WithTitle("Robustness Cup"))
		h := history()
		view := ranking.Derive(h)

		Convey("When rendering markdown", func() {
			md := string(r.Markdown(view, h))
			lines := strings.Split(md, "\n")

			Convey("Then the ranked table follows the layout", func() {
				So(lines[0], ShouldEqual, "# 🏆 Robustness Cup")
				So(lines[2], ShouldEqual, "| Rank | Participant | Score | F1 Ideal | F1 Perturbed | Robustness Gap | Submission | Timestamp |")
				So(lines[4], ShouldEqual, "| 1 | dave | 0.7500 | 0.7500 | - | - | dave.csv | 2026-04-05 06:10:08 UTC |")
				So(lines[5], ShouldEqual, "| 2 | alice | 0.7000 | 0.9000 | 0.7000 | 0.2000 | alice_ideal.csv + alice_perturbed.csv | 2026-04-05 06:07:08 UTC |")
			})

			Convey("Then non-numeric outcomes rank last with distinct tokens", func() {
				So(lines[6], ShouldStartWith, "| 3 | carol | Error |")
				So(lines[7], ShouldStartWith, "| 4 | bob | N/A | N/A | N/A | - |")
			})

			Convey("Then the full history follows in append order", func() {
				So(md, ShouldContainSubstring, "## Submission History")
				So(md, ShouldContainSubstring, "| 3 | carol | Error | - | - | single | carol.csv | no matching IDs | 2026-04-05 06:09:08 UTC |")
			})
		})

		Convey("When history is disabled", func() {
			md := string(report.NewRenderer(report.WithHistory(false)).Markdown(view, h))

			Convey("Then only the ranked table is written", func() {
				So(md, ShouldStartWith, "# 🏆 GNN Challenge Leaderboard\n")
				So(md, ShouldNotContainSubstring, "Submission History")
			})
		})

		Convey("When the history is empty", func() {
			md := string(r.Markdown(nil, nil))

			Convey("Then a placeholder row is written", func() {
				So(md, ShouldEndWith, "| - | - | - | - | - | - | - | - |\n")
			})
		})

		Convey("When a name contains a pipe", func() {
			odd := []model.Record{{Participant: "a|b", Mode: model.ModeSingle, F1Ideal: model.Scored(1), Timestamp: t0}}
			md := string(r.Markdown(ranking.Derive(odd), nil))

			Convey("Then it is escaped", func() {
				So(md, ShouldContainSubstring, `| a\|b |`)
			})
		})

		Convey("When rendering twice", func() {
			first := r.Markdown(ranking.Derive(h), h)
			second := r.Markdown(ranking.Derive(h), h)

			Convey("Then the output is byte-identical", func() {
				So(string(second), ShouldEqual, string(first))
			})
		})
	})
}

func TestJSON(t *testing.T) {
	Convey("Given a renderer and a history", t, func() {
		r := report.NewRenderer()
		h := history()

		Convey("When rendering the best-score view", func() {
			data, err := r.BoardJSON(ranking.Derive(h))
			So(err, ShouldBeNil)

			var got struct {
				Title   string           `json:"title"`
				Entries []map[string]any `json:"entries"`
			}
			So(json.Unmarshal(data, &got), ShouldBeNil)

			Convey("Then scores are numbers and missing values are tokens", func() {
				So(got.Entries, ShouldHaveLength, 4)
				So(got.Entries[0]["rank"], ShouldEqual, 1.0)
				So(got.Entries[0]["participant"], ShouldEqual, "dave")
				So(got.Entries[0]["f1_perturbed"], ShouldEqual, "N/A")
				So(got.Entries[1]["robustness_gap"], ShouldEqual, 0.2)
				So(got.Entries[2]["score"], ShouldEqual, "Error")
				So(got.Entries[2]["notes"], ShouldEqual, "no matching IDs")
				So(got.Entries[3]["f1_ideal"], ShouldEqual, "N/A")
			})
		})

		Convey("When the view is empty", func() {
			data, err := r.BoardJSON(nil)

			Convey("Then entries is an empty list", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `"entries": []`)
			})
		})

		Convey("When rendering a run snapshot", func() {
			data, err := r.SnapshotJSON(h[:2])
			So(err, ShouldBeNil)

			var got []map[string]any
			So(json.Unmarshal(data, &got), ShouldBeNil)

			Convey("Then every record is present without ranks", func() {
				So(got, ShouldHaveLength, 2)
				So(got[0]["f1_ideal"], ShouldEqual, 0.9)
				So(got[0]["timestamp"], ShouldEqual, "2026-04-05 06:07:08 UTC")
				So(got[1]["robustness_gap"], ShouldEqual, "N/A")
				_, ranked := got[0]["rank"]
				So(ranked, ShouldBeFalse)
			})
		})
	})
}

func TestWrite(t *testing.T) {
	Convey("Given artifact paths in a fresh directory", t, func() {
		dir := t.TempDir()
		paths := report.Paths{
			Markdown: filepath.Join(dir, "out", "leaderboard.md"),
			JSON:     filepath.Join(dir, "out", "leaderboard.json"),
			Snapshot: filepath.Join(dir, "out", "latest_scores.json"),
		}
		r := report.NewRenderer()

		Convey("When writing with a run", func() {
			view, err := r.Write(context.Background(), paths, history(), history()[:1])

			Convey("Then every artifact exists", func() {
				So(err, ShouldBeNil)
				So(view, ShouldHaveLength, 4)
				for _, p := range []string{paths.Markdown, paths.JSON, paths.Snapshot} {
					_, statErr := os.Stat(p)
					So(statErr, ShouldBeNil)
				}
			})

			Convey("Then writing again without a run changes nothing", func() {
				md1, _ := os.ReadFile(paths.Markdown)
				snap1, _ := os.ReadFile(paths.Snapshot)

				_, err := r.Write(context.Background(), paths, history(), nil)
				So(err, ShouldBeNil)

				md2, _ := os.ReadFile(paths.Markdown)
				snap2, _ := os.ReadFile(paths.Snapshot)
				So(string(md2), ShouldEqual, string(md1))
				So(string(snap2), ShouldEqual, string(snap1))
			})
		})
	})
}

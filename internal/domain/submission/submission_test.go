package submission_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/submission"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestNormalize(t *testing.T) {
	Convey("Given a normalizer and a submissions directory", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		n := submission.NewNormalizer()

		Convey("When the file uses label and graph_index with odd casing", func() {
			p := writeFile(t, dir, "alice.csv", " GRAPH_INDEX ,Label\n1,0\n2,1\n")
			st, err := n.Normalize(ctx, p)

			Convey("Then the canonical columns are resolved", func() {
				So(err, ShouldBeNil)
				So(st.Class, ShouldEqual, table.ClassLabel)
				So(st.Keys, ShouldResemble, []string{table.KeyGraphIndex})
				So(st.Source, ShouldEqual, "alice.csv")
			})
		})

		Convey("When both label and target are present", func() {
			p := writeFile(t, dir, "bob.tsv", "id\ttarget\tlabel\n1\t0\t1\n")
			st, err := n.Normalize(ctx, p)

			Convey("Then label is preferred", func() {
				So(err, ShouldBeNil)
				So(st.Class, ShouldEqual, table.ClassLabel)
				So(st.Keys, ShouldResemble, []string{table.KeyID})
			})
		})

		Convey("When the class column is missing", func() {
			p := writeFile(t, dir, "carol.csv", "graph_index,prediction\n1,0\n")
			_, err := n.Normalize(ctx, p)

			Convey("Then it is unscoreable with a missing column reason", func() {
				So(errors.Is(err, submission.ErrUnscoreable), ShouldBeTrue)
				var ue *submission.UnscoreableError
				So(errors.As(err, &ue), ShouldBeTrue)
				So(ue.Reason, ShouldEqual, submission.ReasonMissingColumn)
			})
		})

		Convey("When the key column is missing", func() {
			p := writeFile(t, dir, "dave.csv", "row,label\n1,0\n")
			_, err := n.Normalize(ctx, p)

			Convey("Then it is unscoreable with a missing column reason", func() {
				var ue *submission.UnscoreableError
				So(errors.As(err, &ue), ShouldBeTrue)
				So(ue.Reason, ShouldEqual, submission.ReasonMissingColumn)
				So(ue.Describe(), ShouldContainSubstring, "graph_index")
			})
		})

		Convey("When the file is empty", func() {
			p := writeFile(t, dir, "erin.csv", "")
			_, err := n.Normalize(ctx, p)

			Convey("Then it is unscoreable as empty", func() {
				var ue *submission.UnscoreableError
				So(errors.As(err, &ue), ShouldBeTrue)
				So(ue.Reason, ShouldEqual, submission.ReasonEmpty)
			})
		})

		Convey("When the file has a header but no data rows", func() {
			p := writeFile(t, dir, "frank.csv", "graph_index,label\n")
			_, err := n.Normalize(ctx, p)

			Convey("Then it is unscoreable with a no rows reason", func() {
				var ue *submission.UnscoreableError
				So(errors.As(err, &ue), ShouldBeTrue)
				So(ue.Reason, ShouldEqual, submission.ReasonNoRows)
				So(ue.Describe(), ShouldEqual, "no usable rows")
			})
		})

		Convey("When the file does not exist", func() {
			_, err := n.Normalize(ctx, filepath.Join(dir, "missing.csv"))

			Convey("Then it is unscoreable as unreadable", func() {
				var ue *submission.UnscoreableError
				So(errors.As(err, &ue), ShouldBeTrue)
				So(ue.Reason, ShouldEqual, submission.ReasonUnreadable)
			})
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given submission file names", t, func() {
		cases := []struct {
			path        string
			participant string
			cond        submission.Condition
		}{
			{"subs/alice_ideal.csv", "alice", submission.ConditionIdeal},
			{"subs/alice_perturbed.csv", "alice", submission.ConditionPerturbed},
			{"subs/ideal_bob.csv", "bob", submission.ConditionIdeal},
			{"subs/Perturbed_Bob.csv", "bob", submission.ConditionPerturbed},
			{"subs/Carol.csv", "carol", submission.ConditionNone},
			{"subs/team_x_IDEAL.tsv", "team_x", submission.ConditionIdeal},
			{"subs/carol.csv", "carol", submission.ConditionNone},
			{"subs/ideal.csv", "ideal", submission.ConditionNone},
			{"subs/ideal_x_perturbed.csv", "ideal_x", submission.ConditionPerturbed},
		}
		for _, c := range cases {
			f := submission.Classify(c.path)
			So(f.Participant, ShouldEqual, c.participant)
			So(f.Condition, ShouldEqual, c.cond)
		}
	})
}

func TestPlanFiles(t *testing.T) {
	Convey("Given a mixed listing", t, func() {
		plan := submission.PlanFiles([]string{
			"s/zed_perturbed.csv",
			"s/carol.csv",
			"s/alice_perturbed.csv",
			"s/ideal_alice.csv",
			"s/alice_ideal.csv",
			"s/zed_ideal.csv",
			"s/bob_ideal.csv",
		})

		Convey("Then pairs, singles and duplicates are all accounted for", func() {
			want := []submission.Pair{
				{Participant: "alice", Ideal: "s/alice_ideal.csv", Perturbed: "s/alice_perturbed.csv"},
				{Participant: "bob", Ideal: "s/bob_ideal.csv"},
				{Participant: "zed", Ideal: "s/zed_ideal.csv", Perturbed: "s/zed_perturbed.csv"},
			}
			if diff := cmp.Diff(want, plan.Pairs); diff != "" {
				t.Errorf("pairs mismatch (-want +got):\n%s", diff)
			}
			So(len(plan.Singles), ShouldEqual, 1)
			So(plan.Singles[0].Participant, ShouldEqual, "carol")
			So(len(plan.Duplicates), ShouldEqual, 1)
			So(plan.Duplicates[0].Name, ShouldEqual, "ideal_alice.csv")
			So(plan.Len(), ShouldEqual, 5)
		})
	})

	Convey("Given halves of one pair spelled with different case", t, func() {
		plan := submission.PlanFiles([]string{"s/alice_perturbed.csv", "s/Alice_ideal.csv"})

		Convey("Then they form a single complete pair", func() {
			want := []submission.Pair{
				{Participant: "alice", Ideal: "s/Alice_ideal.csv", Perturbed: "s/alice_perturbed.csv"},
			}
			if diff := cmp.Diff(want, plan.Pairs); diff != "" {
				t.Errorf("pairs mismatch (-want +got):\n%s", diff)
			}
			So(plan.Duplicates, ShouldBeEmpty)
		})
	})
}

func TestDiscover(t *testing.T) {
	Convey("Given a submissions directory", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "b.csv", "x")
		writeFile(t, dir, "a.TSV", "x")
		writeFile(t, dir, "notes.md", "x")
		writeFile(t, dir, ".hidden.csv", "x")
		So(os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755), ShouldBeNil)

		Convey("When listing with csv and tsv extensions", func() {
			paths, err := submission.Discover(dir, []string{".csv", ".tsv"})

			Convey("Then only visible submission files are returned, sorted", func() {
				So(err, ShouldBeNil)
				So(paths, ShouldResemble, []string{filepath.Join(dir, "a.TSV"), filepath.Join(dir, "b.csv")})
			})
		})

		Convey("When the directory is missing", func() {
			_, err := submission.Discover(filepath.Join(dir, "nope"), []string{".csv"})

			Convey("Then ErrNoSubmissionsDir is returned", func() {
				So(errors.Is(err, submission.ErrNoSubmissionsDir), ShouldBeTrue)
			})
		})
	})
}

// Package types contains the JSON shapes shared by the report and HTTP layers.
package types

import (
	"encoding/json"
	"time"

	"github.com/idrees11/gnn-topology-ablation/internal/domain/model"
)

// TimestampLayout is the human-readable timestamp format used in reports.
const TimestampLayout = "2006-01-02 15:04:05 UTC"

// Score is a reported metric: a rounded number, or a token when the metric
// has no value. It marshals to a JSON number or string accordingly.
type Score struct {
	Value  *float64
	Token  string
	Reason string
}

// ScoreOf converts an outcome into a reported score. Absent outcomes report
// as N/A, matching how missing numeric fields are substituted.
func ScoreOf(o model.Outcome, precision int) Score {
	switch o.Status {
	case model.StatusScored:
		v := model.Round(o.Value, precision)
		return Score{Value: &v}
	case model.StatusUnscored:
		return Score{Token: model.TokenUnscored, Reason: o.Reason}
	default:
		return Score{Token: model.TokenUnavailable}
	}
}

// GapOf converts an optional robustness gap into a reported score.
func GapOf(gap *float64, precision int) Score {
	if gap == nil {
		return Score{Token: model.TokenUnavailable}
	}
	v := model.Round(*gap, precision)
	return Score{Value: &v}
}

// MarshalJSON implements json.Marshaler.
func (s Score) MarshalJSON() ([]byte, error) {
	if s.Value != nil {
		return json.Marshal(*s.Value)
	}
	return json.Marshal(s.Token)
}

// Entry represents a leaderboard row, or a scoring event when Rank is zero.
type Entry struct {
	Rank          int    `json:"rank,omitempty"`
	Participant   string `json:"participant"`
	Score         Score  `json:"score"`
	F1Ideal       Score  `json:"f1_ideal"`
	F1Perturbed   Score  `json:"f1_perturbed"`
	RobustnessGap Score  `json:"robustness_gap"`
	Mode          string `json:"mode"`
	Submission    string `json:"submission"`
	Notes         string `json:"notes,omitempty"`
	Timestamp     string `json:"timestamp"`
	EventID       string `json:"event_id,omitempty"`
}

// EntryOf builds an unranked entry from a record.
func EntryOf(r model.Record, precision int) Entry {
	return Entry{
		Participant:   r.Participant,
		Score:         ScoreOf(r.RankScore(), precision),
		F1Ideal:       ScoreOf(r.F1Ideal, precision),
		F1Perturbed:   ScoreOf(r.F1Perturbed, precision),
		RobustnessGap: GapOf(r.RobustnessGap, precision),
		Mode:          string(r.Mode),
		Submission:    r.Submission(),
		Notes:         Notes(r),
		Timestamp:     FormatTime(r.Timestamp),
		EventID:       r.EventID,
	}
}

// Notes joins the failure reasons of a record, if any.
func Notes(r model.Record) string {
	var notes string
	add := func(label string, o model.Outcome) {
		if o.Status != model.StatusUnscored || o.Reason == "" {
			return
		}
		if notes != "" {
			notes += "; "
		}
		notes += label + o.Reason
	}
	if r.Mode == model.ModeSingle {
		add("", r.F1Ideal)
	} else {
		add("ideal: ", r.F1Ideal)
		add("perturbed: ", r.F1Perturbed)
	}
	return notes
}

// FormatTime renders a timestamp in the report layout.
func FormatTime(t time.Time) string { return t.UTC().Format(TimestampLayout) }

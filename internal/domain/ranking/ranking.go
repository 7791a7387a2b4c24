// Package ranking derives the best-score view from the full history.
//
// The view is never stored: Derive recomputes it from scratch and only ever
// returns records that exist in the history it was given.
package ranking

import (
	"sort"

	"github.com/idrees11/gnn-topology-ablation/internal/domain/model"
)

// Standing is a participant's retained record and its 1-based rank.
type Standing struct {
	Rank   int
	Record model.Record
}

// candidate is a record tagged with its history position, the final
// tie-breaker when two records of one participant are otherwise equal.
type candidate struct {
	rec model.Record
	pos int
}

// Derive selects one record per participant and orders the result for
// presentation. Within a participant the retained record has, in order, the
// highest rank score, the lowest robustness gap, the latest timestamp, and
// the later history position. The result is sorted by the same keys with the
// participant name as the last tie-breaker, and ranked 1..n without gaps.
func Derive(history []model.Record) []Standing {
	best := make(map[string]candidate)
	for i, r := range history {
		c := candidate{rec: r, pos: i}
		cur, ok := best[r.Participant]
		if !ok || better(c, cur) {
			best[r.Participant] = c
		}
	}

	view := make([]model.Record, 0, len(best))
	for _, c := range best {
		view = append(view, c.rec)
	}
	sort.Slice(view, func(i, j int) bool {
		if c := compare(view[i], view[j]); c != 0 {
			return c > 0
		}
		return view[i].Participant < view[j].Participant
	})

	out := make([]Standing, len(view))
	for i, r := range view {
		out[i] = Standing{Rank: i + 1, Record: r}
	}
	return out
}

// Top returns at most n standings; n <= 0 returns all of them.
func Top(view []Standing, n int) []Standing {
	if n <= 0 || n >= len(view) {
		return view
	}
	return view[:n]
}

// Records returns the records of view in rank order.
func Records(view []Standing) []model.Record {
	out := make([]model.Record, len(view))
	for i, s := range view {
		out[i] = s.Record
	}
	return out
}

func better(a, b candidate) bool {
	if c := compare(a.rec, b.rec); c != 0 {
		return c > 0
	}
	return a.pos > b.pos
}

// compare returns a positive number when a ranks above b, negative when
// below, and zero when the ranking keys cannot tell them apart.
func compare(a, b model.Record) int {
	if c := compareScore(a.RankScore(), b.RankScore()); c != 0 {
		return c
	}
	if c := compareGap(a.RobustnessGap, b.RobustnessGap); c != 0 {
		return c
	}
	switch {
	case a.Timestamp.After(b.Timestamp):
		return 1
	case a.Timestamp.Before(b.Timestamp):
		return -1
	}
	return 0
}

// compareScore orders any numeric score above every non-numeric outcome.
func compareScore(a, b model.Outcome) int {
	switch {
	case a.IsScored() && b.IsScored():
		return cmpFloat(a.Value, b.Value)
	case a.IsScored():
		return 1
	case b.IsScored():
		return -1
	}
	return 0
}

// compareGap prefers the smaller gap; a missing gap is the worst.
func compareGap(a, b *float64) int {
	switch {
	case a != nil && b != nil:
		return cmpFloat(*b, *a)
	case a != nil:
		return 1
	case b != nil:
		return -1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}

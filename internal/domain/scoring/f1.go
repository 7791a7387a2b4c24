package scoring

import "sort"

// ClassStats holds the confusion counts of one class treated as positive.
type ClassStats struct {
	Class string
	TP    int
	FP    int
	FN    int
}

// F1 returns the class F1, or 0 when the class has no true positives and
// no predicted or actual occurrences.
func (c ClassStats) F1() float64 {
	den := 2*c.TP + c.FP + c.FN
	if den == 0 {
		return 0
	}
	return float64(2*c.TP) / float64(den)
}

// Precision returns TP/(TP+FP), or 0 when nothing was predicted as the class.
func (c ClassStats) Precision() float64 {
	if c.TP+c.FP == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FP)
}

// Recall returns TP/(TP+FN), or 0 when the class never occurs in truth.
func (c ClassStats) Recall() float64 {
	if c.TP+c.FN == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FN)
}

// PerClass computes one-vs-rest confusion counts for every class in the union
// of yTrue and yPred, sorted by class. Slices must have equal length.
func PerClass(yTrue, yPred []string) []ClassStats {
	idx := make(map[string]int)
	var stats []ClassStats
	register := func(c string) {
		if _, ok := idx[c]; !ok {
			idx[c] = len(stats)
			stats = append(stats, ClassStats{Class: c})
		}
	}

	for i := range yTrue {
		t, p := yTrue[i], yPred[i]
		register(t)
		register(p)
		if t == p {
			stats[idx[t]].TP++
			continue
		}
		stats[idx[p]].FP++
		stats[idx[t]].FN++
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Class < stats[j].Class })
	return stats
}

// MacroF1 is the unweighted mean of per-class F1 over the union of classes.
// It returns 0 for empty input.
func MacroF1(yTrue, yPred []string) float64 {
	stats := PerClass(yTrue, yPred)
	if len(stats) == 0 {
		return 0
	}
	var sum float64
	for _, s := range stats {
		sum += s.F1()
	}
	return sum / float64(len(stats))
}

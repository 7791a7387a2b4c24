package submission

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Condition is the evaluation condition encoded in a file name.
type Condition string

const (
	ConditionNone      Condition = ""
	ConditionIdeal     Condition = "ideal"
	ConditionPerturbed Condition = "perturbed"
)

// File is a submission file classified by name.
type File struct {
	Path        string
	Name        string
	Participant string
	Condition   Condition
}

// Pair groups the files of one participant. Either path may be empty when
// that half was not submitted.
type Pair struct {
	Participant string
	Ideal       string
	Perturbed   string
}

// Plan is the outcome of pairing a directory listing. Every input file lands
// in exactly one of Pairs, Singles or Duplicates.
type Plan struct {
	Pairs      []Pair
	Singles    []File
	Duplicates []File
}

// Len returns the number of scoring events the plan produces.
func (p Plan) Len() int { return len(p.Pairs) + len(p.Singles) + len(p.Duplicates) }

// Classify strips a single condition marker from the file stem. Suffix
// markers are tried before prefix markers. Participant names are lower-cased
// so Alice_ideal.csv and alice_perturbed.csv pair up and land in one history
// group.
func Classify(path string) File {
	name := filepath.Base(path)
	stem := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
	f := File{Path: path, Name: name, Participant: stem}

	markers := []struct {
		cond   Condition
		suffix bool
		marker string
	}{
		{ConditionIdeal, true, "_ideal"},
		{ConditionPerturbed, true, "_perturbed"},
		{ConditionIdeal, false, "ideal_"},
		{ConditionPerturbed, false, "perturbed_"},
	}
	for _, m := range markers {
		if m.suffix && strings.HasSuffix(stem, m.marker) && len(stem) > len(m.marker) {
			f.Participant = stem[:len(stem)-len(m.marker)]
			f.Condition = m.cond
			return f
		}
		if !m.suffix && strings.HasPrefix(stem, m.marker) && len(stem) > len(m.marker) {
			f.Participant = stem[len(m.marker):]
			f.Condition = m.cond
			return f
		}
	}
	return f
}

// PlanFiles pairs the given paths. Paths are processed in lexical order of
// their base name so the plan is independent of listing order. When two files
// claim the same participant and condition, the first one is paired and the
// rest become Duplicates.
func PlanFiles(paths []string) Plan {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		files = append(files, Classify(p))
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	var plan Plan
	pairs := make(map[string]*Pair)
	var order []string
	for _, f := range files {
		if f.Condition == ConditionNone {
			plan.Singles = append(plan.Singles, f)
			continue
		}
		p, ok := pairs[f.Participant]
		if !ok {
			p = &Pair{Participant: f.Participant}
			pairs[f.Participant] = p
			order = append(order, f.Participant)
		}
		slot := &p.Ideal
		if f.Condition == ConditionPerturbed {
			slot = &p.Perturbed
		}
		if *slot != "" {
			plan.Duplicates = append(plan.Duplicates, f)
			continue
		}
		*slot = f.Path
	}

	sort.Strings(order)
	for _, name := range order {
		plan.Pairs = append(plan.Pairs, *pairs[name])
	}
	return plan
}

// Discover lists submission files in dir with one of the given extensions.
// Hidden files and directories are skipped.
func Discover(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoSubmissionsDir, dir)
		}
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(e)] = true
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if !allowed[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

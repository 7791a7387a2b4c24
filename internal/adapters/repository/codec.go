package repository

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/idrees11/gnn-topology-ablation/internal/domain/model"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/types"
)

// History columns. The first five are required; files written before the
// audit columns existed carry only those.
const (
	ColParticipant         = "participant"
	ColF1Ideal             = "f1_ideal"
	ColF1Perturbed         = "f1_perturbed"
	ColRobustnessGap       = "robustness_gap"
	ColTimestamp           = "timestamp"
	ColMode                = "mode"
	ColIdealSubmission     = "ideal_submission"
	ColPerturbedSubmission = "perturbed_submission"
	ColIdealReason         = "ideal_reason"
	ColPerturbedReason     = "perturbed_reason"
	ColEventID             = "event_id"
)

// Columns is the header written to new history files.
var Columns = []string{
	ColParticipant, ColF1Ideal, ColF1Perturbed, ColRobustnessGap, ColTimestamp,
	ColMode, ColIdealSubmission, ColPerturbedSubmission, ColIdealReason, ColPerturbedReason, ColEventID,
}

const requiredColumns = 5

// Outcome cells. Unscored also reads the older "Unscored" spelling.
const (
	cellUnavailable  = model.TokenUnavailable
	cellUnscored     = model.TokenUnscored
	cellUnscoredAlt  = "Unscored"
	cellAbsent       = ""
	cellAbsentLegacy = model.TokenAbsent
)

// sheet is the raw cell content of a history file. Rows are kept verbatim so
// an append never reformats what earlier runs wrote.
type sheet struct {
	header []string
	index  map[string]int
	rows   [][]string
}

func newSheet() *sheet {
	s := &sheet{header: append([]string(nil), Columns...)}
	s.reindex()
	return s
}

func (s *sheet) reindex() {
	s.index = make(map[string]int, len(s.header))
	for i, c := range s.header {
		s.index[c] = i
	}
}

// readSheet parses a history file. An empty input is an empty history.
func readSheet(r io.Reader) (*sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return newSheet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrCorruptHistory, err)
	}

	s := &sheet{header: make([]string, len(header))}
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		s.header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	s.reindex()
	for _, c := range Columns[:requiredColumns] {
		if _, ok := s.index[c]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrCorruptHistory, c)
		}
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptHistory, err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		s.rows = append(s.rows, row)
	}
	return s, nil
}

// upgrade adds any missing audit columns to the header. Existing cells keep
// their positions and text.
func (s *sheet) upgrade() {
	for _, c := range Columns {
		if _, ok := s.index[c]; !ok {
			s.header = append(s.header, c)
		}
	}
	s.reindex()
}

func (s *sheet) cell(row []string, col string) string {
	i, ok := s.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// add appends a record encoded in the sheet's column order.
func (s *sheet) add(r model.Record, precision int) {
	values := encodeRecord(r, precision)
	row := make([]string, len(s.header))
	for i, c := range Columns {
		row[s.index[c]] = values[i]
	}
	s.rows = append(s.rows, row)
}

func (s *sheet) bytes() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(s.header); err != nil {
		return nil, err
	}
	for _, row := range s.rows {
		out := row
		if len(row) < len(s.header) {
			out = make([]string, len(s.header))
			copy(out, row)
		}
		if err := w.Write(out); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// records decodes every row. A row that cannot be decoded makes the whole
// history corrupt; it is never skipped.
func (s *sheet) records() ([]model.Record, error) {
	out := make([]model.Record, 0, len(s.rows))
	for i, row := range s.rows {
		r, err := s.decodeRow(row)
		if err != nil {
			// +2: header line and 1-based numbering
			return nil, fmt.Errorf("%w: line %d: %w", ErrCorruptHistory, i+2, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *sheet) decodeRow(row []string) (model.Record, error) {
	r := model.Record{
		Participant:         s.cell(row, ColParticipant),
		IdealSubmission:     s.cell(row, ColIdealSubmission),
		PerturbedSubmission: s.cell(row, ColPerturbedSubmission),
		EventID:             s.cell(row, ColEventID),
	}
	if r.Participant == "" {
		return r, fmt.Errorf("empty participant")
	}

	var err error
	if r.Mode, err = decodeMode(s.cell(row, ColMode)); err != nil {
		return r, err
	}
	if r.F1Ideal, err = decodeOutcome(s.cell(row, ColF1Ideal), s.cell(row, ColIdealReason)); err != nil {
		return r, fmt.Errorf("%s: %w", ColF1Ideal, err)
	}
	if r.F1Perturbed, err = decodeOutcome(s.cell(row, ColF1Perturbed), s.cell(row, ColPerturbedReason)); err != nil {
		return r, fmt.Errorf("%s: %w", ColF1Perturbed, err)
	}
	if r.RobustnessGap, err = decodeGap(s.cell(row, ColRobustnessGap)); err != nil {
		return r, fmt.Errorf("%s: %w", ColRobustnessGap, err)
	}
	if r.Timestamp, err = decodeTime(s.cell(row, ColTimestamp)); err != nil {
		return r, fmt.Errorf("%s: %w", ColTimestamp, err)
	}
	return r, nil
}

func encodeRecord(r model.Record, precision int) []string {
	mode := r.Mode
	if mode == "" {
		mode = model.ModePaired
	}
	gap := ""
	if r.RobustnessGap != nil {
		gap = formatFloat(*r.RobustnessGap, precision)
	}
	return []string{
		r.Participant,
		encodeOutcome(r.F1Ideal, precision),
		encodeOutcome(r.F1Perturbed, precision),
		gap,
		r.Timestamp.UTC().Format(time.RFC3339Nano),
		string(mode),
		r.IdealSubmission,
		r.PerturbedSubmission,
		r.F1Ideal.Reason,
		r.F1Perturbed.Reason,
		r.EventID,
	}
}

func encodeOutcome(o model.Outcome, precision int) string {
	switch o.Status {
	case model.StatusScored:
		return formatFloat(o.Value, precision)
	case model.StatusUnscored:
		return cellUnscored
	case model.StatusUnavailable:
		return cellUnavailable
	default:
		return cellAbsent
	}
}

func decodeOutcome(cell, reason string) (model.Outcome, error) {
	switch cell {
	case cellAbsent, cellAbsentLegacy:
		return model.Outcome{}, nil
	case cellUnavailable:
		return model.Unavailable(), nil
	case cellUnscored, cellUnscoredAlt:
		return model.Unscored(reason), nil
	}
	v, err := parseFloat(cell)
	if err != nil {
		return model.Outcome{}, err
	}
	return model.Scored(v), nil
}

func decodeGap(cell string) (*float64, error) {
	switch cell {
	case cellAbsent, cellAbsentLegacy, cellUnavailable:
		return nil, nil
	}
	v, err := parseFloat(cell)
	if err != nil {
		return nil, err
	}
	return model.Gap(v), nil
}

func decodeMode(cell string) (model.Mode, error) {
	switch model.Mode(strings.ToLower(cell)) {
	case "", model.ModePaired:
		return model.ModePaired, nil
	case model.ModeSingle:
		return model.ModeSingle, nil
	}
	return "", fmt.Errorf("unknown mode %q", cell)
}

func decodeTime(cell string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, types.TimestampLayout} {
		if t, err := time.Parse(layout, cell); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", cell)
}

func parseFloat(cell string) (float64, error) {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a number: %q", cell)
	}
	return v, nil
}

func formatFloat(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}

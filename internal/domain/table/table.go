// Package table decodes delimited text tables and resolves the column aliases
// shared by ground truth and submissions.
//
// Alias policy, in preference order:
//   - join key: graph_index, then id
//   - truth class: target, then label
//   - submission class: label, then target
//
// Column names are compared after trimming whitespace and lower-casing.
package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Column aliases.
const (
	KeyGraphIndex = "graph_index"
	KeyID         = "id"
	ClassTarget   = "target"
	ClassLabel    = "label"
)

// KeyAliases lists join key columns in preference order.
var KeyAliases = []string{KeyGraphIndex, KeyID}

// sniffLimit bounds how much input is inspected to pick a delimiter.
const sniffLimit = 64 * 1024

// Frame is a decoded table: normalized column names and raw string cells.
type Frame struct {
	Columns []string
	Records [][]string
	index   map[string]int
}

// Decode reads a comma- or tab-delimited table with a header row. The
// delimiter is picked from the header line.
func Decode(r io.Reader) (*Frame, error) {
	br := bufio.NewReaderSize(r, sniffLimit)
	head, err := br.Peek(sniffLimit)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	cr := csv.NewReader(br)
	cr.Comma = SniffDelimiter(head)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	// Strip a UTF-8 BOM some spreadsheet exports put in front of the header.
	rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")

	f := &Frame{
		Columns: make([]string, len(rows[0])),
		Records: rows[1:],
		index:   make(map[string]int, len(rows[0])),
	}
	for i, c := range rows[0] {
		name := NormalizeColumn(c)
		f.Columns[i] = name
		if _, dup := f.index[name]; !dup {
			f.index[name] = i
		}
	}
	return f, nil
}

// SniffDelimiter returns '\t' when the first line has more tabs than commas,
// ',' otherwise.
func SniffDelimiter(head []byte) rune {
	line := head
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		line = head[:i]
	}
	if bytes.Count(line, []byte{'\t'}) > bytes.Count(line, []byte{','}) {
		return '\t'
	}
	return ','
}

// NormalizeColumn trims and lower-cases a column name.
func NormalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Has reports whether the frame carries the named column.
func (f *Frame) Has(col string) bool {
	_, ok := f.index[col]
	return ok
}

// Cell returns the value of col in record i, or "" when the record is short.
func (f *Frame) Cell(i int, col string) string {
	j, ok := f.index[col]
	if !ok || j >= len(f.Records[i]) {
		return ""
	}
	return f.Records[i][j]
}

// Len returns the number of data records.
func (f *Frame) Len() int { return len(f.Records) }

// FirstOf returns the first alias present in the frame.
func (f *Frame) FirstOf(aliases ...string) (string, bool) {
	for _, a := range aliases {
		if f.Has(a) {
			return a, true
		}
	}
	return "", false
}

// KeysPresent returns the key aliases the frame carries, in preference order.
func (f *Frame) KeysPresent() []string {
	var keys []string
	for _, k := range KeyAliases {
		if f.Has(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// ParseKey coerces a join key cell to an integer. Integral floats such as
// "3.0" are accepted; anything else fails.
func ParseKey(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if v >= 1<<63 || v < -(1<<63) {
		return 0, false
	}
	return int64(v), true
}

// CanonicalClass normalizes a class cell so that "1", " 1" and "1.0" compare
// equal. Non-numeric labels are kept as trimmed strings.
func CanonicalClass(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) && v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return strconv.FormatInt(int64(v), 10)
	}
	return s
}

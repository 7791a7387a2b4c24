// Package report renders the leaderboard artifacts: the markdown report,
// its JSON mirror, and the JSON snapshot of one scoring run.
//
// Rendering is a pure function of its inputs. Nothing time-dependent is
// written, so re-rendering an unchanged history is byte-identical.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/idrees11/gnn-topology-ablation/internal/domain/model"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/ranking"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/types"
	"github.com/idrees11/gnn-topology-ablation/pkg/logger"
)

const (
	defaultTitle     = "GNN Challenge Leaderboard"
	defaultPrecision = 4
)

var boardColumns = []string{"Rank", "Participant", "Score", "F1 Ideal", "F1 Perturbed", "Robustness Gap", "Submission", "Timestamp"}

var historyColumns = []string{"#", "Participant", "F1 Ideal", "F1 Perturbed", "Robustness Gap", "Mode", "Submission", "Notes", "Timestamp"}

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithTitle sets the report heading.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		if title != "" {
			r.title = title
		}
	}
}

// WithPrecision sets the number of decimals rendered for scores.
func WithPrecision(p int) Option {
	return func(r *Renderer) {
		if p > 0 {
			r.precision = p
		}
	}
}

// WithHistory toggles the chronological history section of the markdown.
func WithHistory(include bool) Option {
	return func(r *Renderer) { r.includeHistory = include }
}

// WithLogger sets a custom logger.
func WithLogger(lg logger.Logger) Option {
	return func(r *Renderer) {
		if lg != nil {
			r.logger = lg
		}
	}
}

// Renderer produces report artifacts.
type Renderer struct {
	title          string
	precision      int
	includeHistory bool
	logger         logger.Logger
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{title: defaultTitle, precision: defaultPrecision, includeHistory: true}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Nop()
	}
	return r
}

// Board is the JSON mirror of the best-score view.
type Board struct {
	Title   string        `json:"title"`
	Entries []types.Entry `json:"entries"`
}

// Entries converts a ranked view into report entries, keeping its ranks.
func (r *Renderer) Entries(view []ranking.Standing) []types.Entry {
	out := make([]types.Entry, len(view))
	for i, s := range view {
		e := types.EntryOf(s.Record, r.precision)
		e.Rank = s.Rank
		out[i] = e
	}
	return out
}

// Board builds the JSON best-score view.
func (r *Renderer) Board(view []ranking.Standing) Board {
	return Board{Title: r.title, Entries: r.Entries(view)}
}

// Markdown renders the ranked table and, if enabled, the full history.
func (r *Renderer) Markdown(view []ranking.Standing, history []model.Record) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# 🏆 %s\n\n", r.title)

	writeHeader(&b, boardColumns)
	if len(view) == 0 {
		dashes := make([]string, len(boardColumns))
		for i := range dashes {
			dashes[i] = model.TokenAbsent
		}
		writeRow(&b, dashes)
	}
	for _, s := range view {
		rec := s.Record
		writeRow(&b, []string{
			strconv.Itoa(s.Rank),
			rec.Participant,
			rec.RankScore().Format(r.precision),
			rec.F1Ideal.Format(r.precision),
			rec.F1Perturbed.Format(r.precision),
			r.gap(rec.RobustnessGap),
			rec.Submission(),
			types.FormatTime(rec.Timestamp),
		})
	}

	if r.includeHistory && len(history) > 0 {
		b.WriteString("\n## Submission History\n\n")
		writeHeader(&b, historyColumns)
		for i, rec := range history {
			writeRow(&b, []string{
				strconv.Itoa(i + 1),
				rec.Participant,
				rec.F1Ideal.Format(r.precision),
				rec.F1Perturbed.Format(r.precision),
				r.gap(rec.RobustnessGap),
				string(rec.Mode),
				rec.Submission(),
				types.Notes(rec),
				types.FormatTime(rec.Timestamp),
			})
		}
	}
	return b.Bytes()
}

// BoardJSON renders the JSON mirror of the best-score view.
func (r *Renderer) BoardJSON(view []ranking.Standing) ([]byte, error) {
	return marshal(r.Board(view))
}

// History converts records into unranked entries, keeping their order.
func (r *Renderer) History(records []model.Record) []types.Entry {
	entries := make([]types.Entry, len(records))
	for i, rec := range records {
		entries[i] = types.EntryOf(rec, r.precision)
	}
	return entries
}

// SnapshotJSON renders the records produced by one scoring run.
func (r *Renderer) SnapshotJSON(records []model.Record) ([]byte, error) {
	return marshal(r.History(records))
}

func (r *Renderer) gap(g *float64) string {
	if g == nil {
		return model.TokenAbsent
	}
	return strconv.FormatFloat(*g, 'f', r.precision, 64)
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return append(data, '\n'), nil
}

func writeHeader(b *bytes.Buffer, cols []string) {
	writeRow(b, cols)
	rule := make([]string, len(cols))
	for i, c := range cols {
		rule[i] = strings.Repeat("-", len(c)+2)
	}
	b.WriteString("|" + strings.Join(rule, "|") + "|\n")
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", " ")

func writeRow(b *bytes.Buffer, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" " + cellEscaper.Replace(c) + " |")
	}
	b.WriteString("\n")
}

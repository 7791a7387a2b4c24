// Package truth loads the private ground-truth label table from a secret
// payload. An absent payload is an expected state, not an error.
package truth

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/idrees11/gnn-topology-ablation/internal/domain/model"
	"github.com/idrees11/gnn-topology-ablation/internal/domain/table"
	"github.com/idrees11/gnn-topology-ablation/pkg/logger"
)

// Encoding of the payload.
type Encoding string

const (
	EncodingAuto   Encoding = "auto"
	EncodingBase64 Encoding = "base64"
	EncodingPlain  Encoding = "plain"
)

// Source supplies the raw payload. ok is false when the payload is absent.
type Source func() (payload string, ok bool)

// EnvSource reads the payload from an environment variable. An empty value
// counts as absent.
func EnvSource(name string) Source {
	return func() (string, bool) {
		v, ok := os.LookupEnv(name)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	}
}

// StaticSource returns a fixed payload; an empty string is absent.
func StaticSource(payload string) Source {
	return func() (string, bool) {
		return payload, strings.TrimSpace(payload) != ""
	}
}

// Option configures a Loader.
type Option func(*Loader)

// WithEncoding sets the payload encoding.
func WithEncoding(e Encoding) Option {
	return func(l *Loader) {
		if e != "" {
			l.encoding = Encoding(strings.ToLower(string(e)))
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// Loader decodes and validates ground truth.
type Loader struct {
	source   Source
	encoding Encoding
	logger   logger.Logger
}

// NewLoader creates a Loader reading from source.
func NewLoader(source Source, opts ...Option) *Loader {
	l := &Loader{source: source, encoding: EncodingAuto}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Nop()
	}
	return l
}

// Load returns the label table, or nil when no payload is present. A payload
// that is present but cannot be decoded, lacks a class column, lacks a key
// column, or repeats a key yields an error wrapping ErrTruthIntegrity.
func (l *Loader) Load(ctx context.Context) (*model.LabelTable, error) {
	payload, ok := l.source()
	if !ok {
		l.logger.Info(ctx, "truth payload not available; scores will be N/A")
		return nil, nil
	}

	text, err := l.decode(payload)
	if err != nil {
		return nil, err
	}

	f, err := table.Decode(bytes.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruthIntegrity, err)
	}

	class, ok := f.FirstOf(table.ClassTarget, table.ClassLabel)
	if !ok {
		return nil, fmt.Errorf("%w: payload must contain a %q or %q column", ErrTruthIntegrity, table.ClassTarget, table.ClassLabel)
	}
	keys := f.KeysPresent()
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: payload must contain a %q or %q column", ErrTruthIntegrity, table.KeyGraphIndex, table.KeyID)
	}

	lt := &model.LabelTable{Labeled: table.Labeled{Source: "truth", Frame: f, Class: class, Keys: keys}}

	// Any present key column may end up as the join key, so each must be unique.
	for _, key := range keys[1:] {
		kr, _ := lt.Keyed(key)
		if err := uniqueKeys(key, kr); err != nil {
			return nil, err
		}
	}
	rows, c := lt.Keyed(keys[0])
	if err := uniqueKeys(keys[0], rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no usable rows", ErrTruthIntegrity)
	}
	if c.Dropped() > 0 {
		l.logger.Warn(ctx, "truth rows dropped", logger.Int("bad_keys", c.BadKeys), logger.Int("empty_class", c.EmptyClass))
	}

	l.logger.Info(ctx, "truth loaded",
		logger.Int("rows", len(rows)),
		logger.String("key", keys[0]),
		logger.String("class", class),
	)
	return lt, nil
}

func uniqueKeys(key string, rows []table.Row) error {
	seen := make(map[int64]struct{}, len(rows))
	for _, r := range rows {
		if _, dup := seen[r.Key]; dup {
			return fmt.Errorf("%w: duplicate %s %d", ErrTruthIntegrity, key, r.Key)
		}
		seen[r.Key] = struct{}{}
	}
	return nil
}

func (l *Loader) decode(payload string) ([]byte, error) {
	switch l.encoding {
	case EncodingPlain:
		return []byte(payload), nil
	case EncodingBase64:
		b, err := decodeBase64(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: base64: %w", ErrTruthIntegrity, err)
		}
		if !utf8.Valid(b) {
			return nil, fmt.Errorf("%w: decoded payload is not UTF-8 text", ErrTruthIntegrity)
		}
		return b, nil
	default:
		// Commas and tabs are outside the base64 alphabet, so their presence
		// identifies an already-decoded table.
		if strings.ContainsAny(payload, ",\t") {
			return []byte(payload), nil
		}
		if b, err := decodeBase64(payload); err == nil && utf8.Valid(b) {
			return b, nil
		}
		return nil, fmt.Errorf("%w: payload is neither base64 nor delimited text", ErrTruthIntegrity)
	}
}

func decodeBase64(payload string) ([]byte, error) {
	s := strings.Join(strings.Fields(payload), "")
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}

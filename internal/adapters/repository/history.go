package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/idrees11/gnn-topology-ablation/internal/domain/model"
	"github.com/idrees11/gnn-topology-ablation/pkg/fsutil"
	"github.com/idrees11/gnn-topology-ablation/pkg/logger"
	"github.com/idrees11/gnn-topology-ablation/pkg/metrics"
)

const (
	defaultLockTimeout = 30 * time.Second
	defaultLockPoll    = 50 * time.Millisecond
	defaultPrecision   = 4
)

// FileStore keeps the history as a CSV file. Every append rewrites the whole
// file atomically while holding an exclusive advisory lock on a sibling
// ".lock" file, so concurrent processes never lose each other's rows.
type FileStore struct {
	path        string
	lockTimeout time.Duration
	lockPoll    time.Duration
	precision   int
	logger      logger.Logger

	// mu serializes appends from goroutines of one process.
	mu sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore for the history file at path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:        path,
		lockTimeout: defaultLockTimeout,
		lockPoll:    defaultLockPoll,
		precision:   defaultPrecision,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	return s
}

// Path returns the history file location.
func (s *FileStore) Path() string { return s.path }

// Load implements Store. Readers take no lock: writes replace the file by
// rename, so a reader sees either the old or the new history.
func (s *FileStore) Load(ctx context.Context) ([]model.Record, error) {
	sh, err := s.read()
	if err != nil {
		return nil, err
	}
	records, err := sh.records()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	metrics.UpdateHistoryRecords(len(records))
	s.logger.Debug(ctx, "history loaded", logger.String("path", s.path), logger.Int("records", len(records)))
	return records, nil
}

// Append implements Store. The existing file is validated before anything is
// written; a corrupt history is reported, never overwritten.
func (s *FileStore) Append(ctx context.Context, records ...model.Record) error {
	if len(records) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	sh, err := s.read()
	if err != nil {
		return err
	}
	before, err := sh.records()
	if err != nil {
		return fmt.Errorf("%s: %w", s.path, err)
	}

	sh.upgrade()
	for _, r := range records {
		sh.add(r, s.precision)
	}
	data, err := sh.bytes()
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}

	total := len(before) + len(records)
	metrics.RecordHistoryAppend(float64(time.Since(start).Milliseconds()))
	metrics.UpdateHistoryRecords(total)
	s.logger.Info(ctx, "history appended",
		logger.String("path", s.path),
		logger.Int("appended", len(records)),
		logger.Int("records", total),
	)
	return nil
}

func (s *FileStore) read() (*sheet, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return newSheet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptHistory, s.path, err)
	}
	sh, err := readSheet(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return sh, nil
}

func (s *FileStore) lockPath() string { return s.path + ".lock" }

// lock polls for the exclusive history lock until lockTimeout elapses.
func (s *FileStore) lock(ctx context.Context) (func(), error) {
	start := time.Now()
	deadline := start.Add(s.lockTimeout)
	for {
		release, ok, err := tryLock(s.lockPath())
		if err != nil {
			return nil, fmt.Errorf("lock history: %w", err)
		}
		if ok {
			metrics.RecordHistoryLockWait(float64(time.Since(start).Milliseconds()))
			return release, nil
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%w: %s held for more than %s", ErrLockTimeout, s.lockPath(), s.lockTimeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.lockPoll):
		}
	}
}

package repository

import (
	"time"

	"github.com/idrees11/gnn-topology-ablation/pkg/logger"
)

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithLockTimeout bounds how long Append waits for the history lock.
// Zero means a single attempt.
func WithLockTimeout(d time.Duration) Option {
	return func(s *FileStore) {
		if d >= 0 {
			s.lockTimeout = d
		}
	}
}

// WithLockPollInterval sets how often a busy lock is retried.
func WithLockPollInterval(d time.Duration) Option {
	return func(s *FileStore) {
		if d > 0 {
			s.lockPoll = d
		}
	}
}

// WithPrecision sets the number of decimals written for scores.
func WithPrecision(p int) Option {
	return func(s *FileStore) {
		if p > 0 {
			s.precision = p
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg logger.Logger) Option {
	return func(s *FileStore) {
		if lg != nil {
			s.logger = lg
		}
	}
}

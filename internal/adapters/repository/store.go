// Package repository persists the append-only scoring history.
package repository

import (
	"context"

	"github.com/idrees11/gnn-topology-ablation/internal/domain/model"
)

// Store provides access to the scoring history.
type Store interface {
	// Load returns every record in append order. A missing history is empty.
	Load(ctx context.Context) ([]model.Record, error)

	// Append adds records after the existing ones. Prior rows are never
	// rewritten or removed.
	Append(ctx context.Context, records ...model.Record) error
}

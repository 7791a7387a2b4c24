package model

import "github.com/idrees11/gnn-topology-ablation/internal/domain/table"

// LabelTable is the decoded ground truth. Its primary key column holds
// unique integers once unparseable rows are dropped.
type LabelTable struct {
	table.Labeled
}

// SubmissionTable is a normalized participant submission. Duplicate keys are legal.
type SubmissionTable struct {
	table.Labeled
}

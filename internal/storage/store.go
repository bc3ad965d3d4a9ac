package storage

import (
	"context"
	"time"

	"pipecheck/internal/verify"
)

// RunSummary is one row of verification history.
type RunSummary struct {
	ID        int64
	Unit      string
	UnitHash  string
	CreatedAt time.Time
	Passed    bool
	Findings  int
}

// ReportStore persists verification reports keyed by unit snapshot hash.
type ReportStore interface {
	// SaveReport stores one verification run and returns its row id.
	SaveReport(ctx context.Context, unitHash string, report *verify.Report) (int64, error)

	// GetReport retrieves a stored report by run id.
	GetReport(ctx context.Context, id int64) (*verify.Report, error)

	// ListRuns returns the verification history, newest first.
	ListRuns(ctx context.Context) ([]RunSummary, error)

	Close() error
}

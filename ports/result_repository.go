package ports

import (
	"context"

	"fdrtidy/domain/core"
	"fdrtidy/domain/fdr"
)

// ResultRepository stores computed q-value results
type ResultRepository interface {
	// Save stores res, assigning an ID and creation time when unset
	Save(ctx context.Context, res *fdr.Result) (core.ResultID, error)
	// Get returns the stored result or an error wrapping core.ErrResultNotFound
	Get(ctx context.Context, id core.ResultID) (*fdr.Result, error)
	List(ctx context.Context, filters ResultFilters) ([]ResultSummary, error)
	Delete(ctx context.Context, id core.ResultID) error
}

// ResultFilters for listing results
type ResultFilters struct {
	Label  string
	Limit  int
	Offset int
}

// ResultSummary is the list view of a stored result
type ResultSummary struct {
	ID        core.ResultID  `json:"id" db:"id"`
	Label     string         `json:"label" db:"label"`
	Records   int            `json:"records" db:"records"`
	Smoothed  bool           `json:"smoothed" db:"smoothed"`
	CreatedAt core.Timestamp `json:"created_at" db:"created_at"`
}

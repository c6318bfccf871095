package memory

import (
	"context"
	"sort"
	"sync"

	"fdrtidy/domain/core"
	"fdrtidy/domain/fdr"
	"fdrtidy/ports"
)

// ResultRepository keeps results in process memory
type ResultRepository struct {
	results map[core.ResultID]*fdr.Result
	mu      sync.RWMutex
}

// NewResultRepository creates an empty in-memory result repository
func NewResultRepository() *ResultRepository {
	return &ResultRepository{
		results: make(map[core.ResultID]*fdr.Result),
	}
}

var _ ports.ResultRepository = (*ResultRepository)(nil)

// Save stores a copy of res
func (r *ResultRepository) Save(ctx context.Context, res *fdr.Result) (core.ResultID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stored := res.Clone()
	if stored.ID.IsEmpty() {
		stored.ID = core.NewResultID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = core.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[stored.ID] = stored

	return stored.ID, nil
}

// Get returns a copy of the stored result
func (r *ResultRepository) Get(ctx context.Context, id core.ResultID) (*fdr.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.results[id]
	if !ok {
		return nil, core.NewResultNotFoundError(id)
	}
	return res.Clone(), nil
}

// List returns summaries newest first
func (r *ResultRepository) List(ctx context.Context, filters ports.ResultFilters) ([]ports.ResultSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	summaries := make([]ports.ResultSummary, 0, len(r.results))
	for _, res := range r.results {
		if filters.Label != "" && res.Label != filters.Label {
			continue
		}
		summaries = append(summaries, ports.ResultSummary{
			ID:        res.ID,
			Label:     res.Label,
			Records:   len(res.PValues),
			Smoothed:  res.HasSmoothing(),
			CreatedAt: res.CreatedAt,
		})
	}
	r.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return b.CreatedAt.Before(a.CreatedAt)
		}
		return a.ID < b.ID
	})

	if filters.Offset > 0 {
		if filters.Offset >= len(summaries) {
			return []ports.ResultSummary{}, nil
		}
		summaries = summaries[filters.Offset:]
	}
	if filters.Limit > 0 && filters.Limit < len(summaries) {
		summaries = summaries[:filters.Limit]
	}
	return summaries, nil
}

// Delete removes a stored result
func (r *ResultRepository) Delete(ctx context.Context, id core.ResultID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.results[id]; !ok {
		return core.NewResultNotFoundError(id)
	}
	delete(r.results, id)
	return nil
}

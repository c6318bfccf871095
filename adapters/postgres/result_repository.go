package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"fdrtidy/domain/core"
	"fdrtidy/domain/fdr"
	"fdrtidy/ports"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultListLimit = 100

// DB is the subset of *sqlx.DB the repository uses
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// ResultRepository stores q-value results in PostgreSQL
type ResultRepository struct {
	db DB
}

// NewResultRepository creates a new PostgreSQL result repository
func NewResultRepository(db DB) *ResultRepository {
	return &ResultRepository{db: db}
}

var _ ports.ResultRepository = (*ResultRepository)(nil)

// jsonSeq stores an optional float sequence as JSONB; SQL NULL is an absent field
type jsonSeq struct {
	vals  []float64
	valid bool
}

func seqOf(vals []float64) jsonSeq {
	return jsonSeq{vals: vals, valid: vals != nil}
}

func (s jsonSeq) Value() (driver.Value, error) {
	if !s.valid {
		return nil, nil
	}
	return json.Marshal(s.vals)
}

func (s *jsonSeq) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*s = jsonSeq{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into float sequence", src)
	}

	var vals []float64
	if err := json.Unmarshal(data, &vals); err != nil {
		return fmt.Errorf("failed to unmarshal float sequence: %w", err)
	}
	if vals == nil {
		vals = []float64{}
	}
	*s = jsonSeq{vals: vals, valid: true}
	return nil
}

func (s jsonSeq) slice() []float64 {
	if !s.valid {
		return nil
	}
	return s.vals
}

type resultRow struct {
	ID        string          `db:"id"`
	Label     string          `db:"label"`
	CreatedAt time.Time       `db:"created_at"`
	PValues   jsonSeq         `db:"pvalues"`
	QValues   jsonSeq         `db:"qvalues"`
	LFDR      jsonSeq         `db:"lfdr"`
	Lambda    jsonSeq         `db:"lambda"`
	Pi0Lambda jsonSeq         `db:"pi0_lambda"`
	Pi0Smooth jsonSeq         `db:"pi0_smooth"`
	Pi0       sql.NullFloat64 `db:"pi0"`
}

func (row *resultRow) toResult() *fdr.Result {
	res := &fdr.Result{
		ID:        core.ResultID(row.ID),
		Label:     row.Label,
		CreatedAt: core.NewTimestamp(row.CreatedAt),
		PValues:   row.PValues.slice(),
		QValues:   row.QValues.slice(),
		LFDR:      row.LFDR.slice(),
		Lambda:    row.Lambda.slice(),
		Pi0Lambda: row.Pi0Lambda.slice(),
		Pi0Smooth: row.Pi0Smooth.slice(),
	}
	if row.Pi0.Valid {
		res.Pi0 = fdr.Float(row.Pi0.Float64)
	}
	return res
}

type summaryRow struct {
	ID        string    `db:"id"`
	Label     string    `db:"label"`
	Records   int       `db:"records"`
	Smoothed  bool      `db:"smoothed"`
	CreatedAt time.Time `db:"created_at"`
}

// Save upserts a result, assigning an ID and creation time when unset
func (r *ResultRepository) Save(ctx context.Context, res *fdr.Result) (core.ResultID, error) {
	id := res.ID
	if id.IsEmpty() {
		id = core.NewResultID()
	}
	createdAt := res.CreatedAt
	if createdAt.IsZero() {
		createdAt = core.Now()
	}

	var pi0 sql.NullFloat64
	if res.Pi0 != nil {
		pi0 = sql.NullFloat64{Float64: *res.Pi0, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO fdr_results (id, label, created_at, pvalues, qvalues, lfdr, lambda, pi0_lambda, pi0_smooth, pi0)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			label = EXCLUDED.label,
			pvalues = EXCLUDED.pvalues,
			qvalues = EXCLUDED.qvalues,
			lfdr = EXCLUDED.lfdr,
			lambda = EXCLUDED.lambda,
			pi0_lambda = EXCLUDED.pi0_lambda,
			pi0_smooth = EXCLUDED.pi0_smooth,
			pi0 = EXCLUDED.pi0
	`, id.String(), res.Label, createdAt.Time(),
		seqOf(res.PValues), seqOf(res.QValues), seqOf(res.LFDR),
		seqOf(res.Lambda), seqOf(res.Pi0Lambda), seqOf(res.Pi0Smooth), pi0)
	if err != nil {
		return "", fmt.Errorf("failed to save result: %w", err)
	}

	return id, nil
}

// Get retrieves a result by ID
func (r *ResultRepository) Get(ctx context.Context, id core.ResultID) (*fdr.Result, error) {
	var row resultRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, label, created_at, pvalues, qvalues, lfdr, lambda, pi0_lambda, pi0_smooth, pi0
		FROM fdr_results
		WHERE id = $1
	`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewResultNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	return row.toResult(), nil
}

// List returns stored results, newest first
func (r *ResultRepository) List(ctx context.Context, filters ports.ResultFilters) ([]ports.ResultSummary, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var rows []summaryRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, label, created_at,
			COALESCE(jsonb_array_length(pvalues), 0) AS records,
			pi0_smooth IS NOT NULL AS smoothed
		FROM fdr_results
		WHERE ($1 = '' OR label = $1)
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`, filters.Label, limit, filters.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	summaries := make([]ports.ResultSummary, len(rows))
	for i, row := range rows {
		summaries[i] = ports.ResultSummary{
			ID:        core.ResultID(row.ID),
			Label:     row.Label,
			Records:   row.Records,
			Smoothed:  row.Smoothed,
			CreatedAt: core.NewTimestamp(row.CreatedAt),
		}
	}
	return summaries, nil
}

// Delete removes a result
func (r *ResultRepository) Delete(ctx context.Context, id core.ResultID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fdr_results WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return core.NewResultNotFoundError(id)
	}
	return nil
}

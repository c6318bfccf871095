// Package tidy reshapes q-value results into sweep, record and summary tables.
package tidy

import (
	"fmt"

	"fdrtidy/domain/core"
	"fdrtidy/domain/fdr"
	"fdrtidy/domain/table"
	"fdrtidy/ports"

	"gonum.org/v1/gonum/floats"
)

// Output column names. They are part of the public table contract.
const (
	ColLambda   = "lambda"
	ColPi0      = "pi0"
	ColSmoothed = "smoothed"
	ColPValue   = "p.value"
	ColQValue   = "q.value"
	ColLFDR     = "lfdr"
)

var _ ports.Tabulator = (*QValueTabulator)(nil)

// QValueTabulator tabulates q-value results. It holds no state and is safe
// for concurrent use on results that are not being modified.
type QValueTabulator struct{}

// NewQValueTabulator creates a new q-value tabulator
func NewQValueTabulator() *QValueTabulator {
	return &QValueTabulator{}
}

// Sweep stacks the raw pi0 estimates (smoothed=false) and, when present, the
// smoothed curve (smoothed=true) against lambda in long format.
func (t *QValueTabulator) Sweep(res *fdr.Result, flavor table.Flavor) (table.Table, error) {
	lambda, err := res.RequireLambda()
	if err != nil {
		return nil, err
	}
	n := len(lambda)

	lambdaCol := table.NumberColumn(ColLambda, lambda)
	pi0Col := estimateColumn(res.Pi0Lambda, n)
	smoothedCol := table.RepeatBool(ColSmoothed, false, n)

	if res.HasSmoothing() {
		if lambdaCol, err = table.Concat(ColLambda, lambdaCol, lambdaCol); err != nil {
			return nil, err
		}
		if pi0Col, err = table.Concat(ColPi0, pi0Col, table.NumberColumn(ColPi0, res.Pi0Smooth)); err != nil {
			return nil, err
		}
		if smoothedCol, err = table.Concat(ColSmoothed, smoothedCol, table.RepeatBool(ColSmoothed, true, n)); err != nil {
			return nil, err
		}
	}

	return table.Finish(table.NewFrame(lambdaCol, pi0Col, smoothedCol), flavor)
}

// Records joins per-record p-values, q-values and lfdr with caller columns.
// Auxiliary columns come first and, like every earlier column, win over a
// later column of the same name.
func (t *QValueTabulator) Records(res *fdr.Result, opts ports.RecordOptions, flavor table.Flavor) (table.Table, error) {
	pvalues, err := res.RequirePValues()
	if err != nil {
		return nil, err
	}
	qvalues, err := res.RequireQValues()
	if err != nil {
		return nil, err
	}
	lfdr, err := res.RequireLFDR()
	if err != nil {
		return nil, err
	}
	n := len(pvalues)

	cols := []table.Column{
		table.NumberColumn(ColPValue, pvalues),
		table.NumberColumn(ColQValue, qvalues),
		table.NumberColumn(ColLFDR, lfdr),
	}
	for _, extra := range opts.Extra {
		if opts.StrictRows && extra.Len() != n && extra.Len() != 1 {
			return nil, core.NewRowCountError(fmt.Sprintf("extra column %q", extra.Name), extra.Len(), n)
		}
		cols = append(cols, extra.Recycle(n))
	}

	frame := table.NewFrame(cols...)
	if opts.Aux != nil {
		if opts.StrictRows && opts.Aux.NumRows() != n {
			return nil, core.NewRowCountError("auxiliary table", opts.Aux.NumRows(), n)
		}
		frame = opts.Aux.Bind(frame)
	}

	return table.Finish(frame.DedupeColumns(), flavor)
}

// Summary reports pi0 and the lambda it was chosen at. The lambda is found by
// exact match of pi0 in the smoothed curve, or in the raw estimates when there
// is no smoothing, and is missing when nothing matches.
func (t *QValueTabulator) Summary(res *fdr.Result, flavor table.Flavor) (table.Table, error) {
	pi0, err := res.RequirePi0()
	if err != nil {
		return nil, err
	}
	lambda, err := res.RequireLambda()
	if err != nil {
		return nil, err
	}

	chosen := table.NAColumn(ColLambda, table.KindNumber, 1)
	if i, ok := firstExact(res.Pi0Source(), pi0); ok && i < len(lambda) {
		chosen = table.NumberColumn(ColLambda, []float64{lambda[i]})
	}

	return table.Finish(table.NewFrame(table.NumberColumn(ColPi0, []float64{pi0}), chosen), flavor)
}

func estimateColumn(estimates []float64, n int) table.Column {
	if estimates == nil {
		return table.NAColumn(ColPi0, table.KindNumber, n)
	}
	return table.NumberColumn(ColPi0, estimates)
}

func firstExact(seq []float64, target float64) (int, bool) {
	if len(seq) == 0 {
		return 0, false
	}
	// Find reports an error when fewer than k matches exist; an empty result says the same
	inds, _ := floats.Find(nil, func(v float64) bool { return v == target }, seq, 1)
	if len(inds) == 0 {
		return 0, false
	}
	return inds[0], true
}

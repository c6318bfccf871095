// Package fdr models the q-value result object produced by an external
// false discovery rate estimation.
package fdr

import (
	"fmt"

	"fdrtidy/domain/core"
)

// Field names as they appear in result documents and error messages
const (
	FieldPValues   = "pvalues"
	FieldQValues   = "qvalues"
	FieldLFDR      = "lfdr"
	FieldLambda    = "lambda"
	FieldPi0Lambda = "pi0_lambda"
	FieldPi0Smooth = "pi0_smooth"
	FieldPi0       = "pi0"
)

// Result is a computed q-value analysis. A nil slice or pointer means the
// field was never supplied; an empty slice is a supplied field with no values.
type Result struct {
	ID        core.ResultID
	Label     string
	CreatedAt core.Timestamp

	PValues   []float64
	QValues   []float64
	LFDR      []float64
	Lambda    []float64
	Pi0Lambda []float64
	Pi0Smooth []float64
	Pi0       *float64
}

// RequirePValues returns the per-record p-values
func (r *Result) RequirePValues() ([]float64, error) {
	return requireSeq(r.PValues, FieldPValues)
}

// RequireQValues returns the per-record q-values
func (r *Result) RequireQValues() ([]float64, error) {
	return requireSeq(r.QValues, FieldQValues)
}

// RequireLFDR returns the per-record local false discovery rates
func (r *Result) RequireLFDR() ([]float64, error) {
	return requireSeq(r.LFDR, FieldLFDR)
}

// RequireLambda returns the tuning parameter sweep
func (r *Result) RequireLambda() ([]float64, error) {
	return requireSeq(r.Lambda, FieldLambda)
}

// RequirePi0 returns the chosen proportion of true nulls
func (r *Result) RequirePi0() (float64, error) {
	if r.Pi0 == nil {
		return 0, core.NewMissingFieldError(FieldPi0)
	}
	return *r.Pi0, nil
}

// HasPi0Lambda reports whether raw pi0 estimates per lambda were supplied
func (r *Result) HasPi0Lambda() bool { return r.Pi0Lambda != nil }

// HasSmoothing reports whether a smoothed pi0 curve was supplied
func (r *Result) HasSmoothing() bool { return r.Pi0Smooth != nil }

// Pi0Source returns the sequence pi0 was chosen from: the smoothed curve when
// present, the raw estimates otherwise. It is nil when neither exists.
func (r *Result) Pi0Source() []float64 {
	if r.HasSmoothing() {
		return r.Pi0Smooth
	}
	return r.Pi0Lambda
}

// Check lists violations of the length and range invariants. Tabulation does
// not depend on it; callers use it to warn about inconsistent inputs.
func (r *Result) Check() []string {
	var issues []string

	if r.PValues != nil {
		n := len(r.PValues)
		if r.QValues != nil && len(r.QValues) != n {
			issues = append(issues, fmt.Sprintf("qvalues has %d values, pvalues has %d", len(r.QValues), n))
		}
		if r.LFDR != nil && len(r.LFDR) != n {
			issues = append(issues, fmt.Sprintf("lfdr has %d values, pvalues has %d", len(r.LFDR), n))
		}
	}

	if r.Lambda != nil {
		n := len(r.Lambda)
		if r.Pi0Lambda != nil && len(r.Pi0Lambda) != n {
			issues = append(issues, fmt.Sprintf("pi0_lambda has %d values, lambda has %d", len(r.Pi0Lambda), n))
		}
		if r.Pi0Smooth != nil && len(r.Pi0Smooth) != n {
			issues = append(issues, fmt.Sprintf("pi0_smooth has %d values, lambda has %d", len(r.Pi0Smooth), n))
		}
		for _, l := range r.Lambda {
			if l < 0 || l >= 1 {
				issues = append(issues, fmt.Sprintf("lambda value %g outside [0,1)", l))
				break
			}
		}
	}

	for _, seq := range []struct {
		name string
		vals []float64
	}{
		{FieldPValues, r.PValues},
		{FieldQValues, r.QValues},
		{FieldLFDR, r.LFDR},
	} {
		for _, v := range seq.vals {
			if v < 0 || v > 1 {
				issues = append(issues, fmt.Sprintf("%s value %g outside [0,1]", seq.name, v))
				break
			}
		}
	}

	return issues
}

// Clone returns a deep copy that shares no memory with r
func (r *Result) Clone() *Result {
	out := &Result{
		ID:        r.ID,
		Label:     r.Label,
		CreatedAt: r.CreatedAt,
		PValues:   cloneSeq(r.PValues),
		QValues:   cloneSeq(r.QValues),
		LFDR:      cloneSeq(r.LFDR),
		Lambda:    cloneSeq(r.Lambda),
		Pi0Lambda: cloneSeq(r.Pi0Lambda),
		Pi0Smooth: cloneSeq(r.Pi0Smooth),
	}
	if r.Pi0 != nil {
		pi0 := *r.Pi0
		out.Pi0 = &pi0
	}
	return out
}

// Float returns a pointer to f, for filling Pi0 in literals
func Float(f float64) *float64 {
	return &f
}

func requireSeq(vals []float64, field string) ([]float64, error) {
	if vals == nil {
		return nil, core.NewMissingFieldError(field)
	}
	return vals, nil
}

func cloneSeq(vals []float64) []float64 {
	if vals == nil {
		return nil
	}
	return append(make([]float64, 0, len(vals)), vals...)
}

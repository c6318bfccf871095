package tidy

import (
	"errors"
	"testing"

	"fdrtidy/domain/core"
	"fdrtidy/domain/fdr"
	"fdrtidy/domain/table"
	"fdrtidy/ports"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsmoothedResult() *fdr.Result {
	return &fdr.Result{
		PValues:   []float64{0.01, 0.5, 0.8},
		QValues:   []float64{0.03, 0.6, 0.8},
		LFDR:      []float64{0.02, 0.55, 0.79},
		Lambda:    []float64{0.1, 0.2, 0.3},
		Pi0Lambda: []float64{0.9, 0.8, 0.95},
		Pi0:       fdr.Float(0.8),
	}
}

func smoothedResult() *fdr.Result {
	res := unsmoothedResult()
	res.Pi0Smooth = []float64{0.85, 0.8, 0.9}
	return res
}

// cells renders a table as text for whole-table comparisons
func cells(t table.Table) [][]string {
	out := [][]string{t.Names()}
	for i := 0; i < t.NumRows(); i++ {
		var row []string
		for _, v := range t.Row(i).Values() {
			row = append(row, v.String())
		}
		out = append(out, row)
	}
	return out
}

func TestSweep(t *testing.T) {
	tab := NewQValueTabulator()

	t.Run("without smoothing", func(t *testing.T) {
		out, err := tab.Sweep(unsmoothedResult(), table.FlavorRows)
		require.NoError(t, err)

		want := [][]string{
			{"lambda", "pi0", "smoothed"},
			{"0.1", "0.9", "false"},
			{"0.2", "0.8", "false"},
			{"0.3", "0.95", "false"},
		}
		if diff := cmp.Diff(want, cells(out)); diff != "" {
			t.Errorf("sweep table mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, []table.Kind{table.KindNumber, table.KindNumber, table.KindBool}, out.Kinds())
	})

	t.Run("with smoothing", func(t *testing.T) {
		out, err := tab.Sweep(smoothedResult(), table.FlavorRows)
		require.NoError(t, err)

		want := [][]string{
			{"lambda", "pi0", "smoothed"},
			{"0.1", "0.9", "false"},
			{"0.2", "0.8", "false"},
			{"0.3", "0.95", "false"},
			{"0.1", "0.85", "true"},
			{"0.2", "0.8", "true"},
			{"0.3", "0.9", "true"},
		}
		if diff := cmp.Diff(want, cells(out)); diff != "" {
			t.Errorf("sweep table mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("raw estimates absent", func(t *testing.T) {
		res := unsmoothedResult()
		res.Pi0Lambda = nil

		out, err := tab.Sweep(res, table.FlavorPlain)
		require.NoError(t, err)
		assert.Equal(t, 3, out.NumRows())
		pi0, ok := out.Column(ColPi0)
		require.True(t, ok)
		assert.Equal(t, []bool{true, true, true}, pi0.Missing())
	})

	t.Run("missing lambda", func(t *testing.T) {
		res := unsmoothedResult()
		res.Lambda = nil
		_, err := tab.Sweep(res, table.FlavorRows)
		assertMissing(t, err, fdr.FieldLambda)
	})
}

func TestSweepRowCounts(t *testing.T) {
	tab := NewQValueTabulator()

	for _, l := range []int{0, 1, 5, 20} {
		lambda := make([]float64, l)
		est := make([]float64, l)
		for i := range lambda {
			lambda[i] = float64(i) / float64(l+1)
			est[i] = 1 - lambda[i]/2
		}

		plain := &fdr.Result{Lambda: lambda, Pi0Lambda: est}
		out, err := tab.Sweep(plain, table.FlavorColumnar)
		require.NoError(t, err)
		assert.Equal(t, l, out.NumRows())
		flags, _, ok := out.(*table.ColumnarTable).Bools(ColSmoothed)
		require.True(t, ok)
		for _, f := range flags {
			assert.False(t, f)
		}

		smoothed := &fdr.Result{Lambda: lambda, Pi0Lambda: est, Pi0Smooth: est}
		out, err = tab.Sweep(smoothed, table.FlavorColumnar)
		require.NoError(t, err)
		assert.Equal(t, 2*l, out.NumRows())
		flags, _, _ = out.(*table.ColumnarTable).Bools(ColSmoothed)
		trues := 0
		for _, f := range flags {
			if f {
				trues++
			}
		}
		assert.Equal(t, l, trues)
	}
}

func TestRecords(t *testing.T) {
	tab := NewQValueTabulator()

	t.Run("pass through", func(t *testing.T) {
		out, err := tab.Records(unsmoothedResult(), ports.RecordOptions{}, table.FlavorRows)
		require.NoError(t, err)

		want := [][]string{
			{"p.value", "q.value", "lfdr"},
			{"0.01", "0.03", "0.02"},
			{"0.5", "0.6", "0.55"},
			{"0.8", "0.8", "0.79"},
		}
		if diff := cmp.Diff(want, cells(out)); diff != "" {
			t.Errorf("record table mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("auxiliary columns first", func(t *testing.T) {
		aux := table.NewFrame(
			table.StringColumn("gene", []string{"BRCA1", "TP53", "EGFR"}),
			table.NumberColumn("logFC", []float64{1.5, -0.2, 0.1}),
		)
		out, err := tab.Records(unsmoothedResult(), ports.RecordOptions{Aux: aux}, table.FlavorRows)
		require.NoError(t, err)
		assert.Equal(t, []string{"gene", "logFC", "p.value", "q.value", "lfdr"}, out.Names())
		assert.Equal(t, 3, out.NumRows())

		gene, _ := out.Row(1).Get("gene")
		assert.Equal(t, "TP53", gene.Str)
	})

	t.Run("auxiliary p.value wins", func(t *testing.T) {
		aux := table.NewFrame(table.NumberColumn(ColPValue, []float64{0.11, 0.22, 0.33}))
		out, err := tab.Records(unsmoothedResult(), ports.RecordOptions{Aux: aux}, table.FlavorColumnar)
		require.NoError(t, err)
		assert.Equal(t, []string{"p.value", "q.value", "lfdr"}, out.Names())

		p, _, ok := out.(*table.ColumnarTable).Float64s(ColPValue)
		require.True(t, ok)
		assert.Equal(t, []float64{0.11, 0.22, 0.33}, p)
	})

	t.Run("extra columns", func(t *testing.T) {
		opts := ports.RecordOptions{Extra: []table.Column{
			table.StringColumn("batch", []string{"b1"}),
			table.NumberColumn("rank", []float64{1, 2, 3}),
			table.NumberColumn(ColLFDR, []float64{9, 9, 9}),
		}}
		out, err := tab.Records(unsmoothedResult(), opts, table.FlavorPlain)
		require.NoError(t, err)
		assert.Equal(t, []string{"p.value", "q.value", "lfdr", "batch", "rank"}, out.Names())

		batch, ok := out.Column("batch")
		require.True(t, ok)
		assert.Equal(t, []string{"b1", "b1", "b1"}, batch.Strings())
		lfdr, _ := out.Column(ColLFDR)
		assert.Equal(t, []float64{0.02, 0.55, 0.79}, lfdr.Numbers())
	})

	t.Run("mismatched auxiliary rows are permissive", func(t *testing.T) {
		aux := table.NewFrame(table.StringColumn("gene", []string{"a", "b"}))
		out, err := tab.Records(unsmoothedResult(), ports.RecordOptions{Aux: aux}, table.FlavorRows)
		require.NoError(t, err)
		assert.Equal(t, 3, out.NumRows())
		gene, _ := out.Row(2).Get("gene")
		assert.True(t, gene.NA)
	})

	t.Run("strict rows", func(t *testing.T) {
		aux := table.NewFrame(table.StringColumn("gene", []string{"a", "b"}))
		_, err := tab.Records(unsmoothedResult(), ports.RecordOptions{Aux: aux, StrictRows: true}, table.FlavorRows)
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrRowCountMismatch))

		opts := ports.RecordOptions{
			Extra:      []table.Column{table.NumberColumn("w", []float64{1, 2})},
			StrictRows: true,
		}
		_, err = tab.Records(unsmoothedResult(), opts, table.FlavorRows)
		assert.True(t, errors.Is(err, core.ErrRowCountMismatch))

		opts.Extra = []table.Column{table.NumberColumn("w", []float64{1})}
		_, err = tab.Records(unsmoothedResult(), opts, table.FlavorRows)
		assert.NoError(t, err)
	})

	t.Run("missing fields", func(t *testing.T) {
		for field, clear := range map[string]func(*fdr.Result){
			fdr.FieldPValues: func(r *fdr.Result) { r.PValues = nil },
			fdr.FieldQValues: func(r *fdr.Result) { r.QValues = nil },
			fdr.FieldLFDR:    func(r *fdr.Result) { r.LFDR = nil },
		} {
			res := unsmoothedResult()
			clear(res)
			_, err := tab.Records(res, ports.RecordOptions{}, table.FlavorRows)
			assertMissing(t, err, field)
		}
	})

	t.Run("input is not aliased", func(t *testing.T) {
		res := unsmoothedResult()
		out, err := tab.Records(res, ports.RecordOptions{}, table.FlavorPlain)
		require.NoError(t, err)
		res.PValues[0] = 0.99

		p, _ := out.Column(ColPValue)
		assert.Equal(t, 0.01, p.Numbers()[0])
	})
}

func TestSummary(t *testing.T) {
	tab := NewQValueTabulator()

	lambdaOf := func(t *testing.T, out table.Table) table.Value {
		t.Helper()
		require.Equal(t, 1, out.NumRows())
		require.Equal(t, []string{"pi0", "lambda"}, out.Names())
		v, ok := out.Row(0).Get(ColLambda)
		require.True(t, ok)
		return v
	}

	t.Run("raw estimates", func(t *testing.T) {
		out, err := tab.Summary(unsmoothedResult(), table.FlavorRows)
		require.NoError(t, err)
		pi0, _ := out.Row(0).Get(ColPi0)
		assert.Equal(t, 0.8, pi0.Num)
		assert.Equal(t, 0.2, lambdaOf(t, out).Num)
	})

	t.Run("resolved against smoothed curve", func(t *testing.T) {
		res := smoothedResult()
		res.Pi0Lambda = []float64{0.8, 0.7, 0.6}
		out, err := tab.Summary(res, table.FlavorRows)
		require.NoError(t, err)
		assert.Equal(t, 0.2, lambdaOf(t, out).Num)
	})

	t.Run("first match wins", func(t *testing.T) {
		res := unsmoothedResult()
		res.Pi0Lambda = []float64{0.9, 0.8, 0.8}
		out, err := tab.Summary(res, table.FlavorRows)
		require.NoError(t, err)
		assert.Equal(t, 0.2, lambdaOf(t, out).Num)
	})

	t.Run("capped pi0 without match", func(t *testing.T) {
		res := unsmoothedResult()
		res.Pi0 = fdr.Float(1.0)
		out, err := tab.Summary(res, table.FlavorRows)
		require.NoError(t, err)
		assert.True(t, lambdaOf(t, out).NA)
		pi0, _ := out.Row(0).Get(ColPi0)
		assert.Equal(t, 1.0, pi0.Num)
	})

	t.Run("no estimate sequences", func(t *testing.T) {
		res := unsmoothedResult()
		res.Pi0Lambda = nil
		out, err := tab.Summary(res, table.FlavorRows)
		require.NoError(t, err)
		assert.True(t, lambdaOf(t, out).NA)
	})

	t.Run("missing pi0", func(t *testing.T) {
		res := unsmoothedResult()
		res.Pi0 = nil
		_, err := tab.Summary(res, table.FlavorRows)
		assertMissing(t, err, fdr.FieldPi0)
	})
}

func TestIdempotent(t *testing.T) {
	tab := NewQValueTabulator()
	res := smoothedResult()
	aux := table.NewFrame(table.StringColumn("gene", []string{"a", "b", "c"}))

	calls := map[string]func() (table.Table, error){
		"sweep":   func() (table.Table, error) { return tab.Sweep(res, table.FlavorRows) },
		"records": func() (table.Table, error) { return tab.Records(res, ports.RecordOptions{Aux: aux}, table.FlavorRows) },
		"summary": func() (table.Table, error) { return tab.Summary(res, table.FlavorRows) },
	}

	for name, call := range calls {
		first, err := call()
		require.NoError(t, err, name)
		second, err := call()
		require.NoError(t, err, name)
		assert.Equal(t, table.Fingerprint(first), table.Fingerprint(second), name)
	}
}

func TestUnknownFlavor(t *testing.T) {
	_, err := NewQValueTabulator().Summary(unsmoothedResult(), table.Flavor("xml"))
	assert.True(t, errors.Is(err, core.ErrUnknownFlavor))
}

func assertMissing(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var mf *core.MissingFieldError
	require.True(t, errors.As(err, &mf), "expected MissingFieldError, got %v", err)
	assert.Equal(t, field, mf.Field)
}

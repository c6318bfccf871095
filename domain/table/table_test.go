package table

import (
	"errors"
	"math"
	"testing"

	"fdrtidy/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFrame() *Frame {
	return NewFrame(
		NumberColumn("lambda", []float64{0.1, 0.2}),
		NullableNumberColumn("pi0", []float64{0.9, 0}, []bool{false, true}),
		BoolColumn("smoothed", []bool{false, true}),
		StringColumn("gene", []string{"a", "b"}),
	).WithRowNames([]string{"r1", "r2"})
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "0.1", Number(0.1).String())
	assert.Equal(t, "1e-10", Number(1e-10).String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "x", String("x").String())
	assert.Equal(t, "NA", NA(KindNumber).String())
	assert.Nil(t, NA(KindBool).Interface())
	assert.Equal(t, 0.5, Number(0.5).Interface())
}

func TestValueEqual(t *testing.T) {
	assert.True(t, NA(KindNumber).Equal(NA(KindNumber)))
	assert.False(t, NA(KindNumber).Equal(NA(KindBool)))
	assert.False(t, Number(1).Equal(NA(KindNumber)))
	assert.True(t, Bool(true).Equal(Bool(true)))
}

func TestColumnCopiesInput(t *testing.T) {
	src := []float64{1, 2, 3}
	c := NumberColumn("x", src)
	src[0] = 99

	assert.Equal(t, 1.0, c.Value(0).Num)

	out := c.Numbers()
	out[1] = 42
	assert.Equal(t, 2.0, c.Value(1).Num)
}

func TestColumnReadPastEndIsNA(t *testing.T) {
	c := NumberColumn("x", []float64{1})
	assert.True(t, c.IsNA(1))
	assert.True(t, c.Value(5).NA)
	assert.Equal(t, KindNumber, c.Value(5).Kind)
}

func TestColumnRecycle(t *testing.T) {
	c := StringColumn("batch", []string{"b1"}).Recycle(3)
	assert.Equal(t, []string{"b1", "b1", "b1"}, c.Strings())

	longer := NumberColumn("x", []float64{1, 2}).Recycle(3)
	assert.Equal(t, 2, longer.Len())
}

func TestConcat(t *testing.T) {
	c, err := Concat("pi0",
		NumberColumn("a", []float64{1, 2}),
		NAColumn("b", KindNumber, 2),
	)
	require.NoError(t, err)
	assert.Equal(t, "pi0", c.Name)
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, []bool{false, false, true, true}, c.Missing())

	_, err = Concat("bad", NumberColumn("a", nil), BoolColumn("b", nil))
	assert.Error(t, err)
}

func TestFrameBindAndDedupe(t *testing.T) {
	left := NewFrame(
		StringColumn("gene", []string{"g1", "g2"}),
		NumberColumn("p.value", []float64{0.5, 0.6}),
	)
	right := NewFrame(
		NumberColumn("p.value", []float64{0.01, 0.02}),
		NumberColumn("q.value", []float64{0.03, 0.04}),
	)

	bound := left.Bind(right)
	assert.Equal(t, []string{"gene", "p.value", "p.value", "q.value"}, bound.Names())

	deduped := bound.DedupeColumns()
	assert.Equal(t, []string{"gene", "p.value", "q.value"}, deduped.Names())

	p, ok := deduped.Column("p.value")
	require.True(t, ok)
	assert.Equal(t, []float64{0.5, 0.6}, p.Numbers())
}

func TestFrameRaggedColumns(t *testing.T) {
	f := NewFrame(
		NumberColumn("a", []float64{1, 2, 3}),
		NumberColumn("b", []float64{4}),
	)
	assert.Equal(t, 3, f.NumRows())
	v, ok := f.Row(2).Get("b")
	require.True(t, ok)
	assert.True(t, v.NA)
}

func TestFinishDropsRowNames(t *testing.T) {
	f := sampleFrame()
	require.NotNil(t, f.RowNames())

	for _, flavor := range []Flavor{FlavorPlain, FlavorRows, FlavorColumnar} {
		t.Run(string(flavor), func(t *testing.T) {
			out, err := Finish(f, flavor)
			require.NoError(t, err)
			assert.Equal(t, flavor, out.Flavor())
			assert.Nil(t, out.Frame().RowNames())
			assert.Equal(t, f.Names(), out.Names())
			assert.Equal(t, f.Kinds(), out.Kinds())
			assert.Equal(t, 2, out.NumRows())
			assert.Equal(t, 4, out.NumCols())
		})
	}

	// the input keeps its labels
	assert.Equal(t, []string{"r1", "r2"}, f.RowNames())
}

func TestFinishUnknownFlavor(t *testing.T) {
	_, err := Finish(sampleFrame(), Flavor("spreadsheet"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnknownFlavor))
}

func TestFingerprintIgnoresFlavor(t *testing.T) {
	f := sampleFrame()
	var hashes []core.Hash
	for _, flavor := range []Flavor{FlavorPlain, FlavorRows, FlavorColumnar} {
		out, err := Finish(f, flavor)
		require.NoError(t, err)
		hashes = append(hashes, Fingerprint(out))
	}
	assert.Equal(t, hashes[0], hashes[1])
	assert.Equal(t, hashes[0], hashes[2])

	other, err := Finish(NewFrame(NumberColumn("lambda", []float64{0.1, 0.3})), FlavorPlain)
	require.NoError(t, err)
	assert.NotEqual(t, hashes[0], Fingerprint(other))
}

func TestRowTableCursor(t *testing.T) {
	out, err := Finish(sampleFrame(), FlavorRows)
	require.NoError(t, err)
	rows := out.(*RowTable)

	var lambdas []float64
	cur := rows.Cursor()
	for cur.Next() {
		v, ok := cur.Row().Get("lambda")
		require.True(t, ok)
		lambdas = append(lambdas, v.Num)
	}
	assert.Equal(t, []float64{0.1, 0.2}, lambdas)
	assert.False(t, cur.Next())

	visited := 0
	rows.Each(func(i int, r Row) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)

	pi0, ok := rows.Column("pi0")
	require.True(t, ok)
	assert.Equal(t, []bool{false, true}, pi0.Missing())
}

func TestColumnarTable(t *testing.T) {
	out, err := Finish(sampleFrame(), FlavorColumnar)
	require.NoError(t, err)
	cols := out.(*ColumnarTable)

	vals, missing, ok := cols.Float64s("pi0")
	require.True(t, ok)
	assert.Equal(t, 0.9, vals[0])
	assert.Equal(t, []bool{false, true}, missing)

	_, _, ok = cols.Float64s("smoothed")
	assert.False(t, ok)

	flags, _, ok := cols.Bools("smoothed")
	require.True(t, ok)
	assert.Equal(t, []bool{false, true}, flags)

	genes, _, ok := cols.Strings("gene")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, genes)

	assert.Equal(t, []string{"lambda", "pi0"}, cols.NumericNames())
	m := cols.NumericMatrix()
	require.NotNil(t, m)
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 0.2, m.At(1, 0))
	assert.True(t, math.IsNaN(m.At(1, 1)))
}

func TestColumnarEmptyMatrix(t *testing.T) {
	out, err := Finish(NewFrame(NumberColumn("x", nil)), FlavorColumnar)
	require.NoError(t, err)
	assert.Nil(t, out.(*ColumnarTable).NumericMatrix())
}

func TestParseFlavor(t *testing.T) {
	tests := []struct {
		in      string
		want    Flavor
		wantErr bool
	}{
		{"", FlavorRows, false},
		{"plain", FlavorPlain, false},
		{"data.frame", FlavorPlain, false},
		{"TIBBLE", FlavorRows, false},
		{"data.table", FlavorColumnar, false},
		{" columnar ", FlavorColumnar, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFlavor(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

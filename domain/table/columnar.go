package table

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ColumnarTable keeps typed column vectors addressed by name
type ColumnarTable struct {
	frame *Frame
	index map[string]int
	nrows int
}

func newColumnarTable(f *Frame) *ColumnarTable {
	t := &ColumnarTable{frame: f, index: make(map[string]int, f.NumCols()), nrows: f.NumRows()}
	for i, name := range f.Names() {
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
	return t
}

func (t *ColumnarTable) Flavor() Flavor  { return FlavorColumnar }
func (t *ColumnarTable) Names() []string { return t.frame.Names() }
func (t *ColumnarTable) Kinds() []Kind   { return t.frame.Kinds() }
func (t *ColumnarTable) NumRows() int    { return t.nrows }
func (t *ColumnarTable) NumCols() int    { return t.frame.NumCols() }
func (t *ColumnarTable) Row(i int) Row   { return t.frame.Row(i) }
func (t *ColumnarTable) Frame() *Frame   { return t.frame.copy() }

func (t *ColumnarTable) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.frame.ColumnAt(i), true
}

// Float64s returns a numeric column padded to the table height and its missing mask
func (t *ColumnarTable) Float64s(name string) ([]float64, []bool, bool) {
	c, ok := t.Column(name)
	if !ok || c.Kind != KindNumber {
		return nil, nil, false
	}
	vals := make([]float64, t.nrows)
	missing := make([]bool, t.nrows)
	for i := range vals {
		v := c.Value(i)
		missing[i] = v.NA
		vals[i] = v.Num
	}
	return vals, missing, true
}

// Bools returns a logical column padded to the table height and its missing mask
func (t *ColumnarTable) Bools(name string) ([]bool, []bool, bool) {
	c, ok := t.Column(name)
	if !ok || c.Kind != KindBool {
		return nil, nil, false
	}
	vals := make([]bool, t.nrows)
	missing := make([]bool, t.nrows)
	for i := range vals {
		v := c.Value(i)
		missing[i] = v.NA
		vals[i] = v.Bool
	}
	return vals, missing, true
}

// Strings returns a character column padded to the table height and its missing mask
func (t *ColumnarTable) Strings(name string) ([]string, []bool, bool) {
	c, ok := t.Column(name)
	if !ok || c.Kind != KindString {
		return nil, nil, false
	}
	vals := make([]string, t.nrows)
	missing := make([]bool, t.nrows)
	for i := range vals {
		v := c.Value(i)
		missing[i] = v.NA
		vals[i] = v.Str
	}
	return vals, missing, true
}

// NumericNames lists the numeric columns in order
func (t *ColumnarTable) NumericNames() []string {
	var names []string
	for _, c := range t.frame.columns {
		if c.Kind == KindNumber {
			names = append(names, c.Name)
		}
	}
	return names
}

// NumericMatrix lays the numeric columns out as a rows x columns matrix with
// NaN for missing cells. It returns nil when the table has no rows or no
// numeric columns.
func (t *ColumnarTable) NumericMatrix() *mat.Dense {
	var cols []Column
	for _, c := range t.frame.columns {
		if c.Kind == KindNumber {
			cols = append(cols, c)
		}
	}
	if t.nrows == 0 || len(cols) == 0 {
		return nil
	}

	m := mat.NewDense(t.nrows, len(cols), nil)
	for j, c := range cols {
		for i := 0; i < t.nrows; i++ {
			v := c.Value(i)
			if v.NA {
				m.Set(i, j, math.NaN())
				continue
			}
			m.Set(i, j, v.Num)
		}
	}
	return m
}

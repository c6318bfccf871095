package table

// RowTable delivers a table record by record
type RowTable struct {
	names []string
	kinds []Kind
	rows  []Row
}

func newRowTable(f *Frame) *RowTable {
	n := f.NumRows()
	t := &RowTable{names: f.Names(), kinds: f.Kinds(), rows: make([]Row, n)}
	for i := 0; i < n; i++ {
		t.rows[i] = f.Row(i)
	}
	return t
}

func (t *RowTable) Flavor() Flavor  { return FlavorRows }
func (t *RowTable) Names() []string { return append([]string(nil), t.names...) }
func (t *RowTable) Kinds() []Kind   { return append([]Kind(nil), t.kinds...) }
func (t *RowTable) NumRows() int    { return len(t.rows) }
func (t *RowTable) NumCols() int    { return len(t.names) }
func (t *RowTable) Row(i int) Row   { return t.rows[i] }
func (t *RowTable) Cursor() *Cursor { return &Cursor{table: t, pos: -1} }

// Each calls fn for every row in order until fn returns false
func (t *RowTable) Each(fn func(i int, r Row) bool) {
	for i, r := range t.rows {
		if !fn(i, r) {
			return
		}
	}
}

// Column gathers the cells of the first column with the given name
func (t *RowTable) Column(name string) (Column, bool) {
	for j, n := range t.names {
		if n != name {
			continue
		}
		vals := make([]Value, len(t.rows))
		for i, r := range t.rows {
			vals[i] = r.At(j)
		}
		return ColumnFromValues(name, t.kinds[j], vals), true
	}
	return Column{}, false
}

func (t *RowTable) Frame() *Frame {
	cols := make([]Column, len(t.names))
	for j := range t.names {
		vals := make([]Value, len(t.rows))
		for i, r := range t.rows {
			vals[i] = r.At(j)
		}
		cols[j] = ColumnFromValues(t.names[j], t.kinds[j], vals)
	}
	return &Frame{columns: cols}
}

// Cursor walks a RowTable one record at a time
type Cursor struct {
	table *RowTable
	pos   int
}

// Next advances to the next row and reports whether one exists
func (c *Cursor) Next() bool {
	if c.pos+1 >= len(c.table.rows) {
		c.pos = len(c.table.rows)
		return false
	}
	c.pos++
	return true
}

// Row returns the current row; valid only after Next returned true
func (c *Cursor) Row() Row {
	return c.table.rows[c.pos]
}

// Index returns the position of the current row
func (c *Cursor) Index() int {
	return c.pos
}

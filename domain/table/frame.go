package table

// Frame is an ordered set of columns with optional row names. Columns may
// differ in length; the frame is as tall as its longest column and shorter
// columns read as missing past their end.
type Frame struct {
	columns  []Column
	rowNames []string
}

// NewFrame builds a frame from columns in order
func NewFrame(columns ...Column) *Frame {
	f := &Frame{columns: make([]Column, len(columns))}
	for i, c := range columns {
		f.columns[i] = c.clone()
	}
	return f
}

// WithRowNames returns a copy of the frame labelled with row names
func (f *Frame) WithRowNames(names []string) *Frame {
	out := f.copy()
	out.rowNames = append([]string(nil), names...)
	return out
}

// RowNames returns the row labels, nil for an unlabelled frame
func (f *Frame) RowNames() []string {
	if f.rowNames == nil {
		return nil
	}
	return append([]string(nil), f.rowNames...)
}

// NumRows returns the length of the longest column
func (f *Frame) NumRows() int {
	n := 0
	for _, c := range f.columns {
		if l := c.Len(); l > n {
			n = l
		}
	}
	return n
}

// NumCols returns the number of columns
func (f *Frame) NumCols() int {
	return len(f.columns)
}

// Names returns the column names in order
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// Kinds returns the column kinds in order
func (f *Frame) Kinds() []Kind {
	kinds := make([]Kind, len(f.columns))
	for i, c := range f.columns {
		kinds[i] = c.Kind
	}
	return kinds
}

// Column returns the first column with the given name
func (f *Frame) Column(name string) (Column, bool) {
	for _, c := range f.columns {
		if c.Name == name {
			return c.clone(), true
		}
	}
	return Column{}, false
}

// ColumnAt returns column i
func (f *Frame) ColumnAt(i int) Column {
	return f.columns[i].clone()
}

// Columns returns copies of all columns
func (f *Frame) Columns() []Column {
	out := make([]Column, len(f.columns))
	for i, c := range f.columns {
		out[i] = c.clone()
	}
	return out
}

// Row returns row i across all columns
func (f *Frame) Row(i int) Row {
	values := make([]Value, len(f.columns))
	for j, c := range f.columns {
		values[j] = c.Value(i)
	}
	return Row{names: f.Names(), values: values}
}

// Bind places other's columns after f's, aligned by row position
func (f *Frame) Bind(other *Frame) *Frame {
	cols := make([]Column, 0, len(f.columns)+len(other.columns))
	cols = append(cols, f.columns...)
	cols = append(cols, other.columns...)
	out := NewFrame(cols...)
	out.rowNames = f.RowNames()
	return out
}

// DedupeColumns drops every column whose name already appeared to its left
func (f *Frame) DedupeColumns() *Frame {
	seen := make(map[string]bool, len(f.columns))
	kept := make([]Column, 0, len(f.columns))
	for _, c := range f.columns {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		kept = append(kept, c)
	}
	out := NewFrame(kept...)
	out.rowNames = f.RowNames()
	return out
}

// Flavor implements Table; a finished frame is the plain flavor
func (f *Frame) Flavor() Flavor {
	return FlavorPlain
}

// Frame implements Table
func (f *Frame) Frame() *Frame {
	return f.copy()
}

func (f *Frame) copy() *Frame {
	out := NewFrame(f.columns...)
	out.rowNames = f.RowNames()
	return out
}

// Row is one record of a table
type Row struct {
	names  []string
	values []Value
}

// Names returns the column names of the row
func (r Row) Names() []string {
	return append([]string(nil), r.names...)
}

// Values returns the cells of the row in column order
func (r Row) Values() []Value {
	return append([]Value(nil), r.values...)
}

// Len returns the number of cells
func (r Row) Len() int {
	return len(r.values)
}

// At returns cell j
func (r Row) At(j int) Value {
	return r.values[j]
}

// Get returns the first cell in a column with the given name
func (r Row) Get(name string) (Value, bool) {
	for i, n := range r.names {
		if n == name {
			return r.values[i], true
		}
	}
	return Value{}, false
}

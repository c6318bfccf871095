package table

import (
	"fmt"
)

// Column is a named, typed vector. Constructors copy their inputs so a column
// never aliases caller memory.
type Column struct {
	Name string
	Kind Kind

	nums  []float64
	bools []bool
	strs  []string
	na    []bool // nil when nothing is missing
}

// NumberColumn builds a numeric column
func NumberColumn(name string, values []float64) Column {
	return Column{Name: name, Kind: KindNumber, nums: append([]float64(nil), values...)}
}

// NullableNumberColumn builds a numeric column with a missing mask. The mask
// may be shorter than values; positions past its end are present.
func NullableNumberColumn(name string, values []float64, missing []bool) Column {
	c := NumberColumn(name, values)
	c.na = normalizeMask(missing, len(values))
	return c
}

// BoolColumn builds a logical column
func BoolColumn(name string, values []bool) Column {
	return Column{Name: name, Kind: KindBool, bools: append([]bool(nil), values...)}
}

// StringColumn builds a character column
func StringColumn(name string, values []string) Column {
	return Column{Name: name, Kind: KindString, strs: append([]string(nil), values...)}
}

// RepeatBool builds a logical column holding n copies of b
func RepeatBool(name string, b bool, n int) Column {
	vals := make([]bool, n)
	for i := range vals {
		vals[i] = b
	}
	return Column{Name: name, Kind: KindBool, bools: vals}
}

// NAColumn builds a column of n missing cells
func NAColumn(name string, kind Kind, n int) Column {
	c := Column{Name: name, Kind: kind, na: make([]bool, n)}
	for i := range c.na {
		c.na[i] = true
	}
	switch kind {
	case KindNumber:
		c.nums = make([]float64, n)
	case KindBool:
		c.bools = make([]bool, n)
	default:
		c.Kind = KindString
		c.strs = make([]string, n)
	}
	return c
}

// ColumnFromValues builds a column of the given kind from cells. Cells of a
// different kind are stored as missing.
func ColumnFromValues(name string, kind Kind, values []Value) Column {
	c := NAColumn(name, kind, len(values))
	anyNA := false
	for i, v := range values {
		if v.NA || v.Kind != c.Kind {
			anyNA = true
			continue
		}
		c.na[i] = false
		switch c.Kind {
		case KindNumber:
			c.nums[i] = v.Num
		case KindBool:
			c.bools[i] = v.Bool
		default:
			c.strs[i] = v.Str
		}
	}
	if !anyNA {
		c.na = nil
	}
	return c
}

// Len returns the number of cells
func (c Column) Len() int {
	switch c.Kind {
	case KindNumber:
		return len(c.nums)
	case KindBool:
		return len(c.bools)
	default:
		return len(c.strs)
	}
}

// IsNA reports whether cell i is missing. Positions past the end are missing.
func (c Column) IsNA(i int) bool {
	if i < 0 || i >= c.Len() {
		return true
	}
	return c.na != nil && c.na[i]
}

// Value returns cell i
func (c Column) Value(i int) Value {
	if c.IsNA(i) {
		return NA(c.Kind)
	}
	switch c.Kind {
	case KindNumber:
		return Number(c.nums[i])
	case KindBool:
		return Bool(c.bools[i])
	default:
		return String(c.strs[i])
	}
}

// Numbers returns a copy of the numeric storage, nil for other kinds
func (c Column) Numbers() []float64 {
	if c.Kind != KindNumber {
		return nil
	}
	return append([]float64(nil), c.nums...)
}

// Bools returns a copy of the logical storage, nil for other kinds
func (c Column) Bools() []bool {
	if c.Kind != KindBool {
		return nil
	}
	return append([]bool(nil), c.bools...)
}

// Strings returns a copy of the character storage, nil for other kinds
func (c Column) Strings() []string {
	if c.Kind != KindString {
		return nil
	}
	return append([]string(nil), c.strs...)
}

// Missing returns a copy of the missing mask, nil when nothing is missing
func (c Column) Missing() []bool {
	if c.na == nil {
		return nil
	}
	return append([]bool(nil), c.na...)
}

// Rename returns a copy of the column under a new name
func (c Column) Rename(name string) Column {
	out := c.clone()
	out.Name = name
	return out
}

// Recycle repeats a single-cell column to n cells. Any other length is
// returned unchanged.
func (c Column) Recycle(n int) Column {
	if c.Len() != 1 || n == 1 {
		return c.clone()
	}
	vals := make([]Value, n)
	v := c.Value(0)
	for i := range vals {
		vals[i] = v
	}
	return ColumnFromValues(c.Name, c.Kind, vals)
}

// Concat appends columns of the same kind end to end
func Concat(name string, parts ...Column) (Column, error) {
	if len(parts) == 0 {
		return Column{}, fmt.Errorf("concat %s: no columns", name)
	}
	kind := parts[0].Kind
	var vals []Value
	for _, p := range parts {
		if p.Kind != kind {
			return Column{}, fmt.Errorf("concat %s: kind %s does not match %s", name, p.Kind, kind)
		}
		for i := 0; i < p.Len(); i++ {
			vals = append(vals, p.Value(i))
		}
	}
	return ColumnFromValues(name, kind, vals), nil
}

func (c Column) clone() Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	if c.nums != nil {
		out.nums = append([]float64(nil), c.nums...)
	}
	if c.bools != nil {
		out.bools = append([]bool(nil), c.bools...)
	}
	if c.strs != nil {
		out.strs = append([]string(nil), c.strs...)
	}
	if c.na != nil {
		out.na = append([]bool(nil), c.na...)
	}
	return out
}

func normalizeMask(missing []bool, n int) []bool {
	mask := make([]bool, n)
	anyNA := false
	for i := 0; i < n && i < len(missing); i++ {
		if missing[i] {
			mask[i] = true
			anyNA = true
		}
	}
	if !anyNA {
		return nil
	}
	return mask
}

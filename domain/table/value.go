// Package table holds the rectangular output model: typed columns, frames and
// the finished table flavors handed to callers.
package table

import (
	"strconv"
)

// Kind is the storage type of a column
type Kind string

const (
	KindNumber Kind = "number"
	KindBool   Kind = "bool"
	KindString Kind = "string"
)

// NAString is how a missing value is written in text output
const NAString = "NA"

// Value is a single cell. A missing cell keeps the kind of its column.
type Value struct {
	Kind Kind
	Num  float64
	Bool bool
	Str  string
	NA   bool
}

func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }
func Bool(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func String(s string) Value  { return Value{Kind: KindString, Str: s} }
func NA(kind Kind) Value     { return Value{Kind: kind, NA: true} }

// IsNA reports whether the cell is missing
func (v Value) IsNA() bool {
	return v.NA
}

// String formats the cell for text output. Numbers use the shortest
// representation that round-trips.
func (v Value) String() string {
	if v.NA {
		return NAString
	}
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// Interface returns the cell as a Go value, nil when missing
func (v Value) Interface() interface{} {
	if v.NA {
		return nil
	}
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	default:
		return v.Str
	}
}

// Equal compares two cells. Two missing cells of the same kind are equal.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind || v.NA != o.NA {
		return false
	}
	if v.NA {
		return true
	}
	switch v.Kind {
	case KindNumber:
		return v.Num == o.Num
	case KindBool:
		return v.Bool == o.Bool
	default:
		return v.Str == o.Str
	}
}

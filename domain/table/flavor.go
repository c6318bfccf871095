package table

import (
	"fmt"
	"strings"

	"fdrtidy/domain/core"
)

// Flavor selects the container a finished table is delivered in
type Flavor string

const (
	// FlavorPlain is a column-major frame without row labels
	FlavorPlain Flavor = "plain"
	// FlavorRows is a row-streaming table
	FlavorRows Flavor = "rows"
	// FlavorColumnar is a typed columnar table with a numeric matrix view
	FlavorColumnar Flavor = "columnar"
)

// DefaultFlavor is used when nothing else is configured
const DefaultFlavor = FlavorRows

// ParseFlavor maps a configuration string onto a flavor. The names of the
// equivalent R containers are accepted as aliases.
func ParseFlavor(s string) (Flavor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultFlavor, nil
	case "plain", "data.frame", "frame":
		return FlavorPlain, nil
	case "rows", "tibble", "stream":
		return FlavorRows, nil
	case "columnar", "data.table", "columns":
		return FlavorColumnar, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrUnknownFlavor, s)
	}
}

// Table is a finished, row-unlabelled tabular result
type Table interface {
	Flavor() Flavor
	Names() []string
	Kinds() []Kind
	NumRows() int
	NumCols() int
	Row(i int) Row
	Column(name string) (Column, bool)
	// Frame returns the table's contents as a plain frame
	Frame() *Frame
}

// Finish drops row labels and converts the frame into the requested flavor
func Finish(f *Frame, flavor Flavor) (Table, error) {
	plain := NewFrame(f.columns...)

	switch flavor {
	case FlavorPlain:
		return plain, nil
	case FlavorRows, "":
		return newRowTable(plain), nil
	case FlavorColumnar:
		return newColumnarTable(plain), nil
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownFlavor, string(flavor))
	}
}

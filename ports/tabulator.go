package ports

import (
	"fdrtidy/domain/fdr"
	"fdrtidy/domain/table"
)

// Tabulator turns a result object into the three standard tables. Each
// result variant gets its own implementation.
type Tabulator interface {
	// Sweep returns one row per (lambda, estimate kind) pair
	Sweep(res *fdr.Result, flavor table.Flavor) (table.Table, error)
	// Records returns one row per tested record
	Records(res *fdr.Result, opts RecordOptions, flavor table.Flavor) (table.Table, error)
	// Summary returns a single row describing the chosen estimate
	Summary(res *fdr.Result, flavor table.Flavor) (table.Table, error)
}

// RecordOptions carries the optional inputs of a record table
type RecordOptions struct {
	// Aux columns are placed first and win name collisions. Row i of Aux
	// belongs to record i.
	Aux *table.Frame
	// Extra columns follow the computed ones; single values are recycled
	Extra []table.Column
	// StrictRows rejects Aux or Extra whose row count does not match the records
	StrictRows bool
}

// TableKind names one of the three standard tables
type TableKind string

const (
	KindSweep   TableKind = "tidy"
	KindRecords TableKind = "augment"
	KindSummary TableKind = "glance"
)

// ParseTableKind accepts the table names and their descriptive synonyms
func ParseTableKind(s string) (TableKind, bool) {
	switch s {
	case "tidy", "sweep":
		return KindSweep, true
	case "augment", "records":
		return KindRecords, true
	case "glance", "summary":
		return KindSummary, true
	}
	return "", false
}

package excel

// RawData is a sheet or CSV file as read, before column types are inferred
type RawData struct {
	Headers []string   // Column headers, in file order
	Rows    [][]string // Data rows, one cell per header
}

// ReaderConfig controls how auxiliary tables are read
type ReaderConfig struct {
	// Sheet to read from a workbook; empty means the first sheet
	Sheet string
	// NAValues are cell texts read as missing, in addition to the empty cell
	NAValues []string
}

// DefaultReaderConfig returns the defaults used by the CLI and API
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{NAValues: []string{"NA", "NaN", "null"}}
}

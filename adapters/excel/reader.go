package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fdrtidy/domain/table"

	"github.com/xuri/excelize/v2"
)

// File types understood by DataReader
const (
	FileTypeCSV  = "csv"
	FileTypeXLSX = "xlsx"
)

// DataReader reads auxiliary tables from Excel and CSV files
type DataReader struct {
	filePath string
	fileType string
	config   ReaderConfig
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string, config ReaderConfig) *DataReader {
	return &DataReader{filePath: filePath, fileType: DetectFileType(filePath), config: config}
}

// DetectFileType maps a file name onto a file type by extension
func DetectFileType(name string) string {
	if strings.ToLower(filepath.Ext(name)) == ".csv" {
		return FileTypeCSV
	}
	return FileTypeXLSX
}

// ReadFrame reads the file and infers a kind for every column
func (r *DataReader) ReadFrame() (*table.Frame, error) {
	raw, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return BuildFrame(raw, r.config), nil
}

// ReadData reads the file into rows of text cells
func (r *DataReader) ReadData() (*RawData, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	f, err := os.Open(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
		}
		return nil, fmt.Errorf("failed to open %s file: %w", r.fileType, err)
	}
	defer f.Close()

	return ReadDataFrom(f, r.fileType, r.config)
}

// ReadFrameFrom reads an auxiliary table from a stream, such as an upload
func ReadFrameFrom(src io.Reader, fileType string, config ReaderConfig) (*table.Frame, error) {
	raw, err := ReadDataFrom(src, fileType, config)
	if err != nil {
		return nil, err
	}
	return BuildFrame(raw, config), nil
}

// ReadDataFrom reads rows of text cells from a stream
func ReadDataFrom(src io.Reader, fileType string, config ReaderConfig) (*RawData, error) {
	switch fileType {
	case FileTypeCSV:
		return readCSVData(src)
	case FileTypeXLSX:
		return readExcelData(src, config.Sheet)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", fileType)
	}
}

// readExcelData reads one worksheet
func readExcelData(src io.Reader, sheet string) (*RawData, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("Excel file has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	log.Printf("[DataReader] Sheet %s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return processRows(rows)
}

// readCSVData reads CSV data into structured format
func readCSVData(src io.Reader) (*RawData, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return processRows(rows)
}

// processRows splits off the header row and pads every data row to the header width
func processRows(rows [][]string) (*RawData, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("file must have at least a header row")
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, len(headers))
		for j := 0; j < len(row) && j < len(headers); j++ {
			cells[j] = strings.TrimSpace(row[j])
		}
		dataRows = append(dataRows, cells)
	}

	return &RawData{Headers: headers, Rows: dataRows}, nil
}

// BuildFrame infers a kind per column: number when every present cell parses
// as a float, bool when every present cell is a logical literal, string
// otherwise. Empty cells and configured NA texts are missing.
func BuildFrame(raw *RawData, config ReaderConfig) *table.Frame {
	na := make(map[string]bool, len(config.NAValues)+1)
	na[""] = true
	for _, v := range config.NAValues {
		na[v] = true
	}

	cols := make([]table.Column, len(raw.Headers))
	for j, header := range raw.Headers {
		cells := make([]string, len(raw.Rows))
		for i, row := range raw.Rows {
			cells[i] = row[j]
		}
		cols[j] = inferColumn(header, cells, na)
	}
	return table.NewFrame(cols...)
}

func inferColumn(name string, cells []string, na map[string]bool) table.Column {
	numeric, logical := true, true
	for _, c := range cells {
		if na[c] {
			continue
		}
		if _, err := strconv.ParseFloat(c, 64); err != nil {
			numeric = false
		}
		if _, ok := parseLogical(c); !ok {
			logical = false
		}
	}

	kind := table.KindString
	switch {
	case numeric:
		kind = table.KindNumber
	case logical:
		kind = table.KindBool
	}

	values := make([]table.Value, len(cells))
	for i, c := range cells {
		if na[c] {
			values[i] = table.NA(kind)
			continue
		}
		switch kind {
		case table.KindNumber:
			f, _ := strconv.ParseFloat(c, 64)
			values[i] = table.Number(f)
		case table.KindBool:
			b, _ := parseLogical(c)
			values[i] = table.Bool(b)
		default:
			values[i] = table.String(c)
		}
	}
	return table.ColumnFromValues(name, kind, values)
}

func parseLogical(s string) (bool, bool) {
	switch s {
	case "true", "TRUE", "True", "T":
		return true, true
	case "false", "FALSE", "False", "F":
		return false, true
	}
	return false, false
}

// ParseAssignment reads a "name=value" pair, as given on a command line or
// query string, into a one-value column whose kind is inferred like a cell's
func ParseAssignment(assignment string, config ReaderConfig) (table.Column, error) {
	name, value, ok := strings.Cut(assignment, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return table.Column{}, fmt.Errorf("expected name=value, got %q", assignment)
	}

	na := make(map[string]bool, len(config.NAValues)+1)
	na[""] = true
	for _, v := range config.NAValues {
		na[v] = true
	}
	return inferColumn(name, []string{strings.TrimSpace(value)}, na), nil
}

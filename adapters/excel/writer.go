package excel

import (
	"fmt"
	"io"
	"strings"

	"fdrtidy/domain/table"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// Writer builds a workbook with one sheet per table
type Writer struct {
	file   *excelize.File
	sheets map[string]bool
}

// NewWriter creates an empty workbook
func NewWriter() *Writer {
	return &Writer{file: excelize.NewFile(), sheets: make(map[string]bool)}
}

// AddSheet writes t into a new sheet: a header row, then one row per record.
// Missing cells are left empty.
func (w *Writer) AddSheet(name string, t table.Table) error {
	sheet := sheetName(name)
	if w.sheets[sheet] {
		return fmt.Errorf("duplicate sheet name %q", sheet)
	}

	if len(w.sheets) == 0 {
		// The new workbook starts with Sheet1; reuse it for the first table
		if err := w.file.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("failed to name sheet %s: %w", sheet, err)
		}
	} else if _, err := w.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	w.sheets[sheet] = true

	for i, h := range t.Names() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := w.file.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r := 0; r < t.NumRows(); r++ {
		rowIdx := r + 2
		for c, v := range t.Row(r).Values() {
			if v.NA {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err := w.file.SetCellValue(sheet, cell, v.Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteTo streams the workbook to out
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	if len(w.sheets) == 0 {
		return 0, fmt.Errorf("workbook has no sheets")
	}
	return w.file.WriteTo(out)
}

// SaveAs writes the workbook to path
func (w *Writer) SaveAs(path string) error {
	if len(w.sheets) == 0 {
		return fmt.Errorf("workbook has no sheets")
	}
	return w.file.SaveAs(path)
}

// Close releases the workbook
func (w *Writer) Close() error {
	return w.file.Close()
}

// sheetName strips characters Excel rejects and truncates to the name limit
func sheetName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if clean == "" {
		clean = "Sheet1"
	}
	if len(clean) > maxSheetName {
		clean = clean[:maxSheetName]
	}
	return clean
}

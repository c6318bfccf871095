// Package render writes finished tables in the supported output formats.
package render

import (
	"fmt"
	"io"
	"strings"

	"fdrtidy/adapters/excel"
	"fdrtidy/domain/core"
	"fdrtidy/domain/table"
)

// Format is an output encoding
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatXLSX     Format = "xlsx"
)

// ParseFormat maps a format name or common file extension onto a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension, with dot, used for exports
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return "." + string(f)
}

// Render writes t to w in the given format. Every flavor of the same table
// renders identically.
func Render(w io.Writer, t table.Table, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatJSON:
		return WriteJSON(w, t)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(t))
		return err
	case FormatHTML:
		_, err := w.Write(HTML([]byte(Markdown(t))))
		return err
	case FormatXLSX:
		xw := excel.NewWriter()
		defer xw.Close()
		if err := xw.AddSheet("Sheet1", t); err != nil {
			return err
		}
		_, err := xw.WriteTo(w)
		return err
	default:
		return fmt.Errorf("%w: %q", core.ErrUnknownFormat, string(format))
	}
}

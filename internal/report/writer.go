package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format is a report file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath picks the report format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported report format %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

// Encode renders rows below a header of columns in the given format.
func Encode(format Format, columns []string, rows [][]interface{}) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case FormatCSV:
		if err := NewCSVExporter(&buf, DefaultCSVOptions()).Export(columns, rows); err != nil {
			return nil, err
		}
	case FormatXLSX:
		exporter, err := NewExcelExporter(DefaultExcelOptions())
		if err != nil {
			return nil, err
		}
		defer exporter.Close()

		if err := exporter.Export(columns, rows); err != nil {
			return nil, err
		}
		if err := exporter.Write(&buf); err != nil {
			return nil, fmt.Errorf("failed to write workbook: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}

	return buf.Bytes(), nil
}

// Write encodes rows in the format matching path's extension and writes
// the file, creating its directory.
func Write(path string, columns []string, rows [][]interface{}) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	data, err := Encode(format, columns, rows)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

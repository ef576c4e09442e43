package report

import (
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExcelExporter exports rows to a single styled worksheet
type ExcelExporter struct {
	file    *excelize.File
	options ExcelOptions
}

// ExcelOptions configures Excel export behavior
type ExcelOptions struct {
	SheetName    string            `json:"sheet_name"`
	FreezeHeader bool              `json:"freeze_header"`
	AutoFilter   bool              `json:"auto_filter"`
	AutoWidth    bool              `json:"auto_width"`
	NumberFormat string            `json:"number_format"`
	HeaderStyle  *ExcelStyleConfig `json:"header_style,omitempty"`
}

// ExcelStyleConfig defines style for cells
type ExcelStyleConfig struct {
	FontBold  bool   `json:"font_bold"`
	FontSize  int    `json:"font_size"`
	FontColor string `json:"font_color"`
	FillColor string `json:"fill_color"`
	Border    bool   `json:"border"`
}

// DefaultExcelOptions returns default Excel export options
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{
		SheetName:    "Report",
		FreezeHeader: true,
		AutoFilter:   true,
		AutoWidth:    true,
		NumberFormat: "#,##0.00",
		HeaderStyle: &ExcelStyleConfig{
			FontBold:  true,
			FontSize:  11,
			FillColor: "D3D3D3",
			FontColor: "000000",
			Border:    true,
		},
	}
}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter(options ExcelOptions) (*ExcelExporter, error) {
	file := excelize.NewFile()
	if err := file.SetSheetName("Sheet1", options.SheetName); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	return &ExcelExporter{file: file, options: options}, nil
}

// Export writes the styled header row followed by all rows.
func (e *ExcelExporter) Export(columns []string, rows [][]interface{}) error {
	sheet := e.options.SheetName

	headerStyle := 0
	if e.options.HeaderStyle != nil {
		id, err := e.createStyle(e.options.HeaderStyle)
		if err != nil {
			return fmt.Errorf("failed to create header style: %w", err)
		}
		headerStyle = id
	}

	numberStyle := 0
	if e.options.NumberFormat != "" {
		id, err := e.file.NewStyle(&excelize.Style{CustomNumFmt: &e.options.NumberFormat})
		if err != nil {
			return fmt.Errorf("failed to create number style: %w", err)
		}
		numberStyle = id
	}

	widths := make([]int, len(columns))
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := e.file.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if headerStyle > 0 {
			if err := e.file.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
				return fmt.Errorf("failed to style header: %w", err)
			}
		}
		widths[i] = utf8.RuneCountInString(col)
	}

	for r, row := range rows {
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			numeric, err := e.setCellValue(sheet, cell, val)
			if err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
			if numeric && numberStyle > 0 {
				if err := e.file.SetCellStyle(sheet, cell, cell, numberStyle); err != nil {
					return fmt.Errorf("failed to style cell %s: %w", cell, err)
				}
			}
			if c < len(widths) {
				if w := utf8.RuneCountInString(fmt.Sprint(val)); w > widths[c] {
					widths[c] = w
				}
			}
		}
	}

	if e.options.FreezeHeader {
		if err := e.file.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("failed to freeze header: %w", err)
		}
	}

	if e.options.AutoFilter && len(columns) > 0 && len(rows) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(columns), len(rows)+1)
		if err := e.file.AutoFilter(sheet, "A1:"+last, nil); err != nil {
			return fmt.Errorf("failed to set auto filter: %w", err)
		}
	}

	if e.options.AutoWidth {
		for i, w := range widths {
			name, _ := excelize.ColumnNumberToName(i + 1)
			// Min width 10, max width 60
			width := float64(w) * 1.2
			if width < 10 {
				width = 10
			}
			if width > 60 {
				width = 60
			}
			if err := e.file.SetColWidth(sheet, name, name, width); err != nil {
				return fmt.Errorf("failed to set column width: %w", err)
			}
		}
	}

	return nil
}

// Write writes the workbook to a writer
func (e *ExcelExporter) Write(w io.Writer) error {
	return e.file.Write(w)
}

// Close closes the Excel file
func (e *ExcelExporter) Close() error {
	return e.file.Close()
}

func (e *ExcelExporter) createStyle(config *ExcelStyleConfig) (int, error) {
	style := &excelize.Style{
		Font: &excelize.Font{
			Bold:  config.FontBold,
			Size:  float64(config.FontSize),
			Color: config.FontColor,
		},
	}
	if config.FillColor != "" {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{config.FillColor},
		}
	}
	if config.Border {
		style.Border = []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		}
	}
	return e.file.NewStyle(style)
}

// setCellValue stores val and reports whether it is a number that should
// carry the number format.
func (e *ExcelExporter) setCellValue(sheet, cell string, val interface{}) (bool, error) {
	switch v := val.(type) {
	case nil:
		return false, e.file.SetCellValue(sheet, cell, "")
	case float64:
		return true, e.file.SetCellValue(sheet, cell, v)
	case decimal.Decimal:
		return true, e.file.SetCellValue(sheet, cell, v.InexactFloat64())
	case time.Time:
		return false, e.file.SetCellValue(sheet, cell, v.Format(time.RFC3339))
	default:
		return false, e.file.SetCellValue(sheet, cell, v)
	}
}

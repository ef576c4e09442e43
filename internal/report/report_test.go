package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var (
	testColumns = []string{"source", "status", "payout"}
	testRows    = [][]interface{}{
		{"employee_1/payslip_Anna_Koch_01_2025.json", "ok", 3409.56},
		{"employee_1/payslip_Anna, Koch_02_2025.json", "failed", nil},
		{"total", "ok", decimal.RequireFromString("3409.5")},
	}
)

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("out/run.CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = FormatFromPath("run.xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = FormatFromPath("run.json")
	assert.Error(t, err)
}

func TestEncode_CSV(t *testing.T) {
	data, err := Encode(FormatCSV, testColumns, testRows)
	require.NoError(t, err)

	assert.Equal(t, "source,status,payout\n"+
		"employee_1/payslip_Anna_Koch_01_2025.json,ok,3409.56\n"+
		"\"employee_1/payslip_Anna, Koch_02_2025.json\",failed,\n"+
		"total,ok,3409.50\n", string(data))
}

func TestEncode_XLSX(t *testing.T) {
	data, err := Encode(FormatXLSX, testColumns, testRows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Report")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, testColumns, rows[0])
	assert.Equal(t, "ok", rows[1][1])

	raw, err := f.GetCellValue("Report", "C2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "3409.56", raw)

	panes, err := f.GetPanes("Report")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
}

func TestExcelExporter_Write(t *testing.T) {
	exporter, err := NewExcelExporter(DefaultExcelOptions())
	require.NoError(t, err)
	defer exporter.Close()

	require.NoError(t, exporter.Export(testColumns, testRows))

	var buf bytes.Buffer
	require.NoError(t, exporter.Write(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue("Report", "A1")
	require.NoError(t, err)
	assert.Equal(t, testColumns[0], value)
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "manifest.csv")

	require.NoError(t, Write(path, testColumns, testRows[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "payslip_Anna_Koch_01_2025.json")

	assert.Error(t, Write(filepath.Join(t.TempDir(), "manifest.txt"), testColumns, testRows))
}

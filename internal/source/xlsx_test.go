package source

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"github.com/xuri/excelize/v2"
)

type sheetData struct {
	name string
	rows [][]string
}

func createTestXLSX(t *testing.T, sheets ...sheetData) string {
	t.Helper()
	f := xlsx.NewFile()
	for _, s := range sheets {
		sheet, err := f.AddSheet(s.name)
		require.NoError(t, err)
		for _, rowData := range s.rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "psgc.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadTable_Basic(t *testing.T) {
	path := createTestXLSX(t, sheetData{name: "Sheet1", rows: [][]string{
		{"PSGC Code", "Province", "City/Municipality"},
		{"012801000", "Ilocos Norte", "Adams"},
		{"", "", ""},
		{" 012802000 ", "Ilocos Norte", " Bacarra "},
	}})

	table, err := ReadTable(path, TableOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", table.Sheet)
	assert.Equal(t, []string{"PSGC Code", "Province", "City/Municipality"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"012802000", "Ilocos Norte", "Bacarra"}, table.Rows[1])
}

func TestReadTable_SheetHint(t *testing.T) {
	path := createTestXLSX(t,
		sheetData{name: "Notes", rows: [][]string{{"readme"}}},
		sheetData{name: "PSGC Data", rows: [][]string{{"Code", "Province", "Municipality"}, {"1", "A", "B"}}},
	)

	table, err := ReadTable(path, TableOptions{})
	require.NoError(t, err)
	assert.Equal(t, "PSGC Data", table.Sheet)
	assert.Equal(t, []string{"Notes", "PSGC Data"}, table.Sheets)
}

func TestReadTable_NamedSheet(t *testing.T) {
	path := createTestXLSX(t,
		sheetData{name: "Provinces", rows: [][]string{{"Code"}, {"1"}}},
		sheetData{name: "Other", rows: [][]string{{"X"}, {"y"}}},
	)

	table, err := ReadTable(path, TableOptions{Sheet: "Other"})
	require.NoError(t, err)
	assert.Equal(t, "Other", table.Sheet)
	assert.Equal(t, [][]string{{"y"}}, table.Rows)

	_, err = ReadTable(path, TableOptions{Sheet: "Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sheet "Missing" not found`)
}

func TestReadTable_HeaderAfterLeadingEmptyRows(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"PSGC Code", "Province", "City/Municipality"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{"012801000", "Ilocos Norte", "Adams"}))
	path := filepath.Join(t.TempDir(), "sparse.xlsx")
	require.NoError(t, f.SaveAs(path))

	table, err := ReadTable(path, TableOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"PSGC Code", "Province", "City/Municipality"}, table.Header)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Adams", table.Rows[0][2])
}

func TestReadTable_LeadingBlankRow(t *testing.T) {
	path := createTestXLSX(t, sheetData{name: "Sheet1", rows: [][]string{
		{"", ""},
		{"PSGC Code", "Province"},
		{"012801000", "Ilocos Norte"},
	}})

	table, err := ReadTable(path, TableOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"PSGC Code", "Province"}, table.Header)
	assert.Len(t, table.Rows, 1)
}

func TestReadTable_EmptySheet(t *testing.T) {
	path := createTestXLSX(t, sheetData{name: "Data"})

	_, err := ReadTable(path, TableOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")
}

func TestReadTable_MissingFile(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "nope.xlsx"), TableOptions{})
	assert.Error(t, err)
}

// Package source reads PSGC records from spreadsheets and flat record packages.
package source

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// sheetHints are matched against sheet names when no sheet is configured.
var sheetHints = []string{"province", "municipality", "city", "data"}

// TableOptions configures ReadTable.
type TableOptions struct {
	// Sheet selects a sheet by name. Empty picks the first sheet whose name
	// contains a sheet hint, falling back to the first sheet.
	Sheet string
}

// Table is one worksheet split into its header row and data rows.
type Table struct {
	Sheet  string
	Sheets []string
	Header []string
	Rows   [][]string
}

// ReadTable opens an XLSX workbook and loads the selected sheet. The first
// non-blank row is the header; leading empty or missing rows are skipped.
func ReadTable(path string, opts TableOptions) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: open %s", path)
	}

	sheet, err := pickSheet(f, opts.Sheet)
	if err != nil {
		return nil, err
	}

	t := &Table{Sheet: sheet.Name}
	for _, s := range f.Sheets {
		t.Sheets = append(t.Sheets, s.Name)
	}

	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		cells := rowToStrings(row)
		if isBlank(cells) {
			continue
		}
		if t.Header == nil {
			t.Header = cells
			continue
		}
		t.Rows = append(t.Rows, cells)
	}

	if t.Header == nil {
		return nil, eris.Errorf("xlsx: sheet %q is empty", sheet.Name)
	}
	return t, nil
}

func pickSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}

	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", name)
		}
		return sheet, nil
	}

	for _, s := range f.Sheets {
		lower := strings.ToLower(s.Name)
		for _, hint := range sheetHints {
			if strings.Contains(lower, hint) {
				return s, nil
			}
		}
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = strings.TrimSpace(cell.String())
	}
	return cells
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

package emit

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/sells-group/psgc-cli/internal/psgc"
)

// Workbook sheet names.
const (
	SheetProvinces      = "Provinces"
	SheetMunicipalities = "Municipalities"
	SheetBarangays      = "Barangays"
)

// XLSXEmitter writes the tree as a workbook with one flat sheet per level.
// Child rows carry their parent code.
type XLSXEmitter struct{}

// Emit implements Emitter.
func (XLSXEmitter) Emit(ctx context.Context, tree *psgc.Tree, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName("Sheet1", SheetProvinces); err != nil {
		return eris.Wrap(err, "emit: rename sheet")
	}
	for _, name := range []string{SheetMunicipalities, SheetBarangays} {
		if _, err := f.NewSheet(name); err != nil {
			return eris.Wrapf(err, "emit: create sheet %s", name)
		}
	}

	provinces := [][]any{{"Code", "Name", "Synthetic"}}
	municipalities := [][]any{{"Code", "Name", "Province Code"}}
	barangays := [][]any{{"Code", "Name", "Municipality Code"}}
	for _, p := range tree.Provinces {
		provinces = append(provinces, []any{p.Code, p.Name, p.Synthetic})
		for _, m := range p.Municipalities {
			municipalities = append(municipalities, []any{m.Code, m.Name, p.Code})
			for _, b := range m.Barangays {
				barangays = append(barangays, []any{b.Code, b.Name, m.Code})
			}
		}
	}

	for _, sheet := range []struct {
		name string
		rows [][]any
	}{
		{SheetProvinces, provinces},
		{SheetMunicipalities, municipalities},
		{SheetBarangays, barangays},
	} {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "emit: xlsx")
		}
		if err := writeSheet(f, sheet.name, sheet.rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "emit: write xlsx")
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return eris.Wrapf(err, "emit: stream sheet %s", sheet)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return eris.Wrap(err, "emit: cell name")
		}
		if err := sw.SetRow(cell, row); err != nil {
			return eris.Wrapf(err, "emit: write %s row %d", sheet, i+1)
		}
	}
	return eris.Wrapf(sw.Flush(), "emit: flush sheet %s", sheet)
}

package render

import (
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

// WriteXLSX writes every detail table of v as its own sheet, plus a
// "Filtros" sheet with the applied selections.
func WriteXLSX(w io.Writer, v *View) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	first := "Filtros"
	if err := f.SetSheetName("Sheet1", first); err != nil {
		return eris.Wrap(err, "render: rename sheet")
	}
	if err := writeRows(f, first, []string{"filtro", "valor"}, filterRows(v)); err != nil {
		return err
	}

	used := map[string]bool{first: true}
	for _, t := range v.Tables {
		name := sheetName(t.Name, used)
		if _, err := f.NewSheet(name); err != nil {
			return eris.Wrapf(err, "render: new sheet %s", name)
		}
		if err := writeRows(f, name, t.Columns, t.Rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "render: write xlsx")
	}
	return nil
}

func filterRows(v *View) [][]any {
	rows := make([][]any, 0, len(v.Filters))
	for _, s := range v.Filters {
		rows = append(rows, []any{s.Label, s.Selected})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, header []string, rows [][]any) error {
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return eris.Wrapf(err, "render: write %s header", sheet)
		}
	}
	if len(header) > 0 {
		last, _ := excelize.ColumnNumberToName(len(header))
		_ = f.SetColWidth(sheet, "A", last, 18)
	}
	for r, row := range rows {
		for c, val := range row {
			if val == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return eris.Wrapf(err, "render: write %s!%s", sheet, cell)
			}
		}
	}
	return nil
}

// sheetName truncates and de-duplicates a sheet name.
func sheetName(name string, used map[string]bool) string {
	if name == "" {
		name = "Tabla"
	}
	base := []rune(name)
	if len(base) > maxSheetName {
		base = base[:maxSheetName]
	}
	out := string(base)
	for i := 2; used[out]; i++ {
		suffix := []rune(" " + strconv.Itoa(i))
		b := base
		if len(b)+len(suffix) > maxSheetName {
			b = b[:maxSheetName-len(suffix)]
		}
		out = string(b) + string(suffix)
	}
	used[out] = true
	return out
}

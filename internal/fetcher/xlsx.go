package fetcher

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/table"
)

// XLSXOptions configures the XLSX parser.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// ReadXLSX reads an XLSX sheet and returns every non-blank row as typed
// cells. Numeric cells keep their number; everything else is text, and
// empty cells are null.
func ReadXLSX(path string, opts XLSXOptions) ([][]table.Value, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	var rows [][]table.Value
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		cells := rowToValues(row)
		if blank(cells) {
			continue
		}
		rows = append(rows, cells)
	}

	return rows, nil
}

// ReadXLSXTable reads the sheet into a table, using the first row as header.
func ReadXLSXTable(path, name string, opts XLSXOptions) (*table.Table, error) {
	rows, err := ReadXLSX(path, opts)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return table.New(name, nil), nil
	}

	header := make([]string, len(rows[0]))
	for i, c := range rows[0] {
		header[i] = c.String()
	}
	t := table.New(name, header)
	for _, r := range rows[1:] {
		t.Append(r)
	}
	return t, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToValues(row *xlsx.Row) []table.Value {
	cells := make([]table.Value, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cellValue(cell)
	}
	return cells
}

func cellValue(cell *xlsx.Cell) table.Value {
	if cell == nil || strings.TrimSpace(cell.Value) == "" {
		return table.Value{}
	}
	if cell.Type() == xlsx.CellTypeNumeric {
		if f, err := cell.Float(); err == nil {
			return table.NumberValue(f)
		}
	}
	return table.TextValue(cell.String())
}

func blank(cells []table.Value) bool {
	for _, c := range cells {
		if !c.IsNull() {
			return false
		}
	}
	return true
}

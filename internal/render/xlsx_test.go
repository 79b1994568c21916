package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/filter"
)

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	v := &View{
		Slug: "mapa",
		Filters: []filter.Step{
			{Def: filter.Def{Label: "Universidad", Column: "universidad", Param: "universidad"}, Selected: "Universidad Latina"},
		},
		Tables: []Table{
			ProvinceTable(provinceRows),
			{Name: "Provincias", Columns: []string{"x"}, Rows: [][]any{{1}}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, v))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	assert.Equal(t, []string{"Filtros", "Provincias", "Provincias 2"}, f.GetSheetList())

	rows, err := f.GetRows("Filtros")
	require.NoError(t, err)
	assert.Equal(t, []string{"Universidad", "Universidad Latina"}, rows[1])

	rows, err = f.GetRows("Provincias")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"provincia", "total_graduados", "total_empleados", "tasa"}, rows[0])
	assert.Equal(t, "Limón", rows[1][0])
	assert.Equal(t, "66.7", rows[2][3])
}

func TestSheetName(t *testing.T) {
	t.Parallel()

	used := map[string]bool{}
	long := strings.Repeat("a", 40)
	first := sheetName(long, used)
	assert.Len(t, first, maxSheetName)
	second := sheetName(long, used)
	assert.Len(t, second, maxSheetName)
	assert.True(t, strings.HasSuffix(second, " 2"))
	assert.Equal(t, "Tabla", sheetName("", used))
}

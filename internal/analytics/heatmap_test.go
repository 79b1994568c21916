package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/model"
)

func TestProgramLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Derecho — Penal", ProgramLabel(" Derecho ", "Penal "))
	assert.Equal(t, "Medicina", ProgramLabel("Medicina", "  "))
}

func TestParseAxis(t *testing.T) {
	t.Parallel()

	assert.Equal(t, AxisLevel, ParseAxis("grado"))
	assert.Equal(t, AxisLevel, ParseAxis(" Nivel "))
	assert.Equal(t, AxisYear, ParseAxis(""))
	assert.Equal(t, AxisYear, ParseAxis("anio"))
	assert.Equal(t, "Grado", AxisLevel.Label())
	assert.Equal(t, "Año de Graduacion", AxisYear.Label())
}

func TestEmployabilityHeatmap_ByYear(t *testing.T) {
	t.Parallel()

	g := grads(
		model.Graduate{ID: "1", Faculty: "Salud", Career: "Medicina", Year: "2020"},
		model.Graduate{ID: "2", Faculty: "Salud", Career: "Medicina", Year: "2021"},
		model.Graduate{ID: "3", Faculty: "Derecho", Career: "Derecho", Emphasis: "Penal", Year: "2020"},
		model.Graduate{ID: "4", Faculty: "Derecho", Career: "Derecho", Emphasis: "Penal", Year: "2020"},
	)
	l := labor(inactive("1"), active("2"), active("3"))

	hm, err := EmployabilityHeatmap(g, l, model.NewIDSet("1", "2", "3", "4"), AxisYear)
	require.NoError(t, err)

	assert.Equal(t, []string{"2020", "2021"}, hm.Columns)
	assert.Equal(t, []string{"Medicina", "Derecho — Penal"}, hm.Rows)
	assert.Equal(t, []string{"Salud", "Derecho"}, hm.Faculty)
	assert.Equal(t, []float64{100, 50}, hm.RowRates)

	// Derecho has no 2021 graduates.
	assert.False(t, hm.Cells[1][1].Valid)
	assert.Equal(t, HeatmapCell{Graduates: 2, Employed: 1, Rate: 50, Valid: true}, hm.Cells[1][0])
	assert.Equal(t, HeatmapCell{Graduates: 1, Employed: 1, Rate: 100, Valid: true}, hm.Cells[0][1])
}

func TestEmployabilityHeatmap_ByLevel(t *testing.T) {
	t.Parallel()

	g := grads(
		model.Graduate{ID: "1", Career: "Derecho", Level: "Licenciatura", Year: "2020"},
		model.Graduate{ID: "2", Career: "Derecho", Level: "Bachillerato", Year: "2020"},
	)
	hm, err := EmployabilityHeatmap(g, labor(active("2")), model.NewIDSet("1", "2"), AxisLevel)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bachillerato", "Licenciatura"}, hm.Columns)
	assert.Equal(t, 100.0, hm.Cells[0][0].Rate)
	assert.Equal(t, 0.0, hm.Cells[0][1].Rate)
	assert.True(t, hm.Cells[0][1].Valid)
}

func TestEmployabilityHeatmap_KeepsTopPrograms(t *testing.T) {
	t.Parallel()

	var rows []model.Graduate
	var recs []model.LaborRecord
	ids := model.NewIDSet()
	// Program i has 10 graduates, i of them employed.
	for i := 0; i < 12; i++ {
		for j := 0; j < 10; j++ {
			id := fmt.Sprintf("%02d-%02d", i, j)
			ids.Add(id)
			rows = append(rows, model.Graduate{ID: id, Faculty: "F", Career: fmt.Sprintf("Carrera %02d", i), Year: "2020"})
			if j < i {
				recs = append(recs, active(id))
			}
		}
	}

	hm, err := EmployabilityHeatmap(grads(rows...), labor(recs...), ids, AxisYear)
	require.NoError(t, err)
	require.Len(t, hm.Rows, HeatmapTopN)
	assert.Equal(t, "Carrera 11", hm.Rows[0])
	assert.Equal(t, "Carrera 02", hm.Rows[HeatmapTopN-1])
	for i := 1; i < len(hm.RowRates); i++ {
		assert.GreaterOrEqual(t, hm.RowRates[i-1], hm.RowRates[i])
	}
}

func TestEmployabilityHeatmap_EqualRatesKeepFacultyOrder(t *testing.T) {
	t.Parallel()

	g := grads(
		model.Graduate{ID: "1", Faculty: "Zoologia", Career: "A", Year: "2020"},
		model.Graduate{ID: "2", Faculty: "Artes", Career: "B", Year: "2020"},
	)
	hm, err := EmployabilityHeatmap(g, labor(), model.NewIDSet("1", "2"), AxisYear)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, hm.Rows)
}

func TestEmployabilityHeatmap_DominantFaculty(t *testing.T) {
	t.Parallel()

	g := grads(
		model.Graduate{ID: "1", Faculty: "Ingenieria", Career: "Sistemas", Year: "2020"},
		model.Graduate{ID: "2", Faculty: "Ciencias", Career: "Sistemas", Year: "2020"},
		model.Graduate{ID: "3", Faculty: "Ciencias", Career: "Sistemas", Year: "2021"},
	)
	hm, err := EmployabilityHeatmap(g, labor(), model.NewIDSet("1", "2", "3"), AxisYear)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ciencias"}, hm.Faculty)
}

func TestEmployabilityHeatmap_Halts(t *testing.T) {
	t.Parallel()

	_, err := EmployabilityHeatmap(grads(), labor(), model.NewIDSet(), AxisYear)
	requireHalt(t, err, LevelWarning, msgNoIDs)

	g := grads(model.Graduate{ID: "1", Career: "Derecho"})
	_, err = EmployabilityHeatmap(g, labor(), model.NewIDSet("1"), AxisYear)
	requireHalt(t, err, LevelWarning, "No hay datos suficientes para construir el heatmap con la configuración actual.")
}

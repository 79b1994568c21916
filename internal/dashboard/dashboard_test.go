package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/config"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/filter"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/render"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/source"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/table"
)

const graduadosCSV = `Cedula,Universidad,Grado,Facultad,Carrera,Enfasis,Anio_Graduacion,Cod_Graduacion
1,Universidad Latina,Bachillerato,Ingenieria,Sistemas,,2020,2020-1
2,Universidad Latina,Bachillerato,Ingenieria,Sistemas,,2020,2020-1
3,Universidad Latina,Licenciatura,Ingenieria,Sistemas,,2020,2020-2
4,Universidad Latina,Bachillerato,Derecho,Derecho,,2024,2024-1
5,Otra,Bachillerato,Derecho,Derecho,,2021,2021-1
6,Universidad Latina,Bachillerato,Derecho,Derecho,,2025,2025-1
`

const laboralCSV = `cedula,nombre_patrono,tipo_patrono,actividad_empresa,ingreso_aproximado,labora_actualmente,antiguedad_meses
1,CCSS,Publico,SALUD,"1.000.000,00",S,20
1,ICE,Publico,ENERGIA,"500.000,00",S,10
2,BANCO,Privado,FINANZAS,"800.000,00",S,30
4,BANCO,Privado,FINANZAS,"900.000,00",S,5
`

const localizacionCSV = `cedula,provincia
1,San José
2,SAN JOSE
3,Limón
4,Heredia
`

func writeData(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func testConfig(dir string) *config.Config {
	cfg := &config.Config{}
	cfg.Data.Dir = dir
	cfg.Data.ExcludedYear = "2025"
	cfg.Data.GeoJSON = filepath.Join(dir, "no-existe.geojson")
	cfg.Filters.PreferredUniversity = "Universidad Latina"
	cfg.FirstJob = config.FirstJobConfig{CohortYear: "2024", GraduationDate: "2024-03-01", SnapshotDate: "2025-04-01", MaxMonths: 24}
	return cfg
}

func newDashboard(t *testing.T, files map[string]string) *Dashboard {
	t.Helper()
	dir := writeData(t, files)
	cfg := testConfig(dir)
	cache := source.NewCache(source.NewFileSource(dir, "", ','), cfg.Data.ExcludedYear)
	d, err := New(cfg, cache)
	require.NoError(t, err)
	return d
}

func fullData() map[string]string {
	return map[string]string{
		"Graduados.csv":        graduadosCSV,
		"DataLaboral.csv":      laboralCSV,
		"DataLocalizacion.csv": localizacionCSV,
	}
}

// mapTables serves fixed tables.
type mapTables map[string]*table.Table

func (m mapTables) Get(_ context.Context, name string) (*table.Table, error) {
	t, ok := m[name]
	if !ok {
		return nil, source.ErrMissingTable
	}
	return t.Copy(), nil
}

func TestPagesRegistry(t *testing.T) {
	t.Parallel()

	slugs := map[string]bool{}
	for _, p := range Pages {
		assert.False(t, slugs[p.Slug], "duplicate slug %s", p.Slug)
		slugs[p.Slug] = true
		assert.NotEmpty(t, p.Title)
		assert.Contains(t, p.Required, source.Graduados)
		assert.NotNil(t, p.build)
	}
	assert.Len(t, Pages, 10)

	_, ok := Lookup("mapa")
	assert.True(t, ok)
	_, ok = Lookup("inexistente")
	assert.False(t, ok)
}

func TestRenderEmployability(t *testing.T) {
	t.Parallel()
	d := newDashboard(t, fullData())

	v, err := d.Render(context.Background(), "empleabilidad", Request{})
	require.NoError(t, err)
	assert.NotEmpty(t, v.RenderID)
	assert.Empty(t, v.Notices)
	require.Len(t, v.Filters, len(filter.Order))
	assert.Equal(t, "Universidad Latina", v.Filters[0].Selected)
	assert.Equal(t, []string{"Otra", "Universidad Latina"}, v.Filters[0].Options)

	require.Len(t, v.Charts, 1)
	assert.Equal(t, "Universidad Latina", v.Charts[0].Series[0].Name)
	require.Len(t, v.Tables, 1)
	// 2025 graduates are excluded on load.
	assert.Equal(t, [][]any{
		{"2020", 3, 2, 1, 66.7},
		{"2024", 1, 1, 0, 100.0},
	}, v.Tables[0].Rows)
}

func TestRenderUnemploymentSelection(t *testing.T) {
	t.Parallel()
	d := newDashboard(t, fullData())

	v, err := d.Render(context.Background(), "desempleo", Request{Selection: filter.Selection{"anio_graduacion": "2020"}})
	require.NoError(t, err)
	require.Len(t, v.Tables, 1)
	assert.Equal(t, [][]any{{"2020", 3, 2, 1, 33.3}}, v.Tables[0].Rows)
}

func TestRenderUnknownPage(t *testing.T) {
	t.Parallel()
	d := newDashboard(t, fullData())

	_, err := d.Render(context.Background(), "nada", Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestRenderMissingRequiredTable(t *testing.T) {
	t.Parallel()
	d := newDashboard(t, map[string]string{
		"Graduados.csv":   graduadosCSV,
		"DataLaboral.csv": laboralCSV,
	})

	v, err := d.Render(context.Background(), "mapa", Request{})
	require.NoError(t, err)
	require.Len(t, v.Notices, 1)
	assert.Equal(t, render.NoticeError, v.Notices[0].Level)
	assert.Equal(t, "No se encontró la tabla 'datalocalizacion'.", v.Notices[0].Message)
	assert.Empty(t, v.Charts)
	assert.True(t, v.Halted())
}

func TestRenderMapFallsBackToBars(t *testing.T) {
	t.Parallel()
	d := newDashboard(t, fullData())

	v, err := d.Render(context.Background(), "mapa", Request{})
	require.NoError(t, err)
	require.Len(t, v.Notices, 1)
	assert.Equal(t, render.NoticeInfo, v.Notices[0].Level)
	assert.False(t, v.Halted())
	require.Len(t, v.Charts, 1)
	assert.Equal(t, render.KindBar, v.Charts[0].Kind)

	assert.Equal(t, [][]any{
		{"HEREDIA", 1, 1, 100.0},
		{"LIMON", 1, 0, 0.0},
		{"SAN JOSE", 2, 2, 100.0},
	}, v.Tables[0].Rows)
}

func TestRenderHeatmapAxis(t *testing.T) {
	t.Parallel()
	d := newDashboard(t, fullData())

	v, err := d.Render(context.Background(), "heatmap", Request{Axis: "grado"})
	require.NoError(t, err)
	require.Len(t, v.Charts, 1)
	assert.Equal(t, []string{"Bachillerato", "Licenciatura"}, v.Charts[0].Heatmap.Columns)
}

func TestRenderHaltBecomesNotice(t *testing.T) {
	t.Parallel()
	d := newDashboard(t, fullData())

	v, err := d.Render(context.Background(), "multiempleo", Request{Selection: filter.Selection{"universidad": "Otra"}})
	require.NoError(t, err)
	require.Len(t, v.Notices, 1)
	assert.Equal(t, render.NoticeWarning, v.Notices[0].Level)
	assert.Equal(t, "No hay registros laborales para calcular multiempleo.", v.Notices[0].Message)
	assert.Empty(t, v.Charts)
	assert.Empty(t, v.Tables)
	// Filters are still reported so the user can change them.
	assert.Equal(t, "Otra", v.Filters[0].Selected)
}

func TestRenderFirstJob(t *testing.T) {
	t.Parallel()
	d := newDashboard(t, fullData())

	v, err := d.Render(context.Background(), "primer-empleo", Request{})
	require.NoError(t, err)
	assert.Empty(t, v.Notices)
	require.Len(t, v.Cards, 3)
	assert.Equal(t, "1", v.Cards[0].Value)
	require.Len(t, v.Tables, 1)
	assert.Equal(t, []any{"4", "2024-11-01", 8}, v.Tables[0].Rows[0])
}

func TestRenderWealthWithoutOptionalTables(t *testing.T) {
	t.Parallel()
	d := newDashboard(t, fullData())

	v, err := d.Render(context.Background(), "patrimonio", Request{})
	require.NoError(t, err)
	assert.Empty(t, v.Notices)
	require.Len(t, v.Tables, 2)
	assert.Len(t, v.Tables[1].Rows, 4)
}

func TestRenderAllPages(t *testing.T) {
	t.Parallel()
	d := newDashboard(t, fullData())

	for _, p := range Pages {
		t.Run(p.Slug, func(t *testing.T) {
			t.Parallel()
			v, err := d.Render(context.Background(), p.Slug, Request{})
			require.NoError(t, err)
			assert.Equal(t, p.Title, v.Title)
			for _, n := range v.Notices {
				assert.NotEqual(t, render.NoticeError, n.Level, n.Message)
			}
		})
	}
}

func TestRenderMissingColumns(t *testing.T) {
	t.Parallel()

	grads := table.FromRecords(source.Graduados, []string{"cedula", "universidad"}, [][]string{{"1", "U"}})
	labor := table.FromRecords(source.DataLaboral, []string{"cedula"}, [][]string{{"1"}})
	d, err := New(testConfig(t.TempDir()), mapTables{source.Graduados: grads, source.DataLaboral: labor})
	require.NoError(t, err)

	v, err := d.Render(context.Background(), "empleabilidad", Request{})
	require.NoError(t, err)
	require.Len(t, v.Notices, 1)
	assert.Equal(t, render.NoticeError, v.Notices[0].Level)
	assert.Contains(t, v.Notices[0].Message, "Faltan columnas en Graduados: grado, facultad")
}

func TestRenderEmptyCohort(t *testing.T) {
	t.Parallel()

	cols := []string{"cedula", "universidad", "grado", "facultad", "carrera", "enfasis", "anio_graduacion", "cod_graduacion"}
	grads := table.New(source.Graduados, cols)
	labor := table.FromRecords(source.DataLaboral, []string{"cedula"}, [][]string{{"1"}})
	d, err := New(testConfig(t.TempDir()), mapTables{source.Graduados: grads, source.DataLaboral: labor})
	require.NoError(t, err)

	v, err := d.Render(context.Background(), "empleabilidad", Request{})
	require.NoError(t, err)
	require.Len(t, v.Notices, 1)
	assert.Equal(t, render.NoticeWarning, v.Notices[0].Level)
	assert.Equal(t, filter.NoDataMessage, v.Notices[0].Message)
}

func TestRenderCancelledContext(t *testing.T) {
	t.Parallel()

	d := newDashboard(t, fullData())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Render(ctx, "empleabilidad", Request{})
	assert.Error(t, err)
}

func TestNewRejectsBadDates(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t.TempDir())
	cfg.FirstJob.SnapshotDate = "abril"
	_, err := New(cfg, mapTables{})
	assert.Error(t, err)
}

package render

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/analytics"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/geo"
)

const provincesGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"NOMBRE": "SAN JOSE"},
     "geometry": {"type": "Polygon", "coordinates": [[[-84.2, 9.8], [-83.9, 9.8], [-83.9, 10.1], [-84.2, 9.8]]]}},
    {"type": "Feature", "properties": {"NOMBRE": "LIMON"},
     "geometry": {"type": "Polygon", "coordinates": [[[-83.5, 9.5], [-82.6, 9.5], [-82.6, 10.9], [-83.5, 9.5]]]}}
  ]
}`

func loadBoundaries(t *testing.T) *geo.Boundaries {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cr.geojson")
	require.NoError(t, os.WriteFile(path, []byte(provincesGeoJSON), 0o644))
	b, err := geo.Load(path)
	require.NoError(t, err)
	return b
}

var provinceRows = []analytics.ProvinceRate{
	{Province: "Limón", Graduates: 4, Employed: 1, Rate: 25},
	{Province: "San José", Graduates: 3, Employed: 2, Rate: 66.7},
}

func TestEmployabilityChart(t *testing.T) {
	t.Parallel()

	rows := []analytics.CohortRate{
		{Year: "2020", Graduates: 3, Employed: 2, NotEmployed: 1, Rate: 66.7},
		{Year: "2021", Graduates: 1, Employed: 0, NotEmployed: 1, Rate: 0},
	}
	c := EmployabilityChart(rows, "Universidad Latina")
	assert.Equal(t, KindLine, c.Kind)
	require.Len(t, c.Series, 1)
	assert.Equal(t, "Universidad Latina", c.Series[0].Name)
	require.Len(t, c.Series[0].Points, 2)
	assert.Equal(t, "66.7%", c.Series[0].Points[0].Text)
	assert.Equal(t, 3, c.Series[0].Points[0].Hover["Graduados"])

	u := UnemploymentChart(rows, "Universidad Latina")
	assert.Contains(t, u.Title, "Desempleabilidad")

	tbl := CohortTable(rows)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []any{"2021", 1, 0, 1, 0.0}, tbl.Rows[1])
}

func TestProvinceChart(t *testing.T) {
	t.Parallel()

	t.Run("choropleth", func(t *testing.T) {
		t.Parallel()
		c, notice := ProvinceChart(provinceRows, loadBoundaries(t), nil)
		assert.Nil(t, notice)
		require.Equal(t, KindChoropleth, c.Kind)
		require.NotNil(t, c.Choropleth)
		assert.Equal(t, "properties.NOMBRE", c.Choropleth.FeatureKey)
		assert.Equal(t, []string{"LIMON", "SAN JOSE"}, c.Choropleth.Locations)
		assert.Equal(t, [2]float64{0, 100}, c.Choropleth.Range)
		assert.InDelta(t, -84.2, c.Choropleth.Bounds[0], 1e-9)
		assert.Equal(t, "San José", c.Choropleth.Hover[1]["Provincia"])
	})

	t.Run("load error falls back to bars", func(t *testing.T) {
		t.Parallel()
		c, notice := ProvinceChart(provinceRows, nil, eris.New("geo: read db/cr.geojson"))
		require.NotNil(t, notice)
		assert.Equal(t, NoticeInfo, notice.Level)
		assert.Contains(t, notice.Message, "No se pudo cargar el mapa coroplético")
		assert.Contains(t, notice.Message, "Se muestra vista alternativa (barras).")
		assert.Equal(t, KindBar, c.Kind)
	})

	t.Run("no boundaries", func(t *testing.T) {
		t.Parallel()
		_, notice := ProvinceChart(provinceRows, nil, nil)
		require.NotNil(t, notice)
	})
}

func TestProvinceBars(t *testing.T) {
	t.Parallel()

	c := ProvinceBars(provinceRows)
	pts := c.Series[0].Points
	require.Len(t, pts, 2)
	assert.Equal(t, "San José", pts[0].Label)
	assert.Equal(t, []float64{0, 100}, c.YRange)

	high := ProvinceBars([]analytics.ProvinceRate{{Province: "Cartago", Rate: 98}})
	assert.Equal(t, []float64{0, 103}, high.YRange)
}

func TestRankingCharts(t *testing.T) {
	t.Parallel()

	items := []analytics.RankedItem{
		{Name: "ENSEÑANZA", Persons: 3, Percent: 60},
		{Name: "COMERCIO", Persons: 2, Percent: 40},
	}
	c := ActivitiesChart(items)
	assert.Equal(t, KindBarH, c.Kind)
	pts := c.Series[0].Points
	assert.Equal(t, "COMERCIO", pts[0].Label)
	assert.Equal(t, "ENSEÑANZA", pts[1].Label)
	assert.NotContains(t, pts[0].Hover, "Tipo de patrono")

	e := EmployersChart([]analytics.RankedItem{{Name: "CCSS", Persons: 1, Percent: 100}})
	assert.Equal(t, EmployersTitle, e.Title)
	assert.Equal(t, "—", e.Series[0].Points[0].Hover["Tipo de patrono"])

	tbl := RankingTable("Actividades", items)
	assert.Equal(t, "ENSEÑANZA", tbl.Rows[0][0])
}

func TestInsertionChart(t *testing.T) {
	t.Parallel()

	c := InsertionChart([]analytics.DegreeRate{
		{Level: "Bachillerato", Graduates: 3, Employed: 2, NotEmployed: 1, PercentEmployed: 66.7, PercentNotEmployed: 33.3},
	})
	assert.Equal(t, KindStacked, c.Kind)
	require.Len(t, c.Series, 2)
	assert.Equal(t, "66.7%", c.Series[0].Points[0].Text)
	assert.Equal(t, "33.3%", c.Series[1].Points[0].Text)
	assert.Equal(t, []float64{0, 100}, c.YRange)
}

func TestFirstJobViews(t *testing.T) {
	t.Parallel()

	fj := &analytics.FirstJob{
		Persons: 2,
		Median:  5.5,
		Mean:    5.5,
		Records: []analytics.FirstJobRecord{
			{ID: "1", Start: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), Months: 3},
			{ID: "2", Start: time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), Months: 8},
		},
		Histogram: []analytics.Bin{{Lo: 3, Hi: 4, Count: 1}, {Lo: 4, Hi: 9, Count: 1}},
	}

	cards := FirstJobCards(fj)
	require.Len(t, cards, 3)
	assert.Equal(t, "2", cards[0].Value)
	assert.Equal(t, "5.5", cards[1].Value)

	c := FirstJobChart(fj, "2024")
	assert.Equal(t, KindHistogram, c.Kind)
	assert.Contains(t, c.Title, "2024")
	assert.Equal(t, "3", c.Series[0].Points[0].Label)
	assert.Equal(t, "4-8", c.Series[0].Points[1].Label)

	tbl := FirstJobTable(fj)
	assert.Equal(t, []any{"1", "2024-06-01", 3}, tbl.Rows[0])
}

func TestHeatmapChart(t *testing.T) {
	t.Parallel()

	hm := &analytics.Heatmap{
		Axis:     analytics.AxisYear,
		Rows:     []string{"Derecho"},
		Faculty:  []string{"Ciencias Sociales"},
		Columns:  []string{"2020", "2021"},
		Cells:    [][]analytics.HeatmapCell{{{Graduates: 2, Employed: 1, Rate: 50, Valid: true}, {}}},
		RowRates: []float64{50},
	}
	c := HeatmapChart(hm)
	require.NotNil(t, c.Heatmap)
	require.NotNil(t, c.Heatmap.Z[0][0])
	assert.InDelta(t, 50.0, *c.Heatmap.Z[0][0], 1e-9)
	assert.Nil(t, c.Heatmap.Z[0][1])
	assert.Contains(t, c.Title, "Año de Graduacion")

	tbl := HeatmapTable(hm)
	assert.Equal(t, []any{"Derecho", "Ciencias Sociales", 50.0, 50.0, nil}, tbl.Rows[0])
}

func TestMultiEmploymentAndWealth(t *testing.T) {
	t.Parallel()

	m := MultiEmploymentChart([]analytics.JobCountShare{
		{Category: analytics.SingleJob, Persons: 1, Percent: 50},
		{Category: analytics.MultipleJob, Persons: 1, Percent: 50},
	})
	assert.Equal(t, []string{"#224d67", "#F58518"}, m.Colors)

	w := &analytics.Wealth{
		Records: []analytics.WealthRecord{{ID: "1", Total: 10, Quintile: "Q1"}},
		Buckets: []analytics.QuintileSummary{{Quintile: "Q1", Persons: 1, Percent: 100, Min: 10.4, Max: 10.4}},
	}
	c := WealthChart(w)
	assert.Equal(t, 10.0, c.Series[0].Points[0].Hover["Mín"])
	tables := WealthTables(w)
	require.Len(t, tables, 2)
	assert.Equal(t, "Patrimonio", tables[1].Name)
}

func TestViewHalted(t *testing.T) {
	t.Parallel()

	v := &View{Notices: []Notice{{Level: NoticeInfo, Message: "x"}}}
	assert.False(t, v.Halted())
	v.Notices = append(v.Notices, Notice{Level: NoticeWarning, Message: "y"})
	assert.True(t, v.Halted())
}

package render

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/analytics"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/geo"
)

// MapFallbackMessage is the info notice shown when the choropleth cannot be
// drawn.
const MapFallbackMessage = "No se pudo cargar el mapa coroplético (%v). Se muestra vista alternativa (barras)."

// EmployersTitle is the employer ranking chart title.
const EmployersTitle = "Top 10 empleadores — número y % del total de empleados"

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func colors() []string { return append([]string(nil), Palette...) }

// EmployabilityChart draws the employability rate per graduation year as one
// line named after the selected university.
func EmployabilityChart(rows []analytics.CohortRate, university string) Chart {
	return cohortLine(rows, university,
		"Evolución de la Empleabilidad por Año de Graduacion",
		"Tasa de Empleabilidad (%)", "Empleabilidad")
}

// UnemploymentChart draws the unemployment rate per graduation year.
func UnemploymentChart(rows []analytics.CohortRate, university string) Chart {
	return cohortLine(rows, university,
		"Evolución de la Desempleabilidad por Año de Graduacion",
		"Tasa de Desempleabilidad (%)", "Desempleabilidad")
}

func cohortLine(rows []analytics.CohortRate, name, title, ylabel, rateLabel string) Chart {
	s := Series{Name: name}
	for _, r := range rows {
		s.Points = append(s.Points, Point{
			Label: r.Year,
			Value: r.Rate,
			Text:  pct(r.Rate),
			Hover: map[string]any{
				"Año de Graduacion": r.Year,
				rateLabel:           pct(r.Rate),
				"Graduados":         r.Graduates,
				"Empleados":         r.Employed,
			},
		})
	}
	return Chart{
		Kind:   KindLine,
		Title:  title,
		XLabel: "Año de Graduación",
		YLabel: ylabel,
		Colors: colors(),
		Series: []Series{s},
	}
}

// CohortTable lists the per-year counts behind a cohort chart.
func CohortTable(rows []analytics.CohortRate) Table {
	t := Table{Name: "Cohortes", Columns: []string{"anio_graduacion", "total_graduados", "total_empleados", "total_no_empleados", "tasa"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Year, r.Graduates, r.Employed, r.NotEmployed, r.Rate})
	}
	return t
}

// HeatmapChart draws the program x axis employability matrix.
func HeatmapChart(hm *analytics.Heatmap) Chart {
	h := &Heatmap{Rows: hm.Rows, Columns: hm.Columns, ColorLabel: "% empleados"}
	for _, line := range hm.Cells {
		z := make([]*float64, len(line))
		g := make([]int, len(line))
		e := make([]int, len(line))
		for j, c := range line {
			if c.Valid {
				rate := c.Rate
				z[j] = &rate
			}
			g[j], e[j] = c.Graduates, c.Employed
		}
		h.Z = append(h.Z, z)
		h.Graduates = append(h.Graduates, g)
		h.Employed = append(h.Employed, e)
	}
	return Chart{
		Kind:    KindHeatmap,
		Title:   "Empleabilidad por Carrera × " + hm.Axis.Label(),
		XLabel:  hm.Axis.Label(),
		YLabel:  "Carrera / Énfasis",
		Colors:  colors(),
		Heatmap: h,
	}
}

// HeatmapTable lists the ranked programs with their overall rate.
func HeatmapTable(hm *analytics.Heatmap) Table {
	t := Table{Name: "Programas", Columns: append([]string{"carrera_enfasis", "facultad", "tasa_global"}, hm.Columns...)}
	for i, row := range hm.Rows {
		line := []any{row, hm.Faculty[i], hm.RowRates[i]}
		for _, c := range hm.Cells[i] {
			if c.Valid {
				line = append(line, c.Rate)
			} else {
				line = append(line, nil)
			}
		}
		t.Rows = append(t.Rows, line)
	}
	return t
}

// ProvinceChart draws a choropleth over the boundaries, or a bar chart sorted
// by rate with an info notice when the boundaries could not be loaded.
func ProvinceChart(rows []analytics.ProvinceRate, b *geo.Boundaries, loadErr error) (Chart, *Notice) {
	if loadErr == nil && b == nil {
		loadErr = eris.New("sin archivo de límites")
	}
	if loadErr == nil {
		ch, err := choropleth(rows, b)
		if err == nil {
			return ch, nil
		}
		loadErr = err
	}
	return ProvinceBars(rows), &Notice{Level: NoticeInfo, Message: fmt.Sprintf(MapFallbackMessage, loadErr)}
}

func choropleth(rows []analytics.ProvinceRate, b *geo.Boundaries) (Chart, error) {
	raw, err := b.JSON()
	if err != nil {
		return Chart{}, err
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Province
	}
	key := b.FeatureKey(names)
	matched := b.Match(names, key)

	c := &Choropleth{GeoJSON: raw, FeatureKey: key, Range: [2]float64{0, 100}}
	for _, r := range rows {
		loc, ok := matched[r.Province]
		if !ok {
			loc = r.Province
		}
		c.Locations = append(c.Locations, loc)
		c.Values = append(c.Values, r.Rate)
		c.Hover = append(c.Hover, map[string]any{
			"Provincia":     r.Province,
			"Empleabilidad": pct(r.Rate),
			"Graduados":     r.Graduates,
			"Empleados":     r.Employed,
		})
	}
	bounds := b.Bounds()
	c.Bounds = [4]float64{bounds.Min(0), bounds.Min(1), bounds.Max(0), bounds.Max(1)}

	return Chart{Kind: KindChoropleth, Title: "Empleabilidad por provincia (%)", Colors: colors(), Choropleth: c}, nil
}

// ProvinceBars is the choropleth fallback.
func ProvinceBars(rows []analytics.ProvinceRate) Chart {
	sorted := append([]analytics.ProvinceRate(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rate > sorted[j].Rate })

	top := 0.0
	s := Series{Name: "Empleabilidad"}
	for _, r := range sorted {
		top = math.Max(top, r.Rate)
		s.Points = append(s.Points, Point{
			Label: r.Province,
			Value: r.Rate,
			Text:  pct(r.Rate),
			Hover: map[string]any{"Graduados": r.Graduates, "Empleados": r.Employed},
		})
	}
	return Chart{
		Kind:   KindBar,
		Title:  "Empleabilidad por provincia (%)",
		XLabel: "Provincia",
		YLabel: "Tasa de Empleabilidad (%)",
		YRange: []float64{0, math.Max(100, top+5)},
		Colors: colors(),
		Series: []Series{s},
	}
}

// ProvinceTable lists the per-province counts.
func ProvinceTable(rows []analytics.ProvinceRate) Table {
	t := Table{Name: "Provincias", Columns: []string{"provincia", "total_graduados", "total_empleados", "tasa"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Province, r.Graduates, r.Employed, r.Rate})
	}
	return t
}

// ActivitiesChart draws the activity ranking as horizontal bars, largest at
// the top.
func ActivitiesChart(items []analytics.RankedItem) Chart {
	return rankingBars(items,
		"Top 10 Actividades Económicas donde Laboran los Graduados",
		"Número de empleados", "Actividad económica", false)
}

// EmployersChart draws the employer ranking; hover carries the employer type.
func EmployersChart(items []analytics.RankedItem) Chart {
	return rankingBars(items, EmployersTitle, "Empleados únicos (cédulas)", "Empleador", true)
}

func rankingBars(items []analytics.RankedItem, title, xlabel, ylabel string, withType bool) Chart {
	s := Series{Name: xlabel}
	// Horizontal bars are drawn bottom-up.
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		hover := map[string]any{"Empleados": it.Persons, "Porcentaje": pct(it.Percent)}
		if withType {
			typ := it.Type
			if typ == "" {
				typ = "—"
			}
			hover["Tipo de patrono"] = typ
		}
		s.Points = append(s.Points, Point{Label: it.Name, Value: float64(it.Persons), Text: pct(it.Percent), Hover: hover})
	}
	return Chart{Kind: KindBarH, Title: title, XLabel: xlabel, YLabel: ylabel, Colors: colors(), Series: []Series{s}}
}

// RankingTable lists a ranking in rank order.
func RankingTable(name string, items []analytics.RankedItem) Table {
	t := Table{Name: name, Columns: []string{"nombre", "personas", "porcentaje", "tipo"}}
	for _, it := range items {
		t.Rows = append(t.Rows, []any{it.Name, it.Persons, it.Percent, it.Type})
	}
	return t
}

// InsertionChart draws employed and not employed shares per degree level as
// stacked bars.
func InsertionChart(rows []analytics.DegreeRate) Chart {
	emp := Series{Name: "Empleados"}
	not := Series{Name: "No empleados"}
	for _, r := range rows {
		emp.Points = append(emp.Points, Point{
			Label: r.Level, Value: r.PercentEmployed, Text: pct(r.PercentEmployed),
			Hover: map[string]any{"Cantidad": r.Employed, "Graduados en el grado": r.Graduates},
		})
		not.Points = append(not.Points, Point{
			Label: r.Level, Value: r.PercentNotEmployed, Text: pct(r.PercentNotEmployed),
			Hover: map[string]any{"Cantidad": r.NotEmployed, "Graduados en el grado": r.Graduates},
		})
	}
	return Chart{
		Kind:   KindStacked,
		Title:  "Inserción por nivel de grado — % empleados por grado",
		XLabel: "Grado",
		YLabel: "% dentro del grado",
		YRange: []float64{0, 100},
		Colors: colors(),
		Series: []Series{emp, not},
	}
}

// InsertionTable lists the per-level counts.
func InsertionTable(rows []analytics.DegreeRate) Table {
	t := Table{Name: "Grados", Columns: []string{"grado", "total_graduados", "total_empleados", "total_no_empleados", "pct_empleados", "pct_no_empleados"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Level, r.Graduates, r.Employed, r.NotEmployed, r.PercentEmployed, r.PercentNotEmployed})
	}
	return t
}

// FirstJobCards are the time-to-first-job KPIs.
func FirstJobCards(fj *analytics.FirstJob) []Card {
	return []Card{
		{Label: "Personas con empleo post-graduación", Value: strconv.Itoa(fj.Persons)},
		{Label: "Mediana (meses)", Value: strconv.FormatFloat(fj.Median, 'f', 1, 64)},
		{Label: "Promedio (meses)", Value: strconv.FormatFloat(fj.Mean, 'f', 1, 64)},
	}
}

// FirstJobChart draws the months-to-first-job histogram.
func FirstJobChart(fj *analytics.FirstJob, cohort string) Chart {
	s := Series{Name: "Personas"}
	for _, b := range fj.Histogram {
		label := strconv.FormatFloat(b.Lo, 'f', 0, 64)
		if b.Hi-b.Lo > 1 {
			label += "-" + strconv.FormatFloat(b.Hi-1, 'f', 0, 64)
		}
		s.Points = append(s.Points, Point{
			Label: label, X: b.Lo, Width: b.Hi - b.Lo, Value: float64(b.Count),
			Hover: map[string]any{"Meses": label, "Personas": b.Count},
		})
	}
	return Chart{
		Kind:   KindHistogram,
		Title:  "Distribución: meses al primer empleo (Año de Graduacion " + cohort + ")",
		XLabel: "Meses al primer empleo",
		YLabel: "Personas",
		Colors: colors(),
		Series: []Series{s},
	}
}

// FirstJobTable lists each person's first job, shortest wait first.
func FirstJobTable(fj *analytics.FirstJob) Table {
	t := Table{Name: "Primer empleo", Columns: []string{"cedula", "fecha_inicio_empleo", "meses_al_primer_empleo"}}
	for _, r := range fj.Records {
		t.Rows = append(t.Rows, []any{r.ID, r.Start.Format("2006-01-02"), r.Months})
	}
	return t
}

// MultiEmploymentChart draws the share of single and multiple job holders.
func MultiEmploymentChart(rows []analytics.JobCountShare) Chart {
	s := Series{Name: "Condición de empleo"}
	for _, r := range rows {
		s.Points = append(s.Points, Point{
			Label: r.Category, Value: r.Percent, Text: pct(r.Percent),
			Hover: map[string]any{"Personas": r.Persons, "Porcentaje": pct(r.Percent)},
		})
	}
	return Chart{
		Kind:   KindBar,
		Title:  "Tasa de multiempleo — % con más de un registro laboral",
		XLabel: "Condición laboral",
		YLabel: "Porcentaje de personas",
		Colors: []string{Palette[0], "#F58518"},
		Series: []Series{s},
	}
}

// MultiEmploymentTable lists persons per category.
func MultiEmploymentTable(rows []analytics.JobCountShare) Table {
	t := Table{Name: "Multiempleo", Columns: []string{"multiempleo", "total_personas", "porcentaje"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Category, r.Persons, r.Percent})
	}
	return t
}

// WealthChart draws persons per quintile with the bucket statistics on hover.
func WealthChart(w *analytics.Wealth) Chart {
	s := Series{Name: "Personas"}
	for _, b := range w.Buckets {
		s.Points = append(s.Points, Point{
			Label: b.Quintile, Value: float64(b.Persons), Text: pct(b.Percent),
			Hover: map[string]any{
				"Porcentaje": pct(b.Percent),
				"Mín":        math.Round(b.Min),
				"P25":        math.Round(b.P25),
				"Mediana":    math.Round(b.Median),
				"P75":        math.Round(b.P75),
				"Máx":        math.Round(b.Max),
				"Promedio":   math.Round(b.Mean),
			},
		})
	}
	return Chart{
		Kind:   KindBar,
		Title:  "Distribución por quintiles de patrimonio",
		XLabel: "Quintil",
		YLabel: "Personas",
		Colors: colors(),
		Series: []Series{s},
	}
}

// WealthTables are the bucket summary and the per-person detail.
func WealthTables(w *analytics.Wealth) []Table {
	sum := Table{Name: "Quintiles", Columns: []string{"quintil", "personas", "porcentaje", "min", "p25", "mediana", "p75", "max", "promedio"}}
	for _, b := range w.Buckets {
		sum.Rows = append(sum.Rows, []any{b.Quintile, b.Persons, b.Percent, b.Min, b.P25, b.Median, b.P75, b.Max, b.Mean})
	}
	det := Table{Name: "Patrimonio", Columns: []string{"cedula", "ingresos", "valor_inmueble", "valor_mueble", "patrimonio_total", "quintil"}}
	for _, r := range w.Records {
		det.Rows = append(det.Rows, []any{r.ID, r.Income, r.Property, r.Assets, r.Total, r.Quintile})
	}
	return []Table{sum, det}
}

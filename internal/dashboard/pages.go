package dashboard

import (
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/analytics"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/model"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/render"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/source"
)

// Page is one dashboard screen. Required tables that cannot be loaded halt
// the page with an error; missing optional tables are treated as empty.
type Page struct {
	Slug     string   `json:"slug" yaml:"slug"`
	Title    string   `json:"title" yaml:"title"`
	Required []string `json:"required" yaml:"required"`
	Optional []string `json:"optional,omitempty" yaml:"optional,omitempty"`

	build builder
}

// builder runs the aggregation of a page over the filtered cohort and fills v.
// A returned *analytics.Halt becomes a notice.
type builder func(d *Dashboard, in *input, v *render.View) error

var withLabor = []string{source.Graduados, source.DataLaboral}

// Pages lists every page in menu order.
var Pages = []Page{
	{Slug: "empleabilidad", Title: "Empleabilidad por Año de Graduacion", Required: withLabor, build: buildEmployability},
	{Slug: "desempleo", Title: "Desempleabilidad por Año de Graduacion", Required: withLabor, build: buildUnemployment},
	{Slug: "heatmap", Title: "Heatmap Empleabilidad", Required: withLabor, build: buildHeatmap},
	{Slug: "mapa", Title: "Mapa de Empleo por Provincia", Required: []string{source.Graduados, source.DataLaboral, source.DataLocalizacion}, build: buildProvinces},
	{Slug: "actividad", Title: "Distribución por Actividad Empresa", Required: withLabor, build: buildActivities},
	{Slug: "empleadores", Title: "Top 10 empleadores", Required: withLabor, build: buildEmployers},
	{Slug: "insercion", Title: "Inserción por nivel de grado", Required: withLabor, build: buildInsertion},
	{Slug: "primer-empleo", Title: "Tiempo al primer empleo", Required: withLabor, build: buildFirstJob},
	{Slug: "multiempleo", Title: "Tasa de Multiempleo", Required: withLabor, build: buildMultiEmployment},
	{Slug: "patrimonio", Title: "Distribución por quintiles de patrimonio", Required: withLabor, Optional: []string{source.DataInmueble, source.DataMueble}, build: buildWealth},
}

// Lookup finds a page by slug.
func Lookup(slug string) (Page, bool) {
	for _, p := range Pages {
		if p.Slug == slug {
			return p, true
		}
	}
	return Page{}, false
}

func buildEmployability(_ *Dashboard, in *input, v *render.View) error {
	rows, err := analytics.EmployabilityByCohort(in.grads, in.labor, in.ids)
	if err != nil {
		return err
	}
	v.Charts = append(v.Charts, render.EmployabilityChart(rows, in.university))
	v.Tables = append(v.Tables, render.CohortTable(rows))
	return nil
}

func buildUnemployment(_ *Dashboard, in *input, v *render.View) error {
	rows, err := analytics.UnemploymentByCohort(in.grads, in.labor, in.ids)
	if err != nil {
		return err
	}
	v.Charts = append(v.Charts, render.UnemploymentChart(rows, in.university))
	v.Tables = append(v.Tables, render.CohortTable(rows))
	return nil
}

func buildHeatmap(_ *Dashboard, in *input, v *render.View) error {
	hm, err := analytics.EmployabilityHeatmap(in.grads, in.labor, in.ids, in.axis)
	if err != nil {
		return err
	}
	v.Charts = append(v.Charts, render.HeatmapChart(hm))
	v.Tables = append(v.Tables, render.HeatmapTable(hm))
	return nil
}

func buildProvinces(d *Dashboard, in *input, v *render.View) error {
	locs := model.LocationsFromTable(in.tables[source.DataLocalizacion])
	rows, err := analytics.ProvinceEmployability(in.grads, in.labor, locs, in.ids)
	if err != nil {
		return err
	}
	b, loadErr := d.boundaries()
	chart, notice := render.ProvinceChart(rows, b, loadErr)
	if notice != nil {
		v.Notices = append(v.Notices, *notice)
	}
	v.Charts = append(v.Charts, chart)
	v.Tables = append(v.Tables, render.ProvinceTable(rows))
	return nil
}

func buildActivities(_ *Dashboard, in *input, v *render.View) error {
	items, err := analytics.TopActivities(in.labor, in.ids)
	if err != nil {
		return err
	}
	v.Charts = append(v.Charts, render.ActivitiesChart(items))
	v.Tables = append(v.Tables, render.RankingTable("Actividades", items))
	return nil
}

func buildEmployers(_ *Dashboard, in *input, v *render.View) error {
	items, err := analytics.TopEmployers(in.labor, in.ids)
	if err != nil {
		return err
	}
	v.Charts = append(v.Charts, render.EmployersChart(items))
	v.Tables = append(v.Tables, render.RankingTable("Empleadores", items))
	return nil
}

func buildInsertion(_ *Dashboard, in *input, v *render.View) error {
	rows, err := analytics.InsertionByDegree(in.grads, in.labor, in.ids)
	if err != nil {
		return err
	}
	v.Charts = append(v.Charts, render.InsertionChart(rows))
	v.Tables = append(v.Tables, render.InsertionTable(rows))
	return nil
}

func buildFirstJob(d *Dashboard, in *input, v *render.View) error {
	fj, err := analytics.TimeToFirstJob(in.grads, in.labor, in.ids, d.firstJob)
	if err != nil {
		return err
	}
	v.Cards = append(v.Cards, render.FirstJobCards(fj)...)
	v.Charts = append(v.Charts, render.FirstJobChart(fj, d.firstJob.CohortYear))
	v.Tables = append(v.Tables, render.FirstJobTable(fj))
	return nil
}

func buildMultiEmployment(_ *Dashboard, in *input, v *render.View) error {
	rows, err := analytics.MultiEmployment(in.labor, in.ids)
	if err != nil {
		return err
	}
	v.Charts = append(v.Charts, render.MultiEmploymentChart(rows))
	v.Tables = append(v.Tables, render.MultiEmploymentTable(rows))
	return nil
}

func buildWealth(_ *Dashboard, in *input, v *render.View) error {
	w, err := analytics.WealthQuintiles(in.grads, in.labor,
		model.PropertyFromTable(in.tables[source.DataInmueble]),
		model.AssetsFromTable(in.tables[source.DataMueble]),
		in.ids)
	if err != nil {
		return err
	}
	v.Charts = append(v.Charts, render.WealthChart(w))
	v.Tables = append(v.Tables, render.WealthTables(w)...)
	return nil
}

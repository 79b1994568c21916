package analytics

import (
	"sort"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/model"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/transform"
)

// CohortRate is the employment outcome of one graduation year.
type CohortRate struct {
	Year        string  `json:"anio_graduacion"`
	Graduates   int     `json:"total_graduados"`
	Employed    int     `json:"total_empleados"`
	NotEmployed int     `json:"total_no_empleados"`
	Rate        float64 `json:"tasa"`
}

// EmployabilityByCohort computes, per graduation year, the share of distinct
// graduates with at least one labor record. Every labor record counts,
// active or not.
func EmployabilityByCohort(grads model.Graduates, labor model.Labor, ids model.IDSet) ([]CohortRate, error) {
	rows := cohortCounts(grads, labor, ids)
	if len(rows) == 0 {
		return nil, Warn("No hay datos de empleabilidad para mostrar con los filtros aplicados.")
	}
	for i := range rows {
		rows[i].Rate = transform.Percent(rows[i].Employed, rows[i].Graduates)
	}
	return rows, nil
}

// UnemploymentByCohort computes, per graduation year, the share of distinct
// graduates without any labor record.
func UnemploymentByCohort(grads model.Graduates, labor model.Labor, ids model.IDSet) ([]CohortRate, error) {
	rows := cohortCounts(grads, labor, ids)
	if len(rows) == 0 {
		return nil, Warn("No hay datos de desempleabilidad para mostrar con los filtros aplicados.")
	}
	for i := range rows {
		rows[i].Rate = transform.Percent(rows[i].NotEmployed, rows[i].Graduates)
	}
	return rows, nil
}

// cohortCounts returns graduates and employed per year, sorted by year.
// A person who graduated in several years counts in each of them.
func cohortCounts(grads model.Graduates, labor model.Labor, ids model.IDSet) []CohortRate {
	gradByYear := make(map[string]model.IDSet)
	yearsOf := make(map[string][]string)
	for _, g := range grads.Rows {
		if !ids.Has(g.ID) || g.Year == "" {
			continue
		}
		set, ok := gradByYear[g.Year]
		if !ok {
			set = make(model.IDSet)
			gradByYear[g.Year] = set
		}
		if !set.Has(g.ID) {
			set.Add(g.ID)
			yearsOf[g.ID] = append(yearsOf[g.ID], g.Year)
		}
	}

	empByYear := make(map[string]model.IDSet)
	for _, r := range labor.For(ids) {
		for _, y := range yearsOf[r.ID] {
			set, ok := empByYear[y]
			if !ok {
				set = make(model.IDSet)
				empByYear[y] = set
			}
			set.Add(r.ID)
		}
	}

	out := make([]CohortRate, 0, len(gradByYear))
	for y, set := range gradByYear {
		c := CohortRate{Year: y, Graduates: set.Len(), Employed: empByYear[y].Len()}
		c.NotEmployed = max(c.Graduates-c.Employed, 0)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

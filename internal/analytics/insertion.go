package analytics

import (
	"sort"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/model"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/transform"
)

// DegreeRate is the insertion of one academic level. Percentages are rounded
// and PercentNotEmployed is the complement of PercentEmployed.
type DegreeRate struct {
	Level              string  `json:"grado"`
	Graduates          int     `json:"total_graduados"`
	Employed           int     `json:"total_empleados"`
	NotEmployed        int     `json:"total_no_empleados"`
	PercentEmployed    float64 `json:"pct_empleados"`
	PercentNotEmployed float64 `json:"pct_no_empleados"`
}

// InsertionByDegree splits the cohort by academic level (grado, or cod_grado
// when the former is absent) and counts the actively employed in each.
func InsertionByDegree(grads model.Graduates, labor model.Labor, ids model.IDSet) ([]DegreeRate, error) {
	if ids.Len() == 0 {
		return nil, Warn(msgNoIDs)
	}
	if grads.LevelColumn == "" {
		return nil, Fail("No se encontró una columna de grado ('grado' o 'cod_grado') en Graduados.")
	}

	byLevel := make(map[string]model.IDSet)
	levelsOf := make(map[string][]string)
	for _, g := range grads.Rows {
		if !ids.Has(g.ID) || g.Level == "" {
			continue
		}
		set, ok := byLevel[g.Level]
		if !ok {
			set = make(model.IDSet)
			byLevel[g.Level] = set
		}
		if !set.Has(g.ID) {
			set.Add(g.ID)
			levelsOf[g.ID] = append(levelsOf[g.ID], g.Level)
		}
	}

	empByLevel := make(map[string]model.IDSet)
	for _, r := range labor.ActiveFor(ids) {
		for _, lvl := range levelsOf[r.ID] {
			if empByLevel[lvl] == nil {
				empByLevel[lvl] = make(model.IDSet)
			}
			empByLevel[lvl].Add(r.ID)
		}
	}

	out := make([]DegreeRate, 0, len(byLevel))
	var total float64
	for lvl, set := range byLevel {
		d := DegreeRate{Level: lvl, Graduates: set.Len(), Employed: empByLevel[lvl].Len()}
		d.NotEmployed = max(d.Graduates-d.Employed, 0)
		d.PercentEmployed = transform.Percent(d.Employed, d.Graduates)
		d.PercentNotEmployed = transform.Round1(100 - d.PercentEmployed)
		total += d.PercentEmployed + d.PercentNotEmployed
		out = append(out, d)
	}
	if total == 0 {
		return nil, Warn("No hay datos suficientes para construir el gráfico con la configuración actual.")
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out, nil
}

package analytics

import (
	"sort"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/model"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/transform"
)

// Multi-employment categories.
const (
	SingleJob   = "No (1 empleo)"
	MultipleJob = "Sí (más de 1 empleo)"
)

// JobCountShare is the number and share of employed persons in a category.
type JobCountShare struct {
	Category string  `json:"multiempleo"`
	Persons  int     `json:"total_personas"`
	Percent  float64 `json:"porcentaje"`
}

// MultiEmployment classifies each actively employed person by how many
// active labor records they hold. Only categories with people are returned,
// sorted by label.
func MultiEmployment(labor model.Labor, ids model.IDSet) ([]JobCountShare, error) {
	if ids.Len() == 0 {
		return nil, Warn(msgNoIDs)
	}
	recs := labor.ActiveFor(ids)
	if len(recs) == 0 {
		return nil, Warn("No hay registros laborales para calcular multiempleo.")
	}

	jobs := make(map[string]int)
	for _, r := range recs {
		jobs[r.ID]++
	}

	persons := make(map[string]int)
	for _, n := range jobs {
		if n > 1 {
			persons[MultipleJob]++
		} else {
			persons[SingleJob]++
		}
	}

	out := make([]JobCountShare, 0, len(persons))
	for cat, n := range persons {
		out = append(out, JobCountShare{Category: cat, Persons: n, Percent: transform.Percent(n, len(jobs))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

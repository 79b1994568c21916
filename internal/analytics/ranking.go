package analytics

import (
	"sort"
	"strings"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/model"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/transform"
)

// TopN is the number of entries kept by the rankings.
const TopN = 10

// RankedItem is one employer or activity. Percent is relative to the shown
// entries only, so a ranking's percentages add up to 100.
type RankedItem struct {
	Name    string  `json:"nombre"`
	Persons int     `json:"personas"`
	Percent float64 `json:"porcentaje"`
	Type    string  `json:"tipo,omitempty"`
}

// placeholder employer names that carry no information.
var blankEmployers = map[string]bool{
	"":                true,
	"SIN INFORMACION": true,
	"NA":              true,
}

// TopActivities ranks economic activities by distinct actively employed
// persons.
func TopActivities(labor model.Labor, ids model.IDSet) ([]RankedItem, error) {
	if ids.Len() == 0 {
		return nil, Warn(msgNoIDs)
	}
	recs := labor.ActiveFor(ids)
	if len(recs) == 0 {
		return nil, Warn("No hay registros laborales activos para las cédulas filtradas.")
	}
	if !labor.HasActivity {
		return nil, Fail("No se encontró la columna 'actividad_empresa' en DataLaboral.")
	}

	persons := make(map[string]model.IDSet)
	for _, r := range recs {
		if r.Activity == "" {
			continue
		}
		if persons[r.Activity] == nil {
			persons[r.Activity] = make(model.IDSet)
		}
		persons[r.Activity].Add(r.ID)
	}
	if len(persons) == 0 {
		return nil, Warn("No hay datos válidos en la columna 'actividad_empresa'.")
	}
	return rank(persons, nil), nil
}

// TopEmployers ranks employers by distinct actively employed persons. Each
// employer carries its most frequent employer type.
func TopEmployers(labor model.Labor, ids model.IDSet) ([]RankedItem, error) {
	if ids.Len() == 0 {
		return nil, Warn(msgNoIDs)
	}
	if !labor.HasEmployer {
		return nil, Fail("No se encontró la columna 'nombre_patrono' en DataLaboral.")
	}

	var named []model.LaborRecord
	for _, r := range labor.ActiveFor(ids) {
		r.Employer = strings.TrimSpace(r.Employer)
		if blankEmployers[strings.ToUpper(r.Employer)] {
			continue
		}
		named = append(named, r)
	}
	if len(named) == 0 {
		return nil, Warn("No hay registros laborales con nombre de empleador para el filtro actual.")
	}

	persons := make(map[string]model.IDSet)
	types := make(map[string]map[string]int)
	for _, r := range named {
		if strings.EqualFold(r.Employer, "none") {
			continue
		}
		if persons[r.Employer] == nil {
			persons[r.Employer] = make(model.IDSet)
		}
		persons[r.Employer].Add(r.ID)
		if r.EmployerType != "" {
			if types[r.Employer] == nil {
				types[r.Employer] = make(map[string]int)
			}
			types[r.Employer][r.EmployerType]++
		}
	}
	if len(persons) == 0 {
		return nil, Warn("No hay empleadores válidos después de limpiar los nombres.")
	}
	return rank(persons, types), nil
}

// rank orders by persons descending then name, keeps the top entries and
// computes their share of the kept total.
func rank(persons map[string]model.IDSet, types map[string]map[string]int) []RankedItem {
	items := make([]RankedItem, 0, len(persons))
	for name, set := range persons {
		items = append(items, RankedItem{Name: name, Persons: set.Len(), Type: dominant(types[name])})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Persons != items[j].Persons {
			return items[i].Persons > items[j].Persons
		}
		return items[i].Name < items[j].Name
	})
	if len(items) > TopN {
		items = items[:TopN]
	}

	total := 0
	for _, it := range items {
		total += it.Persons
	}
	for i := range items {
		items[i].Percent = transform.Percent(items[i].Persons, total)
	}
	return items
}

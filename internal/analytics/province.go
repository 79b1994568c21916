package analytics

import (
	"sort"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/model"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/transform"
)

// ProvinceRate is the employability of graduates living in one province.
type ProvinceRate struct {
	Province  string  `json:"provincia"`
	Graduates int     `json:"total_graduados"`
	Employed  int     `json:"total_empleados"`
	Rate      float64 `json:"tasa"`
}

// ProvinceEmployability assigns each person the province that appears most
// often among their location rows (names normalized so "San José" and
// "SAN JOSE" match), then computes the share of graduates per province with
// active employment. Results are sorted by province.
func ProvinceEmployability(grads model.Graduates, labor model.Labor, locs model.Locations, ids model.IDSet) ([]ProvinceRate, error) {
	if ids.Len() == 0 {
		return nil, Warn(msgNoIDs)
	}
	if !locs.HasProvince {
		return nil, Fail("No se encontró la columna 'provincia' en DataLocalizacion.")
	}

	prov := PreferredProvinces(locs, ids)

	gradsBy := make(map[string]model.IDSet)
	for _, g := range grads.Rows {
		p, ok := prov[g.ID]
		if !ids.Has(g.ID) || !ok {
			continue
		}
		if gradsBy[p] == nil {
			gradsBy[p] = make(model.IDSet)
		}
		gradsBy[p].Add(g.ID)
	}
	if len(gradsBy) == 0 {
		return nil, Warn("No hay provincias registradas para las cédulas filtradas.")
	}

	empBy := make(map[string]model.IDSet)
	for _, r := range labor.ActiveFor(ids) {
		p, ok := prov[r.ID]
		if !ok {
			continue
		}
		if empBy[p] == nil {
			empBy[p] = make(model.IDSet)
		}
		empBy[p].Add(r.ID)
	}

	out := make([]ProvinceRate, 0, len(gradsBy))
	for p, set := range gradsBy {
		e := empBy[p].Len()
		out = append(out, ProvinceRate{
			Province:  p,
			Graduates: set.Len(),
			Employed:  e,
			Rate:      transform.Percent(e, set.Len()),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Province < out[j].Province })
	return out, nil
}

// PreferredProvinces returns the normalized most frequent province per
// identifier in ids. Ties go to the alphabetically first name.
func PreferredProvinces(locs model.Locations, ids model.IDSet) map[string]string {
	counts := make(map[string]map[string]int)
	for _, l := range locs.Records {
		if !ids.Has(l.ID) {
			continue
		}
		p := transform.NormalizeProvince(l.Province)
		if p == "" {
			continue
		}
		if counts[l.ID] == nil {
			counts[l.ID] = make(map[string]int)
		}
		counts[l.ID][p]++
	}

	out := make(map[string]string, len(counts))
	for id, c := range counts {
		out[id] = dominant(c)
	}
	return out
}

package analytics

import (
	"sort"
	"time"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/model"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/transform"
)

// FirstJobBins is the number of histogram bins requested for the
// distribution of months.
const FirstJobBins = 12

// FirstJobParams fixes the cohort and the reference dates. Every graduate of
// the cohort is assumed to graduate on Graduation; tenures are measured at
// Snapshot.
type FirstJobParams struct {
	CohortYear string
	Graduation time.Time
	Snapshot   time.Time
	MaxMonths  int
}

// FirstJobRecord is the first post-graduation job of one person.
type FirstJobRecord struct {
	ID     string    `json:"cedula"`
	Start  time.Time `json:"fecha_inicio_empleo"`
	Months int       `json:"meses_al_primer_empleo"`
}

// FirstJob summarizes the months between graduation and first job.
type FirstJob struct {
	Persons   int              `json:"personas"`
	Median    float64          `json:"mediana_meses"`
	Mean      float64          `json:"promedio_meses"`
	Records   []FirstJobRecord `json:"registros"`
	Histogram []Bin            `json:"histograma"`
}

// TimeToFirstJob estimates each active job's start date as the snapshot minus
// its tenure, keeps jobs starting on or after graduation, and picks per
// person the earliest start. Ties go to the higher income, then to the
// earlier labor row. grads must already carry the page filters.
func TimeToFirstJob(grads model.Graduates, labor model.Labor, ids model.IDSet, p FirstJobParams) (*FirstJob, error) {
	cohort := make(model.IDSet)
	found := false
	for _, g := range grads.Rows {
		if g.Year != p.CohortYear {
			continue
		}
		found = true
		if ids.Has(g.ID) {
			cohort.Add(g.ID)
		}
	}
	if !found {
		return nil, Warn("No hay graduados en el Año de Graduacion %s con los filtros seleccionados.", p.CohortYear)
	}
	if ids.Len() == 0 {
		return nil, Warn(msgNoIDs)
	}
	if cohort.Len() == 0 {
		return nil, Warn("No hay cédulas válidas en el Año de Graduacion %s para calcular el tiempo al primer empleo.", p.CohortYear)
	}

	if len(labor.For(cohort)) == 0 {
		return nil, Warn("No hay registros laborales para las cédulas del Año de Graduacion %s.", p.CohortYear)
	}
	recs := labor.ActiveFor(cohort)
	if len(recs) == 0 {
		return nil, Warn("No hay empleos vigentes para las cédulas del Año de Graduacion %s.", p.CohortYear)
	}
	if !labor.HasTenure {
		return nil, Fail("No se encontró la columna 'antiguedad_meses' en DataLaboral. No es posible estimar la fecha de inicio.")
	}

	type candidate struct {
		rec   model.LaborRecord
		start time.Time
	}
	var cands []candidate
	for _, r := range recs {
		if !r.Tenure.Valid {
			continue
		}
		months := max(int(r.Tenure.Value), 0)
		start := addMonths(p.Snapshot, -months)
		if start.Before(p.Graduation) {
			continue
		}
		cands = append(cands, candidate{rec: r, start: start})
	}
	if len(cands) == 0 {
		return nil, Warn("Todos los empleos comienzan antes de la fecha de graduación fija (%s). No hay datos para mostrar.",
			p.Graduation.Format("2006-01-02"))
	}

	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if !a.start.Equal(b.start) {
			return a.start.Before(b.start)
		}
		if a.rec.Income.Valid != b.rec.Income.Valid {
			return a.rec.Income.Valid
		}
		if a.rec.Income.Value != b.rec.Income.Value {
			return a.rec.Income.Value > b.rec.Income.Value
		}
		return a.rec.Row < b.rec.Row
	})

	seen := make(model.IDSet)
	var out []FirstJobRecord
	for _, c := range cands {
		if seen.Has(c.rec.ID) {
			continue
		}
		seen.Add(c.rec.ID)
		m := max(diffMonths(p.Graduation, c.start), 0)
		if m > p.MaxMonths {
			continue
		}
		out = append(out, FirstJobRecord{ID: c.rec.ID, Start: c.start, Months: m})
	}
	if len(out) == 0 {
		return nil, Warn("No quedaron registros válidos tras limpiar outliers.")
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Months != out[j].Months {
			return out[i].Months < out[j].Months
		}
		return out[i].ID < out[j].ID
	})

	vals := make([]float64, len(out))
	for i, r := range out {
		vals[i] = float64(r.Months)
	}
	return &FirstJob{
		Persons:   len(out),
		Median:    percentile(sortedCopy(vals), 50),
		Mean:      transform.Round1(mean(vals)),
		Records:   out,
		Histogram: histogram(vals, FirstJobBins),
	}, nil
}

// addMonths shifts t by n calendar months, clamping the day to the last day
// of the target month (Mar 31 - 1 month = Feb 28/29).
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + n
	y += total / 12
	total %= 12
	if total < 0 {
		total += 12
		y--
	}
	month := time.Month(total + 1)
	if last := daysIn(y, month); d > last {
		d = last
	}
	return time.Date(y, month, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// diffMonths counts whole calendar months from a to b, one less when b's day
// of month is before a's.
func diffMonths(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	return months
}

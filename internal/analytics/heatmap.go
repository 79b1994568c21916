package analytics

import (
	"sort"
	"strings"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/model"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/transform"
)

// Axis selects the heatmap column dimension.
type Axis string

// Heatmap column axes.
const (
	AxisYear  Axis = model.ColAnioGraduacion
	AxisLevel Axis = model.ColGrado
)

// ParseAxis maps a page parameter to an axis, defaulting to the year.
func ParseAxis(s string) Axis {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grado", "nivel":
		return AxisLevel
	default:
		return AxisYear
	}
}

// Label is the axis title shown to users.
func (a Axis) Label() string {
	if a == AxisLevel {
		return "Grado"
	}
	return "Año de Graduacion"
}

// HeatmapTopN is the number of program rows kept.
const HeatmapTopN = 10

// HeatmapCell is one program x column intersection. Cells with no graduates
// are not Valid.
type HeatmapCell struct {
	Graduates int     `json:"total_graduados"`
	Employed  int     `json:"total_empleados"`
	Rate      float64 `json:"tasa"`
	Valid     bool    `json:"valid"`
}

// Heatmap is an employability matrix of programs (rows) by year or degree
// (columns). Rows are the top programs by overall rate, best first.
type Heatmap struct {
	Axis     Axis            `json:"axis"`
	Rows     []string        `json:"rows"`
	Faculty  []string        `json:"facultad"`
	Columns  []string        `json:"columns"`
	Cells    [][]HeatmapCell `json:"cells"`
	RowRates []float64       `json:"row_rates"`
}

// ProgramLabel is "carrera — enfasis", or just the career when the emphasis
// is empty.
func ProgramLabel(career, emphasis string) string {
	career = strings.TrimSpace(career)
	emphasis = strings.TrimSpace(emphasis)
	if emphasis == "" {
		return career
	}
	return career + " — " + emphasis
}

type cellKey struct{ row, col string }

// EmployabilityHeatmap builds the program x axis matrix. Employment counts
// every labor record.
func EmployabilityHeatmap(grads model.Graduates, labor model.Labor, ids model.IDSet, axis Axis) (*Heatmap, error) {
	if ids.Len() == 0 {
		return nil, Warn(msgNoIDs)
	}

	gradIDs := make(map[cellKey]model.IDSet)
	keysOf := make(map[string][]cellKey)
	facCount := make(map[string]map[string]int)
	colSet := make(map[string]struct{})

	for _, g := range grads.Rows {
		if !ids.Has(g.ID) || strings.TrimSpace(g.Career) == "" {
			continue
		}
		col := g.Field(string(axis))
		if col == "" {
			continue
		}
		k := cellKey{row: ProgramLabel(g.Career, g.Emphasis), col: col}
		set, ok := gradIDs[k]
		if !ok {
			set = make(model.IDSet)
			gradIDs[k] = set
		}
		if !set.Has(g.ID) {
			set.Add(g.ID)
			keysOf[g.ID] = append(keysOf[g.ID], k)
		}
		colSet[col] = struct{}{}

		if g.Faculty != "" {
			if facCount[k.row] == nil {
				facCount[k.row] = make(map[string]int)
			}
			facCount[k.row][g.Faculty]++
		}
	}
	if len(gradIDs) == 0 {
		return nil, Warn("No hay datos suficientes para construir el heatmap con la configuración actual.")
	}

	empIDs := make(map[cellKey]model.IDSet)
	for _, r := range labor.For(ids) {
		for _, k := range keysOf[r.ID] {
			set, ok := empIDs[k]
			if !ok {
				set = make(model.IDSet)
				empIDs[k] = set
			}
			set.Add(r.ID)
		}
	}

	cols := make([]string, 0, len(colSet))
	for c := range colSet {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	type rowAgg struct {
		label, faculty string
		grads, emps    int
	}
	byRow := make(map[string]*rowAgg)
	for k, set := range gradIDs {
		ra, ok := byRow[k.row]
		if !ok {
			ra = &rowAgg{label: k.row, faculty: dominant(facCount[k.row])}
			byRow[k.row] = ra
		}
		ra.grads += set.Len()
		ra.emps += empIDs[k].Len()
	}

	rows := make([]*rowAgg, 0, len(byRow))
	for _, ra := range byRow {
		if ra.grads >= 1 {
			rows = append(rows, ra)
		}
	}
	if len(rows) == 0 {
		return nil, Warn("No hay suficientes datos para calcular el Top con el criterio global.")
	}

	// Faculty then label gives the base order; the ranking below is stable
	// so equal rates keep it.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].faculty != rows[j].faculty {
			return rows[i].faculty < rows[j].faculty
		}
		return rows[i].label < rows[j].label
	})
	rate := func(ra *rowAgg) float64 { return float64(ra.emps) / float64(ra.grads) }
	sort.SliceStable(rows, func(i, j int) bool { return rate(rows[i]) > rate(rows[j]) })
	if len(rows) > HeatmapTopN {
		rows = rows[:HeatmapTopN]
	}

	hm := &Heatmap{Axis: axis, Columns: cols}
	for _, ra := range rows {
		hm.Rows = append(hm.Rows, ra.label)
		hm.Faculty = append(hm.Faculty, ra.faculty)
		hm.RowRates = append(hm.RowRates, transform.Percent(ra.emps, ra.grads))

		line := make([]HeatmapCell, len(cols))
		for j, c := range cols {
			k := cellKey{row: ra.label, col: c}
			set, ok := gradIDs[k]
			if !ok {
				continue
			}
			e := empIDs[k].Len()
			line[j] = HeatmapCell{
				Graduates: set.Len(),
				Employed:  e,
				Rate:      transform.Percent(e, set.Len()),
				Valid:     true,
			}
		}
		hm.Cells = append(hm.Cells, line)
	}
	return hm, nil
}

// dominant returns the most frequent key, breaking ties alphabetically.
func dominant(counts map[string]int) string {
	best, bestN := "", 0
	for k, n := range counts {
		if n > bestN || (n == bestN && k < best) {
			best, bestN = k, n
		}
	}
	return best
}

package analytics

import (
	"sort"

	"go.uber.org/zap"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/model"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/transform"
)

// QuintileLabels are the wealth buckets, poorest first.
var QuintileLabels = []string{"Q1", "Q2", "Q3", "Q4", "Q5"}

// WealthRecord is the wealth of one person.
type WealthRecord struct {
	ID       string  `json:"cedula"`
	Income   float64 `json:"ingresos"`
	Property float64 `json:"valor_inmueble"`
	Assets   float64 `json:"valor_mueble"`
	Total    float64 `json:"patrimonio_total"`
	Quintile string  `json:"quintil"`
}

// QuintileSummary describes the wealth distribution inside one bucket.
// Statistics are zero when the bucket is empty.
type QuintileSummary struct {
	Quintile string  `json:"quintil"`
	Persons  int     `json:"personas"`
	Percent  float64 `json:"porcentaje"`
	Min      float64 `json:"min"`
	P25      float64 `json:"p25"`
	Median   float64 `json:"mediana"`
	P75      float64 `json:"p75"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"promedio"`
}

// Wealth is the quintile assignment of a cohort.
type Wealth struct {
	Records []WealthRecord    `json:"registros"`
	Buckets []QuintileSummary `json:"quintiles"`
	// PositiveEdges are the 0/25/50/75/100th percentiles of the strictly
	// positive totals.
	PositiveEdges []float64 `json:"bordes_positivos,omitempty"`
}

// WealthQuintiles sums income (every labor record), property fiscal values
// and asset contract values per graduate and assigns each person a bucket.
// Missing amounts count as zero. When both non-positive and positive totals
// exist, Q1 holds every total <= 0 and the positives are split four ways
// into Q2..Q5; otherwise all totals are split five ways.
func WealthQuintiles(grads model.Graduates, labor model.Labor, property, assets []model.ValueRecord, ids model.IDSet) (*Wealth, error) {
	if ids.Len() == 0 {
		return nil, Warn(msgNoIDs)
	}

	people := grads.Restrict(ids).IDs()
	if people.Len() == 0 {
		return nil, Warn(msgNoIDs)
	}

	income := make(map[string]float64)
	for _, r := range labor.For(people) {
		if r.Income.Valid {
			income[r.ID] += r.Income.Value
		}
	}
	prop := model.SumByID(property, people)
	asst := model.SumByID(assets, people)

	recs := make([]WealthRecord, 0, people.Len())
	var sum float64
	distinct := make(map[float64]struct{})
	for _, id := range people.Sorted() {
		r := WealthRecord{ID: id, Income: income[id], Property: prop[id], Assets: asst[id]}
		r.Total = r.Income + r.Property + r.Assets
		sum += r.Total
		distinct[r.Total] = struct{}{}
		recs = append(recs, r)
	}
	if sum == 0 && len(distinct) == 1 {
		return nil, Warn("Todos los patrimonios resultaron en 0. No es posible calcular quintiles.")
	}

	var zero, pos []int
	for i, r := range recs {
		if r.Total <= 0 {
			zero = append(zero, i)
		} else {
			pos = append(pos, i)
		}
	}

	if len(zero) > 0 && len(pos) > 0 {
		for _, i := range zero {
			recs[i].Quintile = QuintileLabels[0]
		}
		assignBuckets(recs, pos, QuintileLabels[1:])
	} else {
		all := make([]int, len(recs))
		for i := range all {
			all[i] = i
		}
		assignBuckets(recs, all, QuintileLabels)
	}

	w := &Wealth{Records: recs, Buckets: summarize(recs)}
	if len(pos) > 0 {
		vals := make([]float64, len(pos))
		for i, idx := range pos {
			vals[i] = recs[idx].Total
		}
		s := sortedCopy(vals)
		for _, p := range []float64{0, 25, 50, 75, 100} {
			w.PositiveEdges = append(w.PositiveEdges, percentile(s, p))
		}
		zap.L().Debug("analytics: positive wealth edges", zap.Float64s("edges", w.PositiveEdges))
	}
	return w, nil
}

// assignBuckets labels recs[idx...] with an equal-frequency cut over the
// average ranks of their totals. When ties make two bin edges coincide the
// values are instead sorted stably and sliced into at most
// min(len(labels), distinct values) contiguous groups.
func assignBuckets(recs []WealthRecord, idx []int, labels []string) {
	vals := make([]float64, len(idx))
	for i, j := range idx {
		vals[i] = recs[j].Total
	}

	if bins, ok := rankCut(vals, len(labels)); ok {
		for i, j := range idx {
			recs[j].Quintile = labels[bins[i]]
		}
		return
	}

	order := make([]int, len(idx))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return vals[order[a]] < vals[order[b]] })

	distinct := make(map[float64]struct{})
	for _, v := range vals {
		distinct[v] = struct{}{}
	}
	k := min(len(labels), len(distinct))
	for part, bounds := range splitEven(len(order), k) {
		for _, o := range order[bounds[0]:bounds[1]] {
			recs[idx[o]].Quintile = labels[part]
		}
	}
}

// rankCut splits vals into q equal-frequency bins of their average ranks.
// Bins are right-closed, the first one also closed on the left. It reports
// false when two bin edges are equal.
func rankCut(vals []float64, q int) ([]int, bool) {
	ranks := averageRanks(vals)
	sorted := sortedCopy(ranks)
	edges := make([]float64, q+1)
	for i := range edges {
		edges[i] = percentile(sorted, float64(i)*100/float64(q))
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] == edges[i-1] {
			return nil, false
		}
	}

	out := make([]int, len(vals))
	for i, r := range ranks {
		b := sort.SearchFloat64s(edges[1:], r)
		out[i] = min(b, q-1)
	}
	return out, true
}

// splitEven returns k [start, end) ranges covering n items, the first n%k
// ranges one item longer.
func splitEven(n, k int) [][2]int {
	if k <= 0 {
		return nil
	}
	out := make([][2]int, k)
	size, extra := n/k, n%k
	start := 0
	for i := range out {
		end := start + size
		if i < extra {
			end++
		}
		out[i] = [2]int{start, end}
		start = end
	}
	return out
}

func summarize(recs []WealthRecord) []QuintileSummary {
	by := make(map[string][]float64)
	for _, r := range recs {
		by[r.Quintile] = append(by[r.Quintile], r.Total)
	}

	out := make([]QuintileSummary, 0, len(QuintileLabels))
	for _, q := range QuintileLabels {
		s := QuintileSummary{Quintile: q}
		if vals := by[q]; len(vals) > 0 {
			sorted := sortedCopy(vals)
			s.Persons = len(vals)
			s.Percent = transform.Percent(len(vals), len(recs))
			s.Min = sorted[0]
			s.P25 = percentile(sorted, 25)
			s.Median = percentile(sorted, 50)
			s.P75 = percentile(sorted, 75)
			s.Max = sorted[len(sorted)-1]
			s.Mean = mean(vals)
		}
		out = append(out, s)
	}
	return out
}

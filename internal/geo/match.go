package geo

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/transform"
)

// KeyCandidates are the feature properties that may hold province names, in
// the order they are tried.
var KeyCandidates = []string{"NOMBRE", "NOMBRE_PROV", "PROVINCIA", "Provincia", "name", "admin_name", "nombre"}

// MinSimilarity is the Jaro-Winkler score a fuzzy province match must reach.
const MinSimilarity = 0.9

// FeatureKey picks the property holding province names: the first candidate
// whose normalized values share at least max(1, min(3, n/2)) names with the n
// normalized provinces. It falls back to the first candidate. The key is
// returned in "properties.<name>" form.
func (b *Boundaries) FeatureKey(provinces []string) string {
	want := make(map[string]bool, len(provinces))
	for _, p := range provinces {
		if n := transform.NormalizeProvince(p); n != "" {
			want[n] = true
		}
	}
	need := max(1, min(3, len(want)/2))

	for _, key := range KeyCandidates {
		hits := make(map[string]bool)
		for _, v := range b.Values(key) {
			if n := transform.NormalizeProvince(v); want[n] {
				hits[n] = true
			}
		}
		if len(hits) >= need {
			return "properties." + key
		}
	}
	return "properties." + KeyCandidates[0]
}

// Match maps each province to the feature name it should be drawn on. Names
// equal after normalization match directly; others go to the most similar
// feature name when the similarity reaches MinSimilarity. Unmatched
// provinces are absent from the result.
func (b *Boundaries) Match(provinces []string, featureKey string) map[string]string {
	key := strings.TrimPrefix(featureKey, "properties.")

	byNorm := make(map[string]string)
	var norms []string
	for _, v := range b.Values(key) {
		n := transform.NormalizeProvince(v)
		if _, ok := byNorm[n]; !ok && n != "" {
			byNorm[n] = v
			norms = append(norms, n)
		}
	}

	jw := metrics.NewJaroWinkler()
	out := make(map[string]string, len(provinces))
	for _, p := range provinces {
		n := transform.NormalizeProvince(p)
		if v, ok := byNorm[n]; ok {
			out[p] = v
			continue
		}
		best, score := "", 0.0
		for _, cand := range norms {
			if s := strutil.Similarity(n, cand, jw); s > score {
				best, score = cand, s
			}
		}
		if score >= MinSimilarity {
			out[p] = byNorm[best]
		}
	}
	return out
}

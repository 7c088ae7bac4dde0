package diagnosis

import (
	"sort"

	"symptom-check-bot/internal/catalog"
)

// fallbackPool is the fixed pool of generically informative symptoms used
// when prevalence divergence cannot produce a full batch. Entries outside
// the fitted catalog are skipped at selection time.
var fallbackPool = []catalog.Symptom{
	"nausea",
	"vomiting",
	"fatigue",
	"headache",
	"high_fever",
}

// Selector chooses which unseen symptoms to ask about next, ranking them by
// how strongly their historical prevalence separates the leading candidate
// from the runners-up. Read-only after construction.
type Selector struct {
	catalog    *catalog.Catalog
	prevalence map[string][]float64
}

// NewSelector builds a selector from the per-condition prevalence table.
func NewSelector(cat *catalog.Catalog, prevalence map[string][]float64) *Selector {
	return &Selector{catalog: cat, prevalence: prevalence}
}

// Followups returns up to n symptoms to ask about, none of which appear in
// exclude (the union of already matched and already asked symptoms). The
// discriminative score of symptom j is the summed absolute prevalence gap
// between the top candidate and each other candidate. Positive-score
// symptoms come first in score order with catalog-order tie-break; the fixed
// fallback pool pads the batch. Fewer than n results means the pool is
// exhausted.
func (s *Selector) Followups(candidates []Prediction, exclude map[catalog.Symptom]bool, n int) []catalog.Symptom {
	if n <= 0 {
		return nil
	}

	scores := make([]float64, s.catalog.Size())
	if len(candidates) > 1 {
		top, ok := s.prevalence[candidates[0].Condition]
		if ok {
			for _, cand := range candidates[1:] {
				other, ok := s.prevalence[cand.Condition]
				if !ok {
					continue
				}
				for j := range scores {
					d := top[j] - other[j]
					if d < 0 {
						d = -d
					}
					scores[j] += d
				}
			}
		}
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	symptoms := s.catalog.Symptoms()
	picked := make([]catalog.Symptom, 0, n)
	taken := make(map[catalog.Symptom]bool)
	for _, j := range order {
		if scores[j] <= 0 {
			break
		}
		sym := symptoms[j]
		if exclude[sym] {
			continue
		}
		picked = append(picked, sym)
		taken[sym] = true
		if len(picked) == n {
			return picked
		}
	}

	for _, sym := range fallbackPool {
		if len(picked) == n {
			break
		}
		if !s.catalog.Contains(sym) || exclude[sym] || taken[sym] {
			continue
		}
		picked = append(picked, sym)
		taken[sym] = true
	}
	return picked
}

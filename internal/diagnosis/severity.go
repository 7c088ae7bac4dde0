package diagnosis

import "symptom-check-bot/internal/catalog"

// Severity is the qualitative severity band for a symptom check.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severity index cut points. The index is score*max(1,days)/(len+1); bands
// are [0,5) low, [5,10) moderate, [10,15) high, [15,inf) critical.
const (
	moderateCut = 5
	highCut     = 10
	criticalCut = 15
)

// EstimateSeverity converts matched symptoms and days since onset into a
// severity band using the static per-symptom weights. Unknown symptoms weigh
// zero and any input yields a band. Monotonic in both the summed weight and
// days.
func EstimateSeverity(weights map[catalog.Symptom]int, symptoms []catalog.Symptom, days int) Severity {
	score := 0
	for _, s := range symptoms {
		score += weights[s]
	}
	if days < 1 {
		days = 1
	}
	index := float64(score*days) / float64(len(symptoms)+1)

	switch {
	case index < moderateCut:
		return SeverityLow
	case index < highCut:
		return SeverityModerate
	case index < criticalCut:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

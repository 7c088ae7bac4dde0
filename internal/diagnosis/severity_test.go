package diagnosis

import (
	"testing"

	"symptom-check-bot/internal/catalog"
)

var severityWeights = map[catalog.Symptom]int{
	"itching":    1,
	"skin_rash":  3,
	"cough":      4,
	"high_fever": 7,
	"headache":   3,
	"vomiting":   5,
}

func TestEstimateSeverity_Bands(t *testing.T) {
	tests := []struct {
		name     string
		symptoms []catalog.Symptom
		days     int
		want     Severity
	}{
		{"mild single symptom", []catalog.Symptom{"itching"}, 1, SeverityLow},
		{"fever and cough two days", []catalog.Symptom{"high_fever", "cough"}, 2, SeverityModerate}, // 11*2/3 = 7.33
		{"fever and cough four days", []catalog.Symptom{"high_fever", "cough"}, 4, SeverityHigh}, // 11*4/3 = 14.67
		{"long running fever", []catalog.Symptom{"high_fever"}, 5, SeverityCritical},                // 7*5/2 = 17.5
		{"no symptoms", nil, 3, SeverityLow},
		{"unknown symptom weighs zero", []catalog.Symptom{"unknown"}, 10, SeverityLow},
		{"zero days clamps to one", []catalog.Symptom{"high_fever", "cough"}, 0, SeverityLow}, // 11/3 = 3.67
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateSeverity(severityWeights, tt.symptoms, tt.days)
			if got != tt.want {
				t.Errorf("EstimateSeverity(%v, %d) = %s, want %s", tt.symptoms, tt.days, got, tt.want)
			}
		})
	}
}

func TestEstimateSeverity_MonotonicInDays(t *testing.T) {
	rank := map[Severity]int{SeverityLow: 0, SeverityModerate: 1, SeverityHigh: 2, SeverityCritical: 3}
	symptoms := []catalog.Symptom{"high_fever", "vomiting"}

	prev := EstimateSeverity(severityWeights, symptoms, 1)
	for days := 2; days <= 14; days++ {
		cur := EstimateSeverity(severityWeights, symptoms, days)
		if rank[cur] < rank[prev] {
			t.Fatalf("severity dropped from %s to %s at %d days", prev, cur, days)
		}
		prev = cur
	}
}

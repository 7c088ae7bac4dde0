package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"symptom-check-bot/internal/catalog"
)

func fixtureSelector(t *testing.T) *Selector {
	t.Helper()
	ds := fixtureDataset(t)
	return NewSelector(ds.Catalog(), ds.Prevalence())
}

// itchingCandidates is the ambiguous candidate set for a lone itching
// report: three conditions that all always present itching.
var itchingCandidates = []Prediction{
	{Condition: "Fungal infection", Confidence: 34},
	{Condition: "Drug Reaction", Confidence: 33},
	{Condition: "Chronic cholestasis", Confidence: 33},
}

func TestSelector_RanksDiscriminativeSymptoms(t *testing.T) {
	sel := fixtureSelector(t)

	got := sel.Followups(itchingCandidates, map[catalog.Symptom]bool{"itching": true}, 3)

	// nodal_skin_eruptions separates the top candidate from both others
	// (score 2); the score-1 symptoms follow in catalog order.
	assert.Equal(t, []catalog.Symptom{"nodal_skin_eruptions", "skin_rash", "stomach_pain"}, got)
}

func TestSelector_NeverRepeatsExcluded(t *testing.T) {
	sel := fixtureSelector(t)

	exclude := map[catalog.Symptom]bool{
		"itching":              true,
		"nodal_skin_eruptions": true,
		"skin_rash":            true,
		"stomach_pain":         true,
	}
	got := sel.Followups(itchingCandidates, exclude, 3)

	assert.Equal(t, []catalog.Symptom{"vomiting", "yellowish_skin"}, got[:2])
	for _, s := range got {
		assert.False(t, exclude[s], "excluded symptom %s offered again", s)
	}
}

func TestSelector_FallbackWhenNoDivergence(t *testing.T) {
	sel := fixtureSelector(t)

	// A single candidate has nothing to diverge from; the fixed fallback
	// pool fills the batch.
	got := sel.Followups([]Prediction{{Condition: "Malaria", Confidence: 50}}, nil, 3)
	assert.Equal(t, []catalog.Symptom{"nausea", "vomiting", "fatigue"}, got)
}

func TestSelector_PoolExhaustion(t *testing.T) {
	sel := fixtureSelector(t)

	exclude := make(map[catalog.Symptom]bool)
	for _, s := range fixtureColumns {
		exclude[s] = true
	}
	got := sel.Followups(itchingCandidates, exclude, 3)
	assert.Empty(t, got, "an exhausted pool returns no follow-ups")
}

func TestSelector_ZeroBatch(t *testing.T) {
	sel := fixtureSelector(t)
	assert.Nil(t, sel.Followups(itchingCandidates, nil, 0))
}

func TestSelector_UnknownCandidatesUseFallback(t *testing.T) {
	sel := fixtureSelector(t)

	got := sel.Followups([]Prediction{
		{Condition: "Not In Corpus", Confidence: 40},
		{Condition: "Also Unknown", Confidence: 30},
	}, map[catalog.Symptom]bool{"nausea": true}, 3)
	assert.Equal(t, []catalog.Symptom{"vomiting", "fatigue", "headache"}, got)
}

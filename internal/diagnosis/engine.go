package diagnosis

import (
	"errors"
	"fmt"

	"symptom-check-bot/internal/catalog"
)

// ErrModelUnavailable marks a failed model or catalog load. It is fatal at
// process initialization; the engine never serves predictions without a
// fitted model.
var ErrModelUnavailable = errors.New("diagnosis model unavailable")

// Engine is the immutable aggregate of everything the conversation layer
// needs to diagnose: the fitted oracle, its catalog, the follow-up selector
// and the static reference tables. Constructed once at startup, safe for
// concurrent reads, never mutated.
type Engine struct {
	catalog   *catalog.Catalog
	oracle    Oracle
	selector  *Selector
	reference *Reference
}

// NewEngine loads the training corpus and reference tables from dataDir and
// fits the oracle. Returns ErrModelUnavailable when the corpus cannot be
// loaded; missing reference tables only degrade answers to defaults.
func NewEngine(dataDir string) (*Engine, error) {
	ds, err := LoadTrainingCSV(dataDir + "/Training.csv")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	ref, err := LoadReference(dataDir)
	if err != nil {
		return nil, err
	}
	return NewEngineFromDataset(ds, ref), nil
}

// NewEngineFromDataset wires an engine from an already-loaded corpus. Used
// by tests to pin fixture models.
func NewEngineFromDataset(ds *Dataset, ref *Reference) *Engine {
	if ref == nil {
		ref = &Reference{
			Descriptions:    map[string]string{},
			Precautions:     map[string][]string{},
			SeverityWeights: map[catalog.Symptom]int{},
		}
	}
	return &Engine{
		catalog:   ds.Catalog(),
		oracle:    FitNaiveBayes(ds),
		selector:  NewSelector(ds.Catalog(), ds.Prevalence()),
		reference: ref,
	}
}

// Catalog returns the symptom vocabulary.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Predict runs the fitted oracle over the symptom set.
func (e *Engine) Predict(symptoms []catalog.Symptom) []Prediction {
	return e.oracle.Predict(symptoms)
}

// Followups picks up to n unseen discriminative symptoms for the candidate
// set, skipping everything in exclude.
func (e *Engine) Followups(candidates []Prediction, exclude map[catalog.Symptom]bool, n int) []catalog.Symptom {
	return e.selector.Followups(candidates, exclude, n)
}

// Finalize composes the terminal result for a flow: top prediction plus
// description, precautions and severity.
func (e *Engine) Finalize(preds []Prediction, matched []catalog.Symptom, days int) Result {
	top := preds[0]
	return Result{
		Condition:   top.Condition,
		Confidence:  top.Confidence,
		Description: e.reference.Description(top.Condition),
		Precautions: e.reference.PrecautionList(top.Condition),
		Severity:    EstimateSeverity(e.reference.SeverityWeights, matched, days),
		Matched:     matched,
		Predictions: preds,
	}
}

package catalog

import (
	"fmt"
	"strings"
)

// Symptom is a canonical identifier from the fixed vocabulary, e.g.
// "high_fever". The zero value is not a valid symptom.
type Symptom string

// Display returns the human-readable form of the symptom.
func (s Symptom) Display() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// Catalog is the ordered, closed vocabulary of symptoms known to the fitted
// model. The slice order defines the feature-vector index used by the oracle
// and must never change after construction.
type Catalog struct {
	symptoms []Symptom
	index    map[Symptom]int
}

// New builds a catalog from an ordered symptom list. Duplicates are rejected
// because they would make the feature indexing ambiguous.
func New(symptoms []Symptom) (*Catalog, error) {
	if len(symptoms) == 0 {
		return nil, fmt.Errorf("catalog: empty symptom list")
	}
	index := make(map[Symptom]int, len(symptoms))
	for i, s := range symptoms {
		if _, ok := index[s]; ok {
			return nil, fmt.Errorf("catalog: duplicate symptom %q", s)
		}
		index[s] = i
	}
	return &Catalog{symptoms: symptoms, index: index}, nil
}

// Size returns the number of symptoms in the vocabulary.
func (c *Catalog) Size() int { return len(c.symptoms) }

// Symptoms returns the vocabulary in feature order. Callers must not mutate
// the returned slice.
func (c *Catalog) Symptoms() []Symptom { return c.symptoms }

// Index returns the feature-vector position of s.
func (c *Catalog) Index(s Symptom) (int, bool) {
	i, ok := c.index[s]
	return i, ok
}

// Contains reports whether s is a member of the vocabulary.
func (c *Catalog) Contains(s Symptom) bool {
	_, ok := c.index[s]
	return ok
}

// Vector builds the binary presence vector for the given symptom set in
// catalog feature order. Symptoms outside the vocabulary are ignored.
func (c *Catalog) Vector(symptoms []Symptom) []float64 {
	vec := make([]float64, len(c.symptoms))
	for _, s := range symptoms {
		if i, ok := c.index[s]; ok {
			vec[i] = 1
		}
	}
	return vec
}

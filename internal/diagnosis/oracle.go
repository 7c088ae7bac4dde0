package diagnosis

import (
	"math"
	"sort"

	"symptom-check-bot/internal/catalog"
)

// Oracle maps a symptom set to ranked condition predictions. Implementations
// must be pure: the same symptom set always yields the same ranked list,
// bit for bit. Safe for unsynchronized concurrent reads.
type Oracle interface {
	Predict(symptoms []catalog.Symptom) []Prediction
}

// NaiveBayes is a Bernoulli naive Bayes classifier fitted over the binary
// presence vector, with Laplace smoothing. It stands in for the reference
// decision-tree model; any classifier satisfying Oracle can replace it.
type NaiveBayes struct {
	catalog    *catalog.Catalog
	conditions []string
	logPrior   []float64
	// logOn[c][j] / logOff[c][j]: log P(feature j present/absent | class c).
	logOn  [][]float64
	logOff [][]float64
}

// FitNaiveBayes trains the classifier on the full corpus. Fitting happens
// once at startup; the returned model is immutable.
func FitNaiveBayes(ds *Dataset) *NaiveBayes {
	classes := len(ds.conditions)
	features := ds.catalog.Size()

	counts := make([]float64, classes)
	onCounts := make([][]float64, classes)
	for c := range onCounts {
		onCounts[c] = make([]float64, features)
	}
	for i, row := range ds.rows {
		c := ds.labels[i]
		counts[c]++
		for j, v := range row {
			if v > 0 {
				onCounts[c][j]++
			}
		}
	}

	nb := &NaiveBayes{
		catalog:    ds.catalog,
		conditions: ds.conditions,
		logPrior:   make([]float64, classes),
		logOn:      make([][]float64, classes),
		logOff:     make([][]float64, classes),
	}
	total := float64(len(ds.rows))
	for c := 0; c < classes; c++ {
		nb.logPrior[c] = math.Log((counts[c] + 1) / (total + float64(classes)))
		nb.logOn[c] = make([]float64, features)
		nb.logOff[c] = make([]float64, features)
		for j := 0; j < features; j++ {
			pOn := (onCounts[c][j] + 1) / (counts[c] + 2)
			nb.logOn[c][j] = math.Log(pOn)
			nb.logOff[c][j] = math.Log(1 - pOn)
		}
	}
	return nb
}

// Predict returns the top-K conditions by posterior probability, descending,
// ties broken by condition first-appearance order in the corpus. Confidence
// is the posterior in percent rounded to two decimals, with the sparse-
// evidence ceiling applied to the reported top value only.
func (nb *NaiveBayes) Predict(symptoms []catalog.Symptom) []Prediction {
	vec := nb.catalog.Vector(symptoms)

	scores := make([]float64, len(nb.conditions))
	for c := range nb.conditions {
		s := nb.logPrior[c]
		for j, v := range vec {
			if v > 0 {
				s += nb.logOn[c][j]
			} else {
				s += nb.logOff[c][j]
			}
		}
		scores[c] = s
	}

	// Log-space softmax so the scores behave like probabilities.
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}
	var sum float64
	probs := make([]float64, len(scores))
	for c, s := range scores {
		probs[c] = math.Exp(s - maxScore)
		sum += probs[c]
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if probs[order[a]] != probs[order[b]] {
			return probs[order[a]] > probs[order[b]]
		}
		return order[a] < order[b]
	})

	k := TopK
	if k > len(order) {
		k = len(order)
	}
	preds := make([]Prediction, 0, k)
	for _, c := range order[:k] {
		preds = append(preds, Prediction{
			Condition:  nb.conditions[c],
			Confidence: roundConfidence(probs[c] / sum * 100),
		})
	}

	if len(symptoms) < SparseEvidenceMin && len(preds) > 0 && preds[0].Confidence > SparseEvidenceCap {
		preds[0].Confidence = SparseEvidenceCap
	}
	return preds
}

func roundConfidence(v float64) float64 {
	return math.Round(v*100) / 100
}

package diagnosis

import "symptom-check-bot/internal/catalog"

// Tunables for the diagnosis loop. The confidence threshold and follow-up
// batch size are deliberately fixed constants; see DESIGN.md for the choice.
const (
	// TopK is the number of ranked predictions the oracle returns.
	TopK = 3
	// ConfidenceThreshold is the reported top confidence (percent) at or
	// above which a diagnosis is finalized instead of asking for more input.
	ConfidenceThreshold = 70.0
	// FollowupCount is the follow-up batch size per turn.
	FollowupCount = 3
	// SparseEvidenceCap is the ceiling on the reported top confidence when
	// fewer than SparseEvidenceMin symptoms are matched. It affects only the
	// reported value, never the internal ranking.
	SparseEvidenceCap = 80.0
	// SparseEvidenceMin is the matched-symptom count below which the cap
	// applies.
	SparseEvidenceMin = 3
	// DefaultDays is assumed when the caller does not supply days since
	// onset.
	DefaultDays = 2
)

// Prediction is one ranked candidate condition with its confidence in
// percent, rounded to two decimal places.
type Prediction struct {
	Condition  string  `json:"condition"`
	Confidence float64 `json:"confidence"`
}

// Result is the final record emitted when a symptom check terminates.
type Result struct {
	Condition   string            `json:"condition"`
	Confidence  float64           `json:"confidence"`
	Description string            `json:"description"`
	Precautions []string          `json:"precautions"`
	Severity    Severity          `json:"severity"`
	Matched     []catalog.Symptom `json:"matched_symptoms"`
	Predictions []Prediction      `json:"predictions"`
}

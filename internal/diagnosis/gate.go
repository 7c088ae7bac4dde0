package diagnosis

// Decision is the confidence gate's verdict for one oracle evaluation.
type Decision int

const (
	// AskMore means confidence is below threshold and more symptoms should
	// be collected before answering.
	AskMore Decision = iota
	// Finalize means the top prediction is confident enough to answer.
	Finalize
)

// Decide applies the confidence gate: finalize iff the reported top
// confidence meets the threshold. A pure threshold test, no hysteresis.
func Decide(preds []Prediction) Decision {
	if len(preds) == 0 {
		return AskMore
	}
	if preds[0].Confidence >= ConfidenceThreshold {
		return Finalize
	}
	return AskMore
}

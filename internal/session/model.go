package session

import (
	"time"

	"github.com/google/uuid"

	"symptom-check-bot/internal/catalog"
	"symptom-check-bot/internal/diagnosis"
)

// Phase is the conversation state machine's current step for one session.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseCollecting       Phase = "collecting"
	PhaseAwaitingFollowup Phase = "awaiting_followup"
	PhaseDone             Phase = "done"
)

// Session is the structured symptom-check state for one user key (the
// WhatsApp phone identifier). Matched keeps insertion order for display;
// Asked only ever grows within one flow so no follow-up is offered twice.
// The free-text chat log is deliberately not part of this state.
type Session struct {
	Key       string            `json:"key"`
	FlowID    uuid.UUID         `json:"flow_id"`
	Phase     Phase             `json:"phase"`
	Matched   []catalog.Symptom `json:"matched_symptoms"`
	Asked     []catalog.Symptom `json:"asked_symptoms"`
	Days      int               `json:"days_since_onset"`
	// Result is the final record of the most recently completed flow, kept
	// so /report can be answered after the flow is done.
	Result    *diagnosis.Result `json:"last_result,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// New returns a fresh idle session for key with a new flow ID.
func New(key string) *Session {
	now := time.Now()
	return &Session{
		Key:       key,
		FlowID:    uuid.New(),
		Phase:     PhaseIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Reset starts a new flow: phase back to idle, both symptom sets cleared,
// fresh flow ID.
func (s *Session) Reset() {
	s.FlowID = uuid.New()
	s.Phase = PhaseIdle
	s.Matched = nil
	s.Asked = nil
	s.Days = 0
	s.Result = nil
	s.UpdatedAt = time.Now()
}

// AddMatched merges symptoms into the matched set, preserving first-seen
// order, and returns how many were new.
func (s *Session) AddMatched(symptoms []catalog.Symptom) int {
	added := 0
	for _, sym := range symptoms {
		if !contains(s.Matched, sym) {
			s.Matched = append(s.Matched, sym)
			added++
		}
	}
	return added
}

// MarkAsked records symptoms offered as follow-ups. The asked set is
// monotone: entries are never removed, so a symptom is never re-offered
// within the flow.
func (s *Session) MarkAsked(symptoms []catalog.Symptom) {
	for _, sym := range symptoms {
		if !contains(s.Asked, sym) {
			s.Asked = append(s.Asked, sym)
		}
	}
}

// Seen returns the union of matched and asked symptoms, the exclusion set
// for the follow-up selector.
func (s *Session) Seen() map[catalog.Symptom]bool {
	seen := make(map[catalog.Symptom]bool, len(s.Matched)+len(s.Asked))
	for _, sym := range s.Matched {
		seen[sym] = true
	}
	for _, sym := range s.Asked {
		seen[sym] = true
	}
	return seen
}

func contains(list []catalog.Symptom, s catalog.Symptom) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

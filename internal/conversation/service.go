package conversation

import (
	"context"
	"fmt"
	"log"

	"symptom-check-bot/internal/diagnosis"
	"symptom-check-bot/internal/session"
)

// ChatClient is the general-chat fallback the service uses for text it
// cannot classify. Defined here to decouple from the concrete LLM client.
type ChatClient interface {
	Chat(ctx context.Context, userText string) (string, error)
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Service drives the symptom-check conversation: one inbound turn in, one
// reply out. All per-session mutable state lives in the Store; the engine is
// immutable and shared. The caller must not invoke HandleTurn concurrently
// for the same key.
type Service struct {
	engine        *diagnosis.Engine
	store         session.Store
	chat          ChatClient // may be nil, fallback then degrades to help text
	reportBaseURL string
}

func NewService(engine *diagnosis.Engine, store session.Store, chat ChatClient, reportBaseURL string) *Service {
	return &Service{
		engine:        engine,
		store:         store,
		chat:          chat,
		reportBaseURL: reportBaseURL,
	}
}

// HandleTurn processes one inbound user turn and returns the reply text.
// A non-nil error means the session store failed; classification and
// matching problems come back as user-visible replies with the session
// phase unchanged.
func (s *Service) HandleTurn(ctx context.Context, key, text string) (string, error) {
	sess, err := s.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		sess = session.New(key)
	}

	cmd := Classify(text)

	switch cmd.Kind {
	case KindReset:
		if err := s.store.Delete(ctx, key); err != nil {
			return "", fmt.Errorf("clear session: %w", err)
		}
		return replyReset, nil

	case KindSummary:
		return s.summary(ctx, sess), nil

	case KindReport:
		return s.reportPointer(sess), nil

	case KindSmallTalk:
		return cannedReplies[cmd.Topic], nil

	case KindCheck:
		return s.startCheck(ctx, sess, cmd)

	case KindFinish:
		return s.finish(ctx, sess)

	case KindDecline:
		if sess.Phase == session.PhaseAwaitingFollowup {
			// Declining adds no evidence; re-evaluate with what we have.
			return s.evaluate(ctx, sess)
		}
		return s.chatFallback(ctx, text), nil

	case KindText:
		return s.freeText(ctx, sess, cmd, text)
	}

	return s.chatFallback(ctx, text), nil
}

// startCheck begins a new flow. With an initial symptom batch the flow is
// evaluated in the same turn (the "check: a, b" shortcut); without one the
// session moves to collecting.
func (s *Service) startCheck(ctx context.Context, sess *session.Session, cmd Command) (string, error) {
	sess.Reset()
	sess.Phase = session.PhaseCollecting
	if cmd.Days > 0 {
		sess.Days = cmd.Days
	}

	if len(cmd.Tokens) == 0 {
		if err := s.store.Put(ctx, sess); err != nil {
			return "", err
		}
		return replyCollecting, nil
	}

	matched, dropped := s.engine.Catalog().MatchAll(cmd.Tokens)
	if len(matched) == 0 {
		// Nothing recognized: the stored session is left untouched so the
		// user can retry from wherever they were.
		return replyNoSymptoms + droppedNote(dropped), nil
	}
	sess.AddMatched(matched)

	reply, err := s.evaluate(ctx, sess)
	if err != nil {
		return "", err
	}
	return reply + droppedNote(dropped), nil
}

// finish handles the explicit end-of-listing signal.
func (s *Service) finish(ctx context.Context, sess *session.Session) (string, error) {
	switch sess.Phase {
	case session.PhaseCollecting:
		if len(sess.Matched) == 0 {
			return replyNothingToFinish, nil
		}
		return s.evaluate(ctx, sess)
	case session.PhaseAwaitingFollowup:
		// "done" while being asked follow-ups means "none of these".
		return s.evaluate(ctx, sess)
	default:
		return cannedReplies["check"], nil
	}
}

// freeText interprets unclassified text by phase: symptom batches during a
// flow, general chat otherwise.
func (s *Service) freeText(ctx context.Context, sess *session.Session, cmd Command, raw string) (string, error) {
	switch sess.Phase {
	case session.PhaseCollecting:
		matched, dropped := s.engine.Catalog().MatchAll(cmd.Tokens)
		if len(matched) == 0 {
			return replyNoSymptoms + droppedNote(dropped), nil
		}
		sess.AddMatched(matched)
		if cmd.Days > 0 {
			sess.Days = cmd.Days
		}
		if err := s.store.Put(ctx, sess); err != nil {
			return "", err
		}
		return collectedReply(sess.Matched, dropped), nil

	case session.PhaseAwaitingFollowup:
		matched, dropped := s.engine.Catalog().MatchAll(cmd.Tokens)
		if len(matched) == 0 {
			// Unrecognized answer: phase unchanged so the user can retry.
			return replyNoSymptoms + droppedNote(dropped), nil
		}
		sess.AddMatched(matched)
		reply, err := s.evaluate(ctx, sess)
		if err != nil {
			return "", err
		}
		return reply + droppedNote(dropped), nil

	default:
		return s.chatFallback(ctx, raw), nil
	}
}

// evaluate runs the one oracle/gate/selector pass a turn is allowed: predict
// over the accumulated symptoms, finalize on sufficient confidence or an
// exhausted follow-up pool, otherwise ask a fresh follow-up batch.
func (s *Service) evaluate(ctx context.Context, sess *session.Session) (string, error) {
	preds := s.engine.Predict(sess.Matched)

	if diagnosis.Decide(preds) == diagnosis.Finalize {
		return s.finalize(ctx, sess, preds, false)
	}

	again := sess.Phase == session.PhaseAwaitingFollowup
	followups := s.engine.Followups(preds, sess.Seen(), diagnosis.FollowupCount)
	if len(followups) == 0 {
		// Follow-up pool exhausted: terminate with best-effort confidence
		// rather than looping forever.
		return s.finalize(ctx, sess, preds, true)
	}

	sess.MarkAsked(followups)
	sess.Phase = session.PhaseAwaitingFollowup
	if err := s.store.Put(ctx, sess); err != nil {
		return "", err
	}
	return followupReply(followups, again), nil
}

func (s *Service) finalize(ctx context.Context, sess *session.Session, preds []diagnosis.Prediction, bestEffort bool) (string, error) {
	days := sess.Days
	if days <= 0 {
		days = diagnosis.DefaultDays
	}
	res := s.engine.Finalize(preds, sess.Matched, days)
	sess.Result = &res
	sess.Phase = session.PhaseDone
	if err := s.store.Put(ctx, sess); err != nil {
		return "", err
	}
	return resultReply(res, bestEffort), nil
}

func (s *Service) summary(ctx context.Context, sess *session.Session) string {
	recap := recapText(sess.Matched, sess.Asked, string(sess.Phase))
	if s.chat == nil {
		return "🧠 " + recap
	}
	out, err := s.chat.Summarize(ctx, recap)
	if err != nil {
		log.Printf("summary fallback: %v", err)
		return "🧠 " + recap
	}
	return "🧠 Summary:\n" + out
}

func (s *Service) reportPointer(sess *session.Session) string {
	if sess.Result == nil {
		return "⚠️ No completed symptom check yet. Run one with 'check: symptom1, symptom2' first."
	}
	if s.reportBaseURL == "" {
		return "📄 Your report is ready. Ask your provider to fetch it from the report endpoint."
	}
	return fmt.Sprintf("📄 Your report is ready: %s/api/report/%s", s.reportBaseURL, sess.Key)
}

func (s *Service) chatFallback(ctx context.Context, text string) string {
	if s.chat == nil {
		return cannedReplies["help"]
	}
	out, err := s.chat.Chat(ctx, text)
	if err != nil {
		log.Printf("chat fallback failed: %v", err)
		return replyChatDown + "\n\n" + disclaimer
	}
	return out + "\n\n" + disclaimer
}

// Session exposes the stored session for a key to the HTTP layer (report
// endpoint). Returns nil when none exists.
func (s *Service) Session(ctx context.Context, key string) (*session.Session, error) {
	return s.store.Get(ctx, key)
}

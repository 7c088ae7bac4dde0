package webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"symptom-check-bot/internal/diagnosis"
	"symptom-check-bot/internal/session"
)

type fakeService struct {
	reply    string
	err      error
	sessions map[string]*session.Session
	turns    []string
}

func (f *fakeService) HandleTurn(_ context.Context, key, text string) (string, error) {
	f.turns = append(f.turns, key+"|"+text)
	return f.reply, f.err
}

func (f *fakeService) Session(_ context.Context, key string) (*session.Session, error) {
	return f.sessions[key], nil
}

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) SendMessage(to, text string) error {
	f.sent = append(f.sent, to+"|"+text)
	return f.err
}

type fakeRenderer struct {
	data []byte
	err  error
}

func (f *fakeRenderer) Render(_ *session.Session) ([]byte, error) {
	return f.data, f.err
}

const inboundPayload = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "changes": [{
      "value": {
        "contacts": [{"wa_id": "491234", "profile": {"name": "Alice"}}],
        "messages": [{"from": "491234", "text": {"body": "check: itching"}}]
      }
    }]
  }]
}`

func TestVerify(t *testing.T) {
	h := NewHandler(&fakeService{}, &fakeSender{}, &fakeRenderer{}, "secret-token")

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	h.Verify(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "12345" {
		t.Errorf("body = %q, want the echoed challenge", rec.Body.String())
	}
}

func TestVerify_WrongToken(t *testing.T) {
	h := NewHandler(&fakeService{}, &fakeSender{}, &fakeRenderer{}, "secret-token")

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	h.Verify(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestReceive_DispatchesAndReplies(t *testing.T) {
	svc := &fakeService{reply: "🧪 follow-up prompt"}
	sender := &fakeSender{}
	h := NewHandler(svc, sender, &fakeRenderer{}, "secret-token")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(inboundPayload))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "EVENT_RECEIVED" {
		t.Errorf("body = %q, want EVENT_RECEIVED", rec.Body.String())
	}
	if len(svc.turns) != 1 || svc.turns[0] != "491234|check: itching" {
		t.Errorf("turns = %v, want the inbound message dispatched once", svc.turns)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "491234|🧪 follow-up prompt" {
		t.Errorf("sent = %v, want the service reply delivered to the sender", sender.sent)
	}
}

func TestReceive_TurnErrorStillAcknowledges(t *testing.T) {
	svc := &fakeService{err: errors.New("store down")}
	sender := &fakeSender{}
	h := NewHandler(svc, sender, &fakeRenderer{}, "secret-token")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(inboundPayload))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when the turn fails", rec.Code)
	}
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0], "Something went wrong") {
		t.Errorf("sent = %v, want a generic apology", sender.sent)
	}
}

func TestReceive_InvalidJSON(t *testing.T) {
	h := NewHandler(&fakeService{}, &fakeSender{}, &fakeRenderer{}, "secret-token")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestReceive_IgnoresForeignObject(t *testing.T) {
	svc := &fakeService{reply: "hi"}
	sender := &fakeSender{}
	h := NewHandler(svc, sender, &fakeRenderer{}, "secret-token")

	payload := `{"object": "instagram", "entry": []}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(svc.turns) != 0 || len(sender.sent) != 0 {
		t.Error("foreign payloads must not be dispatched")
	}
}

func newReportRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, h)
	return r
}

func TestReport_ServesPDF(t *testing.T) {
	done := session.New("491234")
	done.Phase = session.PhaseDone
	done.Result = &diagnosis.Result{Condition: "Common Cold", Confidence: 91.5}
	svc := &fakeService{sessions: map[string]*session.Session{"491234": done}}
	h := NewHandler(svc, &fakeSender{}, &fakeRenderer{data: []byte("%PDF-1.4 test")}, "secret-token")

	req := httptest.NewRequest(http.MethodGet, "/report/491234", nil)
	rec := httptest.NewRecorder()
	newReportRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "report_"+done.FlowID.String()) {
		t.Errorf("Content-Disposition = %q, want the flow ID in the filename", cd)
	}
	if rec.Body.String() != "%PDF-1.4 test" {
		t.Errorf("body = %q, want the rendered bytes", rec.Body.String())
	}
}

func TestReport_NotFoundCases(t *testing.T) {
	incomplete := session.New("555")
	incomplete.Phase = session.PhaseCollecting
	svc := &fakeService{sessions: map[string]*session.Session{"555": incomplete}}
	h := NewHandler(svc, &fakeSender{}, &fakeRenderer{}, "secret-token")
	router := newReportRouter(h)

	for _, key := range []string{"unknown", "555"} {
		req := httptest.NewRequest(http.MethodGet, "/report/"+key, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("key %s: status = %d, want 404", key, rec.Code)
		}
	}
}

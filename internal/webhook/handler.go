package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"symptom-check-bot/internal/platform/whatsapp"
	"symptom-check-bot/internal/session"
)

// TurnHandler processes one inbound user turn and returns the reply text.
type TurnHandler interface {
	HandleTurn(ctx context.Context, key, text string) (string, error)
	Session(ctx context.Context, key string) (*session.Session, error)
}

// MessageSender delivers the reply back over the chat channel.
type MessageSender interface {
	SendMessage(to string, text string) error
}

// ReportRenderer renders the PDF report for a session.
type ReportRenderer interface {
	Render(s *session.Session) ([]byte, error)
}

// Handler terminates the WhatsApp webhook: GET verification, POST message
// batches, and the report download endpoint. It serializes turns per user
// key so the conversation service is never invoked concurrently for the
// same session.
type Handler struct {
	svc         TurnHandler
	sender      MessageSender
	reports     ReportRenderer
	verifyToken string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewHandler(svc TurnHandler, sender MessageSender, reports ReportRenderer, verifyToken string) *Handler {
	return &Handler{
		svc:         svc,
		sender:      sender,
		reports:     reports,
		verifyToken: verifyToken,
		locks:       make(map[string]*sync.Mutex),
	}
}

// Verify answers the Graph API subscription handshake.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	http.Error(w, "Verification failed", http.StatusForbidden)
}

// Receive handles an inbound webhook delivery. Replies are sent back through
// the sender; the webhook itself always acknowledges with 200 so the
// platform does not retry processed messages.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	var payload whatsapp.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	for _, msg := range payload.Inbound() {
		log.Printf("👤 %s (%s): %s", msg.Name, msg.From, msg.Text)

		reply, err := h.handleSerialized(r.Context(), msg.From, msg.Text)
		if err != nil {
			log.Printf("turn failed for %s: %v", msg.From, err)
			reply = "⚠️ Something went wrong on our side. Please try again."
		}
		if err := h.sender.SendMessage(msg.From, reply); err != nil {
			log.Printf("send failed for %s: %v", msg.From, err)
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("EVENT_RECEIVED"))
}

// handleSerialized guards the at-most-once-concurrently-per-key contract the
// conversation core assumes.
func (h *Handler) handleSerialized(ctx context.Context, key, text string) (string, error) {
	h.mu.Lock()
	lock, ok := h.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		h.locks[key] = lock
	}
	h.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return h.svc.HandleTurn(ctx, key, text)
}

// Report serves the PDF for a completed symptom check.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		http.Error(w, "Missing session key", http.StatusBadRequest)
		return
	}

	sess, err := h.svc.Session(r.Context(), key)
	if err != nil {
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}
	if sess == nil || sess.Result == nil {
		http.Error(w, "No completed symptom check for this session", http.StatusNotFound)
		return
	}

	data, err := h.reports.Render(sess)
	if err != nil {
		http.Error(w, "Report generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report_%s.pdf"`, reportID(sess)))
	w.Write(data)
}

func reportID(s *session.Session) string {
	if s.FlowID != uuid.Nil {
		return s.FlowID.String()
	}
	return s.Key
}

// Health is the liveness probe route.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("✅ Symptom check bot is running!"))
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/webhook", h.Verify)
	r.Post("/webhook", h.Receive)
	r.Get("/report/{key}", h.Report)
}

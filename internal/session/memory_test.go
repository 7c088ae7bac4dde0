package session

import (
	"context"
	"testing"
	"time"

	"symptom-check-bot/internal/catalog"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Minute, time.Minute)
	ctx := context.Background()

	got, err := store.Get(ctx, "491234")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil session before Put")
	}

	s := New("491234")
	s.Phase = PhaseCollecting
	s.AddMatched([]catalog.Symptom{"itching"})
	if err := store.Put(ctx, s); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err = store.Get(ctx, "491234")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Phase != PhaseCollecting || len(got.Matched) != 1 {
		t.Fatalf("round trip lost state: %+v", got)
	}

	// The stored copy must not alias the caller's session.
	got.AddMatched([]catalog.Symptom{"cough"})
	again, _ := store.Get(ctx, "491234")
	if len(again.Matched) != 1 {
		t.Error("mutating a fetched session leaked into the store")
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore(time.Minute, time.Minute)
	ctx := context.Background()

	if err := store.Put(ctx, New("491234")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Delete(ctx, "491234"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := store.Get(ctx, "491234")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("expected nil session after Delete")
	}
}

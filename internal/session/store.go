package session

import "context"

// Store persists symptom-check sessions keyed by the user identifier.
// Semantics are last-write-wins per key; Get returns (nil, nil) when no
// session exists. Callers must serialize access to the same key — the store
// does not.
type Store interface {
	Get(ctx context.Context, key string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, key string) error
}

package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"symptom-check-bot/internal/catalog"
)

type postgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns a Store backed by the sessions table. The symptom
// sets are stored as JSON columns, one row per user key.
func NewPostgresStore(db *sql.DB) Store {
	return &postgresStore{db: db}
}

func (r *postgresStore) Get(ctx context.Context, key string) (*Session, error) {
	query := `SELECT key, flow_id, phase, matched, asked, days, result, created_at, updated_at FROM sessions WHERE key = $1`

	row := r.db.QueryRowContext(ctx, query, key)

	var s Session
	var matchedJSON, askedJSON, resultJSON []byte
	err := row.Scan(
		&s.Key,
		&s.FlowID,
		&s.Phase,
		&matchedJSON,
		&askedJSON,
		&s.Days,
		&resultJSON,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if len(matchedJSON) > 0 {
		if err := json.Unmarshal(matchedJSON, &s.Matched); err != nil {
			return nil, fmt.Errorf("failed to unmarshal matched symptoms: %w", err)
		}
	}
	if len(askedJSON) > 0 {
		if err := json.Unmarshal(askedJSON, &s.Asked); err != nil {
			return nil, fmt.Errorf("failed to unmarshal asked symptoms: %w", err)
		}
	}
	if len(resultJSON) > 0 {
		if err := json.Unmarshal(resultJSON, &s.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal last result: %w", err)
		}
	}
	return &s, nil
}

func (r *postgresStore) Put(ctx context.Context, s *Session) error {
	matchedJSON, err := json.Marshal(emptyIfNil(s.Matched))
	if err != nil {
		return err
	}
	askedJSON, err := json.Marshal(emptyIfNil(s.Asked))
	if err != nil {
		return err
	}
	var resultJSON []byte
	if s.Result != nil {
		resultJSON, err = json.Marshal(s.Result)
		if err != nil {
			return err
		}
	}

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.UpdatedAt = time.Now()

	query := `
		INSERT INTO sessions (key, flow_id, phase, matched, asked, days, result, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (key) DO UPDATE SET
			flow_id = $2,
			phase = $3,
			matched = $4,
			asked = $5,
			days = $6,
			result = $7,
			updated_at = $9
	`
	_, err = r.db.ExecContext(ctx, query,
		s.Key, s.FlowID, s.Phase, matchedJSON, askedJSON, s.Days, resultJSON, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *postgresStore) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE key = $1`, key)
	return err
}

func emptyIfNil(s []catalog.Symptom) []catalog.Symptom {
	if s == nil {
		return []catalog.Symptom{}
	}
	return s
}

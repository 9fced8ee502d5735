package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Call status values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// CallRecord is one journaled generate call. Prompt and answer text are not stored.
type CallRecord struct {
	ID          string
	StartedAt   time.Time
	Duration    time.Duration
	Model       string
	URL         string
	Status      string
	ErrorKind   string
	Error       string
	PromptBytes int
	AnswerBytes int
}

// Store persists call records.
type Store struct {
	db *sql.DB
}

// NewStore creates a store over an opened journal database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// RecordCall inserts rec, assigning an ID when it has none.
func (s *Store) RecordCall(ctx context.Context, rec CallRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO calls(call_id, started_at, duration_ms, model, url, status, error_kind, error, prompt_bytes, answer_bytes)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StartedAt.UTC().Format(timeLayout), rec.Duration.Milliseconds(), rec.Model, rec.URL,
		rec.Status, nullableString(rec.ErrorKind), nullableString(rec.Error), rec.PromptBytes, rec.AnswerBytes)
	if err != nil {
		return "", fmt.Errorf("insert call: %w", err)
	}
	return rec.ID, nil
}

// ListCalls returns up to limit records, newest first. A non-positive limit returns all.
func (s *Store) ListCalls(ctx context.Context, limit int) ([]CallRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT call_id, started_at, duration_ms, model, url, status,
		COALESCE(error_kind, ''), COALESCE(error, ''), prompt_bytes, answer_bytes
		FROM calls ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list calls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []CallRecord
	for rows.Next() {
		var (
			rec        CallRecord
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&rec.ID, &startedAt, &durationMS, &rec.Model, &rec.URL, &rec.Status,
			&rec.ErrorKind, &rec.Error, &rec.PromptBytes, &rec.AnswerBytes); err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		rec.StartedAt, err = time.Parse(timeLayout, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", startedAt, err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calls: %w", err)
	}
	return out, nil
}

// PruneCalls keeps the newest keepLast records and deletes the rest.
func (s *Store) PruneCalls(ctx context.Context, keepLast int) (int64, error) {
	if keepLast < 0 {
		return 0, fmt.Errorf("keep-last must be >= 0, got %d", keepLast)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM calls WHERE call_id NOT IN (
		SELECT call_id FROM calls ORDER BY started_at DESC, rowid DESC LIMIT ?)`, keepLast)
	if err != nil {
		return 0, fmt.Errorf("prune calls: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune calls: %w", err)
	}
	return n, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

package callsession

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// NOTE: This repository assumes the following table exists:
//
// CREATE TABLE call_sessions (
//   call_id      TEXT PRIMARY KEY,
//   from_number  TEXT NOT NULL DEFAULT '',
//   to_number    TEXT NOT NULL DEFAULT '',
//   direction    TEXT NOT NULL DEFAULT 'inbound',
//   status       TEXT NOT NULL,
//   current_step TEXT NOT NULL,
//   transcript   TEXT NOT NULL DEFAULT '',
//   summary      TEXT NOT NULL DEFAULT '',
//   created_at   TIMESTAMPTZ NOT NULL,
//   updated_at   TIMESTAMPTZ NOT NULL
// );
//
// Rows are never deleted; the table is the call audit trail.

type PostgresStore struct {
	db    *sql.DB
	clock func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, clock: time.Now}
}

func (p *PostgresStore) Find(ctx context.Context, callID string) (CallSession, error) {
	if callID == "" {
		return CallSession{}, ErrInvalidArgument
	}
	const q = `
SELECT call_id, from_number, to_number, direction, status, current_step, transcript, summary, created_at, updated_at
FROM call_sessions
WHERE call_id = $1
`
	var s CallSession
	if err := p.db.QueryRowContext(ctx, q, callID).Scan(
		&s.CallID,
		&s.FromNumber,
		&s.ToNumber,
		&s.Direction,
		&s.Status,
		&s.CurrentStep,
		&s.Transcript,
		&s.Summary,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CallSession{}, ErrNotFound
		}
		return CallSession{}, err
	}
	return s, nil
}

func (p *PostgresStore) Create(ctx context.Context, s CallSession) error {
	if s.CallID == "" {
		return ErrInvalidArgument
	}
	now := p.clock().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	if s.Status == "" {
		s.Status = StatusInitiated
	}
	if s.CurrentStep == "" {
		s.CurrentStep = StepGreeting
	}
	if s.Direction == "" {
		s.Direction = DirectionInbound
	}
	const q = `
INSERT INTO call_sessions (
  call_id, from_number, to_number, direction, status, current_step, transcript, summary, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
)
ON CONFLICT (call_id) DO NOTHING
`
	_, err := p.db.ExecContext(ctx, q,
		s.CallID,
		s.FromNumber,
		s.ToNumber,
		s.Direction,
		s.Status,
		s.CurrentStep,
		s.Transcript,
		s.Summary,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func (p *PostgresStore) UpdateStep(ctx context.Context, callID string, step Step, status Status) error {
	if callID == "" || !step.Valid() {
		return ErrInvalidArgument
	}
	const q = `
UPDATE call_sessions
SET current_step = $2, status = $3, updated_at = $4
WHERE call_id = $1
`
	res, err := p.db.ExecContext(ctx, q, callID, step, status, p.clock().UTC())
	if err != nil {
		return err
	}
	return noRowsAsNotFound(res)
}

func (p *PostgresStore) AppendTranscript(ctx context.Context, callID, text string) error {
	if callID == "" || text == "" {
		return ErrInvalidArgument
	}
	// Append in SQL so concurrent transcription events never clobber each
	// other through a read-modify-write cycle.
	const q = `
UPDATE call_sessions
SET transcript = CASE WHEN transcript = '' THEN $2 ELSE transcript || ' ' || $2 END,
    status = $3,
    updated_at = $4
WHERE call_id = $1
`
	res, err := p.db.ExecContext(ctx, q, callID, text, StatusCompleted, p.clock().UTC())
	if err != nil {
		return err
	}
	return noRowsAsNotFound(res)
}

func (p *PostgresStore) Complete(ctx context.Context, callID, summary string) error {
	return p.finish(ctx, callID, summary, StatusCompleted)
}

func (p *PostgresStore) MarkFailed(ctx context.Context, callID, summary string) error {
	return p.finish(ctx, callID, summary, StatusFailed)
}

func (p *PostgresStore) finish(ctx context.Context, callID, summary string, status Status) error {
	if callID == "" {
		return ErrInvalidArgument
	}
	const q = `
UPDATE call_sessions
SET status = $2, summary = $3, current_step = $4, updated_at = $5
WHERE call_id = $1
`
	res, err := p.db.ExecContext(ctx, q, callID, status, summary, StepDone, p.clock().UTC())
	if err != nil {
		return err
	}
	return noRowsAsNotFound(res)
}

func (p *PostgresStore) ListRecent(ctx context.Context, limit int) ([]CallSession, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `
SELECT call_id, from_number, to_number, direction, status, current_step, transcript, summary, created_at, updated_at
FROM call_sessions
ORDER BY created_at DESC
LIMIT $1
`
	rows, err := p.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CallSession, 0, limit)
	for rows.Next() {
		var s CallSession
		if err := rows.Scan(
			&s.CallID,
			&s.FromNumber,
			&s.ToNumber,
			&s.Direction,
			&s.Status,
			&s.CurrentStep,
			&s.Transcript,
			&s.Summary,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func noRowsAsNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

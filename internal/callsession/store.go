package callsession

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("callsession: not found")
	ErrInvalidArgument = errors.New("callsession: invalid argument")
)

// Store is the persistence contract for call sessions.
//
// Callers in the voice path must treat every method as best-effort: a store
// failure is logged and swallowed, because losing the caller's ability to
// proceed is worse than losing an audit write.
type Store interface {
	Find(ctx context.Context, callID string) (CallSession, error)
	Create(ctx context.Context, s CallSession) error

	// UpdateStep advances the persisted step marker and status.
	UpdateStep(ctx context.Context, callID string, step Step, status Status) error

	// AppendTranscript appends provider-transcribed text to the session and
	// marks the partial update completed. Append-only; no read-modify-write
	// in the caller.
	AppendTranscript(ctx context.Context, callID, text string) error

	// Complete records the final outcome summary and COMPLETED status.
	Complete(ctx context.Context, callID, summary string) error

	// MarkFailed records a terminal failure (human handoff) without
	// pretending the booking completed.
	MarkFailed(ctx context.Context, callID, summary string) error

	// ListRecent returns sessions newest first for the admin dashboard.
	ListRecent(ctx context.Context, limit int) ([]CallSession, error)
}

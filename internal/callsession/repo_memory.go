package callsession

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store useful for tests and early development.
// It mirrors the PostgresStore semantics, including transcript appends.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]CallSession
	clock    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]CallSession), clock: time.Now}
}

func (m *MemoryStore) Find(ctx context.Context, callID string) (CallSession, error) {
	_ = ctx
	if callID == "" {
		return CallSession{}, ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[callID]
	if !ok {
		return CallSession{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) Create(ctx context.Context, s CallSession) error {
	_ = ctx
	if s.CallID == "" {
		return ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[s.CallID]; exists {
		return nil
	}
	now := m.clock().UTC()
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
	m.sessions[s.CallID] = s
	return nil
}

func (m *MemoryStore) UpdateStep(ctx context.Context, callID string, step Step, status Status) error {
	_ = ctx
	if callID == "" || !step.Valid() {
		return ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[callID]
	if !ok {
		return ErrNotFound
	}
	s.CurrentStep = step
	s.Status = status
	s.UpdatedAt = m.clock().UTC()
	m.sessions[callID] = s
	return nil
}

func (m *MemoryStore) AppendTranscript(ctx context.Context, callID, text string) error {
	_ = ctx
	if callID == "" || text == "" {
		return ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[callID]
	if !ok {
		return ErrNotFound
	}
	if s.Transcript == "" {
		s.Transcript = text
	} else {
		s.Transcript += " " + text
	}
	s.Status = StatusCompleted
	s.UpdatedAt = m.clock().UTC()
	m.sessions[callID] = s
	return nil
}

func (m *MemoryStore) Complete(ctx context.Context, callID, summary string) error {
	return m.finish(ctx, callID, summary, StatusCompleted)
}

func (m *MemoryStore) MarkFailed(ctx context.Context, callID, summary string) error {
	return m.finish(ctx, callID, summary, StatusFailed)
}

func (m *MemoryStore) finish(ctx context.Context, callID, summary string, status Status) error {
	_ = ctx
	if callID == "" {
		return ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[callID]
	if !ok {
		return ErrNotFound
	}
	s.Status = status
	s.Summary = summary
	s.CurrentStep = StepDone
	s.UpdatedAt = m.clock().UTC()
	m.sessions[callID] = s
	return nil
}

func (m *MemoryStore) ListRecent(ctx context.Context, limit int) ([]CallSession, error) {
	_ = ctx
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CallSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

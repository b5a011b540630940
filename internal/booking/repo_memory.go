package booking

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repository useful for tests and early development.
type MemoryRepo struct {
	mu           sync.Mutex
	reservations map[string]Reservation
	clock        func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{reservations: make(map[string]Reservation), clock: time.Now}
}

func (m *MemoryRepo) Create(ctx context.Context, r Reservation) error {
	_ = ctx
	if r.ID == "" || r.GuestName == "" {
		return ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	m.reservations[r.ID] = r
	return nil
}

func (m *MemoryRepo) FindByID(ctx context.Context, id string) (Reservation, error) {
	_ = ctx
	if id == "" {
		return Reservation{}, ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return Reservation{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryRepo) UpdateDates(ctx context.Context, id string, checkIn, checkOut time.Time) error {
	_ = ctx
	if id == "" || !checkOut.After(checkIn) {
		return ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return ErrNotFound
	}
	r.CheckIn = checkIn
	r.CheckOut = checkOut
	r.UpdatedAt = m.clock().UTC()
	m.reservations[id] = r
	return nil
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-frontdesk/internal/extract"
	"hotel-frontdesk/internal/notify"
	"hotel-frontdesk/pkg/logger"
)

// SessionUpdater is the slice of the call-session store the committer needs.
type SessionUpdater interface {
	Complete(ctx context.Context, callID, summary string) error
}

// AtomicCommitRepo persists the reservation and the call outcome in a single
// transaction. PostgresRepo implements it; repositories without transactional
// storage fall back to the two-step path.
type AtomicCommitRepo interface {
	CreateAndCompleteSession(ctx context.Context, r Reservation, callID, summary string) error
}

// Committer turns a validated extraction into a persisted reservation and
// requests the confirmation notification.
type Committer struct {
	reservations Repository
	sessions     SessionUpdater
	notifier     notify.Notifier
	clock        func() time.Time
}

func NewCommitter(reservations Repository, sessions SessionUpdater, notifier notify.Notifier) *Committer {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Committer{
		reservations: reservations,
		sessions:     sessions,
		notifier:     notifier,
		clock:        time.Now,
	}
}

// Confirmation is what the voice flow needs to speak the final message.
type Confirmation struct {
	ReservationID string
	GuestName     string
	RoomType      string
	NightlyRate   int64
	Nights        int
	CheckIn       time.Time
	CheckOut      time.Time

	// EmailSent only varies the spoken wording; it is not a commit outcome.
	EmailSent bool
}

// Commit persists the reservation, closes out the call session, and fires
// the confirmation notification. A reservation persistence failure is the
// only error that propagates; the caller degrades to the apology script.
func (c *Committer) Commit(ctx context.Context, callID string, b extract.Booking) (Confirmation, error) {
	log := logger.From(ctx)
	if c.reservations == nil {
		return Confirmation{}, errors.New("booking: repository not configured")
	}
	if callID == "" {
		return Confirmation{}, ErrInvalidArgument
	}

	now := c.clock().UTC()
	r := Reservation{
		ID:          newReservationID(now),
		GuestName:   b.Name,
		Email:       b.Email,
		Phone:       b.Phone,
		CheckIn:     b.CheckIn,
		CheckOut:    b.CheckOut,
		RoomType:    b.RoomType,
		Guests:      b.Guests,
		NightlyRate: NightlyRate(b.RoomType),
		Status:      StatusConfirmed,
		Notes:       fmt.Sprintf("Booked by phone, call %s", callID),
		CreatedAt:   now,
	}

	summary := fmt.Sprintf("Reservation %s confirmed for %s", r.ID, r.GuestName)

	if atomic, ok := c.reservations.(AtomicCommitRepo); ok {
		if err := atomic.CreateAndCompleteSession(ctx, r, callID, summary); err != nil {
			return Confirmation{}, fmt.Errorf("booking: persist reservation: %w", err)
		}
	} else {
		if err := c.reservations.Create(ctx, r); err != nil {
			return Confirmation{}, fmt.Errorf("booking: persist reservation: %w", err)
		}
		if c.sessions != nil {
			// The reservation exists at this point; a session bookkeeping
			// failure must not turn a successful booking into an apology.
			if err := c.sessions.Complete(ctx, callID, summary); err != nil {
				log.Warn("call session completion failed", "call_id", callID, "err", err)
			}
		}
	}

	conf := Confirmation{
		ReservationID: r.ID,
		GuestName:     r.GuestName,
		RoomType:      r.RoomType,
		NightlyRate:   r.NightlyRate,
		Nights:        r.Nights(),
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
	}
	conf.EmailSent = c.notifier.SendBookingConfirmation(ctx, notify.BookingDetails{
		ReservationID: r.ID,
		GuestName:     r.GuestName,
		Email:         r.Email,
		Phone:         r.Phone,
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
		RoomType:      r.RoomType,
		Guests:        r.Guests,
		NightlyRate:   r.NightlyRate,
		Nights:        r.Nights(),
	})
	return conf, nil
}

// newReservationID is time-based: unique per commit, readable over the phone.
func newReservationID(now time.Time) string {
	return fmt.Sprintf("HB-%d", now.UnixMilli())
}

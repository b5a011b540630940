package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hotel-frontdesk/internal/extract"
	"hotel-frontdesk/internal/notify"
)

type fakeSessions struct {
	callID  string
	summary string
	err     error
}

func (f *fakeSessions) Complete(_ context.Context, callID, summary string) error {
	f.callID = callID
	f.summary = summary
	return f.err
}

type fakeNotifier struct {
	got    notify.BookingDetails
	result bool
	called bool
}

func (f *fakeNotifier) SendBookingConfirmation(_ context.Context, d notify.BookingDetails) bool {
	f.got = d
	f.called = true
	return f.result
}

type failingRepo struct{}

func (failingRepo) Create(context.Context, Reservation) error { return errors.New("db down") }
func (failingRepo) FindByID(context.Context, string) (Reservation, error) {
	return Reservation{}, ErrNotFound
}
func (failingRepo) UpdateDates(context.Context, string, time.Time, time.Time) error {
	return errors.New("db down")
}

// atomicRepo records which persistence path the committer chose.
type atomicRepo struct {
	*MemoryRepo
	gotCallID  string
	gotSummary string
	err        error
	plainUsed  bool
}

func (a *atomicRepo) Create(ctx context.Context, r Reservation) error {
	a.plainUsed = true
	return a.MemoryRepo.Create(ctx, r)
}

func (a *atomicRepo) CreateAndCompleteSession(ctx context.Context, r Reservation, callID, summary string) error {
	if a.err != nil {
		return a.err
	}
	a.gotCallID = callID
	a.gotSummary = summary
	return a.MemoryRepo.Create(ctx, r)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleBooking() extract.Booking {
	return extract.Booking{
		Name:     "John Smith",
		Email:    "john@x.com",
		Phone:    "+15550001111",
		CheckIn:  date(2026, 8, 30),
		CheckOut: date(2026, 9, 1),
		RoomType: extract.RoomDeluxe,
		Guests:   2,
	}
}

func TestCommitPersistsAndNotifies(t *testing.T) {
	repo := NewMemoryRepo()
	sessions := &fakeSessions{}
	notifier := &fakeNotifier{result: true}
	c := NewCommitter(repo, sessions, notifier)
	c.clock = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }

	conf, err := c.Commit(context.Background(), "CA123", sampleBooking())
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if conf.ReservationID == "" || !strings.HasPrefix(conf.ReservationID, "HB-") {
		t.Fatalf("unexpected reservation id: %q", conf.ReservationID)
	}
	if conf.NightlyRate != 200 || conf.Nights != 2 || !conf.EmailSent {
		t.Fatalf("unexpected confirmation: %+v", conf)
	}

	r, err := repo.FindByID(context.Background(), conf.ReservationID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if r.Status != StatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", r.Status)
	}
	if !strings.Contains(r.Notes, "CA123") {
		t.Fatalf("expected originating call id in notes, got %q", r.Notes)
	}

	if sessions.callID != "CA123" {
		t.Fatalf("expected session completion for CA123, got %q", sessions.callID)
	}
	if !strings.Contains(sessions.summary, conf.ReservationID) || !strings.Contains(sessions.summary, "John Smith") {
		t.Fatalf("summary must link reservation and guest, got %q", sessions.summary)
	}

	if notifier.got.Email != "john@x.com" || notifier.got.NightlyRate != 200 {
		t.Fatalf("unexpected notification details: %+v", notifier.got)
	}
}

func TestCommitPersistFailurePropagates(t *testing.T) {
	sessions := &fakeSessions{}
	notifier := &fakeNotifier{}
	c := NewCommitter(failingRepo{}, sessions, notifier)

	_, err := c.Commit(context.Background(), "CA123", sampleBooking())
	if err == nil {
		t.Fatalf("expected error")
	}
	if sessions.callID != "" {
		t.Fatalf("session must not be completed on persist failure")
	}
	if notifier.called {
		t.Fatalf("notification must not fire on persist failure")
	}
}

func TestCommitSessionFailureDoesNotFailBooking(t *testing.T) {
	repo := NewMemoryRepo()
	c := NewCommitter(repo, &fakeSessions{err: errors.New("db down")}, &fakeNotifier{result: true})

	conf, err := c.Commit(context.Background(), "CA9", sampleBooking())
	if err != nil {
		t.Fatalf("expected commit to survive session bookkeeping failure, got %v", err)
	}
	if !conf.EmailSent {
		t.Fatalf("expected notification to still fire")
	}
}

func TestCommitPrefersAtomicRepo(t *testing.T) {
	repo := &atomicRepo{MemoryRepo: NewMemoryRepo()}
	sessions := &fakeSessions{}
	c := NewCommitter(repo, sessions, &fakeNotifier{result: true})

	conf, err := c.Commit(context.Background(), "CA123", sampleBooking())
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if repo.plainUsed {
		t.Fatalf("expected the transactional path, not the two-step one")
	}
	if repo.gotCallID != "CA123" {
		t.Fatalf("atomic commit call id = %q", repo.gotCallID)
	}
	if !strings.Contains(repo.gotSummary, conf.ReservationID) || !strings.Contains(repo.gotSummary, "John Smith") {
		t.Fatalf("summary must link reservation and guest, got %q", repo.gotSummary)
	}
	if sessions.callID != "" {
		t.Fatalf("session must not be completed twice when the repo already did it")
	}
	if _, err := repo.FindByID(context.Background(), conf.ReservationID); err != nil {
		t.Fatalf("find: %v", err)
	}
}

func TestCommitAtomicFailurePropagates(t *testing.T) {
	repo := &atomicRepo{MemoryRepo: NewMemoryRepo(), err: errors.New("db down")}
	notifier := &fakeNotifier{}
	c := NewCommitter(repo, &fakeSessions{}, notifier)

	if _, err := c.Commit(context.Background(), "CA123", sampleBooking()); err == nil {
		t.Fatalf("expected error")
	}
	if notifier.called {
		t.Fatalf("notification must not fire on persist failure")
	}
}

func TestCommitNotifierFailureOnlyVariesConfirmation(t *testing.T) {
	c := NewCommitter(NewMemoryRepo(), &fakeSessions{}, &fakeNotifier{result: false})
	conf, err := c.Commit(context.Background(), "CA9", sampleBooking())
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if conf.EmailSent {
		t.Fatalf("expected EmailSent=false")
	}
}

func TestCommitRequiresCallID(t *testing.T) {
	c := NewCommitter(NewMemoryRepo(), nil, nil)
	if _, err := c.Commit(context.Background(), "", sampleBooking()); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

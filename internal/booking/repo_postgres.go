package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hotel-frontdesk/pkg/utils"
)

// NOTE: This repository assumes the following table exists:
//
// CREATE TABLE reservations (
//   id           TEXT PRIMARY KEY,
//   guest_name   TEXT NOT NULL,
//   email        TEXT NOT NULL DEFAULT '',
//   phone        TEXT NOT NULL DEFAULT '',
//   check_in     DATE NOT NULL,
//   check_out    DATE NOT NULL,
//   room_type    TEXT NOT NULL,
//   guests       INT NOT NULL,
//   nightly_rate BIGINT NOT NULL,
//   status       TEXT NOT NULL,
//   notes        TEXT NOT NULL DEFAULT '',
//   created_at   TIMESTAMPTZ NOT NULL,
//   updated_at   TIMESTAMPTZ NOT NULL
// );

type PostgresRepo struct {
	db    *sql.DB
	clock func() time.Time
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db, clock: time.Now}
}

const insertReservationSQL = `
INSERT INTO reservations (
  id, guest_name, email, phone, check_in, check_out, room_type, guests, nightly_rate, status, notes, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13
)
`

func (p *PostgresRepo) Create(ctx context.Context, r Reservation) error {
	r, err := p.prepare(r)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, insertReservationSQL, reservationArgs(r)...)
	return err
}

// CreateAndCompleteSession persists the reservation and records the call
// outcome in one transaction, so a crash between the two writes cannot leave
// a reservation whose call still looks unfinished. Both tables live in the
// same database, which is what makes the single transaction possible.
// A missing session row is tolerated; the reservation insert is the write
// that matters.
func (p *PostgresRepo) CreateAndCompleteSession(ctx context.Context, r Reservation, callID, summary string) error {
	if callID == "" {
		return ErrInvalidArgument
	}
	r, err := p.prepare(r)
	if err != nil {
		return err
	}
	const completeSessionSQL = `
UPDATE call_sessions
SET status = 'COMPLETED', summary = $2, current_step = 'done', updated_at = $3
WHERE call_id = $1
`
	return utils.WithTx(ctx, p.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertReservationSQL, reservationArgs(r)...); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, completeSessionSQL, callID, summary, r.UpdatedAt)
		return err
	})
}

func (p *PostgresRepo) prepare(r Reservation) (Reservation, error) {
	if r.ID == "" || r.GuestName == "" {
		return Reservation{}, ErrInvalidArgument
	}
	now := p.clock().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	return r, nil
}

func reservationArgs(r Reservation) []any {
	return []any{
		r.ID,
		r.GuestName,
		r.Email,
		r.Phone,
		r.CheckIn,
		r.CheckOut,
		r.RoomType,
		r.Guests,
		r.NightlyRate,
		r.Status,
		r.Notes,
		r.CreatedAt,
		r.UpdatedAt,
	}
}

func (p *PostgresRepo) FindByID(ctx context.Context, id string) (Reservation, error) {
	if id == "" {
		return Reservation{}, ErrInvalidArgument
	}
	const q = `
SELECT id, guest_name, email, phone, check_in, check_out, room_type, guests, nightly_rate, status, notes, created_at, updated_at
FROM reservations
WHERE id = $1
`
	var r Reservation
	if err := p.db.QueryRowContext(ctx, q, id).Scan(
		&r.ID,
		&r.GuestName,
		&r.Email,
		&r.Phone,
		&r.CheckIn,
		&r.CheckOut,
		&r.RoomType,
		&r.Guests,
		&r.NightlyRate,
		&r.Status,
		&r.Notes,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Reservation{}, ErrNotFound
		}
		return Reservation{}, err
	}
	return r, nil
}

func (p *PostgresRepo) UpdateDates(ctx context.Context, id string, checkIn, checkOut time.Time) error {
	if id == "" || !checkOut.After(checkIn) {
		return ErrInvalidArgument
	}
	const q = `
UPDATE reservations
SET check_in = $2, check_out = $3, updated_at = $4
WHERE id = $1
`
	res, err := p.db.ExecContext(ctx, q, id, checkIn, checkOut, p.clock().UTC())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

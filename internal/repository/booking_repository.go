package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Booking mirrors the `bookings` table.  It is the persisted form of a
// confirmed booking: on top of the movie/seat pair it records who booked,
// a client-facing reference and when the row was created.
//
// Fields:
//
//	ID        – primary key identifier.
//	Ref       – UUID handed back to the client for later lookups.
//	UserID    – user who made the booking.
//	MovieID   – movie the seat belongs to.
//	SeatID    – seat that was claimed.
//	CreatedAt – creation timestamp.
type Booking struct {
	ID        uint64
	Ref       string
	UserID    uint64
	MovieID   string
	SeatID    string
	CreatedAt time.Time
}

// BookingRepo encapsulates all database queries related to bookings.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the provided DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// CreateTx inserts a booking inside tx.  It runs in the same transaction as
// the seat-map update so the seat flip and the booking row commit or roll
// back together.  On success the ID and CreatedAt fields are populated.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *Booking) error {
	const qInsert = "INSERT INTO bookings (ref, user_id, movie_id, seat_id) VALUES (?, ?, ?, ?)"
	res, err := tx.ExecContext(ctx, qInsert, b.Ref, b.UserID, b.MovieID, b.SeatID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	const qSelect = "SELECT created_at FROM bookings WHERE id = ?"
	return tx.QueryRowContext(ctx, qSelect, b.ID).Scan(&b.CreatedAt)
}

// GetByRef fetches a booking by its client-facing reference.  It returns
// ErrBookingNotFound when no row matches.
func (r *BookingRepo) GetByRef(ctx context.Context, ref string) (*Booking, error) {
	const q = "SELECT id, ref, user_id, movie_id, seat_id, created_at FROM bookings WHERE ref = ?"
	var b Booking
	err := r.db.QueryRowContext(ctx, q, ref).
		Scan(&b.ID, &b.Ref, &b.UserID, &b.MovieID, &b.SeatID, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListByUser returns a user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]*Booking, error) {
	const q = `SELECT id, ref, user_id, movie_id, seat_id, created_at
	           FROM bookings WHERE user_id = ? ORDER BY id DESC`
	return r.list(ctx, q, userID)
}

// ListByMovie returns all bookings made against one movie, oldest first.
func (r *BookingRepo) ListByMovie(ctx context.Context, movieID string) ([]*Booking, error) {
	const q = `SELECT id, ref, user_id, movie_id, seat_id, created_at
	           FROM bookings WHERE movie_id = ? ORDER BY id`
	return r.list(ctx, q, movieID)
}

func (r *BookingRepo) list(ctx context.Context, q string, arg any) ([]*Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.Ref, &b.UserID, &b.MovieID, &b.SeatID, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

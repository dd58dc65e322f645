package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/movie-seat-booking/internal/model"
)

// mysqlDuplicateEntry is the server error number MySQL reports when an
// insert violates a unique or primary key constraint.
const mysqlDuplicateEntry = 1062

// MovieRepo encapsulates all database queries related to movies.  The seat
// map is persisted as a JSON column and marshalled at this boundary, so the
// rest of the application only ever sees validated model.Movie values.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// DB exposes the underlying pool so callers can open transactions that span
// the movie and booking repositories.
func (r *MovieRepo) DB() *sql.DB { return r.db }

// Create inserts a new movie.  The movie id is the primary key; a duplicate
// insert is reported as ErrMovieExists.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	seats, err := json.Marshal(m.SeatMap())
	if err != nil {
		return err
	}
	const q = "INSERT INTO movies (id, name, seat_map) VALUES (?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, q, m.ID, m.Name, seats); err != nil {
		var merr *mysql.MySQLError
		if errors.As(err, &merr) && merr.Number == mysqlDuplicateEntry {
			return ErrMovieExists
		}
		return err
	}
	return nil
}

// GetByID fetches one movie.  It returns ErrMovieNotFound when no row
// matches.
func (r *MovieRepo) GetByID(ctx context.Context, id string) (*model.Movie, error) {
	const q = "SELECT id, name, seat_map FROM movies WHERE id = ?"
	return r.scanMovie(r.db.QueryRowContext(ctx, q, id))
}

// GetForUpdateTx fetches one movie inside tx while taking a row lock, so a
// seat flip cannot race with another booking for the same movie.
func (r *MovieRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id string) (*model.Movie, error) {
	const q = "SELECT id, name, seat_map FROM movies WHERE id = ? FOR UPDATE"
	return r.scanMovie(tx.QueryRowContext(ctx, q, id))
}

// UpdateSeatMapTx rewrites a movie's seat map inside tx.  Callers must hold
// the row lock taken by GetForUpdateTx.
func (r *MovieRepo) UpdateSeatMapTx(ctx context.Context, tx *sql.Tx, id string, seatMap map[string]bool) error {
	seats, err := json.Marshal(seatMap)
	if err != nil {
		return err
	}
	const q = "UPDATE movies SET seat_map = ? WHERE id = ?"
	res, err := tx.ExecContext(ctx, q, seats, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// ClaimSeatTx marks one seat of a locked movie as taken.  It returns
// ErrSeatUnknown when seatID is not a key of the movie's seat map and
// ErrSeatTaken when the seat is no longer available.  The movie must have
// been loaded with GetForUpdateTx in the same transaction.
func (r *MovieRepo) ClaimSeatTx(ctx context.Context, tx *sql.Tx, m *model.Movie, seatID string) error {
	available, known := m.Seat(seatID)
	if !known {
		return ErrSeatUnknown
	}
	if !available {
		return ErrSeatTaken
	}
	seats := m.SeatMap()
	seats[seatID] = false
	return r.UpdateSeatMapTx(ctx, tx, m.ID, seats)
}

// List returns all movies ordered by id.
func (r *MovieRepo) List(ctx context.Context) ([]*model.Movie, error) {
	const q = "SELECT id, name, seat_map FROM movies ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Movie
	for rows.Next() {
		m, err := scanMovieRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// mysqlRowIsReferenced is the server error number MySQL reports when a
// delete would orphan rows behind a foreign key.
const mysqlRowIsReferenced = 1451

// Delete removes a movie by id.  ErrMovieNotFound is returned when nothing
// was deleted, ErrMovieHasBookings when bookings still reference the row.
func (r *MovieRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id)
	if err != nil {
		var merr *mysql.MySQLError
		if errors.As(err, &merr) && merr.Number == mysqlRowIsReferenced {
			return ErrMovieHasBookings
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

func (r *MovieRepo) scanMovie(row *sql.Row) (*model.Movie, error) {
	m, err := scanMovieRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMovieNotFound
	}
	return m, err
}

// scanMovieRow rebuilds a model.Movie from a row's columns.  The stored
// JSON passed validation on the way in, so a decode failure here means the
// column was corrupted outside the application and is surfaced as-is.
func scanMovieRow(scan func(dest ...any) error) (*model.Movie, error) {
	var (
		id, name string
		rawSeats []byte
	)
	if err := scan(&id, &name, &rawSeats); err != nil {
		return nil, err
	}
	var seats map[string]bool
	if err := json.Unmarshal(rawSeats, &seats); err != nil {
		return nil, err
	}
	return model.NewMovie(name, id, seats)
}

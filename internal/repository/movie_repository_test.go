package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-seat-booking/internal/model"
)

func newMovieRepoMock(t *testing.T) (*MovieRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMovieRepo(db), mock
}

func mustMovie(t *testing.T, name, id string, seats map[string]bool) *model.Movie {
	t.Helper()
	m, err := model.NewMovie(name, id, seats)
	require.NoError(t, err)
	return m
}

func TestMovieRepoCreate(t *testing.T) {
	repo, mock := newMovieRepoMock(t)
	m := mustMovie(t, "Inception", "m1", map[string]bool{"A1": true, "A2": false})

	// encoding/json sorts map keys, so the stored payload is stable.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO movies (id, name, seat_map) VALUES (?, ?, ?)")).
		WithArgs("m1", "Inception", []byte(`{"A1":true,"A2":false}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), m))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepoCreateDuplicate(t *testing.T) {
	repo, mock := newMovieRepoMock(t)
	m := mustMovie(t, "Inception", "m1", nil)

	mock.ExpectExec("INSERT INTO movies").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "duplicate entry"})

	err := repo.Create(context.Background(), m)
	assert.ErrorIs(t, err, ErrMovieExists)
}

func TestMovieRepoGetByID(t *testing.T) {
	repo, mock := newMovieRepoMock(t)

	rows := sqlmock.NewRows([]string{"id", "name", "seat_map"}).
		AddRow("m1", "Inception", []byte(`{"A1":true,"A2":false}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, seat_map FROM movies WHERE id = ?")).
		WithArgs("m1").
		WillReturnRows(rows)

	m, err := repo.GetByID(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Inception", m.Name)
	assert.Equal(t, map[string]bool{"A1": true, "A2": false}, m.SeatMap())
}

func TestMovieRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMovieRepoMock(t)

	mock.ExpectQuery("SELECT id, name, seat_map FROM movies").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "seat_map"}))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestMovieRepoList(t *testing.T) {
	repo, mock := newMovieRepoMock(t)

	rows := sqlmock.NewRows([]string{"id", "name", "seat_map"}).
		AddRow("m1", "Inception", []byte(`{}`)).
		AddRow("m2", "Up", []byte(`{"B1":true}`))
	mock.ExpectQuery("SELECT id, name, seat_map FROM movies ORDER BY id").
		WillReturnRows(rows)

	movies, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "m1", movies[0].ID)
	assert.Equal(t, 1, movies[1].Seats())
}

func TestMovieRepoClaimSeatTx(t *testing.T) {
	repo, mock := newMovieRepoMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, seat_map FROM movies WHERE id = ? FOR UPDATE")).
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "seat_map"}).
			AddRow("m1", "Inception", []byte(`{"A1":true,"A2":false}`)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE movies SET seat_map = ? WHERE id = ?")).
		WithArgs([]byte(`{"A1":false,"A2":false}`), "m1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := repo.DB().BeginTx(ctx, nil)
	require.NoError(t, err)

	m, err := repo.GetForUpdateTx(ctx, tx, "m1")
	require.NoError(t, err)
	require.NoError(t, repo.ClaimSeatTx(ctx, tx, m, "A1"))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepoClaimSeatTxRejections(t *testing.T) {
	repo, mock := newMovieRepoMock(t)
	ctx := context.Background()
	m := mustMovie(t, "Inception", "m1", map[string]bool{"A1": true, "A2": false})

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := repo.DB().BeginTx(ctx, nil)
	require.NoError(t, err)

	// Neither rejection touches the database.
	assert.ErrorIs(t, repo.ClaimSeatTx(ctx, tx, m, "Z9"), ErrSeatUnknown)
	assert.ErrorIs(t, repo.ClaimSeatTx(ctx, tx, m, "A2"), ErrSeatTaken)
	require.NoError(t, tx.Rollback())
}

func TestMovieRepoDelete(t *testing.T) {
	repo, mock := newMovieRepoMock(t)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM movies").
		WithArgs("m1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(ctx, "m1"))

	mock.ExpectExec("DELETE FROM movies").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrMovieNotFound)

	mock.ExpectExec("DELETE FROM movies").
		WithArgs("m1").
		WillReturnError(&mysql.MySQLError{Number: 1451, Message: "row is referenced"})
	assert.ErrorIs(t, repo.Delete(ctx, "m1"), ErrMovieHasBookings)
}

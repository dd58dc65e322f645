package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-seat-booking/internal/queue"
	"github.com/iliyamo/movie-seat-booking/internal/repository"
)

// eventRecorder captures published events so tests need no broker.
type eventRecorder struct {
	mu     sync.Mutex
	events []queue.BookingCreatedEvent
	done   chan struct{}
}

func newEventRecorder() *eventRecorder {
	return &eventRecorder{done: make(chan struct{}, 1)}
}

func (r *eventRecorder) publish(_ context.Context, ev queue.BookingCreatedEvent) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func newBookingHandlerMock(t *testing.T) (*BookingHandler, sqlmock.Sqlmock, *eventRecorder) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewBookingHandler(repository.NewMovieRepo(db), repository.NewBookingRepo(db))
	rec := newEventRecorder()
	h.publish = rec.publish
	return h, mock, rec
}

// bookingContext builds an echo context for POST /v1/bookings with the
// identity claims the JWT middleware would have injected.
func bookingContext(body string, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user_id", userID)
		c.Set("role", "CUSTOMER")
	}
	return c, rec
}

func TestBookingCreate(t *testing.T) {
	h, mock, events := newBookingHandlerMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, seat_map FROM movies WHERE id = ? FOR UPDATE")).
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "seat_map"}).
			AddRow("m1", "Inception", []byte(`{"A1":true,"A2":false}`)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE movies SET seat_map = ? WHERE id = ?")).
		WithArgs([]byte(`{"A1":false,"A2":false}`), "m1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT created_at FROM bookings WHERE id = ?").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))
	mock.ExpectCommit()

	c, rec := bookingContext(`{"movie_id":"m1","seat_id":"A1"}`, 9)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Ref     string `json:"booking_ref"`
		MovieID string `json:"movie_id"`
		SeatID  string `json:"seat_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Ref)
	assert.Equal(t, "m1", resp.MovieID)
	assert.Equal(t, "A1", resp.SeatID)

	<-events.done
	events.mu.Lock()
	defer events.mu.Unlock()
	require.Len(t, events.events, 1)
	assert.Equal(t, resp.Ref, events.events[0].BookingRef)
	assert.Equal(t, "Inception", events.events[0].MovieName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateUnauthorized(t *testing.T) {
	h, _, _ := newBookingHandlerMock(t)
	c, rec := bookingContext(`{"movie_id":"m1","seat_id":"A1"}`, 0)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookingCreateValidation(t *testing.T) {
	h, _, _ := newBookingHandlerMock(t)

	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"missing seat_id", `{"movie_id":"m1"}`, "seat_id"},
		{"non-string movie_id", `{"movie_id":123,"seat_id":"A1"}`, "movie_id"},
		{"not json", `so not json`, "body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := bookingContext(tc.body, 9)
			require.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.field, resp["field"])
		})
	}
}

func TestBookingCreateMovieNotFound(t *testing.T) {
	h, mock, _ := newBookingHandlerMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name, seat_map FROM movies").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "seat_map"}))
	mock.ExpectRollback()

	c, rec := bookingContext(`{"movie_id":"ghost","seat_id":"A1"}`, 9)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingCreateSeatRejections(t *testing.T) {
	cases := []struct {
		name   string
		seat   string
		status int
	}{
		{"unknown seat", "Z9", http.StatusNotFound},
		{"taken seat", "A2", http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, mock, _ := newBookingHandlerMock(t)

			mock.ExpectBegin()
			mock.ExpectQuery("SELECT id, name, seat_map FROM movies").
				WithArgs("m1").
				WillReturnRows(sqlmock.NewRows([]string{"id", "name", "seat_map"}).
					AddRow("m1", "Inception", []byte(`{"A1":true,"A2":false}`)))
			mock.ExpectRollback()

			c, rec := bookingContext(`{"movie_id":"m1","seat_id":"`+tc.seat+`"}`, 9)
			require.NoError(t, h.Create(c))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

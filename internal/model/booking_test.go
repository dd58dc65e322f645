package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking(t *testing.T) {
	// No cross-entity checks: the referenced movie and seat need not exist.
	b, err := NewBooking("m1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "m1", b.MovieID)
	assert.Equal(t, "A1", b.SeatID)
}

func TestNewBookingRejectsEmptyFields(t *testing.T) {
	var verr *ValidationError

	_, err := NewBooking("", "A1")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "movie_id", verr.Field)

	_, err = NewBooking("m1", "")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "seat_id", verr.Field)
}

func TestParseBooking(t *testing.T) {
	b, err := ParseBooking([]byte(`{"movie_id":"m1","seat_id":"A1"}`))
	require.NoError(t, err)
	assert.Equal(t, "m1", b.MovieID)
	assert.Equal(t, "A1", b.SeatID)
}

func TestParseBookingFailures(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		field string
	}{
		{"missing movie_id", `{"seat_id":"A1"}`, "movie_id"},
		{"numeric movie_id", `{"movie_id":123,"seat_id":"A1"}`, "movie_id"},
		{"null movie_id", `{"movie_id":null,"seat_id":"A1"}`, "movie_id"},
		{"empty movie_id", `{"movie_id":"","seat_id":"A1"}`, "movie_id"},
		{"missing seat_id", `{"movie_id":"m1"}`, "seat_id"},
		{"object seat_id", `{"movie_id":"m1","seat_id":{"row":"A"}}`, "seat_id"},
		{"not an object", `"m1"`, "body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseBooking([]byte(tc.raw))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

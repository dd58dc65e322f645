package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMovie(t *testing.T) {
	m, err := NewMovie("Inception", "m1", map[string]bool{"A1": true, "A2": false})
	require.NoError(t, err)
	assert.Equal(t, "Inception", m.Name)
	assert.Equal(t, "m1", m.ID)

	avail, ok := m.Seat("A1")
	assert.True(t, ok)
	assert.True(t, avail)

	avail, ok = m.Seat("A2")
	assert.True(t, ok)
	assert.False(t, avail)

	_, ok = m.Seat("Z9")
	assert.False(t, ok)
}

func TestNewMovieEmptySeatMap(t *testing.T) {
	m, err := NewMovie("Inception", "m1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Seats())
	assert.NotNil(t, m.SeatMap())
}

func TestNewMovieRejectsEmptyFields(t *testing.T) {
	_, err := NewMovie("", "m1", nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	_, err = NewMovie("Inception", "", nil)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "id", verr.Field)
}

func TestNewMovieCopiesSeatMap(t *testing.T) {
	seats := map[string]bool{"A1": true}
	m, err := NewMovie("Inception", "m1", seats)
	require.NoError(t, err)

	// Neither the input map nor the accessor's result may alias the
	// movie's internal state.
	seats["A1"] = false
	avail, _ := m.Seat("A1")
	assert.True(t, avail)

	out := m.SeatMap()
	out["A1"] = false
	avail, _ = m.Seat("A1")
	assert.True(t, avail)
}

func TestParseMovie(t *testing.T) {
	raw := []byte(`{"name":"Inception","id":"m1","seat_map":{"A1":true,"A2":false}}`)
	m, err := ParseMovie(raw)
	require.NoError(t, err)
	assert.Equal(t, "Inception", m.Name)
	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, map[string]bool{"A1": true, "A2": false}, m.SeatMap())
}

func TestParseMovieEmptySeatMapSucceeds(t *testing.T) {
	m, err := ParseMovie([]byte(`{"name":"Inception","id":"m1","seat_map":{}}`))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Seats())
}

func TestParseMovieFailures(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		field string
	}{
		{"missing name", `{"id":"m1","seat_map":{}}`, "name"},
		{"null name", `{"name":null,"id":"m1","seat_map":{}}`, "name"},
		{"numeric name", `{"name":42,"id":"m1","seat_map":{}}`, "name"},
		{"empty name", `{"name":"","id":"m1","seat_map":{}}`, "name"},
		{"missing id", `{"name":"Inception","seat_map":{}}`, "id"},
		{"boolean id", `{"name":"Inception","id":true,"seat_map":{}}`, "id"},
		{"missing seat_map", `{"name":"Inception","id":"m1"}`, "seat_map"},
		{"seat_map not object", `{"name":"Inception","id":"m1","seat_map":[true]}`, "seat_map"},
		{"seat value string", `{"name":"Inception","id":"m1","seat_map":{"A1":"free"}}`, "seat_map"},
		{"seat value number", `{"name":"Inception","id":"m1","seat_map":{"A1":1}}`, "seat_map"},
		{"seat value null", `{"name":"Inception","id":"m1","seat_map":{"A1":null}}`, "seat_map"},
		{"not an object", `["m1"]`, "body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseMovie([]byte(tc.raw))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.NotEmpty(t, verr.Reason)
		})
	}
}

func TestParseMovieIgnoresExtraFields(t *testing.T) {
	m, err := ParseMovie([]byte(`{"name":"Up","id":"m2","seat_map":{"B1":true},"rating":9.1}`))
	require.NoError(t, err)
	assert.Equal(t, "m2", m.ID)
}

func TestMovieRoundTrip(t *testing.T) {
	in := []byte(`{"name":"Inception","id":"m1","seat_map":{"A1":true,"A2":false}}`)
	m, err := ParseMovie(in)
	require.NoError(t, err)

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, string(in), string(out))
}

func TestValidationErrorMessage(t *testing.T) {
	_, err := ParseMovie([]byte(`{"name":"Inception","id":"m1","seat_map":{"A1":"free"}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seat_map")
	assert.True(t, errors.As(err, new(*ValidationError)))
}

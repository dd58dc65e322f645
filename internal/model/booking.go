package model

import "encoding/json"

// Booking is a request to claim one specific seat for one specific movie.
// It is a pure value: construction validates only the shape of the two
// fields.  Whether MovieID references an existing movie, and whether SeatID
// is a key of that movie's seat map, is deliberately NOT checked here;
// cross-entity lookups belong to the service layer that owns the store.
//
// Fields:
//
//	MovieID – identifier of the movie being booked, never empty.
//	SeatID  – seat identifier within the movie's seat map, never empty.
type Booking struct {
	MovieID string `json:"movie_id"`
	SeatID  string `json:"seat_id"`
}

type bookingJSON struct {
	MovieID *json.RawMessage `json:"movie_id"`
	SeatID  *json.RawMessage `json:"seat_id"`
}

// NewBooking validates its arguments and returns a Booking value.  On
// failure a *ValidationError naming the offending field is returned.
func NewBooking(movieID, seatID string) (*Booking, error) {
	if movieID == "" {
		return nil, invalid("movie_id", "must be a non-empty string")
	}
	if seatID == "" {
		return nil, invalid("seat_id", "must be a non-empty string")
	}
	return &Booking{MovieID: movieID, SeatID: seatID}, nil
}

// ParseBooking decodes raw JSON of the shape
// {"movie_id": string, "seat_id": string}.  A missing or null field, or a
// field of any non-string type (e.g. a number where movie_id is expected),
// yields a *ValidationError.  Extra fields are ignored.
func ParseBooking(raw []byte) (*Booking, error) {
	var in bookingJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, invalid("body", "must be a JSON object")
	}
	movieID, err := stringField("movie_id", in.MovieID)
	if err != nil {
		return nil, err
	}
	seatID, err := stringField("seat_id", in.SeatID)
	if err != nil {
		return nil, err
	}
	return &Booking{MovieID: movieID, SeatID: seatID}, nil
}

package model

import "encoding/json"

// Movie holds a movie's identity together with its seat-availability map.
// The seat map records, for every seat identifier in the movie's showroom,
// whether the seat can still be booked: true means the seat is AVAILABLE,
// false means it has been taken.  The map's keys are opaque seat labels
// (e.g. "A1"); the type does not validate their format or require any
// particular set of seats to be present, and an empty map is legal.
//
// Uniqueness of ID across movies is not enforced here; it is the job of
// whatever store holds the movies (see repository.MovieRepo).
//
// Fields:
//
//	Name    – free-text movie title, never empty.
//	ID      – identifier of the movie, never empty.
//	seatMap – availability per seat identifier, owned by this value.
type Movie struct {
	Name    string
	ID      string
	seatMap map[string]bool
}

// movieJSON is the wire shape of a Movie.  Raw messages keep the field
// values untyped until NewMovie-style checks can report which field has the
// wrong type instead of a generic unmarshal error.
type movieJSON struct {
	Name    *json.RawMessage `json:"name"`
	ID      *json.RawMessage `json:"id"`
	SeatMap *json.RawMessage `json:"seat_map"`
}

// NewMovie validates its arguments and returns an immutable Movie.  The
// seat map is copied so later changes to the caller's map cannot reach the
// constructed value.  A nil seat map is treated as empty, matching the wire
// behaviour of an empty JSON object.  On failure a *ValidationError naming
// the offending field is returned and no Movie exists.
func NewMovie(name, id string, seatMap map[string]bool) (*Movie, error) {
	if name == "" {
		return nil, invalid("name", "must be a non-empty string")
	}
	if id == "" {
		return nil, invalid("id", "must be a non-empty string")
	}
	seats := make(map[string]bool, len(seatMap))
	for k, v := range seatMap {
		seats[k] = v
	}
	return &Movie{Name: name, ID: id, seatMap: seats}, nil
}

// ParseMovie decodes raw JSON of the shape
// {"name": string, "id": string, "seat_map": {<seat>: bool, ...}} and
// validates it field by field.  Every failure mode maps to a
// *ValidationError: a missing or null field, a non-string name or id, a
// seat_map that is not an object, or a seat_map value that is not a boolean
// (e.g. the string "free" instead of true).  Unknown extra fields are
// ignored.  Fields are checked in declaration order so the reported error
// is deterministic when several fields are bad.
func ParseMovie(raw []byte) (*Movie, error) {
	var in movieJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, invalid("body", "must be a JSON object")
	}
	name, err := stringField("name", in.Name)
	if err != nil {
		return nil, err
	}
	id, err := stringField("id", in.ID)
	if err != nil {
		return nil, err
	}
	if in.SeatMap == nil || string(*in.SeatMap) == "null" {
		return nil, invalid("seat_map", "required field is missing")
	}
	var rawSeats map[string]json.RawMessage
	if err := json.Unmarshal(*in.SeatMap, &rawSeats); err != nil {
		return nil, invalid("seat_map", "must be an object of seat identifiers to booleans")
	}
	seats := make(map[string]bool, len(rawSeats))
	for seat, v := range rawSeats {
		var avail bool
		if err := json.Unmarshal(v, &avail); err != nil {
			return nil, invalid("seat_map", "value for seat %q must be a boolean", seat)
		}
		seats[seat] = avail
	}
	return &Movie{Name: name, ID: id, seatMap: seats}, nil
}

// stringField checks that a raw JSON field is present, is a string and is
// not empty, returning the decoded value.
func stringField(field string, raw *json.RawMessage) (string, error) {
	if raw == nil || string(*raw) == "null" {
		return "", invalid(field, "required field is missing")
	}
	var s string
	if err := json.Unmarshal(*raw, &s); err != nil {
		return "", invalid(field, "must be a string")
	}
	if s == "" {
		return "", invalid(field, "must be a non-empty string")
	}
	return s, nil
}

// SeatMap returns a copy of the availability map.  Mutating the returned
// map does not affect the Movie.
func (m *Movie) SeatMap() map[string]bool {
	out := make(map[string]bool, len(m.seatMap))
	for k, v := range m.seatMap {
		out[k] = v
	}
	return out
}

// Seat reports the availability of one seat.  The second return value is
// false when the seat identifier is not part of this movie's showroom.
func (m *Movie) Seat(seatID string) (available, ok bool) {
	available, ok = m.seatMap[seatID]
	return
}

// Seats returns the number of seats in the map.
func (m *Movie) Seats() int { return len(m.seatMap) }

// MarshalJSON emits the canonical wire shape: name, id and seat_map.
func (m *Movie) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name    string          `json:"name"`
		ID      string          `json:"id"`
		SeatMap map[string]bool `json:"seat_map"`
	}{Name: m.Name, ID: m.ID, SeatMap: m.seatMap})
}

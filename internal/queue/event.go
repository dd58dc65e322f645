// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// BookingCreatedEvent is published after a booking commits.  It carries
// enough context for downstream consumers (notifications, analytics) to act
// without querying the primary database.
type BookingCreatedEvent struct {
	BookingRef string `json:"booking_ref"`
	UserID     uint64 `json:"user_id"`
	MovieID    string `json:"movie_id"`
	MovieName  string `json:"movie_name"`
	SeatID     string `json:"seat_id"`
	CreatedAt  string `json:"created_at"`
}

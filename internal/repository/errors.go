// Package repository contains data access logic separated from HTTP
// handlers.  The sentinel errors below let handlers map storage failures to
// precise HTTP responses without inspecting driver-specific errors.
package repository

import "errors"

// ErrMovieNotFound is returned when no movie row matches the given id.
var ErrMovieNotFound = errors.New("movie not found")

// ErrMovieExists is returned when inserting a movie whose id is already
// taken.  Movie ids are the primary key, so uniqueness is enforced by the
// store rather than by the Movie value itself.
var ErrMovieExists = errors.New("movie id already exists")

// ErrSeatUnknown is returned when a booking names a seat identifier that is
// not a key of the referenced movie's seat map.
var ErrSeatUnknown = errors.New("seat not in movie seat map")

// ErrSeatTaken is returned when the requested seat exists but has already
// been booked.
var ErrSeatTaken = errors.New("seat already taken")

// ErrMovieHasBookings is returned when deleting a movie that bookings
// still reference.
var ErrMovieHasBookings = errors.New("movie has bookings")

// ErrBookingNotFound is returned when no booking row matches the lookup.
var ErrBookingNotFound = errors.New("booking not found")

// ErrEmailExists is returned when registering a user with an email that is
// already in use.
var ErrEmailExists = errors.New("email already exists")

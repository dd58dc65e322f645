package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-seat-booking/internal/model"
	"github.com/iliyamo/movie-seat-booking/internal/queue"
	"github.com/iliyamo/movie-seat-booking/internal/repository"
	queue_publisher "github.com/iliyamo/movie-seat-booking/internal/service"
)

// BookingHandler turns validated booking requests into committed seat
// claims.  The shape of the request is checked by model.ParseBooking.  The
// cross-entity rules the model deliberately leaves out (the movie must
// exist, the seat must be one of its seat-map keys, the seat must still be
// available) are enforced here against the store, inside one transaction.
type BookingHandler struct {
	Movies   *repository.MovieRepo
	Bookings *repository.BookingRepo

	// publish is swappable so tests do not need a broker.
	publish func(ctx context.Context, ev queue.BookingCreatedEvent) error
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(movies *repository.MovieRepo, bookings *repository.BookingRepo) *BookingHandler {
	if movies == nil || bookings == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{
		Movies:   movies,
		Bookings: bookings,
		publish:  queue_publisher.PublishBookingCreated,
	}
}

// bookingView is the JSON representation of a committed booking.
type bookingView struct {
	Ref       string    `json:"booking_ref"`
	MovieID   string    `json:"movie_id"`
	SeatID    string    `json:"seat_id"`
	CreatedAt time.Time `json:"created_at"`
}

func bookingViews(list []*repository.Booking) []bookingView {
	out := make([]bookingView, 0, len(list))
	for _, b := range list {
		out = append(out, bookingView{Ref: b.Ref, MovieID: b.MovieID, SeatID: b.SeatID, CreatedAt: b.CreatedAt})
	}
	return out
}

// Create handles POST /v1/bookings.  Responses: 400 when the body fails
// shape validation, 404 when the movie does not exist or the seat is not
// part of its seat map, 409 when the seat is already taken, 201 with the
// booking reference on success.  The seat flip and the booking row commit
// in one transaction; the movie row is locked for the duration so two
// requests cannot claim the same seat.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	raw, err := readBody(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req, err := model.ParseBooking(raw)
	if err != nil {
		return validationResponse(c, err)
	}

	ctx := c.Request().Context()
	tx, err := h.Movies.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	movie, err := h.Movies.GetForUpdateTx(ctx, tx, req.MovieID)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load movie failed"})
	}

	if err := h.Movies.ClaimSeatTx(ctx, tx, movie, req.SeatID); err != nil {
		switch {
		case errors.Is(err, repository.ErrSeatUnknown):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not in movie seat map"})
		case errors.Is(err, repository.ErrSeatTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat already taken"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update seat map failed"})
		}
	}

	booking := &repository.Booking{
		Ref:     uuid.NewString(),
		UserID:  userID,
		MovieID: movie.ID,
		SeatID:  req.SeatID,
	}
	if err := h.Bookings.CreateTx(ctx, tx, booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	// The booking is durable; the event is best-effort and must not hold
	// up the response.
	ev := queue.BookingCreatedEvent{
		BookingRef: booking.Ref,
		UserID:     userID,
		MovieID:    movie.ID,
		MovieName:  movie.Name,
		SeatID:     req.SeatID,
		CreatedAt:  booking.CreatedAt.UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.publish(pubCtx, ev)
	}()

	return c.JSON(http.StatusCreated, bookingView{
		Ref:       booking.Ref,
		MovieID:   booking.MovieID,
		SeatID:    booking.SeatID,
		CreatedAt: booking.CreatedAt,
	})
}

// ListMine handles GET /v1/bookings and returns the caller's bookings.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	return c.JSON(http.StatusOK, bookingViews(bookings))
}

// Get handles GET /v1/bookings/:ref.  A booking is visible to the user who
// made it and to admins; anyone else sees 404 rather than 403 so booking
// references cannot be probed.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	booking, err := h.Bookings.GetByRef(c.Request().Context(), c.Param("ref"))
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if booking.UserID != userID && !isAdmin(c) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return c.JSON(http.StatusOK, bookingView{
		Ref:       booking.Ref,
		MovieID:   booking.MovieID,
		SeatID:    booking.SeatID,
		CreatedAt: booking.CreatedAt,
	})
}

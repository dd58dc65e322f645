package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-seat-booking/internal/model"
	"github.com/iliyamo/movie-seat-booking/internal/repository"
)

// MovieHandler serves the movie catalogue: admins create and delete
// movies, everyone can browse them and inspect seat availability.
type MovieHandler struct {
	Movies   *repository.MovieRepo
	Bookings *repository.BookingRepo
}

// NewMovieHandler constructs a MovieHandler.  Both repositories must be
// non-nil.
func NewMovieHandler(movies *repository.MovieRepo, bookings *repository.BookingRepo) *MovieHandler {
	if movies == nil || bookings == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: movies, Bookings: bookings}
}

// Create handles POST /v1/movies.  The raw body is run through
// model.ParseMovie so a malformed field is rejected with a 400 naming the
// field, before anything touches the database.  A duplicate movie id maps
// to 409.
func (h *MovieHandler) Create(c echo.Context) error {
	raw, err := readBody(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	movie, err := model.ParseMovie(raw)
	if err != nil {
		return validationResponse(c, err)
	}
	if err := h.Movies.Create(c.Request().Context(), movie); err != nil {
		if errors.Is(err, repository.ErrMovieExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "movie id already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	return c.JSON(http.StatusCreated, movie)
}

// List handles GET /v1/movies and returns the full catalogue.
func (h *MovieHandler) List(c echo.Context) error {
	movies, err := h.Movies.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list movies failed"})
	}
	if movies == nil {
		movies = []*model.Movie{}
	}
	return c.JSON(http.StatusOK, movies)
}

// Get handles GET /v1/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	movie, err := h.Movies.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load movie failed"})
	}
	return c.JSON(http.StatusOK, movie)
}

// Seats handles GET /v1/movies/:id/seats and returns just the availability
// map, which is what a seat picker UI polls for.
func (h *MovieHandler) Seats(c echo.Context) error {
	movie, err := h.Movies.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load movie failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"movie_id": movie.ID,
		"seat_map": movie.SeatMap(),
	})
}

// Delete handles DELETE /v1/movies/:id (admin only).
func (h *MovieHandler) Delete(c echo.Context) error {
	if err := h.Movies.Delete(c.Request().Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, repository.ErrMovieNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		case errors.Is(err, repository.ErrMovieHasBookings):
			return c.JSON(http.StatusConflict, echo.Map{"error": "movie has bookings"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete movie failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// ListBookings handles GET /v1/movies/:id/bookings (admin only) and shows
// every booking made against one movie.
func (h *MovieHandler) ListBookings(c echo.Context) error {
	ctx := c.Request().Context()
	movieID := c.Param("id")
	if _, err := h.Movies.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load movie failed"})
	}
	bookings, err := h.Bookings.ListByMovie(ctx, movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	return c.JSON(http.StatusOK, bookingViews(bookings))
}

// Package router registers the API's HTTP routes on an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-seat-booking/internal/handler"
	"github.com/iliyamo/movie-seat-booking/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
// Currently only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints.  Register, login, refresh
// and logout operate on credentials or refresh tokens and therefore carry
// no JWT middleware; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	me := e.Group("/v1")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
}

// RegisterMovies wires the movie catalogue.  Browsing is public and sits
// behind the response cache; creating and deleting movies, and listing a
// movie's bookings, require the ADMIN role.
func RegisterMovies(e *echo.Echo, m *handler.MovieHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	pub := e.Group("/v1", cache)
	pub.GET("/movies", m.List)
	pub.GET("/movies/:id", m.Get)
	pub.GET("/movies/:id/seats", m.Seats)

	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.POST("/movies", m.Create)
	admin.DELETE("/movies/:id", m.Delete)
	admin.GET("/movies/:id/bookings", m.ListBookings)
}

// RegisterBookings wires seat booking.  Every endpoint requires an
// authenticated user; booking creation additionally goes through the rate
// limiter so one client cannot hammer the seat map.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	g.POST("/bookings", b.Create, limit)
	g.GET("/bookings", b.ListMine)
	g.GET("/bookings/:ref", b.Get)
}

package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-seat-booking/internal/model"
)

// errNoUser is returned when the JWT middleware did not put a user ID in
// the context, which means the route was wired without authentication.
var errNoUser = errors.New("no authenticated user in context")

// getUserID extracts the authenticated user's ID stored by the JWT
// middleware.
func getUserID(c echo.Context) (uint64, error) {
	uid, ok := c.Get("user_id").(uint64)
	if !ok || uid == 0 {
		return 0, errNoUser
	}
	return uid, nil
}

// isAdmin reports whether the authenticated caller has the ADMIN role.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "ADMIN"
}

// readBody drains the request body.  Handlers parse it through the model
// constructors instead of echo's Bind so that type mismatches are reported
// per field.
func readBody(c echo.Context) ([]byte, error) {
	return io.ReadAll(c.Request().Body)
}

// validationResponse maps a *ValidationError to a 400 response naming the
// offending field; any other error falls back to a generic bad request.
func validationResponse(c echo.Context, err error) error {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "validation failed",
			"field":  verr.Field,
			"detail": verr.Reason,
		})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
}

package security

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"klaxon/internal/repository"
	"klaxon/internal/session"
)

// Redirect targets used by the guards.
const (
	LoginURL = "/?page=login"
	HomeURL  = "/?page=home"
)

// IsLoggedIn reports whether the session carries a user identity.
func IsLoggedIn(s *session.Session) bool {
	u := s.User()
	return u != nil && u.ID != 0
}

// IsAdmin reports whether the signed-in user is an administrator.
func IsAdmin(s *session.Session) bool {
	return IsLoggedIn(s) && s.User().Admin
}

// RequireLogin redirects anonymous visitors to the login page.
func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsLoggedIn(session.FromContext(c)) {
			return c.Redirect(http.StatusSeeOther, LoginURL)
		}
		return next(c)
	}
}

// RequireAdmin requires a signed-in administrator. Anonymous visitors go to
// the login page, other users to the home page.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireLogin(func(c echo.Context) error {
		if !IsAdmin(session.FromContext(c)) {
			return c.Redirect(http.StatusSeeOther, HomeURL)
		}
		return next(c)
	})
}

// IsRideOwner reports whether userID drives the ride. A missing ride is not owned.
func IsRideOwner(ctx context.Context, rides repository.RideRepository, rideID, userID uint) (bool, error) {
	ride, err := rides.FindByID(ctx, rideID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ride.DriverID == userID, nil
}

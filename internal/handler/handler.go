// Package handler contains the page controllers and the JSON API.
package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "klaxon/internal/errors"
	"klaxon/internal/security"
	"klaxon/internal/service"
	"klaxon/internal/session"
	"klaxon/internal/view"
)

// Flash messages shared by the controllers.
const (
	MsgInvalidCSRF = "Your form has expired, please try again."
	MsgInvalidID   = "Invalid identifier."
)

// render fills the common page fields and renders tpl. It issues a CSRF
// token if the session has none so every form can embed it.
func render(c echo.Context, tpl, title string, data map[string]any) error {
	s := session.FromContext(c)
	token, err := security.GenerateCSRFToken(s)
	if err != nil {
		return err
	}
	p := &view.Page{
		Title:     title,
		User:      s.User(),
		IsAdmin:   security.IsAdmin(s),
		CSRFToken: token,
		Flashes:   s.PopFlashes(),
		Data:      data,
	}
	return c.Render(http.StatusOK, tpl, p)
}

// redirect sends a 303 to the front controller. params are key/value pairs.
func redirect(c echo.Context, page string, params ...string) error {
	var b strings.Builder
	b.WriteString("/?page=")
	b.WriteString(url.QueryEscape(page))
	for i := 0; i+1 < len(params); i += 2 {
		b.WriteString("&")
		b.WriteString(url.QueryEscape(params[i]))
		b.WriteString("=")
		b.WriteString(url.QueryEscape(params[i+1]))
	}
	return c.Redirect(http.StatusSeeOther, b.String())
}

// landing is where a signed-in user goes after login.
func landing(s *session.Session) string {
	if security.IsAdmin(s) {
		return "admin"
	}
	return "connected"
}

func actorOf(c echo.Context) service.Actor {
	u := session.FromContext(c).User()
	if u == nil {
		return service.Actor{}
	}
	return service.Actor{ID: u.ID, Admin: u.Admin}
}

// csrfOK verifies and consumes the submitted token.
func csrfOK(c echo.Context) bool {
	return security.VerifyCSRFToken(session.FromContext(c), c.FormValue(security.CSRFField))
}

// failCSRF flashes the expired-form message and redirects.
func failCSRF(c echo.Context, page string, params ...string) error {
	return failWith(c, MsgInvalidCSRF, page, params...)
}

// flashMessage turns a domain error into the text shown to the user.
func flashMessage(err error) (string, bool) {
	if ve, ok := apperrors.IsValidation(err); ok {
		return ve.Message, true
	}
	switch {
	case errors.Is(err, apperrors.ErrNotRideOwner):
		return "You are not allowed to modify this ride.", true
	case errors.Is(err, apperrors.ErrRideNotFound):
		return "Ride not found.", true
	case errors.Is(err, apperrors.ErrUserNotFound):
		return "User not found.", true
	case errors.Is(err, apperrors.ErrAgencyNotFound):
		return "Agency not found.", true
	case errors.Is(err, apperrors.ErrAgencyInUse):
		return "This agency is still used by users or rides.", true
	case errors.Is(err, apperrors.ErrUserInUse):
		return "This user still drives rides.", true
	case errors.Is(err, apperrors.ErrEmailTaken):
		return "This email address is already in use.", true
	case errors.Is(err, apperrors.ErrSelfDelete):
		return "You cannot delete your own account.", true
	}
	return "", false
}

// failWith flashes msg as an error and redirects.
func failWith(c echo.Context, msg, page string, params ...string) error {
	session.FromContext(c).Error(msg)
	return redirect(c, page, params...)
}

// fail flashes a user-facing error and redirects. Anything else is returned
// to the central error handler.
func fail(c echo.Context, err error, page string, params ...string) error {
	msg, ok := flashMessage(err)
	if !ok {
		return err
	}
	return failWith(c, msg, page, params...)
}

func succeed(c echo.Context, msg, page string, params ...string) error {
	session.FromContext(c).Success(msg)
	return redirect(c, page, params...)
}

package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	apperrors "klaxon/internal/errors"
	"klaxon/internal/security"
	"klaxon/internal/service"
	"klaxon/internal/session"
	"klaxon/internal/view"
)

// Login error codes carried in the redirect URL.
const (
	LoginErrorEmpty          = "empty"
	LoginErrorBadCredentials = "bad_credentials"
)

// AuthHandler handles login, logout and password changes.
type AuthHandler struct {
	authService service.AuthService
	users       service.UserService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, users service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, users: users}
}

// LoginForm is the submitted login form.
type LoginForm struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// PasswordForm is the submitted password change form.
type PasswordForm struct {
	Current string `form:"current_mdp"`
	New     string `form:"new_mdp"`
	Confirm string `form:"confirm_mdp"`
}

// LoginPage shows the login form. Signed-in users are sent to their landing page.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	s := session.FromContext(c)
	if security.IsLoggedIn(s) {
		return redirect(c, landing(s))
	}
	return render(c, view.Login, "Log in", map[string]any{"error": c.QueryParam("error")})
}

// Login authenticates the user and regenerates the session id.
func (h *AuthHandler) Login(c echo.Context) error {
	s := session.FromContext(c)
	if !csrfOK(c) {
		return failCSRF(c, "home")
	}

	var form LoginForm
	if err := c.Bind(&form); err != nil {
		return redirect(c, "login", "error", LoginErrorEmpty)
	}
	if err := c.Validate(&form); err != nil {
		return redirect(c, "login", "error", LoginErrorEmpty)
	}

	identity, err := h.authService.Login(c.Request().Context(), form.Email, form.Password)
	if errors.Is(err, apperrors.ErrInvalidCredentials) {
		return redirect(c, "login", "error", LoginErrorBadCredentials)
	}
	if err != nil {
		return err
	}

	s.Regenerate()
	s.SetUser(identity)
	return redirect(c, landing(s))
}

// Logout destroys the session.
func (h *AuthHandler) Logout(c echo.Context) error {
	session.FromContext(c).Destroy()
	return redirect(c, "home")
}

// ChangePasswordPage shows the password form.
func (h *AuthHandler) ChangePasswordPage(c echo.Context) error {
	return render(c, view.ChangePassword, "Change password", nil)
}

// UpdatePassword changes the signed-in user's password.
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	if !csrfOK(c) {
		return failCSRF(c, "changePasswordPage")
	}

	var form PasswordForm
	if err := c.Bind(&form); err != nil {
		return failWith(c, "All fields are required.", "changePasswordPage")
	}

	actor := actorOf(c)
	if err := h.users.ChangePassword(c.Request().Context(), actor.ID, form.Current, form.New, form.Confirm); err != nil {
		return fail(c, err, "changePasswordPage")
	}
	return succeed(c, "Your password has been updated.", landing(session.FromContext(c)))
}

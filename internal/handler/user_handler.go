package handler

import (
	"github.com/labstack/echo/v4"

	"klaxon/internal/service"
	"klaxon/internal/validation"
	"klaxon/internal/view"
)

// UserHandler handles user administration.
type UserHandler struct {
	users    service.UserService
	agencies service.AgencyService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(users service.UserService, agencies service.AgencyService) *UserHandler {
	return &UserHandler{users: users, agencies: agencies}
}

// List shows every user and the creation form.
func (h *UserHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	users, err := h.users.List(ctx)
	if err != nil {
		return err
	}
	agencies, err := h.agencies.List(ctx)
	if err != nil {
		return err
	}
	return render(c, view.Users, "Users", map[string]any{
		"users":      users,
		"agencies":   agencyNames(agencies),
		"agencyList": agencies,
	})
}

// Create adds a user with an initial password.
func (h *UserHandler) Create(c echo.Context) error {
	if !csrfOK(c) {
		return failCSRF(c, "home")
	}
	if _, err := h.users.Create(c.Request().Context(), userInput(c), c.FormValue("mdp")); err != nil {
		return fail(c, err, "usersPage")
	}
	return succeed(c, "User created.", "usersPage")
}

// EditPage shows the user form.
func (h *UserHandler) EditPage(c echo.Context) error {
	id, ok := validation.ValidateInt(c.QueryParam("id"))
	if !ok || id <= 0 {
		return redirect(c, "usersPage")
	}
	ctx := c.Request().Context()
	user, err := h.users.Get(ctx, uint(id))
	if err != nil {
		return fail(c, err, "usersPage")
	}
	agencies, err := h.agencies.List(ctx)
	if err != nil {
		return err
	}
	return render(c, view.UserForm, "Edit user", map[string]any{"editUser": user, "agencyList": agencies})
}

// Update saves a user. The password is left untouched.
func (h *UserHandler) Update(c echo.Context) error {
	if !csrfOK(c) {
		return failCSRF(c, "home")
	}
	id, ok := validation.ValidateInt(c.FormValue("id_user"))
	if !ok || id <= 0 {
		return failWith(c, MsgInvalidID, "usersPage")
	}
	if _, err := h.users.Update(c.Request().Context(), uint(id), userInput(c)); err != nil {
		return fail(c, err, "usersPage")
	}
	return succeed(c, "User updated.", "usersPage")
}

// Delete removes a user other than the signed-in administrator.
func (h *UserHandler) Delete(c echo.Context) error {
	if !csrfOK(c) {
		return failCSRF(c, "home")
	}
	id, ok := validation.ValidateInt(c.FormValue("id"))
	if !ok || id <= 0 {
		return failWith(c, MsgInvalidID, "usersPage")
	}
	if err := h.users.Delete(c.Request().Context(), actorOf(c), uint(id)); err != nil {
		return fail(c, err, "usersPage")
	}
	return succeed(c, "User deleted.", "usersPage")
}

func userInput(c echo.Context) service.UserInput {
	agencyID := formInt(c, "id_agence")
	if agencyID < 0 {
		agencyID = 0
	}
	admin := c.FormValue("is_admin")
	return service.UserInput{
		LastName:  c.FormValue("nom"),
		FirstName: c.FormValue("prenom"),
		Phone:     c.FormValue("tel"),
		Email:     c.FormValue("email"),
		Admin:     admin == "1" || admin == "on",
		AgencyID:  uint(agencyID),
	}
}

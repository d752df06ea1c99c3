package handler

import (
	"github.com/labstack/echo/v4"

	"klaxon/internal/service"
	"klaxon/internal/view"
)

// HomeHandler renders the listing pages and the admin dashboard.
type HomeHandler struct {
	rides    service.RideService
	agencies service.AgencyService
	users    service.UserService
}

// NewHomeHandler creates a new home handler.
func NewHomeHandler(rides service.RideService, agencies service.AgencyService, users service.UserService) *HomeHandler {
	return &HomeHandler{rides: rides, agencies: agencies, users: users}
}

// Home is the public listing of available rides.
func (h *HomeHandler) Home(c echo.Context) error {
	data, err := h.listing(c)
	if err != nil {
		return err
	}
	return render(c, view.Home, "Home", data)
}

// Connected is the listing for signed-in users, with driver details.
func (h *HomeHandler) Connected(c echo.Context) error {
	data, err := h.listing(c)
	if err != nil {
		return err
	}
	return render(c, view.Connected, "Available rides", data)
}

// Admin is the administrator dashboard.
func (h *HomeHandler) Admin(c echo.Context) error {
	ctx := c.Request().Context()
	users, err := h.users.List(ctx)
	if err != nil {
		return err
	}
	agencies, err := h.agencies.List(ctx)
	if err != nil {
		return err
	}
	rides, err := h.rides.ListAll(ctx)
	if err != nil {
		return err
	}
	return render(c, view.Admin, "Administration", map[string]any{
		"userCount":   len(users),
		"agencyCount": len(agencies),
		"rideCount":   len(rides),
	})
}

func (h *HomeHandler) listing(c echo.Context) (map[string]any, error) {
	ctx := c.Request().Context()
	rides, err := h.rides.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	names, err := h.agencies.Names(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"rides": rides, "agencies": names}, nil
}

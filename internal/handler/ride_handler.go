package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "klaxon/internal/errors"
	"klaxon/internal/service"
	"klaxon/internal/validation"
	"klaxon/internal/view"
)

// RideHandler handles the ride pages and actions.
type RideHandler struct {
	rides    service.RideService
	agencies service.AgencyService
}

// NewRideHandler creates a new ride handler.
func NewRideHandler(rides service.RideService, agencies service.AgencyService) *RideHandler {
	return &RideHandler{rides: rides, agencies: agencies}
}

// AddPage shows the empty ride form.
func (h *RideHandler) AddPage(c echo.Context) error {
	agencies, err := h.agencies.List(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, view.RideForm, "New ride", map[string]any{"agencyList": agencies})
}

// Create registers a ride driven by the signed-in user.
func (h *RideHandler) Create(c echo.Context) error {
	if !csrfOK(c) {
		return failCSRF(c, "addTrajetPage")
	}
	if _, err := h.rides.Create(c.Request().Context(), actorOf(c), rideInput(c)); err != nil {
		return fail(c, err, "addTrajetPage")
	}
	return succeed(c, "Ride created.", "connected")
}

// EditPage shows the ride form to the driver.
func (h *RideHandler) EditPage(c echo.Context) error {
	id, ok := validation.ValidateInt(c.QueryParam("id"))
	if !ok || id <= 0 {
		return redirect(c, "connected")
	}
	ctx := c.Request().Context()
	ride, err := h.rides.GetForEdit(ctx, actorOf(c), uint(id))
	if err != nil {
		return fail(c, err, "connected")
	}
	agencies, err := h.agencies.List(ctx)
	if err != nil {
		return err
	}
	return render(c, view.RideForm, "Edit ride", map[string]any{"ride": ride, "agencyList": agencies})
}

// Update saves the driver's changes. Available seats are reset to the total.
func (h *RideHandler) Update(c echo.Context) error {
	if !csrfOK(c) {
		return failCSRF(c, "connected")
	}
	id, ok := validation.ValidateInt(c.FormValue("Id_Trajet"))
	if !ok || id <= 0 {
		return failWith(c, MsgInvalidID, "connected")
	}

	_, err := h.rides.Update(c.Request().Context(), actorOf(c), uint(id), rideInput(c))
	if err != nil {
		if _, isInput := apperrors.IsValidation(err); isInput {
			return fail(c, err, "editTrajetPage", "id", strconv.Itoa(id))
		}
		return fail(c, err, "connected")
	}
	return succeed(c, "Ride updated.", "connected")
}

// Delete removes a ride. Drivers may delete their own rides and
// administrators any ride.
func (h *RideHandler) Delete(c echo.Context) error {
	if !csrfOK(c) {
		return failCSRF(c, "connected")
	}
	id, ok := validation.ValidateInt(c.FormValue("id"))
	if !ok || id <= 0 {
		return failWith(c, MsgInvalidID, "connected")
	}
	if err := h.rides.Delete(c.Request().Context(), actorOf(c), uint(id)); err != nil {
		return fail(c, err, "connected")
	}
	return succeed(c, "Ride deleted.", "connected")
}

// AdminList shows every ride with its driver.
func (h *RideHandler) AdminList(c echo.Context) error {
	ctx := c.Request().Context()
	rides, err := h.rides.ListAll(ctx)
	if err != nil {
		return err
	}
	names, err := h.agencies.Names(ctx)
	if err != nil {
		return err
	}
	return render(c, view.AdminRides, "All rides", map[string]any{"rides": rides, "agencies": names})
}

// rideInput reads the ride form. Non-numeric ids and seat counts become
// zero and fail the required-fields check.
func rideInput(c echo.Context) service.RideInput {
	return service.RideInput{
		DepartureAgencyID: formInt(c, "agence_depart"),
		DepartureAt:       c.FormValue("date_depart"),
		ArrivalAgencyID:   formInt(c, "agence_arrivee"),
		ArrivalAt:         c.FormValue("date_arrivee"),
		TotalSeats:        formInt(c, "nb_places"),
	}
}

func formInt(c echo.Context, name string) int {
	n, ok := validation.ValidateInt(c.FormValue(name))
	if !ok {
		return 0
	}
	return n
}

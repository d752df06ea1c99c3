package handler

import (
	"github.com/labstack/echo/v4"

	"klaxon/internal/model"
	"klaxon/internal/service"
	"klaxon/internal/validation"
	"klaxon/internal/view"
)

// AgencyHandler handles agency administration.
type AgencyHandler struct {
	agencies service.AgencyService
}

// NewAgencyHandler creates a new agency handler.
func NewAgencyHandler(agencies service.AgencyService) *AgencyHandler {
	return &AgencyHandler{agencies: agencies}
}

// List shows every agency and the creation form.
func (h *AgencyHandler) List(c echo.Context) error {
	agencies, err := h.agencies.List(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, view.Agencies, "Agencies", map[string]any{"agencyList": agencies})
}

// Create adds an agency.
func (h *AgencyHandler) Create(c echo.Context) error {
	if !csrfOK(c) {
		return failCSRF(c, "home")
	}
	if _, err := h.agencies.Create(c.Request().Context(), c.FormValue("ville")); err != nil {
		return fail(c, err, "agenciesPage")
	}
	return succeed(c, "Agency created.", "agenciesPage")
}

// EditPage shows the agency form.
func (h *AgencyHandler) EditPage(c echo.Context) error {
	id, ok := validation.ValidateInt(c.QueryParam("id"))
	if !ok || id <= 0 {
		return redirect(c, "agenciesPage")
	}
	agency, err := h.agencies.Get(c.Request().Context(), uint(id))
	if err != nil {
		return fail(c, err, "agenciesPage")
	}
	return render(c, view.AgencyForm, "Edit agency", map[string]any{"agency": agency})
}

// Update renames an agency.
func (h *AgencyHandler) Update(c echo.Context) error {
	if !csrfOK(c) {
		return failCSRF(c, "home")
	}
	id, ok := validation.ValidateInt(c.FormValue("id"))
	if !ok || id <= 0 {
		return failWith(c, MsgInvalidID, "agenciesPage")
	}
	if _, err := h.agencies.Update(c.Request().Context(), uint(id), c.FormValue("ville")); err != nil {
		return fail(c, err, "agenciesPage")
	}
	return succeed(c, "Agency updated.", "agenciesPage")
}

// Delete removes an agency nobody references.
func (h *AgencyHandler) Delete(c echo.Context) error {
	if !csrfOK(c) {
		return failCSRF(c, "home")
	}
	id, ok := validation.ValidateInt(c.FormValue("id"))
	if !ok || id <= 0 {
		return failWith(c, MsgInvalidID, "agenciesPage")
	}
	if err := h.agencies.Delete(c.Request().Context(), uint(id)); err != nil {
		return fail(c, err, "agenciesPage")
	}
	return succeed(c, "Agency deleted.", "agenciesPage")
}

func agencyNames(agencies []model.Agency) map[uint]string {
	names := make(map[uint]string, len(agencies))
	for _, a := range agencies {
		names[a.ID] = a.City
	}
	return names
}

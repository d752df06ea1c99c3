package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "klaxon/internal/errors"
	"klaxon/internal/service"
)

// APIHandler serves the read-only JSON API.
type APIHandler struct {
	rides    service.RideService
	agencies service.AgencyService
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(rides service.RideService, agencies service.AgencyService) *APIHandler {
	return &APIHandler{rides: rides, agencies: agencies}
}

// ListRides godoc
// @Summary List available rides
// @Description Future rides with free seats, earliest departure first, with the driver's contact details.
// @Tags rides
// @Produce json
// @Success 200 {array} model.RideListing
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /rides [get]
func (h *APIHandler) ListRides(c echo.Context) error {
	rides, err := h.rides.ListAvailable(c.Request().Context())
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, rides)
}

// ListAgencies godoc
// @Summary List agencies
// @Tags agencies
// @Produce json
// @Success 200 {array} model.Agency
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /agencies [get]
func (h *APIHandler) ListAgencies(c echo.Context) error {
	agencies, err := h.agencies.List(c.Request().Context())
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, agencies)
}

func apiError(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

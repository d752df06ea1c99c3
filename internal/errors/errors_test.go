package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"agency not found", ErrAgencyNotFound, http.StatusNotFound, "AGENCY_NOT_FOUND"},
		{"wrapped ride not found", fmt.Errorf("load: %w", ErrRideNotFound), http.StatusNotFound, "RIDE_NOT_FOUND"},
		{"not owner", ErrNotRideOwner, http.StatusForbidden, "NOT_RIDE_OWNER"},
		{"agency in use", ErrAgencyInUse, http.StatusConflict, "AGENCY_IN_USE"},
		{"email taken", ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
		{"validation", NewValidationError("seats out of range"), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestMapErrorToHTTP_HidesInternalDetail(t *testing.T) {
	got := MapErrorToHTTP(errors.New("dial tcp 10.0.0.3:3306: connection refused"))
	assert.Equal(t, "internal server error", got.ToErrorResponse().Error)
}

func TestIsValidation(t *testing.T) {
	ve, ok := IsValidation(fmt.Errorf("wrap: %w", NewValidationError("bad date")))
	assert.True(t, ok)
	assert.Equal(t, "bad date", ve.Message)

	_, ok = IsValidation(ErrUserNotFound)
	assert.False(t, ok)
}

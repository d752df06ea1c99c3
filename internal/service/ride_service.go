package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "klaxon/internal/errors"
	"klaxon/internal/model"
	"klaxon/internal/repository"
	"klaxon/internal/validation"
)

// Ride validation messages, shown to the user as flash errors.
const (
	MsgRequiredFields   = "All fields are required."
	MsgInvalidDeparture = "The departure date is invalid or in the past."
	MsgInvalidArrival   = "The arrival date is invalid or in the past."
	MsgDateOrder        = "The arrival date must be after the departure date."
	MsgSameAgencies     = "Departure and arrival agencies must be different."
	MsgSeatRange        = "The number of seats must be between 1 and 8."
	MsgUnknownAgency    = "Invalid agency."
	MsgTooShort         = "The ride must last at least 60 minutes."
)

// RideInput is a ride form as submitted. Dates stay raw so they can be
// checked in the documented order.
type RideInput struct {
	DepartureAgencyID int
	DepartureAt       string
	ArrivalAgencyID   int
	ArrivalAt         string
	TotalSeats        int
}

// RideService exposes ride operations.
type RideService interface {
	// ListAvailable lists future rides with free seats, earliest first.
	ListAvailable(ctx context.Context) ([]model.RideListing, error)
	ListAll(ctx context.Context) ([]model.RideListing, error)
	Get(ctx context.Context, id uint) (*model.Ride, error)
	// GetForEdit returns the ride only to its driver.
	GetForEdit(ctx context.Context, actor Actor, id uint) (*model.Ride, error)
	Create(ctx context.Context, actor Actor, in RideInput) (*model.Ride, error)
	// Update is allowed to the driver only and resets available seats.
	Update(ctx context.Context, actor Actor, id uint, in RideInput) (*model.Ride, error)
	// Delete is allowed to the driver and to administrators.
	Delete(ctx context.Context, actor Actor, id uint) error
}

type rideService struct {
	rides    repository.RideRepository
	agencies repository.AgencyRepository
	now      func() time.Time
}

// NewRideService builds a RideService.
func NewRideService(rides repository.RideRepository, agencies repository.AgencyRepository) RideService {
	return &rideService{rides: rides, agencies: agencies, now: time.Now}
}

func (s *rideService) ListAvailable(ctx context.Context) ([]model.RideListing, error) {
	listings, err := s.rides.ListAvailableWithDriver(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("list available rides: %w", err)
	}
	return listings, nil
}

func (s *rideService) ListAll(ctx context.Context) ([]model.RideListing, error) {
	listings, err := s.rides.ListAllWithDriver(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rides: %w", err)
	}
	return listings, nil
}

func (s *rideService) Get(ctx context.Context, id uint) (*model.Ride, error) {
	ride, err := s.rides.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrRideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find ride: %w", err)
	}
	return ride, nil
}

func (s *rideService) GetForEdit(ctx context.Context, actor Actor, id uint) (*model.Ride, error) {
	ride, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != actor.ID {
		return nil, apperrors.ErrNotRideOwner
	}
	return ride, nil
}

func (s *rideService) Create(ctx context.Context, actor Actor, in RideInput) (*model.Ride, error) {
	if err := checkRequired(in); err != nil {
		return nil, err
	}
	ride, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	ride.DriverID = actor.ID
	if err := s.rides.Create(ctx, ride); err != nil {
		return nil, fmt.Errorf("create ride: %w", err)
	}
	return ride, nil
}

func (s *rideService) Update(ctx context.Context, actor Actor, id uint, in RideInput) (*model.Ride, error) {
	if err := checkRequired(in); err != nil {
		return nil, err
	}
	current, err := s.GetForEdit(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	ride, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	ride.ID = current.ID
	ride.DriverID = current.DriverID
	if err := s.rides.Update(ctx, ride); err != nil {
		return nil, fmt.Errorf("update ride: %w", err)
	}
	return ride, nil
}

func (s *rideService) Delete(ctx context.Context, actor Actor, id uint) error {
	ride, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if ride.DriverID != actor.ID && !actor.Admin {
		return apperrors.ErrNotRideOwner
	}
	if err := s.rides.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete ride: %w", err)
	}
	return nil
}

func checkRequired(in RideInput) error {
	if in.DepartureAgencyID == 0 || in.ArrivalAgencyID == 0 || in.TotalSeats == 0 ||
		strings.TrimSpace(in.DepartureAt) == "" || strings.TrimSpace(in.ArrivalAt) == "" {
		return apperrors.NewValidationError(MsgRequiredFields)
	}
	return nil
}

// validate runs the remaining checks in order; the first failure wins.
func (s *rideService) validate(ctx context.Context, in RideInput) (*model.Ride, error) {
	if !validation.ValidateDateTime(in.DepartureAt, false) {
		return nil, apperrors.NewValidationError(MsgInvalidDeparture)
	}
	if !validation.ValidateDateTime(in.ArrivalAt, false) {
		return nil, apperrors.NewValidationError(MsgInvalidArrival)
	}
	if !validation.ValidateDateOrder(in.DepartureAt, in.ArrivalAt) {
		return nil, apperrors.NewValidationError(MsgDateOrder)
	}
	if in.DepartureAgencyID == in.ArrivalAgencyID {
		return nil, apperrors.NewValidationError(MsgSameAgencies)
	}
	if in.TotalSeats < model.MinSeats || in.TotalSeats > model.MaxSeats {
		return nil, apperrors.NewValidationError(MsgSeatRange)
	}
	for _, id := range []int{in.DepartureAgencyID, in.ArrivalAgencyID} {
		if err := s.agencyExists(ctx, id); err != nil {
			return nil, err
		}
	}

	dep, _ := validation.ParseDateTime(in.DepartureAt)
	arr, _ := validation.ParseDateTime(in.ArrivalAt)
	if arr.Sub(dep) < model.MinRideMinutes*time.Minute {
		return nil, apperrors.NewValidationError(MsgTooShort)
	}

	return &model.Ride{
		DepartureAgencyID: uint(in.DepartureAgencyID),
		DepartureAt:       dep,
		ArrivalAgencyID:   uint(in.ArrivalAgencyID),
		ArrivalAt:         arr,
		TotalSeats:        in.TotalSeats,
	}, nil
}

func (s *rideService) agencyExists(ctx context.Context, id int) error {
	if id <= 0 {
		return apperrors.NewValidationError(MsgUnknownAgency)
	}
	_, err := s.agencies.FindByID(ctx, uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewValidationError(MsgUnknownAgency)
	}
	if err != nil {
		return fmt.Errorf("find agency: %w", err)
	}
	return nil
}

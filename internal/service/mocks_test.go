package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"klaxon/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) CountRides(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockAgencyRepository is a mock implementation of AgencyRepository.
type MockAgencyRepository struct {
	mock.Mock
}

func (m *MockAgencyRepository) List(ctx context.Context) ([]model.Agency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Agency), args.Error(1)
}

func (m *MockAgencyRepository) FindByID(ctx context.Context, id uint) (*model.Agency, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Agency), args.Error(1)
}

func (m *MockAgencyRepository) Create(ctx context.Context, agency *model.Agency) error {
	return m.Called(ctx, agency).Error(0)
}

func (m *MockAgencyRepository) Update(ctx context.Context, agency *model.Agency) error {
	return m.Called(ctx, agency).Error(0)
}

func (m *MockAgencyRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAgencyRepository) CountReferences(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockRideRepository is a mock implementation of RideRepository.
type MockRideRepository struct {
	mock.Mock
}

func (m *MockRideRepository) List(ctx context.Context) ([]model.Ride, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ride), args.Error(1)
}

func (m *MockRideRepository) FindByID(ctx context.Context, id uint) (*model.Ride, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ride), args.Error(1)
}

func (m *MockRideRepository) Create(ctx context.Context, ride *model.Ride) error {
	return m.Called(ctx, ride).Error(0)
}

func (m *MockRideRepository) Update(ctx context.Context, ride *model.Ride) error {
	return m.Called(ctx, ride).Error(0)
}

func (m *MockRideRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRideRepository) ListAvailableWithDriver(ctx context.Context, now time.Time) ([]model.RideListing, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RideListing), args.Error(1)
}

func (m *MockRideRepository) ListAllWithDriver(ctx context.Context) ([]model.RideListing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RideListing), args.Error(1)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "klaxon/internal/errors"
	"klaxon/internal/model"
	"klaxon/internal/repository"
	"klaxon/internal/validation"
)

// MinPasswordLength applies to initial and changed passwords.
const MinPasswordLength = 8

// UserInput is the administrator-editable part of a user.
type UserInput struct {
	LastName  string
	FirstName string
	Phone     string
	Email     string
	Admin     bool
	AgencyID  uint
}

// UserService exposes user management.
type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id uint) (*model.User, error)
	Create(ctx context.Context, in UserInput, password string) (*model.User, error)
	// Update never touches the password.
	Update(ctx context.Context, id uint, in UserInput) (*model.User, error)
	// Delete refuses the actor's own account and users who still drive rides.
	Delete(ctx context.Context, actor Actor, id uint) error
	ChangePassword(ctx context.Context, id uint, current, next, confirm string) error
}

type userService struct {
	users    repository.UserRepository
	agencies repository.AgencyRepository
}

// NewUserService builds a UserService.
func NewUserService(users repository.UserRepository, agencies repository.AgencyRepository) UserService {
	return &userService{users: users, agencies: agencies}
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, in UserInput, password string) (*model.User, error) {
	in = in.trimmed()
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("The password must be at least %d characters long.", MinPasswordLength))
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		LastName:     in.LastName,
		FirstName:    in.FirstName,
		Phone:        in.Phone,
		Email:        in.Email,
		PasswordHash: hash,
		Admin:        in.Admin,
		AgencyID:     in.AgencyID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id uint, in UserInput) (*model.User, error) {
	in = in.trimmed()
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	user.LastName = in.LastName
	user.FirstName = in.FirstName
	user.Phone = in.Phone
	user.Email = in.Email
	user.Admin = in.Admin
	user.AgencyID = in.AgencyID
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actor Actor, id uint) error {
	if actor.ID == id {
		return apperrors.ErrSelfDelete
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	rides, err := s.users.CountRides(ctx, id)
	if err != nil {
		return fmt.Errorf("count user rides: %w", err)
	}
	if rides > 0 {
		return apperrors.ErrUserInUse
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperrors.ErrUserInUse
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, id uint, current, next, confirm string) error {
	if current == "" || next == "" || confirm == "" {
		return apperrors.NewValidationError("All fields are required.")
	}
	if next != confirm {
		return apperrors.NewValidationError("The new passwords do not match.")
	}
	if len(next) < MinPasswordLength {
		return apperrors.NewValidationError(fmt.Sprintf("The password must be at least %d characters long.", MinPasswordLength))
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperrors.NewValidationError("The current password is incorrect.")
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// validate checks required fields, email syntax and the home agency, in that order.
func (s *userService) validate(ctx context.Context, in UserInput) error {
	if !validation.Required(in.LastName, in.FirstName, in.Email) || in.AgencyID == 0 {
		return apperrors.NewValidationError("All fields are required.")
	}
	if !validation.ValidateEmail(in.Email) {
		return apperrors.NewValidationError("The email address is invalid.")
	}
	if _, err := s.agencies.FindByID(ctx, in.AgencyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewValidationError("Invalid agency.")
		}
		return fmt.Errorf("find agency: %w", err)
	}
	return nil
}

func (in UserInput) trimmed() UserInput {
	in.LastName = strings.TrimSpace(in.LastName)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	return in
}

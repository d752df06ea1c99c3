package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"klaxon/internal/cache"
	apperrors "klaxon/internal/errors"
	"klaxon/internal/model"
	"klaxon/internal/repository"
)

const (
	agencyListCacheKey = "agencies:all"
	agencyCacheTTL     = 10 * time.Minute
)

// AgencyService exposes agency management.
type AgencyService interface {
	List(ctx context.Context) ([]model.Agency, error)
	// Names maps agency id to city.
	Names(ctx context.Context) (map[uint]string, error)
	Get(ctx context.Context, id uint) (*model.Agency, error)
	Create(ctx context.Context, city string) (*model.Agency, error)
	Update(ctx context.Context, id uint, city string) (*model.Agency, error)
	// Delete refuses agencies still referenced by users or rides.
	Delete(ctx context.Context, id uint) error
}

type agencyService struct {
	repo  repository.AgencyRepository
	cache *cache.Client
}

// NewAgencyService builds an AgencyService. cache may be nil.
func NewAgencyService(repo repository.AgencyRepository, cache *cache.Client) AgencyService {
	return &agencyService{repo: repo, cache: cache}
}

func (s *agencyService) List(ctx context.Context) ([]model.Agency, error) {
	var cached []model.Agency
	if s.cache.GetJSON(ctx, agencyListCacheKey, &cached) {
		return cached, nil
	}

	agencies, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list agencies: %w", err)
	}
	_ = s.cache.SetJSON(ctx, agencyListCacheKey, agencies, agencyCacheTTL)
	return agencies, nil
}

func (s *agencyService) Names(ctx context.Context) (map[uint]string, error) {
	agencies, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(agencies))
	for _, a := range agencies {
		names[a.ID] = a.City
	}
	return names, nil
}

func (s *agencyService) Get(ctx context.Context, id uint) (*model.Agency, error) {
	agency, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrAgencyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find agency: %w", err)
	}
	return agency, nil
}

func (s *agencyService) Create(ctx context.Context, city string) (*model.Agency, error) {
	city, err := cleanCity(city)
	if err != nil {
		return nil, err
	}
	agency := &model.Agency{City: city}
	if err := s.repo.Create(ctx, agency); err != nil {
		return nil, fmt.Errorf("create agency: %w", err)
	}
	s.invalidate(ctx)
	return agency, nil
}

func (s *agencyService) Update(ctx context.Context, id uint, city string) (*model.Agency, error) {
	city, err := cleanCity(city)
	if err != nil {
		return nil, err
	}
	agency, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	agency.City = city
	if err := s.repo.Update(ctx, agency); err != nil {
		return nil, fmt.Errorf("update agency: %w", err)
	}
	s.invalidate(ctx)
	return agency, nil
}

func (s *agencyService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("count agency references: %w", err)
	}
	if refs > 0 {
		return apperrors.ErrAgencyInUse
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperrors.ErrAgencyInUse
		}
		return fmt.Errorf("delete agency: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *agencyService) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, agencyListCacheKey)
}

func cleanCity(city string) (string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return "", apperrors.NewValidationError("The city name is required.")
	}
	return city, nil
}

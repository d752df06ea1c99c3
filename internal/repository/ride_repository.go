package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"klaxon/internal/model"
)

// RideRepository defines ride persistence operations.
type RideRepository interface {
	List(ctx context.Context) ([]model.Ride, error)
	FindByID(ctx context.Context, id uint) (*model.Ride, error)
	// Create inserts the ride with available seats equal to total seats.
	Create(ctx context.Context, ride *model.Ride) error
	// Update rewrites the schedule and resets available seats to total seats.
	Update(ctx context.Context, ride *model.Ride) error
	Delete(ctx context.Context, id uint) error
	// ListAvailableWithDriver lists rides departing at or after now that
	// still have seats, joined with their driver, earliest first.
	ListAvailableWithDriver(ctx context.Context, now time.Time) ([]model.RideListing, error)
	// ListAllWithDriver lists every ride joined with its driver.
	ListAllWithDriver(ctx context.Context) ([]model.RideListing, error)
}

type rideRepository struct {
	db *gorm.DB
}

// NewRideRepository creates a new ride repository.
func NewRideRepository(db *gorm.DB) RideRepository {
	return &rideRepository{db: db}
}

func (r *rideRepository) List(ctx context.Context) ([]model.Ride, error) {
	var rides []model.Ride
	if err := r.db.WithContext(ctx).Order("date_heure_depart ASC").Find(&rides).Error; err != nil {
		return nil, err
	}
	return rides, nil
}

func (r *rideRepository) FindByID(ctx context.Context, id uint) (*model.Ride, error) {
	var ride model.Ride
	if err := r.db.WithContext(ctx).Where("Id_Trajet = ?", id).First(&ride).Error; err != nil {
		return nil, err
	}
	return &ride, nil
}

func (r *rideRepository) Create(ctx context.Context, ride *model.Ride) error {
	ride.AvailableSeats = ride.TotalSeats
	return r.db.WithContext(ctx).Create(ride).Error
}

func (r *rideRepository) Update(ctx context.Context, ride *model.Ride) error {
	ride.AvailableSeats = ride.TotalSeats
	return r.db.WithContext(ctx).Model(&model.Ride{}).
		Where("Id_Trajet = ?", ride.ID).
		Updates(map[string]interface{}{
			"Id_Agence_Depart":   ride.DepartureAgencyID,
			"date_heure_depart":  ride.DepartureAt,
			"Id_Agence_Arrivee":  ride.ArrivalAgencyID,
			"date_heure_arrivee": ride.ArrivalAt,
			"nb_places_total":    ride.TotalSeats,
			"nb_places_dispo":    ride.AvailableSeats,
		}).Error
}

func (r *rideRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("Id_Trajet = ?", id).Delete(&model.Ride{}).Error
}

func (r *rideRepository) ListAvailableWithDriver(ctx context.Context, now time.Time) ([]model.RideListing, error) {
	var listings []model.RideListing
	err := r.withDriver(ctx).
		Where("t.nb_places_dispo > ? AND t.date_heure_depart >= ?", 0, now).
		Order("t.date_heure_depart ASC").
		Scan(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *rideRepository) ListAllWithDriver(ctx context.Context) ([]model.RideListing, error) {
	var listings []model.RideListing
	if err := r.withDriver(ctx).Order("t.date_heure_depart DESC").Scan(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *rideRepository) withDriver(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("Trajet AS t").
		Select("t.*, u.prenom_utilisateur, u.nom_utilisateur, u.telephone, u.email").
		Joins("JOIN Utilisateur AS u ON t.Id_Conducteur = u.Id_Utilisateur")
}

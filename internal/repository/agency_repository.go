package repository

import (
	"context"

	"gorm.io/gorm"

	"klaxon/internal/model"
)

// AgencyRepository defines agency persistence operations.
type AgencyRepository interface {
	List(ctx context.Context) ([]model.Agency, error)
	FindByID(ctx context.Context, id uint) (*model.Agency, error)
	Create(ctx context.Context, agency *model.Agency) error
	Update(ctx context.Context, agency *model.Agency) error
	Delete(ctx context.Context, id uint) error
	// CountReferences counts users and rides pointing at the agency.
	CountReferences(ctx context.Context, id uint) (int64, error)
}

type agencyRepository struct {
	db *gorm.DB
}

// NewAgencyRepository creates a new agency repository.
func NewAgencyRepository(db *gorm.DB) AgencyRepository {
	return &agencyRepository{db: db}
}

// List returns every agency ordered by city.
func (r *agencyRepository) List(ctx context.Context) ([]model.Agency, error) {
	var agencies []model.Agency
	if err := r.db.WithContext(ctx).Order("ville ASC").Find(&agencies).Error; err != nil {
		return nil, err
	}
	return agencies, nil
}

// FindByID finds an agency by ID.
func (r *agencyRepository) FindByID(ctx context.Context, id uint) (*model.Agency, error) {
	var agency model.Agency
	if err := r.db.WithContext(ctx).Where("Id_Agence = ?", id).First(&agency).Error; err != nil {
		return nil, err
	}
	return &agency, nil
}

// Create inserts an agency and fills its ID.
func (r *agencyRepository) Create(ctx context.Context, agency *model.Agency) error {
	return r.db.WithContext(ctx).Create(agency).Error
}

// Update renames an agency.
func (r *agencyRepository) Update(ctx context.Context, agency *model.Agency) error {
	return r.db.WithContext(ctx).Model(&model.Agency{}).
		Where("Id_Agence = ?", agency.ID).
		Update("ville", agency.City).Error
}

// Delete removes an agency.
func (r *agencyRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("Id_Agence = ?", id).Delete(&model.Agency{}).Error
}

func (r *agencyRepository) CountReferences(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT (SELECT COUNT(*) FROM Utilisateur WHERE Id_Agence = ?)
		      + (SELECT COUNT(*) FROM Trajet WHERE Id_Agence_Depart = ? OR Id_Agence_Arrivee = ?)`,
		id, id, id,
	).Scan(&count).Error
	return count, err
}

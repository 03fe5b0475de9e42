package observations

import (
	"context"

	"github.com/cropwatch/cropwatch-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists crop and disease observations. Rows are append-only.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an observations repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RecordCrop inserts a vegetation index reading.
func (r *Repository) RecordCrop(ctx context.Context, obs *models.CropObservation) error {
	return r.db.WithContext(ctx).Create(obs).Error
}

// RecordDisease inserts a disease prediction.
func (r *Repository) RecordDisease(ctx context.Context, obs *models.DiseaseObservation) error {
	return r.db.WithContext(ctx).Create(obs).Error
}

// ListCrop returns the crop observations for email, newest first.
func (r *Repository) ListCrop(ctx context.Context, email string) ([]models.CropObservation, error) {
	var rows []models.CropObservation
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListDisease returns the disease observations for email, newest first.
func (r *Repository) ListDisease(ctx context.Context, email string) ([]models.DiseaseObservation, error) {
	var rows []models.DiseaseObservation
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

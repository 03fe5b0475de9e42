package models

import "time"

// PlaceholderEmail owns observations submitted without a known address.
const PlaceholderEmail = "unknown@example.com"

// CropObservation records one vegetation index reading. Rows are never updated.
type CropObservation struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"type:varchar(120);not null;index:crop_observations_email_created_idx,priority:1"`
	Latitude     float64   `gorm:"not null"`
	Longitude    float64   `gorm:"not null"`
	NDVI         float64   `gorm:"column:ndvi;not null"`
	HealthStatus string    `gorm:"column:health_status;type:varchar(50);not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;index:crop_observations_email_created_idx,priority:2"`
}

// DiseaseObservation records one disease prediction. Rows are never updated.
type DiseaseObservation struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	Email      string    `gorm:"type:varchar(120);not null;index:disease_observations_email_created_idx,priority:1"`
	Disease    string    `gorm:"type:varchar(100);not null"`
	Confidence float64   `gorm:"not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime;index:disease_observations_email_created_idx,priority:2"`
}

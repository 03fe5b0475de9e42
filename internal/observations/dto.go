package observations

import (
	"time"

	"github.com/cropwatch/cropwatch-backend/pkg/db/models"
)

// CropRecordDTO is one row of the crop_data history list.
type CropRecordDTO struct {
	ID           uint      `json:"id"`
	NDVI         float64   `json:"ndvi"`
	HealthStatus string    `json:"health_status"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Timestamp    time.Time `json:"timestamp"`
}

// DiseaseRecordDTO is one row of the disease_records history list.
type DiseaseRecordDTO struct {
	ID         uint      `json:"id"`
	Disease    string    `json:"disease"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// History is the body of GET /history. Both lists are always arrays.
type History struct {
	Status         string             `json:"status"`
	CropData       []CropRecordDTO    `json:"crop_data"`
	DiseaseRecords []DiseaseRecordDTO `json:"disease_records"`
}

func cropFromModel(m models.CropObservation) CropRecordDTO {
	return CropRecordDTO{
		ID:           m.ID,
		NDVI:         m.NDVI,
		HealthStatus: m.HealthStatus,
		Latitude:     m.Latitude,
		Longitude:    m.Longitude,
		Timestamp:    m.CreatedAt,
	}
}

func diseaseFromModel(m models.DiseaseObservation) DiseaseRecordDTO {
	return DiseaseRecordDTO{
		ID:         m.ID,
		Disease:    m.Disease,
		Confidence: m.Confidence,
		Timestamp:  m.CreatedAt,
	}
}

package observations

import (
	"context"
	"fmt"
	"strings"

	"github.com/cropwatch/cropwatch-backend/pkg/db/models"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/types"
)

type historyRepository interface {
	ListCrop(ctx context.Context, email string) ([]models.CropObservation, error)
	ListDisease(ctx context.Context, email string) ([]models.DiseaseObservation, error)
}

// Service answers history queries.
type Service struct {
	repo historyRepository
}

// NewService constructs the history service.
func NewService(repo historyRepository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("observations repository is required")
	}
	return &Service{repo: repo}, nil
}

// History lists both observation kinds for email. The address is matched
// after trimming and lower-casing, the same way it is stored.
func (s *Service) History(ctx context.Context, email string) (*History, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Missing required parameter: email")
	}

	crops, err := s.repo.ListCrop(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list crop observations")
	}
	diseases, err := s.repo.ListDisease(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list disease observations")
	}

	out := &History{
		Status:         types.StatusSuccess,
		CropData:       make([]CropRecordDTO, 0, len(crops)),
		DiseaseRecords: make([]DiseaseRecordDTO, 0, len(diseases)),
	}
	for _, c := range crops {
		out.CropData = append(out.CropData, cropFromModel(c))
	}
	for _, d := range diseases {
		out.DiseaseRecords = append(out.DiseaseRecords, diseaseFromModel(d))
	}
	return out, nil
}

// NormalizeEmail trims and lower-cases an owner address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// OwnerEmail resolves the address observations are filed under; a blank
// address belongs to the placeholder owner.
func OwnerEmail(email *string) string {
	if email == nil {
		return models.PlaceholderEmail
	}
	if normalized := NormalizeEmail(*email); normalized != "" {
		return normalized
	}
	return models.PlaceholderEmail
}

// IsPlaceholder reports whether email is the unknown owner.
func IsPlaceholder(email string) bool {
	return NormalizeEmail(email) == models.PlaceholderEmail
}

package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cropwatch/cropwatch-backend/pkg/db/models"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"gorm.io/gorm"
)

const userNotFoundMessage = "User not found"

// Service serves the signed-in user's profile.
type Service interface {
	GetProfile(ctx context.Context, userID uint) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*UserDTO, error)
}

type profileRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, id uint, changes map[string]any, at time.Time) error
}

type service struct {
	repo profileRepository
	now  func() time.Time
}

// NewService constructs the profile service.
func NewService(repo profileRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uint) (*UserDTO, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*UserDTO, error) {
	if userID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Not authenticated")
	}
	if err := s.repo.UpdateProfile(ctx, userID, req.Changes(), s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) load(ctx context.Context, userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Not authenticated")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return user, nil
}

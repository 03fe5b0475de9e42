package auth

import (
	"context"

	"github.com/cropwatch/cropwatch-backend/internal/users"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/security"
)

const (
	DemoUsername = "demo"
	DemoPassword = "demo123"
	DemoEmail    = "demo@farm.com"
)

// SeedDemoUser creates the demo account when it is missing. Running it twice is a no-op.
func (s *service) SeedDemoUser(ctx context.Context) error {
	exists, err := s.users.ExistsByUsername(ctx, DemoUsername)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check demo user")
	}
	if exists {
		return nil
	}

	hash, err := security.HashPassword(DemoPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash demo password")
	}
	first, last, crop := "Demo", "Farmer", "Wheat"
	if _, err := s.users.Create(ctx, users.CreateUserDTO{
		Username:     DemoUsername,
		Email:        DemoEmail,
		PasswordHash: hash,
		FirstName:    &first,
		LastName:     &last,
		CropType:     &crop,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create demo user")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "username", DemoUsername), "auth.seed.demo_created")
	}
	return nil
}

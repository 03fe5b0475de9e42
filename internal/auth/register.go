package auth

import (
	"context"
	"strings"

	"github.com/cropwatch/cropwatch-backend/internal/users"
	"github.com/cropwatch/cropwatch-backend/pkg/db"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/security"
)

const (
	minPasswordLength    = 6
	usernameTakenMessage = "Username already exists"
	emailTakenMessage    = "Email already registered"
)

func (s *service) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	if req.Username == nil || req.Email == nil || req.Password == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Missing required fields")
	}

	username := strings.TrimSpace(*req.Username)
	email := users.NormalizeEmail(*req.Email)
	password := *req.Password
	if username == "" || email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Username, email, and password cannot be empty")
	}
	if len([]rune(password)) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Password must be at least 6 characters")
	}

	if err := s.ensureAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	passwordHash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    trimmedOptional(req.FirstName),
		LastName:     trimmedOptional(req.LastName),
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			// lost a race with a concurrent registration
			if conflict := s.ensureAvailable(ctx, username, email); conflict != nil {
				return nil, conflict
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(s.logg.WithUserID(ctx, user.ID), "username", user.Username), "auth.register.success")
	}
	return users.FromModel(user), nil
}

// ensureAvailable checks username before email so the username message wins.
func (s *service) ensureAvailable(ctx context.Context, username, email string) error {
	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeValidation, usernameTakenMessage)
	}
	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeValidation, emailTakenMessage)
	}
	return nil
}

func trimmedOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	return &trimmed
}

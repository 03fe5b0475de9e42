package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cropwatch/cropwatch-backend/internal/users"
	pkgAuth "github.com/cropwatch/cropwatch-backend/pkg/auth"
	"github.com/cropwatch/cropwatch-backend/pkg/auth/session"
	"github.com/cropwatch/cropwatch-backend/pkg/config"
	"github.com/cropwatch/cropwatch-backend/pkg/db/models"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/logger"
	"github.com/cropwatch/cropwatch-backend/pkg/security"
	"github.com/cropwatch/cropwatch-backend/pkg/types"
	"gorm.io/gorm"
)

const (
	invalidCredentialsMessage = "Invalid username or password"
	missingCredentialsMessage = "Missing username or password"
)

// ErrNoSession means the request carries no usable session.
var ErrNoSession = errors.New("no active session")

// Service defines the behavior needed by the auth controllers and session middleware.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (*Identity, error)
	GetSession(ctx context.Context, identity *Identity) (*SessionState, error)
	SeedDemoUser(ctx context.Context) error
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
}

type sessionStore interface {
	Create(ctx context.Context, userID uint) (string, error)
	Lookup(ctx context.Context, sessionID string) (uint, error)
	Revoke(ctx context.Context, sessionID string) error
}

type service struct {
	users       userRepository
	sessions    sessionStore
	sessionCfg  config.SessionConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	Sessions       sessionStore
	SessionConfig  config.SessionConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	return &service{
		users:       params.UserRepo,
		sessions:    params.Sessions,
		sessionCfg:  params.SessionConfig,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	username := strings.TrimSpace(deref(req.Username))
	password := deref(req.Password)
	if username == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, missingCredentialsMessage)
	}

	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	s.upgradeHash(ctx, user, password)

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	sessionID, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}
	token, err := pkgAuth.MintSessionToken(s.sessionCfg, now, pkgAuth.SessionTokenPayload{
		UserID:    user.ID,
		Username:  user.Username,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	if s.logg != nil {
		logCtx := s.logg.WithUserID(ctx, user.ID)
		s.logg.Info(s.logg.WithField(logCtx, "username", user.Username), "auth.login.success")
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.sessionCfg.TTL),
		User:      users.FromModel(user),
	}, nil
}

// Logout revokes the session named by the token when it parses. Failures are
// logged only; the caller always clears the cookie.
func (s *service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	claims, err := pkgAuth.ParseSessionToken(s.sessionCfg, token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "auth.logout.revoke_failed")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, claims.UserID), "auth.logout")
	}
	return nil
}

// Resolve maps a session cookie to an identity. It returns ErrNoSession for
// malformed, expired or revoked sessions.
func (s *service) Resolve(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoSession
	}
	claims, err := pkgAuth.ParseSessionToken(s.sessionCfg, token)
	if err != nil {
		return nil, ErrNoSession
	}
	userID, err := s.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, ErrNoSession
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup session")
	}
	if userID != claims.UserID {
		return nil, ErrNoSession
	}
	return &Identity{
		UserID:    claims.UserID,
		Username:  claims.Username,
		SessionID: claims.ID,
	}, nil
}

func (s *service) GetSession(ctx context.Context, identity *Identity) (*SessionState, error) {
	if identity == nil {
		return notAuthenticated(), nil
	}
	user, err := s.users.FindByID(ctx, identity.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}
		if err := s.sessions.Revoke(ctx, identity.SessionID); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "auth.session.revoke_failed")
		}
		state := notAuthenticated()
		state.ClearCookie = true
		return state, nil
	}
	return &SessionState{
		Status:   types.StatusAuthenticated,
		LoggedIn: true,
		User:     users.FromModel(user),
	}, nil
}

func (s *service) authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

// upgradeHash replaces legacy or weak hashes once the plaintext is known to be correct.
func (s *service) upgradeHash(ctx context.Context, user *models.User, password string) {
	if !security.NeedsRehash(user.PasswordHash, s.passwordCfg) {
		return
	}
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(s.logg.WithUserID(ctx, user.ID), "error", err.Error()), "auth.password.rehash_failed")
		}
		return
	}
	user.PasswordHash = hash
}

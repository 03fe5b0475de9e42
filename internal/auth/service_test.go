package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cropwatch/cropwatch-backend/internal/users"
	pkgAuth "github.com/cropwatch/cropwatch-backend/pkg/auth"
	"github.com/cropwatch/cropwatch-backend/pkg/auth/session"
	"github.com/cropwatch/cropwatch-backend/pkg/config"
	"github.com/cropwatch/cropwatch-backend/pkg/db/models"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type memorySessions struct {
	mu        sync.Mutex
	next      int
	data      map[string]uint
	createErr error
	lookupErr error
}

func newMemorySessions() *memorySessions {
	return &memorySessions{data: map[string]uint{}}
}

func (m *memorySessions) Create(ctx context.Context, userID uint) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return "", m.createErr
	}
	m.next++
	id := fmt.Sprintf("sid-%d", m.next)
	m.data[id] = userID
	return id, nil
}

func (m *memorySessions) Lookup(ctx context.Context, sessionID string) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookupErr != nil {
		return 0, m.lookupErr
	}
	userID, ok := m.data[sessionID]
	if !ok {
		return 0, session.ErrSessionNotFound
	}
	return userID, nil
}

func (m *memorySessions) Revoke(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}

func (m *memorySessions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

type testEnv struct {
	svc      Service
	db       *gorm.DB
	repo     *users.Repository
	sessions *memorySessions
	cfg      config.SessionConfig
}

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:     "test-secret",
		Issuer:     "cropwatch",
		TTL:        720 * time.Hour,
		CookieName: "cropwatch_session",
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}))

	repo := users.NewRepository(conn)
	sessions := newMemorySessions()
	cfg := testSessionConfig()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		Sessions:       sessions,
		SessionConfig:  cfg,
		PasswordConfig: testPasswordConfig(),
	})
	require.NoError(t, err)
	return &testEnv{svc: svc, db: conn, repo: repo, sessions: sessions, cfg: cfg}
}

func ptr(v string) *string { return &v }

func registerReq(username, email, password string) RegisterRequest {
	return RegisterRequest{Username: ptr(username), Email: ptr(email), Password: ptr(password)}
}

func requireValidation(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, message, typed.Message())
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, RegisterRequest{Username: ptr("a"), Email: ptr("a@b.c")})
	requireValidation(t, err, "Missing required fields")

	_, err = env.svc.Register(ctx, registerReq("   ", "a@b.c", "secret1"))
	requireValidation(t, err, "Username, email, and password cannot be empty")

	_, err = env.svc.Register(ctx, registerReq("alice", "alice@farm.com", ""))
	requireValidation(t, err, "Username, email, and password cannot be empty")

	_, err = env.svc.Register(ctx, registerReq("alice", "alice@farm.com", "12345"))
	requireValidation(t, err, "Password must be at least 6 characters")
}

func TestRegisterKeepsWhitespacePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, registerReq("spaces", "spaces@farm.com", "      "))
	require.NoError(t, err)

	result, err := env.svc.Login(ctx, LoginRequest{Username: ptr("spaces"), Password: ptr("      ")})
	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestRegisterCreatesUserWithoutPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := registerReq(" alice ", " Alice@Farm.com ", "secret1")
	req.FirstName = ptr("  Alice ")
	dto, err := env.svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "alice", dto.Username)
	assert.Equal(t, "alice@farm.com", dto.Email)
	require.NotNil(t, dto.FirstName)
	assert.Equal(t, "Alice", *dto.FirstName)
	assert.Nil(t, dto.LastName)

	stored, err := env.repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$argon2id$"))
}

func TestRegisterDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.svc.Register(ctx, registerReq("alice", "alice@farm.com", "secret1"))
	require.NoError(t, err)

	_, err = env.svc.Register(ctx, registerReq("alice", "alice@farm.com", "secret1"))
	requireValidation(t, err, "Username already exists")

	_, err = env.svc.Register(ctx, registerReq("bob", "ALICE@farm.com", "secret1"))
	requireValidation(t, err, "Email already registered")
}

func TestLoginIssuesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.svc.Register(ctx, registerReq("alice", "alice@farm.com", "secret1"))
	require.NoError(t, err)

	result, err := env.svc.Login(ctx, LoginRequest{Username: ptr(" alice "), Password: ptr("secret1")})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, "alice", result.User.Username)
	assert.Equal(t, 1, env.sessions.count())

	claims, err := pkgAuth.ParseSessionToken(env.cfg, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.WithinDuration(t, time.Now().Add(720*time.Hour), result.ExpiresAt, time.Minute)

	stored, err := env.repo.FindByID(ctx, result.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)

	identity, err := env.svc.Resolve(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, identity.UserID)
	assert.Equal(t, "alice", identity.Username)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.svc.Register(ctx, registerReq("alice", "alice@farm.com", "secret1"))
	require.NoError(t, err)

	_, err = env.svc.Login(ctx, LoginRequest{Username: ptr("alice")})
	requireValidation(t, err, "Missing username or password")

	_, err = env.svc.Login(ctx, LoginRequest{Username: ptr("alice"), Password: ptr("wrong-pass")})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	assert.Equal(t, "Invalid username or password", pkgerrors.As(err).Message())

	_, err = env.svc.Login(ctx, LoginRequest{Username: ptr("nobody"), Password: ptr("secret1")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	assert.Equal(t, 0, env.sessions.count())
}

func TestLoginSessionStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.svc.Register(ctx, registerReq("alice", "alice@farm.com", "secret1"))
	require.NoError(t, err)

	env.sessions.createErr = errors.New("redis down")
	_, err = env.svc.Login(ctx, LoginRequest{Username: ptr("alice"), Password: ptr("secret1")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestLoginUpgradesLegacyDigest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sum := sha256.Sum256([]byte("oldpass"))
	user, err := env.repo.Create(ctx, users.CreateUserDTO{
		Username:     "legacy",
		Email:        "legacy@farm.com",
		PasswordHash: hex.EncodeToString(sum[:]),
	})
	require.NoError(t, err)

	_, err = env.svc.Login(ctx, LoginRequest{Username: ptr("legacy"), Password: ptr("oldpass")})
	require.NoError(t, err)

	stored, err := env.repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$argon2id$"))
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.svc.Register(ctx, registerReq("alice", "alice@farm.com", "secret1"))
	require.NoError(t, err)
	result, err := env.svc.Login(ctx, LoginRequest{Username: ptr("alice"), Password: ptr("secret1")})
	require.NoError(t, err)

	require.NoError(t, env.svc.Logout(ctx, result.Token))
	assert.Equal(t, 0, env.sessions.count())

	_, err = env.svc.Resolve(ctx, result.Token)
	assert.ErrorIs(t, err, ErrNoSession)

	assert.NoError(t, env.svc.Logout(ctx, ""))
	assert.NoError(t, env.svc.Logout(ctx, "garbage"))
}

func TestResolveRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = env.svc.Resolve(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrNoSession)

	token, err := pkgAuth.MintSessionToken(env.cfg, time.Now(), pkgAuth.SessionTokenPayload{UserID: 5, Username: "x", SessionID: "missing"})
	require.NoError(t, err)
	_, err = env.svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)

	env.sessions.lookupErr = errors.New("redis down")
	_, err = env.svc.Resolve(ctx, token)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestGetSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	state, err := env.svc.GetSession(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "not_authenticated", state.Status)
	assert.False(t, state.LoggedIn)

	_, err = env.svc.Register(ctx, registerReq("alice", "alice@farm.com", "secret1"))
	require.NoError(t, err)
	result, err := env.svc.Login(ctx, LoginRequest{Username: ptr("alice"), Password: ptr("secret1")})
	require.NoError(t, err)
	identity, err := env.svc.Resolve(ctx, result.Token)
	require.NoError(t, err)

	state, err = env.svc.GetSession(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, "authenticated", state.Status)
	assert.True(t, state.LoggedIn)
	assert.Equal(t, "alice", state.User.Username)

	require.NoError(t, env.db.Delete(&models.User{}, identity.UserID).Error)
	state, err = env.svc.GetSession(ctx, identity)
	require.NoError(t, err)
	assert.False(t, state.LoggedIn)
	assert.True(t, state.ClearCookie)
	assert.Equal(t, 0, env.sessions.count())
}

func TestSeedDemoUserIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.SeedDemoUser(ctx))
	require.NoError(t, env.svc.SeedDemoUser(ctx))

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Where("username = ?", DemoUsername).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	result, err := env.svc.Login(ctx, LoginRequest{Username: ptr(DemoUsername), Password: ptr(DemoPassword)})
	require.NoError(t, err)
	assert.Equal(t, DemoEmail, result.User.Email)
	require.NotNil(t, result.User.CropType)
	assert.Equal(t, "Wheat", *result.User.CropType)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	assert.Error(t, err)
}

package users

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cropwatch/cropwatch-backend/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}))
	return conn
}

func strPtr(v string) *string { return &v }

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Username:     " farmer ",
		Email:        " Farmer@Example.COM ",
		PasswordHash: "hash",
		FirstName:    strPtr("Ada"),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Equal(t, "farmer", created.Username)
	assert.Equal(t, "farmer@example.com", created.Email)

	byName, err := repo.FindByUsername(ctx, "farmer")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	taken, err := repo.ExistsByEmail(ctx, "FARMER@example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", *byID.FirstName)

	_, err = repo.FindByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryExists(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	_, err := repo.Create(ctx, CreateUserDTO{Username: "demo", Email: "demo@farm.com", PasswordHash: "x"})
	require.NoError(t, err)

	ok, err := repo.ExistsByUsername(ctx, "demo")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByEmail(ctx, "DEMO@farm.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByUsername(ctx, "other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepositoryCreateRejectsDuplicateUsername(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	_, err := repo.Create(ctx, CreateUserDTO{Username: "demo", Email: "a@farm.com", PasswordHash: "x"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateUserDTO{Username: "demo", Email: "b@farm.com", PasswordHash: "x"})
	assert.Error(t, err)
}

func TestRepositoryUpdateProfile(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	user, err := repo.Create(ctx, CreateUserDTO{
		Username:     "grower",
		Email:        "grower@farm.com",
		PasswordHash: "x",
		FirstName:    strPtr("Old"),
		LastName:     strPtr("Name"),
	})
	require.NoError(t, err)

	area := 12.5
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateProfile(ctx, user.ID, map[string]any{
		"first_name": strPtr("New"),
		"last_name":  (*string)(nil),
		"field_area": &area,
	}, at))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", *got.FirstName)
	assert.Nil(t, got.LastName)
	require.NotNil(t, got.FieldArea)
	assert.InDelta(t, 12.5, *got.FieldArea, 1e-9)
	assert.True(t, got.UpdatedAt.Equal(at))

	err = repo.UpdateProfile(ctx, user.ID+100, nil, at)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateLastLoginAndPassword(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	user, err := repo.Create(ctx, CreateUserDTO{Username: "u", Email: "u@farm.com", PasswordHash: "old"})
	require.NoError(t, err)

	at := time.Date(2025, 3, 2, 8, 30, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))
	require.NoError(t, repo.UpdatePasswordHash(ctx, user.ID, "new"))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, got.LastLoginAt.Equal(at))
	assert.Equal(t, "new", got.PasswordHash)
}

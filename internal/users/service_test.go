package users

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cropwatch/cropwatch-backend/pkg/db/models"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubProfileRepo struct {
	users     map[uint]*models.User
	changes   map[string]any
	updatedAt time.Time
	err       error
}

func (s *stubProfileRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfileRepo) UpdateProfile(ctx context.Context, id uint, changes map[string]any, at time.Time) error {
	if s.err != nil {
		return s.err
	}
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.changes = changes
	s.updatedAt = at
	if v, ok := changes["first_name"]; ok {
		u.FirstName = v.(*string)
	}
	if v, ok := changes["field_area"]; ok {
		u.FieldArea = v.(*float64)
	}
	u.UpdatedAt = at
	return nil
}

func newStubService(t *testing.T, repo *stubProfileRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc
}

func TestGetProfile(t *testing.T) {
	repo := &stubProfileRepo{users: map[uint]*models.User{
		1: {ID: 1, Username: "demo", Email: "demo@farm.com", PasswordHash: "secret"},
	}}
	svc := newStubService(t, repo)

	dto, err := svc.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "demo", dto.Username)

	body, err := json.Marshal(dto)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "secret")
	assert.Contains(t, string(body), `"first_name":null`)

	_, err = svc.GetProfile(context.Background(), 2)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.GetProfile(context.Background(), 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestUpdateProfileAppliesOnlyPresentFields(t *testing.T) {
	repo := &stubProfileRepo{users: map[uint]*models.User{
		1: {ID: 1, Username: "demo", Email: "demo@farm.com"},
	}}
	svc := newStubService(t, repo)

	var req UpdateProfileRequest
	require.NoError(t, json.Unmarshal([]byte(`{"first_name":"  Ada  ","field_area":"3.25","unknown":1}`), &req))

	dto, err := svc.UpdateProfile(context.Background(), 1, req)
	require.NoError(t, err)
	require.NotNil(t, dto.FirstName)
	assert.Equal(t, "Ada", *dto.FirstName)
	require.NotNil(t, dto.FieldArea)
	assert.InDelta(t, 3.25, *dto.FieldArea, 1e-9)
	assert.Len(t, repo.changes, 2)
	assert.False(t, repo.updatedAt.IsZero())
}

func TestUpdateProfileNullClearsField(t *testing.T) {
	var req UpdateProfileRequest
	require.NoError(t, json.Unmarshal([]byte(`{"phone":null}`), &req))

	changes := req.Changes()
	require.Contains(t, changes, "phone")
	assert.Nil(t, changes["phone"])
	assert.NotContains(t, changes, "first_name")
}

func TestUpdateProfileRejectsNonNumericArea(t *testing.T) {
	var req UpdateProfileRequest
	err := json.Unmarshal([]byte(`{"field_area":"large"}`), &req)
	assert.Error(t, err)
}

func TestUpdateProfileErrors(t *testing.T) {
	repo := &stubProfileRepo{users: map[uint]*models.User{}}
	svc := newStubService(t, repo)

	_, err := svc.UpdateProfile(context.Background(), 9, UpdateProfileRequest{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	repo.err = errors.New("db down")
	_, err = svc.UpdateProfile(context.Background(), 9, UpdateProfileRequest{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil)
	assert.Error(t, err)
}

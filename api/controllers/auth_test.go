package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cropwatch/cropwatch-backend/api/middleware"
	"github.com/cropwatch/cropwatch-backend/internal/auth"
	"github.com/cropwatch/cropwatch-backend/internal/users"
	"github.com/cropwatch/cropwatch-backend/pkg/config"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	registered   *auth.RegisterRequest
	registerErr  error
	loginResult  *auth.LoginResult
	loginErr     error
	loggedOut    []string
	sessionState *auth.SessionState
	sessionFor   *auth.Identity
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	s.registered = &req
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &users.UserDTO{ID: 1, Username: *req.Username, Email: *req.Email}, nil
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	s.loggedOut = append(s.loggedOut, token)
	return nil
}

func (s *stubAuthService) Resolve(ctx context.Context, token string) (*auth.Identity, error) {
	return nil, auth.ErrNoSession
}

func (s *stubAuthService) GetSession(ctx context.Context, identity *auth.Identity) (*auth.SessionState, error) {
	s.sessionFor = identity
	return s.sessionState, nil
}

func (s *stubAuthService) SeedDemoUser(ctx context.Context) error { return nil }

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{Secret: "secret", Issuer: "cropwatch", TTL: time.Hour, CookieName: "cw_session"}
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestAuthRegisterReturnsCreated(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"ann","email":"ann@example.com","password":"secret1"}`))
	rec := httptest.NewRecorder()

	AuthRegister(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"Registration successful!"`)
	assert.Contains(t, rec.Body.String(), `"username":"ann"`)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthRegisterSurfacesValidation(t *testing.T) {
	svc := &stubAuthService{registerErr: pkgerrors.New(pkgerrors.CodeValidation, "Username already exists")}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"ann","email":"a@b.c","password":"secret1"}`))
	rec := httptest.NewRecorder()

	AuthRegister(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Username already exists","code":"VALIDATION_ERROR"}`, rec.Body.String())
}

func TestAuthLoginSetsCookie(t *testing.T) {
	expires := time.Now().Add(time.Hour)
	svc := &stubAuthService{loginResult: &auth.LoginResult{
		Token:     "signed.jwt.value",
		ExpiresAt: expires,
		User:      &users.UserDTO{ID: 1, Username: "demo", Email: "demo@farm.com"},
	}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"demo","password":"demo123"}`))
	rec := httptest.NewRecorder()

	AuthLogin(svc, testSessionConfig(), nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"Login successful!"`)
	assert.NotContains(t, rec.Body.String(), "signed.jwt.value")

	cookie := findCookie(t, rec, "cw_session")
	assert.Equal(t, "signed.jwt.value", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid username or password")}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"demo","password":"nope"}`))
	rec := httptest.NewRecorder()

	AuthLogin(svc, testSessionConfig(), nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username or password")
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthLogoutAlwaysClearsCookie(t *testing.T) {
	svc := &stubAuthService{}

	rec := httptest.NewRecorder()
	AuthLogout(svc, testSessionConfig(), nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","message":"Logout successful"}`, rec.Body.String())
	assert.Equal(t, -1, findCookie(t, rec, "cw_session").MaxAge)
	assert.Empty(t, svc.loggedOut)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "cw_session", Value: "tok"})
	rec = httptest.NewRecorder()
	AuthLogout(svc, testSessionConfig(), nil).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"tok"}, svc.loggedOut)
}

func TestAuthSessionAnonymous(t *testing.T) {
	svc := &stubAuthService{sessionState: &auth.SessionState{Status: types.StatusNotAuthenticated}}
	rec := httptest.NewRecorder()

	AuthSession(svc, testSessionConfig(), nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"not_authenticated","logged_in":false}`, rec.Body.String())
	assert.Nil(t, svc.sessionFor)
}

func TestAuthSessionClearsCookieForDeletedUser(t *testing.T) {
	svc := &stubAuthService{sessionState: &auth.SessionState{Status: types.StatusNotAuthenticated, ClearCookie: true}}
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), &auth.Identity{UserID: 9, SessionID: "sid"}))
	rec := httptest.NewRecorder()

	AuthSession(svc, testSessionConfig(), nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(9), svc.sessionFor.UserID)
	assert.Equal(t, -1, findCookie(t, rec, "cw_session").MaxAge)
}

package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gearghar/gearghar-backend/internal/auth"
	"github.com/gearghar/gearghar-backend/internal/users"
	pkgerrors "github.com/gearghar/gearghar-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	registerResult *auth.RegisterResponse
	registerErr    error
	loginResult    *auth.LoginResponse
	loginErr       error
	adminResult    *auth.AdminLoginResponse
	adminErr       error
}

func (s *stubAuthService) Register(context.Context, auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return s.registerResult, s.registerErr
}

func (s *stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) AdminLogin(context.Context, auth.LoginRequest) (*auth.AdminLoginResponse, error) {
	return s.adminResult, s.adminErr
}

func TestAuthRegisterReturnsCreated(t *testing.T) {
	svc := &stubAuthService{
		registerResult: &auth.RegisterResponse{
			Token: "signed-token",
			User:  &users.UserDTO{ID: uuid.New(), Email: "dana@example.com", Name: "Dana Whitfield"},
		},
	}

	body := `{"first_name":"Dana","last_name":"Whitfield","email":"dana@example.com","password":"Sunlit8Harbor","confirm_password":"Sunlit8Harbor","agree_to_terms":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	AuthRegister(svc, nil)(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			Token string `json:"token"`
			User  struct {
				Email string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.True(t, payload.Success)
	assert.Equal(t, "registration successful", payload.Message)
	assert.Equal(t, "signed-token", payload.Data.Token)
	assert.Equal(t, "dana@example.com", payload.Data.User.Email)
}

func TestAuthRegisterValidatesBody(t *testing.T) {
	svc := &stubAuthService{}

	body := `{"email":"not-an-email","password":"short","confirm_password":"different"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	AuthRegister(svc, nil)(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var payload struct {
		Success bool              `json:"success"`
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.False(t, payload.Success)
	assert.Equal(t, "VALIDATION_ERROR", payload.Code)
	assert.Contains(t, payload.Details, "email")
	assert.Contains(t, payload.Details, "password")
}

func TestAuthRegisterRejectsDeclinedTerms(t *testing.T) {
	svc := &stubAuthService{registerResult: &auth.RegisterResponse{Token: "t"}}

	body := `{"name":"Dana Whitfield","email":"dana@example.com","password":"Sunlit8Harbor","confirm_password":"Sunlit8Harbor","agree_to_terms":false}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	AuthRegister(svc, nil)(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var payload struct {
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Contains(t, payload.Details, "agree_to_terms")
}

func TestAuthRegisterAcceptsUsername(t *testing.T) {
	svc := &stubAuthService{
		registerResult: &auth.RegisterResponse{
			Token: "signed-token",
			User:  &users.UserDTO{ID: uuid.New(), Email: "dana@example.com"},
		},
	}

	body := `{"name":"Dana Whitfield","username":"dana_w","email":"dana@example.com","password":"Sunlit8Harbor","confirm_password":"Sunlit8Harbor","agree_to_terms":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	AuthRegister(svc, nil)(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Illegal characters are rejected before the service runs.
	body = `{"name":"Dana Whitfield","username":"dana w!","email":"dana@example.com","password":"Sunlit8Harbor","confirm_password":"Sunlit8Harbor"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rec = httptest.NewRecorder()
	AuthRegister(svc, nil)(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var payload struct {
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Contains(t, payload.Details, "username")
}

func TestAuthLoginSurfacesInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}

	body := `{"email":"dana@example.com","password":"WrongPass123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	AuthLogin(svc, nil)(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var payload struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "invalid credentials", payload.Message)
}

func TestAuthLoginRejectsUnknownFields(t *testing.T) {
	svc := &stubAuthService{loginResult: &auth.LoginResponse{Token: "t"}}

	body := `{"email":"dana@example.com","password":"Sunlit8Harbor","remember_me":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	AuthLogin(svc, nil)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminAuthLoginReturnsAdminKey(t *testing.T) {
	svc := &stubAuthService{
		adminResult: &auth.AdminLoginResponse{
			Token: "admin-token",
			Admin: &users.UserDTO{ID: uuid.New(), Email: "root@example.com"},
		},
	}

	body := `{"email":"root@example.com","password":"Sunlit8Harbor"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/admin-login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	AdminAuthLogin(svc, nil)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Data struct {
			Token string `json:"token"`
			Admin struct {
				Email string `json:"email"`
			} `json:"admin"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "admin-token", payload.Data.Token)
	assert.Equal(t, "root@example.com", payload.Data.Admin.Email)
}

func TestAuthControllersRequireService(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	AuthLogin(nil, nil)(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

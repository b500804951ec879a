package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecobin-backend/internal/models"
)

func register(t *testing.T, env *testEnv, username, email, role string) models.UserResponse {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/auth/register", RegisterRequest{
		Username: username,
		Email:    email,
		Password: "password123",
		Role:     role,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[struct {
		User models.UserResponse `json:"user"`
	}](t, rec)
	return body.User
}

func login(t *testing.T, env *testEnv, username string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Username: username, Password: "password123"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[LoginResponse](t, rec)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	env := newTestEnv(t, newMemoryStore())

	user := register(t, env, "maria", "Maria@EcoBin.test", "")
	assert.Equal(t, "maria@ecobin.test", user.Email)
	assert.Equal(t, models.RoleStaff, user.Role)

	rec := env.do(t, http.MethodPost, "/api/auth/register", RegisterRequest{
		Username: "maria2", Email: "maria@ecobin.test", Password: "password123",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"User already exists"}`, rec.Body.String())

	// login by email works too
	rec = env.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Email: "maria@ecobin.test", Password: "password123"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	token := login(t, env, "maria")
	rec = env.do(t, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user, decode[models.UserResponse](t, rec))

	rec = env.do(t, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_LoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t, newMemoryStore())
	register(t, env, "maria", "maria@ecobin.test", "")

	rec := env.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Username: "maria", Password: "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Username: "nobody", Password: "password123"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Username: "maria"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuth_RegisterValidation(t *testing.T) {
	env := newTestEnv(t, newMemoryStore())

	rec := env.do(t, http.MethodPost, "/api/auth/register", RegisterRequest{Username: "x", Email: "x@y.z", Password: "123"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"password must be at least 6 characters"}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/auth/register", RegisterRequest{Username: "x", Email: "x@y.z", Password: "password123", Role: "root"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuth_ChangePassword(t *testing.T) {
	env := newTestEnv(t, newMemoryStore())
	register(t, env, "maria", "maria@ecobin.test", "")
	token := login(t, env, "maria")

	rec := env.do(t, http.MethodPut, "/api/auth/change-password", ChangePasswordRequest{
		CurrentPassword: "not-it", NewPassword: "new-password",
	}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/auth/change-password", ChangePasswordRequest{
		CurrentPassword: "password123", NewPassword: "new-password",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Username: "maria", Password: "new-password"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

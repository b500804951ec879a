package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"ecobin-backend/internal/database"
	"ecobin-backend/internal/middleware"
	"ecobin-backend/internal/models"
	"ecobin-backend/pkg/utils"
)

const minPasswordLength = 6

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest accepts either a username or an email
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string              `json:"message"`
	Token   string              `json:"token"`
	User    models.UserResponse `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Register handles POST /api/auth/register
func Register(users *database.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := utils.DecodeJSON(w, r, &req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := newUser(req.Username, req.Email, req.Password, req.Role)
		if err != nil {
			respondError(w, err, "User not found", "Failed to create user")
			return
		}

		if err := users.Create(r.Context(), user); err != nil {
			if errors.Is(err, database.ErrConflict) {
				utils.Error(w, http.StatusConflict, "User already exists")
				return
			}
			respondError(w, err, "User not found", "Failed to create user")
			return
		}

		log.Info().Str("email", user.Email).Str("role", user.Role).Msg("✅ USER REGISTERED")
		utils.JSON(w, http.StatusCreated, map[string]interface{}{
			"message": "User created successfully",
			"user":    user.ToUserResponse(),
		})
	}
}

// Login handles POST /api/auth/login
func Login(users *database.UserStore, jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := utils.DecodeJSON(w, r, &req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		login := strings.TrimSpace(req.Username)
		if login == "" {
			login = strings.TrimSpace(req.Email)
		}
		if login == "" || req.Password == "" {
			utils.Error(w, http.StatusBadRequest, "Username or email and password are required")
			return
		}

		log.Info().Str("login", login).Msg("🔐 Login attempt")

		user, err := users.GetByLogin(r.Context(), login)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				utils.Error(w, http.StatusUnauthorized, "Invalid credentials")
				return
			}
			respondError(w, err, "User not found", "Database error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			log.Warn().Str("login", login).Msg("❌ Invalid password")
			utils.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		token, err := middleware.NewToken(jwtSecret, user, time.Now())
		if err != nil {
			log.Error().Err(err).Msg("❌ Failed to create token")
			utils.Error(w, http.StatusInternalServerError, "Failed to create token")
			return
		}

		log.Info().Str("email", user.Email).Str("role", user.Role).Msg("✅ Login successful")
		utils.JSON(w, http.StatusOK, LoginResponse{
			Message: "Login successful",
			Token:   token,
			User:    user.ToUserResponse(),
		})
	}
}

// Me handles GET /api/auth/me
func Me(users *database.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Access token required")
			return
		}

		user, err := users.Get(r.Context(), claims.UserID)
		if err != nil {
			respondError(w, err, "User not found", "Database error")
			return
		}
		utils.JSON(w, http.StatusOK, user.ToUserResponse())
	}
}

// ChangePassword handles PUT /api/auth/change-password
func ChangePassword(users *database.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Access token required")
			return
		}

		var req ChangePasswordRequest
		if err := utils.DecodeJSON(w, r, &req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if len(req.NewPassword) < minPasswordLength {
			utils.Error(w, http.StatusBadRequest, "New password must be at least 6 characters")
			return
		}

		user, err := users.Get(r.Context(), claims.UserID)
		if err != nil {
			respondError(w, err, "User not found", "Database error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			utils.Error(w, http.StatusBadRequest, "Current password is incorrect")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}

		if err := users.UpdatePassword(r.Context(), user.ID, string(hash)); err != nil {
			respondError(w, err, "User not found", "Failed to update password")
			return
		}
		utils.Message(w, http.StatusOK, "Password updated successfully")
	}
}

// newUser validates registration fields and hashes the password
func newUser(username, email, password, role string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	role = strings.TrimSpace(role)
	if role == "" {
		role = models.RoleStaff
	}

	if username == "" || email == "" || password == "" {
		return models.User{}, validationf("username, email and password are required")
	}
	if !strings.Contains(email, "@") {
		return models.User{}, validationf("email is invalid")
	}
	if len(password) < minPasswordLength {
		return models.User{}, validationf("password must be at least 6 characters")
	}
	if !models.IsValidRole(role) {
		return models.User{}, validationf("role must be 'admin' or 'staff'")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	return models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     email,
		Password:  string(hash),
		Role:      role,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}, nil
}

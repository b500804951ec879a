package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"ecobin-backend/internal/database"
	"ecobin-backend/internal/models"
	"ecobin-backend/pkg/utils"
)

const userNotFound = "User not found"

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ListUsers handles GET /api/users, the task assignment dropdown
func ListUsers(users *database.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := users.List(r.Context())
		if err != nil {
			respondError(w, err, userNotFound, "Failed to fetch users")
			return
		}

		out := make([]models.UserResponse, 0, len(list))
		for i := range list {
			out = append(out, list[i].ToUserResponse())
		}
		utils.JSON(w, http.StatusOK, out)
	}
}

// CountUsers handles GET /api/users/count
func CountUsers(users *database.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := users.Count(r.Context())
		if err != nil {
			respondError(w, err, userNotFound, "Failed to count users")
			return
		}
		utils.JSON(w, http.StatusOK, map[string]int{"count": count})
	}
}

// GetUser handles GET /api/users/{id}
func GetUser(users *database.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := users.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err, userNotFound, "Failed to fetch user")
			return
		}
		utils.JSON(w, http.StatusOK, user.ToUserResponse())
	}
}

// CreateUser handles POST /api/users. Requires admin authentication.
func CreateUser(users *database.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		if err := utils.DecodeJSON(w, r, &req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := newUser(req.Name, req.Email, req.Password, req.Role)
		if err != nil {
			respondError(w, err, userNotFound, "Failed to create user")
			return
		}

		if err := users.Create(r.Context(), user); err != nil {
			respondError(w, err, userNotFound, "Failed to create user")
			return
		}

		log.Info().
			Str("id", user.ID).
			Str("email", user.Email).
			Str("role", user.Role).
			Msg("✅ USER CREATED SUCCESSFULLY")
		utils.JSON(w, http.StatusCreated, user.ToUserResponse())
	}
}

// UpdateUser handles PUT /api/users/{id}. Empty fields keep their value.
func UpdateUser(users *database.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateUserRequest
		if err := utils.DecodeJSON(w, r, &req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := users.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err, userNotFound, "Failed to update user")
			return
		}

		if name := strings.TrimSpace(req.Name); name != "" {
			user.Username = name
		}
		if email := strings.TrimSpace(strings.ToLower(req.Email)); email != "" {
			user.Email = email
		}
		if role := strings.TrimSpace(req.Role); role != "" {
			if !models.IsValidRole(role) {
				utils.Error(w, http.StatusBadRequest, "role must be 'admin' or 'staff'")
				return
			}
			user.Role = role
		}

		if err := users.Update(r.Context(), user); err != nil {
			respondError(w, err, userNotFound, "Failed to update user")
			return
		}
		utils.JSON(w, http.StatusOK, user.ToUserResponse())
	}
}

// DeleteUser handles DELETE /api/users/{id}. Requires admin authentication.
func DeleteUser(users *database.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondError(w, err, userNotFound, "Failed to delete user")
			return
		}
		utils.Message(w, http.StatusOK, "User deleted successfully")
	}
}

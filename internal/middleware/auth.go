package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"ecobin-backend/internal/models"
	"ecobin-backend/pkg/utils"
)

type contextKey string

const UserContextKey contextKey = "user"

// TokenTTL is how long a login token stays valid
const TokenTTL = 24 * time.Hour

type UserClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// NewToken signs an HS256 token carrying the user's identity
func NewToken(secret string, user models.User, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret not configured")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(TokenTTL).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseToken validates a token and extracts its claims
func ParseToken(secret, tokenString string) (UserClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return UserClaims{}, err
	}
	if !token.Valid {
		return UserClaims{}, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return UserClaims{}, jwt.ErrTokenInvalidClaims
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return UserClaims{}, jwt.ErrTokenInvalidClaims
	}
	username, _ := claims["username"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return UserClaims{UserID: userID, Username: username, Email: email, Role: role}, nil
}

// Auth validates the bearer token and adds the user claims to the context
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				log.Debug().Str("path", r.URL.Path).Msg("❌ Missing or malformed authorization header")
				utils.Error(w, http.StatusUnauthorized, "Access token required")
				return
			}

			claims, err := ParseToken(secret, tokenString)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("❌ Invalid token")
				utils.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole middleware checks if user has required role (must be used after Auth)
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userClaims, ok := GetUserFromContext(r)
			if !ok {
				utils.Error(w, http.StatusUnauthorized, "Access token required")
				return
			}

			if userClaims.Role != role {
				log.Warn().Str("required", role).Str("got", userClaims.Role).Msg("❌ Insufficient permissions")
				utils.Error(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts user claims from request context
func GetUserFromContext(r *http.Request) (UserClaims, bool) {
	userClaims, ok := r.Context().Value(UserContextKey).(UserClaims)
	return userClaims, ok
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ecobin-backend/internal/models"
)

// UserStore persists dashboard accounts
type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = "id, username, email, password, role, created_at"

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	query := "SELECT " + userColumns + " FROM users ORDER BY username"
	if err := s.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (s *UserStore) Get(ctx context.Context, id string) (models.User, error) {
	var user models.User
	query := s.db.Rebind("SELECT " + userColumns + " FROM users WHERE id = ?")
	if err := s.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return user, nil
}

// GetByLogin finds a user by username or email
func (s *UserStore) GetByLogin(ctx context.Context, login string) (models.User, error) {
	var user models.User
	query := s.db.Rebind("SELECT " + userColumns + " FROM users WHERE username = ? OR email = ?")
	if err := s.db.GetContext(ctx, &user, query, login, login); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("get user by login: %w", err)
	}
	return user, nil
}

// Create inserts a user whose password is already hashed
func (s *UserStore) Create(ctx context.Context, user models.User) error {
	query := `
		INSERT INTO users (id, username, email, password, role, created_at)
		VALUES (:id, :username, :email, :password, :role, :created_at)
	`
	if _, err := s.db.NamedExecContext(ctx, query, user); err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update rewrites the profile fields. The password is left untouched.
func (s *UserStore) Update(ctx context.Context, user models.User) error {
	query := s.db.Rebind("UPDATE users SET username = ?, email = ?, role = ? WHERE id = ?")
	res, err := s.db.ExecContext(ctx, query, user.Username, user.Email, user.Role, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update user %s: %w", user.ID, err)
	}
	return requireRow(res)
}

func (s *UserStore) UpdatePassword(ctx context.Context, id, hash string) error {
	query := s.db.Rebind("UPDATE users SET password = ? WHERE id = ?")
	res, err := s.db.ExecContext(ctx, query, hash, id)
	if err != nil {
		return fmt.Errorf("update password for %s: %w", id, err)
	}
	return requireRow(res)
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	query := s.db.Rebind("DELETE FROM users WHERE id = ?")
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

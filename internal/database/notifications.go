package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ecobin-backend/internal/models"
)

// DefaultNotificationLimit caps GET /api/notifications when no limit is given
const DefaultNotificationLimit = 20

// NotificationStore persists dashboard notifications
type NotificationStore struct {
	db *sqlx.DB
}

func NewNotificationStore(db *sqlx.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

const notificationColumns = "id, title, message, type, bin_id, read_status, created_at"

func (s *NotificationStore) List(ctx context.Context, filters models.NotificationFilters) ([]models.Notification, error) {
	query := "SELECT " + notificationColumns + " FROM notifications"
	args := []interface{}{}

	if filters.ReadStatus != nil {
		query += " WHERE read_status = ?"
		args = append(args, *filters.ReadStatus)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, max(filters.Offset, 0))

	list := []models.Notification{}
	if err := s.db.SelectContext(ctx, &list, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

func (s *NotificationStore) Get(ctx context.Context, id string) (models.Notification, error) {
	var n models.Notification
	query := s.db.Rebind("SELECT " + notificationColumns + " FROM notifications WHERE id = ?")
	if err := s.db.GetContext(ctx, &n, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Notification{}, ErrNotFound
		}
		return models.Notification{}, fmt.Errorf("get notification %s: %w", id, err)
	}
	return n, nil
}

func (s *NotificationStore) Create(ctx context.Context, n models.Notification) error {
	query := `
		INSERT INTO notifications (id, title, message, type, bin_id, read_status, created_at)
		VALUES (:id, :title, :message, :type, :bin_id, :read_status, :created_at)
	`
	if _, err := s.db.NamedExecContext(ctx, query, n); err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (s *NotificationStore) MarkRead(ctx context.Context, id string) (models.Notification, error) {
	query := s.db.Rebind("UPDATE notifications SET read_status = ? WHERE id = ?")
	res, err := s.db.ExecContext(ctx, query, true, id)
	if err != nil {
		return models.Notification{}, fmt.Errorf("mark notification %s read: %w", id, err)
	}
	if err := requireRow(res); err != nil {
		return models.Notification{}, err
	}
	return s.Get(ctx, id)
}

// MarkAllRead flags every unread notification and reports how many changed
func (s *NotificationStore) MarkAllRead(ctx context.Context) (int64, error) {
	query := s.db.Rebind("UPDATE notifications SET read_status = ? WHERE read_status = ?")
	res, err := s.db.ExecContext(ctx, query, true, false)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return res.RowsAffected()
}

func (s *NotificationStore) Delete(ctx context.Context, id string) error {
	query := s.db.Rebind("DELETE FROM notifications WHERE id = ?")
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete notification %s: %w", id, err)
	}
	return requireRow(res)
}

func (s *NotificationStore) CountUnread(ctx context.Context) (int, error) {
	var count int
	query := s.db.Rebind("SELECT COUNT(*) FROM notifications WHERE read_status = ?")
	if err := s.db.GetContext(ctx, &count, query, false); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

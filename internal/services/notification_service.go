package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"ecobin-backend/internal/events"
	"ecobin-backend/internal/models"
)

// NotificationRepository persists notifications
type NotificationRepository interface {
	List(ctx context.Context, filters models.NotificationFilters) ([]models.Notification, error)
	Get(ctx context.Context, id string) (models.Notification, error)
	Create(ctx context.Context, n models.Notification) error
	MarkRead(ctx context.Context, id string) (models.Notification, error)
	MarkAllRead(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
	CountUnread(ctx context.Context) (int, error)
}

// Pusher forwards a notification to mobile devices
type Pusher interface {
	PushNotification(ctx context.Context, n models.Notification) error
}

const pushTimeout = 10 * time.Second

// NotificationService manages dashboard notifications and announces changes
type NotificationService struct {
	repo      NotificationRepository
	publisher events.Publisher
	pusher    Pusher
	now       func() time.Time
}

// NewNotificationService wires the repository. pusher may be nil.
func NewNotificationService(repo NotificationRepository, publisher events.Publisher, pusher Pusher) *NotificationService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &NotificationService{
		repo:      repo,
		publisher: publisher,
		pusher:    pusher,
		now:       time.Now,
	}
}

// List returns notifications newest first. A failing store yields an empty list.
func (s *NotificationService) List(ctx context.Context, filters models.NotificationFilters) []models.Notification {
	list, err := s.repo.List(ctx, filters)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Notification store unavailable, returning no notifications")
		return []models.Notification{}
	}
	return list
}

// UnreadCount returns the number of unread notifications, or 0 when the store fails
func (s *NotificationService) UnreadCount(ctx context.Context) int {
	count, err := s.repo.CountUnread(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Notification store unavailable, reporting zero unread")
		return 0
	}
	return count
}

func (s *NotificationService) Get(ctx context.Context, id string) (models.Notification, error) {
	return s.repo.Get(ctx, id)
}

func (s *NotificationService) Create(ctx context.Context, req models.CreateNotificationRequest) (models.Notification, error) {
	n := models.Notification{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(req.Title),
		Message:   strings.TrimSpace(req.Message),
		Type:      strings.ToLower(strings.TrimSpace(req.Type)),
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	if n.Type == "" {
		n.Type = models.NotificationInfo
	}
	if req.BinID != "" {
		binID := req.BinID
		n.BinID = &binID
	}

	if n.Title == "" || n.Message == "" {
		return models.Notification{}, fmt.Errorf("%w: title and message are required", models.ErrValidation)
	}
	if !models.IsValidNotificationType(n.Type) {
		return models.Notification{}, fmt.Errorf("%w: unknown notification type %q", models.ErrValidation, n.Type)
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return models.Notification{}, err
	}

	log.Info().Str("id", n.ID).Str("type", n.Type).Msg("🔔 Notification created")
	s.publisher.Publish(events.NewNotification, n)
	s.push(n)
	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) (models.Notification, error) {
	n, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return models.Notification{}, err
	}
	s.publisher.Publish(events.NotificationRead, NotificationReadAck(n.ID))
	return n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context) (int64, error) {
	updated, err := s.repo.MarkAllRead(ctx)
	if err != nil {
		return 0, err
	}
	s.publisher.Publish(events.AllNotificationsRead, AllNotificationsReadAck(updated))
	return updated, nil
}

func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(events.NotificationDeleted, NotificationDeletedAck(id))
	return nil
}

// push hands the notification to FCM without holding up the request
func (s *NotificationService) push(n models.Notification) {
	if s.pusher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()
		if err := s.pusher.PushNotification(ctx, n); err != nil {
			log.Error().Err(err).Str("id", n.ID).Msg("❌ Failed to push notification")
		}
	}()
}

// The acks below are both the REST response body and the broadcast payload

func NotificationReadAck(id string) events.IDPayload {
	return events.IDPayload{ID: id, Message: "Notification marked as read"}
}

func AllNotificationsReadAck(updated int64) events.CountPayload {
	return events.CountPayload{Message: "All notifications marked as read", Updated: updated}
}

func NotificationDeletedAck(id string) events.IDPayload {
	return events.IDPayload{ID: id, Message: "Notification deleted successfully"}
}

package services

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"

	"ecobin-backend/internal/models"
)

// DefaultFCMTopic is the topic janitor devices subscribe to
const DefaultFCMTopic = "ecobin-notifications"

// FCMService handles Firebase Cloud Messaging
type FCMService struct {
	client *messaging.Client
	topic  string
}

// NewFCMService creates a messaging client on an initialized app
func NewFCMService(ctx context.Context, app *firebase.App, topic string) (*FCMService, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}
	if topic == "" {
		topic = DefaultFCMTopic
	}
	return &FCMService{client: client, topic: topic}, nil
}

// PushNotification sends a dashboard notification to every device on the topic
func (s *FCMService) PushNotification(ctx context.Context, n models.Notification) error {
	response, err := s.client.Send(ctx, notificationMessage(s.topic, n))
	if err != nil {
		return fmt.Errorf("error sending FCM message: %w", err)
	}

	log.Info().Str("message_id", response).Str("topic", s.topic).Msg("✅ FCM notification sent successfully")
	return nil
}

func notificationMessage(topic string, n models.Notification) *messaging.Message {
	data := map[string]string{
		"type":            "notification",
		"notification_id": n.ID,
		"severity":        n.Type,
	}
	if n.BinID != nil {
		data["bin_id"] = *n.BinID
	}

	priority := "normal"
	if n.Type == models.NotificationWarning || n.Type == models.NotificationError {
		priority = "high"
	}

	return &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: priority,
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}
}

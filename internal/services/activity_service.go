package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"ecobin-backend/internal/activitystore"
	"ecobin-backend/internal/events"
	"ecobin-backend/internal/metrics"
	"ecobin-backend/internal/models"
)

// ActivityService answers activity reads from the primary store and, when the
// primary fails, re-issues the same read once against the fallback store.
// Mutations go to the primary only and are announced to dashboards.
type ActivityService struct {
	primary   activitystore.Store
	fallback  activitystore.Store
	publisher events.Publisher
	now       func() time.Time
}

// NewActivityService wires the stores. fallback may be nil or the primary
// itself, in which case read errors are returned as-is.
func NewActivityService(primary, fallback activitystore.Store, publisher events.Publisher) *ActivityService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	if fallback == primary {
		fallback = nil
	}
	return &ActivityService{
		primary:   primary,
		fallback:  fallback,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *ActivityService) List(ctx context.Context, filters models.ActivityFilters) ([]models.Activity, error) {
	activities, err := s.primary.List(ctx, filters)
	metrics.ObserveStore(s.primary.Name(), "list", err)
	if err == nil {
		return activities, nil
	}
	if s.fallback == nil {
		return nil, err
	}

	s.failover("list", err)
	activities, err = s.fallback.List(ctx, filters)
	metrics.ObserveStore(s.fallback.Name(), "list", err)
	return activities, err
}

func (s *ActivityService) Get(ctx context.Context, id string) (models.Activity, error) {
	activity, err := s.primary.Get(ctx, id)
	metrics.ObserveStore(s.primary.Name(), "get", ignoreNotFound(err))
	if err == nil || errors.Is(err, activitystore.ErrNotFound) || s.fallback == nil {
		return activity, err
	}

	s.failover("get", err)
	activity, err = s.fallback.Get(ctx, id)
	metrics.ObserveStore(s.fallback.Name(), "get", ignoreNotFound(err))
	return activity, err
}

func (s *ActivityService) Stats(ctx context.Context) (models.ActivityStats, error) {
	stats, err := s.primary.Stats(ctx)
	metrics.ObserveStore(s.primary.Name(), "stats", err)
	if err == nil || s.fallback == nil {
		return stats, err
	}

	s.failover("stats", err)
	stats, err = s.fallback.Stats(ctx)
	metrics.ObserveStore(s.fallback.Name(), "stats", err)
	return stats, err
}

// Create stores a new activity stamped with the server clock and broadcasts newActivity
func (s *ActivityService) Create(ctx context.Context, req models.ActivityRequest) (models.Activity, error) {
	in, err := req.Normalize(s.now())
	if err != nil {
		return models.Activity{}, err
	}

	activity, err := s.primary.Create(ctx, in)
	metrics.ObserveStore(s.primary.Name(), "create", err)
	if err != nil {
		return models.Activity{}, err
	}

	log.Info().Str("id", activity.ID).Str("type", activity.ActivityType).Msg("✅ Activity created")
	s.publisher.Publish(events.NewActivity, activity)
	return activity, nil
}

// Update overwrites the activity fields and broadcasts activityUpdated
func (s *ActivityService) Update(ctx context.Context, id string, req models.ActivityRequest) (models.Activity, error) {
	in, err := req.NormalizeUpdate()
	if err != nil {
		return models.Activity{}, err
	}

	activity, err := s.primary.Update(ctx, id, in)
	metrics.ObserveStore(s.primary.Name(), "update", ignoreNotFound(err))
	if err != nil {
		return models.Activity{}, err
	}

	log.Info().Str("id", activity.ID).Msg("✅ Activity updated")
	s.publisher.Publish(events.ActivityUpdated, activity)
	return activity, nil
}

// Delete removes the activity. Nothing is broadcast when it does not exist.
func (s *ActivityService) Delete(ctx context.Context, id string) error {
	err := s.primary.Delete(ctx, id)
	metrics.ObserveStore(s.primary.Name(), "delete", ignoreNotFound(err))
	if err != nil {
		return err
	}

	log.Info().Str("id", id).Msg("🗑️ Activity deleted")
	s.publisher.Publish(events.ActivityDeleted, ActivityDeletedAck(id))
	return nil
}

func (s *ActivityService) failover(operation string, cause error) {
	metrics.StoreFailovers.WithLabelValues(operation).Inc()
	log.Warn().
		Err(cause).
		Str("operation", operation).
		Str("primary", s.primary.Name()).
		Str("fallback", s.fallback.Name()).
		Msg("⚠️ Primary store unavailable, serving fallback data")
}

func ignoreNotFound(err error) error {
	if errors.Is(err, activitystore.ErrNotFound) {
		return nil
	}
	return err
}

// ActivityDeletedAck is both the DELETE response body and the broadcast payload
func ActivityDeletedAck(id string) events.IDPayload {
	return events.IDPayload{ID: id, Message: "Activity deleted successfully"}
}

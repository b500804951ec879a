package activitystore

import (
	"context"
	"time"

	"ecobin-backend/internal/models"
)

// FallbackStore serves a fixed sample dataset when the primary store is unreachable.
// It never accepts writes.
type FallbackStore struct {
	records []models.Activity
}

func NewFallbackStore() *FallbackStore {
	return &FallbackStore{records: sampleActivities()}
}

func (s *FallbackStore) Name() string { return "fallback" }

func (s *FallbackStore) List(ctx context.Context, filters models.ActivityFilters) ([]models.Activity, error) {
	matched := filters.Apply(s.records)
	out := make([]models.Activity, len(matched))
	for i, a := range matched {
		out[i] = clone(a)
	}
	return out, nil
}

func (s *FallbackStore) Get(ctx context.Context, id string) (models.Activity, error) {
	for _, a := range s.records {
		if a.ID == id {
			return clone(a), nil
		}
	}
	return models.Activity{}, ErrNotFound
}

func (s *FallbackStore) Create(ctx context.Context, in models.ActivityInput) (models.Activity, error) {
	return models.Activity{}, ErrReadOnly
}

func (s *FallbackStore) Update(ctx context.Context, id string, in models.ActivityInput) (models.Activity, error) {
	return models.Activity{}, ErrReadOnly
}

func (s *FallbackStore) Delete(ctx context.Context, id string) error {
	return ErrReadOnly
}

func (s *FallbackStore) Stats(ctx context.Context) (models.ActivityStats, error) {
	return models.Stats(s.records), nil
}

func clone(a models.Activity) models.Activity {
	a.Details = append([]string{}, a.Details...)
	if a.Timestamp != nil {
		ts := *a.Timestamp
		a.Timestamp = &ts
	}
	return a
}

func at(value string) *time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return &t
}

// sampleActivities are the records shown while Firestore is down, newest first.
func sampleActivities() []models.Activity {
	const (
		location = "Central Plaza"
		binID    = "bin1"
		main     = "Bin bin1 at Central Plaza"
	)
	return []models.Activity{
		{
			ID:              "fallback-1",
			Timestamp:       at("2025-09-25T01:12:00Z"),
			ActivityType:    models.ActivityTypeTaskAssignment,
			DescriptionMain: main,
			DescriptionNote: "Critical bin level - requires immediate collection",
			AssignedTo:      "Glendon Rose Marie",
			Location:        location,
			Status:          models.StatusPending,
			Priority:        models.PriorityHigh,
			Details:         []string{"Level: 85%"},
			BinID:           binID,
			Weight:          85,
		},
		{
			ID:              "fallback-2",
			Timestamp:       at("2025-09-25T00:12:00Z"),
			ActivityType:    models.ActivityTypeBinEmptied,
			DescriptionMain: main,
			DescriptionNote: "Bin emptied successfully",
			AssignedTo:      "Jeralyn Peritos",
			Location:        location,
			Status:          models.StatusDone,
			Priority:        models.PriorityMedium,
			Details:         []string{"Level: 10%", "Bin: normal"},
			BinID:           binID,
			Weight:          10,
		},
		{
			ID:              "fallback-3",
			Timestamp:       at("2025-09-24T23:12:00Z"),
			ActivityType:    models.ActivityTypeMaintenance,
			DescriptionMain: main,
			DescriptionNote: "Routine maintenance check",
			AssignedTo:      "John Dave Laparan",
			Location:        location,
			Status:          models.StatusInProgress,
			Priority:        models.PriorityLow,
			Details:         []string{},
			BinID:           binID,
			Weight:          0,
		},
		{
			ID:              "fallback-4",
			Timestamp:       at("2025-09-24T22:12:00Z"),
			ActivityType:    models.ActivityTypeBinAlert,
			DescriptionMain: main,
			DescriptionNote: "Automated alert: Bin critically full",
			AssignedTo:      "Glendon Rose Marie",
			Location:        location,
			Status:          models.StatusInProgress,
			Priority:        models.PriorityUrgent,
			Details:         []string{"Level: 95%"},
			BinID:           binID,
			Weight:          95,
		},
	}
}

package activitystore

import (
	"context"
	"errors"

	"ecobin-backend/internal/models"
)

var (
	// ErrNotFound is returned when no activity has the requested id
	ErrNotFound = errors.New("activity not found")

	// ErrReadOnly is returned by stores that cannot accept mutations
	ErrReadOnly = errors.New("activity store is read-only")
)

// Store is a backend holding activity records. Every implementation returns
// canonical, normalized activities ordered newest first.
type Store interface {
	Name() string
	List(ctx context.Context, filters models.ActivityFilters) ([]models.Activity, error)
	Get(ctx context.Context, id string) (models.Activity, error)
	Create(ctx context.Context, in models.ActivityInput) (models.Activity, error)
	Update(ctx context.Context, id string, in models.ActivityInput) (models.Activity, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (models.ActivityStats, error)
}

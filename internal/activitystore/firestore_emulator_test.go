package activitystore

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecobin-backend/internal/models"
)

// newEmulatorStore returns a store over a fresh collection on the local
// Firestore emulator. Tests are skipped when no emulator is configured.
func newEmulatorStore(t *testing.T) (*FirestoreStore, *firestore.Client) {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "ecobin-test")
	require.NoError(t, err)

	collection := "activitylogs_" + uuid.NewString()
	t.Cleanup(func() {
		docs, err := client.Collection(collection).Documents(ctx).GetAll()
		if err == nil {
			for _, doc := range docs {
				_, _ = doc.Ref.Delete(ctx)
			}
		}
		client.Close()
	})

	return NewFirestoreStore(client, collection), client
}

func seedDocs(t *testing.T, client *firestore.Client, collection string, docs map[string]map[string]interface{}) {
	t.Helper()
	for id, data := range docs {
		_, err := client.Collection(collection).Doc(id).Set(context.Background(), data)
		require.NoError(t, err)
	}
}

func TestFirestoreStore_CreateGetUpdateDelete(t *testing.T) {
	store, _ := newEmulatorStore(t)
	ctx := context.Background()
	now := time.Date(2025, 9, 25, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	created, err := store.Create(ctx, models.ActivityInput{
		ActivityType:    models.ActivityTypeTaskAssignment,
		DescriptionMain: "Empty bin 4",
		AssignedTo:      "Mike Wilson",
		Location:        "University Campus",
		Priority:        models.PriorityUrgent,
		Weight:          10,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, models.PriorityUrgent, created.Priority)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, now, *created.Timestamp)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.DescriptionMain, got.DescriptionMain)
	assert.Equal(t, models.PriorityUrgent, got.Priority)

	updated, err := store.Update(ctx, created.ID, models.ActivityInput{
		ActivityType:    models.ActivityTypeTaskAssignment,
		DescriptionMain: "Empty bin 4",
		Location:        "University Campus",
		Status:          models.StatusDone,
		Weight:          10,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, updated.Status)

	require.NoError(t, store.Delete(ctx, created.ID))

	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, created.ID), ErrNotFound)

	_, err = store.Update(ctx, "missing", models.ActivityInput{ActivityType: models.ActivityTypeBinAlert})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFirestoreStore_ListFindsExplicitPriority(t *testing.T) {
	store, _ := newEmulatorStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, models.ActivityInput{
		ActivityType: models.ActivityTypeTaskAssignment,
		Priority:     models.PriorityUrgent,
		Weight:       10,
	})
	require.NoError(t, err)

	got, err := store.List(ctx, models.ActivityFilters{Priority: models.PriorityUrgent, Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, created.ID, got[0].ID)

	got, err = store.List(ctx, models.ActivityFilters{Priority: models.PriorityLow})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFirestoreStore_ListMatchesNormalizedValues(t *testing.T) {
	store, client := newEmulatorStore(t)
	ctx := context.Background()
	base := time.Date(2025, 9, 25, 0, 0, 0, 0, time.UTC)

	seedDocs(t, client, store.collection, map[string]map[string]interface{}{
		"sparse": {
			"activity_type": models.ActivityTypeBinEmptied,
			"created_at":    base,
		},
		"untyped": {
			"bin_status": "Completed",
			"bin_level":  95,
			"created_at": base.Add(time.Hour),
		},
		"progress": {
			"activity_type": models.ActivityTypeMaintenance,
			"bin_status":    "in-progress",
			"bin_level":     "65",
			"created_at":    base.Add(2 * time.Hour),
		},
	})

	tests := []struct {
		name    string
		filters models.ActivityFilters
		want    []string
	}{
		{"everything newest first", models.ActivityFilters{}, []string{"progress", "untyped", "sparse"}},
		{"pushed limit", models.ActivityFilters{Limit: 2}, []string{"progress", "untyped"}},
		{"pushed offset", models.ActivityFilters{Offset: 1, Limit: 1}, []string{"untyped"}},
		{"missing status is pending", models.ActivityFilters{Status: models.StatusPending}, []string{"sparse"}},
		{"missing level is low", models.ActivityFilters{Priority: models.PriorityLow}, []string{"sparse"}},
		{"missing type is bin_alert", models.ActivityFilters{Type: models.ActivityTypeBinAlert}, []string{"untyped"}},
		{"cased status is done", models.ActivityFilters{Status: models.StatusDone, Limit: 1}, []string{"untyped"}},
		{"string level derives", models.ActivityFilters{Priority: models.PriorityHigh}, []string{"progress"}},
		{"type and status", models.ActivityFilters{Type: models.ActivityTypeMaintenance, Status: models.StatusInProgress}, []string{"progress"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.List(ctx, tt.filters)
			require.NoError(t, err)
			gotIDs := make([]string, len(got))
			for i, a := range got {
				gotIDs[i] = a.ID
			}
			assert.Equal(t, tt.want, gotIDs)
		})
	}
}

func TestFirestoreStore_Stats(t *testing.T) {
	store, client := newEmulatorStore(t)
	ctx := context.Background()

	seedDocs(t, client, store.collection, map[string]map[string]interface{}{
		"alert":     {"bin_level": 92},
		"collected": {"activity_type": models.ActivityTypeBinEmptied, "bin_status": "completed"},
		"repair":    {"activity_type": models.ActivityTypeMaintenance, "bin_status": "in_progress", "priority": "HIGH"},
	})

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ActivityStats{Alerts: 2, InProgress: 1, Collections: 1, Maintenance: 1}, stats)
}

package activitystore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecobin-backend/internal/models"
)

func TestNativeFromMap_MixedTypes(t *testing.T) {
	created := time.Date(2025, 9, 25, 1, 0, 0, 0, time.UTC)
	n := nativeFromMap("doc-1", map[string]interface{}{
		"activity_type":         "bin_emptied",
		"bin_location":          "Mall",
		"assigned_janitor_name": "Ana",
		"bin_status":            "completed",
		"bin_level":             int64(72),
		"collected_weight":      3.5,
		"details":               []interface{}{"Level: 72%", 7},
		"created_at":            created,
		"collection_time":       "2025-09-24T10:00:00Z",
	})

	assert.Equal(t, "doc-1", n.ID)
	require.NotNil(t, n.BinLevel)
	assert.Equal(t, 72.0, *n.BinLevel)
	require.NotNil(t, n.CollectedWeight)
	assert.Equal(t, 3.5, *n.CollectedWeight)
	assert.Equal(t, []string{"Level: 72%"}, n.Details)
	assert.Equal(t, created, *n.CreatedAt)
	assert.Equal(t, time.Date(2025, 9, 24, 10, 0, 0, 0, time.UTC), *n.CollectionTime)

	a := models.Normalize(n)
	assert.Equal(t, models.StatusDone, a.Status)
	assert.Equal(t, models.PriorityHigh, a.Priority)
}

func TestNativeFromMap_IgnoresMistypedFields(t *testing.T) {
	n := nativeFromMap("doc-2", map[string]interface{}{
		"bin_level":  "not a number",
		"created_at": "yesterday",
		"details":    map[string]interface{}{"a": 1},
	})

	assert.Nil(t, n.BinLevel)
	assert.Nil(t, n.CreatedAt)
	assert.Nil(t, n.Details)

	a := models.Normalize(n)
	assert.Equal(t, "System", a.AssignedTo)
	assert.Equal(t, "Unknown", a.Location)
	assert.NotNil(t, a.Details)
}

func TestNativeFields_RoundTripsThroughNormalize(t *testing.T) {
	in := models.ActivityInput{
		ActivityType:    models.ActivityTypeTaskAssignment,
		DescriptionMain: "Empty bin 4",
		DescriptionNote: "Side gate",
		AssignedTo:      "Mike Wilson",
		Location:        "University Campus",
		Priority:        models.PriorityHigh,
		Details:         []string{"Due: 10/1/2025"},
		BinID:           "bin4",
		Weight:          30,
	}

	fields := nativeFields(in)
	assert.Equal(t, models.StatusPending, fields["bin_status"])
	assert.Equal(t, 30.0, fields["bin_level"])

	a := models.Normalize(nativeFromMap("new-id", fields))
	assert.Equal(t, "new-id", a.ID)
	assert.Equal(t, in.DescriptionMain, a.DescriptionMain)
	assert.Equal(t, in.DescriptionNote, a.DescriptionNote)
	assert.Equal(t, in.AssignedTo, a.AssignedTo)
	assert.Equal(t, in.Location, a.Location)
	assert.Equal(t, models.PriorityHigh, a.Priority)
	assert.Equal(t, in.Details, a.Details)
	assert.Equal(t, 30.0, a.Weight)
}

func TestNativeFields_OmitsEmptyOptionalFields(t *testing.T) {
	fields := nativeFields(models.ActivityInput{ActivityType: models.ActivityTypeBinAlert})
	_, hasPriority := fields["priority"]
	_, hasBin := fields["bin_id"]
	assert.False(t, hasPriority)
	assert.False(t, hasBin)
}

func TestSortNewestFirst(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	list := []models.Activity{{ID: "old", Timestamp: &t1}, {ID: "none"}, {ID: "new", Timestamp: &t2}}

	sortNewestFirst(list)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
	assert.Equal(t, "none", list[2].ID)
}

func TestPlanQuery(t *testing.T) {
	tests := []struct {
		name    string
		filters models.ActivityFilters
		want    queryPlan
	}{
		{"no filters", models.ActivityFilters{}, queryPlan{}},
		{"limit only", models.ActivityFilters{Limit: 10, Offset: 5}, queryPlan{limit: 15}},
		{"type pushed with limit", models.ActivityFilters{Type: models.ActivityTypeMaintenance, Limit: 3}, queryPlan{activityType: models.ActivityTypeMaintenance, limit: 3}},
		{"all is no filter", models.ActivityFilters{Type: "all", Status: "all", Priority: "all", Limit: 2}, queryPlan{limit: 2}},
		{"bin_alert stays local", models.ActivityFilters{Type: models.ActivityTypeBinAlert, Limit: 3}, queryPlan{}},
		{"priority stays local", models.ActivityFilters{Priority: models.PriorityUrgent, Limit: 3}, queryPlan{}},
		{"pending stays local", models.ActivityFilters{Status: models.StatusPending, Limit: 3}, queryPlan{}},
		{"done stays local", models.ActivityFilters{Type: models.ActivityTypeBinEmptied, Status: models.StatusDone, Limit: 3}, queryPlan{activityType: models.ActivityTypeBinEmptied}},
		{"search stays local", models.ActivityFilters{Search: "mall", Limit: 3}, queryPlan{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, planQuery(tt.filters))
		})
	}
}

func TestFinish_ExplicitPriorityBeatsLevel(t *testing.T) {
	created := time.Date(2025, 9, 25, 1, 0, 0, 0, time.UTC)
	fields := nativeFields(models.ActivityInput{
		ActivityType: models.ActivityTypeTaskAssignment,
		Priority:     models.PriorityUrgent,
		Weight:       10,
	})
	fields["created_at"] = created

	filters := models.ActivityFilters{Priority: models.PriorityUrgent, Limit: 5}
	assert.Zero(t, planQuery(filters).limit)

	got := finish(filters, []models.Activity{models.Normalize(nativeFromMap("urgent-1", fields))})
	require.Len(t, got, 1)
	assert.Equal(t, "urgent-1", got[0].ID)
}

func TestFinish_SparseTelemetryDocument(t *testing.T) {
	// Only activity_type: no bin_level, no bin_status
	sparse := models.Normalize(nativeFromMap("sparse", map[string]interface{}{
		"activity_type": models.ActivityTypeBinEmptied,
	}))
	untyped := models.Normalize(nativeFromMap("untyped", map[string]interface{}{
		"bin_status": "COMPLETED",
		"bin_level":  int64(95),
	}))
	all := []models.Activity{sparse, untyped}

	got := finish(models.ActivityFilters{Priority: models.PriorityLow, Status: models.StatusPending}, all)
	require.Len(t, got, 1)
	assert.Equal(t, "sparse", got[0].ID)

	got = finish(models.ActivityFilters{Type: models.ActivityTypeBinAlert, Status: models.StatusDone, Priority: models.PriorityUrgent}, all)
	require.Len(t, got, 1)
	assert.Equal(t, "untyped", got[0].ID)
}

func TestFinish_OrdersBeforePaging(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)
	list := []models.Activity{{ID: "a", Timestamp: &t1}, {ID: "c", Timestamp: &t3}, {ID: "b", Timestamp: &t2}}

	got := finish(models.ActivityFilters{Offset: 1, Limit: 1}, list)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

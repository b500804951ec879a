package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecobin-backend/internal/events"
	"ecobin-backend/internal/models"
)

func envelope(t *testing.T, event string, payload interface{}) events.Envelope {
	t.Helper()
	ev, err := events.NewEnvelope(event, payload)
	require.NoError(t, err)
	return ev
}

func apply(t *testing.T, s State, evs ...events.Envelope) State {
	t.Helper()
	for _, ev := range evs {
		var err error
		s, err = Reduce(s, ev)
		require.NoError(t, err)
	}
	return s
}

func TestReduce_Activities(t *testing.T) {
	first := models.Activity{ID: "a1", ActivityType: models.ActivityTypeBinAlert, Status: models.StatusPending, Priority: models.PriorityUrgent}
	second := models.Activity{ID: "a2", ActivityType: models.ActivityTypeBinEmptied, Status: models.StatusDone, Priority: models.PriorityLow}

	s := apply(t, State{},
		envelope(t, events.NewActivity, first),
		envelope(t, events.NewActivity, second),
	)
	require.Len(t, s.Activities, 2)
	assert.Equal(t, "a2", s.Activities[0].ID)

	before := s
	updated := first
	updated.Status = models.StatusInProgress
	s = apply(t, s, envelope(t, events.ActivityUpdated, updated))
	assert.Equal(t, models.StatusInProgress, s.Activities[1].Status)
	assert.Equal(t, models.StatusPending, before.Activities[1].Status, "previous state must not change")

	s = apply(t, s, envelope(t, events.ActivityUpdated, models.Activity{ID: "unknown"}))
	assert.Len(t, s.Activities, 2)

	s = apply(t, s, envelope(t, events.ActivityDeleted, events.IDPayload{ID: "a2"}))
	require.Len(t, s.Activities, 1)
	assert.Equal(t, "a1", s.Activities[0].ID)
	assert.Len(t, before.Activities, 2)
}

func TestReduce_Notifications(t *testing.T) {
	s := apply(t, State{},
		envelope(t, events.NewNotification, models.Notification{ID: "n1", Title: "Bin full"}),
		envelope(t, events.NewNotification, models.Notification{ID: "n2", Title: "Route done"}),
		envelope(t, events.NewNotification, models.Notification{ID: "n3", Title: "Sensor offline"}),
	)
	assert.Equal(t, 3, s.Overview().Unread)

	s = apply(t, s, envelope(t, events.NotificationRead, events.IDPayload{ID: "n2", Message: "Notification marked as read"}))
	assert.Equal(t, 2, s.Overview().Unread)

	read := apply(t, s, envelope(t, events.AllNotificationsRead, events.CountPayload{Message: "All notifications marked as read", Updated: 2}))
	assert.Equal(t, 0, read.Overview().Unread)
	assert.Equal(t, 2, s.Overview().Unread)

	s = apply(t, read, envelope(t, events.NotificationDeleted, events.IDPayload{ID: "n1"}))
	require.Len(t, s.Notifications, 2)
	assert.Equal(t, "n3", s.Notifications[0].ID)
	assert.Equal(t, "n2", s.Notifications[1].ID)
}

func TestReduce_UnknownAndMalformed(t *testing.T) {
	s := State{Activities: []models.Activity{{ID: "a1"}}}

	next, err := Reduce(s, events.Envelope{Type: "somethingElse", Data: []byte(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, s, next)

	next, err = Reduce(s, events.Envelope{Type: events.NewActivity, Data: []byte(`[1,2]`)})
	assert.Error(t, err)
	assert.Equal(t, s, next)
}

func TestOverview_MatchesStatsRule(t *testing.T) {
	s := State{Activities: []models.Activity{
		{ID: "1", ActivityType: models.ActivityTypeTaskAssignment, Status: models.StatusPending, Priority: models.PriorityHigh},
		{ID: "2", ActivityType: models.ActivityTypeBinEmptied, Status: models.StatusDone, Priority: models.PriorityMedium},
		{ID: "3", ActivityType: models.ActivityTypeMaintenance, Status: models.StatusInProgress, Priority: models.PriorityLow},
		{ID: "4", ActivityType: models.ActivityTypeBinAlert, Status: models.StatusInProgress, Priority: models.PriorityUrgent},
	}}

	o := s.Overview()
	assert.Equal(t, models.ActivityStats{Alerts: 2, InProgress: 2, Collections: 1, Maintenance: 1}, o.ActivityStats)
	assert.Equal(t, 4, o.Activities)
	assert.Equal(t, 0, o.Unread)
}

// Package dashboard folds realtime events into the view a dashboard client holds.
package dashboard

import (
	"encoding/json"
	"fmt"

	"ecobin-backend/internal/events"
	"ecobin-backend/internal/models"
)

// State is what a connected dashboard shows. Newest entries come first.
type State struct {
	Activities    []models.Activity
	Notifications []models.Notification
}

// Overview is the card summary derived from the local state
type Overview struct {
	models.ActivityStats
	Activities int `json:"activities"`
	Unread     int `json:"unread"`
}

// Reduce applies one event and returns the next state. The input state is
// never modified. Unknown event types leave the state as it was.
func Reduce(s State, ev events.Envelope) (State, error) {
	switch ev.Type {
	case events.NewActivity:
		var a models.Activity
		if err := decode(ev, &a); err != nil {
			return s, err
		}
		s.Activities = prepend(s.Activities, a)

	case events.ActivityUpdated:
		var a models.Activity
		if err := decode(ev, &a); err != nil {
			return s, err
		}
		s.Activities = replaceActivity(s.Activities, a)

	case events.ActivityDeleted:
		var p events.IDPayload
		if err := decode(ev, &p); err != nil {
			return s, err
		}
		s.Activities = without(s.Activities, func(a models.Activity) bool { return a.ID == p.ID })

	case events.NewNotification:
		var n models.Notification
		if err := decode(ev, &n); err != nil {
			return s, err
		}
		s.Notifications = prepend(s.Notifications, n)

	case events.NotificationRead:
		var p events.IDPayload
		if err := decode(ev, &p); err != nil {
			return s, err
		}
		s.Notifications = markRead(s.Notifications, func(n models.Notification) bool { return n.ID == p.ID })

	case events.AllNotificationsRead:
		s.Notifications = markRead(s.Notifications, func(models.Notification) bool { return true })

	case events.NotificationDeleted:
		var p events.IDPayload
		if err := decode(ev, &p); err != nil {
			return s, err
		}
		s.Notifications = without(s.Notifications, func(n models.Notification) bool { return n.ID == p.ID })
	}
	return s, nil
}

// Overview counts the cards the same way the stats endpoint does
func (s State) Overview() Overview {
	o := Overview{
		ActivityStats: models.Stats(s.Activities),
		Activities:    len(s.Activities),
	}
	for _, n := range s.Notifications {
		if !n.ReadStatus {
			o.Unread++
		}
	}
	return o
}

func decode(ev events.Envelope, v interface{}) error {
	if err := json.Unmarshal(ev.Data, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", ev.Type, err)
	}
	return nil
}

func prepend[T any](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, item)
	return append(out, list...)
}

func without[T any](list []T, drop func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, item := range list {
		if !drop(item) {
			out = append(out, item)
		}
	}
	return out
}

// replaceActivity swaps in the updated record. Updates for activities the
// client never saw are ignored.
func replaceActivity(list []models.Activity, updated models.Activity) []models.Activity {
	out := make([]models.Activity, len(list))
	copy(out, list)
	for i := range out {
		if out[i].ID == updated.ID {
			out[i] = updated
			return out
		}
	}
	return list
}

func markRead(list []models.Notification, match func(models.Notification) bool) []models.Notification {
	out := make([]models.Notification, len(list))
	for i, n := range list {
		if match(n) {
			n.ReadStatus = true
		}
		out[i] = n
	}
	return out
}

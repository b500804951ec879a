package events

import (
	"encoding/json"
	"errors"
)

// Event names pushed to dashboard clients
const (
	NewActivity          = "newActivity"
	ActivityUpdated      = "activityUpdated"
	ActivityDeleted      = "activityDeleted"
	NewNotification      = "newNotification"
	NotificationRead     = "notificationRead"
	AllNotificationsRead = "allNotificationsRead"
	NotificationDeleted  = "notificationDeleted"
)

// Envelope is the wire shape of every realtime event
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// NewEnvelope encodes payload under the given event name
func NewEnvelope(event string, payload interface{}) (Envelope, error) {
	if event == "" {
		return Envelope{}, errors.New("event name is required")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: event, Data: data}, nil
}

// IDPayload identifies the affected record. Message carries the REST
// response text when the event mirrors one.
type IDPayload struct {
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
}

// CountPayload reports a mutation over many records
type CountPayload struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

// Publisher delivers an event on a best-effort basis. Publish never blocks
// on slow consumers and never reports failure to the caller.
type Publisher interface {
	Publish(event string, payload interface{})
}

// Fanout publishes every event to each of its publishers in order
type Fanout []Publisher

func (f Fanout) Publish(event string, payload interface{}) {
	for _, p := range f {
		if p != nil {
			p.Publish(event, payload)
		}
	}
}

// Discard drops every event
type Discard struct{}

func (Discard) Publish(string, interface{}) {}

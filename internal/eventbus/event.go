package eventbus

import (
	"errors"
	"time"

	"github.com/grachmannico95/finsync/internal/domain"
)

type EventType string

const (
	EventTypeNotification EventType = "notification"
)

// ErrInvalidPayload marks an event no consumer retry can fix.
var ErrInvalidPayload = errors.New("invalid event payload")

type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type NotificationEvent struct {
	Notification domain.Notification `json:"notification"`
}

func NewNotificationEvent(n domain.Notification) Event {
	return Event{
		ID:        n.ID,
		Type:      EventTypeNotification,
		Payload:   NotificationEvent{Notification: n},
		Timestamp: n.CreatedAt,
	}
}

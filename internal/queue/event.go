// Package queue carries reference data refresh events between service
// instances over RabbitMQ.
package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// RefreshRequestedEvent asks every instance to reload its reference
// snapshot.  Origin identifies the publishing instance, which has already
// refreshed and ignores its own event.
type RefreshRequestedEvent struct {
	Origin      string `json:"origin"`
	RequestedBy string `json:"requested_by"`
	Reason      string `json:"reason,omitempty"`
	RequestedAt string `json:"requested_at"`
}

// NewRefreshRequested stamps an event with the current UTC time.
func NewRefreshRequested(origin, requestedBy, reason string) RefreshRequestedEvent {
	return RefreshRequestedEvent{
		Origin:      origin,
		RequestedBy: requestedBy,
		Reason:      reason,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func decodeRefreshRequested(body []byte) (RefreshRequestedEvent, error) {
	var ev RefreshRequestedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Origin == "" {
		return ev, fmt.Errorf("event without origin")
	}
	return ev, nil
}

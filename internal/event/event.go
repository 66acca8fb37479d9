// Package event publishes reservation lifecycle notifications.
package event

import (
	"context"
	"time"
)

// Type names a reservation lifecycle event. It doubles as the Kafka event_type header.
type Type string

const (
	TypeReservationCreated Type = "reservation.created"
	TypeReservationUpdated Type = "reservation.updated"
	TypeReservationDeleted Type = "reservation.deleted"
)

// Event is the payload written for every reservation change.
type Event struct {
	ID            string    `json:"event_id"`
	Type          Type      `json:"event_type"`
	ReservationID string    `json:"reservation_id"`
	ResourceID    string    `json:"resource_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher delivers events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }

package events

import (
	"context"
	"time"
)

// Event types emitted by the workflow engines and services.
const (
	TypeSessionStarted        = "SESSION_STARTED"
	TypeSessionAdvanced       = "SESSION_ADVANCED"
	TypeSessionRefined        = "SESSION_REFINED"
	TypeSessionCompleted      = "SESSION_COMPLETED"
	TypeStepFailed            = "STEP_FAILED"
	TypeQuestionPoolGenerated = "QUESTION_POOL_GENERATED"
	TypeOptimizationGenerated = "OPTIMIZATION_GENERATED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_STARTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher delivers events somewhere: the in-process bus or NATS.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// BaseEvent is the concrete event used throughout the service.
type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurredAt"`
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }

package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventAdvance   EventType = "advance"
	EventComplete  EventType = "complete"
	EventInterrupt EventType = "interrupt"
	EventFailure   EventType = "failure"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	URL       string    `json:"url"`
}

// StepEvent reports one state advance.
type StepEvent struct {
	EventBase
	From     string        `json:"from"`
	To       string        `json:"to,omitempty"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// InterruptEvent reports that an interrupt condition locked the cache.
type InterruptEvent struct {
	EventBase
	// Condition is the registry index of the condition that fired.
	Condition int    `json:"condition"`
	State     string `json:"state"`
}

// Event is a flattened record of either kind, suitable for journals.
type Event struct {
	EventBase
	From      string        `json:"from,omitempty"`
	To        string        `json:"to,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Error     string        `json:"error,omitempty"`
	Condition *int          `json:"condition,omitempty"`
}

// Event flattens e.
func (e *StepEvent) Event() Event {
	return Event{
		EventBase: e.EventBase,
		From:      e.From,
		To:        e.To,
		Duration:  e.Duration,
		Error:     e.Error,
	}
}

// Event flattens e.
func (e *InterruptEvent) Event() Event {
	idx := e.Condition
	return Event{
		EventBase: e.EventBase,
		From:      e.State,
		Condition: &idx,
	}
}

// LifecycleHooks defines callbacks for cache observability.
type LifecycleHooks struct {
	OnStep      func(context.Context, *StepEvent)
	OnInterrupt func(context.Context, *InterruptEvent)
}

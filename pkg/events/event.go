// Package events holds the domain event contract shared by use cases and
// the broker adapters.
package events

import (
	"context"
	"time"
)

type Event interface {
	GetName() string
	GetDateTime() time.Time
	GetPayload() interface{}
	SetPayload(payload interface{})
}

// EventDispatcher hands an event to whatever transport is configured.
// Implementations must be safe for concurrent use.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event Event) error
}

// Base is a named event carrying a JSON-serializable payload.
type Base struct {
	Name     string
	DateTime time.Time
	Payload  interface{}
}

func New(name string) *Base {
	return &Base{Name: name, DateTime: time.Now().UTC()}
}

func (e *Base) GetName() string {
	return e.Name
}

func (e *Base) GetDateTime() time.Time {
	return e.DateTime
}

func (e *Base) GetPayload() interface{} {
	return e.Payload
}

func (e *Base) SetPayload(payload interface{}) {
	e.Payload = payload
}

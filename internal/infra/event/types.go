package event

import (
	"context"
	"errors"
)

type MessageHandler func(ctx context.Context, msg []byte, headers map[string]interface{}) error

// ErrPoisonMessage marks a message that can never be handled, such as an
// undecodable body. Wrappers stop retrying it.
var ErrPoisonMessage = errors.New("poison message")

const (
	HeaderEventID   = "x-event-id"
	HeaderEventName = "x-event-name"
)

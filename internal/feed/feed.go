package feed

import (
	"context"
	"time"
)

// Message is one inbound channel message.
type Message struct {
	ID        int64
	ChatID    int64
	ChatTitle string
	Text      string
	Timestamp time.Time
}

// Handler processes one message. The source invokes it synchronously:
// the next message is not delivered until the handler returns, so
// signals are processed strictly in arrival order.
type Handler func(ctx context.Context, msg Message)

// MessageSource delivers channel messages to a handler until the
// context is cancelled.
type MessageSource interface {
	Run(ctx context.Context, handler Handler) error
}

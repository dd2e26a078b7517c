package bus

import (
	"sync"
	"sync/atomic"
	"time"
)

// MessageType represents the type of pipeline bus message.
type MessageType string

const (
	MessageEventReceived    MessageType = "event_received"
	MessageHandlerCompleted MessageType = "handler_completed"
	MessageHandlerSkipped   MessageType = "handler_skipped"
	MessageEventProcessed   MessageType = "event_processed"
	MessageRetryScheduled   MessageType = "retry_scheduled"
	MessageEventAbandoned   MessageType = "event_abandoned"
)

// Message is published to the Bus as the pipeline makes progress on an event.
type Message struct {
	ID          uint64            `json:"id"`
	Type        MessageType       `json:"type"`
	EventID     string            `json:"event_id"`
	EventType   string            `json:"event_type"`
	HandlerName string            `json:"handler_name,omitempty"`
	Attempt     int               `json:"attempt,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Properties  map[string]string `json:"properties,omitempty"`
}

const subscriberBufferSize = 64

// Bus is an in-memory pub/sub bus for broadcasting pipeline progress to SSE clients.
type Bus struct {
	nextID      atomic.Uint64
	mu          sync.RWMutex
	subscribers map[chan Message]struct{}
}

// New creates a new Bus.
func New() *Bus {
	return &Bus{
		subscribers: make(map[chan Message]struct{}),
	}
}

// Subscribe returns a buffered channel that receives bus messages and an
// unsubscribe function. The caller must call unsubscribe when done.
func (b *Bus) Subscribe() (<-chan Message, func()) {
	ch := make(chan Message, subscriberBufferSize)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		delete(b.subscribers, ch)
		b.mu.Unlock()
	}

	return ch, unsubscribe
}

// Publish sends a message to all subscribers with a non-blocking send.
// Slow consumers that have full buffers will miss messages.
func (b *Bus) Publish(msg Message) {
	msg.ID = b.nextID.Add(1)
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
			// Drop message for slow consumer
		}
	}
}

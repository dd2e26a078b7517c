package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher fans billing events out to a Kafka topic for downstream
// analytics. Best-effort by design: it runs in a non-transactional handler
// and failures are retried through the normal event retry schedule.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher returns nil when no brokers are configured, which disables
// the analytics handler entirely.
func NewPublisher(brokers []string, topic string) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           100 * time.Millisecond,
		},
	}
}

// pingMessage is the analytics record for one billing event.
type pingMessage struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	ObservedAt time.Time `json:"observed_at"`
}

// Publish writes one analytics record. Keyed by event type so a topic
// consumer sees per-type ordering.
func (p *Publisher) Publish(ctx context.Context, eventID, eventType string) error {
	body, err := json.Marshal(pingMessage{
		EventID:    eventID,
		EventType:  eventType,
		ObservedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(eventType),
		Value: body,
	}); err != nil {
		return fmt.Errorf("publish analytics ping: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// MessagePublisher publishes accepted payment requests onto the primary
// payment topic. The key should be the purchase order ID so all entries of
// one order land on the same partition.
type MessagePublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// DeadLetterPublisher routes messages the processor could not even decode to
// the dead letter topic, preserving the raw payload alongside the reason.
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, payload []byte, reason string) error
	Close() error
}

// KafkaWriter is the subset of kafka.Writer the producers depend on,
// extracted so tests can substitute a fake.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

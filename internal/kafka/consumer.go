package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Consumer reads plan notification events for the email worker. Decoding
// happens here so a malformed message is logged and skipped instead of
// wedging the group on redelivery.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume blocks, delivering each decoded PlanEvent to handler. A handler
// error stops consumption; a decode failure does not.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, PlanEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}
		if err := dispatch(ctx, msg, handler); err != nil {
			return err
		}
	}
}

func dispatch(ctx context.Context, msg kafka.Message, handler func(context.Context, PlanEvent) error) error {
	var event PlanEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Printf("skip malformed plan event at offset %d: %v", msg.Offset, err)
		return nil
	}
	return handler(ctx, event)
}

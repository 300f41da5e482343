package lib

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"travl/src/config"
	"travl/src/types"

	"github.com/google/uuid"
)

// EventPublisher delivers booking lifecycle events to whatever broker is configured.
type EventPublisher interface {
	Publish(ctx context.Context, event types.BookingEvent) error
}

func NewBookingEvent(t types.BookingEventType, b types.BookingRecord) types.BookingEvent {
	return types.BookingEvent{
		ID:         uuid.NewString(),
		Type:       t,
		Booking:    b,
		OccurredAt: time.Now().UTC(),
	}
}

// LogPublisher only records events in the server log.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, event types.BookingEvent) error {
	log.Printf("[BookingEvent] %s %s\n", event.Type, event.Booking.ID)
	return nil
}

type SQSPublisher struct {
	queue  string
	client SQSAPI
}

func NewSQSPublisher(queue string, client SQSAPI) *SQSPublisher {
	return &SQSPublisher{queue: queue, client: client}
}

func (s *SQSPublisher) Publish(ctx context.Context, event types.BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return SQSProduceMessage(ctx, s.client, s.queue, string(body))
}

// NewEventPublisher picks the publisher for EVENTS_BROKER. Unknown or failing brokers fall back to LogPublisher.
func NewEventPublisher(c *config.Config) EventPublisher {
	switch c.Events.Broker {
	case "kafka":
		p, err := NewKafkaPublisher(c.Events.Kafka, c.ServiceName, c.Events.Topic)
		if err != nil {
			log.Printf("[Events] Kafka unavailable, logging events only: %s\n", err.Error())
			return LogPublisher{}
		}
		return p
	case "sqs":
		client := AWSGetSQSClient()
		if client == nil {
			log.Println("[Events] SQS unavailable, logging events only")
			return LogPublisher{}
		}
		return NewSQSPublisher(c.Events.Queue, client)
	}
	return LogPublisher{}
}

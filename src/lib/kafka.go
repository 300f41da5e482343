package lib

import (
	"context"
	"encoding/json"
	"log"

	"travl/src/types"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

func GetKafkaProducerConfig(broker, clientId string) *kafka.ConfigMap {
	return &kafka.ConfigMap{
		"bootstrap.servers": broker,
		"client.id":         clientId,
		"acks":              "all",
	}
}

func GetKafkaConsumerConfig(broker, groupId string) *kafka.ConfigMap {
	return &kafka.ConfigMap{
		"bootstrap.servers": broker,
		"group.id":          groupId,
		"auto.offset.reset": "smallest",
		"retry.backoff.ms":  100,
	}
}

// KafkaConsumer polls topic in the background and hands each message value to handler until ctx is done.
func KafkaConsumer(ctx context.Context, broker, groupId, topic string, handler types.Handler) error {
	log.Printf("Initializing kafka Consumer for %s...\n", topic)
	consumer, err := kafka.NewConsumer(GetKafkaConsumerConfig(broker, groupId))
	if err != nil {
		log.Printf("Error on consumer: %s\n", err.Error())
		return err
	}
	if err = consumer.SubscribeTopics([]string{topic}, nil); err != nil {
		log.Printf("Error subscribing to %s: %s\n", topic, err.Error())
		consumer.Close()
		return err
	}
	go func() {
		defer consumer.Close()
		log.Printf("[BACKGROUND]: waiting for messages on %s...\n", topic)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			switch e := consumer.Poll(100).(type) {
			case *kafka.Message:
				go handler(string(e.Value))
			case kafka.Error:
				log.Printf("[Kafka] %s\n", e.Error())
				if e.IsFatal() {
					return
				}
			}
		}
	}()
	return nil
}

// KafkaPublisher sends booking events to a single topic through one long-lived producer.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaPublisher(broker, clientId, topic string) (*KafkaPublisher, error) {
	p, err := kafka.NewProducer(GetKafkaProducerConfig(broker, clientId))
	if err != nil {
		log.Printf("Error on producer: %s\n", err.Error())
		return nil, err
	}
	go func() {
		for e := range p.Events() {
			if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
				log.Printf("[Kafka] Delivery failed: %s\n", m.TopicPartition.Error.Error())
			}
		}
	}()
	return &KafkaPublisher{producer: p, topic: topic}, nil
}

func (k *KafkaPublisher) Publish(ctx context.Context, event types.BookingEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.Booking.ID),
		Value:          value,
	}, nil)
}

func (k *KafkaPublisher) Close() {
	k.producer.Flush(5000)
	k.producer.Close()
}

func KafkaCreateTopics(ctx context.Context, broker string, topics ...string) ([]kafka.TopicResult, error) {
	a, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": broker,
	})
	if err != nil {
		log.Printf("Error on AdminClient: %s\n", err.Error())
		return nil, err
	}
	defer a.Close()
	topicsDef := []kafka.TopicSpecification{}
	for _, topic := range topics {
		topicsDef = append(topicsDef, kafka.TopicSpecification{
			Topic:         topic,
			NumPartitions: 10,
		})
	}
	result, err := a.CreateTopics(ctx, topicsDef)
	if err != nil {
		log.Printf("Error creating topics: %s\n", err.Error())
		return nil, err
	}
	return result, nil
}

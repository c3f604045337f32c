package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// Publisher is the contract the reservation flow publishes through.
// Publishing is best-effort: a broker outage must never fail a booking.
type Publisher interface {
	PublishReservationEvent(ctx context.Context, event *ReservationEvent) error
	Close() error
}

// ProducerConfig contains configuration for the Kafka event producer
type ProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultProducerConfig returns a default producer configuration
func DefaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "reservation-events",
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

// KafkaPublisher publishes reservation events to Kafka
type KafkaPublisher struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
}

// NewKafkaPublisher creates a new Kafka reservation event publisher
func NewKafkaPublisher(config *ProducerConfig) (Publisher, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps each user's events on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Printf("📤 Kafka reservation event producer created")
	return &KafkaPublisher{
		producer: producer,
		config:   config,
	}, nil
}

func (p *KafkaPublisher) PublishReservationEvent(ctx context.Context, event *ReservationEvent) error {
	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal reservation event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.Topic,
		Key:       sarama.StringEncoder(event.PartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   p.createHeaders(event),
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send reservation event to Kafka: %w", err)
	}

	log.Printf("📤 Reservation event published - Topic: %s, Partition: %d, Offset: %d, Type: %s",
		p.config.Topic, partition, offset, event.Type)
	return nil
}

func (p *KafkaPublisher) createHeaders(event *ReservationEvent) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("event_id"), Value: []byte(event.ID.String())},
		{Key: []byte("event_type"), Value: []byte(event.Type)},
		{Key: []byte("reservation_id"), Value: []byte(event.ReservationID.String())},
		{Key: []byte("user_id"), Value: []byte(event.UserID.String())},
		{Key: []byte("producer"), Value: []byte("studyroom-bookings")},
		{Key: []byte("occurred_at"), Value: []byte(event.OccurredAt.Format(time.RFC3339))},
	}
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		log.Printf("📤 Kafka reservation event producer closed")
	}
	return nil
}

// NoopPublisher drops every event. Used when the broker is disabled.
type NoopPublisher struct{}

func NewNoopPublisher() Publisher {
	return &NoopPublisher{}
}

func (NoopPublisher) PublishReservationEvent(ctx context.Context, event *ReservationEvent) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}

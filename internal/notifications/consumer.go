package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

// Deliverer turns a reservation event into a user-facing notification
// (mail, push, in-app). The default implementation just logs.
type Deliverer interface {
	Deliver(ctx context.Context, event *ReservationEvent) error
}

type Consumer interface {
	StartConsumers(ctx context.Context, numWorkers int) error
	Stop() error
}

type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeoutMs     int
	HeartbeatMs          int
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              []string{"localhost:9092"},
		GroupID:              "studyroom-notification-workers",
		Topics:               []string{"reservation-events"},
		SessionTimeoutMs:     30000,
		HeartbeatMs:          3000,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
	}
}

type KafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	deliverer     Deliverer
	cancel        context.CancelFunc
}

func NewKafkaConsumer(config *ConsumerConfig, deliverer Deliverer) (Consumer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		deliverer:     deliverer,
	}, nil
}

func (kc *KafkaConsumer) StartConsumers(ctx context.Context, numWorkers int) error {
	log.Printf("📥 Starting %d notification workers for topics: %v", numWorkers, kc.config.Topics)

	ctx, kc.cancel = context.WithCancel(ctx)

	go kc.handleErrors()

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			kc.runWorker(ctx, workerID)
		}(i)
	}

	return nil
}

func (kc *KafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &groupHandler{
		workerID:  workerID,
		deliverer: kc.deliverer,
		config:    kc.config,
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("📥 Worker %d shutting down", workerID)
			return
		default:
			if err := kc.consumerGroup.Consume(ctx, kc.config.Topics, handler); err != nil {
				log.Printf("📥 Worker %d error consuming messages: %v", workerID, err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (kc *KafkaConsumer) handleErrors() {
	for err := range kc.consumerGroup.Errors() {
		log.Printf("📥 Consumer group error: %v", err)
	}
}

func (kc *KafkaConsumer) Stop() error {
	log.Println("📥 Stopping notification consumer...")
	if kc.cancel != nil {
		kc.cancel()
	}

	if err := kc.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}

	log.Println("📥 Notification consumer stopped")
	return nil
}

type groupHandler struct {
	workerID  int
	deliverer Deliverer
	config    *ConsumerConfig
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Printf("📥 Worker %d: consumer group session started", h.workerID)
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Printf("📥 Worker %d: consumer group session ended", h.workerID)
	return nil
}

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			if err := h.processMessage(session.Context(), message); err != nil {
				log.Printf("📥 Worker %d: error processing message: %v", h.workerID, err)
			} else {
				session.MarkMessage(message, "")
			}

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *groupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var event ReservationEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal reservation event: %w", err)
	}

	return h.deliverWithRetry(ctx, &event)
}

func (h *groupHandler) deliverWithRetry(ctx context.Context, event *ReservationEvent) error {
	backoff := h.config.RetryBackoffDuration

	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		err := h.deliverer.Deliver(ctx, event)
		if err == nil {
			return nil
		}

		if attempt == h.config.MaxRetries {
			return fmt.Errorf("delivery failed after %d attempts: %w", h.config.MaxRetries, err)
		}

		delay := backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// LogDeliverer is the default delivery channel: it writes a human-readable
// line for every event. Real channels (mail, push) implement Deliverer.
type LogDeliverer struct{}

func NewLogDeliverer() Deliverer {
	return &LogDeliverer{}
}

func (LogDeliverer) Deliver(ctx context.Context, event *ReservationEvent) error {
	log.Printf("🔔 [%s] reservation %s for user %s (seat %s, %s - %s)",
		event.Type, event.ReservationID, event.UserID, event.SeatID,
		event.StartTime.Format(time.RFC3339), event.EndTime.Format(time.RFC3339))
	return nil
}

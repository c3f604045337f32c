package notifications

import (
	"context"
	"log"

	"github.com/kkkhs/study-room-booking/internal/shared/config"
)

// Service wires the producer and consumer sides together from config.
// When Kafka is disabled the publisher degrades to a no-op so the rest
// of the system is unaffected.
type Service struct {
	Publisher Publisher
	consumer  Consumer
	workers   int
}

func NewService(cfg *config.Config) (*Service, error) {
	if !cfg.Kafka.Enabled {
		log.Println("🔕 Kafka disabled, reservation events will not be published")
		return &Service{Publisher: NewNoopPublisher()}, nil
	}

	producerConfig := DefaultProducerConfig()
	producerConfig.Brokers = cfg.Kafka.Brokers
	producerConfig.Topic = cfg.Kafka.NotificationTopic

	publisher, err := NewKafkaPublisher(producerConfig)
	if err != nil {
		return nil, err
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = cfg.Kafka.Brokers
	consumerConfig.GroupID = cfg.Kafka.ConsumerGroupID
	consumerConfig.Topics = []string{cfg.Kafka.NotificationTopic}

	consumer, err := NewKafkaConsumer(consumerConfig, NewLogDeliverer())
	if err != nil {
		publisher.Close()
		return nil, err
	}

	return &Service{
		Publisher: publisher,
		consumer:  consumer,
		workers:   cfg.Kafka.ConsumerWorkers,
	}, nil
}

func (s *Service) Start(ctx context.Context) error {
	if s.consumer == nil {
		return nil
	}
	return s.consumer.StartConsumers(ctx, s.workers)
}

func (s *Service) Stop() {
	if s.consumer != nil {
		if err := s.consumer.Stop(); err != nil {
			log.Printf("Error stopping notification consumer: %v", err)
		}
	}
	if s.Publisher != nil {
		if err := s.Publisher.Close(); err != nil {
			log.Printf("Error closing event publisher: %v", err)
		}
	}
}

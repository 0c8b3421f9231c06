package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const (
	TypeOrderPlaced = "order_placed"
	TypeUserLogin   = "user_login"
	TypeUserLogout  = "user_logout"
)

type Config struct {
	Brokers []string `json:"brokers"`
	Topic   string   `json:"topic"`
}

// Event is a storefront activity notification published to Kafka.
type Event struct {
	Type      string    `json:"type"`
	OrderID   int64     `json:"order_id,omitempty"`
	UserEmail string    `json:"user_email,omitempty"`
	Total     string    `json:"total,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher is what the services see; publishing is best effort and must never
// block a user-facing operation.
type Publisher interface {
	Publish(event Event)
}

// Nop drops every event. Used when no brokers are configured and in tests.
type Nop struct{}

func (Nop) Publish(Event) {}

// Sender buffers events on a channel and drains them to Kafka from a single
// goroutine. A full buffer drops the event rather than stalling the caller.
type Sender struct {
	cfg      Config
	log      *zap.Logger
	queue    chan Event
	stopCh   chan struct{}
	producer sarama.SyncProducer
}

func NewSender(cfg Config, log *zap.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		log:    log,
		queue:  make(chan Event, 64),
		stopCh: make(chan struct{}),
	}
}

func (s *Sender) Enabled() bool {
	return len(s.cfg.Brokers) > 0
}

func (s *Sender) Start(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(s.cfg.Brokers, config)
	if err != nil {
		return fmt.Errorf("failed to create kafka producer: %w", err)
	}
	s.producer = producer

	go func() {
		for {
			select {
			case <-s.stopCh:
				s.log.Info("stopping event publishing")
				return
			case event := <-s.queue:
				if err := s.send(event); err != nil {
					s.log.Warn("failed to publish event",
						zap.String("type", event.Type),
						zap.Error(err))
				}
			}
		}
	}()

	return nil
}

func (s *Sender) Stop(ctx context.Context) error {
	close(s.stopCh)
	if s.producer != nil {
		return s.producer.Close()
	}
	return nil
}

func (s *Sender) Publish(event Event) {
	if !s.Enabled() {
		return
	}
	select {
	case s.queue <- event:
	default:
		s.log.Warn("event queue full, dropping event", zap.String("type", event.Type))
	}
}

func (s *Sender) send(event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: s.cfg.Topic,
		Key:   sarama.StringEncoder(event.Type),
		Value: sarama.ByteEncoder(value),
	}

	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send kafka message: %w", err)
	}

	s.log.Debug("event published",
		zap.String("type", event.Type),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

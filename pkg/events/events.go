package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// BookingEventType names a booking lifecycle change
type BookingEventType string

const (
	BookingCreated     BookingEventType = "booking.created"
	BookingCancelled   BookingEventType = "booking.cancelled"
	BookingSeatChanged BookingEventType = "booking.seat_changed"
)

// BookingEvent is published after a booking mutation commits
type BookingEvent struct {
	EventID     string           `json:"eventId"`
	Type        BookingEventType `json:"type"`
	BookingID   int64            `json:"bookingId"`
	BookingCode string           `json:"bookingCode"`
	ScheduleID  int64            `json:"scheduleId"`
	SeatID      int64            `json:"seatId"`
	// PreviousSeatID is set on seat changes only
	PreviousSeatID int64     `json:"previousSeatId,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// Publisher sends booking events to downstream consumers
type Publisher interface {
	PublishBooking(ctx context.Context, event *BookingEvent) error
	Close() error
}

// NoopPublisher drops every event
type NoopPublisher struct{}

func (NoopPublisher) PublishBooking(ctx context.Context, event *BookingEvent) error { return nil }
func (NoopPublisher) Close() error { return nil }

// KafkaConfig contains configuration for the Kafka booking producer
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	RetryMax     int
	TimeoutMs    int
	RequiredAcks sarama.RequiredAcks
}

// DefaultKafkaConfig returns a default producer configuration
func DefaultKafkaConfig(brokers []string, topic string) *KafkaConfig {
	return &KafkaConfig{
		Brokers:      brokers,
		Topic:        topic,
		RetryMax:     3,
		TimeoutMs:    10000,
		RequiredAcks: sarama.WaitForAll,
	}
}

// SaramaConfig builds the sarama producer configuration
func (c *KafkaConfig) SaramaConfig() *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = c.RequiredAcks
	saramaConfig.Producer.Retry.Max = c.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(c.TimeoutMs) * time.Millisecond
	// Events of one booking land on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	return saramaConfig
}

// KafkaPublisher publishes booking events to a Kafka topic
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher connects a sync producer to the configured brokers
func NewKafkaPublisher(config *KafkaConfig) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(config.Brokers, config.SaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, config.Topic), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// PublishBooking sends one event keyed by booking id
func (p *KafkaPublisher) PublishBooking(ctx context.Context, event *BookingEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.BookingID, 10)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
			{Key: []byte("event_id"), Value: []byte(event.EventID)},
		},
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}
	return nil
}

// Close closes the underlying producer
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

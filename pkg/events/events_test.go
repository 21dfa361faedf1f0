package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisher(t *testing.T) {
	t.Run("Publishes JSON keyed by booking", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, nil)
		producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
			var event BookingEvent
			if err := json.Unmarshal(val, &event); err != nil {
				return err
			}
			if event.Type != BookingCreated || event.BookingID != 5 || event.SeatID != 12 {
				return errors.New("unexpected event payload")
			}
			if event.EventID == "" {
				return errors.New("missing event id")
			}
			return nil
		})

		publisher := NewKafkaPublisherWithProducer(producer, "booking-events")
		err := publisher.PublishBooking(context.Background(), &BookingEvent{
			Type:        BookingCreated,
			BookingID:   5,
			BookingCode: "6f1c7d0e-8a44-4c1b-9a55-6b2f0c1d2e3f",
			ScheduleID:  7,
			SeatID:      12,
		})
		require.NoError(t, err)
		require.NoError(t, publisher.Close())
	})

	t.Run("Send Failure", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, nil)
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

		publisher := NewKafkaPublisherWithProducer(producer, "booking-events")
		err := publisher.PublishBooking(context.Background(), &BookingEvent{Type: BookingCancelled, BookingID: 5})
		assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
		require.NoError(t, publisher.Close())
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, nil)
		publisher := NewKafkaPublisherWithProducer(producer, "booking-events")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, publisher.PublishBooking(ctx, &BookingEvent{Type: BookingCreated}), context.Canceled)
		require.NoError(t, publisher.Close())
	})
}

func TestSaramaConfig(t *testing.T) {
	cfg := DefaultKafkaConfig([]string{"localhost:9092"}, "booking-events").SaramaConfig()
	assert.True(t, cfg.Producer.Return.Successes)
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	assert.NoError(t, cfg.Validate())
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.PublishBooking(context.Background(), &BookingEvent{}))
	assert.NoError(t, p.Close())
}

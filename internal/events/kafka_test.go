package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaPublishEncodesEvent(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaPublisher{writer: w}
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), Event{
		Type:       BookingCreated,
		Key:        "place-1",
		OccurredAt: at,
		Payload:    map[string]string{"id": "b1"},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "place-1", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	assert.Equal(t, "booking.created", string(msg.Headers[0].Value))

	var decoded struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "booking.created", decoded.Type)
	assert.Equal(t, "b1", decoded.Payload["id"])
}

func TestKafkaPublishRequiresKey(t *testing.T) {
	p := &KafkaPublisher{writer: &recordingWriter{}}
	err := p.Publish(context.Background(), Event{Type: ReviewDeleted})
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestNewKafkaPublisherValidates(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "topic", nil)
	assert.Error(t, err)
	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "", nil)
	assert.Error(t, err)
}

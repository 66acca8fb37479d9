package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := newKafkaPublisherWithWriter(w, "reservations")

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	err := p.Publish(context.Background(), Event{
		Type:          TypeReservationCreated,
		ReservationID: "r-1",
		ResourceID:    "res-1",
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Status:        "pending",
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "res-1", string(msg.Key))
	assert.Equal(t, "reservation.created", header(msg, "event_type"))
	assert.NotEmpty(t, header(msg, "event_id"))

	var got Event
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "r-1", got.ReservationID)
	assert.Equal(t, header(msg, "event_id"), got.ID)
	assert.False(t, got.OccurredAt.IsZero())

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	p := newKafkaPublisherWithWriter(w, "reservations")

	err := p.Publish(context.Background(), Event{Type: TypeReservationDeleted})
	assert.ErrorContains(t, err, "broker down")
}

func TestNewKafkaPublisher_NoBrokers(t *testing.T) {
	p := NewKafkaPublisher(" , ", "reservations")
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), Event{}))
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitBrokers(" a:9092, ,b:9092 "))
	assert.Nil(t, SplitBrokers(""))
}

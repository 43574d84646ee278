package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goship/internal/domain"
	"goship/internal/pkg/logger"
)

// fakeWriter registra as mensagens escritas.
type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublish(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaProducerWithWriter(fw, logger.NewNop())

	ev := domain.ShipmentEvent{Type: domain.ShipmentEventDeleted, ShipmentID: "s-1", BrandID: "b-1"}
	require.NoError(t, p.Publish(context.Background(), "s-1", ev))
	require.Len(t, fw.msgs, 1)
	assert.Equal(t, "s-1", string(fw.msgs[0].Key))

	var decoded domain.ShipmentEvent
	require.NoError(t, json.Unmarshal(fw.msgs[0].Value, &decoded))
	assert.Equal(t, domain.ShipmentEventDeleted, decoded.Type)

	require.NoError(t, p.Close())
	assert.True(t, fw.closed)
}

func TestPublish_Errors(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker down")}
	p := NewKafkaProducerWithWriter(fw, logger.NewNop())

	err := p.Publish(context.Background(), "k", map[string]string{"a": "b"})
	assert.ErrorContains(t, err, "broker down")

	err = p.Publish(context.Background(), "k", make(chan int))
	assert.ErrorContains(t, err, "serializar")
}

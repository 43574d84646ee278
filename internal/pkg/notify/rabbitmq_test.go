package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	routingKey string
	declareErr error
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if f.declareErr != nil {
		return amqp.Queue{}, f.declareErr
	}
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.routingKey = key
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestRabbitNotifier_Notify(t *testing.T) {
	ch := &fakeChannel{}
	n, err := NewRabbitNotifierWithChannel(ch, "restock.alerts")
	require.NoError(t, err)
	assert.Equal(t, []string{"restock.alerts"}, ch.declared)

	require.NoError(t, n.Notify(context.Background(), map[string]int{"on_hand": 2}))
	require.Len(t, ch.published, 1)
	assert.Equal(t, "restock.alerts", ch.routingKey)
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)

	var body map[string]int
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &body))
	assert.Equal(t, 2, body["on_hand"])
	assert.NoError(t, n.Close())
}

func TestRabbitNotifier_DeclareFails(t *testing.T) {
	_, err := NewRabbitNotifierWithChannel(&fakeChannel{declareErr: errors.New("access refused")}, "q")
	assert.ErrorContains(t, err, "access refused")
}

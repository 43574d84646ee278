// Package notify publica notificações (alertas de reposição) numa fila RabbitMQ.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel é o subconjunto do *amqp.Channel que usamos.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Notifier publica mensagens JSON numa fila.
type Notifier interface {
	Notify(ctx context.Context, payload interface{}) error
	Close() error
}

// RabbitNotifier publica em uma fila durável com mensagens persistentes.
type RabbitNotifier struct {
	conn  *amqp.Connection
	chn   Channel
	queue string
}

// NewRabbitNotifier conecta, abre um canal e declara a fila.
func NewRabbitNotifier(url, queue string) (*RabbitNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no RabbitMQ: %w", err)
	}
	chn, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("falha ao abrir canal RabbitMQ: %w", err)
	}
	n, err := NewRabbitNotifierWithChannel(chn, queue)
	if err != nil {
		conn.Close()
		return nil, err
	}
	n.conn = conn
	return n, nil
}

// NewRabbitNotifierWithChannel declara a fila num canal existente (injeção em testes).
func NewRabbitNotifierWithChannel(chn Channel, queue string) (*RabbitNotifier, error) {
	if _, err := chn.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return nil, fmt.Errorf("falha ao declarar fila %s: %w", queue, err)
	}
	return &RabbitNotifier{chn: chn, queue: queue}, nil
}

// Notify serializa payload e publica na fila (exchange padrão, routing key = fila).
func (n *RabbitNotifier) Notify(ctx context.Context, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("falha ao serializar notificação: %w", err)
	}
	return n.chn.PublishWithContext(ctx,
		"",      // exchange
		n.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Close fecha canal e conexão.
func (n *RabbitNotifier) Close() error {
	if err := n.chn.Close(); err != nil {
		return err
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}

// NopNotifier descarta notificações (RabbitMQ indisponível).
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, payload interface{}) error { return nil }
func (NopNotifier) Close() error                                         { return nil }

// Package events publica eventos de domínio no Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"goship/internal/pkg/logger"
)

// Writer é o subconjunto do kafka.Writer que usamos (permite injetar um fake nos testes).
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher é a interface usada pelos serviços para publicar eventos.
type Publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// KafkaProducer serializa eventos em JSON e os escreve num tópico.
type KafkaProducer struct {
	writer Writer
	log    logger.Logger
}

// NewKafkaProducer cria um produtor real para broker/tópico.
// Mensagens com a mesma chave (id da remessa) caem na mesma partição.
func NewKafkaProducer(brokerURL, topic string, log logger.Logger) *KafkaProducer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokerURL),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
	}
	return &KafkaProducer{writer: w, log: log}
}

// NewKafkaProducerWithWriter permite injetar um writer de teste.
func NewKafkaProducerWithWriter(w Writer, log logger.Logger) *KafkaProducer {
	return &KafkaProducer{writer: w, log: log}
}

// Publish serializa value em JSON e escreve uma mensagem com a chave informada.
func (p *KafkaProducer) Publish(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("falha ao serializar evento kafka: %w", err)
	}

	msg := kafka.Message{Key: []byte(key), Value: b, Time: time.Now().UTC()}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("falha ao escrever no kafka: %w", err)
	}

	p.log.Debug("Evento publicado no Kafka.", map[string]interface{}{"key": key, "bytes": len(b)})
	return nil
}

// Close fecha o writer subjacente.
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// NopPublisher descarta eventos (Kafka desabilitado).
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, key string, value interface{}) error { return nil }
func (NopPublisher) Close() error                                                   { return nil }

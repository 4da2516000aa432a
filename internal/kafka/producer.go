package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/internal/ports"
	"github.com/Gunvolt24/techshop/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

var (
	_ ports.EventPublisher = (*Publisher)(nil)
	_ ports.EventPublisher = NoopPublisher{}
)

// writer — минимальный контракт над kafka.Writer.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ProducerConfig — параметры публикации событий заказов.
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// Writer — синхронный kafka.Writer: Publish возвращается после подтверждения
// брокером. Ключ сообщения — id заказа, события одного заказа идут в одну партицию.
func (c *ProducerConfig) Writer() *kafka.Writer {
	wt := c.WriteTimeout
	if wt <= 0 {
		wt = 5 * time.Second
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        c.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: wt,
	}
}

// Publisher — события жизненного цикла заказа в Kafka.
type Publisher struct {
	writer    writer
	topic     string
	log       ports.Logger
	closeOnce sync.Once
}

func NewPublisher(cfg *ProducerConfig, log ports.Logger) *Publisher {
	return &Publisher{writer: cfg.Writer(), topic: cfg.Topic, log: log}
}

// Publish — одно сообщение на событие; тип события дублируется в заголовке.
func (p *Publisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:     []byte(strconv.FormatInt(event.OrderID, 10)),
		Value:   raw,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(event.Type)}},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		metrics.KafkaMessagesPublished.WithLabelValues(p.topic, "error").Inc()
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	metrics.KafkaMessagesPublished.WithLabelValues(p.topic, "ok").Inc()
	p.log.Infof(ctx, "event published type=%s order_id=%d topic=%s", event.Type, event.OrderID, p.topic)
	return nil
}

func (p *Publisher) Close() (retErr error) {
	p.closeOnce.Do(func() {
		retErr = p.writer.Close()
	})
	return retErr
}

// NoopPublisher — когда Kafka выключена: события просто отбрасываются.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.OrderEvent) error { return nil }
func (NoopPublisher) Close() error                                     { return nil }

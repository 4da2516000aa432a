package kafka

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/Gunvolt24/techshop/internal/ports"
	"github.com/Gunvolt24/techshop/internal/usecase"
	"github.com/Gunvolt24/techshop/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

var _ ports.MessageConsumer = (*Consumer)(nil)

// reader — то, что нужно консьюмеру от kafka.Reader (подменяется моком в тестах).
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// messageHandler — разбор события обновления товаров и сброс их карточек в кэше.
type messageHandler interface {
	InvalidateFromMessage(ctx context.Context, raw []byte) error
}

// Consumer — читатель топика обновлений товаров.
type Consumer struct {
	reader         reader
	handler        messageHandler
	log            ports.Logger
	processTimeout time.Duration
	retryInitial   time.Duration
	retryMax       time.Duration
	maxAttempts    int
	jitterRand     *rand.Rand
	closeOnce      sync.Once
}

// NewConsumer — консьюмер с ручным коммитом оффсетов.
func NewConsumer(cfg *ConsumerConfig, handler messageHandler, log ports.Logger) *Consumer {
	return &Consumer{
		reader:         kafka.NewReader(cfg.ReaderConfig()),
		handler:        handler,
		log:            log,
		processTimeout: positiveOr(cfg.ProcessTimeout, 5*time.Second),
		retryInitial:   positiveOr(cfg.RetryInitial, time.Second),
		retryMax:       positiveOr(cfg.RetryMax, 30*time.Second),
		maxAttempts:    cfg.MaxAttempts,
		jitterRand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run — цикл чтения:
//   - сообщение обработано или нечитаемо: коммит оффсета;
//   - временная ошибка: повтор того же сообщения с backoff без коммита;
//   - после MaxAttempts неудач (если задано) сообщение пропускается с коммитом.
//
// При отмене ctx во время повторов оффсет не коммитится и сообщение придёт
// снова после рестарта. Сброс карточек идемпотентен.
func (c *Consumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.log.Infof(ctx, "product updates consumer started topic=%s group_id=%s brokers=%v", rc.Topic, rc.GroupID, rc.Brokers)

	fetchWait := c.newBackoff()
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			d := fetchWait.next()
			c.log.Warnf(ctx, "fetch failed: %v (will retry in %s)", err, d)
			if !sleepCtx(ctx, d) {
				return ctx.Err()
			}
			continue
		}
		fetchWait.reset()
		metrics.KafkaMessagesConsumed.WithLabelValues(rc.Topic).Inc()

		if err := c.process(ctx, rc.Topic, msg); err != nil {
			return err
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Warnf(ctx, "commit failed offset=%d: %v", msg.Offset, err)
		}
	}
}

// process — обработка одного сообщения с повторами. Ошибка только при отмене ctx.
func (c *Consumer) process(ctx context.Context, topic string, msg kafka.Message) error {
	wait := c.newBackoff()
	for attempt := 1; ; attempt++ {
		err := c.handleOnce(ctx, msg)
		if err == nil {
			metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
			return nil
		}
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()

		if errors.Is(err, usecase.ErrInvalidEvent) {
			c.log.Warnf(ctx, "invalid product update offset=%d: %v (skipped)", msg.Offset, err)
			return nil
		}
		if c.maxAttempts > 0 && attempt >= c.maxAttempts {
			c.log.Errorf(ctx, "product update dropped after %d attempts offset=%d: %v", attempt, msg.Offset, err)
			return nil
		}

		d := wait.next()
		c.log.Warnf(ctx, "process failed offset=%d attempt=%d: %v (retry in %s)", msg.Offset, attempt, err, d)
		if !sleepCtx(ctx, d) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) handleOnce(ctx context.Context, msg kafka.Message) error {
	ctx, cancel := context.WithTimeout(ctx, c.processTimeout)
	defer cancel()
	return c.handler.InvalidateFromMessage(ctx, msg.Value)
}

// Close — закрывает reader; повторные вызовы ничего не делают.
func (c *Consumer) Close() (retErr error) {
	c.closeOnce.Do(func() {
		retErr = c.reader.Close()
	})
	return retErr
}

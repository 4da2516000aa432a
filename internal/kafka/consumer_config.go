package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// ConsumerConfig — параметры чтения топика обновлений товаров.
type ConsumerConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	StartOffset string // "first" | "last" (по умолчанию)

	ProcessTimeout time.Duration
	RetryInitial   time.Duration
	RetryMax       time.Duration
	// MaxAttempts — сколько раз пробовать одно сообщение; 0 — пока не получится.
	MaxAttempts int
}

// ReaderConfig — kafka.Reader с ручным коммитом (CommitInterval 0).
// Без сохранённого оффсета группа читает с конца топика, если не задано "first":
// старые события обновлений для только что поднятого кэша не нужны.
func (c *ConsumerConfig) ReaderConfig() kafka.ReaderConfig {
	start := kafka.LastOffset
	if strings.EqualFold(strings.TrimSpace(c.StartOffset), "first") {
		start = kafka.FirstOffset
	}
	return kafka.ReaderConfig{
		Brokers:     c.Brokers,
		GroupID:     c.GroupID,
		Topic:       c.Topic,
		StartOffset: start,
	}
}

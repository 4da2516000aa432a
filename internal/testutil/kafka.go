//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

var topicUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// NewTopic — уникальный топик и группа консьюмеров для одного теста.
// name приводится к допустимым для Kafka символам (t.Name() содержит «/»).
// Топик создаётся с одной партицией; функция ждёт его появления в метаданных.
func NewTopic(ctx context.Context, brokers []string, name string) (topic, group string, err error) {
	if len(brokers) == 0 {
		return "", "", errors.New("no brokers")
	}
	topic = fmt.Sprintf("%s-%d", topicUnsafe.ReplaceAllString(name, "-"), time.Now().UnixNano())
	group = topic + "-g"

	client := &kafka.Client{Addr: kafka.TCP(brokerAddr(brokers[0])), Timeout: 10 * time.Second}

	resp, err := client.CreateTopics(ctx, &kafka.CreateTopicsRequest{
		Topics: []kafka.TopicConfig{{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}},
	})
	if err != nil {
		return "", "", fmt.Errorf("create topic %s: %w", topic, err)
	}
	if tErr := resp.Errors[topic]; tErr != nil && !errors.Is(tErr, kafka.TopicAlreadyExists) {
		return "", "", fmt.Errorf("create topic %s: %w", topic, tErr)
	}

	return topic, group, waitTopic(ctx, client, topic)
}

// brokerAddr — host:port без схемы (testcontainers отдаёт PLAINTEXT://host:port).
func brokerAddr(raw string) string {
	raw = strings.TrimSpace(strings.Split(raw, ",")[0])
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return u.Host
	}
	return raw
}

func waitTopic(ctx context.Context, client *kafka.Client, topic string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()

	var lastErr error
	for {
		meta, err := client.Metadata(ctx, &kafka.MetadataRequest{Topics: []string{topic}})
		if err == nil {
			for _, tm := range meta.Topics {
				if tm.Name == topic && tm.Error == nil && len(tm.Partitions) > 0 {
					return nil
				}
			}
			err = fmt.Errorf("no partitions yet")
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return fmt.Errorf("topic %q not ready: %w", topic, lastErr)
		case <-tick.C:
		}
	}
}

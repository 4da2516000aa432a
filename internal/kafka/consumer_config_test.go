package kafka_test

import (
	"testing"
	"time"

	mykafka "github.com/Gunvolt24/techshop/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func TestConsumerConfig_ReaderConfig(t *testing.T) {
	t.Parallel()

	offsets := map[string]int64{
		"first":     kafkago.FirstOffset,
		" FiRsT \n": kafkago.FirstOffset,
		"":          kafkago.LastOffset,
		"LAST":      kafkago.LastOffset,
		"earliest":  kafkago.LastOffset,
	}

	for raw, want := range offsets {
		cfg := mykafka.ConsumerConfig{
			Brokers:        []string{"k1:9092", "k2:9092"},
			Topic:          "product-updates",
			GroupID:        "techshop",
			StartOffset:    raw,
			ProcessTimeout: 3 * time.Second,
		}

		rc := cfg.ReaderConfig()
		require.Equal(t, want, rc.StartOffset, "start offset %q", raw)
		require.Equal(t, cfg.Brokers, rc.Brokers)
		require.Equal(t, "product-updates", rc.Topic)
		require.Equal(t, "techshop", rc.GroupID)
		require.Zero(t, rc.CommitInterval, "offsets are committed manually")
	}
}

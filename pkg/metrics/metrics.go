package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Kafka: события заказов (publish) и обновления товаров (consume).
var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
	KafkaMessagesPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_published_total",
			Help: "Number of order events published",
		},
		[]string{"topic", "result"}, // ok|error
	)
)

// Кэш карточек товаров.
var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_cache_operations_total",
			Help: "Product cache operations",
		},
		[]string{"op"}, // hit|miss|evicted|expired|invalidated
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "product_cache_size",
			Help: "Number of products currently in cache",
		},
	)
)

// Внешнее API магазина.
var (
	ShopAPIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_api_requests_total",
			Help: "Calls to the remote shop API",
		},
		[]string{"endpoint", "outcome"}, // ok|transport|status|unparsable
	)
	ShopAPILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shop_api_request_duration_seconds",
			Help:    "Latency of remote shop API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

// Корзина и заказы.
var (
	CartOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_operations_total",
			Help: "Cart mutations persisted to storage",
		},
		[]string{"op"}, // add|adjust|remove|clear|corrupt
	)
	CheckoutTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_total",
			Help: "Checkout attempts by result",
		},
		[]string{"result"}, // ok|empty|invalid|failed
	)
	StaleSuggestions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "autocomplete_stale_responses_total",
			Help: "Autocomplete responses dropped because a newer request was issued",
		},
	)
)

var registerOnce sync.Once

// MustRegister — регистрация в prometheus.DefaultRegisterer; повторные вызовы ничего не делают.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed, KafkaMessagesPublished,
			CacheOps, CacheSize,
			ShopAPIRequests, ShopAPILatency,
			CartOps, CheckoutTotal, StaleSuggestions,
		)
	})
}

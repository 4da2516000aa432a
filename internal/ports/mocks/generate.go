//go:generate mockgen -source=../kv_store.go           -destination=./mock_kv_store.go           -package=mocks
//go:generate mockgen -source=../product_cache.go      -destination=./mock_product_cache.go      -package=mocks
//go:generate mockgen -source=../shop_api.go           -destination=./mock_shop_api.go           -package=mocks
//go:generate mockgen -source=../validator.go          -destination=./mock_validator.go          -package=mocks
//go:generate mockgen -source=../event_publisher.go    -destination=./mock_event_publisher.go    -package=mocks
//go:generate mockgen -source=../logger.go             -destination=./mock_logger.go             -package=mocks
//go:generate mockgen -source=../message_consumer.go   -destination=./mock_message_consumer.go   -package=mocks
//go:generate mockgen -source=../services.go           -destination=./mock_services.go           -package=mocks

package mocks

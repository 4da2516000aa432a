package usecase

import "errors"

var (
	// ErrEmptyCart — оформление заказа из пустой корзины.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidEvent — сообщение из Kafka не разбирается; повторять бессмысленно.
	ErrInvalidEvent = errors.New("invalid event")
)

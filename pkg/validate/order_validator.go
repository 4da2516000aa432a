package validate

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/internal/ports"
	"github.com/go-playground/validator/v10"
)

// Проверка, что OrderValidator удовлетворяет интерфейсу OrderValidator.
var _ ports.OrderValidator = (*OrderValidator)(nil)

// ErrInvalidOrder — базовая (sentinel error) ошибка валидации.
var ErrInvalidOrder = errors.New("order validation failed")

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe    = regexp.MustCompile(`^[\d\s\-+()]{10,}$`)
	intervalRe = regexp.MustCompile(`^\d{2}:\d{2}-\d{2}:\d{2}$`)
)

// IsEmail — проверка адреса в том виде, как её делает форма заказа.
func IsEmail(s string) bool { return emailRe.MatchString(s) }

// IsPhone — не меньше 10 символов из цифр, пробелов, «-», «+» и скобок.
func IsPhone(s string) bool { return phoneRe.MatchString(s) }

// IsInterval — интервал доставки «HH:MM-HH:MM».
func IsInterval(s string) bool { return intervalRe.MatchString(strings.TrimSpace(s)) }

// OrderValidator — валидация черновиков и патчей заказа на go-playground/validator.
type OrderValidator struct {
	v *validator.Validate
}

// NewOrderValidator — конструктор OrderValidator.
// Возвращает ErrInvalidOrder (с обёрнутой причиной) при любой проблеме.
func NewOrderValidator() *OrderValidator {
	v := validator.New()

	// в сообщениях — имена полей из json-тегов
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "shop_email", IsEmail)
	mustRegister(v, "shop_phone", IsPhone)
	mustRegister(v, "shop_interval", IsInterval)

	return &OrderValidator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn func(string) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// Validate — проверяет черновик заказа перед отправкой во внешнее API.
func (ov *OrderValidator) Validate(_ context.Context, draft *domain.OrderDraft) error {
	if draft == nil {
		return fmt.Errorf("%w: заказ не может быть nil", ErrInvalidOrder)
	}
	if err := ov.v.Struct(draft); err != nil {
		return describe(err)
	}
	if draft.DeliveryDate.IsZero() {
		return fmt.Errorf("%w: delivery_date обязателен", ErrInvalidOrder)
	}
	return nil
}

// ValidatePatch — проверяет частичное обновление: хотя бы одно поле и
// корректные значения у заданных.
func (ov *OrderValidator) ValidatePatch(_ context.Context, patch *domain.OrderPatch) error {
	if patch == nil || patch.IsEmpty() {
		return fmt.Errorf("%w: нет полей для обновления", ErrInvalidOrder)
	}
	if err := ov.v.Struct(patch); err != nil {
		return describe(err)
	}
	if patch.GoodIDs != nil && len(patch.GoodIDs) == 0 {
		return fmt.Errorf("%w: good_ids не должен быть пустым", ErrInvalidOrder)
	}
	return nil
}

// describe — первая ошибка validator в виде «поле: причина».
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	fe := verrs[0]
	field := fe.Field()

	var reason string
	switch fe.Tag() {
	case "required":
		reason = "обязателен"
	case "shop_email":
		reason = "некорректный email"
	case "shop_phone":
		reason = "некорректный телефон"
	case "shop_interval":
		reason = "интервал должен быть в формате HH:MM-HH:MM"
	case "min":
		reason = "не должен быть пустым"
	case "gt":
		reason = "id товара должен быть положительным"
	default:
		reason = "не прошёл проверку " + fe.Tag()
	}
	return fmt.Errorf("%w: %s %s", ErrInvalidOrder, field, reason)
}

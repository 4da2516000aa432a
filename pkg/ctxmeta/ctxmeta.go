// Пакет ctxmeta — метаданные запроса в context.Context: request_id,
// профиль покупателя, trace/span. HTTP-слой, клиент внешнего API и логгер
// зависят от этого пакета, но не друг от друга.
package ctxmeta

import "context"

type ctxKey string

const (
	KeyRequestID ctxKey = "request_id"
	KeyProfileID ctxKey = "profile_id"
)

// WithRequestID кладёт request_id в контекст (если пусто — ничего не делает).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withString(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyRequestID)
}

// WithProfileID кладёт id профиля покупателя (владельца корзины).
func WithProfileID(ctx context.Context, profileID string) context.Context {
	return withString(ctx, KeyProfileID, profileID)
}

func ProfileIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyProfileID)
}

func withString(ctx context.Context, key ctxKey, v string) context.Context {
	if ctx == nil || v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func stringFrom(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

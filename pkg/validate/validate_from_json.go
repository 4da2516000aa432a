package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/internal/ports"
)

// DraftFromJSON — строгий разбор черновика заказа: неизвестные поля и
// данные после объекта считаются ошибкой.
func DraftFromJSON(raw []byte) (*domain.OrderDraft, error) {
	var draft domain.OrderDraft
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&draft); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("invalid json: trailing data")
	}
	return &draft, nil
}

// ValidateDraftFromJSON — разбор и доменная валидация черновика заказа.
func ValidateDraftFromJSON(ctx context.Context, validator ports.OrderValidator, raw []byte) (*domain.OrderDraft, error) {
	draft, err := DraftFromJSON(raw)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

package ports

import (
	"context"

	"github.com/Gunvolt24/techshop/internal/domain"
)

type OrderValidator interface {
	Validate(ctx context.Context, draft *domain.OrderDraft) error
	ValidatePatch(ctx context.Context, patch *domain.OrderPatch) error
}

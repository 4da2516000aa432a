package ports

import (
	"context"
	"net/url"

	"github.com/Gunvolt24/techshop/internal/domain"
)

// CatalogAPI — каталог внешнего магазина.
type CatalogAPI interface {
	Goods(ctx context.Context, params url.Values) (domain.GoodsPage, error)
	Good(ctx context.Context, id int64) (*domain.Product, error)
	Autocomplete(ctx context.Context, query string) ([]string, error)
}

// OrderAPI — заказы во внешнем API. Каждый метод — ровно один сетевой вызов.
type OrderAPI interface {
	Orders(ctx context.Context) ([]domain.Order, error)
	Order(ctx context.Context, id int64) (*domain.Order, error)
	CreateOrder(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id int64, patch domain.OrderPatch) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

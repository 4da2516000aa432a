package ports

import (
	"context"

	"github.com/Gunvolt24/techshop/internal/catalog"
	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/internal/pricing"
)

// CartService — корзина и оформление заказа для одного профиля.
type CartService interface {
	View(ctx context.Context, profile string) (*domain.CartView, error)
	Add(ctx context.Context, profile string, productID int64) (*domain.Cart, error)
	Adjust(ctx context.Context, profile string, productID int64, delta int) (*domain.Cart, error)
	Remove(ctx context.Context, profile string, productID int64) (*domain.Cart, error)
	Clear(ctx context.Context, profile string) error
	Quote(ctx context.Context, profile string, date domain.CalendarDate, interval string) (*pricing.Quote, error)
	Checkout(ctx context.Context, profile string, form domain.CheckoutForm) (*domain.CheckoutResult, error)
}

// CatalogService — просмотр каталога.
type CatalogService interface {
	Browse(ctx context.Context, state catalog.QueryState) (*domain.CatalogPage, error)
	Product(ctx context.Context, id int64) (*domain.ProductView, error)
	Categories(ctx context.Context) ([]string, error)
	Suggest(ctx context.Context, profile, query string) ([]string, error)
}

// OrderService — консоль заказов.
type OrderService interface {
	List(ctx context.Context) ([]domain.OrderView, error)
	Get(ctx context.Context, id int64) (*domain.OrderView, error)
	Create(ctx context.Context, draft domain.OrderDraft) (*domain.OrderView, error)
	Update(ctx context.Context, id int64, patch domain.OrderPatch) (*domain.OrderView, error)
	Delete(ctx context.Context, id int64) error
}

// CartStore — персистентная корзина профиля.
type CartStore interface {
	List(ctx context.Context, profile string) (domain.Cart, error)
	Add(ctx context.Context, profile string, product domain.Product) (domain.Cart, error)
	AdjustQuantity(ctx context.Context, profile string, productID int64, delta int) (domain.Cart, error)
	Remove(ctx context.Context, profile string, productID int64) (domain.Cart, error)
	Clear(ctx context.Context, profile string) error
}

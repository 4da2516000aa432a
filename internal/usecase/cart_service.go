package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/internal/ports"
	"github.com/Gunvolt24/techshop/internal/pricing"
	"github.com/Gunvolt24/techshop/pkg/metrics"
)

// CartService — корзина профиля и оформление заказа.
type CartService struct {
	store     ports.CartStore
	products  *ProductResolver
	orders    ports.OrderAPI
	validator ports.OrderValidator
	snapshots *SnapshotStore
	events    ports.EventPublisher
	log       ports.Logger
}

var _ ports.CartService = (*CartService)(nil)

// NewCartService — DI-конструктор.
func NewCartService(
	store ports.CartStore,
	products *ProductResolver,
	orders ports.OrderAPI,
	validator ports.OrderValidator,
	snapshots *SnapshotStore,
	events ports.EventPublisher,
	log ports.Logger,
) *CartService {
	return &CartService{
		store:     store,
		products:  products,
		orders:    orders,
		validator: validator,
		snapshots: snapshots,
		events:    events,
		log:       log,
	}
}

// View — корзина, пересчитанная по текущим карточкам товаров.
// Позиции, товар которых загрузить не удалось, пропускаются и перечисляются в Unresolved.
func (s *CartService) View(ctx context.Context, profile string) (*domain.CartView, error) {
	c, err := s.store.List(ctx, profile)
	if err != nil {
		return nil, err
	}

	products := s.products.ResolveMany(ctx, c.GoodIDs())
	view := &domain.CartView{
		Lines:     make([]domain.CartLineView, 0, len(c.Lines)),
		ItemCount: c.ItemCount(),
	}
	resolved := make([]pricing.ResolvedLine, 0, len(c.Lines))
	for _, line := range c.Lines {
		p, ok := products[line.ProductID]
		if !ok {
			view.Unresolved = append(view.Unresolved, line.ProductID)
			continue
		}
		view.Lines = append(view.Lines, cartLineView(line, p))
		resolved = append(resolved, pricing.ResolvedLine{Line: line, Product: p})
	}
	view.Subtotal = pricing.CartSubtotal(resolved)
	return view, nil
}

// Add — +1 товара в корзину. Товар должен существовать в каталоге.
func (s *CartService) Add(ctx context.Context, profile string, productID int64) (*domain.Cart, error) {
	p, err := s.products.Resolve(ctx, productID)
	if err != nil {
		return nil, err
	}
	c, err := s.store.Add(ctx, profile, *p)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CartService) Adjust(ctx context.Context, profile string, productID int64, delta int) (*domain.Cart, error) {
	c, err := s.store.AdjustQuantity(ctx, profile, productID, delta)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CartService) Remove(ctx context.Context, profile string, productID int64) (*domain.Cart, error) {
	c, err := s.store.Remove(ctx, profile, productID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CartService) Clear(ctx context.Context, profile string) error {
	return s.store.Clear(ctx, profile)
}

// Quote — сводка к оформлению: товары по текущим ценам плюс доставка.
func (s *CartService) Quote(ctx context.Context, profile string, date domain.CalendarDate, interval string) (*pricing.Quote, error) {
	c, err := s.store.List(ctx, profile)
	if err != nil {
		return nil, err
	}
	q := pricing.QuoteCheckout(s.pricedLines(ctx, c), date, interval)
	return &q, nil
}

// Checkout — оформление заказа из корзины:
//  1. пустая корзина — ErrEmptyCart;
//  2. валидация формы (validate.ErrInvalidOrder);
//  3. создание заказа во внешнем API; при ошибке корзина не трогается;
//  4. очистка корзины, фиксация суммы и событие order.created.
//
// Ошибки шага 4 только логируются: заказ уже создан.
func (s *CartService) Checkout(ctx context.Context, profile string, form domain.CheckoutForm) (*domain.CheckoutResult, error) {
	c, err := s.store.List(ctx, profile)
	if err != nil {
		metrics.CheckoutTotal.WithLabelValues("failed").Inc()
		return nil, err
	}
	if c.IsEmpty() {
		metrics.CheckoutTotal.WithLabelValues("empty").Inc()
		return nil, ErrEmptyCart
	}

	draft := form.Draft(c.GoodIDs())
	if err := s.validator.Validate(ctx, &draft); err != nil {
		metrics.CheckoutTotal.WithLabelValues("invalid").Inc()
		s.log.Warnf(ctx, "checkout validation failed profile=%s err=%v", profile, err)
		return nil, err
	}

	quote := pricing.QuoteCheckout(s.pricedLines(ctx, c), draft.DeliveryDate, draft.DeliveryInterval)

	order, err := s.orders.CreateOrder(ctx, draft)
	if err != nil {
		metrics.CheckoutTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.store.Clear(ctx, profile); err != nil {
		s.log.Errorf(ctx, "cart not cleared after checkout profile=%s order_id=%d err=%v", profile, order.ID, err)
	}

	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = domain.Timestamp{Time: time.Now()}
	}
	snap := domain.OrderSnapshot{
		OrderID:      order.ID,
		GoodsTotal:   quote.GoodsTotal,
		DeliveryCost: quote.DeliveryCost,
		Total:        quote.Total,
		CreatedAt:    createdAt,
	}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		s.log.Warnf(ctx, "snapshot save failed order_id=%d err=%v", order.ID, err)
	}

	publish(ctx, s.events, s.log, domain.OrderEvent{
		Type:    domain.OrderCreated,
		OrderID: order.ID,
		GoodIDs: order.GoodIDs,
		Total:   quote.Total.String(),
	})

	metrics.CheckoutTotal.WithLabelValues("ok").Inc()
	s.log.Infof(ctx, "order placed id=%d items=%d total=%s", order.ID, len(draft.GoodIDs), quote.Total)
	return &domain.CheckoutResult{Order: *order, Snapshot: snap}, nil
}

// pricedLines — позиции с текущими карточками товаров. Для товаров, которые
// не удалось загрузить, берётся цена, сохранённая в корзине при добавлении.
func (s *CartService) pricedLines(ctx context.Context, c domain.Cart) []pricing.ResolvedLine {
	products := s.products.ResolveMany(ctx, c.GoodIDs())
	out := make([]pricing.ResolvedLine, 0, len(c.Lines))
	for _, line := range c.Lines {
		p, ok := products[line.ProductID]
		if !ok {
			p = domain.Product{ID: line.ProductID, Name: line.Name, ActualPrice: line.UnitPrice}
		}
		out = append(out, pricing.ResolvedLine{Line: line, Product: p})
	}
	return out
}

// publish — событие жизненного цикла заказа; ошибка публикации не отменяет операцию.
func publish(ctx context.Context, events ports.EventPublisher, log ports.Logger, ev domain.OrderEvent) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = domain.Timestamp{Time: time.Now().UTC()}
	}
	if err := events.Publish(ctx, ev); err != nil {
		log.Warnf(ctx, "publish %s failed order_id=%d err=%v", ev.Type, ev.OrderID, err)
	}
}

package usecase

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/internal/ports"
	"github.com/Gunvolt24/techshop/internal/pricing"
)

// OrderService — консоль заказов: CRUD во внешнем API плюс имена товаров и сумма.
type OrderService struct {
	api       ports.OrderAPI
	validator ports.OrderValidator
	products  *ProductResolver
	snapshots *SnapshotStore
	events    ports.EventPublisher
	log       ports.Logger
}

var _ ports.OrderService = (*OrderService)(nil)

// NewOrderService — DI-конструктор.
func NewOrderService(
	api ports.OrderAPI,
	validator ports.OrderValidator,
	products *ProductResolver,
	snapshots *SnapshotStore,
	events ports.EventPublisher,
	log ports.Logger,
) *OrderService {
	return &OrderService{
		api:       api,
		validator: validator,
		products:  products,
		snapshots: snapshots,
		events:    events,
		log:       log,
	}
}

// List — все заказы; имена товаров укорочены для таблицы.
func (s *OrderService) List(ctx context.Context) ([]domain.OrderView, error) {
	orders, err := s.api.Orders(ctx)
	if err != nil {
		return nil, err
	}

	var ids []int64
	for _, o := range orders {
		ids = append(ids, o.GoodIDs...)
	}
	products := s.products.ResolveMany(ctx, ids)

	out := make([]domain.OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, s.decorate(ctx, o, products, listNameLimit))
	}
	return out, nil
}

// Get — заказ с полными именами товаров. 404 от API — shopapi.ErrNotFound.
func (s *OrderService) Get(ctx context.Context, id int64) (*domain.OrderView, error) {
	o, err := s.api.Order(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, *o), nil
}

// Create — заказ напрямую из черновика (без корзины).
func (s *OrderService) Create(ctx context.Context, draft domain.OrderDraft) (*domain.OrderView, error) {
	if err := s.validator.Validate(ctx, &draft); err != nil {
		s.log.Warnf(ctx, "order validation failed err=%v", err)
		return nil, err
	}
	o, err := s.api.CreateOrder(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	v := s.view(ctx, *o)
	publish(ctx, s.events, s.log, domain.OrderEvent{
		Type:    domain.OrderCreated,
		OrderID: o.ID,
		GoodIDs: o.GoodIDs,
		Total:   v.Total.String(),
	})
	s.log.Infof(ctx, "order created id=%d", o.ID)
	return v, nil
}

// Update — частичное обновление. Смена состава заказа делает
// зафиксированную сумму недействительной, смена даты или интервала
// пересчитывает в ней доставку.
func (s *OrderService) Update(ctx context.Context, id int64, patch domain.OrderPatch) (*domain.OrderView, error) {
	if err := s.validator.ValidatePatch(ctx, &patch); err != nil {
		s.log.Warnf(ctx, "order patch validation failed id=%d err=%v", id, err)
		return nil, err
	}
	o, err := s.api.UpdateOrder(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update order %d: %w", id, err)
	}
	switch {
	case patch.GoodIDs != nil:
		if err := s.snapshots.Delete(ctx, id); err != nil {
			s.log.Warnf(ctx, "snapshot delete failed order_id=%d err=%v", id, err)
		}
	case patch.DeliveryDate != nil || patch.DeliveryInterval != nil:
		s.repriceDelivery(ctx, *o)
	}

	v := s.view(ctx, *o)
	publish(ctx, s.events, s.log, domain.OrderEvent{
		Type:    domain.OrderUpdated,
		OrderID: o.ID,
		GoodIDs: o.GoodIDs,
		Total:   v.Total.String(),
	})
	s.log.Infof(ctx, "order updated id=%d", id)
	return v, nil
}

// repriceDelivery — доставка и итог в зафиксированной сумме по новым дате и
// интервалу заказа; стоимость товаров не меняется.
func (s *OrderService) repriceDelivery(ctx context.Context, o domain.Order) {
	snap, ok, err := s.snapshots.Load(ctx, o.ID)
	if err != nil || !ok {
		if err != nil {
			s.log.Warnf(ctx, "snapshot load failed order_id=%d err=%v", o.ID, err)
		}
		return
	}
	snap.DeliveryCost = pricing.DeliveryCost(o.DeliveryDate, o.DeliveryInterval)
	snap.Total = snap.GoodsTotal.Add(snap.DeliveryCost)
	if err := s.snapshots.Save(ctx, *snap); err != nil {
		// устаревшая сумма хуже оценки
		s.log.Warnf(ctx, "snapshot reprice failed order_id=%d err=%v", o.ID, err)
		if err := s.snapshots.Delete(ctx, o.ID); err != nil {
			s.log.Warnf(ctx, "snapshot delete failed order_id=%d err=%v", o.ID, err)
		}
	}
}

func (s *OrderService) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	if err := s.snapshots.Delete(ctx, id); err != nil {
		s.log.Warnf(ctx, "snapshot delete failed order_id=%d err=%v", id, err)
	}
	publish(ctx, s.events, s.log, domain.OrderEvent{Type: domain.OrderDeleted, OrderID: id})
	s.log.Infof(ctx, "order deleted id=%d", id)
	return nil
}

func (s *OrderService) view(ctx context.Context, o domain.Order) *domain.OrderView {
	products := s.products.ResolveMany(ctx, o.GoodIDs)
	v := s.decorate(ctx, o, products, 0)
	return &v
}

// decorate — имена товаров и сумма: зафиксированная при оформлении,
// если есть, иначе пересчитанная по текущим ценам.
func (s *OrderService) decorate(ctx context.Context, o domain.Order, products map[int64]domain.Product, nameLimit int) domain.OrderView {
	items := make([]domain.OrderItemView, 0, len(o.GoodIDs))
	for _, id := range o.GoodIDs {
		items = append(items, domain.OrderItemView{ID: id, Name: itemName(id, products, nameLimit)})
	}

	v := domain.OrderView{Order: o, Items: items}
	snap, ok, err := s.snapshots.Load(ctx, o.ID)
	if err != nil {
		s.log.Warnf(ctx, "snapshot load failed order_id=%d err=%v", o.ID, err)
	}
	if ok {
		v.Total = snap.Total
		v.TotalSource = domain.TotalSnapshot
		return v
	}

	v.Total = pricing.OrderTotal(o.GoodIDs, func(id int64) (domain.Product, bool) {
		p, found := products[id]
		return p, found
	})
	v.TotalSource = domain.TotalEstimate
	return v
}

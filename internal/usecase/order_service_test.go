package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/internal/ports/mocks"
	"github.com/Gunvolt24/techshop/internal/shopapi"
	"github.com/Gunvolt24/techshop/internal/usecase"
	"github.com/Gunvolt24/techshop/pkg/validate"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	svc       *usecase.OrderService
	orders    *mocks.MockOrderAPI
	api       *mocks.MockCatalogAPI
	validator *mocks.MockOrderValidator
	events    *mocks.MockEventPublisher
	snapshots *usecase.SnapshotStore
}

func newOrderFixture(t *testing.T) orderFixture {
	ctrl := gomock.NewController(t)
	f := orderFixture{
		orders:    mocks.NewMockOrderAPI(ctrl),
		validator: mocks.NewMockOrderValidator(ctrl),
		events:    mocks.NewMockEventPublisher(ctrl),
	}
	var products *usecase.ProductResolver
	products, f.api = resolverWithCache(ctrl)
	f.snapshots, _ = newSnapshots()
	f.svc = usecase.NewOrderService(f.orders, f.validator, products, f.snapshots, f.events, noopLogger{})
	return f
}

func TestOrderList_NamesAndTotals(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	long := product(1, strings.Repeat("Я", 40), 100)
	cheap := withDiscount(product(2, "Cable", 50), 30)
	f.orders.EXPECT().Orders(gomock.Any()).Return([]domain.Order{
		{ID: 10, GoodIDs: []int64{1, 2, 99}},
		{ID: 11, GoodIDs: []int64{2}},
	}, nil)
	f.api.EXPECT().Good(gomock.Any(), int64(1)).Return(&long, nil)
	f.api.EXPECT().Good(gomock.Any(), int64(2)).Return(&cheap, nil)
	f.api.EXPECT().Good(gomock.Any(), int64(99)).Return(nil, errors.New("gone"))

	require.NoError(t, f.snapshots.Save(ctx, domain.OrderSnapshot{OrderID: 11, Total: dec(530)}))

	got, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	require.Equal(t, strings.Repeat("Я", 30)+"...", first.Items[0].Name)
	require.Equal(t, "Cable", first.Items[1].Name)
	require.Equal(t, "Товар #99", first.Items[2].Name)
	require.Equal(t, domain.TotalEstimate, first.TotalSource)
	require.True(t, first.Total.Equal(dec(330)), first.Total.String()) // 200 + 100 + 30

	second := got[1]
	require.Equal(t, domain.TotalSnapshot, second.TotalSource)
	require.True(t, second.Total.Equal(dec(530)))
}

func TestOrderGet_FullNames(t *testing.T) {
	f := newOrderFixture(t)

	long := product(1, strings.Repeat("a", 40), 10)
	f.orders.EXPECT().Order(gomock.Any(), int64(5)).Return(&domain.Order{ID: 5, GoodIDs: []int64{1}}, nil)
	f.api.EXPECT().Good(gomock.Any(), int64(1)).Return(&long, nil)

	v, err := f.svc.Get(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, long.Name, v.Items[0].Name)
}

func TestOrderGet_NotFound(t *testing.T) {
	f := newOrderFixture(t)
	f.orders.EXPECT().Order(gomock.Any(), int64(5)).
		Return(nil, &shopapi.APIError{Kind: shopapi.KindStatus, Status: 404, Message: "Заказ не найден"})

	_, err := f.svc.Get(context.Background(), 5)
	require.ErrorIs(t, err, shopapi.ErrNotFound)
}

func TestOrderCreate_InvalidDraft(t *testing.T) {
	f := newOrderFixture(t)
	f.validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(validate.ErrInvalidOrder)

	_, err := f.svc.Create(context.Background(), domain.OrderDraft{})
	require.ErrorIs(t, err, validate.ErrInvalidOrder)
}

func TestOrderCreate_PublishesEvent(t *testing.T) {
	f := newOrderFixture(t)

	draft := domain.OrderDraft{FullName: "Иван", GoodIDs: []int64{1}}
	p := product(1, "TV", 100)
	f.validator.EXPECT().Validate(gomock.Any(), &draft).Return(nil)
	f.orders.EXPECT().CreateOrder(gomock.Any(), draft).Return(&domain.Order{ID: 3, GoodIDs: []int64{1}}, nil)
	f.api.EXPECT().Good(gomock.Any(), int64(1)).Return(&p, nil)
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev domain.OrderEvent) error {
			require.Equal(t, domain.OrderCreated, ev.Type)
			require.Equal(t, "300", ev.Total)
			return nil
		})

	v, err := f.svc.Create(context.Background(), draft)
	require.NoError(t, err)
	require.Equal(t, int64(3), v.ID)
	require.Equal(t, domain.TotalEstimate, v.TotalSource)
}

func TestOrderUpdate_GoodsChangeDropsSnapshot(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	require.NoError(t, f.snapshots.Save(ctx, domain.OrderSnapshot{OrderID: 8, Total: dec(999)}))

	patch := domain.OrderPatch{GoodIDs: []int64{2}}
	p := product(2, "Radio", 50)
	f.validator.EXPECT().ValidatePatch(gomock.Any(), &patch).Return(nil)
	f.orders.EXPECT().UpdateOrder(gomock.Any(), int64(8), patch).Return(&domain.Order{ID: 8, GoodIDs: []int64{2}}, nil)
	f.api.EXPECT().Good(gomock.Any(), int64(2)).Return(&p, nil)
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	v, err := f.svc.Update(ctx, 8, patch)
	require.NoError(t, err)
	require.Equal(t, domain.TotalEstimate, v.TotalSource)
	require.True(t, v.Total.Equal(dec(250)))
}

func TestOrderUpdate_CommentKeepsSnapshot(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	require.NoError(t, f.snapshots.Save(ctx, domain.OrderSnapshot{OrderID: 8, Total: dec(999)}))

	comment := "позвонить"
	patch := domain.OrderPatch{Comment: &comment}
	f.validator.EXPECT().ValidatePatch(gomock.Any(), gomock.Any()).Return(nil)
	f.orders.EXPECT().UpdateOrder(gomock.Any(), int64(8), patch).Return(&domain.Order{ID: 8, Comment: comment}, nil)
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	v, err := f.svc.Update(ctx, 8, patch)
	require.NoError(t, err)
	require.Equal(t, domain.TotalSnapshot, v.TotalSource)
	require.True(t, v.Total.Equal(dec(999)))
}

func TestOrderUpdate_DeliveryChangeRepricesSnapshot(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	// среда, дневной интервал: 1000 + 200
	require.NoError(t, f.snapshots.Save(ctx, domain.OrderSnapshot{
		OrderID: 8, GoodsTotal: dec(1000), DeliveryCost: dec(200), Total: dec(1200),
	}))

	saturday, err := domain.NewCalendarDate(2024, time.December, 21)
	require.NoError(t, err)
	interval := "10:00-14:00"
	patch := domain.OrderPatch{DeliveryDate: &saturday, DeliveryInterval: &interval}
	updated := &domain.Order{ID: 8, DeliveryDate: saturday, DeliveryInterval: interval}

	f.validator.EXPECT().ValidatePatch(gomock.Any(), gomock.Any()).Return(nil)
	f.orders.EXPECT().UpdateOrder(gomock.Any(), int64(8), patch).Return(updated, nil)
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	v, err := f.svc.Update(ctx, 8, patch)
	require.NoError(t, err)
	require.Equal(t, domain.TotalSnapshot, v.TotalSource)
	require.True(t, v.Total.Equal(dec(1500)), v.Total.String())

	snap, ok, err := f.snapshots.Load(ctx, 8)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, snap.GoodsTotal.Equal(dec(1000)))
	require.True(t, snap.DeliveryCost.Equal(dec(500)))
}

func TestOrderUpdate_IntervalOnlyRepricesSnapshot(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	wednesday, err := domain.NewCalendarDate(2024, time.December, 18)
	require.NoError(t, err)
	require.NoError(t, f.snapshots.Save(ctx, domain.OrderSnapshot{
		OrderID: 9, GoodsTotal: dec(1000), DeliveryCost: dec(200), Total: dec(1200),
	}))

	evening := "18:00-22:00"
	patch := domain.OrderPatch{DeliveryInterval: &evening}
	f.validator.EXPECT().ValidatePatch(gomock.Any(), gomock.Any()).Return(nil)
	f.orders.EXPECT().UpdateOrder(gomock.Any(), int64(9), patch).
		Return(&domain.Order{ID: 9, DeliveryDate: wednesday, DeliveryInterval: evening}, nil)
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	v, err := f.svc.Update(ctx, 9, patch)
	require.NoError(t, err)
	require.Equal(t, domain.TotalSnapshot, v.TotalSource)
	require.True(t, v.Total.Equal(dec(1400)), v.Total.String())
}

func TestOrderUpdate_APIErrorNoEvent(t *testing.T) {
	f := newOrderFixture(t)

	f.validator.EXPECT().ValidatePatch(gomock.Any(), gomock.Any()).Return(nil)
	f.orders.EXPECT().UpdateOrder(gomock.Any(), int64(8), gomock.Any()).Return(nil, errors.New("network"))

	comment := "x"
	_, err := f.svc.Update(context.Background(), 8, domain.OrderPatch{Comment: &comment})
	require.Error(t, err)
}

func TestOrderDelete(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	require.NoError(t, f.snapshots.Save(ctx, domain.OrderSnapshot{OrderID: 4, Total: dec(1)}))
	f.orders.EXPECT().DeleteOrder(gomock.Any(), int64(4)).Return(nil)
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev domain.OrderEvent) error {
			require.Equal(t, domain.OrderDeleted, ev.Type)
			require.Equal(t, int64(4), ev.OrderID)
			return nil
		})

	require.NoError(t, f.svc.Delete(ctx, 4))
	_, ok, err := f.snapshots.Load(ctx, 4)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOrderDelete_FailureKeepsSnapshot(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	require.NoError(t, f.snapshots.Save(ctx, domain.OrderSnapshot{OrderID: 4, Total: dec(1)}))
	f.orders.EXPECT().DeleteOrder(gomock.Any(), int64(4)).Return(errors.New("down"))

	require.Error(t, f.svc.Delete(ctx, 4))
	_, ok, _ := f.snapshots.Load(ctx, 4)
	require.True(t, ok)
}

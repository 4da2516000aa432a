package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gunvolt24/techshop/internal/cart"
	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/internal/ports/mocks"
	"github.com/Gunvolt24/techshop/internal/shopapi"
	kvmem "github.com/Gunvolt24/techshop/internal/storage/memory"
	"github.com/Gunvolt24/techshop/internal/usecase"
	"github.com/Gunvolt24/techshop/pkg/validate"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	svc       *usecase.CartService
	store     *mocks.MockCartStore
	api       *mocks.MockCatalogAPI
	orders    *mocks.MockOrderAPI
	validator *mocks.MockOrderValidator
	events    *mocks.MockEventPublisher
	snapshots *usecase.SnapshotStore
}

func newCartFixture(t *testing.T) cartFixture {
	ctrl := gomock.NewController(t)
	f := cartFixture{
		store:     mocks.NewMockCartStore(ctrl),
		orders:    mocks.NewMockOrderAPI(ctrl),
		validator: mocks.NewMockOrderValidator(ctrl),
		events:    mocks.NewMockEventPublisher(ctrl),
	}
	var products *usecase.ProductResolver
	products, f.api = resolverWithCache(ctrl)
	f.snapshots, _ = newSnapshots()
	f.svc = usecase.NewCartService(f.store, products, f.orders, f.validator, f.snapshots, f.events, noopLogger{})
	return f
}

func sampleCart() domain.Cart {
	return domain.Cart{Lines: []domain.CartLine{
		{ProductID: 1, Quantity: 2, Name: "TV", UnitPrice: dec(120)},
		{ProductID: 2, Quantity: 1, Name: "Radio", UnitPrice: dec(50)},
	}}
}

func sampleForm(t *testing.T) domain.CheckoutForm {
	return domain.CheckoutForm{
		FullName:         "Иван Петров",
		Phone:            "+7 900 123-45-67",
		Email:            "ivan@example.com",
		DeliveryAddress:  "Москва, Тверская 1",
		DeliveryDate:     mustDate(t, 2025, time.January, 6), // понедельник
		DeliveryInterval: "18:00-22:00",
	}
}

func TestCartView_UsesCurrentPricesAndSkipsUnresolved(t *testing.T) {
	f := newCartFixture(t)

	tv := product(1, "TV", 100)
	f.store.EXPECT().List(gomock.Any(), "p").Return(sampleCart(), nil)
	f.api.EXPECT().Good(gomock.Any(), int64(1)).Return(&tv, nil)
	f.api.EXPECT().Good(gomock.Any(), int64(2)).
		Return(nil, &shopapi.APIError{Kind: shopapi.KindStatus, Status: 404, Message: "нет"})

	v, err := f.svc.View(context.Background(), "p")
	require.NoError(t, err)
	require.Len(t, v.Lines, 1)
	require.Equal(t, []int64{2}, v.Unresolved)
	require.Equal(t, 3, v.ItemCount)

	line := v.Lines[0]
	require.Equal(t, "TV", line.Name)
	require.True(t, line.UnitPrice.Equal(dec(100)), "current price, not the cached 120")
	require.True(t, line.LineTotal.Equal(dec(200)))
	require.True(t, v.Subtotal.Equal(dec(200)))
}

func TestCartView_Empty(t *testing.T) {
	f := newCartFixture(t)
	f.store.EXPECT().List(gomock.Any(), "p").Return(domain.Cart{}, nil)

	v, err := f.svc.View(context.Background(), "p")
	require.NoError(t, err)
	require.NotNil(t, v.Lines)
	require.Empty(t, v.Lines)
	require.True(t, v.Subtotal.IsZero())
}

func TestCartAdd_ResolvesProductFirst(t *testing.T) {
	f := newCartFixture(t)

	p := product(5, "Lamp", 30)
	f.api.EXPECT().Good(gomock.Any(), int64(5)).Return(&p, nil)
	f.store.EXPECT().Add(gomock.Any(), "p", p).
		Return(domain.Cart{Lines: []domain.CartLine{{ProductID: 5, Quantity: 1}}}, nil)

	c, err := f.svc.Add(context.Background(), "p", 5)
	require.NoError(t, err)
	require.Equal(t, 1, c.ItemCount())
}

func TestCartAdd_UnknownProduct(t *testing.T) {
	f := newCartFixture(t)

	f.api.EXPECT().Good(gomock.Any(), int64(404)).
		Return(nil, &shopapi.APIError{Kind: shopapi.KindStatus, Status: 404, Message: "нет"})

	_, err := f.svc.Add(context.Background(), "p", 404)
	require.ErrorIs(t, err, shopapi.ErrNotFound)
}

func TestQuote_FallsBackToCachedPrice(t *testing.T) {
	f := newCartFixture(t)

	tv := product(1, "TV", 100)
	f.store.EXPECT().List(gomock.Any(), "p").Return(sampleCart(), nil)
	f.api.EXPECT().Good(gomock.Any(), int64(1)).Return(&tv, nil)
	f.api.EXPECT().Good(gomock.Any(), int64(2)).Return(nil, errors.New("timeout"))

	saturday := mustDate(t, 2025, time.January, 4)
	q, err := f.svc.Quote(context.Background(), "p", saturday, "10:00-14:00")
	require.NoError(t, err)
	require.True(t, q.GoodsTotal.Equal(dec(250)), q.GoodsTotal.String())
	require.True(t, q.DeliveryCost.Equal(dec(500)))
	require.True(t, q.Total.Equal(dec(750)))
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newCartFixture(t)
	f.store.EXPECT().List(gomock.Any(), "p").Return(domain.Cart{}, nil)

	_, err := f.svc.Checkout(context.Background(), "p", sampleForm(t))
	require.ErrorIs(t, err, usecase.ErrEmptyCart)
}

func TestCheckout_InvalidFormLeavesCart(t *testing.T) {
	f := newCartFixture(t)
	f.store.EXPECT().List(gomock.Any(), "p").Return(sampleCart(), nil)
	f.validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(validate.ErrInvalidOrder)
	// ни CreateOrder, ни Clear не ожидаются

	form := sampleForm(t)
	form.Email = "bad"
	_, err := f.svc.Checkout(context.Background(), "p", form)
	require.ErrorIs(t, err, validate.ErrInvalidOrder)
}

func TestCheckout_CreateFailureLeavesCart(t *testing.T) {
	f := newCartFixture(t)

	f.store.EXPECT().List(gomock.Any(), "p").Return(sampleCart(), nil)
	f.validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)
	f.api.EXPECT().Good(gomock.Any(), gomock.Any()).Return(nil, errors.New("down")).AnyTimes()
	apiErr := &shopapi.APIError{Kind: shopapi.KindStatus, Status: 400, Message: "Неверные данные"}
	f.orders.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(nil, apiErr)

	_, err := f.svc.Checkout(context.Background(), "p", sampleForm(t))
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Неверные данные", shopapi.UserMessage(err))
}

func TestCheckout_Success(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	form := sampleForm(t)

	tv := product(1, "TV", 100)
	radio := product(2, "Radio", 50)
	f.store.EXPECT().List(gomock.Any(), "p").Return(sampleCart(), nil)
	f.api.EXPECT().Good(gomock.Any(), int64(1)).Return(&tv, nil)
	f.api.EXPECT().Good(gomock.Any(), int64(2)).Return(&radio, nil)

	wantDraft := form.Draft([]int64{1, 1, 2})
	f.validator.EXPECT().Validate(gomock.Any(), &wantDraft).Return(nil)

	created := &domain.Order{ID: 77, FullName: form.FullName, GoodIDs: []int64{1, 1, 2}}
	gomock.InOrder(
		f.orders.EXPECT().CreateOrder(gomock.Any(), wantDraft).Return(created, nil),
		f.store.EXPECT().Clear(gomock.Any(), "p").Return(nil),
	)
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev domain.OrderEvent) error {
			require.Equal(t, domain.OrderCreated, ev.Type)
			require.Equal(t, int64(77), ev.OrderID)
			require.Equal(t, "650", ev.Total)
			require.False(t, ev.OccurredAt.IsZero())
			return errors.New("broker down") // не должно ломать оформление
		})

	res, err := f.svc.Checkout(ctx, "p", form)
	require.NoError(t, err)
	require.Equal(t, int64(77), res.Order.ID)
	require.True(t, res.Snapshot.GoodsTotal.Equal(dec(250)))
	require.True(t, res.Snapshot.DeliveryCost.Equal(dec(400)))
	require.True(t, res.Snapshot.Total.Equal(dec(650)))

	snap, ok, err := f.snapshots.Load(ctx, 77)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, snap.Total.Equal(dec(650)))
}

func TestCheckout_WithRealStore_ClearsCart(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := kvmem.NewKVStore()
	store := cart.NewStore(kv, noopLogger{})
	products, api := resolverWithCache(ctrl)
	orders := mocks.NewMockOrderAPI(ctrl)
	validator := mocks.NewMockOrderValidator(ctrl)
	events := mocks.NewMockEventPublisher(ctrl)
	svc := usecase.NewCartService(store, products, orders, validator, usecase.NewSnapshotStore(kv), events, noopLogger{})
	ctx := context.Background()

	p := product(3, "Kettle", 40)
	api.EXPECT().Good(gomock.Any(), int64(3)).Return(&p, nil)
	_, err := svc.Add(ctx, "p", 3)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "p", 3)
	require.NoError(t, err)

	validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)
	orders.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d domain.OrderDraft) (*domain.Order, error) {
			require.Equal(t, []int64{3, 3}, d.GoodIDs)
			return &domain.Order{ID: 1, GoodIDs: d.GoodIDs}, nil
		})
	events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	_, err = svc.Checkout(ctx, "p", sampleForm(t))
	require.NoError(t, err)

	c, err := store.List(ctx, "p")
	require.NoError(t, err)
	require.True(t, c.IsEmpty())
}

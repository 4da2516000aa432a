package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Gunvolt24/techshop/internal/catalog"
	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/internal/ports/mocks"
	"github.com/Gunvolt24/techshop/internal/pricing"
	"github.com/Gunvolt24/techshop/internal/shopapi"
	rest "github.com/Gunvolt24/techshop/internal/transport/http"
	"github.com/Gunvolt24/techshop/internal/usecase"
	"github.com/Gunvolt24/techshop/pkg/httpx"
	"github.com/Gunvolt24/techshop/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

type fixture struct {
	catalog *mocks.MockCatalogService
	cart    *mocks.MockCartService
	orders  *mocks.MockOrderService
	router  *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	f := &fixture{
		catalog: mocks.NewMockCatalogService(ctrl),
		cart:    mocks.NewMockCartService(ctrl),
		orders:  mocks.NewMockOrderService(ctrl),
	}
	h := rest.NewHandler(f.catalog, f.cart, f.orders, noopLogger{}, rest.Options{
		HandlerTimeout: 2 * time.Second,
		PageSize:       12,
	})
	f.router = rest.NewRouter(h, "", "")
	return f
}

// profile — фиксированный профиль, чтобы проверять, куда идут вызовы корзины.
var profile = uuid.NewString()

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(httpx.ProfileHeader, profile)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestPing_200(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/ping", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "pong", w.Body.String())
}

func TestMetrics_200(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotZero(t, w.Body.Len())
}

func TestNoRoute_404(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/no-such-route", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMethodNotAllowed_405(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodPost, "/api/categories", "")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestBrowse_ParsesQueryState(t *testing.T) {
	f := newFixture(t)

	f.catalog.EXPECT().Browse(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s catalog.QueryState) (*domain.CatalogPage, error) {
			require.Equal(t, 2, s.Page())
			require.Equal(t, 12, s.PageSize())
			require.Equal(t, "phone", s.SearchText())
			require.Equal(t, catalog.SortPriceAsc, s.SortOrder())
			require.Equal(t, []string{"phones", "tv"}, s.Categories())
			require.True(t, s.DiscountOnly())
			return &domain.CatalogPage{Goods: []domain.ProductView{}, Page: 2, PerPage: 12, HasMore: true}, nil
		})

	w := f.do(http.MethodGet, "/api/products?page=2&query=phone&sort_order=price_asc&main_category=phones,tv&has_discount=true", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.CatalogPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.True(t, got.HasMore)
	require.Equal(t, 2, got.Page)
}

func TestBrowse_InvalidQuery_400(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/api/products?page=0", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBrowse_BoundaryError_502WithMessage(t *testing.T) {
	f := newFixture(t)
	f.catalog.EXPECT().Browse(gomock.Any(), gomock.Any()).
		Return(nil, &shopapi.APIError{Kind: shopapi.KindStatus, Endpoint: "goods", Status: 500, Message: "Сервис недоступен"})

	w := f.do(http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.Equal(t, "Сервис недоступен", errorMessage(t, w))
}

func TestProduct_NotFound_404(t *testing.T) {
	f := newFixture(t)
	f.catalog.EXPECT().Product(gomock.Any(), int64(42)).
		Return(nil, &shopapi.APIError{Kind: shopapi.KindStatus, Endpoint: "good", Status: 404, Message: "Товар не найден"})

	w := f.do(http.MethodGet, "/api/products/42", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Товар не найден", errorMessage(t, w))
}

func TestProduct_InvalidID_400(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/api/products/abc", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategories(t *testing.T) {
	f := newFixture(t)
	f.catalog.EXPECT().Categories(gomock.Any()).Return([]string{"phones", "tv"}, nil)

	w := f.do(http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"categories":["phones","tv"]}`, w.Body.String())
}

func TestAutocomplete(t *testing.T) {
	f := newFixture(t)
	f.catalog.EXPECT().Suggest(gomock.Any(), profile, "смарт").Return([]string{"смартфон"}, nil)

	w := f.do(http.MethodGet, "/api/autocomplete?query="+url.QueryEscape("смарт"), "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"suggestions":["смартфон"]}`, w.Body.String())
}

func TestAutocomplete_Stale_204(t *testing.T) {
	f := newFixture(t)
	f.catalog.EXPECT().Suggest(gomock.Any(), profile, "смарт").Return(nil, catalog.ErrStaleSuggestions)

	w := f.do(http.MethodGet, "/api/autocomplete?query="+url.QueryEscape("смарт"), "")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Zero(t, w.Body.Len())
}

func TestAddToCart(t *testing.T) {
	f := newFixture(t)
	f.cart.EXPECT().Add(gomock.Any(), profile, int64(7)).Return(&domain.Cart{Lines: []domain.CartLine{
		{ProductID: 7, Quantity: 2, Name: "TV", UnitPrice: decimal.NewFromInt(900)},
	}}, nil)

	w := f.do(http.MethodPost, "/api/cart/items", `{"id":7}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Lines     []domain.CartLine `json:"lines"`
		ItemCount int               `json:"item_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, 2, got.ItemCount)
	require.Len(t, got.Lines, 1)
}

func TestAddToCart_BadBody_400(t *testing.T) {
	f := newFixture(t)
	for _, body := range []string{`{}`, `{"id":-1}`, `not json`} {
		w := f.do(http.MethodPost, "/api/cart/items", body)
		require.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestAdjustAndRemove(t *testing.T) {
	f := newFixture(t)
	gomock.InOrder(
		f.cart.EXPECT().Adjust(gomock.Any(), profile, int64(7), -1).Return(&domain.Cart{}, nil),
		f.cart.EXPECT().Remove(gomock.Any(), profile, int64(7)).Return(&domain.Cart{}, nil),
	)

	w := f.do(http.MethodPatch, "/api/cart/items/7", `{"delta":-1}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"lines":[],"item_count":0}`, w.Body.String())

	w = f.do(http.MethodDelete, "/api/cart/items/7", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdjust_ZeroDeltaAccepted(t *testing.T) {
	f := newFixture(t)
	f.cart.EXPECT().Adjust(gomock.Any(), profile, int64(7), 0).
		Return(&domain.Cart{Lines: []domain.CartLine{{ProductID: 7, Quantity: 2}}}, nil)

	w := f.do(http.MethodPatch, "/api/cart/items/7", `{"delta":0}`)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdjust_MissingDelta_400(t *testing.T) {
	f := newFixture(t)
	for _, body := range []string{`{}`, `{"delta":null}`, `{"delta":"1"}`} {
		w := f.do(http.MethodPatch, "/api/cart/items/7", body)
		require.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestClearCart_204(t *testing.T) {
	f := newFixture(t)
	f.cart.EXPECT().Clear(gomock.Any(), profile).Return(nil)

	w := f.do(http.MethodDelete, "/api/cart", "")
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestViewCart_StorageError_500(t *testing.T) {
	f := newFixture(t)
	f.cart.EXPECT().View(gomock.Any(), profile).Return(nil, errors.New("disk full"))

	w := f.do(http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "internal server error", errorMessage(t, w))
}

func TestQuote_AcceptsISODate(t *testing.T) {
	f := newFixture(t)
	monday, err := domain.NewCalendarDate(2025, time.January, 6)
	require.NoError(t, err)

	f.cart.EXPECT().Quote(gomock.Any(), profile, monday, "18:00-22:00").Return(&pricing.Quote{
		GoodsTotal:   decimal.NewFromInt(1000),
		DeliveryCost: decimal.NewFromInt(400),
		Total:        decimal.NewFromInt(1400),
	}, nil)

	w := f.do(http.MethodGet, "/api/cart/quote?delivery_date=2025-01-06&delivery_interval=18:00-22:00", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"goods_total":"1000","delivery_cost":"400","total":"1400"}`, w.Body.String())
}

func TestQuote_InvalidDate_400(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/api/cart/quote?delivery_date=31.02.2025", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckout(t *testing.T) {
	f := newFixture(t)
	f.cart.EXPECT().Checkout(gomock.Any(), profile, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, form domain.CheckoutForm) (*domain.CheckoutResult, error) {
			require.Equal(t, "Иван", form.FullName)
			require.Equal(t, "04.01.2025", form.DeliveryDate.String())
			return &domain.CheckoutResult{Order: domain.Order{ID: 77}}, nil
		})

	w := f.do(http.MethodPost, "/api/cart/checkout",
		`{"full_name":" Иван ","phone":"+7 999 123 45 67","email":"a@b.cd","delivery_address":"ул. 1",
		  "delivery_date":"2025-01-04","delivery_interval":"08:00-12:00"}`)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestCheckout_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty cart", usecase.ErrEmptyCart, http.StatusBadRequest},
		{"invalid form", validate.ErrInvalidOrder, http.StatusBadRequest},
		{"boundary", &shopapi.APIError{Kind: shopapi.KindStatus, Status: 400, Message: "Неверные данные"}, http.StatusBadGateway},
		{"timeout", &shopapi.APIError{Kind: shopapi.KindTransport, Message: "request timed out", Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.cart.EXPECT().Checkout(gomock.Any(), profile, gomock.Any()).Return(nil, tt.err)

			w := f.do(http.MethodPost, "/api/cart/checkout", `{"full_name":"Иван"}`)
			require.Equal(t, tt.want, w.Code)
		})
	}
}

func orderViews(n int) []domain.OrderView {
	out := make([]domain.OrderView, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.OrderView{Order: domain.Order{ID: int64(i)}})
	}
	return out
}

func TestListOrders_Window(t *testing.T) {
	f := newFixture(t)
	f.orders.EXPECT().List(gomock.Any()).Return(orderViews(5), nil).Times(2)

	w := f.do(http.MethodGet, "/api/orders?limit=2&offset=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "5", w.Header().Get("X-Total-Count"))

	var got []domain.OrderView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, int64(2), got[0].ID)
	require.Equal(t, int64(3), got[1].ID)

	w = f.do(http.MethodGet, "/api/orders?offset=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateOrder_BuildsDraft(t *testing.T) {
	f := newFixture(t)
	f.orders.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d domain.OrderDraft) (*domain.OrderView, error) {
			require.Equal(t, []int64{3, 3, 5}, d.GoodIDs)
			require.Equal(t, "05.01.2025", d.DeliveryDate.String())
			require.True(t, d.Subscribe)
			return &domain.OrderView{Order: domain.Order{ID: 9}}, nil
		})

	w := f.do(http.MethodPost, "/api/orders",
		`{"full_name":"Иван","delivery_date":"05.01.2025","good_ids":[3,3,5],"subscribe":true}`)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestUpdateOrder_OnlyGivenFields(t *testing.T) {
	f := newFixture(t)
	f.orders.EXPECT().Update(gomock.Any(), int64(5), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, p domain.OrderPatch) (*domain.OrderView, error) {
			require.NotNil(t, p.Comment)
			require.Equal(t, "после 18", *p.Comment)
			require.NotNil(t, p.DeliveryDate)
			require.Equal(t, "06.01.2025", p.DeliveryDate.String())
			require.Nil(t, p.FullName)
			require.Nil(t, p.GoodIDs)
			return &domain.OrderView{Order: domain.Order{ID: 5}}, nil
		})

	w := f.do(http.MethodPut, "/api/orders/5", `{"comment":"после 18","delivery_date":"2025-01-06"}`)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestGetAndDeleteOrder(t *testing.T) {
	f := newFixture(t)
	f.orders.EXPECT().Get(gomock.Any(), int64(5)).Return(&domain.OrderView{
		Order:       domain.Order{ID: 5},
		Total:       decimal.NewFromInt(1200),
		TotalSource: domain.TotalEstimate,
	}, nil)
	f.orders.EXPECT().Delete(gomock.Any(), int64(5)).Return(nil)

	w := f.do(http.MethodGet, "/api/orders/5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got domain.OrderView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, domain.TotalEstimate, got.TotalSource)

	w = f.do(http.MethodDelete, "/api/orders/5", "")
	require.Equal(t, http.StatusNoContent, w.Code)
}

package usecase_test

import (
	"context"
	"testing"
	"time"

	cachemem "github.com/Gunvolt24/techshop/internal/cache/memory"
	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/internal/ports/mocks"
	kvmem "github.com/Gunvolt24/techshop/internal/storage/memory"
	"github.com/Gunvolt24/techshop/internal/usecase"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

func product(id int64, name string, price int64) domain.Product {
	return domain.Product{ID: id, Name: name, ActualPrice: decimal.NewFromInt(price), Rating: 4.5}
}

func withDiscount(p domain.Product, discount int64) domain.Product {
	d := decimal.NewFromInt(discount)
	p.DiscountPrice = &d
	return p
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func mustDate(t *testing.T, y int, m time.Month, d int) domain.CalendarDate {
	t.Helper()
	date, err := domain.NewCalendarDate(y, m, d)
	require.NoError(t, err)
	return date
}

// resolverWithCache — резолвер над настоящим in-memory кэшем и моком каталога.
func resolverWithCache(ctrl *gomock.Controller) (*usecase.ProductResolver, *mocks.MockCatalogAPI) {
	api := mocks.NewMockCatalogAPI(ctrl)
	return usecase.NewProductResolver(api, cachemem.NewProductCache(100, time.Minute), noopLogger{}), api
}

func newSnapshots() (*usecase.SnapshotStore, *kvmem.KVStore) {
	kv := kvmem.NewKVStore()
	return usecase.NewSnapshotStore(kv), kv
}

package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Gunvolt24/techshop/internal/catalog"
	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/internal/ports"
)

// ProductResolver — товары по id: сначала кэш, при промахе внешний API с записью в кэш.
type ProductResolver struct {
	api   ports.CatalogAPI
	cache ports.ProductCache
	log   ports.Logger
}

func NewProductResolver(api ports.CatalogAPI, cache ports.ProductCache, log ports.Logger) *ProductResolver {
	return &ProductResolver{api: api, cache: cache, log: log}
}

// Resolve — карточка товара. Ошибки API (включая shopapi.ErrNotFound) возвращаются как есть.
func (r *ProductResolver) Resolve(ctx context.Context, id int64) (*domain.Product, error) {
	if p, found := r.cache.Get(ctx, id); found {
		return p, nil
	}

	p, err := r.api.Good(ctx, id)
	if err != nil {
		return nil, err
	}
	if setErr := r.cache.Set(ctx, p); setErr != nil {
		r.log.Warnf(ctx, "cache.Set failed product_id=%d err=%v", id, setErr)
	}
	return p, nil
}

// ResolveMany — товары по списку id (повторы запрашиваются один раз).
// Не найденные и не загруженные товары в результат не попадают.
func (r *ProductResolver) ResolveMany(ctx context.Context, ids []int64) map[int64]domain.Product {
	out := make(map[int64]domain.Product, len(ids))
	failed := make(map[int64]struct{})
	for _, id := range ids {
		if _, ok := out[id]; ok {
			continue
		}
		if _, ok := failed[id]; ok {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		p, err := r.Resolve(ctx, id)
		if err != nil {
			r.log.Warnf(ctx, "product unresolved id=%d err=%v", id, err)
			failed[id] = struct{}{}
			continue
		}
		out[id] = *p
	}
	return out
}

// Remember — положить в кэш товары, пришедшие страницей каталога.
func (r *ProductResolver) Remember(ctx context.Context, goods []domain.Product) {
	if err := r.cache.WarmUp(ctx, goods); err != nil {
		r.log.Warnf(ctx, "cache.WarmUp failed err=%v", err)
	}
}

// InvalidateFromMessage — обработка события обновления товара из Kafka:
// затронутые товары убираются из кэша и при следующем обращении
// перечитываются из API.
func (r *ProductResolver) InvalidateFromMessage(ctx context.Context, raw []byte) error {
	var upd domain.ProductUpdate
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&upd); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	ids := upd.ProductIDs()
	if len(ids) == 0 {
		return fmt.Errorf("%w: no product ids", ErrInvalidEvent)
	}

	for _, id := range ids {
		r.cache.Invalidate(ctx, id)
	}
	r.log.Infof(ctx, "products invalidated ids=%v", ids)
	return nil
}

// WarmUpCache — прогрев кэша первой страницей каталога из n товаров.
// Если n <= 0, прогрев не выполняется (но это не ошибка).
func (r *ProductResolver) WarmUpCache(ctx context.Context, n int) error {
	if n <= 0 {
		r.log.Warnf(ctx, "cache warm-up skipped: n <= 0 (n=%d)", n)
		return nil
	}

	start := time.Now()
	page, err := r.api.Goods(ctx, catalog.NewQueryState(n).Params())
	if err != nil {
		r.log.Errorf(ctx, "catalog warm-up failed n=%d err=%v", n, err)
		return err
	}
	r.Remember(ctx, page.Goods)
	r.log.Infof(ctx, "cache warmed with %d products in %s", len(page.Goods), time.Since(start))
	return nil
}

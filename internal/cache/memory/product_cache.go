// Package memory — in-memory кэш карточек товаров: LRU с TTL.
// Нужен, чтобы корзина и консоль заказов не ходили во внешний API за каждым id.
package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/internal/ports"
	"github.com/Gunvolt24/techshop/pkg/metrics"
)

type entry struct {
	id        int64
	product   *domain.Product
	expiresAt time.Time
}

// ProductCache — LRU-кэш с TTL. ttl <= 0 — записи не истекают.
type ProductCache struct {
	capacity int
	ttl      time.Duration

	ll    *list.List
	index map[int64]*list.Element

	mu sync.Mutex
}

var _ ports.ProductCache = (*ProductCache)(nil)

func NewProductCache(capacity int, ttl time.Duration) *ProductCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &ProductCache{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		index:    make(map[int64]*list.Element),
	}
}

// Get — копия товара; истёкшая запись удаляется и считается промахом.
func (c *ProductCache) Get(_ context.Context, id int64) (*domain.Product, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[id]
	if !ok {
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	ent := elem.Value.(*entry)
	if c.isExpired(ent, now) {
		metrics.CacheOps.WithLabelValues("expired").Inc()
		c.removeElement(elem)
		c.reportSize()
		return nil, false
	}
	c.ll.MoveToFront(elem)

	metrics.CacheOps.WithLabelValues("hit").Inc()
	return cloneProduct(ent.product), true
}

// Set — положить или обновить товар. Срок жизни отсчитывается заново.
func (c *ProductCache) Set(_ context.Context, product *domain.Product) error {
	if product == nil || product.ID <= 0 {
		return nil
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[product.ID]; ok {
		ent := elem.Value.(*entry)
		ent.product = cloneProduct(product)
		ent.expiresAt = c.expiryFrom(now)
		c.ll.MoveToFront(elem)
		return nil
	}

	c.pruneExpiredFromBack(now)

	elem := c.ll.PushFront(&entry{
		id:        product.ID,
		product:   cloneProduct(product),
		expiresAt: c.expiryFrom(now),
	})
	c.index[product.ID] = elem
	c.reportSize()

	if c.ll.Len() > c.capacity {
		c.evictLRU()
	}
	return nil
}

func (c *ProductCache) WarmUp(ctx context.Context, products []domain.Product) error {
	for i := range products {
		if err := c.Set(ctx, &products[i]); err != nil {
			return err
		}
	}
	return nil
}

// Invalidate — убрать товар; отсутствие записи не ошибка.
func (c *ProductCache) Invalidate(_ context.Context, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[id]; ok {
		c.removeElement(elem)
		metrics.CacheOps.WithLabelValues("invalidated").Inc()
		c.reportSize()
	}
}

// Len — число записей, включая ещё не вычищенные истёкшие.
func (c *ProductCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

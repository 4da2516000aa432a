package memory

import (
	"container/list"
	"time"

	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/pkg/metrics"
)

// evictLRU — удаляет наименее используемый элемент.
func (c *ProductCache) evictLRU() {
	if back := c.ll.Back(); back != nil {
		c.removeElement(back)
		metrics.CacheOps.WithLabelValues("evicted").Inc()
		c.reportSize()
	}
}

// removeElement — удаляет элемент из списка и индекса.
func (c *ProductCache) removeElement(elem *list.Element) {
	if elem == nil {
		return
	}
	if ent, ok := elem.Value.(*entry); ok {
		delete(c.index, ent.id)
	}
	c.ll.Remove(elem)
}

func (c *ProductCache) isExpired(ent *entry, now time.Time) bool {
	if c.ttl <= 0 {
		return false
	}
	return now.After(ent.expiresAt)
}

func (c *ProductCache) expiryFrom(now time.Time) time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(c.ttl)
}

// pruneExpiredFromBack — выкидывает истёкшие записи с хвоста, пока не встретит живую.
func (c *ProductCache) pruneExpiredFromBack(now time.Time) {
	if c.ttl <= 0 {
		return
	}
	for back := c.ll.Back(); back != nil; back = c.ll.Back() {
		if !now.After(back.Value.(*entry).expiresAt) {
			return
		}
		c.removeElement(back)
		metrics.CacheOps.WithLabelValues("expired").Inc()
	}
	c.reportSize()
}

func (c *ProductCache) reportSize() {
	metrics.CacheSize.Set(float64(len(c.index)))
}

func cloneProduct(p *domain.Product) *domain.Product {
	if p == nil {
		return nil
	}
	cp := *p
	if p.DiscountPrice != nil {
		d := *p.DiscountPrice
		cp.DiscountPrice = &d
	}
	return &cp
}

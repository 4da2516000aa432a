// Package cart — персистентная корзина профиля поверх ports.KVStore.
//
// Вся корзина хранится одним значением под ключом StorageKey. Каждая мутация
// перечитывает и полностью перезаписывает значение; нечитаемое значение
// считается пустой корзиной.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/internal/ports"
	"github.com/Gunvolt24/techshop/internal/pricing"
	"github.com/Gunvolt24/techshop/pkg/metrics"
)

// StorageKey — ключ корзины внутри пространства профиля.
const StorageKey = "techshop_cart"

// Store — корзины всех профилей.
type Store struct {
	kv  ports.KVStore
	log ports.Logger

	// сериализует read-modify-write внутри процесса;
	// между процессами действует правило «последняя запись побеждает»
	mu sync.Mutex
}

func NewStore(kv ports.KVStore, log ports.Logger) *Store {
	return &Store{kv: kv, log: log}
}

// List — текущая корзина в порядке добавления.
func (s *Store) List(ctx context.Context, profile string) (domain.Cart, error) {
	return s.load(ctx, profile)
}

// Add — +1 к позиции товара или новая позиция с количеством 1.
// Имя и эффективная цена фиксируются в момент первого добавления.
func (s *Store) Add(ctx context.Context, profile string, product domain.Product) (domain.Cart, error) {
	return s.mutate(ctx, profile, "add", func(c *domain.Cart) bool {
		c.Add(domain.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: pricing.EffectiveUnitPrice(product),
		})
		return true
	})
}

// AdjustQuantity — изменить количество на delta; при количестве <= 0 позиция удаляется.
// Для отсутствующего товара ничего не делает и ничего не пишет.
func (s *Store) AdjustQuantity(ctx context.Context, profile string, productID int64, delta int) (domain.Cart, error) {
	return s.mutate(ctx, profile, "adjust", func(c *domain.Cart) bool {
		return c.Adjust(productID, delta)
	})
}

// Remove — удалить позицию; повторный вызов ничего не меняет.
func (s *Store) Remove(ctx context.Context, profile string, productID int64) (domain.Cart, error) {
	return s.mutate(ctx, profile, "remove", func(c *domain.Cart) bool {
		return c.Remove(productID)
	})
}

// Clear — очистить корзину.
func (s *Store) Clear(ctx context.Context, profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, profile, StorageKey); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	metrics.CartOps.WithLabelValues("clear").Inc()
	return nil
}

// mutate — прочитать корзину, применить fn и, если fn что-то изменила,
// записать корзину целиком.
func (s *Store) mutate(ctx context.Context, profile, op string, fn func(*domain.Cart) bool) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, profile)
	if err != nil {
		return domain.Cart{}, err
	}
	if !fn(&c) {
		return c, nil
	}

	raw, err := Encode(c)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("encode cart: %w", err)
	}
	if err := s.kv.Put(ctx, profile, StorageKey, raw); err != nil {
		return domain.Cart{}, fmt.Errorf("save cart: %w", err)
	}
	metrics.CartOps.WithLabelValues(op).Inc()
	return c, nil
}

func (s *Store) load(ctx context.Context, profile string) (domain.Cart, error) {
	raw, ok, err := s.kv.Get(ctx, profile, StorageKey)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("load cart: %w", err)
	}
	if !ok {
		return domain.Cart{}, nil
	}

	c, err := Decode(raw)
	if err != nil {
		s.log.Warnf(ctx, "corrupt cart profile=%s treated as empty err=%v", profile, err)
		metrics.CartOps.WithLabelValues("corrupt").Inc()
		return domain.Cart{}, nil
	}
	return c, nil
}

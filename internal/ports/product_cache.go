package ports

import (
	"context"

	"github.com/Gunvolt24/techshop/internal/domain"
)

// ProductCache — кэш карточек товаров.
// Требования к реализации: потокобезопасность; доступ по ключу не хуже O(1); возврат копий сущности.
type ProductCache interface {
	// Get — (product, true) при попадании, (nil, false) при промахе/истечении.
	Get(ctx context.Context, id int64) (*domain.Product, bool)

	// Set — сохранить/обновить товар в кэше.
	Set(ctx context.Context, product *domain.Product) error

	// WarmUp — массовая загрузка (например, первой страницей каталога при старте).
	WarmUp(ctx context.Context, products []domain.Product) error

	// Invalidate — убрать товар из кэша (цена или карточка изменились).
	Invalidate(ctx context.Context, id int64)
}

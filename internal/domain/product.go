package domain

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product — товар каталога (принадлежит внешнему API, здесь только читается).
type Product struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	ActualPrice   decimal.Decimal  `json:"actual_price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	Rating        float64          `json:"rating"`
	MainCategory  string           `json:"main_category"`
	SubCategory   string           `json:"sub_category,omitempty"`
	ImageURL      string           `json:"image_url,omitempty"`
}

// Pagination — дескриптор пагинации из ответа каталога.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	TotalCount  int `json:"total_count"`
	PerPage     int `json:"per_page"`
}

// TotalPages — ceil(total_count / per_page); 0 при per_page <= 0.
func (p Pagination) TotalPages() int {
	if p.PerPage <= 0 {
		return 0
	}
	return (p.TotalCount + p.PerPage - 1) / p.PerPage
}

// GoodsPage — страница каталога. Внешний API отдаёт либо голый массив
// товаров, либо объект {"goods": [...], "_pagination": {...}}.
type GoodsPage struct {
	Goods      []Product   `json:"goods"`
	Pagination *Pagination `json:"_pagination,omitempty"`
}

// HasMore — есть ли следующая страница (кнопка «Загрузить ещё»).
// Без дескриптора пагинации ориентируемся на заполненность страницы.
func (g GoodsPage) HasMore(perPage int) bool {
	if g.Pagination != nil {
		return g.Pagination.CurrentPage < g.Pagination.TotalPages()
	}
	return perPage > 0 && len(g.Goods) >= perPage
}

// UnmarshalJSON принимает обе формы ответа.
func (g *GoodsPage) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var goods []Product
		if err := json.Unmarshal(trimmed, &goods); err != nil {
			return err
		}
		*g = GoodsPage{Goods: goods}
		return nil
	}

	type plain GoodsPage
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*g = GoodsPage(p)
	return nil
}

var productImages = []string{
	"https://images.unsplash.com/photo-1498049794561-7780e7231661?auto=format&fit=crop&w=400&h=300&q=80",
	"https://images.unsplash.com/photo-1516035069371-29a1b244cc32?auto=format&fit=crop&w=400&h=300&q=80",
	"https://images.unsplash.com/photo-1556656793-08538906a9f8?auto=format&fit=crop&w=400&h=300&q=80",
	"https://images.unsplash.com/photo-1517336714731-489689fd1ca8?auto=format&fit=crop&w=400&h=300&q=80",
	"https://images.unsplash.com/photo-1512941937669-90a1b58e7e9c?auto=format&fit=crop&w=400&h=300&q=80",
	"https://images.unsplash.com/photo-1531297484001-80022131f5a1?auto=format&fit=crop&w=400&h=300&q=80",
	"https://images.unsplash.com/photo-1499951360447-b19be8fe80f5?auto=format&fit=crop&w=400&h=300&q=80",
	"https://images.unsplash.com/photo-1526170375885-4d8ecf77b99f?auto=format&fit=crop&w=400&h=300&q=80",
	"https://images.unsplash.com/photo-1518709268805-4e9042af2176?auto=format&fit=crop&w=400&h=300&q=80",
	"https://images.unsplash.com/photo-1542291026-7eec264c27ff?auto=format&fit=crop&w=400&h=300&q=80",
	"https://images.unsplash.com/photo-1505740420928-5e560c06d30e?auto=format&fit=crop&w=400&h=300&q=80",
	"https://images.unsplash.com/photo-1523275335684-37898b6baf30?auto=format&fit=crop&w=400&h=300&q=80",
}

// PlaceholderImage — картинка для товаров без валидного id.
const PlaceholderImage = "https://images.unsplash.com/photo-1550745165-9bc0b252726f?auto=format&fit=crop&w=400&h=300&q=80"

// ProductImage — картинка товара: равномерно распределяем галерею по id.
func ProductImage(id int64) string {
	if id <= 0 {
		return PlaceholderImage
	}
	return productImages[(id-1)%int64(len(productImages))]
}

// ProductUpdate — событие об изменении карточки или цены товара.
// Продюсер присылает либо один id, либо пачку ids.
type ProductUpdate struct {
	ID  int64   `json:"id,omitempty"`
	IDs []int64 `json:"ids,omitempty"`
}

// ProductIDs — все положительные id из события без повторов.
func (u ProductUpdate) ProductIDs() []int64 {
	out := make([]int64, 0, len(u.IDs)+1)
	seen := make(map[int64]struct{}, len(u.IDs)+1)
	for _, id := range append([]int64{u.ID}, u.IDs...) {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

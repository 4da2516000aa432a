package usecase

import (
	"fmt"

	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/internal/pricing"
)

// listNameLimit — длина имени товара в списке заказов.
const listNameLimit = 30

func productView(p domain.Product) domain.ProductView {
	img := p.ImageURL
	if img == "" {
		img = domain.ProductImage(p.ID)
	}
	return domain.ProductView{
		Product:         p,
		Price:           pricing.EffectiveUnitPrice(p),
		DiscountPercent: pricing.DiscountPercent(p),
		Stars:           pricing.StarRating(p.Rating),
		Image:           img,
	}
}

func cartLineView(line domain.CartLine, current domain.Product) domain.CartLineView {
	pv := productView(current)
	name := line.Name
	if name == "" {
		name = current.Name
	}
	return domain.CartLineView{
		ProductID:       line.ProductID,
		Name:            name,
		Quantity:        line.Quantity,
		UnitPrice:       pv.Price,
		ActualPrice:     current.ActualPrice,
		DiscountPercent: pv.DiscountPercent,
		LineTotal:       pricing.LineTotal(line, current),
		Stars:           pv.Stars,
		Image:           pv.Image,
	}
}

// itemName — имя товара в заказе; для неизвестных товаров «Товар #id».
func itemName(id int64, products map[int64]domain.Product, limit int) string {
	p, ok := products[id]
	if !ok || p.Name == "" {
		return fmt.Sprintf("Товар #%d", id)
	}
	return domain.ShortName(p.Name, limit)
}

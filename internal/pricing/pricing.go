// Package pricing — расчёт цен: эффективная цена товара, суммы по корзине,
// стоимость доставки и восстановление суммы заказа по списку товаров.
// Пакет чистый: без ввода-вывода и глобального состояния.
package pricing

import (
	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// HasDiscount — скидка действует, только если она задана и строго меньше обычной цены.
func HasDiscount(p domain.Product) bool {
	return p.DiscountPrice != nil && p.DiscountPrice.LessThan(p.ActualPrice)
}

// EffectiveUnitPrice — цена за штуку с учётом скидки.
func EffectiveUnitPrice(p domain.Product) decimal.Decimal {
	if HasDiscount(p) {
		return *p.DiscountPrice
	}
	return p.ActualPrice
}

// DiscountPercent — round((1 - discount/actual) * 100); 0 без скидки.
func DiscountPercent(p domain.Product) int {
	if !HasDiscount(p) || !p.ActualPrice.IsPositive() {
		return 0
	}
	ratio := p.DiscountPrice.Div(p.ActualPrice)
	return int(decimal.NewFromInt(1).Sub(ratio).Mul(hundred).Round(0).IntPart())
}

// LineTotal — количество × текущая эффективная цена товара.
func LineTotal(line domain.CartLine, current domain.Product) decimal.Decimal {
	return EffectiveUnitPrice(current).Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// ResolvedLine — позиция корзины вместе с актуальной карточкой товара.
type ResolvedLine struct {
	Line    domain.CartLine
	Product domain.Product
}

// CartSubtotal — сумма LineTotal по всем позициям.
func CartSubtotal(lines []ResolvedLine) decimal.Decimal {
	sum := decimal.Zero
	for _, rl := range lines {
		sum = sum.Add(LineTotal(rl.Line, rl.Product))
	}
	return sum
}

// ProductResolver — поиск товара по id; false, если товар не найден.
type ProductResolver func(id int64) (domain.Product, bool)

// OrderTotal — сумма заказа, восстановленная по good_ids: базовый сбор
// плюс эффективные цены найденных товаров. Ненайденные id дают 0.
// Стоимость доставки сюда не входит.
func OrderTotal(goodIDs []int64, resolve ProductResolver) decimal.Decimal {
	total := BaseDeliveryFee
	for _, id := range goodIDs {
		if p, ok := resolve(id); ok {
			total = total.Add(EffectiveUnitPrice(p))
		}
	}
	return total
}

// Quote — сводка для оформления заказа.
type Quote struct {
	GoodsTotal   decimal.Decimal `json:"goods_total"`
	DeliveryCost decimal.Decimal `json:"delivery_cost"`
	Total        decimal.Decimal `json:"total"`
}

// QuoteCheckout — товары по текущим ценам + доставка.
func QuoteCheckout(lines []ResolvedLine, date domain.CalendarDate, interval string) Quote {
	goods := CartSubtotal(lines)
	delivery := DeliveryCost(date, interval)
	return Quote{
		GoodsTotal:   goods,
		DeliveryCost: delivery,
		Total:        goods.Add(delivery),
	}
}

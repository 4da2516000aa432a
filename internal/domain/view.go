package domain

import "github.com/shopspring/decimal"

// ProductView — карточка товара с производными полями для витрины.
type ProductView struct {
	Product
	Price           decimal.Decimal `json:"price"`
	DiscountPercent int             `json:"discount_percent"`
	Stars           string          `json:"stars"`
	Image           string          `json:"image"`
}

// CatalogPage — страница каталога для клиента.
type CatalogPage struct {
	Goods      []ProductView `json:"goods"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	HasMore    bool          `json:"has_more"`
	Pagination *Pagination   `json:"_pagination,omitempty"`
}

// CartLineView — позиция корзины, пересчитанная по текущей карточке товара.
type CartLineView struct {
	ProductID       int64           `json:"id"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	ActualPrice     decimal.Decimal `json:"actual_price"`
	DiscountPercent int             `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
	Stars           string          `json:"stars"`
	Image           string          `json:"image"`
}

// CartView — корзина для показа. Позиции, товар которых не удалось
// загрузить, в Lines не попадают и перечислены в Unresolved.
type CartView struct {
	Lines      []CartLineView  `json:"lines"`
	ItemCount  int             `json:"item_count"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Unresolved []int64         `json:"unresolved,omitempty"`
}

// Источник суммы заказа.
const (
	TotalSnapshot = "snapshot" // зафиксирована при оформлении через этот сервис
	TotalEstimate = "estimate" // пересчитана по текущим ценам каталога
)

// OrderItemView — товар в заказе.
type OrderItemView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OrderView — заказ для консоли заказов.
type OrderView struct {
	Order
	Items       []OrderItemView `json:"items"`
	Total       decimal.Decimal `json:"total"`
	TotalSource string          `json:"total_source"`
}

// OrderSnapshot — сумма заказа, зафиксированная при оформлении.
type OrderSnapshot struct {
	OrderID      int64           `json:"order_id"`
	GoodsTotal   decimal.Decimal `json:"goods_total"`
	DeliveryCost decimal.Decimal `json:"delivery_cost"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    Timestamp       `json:"created_at"`
}

// CheckoutForm — данные формы оформления заказа.
type CheckoutForm struct {
	FullName         string       `json:"full_name"`
	Phone            string       `json:"phone"`
	Email            string       `json:"email"`
	DeliveryAddress  string       `json:"delivery_address"`
	DeliveryDate     CalendarDate `json:"delivery_date"`
	DeliveryInterval string       `json:"delivery_interval"`
	Comment          string       `json:"comment"`
	Subscribe        bool         `json:"subscribe"`
}

// Draft — черновик заказа из формы и списка товаров.
func (f CheckoutForm) Draft(goodIDs []int64) OrderDraft {
	return OrderDraft{
		FullName:         f.FullName,
		Phone:            f.Phone,
		Email:            f.Email,
		DeliveryAddress:  f.DeliveryAddress,
		DeliveryDate:     f.DeliveryDate,
		DeliveryInterval: f.DeliveryInterval,
		Comment:          f.Comment,
		GoodIDs:          goodIDs,
		Subscribe:        f.Subscribe,
	}
}

// CheckoutResult — итог оформления.
type CheckoutResult struct {
	Order    Order         `json:"order"`
	Snapshot OrderSnapshot `json:"snapshot"`
}

// ShortName — имя, обрезанное до limit символов с многоточием.
func ShortName(name string, limit int) string {
	r := []rune(name)
	if limit <= 0 || len(r) <= limit {
		return name
	}
	return string(r[:limit]) + "..."
}

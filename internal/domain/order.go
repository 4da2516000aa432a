package domain

// Order — заказ во внешнем API.
// Итоговая сумма на сервере не хранится (см. OrderTotal в pricing).
type Order struct {
	ID               int64        `json:"id"`
	CreatedAt        Timestamp    `json:"created_at"`
	FullName         string       `json:"full_name"`
	Phone            string       `json:"phone"`
	Email            string       `json:"email"`
	DeliveryAddress  string       `json:"delivery_address"`
	DeliveryDate     CalendarDate `json:"delivery_date"`
	DeliveryInterval string       `json:"delivery_interval"`
	Comment          string       `json:"comment,omitempty"`
	GoodIDs          []int64      `json:"good_ids"`
	Subscribe        bool         `json:"subscribe"`
}

// OrderDraft — тело запроса на создание заказа.
type OrderDraft struct {
	FullName         string       `json:"full_name" validate:"required"`
	Phone            string       `json:"phone" validate:"required,shop_phone"`
	Email            string       `json:"email" validate:"required,shop_email"`
	DeliveryAddress  string       `json:"delivery_address" validate:"required"`
	DeliveryDate     CalendarDate `json:"delivery_date"`
	DeliveryInterval string       `json:"delivery_interval" validate:"required,shop_interval"`
	Comment          string       `json:"comment"`
	GoodIDs          []int64      `json:"good_ids" validate:"required,min=1,dive,gt=0"`
	Subscribe        bool         `json:"subscribe"`
}

// OrderPatch — частичное обновление заказа; nil-поля не отправляются.
type OrderPatch struct {
	FullName         *string       `json:"full_name,omitempty" validate:"omitempty,min=1"`
	Phone            *string       `json:"phone,omitempty" validate:"omitempty,shop_phone"`
	Email            *string       `json:"email,omitempty" validate:"omitempty,shop_email"`
	DeliveryAddress  *string       `json:"delivery_address,omitempty" validate:"omitempty,min=1"`
	DeliveryDate     *CalendarDate `json:"delivery_date,omitempty"`
	DeliveryInterval *string       `json:"delivery_interval,omitempty" validate:"omitempty,shop_interval"`
	Comment          *string       `json:"comment,omitempty"`
	GoodIDs          []int64       `json:"good_ids,omitempty" validate:"omitempty,dive,gt=0"`
}

// IsEmpty — в патче нет ни одного поля.
func (p OrderPatch) IsEmpty() bool {
	return p.FullName == nil && p.Phone == nil && p.Email == nil && p.DeliveryAddress == nil &&
		p.DeliveryDate == nil && p.DeliveryInterval == nil && p.Comment == nil && p.GoodIDs == nil
}

// OrderEventType — тип события жизненного цикла заказа.
type OrderEventType string

const (
	OrderCreated OrderEventType = "order.created"
	OrderUpdated OrderEventType = "order.updated"
	OrderDeleted OrderEventType = "order.deleted"
)

// OrderEvent — событие, которое публикуется после успешного вызова API.
type OrderEvent struct {
	Type       OrderEventType `json:"type"`
	OrderID    int64          `json:"order_id"`
	GoodIDs    []int64        `json:"good_ids,omitempty"`
	Total      string         `json:"total,omitempty"`
	OccurredAt Timestamp      `json:"occurred_at"`
}

package rest

import (
	"fmt"
	"strings"

	"github.com/Gunvolt24/techshop/internal/domain"
)

// Даты в запросах — строки: форма присылает YYYY-MM-DD, консоль DD.MM.YYYY.

type addItemRequest struct {
	ProductID int64 `json:"id" binding:"required,gt=0"`
}

// adjustItemRequest — любое целое, в том числе 0; обязательно только наличие поля.
type adjustItemRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

type checkoutRequest struct {
	FullName         string `json:"full_name"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	DeliveryAddress  string `json:"delivery_address"`
	DeliveryDate     string `json:"delivery_date"`
	DeliveryInterval string `json:"delivery_interval"`
	Comment          string `json:"comment"`
	Subscribe        bool   `json:"subscribe"`
}

func (r checkoutRequest) form() (domain.CheckoutForm, error) {
	date, err := optionalDate(r.DeliveryDate)
	if err != nil {
		return domain.CheckoutForm{}, err
	}
	return domain.CheckoutForm{
		FullName:         strings.TrimSpace(r.FullName),
		Phone:            strings.TrimSpace(r.Phone),
		Email:            strings.TrimSpace(r.Email),
		DeliveryAddress:  strings.TrimSpace(r.DeliveryAddress),
		DeliveryDate:     date,
		DeliveryInterval: strings.TrimSpace(r.DeliveryInterval),
		Comment:          r.Comment,
		Subscribe:        r.Subscribe,
	}, nil
}

type orderRequest struct {
	checkoutRequest
	GoodIDs []int64 `json:"good_ids"`
}

func (r orderRequest) draft() (domain.OrderDraft, error) {
	f, err := r.form()
	if err != nil {
		return domain.OrderDraft{}, err
	}
	return f.Draft(r.GoodIDs), nil
}

// orderPatchRequest — отсутствующие поля не меняются.
type orderPatchRequest struct {
	FullName         *string `json:"full_name"`
	Phone            *string `json:"phone"`
	Email            *string `json:"email"`
	DeliveryAddress  *string `json:"delivery_address"`
	DeliveryDate     *string `json:"delivery_date"`
	DeliveryInterval *string `json:"delivery_interval"`
	Comment          *string `json:"comment"`
	GoodIDs          []int64 `json:"good_ids"`
}

func (r orderPatchRequest) patch() (domain.OrderPatch, error) {
	p := domain.OrderPatch{
		FullName:         r.FullName,
		Phone:            r.Phone,
		Email:            r.Email,
		DeliveryAddress:  r.DeliveryAddress,
		DeliveryInterval: r.DeliveryInterval,
		Comment:          r.Comment,
		GoodIDs:          r.GoodIDs,
	}
	if r.DeliveryDate != nil {
		date, err := domain.ParseAnyDate(*r.DeliveryDate)
		if err != nil {
			return domain.OrderPatch{}, err
		}
		p.DeliveryDate = &date
	}
	return p, nil
}

func optionalDate(raw string) (domain.CalendarDate, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.CalendarDate{}, nil
	}
	return domain.ParseAnyDate(raw)
}

// cartResponse — корзина после изменения (счётчик для шапки сайта).
type cartResponse struct {
	Lines     []domain.CartLine `json:"lines"`
	ItemCount int               `json:"item_count"`
}

func newCartResponse(c *domain.Cart) cartResponse {
	lines := c.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return cartResponse{Lines: lines, ItemCount: c.ItemCount()}
}

func bindError(err error) error {
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

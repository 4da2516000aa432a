//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/shopspring/decimal"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeProduct — товар каталога с ценой без скидки.
func MakeProduct(id int64, opts ...func(*domain.Product)) domain.Product {
	p := domain.Product{
		ID:           id,
		Name:         "Товар " + UniqSuffix(),
		ActualPrice:  decimal.NewFromInt(1000),
		Rating:       4.5,
		MainCategory: "electronics",
	}
	for _, fn := range opts {
		fn(&p)
	}
	return p
}

func WithDiscount(price int64) func(*domain.Product) {
	return func(p *domain.Product) {
		d := decimal.NewFromInt(price)
		p.DiscountPrice = &d
	}
}

// MakeDraft — валидный черновик заказа на ближайший понедельник, утренний интервал.
func MakeDraft(goodIDs ...int64) domain.OrderDraft {
	day := time.Now().UTC().AddDate(0, 0, 1)
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, 1)
	}
	if len(goodIDs) == 0 {
		goodIDs = []int64{1}
	}
	return domain.OrderDraft{
		FullName:         "Иван Петров",
		Phone:            "+7 (999) 123-45-67",
		Email:            "ivan@example.com",
		DeliveryAddress:  "Москва, ул. Ленина, 1",
		DeliveryDate:     domain.DateOf(day),
		DeliveryInterval: "08:00-12:00",
		GoodIDs:          goodIDs,
	}
}

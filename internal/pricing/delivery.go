package pricing

import (
	"strconv"
	"strings"

	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	BaseDeliveryFee  = decimal.NewFromInt(200)
	WeekendSurcharge = decimal.NewFromInt(300)
	EveningSurcharge = decimal.NewFromInt(200)
)

// EveningStartHour — интервалы, начинающиеся с этого часа, считаются вечерними.
const EveningStartHour = 18

// DeliveryCost — базовая стоимость плюс надбавки:
//   - выходной день (сб/вс) — WeekendSurcharge;
//   - вечерний интервал в будний день — EveningSurcharge.
//
// Без даты или без интервала — только базовая стоимость.
func DeliveryCost(date domain.CalendarDate, interval string) decimal.Decimal {
	if date.IsZero() || strings.TrimSpace(interval) == "" {
		return BaseDeliveryFee
	}

	cost := BaseDeliveryFee
	if date.IsWeekend() {
		cost = cost.Add(WeekendSurcharge)
	} else if hour, ok := IntervalStartHour(interval); ok && hour >= EveningStartHour {
		cost = cost.Add(EveningSurcharge)
	}
	return cost
}

// IntervalStartHour — час начала интервала «HH:MM-HH:MM».
// Берём ведущие цифры до ':'; false, если цифр нет.
func IntervalStartHour(interval string) (int, bool) {
	start, _, _ := strings.Cut(strings.TrimSpace(interval), "-")
	hourPart, _, _ := strings.Cut(strings.TrimSpace(start), ":")

	end := 0
	for end < len(hourPart) && hourPart[end] >= '0' && hourPart[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	hour, err := strconv.Atoi(hourPart[:end])
	if err != nil {
		return 0, false
	}
	return hour, true
}

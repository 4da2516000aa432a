package pricing

import (
	"math"
	"strings"
)

const (
	starFull  = "★"
	starHalf  = "½"
	starEmpty = "☆"
	maxStars  = 5
)

// StarCounts — сколько полных, половинчатых и пустых звёзд нужно для рейтинга.
// Рейтинг зажимается в [0, 5], сумма всегда равна 5.
func StarCounts(rating float64) (full, half, empty int) {
	if math.IsNaN(rating) || rating < 0 {
		rating = 0
	}
	if rating > maxStars {
		rating = maxStars
	}

	full = int(math.Floor(rating))
	if full < maxStars && rating-float64(full) >= 0.5 {
		half = 1
	}
	empty = maxStars - full - half
	return full, half, empty
}

// StarRating — строка из 5 символов: ★ ★ ★ ½ ☆.
func StarRating(rating float64) string {
	full, half, empty := StarCounts(rating)

	var b strings.Builder
	b.WriteString(strings.Repeat(starFull, full))
	b.WriteString(strings.Repeat(starHalf, half))
	b.WriteString(strings.Repeat(starEmpty, empty))
	return b.String()
}

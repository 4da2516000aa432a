package cart

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/Gunvolt24/techshop/internal/domain"
)

var errNotArray = errors.New("cart blob is not a json array")

// Encode — корзина в виде JSON-массива позиций.
func Encode(c domain.Cart) ([]byte, error) {
	lines := c.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return json.Marshal(lines)
}

// Decode — обратное к Encode. Дубли схлопываются, позиции с количеством
// <= 0 отбрасываются, так что инварианты корзины выполняются и для
// значений, записанных не нами.
func Decode(raw []byte) (domain.Cart, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return domain.Cart{}, errNotArray
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(trimmed, &lines); err != nil {
		return domain.Cart{}, err
	}
	c := domain.Cart{Lines: lines}
	c.Normalize()
	return c, nil
}

package domain

import "github.com/shopspring/decimal"

// CartLine — позиция корзины: товар и количество.
// Имя и цена кэшируются в момент добавления и дальше не обновляются.
type CartLine struct {
	ProductID int64           `json:"id"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
}

// Cart — упорядоченный список позиций, ключ — ProductID.
// Инвариант: в корзине нет позиций с Quantity <= 0 и нет дублей ProductID.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// ItemCount — суммарное количество штук (счётчик в шапке сайта).
func (c Cart) ItemCount() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

func (c Cart) indexOf(productID int64) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Line — позиция по id товара.
func (c Cart) Line(productID int64) (CartLine, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.Lines[i], true
	}
	return CartLine{}, false
}

// Add — +1 к существующей позиции или новая позиция с количеством 1.
func (c *Cart) Add(line CartLine) {
	if i := c.indexOf(line.ProductID); i >= 0 {
		c.Lines[i].Quantity++
		return
	}
	line.Quantity = 1
	c.Lines = append(c.Lines, line)
}

// Adjust — изменить количество на delta. Позиция удаляется, если количество
// стало <= 0. Возвращает false, если такой позиции нет.
func (c *Cart) Adjust(productID int64, delta int) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.Lines[i].Quantity += delta
	if c.Lines[i].Quantity <= 0 {
		c.removeAt(i)
	}
	return true
}

// Remove — удалить позицию; false, если её не было.
func (c *Cart) Remove(productID int64) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.removeAt(i)
	return true
}

func (c *Cart) removeAt(i int) {
	c.Lines = append(c.Lines[:i:i], c.Lines[i+1:]...)
}

// Normalize — чинит то, что могло прийти из хранилища в плохом виде:
// склеивает дубли и выбрасывает позиции с неположительным количеством.
func (c *Cart) Normalize() {
	out := make([]CartLine, 0, len(c.Lines))
	index := make(map[int64]int, len(c.Lines))
	for _, l := range c.Lines {
		if l.Quantity <= 0 {
			continue
		}
		if i, ok := index[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(out)
		out = append(out, l)
	}
	c.Lines = out
}

// GoodIDs — id товаров для заказа: каждый id повторяется quantity раз,
// чтобы по заказу можно было восстановить количество.
func (c Cart) GoodIDs() []int64 {
	ids := make([]int64, 0, c.ItemCount())
	for _, l := range c.Lines {
		for i := 0; i < l.Quantity; i++ {
			ids = append(ids, l.ProductID)
		}
	}
	return ids
}

// Clone — глубокая копия.
func (c Cart) Clone() Cart {
	return Cart{Lines: append([]CartLine(nil), c.Lines...)}
}

package shopapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Gunvolt24/techshop/internal/domain"
)

// Goods — страница каталога. Ответ бывает и голым списком, и объектом с _pagination.
func (c *Client) Goods(ctx context.Context, params url.Values) (domain.GoodsPage, error) {
	var page domain.GoodsPage
	if err := c.do(ctx, "goods", http.MethodGet, "goods", params, nil, &page); err != nil {
		return domain.GoodsPage{}, err
	}
	return page, nil
}

// Good — карточка товара. 404 совпадает с ErrNotFound.
func (c *Client) Good(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, "good", http.MethodGet, "goods/"+strconv.FormatInt(id, 10), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Autocomplete — подсказки поиска. Короткие запросы не отправляются.
func (c *Client) Autocomplete(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return []string{}, nil
	}
	var out []string
	if err := c.do(ctx, "autocomplete", http.MethodGet, "autocomplete", url.Values{"query": {query}}, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (c *Client) Orders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, "orders", http.MethodGet, "orders", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Order(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	if err := c.do(ctx, "order", http.MethodGet, orderPath(id), nil, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrder — POST orders; delivery_date уходит как DD.MM.YYYY.
func (c *Client) CreateOrder(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error) {
	var o domain.Order
	if err := c.do(ctx, "create_order", http.MethodPost, "orders", nil, draft, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateOrder — PUT orders/:id только с заданными полями патча.
func (c *Client) UpdateOrder(ctx context.Context, id int64, patch domain.OrderPatch) (*domain.Order, error) {
	var o domain.Order
	if err := c.do(ctx, "update_order", http.MethodPut, orderPath(id), nil, patch, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_order", http.MethodDelete, orderPath(id), nil, nil, nil)
}

func orderPath(id int64) string {
	return "orders/" + strconv.FormatInt(id, 10)
}

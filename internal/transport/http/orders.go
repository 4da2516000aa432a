package rest

import (
	"net/http"
	"strconv"

	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/pkg/httpx"
	"github.com/gin-gonic/gin"
)

const (
	defaultOrdersLimit = 50
	maxOrdersLimit     = 500
)

// GET /api/orders?limit=&offset= — внешнее API отдаёт весь список,
// окно вырезаем здесь; полный размер в X-Total-Count.
func (h *Handler) listOrders(c *gin.Context) {
	limit, offset := httpx.ParseLimitOffset(c, defaultOrdersLimit, maxOrdersLimit)

	ctx, cancel := h.requestContext(c)
	defer cancel()

	orders, err := h.orders.List(ctx)
	if err != nil {
		h.fail(c, "list orders", err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(len(orders)))
	c.JSON(http.StatusOK, window(orders, limit, offset))
}

func (h *Handler) getOrder(c *gin.Context) {
	id, err := httpx.ParseIDParam(c, "id")
	if err != nil {
		h.fail(c, "get order", err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	o, err := h.orders.Get(ctx, id)
	if err != nil {
		h.fail(c, "get order", err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) createOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "create order", bindError(err))
		return
	}
	draft, err := req.draft()
	if err != nil {
		h.fail(c, "create order", err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	o, err := h.orders.Create(ctx, draft)
	if err != nil {
		h.fail(c, "create order", err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *Handler) updateOrder(c *gin.Context) {
	id, err := httpx.ParseIDParam(c, "id")
	if err != nil {
		h.fail(c, "update order", err)
		return
	}
	var req orderPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "update order", bindError(err))
		return
	}
	patch, err := req.patch()
	if err != nil {
		h.fail(c, "update order", err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	o, err := h.orders.Update(ctx, id, patch)
	if err != nil {
		h.fail(c, "update order", err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) deleteOrder(c *gin.Context) {
	id, err := httpx.ParseIDParam(c, "id")
	if err != nil {
		h.fail(c, "delete order", err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.orders.Delete(ctx, id); err != nil {
		h.fail(c, "delete order", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func window(orders []domain.OrderView, limit, offset int) []domain.OrderView {
	if offset >= len(orders) {
		return []domain.OrderView{}
	}
	end := offset + limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[offset:end]
}

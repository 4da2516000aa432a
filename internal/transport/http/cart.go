package rest

import (
	"net/http"

	"github.com/Gunvolt24/techshop/pkg/httpx"
	"github.com/gin-gonic/gin"
)

func (h *Handler) viewCart(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	view, err := h.cart.View(ctx, httpx.ProfileID(c))
	if err != nil {
		h.fail(c, "view cart", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) addToCart(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "add to cart", bindError(err))
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	cart, err := h.cart.Add(ctx, httpx.ProfileID(c), req.ProductID)
	if err != nil {
		h.fail(c, "add to cart", err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

// PATCH /api/cart/items/:id {"delta": ±n}
func (h *Handler) adjustCartItem(c *gin.Context) {
	id, err := httpx.ParseIDParam(c, "id")
	if err != nil {
		h.fail(c, "adjust cart", err)
		return
	}
	var req adjustItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "adjust cart", bindError(err))
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	cart, err := h.cart.Adjust(ctx, httpx.ProfileID(c), id, *req.Delta)
	if err != nil {
		h.fail(c, "adjust cart", err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func (h *Handler) removeCartItem(c *gin.Context) {
	id, err := httpx.ParseIDParam(c, "id")
	if err != nil {
		h.fail(c, "remove from cart", err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	cart, err := h.cart.Remove(ctx, httpx.ProfileID(c), id)
	if err != nil {
		h.fail(c, "remove from cart", err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func (h *Handler) clearCart(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.cart.Clear(ctx, httpx.ProfileID(c)); err != nil {
		h.fail(c, "clear cart", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/cart/quote?delivery_date=&delivery_interval=
func (h *Handler) quote(c *gin.Context) {
	date, err := optionalDate(c.Query("delivery_date"))
	if err != nil {
		h.fail(c, "quote", err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	q, err := h.cart.Quote(ctx, httpx.ProfileID(c), date, c.Query("delivery_interval"))
	if err != nil {
		h.fail(c, "quote", err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handler) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "checkout", bindError(err))
		return
	}
	form, err := req.form()
	if err != nil {
		h.fail(c, "checkout", err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	res, err := h.cart.Checkout(ctx, httpx.ProfileID(c), form)
	if err != nil {
		h.fail(c, "checkout", err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

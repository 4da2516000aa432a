package rest

import (
	"errors"
	"net/http"

	"github.com/Gunvolt24/techshop/internal/catalog"
	"github.com/Gunvolt24/techshop/pkg/httpx"
	"github.com/gin-gonic/gin"
)

// GET /api/products — параметры те же, что у внешнего API.
func (h *Handler) browse(c *gin.Context) {
	state, err := catalog.ParseQueryState(c.Request.URL.Query(), h.pageSize)
	if err != nil {
		h.fail(c, "browse", err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	page, err := h.catalog.Browse(ctx, state)
	if err != nil {
		h.fail(c, "browse", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) product(c *gin.Context) {
	id, err := httpx.ParseIDParam(c, "id")
	if err != nil {
		h.fail(c, "product", err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	p, err := h.catalog.Product(ctx, id)
	if err != nil {
		h.fail(c, "product", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) categories(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	cats, err := h.catalog.Categories(ctx)
	if err != nil {
		h.fail(c, "categories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

// GET /api/autocomplete?query= — устаревший ответ отбрасывается (204).
func (h *Handler) autocomplete(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	suggestions, err := h.catalog.Suggest(ctx, httpx.ProfileID(c), c.Query(catalog.ParamQuery))
	if errors.Is(err, catalog.ErrStaleSuggestions) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		h.fail(c, "autocomplete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// Package rest — HTTP-адаптер витрины (BFF): каталог, корзина профиля,
// оформление и консоль заказов поверх сервисов usecase.
package rest

import (
	"context"
	"time"

	"github.com/Gunvolt24/techshop/internal/catalog"
	"github.com/Gunvolt24/techshop/internal/ports"
	"github.com/gin-gonic/gin"
)

// Handler — HTTP-обработчики; зависят только от интерфейсов сервисов.
type Handler struct {
	catalog        ports.CatalogService
	cart           ports.CartService
	orders         ports.OrderService
	log            ports.Logger
	handlerTimeout time.Duration
	pageSize       int
	profileTTL     time.Duration
}

// Options — параметры обработчиков.
type Options struct {
	HandlerTimeout   time.Duration // 0 — без собственного таймаута
	PageSize         int           // размер страницы каталога по умолчанию
	ProfileCookieTTL time.Duration
}

func NewHandler(
	catalogSvc ports.CatalogService,
	cartSvc ports.CartService,
	orderSvc ports.OrderService,
	log ports.Logger,
	opts Options,
) *Handler {
	if opts.PageSize <= 0 {
		opts.PageSize = catalog.DefaultPageSize
	}
	if opts.ProfileCookieTTL <= 0 {
		opts.ProfileCookieTTL = 30 * 24 * time.Hour
	}
	return &Handler{
		catalog:        catalogSvc,
		cart:           cartSvc,
		orders:         orderSvc,
		log:            log,
		handlerTimeout: opts.HandlerTimeout,
		pageSize:       opts.PageSize,
		profileTTL:     opts.ProfileCookieTTL,
	}
}

// requestContext — контекст запроса с таймаутом обработчика.
func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.handlerTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.handlerTimeout)
}

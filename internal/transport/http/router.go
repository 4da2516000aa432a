package rest

import (
	"net/http"
	"path/filepath"

	"github.com/Gunvolt24/techshop/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter — gin-движок со всеми маршрутами.
// otelServiceName == "" — без otelgin (трейсинг выключен).
func NewRouter(h *Handler, staticDir, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(httpx.ProfileMiddleware(h.profileTTL))
	{
		api.GET("/products", h.browse)
		api.GET("/products/:id", h.product)
		api.GET("/categories", h.categories)
		api.GET("/autocomplete", h.autocomplete)

		api.GET("/cart", h.viewCart)
		api.DELETE("/cart", h.clearCart)
		api.POST("/cart/items", h.addToCart)
		api.PATCH("/cart/items/:id", h.adjustCartItem)
		api.DELETE("/cart/items/:id", h.removeCartItem)
		api.GET("/cart/quote", h.quote)
		api.POST("/cart/checkout", h.checkout)

		api.GET("/orders", h.listOrders)
		api.POST("/orders", h.createOrder)
		api.GET("/orders/:id", h.getOrder)
		api.PUT("/orders/:id", h.updateOrder)
		api.DELETE("/orders/:id", h.deleteOrder)
	}

	if staticDir != "" {
		r.Static("/static", staticDir)
		r.StaticFile("/", filepath.Join(staticDir, "index.html"))
	}

	return r
}

package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/Gunvolt24/techshop/internal/catalog"
	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/internal/shopapi"
	"github.com/Gunvolt24/techshop/internal/usecase"
	"github.com/Gunvolt24/techshop/pkg/httpx"
	"github.com/Gunvolt24/techshop/pkg/validate"
	"github.com/gin-gonic/gin"
)

// errorResponse — тело любой ошибки: {"error": "..."}.
type errorResponse struct {
	Error string `json:"error"`
}

// errBadRequest — ошибки разбора тела и параметров запроса.
var errBadRequest = errors.New("bad request")

// statusFor — HTTP-статус и текст уведомления для ошибки.
func statusFor(err error) (int, string) {
	var apiErr *shopapi.APIError
	switch {
	case errors.Is(err, shopapi.ErrNotFound):
		return http.StatusNotFound, shopapi.UserMessage(err)
	case errors.Is(err, usecase.ErrEmptyCart):
		return http.StatusBadRequest, "Корзина пуста"
	case errors.Is(err, validate.ErrInvalidOrder),
		errors.Is(err, catalog.ErrInvalidQuery),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, httpx.ErrInvalidID),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &apiErr):
		if apiErr.Kind == shopapi.KindTransport && errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout, apiErr.Message
		}
		return http.StatusBadGateway, apiErr.Message
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// fail — ответ с ошибкой; 5xx логируются как ошибки, остальное как предупреждения.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Errorf(c.Request.Context(), "%s failed status=%d err=%v", op, status, err)
	} else {
		h.log.Warnf(c.Request.Context(), "%s rejected status=%d err=%v", op, status, err)
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}

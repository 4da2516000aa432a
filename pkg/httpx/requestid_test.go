package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gunvolt24/techshop/pkg/ctxmeta"
	"github.com/Gunvolt24/techshop/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// serveRequestID — ответный заголовок и значение из контекста обработчика.
func serveRequestID(t *testing.T, incoming string) (header, fromCtx string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(httpx.RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		fromCtx, _ = ctxmeta.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	if incoming != "" {
		req.Header.Set(httpx.RequestIDHeader, incoming)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Header().Get(httpx.RequestIDHeader), fromCtx
}

func TestRequestIDMiddleware_KeepsSafeHeader(t *testing.T) {
	header, fromCtx := serveRequestID(t, "custom-id_42.a")
	require.Equal(t, "custom-id_42.a", header)
	require.Equal(t, header, fromCtx)
}

func TestRequestIDMiddleware_ReplacesMissingOrUnsafe(t *testing.T) {
	for _, incoming := range []string{
		"",
		"id with spaces",
		"line\nbreak",
		"заказ-1",
		strings.Repeat("a", 65),
	} {
		header, fromCtx := serveRequestID(t, incoming)
		_, err := uuid.Parse(header)
		require.NoError(t, err, "incoming %q", incoming)
		require.Equal(t, header, fromCtx)
	}
}

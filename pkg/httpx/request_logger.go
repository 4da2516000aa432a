package httpx

import (
	"net/http"
	"time"

	"github.com/Gunvolt24/techshop/internal/ports"
	"github.com/Gunvolt24/techshop/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
)

// quietPaths — служебные маршруты без записи в лог.
var quietPaths = map[string]struct{}{
	"/metrics": {},
	"/ping":    {},
}

// RequestLogger — строка лога на запрос; уровень по статусу ответа
// (5xx — error, 4xx — warn).
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if _, quiet := quietPaths[path]; quiet {
			return
		}
		if path == "" {
			path = c.Request.URL.Path
		}

		ctx := c.Request.Context()
		rid, _ := ctxmeta.RequestIDFromContext(ctx)
		trace, _ := ctxmeta.TraceIDFromContext(ctx)
		profile, _ := ctxmeta.ProfileIDFromContext(ctx)
		status := c.Writer.Status()

		logf := log.Infof
		switch {
		case status >= http.StatusInternalServerError:
			logf = log.Errorf
		case status >= http.StatusBadRequest:
			logf = log.Warnf
		}
		logf(ctx, "request id=%s trace=%s profile=%s method=%s path=%s status=%d ip=%s duration=%s size=%d",
			rid, trace, profile, c.Request.Method, path, status, c.ClientIP(), time.Since(start), c.Writer.Size())
	}
}

package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gunvolt24/techshop/internal/ports/mocks"
	"github.com/Gunvolt24/techshop/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
)

func loggedRouter(log *mocks.MockLogger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(httpx.RequestIDMiddleware(), httpx.RequestLogger(log))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/status/:code", func(c *gin.Context) {
		switch c.Param("code") {
		case "500":
			c.Status(http.StatusInternalServerError)
		case "404":
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusOK)
		}
	})
	return r
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	cases := []struct {
		path   string
		expect func(*mocks.MockLogger)
	}{
		{"/status/200", func(m *mocks.MockLogger) { m.EXPECT().Infof(gomock.Any(), gomock.Any(), gomock.Any()).Times(1) }},
		{"/status/404", func(m *mocks.MockLogger) { m.EXPECT().Warnf(gomock.Any(), gomock.Any(), gomock.Any()).Times(1) }},
		{"/status/500", func(m *mocks.MockLogger) { m.EXPECT().Errorf(gomock.Any(), gomock.Any(), gomock.Any()).Times(1) }},
		// маршрута нет: 404 с сырым путём
		{"/missing", func(m *mocks.MockLogger) { m.EXPECT().Warnf(gomock.Any(), gomock.Any(), gomock.Any()).Times(1) }},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			log := mocks.NewMockLogger(ctrl)
			tc.expect(log)

			w := httptest.NewRecorder()
			loggedRouter(log).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, http.NoBody))
		})
	}
}

func TestRequestLogger_QuietPaths(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl) // без ожиданий: любой вызов провалит тест

	w := httptest.NewRecorder()
	loggedRouter(log).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"aiplugin/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())

	var ctxRequestID, ctxTraceID, ginRequestID string
	r.GET("/", func(c *gin.Context) {
		ctxRequestID = logger.GetRequestID(c.Request.Context())
		ctxTraceID = logger.GetTraceID(c.Request.Context())
		ginRequestID = GetRequestIDFromGin(c)
		c.Status(http.StatusOK)
	})

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(HeaderRequestID)
		assert.Len(t, id, 36)
		assert.Equal(t, id, ctxRequestID)
		assert.Equal(t, id, ctxTraceID)
		assert.Equal(t, id, ginRequestID)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, "req-1")
		req.Header.Set(HeaderTraceID, "trace-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))
		assert.Equal(t, "trace-1", w.Header().Get(HeaderTraceID))
		assert.Equal(t, "trace-1", ctxTraceID)
	})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type flagChecker struct {
	ready atomic.Bool
}

func (f *flagChecker) Ready() bool { return f.ready.Load() }

func TestReadiness(t *testing.T) {
	checker := &flagChecker{}
	router := gin.New()
	router.Use(RequestID(), Readiness(checker, "/health"))
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "probe")
	})
	router.GET("/products", func(c *gin.Context) {
		c.String(http.StatusOK, "[]")
	})

	serve := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", path, nil)
		req.Header.Set(RequestIDHeader, "req-ready")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("rejects requests while not ready", func(t *testing.T) {
		w := serve("/products")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t,
			`{"message":"Database connection is not ready","code":"STORE_NOT_READY","request_id":"req-ready"}`,
			w.Body.String())
	})

	t.Run("bypass path is served while not ready", func(t *testing.T) {
		w := serve("/health")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "probe", w.Body.String())
	})

	t.Run("passes once ready", func(t *testing.T) {
		checker.ready.Store(true)
		w := serve("/products")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})
}

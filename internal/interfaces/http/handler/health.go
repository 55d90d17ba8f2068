package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// StoreProbe reports the state of the backing store
type StoreProbe interface {
	Ready() bool
	Ping(ctx context.Context) error
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Database string `json:"database"`
}

// HealthHandler reports service liveness and store readiness
type HealthHandler struct {
	store       StoreProbe
	pingTimeout time.Duration
	now         func() time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(store StoreProbe) *HealthHandler {
	return &HealthHandler{
		store:       store,
		pingTimeout: 2 * time.Second,
		now:         time.Now,
	}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	stamp := h.now().UTC().Format(time.RFC3339)

	if !h.store.Ready() {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "starting", Time: stamp, Database: "connecting"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.pingTimeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Time: stamp, Database: "error"})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Time: stamp, Database: "ok"})
}

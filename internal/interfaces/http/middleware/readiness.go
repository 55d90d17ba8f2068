package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// ReadinessChecker reports whether the backing store can serve requests
type ReadinessChecker interface {
	Ready() bool
}

// Readiness rejects requests with STORE_NOT_READY until checker reports ready.
// Paths in bypass are always let through so probes can observe the starting state.
func Readiness(checker ReadinessChecker, bypass ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(bypass))
	for _, p := range bypass {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok || checker.Ready() {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
			shared.CodeStoreNotReady,
			shared.ErrStoreNotReady.Message,
			GetRequestID(c),
		))
	}
}

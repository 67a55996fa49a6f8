package rolodex

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger is anything whose liveness can be checked, usually the store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health serves the liveness endpoint.
type Health interface {
	HealthCheckHandler(c *gin.Context)
}

type zHealth struct {
	log     Logger
	pinger  Pinger
	timeout time.Duration
}

// NewHealth creates a new Health instance
func NewHealth(l Logger, p Pinger) Health {
	return &zHealth{
		log:     l,
		pinger:  p,
		timeout: 2 * time.Second,
	}
}

// HealthCheckHandler reports 200 when the backing store answers, 503 otherwise
func (h *zHealth) HealthCheckHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		h.log.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "The service is running smoothly.",
	})
}

package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks liveness of a backing dependency
type Pinger interface {
	Ping() error
}

// HealthHandler reports service and dependency health
type HealthHandler struct {
	BaseHandler
	db    Pinger
	redis RedisPinger
}

// RedisPinger checks Redis connectivity
type RedisPinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler creates a new HealthHandler. Either dependency may be nil.
func NewHealthHandler(db Pinger, redis RedisPinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health returns service status and per-dependency checks
func (h *HealthHandler) Health(c *gin.Context) {
	checks := map[string]string{}
	healthy := true

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "unavailable"
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	}

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.redis.Ping(ctx); err != nil {
			checks["redis"] = "unavailable"
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := "ok"
	if !healthy {
		status = "degraded"
	}

	h.Success(c, gin.H{
		"status": status,
		"checks": checks,
		"time":   time.Now().UTC(),
	})
}

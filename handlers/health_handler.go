package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/chuck-norris-sms/pkg/response"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health checks.
type HealthHandler struct {
	store        pinger
	cache        pinger
	checkTimeout time.Duration
}

func NewHealthHandler(store pinger) *HealthHandler {
	return &HealthHandler{
		store:        store,
		checkTimeout: 2 * time.Second,
	}
}

// WithCache adds the dedup cache to the report. Without it the cache is
// reported as disabled.
func (h *HealthHandler) WithCache(cache pinger) *HealthHandler {
	h.cache = cache
	return h
}

// Health returns overall status and basic component statuses (store and cache).
// @Summary Health check
// @Description Returns overall status with subscriber store and Redis connectivity results
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} response.SuccessResponse
// @Failure 503 {object} response.SuccessResponse
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.checkTimeout)
	defer cancel()

	overallStatus := "ok"

	storeStatus := "up"
	if h.store == nil {
		storeStatus = "down"
		overallStatus = "down"
	} else if err := h.store.Ping(ctx); err != nil {
		storeStatus = "down"
		overallStatus = "down"
	}

	redisStatus := "disabled"
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			redisStatus = "down"
			if overallStatus == "ok" {
				overallStatus = "degraded"
			}
		} else {
			redisStatus = "up"
		}
	}

	report := map[string]any{
		"status":    overallStatus,
		"timestamp": time.Now().Format(time.RFC3339),
		"components": map[string]any{
			"store": map[string]any{
				"status": storeStatus,
			},
			"redis": map[string]any{
				"status": redisStatus,
			},
		},
	}

	if overallStatus == "down" {
		return response.ServiceUnavailable(c, report)
	}
	return response.Ok(c, report)
}

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/chuck-norris-sms/internal/domain"
	"github.com/onurcolak/chuck-norris-sms/internal/scheduler"
	"github.com/onurcolak/chuck-norris-sms/pkg/logger"
	"github.com/onurcolak/chuck-norris-sms/pkg/response"
)

type broadcastScheduler interface {
	Start(ctx context.Context) error
	Stop() error
	IsRunning() bool
	RunNow(ctx context.Context) domain.BroadcastResult
	GetStatus() scheduler.SchedulerStatus
}

type SchedulerHandler struct {
	scheduler broadcastScheduler
	ctx       context.Context
}

func NewSchedulerHandler(sched broadcastScheduler, ctx context.Context) *SchedulerHandler {
	return &SchedulerHandler{
		scheduler: sched,
		ctx:       ctx,
	}
}

// Blast godoc
// @Summary Broadcast a joke now
// @Description Fetches one joke and sends it to every subscriber
// @Tags scheduler
// @Produce plain
// @Param x-admin-key header string false "Admin key, required when ADMIN_API_KEY is set"
// @Success 200 {string} string
// @Router /chuck-norris/blast [get]
func (h *SchedulerHandler) Blast(c echo.Context) error {
	logger.Infof("Message broadcast requested...")

	result := h.scheduler.RunNow(context.WithoutCancel(c.Request().Context()))
	if result.Attempted == 0 {
		return response.Text(c, "ups... something went wrong and no joke was fetched...")
	}

	return response.Text(c, fmt.Sprintf("Chuck Norris Jokes sent to %d subscribers.", result.Attempted))
}

// CronStart godoc
// @Summary Start the daily broadcast timer
// @Tags scheduler
// @Produce plain
// @Param x-admin-key header string false "Admin key, required when ADMIN_API_KEY is set"
// @Success 200 {string} string
// @Failure 500 {string} string
// @Router /chuck-norris/cron-start [get]
func (h *SchedulerHandler) CronStart(c echo.Context) error {
	if err := h.scheduler.Start(h.ctx); err != nil {
		logger.Errorf("Failed to start broadcast timer: %v", err)
		return c.String(http.StatusInternalServerError, "ups... unable to activate cron right now...")
	}

	logger.Warnf("CRON is now activated")
	return response.Text(c, "cron activated at "+timestamp())
}

// CronStop godoc
// @Summary Stop the daily broadcast timer
// @Tags scheduler
// @Produce plain
// @Param x-admin-key header string false "Admin key, required when ADMIN_API_KEY is set"
// @Success 200 {string} string
// @Router /chuck-norris/cron-stop [get]
func (h *SchedulerHandler) CronStop(c echo.Context) error {
	if err := h.scheduler.Stop(); err != nil {
		logger.Errorf("Failed to stop broadcast timer: %v", err)
	}

	logger.Infof("CRON is now deactivated")
	return response.Text(c, "cron deactivated at "+timestamp())
}

// CronStatus godoc
// @Summary Broadcast timer status
// @Tags scheduler
// @Produce plain
// @Param x-admin-key header string false "Admin key, required when ADMIN_API_KEY is set"
// @Success 200 {string} string
// @Router /chuck-norris/cron-status [get]
func (h *SchedulerHandler) CronStatus(c echo.Context) error {
	status := h.scheduler.GetStatus()

	state := "inactive"
	if status.Running {
		state = "active"
	}

	return response.Text(c, fmt.Sprintf(
		"cron %s (%s %s) | next run: %s | last run: %s | runs: %d | attempted: %d | queued: %d | none queued streak: %d | last alert: %s",
		state,
		status.CronSpec,
		status.Timezone,
		formatTime(status.NextRunAt),
		formatTime(status.LastRunAt),
		status.RunsCount,
		status.MessagesAttempted,
		status.MessagesQueued,
		status.ConsecutiveNoneQueued,
		formatTime(status.LastAlertSentAt),
	))
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}

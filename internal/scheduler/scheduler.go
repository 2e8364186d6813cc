package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/robfig/cron/v3"

	"github.com/onurcolak/chuck-norris-sms/environments"
	"github.com/onurcolak/chuck-norris-sms/internal/domain"
	"github.com/onurcolak/chuck-norris-sms/pkg/logger"
)

// broadcaster is a minimal internal interface for the scheduler.
// It matches Broadcaster.Broadcast and lets us unit test the scheduler
// with a small fake implementation.
type broadcaster interface {
	Broadcast(ctx context.Context) domain.BroadcastResult
}

type Scheduler struct {
	broadcaster broadcaster
	spec        string
	schedule    cron.Schedule
	location    *time.Location

	alertClient     *resty.Client
	alertWebhook    string
	alertThreshold  int // Number of consecutive runs with nothing queued before alert
	lastAlertSentAt time.Time

	// Internal state
	running  bool
	cron     *cron.Cron
	stopChan chan struct{}
	mu       sync.RWMutex
	runMu    sync.Mutex // one broadcast at a time, timer or admin

	// Statistics
	lastRunAt         time.Time
	runsCount         int64
	messagesAttempted int64
	messagesQueued    int64

	// Alert tracking
	consecutiveNoneQueued int
}

func NewScheduler(b broadcaster, cfg environments.BroadcastConfig) (*Scheduler, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid broadcast timezone %q: %w", cfg.Timezone, err)
	}

	schedule, err := cron.ParseStandard(cfg.CronSpec)
	if err != nil {
		return nil, fmt.Errorf("invalid broadcast cron spec %q: %w", cfg.CronSpec, err)
	}

	return &Scheduler{
		broadcaster:    b,
		spec:           cfg.CronSpec,
		schedule:       schedule,
		location:       location,
		alertClient:    resty.New().SetTimeout(10 * time.Second),
		alertWebhook:   cfg.AlertWebhook,
		alertThreshold: cfg.AlertThreshold,
	}, nil
}

// Start arms the daily timer. Jobs inherit ctx; cancelling it disarms the
// timer as Stop does.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()

	if s.running {
		s.mu.Unlock()
		logger.Warnf("Scheduler is already running")
		return nil
	}

	c := cron.New(
		cron.WithLocation(s.location),
		cron.WithLogger(cron.PrintfLogger(logger.Get())),
	)

	c.Schedule(s.schedule, cron.FuncJob(func() { s.RunNow(ctx) }))

	s.cron = c
	s.running = true
	s.stopChan = make(chan struct{})
	stopChan := s.stopChan
	s.mu.Unlock()

	c.Start()

	go func() {
		select {
		case <-ctx.Done():
			logger.Warnf("Scheduler context cancelled")
			_ = s.Stop()
		case <-stopChan:
		}
	}()

	logger.Infof("Scheduler started with spec %q (%s). Next execution at %s",
		s.spec, s.location, s.nextRun().Format(time.RFC3339))

	return nil
}

// Stop disarms the timer and waits for a broadcast in flight to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()

	if !s.running {
		s.mu.Unlock()
		logger.Warnf("Scheduler is not running")
		return nil
	}

	s.running = false
	c := s.cron
	stopChan := s.stopChan
	s.mu.Unlock()

	close(stopChan)

	// Wait for running jobs to finish
	<-c.Stop().Done()

	logger.Infof("Scheduler stopped")
	return nil
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// RunNow performs one broadcast and records it in the statistics. The timer
// and the admin blast endpoint both go through here.
func (s *Scheduler) RunNow(ctx context.Context) domain.BroadcastResult {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	startedAt := time.Now().In(s.location)

	s.mu.Lock()
	s.lastRunAt = startedAt
	s.runsCount++
	runNumber := s.runsCount
	s.mu.Unlock()

	logger.Infof("[Run #%d] Starting broadcast at %s", runNumber, startedAt.Format(time.RFC3339))

	result := s.broadcaster.Broadcast(ctx)

	s.mu.Lock()
	s.messagesAttempted += int64(result.Attempted)
	s.messagesQueued += int64(result.Queued)

	// Track consecutive runs where subscribers were attempted but nothing was queued
	if result.Attempted > 0 && result.Queued == 0 {
		s.consecutiveNoneQueued++
		logger.Warnf("[Run #%d] None of %d messages were queued (consecutive count: %d/%d)",
			runNumber, result.Attempted, s.consecutiveNoneQueued, s.alertThreshold)

		if s.consecutiveNoneQueued >= s.alertThreshold && s.alertThreshold > 0 && s.alertWebhook != "" {
			go s.sendAlert(s.alertWebhook, runNumber, s.consecutiveNoneQueued, result.Attempted)
		}
	} else {
		if s.consecutiveNoneQueued > 0 {
			logger.Debugf("[Run #%d] Resetting consecutive failure count (was: %d)",
				runNumber, s.consecutiveNoneQueued)
		}
		s.consecutiveNoneQueued = 0
	}
	s.mu.Unlock()

	logger.Infof("[Run #%d] Broadcast %s: %d attempted, %d queued",
		runNumber, result.RunID, result.Attempted, result.Queued)

	return result
}

func (s *Scheduler) GetStatus() SchedulerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := SchedulerStatus{
		Running:               s.running,
		LastRunAt:             s.lastRunAt,
		RunsCount:             s.runsCount,
		MessagesAttempted:     s.messagesAttempted,
		MessagesQueued:        s.messagesQueued,
		CronSpec:              s.spec,
		Timezone:              s.location.String(),
		ConsecutiveNoneQueued: s.consecutiveNoneQueued,
		LastAlertSentAt:       s.lastAlertSentAt,
	}

	if s.running {
		status.NextRunAt = s.nextRun()
	}

	return status
}

func (s *Scheduler) nextRun() time.Time {
	return s.schedule.Next(time.Now().In(s.location))
}

func (s *Scheduler) sendAlert(webhookURL string, runNumber int64, consecutiveFailures int, attempted int) {
	alertPayload := map[string]any{
		"alert":               "consecutive_none_queued",
		"runNumber":           runNumber,
		"consecutiveFailures": consecutiveFailures,
		"messagesAttempted":   attempted,
		"timestamp":           time.Now().Format(time.RFC3339),
		"message": fmt.Sprintf(
			"No joke was queued for %d subscribers for %d consecutive broadcasts",
			attempted,
			consecutiveFailures,
		),
	}

	resp, err := s.alertClient.R().
		SetHeader("Content-Type", "application/json").
		SetBody(alertPayload).
		Post(webhookURL)
	if err != nil {
		logger.Errorf("Failed to send alert to webhook: %v", err)
		return
	}

	if resp.IsSuccess() {
		s.mu.Lock()
		s.lastAlertSentAt = time.Now()
		s.mu.Unlock()
		logger.Infof("Alert sent successfully to %s (consecutive failures: %d)", webhookURL, consecutiveFailures)
	} else {
		logger.Warnf("Alert webhook returned status %d", resp.StatusCode())
	}
}

type SchedulerStatus struct {
	Running               bool      `json:"running"`
	LastRunAt             time.Time `json:"lastRunAt,omitempty"`
	NextRunAt             time.Time `json:"nextRunAt,omitempty"`
	RunsCount             int64     `json:"runsCount"`
	MessagesAttempted     int64     `json:"messagesAttempted"`
	MessagesQueued        int64     `json:"messagesQueued"`
	CronSpec              string    `json:"cronSpec"`
	Timezone              string    `json:"timezone"`
	ConsecutiveNoneQueued int       `json:"consecutiveNoneQueued"`
	LastAlertSentAt       time.Time `json:"lastAlertSentAt,omitempty"`
}

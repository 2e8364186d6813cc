package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/onurcolak/chuck-norris-sms/environments"
	"github.com/onurcolak/chuck-norris-sms/internal/domain"
	"github.com/onurcolak/chuck-norris-sms/pkg/logger"
)

type subscriberLister interface {
	List(ctx context.Context) ([]domain.Subscriber, error)
}

type smsSender interface {
	SendSMS(ctx context.Context, to, from, text string) (domain.DeliveryStatus, error)
}

// Broadcaster sends one joke to every subscriber. It backs both the daily
// timer and the admin blast endpoint.
type Broadcaster struct {
	repo        subscriberLister
	gateway     smsSender
	content     contentProvider
	config      environments.MessageConfig
	concurrency int
	limiter     *rate.Limiter
}

func NewBroadcaster(
	repo subscriberLister,
	gateway smsSender,
	content contentProvider,
	config environments.MessageConfig,
	broadcastConfig environments.BroadcastConfig,
) *Broadcaster {
	concurrency := broadcastConfig.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	var limiter *rate.Limiter
	if broadcastConfig.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(broadcastConfig.RatePerSec), 1)
	}

	return &Broadcaster{
		repo:        repo,
		gateway:     gateway,
		content:     content,
		config:      config,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// Broadcast fetches one joke and attempts it once per subscriber. Per-recipient
// failures are logged and never stop the run.
func (b *Broadcaster) Broadcast(ctx context.Context) domain.BroadcastResult {
	result := domain.BroadcastResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	joke, err := b.content.Fetch(ctx)
	if err != nil {
		logger.Warnf("Broadcast %s aborted, no joke fetched: %v", result.RunID, err)
		result.FinishedAt = time.Now().UTC()
		return result
	}
	result.Content = composeJoke(joke, b.config.MaxLength)

	subscribers, err := b.repo.List(ctx)
	if err != nil {
		logger.Errorf("Broadcast %s aborted, unable to list subscribers: %v", result.RunID, err)
		result.FinishedAt = time.Now().UTC()
		return result
	}

	logger.Infof("Broadcast %s: sending joke to %d subscribers", result.RunID, len(subscribers))

	var attempted, queued atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(b.concurrency)

	for _, sub := range subscribers {
		g.Go(func() error {
			if b.limiter != nil {
				if err := b.limiter.Wait(ctx); err != nil {
					logger.Warnf("Broadcast %s: skipping %s: %v", result.RunID, sub.Number, err)
					return nil
				}
			}

			from := sub.ReplyFrom
			if from == "" {
				from = b.config.SMSFromNumber
			}

			attempted.Add(1)
			status, err := b.gateway.SendSMS(ctx, sub.Number, from, result.Content)
			if err != nil {
				logger.Errorf("Broadcast %s: failed to send to %s: %v", result.RunID, sub.Number, err)
				return nil
			}
			if status == domain.DeliveryQueued {
				queued.Add(1)
			} else {
				logger.Warnf("Broadcast %s: delivery to %s not queued (status: %s)", result.RunID, sub.Number, status)
			}
			return nil
		})
	}
	_ = g.Wait()

	result.Attempted = int(attempted.Load())
	result.Queued = int(queued.Load())
	result.FinishedAt = time.Now().UTC()

	logger.Infof("Broadcast %s finished: attempted=%d queued=%d", result.RunID, result.Attempted, result.Queued)

	return result
}

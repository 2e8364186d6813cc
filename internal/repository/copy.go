package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/onurcolak/chuck-norris-sms/internal/domain"
	"github.com/onurcolak/chuck-norris-sms/pkg/logger"
)

type subscriberSource interface {
	List(ctx context.Context) ([]domain.Subscriber, error)
}

type subscriberSink interface {
	Add(ctx context.Context, sub domain.Subscriber) error
}

// CopySubscribers adds every subscriber of src to dst, keeping creation
// times. Numbers already present in dst are skipped.
func CopySubscribers(ctx context.Context, src subscriberSource, dst subscriberSink) (copied, skipped int, err error) {
	subscribers, err := src.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read source store: %w", err)
	}

	for _, sub := range subscribers {
		if err := dst.Add(ctx, sub); err != nil {
			if errors.Is(err, domain.ErrAlreadySubscribed) {
				logger.Debugf("Subscriber %s already present, skipping", sub.Number)
				skipped++
				continue
			}
			return copied, skipped, fmt.Errorf("failed to copy subscriber %s: %w", sub.Number, err)
		}
		copied++
	}

	return copied, skipped, nil
}

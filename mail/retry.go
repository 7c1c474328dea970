package mail

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

// RetryingProvider decorates a Provider with exponential backoff on its
// network calls. Mail APIs rate limit aggressively; a short retry window
// smooths over transient failures without holding up the worker for long.
type RetryingProvider struct {
	inner      Provider
	maxElapsed time.Duration
}

func NewRetryingProvider(inner Provider, maxElapsed time.Duration) *RetryingProvider {
	if maxElapsed <= 0 {
		maxElapsed = 30 * time.Second
	}
	return &RetryingProvider{inner: inner, maxElapsed: maxElapsed}
}

func (p *RetryingProvider) ListUnread(ctx context.Context) ([]Message, error) {
	var messages []Message
	operation := func() error {
		var err error
		messages, err = p.inner.ListUnread(ctx)
		return err
	}
	if err := backoff.Retry(operation, p.newBackoff(ctx)); err != nil {
		return nil, errors.Wrap(err, "listing unread messages")
	}
	return messages, nil
}

func (p *RetryingProvider) MarkRead(ctx context.Context, id string) error {
	operation := func() error {
		return p.inner.MarkRead(ctx, id)
	}
	if err := backoff.Retry(operation, p.newBackoff(ctx)); err != nil {
		return errors.Wrapf(err, "marking message %s read", id)
	}
	return nil
}

func (p *RetryingProvider) newBackoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = p.maxElapsed
	return backoff.WithContext(b, ctx)
}

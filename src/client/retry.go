package client

import (
	"context"
	"log"

	"github.com/cenkalti/backoff/v4"
)

const MaxRetries = 3

// Retry runs fn until it succeeds, returns a non-retryable error, or MaxRetries retries are spent.
// Delays double from the client's base delay.
func (c *Client) Retry(ctx context.Context, fn func(ctx context.Context) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryBase
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = c.retryBase << MaxRetries
	b.MaxElapsedTime = 0

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !Retryable(err) {
			return backoff.Permanent(err)
		}
		log.Printf("[Client] attempt %d failed, retrying: %s\n", attempt, err.Error())
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, MaxRetries), ctx))
}

// Package fetch downloads paper files over HTTP with a bounded retry
// budget and exponential backoff between attempts.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Fetcher retrieves remote file bytes. Retry policy lives here and only
// here; callers see a single Fetch call that either yields bytes or a
// final error wrapping the last cause.
type Fetcher struct {
	client    *http.Client
	attempts  int
	baseDelay time.Duration
	log       *zap.Logger
}

// New builds a fetcher with a per-attempt timeout and a total attempt
// budget (first try included).
func New(timeout time.Duration, attempts int, log *zap.Logger) *Fetcher {
	if attempts < 1 {
		attempts = 1
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		attempts:  attempts,
		baseDelay: time.Second,
		log:       log,
	}
}

// Fetch returns the body and Content-Type for url. A non-2xx status or a
// transport failure counts as one failed attempt.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	var body []byte
	var contentType string
	attempt := 0

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.baseDelay
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxInterval = 30 * time.Second

	operation := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			f.log.Warn("download attempt failed",
				zap.String("url", url), zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			io.Copy(io.Discard, resp.Body)
			err := fmt.Errorf("unexpected status %s", resp.Status)
			f.log.Warn("download attempt failed",
				zap.String("url", url), zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		contentType = resp.Header.Get("Content-Type")
		return nil
	}

	retries := uint64(f.attempts - 1)
	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, retries), ctx))
	if err != nil {
		return nil, "", fmt.Errorf("downloading %s after %d attempts: %w", url, attempt, err)
	}
	return body, contentType, nil
}

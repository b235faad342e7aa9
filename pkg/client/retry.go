package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// schedule is the wait policy between attempts: attempt i waits
// spacing*i, plus penalty*i when the previous attempt was rate limited.
type schedule struct {
	spacing  time.Duration
	penalty  time.Duration
	attempts int

	attempt int
	extra   time.Duration
}

var _ backoff.BackOff = (*schedule)(nil)

func newSchedule(cfg Config) *schedule {
	return &schedule{
		spacing:  cfg.BaseDelay,
		penalty:  cfg.RateLimitDelay,
		attempts: cfg.MaxAttempts,
	}
}

func (s *schedule) Reset() {
	s.attempt = 0
	s.extra = 0
}

func (s *schedule) NextBackOff() time.Duration {
	s.attempt++
	if s.attempt >= s.attempts {
		return backoff.Stop
	}

	wait := s.spacing*time.Duration(s.attempt) + s.extra
	s.extra = 0
	return wait
}

// rateLimited extends the next wait after a 429.
func (s *schedule) rateLimited() {
	s.extra = s.penalty * time.Duration(s.attempt+1)
}

// fetch runs the retry loop for one upstream call and decodes the body into T.
func fetch[T any](ctx context.Context, c *Client, q Query) (T, error) {
	var result T

	sched := newSchedule(c.cfg)
	reqURL := makeRequest(c.baseURL, c.cfg.APIKey, q)

	operation := func() error {
		log := c.log.WithFields(logrus.Fields{
			"attempt":      sched.attempt + 1,
			"max_attempts": sched.attempts,
		})

		value, err := doAttempt[T](ctx, c, reqURL)
		if err == nil {
			result = value
			return nil
		}

		var se *statusError
		if errors.As(err, &se) {
			log = log.WithField("status", se.code)

			switch se.code {
			case http.StatusTooManyRequests:
				sched.rateLimited()
			case http.StatusForbidden, http.StatusBadRequest:
				log.Warnf("apod attempt failed, not retrying: %s", err)
				return backoff.Permanent(err)
			}
		}

		log.Warnf("apod attempt failed: %s", err)
		return err
	}

	notify := func(err error, wait time.Duration) {
		c.log.WithField("next_attempt_in", wait.String()).Info("retrying apod request")
	}

	if err := backoff.RetryNotifyWithTimer(operation, backoff.WithContext(sched, ctx), notify, c.timer); err != nil {
		return result, classify(err)
	}
	return result, nil
}

func doAttempt[T any](ctx context.Context, c *Client, reqURL string) (T, error) {
	var value T

	ctx, cancel := context.WithTimeout(ctx, c.cfg.AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return value, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return value, &transportError{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return value, newStatusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(&value); err != nil {
		return value, fmt.Errorf("decode response: %w", err)
	}
	return value, nil
}

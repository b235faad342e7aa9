// Package client talks to the NASA APOD endpoint.
//
// Every call retries transient failures on its own schedule and returns a
// typed *Error on failure. Calls share no state: there is no cache and no
// cross-call rate limit tracking.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"apod"
	"apod/pkg/consts"
)

// Fetcher is implemented by *Client and faked in service tests.
type Fetcher interface {
	FetchSingle(ctx context.Context, date string) (*apod.Record, error)
	FetchRange(ctx context.Context, start, end string) ([]apod.Record, error)
	FetchRandom(ctx context.Context, count int) ([]apod.Record, error)
	FetchRecent(ctx context.Context, days int) []apod.Record
}

var _ Fetcher = (*Client)(nil)

const (
	userAgent = "apod-gallery/1.0"

	defaultAttemptTimeout = 10 * time.Second
	defaultMaxAttempts    = 3
	defaultBaseDelay      = 2 * time.Second
	defaultRateLimitDelay = 5 * time.Second
)

// Order is the date order of range results.
type Order string

const (
	OrderAscending  Order = "asc"
	OrderDescending Order = "desc"
)

// ParseOrder accepts asc/desc, empty means ascending.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderAscending:
		return OrderAscending, nil
	case OrderDescending:
		return OrderDescending, nil
	default:
		return "", fmt.Errorf("unknown range order %q", s)
	}
}

type Config struct {
	BaseURL        string
	APIKey         string
	AttemptTimeout time.Duration
	MaxAttempts    int
	BaseDelay      time.Duration
	RateLimitDelay time.Duration
	RangeOrder     Order
	Thumbs         bool
}

func DefaultConfig() Config {
	return Config{
		BaseURL:        consts.BaseURL,
		APIKey:         consts.DemoKey,
		AttemptTimeout: defaultAttemptTimeout,
		MaxAttempts:    defaultMaxAttempts,
		BaseDelay:      defaultBaseDelay,
		RateLimitDelay: defaultRateLimitDelay,
		RangeOrder:     OrderAscending,
		Thumbs:         true,
	}
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.APIKey) == "" {
		c.APIKey = consts.DemoKey
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = defaultAttemptTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.BaseDelay < 0 {
		c.BaseDelay = defaultBaseDelay
	}
	if c.RateLimitDelay < 0 {
		c.RateLimitDelay = defaultRateLimitDelay
	}
	if c.RangeOrder == "" {
		c.RangeOrder = OrderAscending
	}
	return c
}

// Client is safe for concurrent use.
type Client struct {
	cfg     Config
	baseURL *url.URL
	http    *http.Client
	timer   backoff.Timer
	now     func() time.Time
	log     logrus.FieldLogger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimer replaces the timer used for waits between attempts.
func WithTimer(t backoff.Timer) Option {
	return func(c *Client) {
		c.timer = t
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func New(cfg Config, opts ...Option) (*Client, error) {
	cfg = cfg.withDefaults()

	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:     cfg,
		baseURL: base,
		http:    &http.Client{Timeout: cfg.AttemptTimeout},
		now:     time.Now,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.log = c.log.WithField("component", "apod_client")
	return c, nil
}

// UsesDemoKey reports whether the shared demo credential is configured.
func (c *Client) UsesDemoKey() bool {
	return c.cfg.APIKey == consts.DemoKey
}

// FetchSingle returns the record for date, or today's record when date is empty.
func (c *Client) FetchSingle(ctx context.Context, date string) (*apod.Record, error) {
	rec, err := fetch[apod.Record](ctx, c, Query{Date: date, Thumbs: c.cfg.Thumbs})
	if err != nil {
		c.log.WithFields(logrus.Fields{"date": date, "kind": KindOf(err)}).Errorf("error fetching apod: %s", err)
		return nil, err
	}

	return &rec, nil
}

// FetchRange returns one record per day in [start, end] in the configured order.
// The demo credential is refused up front.
func (c *Client) FetchRange(ctx context.Context, start, end string) ([]apod.Record, error) {
	if c.UsesDemoKey() {
		return nil, newError(KindRequiresPersonalKey, 0, nil)
	}

	recs, err := fetch[[]apod.Record](ctx, c, Query{StartDate: start, EndDate: end, Thumbs: c.cfg.Thumbs})
	if err != nil {
		c.log.WithFields(logrus.Fields{"start_date": start, "end_date": end, "kind": KindOf(err)}).Errorf("error fetching apod range: %s", err)
		return nil, err
	}

	c.sortRange(recs)
	return recs, nil
}

// FetchRandom returns at most count random records. With the demo
// credential it returns an empty list without calling upstream.
func (c *Client) FetchRandom(ctx context.Context, count int) ([]apod.Record, error) {
	if c.UsesDemoKey() {
		c.log.Warn("random records require a personal NASA API key")
		return []apod.Record{}, nil
	}

	if count < 1 {
		return nil, newError(KindInvalidRequest, 0, fmt.Errorf("count must be positive, got %d", count))
	}

	recs, err := fetch[[]apod.Record](ctx, c, Query{Count: count, Thumbs: c.cfg.Thumbs})
	if err != nil {
		c.log.WithFields(logrus.Fields{"count": count, "kind": KindOf(err)}).Errorf("error fetching random apods: %s", err)
		return nil, err
	}

	if len(recs) > count {
		recs = recs[:count]
	}
	return recs, nil
}

// FetchRecent returns the records of the last days days up to today (UTC).
// Failures are logged and yield an empty list.
func (c *Client) FetchRecent(ctx context.Context, days int) []apod.Record {
	if days < 0 {
		days = 0
	}

	end := c.now().UTC()
	start := end.AddDate(0, 0, -days)

	recs, err := c.FetchRange(ctx, start.Format(consts.TimeFormat), end.Format(consts.TimeFormat))
	if err != nil {
		c.log.WithFields(logrus.Fields{"days": days, "kind": KindOf(err)}).Warnf("recent apods unavailable: %s", err)
		return []apod.Record{}
	}

	return recs
}

func (c *Client) sortRange(recs []apod.Record) {
	desc := c.cfg.RangeOrder == OrderDescending
	sort.SliceStable(recs, func(i, j int) bool {
		if desc {
			return recs[i].Date > recs[j].Date
		}
		return recs[i].Date < recs[j].Date
	})
}

package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Limiter answers whether a keyed request may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
	Reset(ctx context.Context, key string) error
}

// Result describes the state of one rate limit window after a check.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Allowed reports whether the checked request may proceed.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before retrying, zero when allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Config defines a fixed window: at most Limit requests per Window.
type Config struct {
	Limit  int
	Window time.Duration
}

func (c Config) validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidConfig, c.Limit)
	}
	if c.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %v", ErrInvalidConfig, c.Window)
	}
	return nil
}

// Store counts requests per key within the current window.
type Store interface {
	// Incr increments the counter for key, starting a new window with the
	// given duration if none is active. Returns the count after the
	// increment and the time the window resets.
	Incr(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)

	// Reset clears the counter for key.
	Reset(ctx context.Context, key string) error
}

// FixedWindow is a fixed-window limiter over a pluggable counter store.
type FixedWindow struct {
	store Store
	cfg   Config
}

func NewFixedWindow(store Store, cfg Config) (*FixedWindow, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &FixedWindow{store: store, cfg: cfg}, nil
}

func (l *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	count, resetAt, err := l.store.Incr(ctx, key, l.cfg.Window)
	if err != nil {
		return nil, err
	}
	return &Result{
		Limit:     l.cfg.Limit,
		Remaining: l.cfg.Limit - count,
		ResetAt:   resetAt,
	}, nil
}

func (l *FixedWindow) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, key)
}

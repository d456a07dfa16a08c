// Package ratelimit throttles login attempts per username. Backends share a
// fixed-window counter model: the first attempt in a window starts it, and
// attempts beyond the limit are rejected until the window rolls over.
package ratelimit

import (
	"context"
	"time"
)

// LoginLimiter gates authentication attempts. Allow reports whether the
// attempt may proceed and when the current window resets.
type LoginLimiter interface {
	Allow(ctx context.Context, username string) (allowed bool, retryAt time.Time, err error)
}

// Unlimited never rejects. Used when no limit is configured.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (bool, time.Time, error) {
	return true, time.Time{}, nil
}

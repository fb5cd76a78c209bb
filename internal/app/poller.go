package app

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/five82/runlog/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// StartPoller launches a background goroutine that refetches every
// refetchable target. When a whole round fails the wait grows
// exponentially up to maxBackoff. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, targets []Target, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	var live []Target
	for _, t := range targets {
		if t.Refetchable {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return
	}

	go func() {
		failures := 0
		for {
			wait := calculateBackoff(failures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			if refresh(ctx, store, live) {
				failures = 0
				continue
			}
			failures++
			log.WithFields(log.Fields{
				"failures": failures,
				"next":     calculateBackoff(failures, interval),
			}).Warn("refresh failed for every source")
		}
	}()
}

// refresh refetches targets in order and reports whether any succeeded.
func refresh(ctx context.Context, store *state.Store, targets []Target) bool {
	ok := false
	for _, t := range targets {
		if ctx.Err() != nil {
			return ok
		}
		if fetchInto(ctx, store, t) == nil {
			ok = true
		}
	}
	return ok
}

// calculateBackoff returns base * 2^failures capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures < 0 {
		failures = 0
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

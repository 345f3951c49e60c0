// Package ratelimit throttles repeated log lines for conditions that can
// otherwise flood a log in a tight loop: a wedged fd the poller keeps
// reporting, or an epoll/kqueue call failing on every retry.
package ratelimit

import (
	"time"

	"github.com/joeycumines/go-catrate"
)

// Limiter caps how often a given category of log line is allowed through.
type Limiter struct {
	l *catrate.Limiter
}

// New constructs a Limiter allowing at most maxPerSecond events per
// category per second, and maxPerMinute per minute.
func New(maxPerSecond, maxPerMinute int) *Limiter {
	return &Limiter{l: catrate.NewLimiter(map[time.Duration]int{
		time.Second: maxPerSecond,
		time.Minute: maxPerMinute,
	})}
}

// Allow reports whether a log line in category should be emitted now.
func (r *Limiter) Allow(category string) bool {
	_, ok := r.l.Allow(category)
	return ok
}

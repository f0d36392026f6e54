package physics

import (
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

// RevLimiter cuts acceleration for a short random window after the engine
// reaches redline. The window is an expiry time on an injected clock, so it
// clears itself without any background callback. Active may be called from
// any goroutine.
type RevLimiter struct {
	clock      clock.Clock
	rng        *rand.Rand
	shortest   time.Duration
	longest    time.Duration
	armedUntil atomic.Int64 // unix nanoseconds; 0 when never armed
}

// NewRevLimiter creates a limiter whose cut lasts between shortest and
// longest inclusive.
func NewRevLimiter(clk clock.Clock, rng *rand.Rand, shortest, longest time.Duration) *RevLimiter {
	if longest < shortest {
		shortest, longest = longest, shortest
	}
	return &RevLimiter{clock: clk, rng: rng, shortest: shortest, longest: longest}
}

// Active reports whether the cut window is still open.
func (l *RevLimiter) Active() bool {
	until := l.armedUntil.Load()
	return until != 0 && l.clock.Now().UnixNano() < until
}

// Arm opens a new cut window unless one is already open. It reports whether
// a new window was opened.
func (l *RevLimiter) Arm() bool {
	if l.Active() {
		return false
	}
	window := l.shortest
	if span := l.longest - l.shortest; span > 0 {
		window += time.Duration(l.rng.Int64N(int64(span) + 1))
	}
	l.armedUntil.Store(l.clock.Now().Add(window).UnixNano())
	return true
}

// Until returns the end of the current or last window, or the zero time.
func (l *RevLimiter) Until() time.Time {
	until := l.armedUntil.Load()
	if until == 0 {
		return time.Time{}
	}
	return time.Unix(0, until)
}

// Reset clears any open window.
func (l *RevLimiter) Reset() {
	l.armedUntil.Store(0)
}

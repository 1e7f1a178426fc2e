package library

import "time"

// Clock stamps reservations. Successive readings within one process must be
// strictly increasing, because equal-priority reservations are served in
// timestamp order.
type Clock interface {
	Now() int64
}

// monotonicClock reads nanoseconds since its creation from the runtime's
// monotonic clock and bumps the value when two readings collide.
type monotonicClock struct {
	start time.Time
	last  int64
}

// NewMonotonicClock returns the Clock used when none is configured.
func NewMonotonicClock() Clock {
	return &monotonicClock{start: time.Now()}
}

func (c *monotonicClock) Now() int64 {
	now := time.Since(c.start).Nanoseconds()
	if now <= c.last {
		now = c.last + 1
	}
	c.last = now
	return now
}

// Config holds the tunables of a LibraryCatalog.
type Config struct {
	// WaitlistCapacity bounds each book's reservation queue. Zero or
	// negative selects DefaultWaitlistCapacity.
	WaitlistCapacity int

	// Clock stamps reservations. Nil selects NewMonotonicClock().
	Clock Clock
}

// DefaultConfig returns the settings used by the command line tools.
func DefaultConfig() Config {
	return Config{
		WaitlistCapacity: DefaultWaitlistCapacity,
		Clock:            NewMonotonicClock(),
	}
}

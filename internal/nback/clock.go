package nback

import "time"

// Clock abstracts wall time for the playback loop so schedules can be
// driven deterministically.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// SystemClock is the real wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// After waits for the duration to elapse and then sends the current time.
func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

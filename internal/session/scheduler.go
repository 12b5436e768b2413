package session

import "time"

// Scheduler defers spin resolution by the wheel-animation delay. The delay
// is pacing, not computation: the draw itself is instant and the scheduled
// function runs exactly once, with no cancellation path.
type Scheduler interface {
	Schedule(d time.Duration, fn func())
}

// TimerScheduler runs fn on its own goroutine after the delay. This is the
// production scheduler.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(d time.Duration, fn func()) {
	go func() {
		<-time.After(d)
		fn()
	}()
}

// SyncScheduler runs fn inline and ignores the delay. Used by tests and by
// the auto-play engine, which wants spins resolved before Spin returns.
type SyncScheduler struct{}

func (SyncScheduler) Schedule(_ time.Duration, fn func()) {
	fn()
}

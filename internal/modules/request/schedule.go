// README: Scheduling port for the deferred expiry action.
package request

import "time"

// CancelFunc stops a scheduled action. It reports whether the action was
// stopped before it fired. Whether or not the stop wins, the expiry guard
// in Expire keeps a late firing harmless.
type CancelFunc func() bool

// Scheduler schedules a callback to run once after d.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) CancelFunc
}

// TimerScheduler runs callbacks on real timers.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return t.Stop
}

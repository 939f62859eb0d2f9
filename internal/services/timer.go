package services

import "time"

// TimerStatus is the state of a timer session
type TimerStatus int

const (
	TimerIdle TimerStatus = iota
	TimerRunning
)

// String returns the status name
func (s TimerStatus) String() string {
	if s == TimerRunning {
		return "running"
	}
	return "idle"
}

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// Timer is the in-memory Idle/Running session machine. It does not know about
// tasks or storage; the caller turns the elapsed duration into hours.
// It belongs to the event loop that drives it and is not safe for concurrent use.
type Timer struct {
	now       Clock
	startedAt time.Time
	status    TimerStatus
}

// NewTimer creates an idle timer. A nil clock uses time.Now.
func NewTimer(now Clock) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{now: now}
}

// Start moves Idle to Running and records the start time.
// It returns false, changing nothing, when already running.
func (t *Timer) Start() bool {
	if t.status == TimerRunning {
		return false
	}
	t.startedAt = t.now()
	t.status = TimerRunning
	return true
}

// Stop moves Running to Idle and returns the wall-clock time since Start.
// It returns false, changing nothing, when already idle.
func (t *Timer) Stop() (time.Duration, bool) {
	if t.status != TimerRunning {
		return 0, false
	}
	elapsed := t.now().Sub(t.startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	t.status = TimerIdle
	t.startedAt = time.Time{}
	return elapsed, true
}

// Status returns the current state
func (t *Timer) Status() TimerStatus {
	return t.status
}

// Running reports whether the timer is running
func (t *Timer) Running() bool {
	return t.Status() == TimerRunning
}

// Elapsed returns the time since Start, or zero when idle
func (t *Timer) Elapsed() time.Duration {
	if t.status != TimerRunning {
		return 0
	}
	return t.now().Sub(t.startedAt)
}

// DurationToHours converts an elapsed duration to fractional hours
func DurationToHours(d time.Duration) float64 {
	return d.Seconds() / 3600
}

package engine

import "time"

const dateLayout = "2006-01-02"

// timerHandle is the cancellable handle kept for every scheduled quest
// timer.
type timerHandle interface {
	Stop() bool
}

// clock abstracts wall time and timer scheduling so tests can drive quest
// timers by hand.
type clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) timerHandle
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) timerHandle {
	return time.AfterFunc(d, fn)
}

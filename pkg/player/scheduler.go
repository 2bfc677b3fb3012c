package player

import "time"

// Timer is a pending auto-advance tick.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. Production code uses the wall clock; tests drive ticks by hand.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// WallClock schedules ticks with time.AfterFunc.
type WallClock struct{}

func (WallClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

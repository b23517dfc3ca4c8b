package playback

import "time"

// Timer is the part of *time.Timer the player needs.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Implementations must never run f synchronously
// inside AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock is backed by time.AfterFunc.
var SystemClock Clock = realClock{}

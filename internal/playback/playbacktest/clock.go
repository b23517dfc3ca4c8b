// Package playbacktest provides a manual clock for playback tests.
package playbacktest

import (
	"sort"
	"sync"
	"time"

	"curriculum-cli/internal/playback"
)

// Clock fires timers only when advanced.
type Clock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*timer
}

type timer struct {
	clock   *Clock
	seq     int
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

var _ playback.Clock = (*Clock)(nil)

func New() *Clock {
	return &Clock{}
}

func (c *Clock) AfterFunc(d time.Duration, f func()) playback.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &timer{clock: c, seq: len(c.timers), at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *timer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward and runs every due timer in deadline order on
// the calling goroutine.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*timer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].at == due[j].at {
			return due[i].seq < due[j].seq
		}
		return due[i].at < due[j].at
	})
	for _, t := range due {
		t.f()
	}
}

// Fire runs the seq-th created timer now regardless of its deadline. It reports
// false when that timer was stopped or already fired.
func (c *Clock) Fire(seq int) bool {
	c.mu.Lock()
	if seq < 0 || seq >= len(c.timers) {
		c.mu.Unlock()
		return false
	}
	t := c.timers[seq]
	if t.stopped || t.fired {
		c.mu.Unlock()
		return false
	}
	t.fired = true
	c.mu.Unlock()
	t.f()
	return true
}

// Pending counts timers that can still fire.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Package playback replays a finished response word by word to simulate
// streaming.
package playback

import (
	"context"
	"strings"
	"sync"
	"time"

	"curriculum-cli/internal/logger"
)

// DefaultInterval is the delay between consecutive tokens.
const DefaultInterval = 75 * time.Millisecond

type Options struct {
	Interval time.Duration
	Clock    Clock
	Log      *logger.LogEntry
}

// Player starts playbacks. It is stateless between plays and safe for
// concurrent use.
type Player struct {
	interval time.Duration
	clock    Clock
	log      *logger.LogEntry
}

func New(opts Options) *Player {
	p := &Player{
		interval: opts.Interval,
		clock:    opts.Clock,
		log:      opts.Log,
	}
	if p.interval < 0 {
		p.interval = 0
	}
	if p.clock == nil {
		p.clock = SystemClock
	}
	if p.log == nil {
		p.log = logger.Named("playback")
	}
	return p
}

// Tokenize splits formatted on single spaces. Every token but the last keeps
// its trailing space, so joining the tokens gives back formatted exactly.
func Tokenize(formatted string) []string {
	if formatted == "" {
		return nil
	}
	return strings.SplitAfter(formatted, " ")
}

// Play schedules token i of formatted at Interval*i from now and hands each
// token to onToken. Tokens are delivered exactly once and in order: a timer
// that fires early flushes every earlier undelivered token first.
//
// ctx is the lifetime of whatever displays the tokens; when it ends the
// playback is cancelled. onToken runs on a timer goroutine while the handle is
// locked, so it must not block and must not call Cancel.
func (p *Player) Play(ctx context.Context, formatted string, onToken func(string)) *Handle {
	tokens := Tokenize(formatted)
	h := &Handle{
		tokens:  tokens,
		onToken: onToken,
		done:    make(chan struct{}),
		log:     p.log,
	}
	if err := ctx.Err(); err != nil {
		h.cancelled = true
		close(h.done)
		return h
	}
	if len(tokens) == 0 {
		h.finished = true
		close(h.done)
		return h
	}

	h.mu.Lock()
	h.timers = make([]Timer, len(tokens))
	for i := range tokens {
		idx := i
		h.timers[i] = p.clock.AfterFunc(time.Duration(i)*p.interval, func() { h.fire(idx) })
	}
	h.stopWatch = context.AfterFunc(ctx, h.Cancel)
	h.mu.Unlock()
	return h
}

// Handle controls one playback.
type Handle struct {
	mu        sync.Mutex
	tokens    []string
	next      int
	acc       strings.Builder
	timers    []Timer
	onToken   func(string)
	cancelled bool
	finished  bool
	done      chan struct{}
	stopWatch func() bool
	log       *logger.LogEntry
}

func (h *Handle) fire(i int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled || h.finished {
		return
	}
	for h.next <= i && h.next < len(h.tokens) {
		tok := h.tokens[h.next]
		h.next++
		h.acc.WriteString(tok)
		if h.onToken != nil {
			h.onToken(tok)
		}
	}
	if h.next == len(h.tokens) {
		h.finished = true
		h.release()
		h.log.WithField("tokens", len(h.tokens)).Debug("playback finished")
	}
}

// Cancel stops every pending token. Once Cancel returns no further callback
// runs. Cancelling a finished playback is a no-op.
func (h *Handle) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled || h.finished {
		return
	}
	h.cancelled = true
	for _, t := range h.timers {
		if t != nil {
			t.Stop()
		}
	}
	h.release()
	h.log.WithField("delivered", h.next).WithField("tokens", len(h.tokens)).Debug("playback cancelled")
}

// release must be called with h.mu held, exactly once.
func (h *Handle) release() {
	h.timers = nil
	if h.stopWatch != nil {
		h.stopWatch()
		h.stopWatch = nil
	}
	close(h.done)
}

// Done is closed when every token was delivered or the playback was cancelled.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the playback ends or ctx is done.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Text returns everything delivered so far.
func (h *Handle) Text() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.acc.String()
}

// Progress reports delivered and total token counts.
func (h *Handle) Progress() (delivered, total int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.next, len(h.tokens)
}

func (h *Handle) Cancelled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

func (h *Handle) Finished() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.finished
}

// Duration is the playback length for n tokens: the last token fires at
// Interval*(n-1).
func (p *Player) Duration(n int) time.Duration {
	if n <= 1 {
		return 0
	}
	return time.Duration(n-1) * p.interval
}

// Package generation owns the list of request slots: one remote call per slot,
// the formatted result cached on the slot so revisiting never refetches.
package generation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"curriculum-cli/internal/client"
	"curriculum-cli/internal/curriculum"
	"curriculum-cli/internal/events"
	"curriculum-cli/internal/history"
	"curriculum-cli/internal/i18n"
	"curriculum-cli/internal/logger"
	"curriculum-cli/internal/richtext"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Generator is the part of *client.Client the board calls.
type Generator interface {
	GenerateMCQ(ctx context.Context, topic string, n int) (curriculum.RawResponse, error)
	GenerateProjects(ctx context.Context, topic string, n int) ([]curriculum.Project, error)
}

type Status int

const (
	StatusPending Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Slot is a snapshot of one submission. On failure Response holds the user
// message and Err keeps the classified error.
type Slot struct {
	ID        string
	Index     int
	Request   Request
	Status    Status
	Response  curriculum.FormattedResponse
	Err       error
	CreatedAt time.Time
}

type Options struct {
	Generator Generator
	Bus       *events.Bus
	Topics    *history.Store
	MaxItems  int
	Language  i18n.Language
	// Timeout bounds each remote call; zero leaves it to the HTTP client.
	Timeout time.Duration
	Log     *logger.LogEntry
}

type Board struct {
	gen      Generator
	bus      *events.Bus
	topics   *history.Store
	maxItems int
	lang     i18n.Language
	timeout  time.Duration
	log      *logger.LogEntry

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	flight singleflight.Group

	mu     sync.Mutex
	slots  []*Slot
	closed bool
}

func NewBoard(opts Options) *Board {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Board{
		gen:      opts.Generator,
		bus:      opts.Bus,
		topics:   opts.Topics,
		maxItems: opts.MaxItems,
		lang:     i18n.Normalize(string(opts.Language)),
		timeout:  opts.Timeout,
		log:      opts.Log,
		ctx:      ctx,
		cancel:   cancel,
	}
	if b.maxItems <= 0 {
		b.maxItems = DefaultMaxItems
	}
	if b.log == nil {
		b.log = logger.Named("board")
	}
	return b
}

// MaxItems is the per-request cap in effect.
func (b *Board) MaxItems() int {
	return b.maxItems
}

// Submit validates req, appends a pending slot and starts its fetch in the
// background.
func (b *Board) Submit(req Request) (Slot, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if err := req.Validate(b.maxItems); err != nil {
		return Slot{}, err
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return Slot{}, fmt.Errorf("board is closed")
	}
	s := &Slot{
		ID:        uuid.NewString(),
		Index:     len(b.slots),
		Request:   req,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	b.slots = append(b.slots, s)
	snap := *s
	b.wg.Add(1)
	b.mu.Unlock()

	if b.topics != nil {
		if err := b.topics.Append(req.Kind, req.Topic); err != nil {
			b.log.WithField("error", err).Warn("failed to record topic")
		}
	}
	b.publish(events.SlotSubmitted, snap, nil)
	b.log.WithFields(logger.Fields{"slot": snap.ID, "index": snap.Index, "kind": req.Kind, "count": req.Count}).Info("slot submitted")

	go func() {
		defer b.wg.Done()
		<-b.shared(snap.ID, snap.Index)
	}()
	return snap, nil
}

// Fetch returns the slot at index once its response is known. A finished slot
// is returned from cache; concurrent calls for a pending slot share one
// request. The request runs under the board's lifetime: when ctx ends first,
// Fetch returns the pending snapshot with ctx's error and the request keeps
// going for other callers until Close.
func (b *Board) Fetch(ctx context.Context, index int) (Slot, error) {
	s, ok := b.Slot(index)
	if !ok {
		return Slot{}, fmt.Errorf("no slot at index %d", index)
	}
	if s.Status != StatusPending {
		return s, s.Err
	}
	select {
	case res := <-b.shared(s.ID, index):
		out := res.Val.(Slot)
		return out, out.Err
	case <-ctx.Done():
		return s, ctx.Err()
	}
}

// shared 以槽位 ID 合并请求，同一槽位同时只有一个 run。
func (b *Board) shared(id string, index int) <-chan singleflight.Result {
	return b.flight.DoChan(id, func() (any, error) {
		return b.run(b.ctx, index), nil
	})
}

func (b *Board) run(ctx context.Context, index int) Slot {
	b.mu.Lock()
	s := b.slots[index]
	if s.Status != StatusPending {
		snap := *s
		b.mu.Unlock()
		return snap
	}
	req := s.Request
	id := s.ID
	b.mu.Unlock()

	entry := b.log.WithFields(logger.Fields{"slot": id, "index": index, "kind": req.Kind})
	b.publish(events.SlotStarted, Slot{ID: id, Index: index, Request: req}, nil)
	start := time.Now()

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	formatted, err := b.generate(ctx, req)

	b.mu.Lock()
	if err != nil {
		s.Status = StatusFailed
		s.Err = err
		s.Response = curriculum.FormattedResponse(client.UserMessage(err, b.lang))
	} else {
		s.Status = StatusReady
		s.Response = formatted
	}
	snap := *s
	b.mu.Unlock()

	entry = entry.WithField("elapsed", time.Since(start).Round(time.Millisecond))
	if err != nil {
		entry.WithField("error", err).WithField("error_kind", client.KindOf(err)).Warn("slot failed")
		b.publish(events.SlotFailed, snap, err)
	} else {
		entry.WithField("bytes", len(formatted)).Info("slot ready")
		b.publish(events.SlotFinished, snap, nil)
	}
	return snap
}

func (b *Board) generate(ctx context.Context, req Request) (curriculum.FormattedResponse, error) {
	if b.gen == nil {
		return "", fmt.Errorf("no generator configured")
	}
	switch req.Kind {
	case curriculum.KindProject:
		projects, err := b.gen.GenerateProjects(ctx, req.Topic, req.Count)
		if err != nil {
			return "", err
		}
		return richtext.FormatProjects(projects), nil
	default:
		raw, err := b.gen.GenerateMCQ(ctx, req.Topic, req.Count)
		if err != nil {
			return "", err
		}
		return richtext.Format(raw), nil
	}
}

func (b *Board) publish(t events.Type, s Slot, err error) {
	b.bus.Publish(events.Event{
		Type:   t,
		SlotID: s.ID,
		Index:  s.Index,
		Kind:   s.Request.Kind,
		Topic:  s.Request.Topic,
		Err:    err,
		At:     time.Now(),
	})
}

// Slot returns a snapshot of the slot at index.
func (b *Board) Slot(index int) (Slot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.slots) {
		return Slot{}, false
	}
	return *b.slots[index], true
}

// Slots returns snapshots in submission order.
func (b *Board) Slots() []Slot {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Slot, 0, len(b.slots))
	for _, s := range b.slots {
		out = append(out, *s)
	}
	return out
}

// Response is the cached formatted response of a finished slot.
func (b *Board) Response(index int) (curriculum.FormattedResponse, bool) {
	s, ok := b.Slot(index)
	if !ok || s.Status == StatusPending {
		return "", false
	}
	return s.Response, true
}

// Close cancels in-flight requests and waits for their goroutines.
func (b *Board) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()
	b.cancel()
	b.wg.Wait()
}

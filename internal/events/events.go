// Package events sequences user interactions for the views.
//
// A Loop is a single-goroutine dispatcher: events posted from anywhere are
// handled one at a time, in order, so the views never see two interactions
// at once. Scripts of interactions can be parsed with ParseScript and
// replayed through a Loop.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/derickschaefer/gapview/internal/surface"
)

// Kind identifies an interaction.
type Kind int

const (
	// Select changes the selected location.
	Select Kind = iota + 1
	// Move moves the pointer over the line view.
	Move
	// Out moves the pointer off the line view.
	Out
	// Wait lets time pass, e.g. for a tooltip fade to finish.
	Wait
)

func (k Kind) String() string {
	switch k {
	case Select:
		return "select"
	case Move:
		return "move"
	case Out:
		return "out"
	case Wait:
		return "wait"
	default:
		return "unknown"
	}
}

// Event is one interaction. Only the fields relevant to Kind are set.
type Event struct {
	Kind  Kind
	Value string        // Select
	Pos   surface.Point // Move, Out
	Delay time.Duration // Wait
	Line  int           // source line when parsed from a script
}

func (e Event) String() string {
	switch e.Kind {
	case Select:
		return fmt.Sprintf("select %q", e.Value)
	case Move, Out:
		return fmt.Sprintf("%s %g %g", e.Kind, e.Pos.X, e.Pos.Y)
	case Wait:
		return "wait " + e.Delay.String()
	default:
		return e.Kind.String()
	}
}

// Handler processes one event. A returned error is logged by the Loop and
// does not stop it.
type Handler func(ctx context.Context, ev Event) error

// ErrClosed is returned by Post after Close.
var ErrClosed = errors.New("event loop closed")

// DefaultQueue is the buffer size used when NewLoop is given size <= 0.
const DefaultQueue = 64

// ─── Loop ─────────────────────────────────────────────────────────────────────

// Loop dispatches events to a Handler on the goroutine that calls Run.
type Loop struct {
	handler Handler
	queue   chan Event
	done    chan struct{}

	mu      sync.Mutex
	closed  bool
	senders sync.WaitGroup

	handled int
	failed  int
}

// NewLoop returns a loop with a queue of the given size.
func NewLoop(size int, h Handler) *Loop {
	if size <= 0 {
		size = DefaultQueue
	}
	return &Loop{handler: h, queue: make(chan Event, size), done: make(chan struct{})}
}

// Post enqueues ev. It blocks only while the queue is full, and returns
// ctx.Err() if ctx is cancelled first, or ErrClosed once Close is called.
//
// Post must not be called from the Handler while the queue may be full: the
// handler runs on the only goroutine that drains the queue.
func (l *Loop) Post(ctx context.Context, ev Event) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.senders.Add(1)
	l.mu.Unlock()
	defer l.senders.Done()

	select {
	case l.queue <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrClosed
	}
}

// Close stops accepting events and releases any Post still waiting for room.
// Run drains what is already queued and then returns.
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.done)
	l.mu.Unlock()

	l.senders.Wait()
	close(l.queue)
}

// Run handles events until the loop is closed and drained, or ctx is
// cancelled. It returns ctx.Err() on cancellation and nil otherwise.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-l.queue:
			if !ok {
				return nil
			}
			l.dispatch(ctx, ev)
		}
	}
}

func (l *Loop) dispatch(ctx context.Context, ev Event) {
	start := time.Now()
	err := l.handler(ctx, ev)
	l.handled++
	if err != nil {
		l.failed++
		slog.Warn("event failed", "event", ev.String(), "line", ev.Line, "err", err)
		return
	}
	slog.Debug("event handled", "event", ev.String(), "duration", time.Since(start))
}

// Stats returns how many events were handled and how many of those failed.
// Call it after Run returns.
func (l *Loop) Stats() (handled, failed int) {
	return l.handled, l.failed
}

package piece

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Condemnable is an object that can be scheduled for deferred destruction.
// Destruction happens only if the object is still condemned when the queue
// is drained.
type Condemnable interface {
	Condemned() bool
	Destroy()
}

// DefaultLoop is used by pieces created without WithLoop.
var DefaultLoop = NewLoop()

// Loop stands in for the host event loop: it runs posted tasks and drains
// the pending-destruction queue once per turn.
type Loop struct {
	mu      sync.Mutex
	pending []Condemnable
	queued  map[Condemnable]struct{}

	tasks chan func()
	log   *zap.Logger
}

type LoopOption func(*Loop)

func WithLoopLogger(log *zap.Logger) LoopOption {
	return func(l *Loop) {
		if log == nil {
			return
		}
		l.log = log
	}
}

func WithQueueSize(size int) LoopOption {
	return func(l *Loop) {
		if size <= 0 {
			return
		}
		l.tasks = make(chan func(), size)
	}
}

func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		queued: make(map[Condemnable]struct{}),
		tasks:  make(chan func(), 64),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DeleteLater enqueues c for destruction at the next Tick. Enqueuing an
// object that is already pending is a no-op.
func (l *Loop) DeleteLater(c Condemnable) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.queued[c]; exists {
		return
	}
	l.queued[c] = struct{}{}
	l.pending = append(l.pending, c)
}

func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.pending)
}

// Tick drains the queue and destroys every entry that is still condemned.
// Objects enqueued while draining wait for the next Tick. It returns the
// number of destroyed objects.
func (l *Loop) Tick() int {
	l.mu.Lock()
	pending := l.pending
	l.pending = nil
	l.queued = make(map[Condemnable]struct{})
	l.mu.Unlock()

	destroyed := 0
	for _, c := range pending {
		if !c.Condemned() {
			l.log.Debug("skipping reacquired object")
			continue
		}
		c.Destroy()
		destroyed++
	}
	if destroyed > 0 {
		l.log.Debug("deferred destruction", zap.Int("destroyed", destroyed))
	}
	return destroyed
}

// Post hands fn to the goroutine running Run.
func (l *Loop) Post(fn func()) {
	l.tasks <- fn
}

// Run executes posted tasks one at a time, ticking after each, until ctx is
// done. The queue is drained once more before Run returns.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case task := <-l.tasks:
			task()
			l.Tick()
		case <-ctx.Done():
			l.Tick()
			return ctx.Err()
		}
	}
}

// Package scheduler runs every UI task on one logical thread.
//
// Work reaches the loop as posted tasks, timers, animation frames and the
// continuations of blocking calls started with Go. A Loop either follows the
// wall clock (Run) or a virtual clock stepped explicitly (Advance), which is
// what the tests use.
package scheduler

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"credit-console/internal/common/logger"
)

const DefaultFrameInterval = 16 * time.Millisecond

// FrameScheduler is the part of the loop animations depend on.
type FrameScheduler interface {
	RequestFrame(fn func(now time.Time))
	Now() time.Time
}

// TimerScheduler is the part of the loop delayed effects depend on.
type TimerScheduler interface {
	After(d time.Duration, fn func()) *Timer
}

type Loop struct {
	mu            sync.Mutex
	queue         []func()
	timers        timerQueue
	frames        []func(time.Time)
	seq           uint64
	frameInterval time.Duration

	virtual     bool
	now         time.Time
	nextFrameAt time.Time

	inflight atomic.Int64
	async    sync.WaitGroup
	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once

	logger logger.Logger
}

type Option func(*Loop)

func WithFrameInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.frameInterval = d
		}
	}
}

func WithLogger(log logger.Logger) Option {
	return func(l *Loop) {
		if log != nil {
			l.logger = log
		}
	}
}

// New returns a loop driven by the wall clock. Call Run to process work.
func New(opts ...Option) *Loop {
	l := &Loop{
		frameInterval: DefaultFrameInterval,
		wake:          make(chan struct{}, 1),
		stop:          make(chan struct{}),
		logger:        logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewVirtual returns a loop whose clock only moves through Advance.
func NewVirtual(start time.Time, opts ...Option) *Loop {
	l := New(opts...)
	l.virtual = true
	l.now = start
	l.nextFrameAt = start.Add(l.frameInterval)
	return l
}

func (l *Loop) Now() time.Time {
	if !l.virtual {
		return time.Now()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.now
}

func (l *Loop) FrameInterval() time.Duration {
	return l.frameInterval
}

// Post queues fn to run on the loop. Safe from any goroutine.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.signal()
}

// After runs fn on the loop once d has elapsed.
func (l *Loop) After(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	t := &Timer{at: l.nowLocked().Add(d), seq: l.seq, fn: fn}
	heap.Push(&l.timers, t)
	l.signal()
	return t
}

// RequestFrame runs fn on the next animation frame with the frame time.
func (l *Loop) RequestFrame(fn func(now time.Time)) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.frames = append(l.frames, fn)
	l.mu.Unlock()
}

// Go runs work off the loop and posts the continuation it returns back onto
// the loop. A nil continuation is allowed.
func (l *Loop) Go(ctx context.Context, work func(ctx context.Context) func()) {
	l.inflight.Add(1)
	l.async.Add(1)
	go func() {
		defer l.async.Done()
		cont := l.protectWork(ctx, work)
		l.Post(func() {
			l.inflight.Add(-1)
			if cont != nil {
				cont()
			}
		})
	}()
}

// Pending reports how many Go calls have not yet delivered their continuation.
func (l *Loop) Pending() int {
	return int(l.inflight.Load())
}

// Run processes work in real time until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	if l.virtual {
		return fmt.Errorf("scheduler: Run called on a virtual loop")
	}
	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()

	for {
		l.drain()
		l.fireTimers(time.Now())
		l.drain()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stop:
			return nil
		case <-l.wake:
		case now := <-ticker.C:
			l.fireTimers(now)
			l.runFrames(now)
		}
	}
}

// Stop makes Run return after the current task.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Advance moves a virtual clock forward by d, firing timers at their due time
// and frames at every frame boundary on the way.
func (l *Loop) Advance(d time.Duration) {
	if !l.virtual {
		panic("scheduler: Advance called on a real-time loop")
	}
	l.mu.Lock()
	target := l.now.Add(d)
	l.mu.Unlock()

	l.drain()
	for {
		l.mu.Lock()
		next := l.nextFrameAt
		if at, ok := l.timers.peek(); ok && at.Before(next) {
			next = at
		}
		if next.After(target) {
			l.mu.Unlock()
			break
		}
		if next.After(l.now) {
			l.now = next
		}
		isFrame := !next.Before(l.nextFrameAt)
		if isFrame {
			l.nextFrameAt = next.Add(l.frameInterval)
		}
		l.mu.Unlock()

		l.fireTimers(next)
		if isFrame {
			l.runFrames(next)
		}
		l.drain()
	}

	l.mu.Lock()
	l.now = target
	l.mu.Unlock()
	l.fireTimers(target)
	l.drain()
}

// Settle waits for every outstanding Go call and runs the queued tasks,
// repeating until no async work remains. Virtual clock time does not move.
func (l *Loop) Settle() {
	for {
		l.async.Wait()
		ran := l.drain()
		if !ran && l.inflight.Load() == 0 {
			return
		}
	}
}

func (l *Loop) nowLocked() time.Time {
	if l.virtual {
		return l.now
	}
	return time.Now()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// drain runs queued tasks, including ones queued while draining.
func (l *Loop) drain() bool {
	ran := false
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return ran
		}
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, fn := range batch {
			l.runTask(fn)
		}
		ran = true
	}
}

func (l *Loop) fireTimers(now time.Time) {
	for {
		l.mu.Lock()
		at, ok := l.timers.peek()
		if !ok || at.After(now) {
			l.mu.Unlock()
			return
		}
		t := heap.Pop(&l.timers).(*Timer)
		l.mu.Unlock()

		if !t.stopped.Load() {
			l.runTask(t.fn)
		}
	}
}

func (l *Loop) runFrames(now time.Time) {
	l.mu.Lock()
	frames := l.frames
	l.frames = nil
	l.mu.Unlock()

	for _, fn := range frames {
		fn := fn
		l.runTask(func() { fn(now) })
	}
}

// runTask isolates a failing task so the session keeps running.
func (l *Loop) runTask(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
		}
	}()
	fn()
}

func (l *Loop) protectWork(ctx context.Context, work func(context.Context) func()) (cont func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("async work panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
			cont = nil
		}
	}()
	return work(ctx)
}

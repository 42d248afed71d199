// Package animator interpolates a displayed number toward a target over a
// fixed duration, one value per animation frame.
package animator

import (
	"errors"
	"math"
	"time"

	"credit-console/internal/scheduler"
)

var ErrAlreadyStarted = errors.New("animation already started")

// EaseOutQuart maps progress p in [0,1] onto 1-(1-p)^4.
func EaseOutQuart(p float64) float64 {
	return 1 - math.Pow(1-p, 4)
}

// Progress is elapsed/duration clamped to [0,1]. A non-positive duration is
// complete immediately.
func Progress(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	p := float64(elapsed) / float64(duration)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Value is the eased value between from and to at progress p.
func Value(from, to, p float64) float64 {
	if p >= 1 {
		return to
	}
	return from + (to-from)*EaseOutQuart(p)
}

// Animation emits one value per frame until progress reaches 1.
// It is single use: build a new one to replay.
type Animation struct {
	frames   scheduler.FrameScheduler
	from     float64
	to       float64
	duration time.Duration
	onFrame  func(float64)

	start      time.Time
	started    bool
	done       bool
	discarded  bool
	progress   float64
	onComplete func()
}

func New(frames scheduler.FrameScheduler, from, to float64, duration time.Duration, onFrame func(float64)) *Animation {
	return &Animation{
		frames:   frames,
		from:     from,
		to:       to,
		duration: duration,
		onFrame:  onFrame,
	}
}

// Animate builds and starts an animation.
func Animate(frames scheduler.FrameScheduler, from, to float64, duration time.Duration, onFrame func(float64)) *Animation {
	a := New(frames, from, to, duration, onFrame)
	_ = a.Start()
	return a
}

// OnComplete registers fn to run after the final frame.
func (a *Animation) OnComplete(fn func()) *Animation {
	a.onComplete = fn
	return a
}

// Start schedules the first frame. Elapsed time is counted from that frame.
func (a *Animation) Start() error {
	if a.started {
		return ErrAlreadyStarted
	}
	a.started = true
	a.frames.RequestFrame(a.step)
	return nil
}

// Discard drops the frame callback. The animation still runs out its clock.
func (a *Animation) Discard() {
	a.discarded = true
}

func (a *Animation) Done() bool {
	return a.done
}

func (a *Animation) Progress() float64 {
	return a.progress
}

func (a *Animation) step(now time.Time) {
	if a.start.IsZero() {
		a.start = now
	}

	p := Progress(now.Sub(a.start), a.duration)
	if p < a.progress {
		p = a.progress
	}
	a.progress = p

	if !a.discarded && a.onFrame != nil {
		a.onFrame(Value(a.from, a.to, p))
	}

	if p < 1 {
		a.frames.RequestFrame(a.step)
		return
	}
	a.done = true
	if a.onComplete != nil {
		a.onComplete()
	}
}

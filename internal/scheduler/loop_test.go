package scheduler

import (
	"context"
	"testing"
	"time"

	"credit-console/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestLoop_PostRunsInOrder(t *testing.T) {
	l := NewVirtual(epoch)
	var got []int
	l.Post(func() { got = append(got, 1) })
	l.Post(func() {
		got = append(got, 2)
		l.Post(func() { got = append(got, 4) })
	})
	l.Post(func() { got = append(got, 3) })

	l.Settle()
	assert.Equal(t, []int{1, 2, 3, 4}, got)
}

func TestLoop_TimersFireAtDueTime(t *testing.T) {
	l := NewVirtual(epoch)
	var fired []time.Duration

	l.After(100*time.Millisecond, func() { fired = append(fired, l.Now().Sub(epoch)) })
	l.After(50*time.Millisecond, func() { fired = append(fired, l.Now().Sub(epoch)) })
	stopped := l.After(70*time.Millisecond, func() { t.Fatal("stopped timer ran") })
	stopped.Stop()

	l.Advance(60 * time.Millisecond)
	assert.Equal(t, []time.Duration{50 * time.Millisecond}, fired)

	l.Advance(40 * time.Millisecond)
	assert.Equal(t, []time.Duration{50 * time.Millisecond, 100 * time.Millisecond}, fired)
}

func TestLoop_FramesAreOnePerInterval(t *testing.T) {
	l := NewVirtual(epoch, WithFrameInterval(10*time.Millisecond))
	var frames []time.Time

	var tick func(now time.Time)
	tick = func(now time.Time) {
		frames = append(frames, now)
		if len(frames) < 5 {
			l.RequestFrame(tick)
		}
	}
	l.RequestFrame(tick)

	l.Advance(100 * time.Millisecond)
	require.Len(t, frames, 5)
	for i := 1; i < len(frames); i++ {
		assert.Equal(t, 10*time.Millisecond, frames[i].Sub(frames[i-1]))
	}
}

func TestLoop_GoPostsContinuation(t *testing.T) {
	l := NewVirtual(epoch)
	var result string

	l.Go(context.Background(), func(ctx context.Context) func() {
		value := "done"
		return func() { result = value }
	})
	assert.Equal(t, 1, l.Pending())

	l.Settle()
	assert.Equal(t, "done", result)
	assert.Equal(t, 0, l.Pending())
}

func TestLoop_SettleFollowsChainedWork(t *testing.T) {
	l := NewVirtual(epoch)
	var steps []string

	l.Go(context.Background(), func(context.Context) func() {
		return func() {
			steps = append(steps, "first")
			l.Go(context.Background(), func(context.Context) func() {
				return func() { steps = append(steps, "second") }
			})
		}
	})

	l.Settle()
	assert.Equal(t, []string{"first", "second"}, steps)
}

func TestLoop_PanickingTaskDoesNotStopLoop(t *testing.T) {
	l := NewVirtual(epoch, WithLogger(logger.NewTestLogger(t)))
	ran := false
	l.Post(func() { panic("boom") })
	l.Post(func() { ran = true })
	l.Settle()
	assert.True(t, ran)
}

func TestLoop_RunRealTime(t *testing.T) {
	l := New(WithFrameInterval(5 * time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	l.Go(ctx, func(context.Context) func() {
		return func() {
			l.After(10*time.Millisecond, func() {
				l.RequestFrame(func(time.Time) { l.Stop() })
			})
		}
	})

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("loop did not stop")
	}
}

func TestLoop_RunRejectsVirtual(t *testing.T) {
	l := NewVirtual(epoch)
	assert.Error(t, l.Run(context.Background()))
}

package animator

import (
	"math"
	"testing"
	"time"

	"credit-console/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestEaseOutQuart(t *testing.T) {
	assert.Equal(t, 0.0, EaseOutQuart(0))
	assert.Equal(t, 1.0, EaseOutQuart(1))
	assert.InDelta(t, 0.9375, EaseOutQuart(0.5), 1e-12)
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  time.Duration
		duration time.Duration
		want     float64
	}{
		{"start", 0, time.Second, 0},
		{"half", 500 * time.Millisecond, time.Second, 0.5},
		{"past end", 3 * time.Second, time.Second, 1},
		{"negative elapsed", -time.Second, time.Second, 0},
		{"zero duration", 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Progress(tt.elapsed, tt.duration))
		})
	}
}

func TestAnimation_ProgressMonotonicAndReachesTarget(t *testing.T) {
	for _, frame := range []time.Duration{time.Millisecond, 7 * time.Millisecond, 16 * time.Millisecond, 333 * time.Millisecond} {
		for _, duration := range []time.Duration{0, 10 * time.Millisecond, 1500 * time.Millisecond, 2000 * time.Millisecond} {
			loop := scheduler.NewVirtual(epoch, scheduler.WithFrameInterval(frame))
			var values, progress []float64

			var a *Animation
			a = Animate(loop, 0, 78, duration, func(v float64) {
				values = append(values, v)
				progress = append(progress, a.Progress())
			})

			loop.Advance(duration + 2*frame)

			require.True(t, a.Done(), "frame=%s duration=%s", frame, duration)
			require.NotEmpty(t, values)
			for i := 1; i < len(progress); i++ {
				assert.GreaterOrEqual(t, progress[i], progress[i-1])
				assert.GreaterOrEqual(t, values[i], values[i-1])
			}
			assert.Equal(t, 1.0, progress[len(progress)-1])
			assert.Equal(t, 78.0, values[len(values)-1])
		}
	}
}

func TestAnimation_StopsAfterFinalFrame(t *testing.T) {
	loop := scheduler.NewVirtual(epoch, scheduler.WithFrameInterval(10*time.Millisecond))
	calls := 0
	completed := 0
	Animate(loop, 0, 10, 50*time.Millisecond, func(float64) { calls++ }).
		OnComplete(func() { completed++ })

	loop.Advance(time.Second)
	// frames at 10..60ms, elapsed counted from the first one
	assert.Equal(t, 6, calls)
	assert.Equal(t, 1, completed)
}

func TestAnimation_NotRestartable(t *testing.T) {
	loop := scheduler.NewVirtual(epoch)
	a := New(loop, 0, 1, time.Second, nil)
	require.NoError(t, a.Start())
	assert.ErrorIs(t, a.Start(), ErrAlreadyStarted)
}

func TestAnimation_DiscardDropsCallback(t *testing.T) {
	loop := scheduler.NewVirtual(epoch, scheduler.WithFrameInterval(10*time.Millisecond))
	calls := 0
	a := Animate(loop, 0, 100, 100*time.Millisecond, func(float64) { calls++ })

	loop.Advance(30 * time.Millisecond)
	seen := calls
	a.Discard()
	loop.Advance(time.Second)

	assert.Equal(t, seen, calls)
	assert.True(t, a.Done())
}

func TestAnimation_RoundedScoreNeverOvershoots(t *testing.T) {
	loop := scheduler.NewVirtual(epoch)
	var shown []int
	Animate(loop, 0, 78, 2*time.Second, func(v float64) {
		shown = append(shown, int(math.Round(v)))
	})
	loop.Advance(3 * time.Second)

	require.NotEmpty(t, shown)
	assert.Equal(t, 0, shown[0])
	for _, s := range shown {
		assert.LessOrEqual(t, s, 78)
	}
	assert.Equal(t, 78, shown[len(shown)-1])
}

package notify

import (
	"testing"
	"time"

	"credit-console/internal/scheduler"
	"credit-console/internal/surface"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_Lifecycle(t *testing.T) {
	loop := scheduler.NewVirtual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	mem := surface.NewMemory()
	dismissed := 0
	n := New(mem, loop, 0, DefaultExitDuration, nil)

	id := n.Error("Data tidak lengkap", func() { dismissed++ })
	require.NotEmpty(t, id)

	doc := mem.Snapshot()
	require.Len(t, doc.Notifications, 1)
	assert.Equal(t, "Data tidak lengkap", doc.Notifications[0].Message)
	assert.Equal(t, surface.NotificationError, doc.Notifications[0].Kind)
	assert.False(t, doc.Notifications[0].Leaving)

	loop.Advance(4999 * time.Millisecond)
	assert.False(t, mem.Snapshot().Notifications[0].Leaving)

	loop.Advance(time.Millisecond)
	assert.True(t, mem.Snapshot().Notifications[0].Leaving)
	assert.Equal(t, 0, dismissed)

	loop.Advance(300 * time.Millisecond)
	assert.Empty(t, mem.Snapshot().Notifications)
	assert.Equal(t, 1, dismissed)
	assert.Equal(t, 5300*time.Millisecond, n.Lifetime())
}

func TestNotifier_IndependentTimers(t *testing.T) {
	loop := scheduler.NewVirtual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	mem := surface.NewMemory()
	n := New(mem, loop, time.Second, 100*time.Millisecond, nil)

	first := n.Show(surface.NotificationInfo, "satu", nil)
	loop.Advance(500 * time.Millisecond)
	n.Show(surface.NotificationSuccess, "dua", nil)

	loop.Advance(600 * time.Millisecond)
	doc := mem.Snapshot()
	require.Len(t, doc.Notifications, 1)
	assert.NotEqual(t, first, doc.Notifications[0].ID)

	loop.Advance(time.Second)
	assert.Empty(t, mem.Snapshot().Notifications)
}

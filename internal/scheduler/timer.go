package scheduler

import (
	"sync/atomic"
	"time"
)

// Timer is a pending After callback.
type Timer struct {
	at      time.Time
	seq     uint64
	fn      func()
	stopped atomic.Bool
	index   int
}

// Stop prevents the callback from running if it has not run yet.
func (t *Timer) Stop() {
	if t != nil {
		t.stopped.Store(true)
	}
}

// timerQueue orders timers by due time, then by creation order.
type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x interface{}) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() interface{} {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

func (q timerQueue) peek() (time.Time, bool) {
	if len(q) == 0 {
		return time.Time{}, false
	}
	return q[0].at, true
}

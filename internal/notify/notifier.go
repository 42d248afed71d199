// Package notify shows transient messages that dismiss themselves.
package notify

import (
	"time"

	"credit-console/internal/common/logger"
	"credit-console/internal/common/metrics"
	"credit-console/internal/scheduler"
	"credit-console/internal/surface"

	"github.com/google/uuid"
)

const (
	DefaultDismissAfter = 5000 * time.Millisecond
	DefaultExitDuration = 300 * time.Millisecond
)

// Sink receives notification lifecycle changes.
type Sink interface {
	AddNotification(n surface.Notification)
	SetNotificationLeaving(id string)
	RemoveNotification(id string)
}

type Notifier struct {
	sink         Sink
	timers       scheduler.TimerScheduler
	dismissAfter time.Duration
	exitDuration time.Duration
	logger       logger.Logger
}

func New(sink Sink, timers scheduler.TimerScheduler, dismissAfter, exitDuration time.Duration, log logger.Logger) *Notifier {
	if dismissAfter <= 0 {
		dismissAfter = DefaultDismissAfter
	}
	if exitDuration < 0 {
		exitDuration = DefaultExitDuration
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Notifier{
		sink:         sink,
		timers:       timers,
		dismissAfter: dismissAfter,
		exitDuration: exitDuration,
		logger:       logger.ForComponent(log, "notify"),
	}
}

// Show displays message now, starts its exit after the dismiss delay and
// removes it once the exit finishes. onDismiss runs after removal.
func (n *Notifier) Show(kind surface.NotificationKind, message string, onDismiss func()) string {
	id := uuid.New().String()
	n.sink.AddNotification(surface.Notification{ID: id, Kind: kind, Message: message})
	metrics.Notifications.WithLabelValues(string(kind)).Inc()

	n.logger.Debug("notification shown", map[string]interface{}{
		"id":      id,
		"kind":    string(kind),
		"message": message,
	})

	n.timers.After(n.dismissAfter, func() {
		n.sink.SetNotificationLeaving(id)
		n.timers.After(n.exitDuration, func() {
			n.sink.RemoveNotification(id)
			if onDismiss != nil {
				onDismiss()
			}
		})
	})
	return id
}

func (n *Notifier) Error(message string, onDismiss func()) string {
	return n.Show(surface.NotificationError, message, onDismiss)
}

// Lifetime is how long a notification stays on the surface.
func (n *Notifier) Lifetime() time.Duration {
	return n.dismissAfter + n.exitDuration
}

package ui

import "context"

const (
	KeyEnter  = "Enter"
	KeyEscape = "Escape"
)

// KeyEvent is a key press as seen by the session.
type KeyEvent struct {
	Key         string
	Ctrl        bool
	Meta        bool
	FocusInForm bool
}

// HandleKey applies the keyboard shortcuts and reports whether the key was
// used. Ctrl or Meta with Enter submits while focus is in the form; Escape
// resets while a result is visible and no submission is in flight.
func (o *Orchestrator) HandleKey(ctx context.Context, ev KeyEvent) bool {
	switch {
	case ev.Key == KeyEnter && (ev.Ctrl || ev.Meta):
		if !ev.FocusInForm {
			return false
		}
		_ = o.Submit(ctx, nil)
		return true
	case ev.Key == KeyEscape:
		if !o.resultVisible || o.form.Busy() {
			return false
		}
		o.Reset()
		return true
	}
	return false
}

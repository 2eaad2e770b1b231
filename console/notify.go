package console

import (
	"sync"
	"time"
)

// Severity classifies a notification for icon and style selection.
type Severity string

// Notification severities.
const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Icon returns the icon shown alongside a notification of this severity.
func (s Severity) Icon() string {
	switch s {
	case SeveritySuccess:
		return "✅"
	case SeverityError:
		return "❌"
	case SeverityWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

// Toast is a transient operator-facing message.
type Toast struct {
	Message  string
	Severity Severity
	Icon     string
}

// Toasts auto-dismiss after this long unless dismissed earlier.
const toastLifetime = 5 * time.Second

// Notifier is the single-slot notification center. Showing a new toast
// discards any currently displayed one immediately; there is no queueing.
type Notifier struct {
	mu       sync.Mutex
	sink     ToastSink
	current  *Toast
	dismiss  *time.Timer
	lifetime time.Duration
}

// NewNotifier creates a notification center over the given sink.
func NewNotifier(sink ToastSink) *Notifier {
	return &Notifier{
		sink:     sink,
		lifetime: toastLifetime,
	}
}

// Show replaces the current toast with a new one and schedules its
// auto-dismissal.
func (n *Notifier) Show(message string, severity Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.dismiss != nil {
		n.dismiss.Stop()
	}

	toast := &Toast{
		Message:  message,
		Severity: severity,
		Icon:     severity.Icon(),
	}
	n.current = toast
	n.sink.ShowToast(*toast)

	n.dismiss = time.AfterFunc(n.lifetime, func() {
		n.expire(toast)
	})
}

// Dismiss retires the current toast ahead of its auto-dismissal.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current == nil {
		return
	}
	if n.dismiss != nil {
		n.dismiss.Stop()
	}
	n.current = nil
	n.sink.ClearToast()
}

// Current returns the toast on display, or nil.
func (n *Notifier) Current() *Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// expire clears the toast when its lifetime elapses, unless a newer toast
// has already taken the slot.
func (n *Notifier) expire(toast *Toast) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current != toast {
		return
	}
	n.current = nil
	n.sink.ClearToast()
}

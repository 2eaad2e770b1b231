package render

import (
	"github.com/pterm/pterm"

	"github.com/teranos/batchtop/console"
)

// TermToasts prints notifications with severity-matched pterm printers.
// Terminal lines cannot be retracted, so ClearToast is a no-op; the single
// slot invariant is visual (the latest toast is the last line printed) and
// behavioral (the Notifier tracks at most one live toast).
type TermToasts struct{}

// NewTermToasts creates a terminal toast sink.
func NewTermToasts() *TermToasts {
	return &TermToasts{}
}

// ShowToast prints the toast.
func (t *TermToasts) ShowToast(toast console.Toast) {
	line := toast.Icon + " " + toast.Message
	switch toast.Severity {
	case console.SeveritySuccess:
		pterm.Success.Println(line)
	case console.SeverityError:
		pterm.Error.Println(line)
	case console.SeverityWarning:
		pterm.Warning.Println(line)
	default:
		pterm.Info.Println(line)
	}
}

// ClearToast is a no-op for terminal output.
func (t *TermToasts) ClearToast() {}

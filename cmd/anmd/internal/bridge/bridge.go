// Package bridge hands batch events from the worker goroutine to the
// bubbletea event loop.
package bridge

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/anmd/cmd/anmd/internal/msgs"
	"github.com/germanamz/anmd/pkg/batch"
)

// Sender is the part of *tea.Program the bridge needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Reporter returns a batch.Reporter that only calls s.Send. It never touches
// model state; the model applies each LogLineMsg in Update.
func Reporter(s Sender) batch.Reporter {
	if s == nil {
		return batch.Discard
	}

	return batch.ReporterFunc(func(e batch.Event) {
		s.Send(msgs.LogLineMsg{Event: e})
	})
}

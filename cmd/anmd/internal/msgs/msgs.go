// Package msgs holds the tea.Msg types exchanged between the batch worker
// and the terminal UI.
package msgs

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/anmd/pkg/batch"
	"github.com/germanamz/anmd/pkg/engine"
	"github.com/germanamz/anmd/pkg/settings"
)

// --- Worker → TUI messages ---

// LogLineMsg carries one batch event to the log view.
type LogLineMsg struct {
	Event batch.Event
}

// BatchDoneMsg is returned by the tea.Cmd running a batch.
type BatchDoneMsg struct {
	Result engine.Result
	Err    error
}

// SessionLoadedMsg is returned by the tea.Cmd importing a session file.
type SessionLoadedMsg struct {
	Path    string
	Session settings.Session
	Err     error
}

// SessionSavedMsg is returned by the tea.Cmd exporting a session file.
type SessionSavedMsg struct {
	Path string
	Err  error
}

// --- Internal messages ---

// ProgramReadyMsg passes the *tea.Program to the model so batch workers can
// send log lines back through it.
type ProgramReadyMsg struct {
	Program *tea.Program
}

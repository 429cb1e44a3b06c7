package batch

import (
	"log/slog"
	"sync"
)

// Reporter receives batch events in order, on the goroutine running the
// batch. Implementations that touch UI state must hand the event off to the
// UI's own loop.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

// Report calls f(e).
func (f ReporterFunc) Report(e Event) { f(e) }

// Discard drops every event.
var Discard Reporter = ReporterFunc(func(Event) {})

// Multi fans each event out to every reporter, in order.
func Multi(reporters ...Reporter) Reporter {
	return ReporterFunc(func(e Event) {
		for _, r := range reporters {
			r.Report(e)
		}
	})
}

// LogReporter writes each event line to logger. Errors log at error level,
// everything else at info.
func LogReporter(logger *slog.Logger) Reporter {
	return ReporterFunc(func(e Event) {
		attrs := []any{"kind", string(e.Kind)}
		if e.File != "" {
			attrs = append(attrs, "file", e.File)
		}
		if e.Output != "" {
			attrs = append(attrs, "output", e.Output)
		}

		if e.Kind == EventError {
			logger.Error(e.Line(), attrs...)
			return
		}

		logger.Info(e.Line(), attrs...)
	})
}

// Recorder keeps every event it receives. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Report records e.
func (r *Recorder) Report(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)

	return out
}

// Lines returns the user-facing line of each recorded event.
func (r *Recorder) Lines() []string {
	events := r.Events()
	lines := make([]string, len(events))

	for i, e := range events {
		lines[i] = e.Line()
	}

	return lines
}

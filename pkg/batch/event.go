package batch

import (
	"fmt"
	"time"
)

// EventKind identifies the type of batch event.
type EventKind string

const (
	EventStarted     EventKind = "started"
	EventFileStart   EventKind = "file_start"
	EventFileWritten EventKind = "file_written"
	EventNoContent   EventKind = "no_content"
	EventError       EventKind = "error"
	EventFinished    EventKind = "finished"
)

// Event is an immutable notification of batch progress.
type Event struct {
	Kind   EventKind
	File   string // input path, set for per-file events
	Output string // output path, set for EventFileWritten
	Err    error  // set for EventError
	Time   time.Time
}

// Line renders the event as the log line shown to the user.
func (e Event) Line() string {
	switch e.Kind {
	case EventStarted:
		return "Processing started..."
	case EventFileStart:
		return "Processing file: " + e.File
	case EventFileWritten:
		return "Markdown content written to " + e.Output
	case EventNoContent:
		return "No valid content found in the API response."
	case EventError:
		return fmt.Sprintf("Error: %v", e.Err)
	case EventFinished:
		return "Processing complete!"
	default:
		return string(e.Kind)
	}
}

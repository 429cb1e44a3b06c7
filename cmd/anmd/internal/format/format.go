// Package format holds display helpers shared by the CLI and the TUI.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/germanamz/anmd/cmd/anmd/internal/styles"
	"github.com/germanamz/anmd/pkg/batch"
	"github.com/mattn/go-runewidth"
	"github.com/pmezard/go-difflib/difflib"
)

// RenderMarkdown renders md for the terminal at width columns. It falls back
// to the raw text if the renderer cannot be built.
func RenderMarkdown(md string, width int) string {
	if width <= 0 {
		width = 100
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}

	return strings.TrimRight(out, "\n")
}

// Truncate shortens s to at most width display columns, appending "…" when
// it cuts. Wide runes count as two columns.
func Truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}

	return runewidth.Truncate(s, width, "…")
}

// EventStyle picks the log style for an event.
func EventStyle(e batch.Event) lipgloss.Style {
	switch e.Kind {
	case batch.EventError:
		return styles.LogErrorStyle
	case batch.EventFileWritten, batch.EventFinished:
		return styles.LogWrittenStyle
	case batch.EventNoContent:
		return styles.LogNoticeStyle
	default:
		return styles.LogInfoStyle
	}
}

// EventLine renders an event's line styled and truncated to width.
func EventLine(e batch.Event, width int) string {
	return EventStyle(e).Render(Truncate(e.Line(), width))
}

// Diff returns a unified diff between old and new contents of path, or ""
// when they are equal.
func Diff(path, old, new string) (string, error) {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(old),
		B:        difflib.SplitLines(new),
		FromFile: path + " (previous)",
		ToFile:   path,
		Context:  3,
	}

	return difflib.GetUnifiedDiffString(d)
}

// ColorDiff styles added and removed lines of a unified diff.
func ColorDiff(diff string) string {
	lines := strings.Split(diff, "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
			lines[i] = styles.DimStyle.Render(l)
		case strings.HasPrefix(l, "+"):
			lines[i] = styles.DiffAddStyle.Render(l)
		case strings.HasPrefix(l, "-"):
			lines[i] = styles.DiffDelStyle.Render(l)
		}
	}

	return strings.Join(lines, "\n")
}

// Tokens formats a token count for display, using k/M suffixes.
func Tokens(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// Duration formats a duration for display.
func Duration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
}

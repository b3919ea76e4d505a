package components

import (
	"strings"

	"github.com/theirongolddev/khata/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// SyncState is the backup indicator shown on the right of the status bar.
type SyncState struct {
	Label string // "", "syncing", "synced" or "sync failed"
	Err   bool
}

// RenderStatusBar renders the bottom status bar: key hints on the left,
// a transient message in the middle and the backup state on the right.
func RenderStatusBar(width int, hints, message string, sync SyncState) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.SurfaceHover)
	msgStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover)

	syncColor := t.Green
	switch {
	case sync.Err:
		syncColor = t.Red
	case sync.Label == "syncing":
		syncColor = t.Yellow
	}
	syncStyle := lipgloss.NewStyle().Foreground(syncColor).Background(t.SurfaceHover).Bold(true)

	left := base.Render(" " + hints)
	if message != "" {
		left += base.Render("  ") + msgStyle.Render(message)
	}
	right := ""
	if sync.Label != "" {
		right = syncStyle.Render("● "+sync.Label) + base.Render(" ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		// Drop the message before the sync state.
		left = base.Render(" " + hints)
		padding = max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	}
	return left + base.Render(strings.Repeat(" ", padding)) + right
}

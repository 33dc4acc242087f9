package ui

import (
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pinmap/internal/logtail"
)

const activityLimit = 200

type activityMsg struct {
	entries []logtail.Entry
	err     error
}

func loadActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return activityMsg{}
		}
		entries, err := logtail.Entries(path, activityLimit, slog.LevelInfo)
		return activityMsg{entries: entries, err: err}
	}
}

// setActivity fills the activity viewport, newest entry at the bottom.
func (m *Model) setActivity(msg activityMsg) {
	styles := m.theme.Styles()
	var b strings.Builder
	switch {
	case msg.err != nil:
		b.WriteString(styles.DangerText.Render("Unable to read log: " + msg.err.Error()))
	case len(msg.entries) == 0:
		b.WriteString(styles.MutedText.Render("No activity yet."))
	default:
		for i, e := range msg.entries {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(m.levelStyle(e.Level).Render(e.String()))
		}
	}
	m.activity.SetContent(b.String())
	m.activity.GotoBottom()
}

func (m Model) levelStyle(level slog.Level) lipgloss.Style {
	styles := m.theme.Styles()
	switch {
	case level >= slog.LevelError:
		return styles.DangerText
	case level >= slog.LevelWarn:
		return styles.WarningText
	case level < slog.LevelInfo:
		return styles.FaintText
	default:
		return styles.Text
	}
}

func (m Model) renderActivity() string {
	styles := m.theme.Styles()
	title := styles.Text.Bold(true).Render("Activity")
	hint := styles.MutedText.Render("  a/esc to close")
	return m.overlay(title+hint+"\n\n"+m.activity.View(), max(m.width-4, 20))
}

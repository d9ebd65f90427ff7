package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/state"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.snap.Load == state.LoadIdle || (m.snap.LastLoaded.IsZero() && m.snap.Load != state.LoadError) {
		return styles.Header.Width(m.width).Render(
			bg.Render("marquee", styles.Logo) + bg.Spaces(2) +
				bg.Render("Connecting to "+m.displayURL(40)+"...", styles.WarningText.Bold(true)),
		)
	}

	content := m.buildStatusContent(styles, bg)

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(content)
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < LayoutCompactWidth

	var parts []string
	parts = append(parts, bg.Render("marquee", styles.Logo))

	switch m.snap.Load {
	case state.LoadLoading:
		parts = append(parts, bg.Render("● Loading", styles.WarningText))
	case state.LoadError:
		parts = append(parts, bg.Render("● Error", styles.DangerText))
	default:
		parts = append(parts, bg.Render("● Ready", styles.SuccessText))
	}

	total := len(m.snap.Records)
	count := fmt.Sprintf("%d", total)
	if visible := len(m.visibleRecords()); visible != total {
		count = fmt.Sprintf("%d/%d", visible, total)
	}
	parts = append(parts,
		bg.Render("Records:", styles.MutedText)+bg.Space()+
			bg.Render(count, styles.Text),
	)

	if m.snap.Saving() {
		parts = append(parts, bg.Render("Saving...", styles.WarningText.Bold(true)))
	}

	if !compact {
		parts = append(parts,
			bg.Render("API", styles.FaintText)+bg.Space()+
				bg.Render(m.displayURL(50), styles.MutedText))
	}

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if m.snap.Load == state.LoadError && m.snap.Error != "" {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.snap.Error, maxErr), styles.DangerText),
		)
	}

	return bg.Join(parts, "  ")
}

func (m Model) displayURL(limit int) string {
	if m.apiURL == "" {
		return "API"
	}
	return truncateMiddle(m.apiURL, limit)
}

// formatTimestamp formats the last load time with relative indicator.
func (m Model) formatTimestamp() string {
	last := m.snap.LastLoaded
	if last.IsZero() {
		return ""
	}

	timeSince := m.now().Sub(last)
	timeStr := last.Format("15:04:05")

	switch {
	case timeSince < time.Minute:
		timeStr += " (now)"
	case timeSince < time.Hour:
		timeStr += fmt.Sprintf(" (%dm ago)", int(timeSince.Minutes()))
	case timeSince < 24*time.Hour:
		timeStr += fmt.Sprintf(" (%dh ago)", int(timeSince.Hours()))
	}

	return timeStr
}

// renderCommandBar renders the key hints for the current mode.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.snap.Mode {
	case state.ModeEditing:
		commands = []cmd{
			{"Tab", "Next field"},
			{"Ctrl+S", "Save"},
			{"Esc", "Cancel"},
		}
	case state.ModeConfirmingDelete:
		commands = []cmd{
			{"y", "Delete"},
			{"n", "Cancel"},
		}
	default:
		commands = []cmd{
			{"n", "New"},
			{"e", "Edit"},
			{"d", "Delete"},
			{"r", "Reload"},
			{"f", m.filterLabel()},
			{"j/k", "Navigate"},
			{"?", "More"},
			{"q", "Quit"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

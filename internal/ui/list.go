package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/state"
)

// syncSelection keeps the selected row on the same record across reloads
// and filter changes.
func (m *Model) syncSelection() {
	items := m.visibleRecords()
	if len(items) == 0 {
		m.selectedRow = 0
		return
	}

	if !m.selectedID.IsZero() {
		for i, rec := range items {
			if rec.ID == m.selectedID {
				m.selectedRow = i
				return
			}
		}
	}

	// Record gone - clamp to valid range
	if m.selectedRow >= len(items) {
		m.selectedRow = len(items) - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
	m.selectedID = items[m.selectedRow].ID
}

// moveSelection moves the cursor to row and records its id.
func (m *Model) moveSelection(row int) {
	items := m.visibleRecords()
	if len(items) == 0 {
		m.selectedRow = 0
		m.selectedID = ""
		return
	}
	m.selectedRow = max(0, min(row, len(items)-1))
	m.selectedID = items[m.selectedRow].ID
}

// visibleRecords returns the records that pass the kind filter, sorted by title.
func (m Model) visibleRecords() []catalog.Record {
	items := make([]catalog.Record, 0, len(m.snap.Records))
	for _, rec := range m.snap.Records {
		switch m.kindFilter {
		case prefs.FilterMovie:
			if rec.Kind != catalog.KindMovie {
				continue
			}
		case prefs.FilterSeries:
			if rec.Kind != catalog.KindSeries {
				continue
			}
		}
		items = append(items, rec)
	}

	sort.SliceStable(items, func(i, j int) bool {
		ti := strings.ToLower(items[i].Title)
		tj := strings.ToLower(items[j].Title)
		if ti != tj {
			return ti < tj
		}
		if items[i].Year != items[j].Year {
			return items[i].Year < items[j].Year
		}
		return items[i].ID < items[j].ID
	})

	return items
}

// selectedRecord returns the record under the cursor.
func (m Model) selectedRecord() (catalog.Record, bool) {
	items := m.visibleRecords()
	if m.selectedRow < 0 || m.selectedRow >= len(items) {
		return catalog.Record{}, false
	}
	return items[m.selectedRow], true
}

// paneWidths splits the terminal between list and detail panes. Compact
// terminals get the list only.
func (m Model) paneWidths() (list, detail int) {
	switch {
	case m.width < LayoutCompactWidth:
		return m.width, 0
	case m.width >= LayoutExtraWideWidth:
		list = m.width * 35 / 100
	default:
		list = m.width * 45 / 100
	}
	return list, m.width - list
}

func (m Model) contentHeight() int {
	return max(m.height-chromeRows, 3)
}

// refreshList re-renders list rows into the viewport and scrolls so the
// selection stays visible.
func (m *Model) refreshList() {
	if !m.ready {
		return
	}
	listWidth, _ := m.paneWidths()
	innerWidth := max(listWidth-2, 1)
	innerHeight := max(m.contentHeight()-2, 1)

	m.listViewport.Width = innerWidth
	m.listViewport.Height = innerHeight
	m.listViewport.SetContent(m.renderListRows(innerWidth, m.theme.FocusBg))

	switch {
	case m.selectedRow < m.listViewport.YOffset:
		m.listViewport.SetYOffset(m.selectedRow)
	case m.selectedRow >= m.listViewport.YOffset+innerHeight:
		m.listViewport.SetYOffset(m.selectedRow - innerHeight + 1)
	}
}

// renderBrowse renders the split layout (list + detail).
func (m Model) renderBrowse() string {
	styles := m.theme.Styles()
	height := m.contentHeight()

	if len(m.snap.Records) == 0 {
		var msg string
		switch m.snap.Load {
		case state.LoadLoading, state.LoadIdle:
			msg = styles.MutedText.Render("Loading catalog...")
		case state.LoadError:
			msg = styles.DangerText.Render(m.snap.Error) + "\n\n" +
				styles.MutedText.Render("Press r to retry")
		default:
			msg = styles.MutedText.Render("No records yet. Press n to add one.")
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, msg)
	}

	listWidth, detailWidth := m.paneWidths()

	listPane := m.renderTitledBox(m.listTitle(), m.listViewport.View(), listWidth, height, true)
	if detailWidth == 0 {
		return listPane
	}

	var detailContent string
	if rec, ok := m.selectedRecord(); ok {
		detailContent = m.renderDetail(rec, detailWidth-4, m.theme.SurfaceAlt)
	} else {
		detailContent = lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(m.theme.SurfaceAlt)).
			Render("No record matches the filter")
	}
	detailPane := m.renderTitledBox("Details", detailContent, detailWidth, height, false)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// renderListRows renders the visible records as styled rows.
func (m Model) renderListRows(width int, bgColor string) string {
	items := m.visibleRecords()
	if len(items) == 0 {
		return ""
	}

	lines := make([]string, 0, len(items))
	for i, rec := range items {
		rowBg := bgColor
		selected := i == m.selectedRow
		if selected {
			rowBg = m.theme.SelectionBg
		}
		content := m.formatRowContent(rec, width, rowBg, selected)
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(rowBg)).
			Width(width).
			Render(content))
	}
	return strings.Join(lines, "\n")
}

// formatRowContent formats a record row.
// Format: "Title (Year) · Kind Score"
func (m Model) formatRowContent(rec catalog.Record, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)

	yearStr := fmt.Sprintf("(%d)", rec.Year)
	kindStr := rec.Kind.Label()
	scoreStr := fmt.Sprintf("%4s", catalog.FormatScore(rec.Score))
	titleWidth := max(width-len(yearStr)-len(kindStr)-len(scoreStr)-6, 8)

	var titleStyle, yearStyle, sepStyle, kindStyle, scoreStyle lipgloss.Style
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		titleStyle, yearStyle, sepStyle, kindStyle, scoreStyle = selText, selText, selText, selText, selText
	} else {
		styles := m.theme.Styles()
		titleStyle = styles.Text
		yearStyle = styles.MutedText
		sepStyle = styles.FaintText
		kindStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(string(rec.Kind))))
		scoreStyle = styles.WarningText
	}

	return bg.Render(truncate(rec.Title, titleWidth), titleStyle) + bg.Space() +
		bg.Render(yearStr, yearStyle) +
		bg.Render(" · ", sepStyle) +
		bg.Render(kindStr, kindStyle) + bg.Space() +
		bg.Render(scoreStr, scoreStyle)
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// Format: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	paddedLines := make([]string, 0, boxHeight)
	for i := range boxHeight {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}

// listTitle returns the list pane title with optional filter indicator.
func (m Model) listTitle() string {
	total := len(m.snap.Records)
	if m.kindFilter == prefs.FilterAll || m.kindFilter == "" {
		return fmt.Sprintf("Catalog (%d)", total)
	}
	return fmt.Sprintf("Catalog (%d/%d) %s", len(m.visibleRecords()), total, m.filterLabel())
}

// filterLabel returns the display label for the current kind filter.
func (m Model) filterLabel() string {
	switch m.kindFilter {
	case prefs.FilterMovie:
		return "Movies"
	case prefs.FilterSeries:
		return "Series"
	default:
		return "All"
	}
}

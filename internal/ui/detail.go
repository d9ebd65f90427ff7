package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/five82/marquee/internal/catalog"
)

const scoreBarWidth = 10

// renderDetail renders the selected record's fields.
func (m Model) renderDetail(rec catalog.Record, width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	label := func(s string) string { return bg.Render(padRight(s, 8), styles.MutedText) }

	lines := []string{
		bg.Render(truncate(rec.Title, width), styles.Text.Bold(true)),
		"",
		label("Kind") + styles.StatusStyle(string(rec.Kind)).Render(rec.Kind.Label()),
		label("Year") + bg.Render(fmt.Sprintf("%d", rec.Year), styles.Text),
		label("Genre") + bg.Render(truncate(rec.Genre, max(width-8, 4)), styles.Text),
		label("Score") + m.scoreBar(rec.Score, bg, styles),
	}

	if url := strings.TrimSpace(rec.ImageURL); url != "" {
		lines = append(lines, label("Image")+bg.Render(truncateMiddle(url, max(width-8, 8)), styles.InfoText))
	}

	lines = append(lines, "", bg.Render("id "+truncateMiddle(rec.ID.String(), max(width-3, 8)), styles.FaintText))

	return strings.Join(lines, "\n")
}

// scoreBar draws a ten-cell bar followed by the numeric score.
func (m Model) scoreBar(score float64, bg BgStyle, styles Styles) string {
	filled := int(math.Round(max(0, min(score, catalog.MaxScore))))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", scoreBarWidth-filled)
	return bg.Render(bar, styles.WarningText) + bg.Space() +
		bg.Render(catalog.FormatScore(score)+"/10", styles.Text)
}

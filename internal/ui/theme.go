package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the colors the catalog views draw with.
type Theme struct {
	Name string

	Background string // behind modals
	Surface    string // header, command bar, toast
	SurfaceAlt string // unfocused panes
	FocusBg    string // list pane

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Badge colors keyed by record kind ("movie", "series"), notification
	// kind ("success", "failure") and activity ("saving", "loading").
	StatusColors map[string]string
}

// palette is the raw swatch set of a color scheme. newTheme assigns the
// swatches to catalog roles so every scheme maps kinds and toasts the
// same way.
type palette struct {
	bg0, bg1, bg2, bg3 string
	sel, selFg, border string
	fg, comment, faint string
	blue, magenta      string
	green, yellow      string
	red, cyan          string
}

func newTheme(name string, p palette) Theme {
	return Theme{
		Name:          name,
		Background:    p.bg0,
		Surface:       p.bg1,
		SurfaceAlt:    p.bg2,
		FocusBg:       p.bg3,
		SelectionBg:   p.sel,
		SelectionText: p.selFg,
		Border:        p.border,
		BorderFocus:   p.blue,
		Text:          p.fg,
		Muted:         p.comment,
		Faint:         p.faint,
		Accent:        p.blue,
		Success:       p.green,
		Warning:       p.yellow,
		Danger:        p.red,
		Info:          p.cyan,
		StatusColors: map[string]string{
			"movie":   p.blue,
			"series":  p.magenta,
			"success": p.green,
			"failure": p.red,
			"saving":  p.yellow,
			"loading": p.cyan,
		},
	}
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Logo: fg(t.Warning).Bold(true),

		statusColors: t.StatusColors,
		background:   t.Background,
		muted:        t.Muted,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header lipgloss.Style
	Logo   lipgloss.Style

	statusColors map[string]string
	background   string
	muted        string
}

// StatusStyle returns a badge style for a record kind or notification kind.
func (s Styles) StatusStyle(status string) lipgloss.Style {
	color := s.statusColors[strings.ToLower(strings.TrimSpace(status))]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// WithBackground returns a copy of Styles whose text styles paint bgColor
// explicitly instead of inheriting the terminal background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, st := range []*lipgloss.Style{
		&out.Text, &out.MutedText, &out.FaintText, &out.AccentText,
		&out.SuccessText, &out.WarningText, &out.DangerText, &out.InfoText,
		&out.Header, &out.Logo,
	} {
		*st = st.Background(bg)
	}
	return out
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

var themes = map[string]Theme{
	// https://github.com/EdenEast/nightfox.nvim
	"Nightfox": newTheme("Nightfox", palette{
		bg0: "#131a24", bg1: "#192330", bg2: "#212e3f", bg3: "#29394f",
		sel: "#2b3b51", selFg: "#cdcecf", border: "#39506d",
		fg: "#cdcecf", comment: "#738091", faint: "#71839b",
		blue: "#719cd6", magenta: "#9d79d6",
		green: "#81b29a", yellow: "#dbc074",
		red: "#c94f6d", cyan: "#63cdcf",
	}),
	// https://github.com/rebelot/kanagawa.nvim
	"Kanagawa": newTheme("Kanagawa", palette{
		bg0: "#16161D", bg1: "#1F1F28", bg2: "#2A2A37", bg3: "#363646",
		sel: "#2D4F67", selFg: "#DCD7BA", border: "#54546D",
		fg: "#DCD7BA", comment: "#C8C093", faint: "#727169",
		blue: "#7E9CD8", magenta: "#957FB8",
		green: "#98BB6C", yellow: "#E6C384",
		red: "#E46876", cyan: "#7FB4CA",
	}),
	// Tailwind slate and sky scales
	"Slate": newTheme("Slate", palette{
		bg0: "#020617", bg1: "#0f172a", bg2: "#1e293b", bg3: "#283548",
		sel: "#0284c7", selFg: "#f8fafc", border: "#334155",
		fg: "#f1f5f9", comment: "#94a3b8", faint: "#64748b",
		blue: "#38bdf8", magenta: "#a855f7",
		green: "#22c55e", yellow: "#f59e0b",
		red: "#ef4444", cyan: "#06b6d4",
	}),
}

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

// StatusColor returns the badge color for key, falling back to Text.
func (t Theme) StatusColor(key string) string {
	if color, ok := t.StatusColors[strings.ToLower(strings.TrimSpace(key))]; ok {
		return color
	}
	return t.Text
}

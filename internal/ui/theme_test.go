package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	cases := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Nightfox",
		"Unknown":  "Nightfox",
	}
	for current, want := range cases {
		if got := NextTheme(current); got != want {
			t.Errorf("NextTheme(%s) = %q, want %q", current, got, want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Errorf("GetTheme(%s).Name = %q", name, got)
		}
	}
	if got := GetTheme("Unknown").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Nightfox", got)
	}
}

func TestThemesDefineBadgeColors(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, key := range []string{"movie", "series", "success", "failure", "saving", "loading"} {
			if th.StatusColors[key] == "" {
				t.Errorf("%s missing badge color %q", name, key)
			}
		}
	}
}

func TestStatusColor(t *testing.T) {
	th := GetTheme("Nightfox")
	if got := th.StatusColor("  Movie "); got != th.StatusColors["movie"] {
		t.Fatalf("StatusColor = %q, want %q", got, th.StatusColors["movie"])
	}
	if got := th.StatusColor("unknown"); got != th.Text {
		t.Fatalf("StatusColor unknown = %q, want %q", got, th.Text)
	}
}

func TestThemesMapKindsToAccents(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		if th.StatusColor("movie") != th.Accent || th.StatusColor("failure") != th.Danger {
			t.Errorf("%s: movie=%q accent=%q failure=%q danger=%q", name,
				th.StatusColor("movie"), th.Accent, th.StatusColor("failure"), th.Danger)
		}
		if th.StatusColor("series") == th.StatusColor("movie") {
			t.Errorf("%s: movie and series share a badge color", name)
		}
	}
}

func TestStyles_WithBackground(t *testing.T) {
	th := GetTheme("Slate")
	base := th.Styles()
	painted := base.WithBackground(th.Surface)

	if got := painted.MutedText.GetBackground(); got != lipgloss.Color(th.Surface) {
		t.Fatalf("MutedText background = %v, want %s", got, th.Surface)
	}
	if got := painted.MutedText.GetForeground(); got != lipgloss.Color(th.Muted) {
		t.Fatalf("MutedText foreground = %v, want %s", got, th.Muted)
	}
	if _, ok := base.MutedText.GetBackground().(lipgloss.NoColor); !ok {
		t.Fatal("WithBackground modified the receiver")
	}
}

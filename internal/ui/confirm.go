package ui

import (
	"fmt"
	"strings"
)

// confirmDialog asks before a record is deleted.
type confirmDialog struct {
	title  string
	saving bool
}

// View implements Modal.
func (d confirmDialog) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Delete record"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	name := strings.TrimSpace(d.title)
	if name == "" {
		name = "this record"
	} else {
		name = fmt.Sprintf("%q", truncate(name, confirmModalWidth-16))
	}
	b.WriteString(styles.Text.Render("Delete " + name + "?"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("This cannot be undone."))
	b.WriteString("\n\n")

	if d.saving {
		b.WriteString(styles.WarningText.Render("Deleting..."))
	} else {
		b.WriteString(styles.FaintText.Render("y/Enter: Delete  •  n/Esc: Cancel"))
	}

	return placeModal(theme, width, height, confirmModalWidth, b.String())
}

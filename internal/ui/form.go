package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/catalog"
)

type formField int

const (
	fieldTitle formField = iota
	fieldYear
	fieldGenre
	fieldScore
	fieldKind
	fieldImageURL
	fieldCount
)

var formLabels = [fieldCount]string{
	fieldTitle:    "Title:     ",
	fieldYear:     "Year:      ",
	fieldGenre:    "Genre:     ",
	fieldScore:    "Score:     ",
	fieldKind:     "Kind:      ",
	fieldImageURL: "Image URL: ",
}

var formErrorKeys = [fieldCount]string{
	fieldTitle:    catalog.FieldTitle,
	fieldYear:     catalog.FieldYear,
	fieldGenre:    catalog.FieldGenre,
	fieldScore:    catalog.FieldScore,
	fieldKind:     catalog.FieldKind,
	fieldImageURL: catalog.FieldImageURL,
}

// formAction tells the model what a key did inside the form.
type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

// editForm is the create/edit modal. The kind field is a toggle, so its
// textinput slot stays unused.
type editForm struct {
	inputs [fieldCount]textinput.Model
	kind   catalog.Kind
	focus  formField
	create bool

	// parseErrors come from the inputs themselves (non-numeric year or
	// score); serverErrors mirror the controller's validation result.
	parseErrors  catalog.FieldErrors
	serverErrors catalog.FieldErrors
	saving       bool
}

func newEditForm(d catalog.Draft, create bool) editForm {
	f := editForm{create: create}

	placeholders := [fieldCount]string{
		fieldTitle:    "e.g. Alien",
		fieldYear:     "e.g. 1979",
		fieldGenre:    "e.g. Horror",
		fieldScore:    "0 to 10",
		fieldImageURL: "https://...",
	}
	limits := [fieldCount]int{
		fieldTitle:    120,
		fieldYear:     4,
		fieldGenre:    60,
		fieldScore:    5,
		fieldImageURL: 500,
	}

	values := catalog.FormValuesFromDraft(d)
	initial := [fieldCount]string{
		fieldTitle:    values.Title,
		fieldYear:     values.Year,
		fieldGenre:    values.Genre,
		fieldScore:    values.Score,
		fieldImageURL: values.ImageURL,
	}

	for i := range f.inputs {
		if formField(i) == fieldKind {
			continue
		}
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = limits[i]
		in.Width = formModalWidth - 20
		in.SetValue(initial[i])
		f.inputs[i] = in
	}

	f.kind = d.Kind
	if !f.kind.Valid() {
		f.kind = catalog.KindMovie
	}
	f.setFocus(fieldTitle)
	return f
}

// values returns the raw form contents.
func (f editForm) values() catalog.FormValues {
	return catalog.FormValues{
		Title:    f.inputs[fieldTitle].Value(),
		Year:     f.inputs[fieldYear].Value(),
		Genre:    f.inputs[fieldGenre].Value(),
		Score:    f.inputs[fieldScore].Value(),
		Kind:     string(f.kind),
		ImageURL: f.inputs[fieldImageURL].Value(),
	}
}

func (f *editForm) setFocus(field formField) {
	for i := range f.inputs {
		if formField(i) == fieldKind {
			continue
		}
		f.inputs[i].Blur()
	}
	f.focus = field
	if field != fieldKind {
		f.inputs[field].Focus()
	}
}

func (f *editForm) next() {
	f.setFocus((f.focus + 1) % fieldCount)
}

func (f *editForm) prev() {
	f.setFocus((f.focus - 1 + fieldCount) % fieldCount)
}

// errorFor returns the message shown under field. Input parse errors win
// over validation errors for the same field.
func (f editForm) errorFor(field formField) string {
	name := formErrorKeys[field]
	if msg := f.parseErrors[name]; msg != "" {
		return msg
	}
	return f.serverErrors[name]
}

func (f editForm) allErrors() catalog.FieldErrors {
	merged := f.serverErrors.Clone()
	if merged == nil {
		merged = catalog.FieldErrors{}
	}
	for k, v := range f.parseErrors {
		merged[k] = v
	}
	return merged
}

// Update handles a key press inside the form.
func (f editForm) Update(msg tea.KeyMsg, keys keyMap) (editForm, formAction, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		return f, formCancel, nil

	case key.Matches(msg, keys.Submit):
		return f, formSubmit, nil

	case msg.String() == "enter":
		if f.focus == fieldCount-1 {
			return f, formSubmit, nil
		}
		f.next()
		return f, formNone, nil

	case key.Matches(msg, keys.NextField):
		f.next()
		return f, formNone, nil

	case key.Matches(msg, keys.PrevField):
		f.prev()
		return f, formNone, nil
	}

	if f.focus == fieldKind {
		if key.Matches(msg, keys.ToggleKind) {
			f.kind = f.kind.Next()
		}
		return f, formNone, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, formNone, cmd
}

// View implements Modal.
func (f editForm) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder

	title := "Edit record"
	if f.create {
		title = "New record"
	}
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 40)))
	b.WriteString("\n\n")

	for i := range fieldCount {
		field := formField(i)
		label := formLabels[field]
		if f.focus == field {
			label = styles.AccentText.Render(label)
		} else {
			label = styles.MutedText.Render(label)
		}
		b.WriteString(label)
		if field == fieldKind {
			b.WriteString(f.renderKind(theme, styles))
		} else {
			b.WriteString(f.inputs[field].View())
		}
		b.WriteString("\n")
		if msg := f.errorFor(field); msg != "" {
			b.WriteString(strings.Repeat(" ", lipgloss.Width(formLabels[field])))
			b.WriteString(styles.DangerText.Render(msg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if errs := f.allErrors(); !errs.Valid() {
		b.WriteString(styles.DangerText.Render(errs.Summary()))
		b.WriteString("\n\n")
	}
	if f.saving {
		b.WriteString(styles.WarningText.Render("Saving..."))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.FaintText.Render("Ctrl+S: Save  •  Tab: Next  •  Space: Kind  •  Esc: Cancel"))

	return placeModal(theme, width, height, formModalWidth, b.String())
}

func (f editForm) renderKind(theme Theme, styles Styles) string {
	parts := make([]string, 0, len(catalog.Kinds()))
	for _, k := range catalog.Kinds() {
		mark := "( )"
		style := styles.MutedText
		if k == f.kind {
			mark = "(•)"
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.StatusColor(string(k)))).Bold(true)
		}
		parts = append(parts, style.Render(mark+" "+k.Label()))
	}
	return strings.Join(parts, "  ")
}

package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/schollz/cuetimeline/internal/model"
	"github.com/schollz/cuetimeline/internal/timecode"
	"github.com/schollz/cuetimeline/internal/types"
)

// Field names a dialog input
type Field int

const (
	FieldName Field = iota
	FieldTime
	FieldFade
	FieldDescription
	FieldColor
)

var fieldLabels = map[Field]string{
	FieldName:        "Name",
	FieldTime:        "Time",
	FieldFade:        "Fade",
	FieldDescription: "Description",
	FieldColor:       "Color",
}

// Form is the quick add or full cue editor dialog
type Form struct {
	Title   string
	initial model.CueFields
	fields  []Field
	inputs  []textinput.Model
	focus   int
}

// NewForm builds the dialog for the popup open on m. The quick add form
// asks for name, fade and description; the editor adds time and color.
// It returns nil when no popup is open.
func NewForm(m *model.Model) *Form {
	if m.Popup == nil {
		return nil
	}
	f := &Form{initial: m.EditorFields()}
	if m.Popup.CueID != "" {
		f.Title = "Edit cue"
		f.fields = []Field{FieldName, FieldTime, FieldFade, FieldDescription, FieldColor}
	} else {
		f.Title = "Add cue at " + timecode.FormatTimeDetailed(m.Popup.Time)
		f.fields = []Field{FieldName, FieldFade, FieldDescription}
		if m.Settings.UseMarkerColor {
			f.fields = append(f.fields, FieldColor)
		}
	}
	if !m.Settings.UseFadeTimes {
		f.fields = without(f.fields, FieldFade)
	}

	for _, field := range f.fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 40
		ti.SetValue(fieldValue(f.initial, field))
		f.inputs = append(f.inputs, ti)
	}
	f.inputs[0].Focus()
	return f
}

func without(fields []Field, drop Field) []Field {
	out := fields[:0]
	for _, f := range fields {
		if f != drop {
			out = append(out, f)
		}
	}
	return out
}

// Focused returns the field with the cursor
func (f *Form) Focused() Field {
	return f.fields[f.focus]
}

// Update handles focus movement and forwards everything else to the
// focused input. ctrl+n cycles the palette in the color field.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return f.setFocus(f.focus + 1)
		case "shift+tab", "up":
			return f.setFocus(f.focus - 1)
		case "ctrl+n":
			if f.Focused() == FieldColor {
				in := &f.inputs[f.focus]
				in.SetValue(types.NextPaletteColor(strings.TrimSpace(in.Value())))
				in.CursorEnd()
				return nil
			}
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *Form) setFocus(i int) tea.Cmd {
	n := len(f.inputs)
	f.inputs[f.focus].Blur()
	f.focus = ((i % n) + n) % n
	return f.inputs[f.focus].Focus()
}

// Values returns the dialog fields; fields the form does not show keep
// their initial values
func (f *Form) Values() model.CueFields {
	v := f.initial
	for i, field := range f.fields {
		setFieldValue(&v, field, f.inputs[i].Value())
	}
	return v
}

// View renders the dialog box
func (f *Form) View(styles *ViewStyles) string {
	var content strings.Builder
	content.WriteString(styles.Normal.Bold(true).Render(f.Title))
	content.WriteString("\n")
	for i, field := range f.fields {
		label := styles.Label.Render(fmt.Sprintf("%-12s", fieldLabels[field]))
		if i == f.focus {
			label = styles.Focused.Render(fmt.Sprintf("%-12s", fieldLabels[field]))
		}
		row := label + " " + f.inputs[i].View()
		if field == FieldColor {
			row += " " + styles.Label.Render(types.ColorName(f.inputs[i].Value()))
		}
		content.WriteString(row)
		if i < len(f.fields)-1 {
			content.WriteString("\n")
		}
	}
	return styles.Popup.Render(content.String())
}

func fieldValue(c model.CueFields, field Field) string {
	switch field {
	case FieldName:
		return c.Name
	case FieldTime:
		return c.Time
	case FieldFade:
		return c.Fade
	case FieldDescription:
		return c.Description
	case FieldColor:
		return c.Color
	}
	return ""
}

func setFieldValue(c *model.CueFields, field Field, v string) {
	switch field {
	case FieldName:
		c.Name = v
	case FieldTime:
		c.Time = v
	case FieldFade:
		c.Fade = v
	case FieldDescription:
		c.Description = v
	case FieldColor:
		c.Color = v
	}
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-quote-sync/models"
)

const (
	fieldText = iota
	fieldCategory
	fieldCount
)

// formModel edits the payload of one record. editingID is empty for a new
// record.
type formModel struct {
	editingID string
	marked    bool

	inputs     []textinput.Model
	focus      int
	submitting bool
	err        string
}

func newFormModel(record *models.Record, categories []string) formModel {
	text := textinput.New()
	text.Placeholder = "Quote text"
	text.CharLimit = 1000
	text.Width = 60
	text.Prompt = "Text:     "

	category := textinput.New()
	category.Placeholder = "Category"
	category.CharLimit = 100
	category.Width = 30
	category.Prompt = "Category: "
	category.ShowSuggestions = true
	category.SetSuggestions(categories)

	f := formModel{inputs: []textinput.Model{text, category}}
	if record != nil {
		f.editingID = record.ID
		f.marked = record.Payload.ConflictMarked
		f.inputs[fieldText].SetValue(record.Payload.Text)
		f.inputs[fieldCategory].SetValue(record.Payload.Category)
	}
	f.inputs[fieldText].Focus()
	return f
}

func (f formModel) init() tea.Cmd {
	return textinput.Blink
}

// payload builds the edited payload. Saving an edit clears the conflict
// marker.
func (f formModel) payload() models.Payload {
	return models.Payload{
		Text:     strings.TrimSpace(f.inputs[fieldText].Value()),
		Category: strings.TrimSpace(f.inputs[fieldCategory].Value()),
	}
}

func (f *formModel) moveFocus(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
}

// canCompleteCategory reports whether tab should accept the category
// suggestion instead of moving focus.
func (f formModel) canCompleteCategory() bool {
	if f.focus != fieldCategory {
		return false
	}
	in := f.inputs[fieldCategory]
	s := in.CurrentSuggestion()
	return s != "" && s != in.Value()
}

func (f formModel) update(msg tea.Msg) (formModel, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f formModel) View() string {
	title := "NEW QUOTE"
	if f.editingID != "" {
		title = "EDIT QUOTE"
	}

	var b strings.Builder
	for i := range f.inputs {
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	if f.marked {
		b.WriteString("\n")
		b.WriteString(markedStyle.Render("Saving clears the conflict marker."))
		b.WriteString("\n")
	}
	if f.submitting {
		b.WriteString("\nSaving...\n")
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(f.err))
		b.WriteString("\n")
	}

	return renderPage(title, b.String(), "tab: next field  enter: save  esc: cancel")
}

package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is a minimal multi-field input with tab-cycled focus.
type form struct {
	title  string
	inputs []textinput.Model
	focus  int
}

func newForm(title string, labels ...string) form {
	inputs := make([]textinput.Model, len(labels))
	for i, label := range labels {
		in := textinput.New()
		in.Prompt = label + ": "
		in.CharLimit = 120
		inputs[i] = in
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
	}
	return form{title: title, inputs: inputs}
}

func (f *form) next() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(f.inputs))
	for i := range f.inputs {
		f.inputs[i], cmds[i] = f.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

// number parses the field as a float, treating blank as zero.
func (f *form) number(i int) float64 {
	v := f.value(i)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return n
}

func (f *form) view() string {
	var b strings.Builder
	b.WriteString(f.title + "\n")
	for i := range f.inputs {
		b.WriteString(f.inputs[i].View() + "\n")
	}
	b.WriteString("\nenter: save · tab: next field · esc: cancel")
	return b.String()
}

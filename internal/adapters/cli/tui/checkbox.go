package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// CheckboxOption is one toggleable entry
type CheckboxOption struct {
	Label   string
	Value   string
	Checked bool
}

// CheckboxModel selects one or more options; confirming requires at least one
type CheckboxModel struct {
	title     string
	options   []CheckboxOption
	cursor    int
	confirmed bool
}

func NewCheckboxModel(title string, options []CheckboxOption) CheckboxModel {
	return CheckboxModel{title: title, options: options}
}

func (m CheckboxModel) Init() tea.Cmd {
	return nil
}

func (m CheckboxModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.options) == 0 {
		return m, nil
	}

	switch k := key.String(); k {
	case " ", "space", "x":
		m.options[m.cursor].Checked = !m.options[m.cursor].Checked
	case "a":
		all := len(m.Selected()) < len(m.options)
		for i := range m.options {
			m.options[i].Checked = all
		}
	case "enter":
		if len(m.Selected()) > 0 {
			m.confirmed = true
			return m, tea.Quit
		}
	case "q", "esc", "ctrl+c":
		for i := range m.options {
			m.options[i].Checked = false
		}
		return m, tea.Quit
	default:
		m.cursor = moveCursor(m.cursor, len(m.options), k)
	}
	return m, nil
}

func (m CheckboxModel) View() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", titleStyle.Render(m.title))

	for i, opt := range m.options {
		pointer := "  "
		if i == m.cursor {
			pointer = "> "
		}
		box, style := "[ ]", uncheckedStyle
		if opt.Checked {
			box, style = "[x]", checkedStyle
		}
		fmt.Fprintln(&sb, style.Render(pointer+box+" "+opt.Label))
	}

	if len(m.Selected()) == 0 {
		sb.WriteString(errorStyle.Render("\nselect at least one"))
	}
	sb.WriteString(dimStyle.Render("\nspace toggle · a all · enter confirm · q cancel"))
	sb.WriteByte('\n')
	return sb.String()
}

// Selected returns the checked values in display order
func (m CheckboxModel) Selected() []string {
	var values []string
	for _, opt := range m.options {
		if opt.Checked {
			values = append(values, opt.Value)
		}
	}
	return values
}

// Cancelled reports whether the picker closed without a confirmed selection
func (m CheckboxModel) Cancelled() bool {
	return !m.confirmed
}

var formatLabels = map[string]string{
	"xlsx": "Excel workbook (.xlsx)",
	"csv":  "CSV table (.csv)",
	"txt":  "Plain text (.txt)",
	"json": "JSON document (.json)",
}

// FormatOptions builds one checkbox per report format, pre-checking the defaults
func FormatOptions(formats, defaults []string) []CheckboxOption {
	checked := make(map[string]bool, len(defaults))
	for _, d := range defaults {
		checked[d] = true
	}
	opts := make([]CheckboxOption, 0, len(formats))
	for _, f := range formats {
		label := formatLabels[f]
		if label == "" {
			label = f
		}
		opts = append(opts, CheckboxOption{Label: label, Value: f, Checked: checked[f]})
	}
	return opts
}

// RunCheckbox shows the picker. A nil result means the user cancelled.
func RunCheckbox(title string, options []CheckboxOption) ([]string, error) {
	final, err := tea.NewProgram(NewCheckboxModel(title, options)).Run()
	if err != nil {
		return nil, err
	}
	result := final.(CheckboxModel)
	if result.Cancelled() {
		return nil, nil
	}
	return result.Selected(), nil
}

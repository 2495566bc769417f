package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// MenuOption is one entry of a single-choice menu
type MenuOption struct {
	Label string
	Value string
	Hint  string
}

// MenuModel picks one option. Digits 1-9 choose an entry directly.
type MenuModel struct {
	title    string
	options  []MenuOption
	cursor   int
	selected string
}

func NewMenuModel(title string, options []MenuOption) MenuModel {
	return MenuModel{title: title, options: options}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := key.String(); k {
	case "enter":
		return m.choose(m.cursor)
	case "q", "esc", "ctrl+c":
		m.selected = ""
		return m, tea.Quit
	default:
		if n, err := strconv.Atoi(k); err == nil && n >= 1 && n <= len(m.options) {
			return m.choose(n - 1)
		}
		m.cursor = moveCursor(m.cursor, len(m.options), k)
	}
	return m, nil
}

func (m MenuModel) choose(i int) (tea.Model, tea.Cmd) {
	if i >= 0 && i < len(m.options) {
		m.cursor = i
		m.selected = m.options[i].Value
	}
	return m, tea.Quit
}

func (m MenuModel) View() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", titleStyle.Render("? "+m.title))

	for i, opt := range m.options {
		style, pointer := normalStyle, "  "
		if i == m.cursor {
			style, pointer = selectedStyle, "> "
		}
		fmt.Fprintf(&sb, "%s%s", pointer, style.Render(fmt.Sprintf("%d. %s", i+1, opt.Label)))
		if opt.Hint != "" {
			fmt.Fprintf(&sb, "  %s", dimStyle.Render(opt.Hint))
		}
		sb.WriteByte('\n')
	}

	sb.WriteString(dimStyle.Render("\n↑/↓ move · enter or 1-9 select · q quit"))
	sb.WriteByte('\n')
	return sb.String()
}

// Selected returns the chosen value, or "" when the menu was dismissed
func (m MenuModel) Selected() string {
	return m.selected
}

// RunMenu shows the menu and blocks until a choice is made
func RunMenu(title string, options []MenuOption) (string, error) {
	final, err := tea.NewProgram(NewMenuModel(title, options)).Run()
	if err != nil {
		return "", err
	}
	return final.(MenuModel).Selected(), nil
}

// moveCursor applies a navigation key, wrapping at both ends
func moveCursor(cursor, n int, key string) int {
	if n == 0 {
		return 0
	}
	switch key {
	case "up", "k":
		return (cursor - 1 + n) % n
	case "down", "j", "tab":
		return (cursor + 1) % n
	case "home", "g":
		return 0
	case "end", "G":
		return n - 1
	}
	return cursor
}

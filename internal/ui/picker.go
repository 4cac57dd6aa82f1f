package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user leaves the picker without choosing.
var ErrCancelled = errors.New("selection cancelled")

// Option is one entry of a picker.
type Option struct {
	Value string
	// Detail is rendered dimmed next to the value.
	Detail string
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

type pickerModel struct {
	title     string
	options   []Option
	cursor    int
	chosen    int
	cancelled bool
}

func newPickerModel(title string, options []Option) pickerModel {
	return pickerModel{title: title, options: options, chosen: -1}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.chosen = m.cursor
		return m, tea.Quit
	case "ctrl+c", "esc", "q":
		m.cancelled = true
		return m, tea.Quit
	default:
		// Digits jump straight to an option.
		if s := key.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if idx := int(s[0] - '1'); idx < len(m.options) {
				m.cursor = idx
				m.chosen = idx
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.chosen >= 0 {
		return fmt.Sprintf("%s %s\n", titleStyle.Render(m.title), selectedStyle.Render(m.options[m.chosen].Value))
	}
	if m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	for i, opt := range m.options {
		marker := "  "
		value := opt.Value
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
			value = cursorStyle.Render(value)
		}
		fmt.Fprintf(&b, "%s%d. %s", marker, i+1, value)
		if opt.Detail != "" {
			b.WriteString("  ")
			b.WriteString(detailStyle.Render(opt.Detail))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move • enter select • q cancel"))
	b.WriteString("\n")
	return b.String()
}

// Pick shows an interactive single-choice list and returns the chosen value.
func Pick(title string, options []Option, in io.Reader, out io.Writer) (string, error) {
	if len(options) == 0 {
		return "", errors.New("picker has no options")
	}

	p := tea.NewProgram(newPickerModel(title, options), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("run picker: %w", err)
	}

	m, ok := final.(pickerModel)
	if !ok || m.cancelled || m.chosen < 0 {
		return "", ErrCancelled
	}
	return m.options[m.chosen].Value, nil
}

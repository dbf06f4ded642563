package tui

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)

	pickerErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Padding(1, 0, 0, 2)
)

type pickerModel struct {
	fp       filepicker.Model
	chosen   string
	quit     bool
	errorMsg string
}

func newPickerModel(dir string) pickerModel {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf", ".PDF"}
	fp.CurrentDirectory = dir
	return pickerModel{fp: fp}
}

func (m pickerModel) Init() tea.Cmd {
	return m.fp.Init()
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c", "esc":
			m.quit = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.fp, cmd = m.fp.Update(msg)

	if ok, path := m.fp.DidSelectFile(msg); ok {
		m.chosen = path
		return m, tea.Quit
	}
	if ok, path := m.fp.DidSelectDisabledFile(msg); ok {
		m.errorMsg = filepath.Base(path) + " is not a PDF"
		return m, cmd
	}
	return m, cmd
}

func (m pickerModel) View() string {
	s := pickerTitleStyle.Render("CareerLens: select a resume (PDF)") + "\n"
	s += m.fp.View()
	if m.errorMsg != "" {
		s += "\n" + pickerErrorStyle.Render("⚠ "+m.errorMsg)
	}
	s += "\n" + pickerHintStyle.Render("↑/↓/j/k navigate  ←/h back  →/l/enter open  q quit")
	return s
}

// RunFilePicker shows an interactive PDF selector rooted at dir (the working
// directory when empty). Returns the chosen path, or "" if the user quit.
func RunFilePicker(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}

	p := tea.NewProgram(newPickerModel(dir), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return "", err
	}

	final := result.(pickerModel)
	if final.quit {
		return "", nil
	}
	return final.chosen, nil
}

package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rowfit/rowfit/pkg/legality"
)

// violationsPerPage bounds the browser viewport.
const violationsPerPage = 15

// violationModel is the bubbletea model behind check --interactive: a
// scrollable list of audit findings.
type violationModel struct {
	design     string
	violations []legality.Violation
	cursor     int
	offset     int
}

// Init implements tea.Model.
func (m violationModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m violationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.violations)-1 {
				m.cursor++
			}
		case "g", "home":
			m.cursor = 0
		case "G", "end":
			m.cursor = len(m.violations) - 1
		}
		if m.cursor < m.offset {
			m.offset = m.cursor
		}
		if m.cursor >= m.offset+violationsPerPage {
			m.offset = m.cursor - violationsPerPage + 1
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m violationModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s — %d violations", m.design, len(m.violations))))
	b.WriteString("\n\n")

	end := m.offset + violationsPerPage
	if end > len(m.violations) {
		end = len(m.violations)
	}
	for i := m.offset; i < end; i++ {
		v := m.violations[i]
		line := fmt.Sprintf("%-12s %s", v.Kind, v.Detail)
		if v.Cell != "" {
			line = fmt.Sprintf("%-12s %-16s %s", v.Kind, v.Cell, v.Detail)
		}
		if i == m.cursor {
			b.WriteString(StyleValue.Render("> " + line))
		} else {
			b.WriteString(StyleDim.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d/%d  ↑/↓ scroll · q quit", m.cursor+1, len(m.violations))))
	b.WriteString("\n")
	return b.String()
}

// browseViolations runs the interactive violation browser.
func browseViolations(design string, violations []legality.Violation) error {
	model := violationModel{design: design, violations: violations}
	_, err := tea.NewProgram(model).Run()
	return err
}

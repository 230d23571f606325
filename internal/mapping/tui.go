package mapping

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// UI states
type state int

const (
	stateSelectHeader state = iota
	stateSelectField
	stateConfirm
)

// model drives the interactive mapping review: the left flow walks the
// export's headers, the field picker assigns each one a canonical field or
// marks it ignored.
type model struct {
	headers  []string
	fields   []Field
	assigned map[string]Field
	ignored  map[string]bool

	state       state
	cursor      int
	fieldCursor int
	saved       bool

	width  int
	height int

	titleStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	normalStyle   lipgloss.Style
	helpStyle     lipgloss.Style
	mappedStyle   lipgloss.Style
	ignoredStyle  lipgloss.Style
}

func initialModel(headers []string) model {
	return model{
		headers:  headers,
		fields:   Fields(),
		assigned: make(map[string]Field),
		ignored:  make(map[string]bool),
		state:    stateSelectHeader,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		selectedStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		normalStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		mappedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Padding(0, 1),
		ignoredStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true).
			Padding(0, 1),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch m.state {
		case stateSelectHeader:
			return m.updateSelectHeader(msg)
		case stateSelectField:
			return m.updateSelectField(msg)
		case stateConfirm:
			return m.updateConfirm(msg)
		}
	}
	return m, nil
}

func (m model) updateSelectHeader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.headers)-1 {
			m.cursor++
		}

	case "enter":
		if m.cursor < len(m.headers) {
			m.state = stateSelectField
			m.fieldCursor = 0
		}

	case "i":
		if m.cursor < len(m.headers) {
			header := m.headers[m.cursor]
			if m.ignored[header] {
				delete(m.ignored, header)
			} else {
				m.ignored[header] = true
				delete(m.assigned, header)
			}
		}

	case "n":
		m.moveToNextUnassigned()

	case "s":
		m.state = stateConfirm
	}
	return m, nil
}

func (m model) updateSelectField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc":
		m.state = stateSelectHeader
	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "j":
		if m.fieldCursor < len(m.fields)-1 {
			m.fieldCursor++
		}
	case "enter":
		header := m.headers[m.cursor]
		m.assigned[header] = m.fields[m.fieldCursor]
		delete(m.ignored, header)
		m.state = stateSelectHeader
		m.moveToNextUnassigned()
	}
	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "n":
		return m, tea.Quit
	case "y":
		m.saved = true
		return m, tea.Quit
	case "esc":
		m.state = stateSelectHeader
	}
	return m, nil
}

func (m *model) moveToNextUnassigned() {
	for i := 1; i <= len(m.headers); i++ {
		idx := (m.cursor + i) % len(m.headers)
		header := m.headers[idx]
		if _, ok := m.assigned[header]; !ok && !m.ignored[header] {
			m.cursor = idx
			return
		}
	}
}

func (m model) View() string {
	switch m.state {
	case stateSelectHeader:
		return m.viewSelectHeader()
	case stateSelectField:
		return m.viewSelectField()
	case stateConfirm:
		return m.viewConfirm()
	}
	return ""
}

func (m model) viewSelectHeader() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render("Column Mapping Review"))
	b.WriteString("\n\n")

	progress := fmt.Sprintf("Progress: %d/%d assigned (%d ignored)",
		len(m.assigned), len(m.headers), len(m.ignored))
	b.WriteString(m.helpStyle.Render(progress))
	b.WriteString("\n\n")

	for i, header := range m.headers {
		var style lipgloss.Style
		var display string

		if field, ok := m.assigned[header]; ok {
			display = fmt.Sprintf("%s -> %s", header, field)
			style = m.mappedStyle
		} else if m.ignored[header] {
			display = fmt.Sprintf("%s (ignored)", header)
			style = m.ignoredStyle
		} else {
			display = header
			style = m.normalStyle
		}

		if i == m.cursor {
			style = m.selectedStyle
		}
		b.WriteString(style.Render(display))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("↑↓: navigate | Enter: assign | i: ignore | n: next unassigned | s: save | q: quit"))
	return b.String()
}

func (m model) viewSelectField() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render(fmt.Sprintf("Assign '%s' to field:", m.headers[m.cursor])))
	b.WriteString("\n\n")

	for i, field := range m.fields {
		if i == m.fieldCursor {
			b.WriteString(m.selectedStyle.Render("> " + string(field)))
		} else {
			b.WriteString(m.normalStyle.Render("  " + string(field)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("↑↓: navigate | Enter: select | Esc: back | q: quit"))
	return b.String()
}

func (m model) viewConfirm() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render("Save Mapping File?"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Headers: %d\n", len(m.headers)))
	b.WriteString(fmt.Sprintf("Assigned: %d\n", len(m.assigned)))
	b.WriteString(fmt.Sprintf("Ignored: %d\n", len(m.ignored)))
	b.WriteString(fmt.Sprintf("Unassigned: %d\n", len(m.headers)-len(m.assigned)-len(m.ignored)))
	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("y/n to confirm, Esc to go back"))
	return b.String()
}

// RunMappingTUI opens the interactive review over the export's headers,
// pre-filled with the existing mapping file and any AI suggestions, and saves
// the result to mappingFile when the user confirms.
func RunMappingTUI(headers []string, suggestions map[string]Field, mappingFile string) error {
	if len(headers) == 0 {
		return fmt.Errorf("no headers to map")
	}

	m := initialModel(headers)
	for header, field := range suggestions {
		m.assigned[header] = field
	}

	if existing, err := LoadFromFile(mappingFile); err == nil {
		fmt.Printf("Loading existing mappings from %s\n", mappingFile)
		for _, fm := range existing.Mappings {
			if fm.Ignored {
				m.ignored[fm.Header] = true
				delete(m.assigned, fm.Header)
			} else if fm.Field != "" {
				m.assigned[fm.Header] = fm.Field
			}
		}
	}
	m.moveToNextUnassigned()

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running TUI: %v", err)
	}

	final := finalModel.(model)
	if !final.saved {
		fmt.Println("Mapping not saved")
		return nil
	}

	schema := &Schema{SchemaVersion: CurrentSchemaVersion}
	for _, header := range final.headers {
		if field, ok := final.assigned[header]; ok {
			schema.Mappings = append(schema.Mappings, FieldMapping{Header: header, Field: field})
		} else if final.ignored[header] {
			schema.Mappings = append(schema.Mappings, FieldMapping{Header: header, Ignored: true})
		}
	}
	if err := schema.SaveToFile(mappingFile); err != nil {
		return fmt.Errorf("failed to save mapping file: %v", err)
	}

	fmt.Printf("Mapping saved to %s (%d assigned, %d ignored)\n",
		mappingFile, len(final.assigned), len(final.ignored))
	return nil
}

// Package tui is the interactive terminal front end of a resource screen.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/taskdesk/internal/resource"
	"github.com/mesh-intelligence/taskdesk/internal/screen"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

// changedMsg tells the model that some screen state changed.
type changedMsg struct{}

// opMsg carries the outcome of a store round-trip.
type opMsg struct {
	op  string
	err error
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("28")).Padding(0, 1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("160")).Padding(0, 1)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	labelStyle   = lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color("243"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
)

// Model renders a screen.Screen and maps keys to its operations.
type Model struct {
	screen  *screen.Screen
	changes chan struct{}
	unsubs  []func()

	records []types.Record
	notice  screen.Notice
	target  string // ID being edited, empty when creating

	mode   mode
	cursor int
	fields []string
	inputs []textinput.Model
	focus  int
	busy   bool
	status string
}

// New builds a model over s and subscribes to its state. Call Close when
// the program exits.
func New(s *screen.Screen) Model {
	m := Model{
		screen:  s,
		changes: make(chan struct{}, 1),
		fields:  s.Schema().FieldNames(),
	}
	poke := func() {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	}
	m.unsubs = []func(){
		s.List.Subscribe(func([]types.Record) { poke() }),
		s.Edit.Subscribe(func(types.Record, bool) { poke() }),
		s.Notice.Subscribe(func(screen.Notice) { poke() }),
	}
	m.inputs = make([]textinput.Model, len(m.fields))
	for i, name := range m.fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholder(name)
		ti.CharLimit = 256
		ti.Width = 40
		m.inputs[i] = ti
	}
	m.sync()
	return m
}

// Run opens s in a full-screen program and blocks until the user quits.
func Run(s *screen.Screen) error {
	m := New(s)
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// Close drops the model's subscriptions.
func (m Model) Close() {
	for _, cancel := range m.unsubs {
		cancel()
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.run("load", m.screen.Open), m.listen())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.sync()
		return m, m.listen()
	case opMsg:
		return m.finish(msg), nil
	case tea.WindowSizeMsg:
		for i := range m.inputs {
			m.inputs[i].Width = max(msg.Width-20, 10)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg.String())
		default:
			return m.updateList(msg.String())
		}
	}
	return m, nil
}

func (m Model) updateList(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "down", "j":
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		return m, m.run("reload", m.screen.Reload)
	case "n", "a":
		m.screen.CancelEdit()
		m = m.openForm()
		return m, textinput.Blink
	case "e", "enter":
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.screen.SelectForEdit(r.ID); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.target = r.ID
		m = m.openForm()
		return m, textinput.Blink
	case "d", "x":
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.status = fmt.Sprintf("Delete %q? y/n", m.label(r))
	}
	return m, nil
}

func (m Model) updateConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y", "enter":
		r, ok := m.selected()
		m.mode = modeList
		m.status = ""
		if !ok {
			return m, nil
		}
		id := r.ID
		return m, m.run("delete", func(ctx context.Context) error { return m.screen.Delete(ctx, id) })
	default:
		m.mode = modeList
		m.status = "Cancelled"
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen.CancelEdit()
		m.mode = modeList
		m.target = ""
		m.status = ""
		return m, nil
	case "tab", "down":
		m = m.focusField((m.focus + 1) % len(m.inputs))
		return m, nil
	case "shift+tab", "up":
		m = m.focusField((m.focus + len(m.inputs) - 1) % len(m.inputs))
		return m, nil
	case "enter":
		if m.busy {
			return m, nil
		}
		m.busy = true
		f := m.formValues()
		return m, m.run("submit", func(ctx context.Context) error { return m.screen.Submit(ctx, f) })
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// finish applies the outcome of a round-trip. Notices arrive separately
// through changedMsg.
func (m Model) finish(msg opMsg) Model {
	m.sync()
	if msg.op == "submit" {
		m.busy = false
		if msg.err == nil {
			m.mode = modeList
			m.target = ""
			m.clearInputs()
		}
	}
	if msg.err != nil {
		m.status = msg.err.Error()
	} else {
		m.status = ""
	}
	return m
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(strings.ToUpper(m.screen.Schema().Collection())))
	b.WriteString("\n")
	switch m.notice {
	case screen.NoticeSuccess:
		b.WriteString(successStyle.Render(m.notice.Message()))
	case screen.NoticeError:
		b.WriteString(errorStyle.Render(m.notice.Message()))
	}
	b.WriteString("\n\n")

	if m.mode == modeForm {
		b.WriteString(m.viewForm())
	} else {
		b.WriteString(m.viewList())
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	b.WriteString("\n" + helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) viewList() string {
	if len(m.records) == 0 {
		return "Nothing here yet. Press n to add one.\n"
	}
	schema := m.screen.Schema()
	var b strings.Builder
	b.WriteString("  " + helpStyle.Render(strings.Join(schema.Headers(), " | ")) + "\n")
	for i, r := range m.records {
		line := strings.Join(schema.Columns(r), " | ")
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewForm() string {
	var b strings.Builder
	if m.target != "" {
		fmt.Fprintf(&b, "Editing %s\n\n", m.target)
	} else {
		fmt.Fprintf(&b, "New %s\n\n", strings.TrimSuffix(m.screen.Schema().Collection(), "s"))
	}
	for i, name := range m.fields {
		b.WriteString(labelStyle.Render(name) + m.inputs[i].View() + "\n")
	}
	return b.String()
}

func (m Model) help() string {
	switch m.mode {
	case modeForm:
		return "tab next field • enter save • esc cancel"
	case modeConfirmDelete:
		return "y confirm • any other key cancel"
	default:
		return "n new • e edit • d delete • r reload • q quit"
	}
}

// sync copies the screen state the view depends on.
func (m *Model) sync() {
	m.records = m.screen.List.Records()
	m.notice = m.screen.Notice.State()
	if m.cursor >= len(m.records) {
		m.cursor = max(len(m.records)-1, 0)
	}
	if m.mode == modeForm && m.target != "" && !m.screen.Edit.Editing() {
		// The target went away underneath the form, e.g. on sign-out.
		m.mode = modeList
		m.target = ""
	}
}

func (m Model) listen() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

func (m Model) run(op string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opMsg{op: op, err: fn(context.Background())}
	}
}

func (m Model) openForm() Model {
	m.mode = modeForm
	m.status = ""
	defaults := m.screen.FormDefaults()
	for i, name := range m.fields {
		m.inputs[i].SetValue(defaults[name])
	}
	return m.focusField(0)
}

func (m Model) focusField(i int) Model {
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.focus = i
	m.inputs[i].Focus()
	return m
}

func (m *Model) clearInputs() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = 0
}

func (m Model) formValues() resource.Fields {
	f := make(resource.Fields, len(m.fields))
	for i, name := range m.fields {
		f[name] = m.inputs[i].Value()
	}
	return f
}

func (m Model) selected() (types.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return types.Record{}, false
	}
	return m.records[m.cursor], true
}

func (m Model) label(r types.Record) string {
	cols := m.screen.Schema().Columns(r)
	if len(cols) == 0 {
		return r.ID
	}
	return cols[0]
}

func placeholder(field string) string {
	switch field {
	case types.FieldDueDate:
		return "YYYY-MM-DDTHH:MM"
	case types.FieldPriority:
		return "1"
	default:
		return field
	}
}

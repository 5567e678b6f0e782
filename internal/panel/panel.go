// Package panel is a terminal debug view of a session's UI state.
//
// The panel shows whether the mini-cart is open and offers OPEN and CLOSE
// controls. It reads the shared ui.State on every render and re-renders when
// any other writer of the same session changes it.
package panel

import (
	"context"
	"errors"
	"fmt"
	"storefront/pkg/ui"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Control is one of the panel buttons.
type Control int

const (
	ControlOpen Control = iota
	ControlClose

	controlCount
)

func (c Control) String() string {
	switch c {
	case ControlOpen:
		return "OPEN"
	case ControlClose:
		return "CLOSE"
	default:
		return fmt.Sprintf("Control(%d)", int(c))
	}
}

// changedMsg carries a new mini-cart value published by the state.
type changedMsg bool

// Model is the bubbletea model of the panel.
type Model struct {
	state   *ui.State
	changes <-chan bool
	stop    func()

	focus  Control
	keys   keyMap
	help   help.Model
	styles styles
}

// New binds a panel to st. Call Close when the panel is no longer used.
func New(st *ui.State) *Model {
	changes, stop := st.Changes()

	return &Model{
		state:   st,
		changes: changes,
		stop:    stop,
		focus:   ControlOpen,
		keys:    defaultKeys(),
		help:    help.New(),
		styles:  defaultStyles(),
	}
}

// Close stops listening for state changes. It is safe to call more than once.
func (m *Model) Close() {
	m.stop()
}

// Focused returns the control that enter and space press.
func (m *Model) Focused() Control {
	return m.focus
}

// Press runs the handler of control c.
func (m *Model) Press(c Control) {
	switch c {
	case ControlOpen:
		m.state.SetMiniCartOpen(true)
	case ControlClose:
		m.state.SetMiniCartOpen(false)
	}
}

func waitForChange(changes <-chan bool) tea.Cmd {
	return func() tea.Msg {
		open, ok := <-changes
		if !ok {
			return nil
		}

		return changedMsg(open)
	}
}

func (m *Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		// View reads the state itself; keep listening
		return m, waitForChange(m.changes)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Close()

			return m, tea.Quit
		case key.Matches(msg, m.keys.Open):
			m.focus = ControlOpen
			m.Press(ControlOpen)
		case key.Matches(msg, m.keys.Close):
			m.focus = ControlClose
			m.Press(ControlClose)
		case key.Matches(msg, m.keys.Next):
			m.focus = (m.focus + 1) % controlCount
		case key.Matches(msg, m.keys.Prev):
			m.focus = (m.focus + controlCount - 1) % controlCount
		case key.Matches(msg, m.keys.Press):
			m.Press(m.focus)
		}
	}

	return m, nil
}

// Status returns the readout line without styling.
func (m *Model) Status() string {
	if m.state.MiniCartOpen() {
		return "Cart is: OPEN"
	}

	return "Cart is: CLOSED"
}

func (m *Model) View() string {
	status := m.styles.Closed
	if m.state.MiniCartOpen() {
		status = m.styles.Open
	}

	buttons := make([]string, 0, controlCount)
	for c := range controlCount {
		style := m.styles.Button
		if c == m.focus {
			style = m.styles.Focused
		}
		buttons = append(buttons, style.Render(c.String()))
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("mini-cart debug"))
	b.WriteString("\n\n")
	b.WriteString(status.Render(m.Status()))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, buttons...))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return m.styles.Frame.Render(b.String())
}

// Run shows a panel for st on the terminal until the user quits or ctx ends.
func Run(ctx context.Context, st *ui.State, opts ...tea.ProgramOption) error {
	m := New(st)
	defer m.Close()

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}

		return fmt.Errorf("could not run panel: %w", err)
	}

	return nil
}

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "scanmask/internal/modules/session/dto"
	"scanmask/internal/ui/theme"
	sessionview "scanmask/internal/ui/views/session"
)

// FinishedMsg is sent once the session run has returned.
type FinishedMsg struct {
	Output sessiondto.RunOutput
	Err    error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	session sessionview.KeyMap
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys(session sessionview.KeyMap) keyMap {
	return keyMap{
		session: session,
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q", "esc"), key.WithHelp("q", "stop & quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.session.Louder, k.session.Softer, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.session.Louder, k.session.Softer},
		{k.session.Stop, k.Quit},
		{k.Help},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model for a live session. Timeline control
// and rendering belong to the session view; this level owns quitting, the
// help footer and the final result.
type Model struct {
	view     sessionview.Model
	keys     keyMap
	help     help.Model
	quitting bool
	finished bool
	result   FinishedMsg
	width    int
}

func NewModel(view sessionview.Model) Model {
	return Model{
		view: view,
		keys: defaultKeys(view.Keys()),
		help: help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.view.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case FinishedMsg:
		m.finished = true
		m.result = msg
		return m, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.finished {
				return m, tea.Quit
			}
			// The run returns once the engine reports the stop, which
			// arrives here as FinishedMsg.
			m.quitting = true
			m.view.Stop()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

// Result reports how the run ended, once it has.
func (m Model) Result() (FinishedMsg, bool) {
	return m.result, m.finished
}

func (m Model) View() string {
	parts := []string{theme.Title.Render("scanmask") + theme.Muted.Render("  adaptive noise masking"), m.view.View()}
	if line := m.statusLine(); line != "" {
		parts = append(parts, line)
	}
	parts = append(parts, m.help.View(m.keys))
	return theme.App.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) statusLine() string {
	switch {
	case m.finished && m.result.Err != nil:
		return theme.Bad.Render("error: " + m.result.Err.Error())
	case m.finished:
		s := m.result.Output.Session
		return theme.Muted.Render(fmt.Sprintf("session %s %s after %ds", shortID(s.ID), s.Outcome, s.DurationSeconds))
	case m.quitting:
		return theme.Muted.Render("stopping…")
	}
	return ""
}

func shortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

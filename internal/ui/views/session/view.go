package session

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	timelinedto "scanmask/internal/modules/timeline/dto"
	"scanmask/internal/ui/theme"
)

const VolumeStep = 0.05

// Port is the part of the timeline engine the live view controls.
type Port interface {
	SetVolumeScale(scale float64) error
	Stop()
}

// EventMsg carries one timeline event into the program.
type EventMsg struct {
	Event timelinedto.Event
}

type KeyMap struct {
	Louder key.Binding
	Softer key.Binding
	Stop   key.Binding
}

func DefaultKeys() KeyMap {
	return KeyMap{
		Louder: key.NewBinding(key.WithKeys("+", "=", "up"), key.WithHelp("+/↑", "louder")),
		Softer: key.NewBinding(key.WithKeys("-", "_", "down"), key.WithHelp("-/↓", "softer")),
		Stop:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
	}
}

type Model struct {
	port   Port
	keys   KeyMap
	bar    progress.Model
	title  string
	volume float64
	last   timelinedto.Progress
	status string
	err    error
	width  int
}

func New(port Port, title string, volume float64) Model {
	return Model{
		port:   port,
		keys:   DefaultKeys(),
		bar:    progress.New(progress.WithGradient(string(theme.Sapphire), string(theme.Lavender))),
		title:  title,
		volume: volume,
		status: "starting",
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(10, min(msg.Width-12, 72))

	case EventMsg:
		ev := msg.Event
		switch ev.Kind {
		case timelinedto.EventProgress:
			m.last = ev.Progress
			m.status = "running"
		case timelinedto.EventStopped:
			if m.status != "completed" {
				m.status = "stopped"
			}
		case timelinedto.EventCompleted:
			m.last.ProgressPercent = 100
			m.last.RemainingSeconds = 0
			m.status = "completed"
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Louder):
			m.adjust(VolumeStep)
		case key.Matches(msg, m.keys.Softer):
			m.adjust(-VolumeStep)
		case key.Matches(msg, m.keys.Stop):
			m.port.Stop()
		}
	}
	return m, nil
}

func (m *Model) adjust(delta float64) {
	next := math.Round((m.volume+delta)*100) / 100
	next = math.Max(0, math.Min(1, next))
	if next == m.volume {
		return
	}
	if err := m.port.SetVolumeScale(next); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.volume = next
}

// Stop asks the engine to stop the run being shown.
func (m Model) Stop() {
	m.port.Stop()
}

func (m Model) Volume() float64 { return m.volume }

func (m Model) Status() string { return m.status }

func (m Model) Keys() KeyMap { return m.keys }

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(m.title))
	b.WriteString("\n\n")
	label := m.last.PhaseLabel
	if label == "" {
		label = "waiting for first tick"
	}
	b.WriteString(theme.Phase.Render(label))
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(m.last.ProgressPercent / 100))
	b.WriteString("\n")
	b.WriteString(theme.Muted.Render(fmt.Sprintf("%s remaining · elapsed %s", clock(m.last.RemainingSeconds), clock(m.last.ElapsedSeconds))))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("volume %3.0f%%  applied %3.0f%%  ", m.volume*100, m.last.AppliedVolume*100))
	b.WriteString(m.renderStatus())
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(theme.Bad.Render(m.err.Error()))
	}
	return theme.Card.Render(b.String())
}

func (m Model) renderStatus() string {
	switch m.status {
	case "completed":
		return theme.Good.Render("● completed")
	case "stopped":
		return theme.Bad.Render("■ stopped")
	case "running":
		return theme.Hot.Render("▶ running")
	default:
		return lipgloss.NewStyle().Foreground(theme.Subtext0).Render("… " + m.status)
	}
}

func clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

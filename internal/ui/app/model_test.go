package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessiondto "scanmask/internal/modules/session/dto"
	sessionview "scanmask/internal/ui/views/session"
)

type stopCounter struct{ stops int }

func (s *stopCounter) SetVolumeScale(float64) error { return nil }
func (s *stopCounter) Stop()                        { s.stops++ }

func TestQuitStopsEngineThenWaitsForResult(t *testing.T) {
	t.Parallel()
	port := &stopCounter{}
	m := NewModel(sessionview.New(port, "Spine MRI with Pink Noise", 0.7))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, port.stops)
	assert.Contains(t, next.View(), "stopping")

	next, cmd = next.Update(FinishedMsg{Output: sessiondto.RunOutput{Session: sessiondto.SessionOutput{ID: "abcdef123456", Outcome: "stopped", DurationSeconds: 42}}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	result, ok := next.(Model).Result()
	require.True(t, ok)
	assert.Equal(t, "stopped", result.Output.Session.Outcome)
	assert.Contains(t, next.View(), "session abcdef12 stopped after 42s")
}

func TestHelpToggle(t *testing.T) {
	t.Parallel()
	m := NewModel(sessionview.New(&stopCounter{}, "x", 0.7))
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.True(t, next.(Model).help.ShowAll)
}

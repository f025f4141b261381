package watch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/zpnet/internal/diagnostics"
	"github.com/muurk/zpnet/internal/report"
)

func rows(name string) []report.Row {
	return []report.Row{{Name: name, Diagnostics: diagnostics.Diagnostics{Network: "office-ap", Channel: "6"}}}
}

func TestModel_RefreshCycle(t *testing.T) {
	calls := 0
	m := NewModel(context.Background(), func(ctx context.Context) ([]report.Row, error) {
		calls++
		return rows("Study"), nil
	}, time.Second)

	require.NotNil(t, m.Init())
	assert.True(t, m.loading)

	msg := m.fetch()()
	assert.Equal(t, 1, calls)

	next, cmd := m.Update(msg)
	m = next.(Model)
	assert.False(t, m.loading)
	assert.NotNil(t, cmd, "next refresh should be scheduled")
	assert.Equal(t, rows("Study"), m.Rows())

	view := m.View()
	assert.Contains(t, view, "updated ")
	assert.Contains(t, view, "Study")
	assert.Contains(t, view, "office-ap (6)")
	assert.Contains(t, view, "refresh")
}

func TestModel_ErrorKeepsPreviousRows(t *testing.T) {
	m := NewModel(context.Background(), nil, 0)
	assert.Equal(t, DefaultInterval, m.interval)

	next, _ := m.Update(refreshMsg{rows: rows("Study"), at: time.Now()})
	m = next.(Model)
	next, _ = m.Update(refreshMsg{err: errors.New("no route to host"), at: time.Now()})
	m = next.(Model)

	assert.Equal(t, rows("Study"), m.Rows())
	assert.Contains(t, m.View(), "Refresh failed: no route to host")
}

func TestModel_TickDoesNotOverlap(t *testing.T) {
	m := NewModel(context.Background(), nil, time.Second)

	_, cmd := m.Update(tickMsg{gen: m.gen, at: time.Now()})
	assert.Nil(t, cmd, "tick while loading must not start another refresh")

	next, _ := m.Update(refreshMsg{at: time.Now()})
	m = next.(Model)
	next, cmd = m.Update(tickMsg{gen: m.gen, at: time.Now()})
	assert.NotNil(t, cmd)
	assert.True(t, next.(Model).loading)
}

func TestModel_ManualRefreshDropsPendingTick(t *testing.T) {
	m := NewModel(context.Background(), nil, time.Second)
	next, _ := m.Update(refreshMsg{at: time.Now()})
	m = next.(Model)
	pending := tickMsg{gen: m.gen, at: time.Now()}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(Model)
	next, cmd := m.Update(refreshMsg{at: time.Now()})
	m = next.(Model)
	require.NotNil(t, cmd, "manual refresh schedules the next tick")

	next, cmd = m.Update(pending)
	assert.Nil(t, cmd, "tick scheduled before the manual refresh must be ignored")
	assert.False(t, next.(Model).loading)

	next, cmd = m.Update(tickMsg{gen: m.gen, at: time.Now()})
	assert.NotNil(t, cmd)
	assert.True(t, next.(Model).loading)
}

func TestModel_Keys(t *testing.T) {
	m := NewModel(context.Background(), nil, time.Second)
	next, _ := m.Update(refreshMsg{at: time.Now()})
	m = next.(Model)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.True(t, next.(Model).loading)
	assert.NotNil(t, cmd)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_WaitingView(t *testing.T) {
	m := NewModel(context.Background(), nil, time.Second)
	view := m.View()
	assert.Contains(t, view, "waiting for first answer")
	assert.True(t, strings.Contains(view, "Sonos"), "header should be shown before data arrives")
}

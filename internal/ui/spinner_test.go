package ui

import (
	"bytes"
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithSpinner_NonTerminalRunsDirectly(t *testing.T) {
	var buf bytes.Buffer
	called := false

	err := RunWithSpinner(context.Background(), &buf, "Querying", func(ctx context.Context) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, buf.String())
}

func TestRunWithSpinner_PropagatesError(t *testing.T) {
	want := errors.New("boom")
	err := RunWithSpinner(context.Background(), &bytes.Buffer{}, "Querying", func(ctx context.Context) error {
		return want
	})
	assert.ErrorIs(t, err, want)
}

func TestSpinnerModel(t *testing.T) {
	m := newSpinnerModel("Querying 3 devices")
	assert.Contains(t, m.View(), "Querying 3 devices")

	next, cmd := m.Update(doneMsg{err: errors.New("x")})
	done := next.(spinnerModel)
	assert.True(t, done.done)
	assert.EqualError(t, done.err, "x")
	assert.Empty(t, done.View())
	assert.NotNil(t, cmd)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, next.(spinnerModel).interrupted)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.False(t, next.(spinnerModel).done)
}

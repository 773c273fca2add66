package controller

import (
	"bytes"
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vdrm.dev/pkg/vdrm/internal/domain"
)

func TestTUI_DisplayReport_PrintsWhenNotATerminal(t *testing.T) {
	cmd, out := bufferedCmd()

	// A bytes.Buffer has no terminal size, so the report prints directly.
	err := NewTUI(cmd).DisplayReport(context.Background(), testReport())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "AZT")
	assert.Contains(t, out.String(), "35")
}

func TestTUI_DisplayScoreDelegates(t *testing.T) {
	cmd, out := bufferedCmd()

	score := testReport().Scores[1].Score
	err := NewTUI(cmd).DisplayScore(context.Background(), "SCORE FROM (41L => 15, 215FY => 20)", score)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "score: 35")
}

func TestTUI_DisplayCheckFindings(t *testing.T) {
	cmd, out := bufferedCmd()
	tui := NewTUI(cmd)

	require.NoError(t, tui.DisplayCheckFindings(context.Background(), 2, nil))
	assert.Contains(t, out.String(), "2 rule(s) OK")

	out.Reset()

	findings := []domain.CheckFinding{
		{Gene: "RT", Drug: "AZT", RuleText: "41L AND", Err: errors.New("parse error")},
	}
	require.NoError(t, tui.DisplayCheckFindings(context.Background(), 2, findings))

	assert.Contains(t, out.String(), "parse error")
	assert.Contains(t, out.String(), "1 of 2 rule(s) failed")
}

func TestTerminalSize_NonFileWriter(t *testing.T) {
	width, height := terminalSize(&bytes.Buffer{})
	assert.Equal(t, 0, width)
	assert.Equal(t, 0, height)
}

func TestReportModel(t *testing.T) {
	model := newReportModel(testReport(), "content\n", 0, 0)
	assert.Equal(t, 80, model.viewport.Width, "falls back to a sane default size")
	assert.Nil(t, model.Init())

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	resized, ok := updated.(reportModel)
	require.True(t, ok)
	assert.Equal(t, 120, resized.viewport.Width)
	assert.Equal(t, 38, resized.viewport.Height)

	assert.Contains(t, resized.View(), "ASI2")
	assert.Contains(t, resized.View(), "q quit")

	quit, cmd := resized.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)

	quitting, ok := quit.(reportModel)
	require.True(t, ok)
	assert.True(t, quitting.quitting)
	assert.Empty(t, quitting.View())
}

package dashboard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/geosched/internal/evaluator"
	"github.com/yourusername/geosched/internal/scheduler"
	"github.com/yourusername/geosched/internal/simulator"
)

func TestUpdateProgressMsgUpdatesLatestAndRequeues(t *testing.T) {
	progressCh := make(chan simulator.Progress, 1)
	doneCh := make(chan Result, 1)
	m := New(scheduler.ScenarioCheapestNow, progressCh, doneCh)

	next, cmd := m.Update(progressMsg(simulator.Progress{TickIndex: 2, TotalTicks: 5, Admitted: 3}))
	nm := next.(Model)

	assert.True(t, nm.started)
	assert.Equal(t, 2, nm.latest.TickIndex)
	assert.NotNil(t, cmd)
}

func TestUpdateDoneMsgMarksFinished(t *testing.T) {
	progressCh := make(chan simulator.Progress, 1)
	doneCh := make(chan Result, 1)
	m := New(scheduler.ScenarioCheapestNow, progressCh, doneCh)

	score := evaluator.Result{UtilPenalty: 0.5}
	next, _ := m.Update(doneMsg(Result{Schedule: 4, Score: score}))
	nm := next.(Model)

	require.True(t, nm.finished)
	assert.Equal(t, 0.5, nm.result.Score.UtilPenalty)
}

func TestUpdateQuitKeyReturnsQuitCmd(t *testing.T) {
	m := New(scheduler.ScenarioCheapestNow, nil, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
}

func TestViewShowsResultAfterFinish(t *testing.T) {
	m := New(scheduler.ScenarioCheapestNow, nil, nil)
	m.started = true
	m.finished = true
	m.latest = simulator.Progress{TickIndex: 5, TotalTicks: 5}
	m.result = Result{Score: evaluator.Result{UtilPenalty: 0.1, SLAPenalty: 0.9}}

	out := m.View()
	assert.Contains(t, out, "Result")
	assert.Contains(t, out, "0.100")
	assert.Contains(t, out, "0.900")
}

func TestViewBeforeStartShowsStarting(t *testing.T) {
	m := New(scheduler.ScenarioRandomFit, nil, nil)
	assert.Contains(t, m.View(), "starting")
}

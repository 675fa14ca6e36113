// Package dashboard renders a live Bubble Tea view over a running
// simulation (-liveplot): a progress bar over ticks, running admitted/
// dropped/migration counters, and the final evaluated scores once the run
// completes. Progress streams off a channel fed by a background goroutine
// running the simulation, rather than polling on a fixed interval.
package dashboard

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yourusername/geosched/internal/evaluator"
	"github.com/yourusername/geosched/internal/scheduler"
	"github.com/yourusername/geosched/internal/simulator"
)

// Result is what a run hands the dashboard once Simulate and Evaluate have
// both finished.
type Result struct {
	Schedule int // number of committed actions, kept lightweight for display
	Score    evaluator.Result
	Err      error
}

type progressMsg simulator.Progress
type doneMsg Result

// Model is the Bubble Tea model driving the live view. It never touches
// Cloud/Environment/Scheduler directly — it only ever consumes Progress
// snapshots and a final Result off channels a caller feeds from Run.
type Model struct {
	scenario scheduler.Scenario

	progressCh <-chan simulator.Progress
	doneCh     <-chan Result

	width, height int
	latest        simulator.Progress
	started       bool
	finished      bool
	result        Result
}

// New builds a Model that reads progress and completion off the given
// channels — Run wires these to a Simulator in a background goroutine.
func New(scenario scheduler.Scenario, progressCh <-chan simulator.Progress, doneCh <-chan Result) Model {
	return Model{scenario: scenario, progressCh: progressCh, doneCh: doneCh}
}

func waitForProgress(ch <-chan simulator.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg(p)
	}
}

func waitForDone(ch <-chan Result) tea.Cmd {
	return func() tea.Msg {
		return doneMsg(<-ch)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForProgress(m.progressCh), waitForDone(m.doneCh))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil

	case progressMsg:
		m.started = true
		m.latest = simulator.Progress(msg)
		if m.finished {
			return m, nil
		}
		return m, waitForProgress(m.progressCh)

	case doneMsg:
		m.finished = true
		m.result = Result(msg)
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	title := titleStyle.Render(fmt.Sprintf("geosched — %s", m.scenario))

	if !m.started && !m.finished {
		return boxStyle.Render(title + "\n\n" + labelStyle.Render("starting...")) + "\n"
	}

	frac := 0.0
	if m.latest.TotalTicks > 0 {
		frac = float64(m.latest.TickIndex) / float64(m.latest.TotalTicks)
	}

	body := title + "\n\n"
	body += renderBar("progress", frac, 48) + "\n\n"
	body += labelStyle.Render("tick:       ") + valueStyle.Render(fmt.Sprintf("%d / %d", m.latest.TickIndex, m.latest.TotalTicks)) + "\n"
	body += labelStyle.Render("admitted:   ") + valueStyle.Render(fmt.Sprintf("%d", m.latest.Admitted)) + "\n"
	body += labelStyle.Render("dropped:    ") + valueStyle.Render(fmt.Sprintf("%d", m.latest.Dropped)) + "\n"
	body += labelStyle.Render("migrations: ") + valueStyle.Render(fmt.Sprintf("%d", m.latest.Migrations)) + "\n"

	if m.finished {
		body += "\n" + renderResult(m.result)
	}

	return boxStyle.Render(body) + "\n" + labelStyle.Render("q to quit") + "\n"
}

func renderResult(r Result) string {
	if r.Err != nil {
		return critStyle.Render(fmt.Sprintf("evaluation failed: %v", r.Err))
	}

	s := r.Score
	out := titleStyle.Render("Result") + "\n\n"
	out += labelStyle.Render("IT energy:    ") + valueStyle.Render(fmt.Sprintf("%.2f kWh", s.Energy.ITEnergyKWh)) + "\n"
	out += labelStyle.Render("IT cost:      ") + valueStyle.Render(fmt.Sprintf("$%.2f", s.Energy.ITCostUSD)) + "\n"
	out += labelStyle.Render("Total energy: ") + valueStyle.Render(fmt.Sprintf("%.2f kWh", s.Energy.TotalEnergyKWh)) + "\n"
	out += labelStyle.Render("Total cost:   ") + valueStyle.Render(fmt.Sprintf("$%.2f", s.Energy.TotalCostUSD)) + "\n\n"

	out += labelStyle.Render("util penalty:       ") + penaltyStyle(s.UtilPenalty).Render(fmt.Sprintf("%.3f", s.UtilPenalty)) + "\n"
	out += labelStyle.Render("util-price penalty: ") + penaltyStyle(s.UtilPricePenalty).Render(fmt.Sprintf("%.3f", s.UtilPricePenalty)) + "\n"
	out += labelStyle.Render("constraint penalty: ") + penaltyStyle(s.ConstraintPenalty).Render(fmt.Sprintf("%.3f", s.ConstraintPenalty)) + "\n"
	out += labelStyle.Render("SLA penalty:        ") + penaltyStyle(s.SLAPenalty).Render(fmt.Sprintf("%.3f", s.SLAPenalty)) + "\n"

	return out
}

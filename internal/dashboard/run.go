package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yourusername/geosched/internal/cloudmodel"
	"github.com/yourusername/geosched/internal/environment"
	"github.com/yourusername/geosched/internal/evaluator"
	"github.com/yourusername/geosched/internal/scheduler"
	"github.com/yourusername/geosched/internal/simulator"
)

// Run drives sim to completion in the background, evaluates the resulting
// schedule, and blocks showing a live Bubble Tea view until the run
// finishes and the user quits. It's the -liveplot entrypoint: cmd/geosched
// calls this instead of calling sim.Run directly when stdout is a TTY.
func Run(sim *simulator.Simulator, cloud *cloudmodel.Cloud, env *environment.Environment, scenario scheduler.Scenario, evalCfg evaluator.Config, seed int64) (Result, error) {
	progressCh := make(chan simulator.Progress, 8)
	doneCh := make(chan Result, 1)

	go func() {
		defer close(progressCh)
		sched := sim.WithProgress(func(p simulator.Progress) { progressCh <- p }).Run(cloud, env)

		score, err := evaluator.Evaluate(cloud, env, sched, nil, evalCfg, seed)
		doneCh <- Result{Schedule: sched.Len(), Score: score, Err: err}
	}()

	model := New(scenario, progressCh, doneCh)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return Result{}, err
	}
	return final.(Model).result, nil
}
